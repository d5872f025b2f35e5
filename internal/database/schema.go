package database

// Schema is the full current ledger schema, kept in step with the files in
// migrations/files. Tests apply it directly to in-memory databases instead
// of running the migration pipeline.
const Schema = `
CREATE TABLE publications (
    id TEXT PRIMARY KEY,
    owner TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    basic_price INTEGER NOT NULL,
    premium_price INTEGER NOT NULL,
    free_tier_enabled INTEGER NOT NULL DEFAULT 0,
    article_count INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    CHECK (premium_price >= basic_price)
);

CREATE TABLE owner_caps (
    id TEXT PRIMARY KEY,
    subject_id TEXT NOT NULL UNIQUE,
    owner TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE articles (
    id TEXT PRIMARY KEY,
    publication_id TEXT NOT NULL REFERENCES publications(id),
    title TEXT NOT NULL,
    excerpt TEXT NOT NULL DEFAULT '',
    required_tier TEXT NOT NULL,
    content_handle TEXT NOT NULL,
    key_ref TEXT NOT NULL DEFAULT '',
    published_at TIMESTAMP NOT NULL,
    archived INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX idx_articles_publication ON articles(publication_id);

CREATE TABLE subscription_passes (
    id TEXT PRIMARY KEY,
    publication_id TEXT NOT NULL REFERENCES publications(id),
    tier TEXT NOT NULL,
    owner TEXT NOT NULL,
    subscriber TEXT NOT NULL,
    subscribed_at TIMESTAMP NOT NULL,
    expires_at TIMESTAMP NOT NULL
);

CREATE INDEX idx_passes_owner ON subscription_passes(owner);

CREATE TABLE read_tokens (
    id TEXT PRIMARY KEY,
    article_id TEXT NOT NULL REFERENCES articles(id),
    owner TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    expires_at TIMESTAMP NOT NULL
);

CREATE TABLE treasury (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    balance INTEGER NOT NULL DEFAULT 0,
    subscription_fee_bps INTEGER NOT NULL,
    article_deposit_bps INTEGER NOT NULL,
    total_fees_collected INTEGER NOT NULL DEFAULT 0,
    total_deposits_collected INTEGER NOT NULL DEFAULT 0
);

INSERT INTO treasury (id, balance, subscription_fee_bps, article_deposit_bps, total_fees_collected, total_deposits_collected)
VALUES (1, 0, 250, 100, 0, 0);

CREATE TABLE royalty_rules (
    id TEXT PRIMARY KEY,
    publication_id TEXT NOT NULL UNIQUE REFERENCES publications(id),
    amount_bps INTEGER NOT NULL,
    min_amount INTEGER NOT NULL,
    accrued INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE stats_ledgers (
    id TEXT PRIMARY KEY,
    publication_id TEXT NOT NULL UNIQUE REFERENCES publications(id),
    free_subscribers INTEGER NOT NULL DEFAULT 0,
    basic_subscribers INTEGER NOT NULL DEFAULT 0,
    premium_subscribers INTEGER NOT NULL DEFAULT 0,
    total_revenue INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE article_views (
    publication_id TEXT NOT NULL,
    article_id TEXT NOT NULL,
    views INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (publication_id, article_id)
);

CREATE TABLE balances (
    owner TEXT PRIMARY KEY,
    amount INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    kind TEXT NOT NULL,
    actor TEXT NOT NULL,
    subject_id TEXT NOT NULL,
    amount INTEGER NOT NULL DEFAULT 0,
    note TEXT NOT NULL DEFAULT '',
    at TIMESTAMP NOT NULL
);
`
