package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"paywall-go/internal/model"
	"paywall-go/internal/paywall"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteLedger implements the paywall.Ledger interface using SQLite.
// Every write method runs as one transaction, so a failed operation leaves
// no partial state — the atomicity the engine is promised by its substrate.
type SQLiteLedger struct {
	db   *sql.DB
	path string
}

// NewSQLiteLedger creates a new SQLite ledger connection.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteLedger(path string) (*SQLiteLedger, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	return &SQLiteLedger{db: db, path: path}, nil
}

// NewSQLiteLedgerFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is configured.
func NewSQLiteLedgerFromDB(db *sql.DB) *SQLiteLedger {
	return &SQLiteLedger{db: db}
}

// OpenConnection opens and configures a SQLite connection with appropriate
// PRAGMAs. Exported for tools and tests that need a configured connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Foreign keys default to OFF in SQLite for backward compatibility.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// CheckMigrations verifies the schema is at the latest version.
func (l *SQLiteLedger) CheckMigrations() error {
	return checkMigrations(l.db)
}

// MigrateUp brings the schema to the latest version.
func (l *SQLiteLedger) MigrateUp() error {
	return migrateUp(l.db)
}

func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}

// begin starts a write transaction. Callers must defer tx.Rollback().
func (l *SQLiteLedger) begin() (*sql.Tx, error) {
	tx, err := l.db.BeginTx(context.Background(), nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	return tx, nil
}

// Publications

func (l *SQLiteLedger) GetPublication(id string) (*model.Publication, error) {
	row := l.db.QueryRow(`SELECT id, owner, name, description, basic_price, premium_price,
		free_tier_enabled, article_count, created_at FROM publications WHERE id = ?`, id)

	var p model.Publication
	var basic, premium int64
	err := row.Scan(&p.ID, &p.Owner, &p.Name, &p.Description, &basic, &premium,
		&p.FreeTierEnabled, &p.ArticleCount, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding publication: %w", err)
	}
	p.BasicPrice = uint64(basic)
	p.PremiumPrice = uint64(premium)
	return &p, nil
}

func (l *SQLiteLedger) CreatePublication(pub *model.Publication, stats *model.StatsLedger, pubCap, statsCap *model.OwnerCap, ev *model.Event) error {
	tx, err := l.begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO publications (id, owner, name, description, basic_price,
		premium_price, free_tier_enabled, article_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pub.ID, pub.Owner, pub.Name, pub.Description, int64(pub.BasicPrice),
		int64(pub.PremiumPrice), pub.FreeTierEnabled, pub.ArticleCount, pub.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting publication: %w", err)
	}

	_, err = tx.Exec(`INSERT INTO stats_ledgers (id, publication_id) VALUES (?, ?)`,
		stats.ID, stats.PublicationID)
	if err != nil {
		return fmt.Errorf("inserting stats ledger: %w", err)
	}

	for _, cap := range []*model.OwnerCap{pubCap, statsCap} {
		if err := insertCap(tx, cap); err != nil {
			return err
		}
	}

	if err := insertEvent(tx, ev); err != nil {
		return err
	}
	return tx.Commit()
}

func (l *SQLiteLedger) UpdatePublication(pub *model.Publication, ev *model.Event) error {
	tx, err := l.begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`UPDATE publications SET name = ?, description = ?, basic_price = ?,
		premium_price = ?, free_tier_enabled = ? WHERE id = ?`,
		pub.Name, pub.Description, int64(pub.BasicPrice), int64(pub.PremiumPrice),
		pub.FreeTierEnabled, pub.ID)
	if err != nil {
		return fmt.Errorf("updating publication: %w", err)
	}

	if err := insertEvent(tx, ev); err != nil {
		return err
	}
	return tx.Commit()
}

// Articles

func (l *SQLiteLedger) GetArticle(id string) (*model.Article, error) {
	return scanArticle(l.db.QueryRow(`SELECT id, publication_id, title, excerpt, required_tier,
		content_handle, key_ref, published_at, archived FROM articles WHERE id = ?`, id))
}

func (l *SQLiteLedger) ListArticles(publicationID string) ([]*model.Article, error) {
	rows, err := l.db.Query(`SELECT id, publication_id, title, excerpt, required_tier,
		content_handle, key_ref, published_at, archived FROM articles
		WHERE publication_id = ? ORDER BY published_at`, publicationID)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	defer rows.Close()

	var articles []*model.Article
	for rows.Next() {
		var a model.Article
		if err := rows.Scan(&a.ID, &a.PublicationID, &a.Title, &a.Excerpt, &a.RequiredTier,
			&a.ContentHandle, &a.KeyRef, &a.PublishedAt, &a.Archived); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		articles = append(articles, &a)
	}
	return articles, rows.Err()
}

func (l *SQLiteLedger) CreateArticle(article *model.Article, pub *model.Publication, treasury *model.Treasury, ev *model.Event) error {
	tx, err := l.begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO articles (id, publication_id, title, excerpt, required_tier,
		content_handle, key_ref, published_at, archived) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		article.ID, article.PublicationID, article.Title, article.Excerpt, article.RequiredTier,
		article.ContentHandle, article.KeyRef, article.PublishedAt, article.Archived)
	if err != nil {
		return fmt.Errorf("inserting article: %w", err)
	}

	_, err = tx.Exec(`UPDATE publications SET article_count = ? WHERE id = ?`,
		pub.ArticleCount, pub.ID)
	if err != nil {
		return fmt.Errorf("updating article count: %w", err)
	}

	if treasury != nil {
		if err := saveTreasury(tx, treasury); err != nil {
			return err
		}
	}

	if err := insertEvent(tx, ev); err != nil {
		return err
	}
	return tx.Commit()
}

func (l *SQLiteLedger) UpdateArticle(article *model.Article, ev *model.Event) error {
	tx, err := l.begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`UPDATE articles SET title = ?, excerpt = ?, archived = ? WHERE id = ?`,
		article.Title, article.Excerpt, article.Archived, article.ID)
	if err != nil {
		return fmt.Errorf("updating article: %w", err)
	}

	if err := insertEvent(tx, ev); err != nil {
		return err
	}
	return tx.Commit()
}

// Capabilities

func (l *SQLiteLedger) GetCap(id string) (*model.OwnerCap, error) {
	row := l.db.QueryRow(`SELECT id, subject_id, owner, created_at FROM owner_caps WHERE id = ?`, id)

	var c model.OwnerCap
	err := row.Scan(&c.ID, &c.SubjectID, &c.Owner, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding capability: %w", err)
	}
	return &c, nil
}

func (l *SQLiteLedger) CreateCap(cap *model.OwnerCap, ev *model.Event) error {
	tx, err := l.begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertCap(tx, cap); err != nil {
		return err
	}
	if err := insertEvent(tx, ev); err != nil {
		return err
	}
	return tx.Commit()
}

func (l *SQLiteLedger) TransferCap(cap *model.OwnerCap, ev *model.Event) error {
	tx, err := l.begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`UPDATE owner_caps SET owner = ? WHERE id = ?`, cap.Owner, cap.ID)
	if err != nil {
		return fmt.Errorf("updating capability owner: %w", err)
	}

	if err := insertEvent(tx, ev); err != nil {
		return err
	}
	return tx.Commit()
}

// Subscription passes

func (l *SQLiteLedger) GetPass(id string) (*model.SubscriptionPass, error) {
	row := l.db.QueryRow(`SELECT id, publication_id, tier, owner, subscriber, subscribed_at,
		expires_at FROM subscription_passes WHERE id = ?`, id)

	var p model.SubscriptionPass
	err := row.Scan(&p.ID, &p.PublicationID, &p.Tier, &p.Owner, &p.Subscriber,
		&p.SubscribedAt, &p.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding pass: %w", err)
	}
	return &p, nil
}

func (l *SQLiteLedger) CreatePass(pass *model.SubscriptionPass, stats *model.StatsLedger, st *paywall.Settlement, ev *model.Event) error {
	tx, err := l.begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO subscription_passes (id, publication_id, tier, owner,
		subscriber, subscribed_at, expires_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		pass.ID, pass.PublicationID, pass.Tier, pass.Owner, pass.Subscriber,
		pass.SubscribedAt, pass.ExpiresAt)
	if err != nil {
		return fmt.Errorf("inserting pass: %w", err)
	}

	if err := saveStats(tx, stats); err != nil {
		return err
	}
	if err := applySettlement(tx, st); err != nil {
		return err
	}
	if err := insertEvent(tx, ev); err != nil {
		return err
	}
	return tx.Commit()
}

func (l *SQLiteLedger) RenewPass(pass *model.SubscriptionPass, stats *model.StatsLedger, st *paywall.Settlement, ev *model.Event) error {
	tx, err := l.begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`UPDATE subscription_passes SET expires_at = ? WHERE id = ?`,
		pass.ExpiresAt, pass.ID)
	if err != nil {
		return fmt.Errorf("updating pass expiry: %w", err)
	}

	if err := saveStats(tx, stats); err != nil {
		return err
	}
	if err := applySettlement(tx, st); err != nil {
		return err
	}
	if err := insertEvent(tx, ev); err != nil {
		return err
	}
	return tx.Commit()
}

func (l *SQLiteLedger) TransferPass(pass *model.SubscriptionPass, ev *model.Event) error {
	tx, err := l.begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Owner only: subscriber and expiry never change on transfer.
	_, err = tx.Exec(`UPDATE subscription_passes SET owner = ? WHERE id = ?`, pass.Owner, pass.ID)
	if err != nil {
		return fmt.Errorf("updating pass owner: %w", err)
	}

	if err := insertEvent(tx, ev); err != nil {
		return err
	}
	return tx.Commit()
}

// Read tokens

func (l *SQLiteLedger) GetReadToken(id string) (*model.ReadToken, error) {
	row := l.db.QueryRow(`SELECT id, article_id, owner, created_at, expires_at
		FROM read_tokens WHERE id = ?`, id)

	var t model.ReadToken
	err := row.Scan(&t.ID, &t.ArticleID, &t.Owner, &t.CreatedAt, &t.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding read token: %w", err)
	}
	return &t, nil
}

func (l *SQLiteLedger) CreateReadToken(token *model.ReadToken, stats *model.StatsLedger, st *paywall.Settlement, ev *model.Event) error {
	tx, err := l.begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO read_tokens (id, article_id, owner, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)`,
		token.ID, token.ArticleID, token.Owner, token.CreatedAt, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("inserting read token: %w", err)
	}

	_, err = tx.Exec(`INSERT INTO article_views (publication_id, article_id, views)
		VALUES (?, ?, 1)
		ON CONFLICT(publication_id, article_id) DO UPDATE SET views = views + 1`,
		stats.PublicationID, token.ArticleID)
	if err != nil {
		return fmt.Errorf("recording view: %w", err)
	}

	if err := saveStats(tx, stats); err != nil {
		return err
	}
	if err := applySettlement(tx, st); err != nil {
		return err
	}
	if err := insertEvent(tx, ev); err != nil {
		return err
	}
	return tx.Commit()
}

func (l *SQLiteLedger) DeleteReadToken(id string, ev *model.Event) error {
	tx, err := l.begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM read_tokens WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting read token: %w", err)
	}

	if err := insertEvent(tx, ev); err != nil {
		return err
	}
	return tx.Commit()
}

func (l *SQLiteLedger) TransferReadToken(token *model.ReadToken, ev *model.Event) error {
	tx, err := l.begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`UPDATE read_tokens SET owner = ? WHERE id = ?`, token.Owner, token.ID)
	if err != nil {
		return fmt.Errorf("updating token owner: %w", err)
	}

	if err := insertEvent(tx, ev); err != nil {
		return err
	}
	return tx.Commit()
}

// Treasury

func (l *SQLiteLedger) GetTreasury() (*model.Treasury, error) {
	row := l.db.QueryRow(`SELECT balance, subscription_fee_bps, article_deposit_bps,
		total_fees_collected, total_deposits_collected FROM treasury WHERE id = 1`)

	var t model.Treasury
	var balance, fees, deposits int64
	err := row.Scan(&balance, &t.SubscriptionFeeBps, &t.ArticleDepositBps, &fees, &deposits)
	if err != nil {
		return nil, fmt.Errorf("loading treasury: %w", err)
	}
	t.Balance = uint64(balance)
	t.TotalFeesCollected = uint64(fees)
	t.TotalDepositsCollected = uint64(deposits)
	return &t, nil
}

func (l *SQLiteLedger) SettleTreasury(treasury *model.Treasury, payee model.Identity, amount uint64, ev *model.Event) error {
	tx, err := l.begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := saveTreasury(tx, treasury); err != nil {
		return err
	}
	if payee != "" {
		if err := creditBalance(tx, payee, amount); err != nil {
			return err
		}
	}
	if err := insertEvent(tx, ev); err != nil {
		return err
	}
	return tx.Commit()
}

// Royalties

func (l *SQLiteLedger) GetRoyaltyRule(publicationID string) (*model.RoyaltyRule, error) {
	row := l.db.QueryRow(`SELECT id, publication_id, amount_bps, min_amount, accrued
		FROM royalty_rules WHERE publication_id = ?`, publicationID)

	var r model.RoyaltyRule
	var min, accrued int64
	err := row.Scan(&r.ID, &r.PublicationID, &r.AmountBps, &min, &accrued)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding royalty rule: %w", err)
	}
	r.MinAmount = uint64(min)
	r.Accrued = uint64(accrued)
	return &r, nil
}

func (l *SQLiteLedger) CreateRoyaltyRule(rule *model.RoyaltyRule, ev *model.Event) error {
	tx, err := l.begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO royalty_rules (id, publication_id, amount_bps, min_amount, accrued)
		VALUES (?, ?, ?, ?, ?)`,
		rule.ID, rule.PublicationID, int64(rule.AmountBps), int64(rule.MinAmount), int64(rule.Accrued))
	if err != nil {
		return fmt.Errorf("inserting royalty rule: %w", err)
	}

	if err := insertEvent(tx, ev); err != nil {
		return err
	}
	return tx.Commit()
}

func (l *SQLiteLedger) FinalizeResale(pass *model.SubscriptionPass, rule *model.RoyaltyRule, ev *model.Event) error {
	tx, err := l.begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`UPDATE subscription_passes SET owner = ? WHERE id = ?`, pass.Owner, pass.ID)
	if err != nil {
		return fmt.Errorf("updating pass owner: %w", err)
	}

	if rule != nil {
		if err := saveRoyaltyRule(tx, rule); err != nil {
			return err
		}
	}

	if err := insertEvent(tx, ev); err != nil {
		return err
	}
	return tx.Commit()
}

func (l *SQLiteLedger) SettleRoyalties(rule *model.RoyaltyRule, payee model.Identity, amount uint64, ev *model.Event) error {
	tx, err := l.begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := saveRoyaltyRule(tx, rule); err != nil {
		return err
	}
	if err := creditBalance(tx, payee, amount); err != nil {
		return err
	}
	if err := insertEvent(tx, ev); err != nil {
		return err
	}
	return tx.Commit()
}

// Stats

func (l *SQLiteLedger) GetStats(publicationID string) (*model.StatsLedger, error) {
	row := l.db.QueryRow(`SELECT id, publication_id, free_subscribers, basic_subscribers,
		premium_subscribers, total_revenue FROM stats_ledgers WHERE publication_id = ?`, publicationID)

	var s model.StatsLedger
	var revenue int64
	err := row.Scan(&s.ID, &s.PublicationID, &s.FreeSubscribers, &s.BasicSubscribers,
		&s.PremiumSubscribers, &revenue)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding stats ledger: %w", err)
	}
	s.TotalRevenue = uint64(revenue)
	return &s, nil
}

func (l *SQLiteLedger) GetArticleViews(publicationID string) (map[string]int64, error) {
	rows, err := l.db.Query(`SELECT article_id, views FROM article_views WHERE publication_id = ?`,
		publicationID)
	if err != nil {
		return nil, fmt.Errorf("listing article views: %w", err)
	}
	defer rows.Close()

	views := make(map[string]int64)
	for rows.Next() {
		var articleID string
		var count int64
		if err := rows.Scan(&articleID, &count); err != nil {
			return nil, fmt.Errorf("scanning article views: %w", err)
		}
		views[articleID] = count
	}
	return views, rows.Err()
}

// Balances and events

func (l *SQLiteLedger) GetBalance(owner model.Identity) (uint64, error) {
	row := l.db.QueryRow(`SELECT amount FROM balances WHERE owner = ?`, owner)

	var amount int64
	err := row.Scan(&amount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("loading balance: %w", err)
	}
	return uint64(amount), nil
}

func (l *SQLiteLedger) ListEvents(limit int) ([]*model.Event, error) {
	rows, err := l.db.Query(`SELECT id, kind, actor, subject_id, amount, note, at
		FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		var e model.Event
		var amount int64
		if err := rows.Scan(&e.ID, &e.Kind, &e.Actor, &e.SubjectID, &amount, &e.Note, &e.At); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		e.Amount = uint64(amount)
		events = append(events, &e)
	}
	return events, rows.Err()
}

// Helpers shared by the transactional writers.

func scanArticle(row *sql.Row) (*model.Article, error) {
	var a model.Article
	err := row.Scan(&a.ID, &a.PublicationID, &a.Title, &a.Excerpt, &a.RequiredTier,
		&a.ContentHandle, &a.KeyRef, &a.PublishedAt, &a.Archived)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding article: %w", err)
	}
	return &a, nil
}

func insertCap(tx *sql.Tx, cap *model.OwnerCap) error {
	_, err := tx.Exec(`INSERT INTO owner_caps (id, subject_id, owner, created_at)
		VALUES (?, ?, ?, ?)`, cap.ID, cap.SubjectID, cap.Owner, cap.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting capability: %w", err)
	}
	return nil
}

func insertEvent(tx *sql.Tx, ev *model.Event) error {
	res, err := tx.Exec(`INSERT INTO events (kind, actor, subject_id, amount, note, at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ev.Kind, ev.Actor, ev.SubjectID, int64(ev.Amount), ev.Note, ev.At)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	if ev.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("reading event id: %w", err)
	}
	return nil
}

func saveTreasury(tx *sql.Tx, t *model.Treasury) error {
	_, err := tx.Exec(`UPDATE treasury SET balance = ?, subscription_fee_bps = ?,
		article_deposit_bps = ?, total_fees_collected = ?, total_deposits_collected = ?
		WHERE id = 1`,
		int64(t.Balance), int64(t.SubscriptionFeeBps), int64(t.ArticleDepositBps),
		int64(t.TotalFeesCollected), int64(t.TotalDepositsCollected))
	if err != nil {
		return fmt.Errorf("updating treasury: %w", err)
	}
	return nil
}

func saveStats(tx *sql.Tx, s *model.StatsLedger) error {
	_, err := tx.Exec(`UPDATE stats_ledgers SET free_subscribers = ?, basic_subscribers = ?,
		premium_subscribers = ?, total_revenue = ? WHERE id = ?`,
		s.FreeSubscribers, s.BasicSubscribers, s.PremiumSubscribers, int64(s.TotalRevenue), s.ID)
	if err != nil {
		return fmt.Errorf("updating stats ledger: %w", err)
	}
	return nil
}

func saveRoyaltyRule(tx *sql.Tx, r *model.RoyaltyRule) error {
	_, err := tx.Exec(`UPDATE royalty_rules SET amount_bps = ?, min_amount = ?, accrued = ?
		WHERE id = ?`, int64(r.AmountBps), int64(r.MinAmount), int64(r.Accrued), r.ID)
	if err != nil {
		return fmt.Errorf("updating royalty rule: %w", err)
	}
	return nil
}

func creditBalance(tx *sql.Tx, owner model.Identity, amount uint64) error {
	_, err := tx.Exec(`INSERT INTO balances (owner, amount) VALUES (?, ?)
		ON CONFLICT(owner) DO UPDATE SET amount = amount + excluded.amount`,
		owner, int64(amount))
	if err != nil {
		return fmt.Errorf("crediting balance: %w", err)
	}
	return nil
}

// applySettlement persists the monetary effect of a purchase inside the
// same transaction: updated treasury totals plus the payee's credit.
func applySettlement(tx *sql.Tx, st *paywall.Settlement) error {
	if st == nil {
		return nil
	}
	if st.Treasury != nil {
		if err := saveTreasury(tx, st.Treasury); err != nil {
			return err
		}
	}
	if st.Payee != "" && st.Amount > 0 {
		if err := creditBalance(tx, st.Payee, st.Amount); err != nil {
			return err
		}
	}
	return nil
}

// Compile-time check that SQLiteLedger implements the Ledger interface.
var _ paywall.Ledger = (*SQLiteLedger)(nil)
