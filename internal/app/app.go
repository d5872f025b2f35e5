package app

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"paywall-go/internal/config"
	"paywall-go/internal/database"
	"paywall-go/internal/model"
	"paywall-go/internal/paywall"
	"paywall-go/internal/store"
)

// migrator is implemented by ledgers backed by a migratable schema.
type migrator interface {
	CheckMigrations() error
	MigrateUp() error
}

// App is the application layer between the CLI and the paywall Service.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw string IDs, and manages the ledger lifecycle on Close.
type App struct {
	cfg     *config.Config
	ledger  paywall.Ledger
	store   paywall.ContentStore
	service *paywall.Service
	logFile *os.File
}

// NewApp creates a fully wired App from the given config.
// operation identifies the CLI command being run (e.g. "Subscribe", "PublishArticle").
// The caller must call Close when done.
func NewApp(cfg *config.Config, operation string) (*App, error) {
	cs, err := store.NewStoreFromConfig(cfg.Store, cfg.Keys)
	if err != nil {
		return nil, fmt.Errorf("creating content store: %w", err)
	}

	ledger, err := database.NewLedgerFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating ledger: %w", err)
	}

	// In-memory ledgers come pre-migrated from the factory.
	if cfg.Database.Type == "sqlite" {
		if m, ok := ledger.(migrator); ok {
			if err := m.CheckMigrations(); err != nil {
				ledger.Close()
				return nil, fmt.Errorf("ledger schema out of date (run 'paywall init'): %w", err)
			}
		}
	}

	opID := time.Now().UTC().Format("20060102T150405Z") + "-" + operation
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		ledger.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	svc := paywall.NewService(ledger, cs, &slogAdapter{l: logger}, paywall.RealClock{}, paywall.UUIDGenerator{})

	return &App{
		cfg:     cfg,
		ledger:  ledger,
		store:   cs,
		service: svc,
		logFile: logFile,
	}, nil
}

// Setup prepares the configured environment for first use: directories,
// ledger schema, and (for sealed stores) the content key pair.
func Setup(cfg *config.Config, passphrase string) error {
	for _, dir := range []string{cfg.BaseDir, cfg.LogDir, cfg.Database.DataDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	ledger, err := database.NewLedgerFromConfig(cfg.Database)
	if err != nil {
		return fmt.Errorf("creating ledger: %w", err)
	}
	defer ledger.Close()

	if cfg.Database.Type == "sqlite" {
		m, ok := ledger.(migrator)
		if !ok {
			return fmt.Errorf("ledger does not support migrations")
		}
		if err := m.MigrateUp(); err != nil {
			return fmt.Errorf("migrating ledger: %w", err)
		}
	}

	if cfg.Store.Sealed {
		sealed := store.NewSealedStore(nil, cfg.Keys)
		if sealed.IsConfigured() {
			return nil
		}
		if passphrase == "" {
			return fmt.Errorf("sealed store requires a passphrase for key setup")
		}
		if err := sealed.Setup(passphrase); err != nil {
			return fmt.Errorf("setting up content keys: %w", err)
		}
	}

	return nil
}

// Operator returns the configured operator identity.
func (a *App) Operator() model.Identity {
	return model.Identity(a.cfg.OperatorID)
}

// resolveCap loads a capability by ID, failing if it does not exist.
func (a *App) resolveCap(capID string) (*model.OwnerCap, error) {
	c, err := a.service.Cap(capID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("capability not found: %s", capID)
	}
	return c, nil
}

// Publications

// CreatePublication registers a publication owned by the given identity and
// returns it together with its owner and stats capabilities.
func (a *App) CreatePublication(owner, name, description string, basicPrice, premiumPrice uint64, freeTier bool) (*model.Publication, *model.OwnerCap, *model.OwnerCap, error) {
	return a.service.CreatePublication(model.Identity(owner), name, description, basicPrice, premiumPrice, freeTier)
}

// Publication returns a publication by ID.
func (a *App) Publication(id string) (*model.Publication, error) {
	return a.service.Publication(id)
}

// UpdatePricing changes a publication's tier prices.
func (a *App) UpdatePricing(capID, publicationID string, basicPrice, premiumPrice uint64) (*model.Publication, error) {
	c, err := a.resolveCap(capID)
	if err != nil {
		return nil, err
	}
	return a.service.UpdatePricing(c, publicationID, basicPrice, premiumPrice)
}

// ToggleFreeTier enables or disables a publication's free tier.
func (a *App) ToggleFreeTier(capID, publicationID string, enabled bool) (*model.Publication, error) {
	c, err := a.resolveCap(capID)
	if err != nil {
		return nil, err
	}
	return a.service.ToggleFreeTier(c, publicationID, enabled)
}

// Articles

// PublishArticle reads article content from contentPath and publishes it
// under the given publication at the given tier.
func (a *App) PublishArticle(capID, publicationID, title, excerpt, tier, contentPath string) (*model.Article, error) {
	c, err := a.resolveCap(capID)
	if err != nil {
		return nil, err
	}

	t, ok := model.ParseTier(tier)
	if !ok {
		return nil, fmt.Errorf("unknown tier: %s", tier)
	}

	f, err := os.Open(contentPath)
	if err != nil {
		return nil, fmt.Errorf("opening content file: %w", err)
	}
	defer f.Close()

	return a.service.PublishArticle(c, publicationID, title, excerpt, t, f)
}

// Article returns an article by ID.
func (a *App) Article(id string) (*model.Article, error) {
	return a.service.Article(id)
}

// Articles lists all articles of a publication.
func (a *App) Articles(publicationID string) ([]*model.Article, error) {
	return a.service.Articles(publicationID)
}

// ArchiveArticle hides an article from access resolution.
func (a *App) ArchiveArticle(capID, articleID string) (*model.Article, error) {
	c, err := a.resolveCap(capID)
	if err != nil {
		return nil, err
	}
	return a.service.ArchiveArticle(c, articleID)
}

// UnarchiveArticle restores an archived article.
func (a *App) UnarchiveArticle(capID, articleID string) (*model.Article, error) {
	c, err := a.resolveCap(capID)
	if err != nil {
		return nil, err
	}
	return a.service.UnarchiveArticle(c, articleID)
}

// SetArticleMeta updates an article's title and excerpt.
func (a *App) SetArticleMeta(capID, articleID, title, excerpt string) (*model.Article, error) {
	c, err := a.resolveCap(capID)
	if err != nil {
		return nil, err
	}
	return a.service.SetArticleMeta(c, articleID, title, excerpt)
}

// Subscriptions

// Subscribe purchases a subscription pass for the given identity.
func (a *App) Subscribe(publicationID, tier string, payment uint64, subscriber string) (*model.SubscriptionPass, error) {
	t, ok := model.ParseTier(tier)
	if !ok {
		return nil, fmt.Errorf("unknown tier: %s", tier)
	}
	return a.service.Subscribe(publicationID, t, payment, model.Identity(subscriber))
}

// Renew extends a subscription pass by one period.
func (a *App) Renew(passID, publicationID string, payment uint64) (*model.SubscriptionPass, error) {
	return a.service.Renew(passID, publicationID, payment)
}

// Pass returns a subscription pass by ID.
func (a *App) Pass(id string) (*model.SubscriptionPass, error) {
	return a.service.Pass(id)
}

// TransferPass gifts a pass to another identity. No payment is involved.
func (a *App) TransferPass(passID, from, to string) (*model.SubscriptionPass, error) {
	return a.service.TransferPass(passID, model.Identity(from), model.Identity(to))
}

// Resell finalizes a pass sale from seller to buyer, enforcing the
// publication's royalty rule on the sale price.
func (a *App) Resell(passID string, salePrice, royaltyPayment uint64, seller, buyer string) (*model.SubscriptionPass, error) {
	return a.service.FinalizeResale(passID, salePrice, royaltyPayment, model.Identity(seller), model.Identity(buyer))
}

// Read tokens

// GenerateReadToken purchases single-article access for the given identity.
func (a *App) GenerateReadToken(articleID, publicationID string, payment uint64, owner string) (*model.ReadToken, error) {
	return a.service.GenerateReadToken(articleID, publicationID, payment, model.Identity(owner))
}

// ConsumeReadToken redeems and deletes a read token.
func (a *App) ConsumeReadToken(tokenID, owner string) error {
	return a.service.ConsumeReadToken(tokenID, model.Identity(owner))
}

// TransferReadToken gifts an unused read token to another identity.
func (a *App) TransferReadToken(tokenID, from, to string) (*model.ReadToken, error) {
	return a.service.TransferReadToken(tokenID, model.Identity(from), model.Identity(to))
}

// Access

// CheckAccess reports whether the given credentials grant access to the
// article. Empty credential IDs are simply not consulted.
func (a *App) CheckAccess(articleID, passID, tokenID string) (bool, error) {
	return a.service.CheckAccess(articleID, passID, tokenID)
}

// FetchArticle checks access and writes the article content to w.
// For sealed stores a passphrase unlocks the content key; without one the
// raw ciphertext is written.
func (a *App) FetchArticle(articleID, passID, tokenID string, w io.Writer, passphrase string) (*model.Article, error) {
	sealed, isSealed := a.store.(*store.SealedStore)
	if !isSealed || passphrase == "" {
		return a.service.FetchArticle(articleID, passID, tokenID, w)
	}

	unsealer, err := sealed.Unlock(passphrase)
	if err != nil {
		return nil, err
	}

	var ciphertext bytes.Buffer
	article, err := a.service.FetchArticle(articleID, passID, tokenID, &ciphertext)
	if err != nil {
		return nil, err
	}
	if err := unsealer.Unseal(&ciphertext, w); err != nil {
		return nil, err
	}
	return article, nil
}

// Treasury

// Treasury returns the current treasury state.
func (a *App) Treasury() (*model.Treasury, error) {
	return a.service.Treasury()
}

// InitTreasuryAdmin mints the one-time treasury admin capability for the
// configured operator.
func (a *App) InitTreasuryAdmin() (*model.OwnerCap, error) {
	return a.service.InitTreasuryAdmin(a.Operator())
}

// Withdraw moves accumulated fees out of the treasury to a recipient.
func (a *App) Withdraw(capID string, amount uint64, recipient string) (*model.Treasury, error) {
	c, err := a.resolveCap(capID)
	if err != nil {
		return nil, err
	}
	return a.service.Withdraw(c, amount, model.Identity(recipient))
}

// UpdateFeeRates changes the platform fee rates.
func (a *App) UpdateFeeRates(capID string, subscriptionBps, depositBps uint64) (*model.Treasury, error) {
	c, err := a.resolveCap(capID)
	if err != nil {
		return nil, err
	}
	return a.service.UpdateFeeRates(c, subscriptionBps, depositBps)
}

// Royalties

// AddRoyaltyRule attaches a resale royalty rule to a publication.
func (a *App) AddRoyaltyRule(capID, publicationID string, amountBps, minAmount uint64) (*model.RoyaltyRule, error) {
	c, err := a.resolveCap(capID)
	if err != nil {
		return nil, err
	}
	return a.service.AddRoyaltyRule(c, publicationID, amountBps, minAmount)
}

// WithdrawRoyalties pays accrued royalties out to the publication owner.
// amount of zero withdraws the full accrued balance.
func (a *App) WithdrawRoyalties(capID, publicationID string, amount uint64) (uint64, error) {
	c, err := a.resolveCap(capID)
	if err != nil {
		return 0, err
	}
	return a.service.WithdrawRoyalties(c, publicationID, amount)
}

// Stats and history

// Stats returns a publication's aggregate counters and per-article views.
// Requires the publication's stats capability.
func (a *App) Stats(capID, publicationID string) (*model.StatsLedger, map[string]int64, error) {
	c, err := a.resolveCap(capID)
	if err != nil {
		return nil, nil, err
	}
	return a.service.Stats(c, publicationID)
}

// History returns the most recent ledger events.
func (a *App) History(limit int) ([]*model.Event, error) {
	return a.service.History(limit)
}

// Balance returns an identity's accumulated credit.
func (a *App) Balance(owner string) (uint64, error) {
	return a.service.Balance(model.Identity(owner))
}

// Cap returns a capability by ID.
func (a *App) Cap(id string) (*model.OwnerCap, error) {
	return a.resolveCap(id)
}

// TransferCap hands a capability to a new holder.
func (a *App) TransferCap(capID, from, to string) (*model.OwnerCap, error) {
	return a.service.TransferCap(capID, model.Identity(from), model.Identity(to))
}

// Close releases the ledger and the log file.
func (a *App) Close() error {
	var firstErr error

	if err := a.ledger.Close(); err != nil {
		firstErr = fmt.Errorf("closing ledger: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
