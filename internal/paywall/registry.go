package paywall

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"paywall-go/internal/model"
)

// CreatePublication registers a new publication and mints its two
// capabilities: one controlling the publication, one controlling its stats
// ledger. Both are handed to the creator.
func (s *Service) CreatePublication(owner model.Identity, name, description string, basicPrice, premiumPrice uint64, freeTier bool) (*model.Publication, *model.OwnerCap, *model.OwnerCap, error) {
	if name == "" {
		return nil, nil, nil, errValidation(CodeNameEmpty, "publication name is empty")
	}
	if premiumPrice < basicPrice {
		return nil, nil, nil, errValidation(CodePriceOrdering, "premium price %d below basic price %d", premiumPrice, basicPrice)
	}

	now := s.clock.Now()
	pub := &model.Publication{
		ID:              s.idgen.New(),
		Owner:           owner,
		Name:            name,
		Description:     description,
		BasicPrice:      basicPrice,
		PremiumPrice:    premiumPrice,
		FreeTierEnabled: freeTier,
		CreatedAt:       now,
	}
	stats := &model.StatsLedger{
		ID:            s.idgen.New(),
		PublicationID: pub.ID,
	}
	pubCap := &model.OwnerCap{ID: s.idgen.New(), SubjectID: pub.ID, Owner: owner, CreatedAt: now}
	statsCap := &model.OwnerCap{ID: s.idgen.New(), SubjectID: stats.ID, Owner: owner, CreatedAt: now}

	ev := s.newEvent(EventPublicationCreated, owner, pub.ID, 0, "name="+name)
	if err := s.ledger.CreatePublication(pub, stats, pubCap, statsCap, ev); err != nil {
		return nil, nil, nil, fmt.Errorf("creating publication: %w", err)
	}

	s.logger.Info("publication created", "publication", pub.ID, "owner", owner)
	return pub, pubCap, statsCap, nil
}

// Publication loads a publication by ID.
func (s *Service) Publication(id string) (*model.Publication, error) {
	pub, err := s.ledger.GetPublication(id)
	if err != nil {
		return nil, err
	}
	if pub == nil {
		return nil, errMismatch(CodeNotFound, "publication not found: %s", id)
	}
	return pub, nil
}

// UpdatePricing changes a publication's tier prices. The capability must be
// bound to the publication and the new prices must keep premium >= basic.
func (s *Service) UpdatePricing(cap *model.OwnerCap, publicationID string, basicPrice, premiumPrice uint64) (*model.Publication, error) {
	pub, err := s.Publication(publicationID)
	if err != nil {
		return nil, err
	}
	if err := requireCap(cap, pub.ID); err != nil {
		return nil, err
	}
	if premiumPrice < basicPrice {
		return nil, errValidation(CodePriceOrdering, "premium price %d below basic price %d", premiumPrice, basicPrice)
	}

	pub.BasicPrice = basicPrice
	pub.PremiumPrice = premiumPrice
	ev := s.newEvent(EventPricingUpdated, cap.Owner, pub.ID, premiumPrice, fmt.Sprintf("basic=%d premium=%d", basicPrice, premiumPrice))
	if err := s.ledger.UpdatePublication(pub, ev); err != nil {
		return nil, fmt.Errorf("updating pricing: %w", err)
	}

	s.logger.Info("pricing updated", "publication", pub.ID, "basic", basicPrice, "premium", premiumPrice)
	return pub, nil
}

// ToggleFreeTier switches the publication's free tier on or off.
func (s *Service) ToggleFreeTier(cap *model.OwnerCap, publicationID string, enabled bool) (*model.Publication, error) {
	pub, err := s.Publication(publicationID)
	if err != nil {
		return nil, err
	}
	if err := requireCap(cap, pub.ID); err != nil {
		return nil, err
	}

	pub.FreeTierEnabled = enabled
	ev := s.newEvent(EventFreeTierToggled, cap.Owner, pub.ID, 0, fmt.Sprintf("enabled=%t", enabled))
	if err := s.ledger.UpdatePublication(pub, ev); err != nil {
		return nil, fmt.Errorf("toggling free tier: %w", err)
	}

	s.logger.Info("free tier toggled", "publication", pub.ID, "enabled", enabled)
	return pub, nil
}

// PublishArticle stores the article body in the content store and registers
// the article under the publication. An article deposit — a bps share of the
// current premium price — is collected into the treasury; when the computed
// deposit is zero the treasury is not touched at all.
func (s *Service) PublishArticle(cap *model.OwnerCap, publicationID, title, excerpt string, tier model.Tier, content io.Reader) (*model.Article, error) {
	pub, err := s.Publication(publicationID)
	if err != nil {
		return nil, err
	}
	if err := requireCap(cap, pub.ID); err != nil {
		return nil, err
	}
	if !tier.Known() {
		return nil, errValidation(CodeUnknownTier, "unknown tier %q", tier)
	}
	if title == "" {
		return nil, errValidation(CodeNameEmpty, "article title is empty")
	}

	// Content-address the blob so storage is idempotent.
	body, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("reading article content: %w", err)
	}
	sum := sha256.Sum256(body)
	handle := hex.EncodeToString(sum[:])
	if err := s.store.Put(handle, bytes.NewReader(body), int64(len(body))); err != nil {
		return nil, fmt.Errorf("storing article content: %w", err)
	}

	treasury, err := s.ledger.GetTreasury()
	if err != nil {
		return nil, fmt.Errorf("loading treasury: %w", err)
	}
	deposit := CalculateArticleDeposit(treasury, pub.PremiumPrice)
	if deposit > 0 {
		if err := collectArticleDeposit(treasury, deposit); err != nil {
			return nil, err
		}
	} else {
		treasury = nil // zero deposit: skip the treasury entirely
	}

	article := &model.Article{
		ID:            s.idgen.New(),
		PublicationID: pub.ID,
		Title:         title,
		Excerpt:       excerpt,
		RequiredTier:  tier,
		ContentHandle: handle,
		KeyRef:        s.store.KeyRef(),
		PublishedAt:   s.clock.Now(),
	}
	pub.ArticleCount++

	ev := s.newEvent(EventArticlePublished, cap.Owner, article.ID, deposit, "tier="+string(tier))
	if err := s.ledger.CreateArticle(article, pub, treasury, ev); err != nil {
		return nil, fmt.Errorf("creating article: %w", err)
	}

	s.logger.Info("article published", "article", article.ID, "publication", pub.ID, "tier", tier, "deposit", deposit)
	return article, nil
}

// Article loads an article by ID.
func (s *Service) Article(id string) (*model.Article, error) {
	article, err := s.ledger.GetArticle(id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, errMismatch(CodeNotFound, "article not found: %s", id)
	}
	return article, nil
}

// Articles lists a publication's articles.
func (s *Service) Articles(publicationID string) ([]*model.Article, error) {
	return s.ledger.ListArticles(publicationID)
}

// ArchiveArticle soft-deletes an article. Visibility only — the article and
// its content are never removed.
func (s *Service) ArchiveArticle(cap *model.OwnerCap, articleID string) (*model.Article, error) {
	return s.setArchived(cap, articleID, true)
}

// UnarchiveArticle restores a soft-deleted article.
func (s *Service) UnarchiveArticle(cap *model.OwnerCap, articleID string) (*model.Article, error) {
	return s.setArchived(cap, articleID, false)
}

func (s *Service) setArchived(cap *model.OwnerCap, articleID string, archived bool) (*model.Article, error) {
	article, err := s.Article(articleID)
	if err != nil {
		return nil, err
	}
	if err := requireCap(cap, article.PublicationID); err != nil {
		return nil, err
	}

	article.Archived = archived
	kind := EventArticleArchived
	if !archived {
		kind = EventArticleUnarchived
	}
	ev := s.newEvent(kind, cap.Owner, article.ID, 0, "")
	if err := s.ledger.UpdateArticle(article, ev); err != nil {
		return nil, fmt.Errorf("updating article: %w", err)
	}

	s.logger.Info("article archive flag set", "article", article.ID, "archived", archived)
	return article, nil
}

// SetArticleMeta updates an article's mutable title and excerpt. Tier,
// content handle and publish timestamp stay fixed for the article's life.
func (s *Service) SetArticleMeta(cap *model.OwnerCap, articleID, title, excerpt string) (*model.Article, error) {
	article, err := s.Article(articleID)
	if err != nil {
		return nil, err
	}
	if err := requireCap(cap, article.PublicationID); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, errValidation(CodeNameEmpty, "article title is empty")
	}

	article.Title = title
	article.Excerpt = excerpt
	ev := s.newEvent(EventArticleMetaUpdated, cap.Owner, article.ID, 0, "")
	if err := s.ledger.UpdateArticle(article, ev); err != nil {
		return nil, fmt.Errorf("updating article: %w", err)
	}
	return article, nil
}
