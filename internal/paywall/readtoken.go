package paywall

import (
	"fmt"
	"time"

	"paywall-go/internal/model"
)

// GenerateReadToken sells single-article access: the price is one day of the
// article's tier price (the monthly price divided by 30, truncating), or
// zero for a free-tier article. The token is bound to the article and valid
// for exactly 24 hours from issuance.
func (s *Service) GenerateReadToken(articleID, publicationID string, payment uint64, owner model.Identity) (*model.ReadToken, error) {
	article, err := s.Article(articleID)
	if err != nil {
		return nil, err
	}
	if article.PublicationID != publicationID {
		return nil, errMismatch(CodeWrongPublication, "article %s does not belong to publication %s", articleID, publicationID)
	}
	pub, err := s.Publication(publicationID)
	if err != nil {
		return nil, err
	}

	price := pub.PriceFor(article.RequiredTier) / daysPerPeriod
	if payment < price {
		return nil, errFunds(CodePaymentBelowPrice, "payment %d below read price %d", payment, price)
	}

	var st *Settlement
	if payment > 0 {
		treasury, err := s.ledger.GetTreasury()
		if err != nil {
			return nil, fmt.Errorf("loading treasury: %w", err)
		}
		remainder := CollectPayPerArticleFee(treasury, payment)
		st = &Settlement{Treasury: treasury, Payee: pub.Owner, Amount: remainder}
	}

	stats, err := s.ledger.GetStats(pub.ID)
	if err != nil {
		return nil, fmt.Errorf("loading stats: %w", err)
	}
	if st != nil {
		recordRevenue(stats, st.Amount)
	}

	now := s.clock.Now()
	token := &model.ReadToken{
		ID:        s.idgen.New(),
		ArticleID: article.ID,
		Owner:     owner,
		CreatedAt: now,
		ExpiresAt: now.Add(ReadTokenTTL),
	}

	ev := s.newEvent(EventTokenIssued, owner, token.ID, payment, "article="+article.ID)
	if err := s.ledger.CreateReadToken(token, stats, st, ev); err != nil {
		return nil, fmt.Errorf("creating read token: %w", err)
	}

	s.logger.Info("read token issued", "token", token.ID, "article", article.ID, "payment", payment)
	return token, nil
}

// ReadToken loads a read token by ID.
func (s *Service) ReadToken(id string) (*model.ReadToken, error) {
	token, err := s.ledger.GetReadToken(id)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, errMismatch(CodeNotFound, "read token not found: %s", id)
	}
	return token, nil
}

// ConsumeReadToken destroys a token before its expiry. Consumption is
// optional — unconsumed tokens simply lapse after 24 hours.
func (s *Service) ConsumeReadToken(tokenID string, owner model.Identity) error {
	token, err := s.ReadToken(tokenID)
	if err != nil {
		return err
	}
	if token.Owner != owner {
		return errUnauthorized(CodeNotOwner, "token %s is not held by %s", tokenID, owner)
	}

	ev := s.newEvent(EventTokenConsumed, owner, token.ID, 0, "article="+token.ArticleID)
	if err := s.ledger.DeleteReadToken(token.ID, ev); err != nil {
		return fmt.Errorf("consuming read token: %w", err)
	}

	s.logger.Info("read token consumed", "token", token.ID)
	return nil
}

// TransferReadToken moves a token to a new holder within its window.
func (s *Service) TransferReadToken(tokenID string, from, to model.Identity) (*model.ReadToken, error) {
	token, err := s.ReadToken(tokenID)
	if err != nil {
		return nil, err
	}
	if token.Owner != from {
		return nil, errUnauthorized(CodeNotOwner, "token %s is not held by %s", tokenID, from)
	}

	token.Owner = to
	ev := s.newEvent(EventTokenTransferred, from, token.ID, 0, "to="+string(to))
	if err := s.ledger.TransferReadToken(token, ev); err != nil {
		return nil, fmt.Errorf("transferring read token: %w", err)
	}
	return token, nil
}

// VerifyReadToken reports whether a token grants access to the given
// article right now: it must be bound to that article and unexpired.
// Pure: reads nothing beyond its arguments.
func VerifyReadToken(token *model.ReadToken, articleID string, now time.Time) bool {
	return token.ArticleID == articleID && now.Before(token.ExpiresAt)
}
