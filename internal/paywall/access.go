package paywall

import (
	"fmt"
	"io"
	"time"

	"paywall-go/internal/model"
)

// HasArticleAccess is the decision the policy-evaluation caller makes before
// releasing any decryption material: either credential is sufficient on its
// own. A subscription pass must belong to the article's publication and
// cover its required tier; a read token must be bound to the article and
// unexpired. Pure and side-effect free — a predicate over already-loaded
// objects plus the trusted clock. Either credential may be nil.
func HasArticleAccess(article *model.Article, pass *model.SubscriptionPass, token *model.ReadToken, now time.Time) bool {
	if pass != nil && pass.PublicationID == article.PublicationID && HasTierAccess(pass, article.RequiredTier, now) {
		return true
	}
	if token != nil && VerifyReadToken(token, article.ID, now) {
		return true
	}
	return false
}

// CheckAccess loads the named credentials and evaluates HasArticleAccess
// against the engine clock. Unknown credential IDs are treated as absent
// credentials, not errors: a missing credential is a denial, and denial is
// never an abort.
func (s *Service) CheckAccess(articleID, passID, tokenID string) (bool, error) {
	article, err := s.Article(articleID)
	if err != nil {
		return false, err
	}

	var pass *model.SubscriptionPass
	if passID != "" {
		if pass, err = s.ledger.GetPass(passID); err != nil {
			return false, err
		}
	}
	var token *model.ReadToken
	if tokenID != "" {
		if token, err = s.ledger.GetReadToken(tokenID); err != nil {
			return false, err
		}
	}

	return HasArticleAccess(article, pass, token, s.clock.Now()), nil
}

// FetchArticle writes an article's stored body to w after re-running the
// access decision. The body comes back exactly as the content store holds
// it; sealed stores return ciphertext for the caller to unseal.
func (s *Service) FetchArticle(articleID, passID, tokenID string, w io.Writer) (*model.Article, error) {
	ok, err := s.CheckAccess(articleID, passID, tokenID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errUnauthorized(CodeCapMismatch, "no valid credential for article %s", articleID)
	}

	article, err := s.Article(articleID)
	if err != nil {
		return nil, err
	}
	if err := s.store.Get(article.ContentHandle, w); err != nil {
		return nil, fmt.Errorf("fetching article content: %w", err)
	}
	return article, nil
}
