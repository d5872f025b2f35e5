package paywall_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"paywall-go/internal/paywall"
)

func TestService_CreatePublication(t *testing.T) {
	t.Run("mints publication and both capabilities", func(t *testing.T) {
		f := newFixture(t)

		pub, pubCap, statsCap, err := f.svc.CreatePublication("alice", "The Daily Ledger", "numbers daily", 100, 200, true)
		if err != nil {
			t.Fatalf("CreatePublication() error = %v", err)
		}

		if pub.Owner != "alice" {
			t.Errorf("owner = %q, want alice", pub.Owner)
		}
		if pubCap.SubjectID != pub.ID {
			t.Errorf("publication cap subject = %q, want %q", pubCap.SubjectID, pub.ID)
		}
		if statsCap.SubjectID == pub.ID {
			t.Error("stats cap is bound to the publication, want the stats ledger")
		}
		if !pub.FreeTierEnabled {
			t.Error("free tier not enabled")
		}
	})

	t.Run("rejects empty name", func(t *testing.T) {
		f := newFixture(t)

		_, _, _, err := f.svc.CreatePublication("alice", "", "", 100, 200, false)
		if !errors.Is(err, paywall.ErrValidation) {
			t.Fatalf("error = %v, want ErrValidation", err)
		}
	})

	t.Run("rejects premium below basic", func(t *testing.T) {
		f := newFixture(t)

		_, _, _, err := f.svc.CreatePublication("alice", "x", "", 200, 100, false)
		if !errors.Is(err, paywall.ErrValidation) {
			t.Fatalf("error = %v, want ErrValidation", err)
		}
	})
}

func TestService_UpdatePricing(t *testing.T) {
	t.Run("updates prices", func(t *testing.T) {
		f := newFixture(t)
		pub, pubCap, _ := f.createPub(t, "alice", 100, 200, false)

		updated, err := f.svc.UpdatePricing(pubCap, pub.ID, 150, 300)
		if err != nil {
			t.Fatalf("UpdatePricing() error = %v", err)
		}
		if updated.BasicPrice != 150 || updated.PremiumPrice != 300 {
			t.Errorf("prices = %d/%d, want 150/300", updated.BasicPrice, updated.PremiumPrice)
		}
	})

	t.Run("rejects broken ordering and leaves prices unchanged", func(t *testing.T) {
		f := newFixture(t)
		pub, pubCap, _ := f.createPub(t, "alice", 100, 200, false)

		_, err := f.svc.UpdatePricing(pubCap, pub.ID, 300, 150)
		if !errors.Is(err, paywall.ErrValidation) {
			t.Fatalf("error = %v, want ErrValidation", err)
		}

		reloaded, err := f.svc.Publication(pub.ID)
		if err != nil {
			t.Fatalf("Publication() error = %v", err)
		}
		if reloaded.BasicPrice != 100 || reloaded.PremiumPrice != 200 {
			t.Errorf("prices changed to %d/%d after rejected update", reloaded.BasicPrice, reloaded.PremiumPrice)
		}
	})

	t.Run("capability for publication A cannot touch publication B", func(t *testing.T) {
		f := newFixture(t)
		_, capA, _ := f.createPub(t, "alice", 100, 200, false)
		pubB, _, _ := f.createPub(t, "bob", 10, 20, false)

		_, err := f.svc.UpdatePricing(capA, pubB.ID, 1, 2)
		if !errors.Is(err, paywall.ErrUnauthorized) {
			t.Fatalf("error = %v, want ErrUnauthorized", err)
		}

		reloaded, _ := f.svc.Publication(pubB.ID)
		if reloaded.BasicPrice != 10 || reloaded.PremiumPrice != 20 {
			t.Errorf("publication B modified by foreign capability: %d/%d", reloaded.BasicPrice, reloaded.PremiumPrice)
		}
	})
}

func TestService_PublishArticle(t *testing.T) {
	t.Run("stores content and collects the deposit", func(t *testing.T) {
		f := newFixture(t)
		pub, pubCap, _ := f.createPub(t, "alice", 100, 5_000_000_000, false)

		article, err := f.svc.PublishArticle(pubCap, pub.ID, "On Fees", "a teaser", "premium", strings.NewReader("full text"))
		if err != nil {
			t.Fatalf("PublishArticle() error = %v", err)
		}
		if article.ContentHandle == "" {
			t.Error("content handle is empty")
		}

		var body bytes.Buffer
		if err := f.store.Get(article.ContentHandle, &body); err != nil {
			t.Fatalf("content not in store: %v", err)
		}
		if body.String() != "full text" {
			t.Errorf("stored content = %q", body.String())
		}

		// deposit = 5_000_000_000 * 100 / 10000
		treasury, err := f.svc.Treasury()
		if err != nil {
			t.Fatalf("Treasury() error = %v", err)
		}
		if treasury.Balance != 50_000_000 {
			t.Errorf("treasury balance = %d, want 50000000", treasury.Balance)
		}
		if treasury.TotalDepositsCollected != 50_000_000 {
			t.Errorf("deposits collected = %d, want 50000000", treasury.TotalDepositsCollected)
		}

		reloaded, _ := f.svc.Publication(pub.ID)
		if reloaded.ArticleCount != 1 {
			t.Errorf("article count = %d, want 1", reloaded.ArticleCount)
		}
	})

	t.Run("zero premium price skips the deposit", func(t *testing.T) {
		f := newFixture(t)
		pub, pubCap, _ := f.createPub(t, "alice", 0, 0, true)

		if _, err := f.svc.PublishArticle(pubCap, pub.ID, "Gratis", "", "free", strings.NewReader("x")); err != nil {
			t.Fatalf("PublishArticle() error = %v", err)
		}

		treasury, _ := f.svc.Treasury()
		if treasury.Balance != 0 {
			t.Errorf("treasury balance = %d, want 0", treasury.Balance)
		}
	})

	t.Run("rejects unknown tier", func(t *testing.T) {
		f := newFixture(t)
		pub, pubCap, _ := f.createPub(t, "alice", 100, 200, false)

		_, err := f.svc.PublishArticle(pubCap, pub.ID, "x", "", "platinum", strings.NewReader("x"))
		if !errors.Is(err, paywall.ErrValidation) {
			t.Fatalf("error = %v, want ErrValidation", err)
		}
	})

	t.Run("requires the publication capability", func(t *testing.T) {
		f := newFixture(t)
		pub, _, statsCap := f.createPub(t, "alice", 100, 200, false)

		_, err := f.svc.PublishArticle(statsCap, pub.ID, "x", "", "free", strings.NewReader("x"))
		if !errors.Is(err, paywall.ErrUnauthorized) {
			t.Fatalf("error = %v, want ErrUnauthorized", err)
		}
	})
}

func TestService_ArchiveArticle(t *testing.T) {
	f := newFixture(t)
	pub, pubCap, _ := f.createPub(t, "alice", 100, 200, true)

	article, err := f.svc.PublishArticle(pubCap, pub.ID, "Ephemeral", "", "free", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("PublishArticle() error = %v", err)
	}

	archived, err := f.svc.ArchiveArticle(pubCap, article.ID)
	if err != nil {
		t.Fatalf("ArchiveArticle() error = %v", err)
	}
	if !archived.Archived {
		t.Error("article not archived")
	}

	restored, err := f.svc.UnarchiveArticle(pubCap, article.ID)
	if err != nil {
		t.Fatalf("UnarchiveArticle() error = %v", err)
	}
	if restored.Archived {
		t.Error("article still archived")
	}
}

func TestService_SetArticleMeta(t *testing.T) {
	f := newFixture(t)
	pub, pubCap, _ := f.createPub(t, "alice", 100, 200, true)

	article, err := f.svc.PublishArticle(pubCap, pub.ID, "Draft Title", "", "free", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("PublishArticle() error = %v", err)
	}

	updated, err := f.svc.SetArticleMeta(pubCap, article.ID, "Final Title", "now with excerpt")
	if err != nil {
		t.Fatalf("SetArticleMeta() error = %v", err)
	}
	if updated.Title != "Final Title" || updated.Excerpt != "now with excerpt" {
		t.Errorf("meta = %q/%q", updated.Title, updated.Excerpt)
	}
	if updated.ContentHandle != article.ContentHandle {
		t.Error("content handle changed on meta update")
	}

	if _, err := f.svc.SetArticleMeta(pubCap, article.ID, "", ""); !errors.Is(err, paywall.ErrValidation) {
		t.Fatalf("empty title error = %v, want ErrValidation", err)
	}
}
