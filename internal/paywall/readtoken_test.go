package paywall_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"paywall-go/internal/model"
	"paywall-go/internal/paywall"
)

func TestService_GenerateReadToken(t *testing.T) {
	t.Run("price is one day of the tier price, truncating", func(t *testing.T) {
		f := newFixture(t)
		pub, pubCap, _ := f.createPub(t, "alice", 100, 3_100, false)

		article, err := f.svc.PublishArticle(pubCap, pub.ID, "x", "", "premium", strings.NewReader("body"))
		if err != nil {
			t.Fatalf("PublishArticle() error = %v", err)
		}

		// 3100 / 30 = 103 (truncating)
		if _, err := f.svc.GenerateReadToken(article.ID, pub.ID, 102, "bob"); !errors.Is(err, paywall.ErrInsufficientFunds) {
			t.Fatalf("underpaid token error = %v, want ErrInsufficientFunds", err)
		}

		token, err := f.svc.GenerateReadToken(article.ID, pub.ID, 103, "bob")
		if err != nil {
			t.Fatalf("GenerateReadToken() error = %v", err)
		}
		if token.ArticleID != article.ID {
			t.Errorf("token article = %q, want %q", token.ArticleID, article.ID)
		}
	})

	t.Run("expires exactly 24 hours from issuance", func(t *testing.T) {
		f := newFixture(t)
		pub, pubCap, _ := f.createPub(t, "alice", 0, 0, true)

		article, err := f.svc.PublishArticle(pubCap, pub.ID, "x", "", "free", strings.NewReader("body"))
		if err != nil {
			t.Fatalf("PublishArticle() error = %v", err)
		}

		token, err := f.svc.GenerateReadToken(article.ID, pub.ID, 0, "bob")
		if err != nil {
			t.Fatalf("GenerateReadToken() error = %v", err)
		}
		if got := token.ExpiresAt.Sub(token.CreatedAt); got != 24*time.Hour {
			t.Errorf("validity window = %v, want 24h", got)
		}
	})

	t.Run("free-tier article costs nothing", func(t *testing.T) {
		f := newFixture(t)
		pub, pubCap, _ := f.createPub(t, "alice", 3000, 6000, true)

		article, err := f.svc.PublishArticle(pubCap, pub.ID, "x", "", "free", strings.NewReader("body"))
		if err != nil {
			t.Fatalf("PublishArticle() error = %v", err)
		}

		if _, err := f.svc.GenerateReadToken(article.ID, pub.ID, 0, "bob"); err != nil {
			t.Fatalf("free token error = %v", err)
		}
	})

	t.Run("wrong publication", func(t *testing.T) {
		f := newFixture(t)
		pubA, capA, _ := f.createPub(t, "alice", 100, 200, true)
		pubB, _, _ := f.createPub(t, "bob", 100, 200, false)

		article, err := f.svc.PublishArticle(capA, pubA.ID, "x", "", "free", strings.NewReader("body"))
		if err != nil {
			t.Fatalf("PublishArticle() error = %v", err)
		}

		_, err = f.svc.GenerateReadToken(article.ID, pubB.ID, 0, "carol")
		if !errors.Is(err, paywall.ErrStateMismatch) {
			t.Fatalf("error = %v, want ErrStateMismatch", err)
		}
	})
}

func TestService_ConsumeReadToken(t *testing.T) {
	f := newFixture(t)
	pub, pubCap, _ := f.createPub(t, "alice", 0, 0, true)
	article, err := f.svc.PublishArticle(pubCap, pub.ID, "x", "", "free", strings.NewReader("body"))
	if err != nil {
		t.Fatalf("PublishArticle() error = %v", err)
	}
	token, err := f.svc.GenerateReadToken(article.ID, pub.ID, 0, "bob")
	if err != nil {
		t.Fatalf("GenerateReadToken() error = %v", err)
	}

	if err := f.svc.ConsumeReadToken(token.ID, "mallory"); !errors.Is(err, paywall.ErrUnauthorized) {
		t.Fatalf("foreign consume error = %v, want ErrUnauthorized", err)
	}

	if err := f.svc.ConsumeReadToken(token.ID, "bob"); err != nil {
		t.Fatalf("ConsumeReadToken() error = %v", err)
	}

	if _, err := f.svc.ReadToken(token.ID); !errors.Is(err, paywall.ErrStateMismatch) {
		t.Fatalf("consumed token lookup error = %v, want ErrStateMismatch", err)
	}
}

func TestService_TransferReadToken(t *testing.T) {
	f := newFixture(t)
	pub, pubCap, _ := f.createPub(t, "alice", 0, 0, true)
	article, err := f.svc.PublishArticle(pubCap, pub.ID, "x", "", "free", strings.NewReader("body"))
	if err != nil {
		t.Fatalf("PublishArticle() error = %v", err)
	}
	token, err := f.svc.GenerateReadToken(article.ID, pub.ID, 0, "bob")
	if err != nil {
		t.Fatalf("GenerateReadToken() error = %v", err)
	}

	moved, err := f.svc.TransferReadToken(token.ID, "bob", "carol")
	if err != nil {
		t.Fatalf("TransferReadToken() error = %v", err)
	}
	if moved.Owner != "carol" {
		t.Errorf("owner = %s, want carol", moved.Owner)
	}
}

func TestVerifyReadToken(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	token := &model.ReadToken{
		ArticleID: "art-1",
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}

	if !paywall.VerifyReadToken(token, "art-1", now) {
		t.Error("token denied for its own article")
	}
	if paywall.VerifyReadToken(token, "art-2", now) {
		t.Error("token granted for a different article")
	}
	if paywall.VerifyReadToken(token, "art-1", now.Add(24*time.Hour)) {
		t.Error("token valid at its exact expiry instant")
	}
}
