package paywall_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"paywall-go/internal/model"
	"paywall-go/internal/paywall"
)

func TestHasArticleAccess(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	article := &model.Article{ID: "art-1", PublicationID: "pub-1", RequiredTier: model.TierBasic}

	pass := &model.SubscriptionPass{PublicationID: "pub-1", Tier: model.TierBasic, ExpiresAt: now.Add(time.Hour)}
	foreignPass := &model.SubscriptionPass{PublicationID: "pub-2", Tier: model.TierPremium, ExpiresAt: now.Add(time.Hour)}
	token := &model.ReadToken{ArticleID: "art-1", ExpiresAt: now.Add(time.Hour)}
	staleToken := &model.ReadToken{ArticleID: "art-1", ExpiresAt: now.Add(-time.Hour)}

	tests := []struct {
		name  string
		pass  *model.SubscriptionPass
		token *model.ReadToken
		want  bool
	}{
		{"no credentials", nil, nil, false},
		{"pass alone", pass, nil, true},
		{"token alone", nil, token, true},
		{"either path suffices", pass, staleToken, true},
		{"token rescues foreign pass", foreignPass, token, true},
		{"foreign pass denied", foreignPass, nil, false},
		{"stale token denied", nil, staleToken, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := paywall.HasArticleAccess(article, tt.pass, tt.token, now); got != tt.want {
				t.Errorf("HasArticleAccess() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestService_CheckAccess(t *testing.T) {
	f := newFixture(t)
	pub, pubCap, _ := f.createPub(t, "alice", 1000, 2000, false)
	article, err := f.svc.PublishArticle(pubCap, pub.ID, "x", "", "basic", strings.NewReader("body"))
	if err != nil {
		t.Fatalf("PublishArticle() error = %v", err)
	}

	t.Run("no credentials is a denial, not an error", func(t *testing.T) {
		granted, err := f.svc.CheckAccess(article.ID, "", "")
		if err != nil {
			t.Fatalf("CheckAccess() error = %v", err)
		}
		if granted {
			t.Error("access granted without credentials")
		}
	})

	t.Run("unknown credential IDs are treated as absent", func(t *testing.T) {
		granted, err := f.svc.CheckAccess(article.ID, "no-such-pass", "no-such-token")
		if err != nil {
			t.Fatalf("CheckAccess() error = %v", err)
		}
		if granted {
			t.Error("access granted on unknown credentials")
		}
	})

	t.Run("valid pass grants access", func(t *testing.T) {
		pass, err := f.svc.Subscribe(pub.ID, model.TierBasic, 1000, "bob")
		if err != nil {
			t.Fatalf("Subscribe() error = %v", err)
		}

		granted, err := f.svc.CheckAccess(article.ID, pass.ID, "")
		if err != nil {
			t.Fatalf("CheckAccess() error = %v", err)
		}
		if !granted {
			t.Error("basic pass denied for basic article")
		}
	})

	t.Run("read token grants access without a pass", func(t *testing.T) {
		token, err := f.svc.GenerateReadToken(article.ID, pub.ID, 1000/30, "carol")
		if err != nil {
			t.Fatalf("GenerateReadToken() error = %v", err)
		}

		granted, err := f.svc.CheckAccess(article.ID, "", token.ID)
		if err != nil {
			t.Fatalf("CheckAccess() error = %v", err)
		}
		if !granted {
			t.Error("token denied for its article")
		}
	})
}

func TestService_FetchArticle(t *testing.T) {
	f := newFixture(t)
	pub, pubCap, _ := f.createPub(t, "alice", 1000, 2000, false)
	article, err := f.svc.PublishArticle(pubCap, pub.ID, "x", "", "basic", strings.NewReader("the protected body"))
	if err != nil {
		t.Fatalf("PublishArticle() error = %v", err)
	}

	t.Run("denied without credentials", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := f.svc.FetchArticle(article.ID, "", "", &buf)
		if !errors.Is(err, paywall.ErrUnauthorized) {
			t.Fatalf("error = %v, want ErrUnauthorized", err)
		}
		if buf.Len() != 0 {
			t.Error("content written despite denial")
		}
	})

	t.Run("returns the stored body with a valid pass", func(t *testing.T) {
		pass, err := f.svc.Subscribe(pub.ID, model.TierBasic, 1000, "bob")
		if err != nil {
			t.Fatalf("Subscribe() error = %v", err)
		}

		var buf bytes.Buffer
		got, err := f.svc.FetchArticle(article.ID, pass.ID, "", &buf)
		if err != nil {
			t.Fatalf("FetchArticle() error = %v", err)
		}
		if got.ID != article.ID {
			t.Errorf("article = %q, want %q", got.ID, article.ID)
		}
		if buf.String() != "the protected body" {
			t.Errorf("body = %q", buf.String())
		}
	})
}
