package paywall_test

import (
	"errors"
	"strings"
	"testing"

	"paywall-go/internal/model"
	"paywall-go/internal/paywall"
)

func TestService_Stats(t *testing.T) {
	t.Run("counts subscribers per tier and accumulates revenue", func(t *testing.T) {
		f := newFixture(t)
		pub, pubCap, statsCap := f.createPub(t, "alice", 1000, 2000, true)

		if _, err := f.svc.Subscribe(pub.ID, model.TierFree, 0, "f1"); err != nil {
			t.Fatalf("Subscribe(free) error = %v", err)
		}
		if _, err := f.svc.Subscribe(pub.ID, model.TierBasic, 1000, "b1"); err != nil {
			t.Fatalf("Subscribe(basic) error = %v", err)
		}
		if _, err := f.svc.Subscribe(pub.ID, model.TierPremium, 2000, "p1"); err != nil {
			t.Fatalf("Subscribe(premium) error = %v", err)
		}
		if _, err := f.svc.Subscribe(pub.ID, model.TierPremium, 2000, "p2"); err != nil {
			t.Fatalf("Subscribe(premium) error = %v", err)
		}

		article, err := f.svc.PublishArticle(pubCap, pub.ID, "x", "", "free", strings.NewReader("body"))
		if err != nil {
			t.Fatalf("PublishArticle() error = %v", err)
		}
		if _, err := f.svc.GenerateReadToken(article.ID, pub.ID, 0, "reader"); err != nil {
			t.Fatalf("GenerateReadToken() error = %v", err)
		}

		stats, views, err := f.svc.Stats(statsCap, pub.ID)
		if err != nil {
			t.Fatalf("Stats() error = %v", err)
		}
		if stats.FreeSubscribers != 1 || stats.BasicSubscribers != 1 || stats.PremiumSubscribers != 2 {
			t.Errorf("subscribers = %d/%d/%d, want 1/1/2",
				stats.FreeSubscribers, stats.BasicSubscribers, stats.PremiumSubscribers)
		}

		// Owner proceeds net of the 250 bps fee: 975 + 1950 + 1950.
		if stats.TotalRevenue != 4875 {
			t.Errorf("revenue = %d, want 4875", stats.TotalRevenue)
		}

		if views[article.ID] != 1 {
			t.Errorf("views[%s] = %d, want 1", article.ID, views[article.ID])
		}
	})

	t.Run("fails closed on a mismatched capability", func(t *testing.T) {
		f := newFixture(t)
		pub, pubCap, _ := f.createPub(t, "alice", 1000, 2000, false)

		// The publication capability is not the stats capability.
		stats, views, err := f.svc.Stats(pubCap, pub.ID)
		if !errors.Is(err, paywall.ErrUnauthorized) {
			t.Fatalf("error = %v, want ErrUnauthorized", err)
		}
		if stats != nil || views != nil {
			t.Error("partial data returned on denied stats read")
		}
	})
}

func TestService_TransferCap(t *testing.T) {
	f := newFixture(t)
	pub, pubCap, _ := f.createPub(t, "alice", 1000, 2000, false)

	t.Run("only the holder may transfer", func(t *testing.T) {
		_, err := f.svc.TransferCap(pubCap.ID, "mallory", "eve")
		if !errors.Is(err, paywall.ErrUnauthorized) {
			t.Fatalf("error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("transferred capability still controls its resource", func(t *testing.T) {
		moved, err := f.svc.TransferCap(pubCap.ID, "alice", "bob")
		if err != nil {
			t.Fatalf("TransferCap() error = %v", err)
		}
		if moved.Owner != "bob" {
			t.Errorf("holder = %s, want bob", moved.Owner)
		}

		if _, err := f.svc.UpdatePricing(moved, pub.ID, 1100, 2200); err != nil {
			t.Fatalf("UpdatePricing() with transferred cap error = %v", err)
		}
	})
}
