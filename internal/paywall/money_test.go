package paywall_test

import (
	"testing"

	"paywall-go/internal/paywall"
)

func TestSplitFee(t *testing.T) {
	tests := []struct {
		name          string
		payment       uint64
		bps           uint64
		wantFee       uint64
		wantRemainder uint64
	}{
		{"standard rate", 5_000_000_000, 250, 125_000_000, 4_875_000_000},
		{"zero payment", 0, 250, 0, 0},
		{"zero rate", 1000, 0, 0, 1000},
		{"small payment truncates to zero fee", 50, 100, 0, 50},
		{"full rate", 1000, 10_000, 1000, 0},
		{"truncating division", 999, 250, 24, 975},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, remainder := paywall.SplitFee(tt.payment, tt.bps)
			if fee != tt.wantFee {
				t.Errorf("fee = %d, want %d", fee, tt.wantFee)
			}
			if remainder != tt.wantRemainder {
				t.Errorf("remainder = %d, want %d", remainder, tt.wantRemainder)
			}
			if fee+remainder != tt.payment {
				t.Errorf("fee + remainder = %d, want %d", fee+remainder, tt.payment)
			}
		})
	}
}

func TestRoyaltyDue(t *testing.T) {
	tests := []struct {
		name      string
		salePrice uint64
		bps       uint64
		min       uint64
		want      uint64
	}{
		{"percentage above floor", 100_000, 1000, 100, 10_000},
		{"floor above percentage", 5_000_000_000, 1000, 1_000_000_000, 1_000_000_000},
		{"zero sale pays floor", 0, 1000, 500, 500},
		{"no floor no percentage", 100, 0, 0, 0},
		{"full price royalty", 1000, 10_000, 0, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := paywall.RoyaltyDue(tt.salePrice, tt.bps, tt.min); got != tt.want {
				t.Errorf("RoyaltyDue(%d, %d, %d) = %d, want %d", tt.salePrice, tt.bps, tt.min, got, tt.want)
			}
		})
	}
}
