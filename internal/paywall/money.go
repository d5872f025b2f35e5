package paywall

// Fee and royalty rates are expressed in basis points (1/100 of a percent)
// and computed with truncating integer division, so small payments can yield
// a zero fee. That is accepted behavior, not a bug. Amounts are uint64 in
// the ledger's smallest currency unit; realistic prices stay far enough
// below 2^64/10000 that the bps multiplication cannot overflow.

// BpsDenominator converts basis points to a fraction.
const BpsDenominator = 10_000

// MaxFeeBps caps each treasury fee rate at 10%.
const MaxFeeBps = 1_000

// MaxRoyaltyBps caps a royalty rate at 100%.
const MaxRoyaltyBps = 10_000

// SplitFee divides a payment at the given basis-point rate.
// fee + remainder == payment exactly.
func SplitFee(payment, bps uint64) (fee, remainder uint64) {
	fee = payment * bps / BpsDenominator
	return fee, payment - fee
}

// RoyaltyDue returns the royalty owed on a sale: the bps share of the price,
// raised to min when the share falls below the floor.
func RoyaltyDue(salePrice, bps, min uint64) uint64 {
	due := salePrice * bps / BpsDenominator
	if due < min {
		due = min
	}
	return due
}
