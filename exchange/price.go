package exchange

import "math/big"

// Price is the price of an offer's SellAsset expressed in units of
// its BuyAsset: Numerator/Denominator units of BuyAsset buys one unit
// of SellAsset.
type Price struct {
	Numerator   int64
	Denominator int64
}

// ComparePrice compares two prices, mirroring the teacher's
// exchange.ComparePrice (math/big.Rat, used for exact rational
// comparison rather than float64).
func ComparePrice(lhs, rhs Price) int {
	l := big.NewRat(lhs.Numerator, lhs.Denominator)
	r := big.NewRat(rhs.Numerator, rhs.Denominator)
	return l.Cmp(r)
}

// costForAmount returns ceil(amount * price.Numerator / price.Denominator),
// the units of BuyAsset required to purchase amount units of SellAsset
// at this price, rounding in the seller's favor exactly as the
// teacher's DivideBigInt(..., RoundUp) calls do for amounts the buyer
// must pay.
func costForAmount(amount int64, p Price) int64 {
	num := new(big.Int).Mul(big.NewInt(amount), big.NewInt(p.Numerator))
	den := big.NewInt(p.Denominator)
	q, r := new(big.Int).QuoRem(num, den, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q.Int64()
}
