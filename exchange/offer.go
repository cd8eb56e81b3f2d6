package exchange

import "github.com/ledgerforge/trustpay/asset"

// Offer is a standing order to sell Amount units of SellAsset for
// BuyAsset at Price, owned by SellerID.
type Offer struct {
	OfferID   string
	SellerID  string
	SellAsset asset.Asset
	BuyAsset  asset.Asset
	Price     Price
	Amount    int64
}

// OfferSlice sorts offers in ascending order by price, the order the
// engine must consume them in to give the payer the best rate first -
// grounded on the teacher's exchange.OfferSlice / sort.Sort usage.
type OfferSlice []*Offer

func (os OfferSlice) Len() int { return len(os) }

func (os OfferSlice) Less(i, j int) bool {
	return ComparePrice(os[i].Price, os[j].Price) < 0
}

func (os OfferSlice) Swap(i, j int) { os[i], os[j] = os[j], os[i] }
