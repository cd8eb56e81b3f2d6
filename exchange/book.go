package exchange

import (
	"sort"

	"github.com/ledgerforge/trustpay/asset"
)

// Book is an in-memory order book, keyed by the (sellAsset, buyAsset)
// pair offers are posted against, mirroring the teacher's
// exchange.Manager.loadOffers bucket-per-pair layout and its
// sort.Sort(OfferSlice(...)) ascending-price ordering.
type Book struct {
	offers map[string][]*Offer
}

// NewBook constructs an empty order book.
func NewBook() *Book {
	return &Book{offers: make(map[string][]*Offer)}
}

func pairKey(sell, buy asset.Asset) string {
	return asset.Key(sell) + "_" + asset.Key(buy)
}

// Post adds an offer to the book, keeping each pair's offers sorted
// ascending by price.
func (b *Book) Post(o *Offer) {
	key := pairKey(o.SellAsset, o.BuyAsset)
	b.offers[key] = append(b.offers[key], o)
	sort.Sort(OfferSlice(b.offers[key]))
}

// offersFor returns the live offers selling sellAsset for buyAsset,
// in ascending price order. Fully-consumed offers (Amount == 0) are
// pruned as they are found.
func (b *Book) offersFor(sellAsset, buyAsset asset.Asset) []*Offer {
	key := pairKey(sellAsset, buyAsset)
	live := b.offers[key][:0]
	for _, o := range b.offers[key] {
		if o.Amount > 0 {
			live = append(live, o)
		}
	}
	b.offers[key] = live
	return live
}
