// Package exchange is the reference OfferExchange: a concrete,
// in-memory order book and the offer-crossing primitive PathPayment
// routes conversions through. spec.md treats this as an external
// interface-only contract; this package exists so the rest of the
// repository is runnable end-to-end.
package exchange

import "github.com/ledgerforge/trustpay/asset"

// FilterDecision is the caller's per-offer decision, taken before the
// offer is consumed.
type FilterDecision int

const (
	FilterKeep FilterDecision = iota
	FilterStop
)

// ConvertResult is the tri-state outcome of a conversion attempt.
type ConvertResult int

const (
	ConvertOK ConvertResult = iota
	ConvertPartial
	ConvertFilterStop
)

// Filter is called once per offer, before it is consumed.
type Filter func(o *Offer) FilterDecision

// Engine is a concrete OfferExchange over a Book.
type Engine struct {
	book *Book
}

// NewEngine constructs an engine over the given book.
func NewEngine(b *Book) *Engine {
	return &Engine{book: b}
}

// ConvertWithOffers implements the PathPayment backward-traversal
// contract (spec.md section 4.5.5): it sells up to maxSend units of
// sellAsset to acquire neededBuy units of buyAsset, consuming live
// offers that sell buyAsset for sellAsset in ascending price order.
//
// The filter is invoked once per offer, before it is consumed; eStop
// aborts immediately with ConvertFilterStop and whatever was already
// sent/received. A full fill reports ConvertOK with received ==
// neededBuy; an exhausted book reports ConvertOK with received <
// neededBuy, which callers (not this engine) treat as a failure, per
// the original source's handling of a short eOK.
func (e *Engine) ConvertWithOffers(sellAsset asset.Asset, maxSend int64, neededBuy int64, buyAsset asset.Asset, filter Filter) (ConvertResult, int64, int64, []*Offer) {
	var sent, received int64
	var trail []*Offer

	for _, o := range e.book.offersFor(buyAsset, sellAsset) {
		if received >= neededBuy {
			break
		}

		if filter != nil && filter(o) == FilterStop {
			return ConvertFilterStop, sent, received, trail
		}

		take := neededBuy - received
		if take > o.Amount {
			take = o.Amount
		}
		cost := costForAmount(take, o.Price)
		if sent+cost > maxSend {
			// Clip to what we can still afford; any partial result
			// here still leaves the payment short, which the caller
			// maps to TOO_FEW_OFFERS.
			affordable := maxSend - sent
			take = affordableUnits(affordable, o.Price)
			cost = costForAmount(take, o.Price)
			if take <= 0 {
				break
			}
		}

		o.Amount -= take
		sent += cost
		received += take
		trail = append(trail, &Offer{
			OfferID:   o.OfferID,
			SellerID:  o.SellerID,
			SellAsset: o.SellAsset,
			BuyAsset:  o.BuyAsset,
			Price:     o.Price,
			Amount:    take,
		})
	}

	return ConvertOK, sent, received, trail
}

// affordableUnits returns the maximum units of SellAsset purchasable
// without the BuyAsset cost exceeding budget, at the given price.
func affordableUnits(budget int64, p Price) int64 {
	if budget <= 0 {
		return 0
	}
	// floor(budget * Denominator / Numerator): the largest amount
	// whose rounded-up cost still fits the budget.
	units := (budget * p.Denominator) / p.Numerator
	for units > 0 && costForAmount(units, p) > budget {
		units--
	}
	return units
}
