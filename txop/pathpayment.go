package txop

import (
	"math"

	"github.com/ledgerforge/trustpay/asset"
	"github.com/ledgerforge/trustpay/config"
	"github.com/ledgerforge/trustpay/exchange"
	"github.com/ledgerforge/trustpay/ledgerlog"
	"github.com/ledgerforge/trustpay/ledgerstate"
)

// PathPaymentOp is the atomic, path-routed delivery of destAmount of
// destAsset to destination, spending at most sendMax of sendAsset.
type PathPaymentOp struct {
	SendAsset   asset.Asset
	SendMax     int64
	Destination string
	DestAsset   asset.Asset
	DestAmount  int64
	Path        []asset.Asset
}

// OfferExchange is the order-book crossing contract PathPaymentApply
// consumes. exchange.Engine satisfies it.
type OfferExchange interface {
	ConvertWithOffers(sellAsset asset.Asset, maxSend int64, neededBuy int64, buyAsset asset.Asset, filter exchange.Filter) (exchange.ConvertResult, int64, int64, []*exchange.Offer)
}

// PathPaymentApply applies op against src within delta, returning the
// typed result. err is non-nil only for a *FatalError.
func PathPaymentApply(delta *ledgerstate.Delta, srcAccountID string, op PathPaymentOp, params *config.LedgerParams, ex OfferExchange) (res *PathPaymentResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			fe, ok := r.(*FatalError)
			if !ok {
				panic(r)
			}
			res, err = nil, fe
		}
	}()

	if op.DestAmount <= 0 || op.SendMax <= 0 {
		return &PathPaymentResult{Code: PathPaymentMalformed}, nil
	}
	if !asset.IsValid(op.SendAsset) || !asset.IsValid(op.DestAsset) {
		return &PathPaymentResult{Code: PathPaymentMalformed}, nil
	}
	for _, a := range op.Path {
		if !asset.IsValid(a) {
			return &PathPaymentResult{Code: PathPaymentMalformed}, nil
		}
	}

	destAccount, resolution := resolveDestination(delta, srcAccountID, op, params)
	if !resolution.ok {
		return &PathPaymentResult{Code: resolution.code}, nil
	}

	fullPath := append([]asset.Asset{op.SendAsset}, op.Path...)
	curB := op.DestAsset
	curBReceived := op.DestAmount

	bypassIssuerCheck := curB.Type == asset.Issued &&
		len(fullPath) == 1 &&
		op.SendAsset.Equal(op.DestAsset) &&
		asset.GetIssuer(curB) == op.Destination

	if resolution.new && curB.Type != asset.Native {
		issuerAcc, issuerOK := delta.LoadAccount(asset.GetIssuer(curB))
		authorized := issuerOK && !issuerAcc.AuthRequired
		if !destAccount.AddNumEntries(1) {
			ledgerlog.Debugw("path payment rejected", "destination", op.Destination, "code", PathPaymentNoDestination)
			return &PathPaymentResult{Code: PathPaymentNoDestination}, nil
		}
		delta.SaveAccount(destAccount)
		delta.SaveTrustLine(&ledgerstate.TrustLine{
			AccountID:  op.Destination,
			Asset:      curB,
			Limit:      math.MaxInt64,
			Balance:    0,
			Authorized: authorized,
		})

		if !bypassIssuerCheck {
			reloaded, ok := delta.LoadAccount(op.Destination)
			if !ok {
				return &PathPaymentResult{Code: PathPaymentNoDestination}, nil
			}
			destAccount = reloaded
		}
	}

	if creditFail := creditDestination(delta, op.Destination, curB, curBReceived, bypassIssuerCheck, destAccount); creditFail != nil {
		return creditFail, nil
	}

	offerTrail, curB2, curBReceived2, stopResult := convertBackward(delta, ex, srcAccountID, fullPath, curB, curBReceived)
	if stopResult != nil {
		return stopResult, nil
	}
	curB, curBReceived = curB2, curBReceived2

	curBSent := curBReceived
	if curBSent > op.SendMax {
		return &PathPaymentResult{Code: PathPaymentOverSendMax}, nil
	}

	if debitFail := debitSource(delta, srcAccountID, curB, curBSent, bypassIssuerCheck, params); debitFail != nil {
		return debitFail, nil
	}

	ledgerlog.Debugw("path payment applied", "destination", op.Destination, "code", PathPaymentSuccess)
	return &PathPaymentResult{
		Code:   PathPaymentSuccess,
		Offers: offerTrail,
		Last:   SimplePaymentResult{Destination: op.Destination, Asset: op.DestAsset, Amount: op.DestAmount},
	}, nil
}

// destResolution carries the non-fatal failure code from resolveDestination
// when it could not produce a usable destination account.
type destResolution struct {
	ok   bool
	code PathPaymentCode
	new  bool
}

// resolveDestination loads the destination account, invoking the
// createAccount sub-operation to fund it if absent. The second return
// value's ok field is false only when destAccount is nil because of a
// recoverable failure; the caller checks ok and returns its code.
func resolveDestination(delta *ledgerstate.Delta, srcAccountID string, op PathPaymentOp, params *config.LedgerParams) (*ledgerstate.Account, destResolution) {
	if dst, ok := delta.LoadAccount(op.Destination); ok {
		return dst, destResolution{ok: true}
	}

	child := delta.NewChild()
	caRes := CreateAccountApply(child, srcAccountID, CreateAccountOp{
		Destination:     op.Destination,
		StartingBalance: params.CreateAccountStartingBalance,
		AccountType:     AccountTypeClient,
	}, params)

	switch caRes.Code {
	case CreateAccountUnderfunded, CreateAccountLowReserve, CreateAccountUnderauthorized:
		child.Rollback()
		return nil, destResolution{ok: false, code: PathPaymentNoDestination}
	case CreateAccountSuccess:
		child.Commit()
		return caRes.Account, destResolution{ok: true, new: true}
	default:
		fatalf("createAccount sub-operation returned unexpected code %s", caRes.Code)
		return nil, destResolution{} // unreachable
	}
}

// creditDestination implements section 4.5.4: crediting the
// destination with the final leg of the path.
func creditDestination(delta *ledgerstate.Delta, destID string, curB asset.Asset, amount int64, bypassIssuerCheck bool, destAccount *ledgerstate.Account) *PathPaymentResult {
	if curB.Type == asset.Native {
		if !destAccount.AddBalance(amount) {
			return &PathPaymentResult{Code: PathPaymentMalformed}
		}
		delta.SaveAccount(destAccount)
		return nil
	}

	var trustline *ledgerstate.TrustLine
	if bypassIssuerCheck {
		trustline, _ = delta.LoadTrustLine(destID, curB)
	} else {
		tl, issuerAcc := delta.LoadTrustLineIssuer(destID, curB)
		if issuerAcc == nil {
			return &PathPaymentResult{Code: PathPaymentNoIssuer, NoIssuerAsset: curB}
		}
		trustline = tl
	}
	if trustline == nil {
		return &PathPaymentResult{Code: PathPaymentNoTrust}
	}
	if !trustline.Authorized {
		return &PathPaymentResult{Code: PathPaymentNotAuthorized}
	}
	if !trustline.AddBalance(amount) {
		return &PathPaymentResult{Code: PathPaymentLineFull}
	}
	delta.SaveTrustLine(trustline)
	return nil
}

// convertBackward implements section 4.5.5: the backward traversal of
// fullPath, converting curB into each preceding asset via the order
// book. It returns the accumulated offer trail in forward-path order,
// the final (curB, curBReceived) once curB == fullPath[0], and a
// non-nil *PathPaymentResult if traversal failed.
func convertBackward(delta *ledgerstate.Delta, ex OfferExchange, srcAccountID string, fullPath []asset.Asset, curB asset.Asset, curBReceived int64) ([]*exchange.Offer, asset.Asset, int64, *PathPaymentResult) {
	var offerTrail []*exchange.Offer

	for i := len(fullPath) - 1; i >= 0; i-- {
		curA := fullPath[i]
		if curA.Equal(curB) {
			continue
		}

		if curA.Type != asset.Native {
			if _, ok := delta.LoadAccount(asset.GetIssuer(curA)); !ok {
				return nil, curB, curBReceived, &PathPaymentResult{Code: PathPaymentNoIssuer, NoIssuerAsset: curA}
			}
		}

		filter := func(o *exchange.Offer) exchange.FilterDecision {
			if o.SellerID == srcAccountID {
				return exchange.FilterStop
			}
			return exchange.FilterKeep
		}

		convResult, curASent, actualReceived, trail := ex.ConvertWithOffers(curA, math.MaxInt64, curBReceived, curB, filter)

		switch convResult {
		case exchange.ConvertFilterStop:
			return nil, curB, curBReceived, &PathPaymentResult{Code: PathPaymentOfferCrossSelf}
		case exchange.ConvertOK:
			if actualReceived != curBReceived {
				return nil, curB, curBReceived, &PathPaymentResult{Code: PathPaymentTooFewOffers}
			}
		case exchange.ConvertPartial:
			return nil, curB, curBReceived, &PathPaymentResult{Code: PathPaymentTooFewOffers}
		default:
			fatalf("offer exchange returned unknown conversion result %v", convResult)
		}

		if curASent < 0 {
			fatalf("offer exchange returned negative sent amount %d", curASent)
		}

		offerTrail = append(trail, offerTrail...)
		curBReceived = curASent
		curB = curA
	}

	return offerTrail, curB, curBReceived, nil
}

// debitSource implements section 4.5.6: debiting the source for the
// amount consumed at the front of the path.
func debitSource(delta *ledgerstate.Delta, srcAccountID string, sendAsset asset.Asset, amount int64, bypassIssuerCheck bool, params *config.LedgerParams) *PathPaymentResult {
	if sendAsset.Type == asset.Native {
		src, ok := delta.LoadAccount(srcAccountID)
		if !ok {
			if config.ReloadSourceOnNativeDebit(params.LedgerVersion) {
				return &PathPaymentResult{Code: PathPaymentMalformed}
			}
			fatalf("source account %s missing at debit step", srcAccountID)
		}
		if src.Balance-amount < src.MinimumBalance() {
			return &PathPaymentResult{Code: PathPaymentUnderfunded}
		}
		src.AddBalance(-amount)
		delta.SaveAccount(src)
		return nil
	}

	var trustline *ledgerstate.TrustLine
	if bypassIssuerCheck {
		trustline, _ = delta.LoadTrustLine(srcAccountID, sendAsset)
	} else {
		tl, issuerAcc := delta.LoadTrustLineIssuer(srcAccountID, sendAsset)
		if issuerAcc == nil {
			return &PathPaymentResult{Code: PathPaymentNoIssuer, NoIssuerAsset: sendAsset}
		}
		trustline = tl
	}
	if trustline == nil {
		return &PathPaymentResult{Code: PathPaymentSrcNoTrust}
	}
	if !trustline.Authorized {
		return &PathPaymentResult{Code: PathPaymentSrcNotAuth}
	}
	if trustline.Balance-amount < 0 {
		return &PathPaymentResult{Code: PathPaymentUnderfunded}
	}
	trustline.AddBalance(-amount)
	delta.SaveTrustLine(trustline)
	return nil
}
