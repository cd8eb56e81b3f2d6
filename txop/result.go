// Package txop implements the apply-time state transitions for the
// two ledger operations this repository covers: ChangeTrust and
// PathPayment. Every exported Apply function takes an open
// ledgerstate.Delta and returns a typed, consensus-observable result;
// engine-bug conditions are instead reported as a *FatalError, never
// folded into an ordinary result code.
package txop

import (
	"fmt"

	"github.com/ledgerforge/trustpay/asset"
	"github.com/ledgerforge/trustpay/exchange"
	"github.com/ledgerforge/trustpay/ledgerstate"
)

// ChangeTrustCode is the typed, consensus-observable outcome of a
// ChangeTrust apply.
type ChangeTrustCode string

const (
	ChangeTrustSuccess        ChangeTrustCode = "SUCCESS"
	ChangeTrustMalformed      ChangeTrustCode = "MALFORMED"
	ChangeTrustSelfNotAllowed ChangeTrustCode = "SELF_NOT_ALLOWED"
	ChangeTrustInvalidLimit   ChangeTrustCode = "INVALID_LIMIT"
	ChangeTrustNoIssuer       ChangeTrustCode = "NO_ISSUER"
	ChangeTrustLowReserve     ChangeTrustCode = "LOW_RESERVE"
)

// ChangeTrustResult is the result of a ChangeTrustApply call.
type ChangeTrustResult struct {
	Code ChangeTrustCode
}

// CreateAccountCode is the typed outcome of the createAccount
// sub-operation PathPayment invokes for implicit destination creation.
type CreateAccountCode string

const (
	CreateAccountSuccess         CreateAccountCode = "SUCCESS"
	CreateAccountMalformed       CreateAccountCode = "MALFORMED"
	CreateAccountUnderfunded     CreateAccountCode = "UNDERFUNDED"
	CreateAccountLowReserve      CreateAccountCode = "LOW_RESERVE"
	CreateAccountAlreadyExist    CreateAccountCode = "ALREADY_EXIST"
	CreateAccountUnderauthorized CreateAccountCode = "UNDERAUTHORIZED"
)

// CreateAccountResult is the result of a CreateAccountApply call. Account
// is populated only on CreateAccountSuccess.
type CreateAccountResult struct {
	Code    CreateAccountCode
	Account *ledgerstate.Account
}

// PathPaymentCode is the typed, consensus-observable outcome of a
// PathPayment apply.
type PathPaymentCode string

const (
	PathPaymentSuccess         PathPaymentCode = "SUCCESS"
	PathPaymentMalformed       PathPaymentCode = "MALFORMED"
	PathPaymentUnderfunded     PathPaymentCode = "UNDERFUNDED"
	PathPaymentSrcNoTrust      PathPaymentCode = "SRC_NO_TRUST"
	PathPaymentSrcNotAuth      PathPaymentCode = "SRC_NOT_AUTHORIZED"
	PathPaymentNoDestination   PathPaymentCode = "NO_DESTINATION"
	PathPaymentNoTrust         PathPaymentCode = "NO_TRUST"
	PathPaymentNotAuthorized   PathPaymentCode = "NOT_AUTHORIZED"
	PathPaymentLineFull        PathPaymentCode = "LINE_FULL"
	PathPaymentNoIssuer        PathPaymentCode = "NO_ISSUER"
	PathPaymentTooFewOffers    PathPaymentCode = "TOO_FEW_OFFERS"
	PathPaymentOfferCrossSelf  PathPaymentCode = "OFFER_CROSS_SELF"
	PathPaymentOverSendMax     PathPaymentCode = "OVER_SENDMAX"
)

// SimplePaymentResult records the final leg of a successful path
// payment: who received what.
type SimplePaymentResult struct {
	Destination string
	Asset       asset.Asset
	Amount      int64
}

// PathPaymentResult is the result of a PathPaymentApply call.
// NoIssuerAsset is populated only on PathPaymentNoIssuer; Offers and
// Last only on PathPaymentSuccess.
type PathPaymentResult struct {
	Code          PathPaymentCode
	NoIssuerAsset asset.Asset
	Offers        []*exchange.Offer
	Last          SimplePaymentResult
}

// FatalError reports an engine-bug condition: an impossible invariant
// observed after partial success, or an OfferExchange result outside
// its declared contract. It is distinct from every typed result code
// above and must never be silently mapped into one.
type FatalError struct {
	Reason string
}

func (e *FatalError) Error() string {
	return "txop: fatal: " + e.Reason
}

// fatalf panics with a *FatalError; callers recover it at the top of
// each Apply function and return it as a normal error, keeping the
// panic confined to this package.
func fatalf(format string, args ...interface{}) {
	panic(&FatalError{Reason: fmt.Sprintf(format, args...)})
}
