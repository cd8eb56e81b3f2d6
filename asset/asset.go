// Package asset represents the two asset kinds a trustline or payment
// can name: the native unit of account, and an issued (code, issuer)
// pair.
package asset

import (
	"regexp"

	"github.com/ledgerforge/trustpay/ledgerkey"
)

// Type distinguishes native from issued assets.
type Type int

const (
	Native Type = iota
	Issued
)

// alphanumeric-4 and alphanumeric-12 grammars: 1-4 (resp. 5-12)
// upper/lowercase letters or digits, matching the two issued-asset
// code widths carried over the wire in the original system.
var (
	alphaNum4  = regexp.MustCompile(`^[A-Za-z0-9]{1,4}$`)
	alphaNum12 = regexp.MustCompile(`^[A-Za-z0-9]{5,12}$`)
)

// Asset is the sum type {Native} | {Issued{Code, Issuer}}.
type Asset struct {
	Type   Type
	Code   string
	Issuer string
}

// NewNative constructs the native asset value.
func NewNative() Asset {
	return Asset{Type: Native}
}

// NewIssued constructs an issued asset value. It does not validate;
// call IsValid before trusting the result.
func NewIssued(code, issuer string) Asset {
	return Asset{Type: Issued, Code: code, Issuer: issuer}
}

// Equal reports structural equality over all fields.
func (a Asset) Equal(o Asset) bool {
	if a.Type != o.Type {
		return false
	}
	if a.Type == Native {
		return true
	}
	return a.Code == o.Code && a.Issuer == o.Issuer
}

// IsValid reports whether the asset is well-formed: Native is always
// valid; an Issued asset is valid iff its code matches one of the two
// alphanumeric grammars and its issuer is a syntactically valid
// AccountID.
func IsValid(a Asset) bool {
	if a.Type == Native {
		return true
	}
	if !alphaNum4.MatchString(a.Code) && !alphaNum12.MatchString(a.Code) {
		return false
	}
	return ledgerkey.IsValidAccountID(a.Issuer)
}

// GetIssuer returns the issuer AccountID of an issued asset. It is a
// precondition violation to call this on a native asset; callers must
// only do so after already knowing the asset is issued (e.g. having
// checked a.Type == Issued), exactly as the original source's
// getIssuer() is undefined for the native case.
func GetIssuer(a Asset) string {
	if a.Type == Native {
		panic("asset: GetIssuer called on native asset")
	}
	return a.Issuer
}

// Key returns a string uniquely identifying the asset, suitable for
// use as a map key (trustline storage, order book indexing).
func Key(a Asset) string {
	if a.Type == Native {
		return "native"
	}
	return "issued:" + a.Code + ":" + a.Issuer
}
