package ledgerstate

import (
	"github.com/ledgerforge/trustpay/asset"
)

// TrustLine is the per-(account, issued-asset) ledger entry.
type TrustLine struct {
	AccountID  string
	Asset      asset.Asset
	Balance    int64
	Limit      int64
	Authorized bool
}

func cloneTrustLine(t *TrustLine) *TrustLine {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

// AddBalance adds delta to the trustline balance, reporting false iff
// the result would violate 0 <= balance <= limit.
func (t *TrustLine) AddBalance(delta int64) bool {
	next := t.Balance + delta
	if next < 0 || next > t.Limit {
		return false
	}
	t.Balance = next
	return true
}

// TrustKey uniquely identifies a trustline by (accountID, asset).
func TrustKey(accountID string, a asset.Asset) string {
	return accountID + "|" + asset.Key(a)
}

// TrustStore is the read/write accessor contract for trustlines.
type TrustStore interface {
	LoadTrustLine(accountID string, a asset.Asset) (*TrustLine, bool)
	LoadTrustLineIssuer(accountID string, a asset.Asset) (*TrustLine, *Account)
	SaveTrustLine(t *TrustLine)
	DeleteTrustLine(accountID string, a asset.Asset)
}
