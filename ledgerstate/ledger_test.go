package ledgerstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerforge/trustpay/asset"
)

func TestMemLedgerCreateAndLoadAccount(t *testing.T) {
	ledger := NewMemLedger(10)
	acc := ledger.CreateAccount("acc", 500)
	assert.Equal(t, int64(500), acc.Balance)

	loaded, ok := ledger.loadAccount("acc")
	require.True(t, ok)
	assert.Equal(t, int64(500), loaded.Balance)

	_, ok = ledger.loadAccount("missing")
	assert.False(t, ok)
}

func TestMemLedgerAccountsAreClonedOnLoad(t *testing.T) {
	ledger := NewMemLedger(10)
	ledger.CreateAccount("acc", 500)

	a, _ := ledger.loadAccount("acc")
	a.Balance = 999999

	b, _ := ledger.loadAccount("acc")
	assert.Equal(t, int64(500), b.Balance)
}

func TestCheckInvariantsFlagsBelowMinimumBalance(t *testing.T) {
	ledger := NewMemLedger(10)
	ledger.CreateAccount("acc", 0) // below the 20-unit bare floor

	errs := CheckInvariants(ledger)
	require.NotEmpty(t, errs)
}

func TestCheckInvariantsFlagsTrustlineOverLimit(t *testing.T) {
	ledger := NewMemLedger(10)
	ledger.CreateAccount("acc", 1000)

	usd := asset.NewIssued("USD", "issuer1")
	delta := NewRootDelta(ledger)
	delta.SaveTrustLine(&TrustLine{AccountID: "acc", Asset: usd, Limit: 100, Balance: 500, Authorized: true})
	delta.Commit()

	errs := CheckInvariants(ledger)
	require.NotEmpty(t, errs)
}

func TestCheckInvariantsFlagsEntryCountMismatch(t *testing.T) {
	ledger := NewMemLedger(10)
	ledger.CreateAccount("acc", 1000) // EntryCount 0, but we'll add a trustline without bumping it

	usd := asset.NewIssued("USD", "issuer1")
	delta := NewRootDelta(ledger)
	delta.SaveTrustLine(&TrustLine{AccountID: "acc", Asset: usd, Limit: 100, Balance: 0, Authorized: true})
	delta.Commit()

	errs := CheckInvariants(ledger)
	require.NotEmpty(t, errs)
}

func TestCheckInvariantsCleanLedger(t *testing.T) {
	ledger := NewMemLedger(10)
	src := ledger.CreateAccount("acc", 1000)
	src.EntryCount = 1
	ledger.commitAccount(src)

	usd := asset.NewIssued("USD", "issuer1")
	delta := NewRootDelta(ledger)
	delta.SaveTrustLine(&TrustLine{AccountID: "acc", Asset: usd, Limit: 100, Balance: 0, Authorized: true})
	delta.Commit()

	errs := CheckInvariants(ledger)
	assert.Empty(t, errs)
}
