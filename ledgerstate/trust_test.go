package ledgerstate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledgerforge/trustpay/asset"
)

func TestTrustLineAddBalance(t *testing.T) {
	tl := &TrustLine{Balance: 0, Limit: 100}
	assert.True(t, tl.AddBalance(100))
	assert.Equal(t, int64(100), tl.Balance)
	assert.False(t, tl.AddBalance(1))
	assert.True(t, tl.AddBalance(-100))
	assert.Equal(t, int64(0), tl.Balance)
	assert.False(t, tl.AddBalance(-1))
}

func TestTrustKeyDistinguishesAssets(t *testing.T) {
	usd := asset.NewIssued("USD", "issuer1")
	eur := asset.NewIssued("EUR", "issuer1")
	assert.NotEqual(t, TrustKey("acc", usd), TrustKey("acc", eur))
	assert.NotEqual(t, TrustKey("acc1", usd), TrustKey("acc2", usd))
}
