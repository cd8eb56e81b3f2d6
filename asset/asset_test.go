package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledgerforge/trustpay/ledgerkey"
)

func mustIssuer(t *testing.T) string {
	id, err := ledgerkey.NewAccountID()
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestNativeAlwaysValid(t *testing.T) {
	assert.True(t, IsValid(NewNative()))
}

func TestIssuedValidCode(t *testing.T) {
	issuer := mustIssuer(t)
	assert.True(t, IsValid(NewIssued("USD", issuer)))
	assert.True(t, IsValid(NewIssued("LONGCODE123", issuer)))
}

func TestIssuedInvalidCode(t *testing.T) {
	issuer := mustIssuer(t)
	assert.False(t, IsValid(NewIssued("", issuer)))
	assert.False(t, IsValid(NewIssued("TOO-LONG-FOR-ANY-GRAMMAR", issuer)))
	assert.False(t, IsValid(NewIssued("bad code", issuer)))
}

func TestIssuedInvalidIssuer(t *testing.T) {
	assert.False(t, IsValid(NewIssued("USD", "not-a-real-account-id")))
}

func TestEqual(t *testing.T) {
	issuer := mustIssuer(t)
	other := mustIssuer(t)
	assert.True(t, NewNative().Equal(NewNative()))
	assert.True(t, NewIssued("USD", issuer).Equal(NewIssued("USD", issuer)))
	assert.False(t, NewIssued("USD", issuer).Equal(NewIssued("USD", other)))
	assert.False(t, NewNative().Equal(NewIssued("USD", issuer)))
}

func TestGetIssuerPanicsOnNative(t *testing.T) {
	assert.Panics(t, func() {
		GetIssuer(NewNative())
	})
}

func TestKeyDistinguishesAssets(t *testing.T) {
	issuer := mustIssuer(t)
	other := mustIssuer(t)
	assert.Equal(t, "native", Key(NewNative()))
	assert.NotEqual(t, Key(NewIssued("USD", issuer)), Key(NewIssued("USD", other)))
	assert.NotEqual(t, Key(NewNative()), Key(NewIssued("USD", issuer)))
}
