package txop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerforge/trustpay/asset"
	"github.com/ledgerforge/trustpay/config"
	"github.com/ledgerforge/trustpay/exchange"
	"github.com/ledgerforge/trustpay/ledgerstate"
)

func TestPathPaymentDirectNative(t *testing.T) {
	ledger := newTestLedger()
	a := mustAccountID(t)
	b := mustAccountID(t)
	ledger.CreateAccount(a, 1000)
	ledger.CreateAccount(b, 100)

	params := config.DefaultLedgerParams()
	delta := ledgerstate.NewRootDelta(ledger)
	eng := exchange.NewEngine(exchange.NewBook())

	res, err := PathPaymentApply(delta, a, PathPaymentOp{
		SendAsset:   asset.NewNative(),
		SendMax:     500,
		Destination: b,
		DestAsset:   asset.NewNative(),
		DestAmount:  300,
	}, params, eng)
	require.NoError(t, err)
	require.Equal(t, PathPaymentSuccess, res.Code)
	assert.Empty(t, res.Offers)
	assert.Equal(t, SimplePaymentResult{Destination: b, Asset: asset.NewNative(), Amount: 300}, res.Last)

	accA, _ := delta.LoadAccount(a)
	accB, _ := delta.LoadAccount(b)
	assert.Equal(t, int64(700), accA.Balance)
	assert.Equal(t, int64(400), accB.Balance)
}

func setupCrossAssetBook(t *testing.T) (*ledgerstate.Ledger, string, string, string, asset.Asset, *exchange.Engine) {
	ledger := newTestLedger()
	a := mustAccountID(t)
	b := mustAccountID(t)
	c := mustAccountID(t)
	issuer := mustAccountID(t)
	ledger.CreateAccount(a, 1000)
	ledger.CreateAccount(b, 1000)
	ledger.CreateAccount(c, 1000)
	ledger.CreateAccount(issuer, 1000)

	usd := asset.NewIssued("USD", issuer)

	// B already trusts USD.
	root := ledgerstate.NewRootDelta(ledger)
	root.SaveTrustLine(&ledgerstate.TrustLine{AccountID: b, Asset: usd, Balance: 0, Limit: 1000, Authorized: true})
	root.Commit()

	book := exchange.NewBook()
	book.Post(&exchange.Offer{
		OfferID:   "offer-c",
		SellerID:  c,
		SellAsset: usd,
		BuyAsset:  asset.NewNative(),
		Price:     exchange.Price{Numerator: 50, Denominator: 100},
		Amount:    100,
	})
	eng := exchange.NewEngine(book)

	return ledger, a, b, c, usd, eng
}

func TestPathPaymentOneHopCrossAsset(t *testing.T) {
	ledger, a, b, _, usd, eng := setupCrossAssetBook(t)
	params := config.DefaultLedgerParams()
	delta := ledgerstate.NewRootDelta(ledger)

	res, err := PathPaymentApply(delta, a, PathPaymentOp{
		SendAsset:   asset.NewNative(),
		SendMax:     60,
		Destination: b,
		DestAsset:   usd,
		DestAmount:  100,
	}, params, eng)
	require.NoError(t, err)
	require.Equal(t, PathPaymentSuccess, res.Code)
	require.Len(t, res.Offers, 1)
	assert.Equal(t, "offer-c", res.Offers[0].OfferID)

	accA, _ := delta.LoadAccount(a)
	assert.Equal(t, int64(950), accA.Balance)

	line, ok := delta.LoadTrustLine(b, usd)
	require.True(t, ok)
	assert.Equal(t, int64(100), line.Balance)
}

func TestPathPaymentOverSendMax(t *testing.T) {
	ledger, a, b, _, usd, eng := setupCrossAssetBook(t)
	params := config.DefaultLedgerParams()
	delta := ledgerstate.NewRootDelta(ledger)

	res, err := PathPaymentApply(delta, a, PathPaymentOp{
		SendAsset:   asset.NewNative(),
		SendMax:     40,
		Destination: b,
		DestAsset:   usd,
		DestAmount:  100,
	}, params, eng)
	require.NoError(t, err)
	assert.Equal(t, PathPaymentOverSendMax, res.Code)

	accA, _ := delta.LoadAccount(a)
	assert.Equal(t, int64(1000), accA.Balance)
}

func TestPathPaymentCrossesOwnOffer(t *testing.T) {
	ledger := newTestLedger()
	a := mustAccountID(t)
	b := mustAccountID(t)
	issuer := mustAccountID(t)
	ledger.CreateAccount(a, 1000)
	ledger.CreateAccount(b, 1000)
	ledger.CreateAccount(issuer, 1000)

	usd := asset.NewIssued("USD", issuer)

	root := ledgerstate.NewRootDelta(ledger)
	root.SaveTrustLine(&ledgerstate.TrustLine{AccountID: b, Asset: usd, Balance: 0, Limit: 1000, Authorized: true})
	root.Commit()

	book := exchange.NewBook()
	book.Post(&exchange.Offer{
		OfferID:   "self-offer",
		SellerID:  a,
		SellAsset: usd,
		BuyAsset:  asset.NewNative(),
		Price:     exchange.Price{Numerator: 1, Denominator: 1},
		Amount:    100,
	})
	eng := exchange.NewEngine(book)

	params := config.DefaultLedgerParams()
	delta := ledgerstate.NewRootDelta(ledger)

	res, err := PathPaymentApply(delta, a, PathPaymentOp{
		SendAsset:   asset.NewNative(),
		SendMax:     1000,
		Destination: b,
		DestAsset:   usd,
		DestAmount:  100,
	}, params, eng)
	require.NoError(t, err)
	assert.Equal(t, PathPaymentOfferCrossSelf, res.Code)

	accA, _ := delta.LoadAccount(a)
	assert.Equal(t, int64(1000), accA.Balance)
}

func TestPathPaymentCreatesDestination(t *testing.T) {
	ledger := newTestLedger()
	a := mustAccountID(t)
	d := mustAccountID(t) // never created
	ledger.CreateAccount(a, 1000)

	params := config.DefaultLedgerParams()
	delta := ledgerstate.NewRootDelta(ledger)
	eng := exchange.NewEngine(exchange.NewBook())

	res, err := PathPaymentApply(delta, a, PathPaymentOp{
		SendAsset:   asset.NewNative(),
		SendMax:     500,
		Destination: d,
		DestAsset:   asset.NewNative(),
		DestAmount:  300,
	}, params, eng)
	require.NoError(t, err)
	require.Equal(t, PathPaymentSuccess, res.Code)

	accD, ok := delta.LoadAccount(d)
	require.True(t, ok)
	assert.Equal(t, params.CreateAccountStartingBalance+300, accD.Balance)

	// a pays for both the implicit createAccount funding and the
	// final payment leg out of the same source account in one apply.
	accA, ok := delta.LoadAccount(a)
	require.True(t, ok)
	assert.Equal(t, int64(1000-params.CreateAccountStartingBalance-300), accA.Balance)
}
