package txop

import (
	"github.com/ledgerforge/trustpay/asset"
	"github.com/ledgerforge/trustpay/config"
	"github.com/ledgerforge/trustpay/ledgerlog"
	"github.com/ledgerforge/trustpay/ledgerstate"
)

// ChangeTrustOp is the create/modify/remove-trustline operation.
type ChangeTrustOp struct {
	Line  asset.Asset
	Limit int64
}

// ChangeTrustApply applies op against src within delta, returning the
// typed result. err is non-nil only for a *FatalError.
func ChangeTrustApply(delta *ledgerstate.Delta, srcAccountID string, op ChangeTrustOp, params *config.LedgerParams) (res *ChangeTrustResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			fe, ok := r.(*FatalError)
			if !ok {
				panic(r)
			}
			res, err = nil, fe
		}
	}()

	if op.Limit < 0 {
		return &ChangeTrustResult{Code: ChangeTrustMalformed}, nil
	}
	if !asset.IsValid(op.Line) {
		return &ChangeTrustResult{Code: ChangeTrustMalformed}, nil
	}
	if config.NativeTrustForbidden(params.LedgerVersion) && op.Line.Type == asset.Native {
		return &ChangeTrustResult{Code: ChangeTrustMalformed}, nil
	}

	trustline, issuer := delta.LoadTrustLineIssuer(srcAccountID, op.Line)

	if config.SelfTrustForbidden(params.LedgerVersion) && issuer != nil && issuer.AccountID == srcAccountID {
		ledgerlog.Debugw("change trust rejected", "accountID", srcAccountID, "code", ChangeTrustSelfNotAllowed)
		return &ChangeTrustResult{Code: ChangeTrustSelfNotAllowed}, nil
	}

	if trustline != nil {
		return changeTrustModify(delta, srcAccountID, op, trustline, issuer), nil
	}
	return changeTrustCreate(delta, srcAccountID, op, issuer), nil
}

func changeTrustModify(delta *ledgerstate.Delta, srcAccountID string, op ChangeTrustOp, trustline *ledgerstate.TrustLine, issuer *ledgerstate.Account) *ChangeTrustResult {
	if op.Limit < trustline.Balance {
		return &ChangeTrustResult{Code: ChangeTrustInvalidLimit}
	}
	if op.Limit == 0 {
		src, ok := delta.LoadAccount(srcAccountID)
		if !ok {
			fatalf("source account %s missing while deleting trustline", srcAccountID)
		}
		delta.DeleteTrustLine(srcAccountID, op.Line)
		src.AddNumEntries(-1)
		delta.SaveAccount(src)
		ledgerlog.Debugw("trustline deleted", "accountID", srcAccountID, "code", ChangeTrustSuccess)
		return &ChangeTrustResult{Code: ChangeTrustSuccess}
	}
	if issuer == nil {
		return &ChangeTrustResult{Code: ChangeTrustNoIssuer}
	}
	trustline.Limit = op.Limit
	delta.SaveTrustLine(trustline)
	ledgerlog.Debugw("trustline limit updated", "accountID", srcAccountID, "limit", op.Limit, "code", ChangeTrustSuccess)
	return &ChangeTrustResult{Code: ChangeTrustSuccess}
}

func changeTrustCreate(delta *ledgerstate.Delta, srcAccountID string, op ChangeTrustOp, issuer *ledgerstate.Account) *ChangeTrustResult {
	if op.Limit == 0 {
		return &ChangeTrustResult{Code: ChangeTrustInvalidLimit}
	}
	if issuer == nil {
		return &ChangeTrustResult{Code: ChangeTrustNoIssuer}
	}

	src, ok := delta.LoadAccount(srcAccountID)
	if !ok {
		fatalf("source account %s missing while creating trustline", srcAccountID)
	}

	if !src.AddNumEntries(1) {
		ledgerlog.Debugw("change trust rejected", "accountID", srcAccountID, "code", ChangeTrustLowReserve)
		return &ChangeTrustResult{Code: ChangeTrustLowReserve}
	}

	line := &ledgerstate.TrustLine{
		AccountID:  srcAccountID,
		Asset:      op.Line,
		Limit:      op.Limit,
		Balance:    0,
		Authorized: !issuer.AuthRequired,
	}
	delta.SaveAccount(src)
	delta.SaveTrustLine(line)
	ledgerlog.Debugw("trustline created", "accountID", srcAccountID, "limit", op.Limit, "code", ChangeTrustSuccess)
	return &ChangeTrustResult{Code: ChangeTrustSuccess}
}
