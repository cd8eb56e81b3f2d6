package txop

import (
	"github.com/ledgerforge/trustpay/config"
	"github.com/ledgerforge/trustpay/ledgerlog"
	"github.com/ledgerforge/trustpay/ledgerstate"
)

// AccountType is the type tag carried by a CreateAccount invocation.
// CLIENT is the only variant this repository's scope defines; a
// hypothetical additional type (the source's commented-out
// CREATE_ACCOUNT_WRONG_TYPE case) has no corresponding value here, so
// any failure code that resolveDestination in pathpayment.go does not
// explicitly handle falls to its default branch and is treated as
// fatal.
type AccountType int

const (
	AccountTypeClient AccountType = iota
)

// CreateAccountOp is the sub-operation PathPayment invokes when its
// destination account does not yet exist.
type CreateAccountOp struct {
	Destination     string
	StartingBalance int64
	AccountType     AccountType
}

// CreateAccountApply funds a brand new account from src within delta.
func CreateAccountApply(delta *ledgerstate.Delta, srcAccountID string, op CreateAccountOp, params *config.LedgerParams) *CreateAccountResult {
	if op.StartingBalance <= 0 {
		return &CreateAccountResult{Code: CreateAccountMalformed}
	}
	if _, exists := delta.LoadAccount(op.Destination); exists {
		return &CreateAccountResult{Code: CreateAccountAlreadyExist}
	}

	src, ok := delta.LoadAccount(srcAccountID)
	if !ok {
		return &CreateAccountResult{Code: CreateAccountMalformed}
	}

	minStartingBalance := 2 * params.BaseReserve
	if op.StartingBalance < minStartingBalance {
		return &CreateAccountResult{Code: CreateAccountLowReserve}
	}
	if src.Balance-op.StartingBalance < src.MinimumBalance() {
		return &CreateAccountResult{Code: CreateAccountUnderfunded}
	}

	if !src.AddBalance(-op.StartingBalance) {
		return &CreateAccountResult{Code: CreateAccountMalformed}
	}
	delta.SaveAccount(src)

	dst := ledgerstate.NewAccount(op.Destination, op.StartingBalance, params.BaseReserve)
	delta.SaveAccount(dst)

	ledgerlog.Debugw("account created", "destination", op.Destination, "startingBalance", op.StartingBalance, "code", CreateAccountSuccess)
	return &CreateAccountResult{Code: CreateAccountSuccess, Account: dst}
}
