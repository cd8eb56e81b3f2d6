// Package ledgerstate implements the scoped, rollback-capable write
// set (LedgerDelta) and the typed accessors (AccountStore, TrustStore)
// the apply engine reads and writes through.
package ledgerstate

import (
	mapset "github.com/deckarep/golang-set"

	"github.com/ledgerforge/trustpay/asset"
)

// backingStore is the interface a Delta's parent must satisfy,
// whether that parent is another Delta (nested child) or the root
// Ledger. Keeping it unexported and symmetric is what lets Delta and
// Ledger share the same commit path without either knowing which one
// it is talking to.
type backingStore interface {
	loadAccount(id string) (*Account, bool)
	loadTrustLine(key string) (*TrustLine, bool)
	commitAccount(a *Account)
	commitTrustLine(key string, t *TrustLine) // nil t means delete
}

// Delta is a scoped write-set over accounts and trustlines. Reads
// fall through to the parent when the delta itself has no pending
// write for the key; writes are buffered until Commit merges them
// into the parent (or, for the root delta, into the backing Ledger).
type Delta struct {
	parent     backingStore
	accounts   map[string]*Account
	trustlines map[string]*TrustLine // present-but-nil entries are tombstones
	touched    mapset.Set
	done       bool
}

func newDelta(parent backingStore) *Delta {
	return &Delta{
		parent:     parent,
		accounts:   make(map[string]*Account),
		trustlines: make(map[string]*TrustLine),
		touched:    mapset.NewSet(),
	}
}

// NewRootDelta opens a delta directly over a Ledger, the entry point
// for a single operation's apply call.
func NewRootDelta(l *Ledger) *Delta {
	return newDelta(l)
}

// NewChild opens a nested delta over this one, used for sub-operations
// (createAccount, implicit trustline creation) whose writes should
// only become visible to the outer step once it itself succeeds.
func (d *Delta) NewChild() *Delta {
	return newDelta(d)
}

// Touched returns the set of keys (account IDs and trustline keys)
// this delta wrote to, for diagnostics and tests.
func (d *Delta) Touched() mapset.Set {
	return d.touched
}

// Commit merges this delta's pending writes into its parent. Calling
// Commit twice, or calling it on a delta that was never written to,
// is a safe no-op.
func (d *Delta) Commit() {
	if d.done {
		return
	}
	for _, a := range d.accounts {
		d.parent.commitAccount(a)
	}
	for key, t := range d.trustlines {
		d.parent.commitTrustLine(key, t)
	}
	d.done = true
}

// Rollback discards this delta's pending writes, restoring the
// parent's view exactly as it was before this delta was opened.
func (d *Delta) Rollback() {
	d.accounts = make(map[string]*Account)
	d.trustlines = make(map[string]*TrustLine)
	d.touched = mapset.NewSet()
	d.done = true
}

func (d *Delta) loadAccount(id string) (*Account, bool) {
	if a, ok := d.accounts[id]; ok {
		return cloneAccount(a), a != nil
	}
	return d.parent.loadAccount(id)
}

func (d *Delta) loadTrustLine(key string) (*TrustLine, bool) {
	if t, ok := d.trustlines[key]; ok {
		return cloneTrustLine(t), t != nil
	}
	return d.parent.loadTrustLine(key)
}

func (d *Delta) commitAccount(a *Account) {
	d.accounts[a.AccountID] = a
	d.touched.Add(a.AccountID)
}

func (d *Delta) commitTrustLine(key string, t *TrustLine) {
	d.trustlines[key] = t
	d.touched.Add(key)
}

// LoadAccount implements AccountStore.
func (d *Delta) LoadAccount(id string) (*Account, bool) {
	return d.loadAccount(id)
}

// SaveAccount implements AccountStore.
func (d *Delta) SaveAccount(a *Account) {
	d.commitAccount(cloneAccount(a))
}

// LoadTrustLine implements TrustStore.
func (d *Delta) LoadTrustLine(accountID string, a asset.Asset) (*TrustLine, bool) {
	return d.loadTrustLine(TrustKey(accountID, a))
}

// LoadTrustLineIssuer loads both the trustline and the issuer account
// for an issued asset, independently: either may be absent, and the
// two absences drive distinct error codes upstream.
func (d *Delta) LoadTrustLineIssuer(accountID string, a asset.Asset) (*TrustLine, *Account) {
	tl, _ := d.loadTrustLine(TrustKey(accountID, a))
	var issuer *Account
	if a.Type != asset.Native {
		issuer, _ = d.loadAccount(asset.GetIssuer(a))
	}
	return tl, issuer
}

// SaveTrustLine implements TrustStore.
func (d *Delta) SaveTrustLine(t *TrustLine) {
	d.commitTrustLine(TrustKey(t.AccountID, t.Asset), cloneTrustLine(t))
}

// DeleteTrustLine implements TrustStore.
func (d *Delta) DeleteTrustLine(accountID string, a asset.Asset) {
	d.commitTrustLine(TrustKey(accountID, a), nil)
}
