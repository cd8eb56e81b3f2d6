package ledgerstate

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"strings"
	"sync"

	"github.com/boltdb/bolt"
	lru "github.com/hashicorp/golang-lru"
)

const (
	accountsBucket   = "ACCOUNTS"
	trustlinesBucket = "TRUSTLINES"
)

// backend is the minimal key-value contract a Ledger needs from its
// storage layer, mirroring the shape of the teacher's db.Database
// (NewBucket/Put/Get) without the byte-oriented Tx machinery, since
// the delta above already owns transactional scoping.
type backend interface {
	put(bucket string, key []byte, val []byte) error
	get(bucket string, key []byte) ([]byte, bool)
	delete(bucket string, key []byte) error
	forEach(bucket string, fn func(key, val []byte) error) error
}

// Ledger is the durable store beneath the root Delta. It is not on
// the apply-time hot path - the apply engine talks to a Delta, which
// talks to a Ledger only on commit or on an uncached read.
type Ledger struct {
	backend     backend
	baseReserve int64
	cache       *lru.Cache
}

// boltBackend adapts github.com/boltdb/bolt to the backend interface,
// the same library and bucket-per-kind layout the teacher's
// db/boltdb.go uses.
type boltBackend struct {
	db *bolt.DB
}

func newBoltBackend(path string) (*boltBackend, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open boltdb at %s failed: %v", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, b := range []string{accountsBucket, trustlinesBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(b)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("create ledger buckets failed: %v", err)
	}
	return &boltBackend{db: db}, nil
}

func (b *boltBackend) put(bucket string, key, val []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucket)).Put(key, val)
	})
}

func (b *boltBackend) get(bucket string, key []byte) ([]byte, bool) {
	var val []byte
	b.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(bucket)).Get(key); v != nil {
			val = append([]byte(nil), v...)
		}
		return nil
	})
	return val, val != nil
}

func (b *boltBackend) delete(bucket string, key []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucket)).Delete(key)
	})
}

func (b *boltBackend) forEach(bucket string, fn func(key, val []byte) error) error {
	return b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucket)).ForEach(fn)
	})
}

// Close releases the underlying boltdb file handle. Memory-backed
// ledgers have nothing to close.
func (l *Ledger) Close() {
	if b, ok := l.backend.(*boltBackend); ok {
		b.db.Close()
	}
}

// memBackend is an in-memory implementation of backend, used for
// unit tests the way the teacher's db/memdb is.
type memBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func newMemBackend() *memBackend {
	return &memBackend{data: make(map[string][]byte)}
}

func (m *memBackend) put(bucket string, key, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[bucket+"/"+string(key)] = val
	return nil
}

func (m *memBackend) get(bucket string, key []byte) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[bucket+"/"+string(key)]
	return v, ok
}

func (m *memBackend) delete(bucket string, key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, bucket+"/"+string(key))
	return nil
}

func (m *memBackend) forEach(bucket string, fn func(key, val []byte) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	prefix := bucket + "/"
	for k, v := range m.data {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if err := fn([]byte(strings.TrimPrefix(k, prefix)), v); err != nil {
			return err
		}
	}
	return nil
}

// NewBoltLedger opens (creating if necessary) a BoltDB-backed ledger.
func NewBoltLedger(path string, baseReserve int64) (*Ledger, error) {
	b, err := newBoltBackend(path)
	if err != nil {
		return nil, err
	}
	return newLedger(b, baseReserve), nil
}

// NewMemLedger constructs an in-memory ledger, the default for tests.
func NewMemLedger(baseReserve int64) *Ledger {
	return newLedger(newMemBackend(), baseReserve)
}

func newLedger(b backend, baseReserve int64) *Ledger {
	cache, err := lru.New(10000)
	if err != nil {
		// lru.New only fails for a non-positive size, which is a
		// programming error, not a runtime condition to recover from.
		panic(err)
	}
	return &Ledger{backend: b, baseReserve: baseReserve, cache: cache}
}

// CreateAccount seeds a brand new account directly in the backing
// store, bypassing the delta layer. Used by test setup, never by the
// apply engine itself (which always goes through a Delta so creation
// is rollback-safe).
func (l *Ledger) CreateAccount(accountID string, balance int64) *Account {
	a := NewAccount(accountID, balance, l.baseReserve)
	l.commitAccount(a)
	return cloneAccount(a)
}

func (l *Ledger) loadAccount(id string) (*Account, bool) {
	if v, ok := l.cache.Get(id); ok {
		return cloneAccount(v.(*Account)), true
	}

	b, ok := l.backend.get(accountsBucket, []byte(id))
	if !ok {
		return nil, false
	}
	var rec accountRecord
	if err := gobDecode(b, &rec); err != nil {
		return nil, false
	}
	a := rec.toAccount(l.baseReserve)
	l.cache.Add(id, a)
	return cloneAccount(a), true
}

func (l *Ledger) loadTrustLine(key string) (*TrustLine, bool) {
	if v, ok := l.cache.Get(key); ok {
		return cloneTrustLine(v.(*TrustLine)), true
	}

	b, ok := l.backend.get(trustlinesBucket, []byte(key))
	if !ok {
		return nil, false
	}
	var t TrustLine
	if err := gobDecode(b, &t); err != nil {
		return nil, false
	}
	l.cache.Add(key, &t)
	return cloneTrustLine(&t), true
}

func (l *Ledger) commitAccount(a *Account) {
	rec := accountRecord{
		AccountID:    a.AccountID,
		Balance:      a.Balance,
		EntryCount:   a.EntryCount,
		AuthRequired: a.AuthRequired,
	}
	b, err := gobEncode(rec)
	if err != nil {
		panic(fmt.Sprintf("ledgerstate: encode account failed: %v", err))
	}
	if err := l.backend.put(accountsBucket, []byte(a.AccountID), b); err != nil {
		panic(fmt.Sprintf("ledgerstate: persist account failed: %v", err))
	}
	l.cache.Add(a.AccountID, cloneAccount(a))
}

func (l *Ledger) commitTrustLine(key string, t *TrustLine) {
	if t == nil {
		// Deletion: drop the cached entry and remove the record from
		// the backend.
		l.cache.Remove(key)
		if err := l.backend.delete(trustlinesBucket, []byte(key)); err != nil {
			panic(fmt.Sprintf("ledgerstate: delete trustline failed: %v", err))
		}
		return
	}
	b, err := gobEncode(*t)
	if err != nil {
		panic(fmt.Sprintf("ledgerstate: encode trustline failed: %v", err))
	}
	if err := l.backend.put(trustlinesBucket, []byte(key), b); err != nil {
		panic(fmt.Sprintf("ledgerstate: persist trustline failed: %v", err))
	}
	l.cache.Add(key, cloneTrustLine(t))
}

// accountRecord is the gob-serializable projection of Account (the
// baseReserve field is deliberately not part of it - it is a ledger-
// wide constant supplied at load time, not per-account state).
type accountRecord struct {
	AccountID    string
	Balance      int64
	EntryCount   int32
	AuthRequired bool
}

func (r accountRecord) toAccount(baseReserve int64) *Account {
	return &Account{
		AccountID:    r.AccountID,
		Balance:      r.Balance,
		EntryCount:   r.EntryCount,
		AuthRequired: r.AuthRequired,
		baseReserve:  baseReserve,
	}
}

func gobEncode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gobDecode(b []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(b)).Decode(v)
}

// Accounts returns every account currently in the backing store, for
// use by the invariant checker and integration tests only - never by
// the apply engine.
func (l *Ledger) Accounts() ([]*Account, error) {
	var accs []*Account
	err := l.backend.forEach(accountsBucket, func(_, val []byte) error {
		var rec accountRecord
		if err := gobDecode(val, &rec); err != nil {
			return err
		}
		accs = append(accs, rec.toAccount(l.baseReserve))
		return nil
	})
	return accs, err
}

// TrustLines returns every trustline currently in the backing store.
func (l *Ledger) TrustLines() ([]*TrustLine, error) {
	var lines []*TrustLine
	err := l.backend.forEach(trustlinesBucket, func(_, val []byte) error {
		var t TrustLine
		if err := gobDecode(val, &t); err != nil {
			return err
		}
		lines = append(lines, &t)
		return nil
	})
	return lines, err
}

// CheckInvariants walks every account and trustline in the ledger and
// reports violations of spec.md section 3's invariants 1-3 (the
// cross-operation invariants 4-7 are checked by the apply-level tests
// directly, since they concern what a single operation is and is not
// allowed to produce).
func CheckInvariants(l *Ledger) []error {
	var errs []error

	accByID := make(map[string]*Account)
	accs, err := l.Accounts()
	if err != nil {
		return []error{fmt.Errorf("list accounts failed: %v", err)}
	}
	for _, a := range accs {
		accByID[a.AccountID] = a
		if a.Balance < a.MinimumBalance() {
			errs = append(errs, fmt.Errorf("account %s balance %d below minimum %d", a.AccountID, a.Balance, a.MinimumBalance()))
		}
	}

	entryCounts := make(map[string]int32)
	lines, err := l.TrustLines()
	if err != nil {
		return append(errs, fmt.Errorf("list trustlines failed: %v", err))
	}
	for _, t := range lines {
		if t.Balance < 0 || t.Balance > t.Limit {
			errs = append(errs, fmt.Errorf("trustline %s/%s balance %d out of [0,%d]", t.AccountID, t.Asset.Code, t.Balance, t.Limit))
		}
		entryCounts[t.AccountID]++
	}

	for id, a := range accByID {
		if a.EntryCount != entryCounts[id] {
			errs = append(errs, fmt.Errorf("account %s entry count %d does not match %d dependent entries", id, a.EntryCount, entryCounts[id]))
		}
	}

	return errs
}
