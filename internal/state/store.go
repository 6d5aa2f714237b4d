package state

import (
	"bytes"
	"fmt"
	"sort"

	corestore "cosmossdk.io/core/store"
	dbm "github.com/cosmos/cosmos-db"
)

// OpenDB opens the application database under dir. backend is one of the
// cosmos-db backend names ("goleveldb", "memdb").
func OpenDB(name string, backend string, dir string) (dbm.DB, error) {
	db, err := dbm.NewDB(name, dbm.BackendType(backend), dir)
	if err != nil {
		return nil, fmt.Errorf("open %s db %q: %w", backend, name, err)
	}
	return db, nil
}

// dbStore exposes a cosmos-db database through the core KVStore interface.
type dbStore struct {
	db dbm.DB
}

var _ corestore.KVStore = dbStore{}

func NewDBStore(db dbm.DB) corestore.KVStore {
	return dbStore{db: db}
}

func (s dbStore) Get(key []byte) ([]byte, error)  { return s.db.Get(key) }
func (s dbStore) Has(key []byte) (bool, error)    { return s.db.Has(key) }
func (s dbStore) Set(key, value []byte) error     { return s.db.Set(key, value) }
func (s dbStore) Delete(key []byte) error         { return s.db.Delete(key) }

func (s dbStore) Iterator(start, end []byte) (corestore.Iterator, error) {
	it, err := s.db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (s dbStore) ReverseIterator(start, end []byte) (corestore.Iterator, error) {
	it, err := s.db.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return it, nil
}

type change struct {
	value   []byte
	deleted bool
}

// Branch buffers writes on top of a parent store. Nothing reaches the parent
// until Write is called; dropping the branch discards every change.
//
// A Branch is not safe for concurrent use.
type Branch struct {
	parent  corestore.KVStore
	changes map[string]change
}

var _ corestore.KVStore = (*Branch)(nil)

func NewBranch(parent corestore.KVStore) *Branch {
	return &Branch{parent: parent, changes: map[string]change{}}
}

func (b *Branch) Get(key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("key is empty")
	}
	if c, ok := b.changes[string(key)]; ok {
		if c.deleted {
			return nil, nil
		}
		return c.value, nil
	}
	return b.parent.Get(key)
}

func (b *Branch) Has(key []byte) (bool, error) {
	v, err := b.Get(key)
	if err != nil {
		return false, err
	}
	return v != nil, nil
}

func (b *Branch) Set(key, value []byte) error {
	if len(key) == 0 {
		return fmt.Errorf("key is empty")
	}
	if value == nil {
		return fmt.Errorf("value is nil")
	}
	b.changes[string(key)] = change{value: append([]byte(nil), value...)}
	return nil
}

func (b *Branch) Delete(key []byte) error {
	if len(key) == 0 {
		return fmt.Errorf("key is empty")
	}
	b.changes[string(key)] = change{deleted: true}
	return nil
}

func (b *Branch) Iterator(start, end []byte) (corestore.Iterator, error) {
	return b.iterator(start, end, false)
}

func (b *Branch) ReverseIterator(start, end []byte) (corestore.Iterator, error) {
	return b.iterator(start, end, true)
}

func (b *Branch) iterator(start, end []byte, reverse bool) (corestore.Iterator, error) {
	merged := map[string][]byte{}

	it, err := b.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	for ; it.Valid(); it.Next() {
		merged[string(it.Key())] = append([]byte(nil), it.Value()...)
	}
	if err := it.Error(); err != nil {
		_ = it.Close()
		return nil, err
	}
	if err := it.Close(); err != nil {
		return nil, err
	}

	for k, c := range b.changes {
		if !inRange([]byte(k), start, end) {
			continue
		}
		if c.deleted {
			delete(merged, k)
			continue
		}
		merged[k] = c.value
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if reverse {
		for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
			keys[i], keys[j] = keys[j], keys[i]
		}
	}

	items := make([]kv, 0, len(keys))
	for _, k := range keys {
		items = append(items, kv{key: []byte(k), value: merged[k]})
	}
	return &memIterator{start: start, end: end, items: items}, nil
}

// Write flushes buffered changes into the parent in key order and resets the
// branch.
func (b *Branch) Write() error {
	for _, k := range b.sortedKeys() {
		c := b.changes[k]
		if c.deleted {
			if err := b.parent.Delete([]byte(k)); err != nil {
				return err
			}
			continue
		}
		if err := b.parent.Set([]byte(k), c.value); err != nil {
			return err
		}
	}
	b.changes = map[string]change{}
	return nil
}

// Len reports the number of buffered changes.
func (b *Branch) Len() int { return len(b.changes) }

func (b *Branch) sortedKeys() []string {
	keys := make([]string, 0, len(b.changes))
	for k := range b.changes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Commit writes every change buffered in b straight into db as one synced
// batch, then resets b. b's parent must be a view of db.
func Commit(db dbm.DB, b *Branch) error {
	batch := db.NewBatch()
	defer func() { _ = batch.Close() }()

	for _, k := range b.sortedKeys() {
		c := b.changes[k]
		var err error
		if c.deleted {
			err = batch.Delete([]byte(k))
		} else {
			err = batch.Set([]byte(k), c.value)
		}
		if err != nil {
			return fmt.Errorf("stage %q: %w", k, err)
		}
	}
	if err := batch.WriteSync(); err != nil {
		return fmt.Errorf("write batch: %w", err)
	}
	b.changes = map[string]change{}
	return nil
}

func inRange(key, start, end []byte) bool {
	if start != nil && bytes.Compare(key, start) < 0 {
		return false
	}
	if end != nil && bytes.Compare(key, end) >= 0 {
		return false
	}
	return true
}

type kv struct {
	key   []byte
	value []byte
}

type memIterator struct {
	start, end []byte
	items      []kv
	pos        int
}

var _ corestore.Iterator = (*memIterator)(nil)

func (it *memIterator) Domain() ([]byte, []byte) { return it.start, it.end }
func (it *memIterator) Valid() bool              { return it.pos < len(it.items) }
func (it *memIterator) Error() error             { return nil }
func (it *memIterator) Close() error             { return nil }

func (it *memIterator) Next() {
	if !it.Valid() {
		panic("iterator is invalid")
	}
	it.pos++
}

func (it *memIterator) Key() []byte {
	if !it.Valid() {
		panic("iterator is invalid")
	}
	return it.items[it.pos].key
}

func (it *memIterator) Value() []byte {
	if !it.Valid() {
		panic("iterator is invalid")
	}
	return it.items[it.pos].value
}
