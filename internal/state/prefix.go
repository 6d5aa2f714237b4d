package state

import (
	corestore "cosmossdk.io/core/store"
)

// PrefixEndBytes returns the smallest key strictly greater than every key
// carrying prefix, or nil when no such key exists.
func PrefixEndBytes(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}
	end := append([]byte(nil), prefix...)
	for {
		if end[len(end)-1] != 0xff {
			end[len(end)-1]++
			return end
		}
		end = end[:len(end)-1]
		if len(end) == 0 {
			return nil
		}
	}
}

// prefixStore namespaces every key of a parent store.
type prefixStore struct {
	parent corestore.KVStore
	prefix []byte
}

var _ corestore.KVStore = prefixStore{}

func NewPrefixStore(parent corestore.KVStore, prefix []byte) corestore.KVStore {
	return prefixStore{parent: parent, prefix: append([]byte(nil), prefix...)}
}

func (s prefixStore) key(k []byte) []byte {
	out := make([]byte, 0, len(s.prefix)+len(k))
	out = append(out, s.prefix...)
	return append(out, k...)
}

func (s prefixStore) Get(key []byte) ([]byte, error) { return s.parent.Get(s.key(key)) }
func (s prefixStore) Has(key []byte) (bool, error)   { return s.parent.Has(s.key(key)) }
func (s prefixStore) Set(key, value []byte) error    { return s.parent.Set(s.key(key), value) }
func (s prefixStore) Delete(key []byte) error        { return s.parent.Delete(s.key(key)) }

func (s prefixStore) bounds(start, end []byte) ([]byte, []byte) {
	pstart := s.key(start)
	var pend []byte
	if end == nil {
		pend = PrefixEndBytes(s.prefix)
	} else {
		pend = s.key(end)
	}
	return pstart, pend
}

func (s prefixStore) Iterator(start, end []byte) (corestore.Iterator, error) {
	pstart, pend := s.bounds(start, end)
	it, err := s.parent.Iterator(pstart, pend)
	if err != nil {
		return nil, err
	}
	return &prefixIterator{Iterator: it, prefix: s.prefix, start: start, end: end}, nil
}

func (s prefixStore) ReverseIterator(start, end []byte) (corestore.Iterator, error) {
	pstart, pend := s.bounds(start, end)
	it, err := s.parent.ReverseIterator(pstart, pend)
	if err != nil {
		return nil, err
	}
	return &prefixIterator{Iterator: it, prefix: s.prefix, start: start, end: end}, nil
}

type prefixIterator struct {
	corestore.Iterator
	prefix     []byte
	start, end []byte
}

func (it *prefixIterator) Domain() ([]byte, []byte) { return it.start, it.end }

func (it *prefixIterator) Key() []byte {
	return it.Iterator.Key()[len(it.prefix):]
}
