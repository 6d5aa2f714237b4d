package state

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	corestore "cosmossdk.io/core/store"
)

// MetaPrefix namespaces runtime bookkeeping (height, last app hash) that is
// excluded from the app hash.
var MetaPrefix = []byte("meta/")

// AppHash hashes every (key, value) pair of store in key order, skipping
// MetaPrefix keys. Pairs are length-prefixed.
func AppHash(store corestore.KVStore) ([]byte, error) {
	it, err := store.Iterator(nil, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = it.Close() }()

	h := sha256.New()
	var lenBuf [4]byte
	for ; it.Valid(); it.Next() {
		k := it.Key()
		if bytes.HasPrefix(k, MetaPrefix) {
			continue
		}
		v := it.Value()
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(k)))
		h.Write(lenBuf[:])
		h.Write(k)
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(v)))
		h.Write(lenBuf[:])
		h.Write(v)
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}
