// Package checkpoint persists hash session snapshots so that long-running
// digests can resume after an interruption, and remembers finished digests.
//
// Records are keyed by algorithm name and a caller-chosen stream id:
//
//	ck/<algorithm>/<id>   marshalled engine.Session
//	dn/<algorithm>/<id>   finished digest
package checkpoint

import (
	"bytes"
	"encoding/binary"
	"path/filepath"

	"github.com/pkg/errors"
	"massnet.org/mdhash/crypto/engine"
	"massnet.org/mdhash/database/storage"
	"massnet.org/mdhash/logging"
)

var (
	pendingPrefix  = []byte("ck/")
	finishedPrefix = []byte("dn/")
)

// Store keeps checkpoints in a storage.Storage.
type Store struct {
	stor  storage.Storage
	cache *digestCache
}

// Pending describes an unfinished checkpoint.
type Pending struct {
	Algorithm string
	ID        string
	Len       uint64
}

// NewStore wraps stor. cacheSize bounds the in-memory digest cache.
func NewStore(stor storage.Storage, cacheSize int) *Store {
	return &Store{
		stor:  stor,
		cache: newDigestCache(cacheSize),
	}
}

// Open opens (or creates) a store of type dbtype under dir.
func Open(dbtype, dir string, cacheSize int) (*Store, error) {
	if err := storage.CheckCompatibility(dbtype, dir); err != nil {
		return nil, errors.Wrapf(err, "checkpoint dir %s", dir)
	}
	stor, err := storage.OpenOrCreateStorage(dbtype, filepath.Join(dir, "db"))
	if err != nil {
		return nil, errors.Wrapf(err, "open checkpoint storage %s", dir)
	}
	return NewStore(stor, cacheSize), nil
}

func recordKey(prefix []byte, alg, id string) []byte {
	key := make([]byte, 0, len(prefix)+len(alg)+1+len(id))
	key = append(key, prefix...)
	key = append(key, alg...)
	key = append(key, '/')
	return append(key, id...)
}

func cacheKey(alg, id string) string {
	return alg + "/" + id
}

// Save snapshots s under id, replacing any older snapshot.
func (st *Store) Save(id string, s *engine.Session) error {
	state, err := s.MarshalBinary()
	if err != nil {
		return err
	}
	if err = st.stor.Put(recordKey(pendingPrefix, s.Algorithm().Name(), id), state); err != nil {
		return errors.Wrapf(err, "save checkpoint %s", id)
	}
	logging.VPrint(logging.DEBUG, "checkpoint saved", logging.LogFormat{
		"id":        id,
		"algorithm": s.Algorithm().Name(),
		"len":       s.Len(),
	})
	return nil
}

// Restore loads the snapshot saved under id into s. It reports false when
// there is none. A snapshot that cannot be decoded is discarded.
func (st *Store) Restore(id string, s *engine.Session) (bool, error) {
	key := recordKey(pendingPrefix, s.Algorithm().Name(), id)
	state, err := st.stor.Get(key)
	if err == storage.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "load checkpoint %s", id)
	}
	if err = s.UnmarshalBinary(state); err != nil {
		logging.CPrint(logging.WARN, "drop unreadable checkpoint", logging.LogFormat{"id": id, "err": err})
		s.Reset()
		return false, st.stor.Delete(key)
	}
	return true, nil
}

// Discard removes the snapshot saved under id, if any.
func (st *Store) Discard(alg, id string) error {
	return st.stor.Delete(recordKey(pendingPrefix, alg, id))
}

// Prune removes the snapshots of alg whose id starts with prefix, except
// keep, and returns how many were removed.
func (st *Store) Prune(alg, prefix, keep string) (int, error) {
	it := st.stor.NewIterator(storage.BytesPrefix(recordKey(pendingPrefix, alg, prefix)))
	defer it.Release()

	keepKey := recordKey(pendingPrefix, alg, keep)
	batch := st.stor.NewBatch()
	defer batch.Release()
	var n int
	for it.Next() {
		key := it.Key()
		if bytes.Equal(key, keepKey) {
			continue
		}
		if err := batch.Delete(key); err != nil {
			return 0, err
		}
		n++
	}
	if err := it.Error(); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	if err := st.stor.Write(batch); err != nil {
		return 0, errors.Wrapf(err, "prune checkpoints %s", prefix)
	}
	logging.VPrint(logging.DEBUG, "stale checkpoints pruned", logging.LogFormat{
		"algorithm": alg,
		"prefix":    prefix,
		"count":     n,
	})
	return n, nil
}

// Finish records the digest of id and drops its snapshot atomically.
func (st *Store) Finish(alg, id string, digest []byte) error {
	batch := st.stor.NewBatch()
	defer batch.Release()
	if err := batch.Delete(recordKey(pendingPrefix, alg, id)); err != nil {
		return err
	}
	if err := batch.Put(recordKey(finishedPrefix, alg, id), digest); err != nil {
		return err
	}
	if err := st.stor.Write(batch); err != nil {
		return errors.Wrapf(err, "finish checkpoint %s", id)
	}
	st.cache.add(cacheKey(alg, id), append([]byte(nil), digest...))
	return nil
}

// Lookup returns the digest recorded by Finish.
func (st *Store) Lookup(alg, id string) ([]byte, bool, error) {
	if d, ok := st.cache.get(cacheKey(alg, id)); ok {
		return d, true, nil
	}
	d, err := st.stor.Get(recordKey(finishedPrefix, alg, id))
	if err == storage.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "lookup digest %s", id)
	}
	st.cache.add(cacheKey(alg, id), d)
	return d, true, nil
}

// Forget removes the finished digest of id.
func (st *Store) Forget(alg, id string) error {
	st.cache.remove(cacheKey(alg, id))
	return st.stor.Delete(recordKey(finishedPrefix, alg, id))
}

// Pending lists unfinished checkpoints in key order.
func (st *Store) Pending() ([]Pending, error) {
	it := st.stor.NewIterator(storage.BytesPrefix(pendingPrefix))
	defer it.Release()

	var list []Pending
	for it.Next() {
		rest := it.Key()[len(pendingPrefix):]
		i := bytes.IndexByte(rest, '/')
		if i < 0 {
			continue
		}
		p := Pending{Algorithm: string(rest[:i]), ID: string(rest[i+1:])}
		p.Len = snapshotLen(it.Value())
		list = append(list, p)
	}
	return list, it.Error()
}

// Clear removes every unfinished checkpoint and returns how many there were.
func (st *Store) Clear() (int, error) {
	list, err := st.Pending()
	if err != nil {
		return 0, err
	}
	batch := st.stor.NewBatch()
	defer batch.Release()
	for _, p := range list {
		if err = batch.Delete(recordKey(pendingPrefix, p.Algorithm, p.ID)); err != nil {
			return 0, err
		}
	}
	if err = st.stor.Write(batch); err != nil {
		return 0, err
	}
	return len(list), nil
}

// Close closes the underlying storage.
func (st *Store) Close() error {
	return st.stor.Close()
}

// snapshotLen reads the total length trailing a marshalled session.
func snapshotLen(state []byte) uint64 {
	if len(state) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(state[len(state)-8:])
}
