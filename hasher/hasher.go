// Package hasher digests files and streams with the engine algorithms.
// Every file gets its own session; sessions run in parallel on a worker
// pool and, when a checkpoint store is attached, are snapshotted
// periodically so an interrupted run can pick up where it stopped.
package hasher

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/orcaman/concurrent-map"
	"github.com/panjf2000/ants"
	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/cpu"
	set "gopkg.in/fatih/set.v0"
	"massnet.org/mdhash/checkpoint"
	"massnet.org/mdhash/config"
	"massnet.org/mdhash/crypto/engine"
	"massnet.org/mdhash/hashutil"
	"massnet.org/mdhash/logging"
)

// ErrIsDirectory is returned when a path names a directory.
var ErrIsDirectory = errors.New("is a directory")

// Result is the outcome of hashing one file.
type Result struct {
	Path   string
	Digest hashutil.Digest
	Size   int64
	// Resumed is set when hashing continued from a saved checkpoint.
	Resumed bool
	// Cached is set when the digest came from a previous run.
	Cached bool
	Err    error
}

// Hasher runs file digests on a worker pool.
type Hasher struct {
	alg   engine.Algorithm
	cfg   config.Hasher
	store *checkpoint.Store
	pool  *ants.Pool
}

// New creates a Hasher. store may be nil to disable checkpoints.
func New(cfg *config.Hasher, store *checkpoint.Store) (*Hasher, error) {
	alg, err := LookupAlgorithm(cfg.Algorithm)
	if err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers()
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, errors.Wrap(err, "create worker pool")
	}
	h := &Hasher{
		alg:   alg,
		cfg:   *cfg,
		store: store,
		pool:  pool,
	}
	if h.cfg.ChunkSize <= 0 {
		h.cfg.ChunkSize = 64 * alg.BlockSize()
	}
	logging.VPrint(logging.DEBUG, "hasher created", logging.LogFormat{
		"algorithm":  alg.Name(),
		"workers":    workers,
		"chunk_size": h.cfg.ChunkSize,
		"checkpoint": store != nil,
	})
	return h, nil
}

func defaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		logging.VPrint(logging.WARN, "cannot count cpus, use one worker", logging.LogFormat{"err": err})
		return 1
	}
	return n
}

// Algorithm returns the algorithm used by h.
func (h *Hasher) Algorithm() engine.Algorithm { return h.alg }

func (h *Hasher) newSession() *engine.Session { return engine.New(h.alg) }

// Close releases the worker pool.
func (h *Hasher) Close() {
	h.pool.Release()
}

// HashFiles digests every path and returns one result per input, in input
// order. Repeated paths are hashed once. With a checkpoint store, digests
// recorded for an unchanged path, size and mtime are reused.
func (h *Hasher) HashFiles(ctx context.Context, paths []string) []*Result {
	return h.hashFiles(ctx, paths, true)
}

func (h *Hasher) hashFiles(ctx context.Context, paths []string, lookup bool) []*Result {
	seen := set.New(set.ThreadSafe).(*set.Set)
	results := cmap.New()

	var wg sync.WaitGroup
	for _, p := range paths {
		if seen.Has(p) {
			continue
		}
		seen.Add(p)

		path := p
		wg.Add(1)
		err := h.pool.Submit(func() {
			defer wg.Done()
			results.Set(path, h.hashFile(ctx, path, lookup))
		})
		if err != nil {
			wg.Done()
			results.Set(path, &Result{Path: path, Err: errors.Wrap(err, "submit task")})
		}
	}
	wg.Wait()

	out := make([]*Result, 0, len(paths))
	for _, p := range paths {
		v, _ := results.Get(p)
		out = append(out, v.(*Result))
	}
	return out
}

// HashReader digests everything read from r. Streams are not checkpointed.
func (h *Hasher) HashReader(ctx context.Context, r io.Reader) (hashutil.Digest, error) {
	return h.absorb(ctx, r, h.newSession(), "")
}

// HashString digests s.
func (h *Hasher) HashString(s string) hashutil.Digest {
	sess := h.newSession()
	sess.Update([]byte(s))
	return sess.Digest()
}

// streamPrefix is shared by the ids of every version of path.
func streamPrefix(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path + "|"
}

// streamID identifies one version of a file's content.
func streamID(path string, fi os.FileInfo) string {
	return fmt.Sprintf("%s%d|%d", streamPrefix(path), fi.Size(), fi.ModTime().UnixNano())
}

// hashFile digests one file. lookup allows answering from the recorded
// digests instead of reading the content.
func (h *Hasher) hashFile(ctx context.Context, path string, lookup bool) *Result {
	res := &Result{Path: path}

	f, err := os.Open(path)
	if err != nil {
		res.Err = err
		return res
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		res.Err = err
		return res
	}
	if fi.IsDir() {
		res.Err = errors.Wrap(ErrIsDirectory, path)
		return res
	}
	res.Size = fi.Size()

	var id string
	if h.store != nil {
		id = streamID(path, fi)
		if lookup {
			if d, ok, err := h.store.Lookup(h.alg.Name(), id); err != nil {
				logging.VPrint(logging.WARN, "digest lookup failed", logging.LogFormat{"path": path, "err": err})
			} else if ok {
				res.Digest, res.Cached = d, true
				return res
			}
		}
		// snapshots of older versions of the file can never resume
		if _, err := h.store.Prune(h.alg.Name(), streamPrefix(path), id); err != nil {
			logging.VPrint(logging.WARN, "prune stale checkpoints failed", logging.LogFormat{"path": path, "err": err})
		}
	}

	s := h.newSession()
	if h.store != nil {
		if res.Resumed, err = h.resume(f, id, s); err != nil {
			res.Err = err
			return res
		}
	}

	res.Digest, res.Err = h.absorb(ctx, f, s, id)
	if res.Err != nil {
		return res
	}
	if h.store != nil {
		if err := h.store.Finish(h.alg.Name(), id, res.Digest); err != nil {
			logging.VPrint(logging.WARN, "cannot record digest", logging.LogFormat{"path": path, "err": err})
		}
	}
	logging.VPrint(logging.DEBUG, "file hashed", logging.LogFormat{
		"path":    path,
		"size":    res.Size,
		"resumed": res.Resumed,
	})
	return res
}

// resume restores the checkpoint of id into s and positions f after the
// bytes it already covers.
func (h *Hasher) resume(f *os.File, id string, s *engine.Session) (bool, error) {
	ok, err := h.store.Restore(id, s)
	if err != nil {
		logging.VPrint(logging.WARN, "checkpoint restore failed", logging.LogFormat{"id": id, "err": err})
		s.Reset()
		return false, nil
	}
	if !ok {
		return false, nil
	}
	if _, err = f.Seek(int64(s.Len()), io.SeekStart); err != nil {
		return false, errors.Wrap(err, "seek to checkpoint")
	}
	logging.VPrint(logging.INFO, "resume from checkpoint", logging.LogFormat{"id": id, "offset": s.Len()})
	return true, nil
}

// absorb feeds r into s chunk by chunk. With an id and a store, s is saved
// every CheckpointInterval bytes and, when ctx is canceled, if anything was
// absorbed since the last save.
func (h *Hasher) absorb(ctx context.Context, r io.Reader, s *engine.Session, id string) (hashutil.Digest, error) {
	save := func() {
		if h.store == nil || id == "" {
			return
		}
		if err := h.store.Save(id, s); err != nil {
			logging.VPrint(logging.WARN, "checkpoint save failed", logging.LogFormat{"id": id, "err": err})
		}
	}

	buf := make([]byte, h.cfg.ChunkSize)
	var unsaved int64
	for {
		select {
		case <-ctx.Done():
			if unsaved > 0 {
				save()
			}
			return nil, ctx.Err()
		default:
		}

		n, err := io.ReadFull(r, buf)
		if n > 0 {
			s.Update(buf[:n])
			unsaved += int64(n)
			if h.cfg.CheckpointInterval > 0 && unsaved >= h.cfg.CheckpointInterval {
				save()
				unsaved = 0
			}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return s.Digest(), nil
}
