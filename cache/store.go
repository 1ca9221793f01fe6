package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/kbukum/stagekit/errors"
	"github.com/kbukum/stagekit/fingerprint"
	"github.com/kbukum/stagekit/logger"
	"github.com/kbukum/stagekit/retry"
)

const (
	payloadSuffix = ".bin"
	metaSuffix    = ".meta"
	tempPrefix    = ".tmp-"
)

// Entry is one cached stage result: the transformed payload and the
// side-channel string the transform produced with it.
type Entry struct {
	Payload     []byte
	SideChannel string
}

// Store is the on-disk cache for one cache root. Entries are grouped into
// per-stage directories and keyed by fingerprint.
type Store struct {
	root string
	log  *logger.Logger
}

// NewStore opens (creating if needed) the cache directory at root.
func NewStore(root string) (*Store, error) {
	if root == "" {
		return nil, errors.MissingArgument("cacheRoot")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.IOFailure("resolve", root, err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, errors.IOFailure("mkdir", abs, err)
	}
	return &Store{
		root: abs,
		log:  logger.Get("cache"),
	}, nil
}

// Root returns the absolute cache root path.
func (s *Store) Root() string { return s.root }

// Stage opens the per-stage cache directory for one stage execution.
// Each Select call opens a fresh Stage so the touched-entry tracking
// spans exactly one run.
func (s *Store) Stage(name string) (*Stage, error) {
	if name == "" {
		return nil, errors.MissingArgument("stageName")
	}
	dir := filepath.Join(s.root, name)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.IOFailure("mkdir", dir, err)
	}
	return &Stage{
		name:    name,
		dir:     dir,
		touched: make(map[string]struct{}),
		retry:   retry.DefaultConfig(),
		log:     s.log.WithStage(name),
	}, nil
}

// Stage is the cache directory of one named stage during one execution.
// Read and Write mark entries as touched; Reconcile deletes everything
// that was not touched. Safe for concurrent use by pool workers.
type Stage struct {
	name  string
	dir   string
	retry retry.Config
	log   *logger.Logger

	mu      sync.Mutex
	touched map[string]struct{}
}

// Name returns the stage name.
func (st *Stage) Name() string { return st.name }

// Exists reports whether a cache entry is present for the fingerprint.
func (st *Stage) Exists(fp fingerprint.Hash) (bool, error) {
	_, err := os.Stat(st.payloadPath(fp))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.IOFailure("stat", st.payloadPath(fp), err)
	}
	return true, nil
}

// Read loads the cached payload and side-channel string for the
// fingerprint and marks the entry as touched.
func (st *Stage) Read(fp fingerprint.Hash) (Entry, error) {
	payload, err := os.ReadFile(st.payloadPath(fp))
	if err != nil {
		return Entry{}, errors.IOFailure("read", st.payloadPath(fp), err)
	}
	meta, err := os.ReadFile(st.metaPath(fp))
	if err != nil {
		return Entry{}, errors.IOFailure("read", st.metaPath(fp), err)
	}
	st.touch(fp)
	return Entry{Payload: payload, SideChannel: string(meta)}, nil
}

// Write persists an entry under the fingerprint and marks it as touched.
// The payload and side-channel files are written to temporary names and
// atomically renamed into place, so a concurrent reader never observes a
// partial entry. Two workers racing to write the same fingerprint both
// succeed; last rename wins and the contents are identical by
// construction.
// Transient IO failures are retried with backoff; execution is never
// cancelled mid-stage, so publication runs against the background context.
func (st *Stage) Write(fp fingerprint.Hash, entry Entry) error {
	// Publish the side-channel file first: Exists and Read key off the
	// payload file, so once that name appears the entry is complete.
	err := retry.Func(context.Background(), st.retry, func() error {
		return st.writeAtomic(st.metaPath(fp), []byte(entry.SideChannel))
	})
	if err != nil {
		return err
	}
	err = retry.Func(context.Background(), st.retry, func() error {
		return st.writeAtomic(st.payloadPath(fp), entry.Payload)
	})
	if err != nil {
		return err
	}
	st.touch(fp)
	st.log.Trace("entry written", logger.Fields(
		logger.FieldFingerprint, fingerprint.Format(fp),
		logger.FieldBytes, len(entry.Payload),
	))
	return nil
}

// Reconcile deletes every entry in the stage directory that was not read
// or written during this execution, along with any leftover temporary
// files. This is the only eviction policy: entries orphaned by changed
// inputs or a changed transform identity are removed here.
func (st *Stage) Reconcile() error {
	dirEntries, err := os.ReadDir(st.dir)
	if err != nil {
		return errors.IOFailure("list", st.dir, err)
	}

	st.mu.Lock()
	touched := make(map[string]struct{}, len(st.touched))
	for k := range st.touched {
		touched[k] = struct{}{}
	}
	st.mu.Unlock()

	removed := 0
	for _, de := range dirEntries {
		name := de.Name()
		if strings.HasPrefix(name, tempPrefix) {
			if err := os.Remove(filepath.Join(st.dir, name)); err != nil && !os.IsNotExist(err) {
				return errors.IOFailure("delete", filepath.Join(st.dir, name), err)
			}
			continue
		}
		key := strings.TrimSuffix(strings.TrimSuffix(name, payloadSuffix), metaSuffix)
		if _, ok := touched[key]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(st.dir, name)); err != nil && !os.IsNotExist(err) {
			return errors.IOFailure("delete", filepath.Join(st.dir, name), err)
		}
		removed++
	}

	if removed > 0 {
		st.log.Debug("reconciled stage cache", logger.Fields(logger.FieldCount, removed))
	}
	return nil
}

func (st *Stage) touch(fp fingerprint.Hash) {
	st.mu.Lock()
	st.touched[fingerprint.Format(fp)] = struct{}{}
	st.mu.Unlock()
}

func (st *Stage) payloadPath(fp fingerprint.Hash) string {
	return filepath.Join(st.dir, fingerprint.Format(fp)+payloadSuffix)
}

func (st *Stage) metaPath(fp fingerprint.Hash) string {
	return filepath.Join(st.dir, fingerprint.Format(fp)+metaSuffix)
}

// writeAtomic writes data to a uniquely named temporary file in the stage
// directory and renames it onto path. Rename within one directory is
// atomic on POSIX filesystems.
func (st *Stage) writeAtomic(path string, data []byte) error {
	tmp := filepath.Join(st.dir, tempPrefix+uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return errors.IOFailure("write", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.IOFailure("rename", path, err)
	}
	return nil
}
