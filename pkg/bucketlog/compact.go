package bucketlog

import (
	"errors"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
	"golang.org/x/sys/unix"
)

// Compact rewrites the store to a fresh file containing only live
// (non-tombstoned, newest-version) entries, then atomically replaces the
// original file with it (spec.md §4.9). The bucket count is unchanged. On
// success the Store keeps operating, now against the compacted file; on
// failure the original file is untouched and the staging file is removed.
//
// Compact is not safe to call concurrently with any other Store method, or
// from more than one process against the same path at once; see spec.md §5.
func (s *Store) Compact() error {
	if s.closed {
		return ErrClosed
	}

	tmpPath := s.path + ".compact.tmp"
	_ = os.Remove(tmpPath)

	// Covers every failure path below, including a staging Open that created
	// the file and then failed: no early return leaves tmpPath behind. A
	// no-op once atomic.ReplaceFile has consumed it.
	defer func() { _ = os.Remove(tmpPath) }()

	fresh, err := Open(Options{Path: tmpPath, NumBuckets: s.numBuckets, Logf: s.logf})
	if err != nil {
		return fmt.Errorf("bucketlog: compact %s: create staging file: %w", s.path, err)
	}

	if err := s.copyLiveInto(fresh); err != nil {
		_ = fresh.Close()

		return fmt.Errorf("bucketlog: compact %s: %w", s.path, err)
	}

	if err := fresh.Sync(); err != nil {
		_ = fresh.Close()

		return fmt.Errorf("bucketlog: compact %s: %w", s.path, err)
	}

	// Detach fresh's resources without releasing them: fresh.Close would
	// unmap and close the very fd/mapping about to replace s's, and s must
	// not be touched until the rename below actually succeeds.
	newFD, newM, newIdx, newEOF := fresh.fd, fresh.m, fresh.idx, fresh.eof
	fresh.closed = true

	// spec.md §4.9: rename the staging file over the original (step 5)
	// before touching the source's own fd/mapping (step 6). Until this
	// succeeds, s is left completely untouched and still serving reads
	// against the pre-compaction file.
	if err := atomic.ReplaceFile(tmpPath, s.path); err != nil {
		_ = newM.flush()
		_ = newM.unmap()
		_ = unix.Close(newFD)

		return fmt.Errorf("bucketlog: compact %s: replace original: %w", s.path, err)
	}

	oldFD, oldM, oldEOF := s.fd, s.m, s.eof

	s.fd = newFD
	s.m = newM
	s.idx = newIdx
	s.eof = newEOF

	if err := errors.Join(oldM.flush(), oldM.unmap(), wrapClose(unix.Close(oldFD))); err != nil {
		return fmt.Errorf("bucketlog: compact %s: closing superseded file: %w", s.path, err)
	}

	s.logf("bucketlog: compacted %s (eof %d -> %d bytes)", s.path, oldEOF, s.eof)

	return nil
}

func (s *Store) copyLiveInto(dst *Store) error {
	return s.Iterate(func(kv KeyValue) error {
		return dst.Set(kv.Key, kv.Value)
	})
}
