package bucketlog

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// filePerm is used only when creating a new log file.
const filePerm = 0o644

// Open opens the file at opts.Path, creating it if it does not exist, and
// recovers its hash-bucket index per spec.md §4.5.
func Open(opts Options) (*Store, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("%w: Options.Path is empty", ErrInvalidInput)
	}

	fd, err := unix.Open(opts.Path, unix.O_RDWR|unix.O_CREAT, filePerm)
	if err != nil {
		return nil, fmt.Errorf("bucketlog: open %s: %w", opts.Path, err)
	}

	store, err := openFD(fd, opts)
	if err != nil {
		_ = unix.Close(fd)

		return nil, err
	}

	return store, nil
}

func openFD(fd int, opts Options) (*Store, error) {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return nil, fmt.Errorf("bucketlog: stat %s: %w", opts.Path, err)
	}

	size := uint64(st.Size) //nolint:gosec // file sizes are non-negative

	m := &mapping{fd: fd}

	var (
		numBuckets uint32
		eof        uint64
		idx        *bucketIndex
	)

	logf := opts.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	switch {
	case size < filePrefixSize:
		// spec.md §4.5 step 2: anything shorter than the 4-byte prefix,
		// including a nonempty stub left by a crash before the prefix was
		// ever written, is treated as an empty store.
		if opts.NumBuckets == 0 {
			return nil, fmt.Errorf("%w: NumBuckets must be > 0 to create a new store", ErrInvalidInput)
		}

		numBuckets = opts.NumBuckets
		idx = newBucketIndex(numBuckets)

		if err := m.remap(filePrefixSize); err != nil {
			return nil, err
		}

		binary.LittleEndian.PutUint32(m.data[:filePrefixSize], numBuckets)
		eof = filePrefixSize

	default:
		if err := m.remap(size); err != nil {
			return nil, err
		}

		storedNumBuckets := binary.LittleEndian.Uint32(m.data[:filePrefixSize])
		if storedNumBuckets == 0 {
			return nil, fmt.Errorf("%w: %s: stored bucket count is zero", ErrCorrupt, opts.Path)
		}

		if opts.NumBuckets != 0 && opts.NumBuckets != storedNumBuckets {
			return nil, fmt.Errorf("%w: file has %d, requested %d", ErrIncompatibleBuckets, storedNumBuckets, opts.NumBuckets)
		}

		numBuckets = storedNumBuckets
		idx = newBucketIndex(numBuckets)

		recoveredEOF, err := recoverChains(m.data, size, idx, logf)
		if err != nil {
			return nil, err
		}

		// Zero bytes past the last valid record are growth padding, not a
		// torn write; only report a tail that holds nonzero bytes.
		if tail := bytes.TrimRight(m.data[recoveredEOF:size], "\x00"); len(tail) > 0 {
			logf("bucketlog: %s: discarding %d torn/unreadable trailing bytes", opts.Path, len(tail))
		}

		eof = recoveredEOF
	}

	if err := m.flush(); err != nil {
		return nil, err
	}

	if err := m.unmap(); err != nil {
		return nil, err
	}

	if err := m.openInitial(eof); err != nil {
		return nil, err
	}

	return &Store{
		path:       opts.Path,
		fd:         fd,
		m:          m,
		idx:        idx,
		eof:        eof,
		numBuckets: numBuckets,
		logf:       logf,
	}, nil
}

// recoverChains walks every record from the file prefix to limit, rebuilding
// idx as it goes, and returns the offset at which the valid prefix of the
// log ends (spec.md §4.5).
//
// A record that fails parseRecord's own checks (bad version, CRC mismatch,
// truncated tail, ...) ends the walk silently: data beyond that point is
// assumed to be a torn write from a crash mid-append, not an error. A
// record that parses cleanly but whose previous field disagrees with what
// its bucket's chain actually looked like at that point is a different
// matter: it can only mean the file was corrupted or reordered somewhere
// strictly before the tear, which parseRecord's own local checks cannot
// detect. That is reported as ErrCorrupt.
func recoverChains(data []byte, limit uint64, idx *bucketIndex, logf func(string, ...any)) (uint64, error) {
	off := uint64(filePrefixSize)

	for {
		rec, ok := parseRecord(data, off, limit)
		if !ok {
			return off, nil
		}

		key := rec.Key[:len(rec.Key)-1] // drop the trailing zero terminator

		wantPrevious := idx.push(key, rec.Offset)
		if wantPrevious != rec.Previous {
			return 0, fmt.Errorf("%w: record at offset %d: chain link mismatch (record says previous=%d, index says %d)",
				ErrCorrupt, rec.Offset, rec.Previous, wantPrevious)
		}

		off += rec.size()
	}
}

// Close flushes and releases the Store's mapping and file descriptor.
// Close is idempotent; it is an error to use a Store after Close.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}

	s.closed = true

	return errors.Join(
		s.m.flush(),
		s.m.unmap(),
		wrapClose(unix.Close(s.fd)),
	)
}

func wrapClose(err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("bucketlog: close: %w", err)
}
