package bucketlog

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// mapping owns the writable mmap region backing a Store's file, and the
// growth policy from spec.md §4.2. It is not safe for concurrent use; the
// owning Store serializes access to it.
type mapping struct {
	fd        int
	data      []byte // len(data) == mmapAlloc; nil when mmapAlloc == 0
	mmapAlloc uint64
}

// mapFile mmaps length bytes of fd starting at offset 0.
func mapFile(fd int, length uint64, prot int) ([]byte, error) {
	data, err := unix.Mmap(fd, 0, int(length), prot, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("bucketlog: mmap %d bytes: %w", length, err)
	}

	return data, nil
}

// remap truncates fd to size and replaces m.data with a fresh mapping of it.
// The caller must have already flushed and unmapped any previous mapping.
func (m *mapping) remap(size uint64) error {
	if err := unix.Ftruncate(m.fd, int64(size)); err != nil { //nolint:gosec // size <= maxFileSize
		return fmt.Errorf("bucketlog: ftruncate to %d: %w", size, err)
	}

	data, err := mapFile(m.fd, size, unix.PROT_READ|unix.PROT_WRITE)
	if err != nil {
		return err
	}

	m.data = data
	m.mmapAlloc = size

	return nil
}

// flush synchronously writes back dirty mmap pages (msync(MS_SYNC)).
func (m *mapping) flush() error {
	if m.data == nil {
		return nil
	}

	if err := unix.Msync(m.data, unix.MS_SYNC); err != nil {
		return fmt.Errorf("bucketlog: msync: %w", err)
	}

	return nil
}

// unmap releases the current mapping. Safe to call when already unmapped.
func (m *mapping) unmap() error {
	if m.data == nil {
		return nil
	}

	err := unix.Munmap(m.data)
	m.data = nil

	if err != nil {
		return fmt.Errorf("bucketlog: munmap: %w", err)
	}

	return nil
}

// openInitial performs the one-time mapping established right after
// open/recover: the file is truncated (if needed) and mapped at
// eof + mmapGrowthSlack bytes (spec.md §4.2).
func (m *mapping) openInitial(eof uint64) error {
	size := eof + mmapGrowthSlack
	if size > maxFileSize {
		size = maxFileSize
	}

	return m.remap(size)
}

// ensureRoom grows the mapping, if necessary, so that neededEOF bytes fit.
// neededEOF is the file offset the write in progress will occupy through
// (i.e. the prospective new eof). Growth follows spec.md §4.2: flush,
// unmap, truncate to mmap_alloc + 2*neededEOF (clamped to 2^32-1), remap.
func (m *mapping) ensureRoom(neededEOF uint64) error {
	if neededEOF <= m.mmapAlloc {
		return nil
	}

	if m.mmapAlloc >= maxFileSize {
		return fmt.Errorf("%w: mapping already at %d bytes", ErrFileTooLarge, maxFileSize)
	}

	if err := m.flush(); err != nil {
		return err
	}

	if err := m.unmap(); err != nil {
		return err
	}

	newSize := m.mmapAlloc + 2*neededEOF
	if newSize > maxFileSize {
		newSize = maxFileSize
	}

	if newSize < neededEOF {
		return fmt.Errorf("%w: requested %d bytes", ErrFileTooLarge, neededEOF)
	}

	return m.remap(newSize)
}
