package bucketlog

import "fmt"

// validateKey enforces spec.md §3's key constraints: non-empty, no interior
// zero byte (the on-disk format reserves the trailing zero as a
// terminator), and short enough that klen (len(key)+1) fits in a uint16.
func validateKey(key []byte) error {
	if len(key) == 0 {
		return fmt.Errorf("%w: empty key", ErrInvalidInput)
	}

	for _, b := range key {
		if b == 0 {
			return fmt.Errorf("%w: key contains a zero byte", ErrInvalidInput)
		}
	}

	if len(key) > int(maxKlen)-1 {
		return fmt.Errorf("%w: key is %d bytes", ErrKeyTooLarge, len(key))
	}

	return nil
}

// validateValue enforces the format's vlen ceiling.
func validateValue(value []byte) error {
	if uint64(len(value)) > uint64(maxVlen) {
		return fmt.Errorf("%w: value is %d bytes", ErrValueTooLarge, len(value))
	}

	return nil
}

// Set appends a new version of key with the given value, chaining it onto
// whatever the key's bucket previously pointed at (spec.md §4.6). An
// existing on-disk version of key is left untouched; Get and Iterate see
// only the newest version.
func (s *Store) Set(key, value []byte) error {
	if s.closed {
		return ErrClosed
	}

	if err := validateKey(key); err != nil {
		return err
	}

	if err := validateValue(value); err != nil {
		return err
	}

	previous := s.idx.head(key)
	buf := encodeRecord(key, value, previous)

	recordOff := s.eof
	neededEOF := recordOff + uint64(len(buf))

	if neededEOF > maxFileSize {
		return fmt.Errorf("%w: next record would end at byte %d", ErrFileTooLarge, neededEOF)
	}

	if err := s.m.ensureRoom(neededEOF); err != nil {
		return err
	}

	copy(s.m.data[recordOff:neededEOF], buf)
	s.idx.push(key, recordOff)
	s.eof = neededEOF

	return nil
}

// Delete appends a tombstone for key (a record with vlen == 0). A
// subsequent Get returns (nil, nil); Iterate skips it. Deleting a key that
// was never set is not an error.
func (s *Store) Delete(key []byte) error {
	return s.Set(key, nil)
}

// Sync forces the mapping's dirty pages to disk (msync(MS_SYNC)). Set and
// Delete do not call this implicitly; callers that need durability before
// continuing must call it themselves.
func (s *Store) Sync() error {
	if s.closed {
		return ErrClosed
	}

	return s.m.flush()
}
