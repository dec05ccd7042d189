package bucketlog

import (
	"bytes"
	"fmt"
)

// Get returns the newest live value for key, (nil, nil) if the key has no
// live value (never set, or its newest record is a tombstone), or a
// wrapped ErrCorrupt if the key's chain cannot be walked to a conclusion
// (spec.md §4.7). The returned slice is a copy; it does not alias the
// Store's mapping.
func (s *Store) Get(key []byte) ([]byte, error) {
	if s.closed {
		return nil, ErrClosed
	}

	if err := validateKey(key); err != nil {
		return nil, err
	}

	off := s.idx.head(key)

	seeks := 0
	for off != noneOffset {
		seeks++

		rec, ok := parseRecord(s.m.data, off, s.eof)
		if !ok {
			return nil, fmt.Errorf("%w: chain entry for key at offset %d is unreadable", ErrCorrupt, off)
		}

		if bytes.Equal(rec.Key[:len(rec.Key)-1], key) {
			s.recordSeek(seeks)

			if rec.tombstone() {
				return nil, nil
			}

			value := make([]byte, len(rec.Value))
			copy(value, rec.Value)

			return value, nil
		}

		off = rec.Previous
	}

	return nil, nil
}
