package bucketlog

import "fmt"

// KeyValue is one live entry yielded by Iterate.
type KeyValue struct {
	Key   []byte
	Value []byte
}

// Iterate calls fn once for every live key, with its newest value, in
// unspecified order across and within buckets (spec.md §4.8). Key and
// Value alias the Store's mapping and are only valid for the duration of
// the call; fn must copy anything it needs to retain. Iteration stops and
// Iterate returns fn's error as soon as fn returns a non-nil error.
//
// Dedup is scoped to a single bucket's chain: because a key always hashes
// to exactly one bucket, the newest-first walk of that one chain is
// sufficient to see every version of every key that ever lived there. The
// original C implementation tracked "seen" keys in a fixed 254-byte-limited
// delimited buffer (springfield.c); a plain map serves the same purpose
// here without that limit.
func (s *Store) Iterate(fn func(KeyValue) error) error {
	if s.closed {
		return ErrClosed
	}

	for _, head := range s.idx.chains() {
		seen := make(map[string]struct{})

		for off := head; off != noneOffset; {
			rec, ok := parseRecord(s.m.data, off, s.eof)
			if !ok {
				return fmt.Errorf("%w: chain entry at offset %d is unreadable", ErrCorrupt, off)
			}

			key := rec.Key[:len(rec.Key)-1]

			if _, dup := seen[string(key)]; !dup {
				seen[string(key)] = struct{}{}

				if !rec.tombstone() {
					if err := fn(KeyValue{Key: key, Value: rec.Value}); err != nil {
						return err
					}
				}
			}

			off = rec.Previous
		}
	}

	return nil
}
