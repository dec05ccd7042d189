// Package bucketlog provides an embedded, single-file, append-only
// key-value store backed by a memory-mapped log.
//
// bucketlog keeps every record it has ever written in one file: writes are
// appends, never in-place rewrites, and a process-local hash-bucket index
// of file offsets accelerates lookups by walking a singly linked chain of
// same-bucket records back to front. Reclaiming space (superseded values,
// tombstones) requires [Store.Compact].
//
// # Basic usage
//
//	store, err := bucketlog.Open(bucketlog.Options{
//	    Path:       "/tmp/my.bucketlog",
//	    NumBuckets: 1024,
//	})
//	if err != nil {
//	    // handle ErrCorrupt/ErrIncompatibleBuckets by deleting and recreating
//	}
//	defer store.Close()
//
//	err = store.Set([]byte("k"), []byte("v"))
//	val, err := store.Get([]byte("k")) // val == nil, err == nil on miss
//
// # Concurrency
//
// A *Store is not safe for concurrent use. bucketlog performs no internal
// locking and assumes exclusive ownership of its file by a single thread in
// a single process for the duration of a session (see spec.md §5). A host
// that wants to drive one Store from multiple goroutines, or to compact
// while a writer is still active, must supply its own mutual exclusion.
//
// # Error handling
//
// Corruption and I/O failures are returned as wrapped, sentinel errors
// rather than aborting the process (see [ErrCorrupt], [ErrIncompatibleBuckets]).
// A miss or a tombstoned key is not an error: [Store.Get] returns (nil, nil).
package bucketlog
