package bucketlog

import "errors"

// Sentinel errors returned by bucketlog operations.
//
// Callers should classify errors with [errors.Is]:
//
//	if errors.Is(err, bucketlog.ErrCorrupt) {
//	    os.Remove(path)
//	    // recreate from source of truth, if one exists
//	}
var (
	// ErrCorrupt indicates structural corruption: during recovery, a stored
	// bucket count of zero or a record found mid-file with a bad
	// previous-offset link (or a record whose hash bucket disagrees with
	// where it was chained); during Get or Iterate, a chain entry that cannot
	// be parsed. A torn trailing record is NOT an error; it is silently
	// dropped, per spec.md §4.5/§8 (S5 crash safety).
	ErrCorrupt = errors.New("bucketlog: corrupt")

	// ErrIncompatibleBuckets indicates the file's persisted bucket count does
	// not match Options.NumBuckets.
	ErrIncompatibleBuckets = errors.New("bucketlog: incompatible bucket count")

	// ErrClosed indicates the Store has already been closed.
	ErrClosed = errors.New("bucketlog: closed")

	// ErrInvalidInput indicates a programming error: a nil/empty key, a key
	// containing an interior zero byte, or a bad Options value.
	ErrInvalidInput = errors.New("bucketlog: invalid input")

	// ErrKeyTooLarge indicates the key (plus its implicit terminator) exceeds
	// the 65535-byte klen field.
	ErrKeyTooLarge = errors.New("bucketlog: key too large")

	// ErrValueTooLarge indicates the value exceeds the maximum vlen for the
	// format (2^32 - 65559 bytes).
	ErrValueTooLarge = errors.New("bucketlog: value too large")

	// ErrFileTooLarge indicates appending the next record would grow the
	// file past the format's 2^32-1 byte cap.
	ErrFileTooLarge = errors.New("bucketlog: file size limit reached")
)
