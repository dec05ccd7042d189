package bucketlog

// Options configures Open.
type Options struct {
	// Path is the log file to open or create.
	Path string

	// NumBuckets is the size of the hash-bucket index.
	//
	// For a new (empty) file this is required and becomes the file's
	// permanent bucket count, stored in the file's 4-byte prefix. For an
	// existing file, a nonzero value is validated against the stored count
	// (mismatch is ErrIncompatibleBuckets); zero means "use whatever the
	// file already has."
	NumBuckets uint32

	// Logf, if non-nil, receives progress notes during Open (recovery
	// dropping a torn trailing record, for instance) and Compact. bucketlog
	// itself never logs; this is the only hook into an application's
	// logging. Grounded on the teacher's pkg/slotcache Options.Logf field.
	Logf func(format string, args ...any)
}

// seekWindowSize is the fixed divisor for SeekAverage (spec.md §4.7): the
// rolling window is always 100 slots wide, zero-initialized, and the
// average is always computed over all 100 slots regardless of how many
// Get calls have actually happened yet.
const seekWindowSize = 100

// Store is an open bucketlog file. A Store is NOT safe for concurrent use;
// callers needing concurrent access must provide their own mutual exclusion
// (spec.md §5).
type Store struct {
	path       string
	fd         int
	m          *mapping
	idx        *bucketIndex
	eof        uint64
	numBuckets uint32

	seeks   [seekWindowSize]uint32
	seekPos int

	logf   func(format string, args ...any)
	closed bool
}

// Path returns the file path the Store was opened against.
func (s *Store) Path() string {
	return s.path
}

// NumBuckets returns the file's hash-bucket count.
func (s *Store) NumBuckets() uint32 {
	return s.numBuckets
}

// recordSeek appends a chain-length sample to the rolling seek window.
func (s *Store) recordSeek(n int) {
	s.seeks[s.seekPos] = uint32(n) //nolint:gosec // n bounded by live chain lengths
	s.seekPos = (s.seekPos + 1) % seekWindowSize
}

// Stats is a point-in-time snapshot of a Store's health and access pattern,
// supplementing spec.md's core operations (SPEC_FULL.md §3).
type Stats struct {
	// EOF is the current logical end of the log, in bytes.
	EOF uint64

	// MmapAlloc is the current size of the backing mmap region, in bytes.
	MmapAlloc uint64

	// BucketCount is the file's hash-bucket count.
	BucketCount uint32

	// SeekAverage is the arithmetic mean chain length walked by the last
	// 100 Get calls that found their key (spec.md §4.7), zero-initialized.
	// A Get that finds no record for its key is not recorded.
	SeekAverage float64

	// LiveEstimate is the number of non-empty buckets, a cheap estimate of
	// the number of distinct live keys. It undercounts whenever two or more
	// live keys collide into the same bucket, and overcounts a bucket whose
	// chain holds only deleted keys.
	LiveEstimate int
}

// Stats returns a snapshot of the Store's current state.
func (s *Store) Stats() Stats {
	var sum uint64
	for _, v := range s.seeks {
		sum += uint64(v)
	}

	return Stats{
		EOF:          s.eof,
		MmapAlloc:    s.m.mmapAlloc,
		BucketCount:  s.numBuckets,
		SeekAverage:  float64(sum) / float64(seekWindowSize),
		LiveEstimate: len(s.idx.chains()),
	}
}
