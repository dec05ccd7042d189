package bucketlog

// bucketIndex is the pure in-memory hash-bucket index described in
// spec.md §4.4: one file offset per bucket, pointing at the most recently
// appended record whose key hashes to that bucket. It performs no I/O of
// its own; callers are responsible for keeping it in sync with the log.
type bucketIndex struct {
	numBuckets uint32
	offsets    []uint64
}

// newBucketIndex allocates an index with every bucket empty.
func newBucketIndex(numBuckets uint32) *bucketIndex {
	offsets := make([]uint64, numBuckets)
	for i := range offsets {
		offsets[i] = noneOffset
	}

	return &bucketIndex{numBuckets: numBuckets, offsets: offsets}
}

// head returns the file offset of the newest record chained under key's
// bucket, or noneOffset if the bucket is empty.
func (idx *bucketIndex) head(key []byte) uint64 {
	return idx.offsets[bucketOf(key, idx.numBuckets)]
}

// push installs newOff as the new chain head for key's bucket and returns
// the offset it displaced (the value the new record's previous field must
// carry).
func (idx *bucketIndex) push(key []byte, newOff uint64) uint64 {
	b := bucketOf(key, idx.numBuckets)
	prev := idx.offsets[b]
	idx.offsets[b] = newOff

	return prev
}

// chains returns, for every non-empty bucket, its current head offset. Used
// by iteration to walk each chain independently.
func (idx *bucketIndex) chains() []uint64 {
	heads := make([]uint64, 0, idx.numBuckets)

	for _, off := range idx.offsets {
		if off != noneOffset {
			heads = append(heads, off)
		}
	}

	return heads
}
