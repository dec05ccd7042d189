package bucketlog

// jenkinsOneAtATime is Bob Jenkins' one-at-a-time hash, ported directly from
// the reference C implementation in original_source/springfield.c (credited
// there to "Bob Jenkins/Dr. Dobbs"). It hashes the raw key bytes, excluding
// the trailing zero terminator that bucketlog stores on disk (spec.md §4.1).
func jenkinsOneAtATime(key []byte) uint32 {
	var h uint32

	for _, b := range key {
		h += uint32(b)
		h += h << 10
		h ^= h >> 6
	}

	h += h << 3
	h ^= h >> 11
	h += h << 15

	return h
}

// bucketOf reduces a key's hash into [0, numBuckets).
func bucketOf(key []byte, numBuckets uint32) uint32 {
	return jenkinsOneAtATime(key) % numBuckets
}
