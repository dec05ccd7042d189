package bucketlog

// On-disk format constants (spec.md §3).
//
// Record layout, little-endian, 24-byte fixed header followed by key and
// value payloads:
//
//	crc      uint32  CRC-32 (IEEE) of the remaining header bytes + key + value
//	version  uint16  format version, always 1
//	klen     uint16  key length including trailing zero terminator, 1..65535
//	vlen     uint32  value length, 0..maxVlen
//	flags    uint32  reserved, always 0
//	previous uint64  file offset of the prior record in this bucket's chain,
//	                 or noneOffset if this is the first record in the chain
const (
	headerSize = 24

	offCRC      = 0
	offVersion  = 4
	offKlen     = 6
	offVlen     = 8
	offFlags    = 12
	offPrevious = 16

	recordVersion = uint16(1)

	// filePrefixSize is the leading num_buckets field that precedes the
	// first record in the file.
	filePrefixSize = 4

	// mmapGrowthSlack is the slack mapped beyond eof right after open/recover,
	// per spec.md §4.2.
	mmapGrowthSlack = 128 * 1024

	// maxFileSize is the format's hard cap on mmap_alloc/eof (spec.md §3 inv. 4).
	maxFileSize = uint64(0xFFFFFFFF)

	maxKlen = uint16(0xFFFF)

	// maxVlen = 2^32 - 65559, i.e. 2^32 - maxKlen - headerSize.
	maxVlen = uint32(0xFFFFFFFF) - uint32(maxKlen) - headerSize + 1
)

// noneOffset is the all-ones sentinel for an empty bucket head or a chain
// terminator (spec.md §6).
const noneOffset = uint64(0xFFFFFFFFFFFFFFFF)
