package bucketlog

import "hash/crc32"

// crcTable is the standard 256-entry CRC-32 table (the zlib/gzip "IEEE"
// polynomial), matching the hand-rolled table in springfield.c's crc32()
// (see original_source/springfield.c). The teacher (calvinalkan-agent-task,
// pkg/mddb/wal.go) also checksums its WAL with the stdlib hash/crc32
// package, just against the Castagnoli table instead of this one; since
// spec.md §4.1 calls for "the widely used polynomial form" rather than
// CRC-32C, this uses crc32.IEEETable.
var crcTable = crc32.MakeTable(crc32.IEEE)

// checksum computes the CRC-32 (IEEE) of buf. A zero-length buffer checksums
// to 0, per spec.md §4.1.
func checksum(buf []byte) uint32 {
	if len(buf) == 0 {
		return 0
	}

	return crc32.Checksum(buf, crcTable)
}
