package bucketlog

import "encoding/binary"

// parsedRecord is a record decoded in place against a mapped byte slice; the
// Key and Value fields are borrowed slices, valid only as long as the
// underlying mapping is not remapped.
type parsedRecord struct {
	Offset   uint64
	Klen     uint16
	Vlen     uint32
	Previous uint64
	Key      []byte // includes the trailing zero terminator
	Value    []byte
}

// size returns the total on-disk size of the record (spec.md §3).
func (r parsedRecord) size() uint64 {
	return headerSize + uint64(r.Klen) + uint64(r.Vlen)
}

// tombstone reports whether this record deletes its key (spec.md §3 inv. 3).
func (r parsedRecord) tombstone() bool {
	return r.Vlen == 0
}

// encodeRecord serializes a new record for key/value, chained onto previous.
// key must already be validated (non-empty, no interior zero, within size
// limits); the trailing zero terminator is appended here. The CRC is
// computed last, over the post-CRC header bytes plus key and value, per
// spec.md §3/§4.3.
func encodeRecord(key, value []byte, previous uint64) []byte {
	klen := len(key) + 1
	buf := make([]byte, headerSize+klen+len(value))

	binary.LittleEndian.PutUint16(buf[offVersion:], recordVersion)
	binary.LittleEndian.PutUint16(buf[offKlen:], uint16(klen)) //nolint:gosec // bounds validated by caller
	binary.LittleEndian.PutUint32(buf[offVlen:], uint32(len(value)))
	binary.LittleEndian.PutUint32(buf[offFlags:], 0)
	binary.LittleEndian.PutUint64(buf[offPrevious:], previous)

	copy(buf[headerSize:], key)
	buf[headerSize+len(key)] = 0
	copy(buf[headerSize+klen:], value)

	crc := checksum(buf[offVersion:])
	binary.LittleEndian.PutUint32(buf[offCRC:], crc)

	return buf
}

// parseRecord attempts to decode a record at byte offset off within
// data[:limit]. ok is false, not an error, whenever any condition in
// spec.md §4.3 holds; this is the recovery walk's end-of-valid-data signal,
// not corruption, unless the caller's structural cross-check (previous-link
// consistency) subsequently fails.
func parseRecord(data []byte, off, limit uint64) (rec parsedRecord, ok bool) {
	if limit-off < 8 {
		return parsedRecord{}, false
	}

	version := binary.LittleEndian.Uint16(data[off+offVersion:])
	if version != recordVersion {
		return parsedRecord{}, false
	}

	if limit-off < headerSize {
		return parsedRecord{}, false
	}

	klen := binary.LittleEndian.Uint16(data[off+offKlen:])
	if klen == 0 {
		return parsedRecord{}, false
	}

	vlen := binary.LittleEndian.Uint32(data[off+offVlen:])
	if vlen > maxVlen {
		return parsedRecord{}, false
	}

	size := headerSize + uint64(klen) + uint64(vlen)
	if off+size > limit {
		return parsedRecord{}, false
	}

	// flags is reserved and MUST be zero (spec.md §9 Design Notes); treat a
	// nonzero value the same as any other stopping condition.
	flags := binary.LittleEndian.Uint32(data[off+offFlags:])
	if flags != 0 {
		return parsedRecord{}, false
	}

	body := data[off+offVersion : off+size]

	storedCRC := binary.LittleEndian.Uint32(data[off+offCRC:])
	if checksum(body) != storedCRC {
		return parsedRecord{}, false
	}

	previous := binary.LittleEndian.Uint64(data[off+offPrevious:])
	key := data[off+headerSize : off+headerSize+uint64(klen)]
	value := data[off+headerSize+uint64(klen) : off+size]

	return parsedRecord{
		Offset:   off,
		Klen:     klen,
		Vlen:     vlen,
		Previous: previous,
		Key:      key,
		Value:    value,
	}, true
}
