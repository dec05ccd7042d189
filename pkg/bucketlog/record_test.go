package bucketlog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_ParseRecord_Round_Trips_Encode_Output(t *testing.T) {
	t.Parallel()

	key := []byte("hello")
	value := []byte("world")
	previous := uint64(0xABCD)

	buf := encodeRecord(key, value, previous)

	// pad the buffer so the backing slice extends past limit, mirroring how
	// parseRecord is actually called against a mapping larger than eof.
	data := append(append([]byte(nil), buf...), make([]byte, 64)...)

	rec, ok := parseRecord(data, 0, uint64(len(buf)))
	require.True(t, ok)
	require.Equal(t, previous, rec.Previous)
	require.Equal(t, append(append([]byte(nil), key...), 0), rec.Key)
	require.Equal(t, value, rec.Value)
	require.Equal(t, uint64(len(buf)), rec.size())
	require.False(t, rec.tombstone())
}

func Test_ParseRecord_Reports_Tombstone_When_Value_Empty(t *testing.T) {
	t.Parallel()

	buf := encodeRecord([]byte("k"), nil, noneOffset)

	rec, ok := parseRecord(buf, 0, uint64(len(buf)))
	require.True(t, ok)
	require.True(t, rec.tombstone())
}

func Test_ParseRecord_Stops_When_Truncated_Mid_Header(t *testing.T) {
	t.Parallel()

	buf := encodeRecord([]byte("k"), []byte("v"), noneOffset)

	_, ok := parseRecord(buf, 0, headerSize-1)
	require.False(t, ok)
}

func Test_ParseRecord_Stops_When_Payload_Beyond_Limit(t *testing.T) {
	t.Parallel()

	buf := encodeRecord([]byte("k"), []byte("value-longer-than-claimed"), noneOffset)

	// limit lands inside the key bytes, before the value payload: a torn
	// trailing write.
	_, ok := parseRecord(buf, 0, headerSize+1)
	require.False(t, ok)
}

func Test_ParseRecord_Stops_When_Version_Unrecognized(t *testing.T) {
	t.Parallel()

	buf := encodeRecord([]byte("k"), []byte("v"), noneOffset)
	buf[offVersion] = 0xFF

	_, ok := parseRecord(buf, 0, uint64(len(buf)))
	require.False(t, ok)
}

func Test_ParseRecord_Stops_When_Klen_Zero(t *testing.T) {
	t.Parallel()

	buf := encodeRecord([]byte("k"), []byte("v"), noneOffset)
	buf[offKlen] = 0
	buf[offKlen+1] = 0

	_, ok := parseRecord(buf, 0, uint64(len(buf)))
	require.False(t, ok)
}

func Test_ParseRecord_Stops_When_Crc_Mismatches(t *testing.T) {
	t.Parallel()

	buf := encodeRecord([]byte("k"), []byte("v"), noneOffset)
	buf[len(buf)-1] ^= 0xFF // corrupt a value byte without touching the header

	_, ok := parseRecord(buf, 0, uint64(len(buf)))
	require.False(t, ok)
}

func Test_ParseRecord_Stops_When_Flags_Nonzero(t *testing.T) {
	t.Parallel()

	buf := encodeRecord([]byte("k"), []byte("v"), noneOffset)

	// Setting flags after encoding invalidates the CRC too, but this test
	// documents that flags validation is intentional, independent of CRC.
	buf[offFlags] = 1
	crc := checksum(buf[offVersion:])
	buf[offCRC] = byte(crc)
	buf[offCRC+1] = byte(crc >> 8)
	buf[offCRC+2] = byte(crc >> 16)
	buf[offCRC+3] = byte(crc >> 24)

	_, ok := parseRecord(buf, 0, uint64(len(buf)))
	require.False(t, ok)
}
