package bucketlog_test

// Fuzz test comparing bucketlog against an in-memory reference model.
// Catches logic bugs in Set/Get/Delete/Iterate, following the pattern of
// the teacher's pkg/slotcache/slotcache_fuzz_test.go (random op stream vs.
// a map-based model), scaled down to this package's much smaller op set.

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/bucketlog/pkg/bucketlog"
)

const fuzzKeyAlphabetSize = 12

// FuzzStore_Matches_Model_When_Random_Ops_Applied drives a Store and a
// plain map through the same stream of set/delete/reopen/compact
// operations decoded from fuzzBytes, and checks Get against the model
// after every step.
func FuzzStore_Matches_Model_When_Random_Ops_Applied(f *testing.F) {
	f.Add([]byte{0x00, 0x01, 0x02, 0x03})
	f.Add([]byte{0x01, 0x05, 0x02, 0x05, 0x03, 0x00})
	f.Add([]byte("\x02\x00\x03\x01\x02\x02\x04\x01"))
	f.Add(make([]byte, 32))

	f.Fuzz(func(t *testing.T, fuzzBytes []byte) {
		if len(fuzzBytes) == 0 {
			return
		}

		path := filepath.Join(t.TempDir(), "fuzz.bucketlog")

		store, err := bucketlog.Open(bucketlog.Options{Path: path, NumBuckets: 4})
		require.NoError(t, err)
		defer func() { store.Close() }()

		model := map[string][]byte{}

		for i := 0; i+1 < len(fuzzBytes); i += 2 {
			op := fuzzBytes[i] % 5
			keyByte := fuzzBytes[i+1] % fuzzKeyAlphabetSize
			key := []byte{'k', keyByte + 1} // +1 keeps the key clear of the 0x00 terminator byte

			switch op {
			case 0, 1: // set
				value := []byte{op, keyByte}
				require.NoError(t, store.Set(key, value))
				model[string(key)] = value

			case 2: // delete
				require.NoError(t, store.Delete(key))
				delete(model, string(key))

			case 3: // reopen
				require.NoError(t, store.Sync())
				require.NoError(t, store.Close())

				store, err = bucketlog.Open(bucketlog.Options{Path: path, NumBuckets: 4})
				require.NoError(t, err)

			case 4: // compact
				require.NoError(t, store.Compact())
			}

			got, err := store.Get(key)
			require.NoError(t, err)
			require.Equal(t, model[string(key)], got)
		}

		// Final full-model check via Iterate.
		seen := map[string][]byte{}
		err = store.Iterate(func(kv bucketlog.KeyValue) error {
			seen[string(kv.Key)] = append([]byte(nil), kv.Value...)
			return nil
		})
		require.NoError(t, err)

		for k, v := range model {
			require.Equal(t, v, seen[k], "Iterate missing or wrong value for key %q", k)
		}

		require.Len(t, seen, len(model))
	})
}
