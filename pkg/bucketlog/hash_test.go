package bucketlog

import "testing"

// Test_Jenkins_Matches_Reference_Value pins the hash to a value cross-checked
// against original_source/springfield.c's jenkins_one_at_a_time_hash, guarding
// against an accidental algorithm drift (e.g. swapping shift amounts).
func Test_Jenkins_Matches_Reference_Value(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		key  string
		want uint32
	}{
		{"", 0},
		{"a", 0xca2e9442},
	}

	for _, tc := range testCases {
		got := jenkinsOneAtATime([]byte(tc.key))
		if got != tc.want {
			t.Errorf("jenkinsOneAtATime(%q) = 0x%x, want 0x%x", tc.key, got, tc.want)
		}
	}
}

func Test_BucketOf_Is_Deterministic_And_In_Range(t *testing.T) {
	t.Parallel()

	const numBuckets = 17

	keys := [][]byte{[]byte("a"), []byte("alpha"), []byte("bucketlog"), []byte("0123456789")}

	for _, key := range keys {
		b1 := bucketOf(key, numBuckets)
		b2 := bucketOf(key, numBuckets)

		if b1 != b2 {
			t.Fatalf("bucketOf(%q) is not deterministic: %d != %d", key, b1, b2)
		}

		if b1 >= numBuckets {
			t.Fatalf("bucketOf(%q) = %d, out of range [0,%d)", key, b1, numBuckets)
		}
	}
}
