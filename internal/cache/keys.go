package cache

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// KeyPrefix constants for different cache types
const (
	PrefixFingerprint = "md5"
)

// ContentKey generates the key of a file digest from the file's bytes.
// The key is an xxhash64 of the content plus its length, so any byte
// change misses regardless of what the file's metadata says.
func ContentKey(data []byte) string {
	return PrefixFingerprint + ":" +
		strconv.FormatUint(xxhash.Sum64(data), 16) + ":" +
		strconv.Itoa(len(data))
}
