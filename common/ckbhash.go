package common

import (
	"encoding/binary"

	blake2b "github.com/minio/blake2b-simd"
)

var ckbPersonal = []byte("ckb-default-hash")

// CKBHash computes blake2b-256 personalized with "ckb-default-hash" over the
// concatenation of parts.
func CKBHash(parts ...[]byte) Hash {
	h, err := blake2b.New(&blake2b.Config{Size: HashLength, Person: ckbPersonal})
	if err != nil {
		// only reachable with an invalid static config
		panic(err)
	}
	for _, p := range parts {
		h.Write(p)
	}
	return BytesToHash(h.Sum(nil))
}

func Uint64ToBytes(val uint64) []byte {
	bytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(bytes, val)
	return bytes
}
