package common

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// HashLength is the size of every CKB hash: transaction, script, data and
// header hashes alike.
const HashLength = 32

// Hash is a ckbhash digest. It encodes to JSON as 0x-prefixed hex.
type Hash [HashLength]byte

func (h Hash) Bytes() []byte { return h[:] }

func (h Hash) Hex() string { return hexutil.Encode(h[:]) }

func (h Hash) String() string { return h.Hex() }

// String_short is the abbreviated form used in logs and trees.
func (h Hash) String_short() string {
	s := h.Hex()
	return s[2:6] + ".." + s[len(s)-4:]
}

// BytesToHash keeps the last HashLength bytes of b, left padding shorter input.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

// HexToHash is BytesToHash over hex input; malformed input yields the zero hash.
func HexToHash(s string) Hash {
	b, err := hexutil.Decode(s)
	if err != nil {
		return Hash{}
	}
	return BytesToHash(b)
}

// ParseHash accepts exactly 32 bytes of 0x-prefixed hex.
func ParseHash(s string) (Hash, error) {
	var h Hash
	if err := h.UnmarshalText([]byte(s)); err != nil {
		return Hash{}, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	return h, nil
}

func (h Hash) MarshalText() ([]byte, error) {
	return hexutil.Bytes(h[:]).MarshalText()
}

func (h *Hash) UnmarshalText(input []byte) error {
	return hexutil.UnmarshalFixedText("Hash", input, h[:])
}
