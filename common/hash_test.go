package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCKBHashEmpty(t *testing.T) {
	// blake2b-256 of no input with the ckb-default-hash personalization
	want := HexToHash("0x44f4c69744d5f8c55d642062949dcae49bc4e7ef43d388c5a12f42b5633d163e")
	assert.Equal(t, want, CKBHash())
	assert.Equal(t, want, CKBHash([]byte{}))
}

func TestCKBHashParts(t *testing.T) {
	assert.Equal(t, CKBHash([]byte("abcdef")), CKBHash([]byte("abc"), []byte("def")))
	assert.NotEqual(t, CKBHash([]byte("abc")), CKBHash([]byte("abd")))
}

func TestHashJSON(t *testing.T) {
	h := CKBHash([]byte("ckbjs"))
	b, err := json.Marshal(h)
	require.NoError(t, err)

	var back Hash
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, h, back)

	assert.Error(t, json.Unmarshal([]byte(`"0x1234"`), &back))
}

func TestStringShort(t *testing.T) {
	h := HexToHash("0x44f4c69744d5f8c55d642062949dcae49bc4e7ef43d388c5a12f42b5633d163e")
	assert.Equal(t, "44f4..163e", h.String_short())
}

func TestColorize(t *testing.T) {
	assert.Equal(t, "ok", Colorize("ok", ColorGreen, true))
	assert.Equal(t, ColorGreen+"ok"+ColorReset, Colorize("ok", ColorGreen, false))
}

func TestParseHash(t *testing.T) {
	h, err := ParseHash("0x44f4c69744d5f8c55d642062949dcae49bc4e7ef43d388c5a12f42b5633d163e")
	require.NoError(t, err)
	assert.Equal(t, CKBHash(), h)

	for _, bad := range []string{"", "0x12", "44f4c69744d5f8c55d642062949dcae49bc4e7ef43d388c5a12f42b5633d163e"} {
		_, err = ParseHash(bad)
		assert.Error(t, err, bad)
	}
}

func TestBytesToHashPads(t *testing.T) {
	h := BytesToHash([]byte{1, 2})
	assert.Equal(t, byte(1), h[30])
	assert.Equal(t, byte(2), h[31])
	assert.Equal(t, Hash{}, HexToHash("zz"))
}
