package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableLayout(t *testing.T) {
	got := Table([]byte{0xaa}, []byte{0xbb, 0xcc})
	want := []byte{
		15, 0, 0, 0, // total
		12, 0, 0, 0, // offset of field 0
		13, 0, 0, 0, // offset of field 1
		0xaa,
		0xbb, 0xcc,
	}
	assert.Equal(t, want, got)

	fields, err := UnpackTable(got)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{0xaa}, {0xbb, 0xcc}}, fields)
}

func TestEmptyVectors(t *testing.T) {
	assert.Equal(t, []byte{4, 0, 0, 0}, DynVec(nil))
	assert.Equal(t, []byte{0, 0, 0, 0}, FixVec(nil))
	assert.Equal(t, []byte{0, 0, 0, 0}, Bytes(nil))
	assert.Equal(t, []byte{}, Option(nil))

	fields, err := UnpackTable(DynVec(nil))
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestBytes(t *testing.T) {
	enc := Bytes([]byte("abc"))
	assert.Equal(t, []byte{3, 0, 0, 0, 'a', 'b', 'c'}, enc)

	dec, err := UnpackBytes(enc)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), dec)

	_, err = UnpackBytes([]byte{9, 0, 0, 0, 'a'})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestUnpackMalformed(t *testing.T) {
	_, err := UnpackTable([]byte{1, 2})
	assert.ErrorIs(t, err, ErrMalformed)

	bad := Table([]byte{1}, []byte{2})
	bad[0] = 99
	_, err = UnpackTable(bad)
	assert.ErrorIs(t, err, ErrMalformed)
}

type pair struct{ a, b uint32 }

func (p pair) MarshalMolecule() []byte { return Struct(Uint32(p.a), Uint32(p.b)) }

func TestEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(pair{1, 2}))
	assert.Equal(t, []byte{1, 0, 0, 0, 2, 0, 0, 0}, buf.Bytes())
	assert.Equal(t, buf.Bytes(), Marshal(pair{1, 2}))
	assert.Equal(t, []byte{2, 0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0, 4, 0, 0, 0},
		FixVec([][]byte{Marshal(pair{1, 2}), Marshal(pair{3, 4})}))
}
