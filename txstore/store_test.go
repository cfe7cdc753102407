package txstore

import (
	"path/filepath"
	"testing"

	"github.com/colorfulnotion/ckbjs/common"
	"github.com/colorfulnotion/ckbjs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePath = "../types/testdata/mock_tx.json"

func TestPutGet(t *testing.T) {
	s, err := OpenMem()
	require.NoError(t, err)
	defer s.Close()

	mtx, err := types.ReadMockTransaction(fixturePath)
	require.NoError(t, err)

	hash, err := s.Put(mtx)
	require.NoError(t, err)
	assert.Equal(t, "0x13e897c7b651c71ee07574cb4d0aa955525fc8d5d5e8faafcca5d715f3f029da", hash.Hex())

	got, err := s.Get(hash)
	require.NoError(t, err)
	assert.Equal(t, mtx.Tx.Hash(), got.Tx.Hash())
	assert.Equal(t, mtx.MockInfo.Inputs[1].Data, got.MockInfo.Inputs[1].Data)
	assert.Equal(t, mtx.MockInfo.HeaderDeps[0].Hash(), got.MockInfo.HeaderDeps[0].Hash())

	ok, err := s.Has(hash)
	require.NoError(t, err)
	assert.True(t, ok)

	hashes, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []common.Hash{hash}, hashes)

	require.NoError(t, s.Delete(hash))
	_, err = s.Get(hash)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutRejectsInvalid(t *testing.T) {
	s, err := OpenMem()
	require.NoError(t, err)
	defer s.Close()

	mtx, err := types.ReadMockTransaction(fixturePath)
	require.NoError(t, err)
	mtx.MockInfo.Inputs = mtx.MockInfo.Inputs[:1]
	_, err = s.Put(mtx)
	assert.Error(t, err)

	hashes, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, hashes)
}

func TestReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	s, err := Open(dir)
	require.NoError(t, err)
	mtx, err := types.ReadMockTransaction(fixturePath)
	require.NoError(t, err)
	hash, err := s.Put(mtx)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(hash)
	require.NoError(t, err)
	assert.Equal(t, hash, got.Tx.Hash())
}
