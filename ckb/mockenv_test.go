package ckb

import (
	"encoding/binary"
	"testing"

	"github.com/colorfulnotion/ckbjs/common"
	"github.com/colorfulnotion/ckbjs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePath = "../types/testdata/mock_tx.json"

func loadEnv(t *testing.T) (*MockEnv, *types.MockTransaction) {
	t.Helper()
	mtx, err := types.ReadMockTransaction(fixturePath)
	require.NoError(t, err)
	group, err := ResolveLockGroup(mtx, 0)
	require.NoError(t, err)
	return NewMockEnv(mtx, group), mtx
}

func TestResolveGroups(t *testing.T) {
	mtx, err := types.ReadMockTransaction(fixturePath)
	require.NoError(t, err)

	lock, err := ResolveLockGroup(mtx, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 2}, lock.InputIndices)
	assert.Empty(t, lock.OutputIndices)

	typ, err := ResolveTypeGroup(mtx, SourceInput, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, typ.InputIndices)
	assert.Equal(t, []uint64{0}, typ.OutputIndices)

	_, err = ResolveTypeGroup(mtx, SourceInput, 0)
	assert.ErrorContains(t, err, "no type script")
	_, err = ResolveLockGroup(mtx, 3)
	assert.Error(t, err)
}

func TestLoadHashes(t *testing.T) {
	env, mtx := loadEnv(t)

	buf := make([]byte, 32)
	n, code := env.LoadTxHash(buf, 0)
	assert.Equal(t, Success, code)
	assert.Equal(t, uint64(32), n)
	assert.Equal(t, mtx.Tx.Hash().Bytes(), buf)

	n, code = env.LoadScriptHash(buf, 0)
	assert.Equal(t, Success, code)
	assert.Equal(t, uint64(32), n)
	assert.Equal(t, "0xf526fec7ccee79e6b0d83931bea5f10ab4daa1a6404943052bb6fc322d31d993", common.BytesToHash(buf).Hex())
}

func TestPartialLoading(t *testing.T) {
	env, _ := loadEnv(t)

	buf := make([]byte, 2)
	n, code := env.LoadCellData(buf, 1, 1, SourceInput)
	assert.Equal(t, Success, code)
	assert.Equal(t, uint64(4), n)
	assert.Equal(t, []byte{2, 3}, buf)

	n, code = env.LoadCellData(buf, 10, 1, SourceInput)
	assert.Equal(t, Success, code)
	assert.Equal(t, uint64(0), n)

	tx := make([]byte, 8)
	n, code = env.LoadTransaction(tx, 0)
	assert.Equal(t, Success, code)
	assert.Equal(t, uint64(536), n)
	assert.Equal(t, uint32(536), binary.LittleEndian.Uint32(tx))
}

func TestGroupSources(t *testing.T) {
	env, _ := loadEnv(t)

	buf := make([]byte, 4)
	n, code := env.LoadCellData(buf, 0, 1, SourceGroupInput)
	assert.Equal(t, Success, code)
	assert.Equal(t, uint64(1), n)
	assert.Equal(t, byte(0xff), buf[0])

	_, code = env.LoadCellData(buf, 0, 2, SourceGroupInput)
	assert.Equal(t, IndexOutOfBound, code)

	_, code = env.LoadCell(buf, 0, 0, SourceGroupOutput)
	assert.Equal(t, IndexOutOfBound, code)

	n, code = env.LoadWitness(buf, 0, 1, SourceGroupInput)
	assert.Equal(t, Success, code)
	assert.Equal(t, uint64(3), n)
	assert.Equal(t, []byte{0xaa, 0xbb, 0xcc}, buf[:3])
}

func TestLoadCellByField(t *testing.T) {
	env, mtx := loadEnv(t)
	buf := make([]byte, 64)

	n, code := env.LoadCellByField(buf, 0, 0, SourceInput, CellFieldCapacity)
	assert.Equal(t, Success, code)
	assert.Equal(t, uint64(8), n)
	assert.Equal(t, uint64(0x174876e800), binary.LittleEndian.Uint64(buf))

	_, code = env.LoadCellByField(buf, 0, 0, SourceInput, CellFieldTypeHash)
	assert.Equal(t, ItemMissing, code)
	_, code = env.LoadCellByField(buf, 0, 0, SourceInput, CellFieldType)
	assert.Equal(t, ItemMissing, code)

	n, code = env.LoadCellByField(buf, 0, 1, SourceInput, CellFieldTypeHash)
	assert.Equal(t, Success, code)
	assert.Equal(t, uint64(32), n)
	assert.Equal(t, mtx.MockInfo.Inputs[1].Output.Type.Hash().Bytes(), buf[:32])

	n, code = env.LoadCellByField(buf, 0, 1, SourceInput, CellFieldDataHash)
	assert.Equal(t, Success, code)
	assert.Equal(t, uint64(32), n)
	assert.Equal(t, "0x92127fcdf8cfe548d605843a48c294179711fa81c84ad1ea7f109f8d462e4f22", common.BytesToHash(buf[:32]).Hex())

	n, code = env.LoadCellByField(buf, 0, 1, SourceInput, CellFieldOccupiedCapacity)
	assert.Equal(t, Success, code)
	assert.Equal(t, uint64(8), n)
	assert.Equal(t, uint64(81)*types.ShannonsPerByte, binary.LittleEndian.Uint64(buf))

	_, code = env.LoadCellByField(buf, 0, 0, SourceInput, Field(99))
	assert.Equal(t, InvalidData, code)
	_, code = env.LoadCellByField(buf, 0, 0, SourceHeaderDep, CellFieldCapacity)
	assert.Equal(t, IndexOutOfBound, code)
}

func TestLoadHeader(t *testing.T) {
	env, mtx := loadEnv(t)
	buf := make([]byte, 256)

	n, code := env.LoadHeader(buf, 0, 0, SourceInput)
	assert.Equal(t, Success, code)
	assert.Equal(t, uint64(208), n)
	assert.Equal(t, mtx.MockInfo.HeaderDeps[0].MarshalMolecule(), buf[:208])

	_, code = env.LoadHeader(buf, 0, 1, SourceInput)
	assert.Equal(t, ItemMissing, code)
	_, code = env.LoadHeader(buf, 0, 0, SourceOutput)
	assert.Equal(t, IndexOutOfBound, code)

	n, code = env.LoadHeaderByField(buf, 0, 0, SourceHeaderDep, HeaderFieldEpochNumber)
	assert.Equal(t, Success, code)
	assert.Equal(t, uint64(8), n)
	assert.Equal(t, uint64(3), binary.LittleEndian.Uint64(buf))

	_, code = env.LoadHeaderByField(buf, 0, 0, SourceHeaderDep, HeaderFieldEpochStartBlockNumber)
	assert.Equal(t, Success, code)
	assert.Equal(t, uint64(924), binary.LittleEndian.Uint64(buf))

	_, code = env.LoadHeaderByField(buf, 0, 0, SourceHeaderDep, HeaderFieldEpochLength)
	assert.Equal(t, Success, code)
	assert.Equal(t, uint64(1800), binary.LittleEndian.Uint64(buf))

	_, code = env.LoadHeaderByField(buf, 0, 1, SourceHeaderDep, HeaderFieldEpochLength)
	assert.Equal(t, IndexOutOfBound, code)
}

func TestLoadInput(t *testing.T) {
	env, mtx := loadEnv(t)
	buf := make([]byte, 64)

	n, code := env.LoadInput(buf, 0, 1, SourceInput)
	assert.Equal(t, Success, code)
	assert.Equal(t, uint64(44), n)
	assert.Equal(t, mtx.Tx.Inputs[1].MarshalMolecule(), buf[:44])

	_, code = env.LoadInputByField(buf, 0, 1, SourceInput, InputFieldSince)
	assert.Equal(t, Success, code)
	assert.Equal(t, uint64(0x2000000000000010), binary.LittleEndian.Uint64(buf))

	n, code = env.LoadInputByField(buf, 0, 1, SourceGroupInput, InputFieldOutPoint)
	assert.Equal(t, Success, code)
	assert.Equal(t, uint64(36), n)
	assert.Equal(t, mtx.Tx.Inputs[2].PreviousOutput.MarshalMolecule(), buf[:36])

	_, code = env.LoadInput(buf, 0, 0, SourceOutput)
	assert.Equal(t, IndexOutOfBound, code)
	_, code = env.LoadInputByField(buf, 0, 0, SourceInput, Field(7))
	assert.Equal(t, InvalidData, code)
}

func TestLoadWitness(t *testing.T) {
	env, _ := loadEnv(t)
	buf := make([]byte, 8)

	n, code := env.LoadWitness(buf, 0, 1, SourceOutput)
	assert.Equal(t, Success, code)
	assert.Equal(t, uint64(0), n)

	_, code = env.LoadWitness(buf, 0, 3, SourceInput)
	assert.Equal(t, IndexOutOfBound, code)
	_, code = env.LoadWitness(buf, 0, 0, SourceCellDep)
	assert.Equal(t, IndexOutOfBound, code)
}

func TestDebugMessages(t *testing.T) {
	env, _ := loadEnv(t)
	env.Debug("hello")
	env.Debug("world")
	assert.Equal(t, []string{"hello", "world"}, env.Messages())
}

func TestSyscallDetails(t *testing.T) {
	number, codes := GetSyscallDetails("load_cell_by_field")
	assert.Equal(t, SYS_LOAD_CELL_BY_FIELD, number)
	assert.Contains(t, codes, ItemMissing)

	number, codes = GetSyscallDetails("exec")
	assert.Equal(t, 0, number)
	assert.Nil(t, codes)

	assert.Equal(t, "group_input", SourceGroupInput.String())
	assert.Equal(t, "source(0x9)", Source(9).String())
}
