package ckb

import (
	"github.com/colorfulnotion/ckbjs/common"
	"github.com/colorfulnotion/ckbjs/log"
	"github.com/colorfulnotion/ckbjs/types"
)

// MockEnv implements Syscalls over a resolved mock transaction, following the
// CKB partial loading rules. It is not safe for concurrent use.
type MockEnv struct {
	mtx   *types.MockTransaction
	group *ScriptGroup

	txHash     common.Hash
	txMolecule []byte
	scriptHash common.Hash
	scriptMol  []byte

	messages []string
	logging  string
}

// NewMockEnv serves syscalls for the script of group running inside mtx.
func NewMockEnv(mtx *types.MockTransaction, group *ScriptGroup) *MockEnv {
	return &MockEnv{
		mtx:        mtx,
		group:      group,
		txHash:     mtx.Tx.Hash(),
		txMolecule: mtx.Tx.MarshalMolecule(),
		scriptHash: group.Script.Hash(),
		scriptMol:  group.Script.MarshalMolecule(),
		logging:    log.CKBMonitoring,
	}
}

// Messages returns every string the script passed to debug.
func (env *MockEnv) Messages() []string {
	return env.messages
}

func (env *MockEnv) LoadTxHash(buf []byte, offset uint64) (uint64, int) {
	log.Debug(env.logging, "load_tx_hash", "hash", env.txHash.String_short())
	return PartialLoad(buf, env.txHash.Bytes(), offset)
}

func (env *MockEnv) LoadScriptHash(buf []byte, offset uint64) (uint64, int) {
	log.Debug(env.logging, "load_script_hash", "hash", env.scriptHash.String_short())
	return PartialLoad(buf, env.scriptHash.Bytes(), offset)
}

func (env *MockEnv) LoadTransaction(buf []byte, offset uint64) (uint64, int) {
	log.Debug(env.logging, "load_transaction", "len", len(env.txMolecule), "offset", offset)
	return PartialLoad(buf, env.txMolecule, offset)
}

func (env *MockEnv) LoadScript(buf []byte, offset uint64) (uint64, int) {
	log.Debug(env.logging, "load_script", "len", len(env.scriptMol), "offset", offset)
	return PartialLoad(buf, env.scriptMol, offset)
}

// groupIndex maps a group source index onto the underlying input or output index.
func (env *MockEnv) groupIndex(index uint64, source Source) (uint64, Source, bool) {
	var indices []uint64
	var base Source
	switch source {
	case SourceGroupInput:
		indices, base = env.group.InputIndices, SourceInput
	case SourceGroupOutput:
		indices, base = env.group.OutputIndices, SourceOutput
	default:
		return index, source, true
	}
	if index >= uint64(len(indices)) {
		return 0, source, false
	}
	return indices[index], base, true
}

func (env *MockEnv) cell(index uint64, source Source) (*types.CellOutput, []byte, int) {
	index, source, ok := env.groupIndex(index, source)
	if !ok {
		return nil, nil, IndexOutOfBound
	}
	switch source {
	case SourceInput:
		if index >= uint64(len(env.mtx.MockInfo.Inputs)) {
			return nil, nil, IndexOutOfBound
		}
		in := &env.mtx.MockInfo.Inputs[index]
		return &in.Output, in.Data, Success
	case SourceOutput:
		if index >= uint64(len(env.mtx.Tx.Outputs)) {
			return nil, nil, IndexOutOfBound
		}
		return &env.mtx.Tx.Outputs[index], env.mtx.Tx.OutputsData[index], Success
	case SourceCellDep:
		if index >= uint64(len(env.mtx.MockInfo.CellDeps)) {
			return nil, nil, IndexOutOfBound
		}
		dep := &env.mtx.MockInfo.CellDeps[index]
		return &dep.Output, dep.Data, Success
	}
	return nil, nil, IndexOutOfBound
}

func (env *MockEnv) header(index uint64, source Source) (*types.Header, int) {
	index, source, ok := env.groupIndex(index, source)
	if !ok {
		return nil, IndexOutOfBound
	}
	var ref *common.Hash
	switch source {
	case SourceInput:
		if index >= uint64(len(env.mtx.MockInfo.Inputs)) {
			return nil, IndexOutOfBound
		}
		ref = env.mtx.MockInfo.Inputs[index].Header
	case SourceCellDep:
		if index >= uint64(len(env.mtx.MockInfo.CellDeps)) {
			return nil, IndexOutOfBound
		}
		ref = env.mtx.MockInfo.CellDeps[index].Header
	case SourceHeaderDep:
		if index >= uint64(len(env.mtx.Tx.HeaderDeps)) {
			return nil, IndexOutOfBound
		}
		ref = &env.mtx.Tx.HeaderDeps[index]
	default:
		return nil, IndexOutOfBound
	}
	if ref == nil {
		return nil, ItemMissing
	}
	h, found := env.mtx.FindHeader(*ref)
	if !found {
		return nil, ItemMissing
	}
	return h, Success
}

func (env *MockEnv) input(index uint64, source Source) (*types.CellInput, int) {
	index, source, ok := env.groupIndex(index, source)
	if !ok || source != SourceInput || index >= uint64(len(env.mtx.Tx.Inputs)) {
		return nil, IndexOutOfBound
	}
	return &env.mtx.Tx.Inputs[index], Success
}

func (env *MockEnv) LoadCell(buf []byte, offset uint64, index uint64, source Source) (uint64, int) {
	cell, _, code := env.cell(index, source)
	log.Debug(env.logging, "load_cell", "index", index, "source", source, "code", code)
	if code != Success {
		return 0, code
	}
	return PartialLoad(buf, cell.MarshalMolecule(), offset)
}

func (env *MockEnv) LoadCellData(buf []byte, offset uint64, index uint64, source Source) (uint64, int) {
	_, data, code := env.cell(index, source)
	log.Debug(env.logging, "load_cell_data", "index", index, "source", source, "code", code)
	if code != Success {
		return 0, code
	}
	return PartialLoad(buf, data, offset)
}

func (env *MockEnv) LoadInput(buf []byte, offset uint64, index uint64, source Source) (uint64, int) {
	in, code := env.input(index, source)
	log.Debug(env.logging, "load_input", "index", index, "source", source, "code", code)
	if code != Success {
		return 0, code
	}
	return PartialLoad(buf, in.MarshalMolecule(), offset)
}

func (env *MockEnv) LoadHeader(buf []byte, offset uint64, index uint64, source Source) (uint64, int) {
	h, code := env.header(index, source)
	log.Debug(env.logging, "load_header", "index", index, "source", source, "code", code)
	if code != Success {
		return 0, code
	}
	return PartialLoad(buf, h.MarshalMolecule(), offset)
}

func (env *MockEnv) LoadWitness(buf []byte, offset uint64, index uint64, source Source) (uint64, int) {
	index, base, ok := env.groupIndex(index, source)
	code := Success
	switch {
	case !ok:
		code = IndexOutOfBound
	case base != SourceInput && base != SourceOutput:
		code = IndexOutOfBound
	case index >= uint64(len(env.mtx.Tx.Witnesses)):
		code = IndexOutOfBound
	}
	log.Debug(env.logging, "load_witness", "index", index, "source", source, "code", code)
	if code != Success {
		return 0, code
	}
	return PartialLoad(buf, env.mtx.Tx.Witnesses[index], offset)
}

func (env *MockEnv) LoadCellByField(buf []byte, offset uint64, index uint64, source Source, field Field) (uint64, int) {
	cell, data, code := env.cell(index, source)
	if code != Success {
		log.Debug(env.logging, "load_cell_by_field", "index", index, "source", source, "field", field, "code", code)
		return 0, code
	}
	var item []byte
	switch field {
	case CellFieldCapacity:
		item = common.Uint64ToBytes(uint64(cell.Capacity))
	case CellFieldDataHash:
		item = common.CKBHash(data).Bytes()
	case CellFieldLock:
		item = cell.Lock.MarshalMolecule()
	case CellFieldLockHash:
		item = cell.Lock.Hash().Bytes()
	case CellFieldType:
		if cell.Type == nil {
			code = ItemMissing
		} else {
			item = cell.Type.MarshalMolecule()
		}
	case CellFieldTypeHash:
		if cell.Type == nil {
			code = ItemMissing
		} else {
			item = cell.Type.Hash().Bytes()
		}
	case CellFieldOccupiedCapacity:
		item = common.Uint64ToBytes(cell.OccupiedCapacity(len(data)))
	default:
		code = InvalidData
	}
	log.Debug(env.logging, "load_cell_by_field", "index", index, "source", source, "field", field, "code", code)
	if code != Success {
		return 0, code
	}
	return PartialLoad(buf, item, offset)
}

func (env *MockEnv) LoadInputByField(buf []byte, offset uint64, index uint64, source Source, field Field) (uint64, int) {
	in, code := env.input(index, source)
	var item []byte
	if code == Success {
		switch field {
		case InputFieldOutPoint:
			item = in.PreviousOutput.MarshalMolecule()
		case InputFieldSince:
			item = common.Uint64ToBytes(uint64(in.Since))
		default:
			code = InvalidData
		}
	}
	log.Debug(env.logging, "load_input_by_field", "index", index, "source", source, "field", field, "code", code)
	if code != Success {
		return 0, code
	}
	return PartialLoad(buf, item, offset)
}

func (env *MockEnv) LoadHeaderByField(buf []byte, offset uint64, index uint64, source Source, field Field) (uint64, int) {
	h, code := env.header(index, source)
	var item []byte
	if code == Success {
		switch field {
		case HeaderFieldEpochNumber:
			item = common.Uint64ToBytes(h.EpochNumber())
		case HeaderFieldEpochStartBlockNumber:
			item = common.Uint64ToBytes(h.EpochStartBlockNumber())
		case HeaderFieldEpochLength:
			item = common.Uint64ToBytes(h.EpochLength())
		default:
			code = InvalidData
		}
	}
	log.Debug(env.logging, "load_header_by_field", "index", index, "source", source, "field", field, "code", code)
	if code != Success {
		return 0, code
	}
	return PartialLoad(buf, item, offset)
}

func (env *MockEnv) Debug(msg string) {
	env.messages = append(env.messages, msg)
	log.Info(log.ScriptOutput, msg, "script", env.scriptHash.String_short())
}

var _ Syscalls = (*MockEnv)(nil)
