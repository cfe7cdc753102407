package ckb

import (
	"fmt"

	"github.com/colorfulnotion/ckbjs/types"
)

type ScriptGroupType string

const (
	LockGroup ScriptGroupType = "lock"
	TypeGroup ScriptGroupType = "type"
)

// ScriptGroup is the running script and the cells that share it.
type ScriptGroup struct {
	GroupType     ScriptGroupType
	Script        types.Script
	InputIndices  []uint64
	OutputIndices []uint64
}

// ResolveLockGroup builds the lock group of the input at inputIndex: every
// input carrying the same lock script.
func ResolveLockGroup(mtx *types.MockTransaction, inputIndex int) (*ScriptGroup, error) {
	inputs := mtx.MockInfo.Inputs
	if inputIndex < 0 || inputIndex >= len(inputs) {
		return nil, fmt.Errorf("lock group: input %d out of range (%d inputs)", inputIndex, len(inputs))
	}
	lock := inputs[inputIndex].Output.Lock
	want := lock.Hash()
	group := &ScriptGroup{GroupType: LockGroup, Script: lock}
	for i := range inputs {
		if inputs[i].Output.Lock.Hash() == want {
			group.InputIndices = append(group.InputIndices, uint64(i))
		}
	}
	return group, nil
}

// ResolveTypeGroup builds the type group of the type script on the cell at
// index of source, which must be SourceInput or SourceOutput.
func ResolveTypeGroup(mtx *types.MockTransaction, source Source, index int) (*ScriptGroup, error) {
	var cell *types.CellOutput
	switch source {
	case SourceInput:
		if index < 0 || index >= len(mtx.MockInfo.Inputs) {
			return nil, fmt.Errorf("type group: input %d out of range", index)
		}
		cell = &mtx.MockInfo.Inputs[index].Output
	case SourceOutput:
		if index < 0 || index >= len(mtx.Tx.Outputs) {
			return nil, fmt.Errorf("type group: output %d out of range", index)
		}
		cell = &mtx.Tx.Outputs[index]
	default:
		return nil, fmt.Errorf("type group: unsupported source %s", source)
	}
	if cell.Type == nil {
		return nil, fmt.Errorf("type group: %s %d has no type script", source, index)
	}
	want := cell.Type.Hash()
	group := &ScriptGroup{GroupType: TypeGroup, Script: *cell.Type}
	for i := range mtx.MockInfo.Inputs {
		if t := mtx.MockInfo.Inputs[i].Output.Type; t != nil && t.Hash() == want {
			group.InputIndices = append(group.InputIndices, uint64(i))
		}
	}
	for i := range mtx.Tx.Outputs {
		if t := mtx.Tx.Outputs[i].Type; t != nil && t.Hash() == want {
			group.OutputIndices = append(group.OutputIndices, uint64(i))
		}
	}
	return group, nil
}
