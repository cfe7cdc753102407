// Package ckb describes the CKB syscall surface a script runs against: source
// and field selectors, return codes, the four load shapes and an in-memory
// environment serving them from a mock transaction.
package ckb

import "fmt"

// Source selects which part of the transaction a load reads from.
type Source uint64

const (
	SourceInput     Source = 1
	SourceOutput    Source = 2
	SourceCellDep   Source = 3
	SourceHeaderDep Source = 4

	// Group sources index into the cells sharing the running script. They
	// do not fit in a float64 mantissa, so scripts pass them as strings.
	SourceGroupInput  Source = 0x0100000000000001
	SourceGroupOutput Source = 0x0100000000000002
)

func (s Source) String() string {
	switch s {
	case SourceInput:
		return "input"
	case SourceOutput:
		return "output"
	case SourceCellDep:
		return "cell_dep"
	case SourceHeaderDep:
		return "header_dep"
	case SourceGroupInput:
		return "group_input"
	case SourceGroupOutput:
		return "group_output"
	default:
		return fmt.Sprintf("source(%#x)", uint64(s))
	}
}

// Field selects a sub-field for the *_by_field loads.
type Field uint64

// Cell fields
const (
	CellFieldCapacity Field = iota
	CellFieldDataHash
	CellFieldLock
	CellFieldLockHash
	CellFieldType
	CellFieldTypeHash
	CellFieldOccupiedCapacity
)

// Header fields
const (
	HeaderFieldEpochNumber Field = iota
	HeaderFieldEpochStartBlockNumber
	HeaderFieldEpochLength
)

// Input fields
const (
	InputFieldOutPoint Field = iota
	InputFieldSince
)

// Syscall return codes
const (
	Success         = 0
	IndexOutOfBound = 1
	ItemMissing     = 2
	LengthNotEnough = 3
	InvalidData     = 4
)

// Syscall numbers
const (
	SYS_EXIT                 = 93
	SYS_LOAD_TRANSACTION     = 2051
	SYS_LOAD_SCRIPT          = 2052
	SYS_LOAD_TX_HASH         = 2061
	SYS_LOAD_SCRIPT_HASH     = 2062
	SYS_LOAD_CELL            = 2071
	SYS_LOAD_HEADER          = 2072
	SYS_LOAD_INPUT           = 2073
	SYS_LOAD_WITNESS         = 2074
	SYS_LOAD_CELL_BY_FIELD   = 2081
	SYS_LOAD_HEADER_BY_FIELD = 2082
	SYS_LOAD_INPUT_BY_FIELD  = 2083
	SYS_LOAD_CELL_DATA       = 2092
	SYS_DEBUG                = 2177
)

// Mapping of syscall names to their numbers
var syscallNumbers = map[string]int{
	"load_transaction":     SYS_LOAD_TRANSACTION,
	"load_script":          SYS_LOAD_SCRIPT,
	"load_tx_hash":         SYS_LOAD_TX_HASH,
	"load_script_hash":     SYS_LOAD_SCRIPT_HASH,
	"load_cell":            SYS_LOAD_CELL,
	"load_header":          SYS_LOAD_HEADER,
	"load_input":           SYS_LOAD_INPUT,
	"load_witness":         SYS_LOAD_WITNESS,
	"load_cell_by_field":   SYS_LOAD_CELL_BY_FIELD,
	"load_header_by_field": SYS_LOAD_HEADER_BY_FIELD,
	"load_input_by_field":  SYS_LOAD_INPUT_BY_FIELD,
	"load_cell_data":       SYS_LOAD_CELL_DATA,
	"debug":                SYS_DEBUG,
}

// Mapping of syscall names to the codes they may return
var errorCases = map[string][]int{
	"load_transaction":     {Success},
	"load_script":          {Success},
	"load_tx_hash":         {Success},
	"load_script_hash":     {Success},
	"load_cell":            {Success, IndexOutOfBound},
	"load_header":          {Success, IndexOutOfBound, ItemMissing},
	"load_input":           {Success, IndexOutOfBound},
	"load_witness":         {Success, IndexOutOfBound},
	"load_cell_by_field":   {Success, IndexOutOfBound, ItemMissing, InvalidData},
	"load_header_by_field": {Success, IndexOutOfBound, ItemMissing, InvalidData},
	"load_input_by_field":  {Success, IndexOutOfBound, InvalidData},
	"load_cell_data":       {Success, IndexOutOfBound},
	"debug":                {},
}

// GetSyscallDetails returns the number and documented return codes of a syscall.
func GetSyscallDetails(name string) (int, []int) {
	number, exists := syscallNumbers[name]
	if !exists {
		return 0, nil
	}
	codes, ok := errorCases[name]
	if !ok {
		codes = []int{}
	}
	return number, codes
}

// The four load shapes. Each writes up to len(buf) bytes of the selected item,
// starting at offset, and returns the item's length from offset together with
// a return code. Nothing is written unless the code is Success.
type (
	LoadHashFunc    func(buf []byte, offset uint64) (uint64, int)
	LoadSingleFunc  func(buf []byte, offset uint64) (uint64, int)
	LoadFunc        func(buf []byte, offset uint64, index uint64, source Source) (uint64, int)
	LoadByFieldFunc func(buf []byte, offset uint64, index uint64, source Source, field Field) (uint64, int)
)

// Syscalls is the runtime a script is bound to.
type Syscalls interface {
	LoadTxHash(buf []byte, offset uint64) (uint64, int)
	LoadScriptHash(buf []byte, offset uint64) (uint64, int)

	LoadTransaction(buf []byte, offset uint64) (uint64, int)
	LoadScript(buf []byte, offset uint64) (uint64, int)

	LoadCell(buf []byte, offset uint64, index uint64, source Source) (uint64, int)
	LoadInput(buf []byte, offset uint64, index uint64, source Source) (uint64, int)
	LoadHeader(buf []byte, offset uint64, index uint64, source Source) (uint64, int)
	LoadWitness(buf []byte, offset uint64, index uint64, source Source) (uint64, int)
	LoadCellData(buf []byte, offset uint64, index uint64, source Source) (uint64, int)

	LoadCellByField(buf []byte, offset uint64, index uint64, source Source, field Field) (uint64, int)
	LoadInputByField(buf []byte, offset uint64, index uint64, source Source, field Field) (uint64, int)
	LoadHeaderByField(buf []byte, offset uint64, index uint64, source Source, field Field) (uint64, int)

	Debug(msg string)
}

// PartialLoad copies data[offset:] into buf and reports the length available
// from offset. An offset past the end reports 0.
func PartialLoad(buf []byte, data []byte, offset uint64) (uint64, int) {
	if offset >= uint64(len(data)) {
		return 0, Success
	}
	rest := data[offset:]
	copy(buf, rest)
	return uint64(len(rest)), Success
}
