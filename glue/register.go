package glue

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/colorfulnotion/ckbjs/ckb"
	"github.com/colorfulnotion/ckbjs/log"
	"github.com/dop251/goja"
)

type binding struct {
	name string
	call func(goja.FunctionCall) (goja.Value, error)
}

// Register installs the syscall bindings and the constants object on the
// global object of vm. It is meant to run once per runtime.
func Register(vm *goja.Runtime, sys ckb.Syscalls, cfg Config) (*Marshaler, error) {
	if vm == nil || sys == nil {
		return nil, errors.New("glue: nil runtime or syscalls")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("glue: %w", err)
	}
	m := NewMarshaler(vm, cfg)
	table := m.bindings(sys)
	for _, b := range table {
		if vm.Get(b.name) != nil {
			return nil, fmt.Errorf("glue: global %s already defined", b.name)
		}
	}
	for _, b := range table {
		if err := vm.Set(b.name, m.wrap(b.name, b.call)); err != nil {
			return nil, fmt.Errorf("glue: set %s: %w", b.name, err)
		}
	}
	if cfg.ConstantsName != "" {
		if err := vm.Set(cfg.ConstantsName, m.constants()); err != nil {
			return nil, fmt.Errorf("glue: set %s: %w", cfg.ConstantsName, err)
		}
	}
	log.Debug(m.logging, "bindings registered", "count", len(table), "constants", cfg.ConstantsName)
	return m, nil
}

// Names lists the globals Register installs, in registration order.
func Names() []string {
	table := (&Marshaler{}).bindings(nil)
	names := make([]string, len(table))
	for i, b := range table {
		names[i] = b.name
	}
	return names
}

func (m *Marshaler) wrap(name string, call func(goja.FunctionCall) (goja.Value, error)) func(goja.FunctionCall) goja.Value {
	return func(fc goja.FunctionCall) goja.Value {
		v, err := call(fc)
		if err != nil {
			log.Debug(m.logging, "binding failed", "name", name, "err", err)
			panic(m.vm.NewGoError(fmt.Errorf("%s: %w", name, err)))
		}
		return v
	}
}

func (m *Marshaler) bindings(sys ckb.Syscalls) []binding {
	arg := func(c goja.FunctionCall, i int) goja.Value { return c.Argument(i) }

	hash := func(name string, fn func() ckb.LoadHashFunc) []binding {
		return []binding{
			{name, func(c goja.FunctionCall) (goja.Value, error) {
				return m.LoadHash(fn())
			}},
			{"raw_" + name, func(c goja.FunctionCall) (goja.Value, error) {
				return m.RawLoadHash(fn(), arg(c, 0), arg(c, 1))
			}},
		}
	}
	single := func(name string, fn func() ckb.LoadSingleFunc) []binding {
		return []binding{
			{name, func(c goja.FunctionCall) (goja.Value, error) {
				return m.LoadSingle(fn(), arg(c, 0), arg(c, 1))
			}},
			{"raw_" + name, func(c goja.FunctionCall) (goja.Value, error) {
				return m.RawLoadSingle(fn(), arg(c, 0), arg(c, 1))
			}},
		}
	}
	indexed := func(name string, fn func() ckb.LoadFunc) []binding {
		return []binding{
			{name, func(c goja.FunctionCall) (goja.Value, error) {
				return m.Load(fn(), arg(c, 0), arg(c, 1), arg(c, 2), arg(c, 3))
			}},
			{"raw_" + name, func(c goja.FunctionCall) (goja.Value, error) {
				return m.RawLoad(fn(), arg(c, 0), arg(c, 1), arg(c, 2), arg(c, 3))
			}},
		}
	}
	byField := func(name string, fn func() ckb.LoadByFieldFunc) []binding {
		return []binding{
			{name, func(c goja.FunctionCall) (goja.Value, error) {
				return m.LoadByField(fn(), arg(c, 0), arg(c, 1), arg(c, 2), arg(c, 3), arg(c, 4))
			}},
			{"raw_" + name, func(c goja.FunctionCall) (goja.Value, error) {
				return m.RawLoadByField(fn(), arg(c, 0), arg(c, 1), arg(c, 2), arg(c, 3), arg(c, 4))
			}},
		}
	}

	table := []binding{
		{"debug", func(c goja.FunctionCall) (goja.Value, error) {
			msg := arg(c, 0).String()
			log.Trace(m.logging, "debug", "len", len(msg))
			sys.Debug(msg)
			return goja.Undefined(), nil
		}},
	}
	table = append(table, hash("load_tx_hash", func() ckb.LoadHashFunc { return sys.LoadTxHash })...)
	table = append(table, hash("load_script_hash", func() ckb.LoadHashFunc { return sys.LoadScriptHash })...)
	table = append(table, single("load_transaction", func() ckb.LoadSingleFunc { return sys.LoadTransaction })...)
	table = append(table, single("load_script", func() ckb.LoadSingleFunc { return sys.LoadScript })...)
	table = append(table, indexed("load_cell", func() ckb.LoadFunc { return sys.LoadCell })...)
	table = append(table, indexed("load_input", func() ckb.LoadFunc { return sys.LoadInput })...)
	table = append(table, indexed("load_header", func() ckb.LoadFunc { return sys.LoadHeader })...)
	table = append(table, indexed("load_witness", func() ckb.LoadFunc { return sys.LoadWitness })...)
	table = append(table, indexed("load_cell_data", func() ckb.LoadFunc { return sys.LoadCellData })...)
	table = append(table, byField("load_cell_by_field", func() ckb.LoadByFieldFunc { return sys.LoadCellByField })...)
	table = append(table, byField("load_input_by_field", func() ckb.LoadByFieldFunc { return sys.LoadInputByField })...)
	table = append(table, byField("load_header_by_field", func() ckb.LoadByFieldFunc { return sys.LoadHeaderByField })...)
	return table
}

// constants builds the object scripts use instead of bare selector numbers.
// Group sources are strings since they exceed MaxSafeInteger.
func (m *Marshaler) constants() *goja.Object {
	obj := m.vm.NewObject()
	set := func(name string, v interface{}) {
		_ = obj.Set(name, v)
	}
	set("SOURCE_INPUT", uint64(ckb.SourceInput))
	set("SOURCE_OUTPUT", uint64(ckb.SourceOutput))
	set("SOURCE_CELL_DEP", uint64(ckb.SourceCellDep))
	set("SOURCE_HEADER_DEP", uint64(ckb.SourceHeaderDep))
	set("SOURCE_GROUP_INPUT", strconv.FormatUint(uint64(ckb.SourceGroupInput), 10))
	set("SOURCE_GROUP_OUTPUT", strconv.FormatUint(uint64(ckb.SourceGroupOutput), 10))

	set("CELL_FIELD_CAPACITY", uint64(ckb.CellFieldCapacity))
	set("CELL_FIELD_DATA_HASH", uint64(ckb.CellFieldDataHash))
	set("CELL_FIELD_LOCK", uint64(ckb.CellFieldLock))
	set("CELL_FIELD_LOCK_HASH", uint64(ckb.CellFieldLockHash))
	set("CELL_FIELD_TYPE", uint64(ckb.CellFieldType))
	set("CELL_FIELD_TYPE_HASH", uint64(ckb.CellFieldTypeHash))
	set("CELL_FIELD_OCCUPIED_CAPACITY", uint64(ckb.CellFieldOccupiedCapacity))

	set("HEADER_FIELD_EPOCH_NUMBER", uint64(ckb.HeaderFieldEpochNumber))
	set("HEADER_FIELD_EPOCH_START_BLOCK_NUMBER", uint64(ckb.HeaderFieldEpochStartBlockNumber))
	set("HEADER_FIELD_EPOCH_LENGTH", uint64(ckb.HeaderFieldEpochLength))

	set("INPUT_FIELD_OUT_POINT", uint64(ckb.InputFieldOutPoint))
	set("INPUT_FIELD_SINCE", uint64(ckb.InputFieldSince))

	set("INDEX_OUT_OF_BOUND", ckb.IndexOutOfBound)
	set("ITEM_MISSING", ckb.ItemMissing)
	set("LENGTH_NOT_ENOUGH", ckb.LengthNotEnough)
	set("INVALID_DATA", ckb.InvalidData)
	return obj
}
