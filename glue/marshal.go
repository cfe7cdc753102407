// Package glue binds the CKB syscall surface onto a goja runtime. Each
// binding parses script arguments, runs one syscall into a buffer it owns and
// hands the result back as an ArrayBuffer, an integer or a thrown error.
package glue

import (
	"fmt"

	"github.com/colorfulnotion/ckbjs/ckb"
	"github.com/colorfulnotion/ckbjs/ckberrors"
	"github.com/colorfulnotion/ckbjs/common"
	"github.com/colorfulnotion/ckbjs/log"
	"github.com/dop251/goja"
)

// Marshaler converts between script values and syscall buffers for one
// runtime. Like the runtime it is not safe for concurrent use.
type Marshaler struct {
	vm      *goja.Runtime
	cfg     Config
	logging string
}

func NewMarshaler(vm *goja.Runtime, cfg Config) *Marshaler {
	return &Marshaler{vm: vm, cfg: cfg, logging: log.GlueMonitoring}
}

// partial is any syscall shape with its selectors already bound.
type partial func(buf []byte, offset uint64) (uint64, int)

func (m *Marshaler) softError(code int) goja.Value {
	return m.vm.ToValue(-int64(code))
}

// LoadHash runs a hash syscall into a fresh 32 byte buffer. Any code other
// than Success, or any length other than 32, is an error.
func (m *Marshaler) LoadHash(fn ckb.LoadHashFunc) (goja.Value, error) {
	buf := make([]byte, common.HashLength)
	n, code := fn(buf, 0)
	if code != ckb.Success {
		return nil, fmt.Errorf("%w: code %d", ckberrors.ErrSyscall, code)
	}
	if n != common.HashLength {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ckberrors.ErrLengthMismatch, n, common.HashLength)
	}
	return m.vm.ToValue(m.vm.NewArrayBuffer(buf)), nil
}

// LoadSingle loads a transaction-wide item such as the transaction or the
// running script.
func (m *Marshaler) LoadSingle(fn ckb.LoadSingleFunc, size, offset goja.Value) (goja.Value, error) {
	return m.load(partial(fn), size, offset)
}

func (m *Marshaler) Load(fn ckb.LoadFunc, size, source, index, offset goja.Value) (goja.Value, error) {
	call, err := bindLoad(fn, source, index)
	if err != nil {
		return nil, err
	}
	return m.load(call, size, offset)
}

func (m *Marshaler) LoadByField(fn ckb.LoadByFieldFunc, size, source, index, field, offset goja.Value) (goja.Value, error) {
	call, err := bindLoadByField(fn, source, index, field)
	if err != nil {
		return nil, err
	}
	return m.load(call, size, offset)
}

// load allocates size bytes, runs call and returns the bytes written. A
// failing code comes back as -code so the script can react to it.
func (m *Marshaler) load(call partial, size, offset goja.Value) (goja.Value, error) {
	capacity, err := parseSize(size, m.cfg.MaxBufferSize)
	if err != nil {
		return nil, err
	}
	off, err := parseOffset(offset)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, capacity)
	n, code := call(buf, off)
	log.Trace(m.logging, "load", "size", capacity, "offset", off, "avail", n, "code", code)
	if code != ckb.Success {
		return m.softError(code), nil
	}
	return m.vm.ToValue(m.vm.NewArrayBuffer(buf[:min(n, capacity)])), nil
}

// RawLoadHash copies a hash into dst from offset and returns the length
// available from offset.
func (m *Marshaler) RawLoadHash(fn ckb.LoadHashFunc, dst, offset goja.Value) (goja.Value, error) {
	return m.rawLoad(partial(fn), dst, offset)
}

func (m *Marshaler) RawLoadSingle(fn ckb.LoadSingleFunc, dst, offset goja.Value) (goja.Value, error) {
	return m.rawLoad(partial(fn), dst, offset)
}

func (m *Marshaler) RawLoad(fn ckb.LoadFunc, dst, offset, source, index goja.Value) (goja.Value, error) {
	call, err := bindLoad(fn, source, index)
	if err != nil {
		return nil, err
	}
	return m.rawLoad(call, dst, offset)
}

func (m *Marshaler) RawLoadByField(fn ckb.LoadByFieldFunc, dst, offset, source, index, field goja.Value) (goja.Value, error) {
	call, err := bindLoadByField(fn, source, index, field)
	if err != nil {
		return nil, err
	}
	return m.rawLoad(call, dst, offset)
}

// rawLoad fills a script owned ArrayBuffer. dst is only touched when the
// syscall succeeds and its length fits a script integer.
func (m *Marshaler) rawLoad(call partial, dst, offset goja.Value) (goja.Value, error) {
	out, err := m.arrayBuffer(dst)
	if err != nil {
		return nil, err
	}
	off, err := parseOffset(offset)
	if err != nil {
		return nil, err
	}
	scratch := make([]byte, len(out))
	n, code := call(scratch, off)
	log.Trace(m.logging, "raw load", "size", len(out), "offset", off, "avail", n, "code", code)
	if code != ckb.Success {
		return m.softError(code), nil
	}
	avail, err := CheckedInteger(n)
	if err != nil {
		return nil, err
	}
	copy(out, scratch[:min(n, uint64(len(scratch)))])
	return m.vm.ToValue(avail), nil
}

func (m *Marshaler) arrayBuffer(v goja.Value) ([]byte, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, fmt.Errorf("%w: missing ArrayBuffer", ckberrors.ErrArgumentType)
	}
	ab, ok := v.Export().(goja.ArrayBuffer)
	if !ok {
		return nil, fmt.Errorf("%w: want ArrayBuffer, got %T", ckberrors.ErrArgumentType, v.Export())
	}
	if ab.Detached() {
		return nil, fmt.Errorf("%w: ArrayBuffer is detached", ckberrors.ErrArgumentType)
	}
	return ab.Bytes(), nil
}

func bindLoad(fn ckb.LoadFunc, source, index goja.Value) (partial, error) {
	src, err := ParseSelector(source)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	idx, err := ParseSelector(index)
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	return func(buf []byte, offset uint64) (uint64, int) {
		return fn(buf, offset, idx, ckb.Source(src))
	}, nil
}

func bindLoadByField(fn ckb.LoadByFieldFunc, source, index, field goja.Value) (partial, error) {
	src, err := ParseSelector(source)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	idx, err := ParseSelector(index)
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	f, err := ParseSelector(field)
	if err != nil {
		return nil, fmt.Errorf("field: %w", err)
	}
	return func(buf []byte, offset uint64) (uint64, int) {
		return fn(buf, offset, idx, ckb.Source(src), ckb.Field(f))
	}, nil
}
