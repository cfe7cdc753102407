package glue

import (
	"fmt"
	"math"
	"strconv"

	"github.com/colorfulnotion/ckbjs/ckberrors"
	"github.com/dop251/goja"
)

// Selector is a source, index, field or offset argument as the script passed
// it. It is either a NumberSelector or a StringSelector.
type Selector interface {
	Uint64() (uint64, error)
	isSelector()
}

// NumberSelector is a selector passed as a script number. Negative integers
// wrap to their two's complement, leaving the syscall to reject them.
type NumberSelector float64

// StringSelector is a selector passed as a decimal string, the only way to
// reach values above MaxSafeInteger such as the group sources.
type StringSelector string

func (NumberSelector) isSelector() {}
func (StringSelector) isSelector() {}

func (n NumberSelector) Uint64() (uint64, error) {
	f := float64(n)
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return 0, fmt.Errorf("%w: selector %v is not finite", ckberrors.ErrArgumentType, f)
	case f != math.Trunc(f):
		return 0, fmt.Errorf("%w: selector %v is not an integer", ckberrors.ErrArgumentType, f)
	case f < math.MinInt64 || f >= math.MaxUint64:
		return 0, fmt.Errorf("%w: selector %v out of range", ckberrors.ErrArgumentType, f)
	case f < 0:
		return uint64(int64(f)), nil
	}
	return uint64(f), nil
}

func (s StringSelector) Uint64() (uint64, error) {
	v, err := strconv.ParseUint(string(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: selector %q is not a decimal number", ckberrors.ErrArgumentType, string(s))
	}
	return v, nil
}

// SelectorOf classifies a script value. Anything other than a number or a
// string is an argument error.
func SelectorOf(v goja.Value) (Selector, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, fmt.Errorf("%w: missing selector", ckberrors.ErrArgumentType)
	}
	switch x := v.Export().(type) {
	case int64:
		return NumberSelector(x), nil
	case float64:
		return NumberSelector(x), nil
	case string:
		return StringSelector(x), nil
	default:
		return nil, fmt.Errorf("%w: selector of type %T", ckberrors.ErrArgumentType, x)
	}
}

// ParseSelector reads a number or decimal string argument into uint64.
func ParseSelector(v goja.Value) (uint64, error) {
	s, err := SelectorOf(v)
	if err != nil {
		return 0, err
	}
	return s.Uint64()
}

// parseOffset treats a missing offset as 0.
func parseOffset(v goja.Value) (uint64, error) {
	if v == nil || goja.IsUndefined(v) {
		return 0, nil
	}
	return ParseSelector(v)
}

// parseSize reads a size hint, which must be a non-negative integral number
// no larger than limit.
func parseSize(v goja.Value, limit uint64) (uint64, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return 0, fmt.Errorf("%w: missing size", ckberrors.ErrArgumentType)
	}
	var f float64
	switch x := v.Export().(type) {
	case int64:
		f = float64(x)
	case float64:
		f = x
	default:
		return 0, fmt.Errorf("%w: size of type %T", ckberrors.ErrArgumentType, x)
	}
	if math.IsNaN(f) || f < 0 || f != math.Trunc(f) || f > float64(limit) {
		return 0, fmt.Errorf("%w: size %v must be an integer in [0, %d]", ckberrors.ErrArgumentType, f, limit)
	}
	return uint64(f), nil
}
