// Package ckberrors holds the errors thrown into scripts by the syscall
// bindings. Each message reads "code|Name: description".
package ckberrors

import (
	"errors"
	"strings"
)

var (
	ErrArgumentType    = errors.New("E1|ArgumentTypeError: Script supplied an argument of the wrong type.")
	ErrSyscall         = errors.New("E2|SyscallError: Syscall returned a non-zero code on a call without a soft-error channel.")
	ErrLengthMismatch  = errors.New("E3|LengthMismatchError: Syscall wrote an unexpected number of bytes.")
	ErrIntegerOverflow = errors.New("E4|IntegerOverflowError: Native integer cannot be represented as a script number.")
)

var sentinels = [...]error{ErrArgumentType, ErrSyscall, ErrLengthMismatch, ErrIntegerOverflow}

// Sentinel returns the binding error err wraps, or nil. Errors that crossed
// the script engine still match since goja exceptions unwrap to the Go error.
func Sentinel(err error) error {
	for _, s := range sentinels {
		if err != nil && errors.Is(err, s) {
			return s
		}
	}
	return nil
}

type parts struct {
	code, name, desc string
}

// split parses the sentinel behind err when there is one, else err itself.
// Messages without a code keep their full text as the name.
func split(err error) parts {
	if s := Sentinel(err); s != nil {
		err = s
	}
	msg := err.Error()
	code, rest, ok := strings.Cut(msg, "|")
	if !ok {
		return parts{name: msg}
	}
	name, desc, ok := strings.Cut(rest, ":")
	if !ok {
		return parts{name: msg}
	}
	return parts{
		code: strings.TrimSpace(code),
		name: strings.TrimSpace(name),
		desc: strings.TrimSpace(desc),
	}
}

func GetErrorName(err error) string {
	if err == nil {
		return "No Error"
	}
	return split(err).name
}

func GetErrorCode(err error) string {
	if err == nil {
		return ""
	}
	return split(err).code
}

// GetErrorCodeWithName returns "E3_LengthMismatchError" style identifiers,
// or "" for errors outside this package.
func GetErrorCodeWithName(err error) string {
	if err == nil {
		return ""
	}
	p := split(err)
	if p.code == "" {
		return ""
	}
	return p.code + "_" + p.name
}

func GetErrorDesc(err error) string {
	if err == nil {
		return ""
	}
	if d := split(err).desc; d != "" {
		return d
	}
	return "DESC NOT SET"
}
