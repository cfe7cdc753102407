package glue

import (
	"fmt"

	"github.com/colorfulnotion/ckbjs/ckberrors"
)

// MaxSafeInteger is Number.MAX_SAFE_INTEGER, the largest integer a script
// number holds exactly.
const MaxSafeInteger = 1<<53 - 1

// CheckedInteger converts a native length into a script integer, refusing
// values a float64 cannot hold exactly.
func CheckedInteger(v uint64) (int64, error) {
	if v > MaxSafeInteger {
		return 0, fmt.Errorf("%w: %d > %d", ckberrors.ErrIntegerOverflow, v, uint64(MaxSafeInteger))
	}
	return int64(v), nil
}
