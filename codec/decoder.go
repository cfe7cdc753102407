package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var ErrMalformed = errors.New("malformed molecule data")

// UnpackTable splits a table (or dynvec) into its field encodings.
func UnpackTable(b []byte) ([][]byte, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("%w: %d bytes, need a size header", ErrMalformed, len(b))
	}
	total := binary.LittleEndian.Uint32(b)
	if uint64(total) != uint64(len(b)) {
		return nil, fmt.Errorf("%w: size header %d, have %d bytes", ErrMalformed, total, len(b))
	}
	if total == 4 {
		return [][]byte{}, nil
	}
	if len(b) < 8 {
		return nil, fmt.Errorf("%w: missing first offset", ErrMalformed)
	}
	first := binary.LittleEndian.Uint32(b[4:])
	if first%4 != 0 || first < 8 || first > total {
		return nil, fmt.Errorf("%w: bad first offset %d", ErrMalformed, first)
	}
	count := int(first/4) - 1
	offsets := make([]uint32, count+1)
	for i := 0; i < count; i++ {
		offsets[i] = binary.LittleEndian.Uint32(b[4+4*i:])
	}
	offsets[count] = total
	fields := make([][]byte, count)
	for i := 0; i < count; i++ {
		if offsets[i] > offsets[i+1] {
			return nil, fmt.Errorf("%w: offsets not increasing at field %d", ErrMalformed, i)
		}
		fields[i] = b[offsets[i]:offsets[i+1]]
	}
	return fields, nil
}

// UnpackBytes decodes a fixvec<byte>.
func UnpackBytes(b []byte) ([]byte, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("%w: %d bytes, need a length header", ErrMalformed, len(b))
	}
	n := binary.LittleEndian.Uint32(b)
	if uint64(n)+4 != uint64(len(b)) {
		return nil, fmt.Errorf("%w: length header %d, have %d bytes", ErrMalformed, n, len(b)-4)
	}
	return b[4:], nil
}
