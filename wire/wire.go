// Package wire provides bounded reads of multi-byte payload fields from a
// raw program buffer.
//
// All offsets are byte offsets from the start of the buffer. Every read
// checks that the full field lies inside the buffer before touching it;
// callers never index past len. Fields are host-endian, matching the
// controller that produced the program.

package wire

import (
	"encoding/binary"
	"math"
)

// Uint16 reads a 16-bit field at off.
func Uint16(b []byte, off uint32) (uint16, bool) {
	if uint64(off)+2 > uint64(len(b)) {
		return 0, false
	}
	return binary.NativeEndian.Uint16(b[off:]), true
}

// Int64 reads a 64-bit signed field at off.
func Int64(b []byte, off uint32) (int64, bool) {
	if uint64(off)+8 > uint64(len(b)) {
		return 0, false
	}
	return int64(binary.NativeEndian.Uint64(b[off:])), true
}

// Float64 reads a 64-bit float field at off.
func Float64(b []byte, off uint32) (float64, bool) {
	if uint64(off)+8 > uint64(len(b)) {
		return 0, false
	}
	return math.Float64frombits(binary.NativeEndian.Uint64(b[off:])), true
}

// CString reads a NUL-terminated string starting at off. The returned
// string excludes the NUL. Reports false if off is past the buffer or no
// NUL occurs before the end of the buffer.
func CString(b []byte, off uint32) (string, bool) {
	if uint64(off) > uint64(len(b)) {
		return "", false
	}
	for i := off; i < uint32(len(b)); i++ {
		if b[i] == 0 {
			return string(b[off:i]), true
		}
	}
	// final '\0' not found within range
	return "", false
}

// SetUint16 overwrites a 16-bit field at off in place. Reports false if
// the field does not fit.
func SetUint16(b []byte, off uint32, v uint16) bool {
	if uint64(off)+2 > uint64(len(b)) {
		return false
	}
	binary.NativeEndian.PutUint16(b[off:], v)
	return true
}

// PutUint16 appends a 16-bit field to b.
func PutUint16(b []byte, v uint16) []byte {
	return binary.NativeEndian.AppendUint16(b, v)
}

// PutInt64 appends a 64-bit signed field to b.
func PutInt64(b []byte, v int64) []byte {
	return binary.NativeEndian.AppendUint64(b, uint64(v))
}

// PutFloat64 appends a 64-bit float field to b.
func PutFloat64(b []byte, v float64) []byte {
	return binary.NativeEndian.AppendUint64(b, math.Float64bits(v))
}
