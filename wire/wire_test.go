package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUint16(t *testing.T) {
	b := PutUint16(nil, 0xbeef)
	b = PutUint16(b, 7)

	v, ok := Uint16(b, 0)
	assert.True(t, ok)
	assert.Equal(t, v, uint16(0xbeef))

	v, ok = Uint16(b, 2)
	assert.True(t, ok)
	assert.Equal(t, v, uint16(7))

	// one byte short
	_, ok = Uint16(b, 3)
	assert.False(t, ok)
	_, ok = Uint16(b, 4)
	assert.False(t, ok)
	_, ok = Uint16(nil, 0)
	assert.False(t, ok)
}

func TestInt64(t *testing.T) {
	b := PutInt64(nil, -42)

	v, ok := Int64(b, 0)
	assert.True(t, ok)
	assert.Equal(t, v, int64(-42))

	_, ok = Int64(b, 1)
	assert.False(t, ok)
}

func TestFloat64(t *testing.T) {
	b := PutFloat64(nil, 2.5)

	v, ok := Float64(b, 0)
	assert.True(t, ok)
	assert.Equal(t, v, 2.5)

	_, ok = Float64(b, 1)
	assert.False(t, ok)
}

func TestCString(t *testing.T) {
	b := []byte{'c', 'o', 'm', 'm', 0, 'x'}

	s, ok := CString(b, 0)
	assert.True(t, ok)
	assert.Equal(t, s, "comm")

	// empty string, NUL right at off
	s, ok = CString(b, 4)
	assert.True(t, ok)
	assert.Equal(t, s, "")

	// no NUL before end of buffer
	_, ok = CString(b, 5)
	assert.False(t, ok)

	// off exactly at end: nothing to scan
	_, ok = CString(b, 6)
	assert.False(t, ok)

	// off past end
	_, ok = CString(b, 7)
	assert.False(t, ok)
}
