package bytecode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpNames(t *testing.T) {
	assert.Equal(t, OpReturn.String(), "RETURN")
	assert.Equal(t, OpEqS64.String(), "EQ_S64")
	assert.Equal(t, OpLoadFieldRefSequence.String(), "LOAD_FIELD_REF_SEQUENCE")
	assert.Equal(t, OpCastDoubleToS64.String(), "CAST_DOUBLE_TO_S64")
	assert.Equal(t, OpUnknown.String(), "UNKNOWN")
	assert.Equal(t, Opcode(0xff).String(), "UNKNOWN")
	assert.Equal(t, NrOps.String(), "UNKNOWN")

	// every enumerated op below NrOps has a name
	for op := OpUnknown; op < NrOps; op++ {
		assert.NotEqual(t, op.String(), "", "op %d", byte(op))
		if op != OpUnknown {
			assert.NotEqual(t, op.String(), "UNKNOWN", "op %d", byte(op))
		}
	}
}

func TestOpSymbols(t *testing.T) {
	assert.Equal(t, OpEq.Symbol(), "==")
	assert.Equal(t, OpNe.Symbol(), "!=")
	assert.Equal(t, OpGt.Symbol(), ">")
	assert.Equal(t, OpLt.Symbol(), "<")
	assert.Equal(t, OpGe.Symbol(), ">=")
	assert.Equal(t, OpLe.Symbol(), "<=")
	// no surface syntax: falls back to the wire name
	assert.Equal(t, OpReturn.Symbol(), "RETURN")
	assert.Equal(t, OpEqS64.Symbol(), "EQ_S64")
}

func TestBuilderLayout(t *testing.T) {
	b := &Builder{}
	b.LoadS64(0, 1)
	assert.Equal(t, b.Len(), uint32(SizeLoad+SizeLiteralNumeric))

	b.LoadString(1, "xy")
	assert.Equal(t, b.Len(), uint32(10+SizeLoad+2+1))

	b.Op(OpEq)
	b.Logical(OpOr, 0x1234)
	b.FieldRef(OpLoadFieldRefDouble, 0, 16)
	b.Cast(OpCastNop, 1)
	b.Op(OpReturn)

	data := b.Bytes()
	assert.Equal(t, Opcode(data[0]), OpLoadS64)
	assert.Equal(t, data[1], byte(0))
	assert.Equal(t, Opcode(data[10]), OpLoadString)
	assert.Equal(t, data[12], byte('x'))
	assert.Equal(t, data[14], byte(0)) // NUL terminator is implicit
	assert.Equal(t, Opcode(data[15]), OpEq)
	assert.Equal(t, Opcode(data[16]), OpOr)
	assert.Equal(t, Opcode(data[len(data)-1]), OpReturn)
}

func TestPatchSkip(t *testing.T) {
	b := &Builder{}
	b.LoadS64(0, 0)
	orPC := b.Len()
	b.Logical(OpOr, 0)
	b.Op(OpReturn)
	b.PatchSkip(orPC, 0x2a)

	insn, err := DecodeAt(b.Bytes(), orPC)
	assert.NoError(t, err)
	assert.Equal(t, insn.SkipOffset, uint16(0x2a))

	assert.Panics(t, func() { b.PatchSkip(0, 1) })   // a load, not a logical
	assert.Panics(t, func() { b.PatchSkip(100, 1) }) // out of range
}

func TestDecodeAt(t *testing.T) {
	b := &Builder{}
	b.LoadString(0, "comm")
	b.FieldRef(OpLoadFieldRefS64, 1, 24)
	b.LoadDouble(0, 2.5)
	b.Unary(OpUnaryNot, 0)
	b.Logical(OpAnd, 0x30)
	b.Op(OpReturn)

	data := b.Bytes()
	pc := uint32(0)

	insn, err := DecodeAt(data, pc)
	assert.NoError(t, err)
	assert.Equal(t, insn.Op, OpLoadString)
	assert.Equal(t, insn.Str, "comm")
	assert.Equal(t, insn.Size, uint32(7))
	pc += insn.Size

	insn, err = DecodeAt(data, pc)
	assert.NoError(t, err)
	assert.Equal(t, insn.Op, OpLoadFieldRefS64)
	assert.Equal(t, insn.Reg, byte(1))
	assert.Equal(t, insn.FieldOffset, uint16(24))
	pc += insn.Size

	insn, err = DecodeAt(data, pc)
	assert.NoError(t, err)
	assert.Equal(t, insn.Op, OpLoadDouble)
	assert.Equal(t, insn.Double, 2.5)
	pc += insn.Size

	insn, err = DecodeAt(data, pc)
	assert.NoError(t, err)
	assert.Equal(t, insn.Op, OpUnaryNot)
	pc += insn.Size

	insn, err = DecodeAt(data, pc)
	assert.NoError(t, err)
	assert.Equal(t, insn.Op, OpAnd)
	assert.Equal(t, insn.SkipOffset, uint16(0x30))
	pc += insn.Size

	insn, err = DecodeAt(data, pc)
	assert.NoError(t, err)
	assert.Equal(t, insn.Op, OpReturn)
	assert.Equal(t, insn.Size, uint32(SizeReturn))
}

func TestDecodeAtErrors(t *testing.T) {
	_, err := DecodeAt(nil, 0)
	assert.Error(t, err)

	_, err = DecodeAt([]byte{0xff}, 0)
	assert.Error(t, err)

	// truncated payloads
	_, err = DecodeAt([]byte{byte(OpLoadS64), 0, 1}, 0)
	assert.Error(t, err)
	_, err = DecodeAt([]byte{byte(OpAnd), 9}, 0)
	assert.Error(t, err)
	_, err = DecodeAt([]byte{byte(OpLoadString), 0, 'x'}, 0)
	assert.Error(t, err)
}

func TestDisassemble(t *testing.T) {
	b := &Builder{}
	b.FieldRef(OpLoadFieldRefString, 0, 8)
	b.LoadString(1, "sshd")
	b.Op(OpEqString)
	b.Op(OpReturn)

	listing := Disassemble(b.Bytes())
	lines := strings.Split(listing, "\n")
	assert.Equal(t, len(lines), 4)
	assert.Contains(t, lines[0], "LOAD_FIELD_REF_STRING")
	assert.Contains(t, lines[0], "field+8")
	assert.Contains(t, lines[1], `"sshd"`)
	assert.Contains(t, lines[2], "EQ_STRING")
	assert.Contains(t, lines[3], "RETURN")

	// undecodable tail is reported in place
	listing = Disassemble([]byte{byte(OpReturn), 0xff})
	lines = strings.Split(listing, "\n")
	assert.Equal(t, len(lines), 2)
	assert.Contains(t, lines[1], "unknown")
}
