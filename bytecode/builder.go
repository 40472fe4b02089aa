package bytecode

import (
	"sift/wire"
)

// A Builder emits wire-format instructions into a growing byte buffer.
// This is the controller side of the blob contract: the test suite uses it
// to produce programs, and a frontend compiler would sit on top of it.
//
// Methods chain, and perform no validation whatsoever; producing a broken
// program (bad register index, backwards skip offset, truncated payload) is
// entirely possible, and is exactly how the verifier gets exercised.
type Builder struct {
	buf []byte
}

// Op emits a bare one-byte instruction: RETURN, any comparator, or one of
// the reserved arithmetic opcodes.
func (b *Builder) Op(op Opcode) *Builder {
	b.buf = append(b.buf, byte(op))
	return b
}

// Unary emits a unary instruction targeting reg.
func (b *Builder) Unary(op Opcode, reg byte) *Builder {
	b.buf = append(b.buf, byte(op), reg)
	return b
}

// Logical emits AND/OR with a skip offset. The offset is a byte offset
// from the start of the program, not from the instruction.
func (b *Builder) Logical(op Opcode, skip uint16) *Builder {
	b.buf = append(b.buf, byte(op))
	b.buf = wire.PutUint16(b.buf, skip)
	return b
}

// FieldRef emits a typed field-ref load into reg, reading the event field
// at the given payload offset.
func (b *Builder) FieldRef(op Opcode, reg byte, offset uint16) *Builder {
	b.buf = append(b.buf, byte(op), reg)
	b.buf = wire.PutUint16(b.buf, offset)
	return b
}

// LoadString emits a string literal load into reg. The NUL terminator is
// appended here; s must not contain one.
func (b *Builder) LoadString(reg byte, s string) *Builder {
	b.buf = append(b.buf, byte(OpLoadString), reg)
	b.buf = append(b.buf, s...)
	b.buf = append(b.buf, 0)
	return b
}

// LoadS64 emits a numeric literal load into reg.
func (b *Builder) LoadS64(reg byte, v int64) *Builder {
	b.buf = append(b.buf, byte(OpLoadS64), reg)
	b.buf = wire.PutInt64(b.buf, v)
	return b
}

// LoadDouble emits a double literal load into reg.
func (b *Builder) LoadDouble(reg byte, v float64) *Builder {
	b.buf = append(b.buf, byte(OpLoadDouble), reg)
	b.buf = wire.PutFloat64(b.buf, v)
	return b
}

// Cast emits a cast instruction targeting reg.
func (b *Builder) Cast(op Opcode, reg byte) *Builder {
	b.buf = append(b.buf, byte(op), reg)
	return b
}

// PatchSkip rewrites the skip offset of the logical instruction emitted at
// pc, once the producer knows where the short-circuit target landed.
// Panics if pc does not hold a logical instruction.
func (b *Builder) PatchSkip(pc uint32, skip uint16) *Builder {
	if pc >= uint32(len(b.buf)) ||
		(Opcode(b.buf[pc]) != OpAnd && Opcode(b.buf[pc]) != OpOr) {
		panic("PatchSkip: no logical instruction at pc")
	}
	if !wire.SetUint16(b.buf, pc+1, skip) {
		panic("PatchSkip: truncated logical instruction")
	}
	return b
}

// Raw appends arbitrary bytes, for deliberately malformed programs.
func (b *Builder) Raw(bytes ...byte) *Builder {
	b.buf = append(b.buf, bytes...)
	return b
}

// Len returns the current program length; emitting an instruction and then
// asking Len is how a producer learns the PC of the next instruction, e.g.
// to aim a skip offset.
func (b *Builder) Len() uint32 { return uint32(len(b.buf)) }

// Bytes returns the raw program.
func (b *Builder) Bytes() []byte { return b.buf }

// Program wraps the emitted bytes in a Program handle.
func (b *Builder) Program() *Program {
	return &Program{Data: b.buf}
}
