package bytecode

import (
	"fmt"
	"strings"

	"sift/wire"
)

// An Instruction is one decoded instruction, for listings and debugger
// display only. The verifier never round-trips through this type; it reads
// the raw bytes itself so that its bounds checks are its own.
type Instruction struct {
	PC uint32
	Op Opcode

	Reg         byte    // unary, cast, load
	SkipOffset  uint16  // logical
	FieldOffset uint16  // field refs
	S64         int64   // LOAD_S64
	Double      float64 // LOAD_DOUBLE
	Str         string  // LOAD_STRING

	Size uint32 // full instruction length in bytes
}

// DecodeAt decodes the instruction at pc. The error reports truncation or
// an unrecognised opcode; it is diagnostic-grade, not a verification
// verdict.
func DecodeAt(data []byte, pc uint32) (Instruction, error) {
	insn := Instruction{PC: pc}
	if uint64(pc) >= uint64(len(data)) {
		return insn, fmt.Errorf("pc %d out of range", pc)
	}
	insn.Op = Opcode(data[pc])

	switch op := insn.Op; {
	case op == OpReturn:
		insn.Size = SizeReturn

	case op >= OpMul && op <= OpBinXor:
		insn.Size = SizeBinary

	case op >= OpEq && op <= OpLeDouble:
		insn.Size = SizeBinary

	case op >= OpUnaryPlus && op <= OpUnaryNotDouble:
		if uint64(pc)+SizeUnary > uint64(len(data)) {
			return insn, fmt.Errorf("truncated %s at pc %d", op, pc)
		}
		insn.Reg = data[pc+1]
		insn.Size = SizeUnary

	case op == OpAnd || op == OpOr:
		skip, ok := wire.Uint16(data, pc+1)
		if !ok {
			return insn, fmt.Errorf("truncated %s at pc %d", op, pc)
		}
		insn.SkipOffset = skip
		insn.Size = SizeLogical

	case op == OpLoadFieldRef:
		// un-typed; decodable for display even though the verifier
		// rejects it
		fallthrough
	case op >= OpLoadFieldRefString && op <= OpLoadFieldRefDouble:
		if uint64(pc)+SizeLoad > uint64(len(data)) {
			return insn, fmt.Errorf("truncated %s at pc %d", op, pc)
		}
		insn.Reg = data[pc+1]
		off, ok := wire.Uint16(data, pc+SizeLoad)
		if !ok {
			return insn, fmt.Errorf("truncated %s at pc %d", op, pc)
		}
		insn.FieldOffset = off
		insn.Size = SizeLoad + SizeFieldRef

	case op == OpLoadString:
		if uint64(pc)+SizeLoad > uint64(len(data)) {
			return insn, fmt.Errorf("truncated %s at pc %d", op, pc)
		}
		insn.Reg = data[pc+1]
		s, ok := wire.CString(data, pc+SizeLoad)
		if !ok {
			return insn, fmt.Errorf("unterminated string at pc %d", pc)
		}
		insn.Str = s
		insn.Size = SizeLoad + uint32(len(s)) + 1

	case op == OpLoadS64:
		if uint64(pc)+SizeLoad > uint64(len(data)) {
			return insn, fmt.Errorf("truncated %s at pc %d", op, pc)
		}
		insn.Reg = data[pc+1]
		v, ok := wire.Int64(data, pc+SizeLoad)
		if !ok {
			return insn, fmt.Errorf("truncated %s at pc %d", op, pc)
		}
		insn.S64 = v
		insn.Size = SizeLoad + SizeLiteralNumeric

	case op == OpLoadDouble:
		if uint64(pc)+SizeLoad > uint64(len(data)) {
			return insn, fmt.Errorf("truncated %s at pc %d", op, pc)
		}
		insn.Reg = data[pc+1]
		v, ok := wire.Float64(data, pc+SizeLoad)
		if !ok {
			return insn, fmt.Errorf("truncated %s at pc %d", op, pc)
		}
		insn.Double = v
		insn.Size = SizeLoad + SizeLiteralDouble

	case op >= OpCastToS64 && op <= OpCastNop:
		if uint64(pc)+SizeCast > uint64(len(data)) {
			return insn, fmt.Errorf("truncated %s at pc %d", op, pc)
		}
		insn.Reg = data[pc+1]
		insn.Size = SizeCast

	default:
		return insn, fmt.Errorf("unknown bytecode op %d at pc %d", byte(insn.Op), pc)
	}
	return insn, nil
}

// String renders the instruction the way a listing shows it.
func (i Instruction) String() string {
	switch op := i.Op; {
	case op >= OpUnaryPlus && op <= OpUnaryNotDouble,
		op >= OpCastToS64 && op <= OpCastNop:
		return fmt.Sprintf("%04x  %-24s r%d", i.PC, op.String(), i.Reg)
	case op == OpAnd || op == OpOr:
		return fmt.Sprintf("%04x  %-24s skip=%04x", i.PC, op.String(), i.SkipOffset)
	case op >= OpLoadFieldRef && op <= OpLoadFieldRefDouble:
		return fmt.Sprintf("%04x  %-24s r%d field+%d", i.PC, op.String(), i.Reg, i.FieldOffset)
	case op == OpLoadString:
		return fmt.Sprintf("%04x  %-24s r%d %q", i.PC, op.String(), i.Reg, i.Str)
	case op == OpLoadS64:
		return fmt.Sprintf("%04x  %-24s r%d %d", i.PC, op.String(), i.Reg, i.S64)
	case op == OpLoadDouble:
		return fmt.Sprintf("%04x  %-24s r%d %g", i.PC, op.String(), i.Reg, i.Double)
	}
	return fmt.Sprintf("%04x  %s", i.PC, i.Op.String())
}

// Disassemble lists a whole program, one instruction per line. Decoding
// stops at the first undecodable instruction, which is reported in place;
// the verifier is the authority on whether that matters.
func Disassemble(data []byte) string {
	var lines []string
	for pc := uint32(0); uint64(pc) < uint64(len(data)); {
		insn, err := DecodeAt(data, pc)
		if err != nil {
			lines = append(lines, fmt.Sprintf("%04x  <%v>", pc, err))
			break
		}
		lines = append(lines, insn.String())
		pc += insn.Size
	}
	return strings.Join(lines, "\n")
}
