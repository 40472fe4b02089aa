package verify

import (
	"sift/bytecode"
	"sift/wire"
)

// execInsn applies the abstract effect of the instruction at pc to the
// register file and returns the next pc. stop is true on RETURN. Runs
// strictly after checkOverflow and checkTypes for the same pc, so payload
// reads here cannot fall off the program.
func execInsn(data []byte, reg *regFile, merges mergeTable, pc uint32, op bytecode.Opcode) (next uint32, stop bool, err *Error) {
	switch {
	case op == bytecode.OpReturn:
		return pc, true, nil

	// generic and typed comparators leave a 0/1 in R0, hence s64...
	case op >= bytecode.OpEq && op <= bytecode.OpLeS64:
		reg[R0].typ = typeS64
		next = pc + bytecode.SizeBinary

	// ...except the double-typed ones, which keep R0 typed double. The
	// result is still boolean-like at runtime; the typing records what
	// the source-authored bytecode declared, and the interpreter
	// tolerates it. Downstream rules must not assume s64 here.
	case op >= bytecode.OpEqDouble && op <= bytecode.OpLeDouble:
		reg[R0].typ = typeDouble
		next = pc + bytecode.SizeBinary

	case op >= bytecode.OpUnaryPlus && op <= bytecode.OpUnaryNotS64:
		reg[R0].typ = typeS64
		next = pc + bytecode.SizeUnary

	case op >= bytecode.OpUnaryPlusDouble && op <= bytecode.OpUnaryNotDouble:
		reg[R0].typ = typeDouble
		next = pc + bytecode.SizeUnary

	case op == bytecode.OpAnd || op == bytecode.OpOr:
		// registers are untouched; the taken edge is recorded as a
		// snapshot at the skip target and the scan falls through to the
		// short-circuit-not-taken successor
		skip, _ := wire.Uint16(data, pc+1)
		merges.add(uint32(skip), *reg)
		next = pc + bytecode.SizeLogical

	case op == bytecode.OpLoadFieldRefString || op == bytecode.OpLoadFieldRefSequence:
		r := int(data[pc+1])
		reg[r] = vreg{typ: typeString, literal: false}
		next = pc + bytecode.SizeLoad + bytecode.SizeFieldRef

	case op == bytecode.OpLoadFieldRefS64:
		r := int(data[pc+1])
		reg[r] = vreg{typ: typeS64, literal: false}
		next = pc + bytecode.SizeLoad + bytecode.SizeFieldRef

	case op == bytecode.OpLoadFieldRefDouble:
		r := int(data[pc+1])
		reg[r] = vreg{typ: typeDouble, literal: false}
		next = pc + bytecode.SizeLoad + bytecode.SizeFieldRef

	case op == bytecode.OpLoadString:
		r := int(data[pc+1])
		reg[r] = vreg{typ: typeString, literal: true}
		s, _ := wire.CString(data, pc+bytecode.SizeLoad)
		next = pc + bytecode.SizeLoad + uint32(len(s)) + 1

	case op == bytecode.OpLoadS64:
		r := int(data[pc+1])
		reg[r] = vreg{typ: typeS64, literal: true}
		next = pc + bytecode.SizeLoad + bytecode.SizeLiteralNumeric

	case op == bytecode.OpLoadDouble:
		r := int(data[pc+1])
		reg[r] = vreg{typ: typeDouble, literal: true}
		next = pc + bytecode.SizeLoad + bytecode.SizeLiteralDouble

	case op == bytecode.OpCastToS64 || op == bytecode.OpCastDoubleToS64:
		r := int(data[pc+1])
		reg[r].typ = typeS64
		next = pc + bytecode.SizeCast

	case op == bytecode.OpCastNop:
		next = pc + bytecode.SizeCast

	default:
		// unreachable once checkOverflow has accepted the opcode;
		// mirrored here so a rule added in one place but not the other
		// fails loudly instead of looping
		return pc, false, reject(KindUnknownOp, pc, op, "unknown bytecode op %d", byte(op))
	}
	return next, false, nil
}
