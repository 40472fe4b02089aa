// Package bytecode defines the wire format of the trace-filter VM: the
// opcode set, the fixed record sizes of each instruction family, and the
// Program handle that carries a compiled filter from the controller to the
// verifier and (eventually) the interpreter.

package bytecode

// A filter program is a contiguous byte stream. The first byte of every
// instruction is the opcode; the payload that follows is fixed per opcode
// family. Multi-byte fields are host-endian: programs are produced by a
// controller co-resident on the same host, so nothing is byte-swapped.
//
// The layout deliberately resembles classic in-kernel filter machines; for
// the general shape of this kind of checker see
// https://www.kernel.org/doc/html/latest/bpf/verifier.html

// An Opcode is the single-byte tag at the start of every instruction. The
// zero value is reserved as an explicit "unknown" sentinel so that
// zero-filled buffers never decode to something executable.
type Opcode byte

const (
	OpUnknown Opcode = iota

	OpReturn

	// arithmetic, reserved on the wire but not implemented: the verifier
	// rejects them as unsupported
	OpMul
	OpDiv
	OpMod
	OpPlus
	OpMinus
	OpRshift
	OpLshift
	OpBinAnd
	OpBinOr
	OpBinXor

	// generic comparators; operand types are resolved by the verifier
	OpEq
	OpNe
	OpGt
	OpLt
	OpGe
	OpLe

	// type-specialised comparators
	OpEqString
	OpNeString
	OpGtString
	OpLtString
	OpGeString
	OpLeString

	OpEqS64
	OpNeS64
	OpGtS64
	OpLtS64
	OpGeS64
	OpLeS64

	OpEqDouble
	OpNeDouble
	OpGtDouble
	OpLtDouble
	OpGeDouble
	OpLeDouble

	// unary
	OpUnaryPlus
	OpUnaryMinus
	OpUnaryNot

	OpUnaryPlusS64
	OpUnaryMinusS64
	OpUnaryNotS64

	OpUnaryPlusDouble
	OpUnaryMinusDouble
	OpUnaryNotDouble

	// short-circuit logical; the payload is a forward skip offset
	OpAnd
	OpOr

	// loads. the un-specialised field ref is rejected by the verifier; the
	// controller must always emit a typed variant.
	OpLoadFieldRef
	OpLoadFieldRefString
	OpLoadFieldRefSequence
	OpLoadFieldRefS64
	OpLoadFieldRefDouble

	OpLoadString
	OpLoadS64
	OpLoadDouble

	// casts
	OpCastToS64
	OpCastDoubleToS64
	OpCastNop

	NrOps
)

// Record sizes, in bytes, opcode header included. These mirror the packed
// structs the interpreter reads, so the verifier and the interpreter can
// never disagree on where the next instruction starts.
const (
	SizeReturn  = 1 // opcode
	SizeBinary  = 1 // opcode; comparators take their operands from R0/R1
	SizeUnary   = 2 // opcode + register index
	SizeLogical = 3 // opcode + u16 skip offset
	SizeCast    = 2 // opcode + register index
	SizeLoad    = 2 // opcode + register index; payload follows

	// trailing payloads after a load header
	SizeFieldRef       = 2 // u16 field offset
	SizeLiteralNumeric = 8 // s64, host-endian
	SizeLiteralDouble  = 8 // float64, host-endian
)

var opNames = map[Opcode]string{
	OpUnknown: "UNKNOWN",
	OpReturn:  "RETURN",

	OpMul:    "MUL",
	OpDiv:    "DIV",
	OpMod:    "MOD",
	OpPlus:   "PLUS",
	OpMinus:  "MINUS",
	OpRshift: "RSHIFT",
	OpLshift: "LSHIFT",
	OpBinAnd: "BIN_AND",
	OpBinOr:  "BIN_OR",
	OpBinXor: "BIN_XOR",

	OpEq: "EQ",
	OpNe: "NE",
	OpGt: "GT",
	OpLt: "LT",
	OpGe: "GE",
	OpLe: "LE",

	OpEqString: "EQ_STRING",
	OpNeString: "NE_STRING",
	OpGtString: "GT_STRING",
	OpLtString: "LT_STRING",
	OpGeString: "GE_STRING",
	OpLeString: "LE_STRING",

	OpEqS64: "EQ_S64",
	OpNeS64: "NE_S64",
	OpGtS64: "GT_S64",
	OpLtS64: "LT_S64",
	OpGeS64: "GE_S64",
	OpLeS64: "LE_S64",

	OpEqDouble: "EQ_DOUBLE",
	OpNeDouble: "NE_DOUBLE",
	OpGtDouble: "GT_DOUBLE",
	OpLtDouble: "LT_DOUBLE",
	OpGeDouble: "GE_DOUBLE",
	OpLeDouble: "LE_DOUBLE",

	OpUnaryPlus:  "UNARY_PLUS",
	OpUnaryMinus: "UNARY_MINUS",
	OpUnaryNot:   "UNARY_NOT",

	OpUnaryPlusS64:  "UNARY_PLUS_S64",
	OpUnaryMinusS64: "UNARY_MINUS_S64",
	OpUnaryNotS64:   "UNARY_NOT_S64",

	OpUnaryPlusDouble:  "UNARY_PLUS_DOUBLE",
	OpUnaryMinusDouble: "UNARY_MINUS_DOUBLE",
	OpUnaryNotDouble:   "UNARY_NOT_DOUBLE",

	OpAnd: "AND",
	OpOr:  "OR",

	OpLoadFieldRef:         "LOAD_FIELD_REF",
	OpLoadFieldRefString:   "LOAD_FIELD_REF_STRING",
	OpLoadFieldRefSequence: "LOAD_FIELD_REF_SEQUENCE",
	OpLoadFieldRefS64:      "LOAD_FIELD_REF_S64",
	OpLoadFieldRefDouble:   "LOAD_FIELD_REF_DOUBLE",

	OpLoadString: "LOAD_STRING",
	OpLoadS64:    "LOAD_S64",
	OpLoadDouble: "LOAD_DOUBLE",

	OpCastToS64:       "CAST_TO_S64",
	OpCastDoubleToS64: "CAST_DOUBLE_TO_S64",
	OpCastNop:         "CAST_NOP",
}

// String returns the wire name of the opcode, or "UNKNOWN" for any byte
// outside the enumerated set.
func (op Opcode) String() string {
	name, legal := opNames[op]
	if !legal {
		return "UNKNOWN"
	}
	return name
}

// Symbol returns the source-level operator a generic comparator stands for,
// for use in diagnostics ("type mismatch for '==' binary operator"). Ops
// that have no surface syntax fall back to the wire name.
func (op Opcode) Symbol() string {
	switch op {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpGt:
		return ">"
	case OpLt:
		return "<"
	case OpGe:
		return ">="
	case OpLe:
		return "<="
	}
	return op.String()
}

// A Program is a compiled filter as handed over by the controller: the raw
// instruction bytes plus an opaque runtime descriptor that is threaded
// through to the interpreter untouched. The verifier only ever looks at
// Data.
type Program struct {
	Data []byte

	// Runtime is owned by the tracer; channel/event wiring lives there.
	// Nothing in this module inspects it.
	Runtime any
}

// Len returns the program length in bytes. PCs are byte offsets in
// [0, Len).
func (p *Program) Len() uint32 { return uint32(len(p.Data)) }
