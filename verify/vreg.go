// Package verify proves untrusted filter bytecode type-safe and bounded
// before the tracer is allowed to run it on hot event paths.
//
// The whole check is one forward abstract interpretation over the
// instruction stream: no CFG is built, no data values are tracked, only an
// abstract type per register. Forward jumps (the short-circuit logical
// operators) park a snapshot of the register file at their target PC; when
// the scan walks past that PC the snapshot is replayed against the
// instruction there, which proves every path into the join point agrees on
// typing. Anything the interpreter would mis-dispatch on is a rejection.

package verify

// The VM has two working registers. Binary comparators read R0 and R1 and
// leave their result in R0; everything else names its register explicitly.
const (
	R0 = iota
	R1
	// first invalid index; any instruction selecting reg >= RegError is
	// rejected
	RegError

	NrReg = RegError
)

// A regType is the abstract type of one register. The zero value is
// unknown, so a fresh register file starts fully untyped.
type regType int

const (
	typeUnknown regType = iota
	typeS64
	typeDouble
	typeString
)

func (t regType) String() string {
	switch t {
	case typeS64:
		return "s64"
	case typeDouble:
		return "double"
	case typeString:
		return "string"
	}
	return "unknown"
}

// A vreg is one abstract register: a type tag plus a flag recording
// whether the value came from a compile-time literal. The literal flag has
// no safety consequence here; it is tracked because the interpreter treats
// literal-backed storage differently, and it must survive merges intact.
type vreg struct {
	typ     regType
	literal bool
}

// A regFile is the full abstract register state at one program point. It
// is a plain value type: assigning one copies it, which is exactly what
// merge-point snapshots need.
type regFile [NrReg]vreg
