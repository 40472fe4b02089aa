package verify

import (
	"log"

	"sift/bytecode"
	"sift/wire"
)

// A Verifier validates one program at a time. The zero value is ready to
// use; Trace may be pointed at a logger to watch the scan instruction by
// instruction (off by default, this is hot-path adjacent).
//
// A Verifier holds no per-program state, so one may be reused, and
// distinct Verifiers may run in parallel. All working state (register
// file, merge-point table) lives inside the call.
type Verifier struct {
	Trace *log.Logger
}

// Validate is the package-level convenience: validate with no tracing.
func Validate(p *bytecode.Program) error {
	return (&Verifier{}).Validate(p)
}

// Validate proves every execution path through the program type-safe and
// in-bounds. A nil return is acceptance; any rejection is a *Error whose
// Kind says why. The first violation terminates the scan.
func (v *Verifier) Validate(p *bytecode.Program) error {
	s := newScan(p.Data)
	s.trace = v.tracef
	for !s.done {
		op := bytecode.Opcode(s.data[s.pc])
		v.tracef("validating op %s (%d) at pc %d", op, byte(op), s.pc)
		s.step()
	}
	if s.err == nil && s.drained > 0 {
		v.tracef("reconciled %d merge point(s)", s.drained)
	}
	if err := s.finish(); err != nil {
		v.tracef("rejected: %v", err)
		return err
	}
	if s.err != nil {
		v.tracef("rejected: %v", s.err)
		return s.err
	}
	return nil
}

func (v *Verifier) tracef(format string, args ...any) {
	if v.Trace != nil {
		v.Trace.Printf(format, args...)
	}
}

// A scan is one in-flight validation: the forward walk with its abstract
// register file and pending merge points. Validate drives it to
// completion; the debugger drives it one instruction per keypress.
type scan struct {
	data []byte

	reg    regFile
	merges mergeTable
	pc     uint32

	drained int // merge points reconciled so far

	// optional debug sink; nil-safe via tracef
	trace func(format string, args ...any)

	done bool
	err  *Error
}

func (s *scan) tracef(format string, args ...any) {
	if s.trace != nil {
		s.trace(format, args...)
	}
}

func newScan(data []byte) *scan {
	s := &scan{
		data:   data,
		merges: mergeTable{},
	}
	// register file starts all (unknown, false), i.e. the zero value.
	// An empty blob is not a program: there is no instruction to prove
	// anything about, and accepting it would hand the interpreter a
	// zero-length dispatch.
	if len(data) == 0 {
		s.fail(reject(KindOverflow, 0, bytecode.OpUnknown, "empty bytecode"))
	}
	return s
}

// step runs the full per-instruction pipeline at the current pc: bounds
// check, merge-point reconciliation, type check, abstract execution. On
// violation the scan stops with err set; on RETURN or walking off the end
// of the program it stops cleanly.
func (s *scan) step() {
	if s.done {
		return
	}
	pc := s.pc
	op := bytecode.Opcode(s.data[pc])

	if err := checkOverflow(s.data, pc, op); err != nil {
		s.fail(err)
		return
	}

	// every path into pc must type-check here: first each queued
	// forward-jump snapshot, then the fall-through state. Rules are pure,
	// so the order among snapshots is irrelevant; each one is dropped
	// once proven.
	for _, snap := range s.merges.take(pc) {
		s.tracef("validating merge point at offset %d", pc)
		if err := checkTypes(s.data, &snap, pc, op); err != nil {
			s.fail(err)
			return
		}
		s.drained++
	}
	if err := checkTypes(s.data, &s.reg, pc, op); err != nil {
		s.fail(err)
		return
	}

	next, stop, err := execInsn(s.data, &s.reg, s.merges, pc, op)
	if err != nil {
		s.fail(err)
		return
	}
	if op == bytecode.OpAnd || op == bytecode.OpOr {
		skip, _ := wire.Uint16(s.data, pc+1)
		s.tracef("queued merge point at offset %d", skip)
	}
	if stop || uint64(next) >= uint64(len(s.data)) {
		s.done = true
		s.pc = next
		return
	}
	s.pc = next
}

func (s *scan) fail(err *Error) {
	s.err = err
	s.done = true
}

// finish applies the end-of-scan rule: every queued merge point must have
// been reconciled. Leftovers mean a forward jump targeted a PC the walk
// never visited: past the RETURN, past the end of the program, or into the
// middle of an instruction.
func (s *scan) finish() *Error {
	if s.err != nil {
		// the scan already failed; leftovers are expected then
		return nil
	}
	if n := s.merges.pending(); n > 0 {
		return reject(KindUnreachableMerge, s.pc, bytecode.OpReturn,
			"unexpected merge points (%d pending)", n)
	}
	return nil
}
