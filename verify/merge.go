package verify

// A mergeTable holds the register-file snapshots queued by forward jumps,
// keyed by target PC. Several jumps may target the same PC, so values are
// slices; duplicate snapshots are kept and reconciled individually.
//
// The table lives for one validation call and is only ever touched by that
// call, so a plain map is enough. (A lock-free table with a seeded hash
// would only matter if validations shared it; they never do, and keeping
// the key the raw PC makes verdicts trivially independent of any seed.)
type mergeTable map[uint32][]regFile

// add queues a snapshot of reg for the instruction at target.
func (t mergeTable) add(target uint32, reg regFile) {
	t[target] = append(t[target], reg)
}

// take removes and returns every snapshot targeting pc.
func (t mergeTable) take(pc uint32) []regFile {
	snaps, hit := t[pc]
	if hit {
		delete(t, pc)
	}
	return snaps
}

// pending reports how many snapshots are still queued. Non-zero after the
// scan ends means some jump targeted a PC the scan never reached.
func (t mergeTable) pending() int {
	n := 0
	for _, snaps := range t {
		n += len(snaps)
	}
	return n
}
