// Package op encodes the three operation kinds the IAF partition recursion
// works in terms of: Prefix (a sub-range increment covering [start, target]),
// Postfix (a sub-range increment covering [target, end] that also freezes a
// stack depth when its target is nonzero), and Null (a pure full-range
// increment carrier with no sub-range effect). A partition recursion walks
// an op sequence right to left, merging and migrating these as it narrows
// in on a base-case-sized range.
package op

// Kind distinguishes the three operation encodings. Null is the zero value
// so a bare Op{} behaves as a no-impact operation, matching the "erase this
// slot" assignments the partition recursion makes throughout.
type Kind uint8

const (
	Null Kind = iota
	Prefix
	Postfix
)

// Op is one entry in an operation sequence: a sub-range increment of kind
// Kind targeting Target, plus a full-range increment FullAmt that always
// applies regardless of kind.
type Op struct {
	kind   Kind
	target uint64
	full   int64
}

// NewPrefix builds a Prefix operation covering [start, target] with full-range
// increment full. A Prefix with target 0 carries no sub-range effect at
// all, so it degenerates to a Null carrying the same full increment.
func NewPrefix(target uint64, full int64) Op {
	if target == 0 {
		return NewNull(full)
	}
	return Op{kind: Prefix, target: target, full: full}
}

// NewPostfix builds a Postfix operation covering [target, end] with a
// sub-range increment of 1 and no full-range increment.
func NewPostfix(target uint64) Op {
	return Op{kind: Postfix, target: target}
}

// NewNull builds a Null operation: no sub-range effect, just a full-range
// increment carrier.
func NewNull(full int64) Op {
	return Op{kind: Null, full: full}
}

// IsNull reports whether this operation has degenerated to a pure
// full-range carrier with no boundary of its own.
func (o Op) IsNull() bool { return o.kind == Null }

// Kind returns the operation's kind.
func (o Op) Kind() Kind { return o.kind }

// Target returns the operation's boundary, meaningless for Null.
func (o Op) Target() uint64 { return o.target }

// FullAmt returns the accumulated full-range increment.
func (o Op) FullAmt() int64 { return o.full }

// IncAmt returns the sub-range increment contributed by this operation: 1
// for Prefix/Postfix, 0 for Null.
func (o Op) IncAmt() int64 {
	if o.kind == Null {
		return 0
	}
	return 1
}

// AddFull accumulates delta into the operation's full-range increment.
func (o *Op) AddFull(delta int64) { o.full += delta }

// MakeNull degenerates the operation into a pure full-range carrier,
// clearing its kind and target but preserving the full amount already
// accumulated.
func (o *Op) MakeNull() {
	o.kind = Null
	o.target = 0
}

// MoveToScratch reports whether this operation crosses from the right side
// of a partition split to the left: a Postfix whose target lies before
// projStart.
func (o Op) MoveToScratch(projStart uint64) bool {
	return o.kind == Postfix && o.target < projStart
}

// IsBoundaryOp reports whether this is the Prefix marking the end of the
// left partition.
func (o Op) IsBoundaryOp(leftEnd uint64) bool {
	return o.kind == Prefix && o.target == leftEnd
}

// FullIncrToLeft returns how much of this operation's effect should be
// folded into the full-range increment seen by partitions to the left of
// rightStart: a Prefix whose target already lies at or past rightStart
// contributes both its sub-range and full increments (it will act as a
// pure full increment from the left partitions' point of view); anything
// else contributes only its existing full increment.
func (o Op) FullIncrToLeft(rightStart uint64) int64 {
	if o.kind == Prefix && o.target >= rightStart {
		return o.IncAmt() + o.full
	}
	return o.full
}
