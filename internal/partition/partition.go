// Package partition implements the B-way op-sequence split at one node of
// the IAF recursion tree: given a sequence of op.Op covering [start, end],
// it peels off the rightmost sub-range as its own sequence, migrating any
// Postfix whose target crosses the split boundary into a per-partition
// scratch stack so it still gets folded into the correct full-range
// increment once that partition is eventually solved.
package partition

import (
	"math"

	"iaf/internal/op"
)

// Branching is the fan-out B of one recursion node: each node splits its
// range into up to Branching pieces via Branching-1 successive splits.
const Branching = 16

// incrTreeDepth is log2(Branching), the depth of the implicit heap-indexed
// binary tree State uses to track per-partition full-increment deltas.
const incrTreeDepth = 4

// Sequence is a contiguous range of the request space together with the
// slice of ops that still apply to it. Ops shares its backing array with
// the sequence it was split from — callers must not retain a Sequence
// across a later Split call that reuses the same backing array.
type Sequence struct {
	Start, End uint64
	Ops        []op.Op
}

// State is the bookkeeping threaded through the Branching-1 successive
// Split calls made at one recursion node: the running full-increment
// tally per not-yet-finalized partition, scratch stacks holding Postfixes
// that migrated left of their originating partition, and the shared
// merge/cursor indices into the node's op array.
type State struct {
	divFactor             float64
	incrArray             [Branching]int64
	allPartitionsFullIncr int64
	scratchSpaces         [Branching - 1][]op.Op

	// MergeIntoIdx and CurIdx persist across every Split call at this
	// recursion node: both start at len(ops)-1 and only ever decrease.
	MergeIntoIdx int
	CurIdx       int
}

// NewState builds the state for one recursion node's Branching-1 splits.
// divFactor is the (possibly fractional) width of one partition; numOps
// is the node's total op count before any of this node's splits run.
func NewState(divFactor float64, numOps int) *State {
	s := &State{divFactor: divFactor, MergeIntoIdx: numOps - 1}
	s.CurIdx = s.MergeIntoIdx
	for i := range s.scratchSpaces {
		s.scratchSpaces[i] = []op.Op{{}} // one empty Null seeds each scratch stack
	}
	return s
}

// qryAndUpdPartitionIncr returns how many earlier calls targeted a
// partition strictly to the left of partitionTarget (each such migrated
// Postfix's +1 covers all of partitionTarget's partition), then marks
// partitionTarget's own partition as having received one more increment. The Branching-1 partitions are addressed as leaves of an
// implicit binary tree (root index 0, left child 2i+1, right child 2i+2)
// so both the update and the running-sum query cost O(log Branching)
// instead of a linear scan per migrated Postfix.
func (s *State) qryAndUpdPartitionIncr(partitionTarget int) int64 {
	depthShift := uint(incrTreeDepth - 1)
	idx := 0
	var sum int64
	for depth := 0; depth < incrTreeDepth; depth++ {
		leftRight := (partitionTarget >> depthShift) & 1
		if leftRight == 0 {
			s.incrArray[idx]++
		} else {
			sum += s.incrArray[idx]
		}
		idx = 2*idx + leftRight + 1
		depthShift--
	}
	return sum
}

// Split peels [rightStart, rightEnd] off the right of an op sequence whose
// node-level range starts at leftStart and whose already-narrowed current
// range ends at rightEnd, walking ops right to left. leftStart is the
// recursion node's original, unchanging start; rightEnd is the end of the
// range still held by the left part before this call; leftEnd/rightStart
// are this call's split point. splitOffIdx is the 0-based index, counting
// from the left, of the partition being peeled off; the scratch stack of
// partition splitOffIdx-1 (just left of the split) is drained. State persists
// across the Branching-1 calls made at one node; ops must be the same
// backing slice (or a left-prefix of it) across those calls.
func Split(ops []op.Op, leftStart, leftEnd, rightStart, rightEnd uint64, splitOffIdx int, state *State) (left, right Sequence) {
	numOps := len(ops)
	curIdx := state.CurIdx
	mergeIntoIdx := state.MergeIntoIdx

loop:
	for ; curIdx >= 0; curIdx-- {
		o := ops[curIdx]

		if o.IsBoundaryOp(leftEnd) {
			ops[curIdx-1].AddFull(o.FullAmt() + o.IncAmt())

			if mergeIntoIdx == curIdx {
				ops[curIdx].MakeNull()
			} else {
				ops[mergeIntoIdx].AddFull(o.FullAmt())
				ops[curIdx] = op.Op{}
			}
			curIdx--
			break loop
		}

		if o.MoveToScratch(rightStart) {
			partitionTarget := int(math.Ceil(float64(o.Target()-(leftStart-1))/state.divFactor)) - 1
			stack := state.scratchSpaces[partitionTarget]

			incrs := state.qryAndUpdPartitionIncr(partitionTarget)
			stackFullIncrSum := stack[len(stack)-1].FullAmt()
			moved := o
			moved.AddFull(incrs + state.allPartitionsFullIncr - stackFullIncrSum)
			stack[len(stack)-1] = moved

			state.allPartitionsFullIncr += o.FullAmt()

			stack = append(stack, op.NewNull(incrs+state.allPartitionsFullIncr))
			state.scratchSpaces[partitionTarget] = stack

			if curIdx != mergeIntoIdx {
				ops[mergeIntoIdx].AddFull(o.FullAmt() + o.IncAmt())
				ops[curIdx] = op.Op{}
			} else {
				ops[curIdx].AddFull(o.IncAmt())
				ops[curIdx].MakeNull()
			}
		} else {
			state.allPartitionsFullIncr += o.FullIncrToLeft(rightStart)

			if mergeIntoIdx != curIdx {
				full := ops[mergeIntoIdx].FullAmt()
				o.AddFull(full)
				ops[mergeIntoIdx] = o
				ops[curIdx] = op.Op{}
			}
			if !ops[mergeIntoIdx].IsNull() {
				mergeIntoIdx--
			}
		}
	}

	leftNumOps := mergeIntoIdx
	left = Sequence{Start: leftStart, End: leftEnd, Ops: ops[:leftNumOps]}
	right = Sequence{Start: rightStart, End: rightEnd, Ops: ops[leftNumOps:numOps]}

	// Drain the scratch stack belonging to this split back into the op
	// array just left of mergeIntoIdx, in migration order (the first
	// migrated entry lands rightmost), so the next (further-left) split
	// sees them in place.
	stack := state.scratchSpaces[splitOffIdx-1]
	for i := 0; i < len(stack)-1; i++ {
		mergeIntoIdx--
		ops[mergeIntoIdx] = stack[i]
	}
	back := stack[len(stack)-1]
	incrsToEnd := state.qryAndUpdPartitionIncr(splitOffIdx - 1)
	mergeIntoIdx--
	ops[mergeIntoIdx].AddFull(state.allPartitionsFullIncr + incrsToEnd - back.FullAmt())
	state.scratchSpaces[splitOffIdx-1] = stack[:0]

	state.CurIdx = curIdx
	state.MergeIntoIdx = mergeIntoIdx

	return left, right
}
