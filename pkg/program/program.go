// Package program implements the linearizer (§4.B / Component B): it turns
// an Action DAG into a flat, ordered straight-line program with slots
// pre-assigned, the form pkg/exec actually runs. Grounded on the teacher's
// row_storage/plan execution model of compiling a tree into an ordered op
// list once and replaying it per block, but built from scratch here since
// no example repo carries a Kahn-style two-queue linearizer; the free-slot
// stack and deferred-array-join queue follow §4.B's description directly.
package program

import (
	"github.com/kamstrup/intmap"
	"github.com/liyue201/gostl/ds/deque"
	"github.com/liyue201/gostl/ds/stack"

	"github.com/ArtCorp/exprdag/pkg/actions"
	"github.com/ArtCorp/exprdag/pkg/dagerr"
	"github.com/ArtCorp/exprdag/pkg/types"
)

// Action is one scheduled step of a linearized program: compute Node's
// result into ResultSlot by reading ArgSlots in order, and free any
// ArgSlots flagged in RemoveInputSlots once the step has executed.
type Action struct {
	Node             *actions.Node
	ArgSlots         []int
	RemoveInputSlots []bool
	ResultSlot       int

	// IsUsedInResult is §3's used-in-result predicate evaluated at
	// linearize time: Node is not dead (RenamingParent == nil), is still
	// the live holder of its Name in the source DAG, and is one of the
	// DAG's outputs. The executor
	// consults this to decide, under project_input=false, which action
	// results get written back into the returned block by name.
	IsUsedInResult bool
}

// Program is the linearizer's output: an ordered Actions list plus the
// bookkeeping pkg/exec and pkg/chain need without re-walking the DAG.
type Program struct {
	Actions         []Action
	RequiredColumns []string
	NumSlots        int
	OutputNames     []string
	OutputSlots     []int
	OutputTypes     []types.LType

	// MaxLiveSlots is the high-water mark of concurrently occupied slots
	// reached while linearizing, enforced here against
	// Limits.MaxTemporaryColumns per §7's TOO_MANY_TEMPORARY_COLUMNS
	// check, a static property of the plan. MaxLiveNonConstSlots is the
	// same statistic computed over non-constant nodes; it is diagnostic
	// only here — §4.C/§7's TOO_MANY_TEMPORARY_NON_CONST_COLUMNS check is
	// a runtime property of what a specific Execute call's columns
	// actually are (an Input node that is structurally non-const may
	// still be fed a constant column at execution time), so it is
	// enforced by pkg/exec against Limits, not here.
	MaxLiveSlots         int
	MaxLiveNonConstSlots int

	// Limits is carried from Linearize's caller so pkg/exec can enforce
	// TOO_MANY_TEMPORARY_NON_CONST_COLUMNS without threading a second
	// argument through every Execute call.
	Limits Limits
}

// Limits bounds the temporary-column checks, mirroring
// pkg/settings.Settings so the linearizer does not need to import the
// settings package directly. MaxTemporaryColumns is checked by Linearize;
// MaxTemporaryNonConstColumns is checked by pkg/exec at execution time.
type Limits struct {
	MaxTemporaryColumns         int
	MaxTemporaryNonConstColumns int
}

// Linearize walks dag backward from its outputs, builds a Kahn-style
// topological order using two ready queues — a main queue and an
// array-join deferral queue — always draining the main queue first so
// ARRAY_JOIN steps run as late as the dependency order allows (minimizing
// how many still-live sibling columns must be replicated across the
// cardinality change, per §4.C), and assigns slots from a free-slot stack
// so a finished action's output slot is recycled by the next action that
// needs one.
func Linearize(dag *actions.DAG, limits Limits) (*Program, error) {
	outputs := dag.Outputs()
	if len(outputs) == 0 {
		return nil, dagerr.New(dagerr.LogicalError, "cannot linearize a DAG with no outputs set")
	}

	index, order := indexNodes(outputs)
	numUses := countUses(outputs, index)
	pendingChildren := intmap.New[int, int](len(order))
	for _, n := range order {
		pendingChildren.Put(index[n], len(n.Children))
	}

	mainQ := deque.New[*actions.Node]()
	deferQ := deque.New[*actions.Node]()
	for _, n := range order {
		if len(n.Children) == 0 {
			enqueue(n, mainQ, deferQ)
		}
	}

	parentsOf := buildParents(order)
	remainingUses := intmap.New[int, int](len(order))
	for _, n := range order {
		remainingUses.Put(index[n], numUses[index[n]])
	}

	slotOf := intmap.New[int, int](len(order))
	freeStack := stack.New[int]()
	nextSlot := 0
	live := 0
	liveNonConst := 0

	p := &Program{}
	scheduled := map[int]bool{}

	for mainQ.Size() > 0 || deferQ.Size() > 0 {
		var n *actions.Node
		if mainQ.Size() > 0 {
			n = mainQ.PopFront()
		} else {
			n = deferQ.PopFront()
		}
		ni := index[n]
		if scheduled[ni] {
			continue
		}
		scheduled[ni] = true

		argSlots := make([]int, len(n.Children))
		removeFlags := make([]bool, len(n.Children))
		for ci, c := range n.Children {
			cIdx := index[c]
			s, _ := slotOf.Get(cIdx)
			argSlots[ci] = s
			rem, _ := remainingUses.Get(cIdx)
			rem--
			remainingUses.Put(cIdx, rem)
			if rem == 0 {
				removeFlags[ci] = true
			}
		}

		var resultSlot int
		if n.Kind == actions.Input {
			p.RequiredColumns = append(p.RequiredColumns, n.Name)
		}
		if freeStack.Size() > 0 {
			resultSlot = freeStack.Pop()
		} else {
			resultSlot = nextSlot
			nextSlot++
		}
		slotOf.Put(ni, resultSlot)

		live++
		if !n.IsConstant() {
			liveNonConst++
		}
		if live > p.MaxLiveSlots {
			p.MaxLiveSlots = live
		}
		if liveNonConst > p.MaxLiveNonConstSlots {
			p.MaxLiveNonConstSlots = liveNonConst
		}
		if limits.MaxTemporaryColumns > 0 && live > limits.MaxTemporaryColumns {
			return nil, dagerr.New(dagerr.TooManyTemporaryColumns, "linearized program needs %d live slots, limit is %d", live, limits.MaxTemporaryColumns)
		}

		for ci := range n.Children {
			if removeFlags[ci] {
				live--
				if !n.Children[ci].IsConstant() {
					liveNonConst--
				}
				freeStack.Push(argSlots[ci])
			}
		}

		p.Actions = append(p.Actions, Action{
			Node:             n,
			ArgSlots:         argSlots,
			RemoveInputSlots: removeFlags,
			ResultSlot:       resultSlot,
			IsUsedInResult:   isUsedInResult(dag, n),
		})

		for _, parent := range parentsOf[ni] {
			pIdx := index[parent]
			pc, _ := pendingChildren.Get(pIdx)
			pc--
			pendingChildren.Put(pIdx, pc)
			if pc == 0 {
				enqueue(parent, mainQ, deferQ)
			}
		}
	}

	p.NumSlots = nextSlot
	p.Limits = limits
	for _, out := range outputs {
		s, _ := slotOf.Get(index[out])
		p.OutputNames = append(p.OutputNames, out.Name)
		p.OutputSlots = append(p.OutputSlots, s)
		p.OutputTypes = append(p.OutputTypes, out.ResultType)
	}
	return p, nil
}

// isUsedInResult evaluates §3's used-in-result predicate: n is live in dag
// (it is still the node dag resolves n.Name to, i.e. RenamingParent ==
// nil) rather than a displaced node retained only as lineage for some
// other live node's child, and it is one of dag's outputs. Only outputs
// keep their slot to the end of the program; every other node's slot may
// be freed and reused after its last consumer.
func isUsedInResult(dag *actions.DAG, n *actions.Node) bool {
	cur, ok := dag.Node(n.Name)
	if !ok || cur != n {
		return false
	}
	for _, out := range dag.Outputs() {
		if out == n {
			return true
		}
	}
	return false
}

func enqueue(n *actions.Node, mainQ, deferQ *deque.Deque[*actions.Node]) {
	if n.Kind == actions.ArrayJoin {
		deferQ.PushBack(n)
	} else {
		mainQ.PushBack(n)
	}
}

// indexNodes assigns every reachable node a dense integer id (for
// intmap-keyed counters) and returns the set in DFS pre-order
// (order of first visit, not required to be topological
// itself — Linearize re-derives the real order via Kahn).
func indexNodes(outputs []*actions.Node) (map[*actions.Node]int, []*actions.Node) {
	index := map[*actions.Node]int{}
	var order []*actions.Node
	var visit func(n *actions.Node)
	visit = func(n *actions.Node) {
		if _, ok := index[n]; ok {
			return
		}
		index[n] = len(order)
		order = append(order, n)
		for _, c := range n.Children {
			visit(c)
		}
	}
	for _, n := range outputs {
		visit(n)
	}
	return index, order
}

// countUses returns, for each node's index, how many references to it
// exist: once per appearance in the DAG's outputs plus once per child
// position that names it (a parent listing it twice counts twice). A node
// whose use count reaches zero during linearization has its slot freed.
func countUses(outputs []*actions.Node, index map[*actions.Node]int) map[int]int {
	uses := map[int]int{}
	for _, out := range outputs {
		uses[index[out]]++
	}
	for n := range index {
		for _, c := range n.Children {
			uses[index[c]]++
		}
	}
	return uses
}

func buildParents(order []*actions.Node) map[int][]*actions.Node {
	index := map[*actions.Node]int{}
	for i, n := range order {
		index[n] = i
	}
	parents := map[int][]*actions.Node{}
	for _, n := range order {
		for _, c := range n.Children {
			parents[index[c]] = append(parents[index[c]], n)
		}
	}
	return parents
}
