// Package exec is the executor (§4.C / Component C): it walks a linearized
// program's slot array once per block, dispatching each action by kind and
// handling the cardinality change an ARRAY_JOIN step introduces. Grounded
// on the teacher's compute.ExprExec, which walks a compiled expression
// tree's node list and writes results into *chunk.Vector slots — the slot
// array here is the same idea applied to program.Program's flat action
// list instead of a recursive tree walk.
package exec

import (
	"github.com/ArtCorp/exprdag/pkg/actions"
	"github.com/ArtCorp/exprdag/pkg/column"
	"github.com/ArtCorp/exprdag/pkg/dagerr"
	"github.com/ArtCorp/exprdag/pkg/program"
	"github.com/ArtCorp/exprdag/pkg/types"
	"github.com/ArtCorp/exprdag/pkg/util"
	"github.com/ArtCorp/exprdag/pkg/xlog"
	"go.uber.org/zap"
)

// Block is a named set of input columns, the unit execute() consumes and
// produces (GLOSSARY: Block).
type Block map[string]column.Column

// Executor runs a program.Program against successive blocks. It holds no
// per-run state itself beyond the reusable slot array, so one Executor can
// be reused across blocks sharing the same Program.
type Executor struct {
	slots []column.Column
}

// NewExecutor allocates a slot array sized for p.
func NewExecutor(p *program.Program) *Executor {
	return &Executor{slots: make([]column.Column, p.NumSlots)}
}

// Execute runs p against input, producing numRows-row inputs, and returns a
// block built per §4.C step 4: when projectInput is true, the result
// contains exactly p.OutputNames (sample_block semantics — every other
// input column is dropped); when false, every column of input not fully
// consumed as a moved-out Input survives untouched, and every action
// flagged IsUsedInResult additionally writes its computed value into the
// block by name, overwriting any same-named survivor. A panic raised by a
// function's Execute (an invariant violation, not a data error) is
// recovered at this boundary and turned into a LOGICAL_ERROR, mirroring the
// teacher's util.AssertFunc style escalated to a place the caller can
// actually handle.
func (e *Executor) Execute(p *program.Program, input Block, numRows int, projectInput bool) (result Block, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = dagerr.New(dagerr.LogicalError, "panic during execute: %v", r)
		}
	}()

	xlog.Debug("execute", zap.Int("num_actions", len(p.Actions)), zap.Int("num_rows", numRows))
	util.AssertFunc(len(e.slots) >= p.NumSlots)
	for i := range e.slots {
		e.slots[i] = nil
	}
	slotOwner := make([]*actions.Node, len(e.slots))
	curRows := numRows
	movedOutInputs := map[string]bool{}

	for _, a := range p.Actions {
		node := a.Node
		var result column.Column
		var err error

		switch node.Kind {
		case actions.Input:
			col, ok := input[node.Name]
			if !ok {
				return nil, dagerr.New(dagerr.LogicalError, "executing %s: input column %q not supplied", node, node.Name)
			}
			result = col
			movedOutInputs[node.Name] = true

		case actions.ColumnConst:
			if node.Column == nil {
				return nil, dagerr.New(dagerr.LogicalError, "executing %s: COLUMN node has no materialized value", node)
			}
			result = node.Column.CloneResized(curRows)

		case actions.Alias:
			result = e.slots[a.ArgSlots[0]]

		case actions.Function:
			result, err = e.execFunction(node, a, curRows)
			if err != nil {
				return nil, dagerr.New(dagerr.LogicalError, "executing %s: %v", node, err)
			}

		case actions.ArrayJoin:
			newRows, newResult, err := e.execArrayJoin(node, a, curRows)
			if err != nil {
				return nil, dagerr.New(dagerr.LogicalError, "executing %s: %v", node, err)
			}
			curRows = newRows
			result = newResult

		default:
			return nil, dagerr.New(dagerr.LogicalError, "executing %s: unknown action kind", node)
		}

		e.slots[a.ResultSlot] = result
		slotOwner[a.ResultSlot] = node
		for i, remove := range a.RemoveInputSlots {
			if remove {
				e.slots[a.ArgSlots[i]] = nil
				slotOwner[a.ArgSlots[i]] = nil
			}
		}

		if limit := p.Limits.MaxTemporaryNonConstColumns; limit > 0 {
			if offending := nonConstPopulatedSlots(e.slots, slotOwner, limit); offending != nil {
				return nil, dagerr.New(dagerr.TooManyTemporaryNonConst, "execution needs more than %d live non-const columns: %v", limit, offending)
			}
		}
	}

	if projectInput {
		out := make(Block, len(p.OutputNames))
		for i, name := range p.OutputNames {
			out[name] = e.slots[p.OutputSlots[i]]
		}
		return out, nil
	}

	out := make(Block, len(input)+len(p.Actions))
	for name, col := range input {
		if movedOutInputs[name] && !isSampleColumn(p, name) {
			continue
		}
		out[name] = col
	}
	for _, a := range p.Actions {
		if a.IsUsedInResult {
			out[a.Node.Name] = e.slots[a.ResultSlot]
		}
	}
	return out, nil
}

// isSampleColumn reports whether name is one of the program's declared
// outputs — the "modulo columns already present in B" exception §8 carves
// out of project_input=false's erase-moved-inputs rule, so a passthrough
// input that is also an output is not dropped just for having been moved
// into a slot.
func isSampleColumn(p *program.Program, name string) bool {
	for _, out := range p.OutputNames {
		if out == name {
			return true
		}
	}
	return false
}

// nonConstPopulatedSlots implements §4.C step 3's runtime
// TOO_MANY_TEMPORARY_NON_CONST_COLUMNS check: count currently populated
// slots holding a non-constant column, and if it exceeds limit, return the
// offending column names for the error message.
func nonConstPopulatedSlots(slots []column.Column, owner []*actions.Node, limit int) []string {
	var names []string
	for i, col := range slots {
		if col == nil || col.IsConst() {
			continue
		}
		name := "?"
		if owner[i] != nil {
			name = owner[i].Name
		}
		names = append(names, name)
	}
	if len(names) > limit {
		return names
	}
	return nil
}

func (e *Executor) execFunction(node *actions.Node, a program.Action, numRows int) (column.Column, error) {
	if node.IsConstant() {
		return node.Column.CloneResized(numRows), nil
	}
	args := make([]column.Column, len(a.ArgSlots))
	argTypes := make([]types.LType, len(a.ArgSlots))
	for i, s := range a.ArgSlots {
		args[i] = e.slots[s]
		argTypes[i] = args[i].Type()
	}
	prep, err := node.FunctionBase.Build(argTypes)
	if err != nil {
		return nil, err
	}
	return prep.Execute(args, node.ResultType, numRows, false)
}
