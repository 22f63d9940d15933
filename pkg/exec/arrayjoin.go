package exec

import (
	"fmt"

	"github.com/ArtCorp/exprdag/pkg/actions"
	"github.com/ArtCorp/exprdag/pkg/column"
	"github.com/ArtCorp/exprdag/pkg/program"
)

// execArrayJoin flattens node's LIST-typed argument and replicates every
// other currently-live slot to match the new, larger row count, per
// §4.C's "array join changes the number of rows; every other live column
// must be replicated in lock-step" contract. An array on an empty row
// produces zero output rows for that row, per §9's resolved Open Question
// (no error on an empty array).
func (e *Executor) execArrayJoin(node *actions.Node, a program.Action, oldRows int) (int, column.Column, error) {
	src := e.slots[a.ArgSlots[0]].ConvertToFullColumnIfConst()
	lst, ok := src.(*column.List)
	if !ok {
		return 0, nil, fmt.Errorf("array join argument is not a LIST column (got %T)", src)
	}

	offsets := lst.Offsets()
	newRows := int(offsets.Len())

	for i, c := range e.slots {
		if i == a.ResultSlot || c == nil {
			continue
		}
		if c.Size() != oldRows {
			continue
		}
		e.slots[i] = c.Replicate(offsets)
	}

	return newRows, lst.Child(), nil
}
