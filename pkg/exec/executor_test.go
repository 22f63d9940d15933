package exec_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ArtCorp/exprdag/pkg/actions"
	"github.com/ArtCorp/exprdag/pkg/column"
	"github.com/ArtCorp/exprdag/pkg/exec"
	"github.com/ArtCorp/exprdag/pkg/function"
	"github.com/ArtCorp/exprdag/pkg/program"
	"github.com/ArtCorp/exprdag/pkg/types"
)

func TestExecutePlusOverInputs(t *testing.T) {
	reg := function.NewDefaultRegistry()
	d := actions.NewDAG()
	x, err := d.AddInput("x", types.BigInt())
	require.NoError(t, err)
	y, err := d.AddInput("y", types.BigInt())
	require.NoError(t, err)
	_, err = d.AddFunction("sum", reg, "plus", []*actions.Node{x, y})
	require.NoError(t, err)
	require.NoError(t, d.SetOutputs([]string{"sum"}))

	p, err := program.Linearize(d, program.Limits{})
	require.NoError(t, err)

	in := exec.Block{
		"x": column.NewFlat[int64](types.BigInt(), []int64{1, 2, 3}, nil),
		"y": column.NewFlat[int64](types.BigInt(), []int64{10, 20, 30}, nil),
	}
	out, err := exec.NewExecutor(p).Execute(p, in, 3, true)
	require.NoError(t, err)
	sum := out["sum"].(*column.Flat[int64])
	require.Equal(t, []int64{11, 22, 33}, sum.Values())
}

func TestExecuteArrayJoinReplicatesSiblingColumns(t *testing.T) {
	d := actions.NewDAG()
	arr, err := d.AddInput("arr", types.List(types.BigInt()))
	require.NoError(t, err)
	_, err = d.AddInput("id", types.BigInt())
	require.NoError(t, err)
	aj, err := d.AddArrayJoin("elem", arr)
	require.NoError(t, err)
	_ = aj
	require.NoError(t, d.SetOutputs([]string{"elem", "id"}))

	p, err := program.Linearize(d, program.Limits{})
	require.NoError(t, err)

	// row0: [1,2], row1: [], row2: [3]
	offsets := column.Offsets{2, 2, 3}
	child := column.NewFlat[int64](types.BigInt(), []int64{1, 2, 3}, nil)
	in := exec.Block{
		"arr": column.NewList(types.List(types.BigInt()), offsets, child, nil),
		"id":  column.NewFlat[int64](types.BigInt(), []int64{100, 200, 300}, nil),
	}

	out, err := exec.NewExecutor(p).Execute(p, in, 3, true)
	require.NoError(t, err)

	elem := out["elem"].(*column.Flat[int64])
	require.Equal(t, []int64{1, 2, 3}, elem.Values())

	id2 := out["id"].(*column.Flat[int64])
	require.Equal(t, []int64{100, 100, 300}, id2.Values())
}

func TestExecuteReusesSlotAfterLastUse(t *testing.T) {
	reg := function.NewDefaultRegistry()
	d := actions.NewDAG()
	x, err := d.AddInput("x", types.BigInt())
	require.NoError(t, err)
	y, err := d.AddInput("y", types.BigInt())
	require.NoError(t, err)
	sum1, err := d.AddFunction("sum1", reg, "plus", []*actions.Node{x, y})
	require.NoError(t, err)
	_, err = d.AddFunction("sum2", reg, "plus", []*actions.Node{sum1, sum1})
	require.NoError(t, err)
	require.NoError(t, d.SetOutputs([]string{"sum2"}))

	p, err := program.Linearize(d, program.Limits{})
	require.NoError(t, err)
	require.Less(t, p.NumSlots, 4, "slot for x or y should be recycled once sum1 is computed")

	in := exec.Block{
		"x": column.NewFlat[int64](types.BigInt(), []int64{1}, nil),
		"y": column.NewFlat[int64](types.BigInt(), []int64{2}, nil),
	}
	out, err := exec.NewExecutor(p).Execute(p, in, 1, true)
	require.NoError(t, err)
	require.Equal(t, []int64{6}, out["sum2"].(*column.Flat[int64]).Values())
}

// §4.C step 4 / §8: under project_input=false, a column the program never
// touches at all ("z") survives untouched, a consumed-and-not-an-output
// input ("y") is erased, a consumed input that is *also* an output ("x")
// survives because it is already in the sample_block, and the computed
// result ("sum") is merged in by name.
func TestExecuteProjectInputFalseKeepsUntouchedAndSampleColumns(t *testing.T) {
	reg := function.NewDefaultRegistry()
	d := actions.NewDAG()
	x, err := d.AddInput("x", types.BigInt())
	require.NoError(t, err)
	y, err := d.AddInput("y", types.BigInt())
	require.NoError(t, err)
	_, err = d.AddFunction("sum", reg, "plus", []*actions.Node{x, y})
	require.NoError(t, err)
	require.NoError(t, d.SetOutputs([]string{"sum", "x"}))

	p, err := program.Linearize(d, program.Limits{})
	require.NoError(t, err)

	in := exec.Block{
		"x": column.NewFlat[int64](types.BigInt(), []int64{1, 2, 3}, nil),
		"y": column.NewFlat[int64](types.BigInt(), []int64{10, 20, 30}, nil),
		"z": column.NewFlat[int64](types.BigInt(), []int64{7, 8, 9}, nil),
	}
	out, err := exec.NewExecutor(p).Execute(p, in, 3, false)
	require.NoError(t, err)

	require.Equal(t, []int64{11, 22, 33}, out["sum"].(*column.Flat[int64]).Values())
	require.Equal(t, []int64{1, 2, 3}, out["x"].(*column.Flat[int64]).Values(), "x is also a declared output and must survive")
	require.Equal(t, []int64{7, 8, 9}, out["z"].(*column.Flat[int64]).Values(), "z was never touched by the program and must pass through")
	_, hasY := out["y"]
	require.False(t, hasY, "y was consumed as a moved-out input and is not a declared output")
}

// project_input=true keeps the current sample_block-only behavior: every
// extra caller-supplied column is dropped unconditionally.
func TestExecuteProjectInputTrueDropsExtraColumns(t *testing.T) {
	reg := function.NewDefaultRegistry()
	d := actions.NewDAG()
	x, err := d.AddInput("x", types.BigInt())
	require.NoError(t, err)
	y, err := d.AddInput("y", types.BigInt())
	require.NoError(t, err)
	_, err = d.AddFunction("sum", reg, "plus", []*actions.Node{x, y})
	require.NoError(t, err)
	require.NoError(t, d.SetOutputs([]string{"sum"}))

	p, err := program.Linearize(d, program.Limits{})
	require.NoError(t, err)

	in := exec.Block{
		"x": column.NewFlat[int64](types.BigInt(), []int64{1}, nil),
		"y": column.NewFlat[int64](types.BigInt(), []int64{2}, nil),
		"z": column.NewFlat[int64](types.BigInt(), []int64{9}, nil),
	}
	out, err := exec.NewExecutor(p).Execute(p, in, 1, true)
	require.NoError(t, err)
	require.Len(t, out, 1)
	_, hasZ := out["z"]
	require.False(t, hasZ)
}

// §4.C step 3 / §7: TOO_MANY_TEMPORARY_NON_CONST_COLUMNS is a runtime
// check over the actual columns a specific Execute call sees, not a
// static property of the DAG — Linearize must accept this program despite
// it peaking at two live non-const slots, and only Execute, fed two
// non-const columns, trips the budget.
func TestExecuteEnforcesRuntimeNonConstColumnBudget(t *testing.T) {
	reg := function.NewDefaultRegistry()
	d := actions.NewDAG()
	x, err := d.AddInput("x", types.BigInt())
	require.NoError(t, err)
	y, err := d.AddInput("y", types.BigInt())
	require.NoError(t, err)
	_, err = d.AddFunction("sum", reg, "plus", []*actions.Node{x, y})
	require.NoError(t, err)
	require.NoError(t, d.SetOutputs([]string{"sum"}))

	p, err := program.Linearize(d, program.Limits{MaxTemporaryNonConstColumns: 1})
	require.NoError(t, err, "the non-const budget is not enforced at plan time")

	in := exec.Block{
		"x": column.NewFlat[int64](types.BigInt(), []int64{1}, nil),
		"y": column.NewFlat[int64](types.BigInt(), []int64{2}, nil),
	}
	_, err = exec.NewExecutor(p).Execute(p, in, 1, true)
	require.Error(t, err)
	require.Contains(t, err.Error(), "x")
	require.Contains(t, err.Error(), "y")
}

// A caller that feeds a constant column for a structurally non-const
// Input node must not be charged against the non-const budget — the
// check reacts to the actual column, not to the DAG's static shape.
func TestExecuteRuntimeNonConstBudgetIgnoresActualConstInputs(t *testing.T) {
	reg := function.NewDefaultRegistry()
	d := actions.NewDAG()
	x, err := d.AddInput("x", types.BigInt())
	require.NoError(t, err)
	y, err := d.AddInput("y", types.BigInt())
	require.NoError(t, err)
	_, err = d.AddFunction("sum", reg, "plus", []*actions.Node{x, y})
	require.NoError(t, err)
	require.NoError(t, d.SetOutputs([]string{"sum"}))

	p, err := program.Linearize(d, program.Limits{MaxTemporaryNonConstColumns: 1})
	require.NoError(t, err)

	in := exec.Block{
		"x": column.NewConst[int64](types.BigInt(), 1, false, 1),
		"y": column.NewFlat[int64](types.BigInt(), []int64{2}, nil),
	}
	_, err = exec.NewExecutor(p).Execute(p, in, 1, true)
	require.NoError(t, err, "x is a const column at runtime and must not count toward the non-const budget")
}
