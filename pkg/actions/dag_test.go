package actions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ArtCorp/exprdag/pkg/actions"
	"github.com/ArtCorp/exprdag/pkg/column"
	"github.com/ArtCorp/exprdag/pkg/function"
	"github.com/ArtCorp/exprdag/pkg/types"
)

func TestAddFunctionConstantFolding(t *testing.T) {
	reg := function.NewDefaultRegistry()
	d := actions.NewDAG()

	one, err := d.AddColumn("one", column.NewConst[int64](types.BigInt(), 1, false, 1))
	require.NoError(t, err)
	two, err := d.AddColumn("two", column.NewConst[int64](types.BigInt(), 2, false, 1))
	require.NoError(t, err)

	sum, err := d.AddFunction("", reg, "plus", []*actions.Node{one, two})
	require.NoError(t, err)
	require.Equal(t, "plus(one, two)", sum.Name)
	require.True(t, sum.IsConstant())
	require.Equal(t, "3", sum.Column.GetValue(0).String())
}

func TestAliasChainKeepsRenamingFlagAndType(t *testing.T) {
	d := actions.NewDAG()
	in, err := d.AddInput("x", types.BigInt())
	require.NoError(t, err)
	a1, err := d.AddAlias("y", in, false)
	require.NoError(t, err)
	a2, err := d.AddAlias("z", a1, false)
	require.NoError(t, err)
	require.True(t, a2.IsInputsRenaming)
	require.Equal(t, in.ResultType, a2.ResultType)
}

// §8 scenario 2: addInput("a"); addAlias("a","b",can_replace=false);
// addFunction(upper,["b"],"c") with required_names={"c"}. Pruning to {"c"}
// keeps "a", since it is reached through the alias "b".
func TestAliasSourceSurvivesPruningThroughAlias(t *testing.T) {
	reg := function.NewDefaultRegistry()
	d := actions.NewDAG()
	a, err := d.AddInput("a", types.Varchar())
	require.NoError(t, err)
	b, err := d.AddAlias("b", a, false)
	require.NoError(t, err)
	_, err = d.AddFunction("c", reg, "upper", []*actions.Node{b})
	require.NoError(t, err)
	require.NoError(t, d.SetOutputs([]string{"c"}))

	require.NoError(t, d.RemoveUnusedActions([]string{"c"}))
	_, hasA := d.Node("a")
	require.True(t, hasA, "a is still b's only child and must survive pruning")
}

// §4.A's addAlias(can_replace) is a caller-supplied argument, not a
// property inferred from the node being displaced: a second addAlias
// call for the same name must be rejected when the caller passes
// can_replace=false, even though the existing node is itself a renaming
// alias (which addFunction's own duplicate-name path would silently
// displace).
func TestAddAliasCanReplaceIsCallerControlled(t *testing.T) {
	d := actions.NewDAG()
	in, err := d.AddInput("x", types.BigInt())
	require.NoError(t, err)
	_, err = d.AddAlias("y", in, false)
	require.NoError(t, err)

	_, err = d.AddAlias("y", in, false)
	require.Error(t, err, "can_replace=false must reject even though the existing holder is a renaming alias")

	replaced, err := d.AddAlias("y", in, true)
	require.NoError(t, err)
	require.True(t, replaced.IsInputsRenaming)
}

// A node whose RenamingParent is set (invariant 6, "dead") must not
// survive pruning once nothing still reaches it as a child — even though
// it shares its Name with the live node that superseded it, which keying
// RemoveUnusedActions's keep-set on name alone would conflate.
func TestRemoveUnusedActionsDropsDisplacedAliasNotReferencedAsChild(t *testing.T) {
	d := actions.NewDAG()
	in, err := d.AddInput("x", types.BigInt())
	require.NoError(t, err)
	displaced, err := d.AddAlias("y", in, false)
	require.NoError(t, err)
	require.False(t, displaced.IsDead())

	replacement, err := d.AddAlias("y", in, true)
	require.NoError(t, err)
	require.True(t, displaced.IsDead())
	require.Equal(t, replacement, displaced.RenamingParent)

	require.NoError(t, d.SetOutputs([]string{"y"}))
	require.NoError(t, d.RemoveUnusedActions([]string{"y"}))

	for _, n := range d.Nodes() {
		require.NotSame(t, displaced, n, "the displaced, unreferenced node must not survive pruning")
	}
	live, ok := d.Node("y")
	require.True(t, ok)
	require.Same(t, replacement, live)
}

// When a live node is pruned away, any surviving node still pointing at
// it via RenamingParent must have that back-link cleared (§4.A's pruning
// rule), since the referenced parent no longer exists in the DAG.
func TestRemoveUnusedActionsClearsRenamingParentWhenTargetPruned(t *testing.T) {
	d := actions.NewDAG()
	in, err := d.AddInput("x", types.BigInt())
	require.NoError(t, err)
	displaced, err := d.AddAlias("y", in, false)
	require.NoError(t, err)
	_, err = d.AddAlias("y", in, true)
	require.NoError(t, err)
	require.NotNil(t, displaced.RenamingParent)

	// Require only a function that reads straight from the displaced
	// alias: the displaced node (and "x" beneath it) stays reachable while
	// the replacement alias does not, which exercises the survive-but-
	// orphaned path.
	reg := function.NewDefaultRegistry()
	_, err = d.AddFunction("keep_displaced_alive", reg, "ignore", []*actions.Node{displaced})
	require.NoError(t, err)
	require.NoError(t, d.SetOutputs([]string{"keep_displaced_alive"}))

	require.NoError(t, d.RemoveUnusedActions([]string{"keep_displaced_alive"}))

	_, hasReplacement := d.Node("y")
	require.False(t, hasReplacement, "the replacement alias is not reachable from the required set and must be pruned")
	require.Nil(t, displaced.RenamingParent, "back-link to a pruned parent must be cleared")
}

func TestAddInputDuplicateNameRejected(t *testing.T) {
	d := actions.NewDAG()
	_, err := d.AddInput("x", types.BigInt())
	require.NoError(t, err)
	_, err = d.AddInput("x", types.BigInt())
	require.Error(t, err)
}

func TestAddArrayJoinRequiresList(t *testing.T) {
	d := actions.NewDAG()
	in, err := d.AddInput("x", types.BigInt())
	require.NoError(t, err)
	_, err = d.AddArrayJoin("arr_x", in)
	require.Error(t, err)

	listIn, err := d.AddInput("arr", types.List(types.BigInt()))
	require.NoError(t, err)
	aj, err := d.AddArrayJoin("arr_join", listIn)
	require.NoError(t, err)
	require.True(t, aj.ResultType.Equal(types.BigInt()))
}

func TestRemoveUnusedActionsPrunesDeadNodes(t *testing.T) {
	reg := function.NewDefaultRegistry()
	d := actions.NewDAG()
	one, _ := d.AddColumn("one", column.NewConst[int64](types.BigInt(), 1, false, 1))
	two, _ := d.AddColumn("two", column.NewConst[int64](types.BigInt(), 2, false, 1))
	_, err := d.AddFunction("unused_sum", reg, "plus", []*actions.Node{one, two})
	require.NoError(t, err)
	require.NoError(t, d.SetOutputs([]string{"one"}))

	require.NoError(t, d.RemoveUnusedActions([]string{"one"}))

	_, hasOne := d.Node("one")
	_, hasTwo := d.Node("two")
	_, hasSum := d.Node("unused_sum")
	require.True(t, hasOne)
	require.False(t, hasTwo)
	require.False(t, hasSum)
}

func TestCheckColumnIsAlwaysFalseForEmptySet(t *testing.T) {
	reg := function.NewDefaultRegistry()
	d := actions.NewDAG()
	key, _ := d.AddInput("k", types.BigInt())
	emptySet, err := d.AddColumn("empty_set", column.NewList(types.List(types.BigInt()), column.Offsets{0}, column.NewFlat[int64](types.BigInt(), nil, nil), nil))
	require.NoError(t, err)

	in, err := d.AddFunction("", reg, "in", []*actions.Node{key, emptySet})
	require.NoError(t, err)
	require.True(t, d.CheckColumnIsAlwaysFalse(in.Name))
}

func TestAlwaysConstantFunctionFoldsOverNonConstantArgument(t *testing.T) {
	reg := function.NewDefaultRegistry()
	d := actions.NewDAG()
	x, err := d.AddInput("x", types.BigInt())
	require.NoError(t, err)

	ign, err := d.AddFunction("", reg, "ignore", []*actions.Node{x})
	require.NoError(t, err)
	require.NotNil(t, ign.Column)
	require.False(t, ign.AllowConstantFolding, "an always-constant function of a non-constant argument must still be recomputed per block")

	typeName, err := d.AddFunction("", reg, "getTypeName", []*actions.Node{x})
	require.NoError(t, err)
	require.Equal(t, "BigInt", typeName.Column.GetValue(0).String())
}

func TestNodeCloneIsIndependentOfOriginal(t *testing.T) {
	reg := function.NewDefaultRegistry()
	d := actions.NewDAG()
	one, _ := d.AddColumn("one", column.NewConst[int64](types.BigInt(), 1, false, 1))
	two, _ := d.AddColumn("two", column.NewConst[int64](types.BigInt(), 2, false, 1))
	sum, err := d.AddFunction("", reg, "plus", []*actions.Node{one, two})
	require.NoError(t, err)

	dup := sum.Clone()
	require.Equal(t, sum.Name, dup.Name)
	require.Equal(t, "3", dup.Column.GetValue(0).String())

	dup.Name = "renamed"
	require.Equal(t, "plus(one, two)", sum.Name, "cloning must not mutate the original node")
}

func TestActionHashEqualForStructurallyIdenticalNodes(t *testing.T) {
	reg := function.NewDefaultRegistry()
	build := func() *actions.Node {
		d := actions.NewDAG()
		one, _ := d.AddColumn("one", column.NewConst[int64](types.BigInt(), 1, false, 1))
		two, _ := d.AddColumn("two", column.NewConst[int64](types.BigInt(), 2, false, 1))
		n, _ := d.AddFunction("", reg, "plus", []*actions.Node{one, two})
		return n
	}
	a := build()
	b := build()
	require.True(t, actions.Equal(a, b))
	require.Equal(t, actions.Hash(a), actions.Hash(b))
}
