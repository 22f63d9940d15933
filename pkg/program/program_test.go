package program_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ArtCorp/exprdag/pkg/actions"
	"github.com/ArtCorp/exprdag/pkg/column"
	"github.com/ArtCorp/exprdag/pkg/function"
	"github.com/ArtCorp/exprdag/pkg/program"
	"github.com/ArtCorp/exprdag/pkg/types"
)

func buildAddDAG(t *testing.T) *actions.DAG {
	reg := function.NewDefaultRegistry()
	d := actions.NewDAG()
	x, err := d.AddInput("x", types.BigInt())
	require.NoError(t, err)
	y, err := d.AddInput("y", types.BigInt())
	require.NoError(t, err)
	sum, err := d.AddFunction("sum", reg, "plus", []*actions.Node{x, y})
	require.NoError(t, err)
	_ = sum
	require.NoError(t, d.SetOutputs([]string{"sum"}))
	return d
}

func TestLinearizeOrdersInputsBeforeFunction(t *testing.T) {
	d := buildAddDAG(t)
	p, err := program.Linearize(d, program.Limits{})
	require.NoError(t, err)
	require.Len(t, p.Actions, 3)
	require.Equal(t, actions.Function, p.Actions[2].Node.Kind)
	require.ElementsMatch(t, []string{"x", "y"}, p.RequiredColumns)
	require.Equal(t, []string{"sum"}, p.OutputNames)
}

func TestLinearizeDefersArrayJoin(t *testing.T) {
	d := actions.NewDAG()
	arr, err := d.AddInput("arr", types.List(types.BigInt()))
	require.NoError(t, err)
	other, err := d.AddInput("other", types.BigInt())
	require.NoError(t, err)
	aj, err := d.AddArrayJoin("joined", arr)
	require.NoError(t, err)
	require.NoError(t, d.SetOutputs([]string{"joined", "other"}))
	_ = other

	p, err := program.Linearize(d, program.Limits{})
	require.NoError(t, err)

	var ajPos, otherPos int
	for i, a := range p.Actions {
		if a.Node == aj {
			ajPos = i
		}
		if a.Node.Name == "other" {
			otherPos = i
		}
	}
	require.Less(t, otherPos, ajPos, "array join should be scheduled after independent ready actions")
}

func TestLinearizeRespectsMaxTemporaryColumns(t *testing.T) {
	d := buildAddDAG(t)
	_, err := program.Linearize(d, program.Limits{MaxTemporaryColumns: 1})
	require.Error(t, err)
}

// §6's exact EXPLAIN grammar: one COLUMN/ALIAS/FUNCTION/ARRAY JOIN line
// per action, INPUT omitted. Exercises every line kind, including the
// alias "(removing)" suffix for an argument freed after its last use.
func TestDumpActionsMatchesExplainGrammar(t *testing.T) {
	reg := function.NewDefaultRegistry()
	d := actions.NewDAG()
	arr, err := d.AddInput("arr", types.List(types.BigInt()))
	require.NoError(t, err)
	aj, err := d.AddArrayJoin("elem", arr)
	require.NoError(t, err)
	renamed, err := d.AddAlias("renamed_elem", aj, false)
	require.NoError(t, err)
	one, err := d.AddColumn("one", column.NewConst[int64](types.BigInt(), 1, false, 1))
	require.NoError(t, err)
	_, err = d.AddFunction("sum", reg, "plus", []*actions.Node{renamed, one})
	require.NoError(t, err)
	require.NoError(t, d.SetOutputs([]string{"sum"}))

	p, err := program.Linearize(d, program.Limits{})
	require.NoError(t, err)

	dump := p.DumpActions()
	require.Contains(t, dump, "ARRAY JOIN arr -> elem\n")
	require.Contains(t, dump, "ALIAS renamed_elem = elem (removing)\n")
	require.Contains(t, dump, "COLUMN one BigInt const\n")
	require.Contains(t, dump, "FUNCTION sum BigInt = plus(renamed_elem, one)\n")
	require.NotContains(t, dump, "INPUT", "INPUT actions have no documented EXPLAIN line and must be omitted")
}

// §6's dump format has no collapsed multi-hop alias syntax; a chain of
// pure renames must render as one ALIAS line per hop, not a single
// "ALIAS a -> b -> c" summary.
func TestDumpActionsRendersEachAliasHopSeparately(t *testing.T) {
	d := actions.NewDAG()
	x, err := d.AddInput("x", types.BigInt())
	require.NoError(t, err)
	y, err := d.AddAlias("y", x, false)
	require.NoError(t, err)
	_, err = d.AddAlias("z", y, false)
	require.NoError(t, err)
	require.NoError(t, d.SetOutputs([]string{"z"}))

	p, err := program.Linearize(d, program.Limits{})
	require.NoError(t, err)

	dump := p.DumpActions()
	require.Contains(t, dump, "ALIAS y = x")
	require.Contains(t, dump, "ALIAS z = y")
}
