package cache_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ArtCorp/exprdag/pkg/actions"
	"github.com/ArtCorp/exprdag/pkg/cache"
	"github.com/ArtCorp/exprdag/pkg/function"
	"github.com/ArtCorp/exprdag/pkg/program"
	"github.com/ArtCorp/exprdag/pkg/types"
)

func buildSumDAG(t *testing.T) *actions.DAG {
	reg := function.NewDefaultRegistry()
	d := actions.NewDAG()
	x, err := d.AddInput("x", types.BigInt())
	require.NoError(t, err)
	y, err := d.AddInput("y", types.BigInt())
	require.NoError(t, err)
	_, err = d.AddFunction("sum", reg, "plus", []*actions.Node{x, y})
	require.NoError(t, err)
	require.NoError(t, d.SetOutputs([]string{"sum"}))
	return d
}

func TestKeyForIsStableAcrossStructurallyIdenticalDAGs(t *testing.T) {
	k1 := cache.KeyFor(buildSumDAG(t))
	k2 := cache.KeyFor(buildSumDAG(t))
	require.Equal(t, k1, k2)
}

func TestKeyForDiffersByOutputSet(t *testing.T) {
	d := buildSumDAG(t)
	k1 := cache.KeyFor(d)

	reg := function.NewDefaultRegistry()
	x, _ := d.Node("x")
	y, _ := d.Node("y")
	_, err := d.AddFunction("diff", reg, "plus", []*actions.Node{x, y})
	require.NoError(t, err)
	require.NoError(t, d.SetOutputs([]string{"sum", "diff"}))
	k2 := cache.KeyFor(d)

	require.NotEqual(t, k1, k2)
}

func TestInMemoryGetPutRoundTrip(t *testing.T) {
	d := buildSumDAG(t)
	k := cache.KeyFor(d)

	c := cache.NewInMemory()
	_, ok := c.Get(k)
	require.False(t, ok)

	p, err := program.Linearize(d, program.Limits{})
	require.NoError(t, err)
	c.Put(k, p)

	got, ok := c.Get(k)
	require.True(t, ok)
	require.Same(t, p, got)
}
