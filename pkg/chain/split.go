package chain

import (
	"github.com/ArtCorp/exprdag/pkg/actions"
	"github.com/ArtCorp/exprdag/pkg/dagerr"
)

// SplitBeforeArrayJoin implements §4.D's split-before-array-join
// algorithm: every node that is itself an ARRAY_JOIN, or transitively
// depends on one, moves into suffix; everything else stays in prefix.
// Each ARRAY_JOIN node becomes a plain INPUT placeholder of the same
// name/type in suffix (its row-expanded value is supplied at runtime by
// the chain's ArrayJoinStep), and prefix is made to output the list
// columns those ARRAY_JOIN nodes consume plus any "before" column an
// "after" node still needs directly, so nothing is lost across the
// boundary. If dag contains no ARRAY_JOIN node at all, it is returned
// unchanged as prefix with suffix nil.
func SplitBeforeArrayJoin(dag *actions.DAG) (prefix, suffix *actions.DAG, arrayJoinNames []string, err error) {
	var joins []*actions.Node
	for _, n := range dag.Nodes() {
		if n.Kind == actions.ArrayJoin {
			joins = append(joins, n)
		}
	}
	if len(joins) == 0 {
		return dag, nil, nil, nil
	}

	after := map[string]bool{}
	memo := map[string]bool{}
	var isAfter func(n *actions.Node) bool
	isAfter = func(n *actions.Node) bool {
		if v, ok := memo[n.Name]; ok {
			return v
		}
		memo[n.Name] = false
		result := n.Kind == actions.ArrayJoin
		if !result {
			for _, c := range n.Children {
				if isAfter(c) {
					result = true
					break
				}
			}
		}
		memo[n.Name] = result
		return result
	}
	for _, n := range dag.Nodes() {
		after[n.Name] = isAfter(n)
	}

	prefix = actions.NewDAG()
	suffix = actions.NewDAG()
	for _, n := range dag.Nodes() {
		if !after[n.Name] {
			if err := prefix.AdoptNode(n); err != nil {
				return nil, nil, nil, err
			}
		}
	}

	passthroughNeeded := map[string]bool{}
	suffixBuilt := map[string]*actions.Node{}
	var buildSuffix func(n *actions.Node) (*actions.Node, error)
	buildSuffix = func(n *actions.Node) (*actions.Node, error) {
		if sn, ok := suffixBuilt[n.Name]; ok {
			return sn, nil
		}
		if !after[n.Name] {
			if sn, ok := suffix.Node(n.Name); ok {
				suffixBuilt[n.Name] = sn
				return sn, nil
			}
			sn, err := suffix.AddInput(n.Name, n.ResultType)
			if err != nil {
				return nil, err
			}
			passthroughNeeded[n.Name] = true
			suffixBuilt[n.Name] = sn
			return sn, nil
		}
		if n.Kind == actions.ArrayJoin {
			sn, err := suffix.AddInput(n.Name, n.ResultType)
			if err != nil {
				return nil, err
			}
			arrayJoinNames = append(arrayJoinNames, n.Name)
			suffixBuilt[n.Name] = sn
			return sn, nil
		}
		children := make([]*actions.Node, len(n.Children))
		for i, c := range n.Children {
			cn, err := buildSuffix(c)
			if err != nil {
				return nil, err
			}
			children[i] = cn
		}
		// Deep-copy n (including its constant Column, if any), then rewire
		// Children onto the suffix-side nodes already built above.
		dup := n.Clone()
		dup.Children = children
		if err := suffix.AdoptNode(dup); err != nil {
			return nil, err
		}
		suffixBuilt[n.Name] = dup
		return dup, nil
	}

	for _, n := range dag.Nodes() {
		if after[n.Name] {
			if _, err := buildSuffix(n); err != nil {
				return nil, nil, nil, err
			}
		}
	}

	prefixOutputs := map[string]bool{}
	for _, n := range joins {
		prefixOutputs[n.Children[0].Name] = true
	}
	for name := range passthroughNeeded {
		prefixOutputs[name] = true
	}
	var suffixOutputs []string
	for _, name := range dag.OutputNames() {
		if after[name] {
			suffixOutputs = append(suffixOutputs, name)
		} else {
			prefixOutputs[name] = true
		}
	}

	if err := prefix.SetOutputs(setToSlice(prefixOutputs)); err != nil {
		return nil, nil, nil, err
	}
	if len(suffixOutputs) > 0 {
		if err := suffix.SetOutputs(suffixOutputs); err != nil {
			return nil, nil, nil, err
		}
	}
	if len(suffixOutputs) == 0 {
		return nil, nil, nil, dagerr.New(dagerr.LogicalError, "split before array join: no output depends on the array join")
	}
	return prefix, suffix, arrayJoinNames, nil
}
