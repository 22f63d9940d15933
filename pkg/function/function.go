// Package function is the "function registry / overload resolver"
// collaborator named in the core's design (§1): given a name and argument
// types, it hands back a prepared function plus the metadata the DAG
// builder's constant-folding contract (§4.A) needs. Grounded on the
// teacher's FunctionV2/FunctionSet/FunctionBinder (pkg/plan/function-v2.go)
// but collapsed to the capability-set interface §9's Design Notes call
// for, rather than the teacher's concrete scalar/aggregate/table union.
package function

import (
	"fmt"

	"github.com/ArtCorp/exprdag/pkg/column"
	"github.com/ArtCorp/exprdag/pkg/types"
)

// Prepared is what a resolved overload exposes to the executor: the
// execute(args, result_type, num_rows, dry_run) -> column entry point
// named in §1.
type Prepared interface {
	Execute(args []column.Column, resultType types.LType, numRows int, dryRun bool) (column.Column, error)
}

// PreparedFunc adapts a plain function value to Prepared, mirroring the
// teacher's scalarFunc func(*Chunk, *ExprState, *Vector) typedef pattern.
type PreparedFunc func(args []column.Column, resultType types.LType, numRows int, dryRun bool) (column.Column, error)

func (f PreparedFunc) Execute(args []column.Column, resultType types.LType, numRows int, dryRun bool) (column.Column, error) {
	return f(args, resultType, numRows, dryRun)
}

// Base is the capability set §9's Design Notes require of any concrete
// function plugged into the resolver: build(argtypes)->prepared,
// isDeterministic, isSuitableForConstantFolding,
// getResultIfAlwaysReturnsConstantAndHasArguments, getName,
// getArgumentTypes.
type Base interface {
	Name() string
	ArgTypes() []types.LType
	ResultType(argTypes []types.LType) (types.LType, error)
	Build(argTypes []types.LType) (Prepared, error)
	IsDeterministic() bool
	IsSuitableForConstantFolding() bool
	// AlwaysConstant reports whether this overload, given argument count
	// n, always produces a constant regardless of its inputs (e.g.
	// ignore, getTypeName per §4.A's constant-folding contract). When
	// true, the DAG builder sets the node's column from a dry-run result
	// and clears allow_constant_folding on it.
	AlwaysConstant(nargs int) bool
}

// overload is the common scaffolding every Base implementation in this
// package shares; concrete functions embed it and only override what
// differs.
type overload struct {
	name          string
	argTypes      []types.LType
	resultType    types.LType
	deterministic bool
	foldable      bool
	alwaysConst   bool
	exec          PreparedFunc
}

func (o *overload) Name() string              { return o.name }
func (o *overload) ArgTypes() []types.LType    { return o.argTypes }
func (o *overload) IsDeterministic() bool      { return o.deterministic }
func (o *overload) IsSuitableForConstantFolding() bool { return o.foldable }
func (o *overload) AlwaysConstant(nargs int) bool      { return o.alwaysConst }

func (o *overload) ResultType(argTypes []types.LType) (types.LType, error) {
	return o.resultType, nil
}

func (o *overload) Build(argTypes []types.LType) (Prepared, error) {
	return o.exec, nil
}

func matchArgs(want, got []types.LType) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if !want[i].Equal(got[i]) {
			return false
		}
	}
	return true
}

// Set is an overload set for one function name, grounded on
// FunctionSet/FunctionBinder's name->overloads->best-match resolution.
type Set struct {
	name      string
	overloads []Base
}

func NewSet(name string) *Set { return &Set{name: name} }

func (s *Set) Add(b Base) *Set {
	s.overloads = append(s.overloads, b)
	return s
}

// Resolve finds the overload whose ArgTypes exactly match argTypes. The
// teacher's binder additionally does implicit-cast scoring; the core's
// contract (§1) only requires "given a name and argument types, a
// prepared function" — exact-match resolution is sufficient here and
// keeps overload selection deterministic for the equality/hash rule in
// §4.A.
func (s *Set) Resolve(argTypes []types.LType) (Base, error) {
	for _, o := range s.overloads {
		if matchArgs(o.ArgTypes(), argTypes) {
			return o, nil
		}
	}
	return nil, fmt.Errorf("function %s: no overload for argument types %v", s.name, argTypes)
}

// Registry is the name -> overload-set index the DAG builder resolves
// against.
type Registry struct {
	sets map[string]*Set
}

func NewRegistry() *Registry {
	return &Registry{sets: map[string]*Set{}}
}

func (r *Registry) Register(set *Set) { r.sets[set.name] = set }

func (r *Registry) Resolve(name string, argTypes []types.LType) (Base, error) {
	set, has := r.sets[name]
	if !has {
		return nil, fmt.Errorf("function %s: not registered", name)
	}
	return set.Resolve(argTypes)
}
