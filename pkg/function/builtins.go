package function

import (
	"fmt"

	"github.com/ArtCorp/exprdag/pkg/column"
	"github.com/ArtCorp/exprdag/pkg/types"
)

// NewDefaultRegistry wires the handful of functions exercised by the
// executable tests and the scenarios in spec.md §8: plus (int64/decimal),
// equals, upper, ignore, getTypeName, in/globalIn. Grounded on the
// teacher's binary.go/unary.go templated-operator pattern, flattened to
// plain loops since the column package is plain-slice rather than
// unsafe-buffer backed.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(plusInt64())
	r.Register(plusDecimal())
	r.Register(equalsInt64())
	r.Register(upperVarchar())
	r.Register(ignoreFn())
	r.Register(getTypeNameFn())
	r.Register(inInt64())
	r.Register(globalInInt64())
	return r
}

func plusInt64() *Set {
	o := &overload{
		name:          "plus",
		argTypes:      []types.LType{types.BigInt(), types.BigInt()},
		resultType:    types.BigInt(),
		deterministic: true,
		foldable:      true,
	}
	o.exec = func(args []column.Column, resultType types.LType, numRows int, dryRun bool) (column.Column, error) {
		l := args[0].ConvertToFullColumnIfConst()
		rr := args[1].ConvertToFullColumnIfConst()
		lf, ok1 := l.(*column.Flat[int64])
		rf, ok2 := rr.(*column.Flat[int64])
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("plus: expected int64 columns")
		}
		out := make([]int64, numRows)
		for i := 0; i < numRows; i++ {
			out[i] = lf.Values()[i%len(lf.Values())] + rf.Values()[i%len(rf.Values())]
		}
		return column.NewFlat(resultType, out, nil), nil
	}
	return NewSet("plus").Add(o)
}

func plusDecimal() *Set {
	o := &overload{
		name:          "plus",
		argTypes:      []types.LType{types.DecimalType(18, 2), types.DecimalType(18, 2)},
		resultType:    types.DecimalType(18, 2),
		deterministic: true,
		foldable:      true,
	}
	o.exec = func(args []column.Column, resultType types.LType, numRows int, dryRun bool) (column.Column, error) {
		l := args[0].ConvertToFullColumnIfConst()
		rr := args[1].ConvertToFullColumnIfConst()
		lf, ok1 := l.(*column.Flat[types.Decimal])
		rf, ok2 := rr.(*column.Flat[types.Decimal])
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("plus: expected decimal columns")
		}
		out := make([]types.Decimal, numRows)
		for i := 0; i < numRows; i++ {
			sum, err := lf.Values()[i%len(lf.Values())].Add(rf.Values()[i%len(rf.Values())])
			if err != nil {
				return nil, err
			}
			out[i] = sum
		}
		return column.NewFlat(resultType, out, nil), nil
	}
	return NewSet("plus").Add(o)
}

func equalsInt64() *Set {
	o := &overload{
		name:          "equals",
		argTypes:      []types.LType{types.BigInt(), types.BigInt()},
		resultType:    types.Boolean(),
		deterministic: true,
		foldable:      true,
	}
	o.exec = func(args []column.Column, resultType types.LType, numRows int, dryRun bool) (column.Column, error) {
		l := args[0].ConvertToFullColumnIfConst()
		rr := args[1].ConvertToFullColumnIfConst()
		lf, ok1 := l.(*column.Flat[int64])
		rf, ok2 := rr.(*column.Flat[int64])
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("equals: expected int64 columns")
		}
		out := make([]bool, numRows)
		for i := 0; i < numRows; i++ {
			out[i] = lf.Values()[i%len(lf.Values())] == rf.Values()[i%len(rf.Values())]
		}
		return column.NewFlat(resultType, out, nil), nil
	}
	return NewSet("equals").Add(o)
}

func upperVarchar() *Set {
	o := &overload{
		name:          "upper",
		argTypes:      []types.LType{types.Varchar()},
		resultType:    types.Varchar(),
		deterministic: true,
		foldable:      true,
	}
	o.exec = func(args []column.Column, resultType types.LType, numRows int, dryRun bool) (column.Column, error) {
		src := args[0].ConvertToFullColumnIfConst()
		sf, ok := src.(*column.Flat[string])
		if !ok {
			return nil, fmt.Errorf("upper: expected varchar column")
		}
		out := make([]string, numRows)
		for i := 0; i < numRows; i++ {
			out[i] = toUpperASCII(sf.Values()[i%len(sf.Values())])
		}
		return column.NewFlat(resultType, out, nil), nil
	}
	return NewSet("upper").Add(o)
}

func toUpperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

// ignoreFn models ClickHouse's `ignore(...)` builtin for a single BigInt
// argument: it always returns the constant 0, matching §4.A's "function
// is declared always returns a constant given these arguments" clause.
func ignoreFn() *Set {
	o := &overload{
		name:          "ignore",
		argTypes:      []types.LType{types.BigInt()},
		resultType:    types.TinyInt(),
		deterministic: true,
		foldable:      false,
		alwaysConst:   true,
	}
	o.exec = func(args []column.Column, resultType types.LType, numRows int, dryRun bool) (column.Column, error) {
		return column.NewConst[int64](resultType, 0, false, numRows), nil
	}
	return NewSet("ignore").Add(o)
}

// getTypeNameFn models `getTypeName(x)`: always constant, depends only on
// the static argument type, never on the argument's value.
func getTypeNameFn() *Set {
	o := &overload{
		name:          "getTypeName",
		argTypes:      []types.LType{types.BigInt()},
		resultType:    types.Varchar(),
		deterministic: true,
		foldable:      false,
		alwaysConst:   true,
	}
	o.exec = func(args []column.Column, resultType types.LType, numRows int, dryRun bool) (column.Column, error) {
		return column.NewConst(resultType, args[0].Type().String(), false, numRows), nil
	}
	return NewSet("getTypeName").Add(o)
}

// inInt64/globalInInt64 model the `in(k, set)`/`globalIn(k, set)` family
// used by checkColumnIsAlwaysFalse (§6): the second argument is expected
// to be a constant List column acting as the membership set.
func inInt64() *Set {
	return NewSet("in").Add(membershipOverload("in"))
}

func globalInInt64() *Set {
	return NewSet("globalIn").Add(membershipOverload("globalIn"))
}

func membershipOverload(name string) Base {
	o := &overload{
		name:          name,
		argTypes:      []types.LType{types.BigInt(), types.List(types.BigInt())},
		resultType:    types.Boolean(),
		deterministic: true,
		foldable:      true,
	}
	o.exec = func(args []column.Column, resultType types.LType, numRows int, dryRun bool) (column.Column, error) {
		key := args[0].ConvertToFullColumnIfConst()
		kf, ok := key.(*column.Flat[int64])
		if !ok {
			return nil, fmt.Errorf("%s: expected int64 key column", name)
		}
		set := membershipSet(args[1])
		out := make([]bool, numRows)
		for i := 0; i < numRows; i++ {
			_, out[i] = set[kf.Values()[i%len(kf.Values())]]
		}
		return column.NewFlat(resultType, out, nil), nil
	}
	return o
}

func membershipSet(c column.Column) map[int64]struct{} {
	lst, ok := c.(*column.List)
	set := map[int64]struct{}{}
	if !ok || lst.Size() == 0 {
		return set
	}
	start, end := lst.RowRange(0)
	child := lst.Child()
	for i := start; i < end; i++ {
		v := child.GetValue(i)
		if !v.IsNull {
			set[v.I64] = struct{}{}
		}
	}
	return set
}

// IsEmptySet reports whether c is a constant List column whose first row
// has zero elements — the "fully constructed, empty set" predicate
// checkColumnIsAlwaysFalse (§6) needs.
func IsEmptySet(c column.Column) bool {
	lst, ok := c.(*column.List)
	if !ok || lst.Size() == 0 {
		return false
	}
	start, end := lst.RowRange(0)
	return end == start
}
