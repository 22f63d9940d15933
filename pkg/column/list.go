package column

import (
	"github.com/ArtCorp/exprdag/pkg/types"
)

// List is an array-typed column: Offsets[i] gives the cumulative element
// count through row i (so row i's elements are Child[Offsets[i-1]:Offsets[i]]),
// matching the Offsets shape used by Replicate (GLOSSARY: Array join).
type List struct {
	typ     types.LType
	offsets Offsets
	child   Column
	valid   *Bitmap
}

func NewList(typ types.LType, offsets Offsets, child Column, valid *Bitmap) *List {
	if valid == nil {
		valid = &Bitmap{}
	}
	return &List{typ: typ, offsets: offsets, child: child, valid: valid}
}

func (c *List) Type() types.LType { return c.typ }
func (c *List) Size() int         { return len(c.offsets) }
func (c *List) IsConst() bool     { return false }
func (c *List) Child() Column     { return c.child }
func (c *List) Offsets() Offsets  { return c.offsets }

// RowRange returns the [start, end) slice of the flattened child column
// backing row i.
func (c *List) RowRange(i int) (int, int) {
	start := 0
	if i > 0 {
		start = int(c.offsets[i-1])
	}
	return start, int(c.offsets[i])
}

func (c *List) CloneResized(n int) Column {
	offs := make(Offsets, n)
	copy(offs, c.offsets)
	last := uint64(0)
	if len(c.offsets) > 0 {
		last = c.offsets[len(c.offsets)-1]
	}
	for i := len(c.offsets); i < n; i++ {
		offs[i] = last
	}
	return NewList(c.typ, offs, c.child, c.valid)
}

// Replicate expands each row's element slice as a whole, offsets.CountAt(i) times,
// per §4.C's "every other non-empty slot ... replace the column by its
// replicate(offsets)" obligation when a sibling column is itself an array.
func (c *List) Replicate(offsets Offsets) Column {
	newOffsets := make(Offsets, int(offsets.Len()))
	var newChildIdx []int
	out := 0
	cum := uint64(0)
	for i := 0; i < len(c.offsets) && i < len(offsets); i++ {
		start, end := c.RowRange(i)
		rep := int(offsets.CountAt(i))
		for k := 0; k < rep; k++ {
			cum += uint64(end - start)
			newOffsets[out] = cum
			for j := start; j < end; j++ {
				newChildIdx = append(newChildIdx, j)
			}
			out++
		}
	}
	return NewList(c.typ, newOffsets, gatherByIndex(c.child, newChildIdx), c.valid)
}

func (c *List) ConvertToFullColumnIfConst() Column { return c }

func (c *List) GetValue(i int) Value {
	if !c.valid.RowIsValid(uint64(i)) {
		return NewNull(c.typ)
	}
	start, end := c.RowRange(i)
	vals := make([]Value, 0, end-start)
	for j := start; j < end; j++ {
		vals = append(vals, c.child.GetValue(j))
	}
	return Value{Typ: c.typ, List: vals}
}

// gatherByIndex builds a new column containing c.GetValue(idx) for idx in
// indices, preserving c's physical kind where practical. Used only by
// List.Replicate, which needs an arbitrary-order re-projection of the
// child column rather than the append-only shape Offsets expresses.
func gatherByIndex(c Column, indices []int) Column {
	full := c.ConvertToFullColumnIfConst()
	switch fc := full.(type) {
	case *Flat[int64]:
		return gatherFlat(fc, indices)
	case *Flat[float64]:
		return gatherFlat(fc, indices)
	case *Flat[bool]:
		return gatherFlat(fc, indices)
	case *Flat[string]:
		return gatherFlat(fc, indices)
	case *Flat[types.Decimal]:
		return gatherFlat(fc, indices)
	case *List:
		offs := make(Offsets, len(indices))
		var childIdx []int
		cum := uint64(0)
		for i, idx := range indices {
			start, end := fc.RowRange(idx)
			cum += uint64(end - start)
			offs[i] = cum
			for j := start; j < end; j++ {
				childIdx = append(childIdx, j)
			}
		}
		return NewList(fc.typ, offs, gatherByIndex(fc.child, childIdx), fc.valid)
	default:
		vals := make([]Value, len(indices))
		for i, idx := range indices {
			vals[i] = c.GetValue(idx)
		}
		return valuesToColumn(c.Type(), vals)
	}
}

func gatherFlat[T any](fc *Flat[T], indices []int) Column {
	vals := make([]T, len(indices))
	for i, idx := range indices {
		vals[i] = fc.values[idx]
	}
	nb := &Bitmap{}
	if !fc.valid.AllValid() {
		nb.Init(len(indices))
		for i, idx := range indices {
			nb.Set(uint64(i), fc.valid.RowIsValid(uint64(idx)))
		}
	}
	return NewFlat(fc.typ, vals, nb)
}

// valuesToColumn is a slow fallback for element types not covered by
// gatherFlat's type switch (kept minimal; the registry's supported types
// are the ones exercised above).
func valuesToColumn(typ types.LType, vals []Value) Column {
	switch typ.GetInternalType() {
	case types.PhyInt32, types.PhyInt64, types.PhyInt16, types.PhyInt8:
		out := make([]int64, len(vals))
		nb := &Bitmap{}
		for i, v := range vals {
			if v.IsNull {
				if nb.AllValid() {
					nb.Init(len(vals))
				}
				nb.SetInvalid(uint64(i))
			}
			out[i] = v.I64
		}
		return NewFlat(typ, out, nb)
	default:
		out := make([]string, len(vals))
		for i, v := range vals {
			out[i] = v.String()
		}
		return NewFlat(typ, out, &Bitmap{})
	}
}
