package column

import (
	"github.com/ArtCorp/exprdag/pkg/types"
	"github.com/ArtCorp/exprdag/pkg/util"
)

// Flat is a fully-materialized column: one Go value per row, plus an
// optional null mask. T is constrained by what the registered functions
// know how to operate on (int64, float64, bool, string, types.Decimal).
type Flat[T any] struct {
	typ    types.LType
	values []T
	valid  *util.Bitmap
}

func NewFlat[T any](typ types.LType, values []T, valid *util.Bitmap) *Flat[T] {
	if valid == nil {
		valid = &util.Bitmap{}
	}
	return &Flat[T]{typ: typ, values: values, valid: valid}
}

func (c *Flat[T]) Type() types.LType { return c.typ }
func (c *Flat[T]) Size() int         { return len(c.values) }
func (c *Flat[T]) IsConst() bool     { return false }

func (c *Flat[T]) Values() []T        { return c.values }
func (c *Flat[T]) Valid() *util.Bitmap { return c.valid }

func (c *Flat[T]) CloneResized(n int) Column {
	vals := make([]T, n)
	copy(vals, c.values)
	nb := &util.Bitmap{}
	nb.CopyFrom(c.valid, min(n, len(c.values)))
	if n > len(c.values) {
		nb.Resize(len(c.values), n)
	}
	return NewFlat(c.typ, vals, nb)
}

func (c *Flat[T]) Replicate(offsets Offsets) Column {
	total := int(offsets.Len())
	vals := make([]T, total)
	nb := &util.Bitmap{}
	anyInvalid := !c.valid.AllValid()
	if anyInvalid {
		nb.Init(total)
	}
	out := 0
	for i := 0; i < len(c.values) && i < len(offsets); i++ {
		cnt := int(offsets.CountAt(i))
		v := c.values[i]
		rowValid := c.valid.RowIsValid(uint64(i))
		for k := 0; k < cnt; k++ {
			vals[out] = v
			if anyInvalid && !rowValid {
				nb.SetInvalidUnsafe(uint64(out))
			}
			out++
		}
	}
	return NewFlat(c.typ, vals, nb)
}

func (c *Flat[T]) ConvertToFullColumnIfConst() Column { return c }

func (c *Flat[T]) GetValue(i int) Value {
	if !c.valid.RowIsValid(uint64(i)) {
		return NewNull(c.typ)
	}
	return boxValue(c.typ, c.values[i])
}

func boxValue(typ types.LType, v any) Value {
	switch x := v.(type) {
	case int64:
		return Value{Typ: typ, I64: x}
	case int32:
		return Value{Typ: typ, I64: int64(x)}
	case float64:
		return Value{Typ: typ, F64: x}
	case float32:
		return Value{Typ: typ, F64: float64(x)}
	case bool:
		return Value{Typ: typ, B: x}
	case string:
		return Value{Typ: typ, Str: x}
	case types.Decimal:
		return Value{Typ: typ, Dec: x}
	default:
		return Value{Typ: typ}
	}
}
