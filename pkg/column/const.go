package column

import (
	"github.com/ArtCorp/exprdag/pkg/types"
	"github.com/ArtCorp/exprdag/pkg/util"
)

// Const is a column that logically holds a single repeated value across
// size rows (GLOSSARY: Column (const)).
type Const[T any] struct {
	typ    types.LType
	value  T
	isNull bool
	size   int
}

func NewConst[T any](typ types.LType, value T, isNull bool, size int) *Const[T] {
	return &Const[T]{typ: typ, value: value, isNull: isNull, size: size}
}

func (c *Const[T]) Type() types.LType { return c.typ }
func (c *Const[T]) Size() int         { return c.size }
func (c *Const[T]) IsConst() bool     { return true }
func (c *Const[T]) Value() T          { return c.value }
func (c *Const[T]) IsNull() bool      { return c.isNull }

func (c *Const[T]) CloneResized(n int) Column {
	return NewConst(c.typ, c.value, c.isNull, n)
}

// Replicate keeps a constant column constant: replicating a single
// repeated value by any offsets still yields the same value repeated
// offsets.Len() times. ClickHouse's ColumnConst::replicate behaves the
// same way; only ARRAY_JOIN forces materialization (handled by the
// executor, which calls ConvertToFullColumnIfConst before replicating the
// array-join key itself per §4.C).
func (c *Const[T]) Replicate(offsets Offsets) Column {
	return NewConst(c.typ, c.value, c.isNull, int(offsets.Len()))
}

func (c *Const[T]) ConvertToFullColumnIfConst() Column {
	vals := make([]T, c.size)
	for i := range vals {
		vals[i] = c.value
	}
	nb := &util.Bitmap{}
	if c.isNull {
		nb.SetAllInvalid(c.size)
	}
	return NewFlat(c.typ, vals, nb)
}

func (c *Const[T]) GetValue(i int) Value {
	if c.isNull {
		return NewNull(c.typ)
	}
	return boxValue(c.typ, c.value)
}
