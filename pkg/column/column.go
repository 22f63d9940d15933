// Package column implements the "column primitives" collaborator named in
// the core's design: immutable columnar value arrays supporting size,
// cloneResized, replicate, convertToFullColumnIfConst and a constant-column
// predicate. Grounded on the teacher's chunk.Vector (PF_FLAT/PF_CONST
// physical formats, *util.Bitmap null mask) but expressed with plain typed
// Go slices instead of unsafe byte buffers, and extended with a List
// column needed for ARRAY_JOIN.
package column

import (
	"fmt"

	"github.com/ArtCorp/exprdag/pkg/types"
	"github.com/ArtCorp/exprdag/pkg/util"
)

// Offsets is a cumulative per-row output-length array: Offsets[i] is the
// total output length contributed by input rows [0, i]. Replicate and
// list-column flattening both consume this shape (GLOSSARY: Replicate).
type Offsets []uint64

// Len is the total output row count described by o.
func (o Offsets) Len() uint64 {
	if len(o) == 0 {
		return 0
	}
	return o[len(o)-1]
}

// CountAt returns how many times input row i is replicated.
func (o Offsets) CountAt(i int) uint64 {
	if i == 0 {
		return o[0]
	}
	return o[i] - o[i-1]
}

// Column is the minimal interface the execution core needs from a
// columnar value array. Concrete columns are immutable once built; every
// mutating-looking method returns a new Column.
type Column interface {
	Type() types.LType
	Size() int
	IsConst() bool
	CloneResized(n int) Column
	Replicate(offsets Offsets) Column
	ConvertToFullColumnIfConst() Column
	// GetValue is a slow, boxed accessor used by dump/debug/tests.
	GetValue(i int) Value
}

// Value is a boxed scalar, used for GetValue/const construction and by the
// function registry's dry-run constant-folding probe.
type Value struct {
	Typ    types.LType
	IsNull bool

	I64 int64
	F64 float64
	Str string
	B   bool
	Dec types.Decimal
	// List holds the per-row element values when Typ.IsList().
	List []Value
}

func NewNull(t types.LType) Value { return Value{Typ: t, IsNull: true} }

// ConstFromValue builds a Const column of size rows holding v, the shape
// the DAG builder's constant-folding contract (§4.A) needs: a folded
// function is evaluated once into a single Value, then has to be
// broadcastable to however many rows a later CloneResized asks for
// without re-running the function.
func ConstFromValue(v Value, size int) Column {
	switch v.Typ.GetInternalType() {
	case types.PhyBool:
		return NewConst(v.Typ, v.B, v.IsNull, size)
	case types.PhyInt8, types.PhyInt16, types.PhyInt32, types.PhyInt64:
		return NewConst(v.Typ, v.I64, v.IsNull, size)
	case types.PhyFloat32, types.PhyFloat64:
		return NewConst(v.Typ, v.F64, v.IsNull, size)
	case types.PhyDecimal:
		return NewConst(v.Typ, v.Dec, v.IsNull, size)
	default:
		return NewConst(v.Typ, v.Str, v.IsNull, size)
	}
}

func (v Value) String() string {
	if v.IsNull {
		return "NULL"
	}
	switch v.Typ.GetInternalType() {
	case types.PhyBool:
		return fmt.Sprintf("%v", v.B)
	case types.PhyInt8, types.PhyInt16, types.PhyInt32, types.PhyInt64:
		return fmt.Sprintf("%d", v.I64)
	case types.PhyFloat32, types.PhyFloat64:
		return fmt.Sprintf("%v", v.F64)
	case types.PhyDecimal:
		return v.Dec.String()
	case types.PhyVarchar:
		return v.Str
	case types.PhyList:
		return fmt.Sprintf("%v", v.List)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Bitmap is re-exported for column implementations; grounded on
// util.Bitmap (teacher's null-mask primitive).
type Bitmap = util.Bitmap
