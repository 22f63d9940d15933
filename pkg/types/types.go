// Package types provides the value-type descriptors used across the
// expression execution core: the "type system" collaborator named in
// the core's design as external, implemented here so the core has a
// concrete counterpart to compile against.
package types

import "fmt"

// TypeID is the closed set of logical value types the core understands.
type TypeID int

const (
	InvalidID TypeID = iota
	NullID
	BooleanID
	TinyIntID
	SmallIntID
	IntegerID
	BigIntID
	FloatID
	DoubleID
	DecimalID
	VarcharID
	DateID
	IntervalID
	// ListID types carry an element type in LType.Child.
	ListID
)

var idNames = map[TypeID]string{
	InvalidID:  "Invalid",
	NullID:     "Null",
	BooleanID:  "Boolean",
	TinyIntID:  "TinyInt",
	SmallIntID: "SmallInt",
	IntegerID:  "Integer",
	BigIntID:   "BigInt",
	FloatID:    "Float",
	DoubleID:   "Double",
	DecimalID:  "Decimal",
	VarcharID:  "Varchar",
	DateID:     "Date",
	IntervalID: "Interval",
	ListID:     "List",
}

func (id TypeID) String() string {
	if s, has := idNames[id]; has {
		return s
	}
	panic(fmt.Sprintf("unsupported type id %d", int(id)))
}

// PhysicalType is the in-memory representation a column of a given LType
// is stored as. It is what the column primitives dispatch on.
type PhysicalType int

const (
	PhyInvalid PhysicalType = iota
	PhyBool
	PhyInt8
	PhyInt16
	PhyInt32
	PhyInt64
	PhyFloat32
	PhyFloat64
	PhyDecimal
	PhyVarchar
	PhyDate
	PhyInterval
	PhyList
)

// LType is a value-type descriptor: id, width/scale for DECIMAL, and an
// optional Child for nested (LIST) types. It is a plain comparable-by-value
// struct except for Child, which is compared by recursive Equal.
type LType struct {
	ID     TypeID
	Width  int
	Scale  int
	Child  *LType
	// Name only affects display, never equality.
	name string
}

func Invalid() LType  { return LType{ID: InvalidID} }
func Null() LType     { return LType{ID: NullID} }
func Boolean() LType  { return LType{ID: BooleanID} }
func TinyInt() LType  { return LType{ID: TinyIntID} }
func SmallInt() LType { return LType{ID: SmallIntID} }
func Integer() LType  { return LType{ID: IntegerID} }
func BigInt() LType   { return LType{ID: BigIntID} }
func Float() LType    { return LType{ID: FloatID} }
func Double() LType   { return LType{ID: DoubleID} }
func Varchar() LType  { return LType{ID: VarcharID} }
func Date() LType     { return LType{ID: DateID} }
func Interval() LType { return LType{ID: IntervalID} }

func DecimalType(width, scale int) LType {
	return LType{ID: DecimalID, Width: width, Scale: scale}
}

// List builds an array-of-elem type. Invariant 3 of the DAG (§4.A) needs
// this: ARRAY_JOIN requires its child's result_type to satisfy IsList.
func List(elem LType) LType {
	e := elem
	return LType{ID: ListID, Child: &e}
}

func (lt LType) IsList() bool {
	return lt.ID == ListID
}

// ElementType returns the array element type. Panics if lt is not a list;
// callers are expected to check IsList first (mirrors the collaborator's
// "nested-type extraction" contract, which is only meaningful for arrays).
func (lt LType) ElementType() LType {
	if !lt.IsList() || lt.Child == nil {
		panic("ElementType called on non-list type " + lt.String())
	}
	return *lt.Child
}

// Equal is deep value equality, recursing into Child for list types. Used
// by function overload resolution and by the DAG's action-equality rule
// (§4.A), which requires "same ordered argument type list (by deep type
// equality)".
func (lt LType) Equal(o LType) bool {
	if lt.ID != o.ID {
		return false
	}
	switch lt.ID {
	case DecimalID:
		return lt.Width == o.Width && lt.Scale == o.Scale
	case ListID:
		if lt.Child == nil || o.Child == nil {
			return lt.Child == o.Child
		}
		return lt.Child.Equal(*o.Child)
	default:
		return true
	}
}

func (lt LType) String() string {
	if lt.name != "" {
		return lt.name
	}
	switch lt.ID {
	case DecimalID:
		return fmt.Sprintf("Decimal(%d,%d)", lt.Width, lt.Scale)
	case ListID:
		if lt.Child != nil {
			return fmt.Sprintf("Array(%s)", lt.Child.String())
		}
		return "Array(?)"
	default:
		return lt.ID.String()
	}
}

// GetInternalType returns the physical storage representation for lt. This
// is the "column primitives" collaborator's other half: it tells column
// constructors what backing slice type to allocate.
func (lt LType) GetInternalType() PhysicalType {
	switch lt.ID {
	case BooleanID:
		return PhyBool
	case TinyIntID:
		return PhyInt8
	case SmallIntID:
		return PhyInt16
	case IntegerID:
		return PhyInt32
	case BigIntID:
		return PhyInt64
	case FloatID:
		return PhyFloat32
	case DoubleID:
		return PhyFloat64
	case DecimalID:
		return PhyDecimal
	case VarcharID:
		return PhyVarchar
	case DateID:
		return PhyDate
	case IntervalID:
		return PhyInterval
	case ListID:
		return PhyList
	default:
		return PhyInvalid
	}
}

// MaxSizeInMemory is the "maximum size in memory" hint the type system
// collaborator exposes (§1): a rough per-row upper bound in bytes. No
// other package of the core calls it.
func (lt LType) MaxSizeInMemory() int {
	switch lt.GetInternalType() {
	case PhyBool, PhyInt8:
		return 1
	case PhyInt16:
		return 2
	case PhyInt32, PhyFloat32:
		return 4
	case PhyInt64, PhyFloat64, PhyDate:
		return 8
	case PhyInterval:
		return 16
	case PhyDecimal:
		return 24
	case PhyVarchar:
		return 32 // amortized estimate; strings are variable length
	case PhyList:
		if lt.Child != nil {
			return 8 + lt.Child.MaxSizeInMemory()
		}
		return 16
	default:
		return 0
	}
}
