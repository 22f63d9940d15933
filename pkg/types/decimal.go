package types

import (
	decimal2 "github.com/govalues/decimal"
)

// Decimal is the exact fixed-point numeric value used by DECIMAL-typed
// columns, grounded on the teacher's common.Decimal wrapper.
type Decimal struct {
	decimal2.Decimal
}

func NewDecimal(whole int64, scale int) (Decimal, error) {
	d, err := decimal2.New(whole, scale)
	if err != nil {
		return Decimal{}, err
	}
	return Decimal{d}, nil
}

func (d Decimal) Equal(o Decimal) bool {
	return d.Decimal.Cmp(o.Decimal) == 0
}

func (d Decimal) Add(o Decimal) (Decimal, error) {
	r, err := d.Decimal.Add(o.Decimal)
	if err != nil {
		return Decimal{}, err
	}
	return Decimal{r}, nil
}

func (d Decimal) Mul(o Decimal) (Decimal, error) {
	r, err := d.Decimal.Mul(o.Decimal)
	if err != nil {
		return Decimal{}, err
	}
	return Decimal{r}, nil
}
