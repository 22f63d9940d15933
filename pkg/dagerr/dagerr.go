// Package dagerr defines the error-kind taxonomy of §7: every failure the
// expression execution core can raise is one of these kinds, built by New
// with a formatted message and matched through an Is method, matching the
// teacher's plain
// fmt.Errorf/errors.New style (the codebase never pulls in
// github.com/pkg/errors).
package dagerr

import (
	"errors"
	"fmt"
)

// Kind is a sentinel identifying one row of §7's error table. Use
// errors.Is(err, dagerr.TypeMismatch) etc. to classify a returned error.
type Kind struct{ name string }

func (k Kind) Error() string { return k.name }

var (
	DuplicateColumn         = Kind{"DUPLICATE_COLUMN"}
	UnknownIdentifier        = Kind{"UNKNOWN_IDENTIFIER"}
	TypeMismatch             = Kind{"TYPE_MISMATCH"}
	LogicalError             = Kind{"LOGICAL_ERROR"}
	TooManyTemporaryColumns  = Kind{"TOO_MANY_TEMPORARY_COLUMNS"}
	TooManyTemporaryNonConst = Kind{"TOO_MANY_TEMPORARY_NON_CONST_COLUMNS"}
)

// Is reports whether err (or any error it wraps) is of the given kind.
func Is(err error, kind Kind) bool {
	return errors.Is(err, kind)
}

// kindErr lets New's result actually participate in errors.Is/As chains.
type kindErr struct {
	kind Kind
	msg  string
}

func (e *kindErr) Error() string { return e.msg }
func (e *kindErr) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.kind
}

// New builds an error of the given kind with a formatted message; it
// participates in errors.Is(err, dagerr.SomeKind).
func New(kind Kind, format string, args ...any) error {
	return &kindErr{kind: kind, msg: fmt.Sprintf("%s: %s", kind.name, fmt.Sprintf(format, args...))}
}
