package parser

import (
	"errors"
	"fmt"
)

// ErrUnexpectedEOF is reported when the input ends inside a construct. The
// REPL uses it to ask for more input.
var ErrUnexpectedEOF = errors.New("unexpected end of input")

type Position struct {
	File string
	Line int
	Col  int
}

func (p Position) Pos() Position {
	return p
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	}

	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

func (p Position) WrapError(err error) error {
	if err == nil {
		return nil
	}

	var posErr *PositionError
	if errors.As(err, &posErr) {
		return err
	}

	return &PositionError{Position: p, Err: err}
}

type PositionError struct {
	Position Position
	Err      error
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Position, e.Err)
}

func (e *PositionError) Unwrap() error {
	return e.Err
}

type ErrorSet struct {
	Errs []error
}

func (e *ErrorSet) Add(err error) {
	var subErrs *ErrorSet
	if errors.As(err, &subErrs) {
		e.Errs = append(e.Errs, subErrs.Unwrap()...)
	} else {
		e.Errs = append(e.Errs, err)
	}
}

func (e *ErrorSet) Error() string {
	return errors.Join(e.Errs...).Error()
}

func (e *ErrorSet) Unwrap() []error {
	return e.Errs
}

// Err returns e if any errors were added and nil otherwise.
func (e *ErrorSet) Err() error {
	if len(e.Errs) == 0 {
		return nil
	}

	return e
}
