package environment

import (
	"errors"
	"fmt"
)

var (
	ErrUndefinedFunction   = errors.New("undefined function")
	ErrArity               = errors.New("wrong number of arguments")
	ErrEmptyResult         = errors.New("empty function result")
	ErrMaxDepth            = errors.New("maximum call depth exceeded")
	ErrReleasedEnvironment = errors.New("use of released environment")
)

type UndeclaredVariableError struct {
	Name string
}

func (e *UndeclaredVariableError) Error() string {
	return fmt.Sprintf("undeclared variable '%s'", e.Name)
}

// EvaluationError reports a failed invocation of Function.
type EvaluationError struct {
	Function string
	Msg      string
	Err      error
}

func (e *EvaluationError) Error() string {
	switch {
	case e.Msg == "" && e.Err != nil:
		return fmt.Sprintf("function '%s': %v", e.Function, e.Err)
	case e.Err != nil && !isSentinel(e.Err):
		return fmt.Sprintf("function '%s' %s: %v", e.Function, e.Msg, e.Err)
	default:
		return fmt.Sprintf("function '%s' %s", e.Function, e.Msg)
	}
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

func isSentinel(err error) bool {
	switch err {
	case ErrUndefinedFunction, ErrArity, ErrEmptyResult, ErrMaxDepth, ErrReleasedEnvironment:
		return true
	default:
		return false
	}
}

func evalError(name string, sentinel error, format string, args ...any) *EvaluationError {
	return &EvaluationError{
		Function: name,
		Msg:      fmt.Sprintf(format, args...),
		Err:      sentinel,
	}
}
