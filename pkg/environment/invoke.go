package environment

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rhino1998/mathscript/pkg/value"
)

// Invoke calls the function registered under name, searching from e toward
// the global environment. The nearest user function wins. Natives are only
// consulted once the search reaches the global environment.
//
// A user function runs in a fresh call frame whose parent is e, the
// environment of the call site. Its result is the last value produced by its
// body.
func (e *Environment) Invoke(ctx context.Context, name string, args []value.Value) (Result, error) {
	if e.released {
		return Result{}, evalError(name, ErrReleasedEnvironment, "called from a released environment")
	}

	if err := ctx.Err(); err != nil {
		return Result{}, &EvaluationError{Function: name, Msg: "canceled", Err: err}
	}

	switch fn := e.resolve(name).(type) {
	case *NativeFunction:
		return e.invokeNative(ctx, fn, args)
	case *UserFunction:
		return e.invokeUser(ctx, fn, args)
	default:
		return Result{}, evalError(name, ErrUndefinedFunction, "not defined")
	}
}

func (e *Environment) resolve(name string) Function {
	for node := e; node != nil; node = node.parent {
		fn, ok := node.functions[name]
		if !ok {
			continue
		}

		switch fn := fn.(type) {
		case *UserFunction:
			return fn
		case *NativeFunction:
			if node.parent == nil {
				return fn
			}
		}
	}

	return nil
}

func (e *Environment) invokeNative(ctx context.Context, fn *NativeFunction, args []value.Value) (Result, error) {
	e.logger.Debug("invoke",
		slog.String("function", fn.Name),
		slog.String("kind", "native"),
		slog.Int("depth", e.depth),
		slog.Int("args", len(args)),
	)

	res, err := fn.Func(ctx, args)
	if err != nil {
		var evalErr *EvaluationError
		if errors.As(err, &evalErr) {
			return Result{}, err
		}

		return Result{}, &EvaluationError{Function: fn.Name, Err: err}
	}

	return res, nil
}

func (e *Environment) invokeUser(ctx context.Context, fn *UserFunction, args []value.Value) (Result, error) {
	if len(args) != len(fn.Params) {
		return Result{}, evalError(fn.Name, ErrArity, "expected %d arguments, got %d", len(fn.Params), len(args))
	}

	if e.maxDepth > 0 && e.depth+1 > e.maxDepth {
		return Result{}, evalError(fn.Name, ErrMaxDepth, "exceeded maximum call depth %d", e.maxDepth)
	}

	frame := newFrame(e, fn.Name)
	defer frame.release()

	for i, param := range fn.Params {
		frame.AssignVariable(param, args[i])
	}

	e.logger.Debug("invoke",
		slog.String("function", fn.Name),
		slog.String("kind", "user"),
		slog.Int("depth", frame.depth),
		slog.Int("args", len(args)),
	)

	vals, err := fn.Body.Evaluate(ctx, frame)
	if err != nil {
		return Result{}, err
	}

	if len(vals) == 0 {
		return Result{}, evalError(fn.Name, ErrEmptyResult, "did not return anything")
	}

	return Single(vals[len(vals)-1]), nil
}
