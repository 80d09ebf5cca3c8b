package environment

import (
	"context"

	"github.com/rhino1998/mathscript/pkg/value"
)

// Block is a statement block that can be evaluated against an environment,
// producing one value per value-producing statement.
type Block interface {
	Evaluate(ctx context.Context, env *Environment) ([]value.Value, error)
}

type NativeFunc func(ctx context.Context, args []value.Value) (Result, error)

// Natives is a registry of host-provided functions, keyed by name.
type Natives map[string]NativeFunc

// Function is either a *NativeFunction or a *UserFunction.
type Function interface {
	FunctionName() string
	function()
}

type NativeFunction struct {
	Name string
	Func NativeFunc
}

func (f *NativeFunction) FunctionName() string { return f.Name }
func (*NativeFunction) function()              {}

type UserFunction struct {
	Name   string
	Params []string
	Body   Block
}

func (f *UserFunction) FunctionName() string { return f.Name }
func (*UserFunction) function()              {}

type ResultKind int

const (
	ResultSingle ResultKind = iota
	ResultMany
)

type Result struct {
	Kind   ResultKind
	Values []value.Value
}

func Single(v value.Value) Result {
	return Result{Kind: ResultSingle, Values: []value.Value{v}}
}

func Many(vs []value.Value) Result {
	return Result{Kind: ResultMany, Values: vs}
}

// Value returns the value carried by a single result, or the last value of a
// sequence. An empty result yields value.Nil.
func (r Result) Value() value.Value {
	if len(r.Values) == 0 {
		return value.Nil
	}

	v := r.Values[len(r.Values)-1]
	if v == nil {
		return value.Nil
	}

	return v
}
