package environment

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/rhino1998/mathscript/pkg/value"
)

// Environment is a scope node in the chain walked by variable lookup and
// function dispatch. The global environment is the only one without a
// parent. Every other environment is a call frame owned by a single Invoke.
type Environment struct {
	parent    *Environment
	name      string
	depth     int
	bindings  map[string]value.Value
	functions map[string]Function

	logger   *slog.Logger
	maxDepth int
	released bool
}

type Option func(*Environment)

// WithMaxDepth bounds the number of nested call frames. Zero means no limit.
func WithMaxDepth(depth int) Option {
	return func(e *Environment) {
		e.maxDepth = depth
	}
}

// NewGlobal constructs the root environment of an interpreter and registers
// natives in it.
func NewGlobal(logger *slog.Logger, natives Natives, opts ...Option) *Environment {
	if logger == nil {
		logger = slog.Default()
	}

	env := &Environment{
		name:      "global",
		bindings:  make(map[string]value.Value),
		functions: make(map[string]Function, len(natives)),
		logger:    logger,
	}

	for name, fn := range natives {
		env.functions[name] = &NativeFunction{Name: name, Func: fn}
	}

	for _, opt := range opts {
		opt(env)
	}

	return env
}

func newFrame(parent *Environment, name string) *Environment {
	return &Environment{
		parent:    parent,
		name:      name,
		depth:     parent.depth + 1,
		bindings:  make(map[string]value.Value),
		functions: make(map[string]Function),
		logger:    parent.logger,
		maxDepth:  parent.maxDepth,
	}
}

// release detaches a call frame once its Invoke has finished with it.
func (e *Environment) release() {
	clear(e.bindings)
	clear(e.functions)
	e.parent = nil
	e.released = true
}

func (e *Environment) Name() string {
	return e.name
}

func (e *Environment) Parent() *Environment {
	return e.parent
}

func (e *Environment) IsGlobal() bool {
	return e.parent == nil && !e.released
}

// Depth is the number of call frames between e and the global environment.
func (e *Environment) Depth() int {
	return e.depth
}

func (e *Environment) Logger() *slog.Logger {
	return e.logger
}

// FindVariable returns the binding of name in the nearest environment on the
// chain that has one.
func (e *Environment) FindVariable(name string) (value.Value, error) {
	if e.released {
		return nil, ErrReleasedEnvironment
	}

	v, ok := e.get(name)
	if !ok {
		return nil, &UndeclaredVariableError{Name: name}
	}

	return v, nil
}

func (e *Environment) get(name string) (value.Value, bool) {
	if e == nil {
		return nil, false
	}

	v, ok := e.bindings[name]
	if ok {
		return v, true
	}

	return e.parent.get(name)
}

// AssignVariable binds name in e itself. Ancestors are never modified, even
// when they already bind name.
func (e *Environment) AssignVariable(name string, val value.Value) {
	if val == nil {
		val = value.Nil
	}

	e.bindings[name] = val
}

// CreateFunction registers a user function in e, replacing any definition of
// the same name in e.
func (e *Environment) CreateFunction(name string, params []string, body Block) {
	e.functions[name] = &UserFunction{
		Name:   name,
		Params: slices.Clone(params),
		Body:   body,
	}
}

// LookupFunction resolves name with the same rules as Invoke without calling
// the result.
func (e *Environment) LookupFunction(name string) (Function, bool) {
	fn := e.resolve(name)
	return fn, fn != nil
}

// Variables returns the names bound directly in e.
func (e *Environment) Variables() []string {
	return slices.Sorted(maps.Keys(e.bindings))
}

// Functions returns the names of functions registered directly in e.
func (e *Environment) Functions() []string {
	return slices.Sorted(maps.Keys(e.functions))
}
