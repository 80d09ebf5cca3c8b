package environment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/rhino1998/mathscript/pkg/environment"
	"github.com/rhino1998/mathscript/pkg/value"
	"github.com/stretchr/testify/require"
)

func nativeConst(v value.Value) environment.NativeFunc {
	return func(context.Context, []value.Value) (environment.Result, error) {
		return environment.Single(v), nil
	}
}

func TestInvoke_Arity(t *testing.T) {
	ctx := context.Background()

	global := environment.NewGlobal(slogt.New(t), nil)
	global.CreateFunction("add", []string{"a", "b"}, blockFunc(func(_ context.Context, env *environment.Environment) ([]value.Value, error) {
		return []value.Value{must(value.Binary(value.OperatorAddition, must(env.FindVariable("a")), must(env.FindVariable("b"))))}, nil
	}))

	for _, n := range []int{0, 1, 3} {
		args := make([]value.Value, n)
		for i := range args {
			args[i] = value.Int(1)
		}

		_, err := global.Invoke(ctx, "add", args)

		r := require.New(t)
		var evalErr *environment.EvaluationError
		r.ErrorAs(err, &evalErr)
		r.ErrorIs(err, environment.ErrArity)
		r.Equal("add", evalErr.Function)
	}

	r := require.New(t)
	res, err := global.Invoke(ctx, "add", []value.Value{value.Int(2), value.Int(3)})
	r.NoError(err)
	r.Equal(environment.ResultSingle, res.Kind)
	r.Equal(value.Int(5), res.Value())
}

func TestInvoke_ReturnsLastValue(t *testing.T) {
	r := require.New(t)

	global := environment.NewGlobal(slogt.New(t), nil)
	global.CreateFunction("f", nil, constBlock(value.Int(1), value.Int(2), value.Int(3)))

	res, err := global.Invoke(context.Background(), "f", nil)
	r.NoError(err)
	r.Equal([]value.Value{value.Int(3)}, res.Values)
}

func TestInvoke_EmptyResult(t *testing.T) {
	r := require.New(t)

	global := environment.NewGlobal(slogt.New(t), nil)
	global.CreateFunction("f", nil, constBlock())

	_, err := global.Invoke(context.Background(), "f", nil)
	r.ErrorIs(err, environment.ErrEmptyResult)
	r.EqualError(err, "function 'f' did not return anything")
}

func TestInvoke_Undefined(t *testing.T) {
	r := require.New(t)

	global := environment.NewGlobal(slogt.New(t), environment.Natives{"g": nativeConst(value.Nil)})

	_, err := global.Invoke(context.Background(), "f", nil)
	r.ErrorIs(err, environment.ErrUndefinedFunction)
	r.EqualError(err, "function 'f' not defined")
}

func TestInvoke_CallSiteScoping(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()

	global := environment.NewGlobal(slogt.New(t), nil)

	// readY is declared in the global environment but reads y, which only
	// exists in the frame of its caller.
	global.CreateFunction("readY", nil, blockFunc(func(_ context.Context, env *environment.Environment) ([]value.Value, error) {
		v, err := env.FindVariable("y")
		if err != nil {
			return nil, err
		}

		return []value.Value{v}, nil
	}))

	var callSite *environment.Environment
	var calleeParent *environment.Environment
	global.CreateFunction("caller", nil, blockFunc(func(ctx context.Context, env *environment.Environment) ([]value.Value, error) {
		callSite = env
		env.AssignVariable("y", value.String("from caller"))
		env.CreateFunction("parentOf", nil, blockFunc(func(_ context.Context, frame *environment.Environment) ([]value.Value, error) {
			calleeParent = frame.Parent()
			return []value.Value{value.Nil}, nil
		}))

		if _, err := env.Invoke(ctx, "parentOf", nil); err != nil {
			return nil, err
		}

		res, err := env.Invoke(ctx, "readY", nil)
		if err != nil {
			return nil, err
		}

		return []value.Value{res.Value()}, nil
	}))

	res, err := global.Invoke(ctx, "caller", nil)
	r.NoError(err)
	r.Equal(value.String("from caller"), res.Value())
	r.Same(callSite, calleeParent)

	_, err = global.Invoke(ctx, "readY", nil)
	var undeclared *environment.UndeclaredVariableError
	r.ErrorAs(err, &undeclared)
	r.Equal("y", undeclared.Name)
}

func TestInvoke_UserShadowsNative(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()

	global := environment.NewGlobal(slogt.New(t), environment.Natives{
		"f": nativeConst(value.String("native")),
	})

	res, err := global.Invoke(ctx, "f", nil)
	r.NoError(err)
	r.Equal(value.String("native"), res.Value())

	global.CreateFunction("outer", nil, blockFunc(func(ctx context.Context, env *environment.Environment) ([]value.Value, error) {
		env.CreateFunction("f", nil, constBlock(value.String("user")))

		res, err := env.Invoke(ctx, "f", nil)
		if err != nil {
			return nil, err
		}

		return []value.Value{res.Value()}, nil
	}))

	res, err = global.Invoke(ctx, "outer", nil)
	r.NoError(err)
	r.Equal(value.String("user"), res.Value())

	// the nested definition died with the frame
	res, err = global.Invoke(ctx, "f", nil)
	r.NoError(err)
	r.Equal(value.String("native"), res.Value())

	// a user definition in the global environment replaces the native
	global.CreateFunction("f", nil, constBlock(value.String("global user")))
	res, err = global.Invoke(ctx, "f", nil)
	r.NoError(err)
	r.Equal(value.String("global user"), res.Value())
}

func TestInvoke_NativeArgs(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()

	var got []value.Value
	global := environment.NewGlobal(slogt.New(t), environment.Natives{
		"collect": func(_ context.Context, args []value.Value) (environment.Result, error) {
			got = args
			return environment.Many(args), nil
		},
		"fail": func(context.Context, []value.Value) (environment.Result, error) {
			return environment.Result{}, errors.New("boom")
		},
	})

	res, err := global.Invoke(ctx, "collect", []value.Value{value.Int(1), value.Int(2)})
	r.NoError(err)
	r.Equal(environment.ResultMany, res.Kind)
	r.Equal([]value.Value{value.Int(1), value.Int(2)}, got)

	_, err = global.Invoke(ctx, "fail", nil)
	var evalErr *environment.EvaluationError
	r.ErrorAs(err, &evalErr)
	r.Equal("fail", evalErr.Function)
	r.EqualError(err, "function 'fail': boom")
}

func TestInvoke_FrameIsolation(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()

	global := environment.NewGlobal(slogt.New(t), nil)

	calls := 0
	global.CreateFunction("count", []string{"n"}, blockFunc(func(_ context.Context, env *environment.Environment) ([]value.Value, error) {
		calls++

		_, err := env.FindVariable("local")
		if calls > 1 && err == nil {
			return nil, errors.New("binding leaked from an earlier call")
		}

		env.AssignVariable("local", value.Int(calls))
		return []value.Value{must(env.FindVariable("n"))}, nil
	}))

	for i := range 3 {
		res, err := global.Invoke(ctx, "count", []value.Value{value.Int(i)})
		r.NoError(err)
		r.Equal(value.Int(i), res.Value())
	}

	_, err := global.FindVariable("n")
	r.Error(err)
	_, err = global.FindVariable("local")
	r.Error(err)
	r.Empty(global.Variables())
}

func TestInvoke_FrameReleasedOnError(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()

	global := environment.NewGlobal(slogt.New(t), nil)

	var frame *environment.Environment
	global.CreateFunction("broken", []string{"a"}, blockFunc(func(_ context.Context, env *environment.Environment) ([]value.Value, error) {
		frame = env

		v, err := env.FindVariable("missing")
		if err != nil {
			return nil, err
		}

		return []value.Value{v}, nil
	}))

	_, err := global.Invoke(ctx, "broken", []value.Value{value.Int(1)})
	r.Error(err)
	r.NotNil(frame)
	r.Nil(frame.Parent())
	r.Empty(frame.Variables())

	_, err = frame.Invoke(ctx, "broken", []value.Value{value.Int(1)})
	r.ErrorIs(err, environment.ErrReleasedEnvironment)
}

func TestInvoke_MaxDepth(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()

	global := environment.NewGlobal(slogt.New(t), nil, environment.WithMaxDepth(4))

	deepest := 0
	global.CreateFunction("recurse", nil, blockFunc(func(ctx context.Context, env *environment.Environment) ([]value.Value, error) {
		deepest = env.Depth()

		res, err := env.Invoke(ctx, "recurse", nil)
		if err != nil {
			return nil, err
		}

		return res.Values, nil
	}))

	_, err := global.Invoke(ctx, "recurse", nil)
	r.ErrorIs(err, environment.ErrMaxDepth)
	r.Equal(4, deepest)
}

func TestInvoke_Canceled(t *testing.T) {
	r := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	global := environment.NewGlobal(slogt.New(t), nil)
	global.CreateFunction("f", nil, constBlock(value.Int(1)))

	_, err := global.Invoke(ctx, "f", nil)
	r.ErrorIs(err, context.Canceled)
}

func TestInvoke_DuplicateParamsLastWins(t *testing.T) {
	r := require.New(t)

	global := environment.NewGlobal(slogt.New(t), nil)
	global.CreateFunction("f", []string{"a", "a"}, blockFunc(func(_ context.Context, env *environment.Environment) ([]value.Value, error) {
		return []value.Value{must(env.FindVariable("a"))}, nil
	}))

	res, err := global.Invoke(context.Background(), "f", []value.Value{value.Int(1), value.Int(2)})
	r.NoError(err)
	r.Equal(value.Int(2), res.Value())
}
