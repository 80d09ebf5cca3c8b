package builtins

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rhino1998/mathscript/pkg/environment"
	"github.com/rhino1998/mathscript/pkg/value"
)

var ErrAssertion = errors.New("assertion failed")

// Default returns the natives registered in every global environment. print
// writes to stdout.
func Default(stdout io.Writer) environment.Natives {
	return environment.Natives{
		"print": func(_ context.Context, args []value.Value) (environment.Result, error) {
			strs := make([]string, 0, len(args))
			for _, arg := range args {
				strs = append(strs, arg.String())
			}

			_, err := fmt.Fprintln(stdout, strings.Join(strs, " "))
			if err != nil {
				return environment.Result{}, err
			}

			return environment.Single(value.Nil), nil
		},
		"sqrt":  floatFunc(math.Sqrt),
		"floor": roundFunc(math.Floor),
		"ceil":  roundFunc(math.Ceil),
		"abs": func(_ context.Context, args []value.Value) (environment.Result, error) {
			if err := arity(args, 1); err != nil {
				return environment.Result{}, err
			}

			switch arg := args[0].(type) {
			case value.Int:
				if arg == math.MinInt64 {
					return environment.Result{}, fmt.Errorf("%w: abs(%d)", value.ErrIntRange, arg)
				}
				if arg < 0 {
					arg = -arg
				}
				return environment.Single(arg), nil
			case value.Float:
				return environment.Single(value.Float(math.Abs(float64(arg)))), nil
			default:
				return environment.Result{}, fmt.Errorf("expected number, got %s", arg.Kind())
			}
		},
		"pow": func(_ context.Context, args []value.Value) (environment.Result, error) {
			if err := arity(args, 2); err != nil {
				return environment.Result{}, err
			}

			res, err := value.Binary(value.OperatorExponent, args[0], args[1])
			if err != nil {
				return environment.Result{}, err
			}

			return environment.Single(res), nil
		},
		"min": extremum(-1),
		"max": extremum(1),
		"str": func(_ context.Context, args []value.Value) (environment.Result, error) {
			if err := arity(args, 1); err != nil {
				return environment.Result{}, err
			}

			return environment.Single(value.String(args[0].String())), nil
		},
		"int": func(_ context.Context, args []value.Value) (environment.Result, error) {
			if err := arity(args, 1); err != nil {
				return environment.Result{}, err
			}

			if s, ok := args[0].(value.String); ok {
				n, err := strconv.ParseInt(strings.TrimSpace(string(s)), 10, 64)
				if err != nil {
					return environment.Result{}, fmt.Errorf("cannot convert %q to int", string(s))
				}

				return environment.Single(value.Int(n)), nil
			}

			n, err := value.ToInt(args[0])
			if err != nil {
				return environment.Result{}, err
			}

			return environment.Single(value.Int(n)), nil
		},
		"float": func(_ context.Context, args []value.Value) (environment.Result, error) {
			if err := arity(args, 1); err != nil {
				return environment.Result{}, err
			}

			if s, ok := args[0].(value.String); ok {
				f, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
				if err != nil {
					return environment.Result{}, fmt.Errorf("cannot convert %q to float", string(s))
				}

				return environment.Single(value.Float(f)), nil
			}

			f, err := value.ToFloat(args[0])
			if err != nil {
				return environment.Result{}, err
			}

			return environment.Single(value.Float(f)), nil
		},
		"len": func(_ context.Context, args []value.Value) (environment.Result, error) {
			if err := arity(args, 1); err != nil {
				return environment.Result{}, err
			}

			s, ok := args[0].(value.String)
			if !ok {
				return environment.Result{}, fmt.Errorf("expected string, got %s", args[0].Kind())
			}

			return environment.Single(value.Int(utf8.RuneCountInString(string(s)))), nil
		},
		"assert": func(_ context.Context, args []value.Value) (environment.Result, error) {
			if len(args) != 1 && len(args) != 2 {
				return environment.Result{}, fmt.Errorf("expected 1 or 2 arguments, got %d", len(args))
			}

			if !value.Truthy(args[0]) {
				if len(args) == 2 {
					return environment.Result{}, fmt.Errorf("%w: %s", ErrAssertion, args[1])
				}

				return environment.Result{}, ErrAssertion
			}

			return environment.Single(value.Bool(true)), nil
		},
	}
}

func arity(args []value.Value, n int) error {
	if len(args) != n {
		return fmt.Errorf("expected %d arguments, got %d", n, len(args))
	}

	return nil
}

func floatFunc(f func(float64) float64) environment.NativeFunc {
	return func(_ context.Context, args []value.Value) (environment.Result, error) {
		if err := arity(args, 1); err != nil {
			return environment.Result{}, err
		}

		x, err := value.ToFloat(args[0])
		if err != nil {
			return environment.Result{}, err
		}

		return environment.Single(value.Float(f(x))), nil
	}
}

func roundFunc(f func(float64) float64) environment.NativeFunc {
	return func(_ context.Context, args []value.Value) (environment.Result, error) {
		if err := arity(args, 1); err != nil {
			return environment.Result{}, err
		}

		if i, ok := args[0].(value.Int); ok {
			return environment.Single(i), nil
		}

		x, err := value.ToFloat(args[0])
		if err != nil {
			return environment.Result{}, err
		}

		n, err := value.FloatToInt(f(x))
		if err != nil {
			return environment.Result{}, err
		}

		return environment.Single(value.Int(n)), nil
	}
}

// extremum returns the argument v for which Compare(v, other) == sign holds
// against every other argument.
func extremum(sign int) environment.NativeFunc {
	return func(_ context.Context, args []value.Value) (environment.Result, error) {
		if len(args) == 0 {
			return environment.Result{}, fmt.Errorf("expected at least 1 argument")
		}

		best := args[0]
		for _, arg := range args[1:] {
			c, err := value.Compare(arg, best)
			if err != nil {
				return environment.Result{}, err
			}

			if c == sign {
				best = arg
			}
		}

		return environment.Single(best), nil
	}
}
