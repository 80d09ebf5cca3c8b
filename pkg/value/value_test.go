package value_test

import (
	"math"
	"testing"

	"github.com/rhino1998/mathscript/pkg/value"
	"github.com/stretchr/testify/require"
)

func TestBinary_Arithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       value.Operator
		lhs, rhs value.Value
		expected value.Value
	}{
		{"int add", value.OperatorAddition, value.Int(2), value.Int(3), value.Int(5)},
		{"mixed add", value.OperatorAddition, value.Int(2), value.Float(0.5), value.Float(2.5)},
		{"string concat", value.OperatorAddition, value.String("a"), value.String("b"), value.String("ab")},
		{"int sub", value.OperatorSubtraction, value.Int(2), value.Int(3), value.Int(-1)},
		{"exact int div", value.OperatorDivision, value.Int(6), value.Int(3), value.Int(2)},
		{"inexact int div", value.OperatorDivision, value.Int(7), value.Int(2), value.Float(3.5)},
		{"int mod", value.OperatorModulo, value.Int(7), value.Int(3), value.Int(1)},
		{"int pow", value.OperatorExponent, value.Int(2), value.Int(10), value.Int(1024)},
		{"negative pow", value.OperatorExponent, value.Int(2), value.Int(-1), value.Float(0.5)},
		{"float mul", value.OperatorMultiplication, value.Float(1.5), value.Int(2), value.Float(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)

			res, err := value.Binary(tt.op, tt.lhs, tt.rhs)
			r.NoError(err)
			r.Equal(tt.expected, res)
		})
	}
}

func TestBinary_IntOverflow(t *testing.T) {
	tests := []struct {
		name     string
		op       value.Operator
		lhs, rhs value.Value
		expected value.Value
	}{
		{"add", value.OperatorAddition, value.Int(math.MaxInt64), value.Int(1), value.Float(math.Exp2(63))},
		{"sub", value.OperatorSubtraction, value.Int(math.MinInt64), value.Int(1), value.Float(-math.Exp2(63))},
		{"mul", value.OperatorMultiplication, value.Int(math.MaxInt64), value.Int(2), value.Float(math.Exp2(64))},
		{"div", value.OperatorDivision, value.Int(math.MinInt64), value.Int(-1), value.Float(math.Exp2(63))},
		{"pow", value.OperatorExponent, value.Int(2), value.Int(64), value.Float(math.Exp2(64))},
		{"pow large exponent", value.OperatorExponent, value.Int(2), value.Int(100), value.Float(math.Exp2(100))},
		{"pow fits", value.OperatorExponent, value.Int(2), value.Int(62), value.Int(1 << 62)},
		{"pow min int", value.OperatorExponent, value.Int(-2), value.Int(63), value.Int(math.MinInt64)},
		{"add fits", value.OperatorAddition, value.Int(math.MaxInt64 - 1), value.Int(1), value.Int(math.MaxInt64)},
		{"mul negative fits", value.OperatorMultiplication, value.Int(math.MinInt64 / 2), value.Int(2), value.Int(math.MinInt64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)

			res, err := value.Binary(tt.op, tt.lhs, tt.rhs)
			r.NoError(err)
			r.Equal(tt.expected, res)
		})
	}
}

func TestToInt(t *testing.T) {
	r := require.New(t)

	n, err := value.ToInt(value.Float(-2.9))
	r.NoError(err)
	r.Equal(int64(-2), n)

	for _, f := range []float64{1e300, -1e300, math.Exp2(63), math.NaN(), math.Inf(1)} {
		_, err = value.ToInt(value.Float(f))
		r.ErrorIs(err, value.ErrIntRange)
	}

	n, err = value.ToInt(value.Float(-math.Exp2(63)))
	r.NoError(err)
	r.Equal(int64(math.MinInt64), n)
}

func TestBinary_DivisionByZero(t *testing.T) {
	r := require.New(t)

	_, err := value.Binary(value.OperatorDivision, value.Int(1), value.Int(0))
	r.ErrorIs(err, value.ErrDivisionByZero)

	_, err = value.Binary(value.OperatorModulo, value.Float(1), value.Float(0))
	r.ErrorIs(err, value.ErrDivisionByZero)
}

func TestBinary_TypeMismatch(t *testing.T) {
	r := require.New(t)

	_, err := value.Binary(value.OperatorSubtraction, value.String("a"), value.Int(1))
	r.Error(err)

	_, err = value.Binary(value.OperatorLessThan, value.Bool(true), value.Int(1))
	r.Error(err)
}

func TestBinary_Comparison(t *testing.T) {
	r := require.New(t)

	res, err := value.Binary(value.OperatorLessThan, value.Int(1), value.Float(1.5))
	r.NoError(err)
	r.Equal(value.Bool(true), res)

	res, err = value.Binary(value.OperatorGreaterOrEqual, value.String("b"), value.String("a"))
	r.NoError(err)
	r.Equal(value.Bool(true), res)

	res, err = value.Binary(value.OperatorEqual, value.Int(2), value.Float(2))
	r.NoError(err)
	r.Equal(value.Bool(true), res)

	res, err = value.Binary(value.OperatorNotEqual, value.String("2"), value.Int(2))
	r.NoError(err)
	r.Equal(value.Bool(true), res)
}

func TestEqual(t *testing.T) {
	r := require.New(t)

	r.True(value.Equal(value.Nil, value.Nil))
	r.True(value.Equal(value.String("x"), value.String("x")))
	r.False(value.Equal(value.Bool(false), value.Nil))
	r.False(value.Equal(value.Int(1), value.Bool(true)))
}

func TestUnary(t *testing.T) {
	r := require.New(t)

	res, err := value.Unary(value.OperatorSubtraction, value.Int(3))
	r.NoError(err)
	r.Equal(value.Int(-3), res)

	res, err = value.Unary(value.OperatorNot, value.String(""))
	r.NoError(err)
	r.Equal(value.Bool(true), res)

	res, err = value.Unary(value.OperatorSubtraction, value.Int(math.MinInt64))
	r.NoError(err)
	r.Equal(value.Float(math.Exp2(63)), res)

	_, err = value.Unary(value.OperatorSubtraction, value.String("x"))
	r.Error(err)
}

func TestString(t *testing.T) {
	r := require.New(t)

	r.Equal("3.5", value.Float(3.5).String())
	r.Equal("3", value.Float(3).String())
	r.Equal("nil", value.Nil.String())
	r.Equal(`"hi"`, value.Quote(value.String("hi")))
	r.Equal("float", value.KindFloat.String())
}
