package value

import (
	"cmp"
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

type Operator string

const (
	OperatorAddition       Operator = "+"
	OperatorSubtraction    Operator = "-"
	OperatorMultiplication Operator = "*"
	OperatorDivision       Operator = "/"
	OperatorModulo         Operator = "%"
	OperatorExponent       Operator = "^"

	OperatorEqual          Operator = "=="
	OperatorNotEqual       Operator = "!="
	OperatorLessThan       Operator = "<"
	OperatorLessOrEqual    Operator = "<="
	OperatorGreaterThan    Operator = ">"
	OperatorGreaterOrEqual Operator = ">="

	OperatorLogicalAnd Operator = "&&"
	OperatorLogicalOr  Operator = "||"
	OperatorNot        Operator = "!"
)

var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrIntRange       = errors.New("integer out of range")
)

type number interface {
	constraints.Integer | constraints.Float
}

func arith[T number](op Operator, a, b T) (T, error) {
	switch op {
	case OperatorAddition:
		return a + b, nil
	case OperatorSubtraction:
		return a - b, nil
	case OperatorMultiplication:
		return a * b, nil
	case OperatorDivision:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a / b, nil
	default:
		return 0, fmt.Errorf("unsupported arithmetic operator %q", op)
	}
}

// checked reports false instead of wrapping when op overflows int64.
func checked(op Operator, a, b int64) (int64, bool) {
	switch op {
	case OperatorAddition:
		c := a + b
		return c, (c > a) == (b > 0)
	case OperatorSubtraction:
		c := a - b
		return c, (c < a) == (b > 0)
	case OperatorMultiplication:
		return mul(a, b)
	default:
		return 0, false
	}
}

func mul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}

	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}

	return c, true
}

func ipow(base, exp int64) (int64, bool) {
	result := int64(1)
	for exp > 0 {
		var ok bool
		if exp&1 == 1 {
			result, ok = mul(result, base)
			if !ok {
				return 0, false
			}
		}

		exp >>= 1
		if exp > 0 {
			base, ok = mul(base, base)
			if !ok {
				return 0, false
			}
		}
	}

	return result, true
}

// Binary applies an arithmetic or comparison operator. Logical operators are
// short-circuited by the evaluator and are not handled here.
func Binary(op Operator, lhs, rhs Value) (Value, error) {
	switch op {
	case OperatorEqual:
		return Bool(Equal(lhs, rhs)), nil
	case OperatorNotEqual:
		return Bool(!Equal(lhs, rhs)), nil
	case OperatorLessThan, OperatorLessOrEqual, OperatorGreaterThan, OperatorGreaterOrEqual:
		c, err := Compare(lhs, rhs)
		if err != nil {
			return nil, err
		}

		switch op {
		case OperatorLessThan:
			return Bool(c < 0), nil
		case OperatorLessOrEqual:
			return Bool(c <= 0), nil
		case OperatorGreaterThan:
			return Bool(c > 0), nil
		default:
			return Bool(c >= 0), nil
		}
	}

	if op == OperatorAddition && lhs.Kind() == KindString && rhs.Kind() == KindString {
		return lhs.(String) + rhs.(String), nil
	}

	if !IsNumber(lhs) || !IsNumber(rhs) {
		return nil, fmt.Errorf("unsupported binary operation: %s %s %s", lhs.Kind(), op, rhs.Kind())
	}

	if lhs.Kind() == KindInt && rhs.Kind() == KindInt {
		return intBinary(op, int64(lhs.(Int)), int64(rhs.(Int)))
	}

	a, _ := ToFloat(lhs)
	b, _ := ToFloat(rhs)

	return floatBinary(op, a, b)
}

func intBinary(op Operator, a, b int64) (Value, error) {
	switch op {
	case OperatorDivision:
		if b == 0 {
			return nil, ErrDivisionByZero
		}
		if a%b != 0 || (a == math.MinInt64 && b == -1) {
			return Float(float64(a) / float64(b)), nil
		}
	case OperatorModulo:
		if b == 0 {
			return nil, ErrDivisionByZero
		}
		return Int(a % b), nil
	case OperatorExponent:
		if b < 0 {
			return Float(math.Pow(float64(a), float64(b))), nil
		}
		if res, ok := ipow(a, b); ok {
			return Int(res), nil
		}
		return Float(math.Pow(float64(a), float64(b))), nil
	case OperatorAddition, OperatorSubtraction, OperatorMultiplication:
		if res, ok := checked(op, a, b); ok {
			return Int(res), nil
		}
		return floatBinary(op, float64(a), float64(b))
	}

	res, err := arith(op, a, b)
	if err != nil {
		return nil, err
	}

	return Int(res), nil
}

func floatBinary(op Operator, a, b float64) (Value, error) {
	switch op {
	case OperatorModulo:
		if b == 0 {
			return nil, ErrDivisionByZero
		}
		return Float(math.Mod(a, b)), nil
	case OperatorExponent:
		return Float(math.Pow(a, b)), nil
	}

	res, err := arith(op, a, b)
	if err != nil {
		return nil, err
	}

	return Float(res), nil
}

// Compare orders two numbers or two strings.
func Compare(lhs, rhs Value) (int, error) {
	if lhs.Kind() == KindString && rhs.Kind() == KindString {
		return cmp.Compare(lhs.(String), rhs.(String)), nil
	}

	if !IsNumber(lhs) || !IsNumber(rhs) {
		return 0, fmt.Errorf("cannot compare %s and %s", lhs.Kind(), rhs.Kind())
	}

	if lhs.Kind() == KindInt && rhs.Kind() == KindInt {
		return cmp.Compare(lhs.(Int), rhs.(Int)), nil
	}

	a, _ := ToFloat(lhs)
	b, _ := ToFloat(rhs)

	return cmp.Compare(a, b), nil
}

func Unary(op Operator, v Value) (Value, error) {
	switch op {
	case OperatorNot:
		return Bool(!Truthy(v)), nil
	case OperatorSubtraction:
		switch v := v.(type) {
		case Int:
			if v == math.MinInt64 {
				return -Float(v), nil
			}
			return -v, nil
		case Float:
			return -v, nil
		}
		return nil, fmt.Errorf("cannot negate %s", v.Kind())
	default:
		return nil, fmt.Errorf("unhandled unary operator %q", op)
	}
}
