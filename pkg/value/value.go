package value

import (
	"fmt"
	"math"
	"strconv"
)

type Kind int

const (
	KindNil Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a handle to an immutable runtime value. Handles are cheap to copy
// and may be shared freely between environments.
type Value interface {
	Kind() Kind
	String() string
}

type nilValue struct{}

func (nilValue) Kind() Kind     { return KindNil }
func (nilValue) String() string { return "nil" }

var Nil Value = nilValue{}

type Int int64

func (Int) Kind() Kind       { return KindInt }
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

type Float float64

func (Float) Kind() Kind { return KindFloat }
func (f Float) String() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 64)
}

type Bool bool

func (Bool) Kind() Kind       { return KindBool }
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

type String string

func (String) Kind() Kind       { return KindString }
func (s String) String() string { return string(s) }

// Quote renders v the way it would be written in source.
func Quote(v Value) string {
	if s, ok := v.(String); ok {
		return strconv.Quote(string(s))
	}

	return v.String()
}

func IsNumber(v Value) bool {
	k := v.Kind()
	return k == KindInt || k == KindFloat
}

func ToFloat(v Value) (float64, error) {
	switch v := v.(type) {
	case Int:
		return float64(v), nil
	case Float:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("expected number, got %s", v.Kind())
	}
}

func ToInt(v Value) (int64, error) {
	switch v := v.(type) {
	case Int:
		return int64(v), nil
	case Float:
		return FloatToInt(float64(v))
	default:
		return 0, fmt.Errorf("expected number, got %s", v.Kind())
	}
}

// FloatToInt truncates f toward zero. NaN, infinities and values outside the
// int64 range are errors.
func FloatToInt(f float64) (int64, error) {
	if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %v", ErrIntRange, f)
	}

	return int64(f), nil
}

func Truthy(v Value) bool {
	switch v := v.(type) {
	case nilValue:
		return false
	case Bool:
		return bool(v)
	case Int:
		return v != 0
	case Float:
		return v != 0
	case String:
		return v != ""
	default:
		return v != nil
	}
}

// Equal compares values by content. Ints and floats compare numerically.
func Equal(a, b Value) bool {
	if IsNumber(a) && IsNumber(b) {
		if a.Kind() == KindInt && b.Kind() == KindInt {
			return a.(Int) == b.(Int)
		}

		af, _ := ToFloat(a)
		bf, _ := ToFloat(b)
		return af == bf
	}

	if a.Kind() != b.Kind() {
		return false
	}

	return a == b
}
