// Package runtime defines the dynamically-typed values produced by evaluating
// nlps expressions.
package runtime

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindArray
	KindNil
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindNil:
		return "nil"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

// NumberValue stores both integers and decimals. IsInt records whether the
// source literal was integral so stringification can omit the decimal point.
type NumberValue struct {
	Val   float64
	IsInt bool
}

func (v NumberValue) Kind() Kind { return KindNumber }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type ArrayValue struct {
	Elements []Value
}

func (v ArrayValue) Kind() Kind { return KindArray }

// NilValue is the result of a function call used as an expression; the grammar
// has no return construct, so calls always yield this.
type NilValue struct{}

func (v NilValue) Kind() Kind { return KindNil }

// Int returns a NumberValue holding an integer.
func Int(n int) NumberValue {
	return NumberValue{Val: float64(n), IsInt: true}
}

// Stringify renders a value the way assignments mirror it into the process
// environment and the way interpolation splices it into strings.
func Stringify(v Value) string {
	switch val := v.(type) {
	case StringValue:
		return val.Val
	case NumberValue:
		if val.IsInt {
			return strconv.FormatInt(int64(val.Val), 10)
		}
		return strconv.FormatFloat(val.Val, 'f', -1, 64)
	case BoolValue:
		if val.Val {
			return "true"
		}
		return "false"
	case ArrayValue:
		parts := make([]string, 0, len(val.Elements))
		for _, elem := range val.Elements {
			parts = append(parts, Stringify(elem))
		}
		return strings.Join(parts, " ")
	case NilValue:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Truthy reports whether a value counts as true in a condition. Empty strings,
// zero, false, empty arrays and nil are false; everything else is true.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case StringValue:
		return val.Val != ""
	case NumberValue:
		return val.Val != 0
	case BoolValue:
		return val.Val
	case ArrayValue:
		return len(val.Elements) > 0
	case NilValue:
		return false
	default:
		return false
	}
}

// Equal applies == semantics: numbers compare numerically, other kinds compare
// by content. Values of different kinds are never equal.
func Equal(a, b Value) bool {
	if an, ok := a.(NumberValue); ok {
		if bn, ok := b.(NumberValue); ok {
			return an.Val == bn.Val
		}
		return false
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case StringValue:
		return av.Val == b.(StringValue).Val
	case BoolValue:
		return av.Val == b.(BoolValue).Val
	case ArrayValue:
		bv := b.(ArrayValue)
		if len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case NilValue:
		return true
	default:
		return false
	}
}
