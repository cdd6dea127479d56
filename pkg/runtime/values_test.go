package runtime

import "testing"

func TestStringify(t *testing.T) {
	cases := []struct {
		val  Value
		want string
	}{
		{StringValue{Val: "hi"}, "hi"},
		{Int(42), "42"},
		{NumberValue{Val: 2.5}, "2.5"},
		{NumberValue{Val: 3, IsInt: true}, "3"},
		{BoolValue{Val: true}, "true"},
		{BoolValue{Val: false}, "false"},
		{ArrayValue{Elements: []Value{StringValue{Val: "a"}, Int(1)}}, "a 1"},
		{ArrayValue{}, ""},
		{NilValue{}, ""},
	}
	for _, c := range cases {
		if got := Stringify(c.val); got != c.want {
			t.Fatalf("Stringify(%#v) = %q, want %q", c.val, got, c.want)
		}
	}
}

func TestTruthy(t *testing.T) {
	truthy := []Value{
		StringValue{Val: "x"},
		Int(1),
		NumberValue{Val: -0.5},
		BoolValue{Val: true},
		ArrayValue{Elements: []Value{NilValue{}}},
	}
	for _, v := range truthy {
		if !Truthy(v) {
			t.Fatalf("Truthy(%#v) = false, want true", v)
		}
	}

	falsy := []Value{
		StringValue{},
		Int(0),
		BoolValue{},
		ArrayValue{},
		NilValue{},
	}
	for _, v := range falsy {
		if Truthy(v) {
			t.Fatalf("Truthy(%#v) = true, want false", v)
		}
	}
}

func TestEqualNumbersCompareNumerically(t *testing.T) {
	if !Equal(Int(3), NumberValue{Val: 3}) {
		t.Fatal("3 (int) should equal 3.0")
	}
	if Equal(Int(3), Int(4)) {
		t.Fatal("3 should not equal 4")
	}
}

func TestEqualCrossKindIsFalse(t *testing.T) {
	if Equal(StringValue{Val: "1"}, Int(1)) {
		t.Fatal(`"1" should not equal 1`)
	}
	if Equal(BoolValue{Val: true}, StringValue{Val: "true"}) {
		t.Fatal(`true should not equal "true"`)
	}
}

func TestEqualArraysElementwise(t *testing.T) {
	a := ArrayValue{Elements: []Value{Int(1), StringValue{Val: "x"}}}
	b := ArrayValue{Elements: []Value{Int(1), StringValue{Val: "x"}}}
	c := ArrayValue{Elements: []Value{Int(1)}}
	if !Equal(a, b) {
		t.Fatal("identical arrays should be equal")
	}
	if Equal(a, c) {
		t.Fatal("arrays of different length should not be equal")
	}
}

func TestKindString(t *testing.T) {
	if KindArray.String() != "array" || KindNil.String() != "nil" {
		t.Fatalf("kind names = %q, %q", KindArray, KindNil)
	}
}
