package value

import (
	"math"
	"testing"

	"github.com/soc-lang/soc/internal/ast"
	"github.com/soc-lang/soc/internal/errors"
)

func TestArithScalarAdd(t *testing.T) {
	r, err := Arith(ast.Add, Number(2), Number(3))
	if err != nil {
		t.Fatal(err)
	}
	if r.(Number) != 5 {
		t.Fatalf("got %v", r)
	}
}

func TestArithComplexPromotion(t *testing.T) {
	r, err := Arith(ast.Add, Number(2), Complex{Re: 1, Im: 1})
	if err != nil {
		t.Fatal(err)
	}
	c, ok := r.(Complex)
	if !ok {
		t.Fatalf("expected Complex, got %#v", r)
	}
	if c.Re != 3 || c.Im != 1 {
		t.Fatalf("got %+v", c)
	}
}

func TestArithComplexMultiply(t *testing.T) {
	// (3 + 4i) * (1 - 2i) = 11 - 2i
	r, err := Arith(ast.Mul, Complex{Re: 3, Im: 4}, Complex{Re: 1, Im: -2})
	if err != nil {
		t.Fatal(err)
	}
	c := r.(Complex)
	if c.Re != 11 || c.Im != -2 {
		t.Fatalf("got %+v", c)
	}
}

func TestArithScalarBroadcastOverVector(t *testing.T) {
	r, err := Arith(ast.Mul, Number(2), Vector{Data: []float64{1, 2, 3}})
	if err != nil {
		t.Fatal(err)
	}
	v := r.(Vector)
	want := []float64{2, 4, 6}
	for i, w := range want {
		if v.Data[i] != w {
			t.Fatalf("got %v", v.Data)
		}
	}
}

func TestArithVectorVectorElementwise(t *testing.T) {
	r, err := Arith(ast.Add, Vector{Data: []float64{1, 2, 3}}, Vector{Data: []float64{10, 20, 30}})
	if err != nil {
		t.Fatal(err)
	}
	v := r.(Vector)
	want := []float64{11, 22, 33}
	for i, w := range want {
		if v.Data[i] != w {
			t.Fatalf("got %v", v.Data)
		}
	}
}

func TestArithShapeMismatchErrors(t *testing.T) {
	_, err := Arith(ast.Add, Vector{Data: []float64{1, 2, 3}}, Vector{Data: []float64{1, 2}})
	if !errors.Is(err, errors.KindShape) {
		t.Fatalf("expected Shape error, got %v", err)
	}
}

func TestArithDivByZero(t *testing.T) {
	_, err := Arith(ast.Div, Number(1), Number(0))
	if !errors.Is(err, errors.KindDivByZero) {
		t.Fatalf("expected DivByZero, got %v", err)
	}
}

func TestArithModSignFollowsDivisor(t *testing.T) {
	r, err := Arith(ast.Mod, Number(-7), Number(3))
	if err != nil {
		t.Fatal(err)
	}
	if r.(Number) != 2 {
		t.Fatalf("got %v, want 2", r)
	}
}

func TestArithStringConcat(t *testing.T) {
	r, err := Arith(ast.Add, String("foo"), String("bar"))
	if err != nil {
		t.Fatal(err)
	}
	if r.(String) != "foobar" {
		t.Fatalf("got %v", r)
	}
}

func TestArithStringOtherOpErrors(t *testing.T) {
	_, err := Arith(ast.Sub, String("foo"), String("bar"))
	if !errors.Is(err, errors.KindTypeMismatch) {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
}

func TestArithBroadcastMatrixByVector(t *testing.T) {
	m := Tensor{Shape: []int{2, 3}, Data: []float64{1, 2, 3, 4, 5, 6}}
	v := Vector{Data: []float64{1, 0, 1}}
	r, err := Arith(ast.Add, m, v)
	if err != nil {
		t.Fatal(err)
	}
	out := r.(Tensor)
	want := []float64{2, 2, 4, 5, 5, 7}
	for i, w := range want {
		if out.Data[i] != w {
			t.Fatalf("got %v", out.Data)
		}
	}
}

func TestComparePrimitives(t *testing.T) {
	c, err := Compare(Number(1), Number(2))
	if err != nil || c != -1 {
		t.Fatalf("got %d, %v", c, err)
	}
	c, err = Compare(Boolean(false), Boolean(true))
	if err != nil || c != -1 {
		t.Fatalf("got %d, %v", c, err)
	}
}

func TestCompareComplexByMagnitude(t *testing.T) {
	c, err := Compare(Complex{Re: 3, Im: 4}, Complex{Re: 0, Im: 6})
	if err != nil {
		t.Fatal(err)
	}
	if c != -1 {
		t.Fatalf("|3+4i|=5 should be < |6i|=6, got cmp=%d", c)
	}
}

func TestCompareMixedTypesErrors(t *testing.T) {
	_, err := Compare(Number(1), String("a"))
	if !errors.Is(err, errors.KindTypeMismatch) {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
}

func TestEqualComplexComponentwise(t *testing.T) {
	eq, err := Equal(Complex{Re: 3, Im: 4}, Complex{Re: 3, Im: -4})
	if err != nil {
		t.Fatal(err)
	}
	if eq {
		t.Fatal("3+4i should not equal 3-4i despite equal magnitude")
	}
}

func TestMutableRefDerefAndAlias(t *testing.T) {
	ref := NewMutableRef(Vector{Data: []float64{1, 2, 3}})
	alias := ref // a plain Go copy still shares Cell (pointer)
	ref.Set(Number(99))
	if Deref(alias) != Number(99) {
		t.Fatalf("expected alias to observe mutation, got %v", Deref(alias))
	}
}

func TestResolveIndexNegativeWrap(t *testing.T) {
	i, err := ResolveIndex(-1, 3)
	if err != nil || i != 2 {
		t.Fatalf("got %d, %v", i, err)
	}
	_, err = ResolveIndex(-4, 3)
	if !errors.Is(err, errors.KindIndex) {
		t.Fatalf("expected Index error, got %v", err)
	}
}

func TestFormatValues(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Number(14), "14"},
		{Complex{Re: 11, Im: -2}, "11-2i"},
		{Boolean(true), "true"},
		{String("hi"), "hi"},
		{Vector{Data: []float64{2, 4, 6, 8}}, "[2, 4, 6, 8]"},
	}
	for _, c := range cases {
		if got := Format(c.v); got != c.want {
			t.Errorf("Format(%#v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestArithComplexDivByZeroFollowsIEEE(t *testing.T) {
	r, err := Arith(ast.Div, Complex{Re: 1, Im: 0}, Complex{Re: 0, Im: 0})
	if err != nil {
		t.Fatal(err)
	}
	c := r.(Complex)
	if !math.IsInf(c.Re, 1) || !math.IsNaN(c.Im) {
		t.Fatalf("expected +Inf+NaNi from native IEEE complex division by zero, got %+v", c)
	}
}
