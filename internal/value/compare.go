package value

import (
	"math/cmplx"

	"github.com/soc-lang/soc/internal/errors"
)

// Compare implements §4.5.3 ordering: Numbers standard, Complex ordered by
// magnitude (an intentional collapse of distinct values into equivalence
// classes — see DESIGN.md open-question notes), Strings lexicographic,
// Booleans false < true. Mixed types are always a TypeMismatch. Returns
// -1, 0, or 1.
func Compare(a, b Value) (int, error) {
	a, b = Deref(a), Deref(b)
	switch av := a.(type) {
	case Number:
		bv, ok := b.(Number)
		if !ok {
			return 0, typeMismatchCompare(a, b)
		}
		return cmp(float64(av), float64(bv)), nil
	case Complex:
		bv, ok := b.(Complex)
		if !ok {
			return 0, typeMismatchCompare(a, b)
		}
		return cmp(cmplx.Abs(complex(av.Re, av.Im)), cmplx.Abs(complex(bv.Re, bv.Im))), nil
	case String:
		bv, ok := b.(String)
		if !ok {
			return 0, typeMismatchCompare(a, b)
		}
		switch {
		case av < bv:
			return -1, nil
		case av > bv:
			return 1, nil
		default:
			return 0, nil
		}
	case Boolean:
		bv, ok := b.(Boolean)
		if !ok {
			return 0, typeMismatchCompare(a, b)
		}
		ai, bi := boolToInt(av), boolToInt(bv)
		return cmp(float64(ai), float64(bi)), nil
	}
	return 0, typeMismatchCompare(a, b)
}

func typeMismatchCompare(a, b Value) error {
	return errors.New(errors.KindTypeMismatch, "cannot compare %s and %s", TypeName(a), TypeName(b))
}

func cmp(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func boolToInt(b Boolean) int {
	if b {
		return 1
	}
	return 0
}

// Equal implements §4.5.3 equality: Complex equality compares both
// components exactly (unlike `<`/`>`, which compares by magnitude).
func Equal(a, b Value) (bool, error) {
	a, b = Deref(a), Deref(b)
	switch av := a.(type) {
	case Complex:
		bv, ok := b.(Complex)
		if !ok {
			return false, typeMismatchCompare(a, b)
		}
		return av.Re == bv.Re && av.Im == bv.Im, nil
	case Vector:
		bv, ok := b.(Vector)
		if !ok || len(av.Data) != len(bv.Data) {
			return false, nil
		}
		for i := range av.Data {
			if av.Data[i] != bv.Data[i] {
				return false, nil
			}
		}
		return true, nil
	}
	c, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return c == 0, nil
}

// ToBool coerces a Value to Boolean for use as an `if`/`while`/`&&`/`||`
// operand: Number 0 is false, any other finite Number is true; Boolean
// passes through; anything else (Vector, Tensor, …) is a TypeMismatch.
func ToBool(v Value) (bool, error) {
	v = Deref(v)
	switch x := v.(type) {
	case Boolean:
		return bool(x), nil
	case Number:
		return float64(x) != 0, nil
	}
	return false, errors.New(errors.KindTypeMismatch, "cannot coerce %s to Boolean", TypeName(v))
}

// Logical implements §4.5.4 `&&`/`||`: both operands are always evaluated by
// the caller before this is invoked (no short-circuit — see DESIGN.md).
func Logical(and bool, a, b bool) Boolean {
	if and {
		return Boolean(a && b)
	}
	return Boolean(a || b)
}
