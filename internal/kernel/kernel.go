// Package kernel implements the fast-path kernels (C9): vectorised
// operations addressed entirely through handles, bypassing the
// lexer/parser/evaluator for hot numeric work (§4.7).
package kernel

import (
	"math"

	"github.com/soc-lang/soc/internal/errors"
	"github.com/soc-lang/soc/internal/handle"
	"github.com/soc-lang/soc/internal/value"
)

func vectorOf(t *handle.Table, h handle.Handle) (value.Vector, error) {
	v, err := t.Get(h)
	if err != nil {
		return value.Vector{}, err
	}
	vec, ok := value.Deref(v).(value.Vector)
	if !ok {
		return value.Vector{}, errors.New(errors.KindTypeMismatch, "expected Vector handle, got %s", value.TypeName(v))
	}
	return vec, nil
}

func elementwise(t *handle.Table, a, b handle.Handle, op func(x, y float64) (float64, error)) (handle.Handle, error) {
	av, err := vectorOf(t, a)
	if err != nil {
		return 0, err
	}
	bv, err := vectorOf(t, b)
	if err != nil {
		return 0, err
	}
	if len(av.Data) != len(bv.Data) {
		return 0, errors.New(errors.KindShape, "vector length mismatch: %d vs %d", len(av.Data), len(bv.Data))
	}
	out := make([]float64, len(av.Data))
	for i := range out {
		r, err := op(av.Data[i], bv.Data[i])
		if err != nil {
			return 0, err
		}
		out[i] = r
	}
	return t.Create(value.Vector{Data: out}), nil
}

func noErr(f func(x, y float64) float64) func(x, y float64) (float64, error) {
	return func(x, y float64) (float64, error) { return f(x, y), nil }
}

// VAdd/VSub/VMul/VDiv perform element-wise vector arithmetic on two
// equal-length Vector handles, producing a fresh handle.
func VAdd(t *handle.Table, a, b handle.Handle) (handle.Handle, error) {
	return elementwise(t, a, b, noErr(func(x, y float64) float64 { return x + y }))
}

func VSub(t *handle.Table, a, b handle.Handle) (handle.Handle, error) {
	return elementwise(t, a, b, noErr(func(x, y float64) float64 { return x - y }))
}

func VMul(t *handle.Table, a, b handle.Handle) (handle.Handle, error) {
	return elementwise(t, a, b, noErr(func(x, y float64) float64 { return x * y }))
}

func VDiv(t *handle.Table, a, b handle.Handle) (handle.Handle, error) {
	return elementwise(t, a, b, func(x, y float64) (float64, error) {
		if y == 0 {
			return 0, errors.New(errors.KindDivByZero, "division by zero")
		}
		return x / y, nil
	})
}

// VScale multiplies every element of a Vector handle by a scalar.
func VScale(t *handle.Table, a handle.Handle, scalar float64) (handle.Handle, error) {
	av, err := vectorOf(t, a)
	if err != nil {
		return 0, err
	}
	out := make([]float64, len(av.Data))
	for i, x := range av.Data {
		out[i] = x * scalar
	}
	return t.Create(value.Vector{Data: out}), nil
}

// Dot computes the inner product of two equal-length Vectors.
func Dot(t *handle.Table, a, b handle.Handle) (float64, error) {
	av, err := vectorOf(t, a)
	if err != nil {
		return 0, err
	}
	bv, err := vectorOf(t, b)
	if err != nil {
		return 0, err
	}
	if len(av.Data) != len(bv.Data) {
		return 0, errors.New(errors.KindShape, "vector length mismatch: %d vs %d", len(av.Data), len(bv.Data))
	}
	var sum float64
	for i := range av.Data {
		sum += av.Data[i] * bv.Data[i]
	}
	return sum, nil
}

// Norm computes the Euclidean (L2) norm of a Vector.
func Norm(t *handle.Table, a handle.Handle) (float64, error) {
	av, err := vectorOf(t, a)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, x := range av.Data {
		sum += x * x
	}
	return math.Sqrt(sum), nil
}

// scalarOrVector dispatches a unary transcendental over either a Number
// handle (degrading to a scalar result, per §4.7) or a Vector handle
// (element-wise).
func scalarOrVector(t *handle.Table, a handle.Handle, f func(float64) (float64, error)) (handle.Handle, error) {
	v, err := t.Get(a)
	if err != nil {
		return 0, err
	}
	switch x := value.Deref(v).(type) {
	case value.Number:
		r, err := f(float64(x))
		if err != nil {
			return 0, err
		}
		return t.Create(value.Number(r)), nil
	case value.Vector:
		out := make([]float64, len(x.Data))
		for i, e := range x.Data {
			r, err := f(e)
			if err != nil {
				return 0, err
			}
			out[i] = r
		}
		return t.Create(value.Vector{Data: out}), nil
	default:
		return 0, errors.New(errors.KindTypeMismatch, "expected Number or Vector handle, got %s", value.TypeName(v))
	}
}

func Sin(t *handle.Table, a handle.Handle) (handle.Handle, error) {
	return scalarOrVector(t, a, func(x float64) (float64, error) { return math.Sin(x), nil })
}

func Cos(t *handle.Table, a handle.Handle) (handle.Handle, error) {
	return scalarOrVector(t, a, func(x float64) (float64, error) { return math.Cos(x), nil })
}

func Tan(t *handle.Table, a handle.Handle) (handle.Handle, error) {
	return scalarOrVector(t, a, func(x float64) (float64, error) { return math.Tan(x), nil })
}

func Exp(t *handle.Table, a handle.Handle) (handle.Handle, error) {
	return scalarOrVector(t, a, func(x float64) (float64, error) { return math.Exp(x), nil })
}

func Ln(t *handle.Table, a handle.Handle) (handle.Handle, error) {
	return scalarOrVector(t, a, func(x float64) (float64, error) {
		if x < 0 {
			return 0, errors.New(errors.KindDomainError, "ln of negative number %g", x)
		}
		return math.Log(x), nil
	})
}

func Abs(t *handle.Table, a handle.Handle) (handle.Handle, error) {
	return scalarOrVector(t, a, func(x float64) (float64, error) { return math.Abs(x), nil })
}

func Sqrt(t *handle.Table, a handle.Handle) (handle.Handle, error) {
	return scalarOrVector(t, a, func(x float64) (float64, error) {
		if x < 0 {
			return 0, errors.New(errors.KindDomainError, "sqrt of negative number %g", x)
		}
		return math.Sqrt(x), nil
	})
}

// Linspace produces a Vector handle of n evenly spaced samples from start
// to end inclusive. n == 1 returns [start] (the spec permits either
// endpoint; SOC picks start to match the first sample of any larger n).
func Linspace(t *handle.Table, start, end float64, n int) (handle.Handle, error) {
	if n <= 0 {
		return 0, errors.New(errors.KindDomainError, "linspace sample count must be positive, got %d", n)
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return t.Create(value.Vector{Data: out}), nil
	}
	step := (end - start) / float64(n-1)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return t.Create(value.Vector{Data: out}), nil
}
