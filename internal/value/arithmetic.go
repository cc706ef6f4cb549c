package value

import (
	"math"
	"math/cmplx"

	"github.com/soc-lang/soc/internal/ast"
	"github.com/soc-lang/soc/internal/errors"
)

// Arith evaluates a binary arithmetic operator per the promotion rules of
// §4.5.2, checked in order: Complex promotion, scalar-scalar, scalar-tensor
// broadcast, equal-shape element-wise, numpy-style broadcast, else Shape
// error. String `+` concatenates; any other arithmetic on strings errors.
func Arith(op ast.BinaryOp, a, b Value) (Value, error) {
	a, b = Deref(a), Deref(b)

	if as, ok := a.(String); ok {
		bs, ok := b.(String)
		if !ok || op != ast.Add {
			if op == ast.Add {
				return nil, errors.New(errors.KindTypeMismatch, "cannot add String and %s", TypeName(b))
			}
			return nil, errors.New(errors.KindTypeMismatch, "operator not defined on String")
		}
		return as + bs, nil
	}
	if _, ok := b.(String); ok {
		return nil, errors.New(errors.KindTypeMismatch, "operator not defined on String")
	}

	if isComplexLike(a) || isComplexLike(b) {
		return complexArith(op, a, b)
	}
	return realArith(op, a, b)
}

func isComplexLike(v Value) bool {
	switch v.(type) {
	case Complex, ComplexVector, ComplexTensor:
		return true
	}
	return false
}

// ---- real-valued path ----

func realArith(op ast.BinaryOp, a, b Value) (Value, error) {
	ashape, adata, aok := numericShapeData(a)
	bshape, bdata, bok := numericShapeData(b)
	if !aok || !bok {
		return nil, errors.New(errors.KindTypeMismatch, "operator not defined on %s and %s", TypeName(a), TypeName(b))
	}

	if len(ashape) == 0 && len(bshape) == 0 {
		r, err := scalarRealOp(op, adata[0], bdata[0])
		if err != nil {
			return nil, err
		}
		return Number(r), nil
	}

	outShape, err := broadcastShapes(ashape, bshape)
	if err != nil {
		return nil, err
	}
	out := make([]float64, productOf(outShape))
	ai := newBroadcastIter(ashape, outShape)
	bi := newBroadcastIter(bshape, outShape)
	for i := range out {
		av := adata[ai.next()]
		bv := bdata[bi.next()]
		r, err := scalarRealOp(op, av, bv)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return shapeToValue(outShape, out), nil
}

func scalarRealOp(op ast.BinaryOp, a, b float64) (float64, error) {
	switch op {
	case ast.Add:
		return a + b, nil
	case ast.Sub:
		return a - b, nil
	case ast.Mul:
		return a * b, nil
	case ast.Div:
		if b == 0 {
			return 0, errors.New(errors.KindDivByZero, "division by zero")
		}
		return a / b, nil
	case ast.Pow:
		return math.Pow(a, b), nil
	case ast.Mod:
		if b == 0 {
			return 0, errors.New(errors.KindDivByZero, "division by zero")
		}
		m := math.Mod(a, b)
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return m, nil
	}
	return 0, errors.New(errors.KindInternal, "unknown binary operator")
}

// ---- complex path ----

func complexArith(op ast.BinaryOp, a, b Value) (Value, error) {
	ashape, adata, aok := complexShapeData(a)
	bshape, bdata, bok := complexShapeData(b)
	if !aok || !bok {
		return nil, errors.New(errors.KindTypeMismatch, "operator not defined on %s and %s", TypeName(a), TypeName(b))
	}

	if len(ashape) == 0 && len(bshape) == 0 {
		r, err := scalarComplexOp(op, adata[0], bdata[0])
		if err != nil {
			return nil, err
		}
		return Complex{Re: real(r), Im: imag(r)}, nil
	}

	outShape, err := broadcastShapes(ashape, bshape)
	if err != nil {
		return nil, err
	}
	out := make([]complex128, productOf(outShape))
	ai := newBroadcastIter(ashape, outShape)
	bi := newBroadcastIter(bshape, outShape)
	for i := range out {
		av := adata[ai.next()]
		bv := bdata[bi.next()]
		r, err := scalarComplexOp(op, av, bv)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return complexShapeToValue(outShape, out), nil
}

func scalarComplexOp(op ast.BinaryOp, a, b complex128) (complex128, error) {
	switch op {
	case ast.Add:
		return a + b, nil
	case ast.Sub:
		return a - b, nil
	case ast.Mul:
		return a * b, nil
	case ast.Div:
		return a / b, nil
	case ast.Pow:
		return cmplx.Pow(a, b), nil
	case ast.Mod:
		return 0, errors.New(errors.KindTypeMismatch, "Mod is not defined on Complex")
	}
	return 0, errors.New(errors.KindInternal, "unknown binary operator")
}

// ---- shape plumbing ----

// numericShapeData returns the broadcast shape ([] for scalar) and flat
// data for a real-valued Value, or ok=false if v holds no real data.
func numericShapeData(v Value) (shape []int, data []float64, ok bool) {
	switch x := v.(type) {
	case Number:
		return nil, []float64{float64(x)}, true
	case Boolean:
		n := 0.0
		if x {
			n = 1
		}
		return nil, []float64{n}, true
	case Vector:
		return []int{len(x.Data)}, x.Data, true
	case Tensor:
		return x.Shape, x.Data, true
	}
	return nil, nil, false
}

func complexShapeData(v Value) (shape []int, data []complex128, ok bool) {
	switch x := v.(type) {
	case Number:
		return nil, []complex128{complex(float64(x), 0)}, true
	case Complex:
		return nil, []complex128{complex(x.Re, x.Im)}, true
	case ComplexVector:
		n := x.Len()
		out := make([]complex128, n)
		for i := 0; i < n; i++ {
			c := x.At(i)
			out[i] = complex(c.Re, c.Im)
		}
		return []int{n}, out, true
	case ComplexTensor:
		n := x.Len()
		out := make([]complex128, n)
		for i := 0; i < n; i++ {
			c := x.At(i)
			out[i] = complex(c.Re, c.Im)
		}
		return x.Shape, out, true
	case Vector:
		out := make([]complex128, len(x.Data))
		for i, r := range x.Data {
			out[i] = complex(r, 0)
		}
		return []int{len(x.Data)}, out, true
	case Tensor:
		out := make([]complex128, len(x.Data))
		for i, r := range x.Data {
			out[i] = complex(r, 0)
		}
		return x.Shape, out, true
	}
	return nil, nil, false
}

func shapeToValue(shape []int, data []float64) Value {
	if len(shape) == 0 {
		return Number(data[0])
	}
	if len(shape) == 1 {
		return Vector{Data: data}
	}
	return Tensor{Shape: shape, Data: data}
}

func complexShapeToValue(shape []int, data []complex128) Value {
	flat := make([]float64, len(data)*2)
	for i, c := range data {
		flat[2*i] = real(c)
		flat[2*i+1] = imag(c)
	}
	if len(shape) == 0 {
		return Complex{Re: real(data[0]), Im: imag(data[0])}
	}
	if len(shape) == 1 {
		return ComplexVector{Data: flat}
	}
	return ComplexTensor{Shape: shape, Data: flat}
}

func productOf(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

// broadcastShapes aligns two shapes NumPy-style: trailing dimensions are
// matched up and a dimension of size 1 stretches to match the other.
func broadcastShapes(a, b []int) ([]int, error) {
	if len(a) == 0 {
		return b, nil
	}
	if len(b) == 0 {
		return a, nil
	}
	if shapeEqual(a, b) {
		return a, nil
	}
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		da, db := 1, 1
		if i < len(a) {
			da = a[len(a)-1-i]
		}
		if i < len(b) {
			db = b[len(b)-1-i]
		}
		switch {
		case da == db:
			out[n-1-i] = da
		case da == 1:
			out[n-1-i] = db
		case db == 1:
			out[n-1-i] = da
		default:
			return nil, errors.New(errors.KindShape, "incompatible shapes %v and %v", a, b)
		}
	}
	return out, nil
}

func shapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// broadcastIter walks an output shape and yields, for each output element
// in row-major order, the flat index into a (possibly lower-rank, possibly
// size-1-stretched) source shape.
type broadcastIter struct {
	srcShape   []int
	outShape   []int
	srcStrides []int
	idx        []int
}

func newBroadcastIter(src, out []int) *broadcastIter {
	rankDiff := len(out) - len(src)
	padded := make([]int, len(out))
	for i := range padded {
		if i < rankDiff {
			padded[i] = 1
		} else {
			padded[i] = src[i-rankDiff]
		}
	}
	strides := make([]int, len(out))
	stride := 1
	srcStridesFull := make([]int, len(out))
	for i := len(out) - 1; i >= 0; i-- {
		if padded[i] == 1 {
			srcStridesFull[i] = 0
		} else {
			srcStridesFull[i] = stride
		}
		stride *= padded[i]
		strides[i] = 0
	}
	return &broadcastIter{srcShape: padded, outShape: out, srcStrides: srcStridesFull, idx: make([]int, len(out))}
}

func (b *broadcastIter) next() int {
	flat := 0
	for i, ix := range b.idx {
		flat += ix * b.srcStrides[i]
	}
	// advance idx (row-major odometer)
	for i := len(b.idx) - 1; i >= 0; i-- {
		b.idx[i]++
		if b.idx[i] < b.outShape[i] {
			break
		}
		b.idx[i] = 0
	}
	return flat
}
