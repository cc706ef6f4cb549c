package value

import "github.com/soc-lang/soc/internal/errors"

// PromoteArray implements the §4.5.1 array-literal promotion rules: a flat
// slice of already-evaluated elements (spread elements already spliced in)
// becomes the most specific uniform representation possible, falling back
// to a heterogeneous Sequence only when no promotion applies. A
// same-kind-but-mismatched-shape row (e.g. matrix rows of unequal length)
// is a Shape error rather than a silent Sequence, matching §8.2's "matrix
// literal with unequal row lengths" boundary case.
func PromoteArray(elems []Value) (Value, error) {
	if len(elems) == 0 {
		return Vector{Data: []float64{}}, nil
	}

	allNumber, allComplexLike := true, true
	allVector, allComplexVector, allTensor, allComplexTensor := true, true, true, true
	for _, el := range elems {
		if _, ok := el.(Number); !ok {
			allNumber = false
		}
		switch el.(type) {
		case Number, Complex:
		default:
			allComplexLike = false
		}
		if _, ok := el.(Vector); !ok {
			allVector = false
		}
		if _, ok := el.(ComplexVector); !ok {
			allComplexVector = false
		}
		if _, ok := el.(Tensor); !ok {
			allTensor = false
		}
		if _, ok := el.(ComplexTensor); !ok {
			allComplexTensor = false
		}
	}

	switch {
	case allNumber:
		data := make([]float64, len(elems))
		for i, el := range elems {
			data[i] = float64(el.(Number))
		}
		return Vector{Data: data}, nil

	case allComplexLike:
		flat := make([]float64, 0, len(elems)*2)
		for _, el := range elems {
			switch x := el.(type) {
			case Number:
				flat = append(flat, float64(x), 0)
			case Complex:
				flat = append(flat, x.Re, x.Im)
			}
		}
		return ComplexVector{Data: flat}, nil

	case allVector:
		n := len(elems[0].(Vector).Data)
		data := make([]float64, 0, len(elems)*n)
		for _, el := range elems {
			v := el.(Vector)
			if len(v.Data) != n {
				return nil, errors.New(errors.KindShape, "matrix literal rows have unequal length: %d vs %d", n, len(v.Data))
			}
			data = append(data, v.Data...)
		}
		return Tensor{Shape: []int{len(elems), n}, Data: data}, nil

	case allComplexVector:
		n := elems[0].(ComplexVector).Len()
		flat := make([]float64, 0, len(elems)*n*2)
		for _, el := range elems {
			v := el.(ComplexVector)
			if v.Len() != n {
				return nil, errors.New(errors.KindShape, "matrix literal rows have unequal length: %d vs %d", n, v.Len())
			}
			flat = append(flat, v.Data...)
		}
		return ComplexTensor{Shape: []int{len(elems), n}, Data: flat}, nil

	case allTensor:
		shape0 := elems[0].(Tensor).Shape
		data := make([]float64, 0)
		for _, el := range elems {
			t := el.(Tensor)
			if !shapeEqual(t.Shape, shape0) {
				return nil, errors.New(errors.KindShape, "array literal rows have mismatched shape %v vs %v", shape0, t.Shape)
			}
			data = append(data, t.Data...)
		}
		shape := append([]int{len(elems)}, shape0...)
		return Tensor{Shape: shape, Data: data}, nil

	case allComplexTensor:
		shape0 := elems[0].(ComplexTensor).Shape
		flat := make([]float64, 0)
		for _, el := range elems {
			t := el.(ComplexTensor)
			if !shapeEqual(t.Shape, shape0) {
				return nil, errors.New(errors.KindShape, "array literal rows have mismatched shape %v vs %v", shape0, t.Shape)
			}
			flat = append(flat, t.Data...)
		}
		shape := append([]int{len(elems)}, shape0...)
		return ComplexTensor{Shape: shape, Data: flat}, nil
	}

	return Sequence{Elements: elems}, nil
}
