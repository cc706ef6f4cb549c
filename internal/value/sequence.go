package value

// Elements projects any of the sequence-shaped Values (Vector, Tensor rank
// 1, ComplexVector, Sequence) to a plain []Value for the higher-order
// prelude functions (map/filter/reduce/…) to iterate uniformly (§4.5.6).
// ok is false for anything that is not a 1-D sequence.
func Elements(v Value) (elems []Value, ok bool) {
	v = Deref(v)
	switch x := v.(type) {
	case Vector:
		out := make([]Value, len(x.Data))
		for i, d := range x.Data {
			out[i] = Number(d)
		}
		return out, true
	case ComplexVector:
		out := make([]Value, x.Len())
		for i := 0; i < x.Len(); i++ {
			out[i] = x.At(i)
		}
		return out, true
	case Tensor:
		if x.Rank() != 1 {
			return nil, false
		}
		out := make([]Value, len(x.Data))
		for i, d := range x.Data {
			out[i] = Number(d)
		}
		return out, true
	case Sequence:
		return x.Elements, true
	}
	return nil, false
}

// FromElements rebuilds the most specific Value a flat slice supports:
// Vector if every element is a Number, ComplexVector if every element is
// Number or Complex with at least one Complex, else a generic Sequence.
func FromElements(elems []Value) Value {
	if len(elems) == 0 {
		return Vector{Data: []float64{}}
	}
	allNumber := true
	anyComplex := false
	for _, el := range elems {
		switch el.(type) {
		case Number:
		case Complex:
			anyComplex = true
		default:
			allNumber = false
		}
	}
	if allNumber && !anyComplex {
		data := make([]float64, len(elems))
		for i, el := range elems {
			data[i] = float64(el.(Number))
		}
		return Vector{Data: data}
	}
	if allNumber && anyComplex {
		flat := make([]float64, 0, len(elems)*2)
		for _, el := range elems {
			switch x := el.(type) {
			case Number:
				flat = append(flat, float64(x), 0)
			case Complex:
				flat = append(flat, x.Re, x.Im)
			}
		}
		return ComplexVector{Data: flat}
	}
	return Sequence{Elements: elems}
}
