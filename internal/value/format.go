package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders v as the canonical text of §6.1. Round-tripping is not
// required, only readability.
func Format(v Value) string {
	v = Deref(v)
	switch x := v.(type) {
	case Number:
		return strconv.FormatFloat(float64(x), 'f', -1, 64)
	case Complex:
		return formatComplex(x.Re, x.Im)
	case Boolean:
		if x {
			return "true"
		}
		return "false"
	case String:
		return string(x)
	case Vector:
		parts := make([]string, len(x.Data))
		for i, d := range x.Data {
			parts[i] = strconv.FormatFloat(d, 'g', -1, 64)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ComplexVector:
		parts := make([]string, x.Len())
		for i := 0; i < x.Len(); i++ {
			c := x.At(i)
			parts[i] = formatComplex(c.Re, c.Im)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case Tensor:
		return formatTensor(x.Shape, x.Data)
	case ComplexTensor:
		return formatComplexTensor(x.Shape, x.Data)
	case Record:
		parts := make([]string, len(x.Fields))
		for i, f := range x.Fields {
			parts[i] = fmt.Sprintf("%s: %s", f.Name, Format(f.Value))
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case Edge:
		arrow := "->"
		if !x.Directed {
			arrow = "--"
		}
		return fmt.Sprintf("%s %s %s", x.From, arrow, x.To)
	case Sequence:
		parts := make([]string, len(x.Elements))
		for i, el := range x.Elements {
			parts[i] = Format(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case Function:
		arity := len(x.Params)
		if x.IsNative() {
			arity = x.Arity
		}
		return fmt.Sprintf("<function/%d>", arity)
	}
	return fmt.Sprintf("<%s>", TypeName(v))
}

func formatComplex(re, im float64) string {
	sign := "+"
	mag := im
	if im < 0 {
		sign = "-"
		mag = -im
	}
	return fmt.Sprintf("%s%s%si", strconv.FormatFloat(re, 'g', -1, 64), sign, strconv.FormatFloat(mag, 'g', -1, 64))
}

func formatTensor(shape []int, data []float64) string {
	if len(shape) == 0 {
		return strconv.FormatFloat(data[0], 'g', -1, 64)
	}
	if len(shape) == 1 {
		parts := make([]string, shape[0])
		for i := range parts {
			parts[i] = strconv.FormatFloat(data[i], 'g', -1, 64)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	rowSize := 1
	for _, s := range shape[1:] {
		rowSize *= s
	}
	parts := make([]string, shape[0])
	for i := 0; i < shape[0]; i++ {
		parts[i] = formatTensor(shape[1:], data[i*rowSize:(i+1)*rowSize])
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatComplexTensor(shape []int, data []float64) string {
	if len(shape) == 0 {
		return formatComplex(data[0], data[1])
	}
	if len(shape) == 1 {
		parts := make([]string, shape[0])
		for i := range parts {
			parts[i] = formatComplex(data[2*i], data[2*i+1])
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	rowSize := 1
	for _, s := range shape[1:] {
		rowSize *= s
	}
	parts := make([]string, shape[0])
	for i := 0; i < shape[0]; i++ {
		parts[i] = formatComplexTensor(shape[1:], data[i*rowSize*2:(i+1)*rowSize*2])
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
