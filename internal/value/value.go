// Package value implements the SOC tagged-union value system (§3.1): the
// Number/Complex/Boolean/String/Vector/Tensor/Record/Function/MutableRef
// family, with automatic numeric promotion, element-wise broadcasting, and
// the canonical text format of §6.1.
package value

import (
	"github.com/soc-lang/soc/internal/ast"
)

// Kind tags the concrete variant a Value holds.
type Kind int

const (
	KindNumber Kind = iota
	KindComplex
	KindBoolean
	KindString
	KindVector
	KindComplexVector
	KindTensor
	KindComplexTensor
	KindRecord
	KindEdge
	KindFunction
	KindMutableRef
	KindEarlyReturn
	KindTailCall
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindComplex:
		return "Complex"
	case KindBoolean:
		return "Boolean"
	case KindString:
		return "String"
	case KindVector:
		return "Vector"
	case KindComplexVector:
		return "ComplexVector"
	case KindTensor:
		return "Tensor"
	case KindComplexTensor:
		return "ComplexTensor"
	case KindRecord:
		return "Record"
	case KindEdge:
		return "Edge"
	case KindFunction:
		return "Function"
	case KindMutableRef:
		return "MutableRef"
	case KindEarlyReturn:
		return "EarlyReturn"
	case KindTailCall:
		return "TailCall"
	case KindSequence:
		return "Sequence"
	}
	return "Unknown"
}

// Value is implemented by every SOC runtime value.
type Value interface {
	Kind() Kind
}

// Number is a scalar f64.
type Number float64

func (Number) Kind() Kind { return KindNumber }

// Complex is a scalar complex number, stored as separate real/imaginary
// components per §3.1 (rather than Go's complex128) so the zero value and
// the text format are both explicit; arithmetic converts to complex128
// internally and back.
type Complex struct{ Re, Im float64 }

func (Complex) Kind() Kind { return KindComplex }

// Boolean is a scalar bool.
type Boolean bool

func (Boolean) Kind() Kind { return KindBoolean }

// String is a scalar text value.
type String string

func (String) Kind() Kind { return KindString }

// Vector is a fixed-length, homogeneous 1-D sequence of Number.
type Vector struct{ Data []float64 }

func (Vector) Kind() Kind { return KindVector }

// ComplexVector is a 1-D sequence of Complex, stored interleaved
// [re0,im0,re1,im1,...] for host interop per §3.1.
type ComplexVector struct{ Data []float64 }

func (ComplexVector) Kind() Kind { return KindComplexVector }

func (v ComplexVector) Len() int { return len(v.Data) / 2 }
func (v ComplexVector) At(i int) Complex {
	return Complex{Re: v.Data[2*i], Im: v.Data[2*i+1]}
}
func (v ComplexVector) Set(i int, c Complex) {
	v.Data[2*i] = c.Re
	v.Data[2*i+1] = c.Im
}

// Tensor generalises Matrix: a rank-k flat row-major buffer of f64. Rank 2
// is a matrix. The flat buffer length always equals the product of Shape.
type Tensor struct {
	Shape []int
	Data  []float64
}

func (Tensor) Kind() Kind { return KindTensor }

func (t Tensor) Rank() int { return len(t.Shape) }

// ComplexTensor is the Complex analogue of Tensor, interleaved like
// ComplexVector.
type ComplexTensor struct {
	Shape []int
	Data  []float64
}

func (ComplexTensor) Kind() Kind { return KindComplexTensor }
func (t ComplexTensor) Rank() int { return len(t.Shape) }
func (t ComplexTensor) Len() int  { return len(t.Data) / 2 }
func (t ComplexTensor) At(i int) Complex {
	return Complex{Re: t.Data[2*i], Im: t.Data[2*i+1]}
}

// Sequence is a heterogeneous ordered list, used when an ArrayLiteral's
// elements cannot be uniformly promoted to a Vector/Tensor/ComplexVector
// (§4.5.1) — e.g. an array of Strings, Records, or Functions.
type Sequence struct{ Elements []Value }

func (Sequence) Kind() Kind { return KindSequence }

// Field is one member of a Record; Mutable marks whether it was declared
// with `mut` inside the record literal.
type Field struct {
	Name    string
	Value   Value
	Mutable bool
}

// Record is an ordered, field-name-addressed mapping.
type Record struct {
	Fields []Field
}

func (Record) Kind() Kind { return KindRecord }

func (r Record) Get(name string) (Value, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// WithField returns a copy of r with field name set to v, appending it if
// absent and preserving field order otherwise. Used for functional-style
// updates; direct mutation of a mutable field happens through the
// environment/evaluator when the containing Record sits behind a
// MutableRef.
func (r Record) WithField(name string, v Value, mutable bool) Record {
	fields := make([]Field, len(r.Fields))
	copy(fields, r.Fields)
	for i, f := range fields {
		if f.Name == name {
			fields[i].Value = v
			return Record{Fields: fields}
		}
	}
	fields = append(fields, Field{Name: name, Value: v, Mutable: mutable})
	return Record{Fields: fields}
}

// Edge is a graph edge with arbitrary attached properties.
type Edge struct {
	From, To   string
	Directed   bool
	Properties Record
}

func (Edge) Kind() Kind { return KindEdge }

// Scope is the subset of environment behaviour a Function's closure needs;
// it is defined here (rather than Function depending on the env package
// directly) so that internal/value and internal/env do not import each
// other cyclically — env.Environment implements Scope.
type Scope interface {
	Lookup(name string) (Value, bool)
	Define(name string, v Value) error
	Set(name string, v Value) error
	NewChild() Scope
}

// Function is either a user lambda (Body/Closure set, NativeFn nil) or a
// native built-in (NativeFn set, Body/Closure nil).
type Function struct {
	Name            string
	Params          []string
	Body            ast.Expression
	Closure         Scope
	IsTailRecursive bool

	NativeFn func(args []Value) (Value, error)
	Arity    int // -1 denotes variadic; only meaningful for NativeFn
}

func (Function) Kind() Kind { return KindFunction }

func (f Function) IsNative() bool { return f.NativeFn != nil }

// MutableRef is the only shared-mutable cell: a `mut` binding's value lives
// in one MutableRef that every alias shares by reference (§3.1, §5).
type MutableRef struct {
	Cell *Value
}

func (MutableRef) Kind() Kind { return KindMutableRef }

func NewMutableRef(v Value) MutableRef {
	cell := v
	return MutableRef{Cell: &cell}
}

func (m MutableRef) Get() Value  { return *m.Cell }
func (m MutableRef) Set(v Value) { *m.Cell = v }

// Deref projects a MutableRef to its current inner Value; every other Value
// is returned unchanged. Most read paths call this; only lvalue resolution
// needs the raw MutableRef.
func Deref(v Value) Value {
	if m, ok := v.(MutableRef); ok {
		return m.Get()
	}
	return v
}

// EarlyReturn is the internal propagating marker for `return e` (§3.1);
// it must never escape the call frame that introduced it.
type EarlyReturn struct{ Inner Value }

func (EarlyReturn) Kind() Kind { return KindEarlyReturn }

// TailCall is the internal sentinel the TCO loop iterates on (§4.4.3); it
// must never escape the call frame that introduced it.
type TailCall struct{ Args []Value }

func (TailCall) Kind() Kind { return KindTailCall }

// IsControl reports whether v is one of the two internal control-flow
// sentinels that must never be observed by user code.
func IsControl(v Value) bool {
	switch v.(type) {
	case EarlyReturn, TailCall:
		return true
	}
	return false
}

// TypeName returns the user-facing type name for error messages.
func TypeName(v Value) string {
	if v == nil {
		return "nil"
	}
	return v.Kind().String()
}
