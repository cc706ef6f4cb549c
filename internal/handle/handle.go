// Package handle implements the handle manager (C2): a process-wide mapping
// from an opaque, monotonically increasing integer handle to an owned
// value.Value, for zero-copy bulk data exchange between a host and the
// engine's fast path (§3.5, §4.6).
package handle

import (
	"github.com/soc-lang/soc/internal/errors"
	"github.com/soc-lang/soc/internal/value"
)

// Handle is an opaque non-negative integer identifying a table entry.
type Handle uint64

// Table owns a set of Values addressed by Handle. It is NOT internally
// synchronized: §5 states that concurrent access to the handle manager from
// multiple host threads is unsupported, so a host that multiplexes sessions
// must either serialise calls or instantiate independent Tables — adding a
// mutex here would contradict that contract rather than implement it.
type Table struct {
	nextID  Handle
	entries map[Handle]value.Value
}

// New creates an empty handle table.
func New() *Table {
	return &Table{entries: make(map[Handle]value.Value)}
}

// Create stores v under a freshly minted handle. Handles are never reused.
func (t *Table) Create(v value.Value) Handle {
	t.nextID++
	h := t.nextID
	t.entries[h] = v
	return h
}

// Get returns the Value owned by h, or HandleInvalid if h is unknown.
func (t *Table) Get(h Handle) (value.Value, error) {
	v, ok := t.entries[h]
	if !ok {
		return nil, errors.New(errors.KindHandleInvalid, "handle %d is not valid", h)
	}
	return v, nil
}

// Clone creates a new entry holding a deep-enough copy of the Value stored
// at h (shared interior data like a MutableRef's cell is NOT aliased by the
// clone: the table owns its Values exclusively, per §4.6).
func (t *Table) Clone(h Handle) (Handle, error) {
	v, err := t.Get(h)
	if err != nil {
		return 0, err
	}
	return t.Create(deepCopy(v)), nil
}

// Release removes h's entry. Idempotent: releasing an already-absent or
// already-released handle is a no-op rather than an error (§8.1, §9 open
// question — either spec-permitted behavior is acceptable; SOC picks
// no-op so double-release can never corrupt the table).
func (t *Table) Release(h Handle) {
	delete(t.entries, h)
}

// IsValid reports whether h currently names a live entry.
func (t *Table) IsValid(h Handle) bool {
	_, ok := t.entries[h]
	return ok
}

// TypeOf returns the Kind of the Value stored at h.
func (t *Table) TypeOf(h Handle) (value.Kind, error) {
	v, err := t.Get(h)
	if err != nil {
		return 0, err
	}
	return v.Kind(), nil
}

func deepCopy(v value.Value) value.Value {
	switch x := v.(type) {
	case value.Vector:
		data := make([]float64, len(x.Data))
		copy(data, x.Data)
		return value.Vector{Data: data}
	case value.ComplexVector:
		data := make([]float64, len(x.Data))
		copy(data, x.Data)
		return value.ComplexVector{Data: data}
	case value.Tensor:
		data := make([]float64, len(x.Data))
		copy(data, x.Data)
		shape := make([]int, len(x.Shape))
		copy(shape, x.Shape)
		return value.Tensor{Shape: shape, Data: data}
	case value.ComplexTensor:
		data := make([]float64, len(x.Data))
		copy(data, x.Data)
		shape := make([]int, len(x.Shape))
		copy(shape, x.Shape)
		return value.ComplexTensor{Shape: shape, Data: data}
	case value.MutableRef:
		return value.NewMutableRef(deepCopy(x.Get()))
	}
	return v
}
