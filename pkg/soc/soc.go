// Package soc is the public embeddable facade over the interpreter core:
// the §6.1 textual API and the §6.2 handle API, both delegating to
// internal/interp, internal/handle and internal/kernel. This is the
// boundary a host (a CLI, a test, or pkg/wasm) is meant to import —
// internal/... stays unexported to anything outside the module.
package soc

import (
	"github.com/soc-lang/soc/internal/errors"
	"github.com/soc-lang/soc/internal/handle"
	"github.com/soc-lang/soc/internal/interp"
	"github.com/soc-lang/soc/internal/kernel"
	"github.com/soc-lang/soc/internal/value"
)

// Handle re-exports the opaque handle identifier so callers never need to
// import internal/handle directly.
type Handle = handle.Handle

// Option configures an Engine at construction time.
type Option func(*engineOptions)

type engineOptions struct {
	iterationLimit int
	trace          bool
	modules        map[string]map[string]value.Value
}

// WithIterationLimit caps the §5 TCO-loop iteration count; exceeding it
// surfaces as an IterationLimit error. n <= 0 means unbounded.
func WithIterationLimit(n int) Option {
	return func(o *engineOptions) { o.iterationLimit = n }
}

// WithTrace mirrors the core's tracing hook.
func WithTrace(on bool) Option {
	return func(o *engineOptions) { o.trace = on }
}

// Engine is one independent evaluation session, mirroring the teacher's
// public-facade-wraps-internal-engine split (pkg/dwscript over
// internal/interp): a host embeds this type and never touches internal/...
// directly.
type Engine struct {
	core *interp.Engine
}

// New constructs an Engine with the prelude and "dsp"/"stats" modules
// available.
func New(opts ...Option) *Engine {
	o := &engineOptions{}
	for _, opt := range opts {
		opt(o)
	}
	coreOpts := []interp.EngineOption{}
	if o.iterationLimit != 0 {
		coreOpts = append(coreOpts, interp.WithIterationLimit(o.iterationLimit))
	}
	if o.trace {
		coreOpts = append(coreOpts, interp.WithTrace(true))
	}
	return &Engine{core: interp.New(coreOpts...)}
}

// Eval implements §6.1: parse and evaluate source against the persistent
// global environment, returning its canonical text form or an
// "Error: ..."-prefixed message.
func (e *Engine) Eval(source string) string {
	return e.core.Eval(source)
}

// EvalValue is Eval's structured counterpart, for a host that wants the
// Value rather than its text rendering.
func (e *Engine) EvalValue(source string) (value.Value, error) {
	return e.core.EvalValue(source)
}

// FormatError renders an error returned by EvalValue in the §7 source-line-
// and-caret style, with ANSI color only when the caller asks for it (a host
// like cmd/soc decides that from isatty; pkg/soc itself performs no I/O).
// Errors without a *errors.EngineError underneath (e.g. a bare parse error)
// fall back to err.Error().
func FormatError(err error, color bool) string {
	if ee, ok := err.(*errors.EngineError); ok {
		return ee.Format(color)
	}
	return err.Error()
}

// Format renders a Value in the §6.1 canonical text form.
func Format(v value.Value) string {
	return value.Format(v)
}

// Reset implements §6.1 reset(): drops all variables and imports; the
// prelude remains visible.
func (e *Engine) Reset() string {
	return e.core.Reset()
}

// --- §4.6/§6.2 Handle API -------------------------------------------------

// CreateVectorFromBuffer copies data into a fresh Vector handle. The table
// never aliases the caller's slice (§4.6: "never mutates stored Values in
// place"), so the caller's buffer may be reused or freed immediately after
// this call returns.
func (e *Engine) CreateVectorFromBuffer(data []float64) Handle {
	cp := make([]float64, len(data))
	copy(cp, data)
	return e.core.Handles().Create(value.Vector{Data: cp})
}

// CreateMatrixFromBuffer copies a row-major data buffer of rows*cols
// elements into a fresh rank-2 Tensor handle.
func (e *Engine) CreateMatrixFromBuffer(data []float64, rows, cols int) (Handle, error) {
	if rows < 0 || cols < 0 || len(data) != rows*cols {
		return 0, errors.New(errors.KindShape, "buffer length %d does not match %d x %d", len(data), rows, cols)
	}
	cp := make([]float64, len(data))
	copy(cp, data)
	return e.core.Handles().Create(value.Tensor{Shape: []int{rows, cols}, Data: cp}), nil
}

// GetVectorData returns the data backing a Vector handle. Per §6.2's memory
// contract, the returned slice is only valid until the next call that
// mutates or releases h; callers that need to keep data must copy it out.
func (e *Engine) GetVectorData(h Handle) ([]float64, error) {
	v, err := e.core.Handles().Get(h)
	if err != nil {
		return nil, err
	}
	vec, ok := value.Deref(v).(value.Vector)
	if !ok {
		return nil, errors.New(errors.KindTypeMismatch, "handle %d does not hold a Vector, got %s", h, value.TypeName(v))
	}
	return vec.Data, nil
}

// GetMatrixData returns the row-major data, row count, and column count
// backing a rank-2 Tensor handle, under the same pointer-lifetime contract
// as GetVectorData.
func (e *Engine) GetMatrixData(h Handle) (data []float64, rows, cols int, err error) {
	v, err := e.core.Handles().Get(h)
	if err != nil {
		return nil, 0, 0, err
	}
	t, ok := value.Deref(v).(value.Tensor)
	if !ok || t.Rank() != 2 {
		return nil, 0, 0, errors.New(errors.KindTypeMismatch, "handle %d does not hold a rank-2 Tensor", h)
	}
	return t.Data, t.Shape[0], t.Shape[1], nil
}

// CopyVectorToBuffer copies up to len(dest) elements of h's Vector data into dest,
// returning the number of elements actually copied.
func (e *Engine) CopyVectorToBuffer(h Handle, dest []float64) (int, error) {
	data, err := e.GetVectorData(h)
	if err != nil {
		return 0, err
	}
	n := copy(dest, data)
	return n, nil
}

// Release, IsValid, Clone and TypeOf forward directly to the handle table
// (§4.6); Release is idempotent, matching the table's own contract.
func (e *Engine) Release(h Handle)          { e.core.Handles().Release(h) }
func (e *Engine) IsValid(h Handle) bool     { return e.core.Handles().IsValid(h) }
func (e *Engine) Clone(h Handle) (Handle, error) { return e.core.Handles().Clone(h) }

// TypeOf returns the name of the Kind stored at h.
func (e *Engine) TypeOf(h Handle) (string, error) {
	k, err := e.core.Handles().TypeOf(h)
	if err != nil {
		return "", err
	}
	return k.String(), nil
}

// BindVariableToHandle defines name in the global environment as a copy of
// the Value stored at h.
func (e *Engine) BindVariableToHandle(name string, h Handle) error {
	v, err := e.core.Handles().Get(h)
	if err != nil {
		return err
	}
	e.core.Global().DefineOrReplace(name, v)
	return nil
}

// CreateHandleFromVariable reads name from the global environment and
// stores a clone of it in the handle table: the handle never aliases the
// environment slot, matching §4.6's "stores a clone" contract.
func (e *Engine) CreateHandleFromVariable(name string) (Handle, error) {
	v, ok := e.core.Global().Lookup(name)
	if !ok {
		return 0, errors.New(errors.KindUndefined, "undefined variable %q", name)
	}
	h := e.core.Handles().Create(value.Deref(v))
	defer e.core.Handles().Release(h)
	return e.core.Handles().Clone(h)
}

// --- §4.7 Fast-path kernels, exposed over handles -------------------------

func (e *Engine) VAdd(a, b Handle) (Handle, error) { return kernel.VAdd(e.core.Handles(), a, b) }
func (e *Engine) VSub(a, b Handle) (Handle, error) { return kernel.VSub(e.core.Handles(), a, b) }
func (e *Engine) VMul(a, b Handle) (Handle, error) { return kernel.VMul(e.core.Handles(), a, b) }
func (e *Engine) VDiv(a, b Handle) (Handle, error) { return kernel.VDiv(e.core.Handles(), a, b) }
func (e *Engine) VScale(a Handle, scalar float64) (Handle, error) {
	return kernel.VScale(e.core.Handles(), a, scalar)
}
func (e *Engine) Dot(a, b Handle) (float64, error)  { return kernel.Dot(e.core.Handles(), a, b) }
func (e *Engine) Norm(a Handle) (float64, error)    { return kernel.Norm(e.core.Handles(), a) }
func (e *Engine) Sin(a Handle) (Handle, error)       { return kernel.Sin(e.core.Handles(), a) }
func (e *Engine) Cos(a Handle) (Handle, error)       { return kernel.Cos(e.core.Handles(), a) }
func (e *Engine) Tan(a Handle) (Handle, error)       { return kernel.Tan(e.core.Handles(), a) }
func (e *Engine) Exp(a Handle) (Handle, error)       { return kernel.Exp(e.core.Handles(), a) }
func (e *Engine) Ln(a Handle) (Handle, error)        { return kernel.Ln(e.core.Handles(), a) }
func (e *Engine) Abs(a Handle) (Handle, error)       { return kernel.Abs(e.core.Handles(), a) }
func (e *Engine) Sqrt(a Handle) (Handle, error)      { return kernel.Sqrt(e.core.Handles(), a) }
func (e *Engine) FFT(a Handle) (Handle, error)       { return kernel.FFT(e.core.Handles(), a) }
func (e *Engine) IFFT(a Handle) (Handle, error)      { return kernel.IFFT(e.core.Handles(), a) }
func (e *Engine) FFTMag(a Handle) (Handle, error)    { return kernel.FFTMag(e.core.Handles(), a) }
func (e *Engine) FFTPhase(a Handle) (Handle, error)  { return kernel.FFTPhase(e.core.Handles(), a) }
func (e *Engine) FFTSpectrum(a Handle) (Handle, error) {
	return kernel.FFTSpectrum(e.core.Handles(), a)
}
func (e *Engine) FFTShift(a Handle) (Handle, error)  { return kernel.FFTShift(e.core.Handles(), a) }
func (e *Engine) IFFTShift(a Handle) (Handle, error) { return kernel.IFFTShift(e.core.Handles(), a) }
func (e *Engine) Conv(a, b Handle) (Handle, error)   { return kernel.Conv(e.core.Handles(), a, b) }
func (e *Engine) ConvFFT(a, b Handle) (Handle, error) {
	return kernel.ConvFFT(e.core.Handles(), a, b)
}
func (e *Engine) Linspace(start, end float64, n int) (Handle, error) {
	return kernel.Linspace(e.core.Handles(), start, end, n)
}
