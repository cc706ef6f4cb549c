package interp

import (
	"math"

	"github.com/soc-lang/soc/internal/errors"
	"github.com/soc-lang/soc/internal/handle"
	"github.com/soc-lang/soc/internal/kernel"
	"github.com/soc-lang/soc/internal/value"
)

// dspModule wraps the C9 handle-based DSP kernels as language-level native
// functions operating directly on Values: each call mints a transient
// handle, delegates to internal/kernel, reads the result back out, and
// releases both. Visible to scripts only after `import "dsp"` merges these
// bindings into the global environment (§4.5.7).
func dspModule(handles *handle.Table) map[string]value.Value {
	unary := func(kfn func(*handle.Table, handle.Handle) (handle.Handle, error)) value.Function {
		return native("dsp", 1, func(args []value.Value) (value.Value, error) {
			in := handles.Create(value.Deref(args[0]))
			defer handles.Release(in)
			out, err := kfn(handles, in)
			if err != nil {
				return nil, err
			}
			defer handles.Release(out)
			return handles.Get(out)
		})
	}
	binary := func(kfn func(*handle.Table, handle.Handle, handle.Handle) (handle.Handle, error)) value.Function {
		return native("dsp", 2, func(args []value.Value) (value.Value, error) {
			a := handles.Create(value.Deref(args[0]))
			b := handles.Create(value.Deref(args[1]))
			defer handles.Release(a)
			defer handles.Release(b)
			out, err := kfn(handles, a, b)
			if err != nil {
				return nil, err
			}
			defer handles.Release(out)
			return handles.Get(out)
		})
	}

	return map[string]value.Value{
		"fft":         unary(kernel.FFT),
		"ifft":        unary(kernel.IFFT),
		"fft_mag":     unary(kernel.FFTMag),
		"fft_phase":   unary(kernel.FFTPhase),
		"fft_spectrum": unary(kernel.FFTSpectrum),
		"fftshift":    unary(kernel.FFTShift),
		"ifftshift":   unary(kernel.IFFTShift),
		"conv":        binary(kernel.Conv),
		"conv_fft":    binary(kernel.ConvFFT),
		"linspace": native("linspace", 3, func(args []value.Value) (value.Value, error) {
			start, ok1 := value.Deref(args[0]).(value.Number)
			end, ok2 := value.Deref(args[1]).(value.Number)
			n, ok3 := value.Deref(args[2]).(value.Number)
			if !ok1 || !ok2 || !ok3 {
				return nil, errors.New(errors.KindTypeMismatch, "linspace expects three Numbers")
			}
			h, err := kernel.Linspace(handles, float64(start), float64(end), int(n))
			if err != nil {
				return nil, err
			}
			defer handles.Release(h)
			return handles.Get(h)
		}),
	}
}

// statsModule implements §4.5.6-adjacent descriptive statistics directly
// against Values (no handle indirection needed — these never touch the
// zero-copy fast path).
func statsModule() map[string]value.Value {
	dataOf := func(v value.Value) ([]float64, error) {
		elems, ok := value.Elements(v)
		if !ok {
			return nil, errors.New(errors.KindTypeMismatch, "expected a numeric sequence, got %s", value.TypeName(v))
		}
		out := make([]float64, len(elems))
		for i, el := range elems {
			n, ok := value.Deref(el).(value.Number)
			if !ok {
				return nil, errors.New(errors.KindTypeMismatch, "expected a Number element, got %s", value.TypeName(el))
			}
			out[i] = float64(n)
		}
		return out, nil
	}

	mean := func(data []float64) float64 {
		var sum float64
		for _, x := range data {
			sum += x
		}
		if len(data) == 0 {
			return 0
		}
		return sum / float64(len(data))
	}

	return map[string]value.Value{
		"sum": native("sum", 1, func(args []value.Value) (value.Value, error) {
			data, err := dataOf(args[0])
			if err != nil {
				return nil, err
			}
			var sum float64
			for _, x := range data {
				sum += x
			}
			return value.Number(sum), nil
		}),
		"mean": native("mean", 1, func(args []value.Value) (value.Value, error) {
			data, err := dataOf(args[0])
			if err != nil {
				return nil, err
			}
			if len(data) == 0 {
				return nil, errors.New(errors.KindDomainError, "mean of an empty sequence is undefined")
			}
			return value.Number(mean(data)), nil
		}),
		"variance": native("variance", 1, func(args []value.Value) (value.Value, error) {
			data, err := dataOf(args[0])
			if err != nil {
				return nil, err
			}
			if len(data) == 0 {
				return nil, errors.New(errors.KindDomainError, "variance of an empty sequence is undefined")
			}
			m := mean(data)
			var sum float64
			for _, x := range data {
				d := x - m
				sum += d * d
			}
			return value.Number(sum / float64(len(data))), nil
		}),
		"stddev": native("stddev", 1, func(args []value.Value) (value.Value, error) {
			data, err := dataOf(args[0])
			if err != nil {
				return nil, err
			}
			if len(data) == 0 {
				return nil, errors.New(errors.KindDomainError, "stddev of an empty sequence is undefined")
			}
			m := mean(data)
			var sum float64
			for _, x := range data {
				d := x - m
				sum += d * d
			}
			return value.Number(math.Sqrt(sum / float64(len(data)))), nil
		}),
		"min": native("min", 1, func(args []value.Value) (value.Value, error) {
			data, err := dataOf(args[0])
			if err != nil {
				return nil, err
			}
			if len(data) == 0 {
				return nil, errors.New(errors.KindDomainError, "min of an empty sequence is undefined")
			}
			m := data[0]
			for _, x := range data[1:] {
				if x < m {
					m = x
				}
			}
			return value.Number(m), nil
		}),
		"max": native("max", 1, func(args []value.Value) (value.Value, error) {
			data, err := dataOf(args[0])
			if err != nil {
				return nil, err
			}
			if len(data) == 0 {
				return nil, errors.New(errors.KindDomainError, "max of an empty sequence is undefined")
			}
			m := data[0]
			for _, x := range data[1:] {
				if x > m {
					m = x
				}
			}
			return value.Number(m), nil
		}),
	}
}
