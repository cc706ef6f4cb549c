package kernel

import (
	"math"
	"math/cmplx"

	"github.com/soc-lang/soc/internal/errors"
	"github.com/soc-lang/soc/internal/handle"
	"github.com/soc-lang/soc/internal/value"
)

// complexDataOf reads the Value at h, returning its samples as complex128 regardless of
// whether the handle holds a real Vector or a ComplexVector.
func complexDataOf(t *handle.Table, h handle.Handle) ([]complex128, error) {
	v, err := t.Get(h)
	if err != nil {
		return nil, err
	}
	switch x := value.Deref(v).(type) {
	case value.Vector:
		out := make([]complex128, len(x.Data))
		for i, r := range x.Data {
			out[i] = complex(r, 0)
		}
		return out, nil
	case value.ComplexVector:
		out := make([]complex128, x.Len())
		for i := 0; i < x.Len(); i++ {
			c := x.At(i)
			out[i] = complex(c.Re, c.Im)
		}
		return out, nil
	default:
		return nil, errors.New(errors.KindTypeMismatch, "expected Vector or ComplexVector handle, got %s", value.TypeName(v))
	}
}

func storeComplex(t *handle.Table, data []complex128) handle.Handle {
	flat := make([]float64, len(data)*2)
	for i, c := range data {
		flat[2*i] = real(c)
		flat[2*i+1] = imag(c)
	}
	return t.Create(value.ComplexVector{Data: flat})
}

// dft is a direct O(n^2) discrete Fourier transform. SOC deliberately does
// not implement a radix-2 FFT: the specification scopes "concrete numeric
// algorithms for FFT" out of the core and only asks for the interface
// contract, so the simplest correct realisation is used (see DESIGN.md).
func dft(data []complex128, inverse bool) []complex128 {
	n := len(data)
	out := make([]complex128, n)
	if n == 0 {
		return out
	}
	sign := -1.0
	if inverse {
		sign = 1.0
	}
	for k := 0; k < n; k++ {
		var sum complex128
		for j := 0; j < n; j++ {
			angle := sign * 2 * math.Pi * float64(k) * float64(j) / float64(n)
			sum += data[j] * cmplx.Rect(1, angle)
		}
		if inverse {
			sum /= complex(float64(n), 0)
		}
		out[k] = sum
	}
	return out
}

// FFT computes the forward discrete Fourier transform of a (Complex)Vector
// handle, returning a fresh ComplexVector handle. An empty input yields an
// empty ComplexVector (§8.2 boundary behaviour).
func FFT(t *handle.Table, a handle.Handle) (handle.Handle, error) {
	data, err := complexDataOf(t, a)
	if err != nil {
		return 0, err
	}
	return storeComplex(t, dft(data, false)), nil
}

// IFFT computes the inverse discrete Fourier transform.
func IFFT(t *handle.Table, a handle.Handle) (handle.Handle, error) {
	data, err := complexDataOf(t, a)
	if err != nil {
		return 0, err
	}
	return storeComplex(t, dft(data, true)), nil
}

// FFTMag returns the per-bin magnitude of a's forward transform as a Vector.
func FFTMag(t *handle.Table, a handle.Handle) (handle.Handle, error) {
	data, err := complexDataOf(t, a)
	if err != nil {
		return 0, err
	}
	spec := dft(data, false)
	out := make([]float64, len(spec))
	for i, c := range spec {
		out[i] = cmplx.Abs(c)
	}
	return t.Create(value.Vector{Data: out}), nil
}

// FFTPhase returns the per-bin phase angle (radians) of a's forward
// transform as a Vector.
func FFTPhase(t *handle.Table, a handle.Handle) (handle.Handle, error) {
	data, err := complexDataOf(t, a)
	if err != nil {
		return 0, err
	}
	spec := dft(data, false)
	out := make([]float64, len(spec))
	for i, c := range spec {
		out[i] = cmplx.Phase(c)
	}
	return t.Create(value.Vector{Data: out}), nil
}

// FFTSpectrum returns the one-sided magnitude spectrum (bins 0..n/2
// inclusive), the conventional way to inspect a real-valued signal's
// frequency content without the mirrored negative-frequency half.
func FFTSpectrum(t *handle.Table, a handle.Handle) (handle.Handle, error) {
	data, err := complexDataOf(t, a)
	if err != nil {
		return 0, err
	}
	spec := dft(data, false)
	half := len(spec)/2 + 1
	out := make([]float64, half)
	for i := 0; i < half; i++ {
		out[i] = cmplx.Abs(spec[i])
	}
	return t.Create(value.Vector{Data: out}), nil
}

// Conv computes the full direct linear convolution of two real Vectors,
// producing a Vector of length len(a)+len(b)-1.
func Conv(t *handle.Table, a, b handle.Handle) (handle.Handle, error) {
	av, err := vectorOf(t, a)
	if err != nil {
		return 0, err
	}
	bv, err := vectorOf(t, b)
	if err != nil {
		return 0, err
	}
	if len(av.Data) == 0 || len(bv.Data) == 0 {
		return t.Create(value.Vector{Data: []float64{}}), nil
	}
	n := len(av.Data) + len(bv.Data) - 1
	out := make([]float64, n)
	for i, x := range av.Data {
		for j, y := range bv.Data {
			out[i+j] += x * y
		}
	}
	return t.Create(value.Vector{Data: out}), nil
}

// ConvFFT computes the same linear convolution as Conv but via
// zero-padded frequency-domain multiplication (forward transform, pointwise
// multiply, inverse transform, truncate to the real part), exercising the
// same dft() path as the fft family rather than a separate algorithm.
func ConvFFT(t *handle.Table, a, b handle.Handle) (handle.Handle, error) {
	av, err := vectorOf(t, a)
	if err != nil {
		return 0, err
	}
	bv, err := vectorOf(t, b)
	if err != nil {
		return 0, err
	}
	if len(av.Data) == 0 || len(bv.Data) == 0 {
		return t.Create(value.Vector{Data: []float64{}}), nil
	}
	n := len(av.Data) + len(bv.Data) - 1
	size := 1
	for size < n {
		size *= 2
	}
	pa := make([]complex128, size)
	pb := make([]complex128, size)
	for i, x := range av.Data {
		pa[i] = complex(x, 0)
	}
	for i, x := range bv.Data {
		pb[i] = complex(x, 0)
	}
	fa := dft(pa, false)
	fb := dft(pb, false)
	prod := make([]complex128, size)
	for i := range prod {
		prod[i] = fa[i] * fb[i]
	}
	full := dft(prod, true)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = real(full[i])
	}
	return t.Create(value.Vector{Data: out}), nil
}

// FFTShift rearranges a (Complex)Vector so the zero-frequency bin moves to
// the center, matching NumPy's fftshift convention.
func FFTShift(t *handle.Table, a handle.Handle) (handle.Handle, error) {
	return shiftBy(t, a, func(n int) int { return (n + 1) / 2 })
}

// IFFTShift inverts FFTShift; differs from it only for odd lengths.
func IFFTShift(t *handle.Table, a handle.Handle) (handle.Handle, error) {
	return shiftBy(t, a, func(n int) int { return n / 2 })
}

func shiftBy(t *handle.Table, a handle.Handle, splitAt func(int) int) (handle.Handle, error) {
	v, err := t.Get(a)
	if err != nil {
		return 0, err
	}
	switch x := value.Deref(v).(type) {
	case value.Vector:
		n := len(x.Data)
		k := splitAt(n)
		out := append(append([]float64{}, x.Data[k:]...), x.Data[:k]...)
		return t.Create(value.Vector{Data: out}), nil
	case value.ComplexVector:
		n := x.Len()
		k := splitAt(n)
		out := make([]float64, 0, len(x.Data))
		for i := k; i < n; i++ {
			c := x.At(i)
			out = append(out, c.Re, c.Im)
		}
		for i := 0; i < k; i++ {
			c := x.At(i)
			out = append(out, c.Re, c.Im)
		}
		return t.Create(value.ComplexVector{Data: out}), nil
	default:
		return 0, errors.New(errors.KindTypeMismatch, "expected Vector or ComplexVector handle, got %s", value.TypeName(v))
	}
}
