package kernel

import (
	"math"
	"testing"

	"github.com/soc-lang/soc/internal/handle"
	"github.com/soc-lang/soc/internal/value"
)

func TestVAddElementwise(t *testing.T) {
	tab := handle.New()
	a := tab.Create(value.Vector{Data: []float64{1, 2, 3}})
	b := tab.Create(value.Vector{Data: []float64{10, 20, 30}})
	r, err := VAdd(tab, a, b)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := tab.Get(r)
	want := []float64{11, 22, 33}
	got := v.(value.Vector).Data
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestVAddLengthMismatchErrors(t *testing.T) {
	tab := handle.New()
	a := tab.Create(value.Vector{Data: []float64{1, 2}})
	b := tab.Create(value.Vector{Data: []float64{1}})
	if _, err := VAdd(tab, a, b); err == nil {
		t.Fatal("expected shape error")
	}
}

func TestDotProduct(t *testing.T) {
	tab := handle.New()
	a := tab.Create(value.Vector{Data: []float64{1, 2, 3}})
	b := tab.Create(value.Vector{Data: []float64{4, 5, 6}})
	got, err := Dot(tab, a, b)
	if err != nil {
		t.Fatal(err)
	}
	if got != 32 {
		t.Fatalf("got %v, want 32", got)
	}
}

func TestLinspaceSinglePoint(t *testing.T) {
	tab := handle.New()
	h, err := Linspace(tab, 3, 9, 1)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := tab.Get(h)
	if v.(value.Vector).Data[0] != 3 {
		t.Fatalf("got %v, want [3]", v)
	}
}

func TestLinspaceEvenSpacing(t *testing.T) {
	tab := handle.New()
	h, _ := Linspace(tab, 0, 10, 5)
	v, _ := tab.Get(h)
	want := []float64{0, 2.5, 5, 7.5, 10}
	got := v.(value.Vector).Data
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestFFTEmptyVectorReturnsEmptyComplexVector(t *testing.T) {
	tab := handle.New()
	a := tab.Create(value.Vector{Data: []float64{}})
	h, err := FFT(tab, a)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := tab.Get(h)
	cv, ok := v.(value.ComplexVector)
	if !ok || cv.Len() != 0 {
		t.Fatalf("expected empty ComplexVector, got %#v", v)
	}
}

func TestFFTMagBinZeroIsSum(t *testing.T) {
	tab := handle.New()
	a := tab.Create(value.Vector{Data: []float64{1, 2, 3, 4, 5, 6, 7, 8}})
	h, err := FFTMag(tab, a)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := tab.Get(h)
	got := v.(value.Vector).Data
	if len(got) != 8 {
		t.Fatalf("expected length 8, got %d", len(got))
	}
	if math.Abs(got[0]-36) > 1e-9 {
		t.Fatalf("bin 0 = %v, want 36", got[0])
	}
}

func TestConvLength(t *testing.T) {
	tab := handle.New()
	a := tab.Create(value.Vector{Data: []float64{1, 2, 3}})
	b := tab.Create(value.Vector{Data: []float64{0, 1}})
	h, err := Conv(tab, a, b)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := tab.Get(h)
	got := v.(value.Vector).Data
	want := []float64{0, 1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestConvFFTMatchesDirectConv(t *testing.T) {
	tab := handle.New()
	a := tab.Create(value.Vector{Data: []float64{1, 2, 3}})
	b := tab.Create(value.Vector{Data: []float64{4, 5}})
	direct, _ := Conv(tab, a, b)
	viaFFT, err := ConvFFT(tab, a, b)
	if err != nil {
		t.Fatal(err)
	}
	dv, _ := tab.Get(direct)
	fv, _ := tab.Get(viaFFT)
	dd := dv.(value.Vector).Data
	fd := fv.(value.Vector).Data
	if len(dd) != len(fd) {
		t.Fatalf("length mismatch: %d vs %d", len(dd), len(fd))
	}
	for i := range dd {
		if math.Abs(dd[i]-fd[i]) > 1e-9 {
			t.Fatalf("mismatch at %d: %v vs %v", i, dd[i], fd[i])
		}
	}
}

func TestSqrtDomainError(t *testing.T) {
	tab := handle.New()
	a := tab.Create(value.Number(-4))
	if _, err := Sqrt(tab, a); err == nil {
		t.Fatal("expected domain error")
	}
}
