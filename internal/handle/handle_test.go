package handle

import (
	"testing"

	"github.com/soc-lang/soc/internal/errors"
	"github.com/soc-lang/soc/internal/value"
)

func TestCreateAndGet(t *testing.T) {
	tb := New()
	h := tb.Create(value.Number(42))
	v, err := tb.Get(h)
	if err != nil {
		t.Fatal(err)
	}
	if v != value.Number(42) {
		t.Fatalf("got %v", v)
	}
}

func TestHandlesAreNeverReused(t *testing.T) {
	tb := New()
	a := tb.Create(value.Number(1))
	tb.Release(a)
	b := tb.Create(value.Number(2))
	if a == b {
		t.Fatalf("expected a fresh handle, got reused id %d", b)
	}
}

func TestGetUnknownHandleErrors(t *testing.T) {
	tb := New()
	_, err := tb.Get(999)
	if !errors.Is(err, errors.KindHandleInvalid) {
		t.Fatalf("expected HandleInvalid, got %v", err)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	tb := New()
	h := tb.Create(value.Number(1))
	tb.Release(h)
	tb.Release(h) // must not panic
	if tb.IsValid(h) {
		t.Fatalf("handle should be invalid after release")
	}
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	tb := New()
	h := tb.Create(value.Vector{Data: []float64{1, 2, 3}})
	clone, err := tb.Clone(h)
	if err != nil {
		t.Fatal(err)
	}
	if clone == h {
		t.Fatalf("clone must be a distinct handle")
	}

	orig, _ := tb.Get(h)
	origVec := orig.(value.Vector)
	origVec.Data[0] = 99

	clonedVal, _ := tb.Get(clone)
	clonedVec := clonedVal.(value.Vector)
	if clonedVec.Data[0] == 99 {
		t.Fatalf("clone shares backing array with original, wanted independent copy")
	}
}

func TestCloneOfMutableRefDoesNotAliasCell(t *testing.T) {
	tb := New()
	ref := value.NewMutableRef(value.Number(1))
	h := tb.Create(ref)
	clone, err := tb.Clone(h)
	if err != nil {
		t.Fatal(err)
	}

	origRef, _ := tb.Get(h)
	origRef.(value.MutableRef).Set(value.Number(2))

	clonedVal, _ := tb.Get(clone)
	clonedRef := clonedVal.(value.MutableRef)
	if clonedRef.Get() != value.Number(1) {
		t.Fatalf("cloned MutableRef must not observe writes to the original cell")
	}
}

func TestTypeOf(t *testing.T) {
	tb := New()
	h := tb.Create(value.Boolean(true))
	k, err := tb.TypeOf(h)
	if err != nil {
		t.Fatal(err)
	}
	if k != value.KindBoolean {
		t.Fatalf("got %v", k)
	}
}
