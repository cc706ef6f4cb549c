package env

import (
	"testing"

	"github.com/soc-lang/soc/internal/errors"
	"github.com/soc-lang/soc/internal/value"
)

func TestDefineAndLookup(t *testing.T) {
	e := New()
	if err := e.Define("x", value.Number(1)); err != nil {
		t.Fatal(err)
	}
	v, ok := e.Lookup("x")
	if !ok || v != value.Number(1) {
		t.Fatalf("got %v, %v", v, ok)
	}
}

func TestRedefineInSameScopeErrors(t *testing.T) {
	e := New()
	_ = e.Define("x", value.Number(1))
	err := e.Define("x", value.Number(2))
	if !errors.Is(err, errors.KindRedefined) {
		t.Fatalf("expected Redefined, got %v", err)
	}
}

func TestChildScopeShadowsParent(t *testing.T) {
	parent := New()
	_ = parent.Define("x", value.Number(1))
	child := parent.PushScope()
	_ = child.Define("x", value.Number(2))

	v, _ := child.Lookup("x")
	if v != value.Number(2) {
		t.Fatalf("expected shadowed value 2, got %v", v)
	}
	pv, _ := parent.Lookup("x")
	if pv != value.Number(1) {
		t.Fatalf("expected parent value unaffected, got %v", pv)
	}
}

func TestLookupWalksParentChain(t *testing.T) {
	parent := New()
	_ = parent.Define("x", value.Number(42))
	child := parent.PushScope().PushScope()
	v, ok := child.Lookup("x")
	if !ok || v != value.Number(42) {
		t.Fatalf("got %v, %v", v, ok)
	}
}

func TestSetMutatesMutableBinding(t *testing.T) {
	e := New()
	_ = e.Define("x", value.NewMutableRef(value.Number(1)))
	if err := e.Set("x", value.Number(2)); err != nil {
		t.Fatal(err)
	}
	v, _ := e.Lookup("x")
	if value.Deref(v) != value.Number(2) {
		t.Fatalf("got %v", value.Deref(v))
	}
}

func TestSetOnImmutableErrors(t *testing.T) {
	e := New()
	_ = e.Define("x", value.Number(1))
	err := e.Set("x", value.Number(2))
	if !errors.Is(err, errors.KindImmutable) {
		t.Fatalf("expected Immutable, got %v", err)
	}
}

func TestSetUndefinedErrors(t *testing.T) {
	e := New()
	err := e.Set("nope", value.Number(1))
	if !errors.Is(err, errors.KindUndefined) {
		t.Fatalf("expected Undefined, got %v", err)
	}
}

func TestSetFromChildFindsParentMutable(t *testing.T) {
	parent := New()
	_ = parent.Define("x", value.NewMutableRef(value.Number(1)))
	child := parent.PushScope()
	if err := child.Set("x", value.Number(7)); err != nil {
		t.Fatal(err)
	}
	v, _ := parent.Lookup("x")
	if value.Deref(v) != value.Number(7) {
		t.Fatalf("got %v", value.Deref(v))
	}
}

func TestClosureCaptureSharesEnvironmentByReference(t *testing.T) {
	// snapshot_for_closure is modeled simply as handing out the *Environment
	// pointer itself (sharing, not copying) — PushScope's child is O(1) and
	// any later Set against the parent is visible through it.
	parent := New()
	_ = parent.Define("x", value.NewMutableRef(value.Number(10)))
	closureEnv := parent // shared by reference, as a lambda's closure would capture it

	_ = parent.Set("x", value.Number(20))
	v, _ := closureEnv.Lookup("x")
	if value.Deref(v) != value.Number(20) {
		t.Fatalf("expected closure to observe mutation through shared env, got %v", value.Deref(v))
	}
}
