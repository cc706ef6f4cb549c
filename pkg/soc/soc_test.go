package soc

import "testing"

// TestIntegration_EvalThenHandleRoundTrip exercises the full textual-then-
// handle workflow: evaluate a script, pull its result into the handle
// table, and read it back out through the §6.2 accessors.
func TestIntegration_EvalThenHandleRoundTrip(t *testing.T) {
	e := New()

	if _, err := e.EvalValue("mut v = [1, 2, 3]"); err != nil {
		t.Fatalf("EvalValue failed: %v", err)
	}

	h, err := e.CreateHandleFromVariable("v")
	if err != nil {
		t.Fatalf("CreateHandleFromVariable: %v", err)
	}
	defer e.Release(h)

	data, err := e.GetVectorData(h)
	if err != nil {
		t.Fatalf("GetVectorData: %v", err)
	}
	want := []float64{1, 2, 3}
	for i, w := range want {
		if data[i] != w {
			t.Fatalf("data[%d] = %v, want %v", i, data[i], w)
		}
	}
}

// TestCreateHandleFromVariableClonesRatherThanAliases covers §4.6's "stores
// a clone" contract: mutating the handle's data must not be observable
// through the originating variable.
func TestCreateHandleFromVariableClonesRatherThanAliases(t *testing.T) {
	e := New()
	if _, err := e.EvalValue("mut v = [1, 2, 3]"); err != nil {
		t.Fatalf("EvalValue failed: %v", err)
	}

	h, err := e.CreateHandleFromVariable("v")
	if err != nil {
		t.Fatalf("CreateHandleFromVariable: %v", err)
	}
	defer e.Release(h)

	data, err := e.GetVectorData(h)
	if err != nil {
		t.Fatalf("GetVectorData: %v", err)
	}
	data[0] = 99

	got, err := e.EvalValue("v[0]")
	if err != nil {
		t.Fatalf("EvalValue failed: %v", err)
	}
	if Format(got) != "1" {
		t.Fatalf("variable v observed handle mutation: v[0] = %s, want 1", Format(got))
	}
}

func TestBindVariableToHandleExposesHandleDataToScripts(t *testing.T) {
	e := New()
	h := e.CreateVectorFromBuffer([]float64{4, 5, 6})
	defer e.Release(h)

	if err := e.BindVariableToHandle("w", h); err != nil {
		t.Fatalf("BindVariableToHandle: %v", err)
	}

	got, err := e.EvalValue("w[1]")
	if err != nil {
		t.Fatalf("EvalValue failed: %v", err)
	}
	if Format(got) != "5" {
		t.Fatalf("got %s, want 5", Format(got))
	}
}

func TestCreateVectorFromBufferDoesNotAliasCallerSlice(t *testing.T) {
	e := New()
	buf := []float64{1, 2, 3}
	h := e.CreateVectorFromBuffer(buf)
	defer e.Release(h)

	buf[0] = 999

	data, err := e.GetVectorData(h)
	if err != nil {
		t.Fatalf("GetVectorData: %v", err)
	}
	if data[0] != 1 {
		t.Fatalf("handle aliased caller's buffer: data[0] = %v, want 1", data[0])
	}
}

func TestCloneReleaseIsValid(t *testing.T) {
	e := New()
	h := e.CreateVectorFromBuffer([]float64{1, 2, 3})

	clone, err := e.Clone(h)
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	if !e.IsValid(h) || !e.IsValid(clone) {
		t.Fatalf("expected both handles valid")
	}

	e.Release(h)
	if e.IsValid(h) {
		t.Fatalf("expected h invalid after Release")
	}
	if !e.IsValid(clone) {
		t.Fatalf("expected clone to remain valid after releasing h")
	}
}

func TestVAddAndDot(t *testing.T) {
	e := New()
	a := e.CreateVectorFromBuffer([]float64{1, 2, 3})
	b := e.CreateVectorFromBuffer([]float64{4, 5, 6})
	defer e.Release(a)
	defer e.Release(b)

	sum, err := e.VAdd(a, b)
	if err != nil {
		t.Fatalf("VAdd: %v", err)
	}
	defer e.Release(sum)

	data, err := e.GetVectorData(sum)
	if err != nil {
		t.Fatalf("GetVectorData: %v", err)
	}
	want := []float64{5, 7, 9}
	for i, w := range want {
		if data[i] != w {
			t.Fatalf("sum[%d] = %v, want %v", i, data[i], w)
		}
	}

	dot, err := e.Dot(a, b)
	if err != nil {
		t.Fatalf("Dot: %v", err)
	}
	if dot != 32 {
		t.Fatalf("Dot = %v, want 32", dot)
	}
}

func TestLinspace(t *testing.T) {
	e := New()
	h, err := e.Linspace(0, 1, 5)
	if err != nil {
		t.Fatalf("Linspace: %v", err)
	}
	defer e.Release(h)

	data, err := e.GetVectorData(h)
	if err != nil {
		t.Fatalf("GetVectorData: %v", err)
	}
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	for i, w := range want {
		if data[i] != w {
			t.Fatalf("data[%d] = %v, want %v", i, data[i], w)
		}
	}
}

func TestFormatErrorFallsBackToPlainErrorForNonEngineErrors(t *testing.T) {
	e := New()
	_, err := e.EvalValue("let = 1")
	if err == nil {
		t.Fatal("expected an error")
	}
	msg := FormatError(err, false)
	if msg == "" {
		t.Fatal("expected non-empty formatted error")
	}
}
