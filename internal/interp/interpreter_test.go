package interp

import (
	"testing"

	"github.com/soc-lang/soc/internal/errors"
	"github.com/soc-lang/soc/internal/value"
)

func mustEval(t *testing.T, source string) value.Value {
	t.Helper()
	e := New()
	v, err := e.EvalValue(source)
	if err != nil {
		t.Fatalf("EvalValue(%q) returned error: %v", source, err)
	}
	return v
}

func evalText(t *testing.T, source string) string {
	t.Helper()
	return value.Format(mustEval(t, source))
}

// TestNonTailRecursiveFactorial is the §8.3 non-TCO path: the recursive call
// is an operand of '*', not in tail position, so it recurses normally.
func TestNonTailRecursiveFactorial(t *testing.T) {
	got := evalText(t, "let f = n => if(n <= 1, 1, n * f(n - 1)); f(6)")
	if got != "720" {
		t.Fatalf("got %s, want 720", got)
	}
}

// TestTailRecursiveFactorial is the §8.3 TCO path: fact's self-call is the
// final expression of the if-branch, so the evaluator loops instead of
// recursing — large n should not overflow the Go call stack.
func TestTailRecursiveFactorial(t *testing.T) {
	got := evalText(t, "let fact = (n, acc) => if(n <= 1, acc, fact(n - 1, acc * n)); fact(20, 1)")
	if got != "2432902008176640000" {
		t.Fatalf("got %s, want 2432902008176640000", got)
	}
}

func TestMapOverArray(t *testing.T) {
	got := evalText(t, "map(x => x * 2, [1, 2, 3, 4])")
	if got != "[2, 4, 6, 8]" {
		t.Fatalf("got %s", got)
	}
}

// TestMapOverMultipleSequences covers §4.5.6's "map(fn, seq[, seq2…])"
// parallel-iteration form: fn's arity matches the number of sequences, and
// the result length is the min of the input lengths.
func TestMapOverMultipleSequences(t *testing.T) {
	got := evalText(t, "map((a, b) => a + b, [1, 2, 3], [10, 20, 30, 40])")
	if got != "[11, 22, 33]" {
		t.Fatalf("got %s", got)
	}
}

func TestFilterThenReduce(t *testing.T) {
	got := evalText(t, "reduce((a, b) => a + b, 0, filter(x => x > 2, [1, 2, 3, 4, 5]))")
	if got != "12" {
		t.Fatalf("got %s", got)
	}
}

// TestClosureCapturesImmutableValueAtCaptureTime covers §4.5's "closures
// observe the value at capture time for immutable bindings" invariant.
func TestClosureCapturesImmutableValueAtCaptureTime(t *testing.T) {
	got := evalText(t, "let x = 10; let f = y => x + y; f(1)")
	if got != "11" {
		t.Fatalf("got %s, want 11", got)
	}
}

// TestClosureObservesLatestMutableValue covers the mutable-binding half of
// the same invariant: a closure over a mut binding sees later writes.
func TestClosureObservesLatestMutableValue(t *testing.T) {
	got := evalText(t, "mut x = 10; let f = y => x + y; x = 20; f(1)")
	if got != "21" {
		t.Fatalf("got %s, want 21", got)
	}
}

// TestMutableAliasingSharesCell covers §4.5's "mut a = [1,2,3]; let b = a;
// a[0] = 99; b[0] == 99" example: a non-mutable alias still observes
// mutations through the shared backing array.
func TestMutableAliasingSharesCell(t *testing.T) {
	got := evalText(t, "mut a = [1, 2, 3]; let b = a; a[0] = 99; b[0]")
	if got != "99" {
		t.Fatalf("got %s, want 99", got)
	}
}

func TestArithmeticPromotion(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"1 + 2", "3"},
		{"1 + 2.5", "3.5"},
		{"2 ^ 10", "1024"},
		{"7 % 3", "1"},
		{"(1 + 2i) + (3 + 4i)", "4+6i"},
	}
	for _, tt := range tests {
		got := evalText(t, tt.source)
		if got != tt.want {
			t.Errorf("eval(%q) = %s, want %s", tt.source, got, tt.want)
		}
	}
}

func TestComparisonAndLogic(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"1 < 2", "true"},
		{"1 >= 2", "false"},
		{"true && false", "false"},
		{"true || false", "true"},
		{"!true", "false"},
	}
	for _, tt := range tests {
		got := evalText(t, tt.source)
		if got != tt.want {
			t.Errorf("eval(%q) = %s, want %s", tt.source, got, tt.want)
		}
	}
}

func TestAnyAllCountFind(t *testing.T) {
	if got := evalText(t, "any(x => x > 3, [1, 2, 3, 4])"); got != "true" {
		t.Errorf("any = %s", got)
	}
	if got := evalText(t, "all(x => x > 0, [1, 2, 3, 4])"); got != "true" {
		t.Errorf("all = %s", got)
	}
	if got := evalText(t, "count(x => x % 2 == 0, [1, 2, 3, 4])"); got != "2" {
		t.Errorf("count = %s", got)
	}
	if got := evalText(t, "find(x => x > 2, [1, 2, 3, 4])"); got != "3" {
		t.Errorf("find = %s", got)
	}
}

// TestFindNoMatchReturnsNotFound covers §4.5.6's explicit "First match or
// Err(NotFound)" contract.
func TestFindNoMatchReturnsNotFound(t *testing.T) {
	e := New()
	_, err := e.EvalValue("find(x => x > 100, [1, 2, 3])")
	if !errors.Is(err, errors.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestPipeComposesLeftToRight(t *testing.T) {
	got := evalText(t, "let f = pipe(x => x + 1, x => x * 2); f(3)")
	if got != "8" {
		t.Fatalf("got %s, want 8", got)
	}
}

func TestIndexAssignmentMutatesInPlace(t *testing.T) {
	got := evalText(t, "mut a = [1, 2, 3]; a[1] = 99; a")
	if got != "[1, 99, 3]" {
		t.Fatalf("got %s", got)
	}
}

func TestWrongArityIsArityError(t *testing.T) {
	e := New()
	_, err := e.EvalValue("let f = (a, b) => a + b; f(1)")
	if !errors.Is(err, errors.KindArity) {
		t.Fatalf("expected Arity, got %v", err)
	}
}

func TestUndefinedVariableIsUndefinedError(t *testing.T) {
	e := New()
	_, err := e.EvalValue("doesNotExist + 1")
	if !errors.Is(err, errors.KindUndefined) {
		t.Fatalf("expected Undefined, got %v", err)
	}
}

func TestDivisionByZeroIsDivByZeroError(t *testing.T) {
	e := New()
	_, err := e.EvalValue("1 / 0")
	if !errors.Is(err, errors.KindDivByZero) {
		t.Fatalf("expected DivByZero, got %v", err)
	}
}

// TestResetDropsVariablesButKeepsPrelude exercises §6.1's reset() contract:
// a user-defined binding disappears, but prelude functions remain callable.
func TestResetDropsVariablesButKeepsPrelude(t *testing.T) {
	e := New()
	if _, err := e.EvalValue("let x = 5"); err != nil {
		t.Fatal(err)
	}
	e.Reset()
	_, err := e.EvalValue("x")
	if !errors.Is(err, errors.KindUndefined) {
		t.Fatalf("expected x to be undefined after reset, got %v", err)
	}
	got, err := e.EvalValue("map(x => x, [1])")
	if err != nil {
		t.Fatalf("prelude function unavailable after reset: %v", err)
	}
	if value.Format(got) != "[1]" {
		t.Fatalf("got %s", value.Format(got))
	}
}

// TestStatePersistsAcrossEvalCalls exercises §6.1/§5's "state persists
// until explicitly cleared": successive Eval calls on the same Engine share
// one global environment.
func TestStatePersistsAcrossEvalCalls(t *testing.T) {
	e := New()
	if _, err := e.EvalValue("let x = 5"); err != nil {
		t.Fatal(err)
	}
	v, err := e.EvalValue("x + 1")
	if err != nil {
		t.Fatal(err)
	}
	if value.Format(v) != "6" {
		t.Fatalf("got %s, want 6", value.Format(v))
	}
}

func TestPiecewise(t *testing.T) {
	got := evalText(t, `piecewise((1 < 2, "small"), (true, "big"))`)
	if got != "small" {
		t.Fatalf("got %s", got)
	}
}

func TestPiecewiseFallsThroughToDefault(t *testing.T) {
	got := evalText(t, `piecewise((1 > 2, "small"), "big")`)
	if got != "big" {
		t.Fatalf("got %s", got)
	}
}

// TestEarlyReturnFromNonTailPositionPropagates covers a `return` that
// occurs as a non-final item of a do-block's statement sequence: it must
// short-circuit the enclosing function call rather than being rejected as
// a control sentinel that escaped into a non-tail position.
func TestEarlyReturnFromNonTailPositionPropagates(t *testing.T) {
	got := evalText(t, "let f = x => do { if(x > 0, return 1); return -1 }; f(5)")
	if got != "1" {
		t.Fatalf("got %s, want 1", got)
	}
}

func TestDoBlockReturnsLastExpression(t *testing.T) {
	got := evalText(t, "do { let a = 1; let b = 2; a + b }")
	if got != "3" {
		t.Fatalf("got %s", got)
	}
}
