package errors

import (
	"strings"
	"testing"

	"github.com/soc-lang/soc/internal/token"
)

func TestErrorMessage(t *testing.T) {
	err := New(KindArity, "expected %d arguments, got %d", 2, 1)
	if err.Error() != "Arity: expected 2 arguments, got 1" {
		t.Fatalf("got %q", err.Error())
	}
}

func TestIs(t *testing.T) {
	err := New(KindDivByZero, "division by zero")
	if !Is(err, KindDivByZero) {
		t.Fatal("expected Is to match KindDivByZero")
	}
	if Is(err, KindIndex) {
		t.Fatal("expected Is to not match KindIndex")
	}
}

func TestFormatWithCaret(t *testing.T) {
	src := "let x = 1 / 0"
	err := New(KindDivByZero, "division by zero").At(token.Position{Line: 1, Column: 13}, src)
	out := err.Format(false)
	if !strings.Contains(out, "let x = 1 / 0") {
		t.Fatalf("expected source line in output, got %q", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("expected a caret in output, got %q", out)
	}
}

func TestFormatWithoutPositionFallsBackToError(t *testing.T) {
	err := New(KindInternal, "bug")
	if err.Format(false) != err.Error() {
		t.Fatalf("expected fallback to Error(), got %q", err.Format(false))
	}
}
