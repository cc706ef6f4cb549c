package interp

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/soc-lang/soc/internal/value"
)

// TestEndToEndScenarios snapshots the canonical text result of each §8.3
// worked example against a fresh Engine, the way the teacher's
// fixture_test.go snapshots whole-program output.
func TestEndToEndScenarios(t *testing.T) {
	scenarios := []struct {
		name   string
		source string
	}{
		{"non_tco_factorial", "let f = n => if(n <= 1, 1, n * f(n - 1)); f(6)"},
		{"tco_factorial", "let fact = (n, acc) => if(n <= 1, acc, fact(n - 1, acc * n)); fact(20, 1)"},
		{"map_double", "map(x => x * 2, [1, 2, 3, 4])"},
		{"filter_then_reduce", "reduce((a, b) => a + b, 0, filter(x => x > 2, [1, 2, 3, 4, 5]))"},
		{"closure_over_immutable", "let x = 10; let f = y => x + y; f(1)"},
		{"closure_over_mutable", "mut x = 10; let f = y => x + y; x = 20; f(1)"},
		{"mutable_alias", "mut a = [1, 2, 3]; let b = a; a[0] = 99; b[0]"},
		{"complex_arithmetic", "(1 + 2i) * (3 - 1i)"},
		{"pipe_composition", "let f = pipe(x => x + 1, x => x * 2); f(3)"},
		{"vector_scale_via_prelude", "map(x => x * 3, [1, 2, 3])"},
		{"piecewise_default", `piecewise((1 > 2, "small"), "big")`},
	}

	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			e := New()
			v, err := e.EvalValue(sc.source)
			if err != nil {
				t.Fatalf("EvalValue(%q) failed: %v", sc.source, err)
			}
			snaps.MatchSnapshot(t, value.Format(v))
		})
	}
}

func TestEndToEndErrorScenariosSnapshotFormattedMessage(t *testing.T) {
	scenarios := []struct {
		name   string
		source string
	}{
		{"arity_mismatch", "let f = (a, b) => a + b; f(1)"},
		{"div_by_zero", "1 / 0"},
		{"undefined_variable", "doesNotExist + 1"},
		{"find_not_found", "find(x => x > 100, [1, 2, 3])"},
	}

	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			e := New()
			_, err := e.EvalValue(sc.source)
			if err == nil {
				t.Fatalf("expected an error for %q", sc.source)
			}
			snaps.MatchSnapshot(t, err.Error())
		})
	}
}
