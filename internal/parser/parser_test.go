package parser

import (
	"testing"

	"github.com/soc-lang/soc/internal/ast"
	"github.com/soc-lang/soc/internal/lexer"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	l := lexer.New(input)
	p := New(l)
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors for %q: %v", input, p.Errors())
	}
	return prog
}

func TestParsePrecedenceAdditiveMultiplicative(t *testing.T) {
	prog := parse(t, "2 + 3 * 4")
	bin, ok := prog.Statements[0].(*ast.BinaryExpr)
	if !ok || bin.Op != ast.Add {
		t.Fatalf("expected top-level Add, got %#v", prog.Statements[0])
	}
	rhs, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || rhs.Op != ast.Mul {
		t.Fatalf("expected right operand Mul, got %#v", bin.Right)
	}
}

func TestParsePowerRightAssociative(t *testing.T) {
	prog := parse(t, "2 ^ 3 ^ 2")
	bin := prog.Statements[0].(*ast.BinaryExpr)
	if bin.Op != ast.Pow {
		t.Fatalf("expected Pow, got %v", bin.Op)
	}
	right := bin.Right.(*ast.BinaryExpr)
	if right.Op != ast.Pow {
		t.Fatalf("expected nested Pow on the right (right-assoc), got %#v", bin.Right)
	}
}

func TestParseUnaryLowerThanPower(t *testing.T) {
	prog := parse(t, "-2^2")
	neg := prog.Statements[0].(*ast.UnaryExpr)
	if neg.Op != ast.Neg {
		t.Fatalf("expected Neg, got %v", neg.Op)
	}
	if _, ok := neg.Operand.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected -(2^2), got %#v", neg.Operand)
	}
}

func TestParseLogicalGrouping(t *testing.T) {
	prog := parse(t, "a && b || c")
	or := prog.Statements[0].(*ast.BinaryExpr)
	if or.Op != ast.Or {
		t.Fatalf("expected top-level Or, got %v", or.Op)
	}
	if and, ok := or.Left.(*ast.BinaryExpr); !ok || and.Op != ast.And {
		t.Fatalf("expected (a && b) on the left, got %#v", or.Left)
	}
}

func TestParseSingleParamLambda(t *testing.T) {
	prog := parse(t, "x => x * 2")
	lam := prog.Statements[0].(*ast.Lambda)
	if len(lam.Params) != 1 || lam.Params[0] != "x" {
		t.Fatalf("got params %v", lam.Params)
	}
}

func TestParseMultiParamLambda(t *testing.T) {
	prog := parse(t, "(a, b) => a + b")
	lam := prog.Statements[0].(*ast.Lambda)
	if len(lam.Params) != 2 || lam.Params[0] != "a" || lam.Params[1] != "b" {
		t.Fatalf("got params %v", lam.Params)
	}
}

func TestParseGroupedExpressionIsNotLambda(t *testing.T) {
	prog := parse(t, "(1 + 2) * 3")
	bin := prog.Statements[0].(*ast.BinaryExpr)
	if bin.Op != ast.Mul {
		t.Fatalf("expected Mul at top level, got %v", bin.Op)
	}
}

func TestParseZeroParamLambda(t *testing.T) {
	prog := parse(t, "() => 42")
	lam := prog.Statements[0].(*ast.Lambda)
	if len(lam.Params) != 0 {
		t.Fatalf("got params %v", lam.Params)
	}
}

func TestParseIndexAndSlice(t *testing.T) {
	prog := parse(t, "a[1, 2:4, :]")
	idx := prog.Statements[0].(*ast.IndexAccess)
	if len(idx.Args) != 3 {
		t.Fatalf("got %d index args", len(idx.Args))
	}
	if idx.Args[0].Slice {
		t.Fatalf("arg 0 should be a plain index")
	}
	if !idx.Args[1].Slice || idx.Args[1].FullAxis {
		t.Fatalf("arg 1 should be a bounded slice")
	}
	if !idx.Args[2].Slice || !idx.Args[2].FullAxis {
		t.Fatalf("arg 2 should be a full-axis slice")
	}
}

func TestParseFieldAccessAndCall(t *testing.T) {
	prog := parse(t, "f(1, 2).field")
	fa := prog.Statements[0].(*ast.FieldAccess)
	if fa.Field != "field" {
		t.Fatalf("got field %q", fa.Field)
	}
	if _, ok := fa.Target.(*ast.FunctionCall); !ok {
		t.Fatalf("expected call target, got %#v", fa.Target)
	}
}

func TestParseRecordLiteralWithSpread(t *testing.T) {
	prog := parse(t, "{ a: 1, ...other, mut b: 2 }")
	rec := prog.Statements[0].(*ast.RecordLiteral)
	if len(rec.Fields) != 3 {
		t.Fatalf("got %d fields", len(rec.Fields))
	}
	if !rec.Fields[1].Spread {
		t.Fatalf("expected field 1 to be a spread")
	}
	if !rec.Fields[2].Mutable || rec.Fields[2].Name != "b" {
		t.Fatalf("expected mutable field b, got %#v", rec.Fields[2])
	}
}

func TestParseDuplicateRecordFieldIsReported(t *testing.T) {
	l := lexer.New("{ a: 1, a: 2 }")
	p := New(l)
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatalf("expected a duplicate-field parse error")
	}
}

func TestParseArrayLiteralWithSpread(t *testing.T) {
	prog := parse(t, "[1, ...rest, 3]")
	arr := prog.Statements[0].(*ast.ArrayLiteral)
	if len(arr.Elements) != 3 {
		t.Fatalf("got %d elements", len(arr.Elements))
	}
	if !arr.Elements[1].Spread {
		t.Fatalf("expected element 1 to be a spread")
	}
}

func TestParseDoBlock(t *testing.T) {
	prog := parse(t, "do { let x = 1; x + 1 }")
	db := prog.Statements[0].(*ast.DoBlock)
	if len(db.Body.Items) != 2 {
		t.Fatalf("got %d items", len(db.Body.Items))
	}
}

func TestParseComplexLiteral(t *testing.T) {
	prog := parse(t, "3 + 4i")
	bin := prog.Statements[0].(*ast.BinaryExpr)
	c, ok := bin.Right.(*ast.ComplexLiteral)
	if !ok || c.Im != 4 {
		t.Fatalf("expected complex literal 4i on the right, got %#v", bin.Right)
	}
}

func TestParseAssignmentRightAssociative(t *testing.T) {
	prog := parse(t, "a = b = 1")
	assign := prog.Statements[0].(*ast.Assignment)
	if _, ok := assign.Value.(*ast.Assignment); !ok {
		t.Fatalf("expected nested assignment on the right, got %#v", assign.Value)
	}
}

func TestParseErrorsAreTypedAndActionable(t *testing.T) {
	l := lexer.New("let = 1")
	p := New(l)
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatalf("expected a parse error")
	}
	pe := p.Errors()[0]
	if pe.Expected == "" {
		t.Fatalf("expected a non-empty Expected field")
	}
}
