package lexer

import (
	"testing"

	"github.com/soc-lang/soc/internal/token"
)

func collect(t *testing.T, input string) []token.Token {
	t.Helper()
	l := New(input)
	var toks []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		toks = append(toks, tok)
		if tok.Kind == token.END {
			break
		}
	}
	return toks
}

func TestNextTokenBasic(t *testing.T) {
	input := `let x = 1 + 2 * 3; mut y = [1, 2, 3i];`
	toks := collect(t, input)

	want := []token.Kind{
		token.LET, token.IDENT, token.ASSIGN, token.NUMBER, token.PLUS,
		token.NUMBER, token.STAR, token.NUMBER, token.SEMI,
		token.MUT, token.IDENT, token.ASSIGN, token.LBRACKET,
		token.NUMBER, token.COMMA, token.NUMBER, token.COMMA, token.NUMBER,
		token.RBRACKET, token.SEMI, token.END,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestNextTokenOperators(t *testing.T) {
	toks := collect(t, `== != >= <= && || -> => .. ...`)
	want := []token.Kind{
		token.EQ, token.NEQ, token.GTE, token.LTE, token.AND, token.OR,
		token.ARROW, token.FATARROW, token.DOTDOT, token.SPREAD, token.END,
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestNextTokenScientificNotation(t *testing.T) {
	toks := collect(t, `6.02e23 1.5e-3 2i 3.5i`)
	want := []string{"6.02e23", "1.5e-3", "2i", "3.5i"}
	for i, lit := range want {
		if toks[i].Literal != lit {
			t.Errorf("token %d: got %q, want %q", i, toks[i].Literal, lit)
		}
	}
}

func TestNextTokenStringEscapes(t *testing.T) {
	toks := collect(t, `"hello\nworld" "a\"b"`)
	if toks[0].Literal != "hello\nworld" {
		t.Errorf("got %q", toks[0].Literal)
	}
	if toks[1].Literal != `a"b` {
		t.Errorf("got %q", toks[1].Literal)
	}
}

func TestNextTokenComments(t *testing.T) {
	toks := collect(t, "1 // comment\n+ /* block */ 2")
	want := []token.Kind{token.NUMBER, token.PLUS, token.NUMBER, token.END}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestNextTokenUnterminatedString(t *testing.T) {
	l := New(`"unterminated`)
	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected lex error for unterminated string")
	}
}

func TestNextTokenIllegalChar(t *testing.T) {
	l := New(`@`)
	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected lex error for illegal character")
	}
}

func TestNextTokenUnicodeIdentifiers(t *testing.T) {
	toks := collect(t, `let Δ = 1`)
	if toks[1].Literal != "Δ" {
		t.Errorf("got %q", toks[1].Literal)
	}
}
