package lexer

import (
	"errors"
	"testing"

	"github.com/table-lang/table/internal/diagnostic"
)

func asDiagnostic(t *testing.T, err error) *diagnostic.Error {
	t.Helper()
	var diag *diagnostic.Error
	if !errors.As(err, &diag) {
		t.Fatalf("error is not a diagnostic: %v", err)
	}
	return diag
}

func TestSymbols(t *testing.T) {
	input := `, ( ) { } [ ] < > : ; . + - * / & ' = ==`

	tests := []struct {
		expectedType   TokenType
		expectedLexeme string
	}{
		{TokenComma, ","},
		{TokenLParen, "("},
		{TokenRParen, ")"},
		{TokenLBrace, "{"},
		{TokenRBrace, "}"},
		{TokenLBracket, "["},
		{TokenRBracket, "]"},
		{TokenLAngle, "<"},
		{TokenRAngle, ">"},
		{TokenColon, ":"},
		{TokenSemicolon, ";"},
		{TokenDot, "."},
		{TokenPlus, "+"},
		{TokenMinus, "-"},
		{TokenStar, "*"},
		{TokenSlash, "/"},
		{TokenAmpersand, "&"},
		{TokenApostrophe, "'"},
		{TokenAssign, "="},
		{TokenEq, "=="},
		{TokenEOF, ""},
	}

	l := New(input, "test.tbl")

	for i, tt := range tests {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q",
				i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestKeywords(t *testing.T) {
	input := `if else for while return struct fun let const import interface Self int float str`

	tests := []TokenType{
		TokenIf, TokenElse, TokenFor, TokenWhile, TokenReturn,
		TokenStruct, TokenFun, TokenLet, TokenConst, TokenImport,
		TokenInterface, TokenSelf, TokenInt, TokenFloat, TokenStr,
		TokenEOF,
	}

	l := New(input, "test.tbl")

	for i, expected := range tests {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}
		if tok.Type != expected {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, expected, tok.Type)
		}
	}
}

func TestIdentifiers(t *testing.T) {
	input := `foo _bar baz42 Selfish`

	tests := []string{"foo", "_bar", "baz42", "Selfish"}

	l := New(input, "test.tbl")

	for i, expected := range tests {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}
		if tok.Type != TokenIdent {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, TokenIdent, tok.Type)
		}
		if tok.Value != expected {
			t.Fatalf("tests[%d] - value wrong. expected=%q, got=%q",
				i, expected, tok.Value)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	input := `"a\nb"`

	l := New(input, "test.tbl")
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tok.Type != TokenStrLit {
		t.Fatalf("tokentype wrong. expected=%q, got=%q", TokenStrLit, tok.Type)
	}
	if tok.Value != "a\nb" {
		t.Errorf("decoded value wrong. expected=%q, got=%q", "a\nb", tok.Value)
	}
	if tok.Lexeme != `"a\nb"` {
		t.Errorf("raw lexeme wrong. expected=%q, got=%q", `"a\nb"`, tok.Lexeme)
	}
}

func TestStringEscapeTable(t *testing.T) {
	input := `"\a\b\f\n\r\t\v\\\'\"\e"`

	l := New(input, "test.tbl")
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "\a\b\f\n\r\t\v\\'\"\033"
	if tok.Value != expected {
		t.Errorf("decoded value wrong. expected=%q, got=%q", expected, tok.Value)
	}
}

func TestUnknownEscape(t *testing.T) {
	input := `"oops\q"`

	l := New(input, "test.tbl")
	_, err := l.NextToken()
	if err == nil {
		t.Fatalf("expected error for unknown escape, got none")
	}

	// The diagnostic carries the position of the escape character.
	diag := asDiagnostic(t, err)
	if diag.Pos == nil {
		t.Fatalf("diagnostic has no position")
	}
	if diag.Pos.Column != 6 {
		t.Errorf("diagnostic column wrong. expected=%d, got=%d", 6, diag.Pos.Column)
	}
}

func TestUnterminatedString(t *testing.T) {
	input := `"no closing quote`

	l := New(input, "test.tbl")
	if _, err := l.NextToken(); err == nil {
		t.Fatalf("expected error for unterminated string, got none")
	}
}

func TestFloatLiteralNotImplemented(t *testing.T) {
	input := `1.5`

	l := New(input, "test.tbl")
	_, err := l.NextToken()
	if err == nil {
		t.Fatalf("expected not-implemented error for float literal, got none")
	}

	diag := asDiagnostic(t, err)
	if diag.Message != "not implemented: floating point literals" {
		t.Errorf("message wrong. got=%q", diag.Message)
	}
}

func TestIntLiteral(t *testing.T) {
	input := `12345`

	l := New(input, "test.tbl")
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != TokenIntLit {
		t.Fatalf("tokentype wrong. expected=%q, got=%q", TokenIntLit, tok.Type)
	}
	if tok.Value != "12345" {
		t.Errorf("value wrong. expected=%q, got=%q", "12345", tok.Value)
	}
}

func TestPeekIsIdempotent(t *testing.T) {
	input := `let x`

	l := New(input, "test.tbl")

	first, err := l.Peek()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := l.Peek()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Type != second.Type || first.Lexeme != second.Lexeme || first.Loc != second.Loc {
		t.Fatalf("peek not idempotent: %v vs %v", first, second)
	}

	consumed, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if consumed != first {
		t.Fatalf("consume returned different token than peek: %v vs %v", consumed, first)
	}

	next, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Type != TokenIdent || next.Value != "x" {
		t.Fatalf("lookahead buffer not cleared, got %v", next)
	}
}

func TestExpect(t *testing.T) {
	l := New(`fun main`, "test.tbl")

	if _, err := l.Expect(TokenFun); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.Expect(TokenLParen); err == nil {
		t.Fatalf("expected mismatch error, got none")
	}
}

func TestCommentsAndWhitespace(t *testing.T) {
	input := "# leading comment\n  \t # another\nlet # trailing\nx"

	tests := []TokenType{TokenLet, TokenIdent, TokenEOF}

	l := New(input, "test.tbl")
	for i, expected := range tests {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}
		if tok.Type != expected {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, expected, tok.Type)
		}
	}
}

func TestLocationTracking(t *testing.T) {
	input := "let\nx = 1;"

	tests := []struct {
		expectedType TokenType
		line         int
		column       int
	}{
		{TokenLet, 0, 0},
		{TokenIdent, 1, 0},
		{TokenAssign, 1, 2},
		{TokenIntLit, 1, 4},
		{TokenSemicolon, 1, 5},
	}

	l := New(input, "test.tbl")
	for i, tt := range tests {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}
		if tok.Loc.Line != tt.line || tok.Loc.Column != tt.column {
			t.Errorf("tests[%d] - location wrong. expected=%d.%d, got=%d.%d",
				i, tt.line, tt.column, tok.Loc.Line, tok.Loc.Column)
		}
	}
}

func TestUnexpectedCharacter(t *testing.T) {
	l := New(`@`, "test.tbl")
	if _, err := l.NextToken(); err == nil {
		t.Fatalf("expected error for unexpected character, got none")
	}
}

func TestEOFIsSticky(t *testing.T) {
	l := New(``, "test.tbl")
	for i := 0; i < 3; i++ {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Type != TokenEOF {
			t.Fatalf("expected EOF, got %q", tok.Type)
		}
	}
}
