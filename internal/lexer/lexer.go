// Package lexer implements the Table lexical analyzer: a stateful scan over a
// whole source text with one-token lookahead.
package lexer

import (
	"os"

	"github.com/table-lang/table/internal/diagnostic"
	"github.com/table-lang/table/internal/position"
)

// escapes maps the character following a backslash in a string literal to the
// character it decodes to.
var escapes = map[byte]byte{
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	'e':  '\033',
}

// Lexer represents the lexical analyzer. A lexer owns exclusive, sequential
// access to its source text and cursor state; it is not safe for concurrent
// use.
type Lexer struct {
	contents string
	ch       byte // current char under examination, 0 means end of input
	loc      position.Position
	peeked   *Token // buffered token for one-token lookahead
}

// New creates a new lexer over the given source text.
func New(input, filename string) *Lexer {
	l := &Lexer{
		contents: input,
		loc:      position.Position{Filename: filename},
	}
	if len(input) > 0 {
		l.ch = input[0]
	}
	return l
}

// NewFromFile creates a new lexer by reading the whole file into memory. A
// missing or unreadable file is reported before any tokenizing begins.
func NewFromFile(filename string) (*Lexer, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return nil, diagnostic.Newf("could not open file %s", filename)
	}
	return New(string(contents), filename), nil
}

// advance moves the lexer forward by one character, updating line and column
// bookkeeping. Advancing past end of input is a no-op.
func (l *Lexer) advance() {
	if l.ch == 0 {
		return
	}
	if l.contents[l.loc.Offset] == '\n' {
		l.loc.Line++
		l.loc.Column = -1
	}

	l.loc.Offset++
	l.loc.Column++

	if l.loc.Offset == len(l.contents) {
		l.ch = 0
	} else {
		l.ch = l.contents[l.loc.Offset]
	}
}

// skipWhitespace skips one run of whitespace characters.
func (l *Lexer) skipWhitespace() {
	for l.ch != 0 && isSpace(l.ch) {
		l.advance()
	}
}

// skipComment skips one line comment, leaving the cursor on the newline.
func (l *Lexer) skipComment() {
	for l.ch != 0 && l.ch != '\n' {
		l.advance()
	}
}

// skipWhitespaceAndComments alternates between the two skips until the current
// character starts neither, so mixed runs are fully consumed before a token
// starts.
func (l *Lexer) skipWhitespaceAndComments() {
	for l.ch != 0 {
		if isSpace(l.ch) {
			l.skipWhitespace()
		} else if l.ch == '#' {
			l.skipComment()
		} else {
			break
		}
	}
}

// consumeString consumes a string literal starting at the opening quote. The
// token's Value holds the decoded text; its Lexeme is the raw quoted source.
func (l *Lexer) consumeString(loc position.Position) (Token, error) {
	start := l.loc.Offset
	terminated := false
	var decoded []byte

	l.advance() // opening quote

	for l.ch != 0 {
		if l.ch == '"' {
			l.advance()
			terminated = true
			break
		} else if l.ch == '\\' {
			l.advance()
			if l.ch == 0 {
				return Token{}, diagnostic.At(l.loc, "unexpected EOF")
			}
			decodedCh, ok := escapes[l.ch]
			if !ok {
				return Token{}, diagnostic.Atf(l.loc, "unknown escaped character: \\%c", l.ch)
			}
			decoded = append(decoded, decodedCh)
		} else {
			decoded = append(decoded, l.ch)
		}
		l.advance()
	}

	if !terminated {
		return Token{}, diagnostic.At(l.loc, "unexpected EOF")
	}

	return Token{
		Type:   TokenStrLit,
		Loc:    loc,
		Lexeme: l.contents[start:l.loc.Offset],
		Value:  string(decoded),
	}, nil
}

// consumeNumber consumes a maximal run of digits. Floating point literals are
// not implemented; a '.' inside the run is a fatal diagnostic, not a float.
func (l *Lexer) consumeNumber(loc position.Position) (Token, error) {
	start := l.loc.Offset
	for l.ch != 0 && (isDigit(l.ch) || l.ch == '.') {
		if l.ch == '.' {
			return Token{}, diagnostic.At(l.loc, "not implemented: floating point literals")
		}
		l.advance()
	}
	text := l.contents[start:l.loc.Offset]
	return Token{Type: TokenIntLit, Loc: loc, Lexeme: text, Value: text}, nil
}

// consumeIdent consumes a maximal run of alphanumeric/underscore characters
// and looks the text up in the keyword table.
func (l *Lexer) consumeIdent(loc position.Position) Token {
	start := l.loc.Offset
	for l.ch != 0 && (isLetter(l.ch) || isDigit(l.ch) || l.ch == '_') {
		l.advance()
	}
	text := l.contents[start:l.loc.Offset]
	return Token{Type: lookupIdent(text), Loc: loc, Lexeme: text, Value: text}
}

// symbol produces a token for a fixed single-character symbol and advances
// past it.
func (l *Lexer) symbol(typ TokenType, loc position.Position) Token {
	lexeme := string(l.ch)
	l.advance()
	return Token{Type: typ, Loc: loc, Lexeme: lexeme}
}

// NextToken returns the next token, advancing the lexer. A buffered Peek
// token is returned and cleared before any further scanning.
func (l *Lexer) NextToken() (Token, error) {
	if l.peeked != nil {
		tok := *l.peeked
		l.peeked = nil
		return tok, nil
	}

	l.skipWhitespaceAndComments()

	loc := l.loc

	if l.ch == 0 {
		return Token{Type: TokenEOF, Loc: loc}, nil
	}

	switch l.ch {
	case ',':
		return l.symbol(TokenComma, loc), nil
	case '(':
		return l.symbol(TokenLParen, loc), nil
	case ')':
		return l.symbol(TokenRParen, loc), nil
	case '{':
		return l.symbol(TokenLBrace, loc), nil
	case '}':
		return l.symbol(TokenRBrace, loc), nil
	case '[':
		return l.symbol(TokenLBracket, loc), nil
	case ']':
		return l.symbol(TokenRBracket, loc), nil
	case '<':
		return l.symbol(TokenLAngle, loc), nil
	case '>':
		return l.symbol(TokenRAngle, loc), nil
	case ':':
		return l.symbol(TokenColon, loc), nil
	case ';':
		return l.symbol(TokenSemicolon, loc), nil
	case '.':
		return l.symbol(TokenDot, loc), nil
	case '+':
		return l.symbol(TokenPlus, loc), nil
	case '-':
		return l.symbol(TokenMinus, loc), nil
	case '*':
		return l.symbol(TokenStar, loc), nil
	case '/':
		return l.symbol(TokenSlash, loc), nil
	case '&':
		return l.symbol(TokenAmpersand, loc), nil
	case '\'':
		return l.symbol(TokenApostrophe, loc), nil
	case '=':
		l.advance()
		if l.ch == '=' {
			l.advance()
			return Token{Type: TokenEq, Loc: loc, Lexeme: "=="}, nil
		}
		return Token{Type: TokenAssign, Loc: loc, Lexeme: "="}, nil
	case '"':
		return l.consumeString(loc)
	default:
		if isDigit(l.ch) {
			return l.consumeNumber(loc)
		}
		if isLetter(l.ch) || l.ch == '_' {
			return l.consumeIdent(loc), nil
		}
		return Token{}, diagnostic.Atf(loc, "unexpected character: %q", l.ch)
	}
}

// Peek returns the next token without consuming it. Peek is idempotent: the
// buffered token is handed back by the next NextToken call.
func (l *Lexer) Peek() (Token, error) {
	if l.peeked != nil {
		return *l.peeked, nil
	}
	tok, err := l.NextToken()
	if err != nil {
		return Token{}, err
	}
	l.peeked = &tok
	return tok, nil
}

// Expect consumes one token and fails if its type does not match. This is the
// single choke point for unexpected-token diagnostics in the parser.
func (l *Lexer) Expect(typ TokenType) (Token, error) {
	tok, err := l.NextToken()
	if err != nil {
		return Token{}, err
	}
	if tok.Type != typ {
		return Token{}, diagnostic.Atf(tok.Loc, "expected token %s, found token %s", typ, tok.Type)
	}
	return tok, nil
}

// isSpace checks if character is whitespace.
func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// isLetter checks if character is ASCII letter.
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

// isDigit checks if character is ASCII digit.
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
