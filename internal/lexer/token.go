package lexer

import (
	"fmt"

	"github.com/table-lang/table/internal/position"
)

// TokenType represents the type of a token.
type TokenType int

// Token types for the Table language.
const (
	// Special tokens
	TokenEOF TokenType = iota

	// Sequences of characters
	TokenIntLit
	TokenFloatLit
	TokenStrLit
	TokenIdent

	// Symbols
	TokenLParen     // (
	TokenRParen     // )
	TokenLBrace     // {
	TokenRBrace     // }
	TokenLBracket   // [
	TokenRBracket   // ]
	TokenLAngle     // <
	TokenRAngle     // >
	TokenDot        // .
	TokenComma      // ,
	TokenPlus       // +
	TokenMinus      // -
	TokenStar       // *
	TokenSlash      // /
	TokenAssign     // =
	TokenEq         // ==
	TokenColon      // :
	TokenSemicolon  // ;
	TokenAmpersand  // &
	TokenApostrophe // '

	// Keywords
	TokenIf
	TokenElse
	TokenFor
	TokenWhile
	TokenReturn
	TokenStruct
	TokenFun
	TokenLet
	TokenConst
	TokenImport
	TokenInterface
	TokenSelf
	TokenInt
	TokenFloat
	TokenStr
)

// tokenNames provides string representations for token types.
var tokenNames = map[TokenType]string{
	TokenEOF: "EOF",

	TokenIntLit:   "INT_LIT",
	TokenFloatLit: "FLOAT_LIT",
	TokenStrLit:   "STR_LIT",
	TokenIdent:    "IDENT",

	TokenLParen:     "L_PAREN",
	TokenRParen:     "R_PAREN",
	TokenLBrace:     "L_BRACE",
	TokenRBrace:     "R_BRACE",
	TokenLBracket:   "L_BRACKET",
	TokenRBracket:   "R_BRACKET",
	TokenLAngle:     "L_ANGLE",
	TokenRAngle:     "R_ANGLE",
	TokenDot:        "DOT",
	TokenComma:      "COMMA",
	TokenPlus:       "PLUS",
	TokenMinus:      "MINUS",
	TokenStar:       "STAR",
	TokenSlash:      "SLASH",
	TokenAssign:     "EQUALS",
	TokenEq:         "DOUBLE_EQUALS",
	TokenColon:      "COLON",
	TokenSemicolon:  "SEMICOLON",
	TokenAmpersand:  "AMPERSAND",
	TokenApostrophe: "APOSTROPHE",

	TokenIf:        "IF",
	TokenElse:      "ELSE",
	TokenFor:       "FOR",
	TokenWhile:     "WHILE",
	TokenReturn:    "RETURN",
	TokenStruct:    "STRUCT",
	TokenFun:       "FUN",
	TokenLet:       "LET",
	TokenConst:     "CONST",
	TokenImport:    "IMPORT",
	TokenInterface: "INTERFACE",
	TokenSelf:      "SELF",
	TokenInt:       "INT",
	TokenFloat:     "FLOAT",
	TokenStr:       "STR",
}

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// keywords maps keyword strings to their token types.
var keywords = map[string]TokenType{
	"if":        TokenIf,
	"else":      TokenElse,
	"for":       TokenFor,
	"while":     TokenWhile,
	"return":    TokenReturn,
	"struct":    TokenStruct,
	"fun":       TokenFun,
	"let":       TokenLet,
	"const":     TokenConst,
	"import":    TokenImport,
	"interface": TokenInterface,
	"Self":      TokenSelf,
	"int":       TokenInt,
	"float":     TokenFloat,
	"str":       TokenStr,
}

// lookupIdent checks if an identifier is a keyword.
func lookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdent
}

// Token represents a lexical token. Lexeme is the raw source text; Value is
// the decoded payload for literals and identifiers (escapes resolved for
// strings, numeric text for integer literals), empty otherwise. Tokens are
// produced once and never mutated; ownership passes from lexer to parser.
type Token struct {
	Type   TokenType
	Loc    position.Position
	Lexeme string
	Value  string
}

// String returns a string representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s [%s] : %s", t.Lexeme, t.Type, t.Loc)
}
