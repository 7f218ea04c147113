// Package parser implements a recursive-descent parser for Table source
// files. Each grammar production maps to one method; all methods consume
// tokens from the underlying lexer and return an AST node or the first error
// encountered. There is no error recovery: parsing aborts on the first
// malformed construct.
package parser

import (
	"strconv"

	"github.com/table-lang/table/internal/ast"
	"github.com/table-lang/table/internal/diagnostic"
	"github.com/table-lang/table/internal/lexer"
	"github.com/table-lang/table/internal/position"
)

// Parser holds the token source for one source file. A Parser is good for a
// single ParseSourceFile call; it is not safe for concurrent use.
type Parser struct {
	lex *lexer.Lexer
}

// New returns a parser reading tokens from lex.
func New(lex *lexer.Lexer) *Parser {
	return &Parser{lex: lex}
}

// ParseSourceFile parses top-level declarations until EOF.
func (p *Parser) ParseSourceFile() (*ast.Program, error) {
	first, err := p.lex.Peek()
	if err != nil {
		return nil, err
	}
	prog := &ast.Program{Loc: first.Loc}

	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Type == lexer.TokenEOF {
			return prog, nil
		}
		decl, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}
		prog.Decls = append(prog.Decls, decl)
	}
}

// <top_level> ::= <const_def> | <fun_def> | <import> | <interface> | <struct>
func (p *Parser) parseTopLevel() (ast.TopLevel, error) {
	tok, err := p.lex.Peek()
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case lexer.TokenConst:
		return p.parseConstDef()
	case lexer.TokenFun:
		return p.parseFunDef()
	case lexer.TokenImport:
		return p.parseImport()
	case lexer.TokenInterface:
		return p.parseInterface()
	case lexer.TokenStruct:
		return p.parseStruct()
	default:
		return nil, diagnostic.Atf(tok.Loc, "expected top-level definition, found: %s", tok.Lexeme)
	}
}

// <import> ::= "import" <ident> ("." <ident>)* ";"
func (p *Parser) parseImport() (*ast.Import, error) {
	kw, err := p.lex.Expect(lexer.TokenImport)
	if err != nil {
		return nil, err
	}
	first, err := p.lex.Expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}
	path := []string{first.Lexeme}

	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Type != lexer.TokenDot {
			break
		}
		if _, err := p.lex.Expect(lexer.TokenDot); err != nil {
			return nil, err
		}
		seg, err := p.lex.Expect(lexer.TokenIdent)
		if err != nil {
			return nil, err
		}
		path = append(path, seg.Lexeme)
	}

	if _, err := p.lex.Expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}
	return &ast.Import{Loc: kw.Loc, Path: path}, nil
}

// <const_def> ::= "const" <binding> "=" <expr> ";"
func (p *Parser) parseConstDef() (*ast.ConstDef, error) {
	kw, err := p.lex.Expect(lexer.TokenConst)
	if err != nil {
		return nil, err
	}
	binding, err := p.parseBinding()
	if err != nil {
		return nil, err
	}
	if _, err := p.lex.Expect(lexer.TokenAssign); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.lex.Expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}
	return &ast.ConstDef{Loc: kw.Loc, Binding: binding, Value: value}, nil
}

// <fun_def> ::= <named_fun_sig> <block_stmt>
func (p *Parser) parseFunDef() (*ast.FunDef, error) {
	loc, name, sig, err := p.parseNamedFunSig()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlockStmt()
	if err != nil {
		return nil, err
	}
	return &ast.FunDef{Loc: loc, Name: name, Sig: sig, Body: body}, nil
}

// <fun_decl> ::= <named_fun_sig> ";"
func (p *Parser) parseFunDecl() (*ast.FunDecl, error) {
	loc, name, sig, err := p.parseNamedFunSig()
	if err != nil {
		return nil, err
	}
	if _, err := p.lex.Expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}
	return &ast.FunDecl{Loc: loc, Name: name, Sig: sig}, nil
}

// <named_fun_sig> ::= "fun" <ident> <params> (":" <type>)?
//
// An omitted return type means none.
func (p *Parser) parseNamedFunSig() (loc position.Position, name string, sig *ast.FunSig, err error) {
	kw, err := p.lex.Expect(lexer.TokenFun)
	if err != nil {
		return loc, "", nil, err
	}
	ident, err := p.lex.Expect(lexer.TokenIdent)
	if err != nil {
		return loc, "", nil, err
	}

	params, err := p.parseParams()
	if err != nil {
		return loc, "", nil, err
	}

	var retType ast.Type = &ast.BasicType{Loc: kw.Loc, Kind: ast.BasicNone}
	tok, err := p.lex.Peek()
	if err != nil {
		return loc, "", nil, err
	}
	if tok.Type == lexer.TokenColon {
		if _, err := p.lex.Expect(lexer.TokenColon); err != nil {
			return loc, "", nil, err
		}
		retType, err = p.parseType()
		if err != nil {
			return loc, "", nil, err
		}
	}

	return kw.Loc, ident.Lexeme, &ast.FunSig{Params: params, ReturnType: retType}, nil
}

// <params> ::= "(" "self"? (<binding> ("," <binding>)*)? ")"
//
// A comma may follow self only when another parameter follows it.
func (p *Parser) parseParams() ([]*ast.Binding, error) {
	if _, err := p.lex.Expect(lexer.TokenLParen); err != nil {
		return nil, err
	}

	var params []*ast.Binding

	tok, err := p.lex.Peek()
	if err != nil {
		return nil, err
	}
	if tok.Type == lexer.TokenIdent && tok.Lexeme == "self" {
		recv, err := p.lex.Expect(lexer.TokenIdent)
		if err != nil {
			return nil, err
		}
		params = append(params, &ast.Binding{
			Loc:  recv.Loc,
			Name: recv.Lexeme,
			Type: &ast.BasicType{Loc: recv.Loc, Kind: ast.BasicSelf},
		})

		tok, err = p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Type == lexer.TokenComma {
			if _, err := p.lex.Expect(lexer.TokenComma); err != nil {
				return nil, err
			}
			tok, err = p.lex.Peek()
			if err != nil {
				return nil, err
			}
			if tok.Type == lexer.TokenRParen {
				return nil, diagnostic.At(tok.Loc, "unexpected trailing comma")
			}
		}
	}

	tok, err = p.lex.Peek()
	if err != nil {
		return nil, err
	}
	if tok.Type == lexer.TokenRParen {
		_, err := p.lex.Expect(lexer.TokenRParen)
		return params, err
	}

	first, err := p.parseBinding()
	if err != nil {
		return nil, err
	}
	params = append(params, first)

	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Type != lexer.TokenComma {
			break
		}
		if _, err := p.lex.Expect(lexer.TokenComma); err != nil {
			return nil, err
		}
		param, err := p.parseBinding()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}

	if _, err := p.lex.Expect(lexer.TokenRParen); err != nil {
		return nil, err
	}
	return params, nil
}

// <interface> ::= "interface" <ident> "{" <fun_decl>+ "}"
func (p *Parser) parseInterface() (*ast.InterfaceDef, error) {
	kw, err := p.lex.Expect(lexer.TokenInterface)
	if err != nil {
		return nil, err
	}
	name, err := p.lex.Expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.lex.Expect(lexer.TokenLBrace); err != nil {
		return nil, err
	}

	var functions []*ast.FunDecl
	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Type == lexer.TokenRBrace {
			break
		}
		decl, err := p.parseFunDecl()
		if err != nil {
			return nil, err
		}
		functions = append(functions, decl)
	}

	rbrace, err := p.lex.Expect(lexer.TokenRBrace)
	if err != nil {
		return nil, err
	}
	if len(functions) == 0 {
		return nil, diagnostic.At(rbrace.Loc, "expected at least one function declaration")
	}

	return &ast.InterfaceDef{Loc: kw.Loc, Name: name.Lexeme, Functions: functions}, nil
}

// <struct> ::= "struct" <ident> "{" (<binding> ";" | <fun_def>)* "}"
func (p *Parser) parseStruct() (*ast.StructDef, error) {
	kw, err := p.lex.Expect(lexer.TokenStruct)
	if err != nil {
		return nil, err
	}
	name, err := p.lex.Expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.lex.Expect(lexer.TokenLBrace); err != nil {
		return nil, err
	}

	var fields []*ast.Binding
	var methods []*ast.FunDef
	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case lexer.TokenRBrace:
			if _, err := p.lex.Expect(lexer.TokenRBrace); err != nil {
				return nil, err
			}
			return &ast.StructDef{Loc: kw.Loc, Name: name.Lexeme, Fields: fields, Methods: methods}, nil
		case lexer.TokenIdent:
			field, err := p.parseBinding()
			if err != nil {
				return nil, err
			}
			if _, err := p.lex.Expect(lexer.TokenSemicolon); err != nil {
				return nil, err
			}
			fields = append(fields, field)
		case lexer.TokenFun:
			method, err := p.parseFunDef()
			if err != nil {
				return nil, err
			}
			methods = append(methods, method)
		default:
			return nil, diagnostic.Atf(tok.Loc, "expected binding or function definition, found %s", tok.Lexeme)
		}
	}
}

// <binding> ::= <ident> ":" <type>
func (p *Parser) parseBinding() (*ast.Binding, error) {
	name, err := p.lex.Expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.lex.Expect(lexer.TokenColon); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return &ast.Binding{Loc: name.Loc, Name: name.Lexeme, Type: typ}, nil
}

// <type> ::= "[" <type> ";" <int> "]" | "*" <type> | <ident> ("." <ident>)*
//          | "Self" | "int" | "float" | "str"
func (p *Parser) parseType() (ast.Type, error) {
	tok, err := p.lex.NextToken()
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case lexer.TokenLBracket:
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.lex.Expect(lexer.TokenSemicolon); err != nil {
			return nil, err
		}
		lenTok, err := p.lex.Expect(lexer.TokenIntLit)
		if err != nil {
			return nil, err
		}
		length, err := strconv.Atoi(lenTok.Value)
		if err != nil {
			return nil, diagnostic.Atf(lenTok.Loc, "invalid array length: %s", lenTok.Lexeme)
		}
		if _, err := p.lex.Expect(lexer.TokenRBracket); err != nil {
			return nil, err
		}
		return &ast.ArrayType{Loc: tok.Loc, Element: elem, Length: length}, nil

	case lexer.TokenStar:
		pointee, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &ast.PointerType{Loc: tok.Loc, Pointee: pointee}, nil

	case lexer.TokenSelf:
		return &ast.BasicType{Loc: tok.Loc, Kind: ast.BasicSelf}, nil
	case lexer.TokenInt:
		return &ast.BasicType{Loc: tok.Loc, Kind: ast.BasicInt}, nil
	case lexer.TokenFloat:
		return &ast.BasicType{Loc: tok.Loc, Kind: ast.BasicFloat}, nil
	case lexer.TokenStr:
		return &ast.BasicType{Loc: tok.Loc, Kind: ast.BasicStr}, nil

	case lexer.TokenIdent:
		path := []string{tok.Lexeme}
		for {
			next, err := p.lex.Peek()
			if err != nil {
				return nil, err
			}
			if next.Type != lexer.TokenDot {
				break
			}
			if _, err := p.lex.Expect(lexer.TokenDot); err != nil {
				return nil, err
			}
			seg, err := p.lex.Expect(lexer.TokenIdent)
			if err != nil {
				return nil, err
			}
			path = append(path, seg.Lexeme)
		}
		return &ast.NamedType{Loc: tok.Loc, Path: path}, nil

	default:
		return nil, diagnostic.Atf(tok.Loc, "expected type or ident, found %s", tok.Lexeme)
	}
}

// <block_stmt> ::= "{" <stmt>* "}"
func (p *Parser) parseBlockStmt() (*ast.BlockStmt, error) {
	lbrace, err := p.lex.Expect(lexer.TokenLBrace)
	if err != nil {
		return nil, err
	}

	block := &ast.BlockStmt{Loc: lbrace.Loc}
	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Type == lexer.TokenRBrace {
			break
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}

	if _, err := p.lex.Expect(lexer.TokenRBrace); err != nil {
		return nil, err
	}
	return block, nil
}

// <stmt> ::= <let_def> | <const_def> | <block_stmt> | <return_stmt> | <expr> ";"
func (p *Parser) parseStmt() (ast.Stmt, error) {
	tok, err := p.lex.Peek()
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case lexer.TokenLet:
		return p.parseLetStmt()
	case lexer.TokenConst:
		return p.parseConstDef()
	case lexer.TokenLBrace:
		return p.parseBlockStmt()
	case lexer.TokenReturn:
		return p.parseReturnStmt()
	default:
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.lex.Expect(lexer.TokenSemicolon); err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Loc: expr.Pos(), X: expr}, nil
	}
}

// <let_def> ::= "let" <binding> "=" <expr> ";"
func (p *Parser) parseLetStmt() (*ast.LetStmt, error) {
	kw, err := p.lex.Expect(lexer.TokenLet)
	if err != nil {
		return nil, err
	}
	binding, err := p.parseBinding()
	if err != nil {
		return nil, err
	}
	if _, err := p.lex.Expect(lexer.TokenAssign); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.lex.Expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}
	return &ast.LetStmt{Loc: kw.Loc, Binding: binding, Value: value}, nil
}

// <return_stmt> ::= "return" <expr> ";"
func (p *Parser) parseReturnStmt() (*ast.ReturnStmt, error) {
	kw, err := p.lex.Expect(lexer.TokenReturn)
	if err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.lex.Expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Loc: kw.Loc, Value: value}, nil
}

// <expr> ::= <addexpr> ("=" <addexpr>)?
//
// Assignment does not chain: at most one '=' is consumed per expression.
func (p *Parser) parseExpr() (ast.Expr, error) {
	first, err := p.parseAddExpr()
	if err != nil {
		return nil, err
	}

	tok, err := p.lex.Peek()
	if err != nil {
		return nil, err
	}
	if tok.Type != lexer.TokenAssign {
		return first, nil
	}
	if _, err := p.lex.Expect(lexer.TokenAssign); err != nil {
		return nil, err
	}
	value, err := p.parseAddExpr()
	if err != nil {
		return nil, err
	}
	return &ast.AssignExpr{Loc: first.Pos(), Target: first, Value: value}, nil
}

// <addexpr> ::= <term> (("+" | "-") <term>)*
func (p *Parser) parseAddExpr() (ast.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Type != lexer.TokenPlus && tok.Type != lexer.TokenMinus {
			return left, nil
		}
		opTok, err := p.lex.NextToken()
		if err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}

		op := ast.OpPlus
		if opTok.Type == lexer.TokenMinus {
			op = ast.OpMinus
		}
		left = &ast.BinaryExpr{Loc: left.Pos(), Op: op, Left: left, Right: right}
	}
}

// <term> ::= <funcall> (("*" | "/") <funcall>)*
func (p *Parser) parseTerm() (ast.Expr, error) {
	left, err := p.parseFunCall()
	if err != nil {
		return nil, err
	}

	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Type != lexer.TokenStar && tok.Type != lexer.TokenSlash {
			return left, nil
		}
		opTok, err := p.lex.NextToken()
		if err != nil {
			return nil, err
		}
		right, err := p.parseFunCall()
		if err != nil {
			return nil, err
		}

		op := ast.OpTimes
		if opTok.Type == lexer.TokenSlash {
			op = ast.OpDivide
		}
		left = &ast.BinaryExpr{Loc: left.Pos(), Op: op, Left: left, Right: right}
	}
}

// <funcall> ::= <unary> <args>*
func (p *Parser) parseFunCall() (ast.Expr, error) {
	expr, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Type != lexer.TokenLParen {
			return expr, nil
		}
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		expr = &ast.CallExpr{Loc: expr.Pos(), Callee: expr, Args: args}
	}
}

// <unary> ::= ("&" | "*" | "-")? <name_expr>
//
// Unary operators do not stack; **x is rejected by the inner name_expr.
func (p *Parser) parseUnary() (ast.Expr, error) {
	tok, err := p.lex.Peek()
	if err != nil {
		return nil, err
	}

	var op ast.UnaryOp
	switch tok.Type {
	case lexer.TokenAmpersand:
		op = ast.OpRef
	case lexer.TokenStar:
		op = ast.OpDeref
	case lexer.TokenMinus:
		op = ast.OpNegate
	default:
		return p.parseNameExpr()
	}

	opTok, err := p.lex.NextToken()
	if err != nil {
		return nil, err
	}
	inner, err := p.parseNameExpr()
	if err != nil {
		return nil, err
	}
	return &ast.UnaryExpr{Loc: opTok.Loc, Op: op, Operand: inner}, nil
}

// <name_expr> ::= <factor> ("." <ident>)*
func (p *Parser) parseNameExpr() (ast.Expr, error) {
	expr, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Type != lexer.TokenDot {
			return expr, nil
		}
		if _, err := p.lex.Expect(lexer.TokenDot); err != nil {
			return nil, err
		}
		name, err := p.lex.Expect(lexer.TokenIdent)
		if err != nil {
			return nil, err
		}
		expr = &ast.NameExpr{Loc: expr.Pos(), Base: expr, Name: name.Lexeme}
	}
}

// <factor> ::= "(" <expr> ")" | <array> | <ident> | <num> | <str>
// <array>  ::= "[" (<expr> ("," <expr>)*)? "]"
func (p *Parser) parseFactor() (ast.Expr, error) {
	tok, err := p.lex.NextToken()
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case lexer.TokenLParen:
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.lex.Expect(lexer.TokenRParen); err != nil {
			return nil, err
		}
		return expr, nil

	case lexer.TokenLBracket:
		arr := &ast.ArrayExpr{Loc: tok.Loc}
		next, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if next.Type == lexer.TokenRBracket {
			_, err := p.lex.Expect(lexer.TokenRBracket)
			return arr, err
		}
		first, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		arr.Elements = append(arr.Elements, first)
		for {
			next, err := p.lex.Peek()
			if err != nil {
				return nil, err
			}
			if next.Type != lexer.TokenComma {
				break
			}
			if _, err := p.lex.Expect(lexer.TokenComma); err != nil {
				return nil, err
			}
			elem, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			arr.Elements = append(arr.Elements, elem)
		}
		if _, err := p.lex.Expect(lexer.TokenRBracket); err != nil {
			return nil, err
		}
		return arr, nil

	case lexer.TokenIdent:
		return &ast.Ident{Loc: tok.Loc, Name: tok.Lexeme}, nil
	case lexer.TokenIntLit:
		return &ast.LiteralExpr{Loc: tok.Loc, Kind: ast.BasicInt, Value: tok.Value}, nil
	case lexer.TokenFloatLit:
		return nil, diagnostic.At(tok.Loc, "not implemented: floating point literals")
	case lexer.TokenStrLit:
		return &ast.LiteralExpr{Loc: tok.Loc, Kind: ast.BasicStr, Value: tok.Value}, nil

	default:
		return nil, diagnostic.Atf(tok.Loc, "unexpected token when parsing factor: %s", tok.Lexeme)
	}
}

// <args> ::= "(" (<expr> ("," <expr>)*)? ")"
func (p *Parser) parseArgs() ([]ast.Expr, error) {
	if _, err := p.lex.Expect(lexer.TokenLParen); err != nil {
		return nil, err
	}

	tok, err := p.lex.Peek()
	if err != nil {
		return nil, err
	}
	if tok.Type == lexer.TokenRParen {
		_, err := p.lex.Expect(lexer.TokenRParen)
		return nil, err
	}

	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	args := []ast.Expr{first}

	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Type != lexer.TokenComma {
			break
		}
		if _, err := p.lex.Expect(lexer.TokenComma); err != nil {
			return nil, err
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	if _, err := p.lex.Expect(lexer.TokenRParen); err != nil {
		return nil, err
	}
	return args, nil
}
