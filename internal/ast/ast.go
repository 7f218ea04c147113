// Package ast defines the Table abstract syntax tree: closed variant families
// for types, expressions, statements and top-level declarations. Nodes are
// built bottom-up by the parser and never mutated afterward; each node owns
// its children exclusively, so the tree has no cycles or back-references.
package ast

import "github.com/table-lang/table/internal/position"

// Node is the base interface for all AST nodes.
type Node interface {
	// Pos returns the position of the node's first token.
	Pos() position.Position
}

// Expr represents all expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt represents all statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Type represents all type nodes.
type Type interface {
	Node
	typeNode()
}

// TopLevel represents all declarations valid at file scope.
type TopLevel interface {
	Node
	topLevelNode()
}

// ====== Types ======

// BasicKind identifies a built-in type.
type BasicKind int

const (
	BasicInt BasicKind = iota
	BasicFloat
	BasicStr
	BasicNone // absence of a return type
	BasicSelf // receiver type inside a struct
)

var basicKindNames = map[BasicKind]string{
	BasicInt:   "int",
	BasicFloat: "float",
	BasicStr:   "str",
	BasicNone:  "none",
	BasicSelf:  "Self",
}

// String returns the source-level name of the basic kind.
func (k BasicKind) String() string {
	if name, ok := basicKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// BasicType is a built-in type: int, float, str, none, or Self.
type BasicType struct {
	Loc  position.Position
	Kind BasicKind
}

func (t *BasicType) Pos() position.Position { return t.Loc }
func (t *BasicType) typeNode()              {}

// ArrayType is a fixed-length array type: [T; N].
type ArrayType struct {
	Loc     position.Position
	Element Type
	Length  int
}

func (t *ArrayType) Pos() position.Position { return t.Loc }
func (t *ArrayType) typeNode()              {}

// PointerType is a pointer type: *T.
type PointerType struct {
	Loc     position.Position
	Pointee Type
}

func (t *PointerType) Pos() position.Position { return t.Loc }
func (t *PointerType) typeNode()              {}

// NamedType is a user-defined type referenced by a dotted identifier path.
type NamedType struct {
	Loc  position.Position
	Path []string
}

func (t *NamedType) Pos() position.Position { return t.Loc }
func (t *NamedType) typeNode()              {}

// ====== Expressions ======

// BinOp identifies a binary operator.
type BinOp int

const (
	OpPlus BinOp = iota
	OpMinus
	OpTimes
	OpDivide
)

var binOpNames = map[BinOp]string{
	OpPlus:   "PLUS",
	OpMinus:  "MINUS",
	OpTimes:  "TIMES",
	OpDivide: "DIVIDE",
}

func (op BinOp) String() string {
	if name, ok := binOpNames[op]; ok {
		return name
	}
	return "unknown"
}

// UnaryOp identifies a unary prefix operator.
type UnaryOp int

const (
	OpDeref  UnaryOp = iota // *
	OpRef                   // &
	OpNegate                // -
)

var unaryOpNames = map[UnaryOp]string{
	OpDeref:  "DEREF",
	OpRef:    "REF",
	OpNegate: "NEGATE",
}

func (op UnaryOp) String() string {
	if name, ok := unaryOpNames[op]; ok {
		return name
	}
	return "unknown"
}

// AssignExpr is an assignment: target = value. Assignment is not chainable;
// the parser consumes exactly one '='.
type AssignExpr struct {
	Loc    position.Position
	Target Expr
	Value  Expr
}

func (e *AssignExpr) Pos() position.Position { return e.Loc }
func (e *AssignExpr) exprNode()              {}

// BinaryExpr is a binary operation over two sub-expressions.
type BinaryExpr struct {
	Loc   position.Position
	Op    BinOp
	Left  Expr
	Right Expr
}

func (e *BinaryExpr) Pos() position.Position { return e.Loc }
func (e *BinaryExpr) exprNode()              {}

// UnaryExpr is a single prefix operation; unary operators do not stack.
type UnaryExpr struct {
	Loc     position.Position
	Op      UnaryOp
	Operand Expr
}

func (e *UnaryExpr) Pos() position.Position { return e.Loc }
func (e *UnaryExpr) exprNode()              {}

// LiteralExpr is a literal value. Kind is the literal's built-in type tag and
// Value its raw text (decoded text for strings).
type LiteralExpr struct {
	Loc   position.Position
	Kind  BasicKind
	Value string
}

func (e *LiteralExpr) Pos() position.Position { return e.Loc }
func (e *LiteralExpr) exprNode()              {}

// CallExpr is a function call. The callee is itself an expression, so call
// suffixes chain: f(x)(y).
type CallExpr struct {
	Loc    position.Position
	Callee Expr
	Args   []Expr
}

func (e *CallExpr) Pos() position.Position { return e.Loc }
func (e *CallExpr) exprNode()              {}

// Ident is a reference to a name.
type Ident struct {
	Loc  position.Position
	Name string
}

func (e *Ident) Pos() position.Position { return e.Loc }
func (e *Ident) exprNode()              {}

// NameExpr is qualified access like std.io: Base is the expression before the
// dot, Name the trailing identifier. Used for both module paths and future
// field access.
type NameExpr struct {
	Loc  position.Position
	Base Expr
	Name string
}

func (e *NameExpr) Pos() position.Position { return e.Loc }
func (e *NameExpr) exprNode()              {}

// ArrayExpr is an array literal: [a, b, c]. The element list may be empty.
type ArrayExpr struct {
	Loc      position.Position
	Elements []Expr
}

func (e *ArrayExpr) Pos() position.Position { return e.Loc }
func (e *ArrayExpr) exprNode()              {}

// ====== Statements ======

// Binding pairs a name with a type; used for let/const targets, function
// parameters and struct fields. Duplicate names are not checked anywhere in
// the front end; that is left to a later semantic pass.
type Binding struct {
	Loc  position.Position
	Name string
	Type Type
}

func (b *Binding) Pos() position.Position { return b.Loc }

// LetStmt is a let binding with an initializer.
type LetStmt struct {
	Loc     position.Position
	Binding *Binding
	Value   Expr
}

func (s *LetStmt) Pos() position.Position { return s.Loc }
func (s *LetStmt) stmtNode()              {}

// ConstDef is a const binding with an initializer. It is valid both as a
// statement and at file scope.
type ConstDef struct {
	Loc     position.Position
	Binding *Binding
	Value   Expr
}

func (s *ConstDef) Pos() position.Position { return s.Loc }
func (s *ConstDef) stmtNode()              {}
func (s *ConstDef) topLevelNode()          {}

// ExprStmt wraps an expression used for effect.
type ExprStmt struct {
	Loc position.Position
	X   Expr
}

func (s *ExprStmt) Pos() position.Position { return s.Loc }
func (s *ExprStmt) stmtNode()              {}

// BlockStmt is an ordered list of statements with its own scope.
type BlockStmt struct {
	Loc   position.Position
	Stmts []Stmt
}

func (s *BlockStmt) Pos() position.Position { return s.Loc }
func (s *BlockStmt) stmtNode()              {}

// ReturnStmt returns a value from the enclosing function.
type ReturnStmt struct {
	Loc   position.Position
	Value Expr
}

func (s *ReturnStmt) Pos() position.Position { return s.Loc }
func (s *ReturnStmt) stmtNode()              {}

// ====== Top-level declarations ======

// FunSig is a function signature: ordered parameter bindings and a return
// type. The return type is BasicNone when omitted in source.
type FunSig struct {
	Params     []*Binding
	ReturnType Type
}

// FunDecl is a named signature without a body, valid only inside interfaces.
type FunDecl struct {
	Loc  position.Position
	Name string
	Sig  *FunSig
}

func (d *FunDecl) Pos() position.Position { return d.Loc }

// FunDef is a function definition. When it appears as a struct method, the
// first parameter may be a receiver named self bound to Self.
type FunDef struct {
	Loc  position.Position
	Name string
	Sig  *FunSig
	Body *BlockStmt
}

func (d *FunDef) Pos() position.Position { return d.Loc }
func (d *FunDef) topLevelNode()          {}

// InterfaceDef is an interface definition; it contains at least one function
// declaration.
type InterfaceDef struct {
	Loc       position.Position
	Name      string
	Functions []*FunDecl
}

func (d *InterfaceDef) Pos() position.Position { return d.Loc }
func (d *InterfaceDef) topLevelNode()          {}

// StructDef is a struct definition with ordered fields and methods. Fields
// and methods may interleave in source; order within each list is preserved.
type StructDef struct {
	Loc     position.Position
	Name    string
	Fields  []*Binding
	Methods []*FunDef
}

func (d *StructDef) Pos() position.Position { return d.Loc }
func (d *StructDef) topLevelNode()          {}

// Import brings a module into scope by its dotted path. There is no binding
// or aliasing.
type Import struct {
	Loc  position.Position
	Path []string
}

func (d *Import) Pos() position.Position { return d.Loc }
func (d *Import) topLevelNode()          {}

// Program is the root of the AST: the ordered top-level declarations of one
// source file.
type Program struct {
	Loc   position.Position
	Decls []TopLevel
}

func (p *Program) Pos() position.Position { return p.Loc }
