package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented textual rendering of the tree rooted at node to w.
// The output is meant for debugging and golden tests, not for re-parsing.
func Fprint(w io.Writer, node Node) error {
	p := &printer{w: w}
	p.node(node)
	return p.err
}

type printer struct {
	w      io.Writer
	indent int
	err    error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat(" ", p.indent*4), fmt.Sprintf(format, args...))
}

func (p *printer) nested(f func()) {
	p.indent++
	f()
	p.indent--
}

func (p *printer) node(node Node) {
	switch n := node.(type) {
	case *Program:
		p.printf("Program:")
		p.nested(func() {
			for _, d := range n.Decls {
				p.node(d)
			}
		})

	case *Import:
		p.printf("Import: %s", strings.Join(n.Path, "."))

	case *ConstDef:
		p.printf("ConstDef:")
		p.nested(func() {
			p.node(n.Binding)
			p.node(n.Value)
		})

	case *FunDef:
		p.printf("FunDef: %s", n.Name)
		p.nested(func() {
			p.funSig(n.Sig)
			p.node(n.Body)
		})

	case *FunDecl:
		p.printf("FunDecl: %s", n.Name)
		p.nested(func() {
			p.funSig(n.Sig)
		})

	case *InterfaceDef:
		p.printf("InterfaceDef: %s", n.Name)
		p.nested(func() {
			for _, f := range n.Functions {
				p.node(f)
			}
		})

	case *StructDef:
		p.printf("StructDef: %s", n.Name)
		p.nested(func() {
			for _, f := range n.Fields {
				p.node(f)
			}
			for _, m := range n.Methods {
				p.node(m)
			}
		})

	case *Binding:
		p.printf("Binding: %s", n.Name)
		p.nested(func() {
			p.node(n.Type)
		})

	case *LetStmt:
		p.printf("LetStmt:")
		p.nested(func() {
			p.node(n.Binding)
			p.node(n.Value)
		})

	case *ExprStmt:
		p.printf("ExprStmt:")
		p.nested(func() {
			p.node(n.X)
		})

	case *BlockStmt:
		p.printf("Block:")
		p.nested(func() {
			for _, s := range n.Stmts {
				p.node(s)
			}
		})

	case *ReturnStmt:
		p.printf("ReturnStmt:")
		p.nested(func() {
			p.node(n.Value)
		})

	case *AssignExpr:
		p.printf("AssignExpr:")
		p.nested(func() {
			p.node(n.Target)
			p.node(n.Value)
		})

	case *BinaryExpr:
		p.printf("BinaryExpr:")
		p.nested(func() {
			p.printf("op: %s", n.Op)
			p.node(n.Left)
			p.node(n.Right)
		})

	case *UnaryExpr:
		p.printf("UnaryExpr:")
		p.nested(func() {
			p.printf("op: %s", n.Op)
			p.node(n.Operand)
		})

	case *CallExpr:
		p.printf("CallExpr:")
		p.nested(func() {
			p.node(n.Callee)
			for _, a := range n.Args {
				p.node(a)
			}
		})

	case *NameExpr:
		p.printf("NameExpr: %s", n.Name)
		p.nested(func() {
			p.node(n.Base)
		})

	case *Ident:
		p.printf("Ident: %s", n.Name)

	case *LiteralExpr:
		switch n.Kind {
		case BasicStr:
			p.printf("StrLit: %q", n.Value)
		default:
			p.printf("IntLit: %s", n.Value)
		}

	case *ArrayExpr:
		p.printf("ArrayExpr:")
		p.nested(func() {
			for _, e := range n.Elements {
				p.node(e)
			}
		})

	case *BasicType:
		p.printf("%sType", basicTypeTitles[n.Kind])

	case *ArrayType:
		p.printf("ArrayType:")
		p.nested(func() {
			p.printf("length: %d", n.Length)
			p.node(n.Element)
		})

	case *PointerType:
		p.printf("PointerType:")
		p.nested(func() {
			p.node(n.Pointee)
		})

	case *NamedType:
		p.printf("NamedType: %s", strings.Join(n.Path, "."))

	default:
		panic(fmt.Sprintf("ast: unknown node type %T", node))
	}
}

var basicTypeTitles = map[BasicKind]string{
	BasicInt:   "Int",
	BasicFloat: "Float",
	BasicStr:   "Str",
	BasicNone:  "None",
	BasicSelf:  "Self",
}

func (p *printer) funSig(sig *FunSig) {
	p.printf("Params:")
	p.nested(func() {
		for _, b := range sig.Params {
			p.node(b)
		}
	})
	p.printf("ReturnType:")
	p.nested(func() {
		p.node(sig.ReturnType)
	})
}
