package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

//  Expression nodes

// Expr is implemented by every node that produces a value.
type Expr interface {
	exprNode()
	String() string
}

// LiteralKind says which field of a Literal holds the value.
type LiteralKind int

const (
	StringLit LiteralKind = iota
	BoolLit
	NumberLit // reserved: the lexer has no numeric tokens yet
)

// Literal is a constant written directly in the source.
//
//	SET "v" EQUAL TO "hello".
//	                 ^^^^^^^  Literal{Kind: StringLit, Str: "hello"}
type Literal struct {
	Kind LiteralKind
	Str  string
	Bool bool
	Num  float64
	Span Span
}

func (*Literal) exprNode() {}
func (l *Literal) String() string {
	switch l.Kind {
	case BoolLit:
		if l.Bool {
			return "TRUE"
		}
		return "FALSE"
	case NumberLit:
		return strconv.FormatFloat(l.Num, 'g', -1, 64)
	}
	return strconv.Quote(l.Str)
}

// Identifier names something defined elsewhere, such as a called function.
type Identifier struct {
	Name string
	Span Span
}

func (*Identifier) exprNode()        {}
func (i *Identifier) String() string { return i.Name }

// Call invokes Callee. Args is nil when the call has no argument clause.
//
//	CALL FUNCTION "f" WITH THE ARGUMENT "x".
//	              ^^^                   ^^^
//	              Callee                Args[0]
type Call struct {
	Callee Expr
	Args   []Expr
}

func (*Call) exprNode() {}
func (c *Call) String() string {
	if c.Args == nil {
		return fmt.Sprintf("Call(%s)", c.Callee)
	}
	return fmt.Sprintf("Call(%s, %s)", c.Callee, joinExprs(c.Args))
}

// BinaryOperator is the phrase joining the two sides of a BinaryOp.
type BinaryOperator int

const (
	EqualTo BinaryOperator = iota // IS EQUAL TO
)

func (op BinaryOperator) String() string {
	if op == EqualTo {
		return "EqualTo"
	}
	return fmt.Sprintf("BinaryOperator(%d)", int(op))
}

// BinaryOp is Left Op Right.
type BinaryOp struct {
	Op    BinaryOperator
	Left  Expr
	Right Expr
}

func (*BinaryOp) exprNode() {}
func (b *BinaryOp) String() string {
	return fmt.Sprintf("BinaryOp(%s, %s, %s)", b.Op, b.Left, b.Right)
}

//  Statement nodes

// Stmt is implemented by every statement node.
type Stmt interface {
	stmtNode()
	String() string
}

// Block is an ordered list of statements.
type Block struct {
	Stmts []Stmt
}

func (*Block) stmtNode() {}
func (b *Block) String() string {
	parts := make([]string, len(b.Stmts))
	for i, s := range b.Stmts {
		parts[i] = s.String()
	}
	return "Block[" + strings.Join(parts, ", ") + "]"
}

// Module is DEFINE MODULE "name" WITH CONTENTS: ... END MODULE "name".
type Module struct {
	Name     string
	NameSpan Span
	Body     *Block
}

func (*Module) stmtNode() {}
func (m *Module) String() string {
	return fmt.Sprintf("Module(%q, %s)", m.Name, m.Body)
}

// Function is DEFINE FUNCTION "name" THAT RETURNS A: ... END FUNCTION "name".
type Function struct {
	Name     string
	NameSpan Span
	Body     *Block
}

func (*Function) stmtNode() {}
func (f *Function) String() string {
	return fmt.Sprintf("Function(%q, %s)", f.Name, f.Body)
}

// VariableType is the declared type of a Variable, taken from its initializer.
type VariableType int

const (
	StringType VariableType = iota
	BoolType
)

func (t VariableType) String() string {
	switch t {
	case StringType:
		return "String"
	case BoolType:
		return "Bool"
	}
	return fmt.Sprintf("VariableType(%d)", int(t))
}

// Variable is SET "name" EQUAL TO value.
type Variable struct {
	Name     string
	NameSpan Span
	Type     VariableType
	Value    Expr // nil when declared without an initializer
}

func (*Variable) stmtNode() {}
func (v *Variable) String() string {
	if v.Value == nil {
		return fmt.Sprintf("Variable(%q, %s)", v.Name, v.Type)
	}
	return fmt.Sprintf("Variable(%q, %s, %s)", v.Name, v.Type, v.Value)
}

// Condition is IF test THEN DO ... IF. Else is never produced by the
// current grammar and stays nil.
type Condition struct {
	Test Expr
	Then *Block
	Else *Block
}

func (*Condition) stmtNode() {}
func (c *Condition) String() string {
	if c.Else == nil {
		return fmt.Sprintf("Condition(%s, %s)", c.Test, c.Then)
	}
	return fmt.Sprintf("Condition(%s, %s, else %s)", c.Test, c.Then, c.Else)
}

// ExprStmt is an expression used as a statement, e.g. a call.
type ExprStmt struct {
	Expr Expr
}

func (*ExprStmt) stmtNode()        {}
func (e *ExprStmt) String() string { return e.Expr.String() }

func joinExprs(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
