package compiler

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// dumpNode is the YAML shape of one tree node handed to the code generator.
type dumpNode struct {
	Kind   string      `yaml:"kind"`
	Name   string      `yaml:"name,omitempty"`
	Type   string      `yaml:"type,omitempty"`
	Value  any         `yaml:"value,omitempty"`
	Op     string      `yaml:"op,omitempty"`
	Callee *dumpNode   `yaml:"callee,omitempty"`
	Args   []*dumpNode `yaml:"args,omitempty"`
	Left   *dumpNode   `yaml:"left,omitempty"`
	Right  *dumpNode   `yaml:"right,omitempty"`
	Test   *dumpNode   `yaml:"test,omitempty"`
	Init   *dumpNode   `yaml:"init,omitempty"`
	Body   []*dumpNode `yaml:"body,omitempty"`
	Then   []*dumpNode `yaml:"then,omitempty"`
	Else   []*dumpNode `yaml:"else,omitempty"`
	Span   []int       `yaml:"span,flow,omitempty"`
	Empty  bool        `yaml:"empty,omitempty"` // body present but has no statements
}

// Dump renders a parsed tree as YAML, one mapping per node.
func Dump(stmts []Stmt) ([]byte, error) {
	nodes := make([]*dumpNode, 0, len(stmts))
	for _, s := range stmts {
		n, err := dumpStmt(s)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return yaml.Marshal(map[string]any{"program": nodes})
}

func spanOf(s Span) []int { return []int{s.Start, s.End} }

func dumpBlock(b *Block) ([]*dumpNode, error) {
	if b == nil {
		return nil, nil
	}
	out := make([]*dumpNode, 0, len(b.Stmts))
	for _, s := range b.Stmts {
		n, err := dumpStmt(s)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func dumpStmt(s Stmt) (*dumpNode, error) {
	switch n := s.(type) {
	case *Module:
		body, err := dumpBlock(n.Body)
		if err != nil {
			return nil, err
		}
		return &dumpNode{Kind: "module", Name: n.Name, Body: body, Span: spanOf(n.NameSpan), Empty: len(body) == 0}, nil
	case *Function:
		body, err := dumpBlock(n.Body)
		if err != nil {
			return nil, err
		}
		return &dumpNode{Kind: "function", Name: n.Name, Body: body, Span: spanOf(n.NameSpan), Empty: len(body) == 0}, nil
	case *Variable:
		node := &dumpNode{Kind: "variable", Name: n.Name, Type: n.Type.String(), Span: spanOf(n.NameSpan)}
		if n.Value != nil {
			init, err := dumpExpr(n.Value)
			if err != nil {
				return nil, err
			}
			node.Init = init
		}
		return node, nil
	case *Condition:
		test, err := dumpExpr(n.Test)
		if err != nil {
			return nil, err
		}
		then, err := dumpBlock(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := dumpBlock(n.Else)
		if err != nil {
			return nil, err
		}
		return &dumpNode{Kind: "condition", Test: test, Then: then, Else: els, Empty: len(then) == 0}, nil
	case *Block:
		body, err := dumpBlock(n)
		if err != nil {
			return nil, err
		}
		return &dumpNode{Kind: "block", Body: body, Empty: len(body) == 0}, nil
	case *ExprStmt:
		return dumpExpr(n.Expr)
	}
	return nil, fmt.Errorf("dump: unknown statement %T", s)
}

func dumpExpr(e Expr) (*dumpNode, error) {
	switch n := e.(type) {
	case *Literal:
		node := &dumpNode{Kind: "literal", Span: spanOf(n.Span)}
		switch n.Kind {
		case BoolLit:
			node.Type, node.Value = "bool", n.Bool
		case NumberLit:
			node.Type, node.Value = "number", n.Num
		default:
			node.Type, node.Value = "string", n.Str
		}
		return node, nil
	case *Identifier:
		return &dumpNode{Kind: "identifier", Name: n.Name, Span: spanOf(n.Span)}, nil
	case *Call:
		callee, err := dumpExpr(n.Callee)
		if err != nil {
			return nil, err
		}
		node := &dumpNode{Kind: "call", Callee: callee}
		for _, a := range n.Args {
			arg, err := dumpExpr(a)
			if err != nil {
				return nil, err
			}
			node.Args = append(node.Args, arg)
		}
		return node, nil
	case *BinaryOp:
		left, err := dumpExpr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := dumpExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return &dumpNode{Kind: "binary", Op: n.Op.String(), Left: left, Right: right}, nil
	}
	return nil, fmt.Errorf("dump: unknown expression %T", e)
}
