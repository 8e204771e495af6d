package compiler

import (
	"fmt"
	"sort"
	"strings"

	"cbtc/pkg/diag"
)

type SymbolKind int

const (
	ModuleSymbol SymbolKind = iota
	FunctionSymbol
	VariableSymbol
)

func (k SymbolKind) String() string {
	switch k {
	case ModuleSymbol:
		return "module"
	case FunctionSymbol:
		return "function"
	case VariableSymbol:
		return "variable"
	}
	return fmt.Sprintf("SymbolKind(%d)", int(k))
}

type Symbol struct {
	Kind   SymbolKind
	Name   string
	Module string // enclosing module, "" at file level
	Span   Span   // the quoted name at the definition
}

// SymbolTable records what a file defines. Functions are keyed by
// "module-function" so the same name may appear in two modules.
type SymbolTable struct {
	modules   map[string]Symbol
	functions map[string]Symbol
	byName    map[string][]Symbol

	// Stack of variable scopes; module, function and IF bodies each open one.
	scopes []map[string]Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		modules:   make(map[string]Symbol),
		functions: make(map[string]Symbol),
		byName:    make(map[string][]Symbol),
		scopes:    []map[string]Symbol{make(map[string]Symbol)},
	}
}

func functionKey(module, name string) string { return module + "-" + name }

func (s *SymbolTable) EnterScope() {
	s.scopes = append(s.scopes, make(map[string]Symbol))
}

func (s *SymbolTable) ExitScope() {
	if len(s.scopes) > 1 {
		s.scopes = s.scopes[:len(s.scopes)-1]
	}
}

// DefineModule records a module. If the name is taken, the existing symbol
// is returned with true.
func (s *SymbolTable) DefineModule(sym Symbol) (Symbol, bool) {
	if prev, ok := s.modules[sym.Name]; ok {
		return prev, true
	}
	sym.Kind = ModuleSymbol
	s.modules[sym.Name] = sym
	return sym, false
}

// DefineFunction records a function in its module.
func (s *SymbolTable) DefineFunction(sym Symbol) (Symbol, bool) {
	key := functionKey(sym.Module, sym.Name)
	if prev, ok := s.functions[key]; ok {
		return prev, true
	}
	sym.Kind = FunctionSymbol
	s.functions[key] = sym
	s.byName[sym.Name] = append(s.byName[sym.Name], sym)
	return sym, false
}

// DefineVariable records a variable in the current scope.
func (s *SymbolTable) DefineVariable(sym Symbol) (Symbol, bool) {
	scope := s.scopes[len(s.scopes)-1]
	if prev, ok := scope[sym.Name]; ok {
		return prev, true
	}
	sym.Kind = VariableSymbol
	scope[sym.Name] = sym
	return sym, false
}

// LookupFunction finds name in module, then anywhere in the file.
func (s *SymbolTable) LookupFunction(module, name string) (Symbol, bool) {
	if sym, ok := s.functions[functionKey(module, name)]; ok {
		return sym, true
	}
	if defs := s.byName[name]; len(defs) > 0 {
		return defs[0], true
	}
	return Symbol{}, false
}

// String returns a deterministically ordered dump of modules and functions.
func (s *SymbolTable) String() string {
	var sb strings.Builder
	if len(s.modules) > 0 {
		sb.WriteString("Modules:\n")
		names := make([]string, 0, len(s.modules))
		for name := range s.modules {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&sb, "  %q\n", name)
		}
	} else {
		sb.WriteString("Modules: (empty)\n")
	}

	if len(s.functions) > 0 {
		sb.WriteString("Functions:\n")
		keys := make([]string, 0, len(s.functions))
		for key := range s.functions {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			sym := s.functions[key]
			module := sym.Module
			if module == "" {
				module = "(file)"
			}
			fmt.Fprintf(&sb, "  %-20q  in %s\n", sym.Name, module)
		}
	}
	return sb.String()
}

// FindingKind classifies non-fatal problems found by Resolve.
type FindingKind int

const (
	DuplicateModule FindingKind = iota
	DuplicateFunction
	DuplicateVariable
	UndefinedFunction
)

var findingCodes = map[FindingKind]string{
	DuplicateModule:   "W0001",
	DuplicateFunction: "W0002",
	DuplicateVariable: "W0003",
	UndefinedFunction: "W0004",
}

// Finding is a warning about a well-formed tree.
type Finding struct {
	Kind     FindingKind
	Name     string
	Span     Span
	Previous Span // earlier definition, for duplicates
}

// Report builds the (non-halting) diagnostic for f and its headline.
func (f Finding) Report() (*diag.Diagnostic, string) {
	d := diag.New().WithCode(findingCodes[f.Kind])
	switch f.Kind {
	case UndefinedFunction:
		d.Primary(f.Span.diag(), "no function with this name is defined in this file")
		return d, fmt.Sprintf("call to undefined function %q", f.Name)
	case DuplicateModule, DuplicateFunction, DuplicateVariable:
		what := map[FindingKind]string{
			DuplicateModule:   "module",
			DuplicateFunction: "function",
			DuplicateVariable: "variable",
		}[f.Kind]
		d.Secondary(f.Previous.diag(), "first defined here").
			Primary(f.Span.diag(), "defined again here")
		return d, fmt.Sprintf("%s %q is defined more than once", what, f.Name)
	}
	return d, f.Name
}

type pendingCall struct {
	module string
	callee *Identifier
}

type resolver struct {
	syms     *SymbolTable
	findings []Finding
	calls    []pendingCall
}

// Resolve walks a parsed tree, records every definition, and reports
// duplicates and calls to functions that are never defined. Calls may
// refer to functions defined later in the file.
func Resolve(stmts []Stmt) (*SymbolTable, []Finding) {
	r := &resolver{syms: NewSymbolTable()}
	for _, s := range stmts {
		r.stmt(s, "")
	}
	for _, c := range r.calls {
		if _, ok := r.syms.LookupFunction(c.module, c.callee.Name); !ok {
			r.findings = append(r.findings, Finding{Kind: UndefinedFunction, Name: c.callee.Name, Span: c.callee.Span})
		}
	}
	return r.syms, r.findings
}

func (r *resolver) duplicate(kind FindingKind, prev Symbol, span Span) {
	r.findings = append(r.findings, Finding{Kind: kind, Name: prev.Name, Span: span, Previous: prev.Span})
}

func (r *resolver) block(b *Block, module string) {
	if b == nil {
		return
	}
	r.syms.EnterScope()
	defer r.syms.ExitScope()
	for _, s := range b.Stmts {
		r.stmt(s, module)
	}
}

func (r *resolver) stmt(s Stmt, module string) {
	switch n := s.(type) {
	case *Module:
		if prev, dup := r.syms.DefineModule(Symbol{Name: n.Name, Module: module, Span: n.NameSpan}); dup {
			r.duplicate(DuplicateModule, prev, n.NameSpan)
		}
		r.block(n.Body, n.Name)
	case *Function:
		if prev, dup := r.syms.DefineFunction(Symbol{Name: n.Name, Module: module, Span: n.NameSpan}); dup {
			r.duplicate(DuplicateFunction, prev, n.NameSpan)
		}
		r.block(n.Body, module)
	case *Variable:
		if prev, dup := r.syms.DefineVariable(Symbol{Name: n.Name, Module: module, Span: n.NameSpan}); dup {
			r.duplicate(DuplicateVariable, prev, n.NameSpan)
		}
	case *Condition:
		r.block(n.Then, module)
		r.block(n.Else, module)
	case *Block:
		r.block(n, module)
	case *ExprStmt:
		if call, ok := n.Expr.(*Call); ok {
			if id, ok := call.Callee.(*Identifier); ok {
				r.calls = append(r.calls, pendingCall{module: module, callee: id})
			}
		}
	}
}
