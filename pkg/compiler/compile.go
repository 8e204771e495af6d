package compiler

import (
	"fmt"

	"cbtc/pkg/diag"
)

// Options configures one compilation.
type Options struct {
	StringNewline NewlinePolicy
	RequireHeader bool
}

// Result is what a successful compilation hands to the code generator.
type Result struct {
	Tokens []Token
	Stmts  []Stmt
}

// Compile lexes and parses src. The first failure is emitted through em as
// a halting error diagnostic and returned; no partial result is returned.
func Compile(src *diag.Source, opts Options, em *diag.Emitter) (*Result, error) {
	tokens, err := LexWithPolicy(src.Text, opts.StringNewline)
	if err != nil {
		emitError(src, em, err)
		return nil, fmt.Errorf("lex: %w", err)
	}

	p := NewParser(tokens, src.Text)
	p.RequireHeader = opts.RequireHeader
	stmts, err := p.Parse()
	if err != nil {
		emitError(src, em, err)
		return nil, fmt.Errorf("parse: %w", err)
	}

	return &Result{Tokens: tokens, Stmts: stmts}, nil
}

// Check resolves the names in a compiled tree and emits each finding as a
// warning. Warnings never halt.
func Check(src *diag.Source, stmts []Stmt, em *diag.Emitter) (*SymbolTable, []Finding) {
	syms, findings := Resolve(stmts)
	for _, f := range findings {
		d, msg := f.Report()
		em.Emit(src, d, diag.Warning, msg)
	}
	return syms, findings
}

func emitError(src *diag.Source, em *diag.Emitter, err error) {
	d, msg := Report(err)
	em.Emit(src, d, diag.Error, msg)
}
