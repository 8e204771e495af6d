package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolTable(t *testing.T) {
	t.Run("Modules", func(t *testing.T) {
		s := NewSymbolTable()
		sym, dup := s.DefineModule(Symbol{Name: "m", Span: Span{1, 2}})
		assert.False(t, dup)
		assert.Equal(t, ModuleSymbol, sym.Kind)

		prev, dup := s.DefineModule(Symbol{Name: "m", Span: Span{9, 10}})
		assert.True(t, dup)
		assert.Equal(t, Span{1, 2}, prev.Span)
	})

	t.Run("FunctionsPerModule", func(t *testing.T) {
		s := NewSymbolTable()
		_, dup := s.DefineFunction(Symbol{Name: "f", Module: "a"})
		assert.False(t, dup)
		_, dup = s.DefineFunction(Symbol{Name: "f", Module: "b"})
		assert.False(t, dup, "same name in another module")
		_, dup = s.DefineFunction(Symbol{Name: "f", Module: "a"})
		assert.True(t, dup)

		sym, ok := s.LookupFunction("b", "f")
		require.True(t, ok)
		assert.Equal(t, "b", sym.Module)

		// falls back to any module
		sym, ok = s.LookupFunction("c", "f")
		require.True(t, ok)
		assert.Equal(t, "a", sym.Module)

		_, ok = s.LookupFunction("a", "g")
		assert.False(t, ok)
	})

	t.Run("VariableScopes", func(t *testing.T) {
		s := NewSymbolTable()
		s.DefineVariable(Symbol{Name: "outer"})
		s.EnterScope()
		_, dup := s.DefineVariable(Symbol{Name: "outer"})
		assert.False(t, dup, "shadowing in an inner scope")
		s.DefineVariable(Symbol{Name: "inner", Span: Span{3, 4}})
		prev, dup := s.DefineVariable(Symbol{Name: "inner"})
		assert.True(t, dup)
		assert.Equal(t, Span{3, 4}, prev.Span)

		s.ExitScope()
		_, dup = s.DefineVariable(Symbol{Name: "inner"})
		assert.False(t, dup, "inner scope was popped")
		_, dup = s.DefineVariable(Symbol{Name: "outer"})
		assert.True(t, dup)

		// the file scope is never popped
		s.ExitScope()
		_, dup = s.DefineVariable(Symbol{Name: "outer"})
		assert.True(t, dup)
	})

	t.Run("String", func(t *testing.T) {
		s := NewSymbolTable()
		assert.Equal(t, "Modules: (empty)\n", s.String())

		s.DefineModule(Symbol{Name: "m"})
		s.DefineFunction(Symbol{Name: "f", Module: "m"})
		s.DefineFunction(Symbol{Name: "g"})
		out := s.String()
		assert.Contains(t, out, "Modules:\n  \"m\"\n")
		assert.Contains(t, out, "Functions:\n")
		assert.Contains(t, out, "in m\n")
		assert.Contains(t, out, "in (file)\n")
	})
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kinds []FindingKind
		names []string
	}{
		{
			name:  "Sample Calls An External Function",
			input: sampleProgram,
			kinds: []FindingKind{UndefinedFunction},
			names: []string{"print"},
		},
		{
			name:  "Call Into Another Module",
			input: `DEFINE MODULE "a" WITH CONTENTS: DEFINE FUNCTION "f" THAT RETURNS A: END FUNCTION "f". END MODULE "a". CALL FUNCTION "f".`,
		},
		{
			name:  "Call Before Definition",
			input: `CALL FUNCTION "f". DEFINE FUNCTION "f" THAT RETURNS A: END FUNCTION "f".`,
		},
		{
			name:  "Undefined Function",
			input: `CALL FUNCTION "nope".`,
			kinds: []FindingKind{UndefinedFunction},
			names: []string{"nope"},
		},
		{
			name: "Duplicate Module",
			input: `DEFINE MODULE "m" WITH CONTENTS: END MODULE "m".
DEFINE MODULE "m" WITH CONTENTS: END MODULE "m".`,
			kinds: []FindingKind{DuplicateModule},
			names: []string{"m"},
		},
		{
			name: "Duplicate Function",
			input: `DEFINE MODULE "m" WITH CONTENTS:
DEFINE FUNCTION "f" THAT RETURNS A: END FUNCTION "f".
DEFINE FUNCTION "f" THAT RETURNS A: END FUNCTION "f".
END MODULE "m".`,
			kinds: []FindingKind{DuplicateFunction},
			names: []string{"f"},
		},
		{
			name:  "Duplicate Variable",
			input: `SET "v" EQUAL TO "a". SET "v" EQUAL TO "b".`,
			kinds: []FindingKind{DuplicateVariable},
			names: []string{"v"},
		},
		{
			name:  "Variable Shadowed In Condition",
			input: `SET "v" EQUAL TO "a". IF "a" IS EQUAL TO "a" THEN DO SET "v" EQUAL TO "b". IF`,
		},
		{
			name: "Duplicates Reported Before Undefined Calls",
			input: `CALL FUNCTION "x".
SET "v" EQUAL TO TRUE. SET "v" EQUAL TO FALSE.`,
			kinds: []FindingKind{DuplicateVariable, UndefinedFunction},
			names: []string{"v", "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, err := parseSource(t, tt.input)
			require.NoError(t, err)

			_, findings := Resolve(stmts)
			var kinds []FindingKind
			var names []string
			for _, f := range findings {
				kinds = append(kinds, f.Kind)
				names = append(names, f.Name)
			}
			assert.Equal(t, tt.kinds, kinds)
			assert.Equal(t, tt.names, names)
		})
	}
}

func TestFindingReport(t *testing.T) {
	f := Finding{Kind: DuplicateModule, Name: "m", Span: Span{30, 31}, Previous: Span{15, 16}}
	d, msg := f.Report()
	assert.Equal(t, "W0001", d.Code)
	assert.Equal(t, `module "m" is defined more than once`, msg)
	assert.False(t, d.Halt)
	require.Len(t, d.Labels, 2)
	assert.False(t, d.Labels[0].Primary)
	assert.True(t, d.Labels[1].Primary)

	f = Finding{Kind: UndefinedFunction, Name: "g", Span: Span{15, 16}}
	d, msg = f.Report()
	assert.Equal(t, "W0004", d.Code)
	assert.Equal(t, `call to undefined function "g"`, msg)
	assert.Len(t, d.Labels, 1)
}
