package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSource(t *testing.T, src string) ([]Stmt, error) {
	t.Helper()
	tokens, err := Lex(src)
	require.NoError(t, err)
	return Parse(tokens, src)
}

func dumpStmts(stmts []Stmt) string {
	parts := make([]string, len(stmts))
	for i, s := range stmts {
		parts[i] = s.String()
	}
	return strings.Join(parts, "\n")
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Empty Program",
			input:    "",
			expected: "",
		},
		{
			name:     "Empty Module",
			input:    `DEFINE MODULE "X" WITH CONTENTS: END MODULE "X".`,
			expected: `Module("X", Block[])`,
		},
		{
			name:     "Lowercase Keywords",
			input:    `define module "X" with contents: end module "X".`,
			expected: `Module("X", Block[])`,
		},
		{
			name:     "Header",
			input:    "BEGIN PROGRAM.\n" + `SET "v" EQUAL TO "hello".`,
			expected: `Variable("v", String, "hello")`,
		},
		{
			name:     "String Variable",
			input:    `SET "v" EQUAL TO "hello".`,
			expected: `Variable("v", String, "hello")`,
		},
		{
			name:     "Bool Variable",
			input:    `SET "flag" EQUAL TO TRUE.`,
			expected: `Variable("flag", Bool, TRUE)`,
		},
		{
			name:     "Function",
			input:    `DEFINE FUNCTION "f" THAT RETURNS A: SET "x" EQUAL TO FALSE. END FUNCTION "f".`,
			expected: `Function("f", Block[Variable("x", Bool, FALSE)])`,
		},
		{
			name:     "Call Without Argument",
			input:    `CALL FUNCTION "f".`,
			expected: `Call(f)`,
		},
		{
			name:     "Call With Argument",
			input:    `CALL FUNCTION "print" WITH THE ARGUMENT "greeting".`,
			expected: `Call(print, ["greeting"])`,
		},
		{
			name:     "Condition",
			input:    `IF "a" IS EQUAL TO "b" THEN DO SET "c" EQUAL TO "d". IF`,
			expected: `Condition(BinaryOp(EqualTo, "a", "b"), Block[Variable("c", String, "d")])`,
		},
		{
			name:     "Empty Condition",
			input:    `IF TRUE IS EQUAL TO FALSE THEN DO IF`,
			expected: `Condition(BinaryOp(EqualTo, TRUE, FALSE), Block[])`,
		},
		{
			name:     "Nested Condition",
			input:    `IF "a" IS EQUAL TO "a" THEN DO IF "b" IS EQUAL TO "b" THEN DO CALL FUNCTION "f". IF IF`,
			expected: `Condition(BinaryOp(EqualTo, "a", "a"), Block[Condition(BinaryOp(EqualTo, "b", "b"), Block[Call(f)])])`,
		},
		{
			name: "Nested Blocks",
			input: `DEFINE MODULE "main" WITH CONTENTS:
    DEFINE FUNCTION "greet" THAT RETURNS A:
        CALL FUNCTION "print" WITH THE ARGUMENT "hi".
    END FUNCTION "greet".
    CALL FUNCTION "greet".
END MODULE "main".`,
			expected: `Module("main", Block[Function("greet", Block[Call(print, ["hi"])]), Call(greet)])`,
		},
		{
			name:     "Several Top-level Statements",
			input:    `SET "a" EQUAL TO "1". SET "b" EQUAL TO "2".`,
			expected: "Variable(\"a\", String, \"1\")\nVariable(\"b\", String, \"2\")",
		},
		{
			name:     "Names Keep Case And Spaces",
			input:    `DEFINE MODULE "My Module" WITH CONTENTS: END MODULE "My Module".`,
			expected: `Module("My Module", Block[])`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, err := parseSource(t, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, dumpStmts(stmts))
		})
	}
}

func TestParseNodeSpans(t *testing.T) {
	src := `DEFINE MODULE "X" WITH CONTENTS: END MODULE "X".`
	stmts, err := parseSource(t, src)
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	mod, ok := stmts[0].(*Module)
	require.True(t, ok)
	assert.Equal(t, Span{15, 16}, mod.NameSpan)
	require.NotNil(t, mod.Body)
	assert.Empty(t, mod.Body.Stmts)

	src = `CALL FUNCTION "f" WITH THE ARGUMENT "x".`
	stmts, err = parseSource(t, src)
	require.NoError(t, err)
	call := stmts[0].(*ExprStmt).Expr.(*Call)
	callee := call.Callee.(*Identifier)
	assert.Equal(t, "f", callee.Name)
	assert.Equal(t, Span{15, 16}, callee.Span)
	require.Len(t, call.Args, 1)
	assert.Equal(t, Span{37, 38}, call.Args[0].(*Literal).Span)
}

func TestParseConditionHasNoElse(t *testing.T) {
	stmts, err := parseSource(t, `IF "a" IS EQUAL TO "b" THEN DO IF`)
	require.NoError(t, err)
	cond := stmts[0].(*Condition)
	assert.Nil(t, cond.Else)
	assert.NotNil(t, cond.Then)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		kind     ParseErrorKind
		span     Span
		expected string // Expected for UnexpectedToken, Construct for UnsupportedConstruct
		found    string
	}{
		{
			name:     "Statement Expected",
			input:    `MODULE "x".`,
			kind:     UnexpectedToken,
			span:     Span{0, 6},
			expected: "a statement (`DEFINE`, `SET`, `CALL` or `IF`)",
			found:    "`MODULE`",
		},
		{
			name:     "Missing Period",
			input:    `SET "v" EQUAL TO "x"`,
			kind:     UnexpectedToken,
			span:     Span{20, 21},
			expected: "`.`",
			found:    "end of input",
		},
		{
			name:     "Wrong Keyword",
			input:    `SET "v" EQUAL THE "x".`,
			kind:     UnexpectedToken,
			span:     Span{14, 17},
			expected: "`TO`",
			found:    "`THE`",
		},
		{
			name:     "Name Must Be Quoted",
			input:    `DEFINE MODULE WITH CONTENTS:`,
			kind:     UnexpectedToken,
			span:     Span{14, 18},
			expected: "a quoted name",
			found:    "`WITH`",
		},
		{
			name:     "Define Something Else",
			input:    `DEFINE THE "x".`,
			kind:     UnexpectedToken,
			span:     Span{7, 10},
			expected: "`MODULE` or `FUNCTION`",
			found:    "`THE`",
		},
		{
			name:     "Unclosed Module",
			input:    `DEFINE MODULE "X" WITH CONTENTS:`,
			kind:     UnexpectedToken,
			span:     Span{32, 33},
			expected: "`END MODULE \"X\" .`",
			found:    "end of input",
		},
		{
			name:     "END IF Is Rejected",
			input:    `IF "a" IS EQUAL TO "b" THEN DO END IF`,
			kind:     UnexpectedToken,
			span:     Span{31, 34},
			expected: "`IF`",
			found:    "`END`",
		},
		{
			name:     "Unclosed Condition",
			input:    `IF "a" IS EQUAL TO "b" THEN DO`,
			kind:     UnexpectedToken,
			span:     Span{30, 31},
			expected: "`IF`",
			found:    "end of input",
		},
		{
			name:     "Bad Value",
			input:    `SET "v" EQUAL TO .`,
			kind:     UnexpectedToken,
			span:     Span{17, 18},
			expected: "a quoted string, `TRUE` or `FALSE`",
			found:    "`.`",
		},
		{
			name:     "Display",
			input:    `DISPLAY "x".`,
			kind:     UnsupportedConstruct,
			span:     Span{0, 7},
			expected: "the DISPLAY statement",
			found:    "`DISPLAY`",
		},
		{
			name:     "Function With Arguments",
			input:    `DEFINE FUNCTION "f" WITH THE ARGUMENT "x":`,
			kind:     UnsupportedConstruct,
			span:     Span{20, 24},
			expected: "a function that takes arguments",
			found:    "`WITH`",
		},
		{
			name:     "Function That Expects",
			input:    `DEFINE FUNCTION "f" THAT EXPECTS "x":`,
			kind:     UnsupportedConstruct,
			span:     Span{25, 32},
			expected: "a function that takes arguments",
			found:    "`EXPECTS`",
		},
		{
			name:     "Call A Module",
			input:    `CALL MODULE "m".`,
			kind:     UnsupportedConstruct,
			span:     Span{5, 11},
			expected: "calling a MODULE",
			found:    "`MODULE`",
		},
		{
			name:     "Call With Two Arguments",
			input:    `CALL FUNCTION "f" WITH ARGUMENT "x".`,
			kind:     UnsupportedConstruct,
			span:     Span{23, 31},
			expected: "a call with more than one argument",
			found:    "`ARGUMENT`",
		},
		{
			name:     "Other Comparison",
			input:    `IF "a" IS THE "b" THEN DO IF`,
			kind:     UnsupportedConstruct,
			span:     Span{10, 13},
			expected: "a comparison other than IS EQUAL TO",
			found:    "`THE`",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, err := parseSource(t, tt.input)
			require.Error(t, err)
			assert.Nil(t, stmts)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.kind, pe.Kind)
			assert.Equal(t, tt.span, pe.Span)
			assert.Equal(t, tt.found, pe.Found)
			if tt.kind == UnsupportedConstruct {
				assert.ErrorIs(t, err, ErrUnsupportedConstruct)
				assert.Equal(t, tt.expected, pe.Construct)
			} else {
				assert.ErrorIs(t, err, ErrUnexpectedToken)
				assert.Equal(t, tt.expected, pe.Expected)
			}
		})
	}
}

func TestParseMismatchedCloser(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		found  string
		span   Span
		opener Span
	}{
		{
			name:   "Module",
			input:  `DEFINE MODULE "X" WITH CONTENTS: END MODULE "Y".`,
			want:   "X",
			found:  "Y",
			span:   Span{45, 46},
			opener: Span{15, 16},
		},
		{
			name:   "Function",
			input:  `DEFINE FUNCTION "f" THAT RETURNS A: END FUNCTION "g".`,
			want:   "f",
			found:  "g",
			span:   Span{50, 51},
			opener: Span{17, 18},
		},
		{
			name:   "Case Matters",
			input:  `DEFINE MODULE "X" WITH CONTENTS: END MODULE "x".`,
			want:   "X",
			found:  "x",
			span:   Span{45, 46},
			opener: Span{15, 16},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, err := parseSource(t, tt.input)
			require.Error(t, err)
			assert.Nil(t, stmts)
			assert.ErrorIs(t, err, ErrMismatchedBlockCloser)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, MismatchedBlockCloser, pe.Kind)
			assert.Equal(t, tt.want, pe.ExpectedName)
			assert.Equal(t, tt.found, pe.FoundName)
			assert.Equal(t, tt.span, pe.Span)
			assert.Equal(t, tt.opener, pe.Opener)
		})
	}
}

func TestParseCloserKindMustMatch(t *testing.T) {
	_, err := parseSource(t, `DEFINE MODULE "X" WITH CONTENTS: END FUNCTION "X".`)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, UnexpectedToken, pe.Kind)
	assert.Equal(t, "`MODULE`", pe.Expected)
	assert.Equal(t, "`FUNCTION`", pe.Found)
}

func TestParseNoPartialTree(t *testing.T) {
	// the first statement is fine, the second is not
	stmts, err := parseSource(t, `SET "a" EQUAL TO "b". SET "c" EQUAL TO "d"`)
	require.Error(t, err)
	assert.Nil(t, stmts)
}

func TestParseRequireHeader(t *testing.T) {
	src := `SET "v" EQUAL TO "x".`
	tokens, err := Lex(src)
	require.NoError(t, err)

	p := NewParser(tokens, src)
	p.RequireHeader = true
	_, err = p.Parse()
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "`BEGIN PROGRAM .`", pe.Expected)
	assert.Equal(t, "`SET`", pe.Found)

	src = "BEGIN PROGRAM.\n" + src
	tokens, err = Lex(src)
	require.NoError(t, err)
	p = NewParser(tokens, src)
	p.RequireHeader = true
	stmts, err := p.Parse()
	require.NoError(t, err)
	assert.Len(t, stmts, 1)
}

func TestParseHeaderNeedsProgram(t *testing.T) {
	_, err := parseSource(t, "BEGIN.")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "`PROGRAM`", pe.Expected)
}

func TestParserSingleUse(t *testing.T) {
	src := `SET "v" EQUAL TO "x".`
	tokens, err := Lex(src)
	require.NoError(t, err)

	p := NewParser(tokens, src)
	_, err = p.Parse()
	require.NoError(t, err)
	_, err = p.Parse()
	assert.ErrorIs(t, err, errParserReused)
}

func TestParseWithoutEOFToken(t *testing.T) {
	src := `SET "v" EQUAL TO "x"`
	tokens, err := Lex(src)
	require.NoError(t, err)

	// drop the EOF token; the parser synthesizes one at the end of src
	_, err = Parse(tokens[:len(tokens)-1], src)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "end of input", pe.Found)
	assert.Equal(t, Span{len(src), len(src) + 1}, pe.Span)
}
