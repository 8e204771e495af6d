package compiler

import "fmt"

// TokenKind identifies the category of a lexed token.
type TokenKind int

const (
	EOF TokenKind = iota // sentinel: end of input

	// Punctuation (zero-width)
	COLON      // :
	PERIOD     // .
	SEMICOLON  // ;   legacy marker
	DOLLARSIGN // $   legacy marker

	// Literals
	STRING // "..."

	// Vocabulary
	WORD // any keyword; Token.Word says which
)

var tokenNames = [...]string{
	EOF:        "EOF",
	COLON:      "COLON",
	PERIOD:     "PERIOD",
	SEMICOLON:  "SEMICOLON",
	DOLLARSIGN: "DOLLARSIGN",
	STRING:     "STRING",
	WORD:       "WORD",
}

func (k TokenKind) String() string {
	if int(k) >= 0 && int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// punctuation maps each punctuation kind to the character that produces it.
var punctuation = map[TokenKind]byte{
	COLON:      ':',
	PERIOD:     '.',
	SEMICOLON:  ';',
	DOLLARSIGN: '$',
}

// Span is a half-open byte range [Start, End) into the source buffer.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by s.
func (s Span) Len() int { return s.End - s.Start }

// Empty reports whether s covers no bytes.
func (s Span) Empty() bool { return s.End <= s.Start }

func (s Span) String() string { return fmt.Sprintf("%d..%d", s.Start, s.End) }

// Location records where a token starts.
type Location struct {
	Offset int // byte offset of the token's first character
	Line   int // 1-based source line
	// Span is the slice of source holding the token's content. It is empty
	// for punctuation and EOF, and excludes the quotes of string literals.
	Span Span
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Kind TokenKind
	Word Word // valid when Kind == WORD
	Loc  Location
}

// Is reports whether t is the given keyword.
func (t Token) Is(k Keyword) bool {
	return t.Kind == WORD && t.Word.Which == k
}

// Reported returns the span used when pointing a diagnostic at t.
// Zero-width tokens report the single byte at their offset.
func (t Token) Reported() Span {
	if t.Loc.Span.Empty() {
		return Span{Start: t.Loc.Offset, End: t.Loc.Offset + 1}
	}
	return t.Loc.Span
}

// Text returns the source text covered by the token's span.
func (t Token) Text(src string) string {
	s := t.Loc.Span
	if s.Start < 0 || s.End > len(src) || s.Empty() {
		return ""
	}
	return src[s.Start:s.End]
}

// Describe renders t the way diagnostics quote a found token.
func (t Token) Describe(src string) string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case WORD:
		return "`" + Render(t.Word) + "`"
	case STRING:
		return fmt.Sprintf("%q", t.Text(src))
	default:
		return fmt.Sprintf("`%c`", punctuation[t.Kind])
	}
}

func (t Token) String() string {
	detail := ""
	if t.Kind == WORD {
		detail = Render(t.Word)
	}
	return fmt.Sprintf("%-10s %-10s @%-5d span %-8s line %d", t.Kind, detail, t.Loc.Offset, t.Loc.Span, t.Loc.Line)
}
