package compiler

import (
	"errors"
	"fmt"
)

// Sentinels matched by errors.Is against LexError and ParseError kinds.
var (
	ErrUnterminatedConstruct = errors.New("unterminated construct")
	ErrUnknownCharacter      = errors.New("unknown character")
	ErrUnexpectedToken       = errors.New("unexpected token")
	ErrMismatchedBlockCloser = errors.New("mismatched block closer")
	ErrUnsupportedConstruct  = errors.New("unsupported construct")
)

// LexErrorKind classifies tokenizer failures.
type LexErrorKind int

const (
	UnterminatedConstruct LexErrorKind = iota
	UnknownCharacter
	UnknownKeyword
)

func (k LexErrorKind) String() string {
	switch k {
	case UnterminatedConstruct:
		return "UnterminatedConstruct"
	case UnknownCharacter:
		return "UnknownCharacter"
	case UnknownKeyword:
		return "UnknownKeyword"
	}
	return fmt.Sprintf("LexErrorKind(%d)", int(k))
}

func (k LexErrorKind) sentinel() error {
	switch k {
	case UnterminatedConstruct:
		return ErrUnterminatedConstruct
	case UnknownCharacter:
		return ErrUnknownCharacter
	default:
		return ErrUnknownKeyword
	}
}

// LexError is returned by the lexer. Span covers exactly the offending text.
type LexError struct {
	Kind LexErrorKind
	Span Span
	Line int
	Text string // offending source text
}

func (e *LexError) Error() string {
	switch e.Kind {
	case UnterminatedConstruct:
		return fmt.Sprintf("line %d: unterminated string literal %s", e.Line, e.Text)
	case UnknownCharacter:
		return fmt.Sprintf("line %d: unknown character %q", e.Line, e.Text)
	default:
		return fmt.Sprintf("line %d: unknown keyword %q", e.Line, e.Text)
	}
}

func (e *LexError) Is(target error) bool { return target == e.Kind.sentinel() }

// ParseErrorKind classifies parser failures.
type ParseErrorKind int

const (
	UnexpectedToken ParseErrorKind = iota
	MismatchedBlockCloser
	UnsupportedConstruct
)

func (k ParseErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "UnexpectedToken"
	case MismatchedBlockCloser:
		return "MismatchedBlockCloser"
	case UnsupportedConstruct:
		return "UnsupportedConstruct"
	}
	return fmt.Sprintf("ParseErrorKind(%d)", int(k))
}

func (k ParseErrorKind) sentinel() error {
	switch k {
	case UnexpectedToken:
		return ErrUnexpectedToken
	case MismatchedBlockCloser:
		return ErrMismatchedBlockCloser
	default:
		return ErrUnsupportedConstruct
	}
}

// ParseError is returned by the parser. Span is the span of the found token.
type ParseError struct {
	Kind ParseErrorKind
	Span Span
	Line int

	// UnexpectedToken: the phrase wanted and the phrase seen.
	Expected string
	Found    string

	// MismatchedBlockCloser: the name captured at the opener and the name
	// given at the closer. Opener is the span of the captured name.
	ExpectedName string
	FoundName    string
	Opener       Span

	// UnsupportedConstruct: what was attempted.
	Construct string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case UnexpectedToken:
		return fmt.Sprintf("line %d: expected %s, found %s", e.Line, e.Expected, e.Found)
	case MismatchedBlockCloser:
		return fmt.Sprintf("line %d: block opened as %q closed as %q", e.Line, e.ExpectedName, e.FoundName)
	default:
		return fmt.Sprintf("line %d: %s is not supported", e.Line, e.Construct)
	}
}

func (e *ParseError) Is(target error) bool { return target == e.Kind.sentinel() }
