package compiler

import (
	"errors"
	"fmt"
	"strconv"

	"cbtc/pkg/diag"
)

// Error codes shown in diagnostic headers.
const (
	CodeUnexpectedToken       = "E0001"
	CodeUnknownKeyword        = "E0002"
	CodeUnknownCharacter      = "E0003"
	CodeUnterminatedConstruct = "E0004"
	CodeMismatchedBlockCloser = "E0005"
	CodeUnsupportedConstruct  = "E0006"
)

var messages = map[string]string{
	CodeUnexpectedToken:       "Provided keyword did not match the expected keyword.",
	CodeUnknownKeyword:        "Non-existent keyword.",
	CodeUnknownCharacter:      "Unsupported character.",
	CodeUnterminatedConstruct: "Unterminated string literal.",
	CodeMismatchedBlockCloser: "Closing name does not match the block's opening name.",
	CodeUnsupportedConstruct:  "This construct is not supported yet.",
}

// Message returns the headline registered for an error code.
func Message(code string) string { return messages[code] }

func (s Span) diag() diag.Span { return diag.Span{Start: s.Start, End: s.End} }

// Report turns a LexError or ParseError into a halting diagnostic and
// returns it with the headline to emit. Other errors yield a diagnostic
// with no labels.
func Report(err error) (*diag.Diagnostic, string) {
	d := diag.New().HaltAfterEmit(true)

	var lexErr *LexError
	var parseErr *ParseError
	switch {
	case errors.As(err, &lexErr):
		return reportLex(d, lexErr)
	case errors.As(err, &parseErr):
		return reportParse(d, parseErr)
	}
	return d, err.Error()
}

func reportLex(d *diag.Diagnostic, e *LexError) (*diag.Diagnostic, string) {
	switch e.Kind {
	case UnterminatedConstruct:
		d.WithCode(CodeUnterminatedConstruct).
			Primary(e.Span.diag(), "this string is never closed").
			Note(`add a closing " before the end of the line`)
	case UnknownCharacter:
		d.WithCode(CodeUnknownCharacter).
			Primary(e.Span.diag(), fmt.Sprintf("%q is not part of the language", e.Text)).
			Note("only letters, quoted strings and the characters : . ; $ may appear outside strings")
	default:
		d.WithCode(CodeUnknownKeyword).
			Primary(e.Span.diag(), fmt.Sprintf("`%s` is not a keyword", e.Text)).
			Note("names must be written as quoted strings")
	}
	return d, Message(d.Code)
}

func reportParse(d *diag.Diagnostic, e *ParseError) (*diag.Diagnostic, string) {
	switch e.Kind {
	case MismatchedBlockCloser:
		d.WithCode(CodeMismatchedBlockCloser).
			Secondary(e.Opener.diag(), "block opened here").
			Primary(e.Span.diag(), fmt.Sprintf("expected %s, found %s",
				strconv.Quote(e.ExpectedName), strconv.Quote(e.FoundName))).
			Note("a block must be closed with the exact name it was opened with")
	case UnsupportedConstruct:
		d.WithCode(CodeUnsupportedConstruct).
			Primary(e.Span.diag(), e.Construct+" is not supported").
			Note("found " + e.Found)
	default:
		d.WithCode(CodeUnexpectedToken).
			Primary(e.Span.diag(), fmt.Sprintf("expected %s, found %s", e.Expected, e.Found))
	}
	return d, Message(d.Code)
}
