package compiler

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// ErrUnknownKeyword is returned by LookupWord when text is not in the vocabulary.
var ErrUnknownKeyword = errors.New("unknown keyword")

// Keyword identifies one entry of the closed vocabulary.
type Keyword int

const (
	DEFINE Keyword = iota
	MODULE
	FUNCTION
	CALL
	EQUAL
	ARGUMENT
	THE
	WITH
	CONTENTS
	END
	IS
	TO
	SET
	A
	EXPECTS
	THAT
	RETURNS
	CONTAINS
	DISPLAY
	IF
	THEN
	DO
	TRUE
	FALSE
	BEGIN
	PROGRAM

	keywordCount // sentinel, keep last
)

// keywordNames holds the canonical spelling of every keyword, indexed by Keyword.
var keywordNames = [...]string{
	DEFINE:   "DEFINE",
	MODULE:   "MODULE",
	FUNCTION: "FUNCTION",
	CALL:     "CALL",
	EQUAL:    "EQUAL",
	ARGUMENT: "ARGUMENT",
	THE:      "THE",
	WITH:     "WITH",
	CONTENTS: "CONTENTS",
	END:      "END",
	IS:       "IS",
	TO:       "TO",
	SET:      "SET",
	A:        "A",
	EXPECTS:  "EXPECTS",
	THAT:     "THAT",
	RETURNS:  "RETURNS",
	CONTAINS: "CONTAINS",
	DISPLAY:  "DISPLAY",
	IF:       "IF",
	THEN:     "THEN",
	DO:       "DO",
	TRUE:     "TRUE",
	FALSE:    "FALSE",
	BEGIN:    "BEGIN",
	PROGRAM:  "PROGRAM",
}

// Fails to compile if a keyword is added without a spelling.
var _ [len(keywordNames) - int(keywordCount)]struct{}

// vocabulary maps the case-folded spelling back to its keyword.
var vocabulary = func() map[string]Keyword {
	fold := cases.Fold()
	m := make(map[string]Keyword, len(keywordNames))
	for k, name := range keywordNames {
		m[fold.String(name)] = Keyword(k)
	}
	return m
}()

func (k Keyword) String() string {
	if k >= 0 && k < keywordCount {
		return keywordNames[k]
	}
	return fmt.Sprintf("Keyword(%d)", int(k))
}

// Keywords returns every keyword of the vocabulary in declaration order.
func Keywords() []Keyword {
	out := make([]Keyword, 0, keywordCount)
	for k := Keyword(0); k < keywordCount; k++ {
		out = append(out, k)
	}
	return out
}

// Word is a keyword as it appeared in the source.
type Word struct {
	Which Keyword
	// Plural is reserved for plural detection and is always false for now.
	Plural bool
}

func (w Word) String() string { return Render(w) }

// LookupWord resolves text to a Word. Matching is case-insensitive and
// exact: no abbreviations, no fuzzy matching.
func LookupWord(text string) (Word, error) {
	// Every spelling is ASCII; Unicode folding must not map e.g. "ſ" onto "s".
	for i := 0; i < len(text); i++ {
		if text[i] >= utf8.RuneSelf {
			return Word{}, fmt.Errorf("%w: %q", ErrUnknownKeyword, text)
		}
	}
	// cases.Caser is stateful, so each lookup gets its own.
	k, ok := vocabulary[cases.Fold().String(text)]
	if !ok {
		return Word{}, fmt.Errorf("%w: %q", ErrUnknownKeyword, text)
	}
	return Word{Which: k}, nil
}

// Render returns the canonical uppercase spelling of w.
func Render(w Word) string {
	return w.Which.String()
}
