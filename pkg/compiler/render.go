package compiler

import "strings"

// RenderTokens writes tokens back out as source text: keywords in their
// canonical spelling, strings re-quoted from their span in src, and
// punctuation as itself, separated by single spaces. Lexing the result
// yields the same sequence of token kinds and words.
func RenderTokens(tokens []Token, src string) string {
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		switch tok.Kind {
		case EOF:
			continue
		case WORD:
			parts = append(parts, Render(tok.Word))
		case STRING:
			parts = append(parts, `"`+tok.Text(src)+`"`)
		default:
			parts = append(parts, string(punctuation[tok.Kind]))
		}
	}
	return strings.Join(parts, " ")
}
