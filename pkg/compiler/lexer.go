package compiler

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NewlinePolicy decides what a newline inside a string literal means.
type NewlinePolicy int

const (
	// RejectNewline treats a newline before the closing quote as an
	// unterminated string literal.
	RejectNewline NewlinePolicy = iota
	// TerminateAtNewline ends the literal silently at the newline.
	TerminateAtNewline
)

func (p NewlinePolicy) String() string {
	switch p {
	case RejectNewline:
		return "reject"
	case TerminateAtNewline:
		return "terminate"
	}
	return fmt.Sprintf("NewlinePolicy(%d)", int(p))
}

// ParseNewlinePolicy accepts the names printed by NewlinePolicy.String.
func ParseNewlinePolicy(s string) (NewlinePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return RejectNewline, nil
	case "terminate":
		return TerminateAtNewline, nil
	}
	return 0, fmt.Errorf("unknown string newline policy %q (want reject or terminate)", s)
}

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src    string
	pos    int // byte offset of the next character to consume
	line   int // current 1-based source line
	policy NewlinePolicy
}

func newLexer(src string, policy NewlinePolicy) *Lexer {
	return &Lexer{src: src, line: 1, policy: policy}
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src) }

// peek returns the byte at the current position without advancing.
func (l *Lexer) peek() byte {
	if l.atEnd() {
		return 0
	}
	return l.src[l.pos]
}

// peekNext returns the byte after the current one without advancing.
func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

// advance consumes one byte.
func (l *Lexer) advance() {
	if l.atEnd() {
		return
	}
	if l.src[l.pos] == '\n' {
		l.line++
	}
	l.pos++
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) punct(kind TokenKind) Token {
	tok := Token{Kind: kind, Loc: Location{
		Offset: l.pos,
		Line:   l.line,
		Span:   Span{Start: l.pos, End: l.pos},
	}}
	l.advance()
	return tok
}

// scanString collects a string literal. The opening quote must still be at
// l.peek(). The token's span excludes both quotes.
func (l *Lexer) scanString() (Token, error) {
	start, line := l.pos, l.line
	l.advance() // opening "
	content := l.pos

	for {
		if l.atEnd() {
			return Token{}, l.unterminated(start, line)
		}
		ch := l.peek()
		if ch == '"' {
			break
		}
		if ch == '\n' || (ch == '\r' && l.peekNext() == '\n') {
			if l.policy == RejectNewline {
				return Token{}, l.unterminated(start, line)
			}
			// the line break itself is left for skipWhitespace
			return Token{Kind: STRING, Loc: Location{
				Offset: start,
				Line:   line,
				Span:   Span{Start: content, End: l.pos},
			}}, nil
		}
		l.advance()
	}

	tok := Token{Kind: STRING, Loc: Location{
		Offset: start,
		Line:   line,
		Span:   Span{Start: content, End: l.pos},
	}}
	l.advance() // closing "
	return tok, nil
}

func (l *Lexer) unterminated(start, line int) *LexError {
	return &LexError{
		Kind: UnterminatedConstruct,
		Span: Span{Start: start, End: l.pos},
		Line: line,
		Text: l.src[start:l.pos],
	}
}

// scanWord collects a run of letters and resolves it against the
// vocabulary. The first (ASCII) letter must still be at l.peek().
func (l *Lexer) scanWord() (Token, error) {
	start, line := l.pos, l.line
	for !l.atEnd() {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !unicode.IsLetter(r) {
			break
		}
		l.pos += size
	}
	span := Span{Start: start, End: l.pos}
	text := l.src[start:l.pos]

	word, err := LookupWord(text)
	if err != nil {
		return Token{}, &LexError{Kind: UnknownKeyword, Span: span, Line: line, Text: text}
	}
	return Token{Kind: WORD, Word: word, Loc: Location{Offset: start, Line: line, Span: span}}, nil
}

// nextToken skips whitespace and returns the next Token.
func (l *Lexer) nextToken() (Token, error) {
	l.skipWhitespace()
	if l.atEnd() {
		end := len(l.src)
		return Token{Kind: EOF, Loc: Location{Offset: end, Line: l.line, Span: Span{Start: end, End: end}}}, nil
	}

	ch := l.peek()
	switch ch {
	case ':':
		return l.punct(COLON), nil
	case '.':
		return l.punct(PERIOD), nil
	case ';':
		return l.punct(SEMICOLON), nil
	case '$':
		return l.punct(DOLLARSIGN), nil
	case '"':
		return l.scanString()
	}

	if isASCIILetter(ch) {
		return l.scanWord()
	}

	_, size := utf8.DecodeRuneInString(l.src[l.pos:])
	return Token{}, &LexError{
		Kind: UnknownCharacter,
		Span: Span{Start: l.pos, End: l.pos + size},
		Line: l.line,
		Text: l.src[l.pos : l.pos+size],
	}
}

func isASCIILetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

// Lex tokenises src with the default RejectNewline policy and returns all
// tokens including the final EOF token.
func Lex(src string) ([]Token, error) {
	return LexWithPolicy(src, RejectNewline)
}

// LexWithPolicy is Lex with an explicit string newline policy. It stops at
// the first error; the returned tokens are the ones scanned before it.
func LexWithPolicy(src string, policy NewlinePolicy) ([]Token, error) {
	l := newLexer(src, policy)
	var tokens []Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			return tokens, nil
		}
	}
}
