package compiler

import (
	"errors"
	"strconv"
)

// Parser consumes the flat token slice produced by the Lexer and builds an AST.
//
// Grammar (keywords are case-insensitive):
//
//	program        = [ BEGIN PROGRAM "." ] statement*
//	statement      = defineModule | defineFunction | setVariable | ifStmt | callStmt
//	defineModule   = DEFINE MODULE str WITH CONTENTS ":" block END MODULE str "."
//	defineFunction = DEFINE FUNCTION str THAT RETURNS A ":" block END FUNCTION str "."
//	setVariable    = SET str EQUAL TO value "."
//	callStmt       = CALL FUNCTION str [ WITH THE ARGUMENT str ] "."
//	ifStmt         = IF expr IS EQUAL TO expr THEN DO block IF
//	expr, value    = str | TRUE | FALSE
//
// A named block must be closed with the same name it was opened with.
// Conditionals close on a bare IF, not END IF. Every rule consumes its own
// closer; block only stops when it sees one.
type Parser struct {
	tokens []Token
	pos    int
	src    string
	used   bool

	// RequireHeader makes the BEGIN PROGRAM. prefix mandatory.
	RequireHeader bool
}

var errParserReused = errors.New("parser: Parse called twice on the same Parser")

func NewParser(tokens []Token, rawSource string) *Parser {
	return &Parser{tokens: tokens, src: rawSource}
}

// blockFrame describes the construct a block belongs to, so the block loop
// knows which closer ends it.
type blockFrame struct {
	kind Keyword // MODULE, FUNCTION or IF
	name string  // named blocks only
}

func (f blockFrame) closer() string {
	if f.kind == IF {
		return "`IF`"
	}
	return "`END " + f.kind.String() + " " + strconv.Quote(f.name) + " .`"
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	return p.peekAt(0)
}

// peekAt returns the token at the given offset from the current position.
// Running off the end yields an EOF token at the end of the source.
func (p *Parser) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		end := len(p.src)
		line := 1
		if n := len(p.tokens); n > 0 {
			line = p.tokens[n-1].Loc.Line
		}
		return Token{Kind: EOF, Loc: Location{Offset: end, Line: line, Span: Span{Start: end, End: end}}}
	}
	return p.tokens[p.pos+offset]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) unexpected(tok Token, expected string) error {
	return &ParseError{
		Kind:     UnexpectedToken,
		Span:     tok.Reported(),
		Line:     tok.Loc.Line,
		Expected: expected,
		Found:    tok.Describe(p.src),
	}
}

func (p *Parser) unsupported(tok Token, construct string) error {
	return &ParseError{
		Kind:      UnsupportedConstruct,
		Span:      tok.Reported(),
		Line:      tok.Loc.Line,
		Found:     tok.Describe(p.src),
		Construct: construct,
	}
}

// expectWord consumes the current token if it is keyword k.
func (p *Parser) expectWord(k Keyword) (Token, error) {
	tok := p.peek()
	if !tok.Is(k) {
		return tok, p.unexpected(tok, "`"+k.String()+"`")
	}
	return p.advance(), nil
}

// expectWords consumes a fixed phrase, one keyword at a time.
func (p *Parser) expectWords(ks ...Keyword) error {
	for _, k := range ks {
		if _, err := p.expectWord(k); err != nil {
			return err
		}
	}
	return nil
}

// expectPunct consumes the current token if it is the punctuation kind.
func (p *Parser) expectPunct(kind TokenKind) (Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return tok, p.unexpected(tok, "`"+string(punctuation[kind])+"`")
	}
	return p.advance(), nil
}

// expectName consumes a string literal and returns its text, sliced from
// the source buffer at the token's span.
func (p *Parser) expectName() (string, Token, error) {
	tok := p.peek()
	if tok.Kind != STRING {
		return "", tok, p.unexpected(tok, "a quoted name")
	}
	p.advance()
	return tok.Text(p.src), tok, nil
}

// startsExpr reports whether tok can begin an expression.
func startsExpr(tok Token) bool {
	return tok.Kind == STRING || tok.Is(TRUE) || tok.Is(FALSE)
}

func (p *Parser) parseHeader() error {
	if !p.peek().Is(BEGIN) {
		if p.RequireHeader {
			return p.unexpected(p.peek(), "`BEGIN PROGRAM .`")
		}
		return nil
	}
	p.advance()
	if _, err := p.expectWord(PROGRAM); err != nil {
		return err
	}
	_, err := p.expectPunct(PERIOD)
	return err
}

func (p *Parser) parseStatement() (Stmt, error) {
	tok := p.peek()
	switch {
	case tok.Is(DEFINE):
		return p.parseDefine()
	case tok.Is(SET):
		return p.parseSet()
	case tok.Is(CALL):
		return p.parseCall()
	case tok.Is(IF):
		return p.parseIf()
	case tok.Is(DISPLAY):
		return nil, p.unsupported(tok, "the DISPLAY statement")
	}
	return nil, p.unexpected(tok, "a statement (`DEFINE`, `SET`, `CALL` or `IF`)")
}

// parseBlock collects statements until the closer of frame is next. It does
// not consume the closer.
func (p *Parser) parseBlock(frame blockFrame) (*Block, error) {
	block := &Block{}
	for {
		tok := p.peek()
		if frame.kind == IF {
			if tok.Is(IF) && !startsExpr(p.peekAt(1)) {
				return block, nil
			}
			if tok.Is(END) {
				return nil, p.unexpected(tok, frame.closer())
			}
		} else if tok.Is(END) {
			return block, nil
		}
		if tok.Kind == EOF {
			return nil, p.unexpected(tok, frame.closer())
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
}

// closeNamed consumes END <kind> "name" . and checks the name against the
// one captured at the opener.
func (p *Parser) closeNamed(frame blockFrame, opener Token) error {
	if _, err := p.expectWord(END); err != nil {
		return err
	}
	if _, err := p.expectWord(frame.kind); err != nil {
		return err
	}
	name, tok, err := p.expectName()
	if err != nil {
		return err
	}
	if name != frame.name {
		return &ParseError{
			Kind:         MismatchedBlockCloser,
			Span:         tok.Reported(),
			Line:         tok.Loc.Line,
			ExpectedName: frame.name,
			FoundName:    name,
			Opener:       opener.Reported(),
		}
	}
	_, err = p.expectPunct(PERIOD)
	return err
}

func (p *Parser) parseDefine() (Stmt, error) {
	p.advance() // DEFINE
	tok := p.peek()
	switch {
	case tok.Is(MODULE):
		return p.parseModule()
	case tok.Is(FUNCTION):
		return p.parseFunction()
	}
	return nil, p.unexpected(tok, "`MODULE` or `FUNCTION`")
}

func (p *Parser) parseModule() (Stmt, error) {
	p.advance() // MODULE
	name, nameTok, err := p.expectName()
	if err != nil {
		return nil, err
	}
	if err := p.expectWords(WITH, CONTENTS); err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(COLON); err != nil {
		return nil, err
	}

	frame := blockFrame{kind: MODULE, name: name}
	body, err := p.parseBlock(frame)
	if err != nil {
		return nil, err
	}
	if err := p.closeNamed(frame, nameTok); err != nil {
		return nil, err
	}
	return &Module{Name: name, NameSpan: nameTok.Loc.Span, Body: body}, nil
}

func (p *Parser) parseFunction() (Stmt, error) {
	p.advance() // FUNCTION
	name, nameTok, err := p.expectName()
	if err != nil {
		return nil, err
	}

	// Only the no-argument form exists. Anything that looks like an
	// argument list must fail here rather than be read as something else.
	if tok := p.peek(); tok.Is(WITH) || tok.Is(EXPECTS) {
		return nil, p.unsupported(tok, "a function that takes arguments")
	}
	if _, err := p.expectWord(THAT); err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Is(EXPECTS) {
		return nil, p.unsupported(tok, "a function that takes arguments")
	}
	if err := p.expectWords(RETURNS, A); err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(COLON); err != nil {
		return nil, err
	}

	frame := blockFrame{kind: FUNCTION, name: name}
	body, err := p.parseBlock(frame)
	if err != nil {
		return nil, err
	}
	if err := p.closeNamed(frame, nameTok); err != nil {
		return nil, err
	}
	return &Function{Name: name, NameSpan: nameTok.Loc.Span, Body: body}, nil
}

func (p *Parser) parseSet() (Stmt, error) {
	p.advance() // SET
	name, nameTok, err := p.expectName()
	if err != nil {
		return nil, err
	}
	if err := p.expectWords(EQUAL, TO); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(PERIOD); err != nil {
		return nil, err
	}

	typ := StringType
	if value.Kind == BoolLit {
		typ = BoolType
	}
	return &Variable{Name: name, NameSpan: nameTok.Loc.Span, Type: typ, Value: value}, nil
}

func (p *Parser) parseCall() (Stmt, error) {
	p.advance() // CALL
	if tok := p.peek(); !tok.Is(FUNCTION) {
		if tok.Kind == WORD {
			return nil, p.unsupported(tok, "calling a "+tok.Word.Which.String())
		}
		return nil, p.unexpected(tok, "`FUNCTION`")
	}
	p.advance()

	name, nameTok, err := p.expectName()
	if err != nil {
		return nil, err
	}
	call := &Call{Callee: &Identifier{Name: name, Span: nameTok.Loc.Span}}

	if p.peek().Is(WITH) {
		p.advance()
		if tok := p.peek(); !tok.Is(THE) {
			return nil, p.unsupported(tok, "a call with more than one argument")
		}
		p.advance()
		if _, err := p.expectWord(ARGUMENT); err != nil {
			return nil, err
		}
		arg, argTok, err := p.expectName()
		if err != nil {
			return nil, err
		}
		call.Args = []Expr{&Literal{Kind: StringLit, Str: arg, Span: argTok.Loc.Span}}
	}

	if _, err := p.expectPunct(PERIOD); err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: call}, nil
}

func (p *Parser) parseIf() (Stmt, error) {
	p.advance() // IF
	left, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectWord(IS); err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind == WORD && !tok.Is(EQUAL) {
		return nil, p.unsupported(tok, "a comparison other than IS EQUAL TO")
	}
	if err := p.expectWords(EQUAL, TO); err != nil {
		return nil, err
	}
	right, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectWords(THEN, DO); err != nil {
		return nil, err
	}

	then, err := p.parseBlock(blockFrame{kind: IF})
	if err != nil {
		return nil, err
	}
	if _, err := p.expectWord(IF); err != nil {
		return nil, err
	}
	return &Condition{
		Test: &BinaryOp{Op: EqualTo, Left: left, Right: right},
		Then: then,
	}, nil
}

// parseExpr parses a literal: a quoted string, TRUE or FALSE.
func (p *Parser) parseExpr() (*Literal, error) {
	tok := p.peek()
	switch {
	case tok.Kind == STRING:
		p.advance()
		return &Literal{Kind: StringLit, Str: tok.Text(p.src), Span: tok.Loc.Span}, nil
	case tok.Is(TRUE), tok.Is(FALSE):
		p.advance()
		return &Literal{Kind: BoolLit, Bool: tok.Is(TRUE), Span: tok.Loc.Span}, nil
	}
	return nil, p.unexpected(tok, "a quoted string, `TRUE` or `FALSE`")
}

// Parse runs the parser once over its tokens. On error no statements are
// returned.
func (p *Parser) Parse() ([]Stmt, error) {
	if p.used {
		return nil, errParserReused
	}
	p.used = true

	if err := p.parseHeader(); err != nil {
		return nil, err
	}
	var stmts []Stmt
	for p.peek().Kind != EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// Parse builds the statement list for tokens, slicing literal text out of
// rawSource.
func Parse(tokens []Token, rawSource string) ([]Stmt, error) {
	return NewParser(tokens, rawSource).Parse()
}
