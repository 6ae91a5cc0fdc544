// Package parser implements the recursive-descent parser (C8-C11):
// declarations and types, expressions, statements, and panic-mode error
// recovery, all driven over the token stream produced by internal/lexer
// and mutating the four tables owned by an internal/syntax.Syntax value.
package parser

import (
	"github.com/bugdea1er/RuC/internal/ast"
	"github.com/bugdea1er/RuC/internal/diag"
	"github.com/bugdea1er/RuC/internal/lexer"
	"github.com/bugdea1er/RuC/internal/mode"
	"github.com/bugdea1er/RuC/internal/syntax"
	"github.com/bugdea1er/RuC/internal/text"
)

// Parse lexes and parses src, returning the populated Syntax aggregate.
// The returned Syntax is valid to inspect whether or not parsing
// succeeded; check the returned bool (equivalently sx.Failed()) to decide
// between a clean-parse and a nonzero exit code.
func Parse(src []byte) (sx *syntax.Syntax, ok bool) {
	sx = syntax.Create()

	lexed := lexer.Lex(src)
	for _, d := range lexed.Diagnostics {
		sx.Diags.Emit(diag.SeverityError, d.Span, diag.Code(d.Code), d.Message)
	}

	p := &Parser{
		sx:                sx,
		src:               src,
		tokens:            lexed.Tokens,
		labels:            newLabelScope(),
		lastDeclaredBound: -1,
	}
	p.parseTranslationUnit()

	return sx, !sx.Failed()
}

// Parser holds the mutable cursor state over the token stream. Contextual
// flags (loop/switch nesting, strings-only initializers, and so on) are
// threaded as an explicit Context value rather than parser fields, so
// restoration on every exit path — including error recovery — is enforced
// by the call structure instead of manual save/restore bookkeeping.
type Parser struct {
	sx     *syntax.Syntax
	src    []byte
	tokens []lexer.Token
	pos    int

	// currentFuncReturn is the enclosing function's return mode, used to
	// type-check return statements (C10); currentFuncReturnOK is false at
	// file scope, where a bare return is itself an error.
	currentFuncReturn   mode.Mode
	currentFuncReturnOK bool

	labels *labelScope

	// lastDeclaredBound is the outermost array dimension's constant value
	// parsed by the most recent parseDeclarator call, or -1 if that
	// declarator was not an array or elided its bound. It is a scratch
	// handoff to the declaration parser, which is the only caller that
	// needs it (to check an initializer list against the declared bound)
	// and reads it immediately after parseDeclarator returns.
	lastDeclaredBound int
}

// Context carries the contextual parser flags (loop/switch nesting,
// strings-only initializer position, array-in-struct, elided array
// bounds) as an explicit value passed down the recursion instead of
// mutable parser fields, so every exit path restores them by construction.
type Context struct {
	InLoop            bool
	InSwitch          bool
	FlagStringsOnly   bool
	FlagArrayInStruct bool
	FlagEmptyBounds   bool
}

func (p *Parser) parseTranslationUnit() {
	for !p.atEOF() {
		p.parseExternalDeclaration()
	}
	p.sx.Tree.Add(ast.Node{Opcode: ast.OpEnd})
}

// --- token stream ---

func (p *Parser) current() lexer.Token {
	return p.tokens[p.pos]
}

func (p *Parser) currentSpan() text.Span {
	return p.current().Span
}

func (p *Parser) atEOF() bool {
	return p.current().Kind == lexer.TokenEOF
}

// peek returns the token kind n positions ahead of the cursor (0 = current).
func (p *Parser) peek(n int) lexer.TokenKind {
	i := p.pos + n
	if i >= len(p.tokens) {
		return lexer.TokenEOF
	}
	return p.tokens[i].Kind
}

// consume advances past the current token and returns it. EOF is
// idempotent: consuming it never moves the cursor past the end.
func (p *Parser) consume() lexer.Token {
	tok := p.current()
	if tok.Kind != lexer.TokenEOF {
		p.pos++
	}
	return tok
}

// tryConsume advances and returns true only if the current token has kind k.
func (p *Parser) tryConsume(k lexer.TokenKind) (lexer.Token, bool) {
	if p.current().Kind != k {
		return lexer.Token{}, false
	}
	return p.consume(), true
}

// expectAndConsume requires the current token to have kind k, reporting a
// syntax error and not advancing if it does not.
func (p *Parser) expectAndConsume(k lexer.TokenKind, what string) (lexer.Token, bool) {
	if tok, ok := p.tryConsume(k); ok {
		return tok, true
	}
	p.errorAt(p.currentSpan(), diag.CodeMissingPunctuator, "expected "+what)
	return lexer.Token{}, false
}

func (p *Parser) tokenBytes(tok lexer.Token) []byte {
	return tok.Bytes(p.src)
}
