package parser

import (
	"github.com/bugdea1er/RuC/internal/diag"
	"github.com/bugdea1er/RuC/internal/lexer"
	"github.com/bugdea1er/RuC/internal/text"
)

// SyncSet is a bitmask over a compact token-class enumeration used by
// panic-mode recovery (C11) to decide where to stop skipping.
type SyncSet uint8

// Token classes recovery cares about.
const (
	SyncSemi SyncSet = 1 << iota
	SyncRBrace
	SyncRParen
	SyncComma
)

// Common synchronization sets, named after their typical recovery points.
const (
	SyncDeclaration SyncSet = SyncSemi | SyncRBrace
	SyncStatement   SyncSet = SyncSemi | SyncRBrace
	SyncCallArgs    SyncSet = SyncSemi | SyncComma | SyncRParen
)

func classify(k lexer.TokenKind) SyncSet {
	switch k {
	case lexer.TokenSemi:
		return SyncSemi
	case lexer.TokenRBrace:
		return SyncRBrace
	case lexer.TokenRParen:
		return SyncRParen
	case lexer.TokenComma:
		return SyncComma
	default:
		return 0
	}
}

// errorAt attaches the location of a caller-supplied span and forwards to
// the diagnostic sink; this is the parser_error entry point of C11 for
// callers that already hold the relevant span (usually the current token's).
func (p *Parser) errorAt(sp text.Span, code diag.Code, message string) {
	p.sx.Diags.Emit(diag.SeverityError, sp, code, message)
}

// semanticsError is the semantics_error entry point: identical reporting,
// kept as a separate name so call sites read as static-semantic checks
// rather than syntax errors.
func (p *Parser) semanticsError(sp text.Span, code diag.Code, message string) {
	p.errorAt(sp, code, message)
}

// warnAt reports a non-fatal diagnostic that does not fail the parse.
func (p *Parser) warnAt(sp text.Span, code diag.Code, message string) {
	p.sx.Diags.Emit(diag.SeverityWarning, sp, code, message)
}

// recoverTo performs panic-mode token skipping: it always consumes at
// least one token, then discards tokens until the current token classifies
// into set or end-of-file is reached, leaving that token unconsumed. Always
// consuming first token guarantees a caller that just reported an error
// makes progress before any later diagnostic can fire, preventing cascades.
func (p *Parser) recoverTo(set SyncSet) {
	p.consume()
	for !p.atEOF() && classify(p.current().Kind)&set == 0 {
		p.consume()
	}
}

// recoverPastSemi skips to the next statement/declaration boundary and, if
// it landed on a ';', consumes it too so the caller resumes after it.
func (p *Parser) recoverPastSemi() {
	p.recoverTo(SyncDeclaration)
	p.tryConsume(lexer.TokenSemi)
}
