package parser

import (
	"github.com/bugdea1er/RuC/internal/ast"
	"github.com/bugdea1er/RuC/internal/diag"
	"github.com/bugdea1er/RuC/internal/lexer"
	"github.com/bugdea1er/RuC/internal/mode"
	"github.com/bugdea1er/RuC/internal/text"
)

// parseCompoundStatement parses `{ block-item* }`. The function-body
// variant reuses the scope its caller already opened for parameters rather
// than opening a new one, and the for-header variant extends the enclosing
// scope so the induction variable is visible in both header and body.
func (p *Parser) parseCompoundStatement(kind ast.BlockKind, ctx Context) ast.NodeID {
	startTok, _ := p.expectAndConsume(lexer.TokenLBrace, "'{' to open a block")

	opensScope := kind == ast.BlockRegular || kind == ast.BlockThread
	if opensScope {
		p.sx.Idents.EnterScope()
	}

	node := p.sx.Tree.Add(ast.Node{Opcode: ast.OpCompound, Block: kind, Span: startTok.Span})
	for p.current().Kind != lexer.TokenRBrace && !p.atEOF() {
		if child := p.parseBlockItem(ctx); child != ast.NoNode {
			p.sx.Tree.AppendChild(node, child)
		}
	}
	endTok, _ := p.expectAndConsume(lexer.TokenRBrace, "'}' to close a block")
	p.sx.Tree.Node(node).Span = text.Span{Start: startTok.Span.Start, End: endTok.Span.End}

	// scope_leave runs on every exit path from this compound, including
	// the case where the closing brace was missing and expectAndConsume
	// already reported it.
	if opensScope {
		p.sx.Idents.LeaveScope()
	}
	return node
}

// parseBlockItem parses one declaration or statement inside a compound
// statement.
func (p *Parser) parseBlockItem(ctx Context) ast.NodeID {
	if p.isDeclarationStart() {
		decls := p.parseDeclaration()
		if len(decls) == 0 {
			return ast.NoNode
		}
		if len(decls) == 1 {
			return decls[0]
		}
		group := p.sx.Tree.Add(ast.Node{Opcode: ast.OpCompound, Block: ast.BlockRegular, Span: p.sx.Tree.Node(decls[0]).Span})
		for _, d := range decls {
			p.sx.Tree.AppendChild(group, d)
		}
		return group
	}
	return p.parseStatement(ctx)
}

// parseStatement dispatches on the current token's statement form.
func (p *Parser) parseStatement(ctx Context) ast.NodeID {
	switch p.current().Kind {
	case lexer.TokenLBrace:
		return p.parseCompoundStatement(ast.BlockRegular, ctx)
	case lexer.TokenKwIf:
		return p.parseIfStatement(ctx)
	case lexer.TokenKwWhile:
		return p.parseWhileStatement(ctx)
	case lexer.TokenKwDo:
		return p.parseDoWhileStatement(ctx)
	case lexer.TokenKwFor:
		return p.parseForStatement(ctx)
	case lexer.TokenKwSwitch:
		return p.parseSwitchStatement(ctx)
	case lexer.TokenKwCase:
		return p.parseCaseStatement(ctx)
	case lexer.TokenKwDefault:
		return p.parseDefaultStatement(ctx)
	case lexer.TokenKwBreak:
		return p.parseBreakStatement(ctx)
	case lexer.TokenKwContinue:
		return p.parseContinueStatement(ctx)
	case lexer.TokenKwReturn:
		return p.parseReturnStatement(ctx)
	case lexer.TokenKwGoto:
		return p.parseGotoStatement(ctx)
	case lexer.TokenSemi:
		tok := p.consume()
		return p.sx.Tree.Add(ast.Node{Opcode: ast.OpEmptyStmt, Span: tok.Span})
	case lexer.TokenIdentifier:
		if p.peek(1) == lexer.TokenColon && !p.isDeclarationStart() {
			return p.parseLabeledStatement(ctx)
		}
	}
	return p.parseExpressionStatement(ctx)
}

func (p *Parser) parseIfStatement(ctx Context) ast.NodeID {
	startTok := p.consume()
	p.expectAndConsume(lexer.TokenLParen, "'(' after 'if'")
	cond := p.parseExpression(ctx)
	p.expectAndConsume(lexer.TokenRParen, "')' after if condition")
	then := p.parseStatement(ctx)
	children := []ast.NodeID{cond, then}
	if _, ok := p.tryConsume(lexer.TokenKwElse); ok {
		children = append(children, p.parseStatement(ctx))
	}
	return p.sx.Tree.Add(ast.Node{
		Opcode:   ast.OpIf,
		Span:     text.Span{Start: startTok.Span.Start, End: p.sx.Tree.Node(children[len(children)-1]).Span.End},
		Children: children,
	})
}

func (p *Parser) parseWhileStatement(ctx Context) ast.NodeID {
	startTok := p.consume()
	p.expectAndConsume(lexer.TokenLParen, "'(' after 'while'")
	cond := p.parseExpression(ctx)
	p.expectAndConsume(lexer.TokenRParen, "')' after while condition")
	body := p.parseStatement(withLoop(ctx))
	return p.sx.Tree.Add(ast.Node{
		Opcode:   ast.OpWhile,
		Span:     text.Span{Start: startTok.Span.Start, End: p.sx.Tree.Node(body).Span.End},
		Children: []ast.NodeID{cond, body},
	})
}

func (p *Parser) parseDoWhileStatement(ctx Context) ast.NodeID {
	startTok := p.consume()
	body := p.parseStatement(withLoop(ctx))
	p.expectAndConsume(lexer.TokenKwWhile, "'while' after do-statement body")
	p.expectAndConsume(lexer.TokenLParen, "'(' after 'while'")
	cond := p.parseExpression(ctx)
	endTok, _ := p.expectAndConsume(lexer.TokenRParen, "')' after while condition")
	p.expectAndConsume(lexer.TokenSemi, "';' after do-while statement")
	return p.sx.Tree.Add(ast.Node{
		Opcode:   ast.OpDoWhile,
		Span:     text.Span{Start: startTok.Span.Start, End: endTok.Span.End},
		Children: []ast.NodeID{body, cond},
	})
}

// parseForStatement opens the for-header scope before the header so the
// induction variable declared there is visible in both header and body.
func (p *Parser) parseForStatement(ctx Context) ast.NodeID {
	startTok := p.consume()
	p.expectAndConsume(lexer.TokenLParen, "'(' after 'for'")

	p.sx.Idents.EnterScope()

	init := ast.NoNode
	if p.isDeclarationStart() {
		decls := p.parseDeclaration()
		if len(decls) > 0 {
			init = decls[0]
		}
	} else if p.current().Kind != lexer.TokenSemi {
		init = p.parseExpression(ctx)
		p.expectAndConsume(lexer.TokenSemi, "';' after for-loop initializer")
	} else {
		p.consume()
	}

	cond := ast.NoNode
	if p.current().Kind != lexer.TokenSemi {
		cond = p.parseExpression(ctx)
	}
	p.expectAndConsume(lexer.TokenSemi, "';' after for-loop condition")

	post := ast.NoNode
	if p.current().Kind != lexer.TokenRParen {
		post = p.parseExpression(ctx)
	}
	p.expectAndConsume(lexer.TokenRParen, "')' after for-loop post-expression")

	body := p.parseStatement(withLoop(ctx))
	p.sx.Idents.LeaveScope()

	return p.sx.Tree.Add(ast.Node{
		Opcode:   ast.OpFor,
		Span:     text.Span{Start: startTok.Span.Start, End: p.sx.Tree.Node(body).Span.End},
		Children: []ast.NodeID{init, cond, post, body},
	})
}

func (p *Parser) parseSwitchStatement(ctx Context) ast.NodeID {
	startTok := p.consume()
	p.expectAndConsume(lexer.TokenLParen, "'(' after 'switch'")
	tag := p.parseExpression(ctx)
	p.expectAndConsume(lexer.TokenRParen, "')' after switch expression")
	body := p.parseStatement(withSwitch(ctx))
	return p.sx.Tree.Add(ast.Node{
		Opcode:   ast.OpSwitch,
		Span:     text.Span{Start: startTok.Span.Start, End: p.sx.Tree.Node(body).Span.End},
		Children: []ast.NodeID{tag, body},
	})
}

func (p *Parser) parseCaseStatement(ctx Context) ast.NodeID {
	startTok := p.consume()
	if !ctx.InSwitch {
		p.errorAt(startTok.Span, diag.CodeCaseOutsideSwitch, "'case' outside a switch statement")
	}
	value := p.parseConstantExpression()
	p.expectAndConsume(lexer.TokenColon, "':' after case value")
	stmt := p.parseStatement(ctx)
	return p.sx.Tree.Add(ast.Node{
		Opcode:   ast.OpCase,
		Span:     text.Span{Start: startTok.Span.Start, End: p.sx.Tree.Node(stmt).Span.End},
		Children: []ast.NodeID{value, stmt},
	})
}

func (p *Parser) parseDefaultStatement(ctx Context) ast.NodeID {
	startTok := p.consume()
	if !ctx.InSwitch {
		p.errorAt(startTok.Span, diag.CodeCaseOutsideSwitch, "'default' outside a switch statement")
	}
	p.expectAndConsume(lexer.TokenColon, "':' after 'default'")
	stmt := p.parseStatement(ctx)
	return p.sx.Tree.Add(ast.Node{
		Opcode:   ast.OpDefault,
		Span:     text.Span{Start: startTok.Span.Start, End: p.sx.Tree.Node(stmt).Span.End},
		Children: []ast.NodeID{stmt},
	})
}

func (p *Parser) parseBreakStatement(ctx Context) ast.NodeID {
	tok := p.consume()
	if !ctx.InLoop && !ctx.InSwitch {
		p.errorAt(tok.Span, diag.CodeBreakOutsideLoopOrSwitch, "'break' outside a loop or switch")
	}
	endTok, _ := p.expectAndConsume(lexer.TokenSemi, "';' after 'break'")
	return p.sx.Tree.Add(ast.Node{Opcode: ast.OpBreak, Span: text.Span{Start: tok.Span.Start, End: endTok.Span.End}})
}

func (p *Parser) parseContinueStatement(ctx Context) ast.NodeID {
	tok := p.consume()
	if !ctx.InLoop {
		p.errorAt(tok.Span, diag.CodeContinueOutsideLoop, "'continue' outside a loop")
	}
	endTok, _ := p.expectAndConsume(lexer.TokenSemi, "';' after 'continue'")
	return p.sx.Tree.Add(ast.Node{Opcode: ast.OpContinue, Span: text.Span{Start: tok.Span.Start, End: endTok.Span.End}})
}

// parseReturnStatement type-checks the returned expression against the
// enclosing function's return mode.
func (p *Parser) parseReturnStatement(ctx Context) ast.NodeID {
	tok := p.consume()
	value := ast.NoNode
	if p.current().Kind != lexer.TokenSemi {
		value = p.parseExpression(ctx)
		if p.currentFuncReturnOK && p.currentFuncReturn == mode.Void {
			p.semanticsError(p.sx.Tree.Node(value).Span, diag.CodeIncompatibleAssignment, "void function cannot return a value")
		} else if p.currentFuncReturnOK {
			value = p.insertCastIfNeeded(value, p.sx.Tree.Node(value).Type, p.currentFuncReturn)
		}
	} else if p.currentFuncReturnOK && p.currentFuncReturn != mode.Void {
		p.semanticsError(tok.Span, diag.CodeIncompatibleAssignment, "non-void function must return a value")
	}
	endTok, _ := p.expectAndConsume(lexer.TokenSemi, "';' after 'return'")
	children := []ast.NodeID(nil)
	if value != ast.NoNode {
		children = []ast.NodeID{value}
	}
	return p.sx.Tree.Add(ast.Node{Opcode: ast.OpReturn, Span: text.Span{Start: tok.Span.Start, End: endTok.Span.End}, Children: children})
}

// parseGotoStatement records a (possibly forward) reference to the target
// label, to be patched when the label is declared.
func (p *Parser) parseGotoStatement(ctx Context) ast.NodeID {
	tok := p.consume()
	nameTok, ok := p.expectAndConsume(lexer.TokenIdentifier, "label name after 'goto'")
	endTok, _ := p.expectAndConsume(lexer.TokenSemi, "';' after goto target")
	node := p.sx.Tree.Add(ast.Node{Opcode: ast.OpGoto, Span: text.Span{Start: tok.Span.Start, End: endTok.Span.End}, Children: []ast.NodeID{ast.NoNode}})
	if ok {
		r := p.internIdentifier(nameTok)
		target := p.labels.reference(int(r), nameTok.Span, node)
		p.sx.Tree.Node(node).Children[0] = target
		p.sx.Tree.Node(node).Repr = r
	}
	return node
}

// parseLabeledStatement declares a label, patching any goto that referenced
// it before this point was reached.
func (p *Parser) parseLabeledStatement(ctx Context) ast.NodeID {
	nameTok := p.consume()
	p.consume() // ':'
	r := p.internIdentifier(nameTok)

	label := p.sx.Tree.Add(ast.Node{Opcode: ast.OpLabel, Span: nameTok.Span, Repr: r})
	if !p.labels.declare(p.sx.Tree, int(r), label, nameTok.Span) {
		p.errorAt(nameTok.Span, diag.CodeLabelRedeclared, "label already declared in this function")
	}

	stmt := p.parseStatement(ctx)
	p.sx.Tree.AppendChild(label, stmt)
	p.sx.Tree.Node(label).Span = text.Span{Start: nameTok.Span.Start, End: p.sx.Tree.Node(stmt).Span.End}
	return label
}

func (p *Parser) parseExpressionStatement(ctx Context) ast.NodeID {
	startTok := p.currentSpan()
	expr := p.parseExpression(ctx)
	endTok, _ := p.expectAndConsume(lexer.TokenSemi, "';' after expression statement")
	return p.sx.Tree.Add(ast.Node{
		Opcode:   ast.OpExprStmt,
		Span:     text.Span{Start: startTok.Start, End: endTok.Span.End},
		Children: []ast.NodeID{expr},
	})
}

func withLoop(ctx Context) Context {
	ctx.InLoop = true
	return ctx
}

func withSwitch(ctx Context) Context {
	ctx.InSwitch = true
	return ctx
}
