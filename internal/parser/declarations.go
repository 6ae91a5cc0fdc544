package parser

import (
	"github.com/bugdea1er/RuC/internal/ast"
	"github.com/bugdea1er/RuC/internal/diag"
	"github.com/bugdea1er/RuC/internal/ident"
	"github.com/bugdea1er/RuC/internal/lexer"
	"github.com/bugdea1er/RuC/internal/mode"
	"github.com/bugdea1er/RuC/internal/repr"
	"github.com/bugdea1er/RuC/internal/text"
)

// specifiers is the result of parsing a declaration-specifier sequence: a
// base mode plus the sub-mode flags that influence how the following
// declarator and initializer are checked.
type specifiers struct {
	base      mode.Mode
	isTypedef bool
}

var primitiveKeywords = map[lexer.TokenKind]mode.Mode{
	lexer.TokenKwVoid:   mode.Void,
	lexer.TokenKwChar:   mode.Char,
	lexer.TokenKwBool:   mode.Bool,
	lexer.TokenKwShort:  mode.Short,
	lexer.TokenKwInt:    mode.Int,
	lexer.TokenKwLong:   mode.Long,
	lexer.TokenKwFloat:  mode.Float,
	lexer.TokenKwDouble: mode.Double,
}

// parseExternalDeclaration parses one top-level declaration or function
// definition (C8).
func (p *Parser) parseExternalDeclaration() {
	p.parseDeclaration()
}

// isDeclarationStart reports whether the current token can begin a
// declaration-specifier sequence, the lookahead parseBlockItem uses to
// distinguish a local declaration from a statement (a typedef-name is the
// one context-sensitive case: it reads as an identifier until resolved
// against the identifier table).
func (p *Parser) isDeclarationStart() bool {
	switch p.current().Kind {
	case lexer.TokenKwTypedef, lexer.TokenKwConst, lexer.TokenKwVolatile, lexer.TokenKwStatic,
		lexer.TokenKwExtern, lexer.TokenKwRegister, lexer.TokenKwSigned, lexer.TokenKwUnsigned,
		lexer.TokenKwStruct:
		return true
	}
	if _, ok := primitiveKeywords[p.current().Kind]; ok {
		return true
	}
	if p.current().Kind == lexer.TokenIdentifier {
		r := p.internIdentifier(p.current())
		if h := p.sx.Idents.Lookup(r); h != ident.NoHandle && p.sx.Idents.Kind(h) == ident.KindTypedefName {
			return true
		}
	}
	return false
}

// parseDeclaration parses one declaration or function definition and
// returns the VarDecl nodes of its variable declarators (none for a
// typedef, a function prototype, or a bare struct/tag declaration), or the
// single FuncDecl node of a function definition. On syntax failure it
// recovers past the next ';' and returns the nodes built so far (nil when
// the declaration specifiers themselves fail).
func (p *Parser) parseDeclaration() []ast.NodeID {
	spec, ok := p.parseDeclarationSpecifiers()
	if !ok {
		p.errorAt(p.currentSpan(), diag.CodeExpectedDeclarationSpecifier, "expected a declaration")
		p.recoverPastSemi()
		return nil
	}

	if _, ok := p.tryConsume(lexer.TokenSemi); ok {
		// A bare `struct S;` or similar: the tag/typedef was already
		// installed while parsing the specifier.
		return nil
	}

	var decls []ast.NodeID
	for {
		p.lastDeclaredBound = -1
		nameTok, declMode, isFunc, params, ok := p.parseDeclarator(spec.base)
		bound := p.lastDeclaredBound
		if !ok {
			p.recoverPastSemi()
			return decls
		}

		r := p.internIdentifier(nameTok)

		switch {
		case spec.isTypedef:
			p.installIdentifier(r, nameTok, ident.KindTypedefName, declMode)

		case isFunc && p.peek(0) == lexer.TokenLBrace:
			return []ast.NodeID{p.parseFunctionDefinition(nameTok, r, declMode, params)}

		case isFunc:
			p.installIdentifier(r, nameTok, ident.KindFunction, declMode)

		default:
			h := p.installIdentifier(r, nameTok, ident.KindVariable, declMode)
			decl := p.sx.Tree.Add(ast.Node{Opcode: ast.OpVarDecl, Type: declMode, Span: nameTok.Span, Repr: r, IntValue: int64(bound)})
			p.sx.Tree.SetIdent(decl, int(h))
			if _, ok := p.tryConsume(lexer.TokenAssign); ok {
				p.parseInitializer(decl, declMode)
			}
			decls = append(decls, decl)
		}

		if _, ok := p.tryConsume(lexer.TokenComma); ok {
			continue
		}
		p.expectAndConsume(lexer.TokenSemi, "';' after declaration")
		return decls
	}
}

// parseDeclarationSpecifiers recognises a primitive keyword, a struct
// specifier, or a typedef-name (the sole context-sensitive lookup that
// distinguishes a declaration from an expression statement).
func (p *Parser) parseDeclarationSpecifiers() (specifiers, bool) {
	var spec specifiers

	for {
		switch p.current().Kind {
		case lexer.TokenKwTypedef:
			p.consume()
			spec.isTypedef = true
			continue
		case lexer.TokenKwConst, lexer.TokenKwVolatile, lexer.TokenKwStatic,
			lexer.TokenKwExtern, lexer.TokenKwRegister, lexer.TokenKwSigned,
			lexer.TokenKwUnsigned:
			p.consume()
			continue
		}
		break
	}

	if m, ok := primitiveKeywords[p.current().Kind]; ok {
		p.consume()
		spec.base = m
		return spec, true
	}

	if p.current().Kind == lexer.TokenKwStruct {
		m, ok := p.parseStructSpecifier()
		if !ok {
			return specifiers{}, false
		}
		spec.base = m
		return spec, true
	}

	if p.current().Kind == lexer.TokenIdentifier {
		r := p.internIdentifier(p.current())
		if h := p.sx.Idents.Lookup(r); h != ident.NoHandle && p.sx.Idents.Kind(h) == ident.KindTypedefName {
			p.consume()
			spec.base = p.sx.Idents.Mode(h)
			return spec, true
		}
	}

	return specifiers{}, false
}

// parseStructSpecifier parses `struct tag? { field-decl* }` or a bare
// `struct tag` reference, installing a struct-tag identifier the first
// time a tag is seen with a body.
func (p *Parser) parseStructSpecifier() (mode.Mode, bool) {
	p.consume() // 'struct'

	var tagTok lexer.Token
	haveTag := false
	if tok, ok := p.tryConsume(lexer.TokenIdentifier); ok {
		tagTok = tok
		haveTag = true
	}

	if _, ok := p.tryConsume(lexer.TokenLBrace); !ok {
		if !haveTag {
			p.errorAt(p.currentSpan(), diag.CodeMalformedDeclarator, "expected struct tag or '{'")
			return mode.Void, false
		}
		r := p.internIdentifier(tagTok)
		h := p.sx.Idents.Lookup(r)
		if h == ident.NoHandle {
			p.errorAt(tagTok.Span, diag.CodeIncompleteType, "use of undeclared struct tag")
			return mode.Void, false
		}
		return p.sx.Idents.Mode(h), true
	}

	var fields []mode.StructField
	hasArrayField := false
	for p.current().Kind != lexer.TokenRBrace && !p.atEOF() {
		fieldSpec, ok := p.parseDeclarationSpecifiers()
		if !ok {
			p.errorAt(p.currentSpan(), diag.CodeExpectedDeclarationSpecifier, "expected a field declaration")
			p.recoverPastSemi()
			continue
		}
		for {
			nameTok, fieldMode, isFunc, _, ok := p.parseDeclarator(fieldSpec.base)
			if !ok {
				break
			}
			if isFunc {
				p.errorAt(nameTok.Span, diag.CodeMalformedDeclarator, "struct field cannot be a function")
			}
			r := p.internIdentifier(nameTok)
			for _, f := range fields {
				if f.Repr == int(r) {
					p.errorAt(nameTok.Span, diag.CodeDuplicateStructField, "duplicate struct field name")
				}
			}
			if _, _, ok := p.isArrayMode(fieldMode); ok {
				hasArrayField = true
			}
			fields = append(fields, mode.StructField{Mode: fieldMode, Repr: int(r)})
			if _, ok := p.tryConsume(lexer.TokenComma); !ok {
				break
			}
		}
		p.expectAndConsume(lexer.TokenSemi, "';' after struct field")
	}
	p.expectAndConsume(lexer.TokenRBrace, "'}' to close struct body")

	structMode := p.sx.Modes.Struct(fields)
	_ = hasArrayField // not passed on: nothing sets Context.FlagArrayInStruct

	if haveTag {
		r := p.internIdentifier(tagTok)
		p.installIdentifier(r, tagTok, ident.KindStructTag, structMode)
	}
	return structMode, true
}

// isArrayMode reports whether m is an array mode-table record, decoding its
// element mode for callers that need it.
func (p *Parser) isArrayMode(m mode.Mode) (mode.Mode, bool, bool) {
	if m.IsPrimitive() {
		return mode.Void, false, false
	}
	tag, payload := p.sx.Modes.Get(m)
	if tag != mode.TagArray {
		return mode.Void, false, false
	}
	return mode.Array(payload), true, true
}

// declParam describes one parameter of a function declarator.
type declParam struct {
	nameTok lexer.Token
	mode    mode.Mode
	hasName bool
}

// parseDeclarator parses pointer, array, and function modifiers around a
// declarator name, wrapping base from the inside out per standard C
// declarator semantics. The returned params are populated
// only when the declarator is a function declarator.
func (p *Parser) parseDeclarator(base mode.Mode) (nameTok lexer.Token, result mode.Mode, isFunc bool, params []declParam, ok bool) {
	stars := 0
	for {
		if _, matched := p.tryConsume(lexer.TokenStar); matched {
			stars++
			continue
		}
		break
	}

	name, ok := p.tryConsume(lexer.TokenIdentifier)
	if !ok {
		p.errorAt(p.currentSpan(), diag.CodeMalformedDeclarator, "expected declarator name")
		return lexer.Token{}, mode.Void, false, nil, false
	}

	result = base
	for i := 0; i < stars; i++ {
		result = p.sx.Modes.Pointer(result)
	}

	switch p.current().Kind {
	case lexer.TokenLParen:
		p.consume()
		params = p.parseParameterList()
		p.expectAndConsume(lexer.TokenRParen, "')' to close parameter list")
		paramModes := make([]mode.Mode, len(params))
		for i, prm := range params {
			paramModes[i] = prm.mode
		}
		result = p.sx.Modes.Function(result, paramModes)
		isFunc = true

	case lexer.TokenLBracket:
		var bound int
		result, bound, ok = p.parseArrayDimensions(result, false)
		if !ok {
			return lexer.Token{}, mode.Void, false, nil, false
		}
		p.lastDeclaredBound = bound
	}

	return name, result, isFunc, params, true
}

// parseArrayDimensions parses one or more trailing `[ const-expr? ]`
// suffixes, wrapping element in array modes outside-in (the first bracket
// becomes the outermost array). emptyAllowed permits an elided bound, used
// for function-parameter array declarators; elsewhere an elided bound draws
// a CodeArrayBoundNotConstant warning and parsing continues. Whether the
// array has an initializer, or whether the elided bound is the outermost
// one, is not checked.
func (p *Parser) parseArrayDimensions(element mode.Mode, emptyAllowed bool) (result mode.Mode, outerBound int, ok bool) {
	if _, ok := p.tryConsume(lexer.TokenLBracket); !ok {
		return element, -1, true
	}

	if _, ok := p.tryConsume(lexer.TokenRBracket); ok {
		if !emptyAllowed {
			p.warnAt(p.currentSpan(), diag.CodeArrayBoundNotConstant, "array bound required here; relying on initializer")
		}
		inner, _, ok := p.parseArrayDimensions(element, emptyAllowed)
		if !ok {
			return mode.Void, -1, false
		}
		return p.sx.Modes.Array(inner), -1, true
	}

	bound := -1
	if !p.isConstantExpressionAhead() {
		p.errorAt(p.currentSpan(), diag.CodeArrayBoundNotConstant, "array bound must be a constant expression")
		p.recoverTo(SyncRBrace | SyncSemi)
	} else {
		node := p.parseConstantExpression()
		bound = int(p.sx.Tree.Node(node).IntValue)
	}
	p.expectAndConsume(lexer.TokenRBracket, "']' to close array dimension")

	inner, _, ok := p.parseArrayDimensions(element, emptyAllowed)
	if !ok {
		return mode.Void, -1, false
	}
	return p.sx.Modes.Array(inner), bound, true
}

// isConstantExpressionAhead is a conservative check used only to decide
// whether to attempt parsing an array-bound expression at all; the
// expression parser itself performs the authoritative constant-folding
// validation (C9).
func (p *Parser) isConstantExpressionAhead() bool {
	return p.current().Kind != lexer.TokenRBracket
}

// parseParameterList parses a comma-separated parameter-type-list. Each
// parameter's array dimensions may elide their bound, which is only
// permitted in function-parameter position.
func (p *Parser) parseParameterList() []declParam {
	var params []declParam
	if p.current().Kind == lexer.TokenRParen {
		return params
	}
	for {
		spec, ok := p.parseDeclarationSpecifiers()
		if !ok {
			p.errorAt(p.currentSpan(), diag.CodeExpectedDeclarationSpecifier, "expected a parameter type")
			break
		}
		stars := 0
		for {
			if _, ok := p.tryConsume(lexer.TokenStar); ok {
				stars++
				continue
			}
			break
		}
		pm := spec.base
		for i := 0; i < stars; i++ {
			pm = p.sx.Modes.Pointer(pm)
		}
		var name lexer.Token
		hasName := false
		if tok, ok := p.tryConsume(lexer.TokenIdentifier); ok {
			name = tok
			hasName = true
		}
		if p.current().Kind == lexer.TokenLBracket {
			pm, _, _ = p.parseArrayDimensions(pm, true)
		}
		params = append(params, declParam{nameTok: name, mode: pm, hasName: hasName})

		if _, ok := p.tryConsume(lexer.TokenComma); !ok {
			break
		}
	}
	return params
}

// parseFunctionDefinition installs fn with its full function mode, enters
// parameter scope, installs each named parameter, and delegates to the
// statement parser for the body.
func (p *Parser) parseFunctionDefinition(nameTok lexer.Token, r repr.Handle, fnMode mode.Mode, params []declParam) ast.NodeID {
	h := p.installIdentifier(r, nameTok, ident.KindFunction, fnMode)
	p.sx.FuncNum++

	decl := p.sx.Tree.Add(ast.Node{Opcode: ast.OpFuncDecl, Type: fnMode, Span: nameTok.Span, Repr: r})
	p.sx.Tree.SetIdent(decl, int(h))

	if string(p.tokenBytes(nameTok)) == "main" && len(params) == 0 {
		if retMode, _ := mode.Function(selectPayload(p, fnMode)); retMode == mode.Int {
			p.sx.WasMain = true
			p.sx.StartMode = fnMode
		}
	}

	p.sx.Idents.EnterFunction()
	p.sx.Idents.EnterScope()
	p.labels.reset()

	savedReturn, savedOK := p.currentFuncReturn, p.currentFuncReturnOK
	retMode, _ := mode.Function(selectPayload(p, fnMode))
	p.currentFuncReturn = retMode
	p.currentFuncReturnOK = true

	for _, prm := range params {
		if !prm.hasName {
			continue
		}
		pr := p.internIdentifier(prm.nameTok)
		ph := p.installIdentifier(pr, prm.nameTok, ident.KindParameter, prm.mode)
		pd := p.sx.Tree.Add(ast.Node{Opcode: ast.OpParamDecl, Type: prm.mode, Span: prm.nameTok.Span, Repr: pr})
		p.sx.Tree.SetIdent(pd, int(ph))
		p.sx.Tree.AppendChild(decl, pd)
	}

	body := p.parseCompoundStatement(ast.BlockFunctionBody, Context{})
	p.sx.Tree.AppendChild(decl, body)

	for _, u := range p.labels.unresolved() {
		p.errorAt(u.Span, diag.CodeUnresolvedLabel, "label is used but never defined")
	}

	if d := p.sx.Idents.Displacement(h); d > p.sx.MaxDisplg {
		p.sx.MaxDisplg = d
	}

	p.sx.Idents.LeaveScope()
	p.sx.Idents.LeaveFunction()
	p.currentFuncReturn, p.currentFuncReturnOK = savedReturn, savedOK
	return decl
}

func selectPayload(p *Parser, m mode.Mode) []int {
	_, payload := p.sx.Modes.Get(m)
	return payload
}

// parseInitializer parses an assignment expression or a brace-enclosed
// initializer list and records it as a child of decl. A list initializer
// recurses per aggregate member so a struct or array-of-array declarator
// gets its nested shape checked member by member, not flattened into one
// list.
func (p *Parser) parseInitializer(decl ast.NodeID, declMode mode.Mode) {
	if p.current().Kind != lexer.TokenLBrace {
		expr := p.parseAssignmentExpression(Context{})
		p.sx.Tree.AppendChild(decl, expr)
		return
	}

	// The outermost declared bound, if any, was stashed on decl's IntValue
	// by parseDeclaration right after the declarator was parsed (array
	// mode records themselves carry no bound, only the element mode).
	bound := int(p.sx.Tree.Node(decl).IntValue)
	list := p.parseInitializerList(declMode, bound)
	p.sx.Tree.AppendChild(decl, list)
}

// aggregateShape decodes m's element mode (for an array) or field list
// (for a struct), reporting which (if either) applies.
func (p *Parser) aggregateShape(m mode.Mode) (elementMode mode.Mode, fields []mode.StructField, isArray, isStruct bool) {
	if m.IsPrimitive() {
		return mode.Void, nil, false, false
	}
	tag, payload := p.sx.Modes.Get(m)
	switch tag {
	case mode.TagArray:
		return mode.Array(payload), nil, true, false
	case mode.TagStruct:
		return mode.Void, mode.Struct(payload), false, true
	default:
		return mode.Void, nil, false, false
	}
}

// isAggregateMode reports whether m is an array or struct mode, i.e. one
// whose initializer may itself be a brace-enclosed list.
func (p *Parser) isAggregateMode(m mode.Mode) bool {
	_, _, isArray, isStruct := p.aggregateShape(m)
	return isArray || isStruct
}

// parseInitializerList parses one brace-enclosed initializer list whose
// shape is checked against aggMode's own shape: an array's elements are
// all checked against its element mode, a struct's elements are checked
// one by one against each field's mode in declaration order, and any
// element that is itself an aggregate may be written as a further
// brace-enclosed list, recursing one level per nesting level instead of
// flattening into a single list of scalars. outerBound, if >= 0, is the
// already-declared outer array bound checked against the element count;
// pass -1 for a nested call, where the element count is bounded by the
// member's own shape instead.
//
// p.sx.AnstDispl threads the current member's position within the
// aggregate being initialized through the recursion, saved and restored
// around each nesting level so a deeper call can report which member
// it's on without taking that position as a parameter.
func (p *Parser) parseInitializerList(aggMode mode.Mode, outerBound int) ast.NodeID {
	startTok, _ := p.expectAndConsume(lexer.TokenLBrace, "'{' to open initializer list")

	elementMode, fields, isArray, isStruct := p.aggregateShape(aggMode)

	savedDispl := p.sx.AnstDispl
	list := p.sx.Tree.Add(ast.Node{Opcode: ast.OpInitializerList, Type: aggMode, Span: startTok.Span})
	count := 0
	for p.current().Kind != lexer.TokenRBrace && !p.atEOF() {
		p.sx.AnstDispl = savedDispl + count

		memberMode := elementMode
		if isStruct {
			if count < len(fields) {
				memberMode = fields[count].Mode
			} else {
				p.semanticsError(p.currentSpan(), diag.CodeInitializerShapeMismatch, "too many initializers for this struct")
			}
		}

		var child ast.NodeID
		if p.current().Kind == lexer.TokenLBrace {
			if !isArray && !isStruct {
				p.semanticsError(p.currentSpan(), diag.CodeInitializerShapeMismatch, "braced initializer for a scalar member")
			}
			child = p.parseInitializerList(memberMode, -1)
		} else {
			child = p.parseAssignmentExpression(Context{})
			if (isArray || isStruct) && p.isAggregateMode(memberMode) {
				p.semanticsError(p.sx.Tree.Node(child).Span, diag.CodeInitializerShapeMismatch, "expected a braced initializer for this aggregate member")
			}
		}
		p.sx.Tree.AppendChild(list, child)
		count++
		if _, ok := p.tryConsume(lexer.TokenComma); !ok {
			break
		}
	}
	p.sx.AnstDispl = savedDispl

	endTok, _ := p.expectAndConsume(lexer.TokenRBrace, "'}' to close initializer list")
	p.sx.Tree.Node(list).Span = text.Span{Start: startTok.Span.Start, End: endTok.Span.End}

	if isArray && outerBound >= 0 && count > outerBound {
		p.semanticsError(p.sx.Tree.Node(list).Span, diag.CodeInitializerTooLong, "initializer has more elements than the array bound")
	}

	return list
}

// internIdentifier interns the spelling of an identifier token.
func (p *Parser) internIdentifier(tok lexer.Token) repr.Handle {
	return p.sx.Reprs.Intern(p.tokenBytes(tok))
}

// installIdentifier installs r at the current scope, reporting
// Redeclaration on failure, and returns the new (or, on failure, the
// previously visible) handle.
func (p *Parser) installIdentifier(r repr.Handle, tok lexer.Token, kind ident.Kind, m mode.Mode) ident.Handle {
	h, err := p.sx.Idents.Install(r, kind, m)
	if err != nil {
		p.errorAt(tok.Span, diag.CodeRedeclaration, "identifier redeclared in this scope")
		return p.sx.Idents.Lookup(r)
	}
	return h
}
