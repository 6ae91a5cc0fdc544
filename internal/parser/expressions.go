package parser

import (
	"strconv"

	"github.com/bugdea1er/RuC/internal/ast"
	"github.com/bugdea1er/RuC/internal/diag"
	"github.com/bugdea1er/RuC/internal/ident"
	"github.com/bugdea1er/RuC/internal/lexer"
	"github.com/bugdea1er/RuC/internal/mode"
	"github.com/bugdea1er/RuC/internal/text"
)

// binaryPrecedence ranks the C99 binary operators from loosest (comma and
// assignment are handled separately, above this table) to tightest,
// driving the precedence-climbing descent of C9.
var binaryPrecedence = map[lexer.TokenKind]int{
	lexer.TokenOrOr:         1,
	lexer.TokenAndAnd:       2,
	lexer.TokenPipe:         3,
	lexer.TokenCaret:        4,
	lexer.TokenAmp:          5,
	lexer.TokenEqual:        6,
	lexer.TokenNotEqual:     6,
	lexer.TokenLess:         7,
	lexer.TokenGreater:      7,
	lexer.TokenLessEqual:    7,
	lexer.TokenGreaterEqual: 7,
	lexer.TokenShl:          8,
	lexer.TokenShr:          8,
	lexer.TokenPlus:         9,
	lexer.TokenMinus:        9,
	lexer.TokenStar:         10,
	lexer.TokenSlash:        10,
	lexer.TokenPercent:      10,
}

// parseExpression parses the comma operator, the widest expression form.
func (p *Parser) parseExpression(ctx Context) ast.NodeID {
	expr := p.parseAssignmentExpression(ctx)
	for {
		if _, ok := p.tryConsume(lexer.TokenComma); !ok {
			return expr
		}
		next := p.parseAssignmentExpression(ctx)
		expr = p.sx.Tree.Add(ast.Node{
			Opcode:   ast.OpComma,
			Type:     p.sx.Tree.Node(next).Type,
			Span:     p.spanFrom(expr, next),
			Children: []ast.NodeID{expr, next},
		})
	}
}

// parseConstantExpression parses a conditional-expression and requires it
// to fold to an integer constant, reporting NotAConstantExpression and
// leaving the node's IntValue at zero otherwise. Used for array bounds
// and other places requiring a compile-time constant.
func (p *Parser) parseConstantExpression() ast.NodeID {
	node := p.parseConditionalExpression(Context{})
	if v, ok := p.constantValue(node); ok {
		p.sx.Tree.Node(node).IntValue = v
	} else {
		p.semanticsError(p.sx.Tree.Node(node).Span, diag.CodeNotAConstantExpression, "expected a constant expression")
	}
	return node
}

// constantValue recursively folds integer operators over literal operands;
// non-foldable shapes report (0, false) so the caller can raise
// NotAConstantExpression.
func (p *Parser) constantValue(id ast.NodeID) (int64, bool) {
	n := p.sx.Tree.Node(id)
	switch n.Opcode {
	case ast.OpIntLiteral, ast.OpCharLiteral:
		return n.IntValue, true
	case ast.OpCast:
		return p.constantValue(n.Children[0])
	case ast.OpUnary:
		v, ok := p.constantValue(n.Children[0])
		if !ok {
			return 0, false
		}
		switch n.Operator {
		case lexer.TokenMinus:
			return -v, true
		case lexer.TokenPlus:
			return v, true
		case lexer.TokenTilde:
			return ^v, true
		case lexer.TokenBang:
			if v == 0 {
				return 1, true
			}
			return 0, true
		}
		return 0, false
	case ast.OpBinary:
		l, lok := p.constantValue(n.Children[0])
		r, rok := p.constantValue(n.Children[1])
		if !lok || !rok {
			return 0, false
		}
		switch n.Operator {
		case lexer.TokenPlus:
			return l + r, true
		case lexer.TokenMinus:
			return l - r, true
		case lexer.TokenStar:
			return l * r, true
		case lexer.TokenSlash:
			if r == 0 {
				return 0, false
			}
			return l / r, true
		case lexer.TokenPercent:
			if r == 0 {
				return 0, false
			}
			return l % r, true
		case lexer.TokenAmp:
			return l & r, true
		case lexer.TokenPipe:
			return l | r, true
		case lexer.TokenCaret:
			return l ^ r, true
		case lexer.TokenShl:
			return l << uint(r), true
		case lexer.TokenShr:
			return l >> uint(r), true
		}
		return 0, false
	}
	return 0, false
}

// parseAssignmentExpression parses a conditional-expression and, if an
// assignment operator follows, requires the left side to be a modifiable
// lvalue (an opcode property, not a type property).
func (p *Parser) parseAssignmentExpression(ctx Context) ast.NodeID {
	left := p.parseConditionalExpression(ctx)
	if !isAssignOp(p.current().Kind) {
		return left
	}
	opTok := p.consume()
	if !p.isLvalue(left) {
		p.semanticsError(p.sx.Tree.Node(left).Span, diag.CodeNonLvalueAssignment, "left-hand side of assignment is not a modifiable lvalue")
	}
	right := p.parseAssignmentExpression(ctx)
	resultType := p.sx.Tree.Node(left).Type
	right = p.insertCastIfNeeded(right, p.sx.Tree.Node(right).Type, resultType)
	return p.sx.Tree.Add(ast.Node{
		Opcode:   ast.OpAssign,
		Type:     resultType,
		Span:     p.spanFrom(left, right),
		Children: []ast.NodeID{left, right},
		Operator: opTok.Kind,
	})
}

func isAssignOp(k lexer.TokenKind) bool {
	switch k {
	case lexer.TokenAssign, lexer.TokenPlusAssign, lexer.TokenMinusAssign, lexer.TokenStarAssign,
		lexer.TokenSlashAssign, lexer.TokenPercentAssign, lexer.TokenAndAssign, lexer.TokenOrAssign,
		lexer.TokenXorAssign, lexer.TokenShlAssign, lexer.TokenShrAssign:
		return true
	}
	return false
}

// isLvalue reports whether id's opcode denotes a modifiable lvalue:
// identifier, array subscript, member access, or a unary-star dereference.
func (p *Parser) isLvalue(id ast.NodeID) bool {
	n := p.sx.Tree.Node(id)
	switch n.Opcode {
	case ast.OpIdent, ast.OpIndex, ast.OpMember, ast.OpArrow:
		return true
	case ast.OpUnary:
		return n.Operator == lexer.TokenStar
	}
	return false
}

// parseConditionalExpression parses `a ? b : c`, unifying the two result
// branch types with the usual arithmetic conversions.
func (p *Parser) parseConditionalExpression(ctx Context) ast.NodeID {
	cond := p.parseBinaryExpression(ctx, 1)
	if _, ok := p.tryConsume(lexer.TokenQuestion); !ok {
		return cond
	}
	thenExpr := p.parseExpression(ctx)
	p.expectAndConsume(lexer.TokenColon, "':' in conditional expression")
	elseExpr := p.parseConditionalExpression(ctx)
	resultType := p.usualArithmeticConversions(p.sx.Tree.Node(thenExpr).Type, p.sx.Tree.Node(elseExpr).Type)
	return p.sx.Tree.Add(ast.Node{
		Opcode:   ast.OpConditional,
		Type:     resultType,
		Span:     p.spanFrom(cond, elseExpr),
		Children: []ast.NodeID{cond, thenExpr, elseExpr},
	})
}

// parseBinaryExpression is the precedence-climbing core of C9: it parses a
// unary expression, then repeatedly consumes binary operators whose
// precedence is at least minPrec, recursing with that operator's
// precedence plus one for the right-hand operand to give left-associative
// chaining.
func (p *Parser) parseBinaryExpression(ctx Context, minPrec int) ast.NodeID {
	left := p.parseUnaryExpression(ctx)
	for {
		prec, ok := binaryPrecedence[p.current().Kind]
		if !ok || prec < minPrec {
			return left
		}
		opTok := p.consume()
		right := p.parseBinaryExpression(ctx, prec+1)
		left = p.makeBinaryNode(opTok, left, right)
	}
}

// makeBinaryNode applies the usual arithmetic conversions, inserting
// explicit cast nodes where the operand types differ, and builds the
// resulting binary-operator node.
func (p *Parser) makeBinaryNode(opTok lexer.Token, left, right ast.NodeID) ast.NodeID {
	lt := p.sx.Tree.Node(left).Type
	rt := p.sx.Tree.Node(right).Type
	resultType := p.usualArithmeticConversions(lt, rt)
	left = p.insertCastIfNeeded(left, lt, resultType)
	right = p.insertCastIfNeeded(right, rt, resultType)

	return p.sx.Tree.Add(ast.Node{
		Opcode:   ast.OpBinary,
		Type:     resultType,
		Span:     p.spanFrom(left, right),
		Children: []ast.NodeID{left, right},
		Operator: opTok.Kind,
	})
}

// arithmeticRank orders the primitive numeric modes for the usual
// arithmetic conversions; non-numeric modes (pointers, arrays, structs,
// functions) have no rank.
func arithmeticRank(m mode.Mode) (int, bool) {
	switch m {
	case mode.Bool:
		return 0, true
	case mode.Char:
		return 1, true
	case mode.Short:
		return 2, true
	case mode.Int:
		return 3, true
	case mode.Long:
		return 4, true
	case mode.Unsigned:
		return 5, true
	case mode.Float:
		return 6, true
	case mode.Double:
		return 7, true
	}
	return 0, false
}

// usualArithmeticConversions picks the wider of two operand types when
// both are numeric primitives; otherwise the left operand's type is kept
// as-is (pointer arithmetic and struct/function operands are not converted).
func (p *Parser) usualArithmeticConversions(lt, rt mode.Mode) mode.Mode {
	lr, lok := arithmeticRank(lt)
	rr, rok := arithmeticRank(rt)
	if !lok || !rok {
		return lt
	}
	if rr > lr {
		return rt
	}
	return lt
}

// insertCastIfNeeded wraps id in an explicit OpCast node when its type
// differs from want.
func (p *Parser) insertCastIfNeeded(id ast.NodeID, have, want mode.Mode) ast.NodeID {
	if have == want {
		return id
	}
	return p.sx.Tree.Add(ast.Node{
		Opcode:   ast.OpCast,
		Type:     want,
		Span:     p.sx.Tree.Node(id).Span,
		Children: []ast.NodeID{id},
	})
}

// parseUnaryExpression handles prefix increment/decrement, unary
// arithmetic/logical/bitwise operators, address-of, dereference, and sizeof.
func (p *Parser) parseUnaryExpression(ctx Context) ast.NodeID {
	tok := p.current()
	switch tok.Kind {
	case lexer.TokenPlusPlus, lexer.TokenMinusMinus, lexer.TokenPlus, lexer.TokenMinus,
		lexer.TokenBang, lexer.TokenTilde, lexer.TokenStar, lexer.TokenAmp:
		p.consume()
		operand := p.parseUnaryExpression(ctx)
		resultType := p.sx.Tree.Node(operand).Type
		switch tok.Kind {
		case lexer.TokenStar:
			if !resultType.IsPrimitive() {
				if tag, payload := p.sx.Modes.Get(resultType); tag == mode.TagPointer {
					resultType = mode.Pointer(payload)
				} else if tag == mode.TagArray {
					resultType = mode.Array(payload)
				}
			}
		case lexer.TokenAmp:
			resultType = p.sx.Modes.Pointer(resultType)
		}
		return p.sx.Tree.Add(ast.Node{
			Opcode:   ast.OpUnary,
			Type:     resultType,
			Span:     text.Span{Start: tok.Span.Start, End: p.sx.Tree.Node(operand).Span.End},
			Children: []ast.NodeID{operand},
			Operator: tok.Kind,
		})

	case lexer.TokenKwSizeof:
		p.consume()
		if p.current().Kind == lexer.TokenLParen && p.looksLikeTypeNameAhead() {
			p.consume()
			spec, _ := p.parseDeclarationSpecifiers()
			for {
				if _, ok := p.tryConsume(lexer.TokenStar); !ok {
					break
				}
				spec.base = p.sx.Modes.Pointer(spec.base)
			}
			endTok, _ := p.expectAndConsume(lexer.TokenRParen, "')' after sizeof type name")
			return p.sx.Tree.Add(ast.Node{Opcode: ast.OpIntLiteral, Type: mode.Int, Span: text.Span{Start: tok.Span.Start, End: endTok.Span.End}, IntValue: 4})
		}
		operand := p.parseUnaryExpression(ctx)
		return p.sx.Tree.Add(ast.Node{
			Opcode:   ast.OpUnary,
			Type:     mode.Int,
			Span:     text.Span{Start: tok.Span.Start, End: p.sx.Tree.Node(operand).Span.End},
			Children: []ast.NodeID{operand},
			Operator: tok.Kind,
		})
	}
	return p.parsePostfixExpression(ctx)
}

// looksLikeTypeNameAhead checks whether the token after an opening paren
// begins a type name, distinguishing `sizeof(type)` from `sizeof(expr)`.
func (p *Parser) looksLikeTypeNameAhead() bool {
	k := p.peek(1)
	if _, ok := primitiveKeywords[k]; ok {
		return true
	}
	if k == lexer.TokenKwStruct {
		return true
	}
	if k == lexer.TokenIdentifier {
		tok := p.tokens[p.pos+1]
		r := p.internIdentifier(tok)
		if h := p.sx.Idents.Lookup(r); h != ident.NoHandle && p.sx.Idents.Kind(h) == ident.KindTypedefName {
			return true
		}
	}
	return false
}

// parsePostfixExpression handles subscript, call, member access, and
// postfix increment/decrement chained onto a primary expression.
func (p *Parser) parsePostfixExpression(ctx Context) ast.NodeID {
	expr := p.parsePrimaryExpression(ctx)
	for {
		switch p.current().Kind {
		case lexer.TokenLBracket:
			p.consume()
			index := p.parseExpression(ctx)
			endTok, _ := p.expectAndConsume(lexer.TokenRBracket, "']' to close subscript")
			elemType := mode.Int
			if t := p.sx.Tree.Node(expr).Type; !t.IsPrimitive() {
				if tag, payload := p.sx.Modes.Get(t); tag == mode.TagArray {
					elemType = mode.Array(payload)
				} else if tag == mode.TagPointer {
					elemType = mode.Pointer(payload)
				}
			}
			expr = p.sx.Tree.Add(ast.Node{
				Opcode:   ast.OpIndex,
				Type:     elemType,
				Span:     text.Span{Start: p.sx.Tree.Node(expr).Span.Start, End: endTok.Span.End},
				Children: []ast.NodeID{expr, index},
			})

		case lexer.TokenLParen:
			p.consume()
			var args []ast.NodeID
			if p.current().Kind != lexer.TokenRParen {
				for {
					args = append(args, p.parseAssignmentExpression(ctx))
					if _, ok := p.tryConsume(lexer.TokenComma); !ok {
						break
					}
				}
			}
			endTok, _ := p.expectAndConsume(lexer.TokenRParen, "')' to close call arguments")
			calleeSpan := text.Span{Start: p.sx.Tree.Node(expr).Span.Start, End: endTok.Span.End}
			returnType := mode.Int
			if calleeType := p.sx.Tree.Node(expr).Type; !calleeType.IsPrimitive() {
				if tag, payload := p.sx.Modes.Get(calleeType); tag == mode.TagFunction {
					ret, params := mode.Function(payload)
					returnType = ret
					if len(params) != len(args) {
						p.semanticsError(calleeSpan, diag.CodeWrongArity, "call has the wrong number of arguments")
					}
					// Cast each argument to its parameter's mode, the same
					// compatibility check parseReturnStatement and plain
					// assignment apply against their own target mode.
					for i := range args {
						if i >= len(params) {
							break
						}
						args[i] = p.insertCastIfNeeded(args[i], p.sx.Tree.Node(args[i]).Type, params[i])
					}
				}
			}
			children := make([]ast.NodeID, 0, 1+len(args))
			children = append(children, expr)
			children = append(children, args...)
			expr = p.sx.Tree.Add(ast.Node{Opcode: ast.OpCall, Type: returnType, Span: calleeSpan, Children: children})

		case lexer.TokenDot, lexer.TokenArrow:
			opTok := p.consume()
			memberTok, ok := p.expectAndConsume(lexer.TokenIdentifier, "member name")
			if !ok {
				return expr
			}
			memberRepr := p.internIdentifier(memberTok)
			baseType := p.sx.Tree.Node(expr).Type
			if opTok.Kind == lexer.TokenArrow && !baseType.IsPrimitive() {
				if tag, payload := p.sx.Modes.Get(baseType); tag == mode.TagPointer {
					baseType = mode.Pointer(payload)
				}
			}
			fieldType := mode.Int
			if !baseType.IsPrimitive() {
				if tag, payload := p.sx.Modes.Get(baseType); tag == mode.TagStruct {
					for _, f := range mode.Struct(payload) {
						if f.Repr == int(memberRepr) {
							fieldType = f.Mode
						}
					}
				}
			}
			opcode := ast.OpMember
			if opTok.Kind == lexer.TokenArrow {
				opcode = ast.OpArrow
			}
			expr = p.sx.Tree.Add(ast.Node{
				Opcode:   opcode,
				Type:     fieldType,
				Span:     text.Span{Start: p.sx.Tree.Node(expr).Span.Start, End: memberTok.Span.End},
				Children: []ast.NodeID{expr},
				Repr:     memberRepr,
			})

		case lexer.TokenPlusPlus, lexer.TokenMinusMinus:
			opTok := p.consume()
			expr = p.sx.Tree.Add(ast.Node{
				Opcode:   ast.OpPostfix,
				Type:     p.sx.Tree.Node(expr).Type,
				Span:     text.Span{Start: p.sx.Tree.Node(expr).Span.Start, End: opTok.Span.End},
				Children: []ast.NodeID{expr},
				Operator: opTok.Kind,
			})

		default:
			return expr
		}
	}
}

// parsePrimaryExpression handles literals, identifiers, and parenthesized
// sub-expressions.
func (p *Parser) parsePrimaryExpression(ctx Context) ast.NodeID {
	tok := p.current()
	switch tok.Kind {
	case lexer.TokenIntLiteral:
		p.consume()
		return p.sx.Tree.Add(ast.Node{Opcode: ast.OpIntLiteral, Type: mode.Int, Span: tok.Span, IntValue: parseIntLiteralBytes(p.tokenBytes(tok))})

	case lexer.TokenFloatLiteral:
		p.consume()
		return p.sx.Tree.Add(ast.Node{Opcode: ast.OpFloatLiteral, Type: mode.Float, Span: tok.Span, FloatValue: parseFloatLiteralBytes(p.tokenBytes(tok))})

	case lexer.TokenCharLiteral:
		p.consume()
		return p.sx.Tree.Add(ast.Node{Opcode: ast.OpCharLiteral, Type: mode.Char, Span: tok.Span, IntValue: charLiteralValue(p.tokenBytes(tok))})

	case lexer.TokenStringLiteral:
		p.consume()
		return p.sx.Tree.Add(ast.Node{Opcode: ast.OpStringLiteral, Type: p.sx.Modes.Pointer(mode.Char), Span: tok.Span, Text: string(p.tokenBytes(tok))})

	case lexer.TokenIdentifier:
		p.consume()
		r := p.internIdentifier(tok)
		h := p.sx.Idents.Lookup(r)
		if h == ident.NoHandle {
			p.errorAt(tok.Span, diag.CodeUndeclaredIdentifier, "use of undeclared identifier")
			return p.sx.Tree.Add(ast.Node{Opcode: ast.OpIdent, Type: mode.Int, Span: tok.Span, Repr: r})
		}
		id := p.sx.Tree.Add(ast.Node{Opcode: ast.OpIdent, Type: p.sx.Idents.Mode(h), Span: tok.Span, Repr: r})
		p.sx.Tree.SetIdent(id, int(h))
		return id

	case lexer.TokenLParen:
		p.consume()
		inner := p.parseExpression(ctx)
		p.expectAndConsume(lexer.TokenRParen, "')' to close parenthesized expression")
		return inner

	default:
		p.errorAt(tok.Span, diag.CodeUnexpectedToken, "expected an expression")
		if !p.atEOF() {
			p.consume()
		}
		return p.sx.Tree.Add(ast.Node{Opcode: ast.OpIntLiteral, Type: mode.Int, Span: tok.Span})
	}
}

// spanFrom builds the span covering from the start of a to the end of b.
func (p *Parser) spanFrom(a, b ast.NodeID) text.Span {
	return text.Span{Start: p.sx.Tree.Node(a).Span.Start, End: p.sx.Tree.Node(b).Span.End}
}

func parseIntLiteralBytes(b []byte) int64 {
	s := string(b)
	end := len(s)
	for end > 0 && isIntSuffixByte(s[end-1]) {
		end--
	}
	v, err := strconv.ParseInt(s[:end], 0, 64)
	if err != nil {
		return 0
	}
	return v
}

func isIntSuffixByte(c byte) bool {
	return c == 'u' || c == 'U' || c == 'l' || c == 'L'
}

func parseFloatLiteralBytes(b []byte) float64 {
	s := string(b)
	end := len(s)
	for end > 0 && (s[end-1] == 'f' || s[end-1] == 'F' || s[end-1] == 'l' || s[end-1] == 'L') {
		end--
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}

// charLiteralValue decodes a 'c'-style char literal, handling the common
// backslash escapes; it is deliberately not a full C escape-sequence parser.
func charLiteralValue(b []byte) int64 {
	if len(b) < 2 {
		return 0
	}
	inner := b[1 : len(b)-1]
	if len(inner) == 0 {
		return 0
	}
	if inner[0] != '\\' || len(inner) == 1 {
		return int64(inner[0])
	}
	switch inner[1] {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	case '\\':
		return '\\'
	case '\'':
		return '\''
	case '"':
		return '"'
	default:
		return int64(inner[1])
	}
}
