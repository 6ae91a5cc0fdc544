// Package lexer provides a lossless token/trivia lexer for the C99-like source language.
package lexer

import (
	"fmt"

	"github.com/bugdea1er/RuC/internal/text"
)

// TokenKind identifies the syntactic category of a token.
type TokenKind uint16

// TokenKind values used by the lexer. The parser treats every keyword as
// its own kind (as opposed to a generic identifier kind carrying a
// spelling) except for plain identifiers, which the parser additionally
// classifies against the identifier table to recognise typedef-names,
// since whether a bare identifier starts a declaration depends on
// whether it currently names a type.
const (
	TokenError TokenKind = iota
	TokenEOF
	TokenIdentifier
	TokenIntLiteral
	TokenFloatLiteral
	TokenCharLiteral
	TokenStringLiteral

	TokenKwAuto
	TokenKwBreak
	TokenKwCase
	TokenKwChar
	TokenKwConst
	TokenKwContinue
	TokenKwDefault
	TokenKwDo
	TokenKwDouble
	TokenKwElse
	TokenKwEnum
	TokenKwExtern
	TokenKwFloat
	TokenKwFor
	TokenKwGoto
	TokenKwIf
	TokenKwInt
	TokenKwLong
	TokenKwRegister
	TokenKwReturn
	TokenKwShort
	TokenKwSigned
	TokenKwSizeof
	TokenKwStatic
	TokenKwStruct
	TokenKwSwitch
	TokenKwTypedef
	TokenKwUnion
	TokenKwUnsigned
	TokenKwVoid
	TokenKwVolatile
	TokenKwWhile
	TokenKwBool
	TokenKwTrue
	TokenKwFalse

	TokenLBrace
	TokenRBrace
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenComma
	TokenSemi
	TokenColon
	TokenQuestion
	TokenDot
	TokenArrow
	TokenEllipsis

	TokenAssign
	TokenPlusAssign
	TokenMinusAssign
	TokenStarAssign
	TokenSlashAssign
	TokenPercentAssign
	TokenAndAssign
	TokenOrAssign
	TokenXorAssign
	TokenShlAssign
	TokenShrAssign

	TokenEqual
	TokenNotEqual
	TokenLess
	TokenGreater
	TokenLessEqual
	TokenGreaterEqual

	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenPlusPlus
	TokenMinusMinus

	TokenAmp
	TokenPipe
	TokenCaret
	TokenTilde
	TokenShl
	TokenShr

	TokenAndAnd
	TokenOrOr
	TokenBang
)

var tokenNames = map[TokenKind]string{
	TokenError:         "Error",
	TokenEOF:           "EOF",
	TokenIdentifier:    "Identifier",
	TokenIntLiteral:    "IntLiteral",
	TokenFloatLiteral:  "FloatLiteral",
	TokenCharLiteral:   "CharLiteral",
	TokenStringLiteral: "StringLiteral",
	TokenKwAuto:        "KwAuto",
	TokenKwBreak:       "KwBreak",
	TokenKwCase:        "KwCase",
	TokenKwChar:        "KwChar",
	TokenKwConst:       "KwConst",
	TokenKwContinue:    "KwContinue",
	TokenKwDefault:     "KwDefault",
	TokenKwDo:          "KwDo",
	TokenKwDouble:      "KwDouble",
	TokenKwElse:        "KwElse",
	TokenKwEnum:        "KwEnum",
	TokenKwExtern:      "KwExtern",
	TokenKwFloat:       "KwFloat",
	TokenKwFor:         "KwFor",
	TokenKwGoto:        "KwGoto",
	TokenKwIf:          "KwIf",
	TokenKwInt:         "KwInt",
	TokenKwLong:        "KwLong",
	TokenKwRegister:    "KwRegister",
	TokenKwReturn:      "KwReturn",
	TokenKwShort:       "KwShort",
	TokenKwSigned:      "KwSigned",
	TokenKwSizeof:      "KwSizeof",
	TokenKwStatic:      "KwStatic",
	TokenKwStruct:      "KwStruct",
	TokenKwSwitch:      "KwSwitch",
	TokenKwTypedef:     "KwTypedef",
	TokenKwUnion:       "KwUnion",
	TokenKwUnsigned:    "KwUnsigned",
	TokenKwVoid:        "KwVoid",
	TokenKwVolatile:    "KwVolatile",
	TokenKwWhile:       "KwWhile",
	TokenKwBool:        "KwBool",
	TokenKwTrue:        "KwTrue",
	TokenKwFalse:       "KwFalse",
	TokenLBrace:        "LBrace",
	TokenRBrace:        "RBrace",
	TokenLParen:        "LParen",
	TokenRParen:        "RParen",
	TokenLBracket:      "LBracket",
	TokenRBracket:      "RBracket",
	TokenComma:         "Comma",
	TokenSemi:          "Semi",
	TokenColon:         "Colon",
	TokenQuestion:      "Question",
	TokenDot:           "Dot",
	TokenArrow:         "Arrow",
	TokenEllipsis:      "Ellipsis",
	TokenAssign:        "Assign",
	TokenPlusAssign:    "PlusAssign",
	TokenMinusAssign:   "MinusAssign",
	TokenStarAssign:    "StarAssign",
	TokenSlashAssign:   "SlashAssign",
	TokenPercentAssign: "PercentAssign",
	TokenAndAssign:     "AndAssign",
	TokenOrAssign:      "OrAssign",
	TokenXorAssign:     "XorAssign",
	TokenShlAssign:     "ShlAssign",
	TokenShrAssign:     "ShrAssign",
	TokenEqual:         "Equal",
	TokenNotEqual:      "NotEqual",
	TokenLess:          "Less",
	TokenGreater:       "Greater",
	TokenLessEqual:     "LessEqual",
	TokenGreaterEqual:  "GreaterEqual",
	TokenPlus:          "Plus",
	TokenMinus:         "Minus",
	TokenStar:          "Star",
	TokenSlash:         "Slash",
	TokenPercent:       "Percent",
	TokenPlusPlus:      "PlusPlus",
	TokenMinusMinus:    "MinusMinus",
	TokenAmp:           "Amp",
	TokenPipe:          "Pipe",
	TokenCaret:         "Caret",
	TokenTilde:         "Tilde",
	TokenShl:           "Shl",
	TokenShr:           "Shr",
	TokenAndAnd:        "AndAnd",
	TokenOrOr:          "OrOr",
	TokenBang:          "Bang",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", k)
}

// TokenFlags carry metadata about the token source or origin.
type TokenFlags uint8

// TokenFlags values describe token provenance or recovery state.
const (
	TokenFlagMalformed TokenFlags = 1 << iota
	TokenFlagSynthesized
	TokenFlagRecovered
)

// Has reports whether all bits in mask are set.
func (f TokenFlags) Has(mask TokenFlags) bool {
	return f&mask == mask
}

// Token is a lexed token with a source span and leading trivia.
type Token struct {
	Kind    TokenKind
	Span    text.Span
	Leading []Trivia
	Flags   TokenFlags
}

// Bytes returns the token bytes referenced by Span or nil if Span is invalid for src.
func (t Token) Bytes(src []byte) []byte {
	return bytesForSpan(src, t.Span)
}

// IsKeyword reports whether k is one of the reserved words.
func (k TokenKind) IsKeyword() bool {
	return k >= TokenKwAuto && k <= TokenKwFalse
}

var keywordKinds = map[string]TokenKind{
	"auto":     TokenKwAuto,
	"break":    TokenKwBreak,
	"case":     TokenKwCase,
	"char":     TokenKwChar,
	"const":    TokenKwConst,
	"continue": TokenKwContinue,
	"default":  TokenKwDefault,
	"do":       TokenKwDo,
	"double":   TokenKwDouble,
	"else":     TokenKwElse,
	"enum":     TokenKwEnum,
	"extern":   TokenKwExtern,
	"float":    TokenKwFloat,
	"for":      TokenKwFor,
	"goto":     TokenKwGoto,
	"if":       TokenKwIf,
	"int":      TokenKwInt,
	"long":     TokenKwLong,
	"register": TokenKwRegister,
	"return":   TokenKwReturn,
	"short":    TokenKwShort,
	"signed":   TokenKwSigned,
	"sizeof":   TokenKwSizeof,
	"static":   TokenKwStatic,
	"struct":   TokenKwStruct,
	"switch":   TokenKwSwitch,
	"typedef":  TokenKwTypedef,
	"union":    TokenKwUnion,
	"unsigned": TokenKwUnsigned,
	"void":     TokenKwVoid,
	"volatile": TokenKwVolatile,
	"while":    TokenKwWhile,
	"bool":     TokenKwBool,
	"true":     TokenKwTrue,
	"false":    TokenKwFalse,
}

func bytesForSpan(src []byte, sp text.Span) []byte {
	if !sp.IsValid() {
		return nil
	}
	if sp.End > text.ByteOffset(len(src)) {
		return nil
	}
	return src[sp.Start:sp.End]
}
