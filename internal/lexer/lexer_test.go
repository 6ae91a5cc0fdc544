package lexer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bugdea1er/RuC/internal/text"
)

func TestTokenAndTriviaBytesUseRawSpans(t *testing.T) {
	t.Parallel()

	src := []byte("  abc")
	tr := Trivia{Kind: TriviaWhitespace, Span: text.Span{Start: 0, End: 2}}
	tok := Token{Kind: TokenIdentifier, Span: text.Span{Start: 2, End: 5}}

	if got := string(tr.Bytes(src)); got != "  " {
		t.Fatalf("Trivia.Bytes() = %q, want %q", got, "  ")
	}
	if got := string(tok.Bytes(src)); got != "abc" {
		t.Fatalf("Token.Bytes() = %q, want %q", got, "abc")
	}
}

func TestLexGoldenRepresentativeValidInput(t *testing.T) {
	t.Parallel()

	src := []byte(`/* doc */
int main(void) { // entry
  int x = 0x2A;
  char *name = "A\nB";
  double score = .5e+1;
  return x;
}
`)

	res := Lex(src)
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", res.Diagnostics)
	}

	got := renderTokens(src, res.Tokens)
	want := strings.TrimSpace(`
KwInt("int") lead=[BlockComment("/* doc */"),Newline("\n")]
Identifier("main") lead=[Whitespace(" ")]
LParen("(") lead=[]
KwVoid("void") lead=[]
RParen(")") lead=[]
LBrace("{") lead=[Whitespace(" ")]
KwInt("int") lead=[Whitespace(" "),LineComment("// entry"),Newline("\n"),Whitespace("  ")]
Identifier("x") lead=[Whitespace(" ")]
Assign("=") lead=[Whitespace(" ")]
IntLiteral("0x2A") lead=[Whitespace(" ")]
Semi(";") lead=[]
KwChar("char") lead=[Newline("\n"),Whitespace("  ")]
Star("*") lead=[Whitespace(" ")]
Identifier("name") lead=[]
Assign("=") lead=[Whitespace(" ")]
StringLiteral("\"A\\nB\"") lead=[Whitespace(" ")]
Semi(";") lead=[]
KwDouble("double") lead=[Newline("\n"),Whitespace("  ")]
Identifier("score") lead=[Whitespace(" ")]
Assign("=") lead=[Whitespace(" ")]
FloatLiteral(".5e+1") lead=[Whitespace(" ")]
Semi(";") lead=[]
KwReturn("return") lead=[Newline("\n"),Whitespace("  ")]
Identifier("x") lead=[Whitespace(" ")]
Semi(";") lead=[]
RBrace("}") lead=[Newline("\n")]
EOF("") lead=[Newline("\n")]
`)
	if got != want {
		t.Fatalf("golden mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestLexOperatorsAndPunctuators(t *testing.T) {
	t.Parallel()

	src := []byte("a->b += c++ - --d <= e >= f == g != h && i || !j << k >>= l ... m")
	res := Lex(src)
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", res.Diagnostics)
	}

	wantKinds := []TokenKind{
		TokenIdentifier, TokenArrow, TokenIdentifier,
		TokenPlusAssign, TokenIdentifier,
		TokenPlusPlus, TokenMinus, TokenMinusMinus, TokenIdentifier,
		TokenLessEqual, TokenIdentifier,
		TokenGreaterEqual, TokenIdentifier,
		TokenEqual, TokenIdentifier,
		TokenNotEqual, TokenIdentifier,
		TokenAndAnd, TokenIdentifier,
		TokenOrOr, TokenBang, TokenIdentifier,
		TokenShl, TokenIdentifier,
		TokenShrAssign, TokenIdentifier,
		TokenEllipsis, TokenIdentifier,
		TokenEOF,
	}

	if len(res.Tokens) != len(wantKinds) {
		t.Fatalf("token count = %d, want %d (%v)", len(res.Tokens), len(wantKinds), res.Tokens)
	}
	for i, tok := range res.Tokens {
		if tok.Kind != wantKinds[i] {
			t.Fatalf("token[%d] = %s %q, want %s", i, tok.Kind, tok.Bytes(src), wantKinds[i])
		}
	}
}

func TestLexMalformedInputsEmitErrorTokensAndDiagnostics(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		src          []byte
		wantDiagCode DiagnosticCode
	}{
		"unterminated string": {
			src:          []byte(`"abc`),
			wantDiagCode: DiagnosticUnterminatedString,
		},
		"unterminated char": {
			src:          []byte(`'a`),
			wantDiagCode: DiagnosticUnterminatedChar,
		},
		"unterminated block comment": {
			src:          []byte("/* abc"),
			wantDiagCode: DiagnosticUnterminatedBlockComment,
		},
		"invalid byte": {
			src:          []byte{0xff},
			wantDiagCode: DiagnosticInvalidByte,
		},
		"invalid hex literal": {
			src:          []byte("0x"),
			wantDiagCode: DiagnosticMalformedNumber,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			res := Lex(tc.src)
			if len(res.Diagnostics) == 0 {
				t.Fatalf("expected diagnostics for %q", tc.src)
			}
			if res.Diagnostics[0].Code != tc.wantDiagCode {
				t.Fatalf("diagnostic code = %s, want %s", res.Diagnostics[0].Code, tc.wantDiagCode)
			}
			if len(res.Tokens) == 0 || res.Tokens[0].Kind != TokenError {
				t.Fatalf("expected first token to be TokenError, got %+v", res.Tokens)
			}
			if !res.Tokens[0].Flags.Has(TokenFlagMalformed) {
				t.Fatalf("expected malformed flag on error token, got %v", res.Tokens[0].Flags)
			}
			if got := res.Tokens[len(res.Tokens)-1].Kind; got != TokenEOF {
				t.Fatalf("expected EOF token at end, got %s", got)
			}
		})
	}
}

func TestLexTriviaAndLiteralFidelity(t *testing.T) {
	t.Parallel()

	src := []byte("  // c1\r\n/* c2 */\r\nconst int x = 0XBeEf;\n\"a\\\"b\" 'q'")
	res := Lex(src)

	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", res.Diagnostics)
	}

	var gotComments []string
	var gotLiterals []string
	for _, tok := range res.Tokens {
		for _, tr := range tok.Leading {
			if tr.Kind == TriviaLineComment || tr.Kind == TriviaBlockComment {
				gotComments = append(gotComments, string(tr.Bytes(src)))
			}
		}
		if tok.Kind == TokenIntLiteral || tok.Kind == TokenStringLiteral || tok.Kind == TokenCharLiteral {
			gotLiterals = append(gotLiterals, string(tok.Bytes(src)))
		}
	}

	wantComments := []string{"// c1", "/* c2 */"}
	if fmt.Sprint(gotComments) != fmt.Sprint(wantComments) {
		t.Fatalf("comments = %v, want %v", gotComments, wantComments)
	}

	// Literal spellings must be preserved exactly.
	wantLiterals := []string{"0XBeEf", "\"a\\\"b\"", "'q'"}
	if fmt.Sprint(gotLiterals) != fmt.Sprint(wantLiterals) {
		t.Fatalf("literals = %v, want %v", gotLiterals, wantLiterals)
	}
}

func TestLexIdentifierAcceptsUnicodeLettersAndDigits(t *testing.T) {
	t.Parallel()

	src := []byte("int café = 1;")
	res := Lex(src)
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", res.Diagnostics)
	}

	if res.Tokens[1].Kind != TokenIdentifier {
		t.Fatalf("token[1].Kind = %s, want Identifier", res.Tokens[1].Kind)
	}
	if got := string(res.Tokens[1].Bytes(src)); got != "café" {
		t.Fatalf("token[1] spelling = %q, want %q", got, "café")
	}
}

func TestLexNoPanicsOnMalformedCorpusSamples(t *testing.T) {
	t.Parallel()

	inputs := [][]byte{
		[]byte(`"`),
		[]byte(`'`),
		[]byte(`/*`),
		[]byte(`0x`),
		{0xff, '{', 0xfe},
		[]byte("int main(void) {\n int x = \"a\n}\n"),
	}

	for _, src := range inputs {
		t.Run(fmt.Sprintf("%q", src), func(t *testing.T) {
			t.Parallel()
			_ = Lex(src)
		})
	}
}

func renderTokens(src []byte, tokens []Token) string {
	lines := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		lines = append(lines, fmt.Sprintf("%s(%q) lead=%s", tok.Kind, tok.Bytes(src), renderLeading(src, tok.Leading)))
	}
	return strings.Join(lines, "\n")
}

func renderLeading(src []byte, trivia []Trivia) string {
	if len(trivia) == 0 {
		return "[]"
	}

	parts := make([]string, 0, len(trivia))
	for _, tr := range trivia {
		parts = append(parts, fmt.Sprintf("%s(%q)", tr.Kind, tr.Bytes(src)))
	}
	return "[" + strings.Join(parts, ",") + "]"
}
