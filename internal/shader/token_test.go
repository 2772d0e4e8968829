package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenizeLossless(t *testing.T) {
	sources := []string{
		"void main() { gl_FragColor = vec4(1.0); }",
		"// comment\n/* block */ float x = .5e-3;",
		"#version 300 es\nin vec4 pos;",
		"#define WIDE 1 \\\n  + 2\nint x = WIDE;",
		"float a = 0x1F; uint b = 3u;",
		"a /* unterminated",
	}
	for _, src := range sources {
		var b strings.Builder
		for _, tok := range Tokenize(src) {
			b.WriteString(tok.Text)
		}
		require.Equal(t, src, b.String(), "source %q", src)
	}
}

func TestTokenizeKinds(t *testing.T) {
	toks := Tokenize("#version 300 es\nfloat x = 1.5; // done")
	var kinds []Kind
	for _, tok := range toks {
		if tok.Kind != KindWhitespace {
			kinds = append(kinds, tok.Kind)
		}
	}
	require.Equal(t, []Kind{
		KindDirective,
		KindIdent, KindIdent, KindOperator, KindNumber, KindOperator,
		KindComment,
	}, kinds)
}

func TestTokenizeDirectiveNeedsLineStart(t *testing.T) {
	// A '#' mid-line is an operator, not a directive.
	toks := Tokenize("a #b")
	require.Equal(t, KindOperator, toks[2].Kind)
	require.Equal(t, "#", toks[2].Text)
}

func TestTokenizeDirectiveContinuation(t *testing.T) {
	toks := Tokenize("#define A \\\n 1\nfloat x;")
	require.Equal(t, KindDirective, toks[0].Kind)
	require.Equal(t, "#define A \\\n 1", toks[0].Text)
}
