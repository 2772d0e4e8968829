package ident

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnescape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "btn-primary", "btn-primary"},
		{"single char escape", `foo\:bar`, "foo:bar"},
		{"hex escape with space", `\31 23`, "123"},
		{"hex escape six digits", `\00003a b`, ":b"},
		{"two spellings same canonical", `\3a `, ":"},
		{"nul becomes replacement", `a\0 b`, "a�b"},
		{"surrogate becomes replacement", `\d800 x`, "�x"},
		{"trailing backslash", `a\`, "a�"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Unescape(tt.in))
		})
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "btn-primary", "btn-primary"},
		{"leading digit", "1col", `\31 col`},
		{"hyphen digit start", "-2x", `-\32 x`},
		{"lone hyphen", "-", `\-`},
		{"colon escaped", "foo:bar", `foo\:bar`},
		{"control char", "a\x01b", `a\1 b`},
		{"non-ascii passes", "héllo", "héllo"},
		{"underscore passes", "_private", "_private"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Escape(tt.in))
		})
	}
}

func TestEscapeSuffix(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "btn-primary", "btn-primary"},
		{"leading digit stays bare", "0", "0"},
		{"digit then letters", "2x", "2x"},
		{"lone hyphen stays bare", "-", "-"},
		{"colon escaped", "foo:bar", `foo\:bar`},
		{"control char", "a\x01b", `a\1 b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, EscapeSuffix(tt.in))
		})
	}
}

func TestEscapeUnescapeRoundTrip(t *testing.T) {
	names := []string{"btn", "1col", "-x", "a:b c", "héllo", "--", "_a"}
	for _, n := range names {
		require.Equal(t, n, Unescape(Escape(n)), "round trip of %q", n)
	}
}

func TestValidToken(t *testing.T) {
	require.True(t, ValidToken("btn-primary"))
	require.True(t, ValidToken("col_2"))
	require.False(t, ValidToken(""))
	require.False(t, ValidToken("hello world"))
	require.False(t, ValidToken("a.b"))
	require.False(t, ValidToken("Don't"))
}
