// Package cssrw rewrites stylesheet text without corrupting non-target
// syntax: class/id selectors and custom properties are renamed through
// frozen rename maps, calc() expressions are folded to exact literals, and
// oklch() colors are folded to hex.
//
// The package walks the tdewolff CSS lexer token stream and concatenates
// raw token bytes for everything it does not rewrite, so untouched syntax
// survives byte-for-byte.
package cssrw

import (
	"bytes"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"github.com/sitefold/sitefold/internal/ident"
)

// Names carries the frozen rename maps consulted while rewriting
// stylesheet text. A nil map disables that category.
type Names struct {
	Vars    ident.RenameMap
	Classes ident.RenameMap
	IDs     ident.RenameMap
}

type options struct {
	names  Names
	idents bool
	calc   bool
	colors bool
}

// Rewrite renames class/id selectors, custom properties and url(#fragment)
// references. Input that fails to lex is returned unchanged.
func Rewrite(src []byte, names Names) []byte {
	return walk(src, options{names: names, idents: true})
}

// FoldCalc statically folds calc() expressions to literal dimensions where
// an exact, terminating result can be proven.
func FoldCalc(src []byte) []byte {
	return walk(src, options{calc: true})
}

// FoldColors folds in-gamut oklch() colors to hex literals.
func FoldColors(src []byte) []byte {
	return walk(src, options{colors: true})
}

func walk(src []byte, o options) []byte {
	l := css.NewLexer(parse.NewInputBytes(src))
	var out bytes.Buffer
	out.Grow(len(src))
	var pendingDot []byte

	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			out.Write(pendingDot)
			if l.Err() != io.EOF {
				return src
			}
			break
		}

		if pendingDot != nil {
			dot := pendingDot
			pendingDot = nil
			if tt == css.IdentToken {
				out.Write(dot)
				out.WriteString(renameRaw(string(data), o.names.Classes))
				continue
			}
			out.Write(dot)
		}

		switch tt {
		case css.DelimToken:
			if o.idents && len(data) == 1 && data[0] == '.' {
				pendingDot = data
				continue
			}
			out.Write(data)

		case css.HashToken:
			if !o.idents {
				out.Write(data)
				break
			}
			name := string(data[1:])
			// #fff and friends are colors, not id selectors.
			if isHexColor(name) {
				out.Write(data)
				break
			}
			out.WriteByte('#')
			out.WriteString(renameRaw(name, o.names.IDs))

		case css.CustomPropertyNameToken:
			out.Write(renameCustomProperty(data, o))

		case css.IdentToken:
			if o.idents && bytes.HasPrefix(data, []byte("--")) {
				out.Write(renameCustomProperty(data, o))
				break
			}
			out.Write(data)

		case css.URLToken:
			out.Write(rewriteURLToken(data, o))

		case css.FunctionToken:
			fn := asciiLower(string(data))
			switch {
			case o.calc && fn == "calc(":
				inner, ok := captureBalanced(l)
				orig := string(data) + inner + ")"
				if !ok {
					out.WriteString(string(data) + inner)
					break
				}
				if folded, done := foldCalc(inner); done && len(folded) < len(orig) {
					out.WriteString(folded)
				} else {
					out.WriteString(orig)
				}
			case o.colors && fn == "oklch(":
				inner, ok := captureBalanced(l)
				orig := string(data) + inner + ")"
				if !ok {
					out.WriteString(string(data) + inner)
					break
				}
				if hex, done := foldOKLCH(inner); done && len(hex) < len(orig) {
					out.WriteString(hex)
				} else {
					out.WriteString(orig)
				}
			case o.idents && fn == "url(":
				raw, inner, ok := captureURLArg(l)
				if !ok {
					out.Write(data)
					out.WriteString(raw)
					break
				}
				out.Write(data)
				out.WriteString(rewriteFragmentArg(raw, inner, o))
				out.WriteByte(')')
			default:
				out.Write(data)
			}

		default:
			out.Write(data)
		}
	}
	return out.Bytes()
}

// captureBalanced consumes tokens up to and including the parenthesis that
// closes the current function and returns the raw inner text. ok is false
// when the input ends before the parens balance.
func captureBalanced(l *css.Lexer) (string, bool) {
	var b strings.Builder
	depth := 1
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return b.String(), false
		case css.FunctionToken, css.LeftParenthesisToken:
			depth++
		case css.RightParenthesisToken:
			depth--
			if depth == 0 {
				return b.String(), true
			}
		}
		b.Write(data)
	}
}

// captureURLArg consumes the argument tokens of a url( function up to the
// closing parenthesis. raw is everything consumed (without the closing
// paren on success), inner is the unquoted argument text.
func captureURLArg(l *css.Lexer) (raw, inner string, ok bool) {
	var b strings.Builder
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return b.String(), "", false
		case css.RightParenthesisToken:
			raw = b.String()
			inner = strings.TrimSpace(raw)
			if len(inner) >= 2 && (inner[0] == '"' || inner[0] == '\'') && inner[len(inner)-1] == inner[0] {
				inner = inner[1 : len(inner)-1]
			}
			return raw, inner, true
		default:
			b.Write(data)
		}
	}
}

// rewriteFragmentArg renames a #fragment url argument when the fragment is
// a known id; any other argument is passed through untouched.
func rewriteFragmentArg(raw, inner string, o options) string {
	if !strings.HasPrefix(inner, "#") {
		return raw
	}
	if short, ok := o.names.IDs[inner[1:]]; ok {
		quote := ""
		trimmed := strings.TrimSpace(raw)
		if len(trimmed) > 0 && (trimmed[0] == '"' || trimmed[0] == '\'') {
			quote = string(trimmed[0])
		}
		return quote + "#" + short + quote
	}
	return raw
}

// rewriteURLToken handles the unquoted url(#fragment) form, which the lexer
// emits as a single token.
func rewriteURLToken(data []byte, o options) []byte {
	if !o.idents {
		return data
	}
	s := string(data)
	low := asciiLower(s)
	if !strings.HasPrefix(low, "url(") || !strings.HasSuffix(s, ")") {
		return data
	}
	inner := strings.TrimSpace(s[4 : len(s)-1])
	quote := ""
	if len(inner) >= 2 && (inner[0] == '"' || inner[0] == '\'') && inner[len(inner)-1] == inner[0] {
		quote = string(inner[0])
		inner = inner[1 : len(inner)-1]
	}
	if !strings.HasPrefix(inner, "#") {
		return data
	}
	if short, ok := o.names.IDs[inner[1:]]; ok {
		return []byte(s[:4] + quote + "#" + short + quote + ")")
	}
	return data
}

func renameCustomProperty(data []byte, o options) []byte {
	raw := string(data[2:])
	canonical := ident.Unescape(raw)
	if short, ok := o.names.Vars[canonical]; ok {
		return []byte("--" + ident.EscapeSuffix(short))
	}
	return data
}

// renameRaw maps a raw (possibly escaped) identifier through m, re-escaping
// the replacement; unknown names pass through with their original spelling.
func renameRaw(raw string, m ident.RenameMap) string {
	canonical := ident.Unescape(raw)
	if short, ok := m[canonical]; ok {
		return ident.Escape(short)
	}
	return raw
}

func isHexColor(s string) bool {
	switch len(s) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F' {
			continue
		}
		return false
	}
	return true
}

func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}
