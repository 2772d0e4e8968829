// Package htmlrw rewrites identifier references in HTML: class and
// id-bearing attributes, fragment links, inline style attributes, and the
// contents of style and script elements, which are delegated to the CSS
// and JS rewriters. Raw svg/math subtrees get their own attribute walker
// because the HTML lexer hands them over as one opaque token.
package htmlrw

import (
	"bytes"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/html"

	"github.com/sitefold/sitefold/internal/cssrw"
	"github.com/sitefold/sitefold/internal/ident"
	"github.com/sitefold/sitefold/internal/jsrw"
)

// Options controls one HTML rewrite.
type Options struct {
	Vars    ident.RenameMap
	Classes ident.RenameMap
	IDs     ident.RenameMap
	Calc    bool
	Colors  bool
	Shaders bool
}

func (o Options) cssNames() cssrw.Names {
	return cssrw.Names{Vars: o.Vars, Classes: o.Classes, IDs: o.IDs}
}

func (o Options) jsOptions() jsrw.Options {
	return jsrw.Options{
		Names:   jsrw.Names{Vars: o.Vars, Classes: o.Classes, IDs: o.IDs},
		Shaders: o.Shaders,
	}
}

// idAttrs are attributes whose value is an id or a whitespace-separated
// list of ids. The aria- set is restricted to idref attributes; prose
// attributes like aria-label must never be tokenized.
var idAttrs = map[string]bool{
	"id": true, "for": true, "form": true, "list": true, "headers": true,
	"aria-labelledby": true, "aria-describedby": true, "aria-controls": true,
	"aria-owns": true, "aria-activedescendant": true, "aria-details": true,
	"aria-errormessage": true, "aria-flowto": true,
}

// urlAttrs are SVG presentation attributes whose value may be a url(#id)
// reference.
var urlAttrs = map[string]bool{
	"fill": true, "stroke": true, "filter": true, "mask": true,
	"clip-path": true, "marker-start": true, "marker-mid": true, "marker-end": true,
}

// Rewrite applies rename maps and CSS folds across an HTML document. On a
// lexer error the original bytes come back unchanged.
func Rewrite(src []byte, opts Options) []byte {
	l := html.NewLexer(parse.NewInputBytes(src))
	var out bytes.Buffer
	out.Grow(len(src))

	tag := ""
	scriptJS := true
	styleCSS := true
	for {
		tt, data := l.Next()
		switch tt {
		case html.ErrorToken:
			if l.Err() == io.EOF {
				return out.Bytes()
			}
			return src

		case html.StartTagToken:
			tag = asciiLower(string(l.Text()))
			scriptJS, styleCSS = true, true
			out.Write(data)

		case html.AttributeToken:
			out.Write(rewriteAttrToken(tag, l, data, opts, &scriptJS, &styleCSS))

		case html.TextToken:
			switch {
			case tag == "style" && styleCSS:
				out.Write(rewriteCSS(data, opts))
			case tag == "script" && scriptJS:
				out.Write(jsrw.Rewrite(data, opts.jsOptions()))
			default:
				out.Write(data)
			}

		case html.EndTagToken, html.StartTagVoidToken:
			tag = ""
			out.Write(data)

		case html.SVGToken, html.MathToken:
			out.Write(foreignWalk(data, func(name, val string) string {
				return rewriteAttrValue(name, val, opts)
			}))

		default:
			out.Write(data)
		}
	}
}

func rewriteCSS(src []byte, opts Options) []byte {
	out := cssrw.Rewrite(src, opts.cssNames())
	if opts.Calc {
		out = cssrw.FoldCalc(out)
	}
	if opts.Colors {
		out = cssrw.FoldColors(out)
	}
	return out
}

// rewriteAttrToken rebuilds one attribute token, preserving its leading
// whitespace and quoting exactly. The lexer's AttrVal includes the quotes
// when present.
func rewriteAttrToken(tag string, l *html.Lexer, data []byte, opts Options, scriptJS, styleCSS *bool) []byte {
	name := asciiLower(string(l.Text()))
	rawVal := l.AttrVal()
	if len(rawVal) == 0 || len(rawVal) > len(data) {
		return data
	}
	quote, val := unquote(rawVal)

	if tag == "script" && name == "type" {
		*scriptJS = isJSType(val)
	}
	if tag == "style" && name == "type" {
		t := strings.TrimSpace(asciiLower(val))
		*styleCSS = t == "" || t == "text/css"
	}

	newVal := rewriteAttrValue(name, val, opts)
	if newVal == val {
		return data
	}
	var b bytes.Buffer
	b.Grow(len(data))
	b.Write(data[:len(data)-len(rawVal)])
	if quote != 0 {
		b.WriteByte(quote)
	}
	b.WriteString(newVal)
	if quote != 0 {
		b.WriteByte(quote)
	}
	return b.Bytes()
}

func isJSType(val string) bool {
	t := strings.TrimSpace(asciiLower(val))
	switch t {
	case "", "module", "text/javascript", "application/javascript":
		return true
	}
	return false
}

func unquote(raw []byte) (byte, string) {
	if len(raw) >= 2 && (raw[0] == '"' || raw[0] == '\'') && raw[len(raw)-1] == raw[0] {
		return raw[0], string(raw[1 : len(raw)-1])
	}
	return 0, string(raw)
}

// rewriteAttrValue rewrites one attribute value according to the
// attribute's role. Values that do not fit the role's grammar come back
// unchanged.
func rewriteAttrValue(name, val string, opts Options) string {
	switch {
	case name == "class":
		return rewriteTokens(val, opts.Classes)
	case idAttrs[name]:
		return rewriteTokens(val, opts.IDs)
	case name == "href" || name == "xlink:href":
		return rewriteFragment(val, opts.IDs)
	case name == "style":
		return string(rewriteCSS([]byte(val), opts))
	case urlAttrs[name]:
		return rewriteURLRef(val, opts.IDs)
	}
	return val
}

// rewriteTokens rewrites a whitespace-separated token list. Tokens are
// replaced independently: a token outside the restrictive grammar passes
// through untouched without stranding its neighbors on old names that no
// selector matches anymore.
func rewriteTokens(val string, m ident.RenameMap) string {
	var b strings.Builder
	b.Grow(len(val))
	for _, t := range splitTokens(val) {
		if short, ok := m[t.text]; ok && t.valid {
			b.WriteString(short)
		} else {
			b.WriteString(t.text)
		}
	}
	return b.String()
}

func rewriteFragment(val string, ids ident.RenameMap) string {
	if !strings.HasPrefix(val, "#") {
		return val
	}
	frag := val[1:]
	if short, ok := ids[frag]; ok && ident.ValidToken(frag) {
		return "#" + short
	}
	return val
}

// rewriteURLRef handles url(#id) in SVG presentation attributes.
func rewriteURLRef(val string, ids ident.RenameMap) string {
	inner, ok := strings.CutPrefix(val, "url(#")
	if !ok {
		return val
	}
	frag, ok := strings.CutSuffix(inner, ")")
	if !ok {
		return val
	}
	if short, ok := ids[frag]; ok && ident.ValidToken(frag) {
		return "url(#" + short + ")"
	}
	return val
}

type token struct {
	text  string
	ws    bool
	valid bool
}

// splitTokens splits an attribute value into alternating whitespace and
// token runs, preserving every byte. Tokens outside the restrictive
// grammar are marked invalid.
func splitTokens(val string) []token {
	var toks []token
	i := 0
	for i < len(val) {
		j := i
		if isHTMLSpace(val[i]) {
			for j < len(val) && isHTMLSpace(val[j]) {
				j++
			}
			toks = append(toks, token{val[i:j], true, false})
		} else {
			for j < len(val) && !isHTMLSpace(val[j]) {
				j++
			}
			t := val[i:j]
			toks = append(toks, token{t, false, ident.ValidToken(t)})
		}
		i = j
	}
	return toks
}

func isHTMLSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
