package cssrw

import (
	"bytes"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"github.com/sitefold/sitefold/internal/ident"
)

// Harvest scans stylesheet text and records identifier occurrences into h.
// Class and id selectors and custom property names count as declarations;
// every identifier seen is reserved so no generated short name can shadow
// an existing one.
func Harvest(src []byte, h *ident.Harvest) {
	l := css.NewLexer(parse.NewInputBytes(src))
	pendingDot := false

	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			if l.Err() != io.EOF {
				return
			}
			break
		}

		if pendingDot {
			pendingDot = false
			if tt == css.IdentToken {
				raw := string(data)
				h.NoteDeclared(ident.Class, ident.Unescape(raw), raw)
				continue
			}
		}

		switch tt {
		case css.DelimToken:
			if len(data) == 1 && data[0] == '.' {
				pendingDot = true
			}

		case css.HashToken:
			name := string(data[1:])
			if isHexColor(name) {
				break
			}
			h.NoteDeclared(ident.ID, ident.Unescape(name), name)

		case css.CustomPropertyNameToken:
			raw := string(data[2:])
			h.NoteDeclared(ident.CustomProperty, ident.Unescape(raw), raw)

		case css.IdentToken:
			raw := string(data)
			if strings.HasPrefix(raw, "--") {
				h.NoteDeclared(ident.CustomProperty, ident.Unescape(raw[2:]), raw[2:])
				break
			}
			h.Reserve(ident.Unescape(raw))

		case css.URLToken:
			s := string(data)
			low := asciiLower(s)
			if strings.HasPrefix(low, "url(") && strings.HasSuffix(s, ")") {
				inner := strings.TrimSpace(s[4 : len(s)-1])
				inner = strings.Trim(inner, `"'`)
				if strings.HasPrefix(inner, "#") {
					h.Note(ident.ID, inner[1:], "")
				}
			}

		case css.StringToken:
			if len(data) >= 2 {
				h.Reserve(string(data[1 : len(data)-1]))
			}

		case css.FunctionToken:
			if bytes.HasPrefix(data, []byte("--")) {
				raw := string(data[2 : len(data)-1])
				h.NoteDeclared(ident.CustomProperty, ident.Unescape(raw), raw)
			}
		}
	}
}
