package htmlrw

import (
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/html"

	"github.com/sitefold/sitefold/internal/cssrw"
	"github.com/sitefold/sitefold/internal/ident"
	"github.com/sitefold/sitefold/internal/jsrw"
)

// HarvestDeclarations feeds embedded CSS (style elements and style
// attributes) to the CSS harvester. It runs in the declaration phase,
// before any reference harvesting, so the token-list heuristic has the
// full declared-name set to check against.
func HarvestDeclarations(src []byte, h *ident.Harvest) {
	walk(src, walker{
		styleText: func(data []byte) { cssrw.Harvest(data, h) },
		attr: func(name, val string) {
			if name == "style" {
				cssrw.Harvest([]byte(val), h)
			}
		},
	})
}

// HarvestReferences tallies class, id and custom property references from
// markup attributes and script bodies. decls holds the merged corpus-wide
// declarations; h receives this file's tallies.
func HarvestReferences(src []byte, decls, h *ident.Harvest) {
	walk(src, walker{
		scriptText: func(data []byte) { jsrw.Harvest(data, decls, h) },
		attr: func(name, val string) {
			switch {
			case name == "class":
				harvestTokens(val, ident.Class, decls, h)
			case idAttrs[name]:
				harvestTokens(val, ident.ID, decls, h)
			case name == "href" || name == "xlink:href":
				if len(val) > 1 && val[0] == '#' && ident.ValidToken(val[1:]) {
					h.NoteReferenced(ident.ID, val[1:], "")
				}
			case urlAttrs[name]:
				if frag, ok := cutURLRef(val); ok {
					h.NoteReferenced(ident.ID, frag, "")
				}
			}
		},
	})
}

func cutURLRef(val string) (string, bool) {
	if len(val) > 6 && val[:5] == "url(#" && val[len(val)-1] == ')' {
		frag := val[5 : len(val)-1]
		if ident.ValidToken(frag) {
			return frag, true
		}
	}
	return "", false
}

// harvestTokens tallies one attribute token list. Tokens outside the
// restrictive grammar (templating leftovers, expressions) are skipped
// without vetoing their neighbors, mirroring per-token rewriting. Valid
// tokens in a list with no declared name are only reserved, so generated
// short names can never collide with them.
func harvestTokens(val string, cat ident.Category, decls, h *ident.Harvest) {
	toks := splitTokens(val)
	known := false
	for _, t := range toks {
		if t.valid && decls.IsDeclared(cat, t.text) {
			known = true
		}
	}
	for _, t := range toks {
		if t.ws || !t.valid {
			continue
		}
		if known {
			h.NoteReferenced(cat, t.text, "")
		} else {
			h.Reserve(t.text)
		}
	}
}

// walker receives the pieces of a document one harvest cares about.
type walker struct {
	styleText  func([]byte)
	scriptText func([]byte)
	attr       func(name, val string)
}

func walk(src []byte, w walker) {
	l := html.NewLexer(parse.NewInputBytes(src))
	tag := ""
	scriptJS := true
	styleCSS := true
	for {
		tt, data := l.Next()
		switch tt {
		case html.ErrorToken:
			return

		case html.StartTagToken:
			tag = asciiLower(string(l.Text()))
			scriptJS, styleCSS = true, true

		case html.AttributeToken:
			name := asciiLower(string(l.Text()))
			_, val := unquote(l.AttrVal())
			if tag == "script" && name == "type" {
				scriptJS = isJSType(val)
			}
			if tag == "style" && name == "type" {
				styleCSS = val == "" || asciiLower(val) == "text/css"
			}
			if w.attr != nil {
				w.attr(name, val)
			}

		case html.TextToken:
			switch {
			case tag == "style" && styleCSS && w.styleText != nil:
				w.styleText(data)
			case tag == "script" && scriptJS && w.scriptText != nil:
				w.scriptText(data)
			}

		case html.EndTagToken, html.StartTagVoidToken:
			tag = ""

		case html.SVGToken, html.MathToken:
			if w.attr != nil {
				foreignWalk(data, func(name, val string) string {
					w.attr(name, val)
					return val
				})
			}
		}
	}
}
