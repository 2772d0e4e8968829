package jsrw

import (
	"strings"

	"github.com/sitefold/sitefold/internal/ident"
	"github.com/sitefold/sitefold/internal/shader"
)

// Names carries the frozen rename maps consulted inside JS literals.
type Names struct {
	Vars    ident.RenameMap
	Classes ident.RenameMap
	IDs     ident.RenameMap
}

// Options controls one JS rewrite.
type Options struct {
	Names Names
	// Shaders enables mangling and minifying GLSL found in hole-free
	// template literals.
	Shaders bool
}

// Rewrite applies rename maps to string and template literal bodies.
// Code, comments and regex literals pass through byte-for-byte; literals
// the token-list grammar rejects are left untouched.
func Rewrite(src []byte, opts Options) []byte {
	var b strings.Builder
	b.Grow(len(src))
	scan(string(src), func(ch chunk) {
		switch ch.kind {
		case chunkString:
			b.WriteString(rewriteString(ch.text, opts.Names))
		case chunkTemplateText:
			b.WriteString(rewriteTemplateText(ch, opts))
		default:
			b.WriteString(ch.text)
		}
	})
	return []byte(b.String())
}

func rewriteString(lit string, names Names) string {
	if len(lit) < 2 {
		return lit
	}
	body := lit[1 : len(lit)-1]
	if out, ok := rewriteTokenList(body, names); ok {
		return lit[:1] + out + lit[len(lit)-1:]
	}
	return lit
}

func rewriteTemplateText(ch chunk, opts Options) string {
	// A backslash means escape sequences whose decoded form we never see;
	// rewriting around them risks changing what the escape applies to.
	if strings.Contains(ch.text, "\\") {
		return ch.text
	}
	if ch.holeFree && opts.Shaders && shader.IsShaderSource(ch.text) {
		out := shader.Minify(shader.Mangle(ch.text))
		if len(out) < len(ch.text) {
			return out
		}
		return ch.text
	}
	if out, ok := rewriteTokenList(ch.text, opts.Names); ok {
		return out
	}
	return ch.text
}

// rewriteTokenList rewrites a whitespace-delimited token list. A ".name",
// "#name" or "--name" prefix selects the class, id or custom property map;
// bare tokens are class names. It abstains unless every token fits the
// restrictive token grammar, which keeps prose strings untouched.
func rewriteTokenList(body string, names Names) (string, bool) {
	if body == "" || strings.Contains(body, "\\") {
		return "", false
	}
	var b strings.Builder
	b.Grow(len(body))
	i := 0
	for i < len(body) {
		if isJSSpace(body[i]) {
			j := i
			for j < len(body) && isJSSpace(body[j]) {
				j++
			}
			b.WriteString(body[i:j])
			i = j
			continue
		}
		j := i
		for j < len(body) && !isJSSpace(body[j]) {
			j++
		}
		out, ok := rewriteToken(body[i:j], names)
		if !ok {
			return "", false
		}
		b.WriteString(out)
		i = j
	}
	return b.String(), true
}

func rewriteToken(tok string, names Names) (string, bool) {
	prefix, name, m := splitToken(tok, names)
	if !ident.ValidToken(name) {
		return "", false
	}
	if short, ok := m[name]; ok {
		return prefix + short, true
	}
	return tok, true
}

// splitToken maps a token's prefix to the rename map it selects.
func splitToken(tok string, names Names) (prefix, name string, m ident.RenameMap) {
	switch {
	case strings.HasPrefix(tok, "--"):
		return "--", tok[2:], names.Vars
	case strings.HasPrefix(tok, "."):
		return ".", tok[1:], names.Classes
	case strings.HasPrefix(tok, "#"):
		return "#", tok[1:], names.IDs
	}
	return "", tok, names.Classes
}

// Harvest records identifier references found in string and template
// literal bodies into h. decls holds the corpus-wide CSS declarations,
// complete and frozen before this runs: a literal counts as a token list
// only when at least one token names something declared there. Passing a
// separate output harvest keeps per-file harvesting race-free under
// fan-out; callers merge afterwards.
func Harvest(src []byte, decls, h *ident.Harvest) {
	scan(string(src), func(ch chunk) {
		switch ch.kind {
		case chunkString:
			if len(ch.text) >= 2 {
				harvestTokenList(ch.text[1:len(ch.text)-1], decls, h)
			}
		case chunkTemplateText:
			// Shader templates are mangled self-contained, per template.
			if ch.holeFree && shader.IsShaderSource(ch.text) {
				return
			}
			harvestTokenList(ch.text, decls, h)
		}
	})
}

func harvestTokenList(body string, decls, h *ident.Harvest) {
	if body == "" || strings.Contains(body, "\\") {
		return
	}
	type ref struct {
		cat  ident.Category
		name string
	}
	var refs []ref
	known := false
	for _, tok := range strings.Fields(body) {
		prefix, name, _ := splitToken(tok, Names{})
		if !ident.ValidToken(name) {
			return
		}
		cat := ident.Class
		switch prefix {
		case "--":
			cat = ident.CustomProperty
		case "#":
			cat = ident.ID
		}
		if decls.IsDeclared(cat, name) {
			known = true
		}
		refs = append(refs, ref{cat, name})
	}
	if !known {
		// Plausible tokens still reserve their spelling so generated short
		// names cannot collide with them.
		for _, r := range refs {
			h.Reserve(r.name)
		}
		return
	}
	for _, r := range refs {
		h.NoteReferenced(r.cat, r.name, "")
	}
}
