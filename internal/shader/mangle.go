package shader

import (
	"strings"

	"github.com/sitefold/sitefold/internal/ident"
)

// keywords covers GLSL keywords and reserved words that can never be
// renamed, plus main.
var keywords = map[string]bool{
	"attribute": true, "const": true, "uniform": true, "varying": true,
	"buffer": true, "shared": true, "coherent": true, "volatile": true,
	"restrict": true, "readonly": true, "writeonly": true, "layout": true,
	"centroid": true, "flat": true, "smooth": true, "noperspective": true,
	"patch": true, "sample": true, "invariant": true, "precise": true,
	"break": true, "continue": true, "do": true, "for": true, "while": true,
	"switch": true, "case": true, "default": true, "if": true, "else": true,
	"in": true, "out": true, "inout": true, "true": true, "false": true,
	"discard": true, "return": true, "struct": true, "precision": true,
	"lowp": true, "mediump": true, "highp": true, "subroutine": true,
	"main": true,
}

// builtinTypes lists type names that start declarations.
var builtinTypes = map[string]bool{
	"void": true, "bool": true, "int": true, "uint": true, "float": true, "double": true,
	"vec2": true, "vec3": true, "vec4": true,
	"bvec2": true, "bvec3": true, "bvec4": true,
	"ivec2": true, "ivec3": true, "ivec4": true,
	"uvec2": true, "uvec3": true, "uvec4": true,
	"dvec2": true, "dvec3": true, "dvec4": true,
	"mat2": true, "mat3": true, "mat4": true,
	"mat2x2": true, "mat2x3": true, "mat2x4": true,
	"mat3x2": true, "mat3x3": true, "mat3x4": true,
	"mat4x2": true, "mat4x3": true, "mat4x4": true,
	"sampler2D": true, "sampler3D": true, "samplerCube": true,
	"sampler2DArray": true, "sampler2DShadow": true, "samplerCubeShadow": true,
	"sampler2DArrayShadow": true, "samplerCubeArray": true,
	"isampler2D": true, "isampler3D": true, "isamplerCube": true, "isampler2DArray": true,
	"usampler2D": true, "usampler3D": true, "usamplerCube": true, "usampler2DArray": true,
	"image2D": true, "image3D": true, "imageCube": true, "atomic_uint": true,
}

// storageQualifiers mark a declaration as part of the shader's external
// interface; such names must never be renamed.
var storageQualifiers = map[string]bool{
	"uniform": true, "in": true, "out": true, "attribute": true,
	"varying": true, "buffer": true,
}

// IsShaderSource reports whether a hole-free template literal body looks
// like GLSL: an entry point, gl_ builtins, interface qualifiers, a
// precision statement, or a leading preprocessor directive.
func IsShaderSource(s string) bool {
	trimmed := strings.TrimLeft(s, " \t\r\n")
	if strings.HasPrefix(trimmed, "#") {
		return true
	}
	if strings.Contains(s, "void main(") || strings.Contains(s, "void main (") {
		return true
	}
	if strings.Contains(s, "gl_") {
		return true
	}
	// Qualifier keywords are common English words; require statement shape:
	// a line starting with the keyword followed by a type or precision
	// qualifier, so prose like "a uniform result" never matches.
	for _, line := range strings.Split(s, "\n") {
		if qualifierLine(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}

func qualifierLine(line string) bool {
	if rest, ok := strings.CutPrefix(line, "precision "); ok {
		if precisionQualifier(firstWord(rest)) {
			return true
		}
	}
	prefixes := []string{
		"uniform ", "varying ", "attribute ",
		"in ", "out ", "flat in ", "flat out ",
	}
	for _, prefix := range prefixes {
		if rest, ok := strings.CutPrefix(line, prefix); ok {
			word := firstWord(rest)
			if builtinTypes[word] || precisionQualifier(word) {
				return true
			}
		}
	}
	return false
}

func firstWord(s string) string {
	word, _, _ := strings.Cut(s, " ")
	return word
}

func precisionQualifier(word string) bool {
	return word == "lowp" || word == "mediump" || word == "highp"
}

// analysis holds what one collection pass learned about a shader.
type analysis struct {
	macros     map[string]bool
	structs    map[string]bool
	interface_ map[string]bool // storage-qualified names and block members
	declared   map[string]bool // every declared name, local or not
	members    map[string]bool // struct member names
}

// Mangle renames local identifiers to short generated names. The external
// interface (storage-qualified declarations and their block members),
// macros, struct types and members, gl_* names and keywords all keep their
// original spelling.
func Mangle(src string) string {
	toks := Tokenize(src)
	a := analyze(toks)

	h := ident.NewHarvest()
	for name := range keywords {
		h.Reserve(name)
	}
	for name := range builtinTypes {
		h.Reserve(name)
	}
	for name := range a.macros {
		h.Reserve(name)
	}
	for name := range a.structs {
		h.Reserve(name)
	}
	// Every identifier literally present is reserved, renameable or not.
	for _, t := range toks {
		if t.Kind == KindIdent {
			h.Reserve(t.Text)
		}
	}

	counts := countUses(toks)
	for name := range a.declared {
		if !renameable(name, a) {
			continue
		}
		for n := counts[name]; n > 0; n-- {
			h.NoteDeclared(ident.ShaderLocal, name, name)
		}
	}

	m := h.Allocate(ident.ShaderLocal)
	if len(m) == 0 {
		return src
	}

	var b strings.Builder
	b.Grow(len(src))
	prevDot := false
	for _, t := range toks {
		if t.Kind == KindIdent && !prevDot {
			if short, ok := m[t.Text]; ok {
				b.WriteString(short)
				prevDot = false
				continue
			}
		}
		b.WriteString(t.Text)
		if t.Kind != KindWhitespace && t.Kind != KindComment {
			prevDot = t.Kind == KindOperator && t.Text == "."
		}
	}
	return b.String()
}

func renameable(name string, a *analysis) bool {
	if keywords[name] || builtinTypes[name] {
		return false
	}
	if strings.HasPrefix(name, "gl_") {
		return false
	}
	if a.macros[name] || a.structs[name] || a.interface_[name] || a.members[name] {
		return false
	}
	return true
}

// countUses tallies identifier occurrences, skipping field and swizzle
// accesses after a dot.
func countUses(toks []Token) map[string]int {
	counts := make(map[string]int)
	prevDot := false
	for _, t := range toks {
		if t.Kind == KindWhitespace || t.Kind == KindComment {
			continue
		}
		if t.Kind == KindIdent && !prevDot {
			counts[t.Text]++
		}
		prevDot = t.Kind == KindOperator && t.Text == "."
	}
	return counts
}

// analyze walks the token stream once, collecting macros, struct types,
// declared names and the interface set.
func analyze(toks []Token) *analysis {
	a := &analysis{
		macros:     make(map[string]bool),
		structs:    make(map[string]bool),
		interface_: make(map[string]bool),
		declared:   make(map[string]bool),
		members:    make(map[string]bool),
	}

	// Significant tokens only; directives handled inline.
	var sig []Token
	for _, t := range toks {
		switch t.Kind {
		case KindWhitespace, KindComment:
		case KindDirective:
			if name, ok := defineName(t.Text); ok {
				a.macros[name] = true
			}
		default:
			sig = append(sig, t)
		}
	}

	braceDepth := 0
	parenDepth := 0
	qualifierActive := false
	qualifierBlock := -1 // brace depth of an open interface block, -1 if none
	structBlock := -1    // brace depth of an open struct body, -1 if none
	expectStructName := false

	isType := func(name string) bool { return builtinTypes[name] || a.structs[name] }

	for i := 0; i < len(sig); i++ {
		t := sig[i]
		switch t.Kind {
		case KindOperator:
			switch t.Text {
			case "{":
				braceDepth++
				if qualifierActive && qualifierBlock < 0 && parenDepth == 0 {
					qualifierBlock = braceDepth
				}
			case "}":
				if qualifierBlock == braceDepth {
					qualifierBlock = -1
				}
				if structBlock == braceDepth {
					structBlock = -1
				}
				braceDepth--
			case "(":
				parenDepth++
			case ")":
				parenDepth--
			case ";":
				if parenDepth == 0 && qualifierBlock < 0 {
					qualifierActive = false
				}
			}

		case KindIdent:
			name := t.Text
			if expectStructName {
				a.structs[name] = true
				a.declared[name] = true
				expectStructName = false
				// The body that follows declares members, not locals.
				structBlock = braceDepth + 1
				continue
			}
			if name == "struct" {
				expectStructName = true
				continue
			}
			if storageQualifiers[name] && braceDepth == 0 && parenDepth == 0 {
				qualifierActive = true
				continue
			}
			if !isType(name) {
				continue
			}
			// A type name opens a declarator list: collect the declared
			// names that follow, across commas, skipping initializers.
			i += collectDeclarators(sig[i+1:], a, qualifierActive || qualifierBlock == braceDepth, structBlock >= 0 && braceDepth >= structBlock)
		}
	}
	return a
}

// collectDeclarators consumes `name [= expr] [, name ...]` after a type
// token and records each declared name. It returns how many significant
// tokens it consumed. Function parameter lists restart collection inside
// their parentheses via the main analyze loop, so collection stops at the
// first token that cannot continue a declarator list.
func collectDeclarators(rest []Token, a *analysis, isInterface, isMember bool) int {
	note := func(name string) {
		if isMember {
			a.members[name] = true
			return
		}
		a.declared[name] = true
		if isInterface {
			a.interface_[name] = true
		}
	}

	i := 0
	expectName := true
	depth := 0
	for i < len(rest) {
		t := rest[i]
		if t.Kind == KindIdent && expectName && depth == 0 {
			note(t.Text)
			expectName = false
			i++
			continue
		}
		if t.Kind != KindOperator {
			if depth == 0 {
				// An identifier or number where a declarator separator was
				// expected ends the list (e.g. a constructor call).
				return i
			}
			i++
			continue
		}
		switch t.Text {
		case ",":
			if depth == 0 {
				expectName = true
			}
			i++
		case "[":
			depth++
			i++
		case "]":
			depth--
			i++
		case "=":
			// Skip the initializer expression up to the next top-level
			// comma or the end of the statement.
			i++
			exprDepth := 0
			for i < len(rest) {
				e := rest[i]
				if e.Kind == KindOperator {
					switch e.Text {
					case "(", "[", "{":
						exprDepth++
					case ")", "]", "}":
						if exprDepth == 0 {
							return i
						}
						exprDepth--
					case ",":
						if exprDepth == 0 {
							expectName = true
							i++
							goto continueOuter
						}
					case ";":
						if exprDepth == 0 {
							return i
						}
					}
				}
				i++
			}
			return i
		case ";", ")", "(", "{", "}":
			return i
		default:
			return i
		}
	continueOuter:
	}
	return i
}

// defineName extracts the macro name from a #define directive, stripping a
// function-macro parameter list.
func defineName(directive string) (string, bool) {
	rest := strings.TrimLeft(directive, "# \t")
	if !strings.HasPrefix(rest, "define") {
		return "", false
	}
	rest = strings.TrimLeft(rest[len("define"):], " \t")
	end := 0
	for end < len(rest) && isIdentChar(rest[end]) {
		end++
	}
	if end == 0 {
		return "", false
	}
	return rest[:end], true
}
