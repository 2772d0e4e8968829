package jsrw

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sitefold/sitefold/internal/ident"
)

func classNames(m map[string]string) Names {
	return Names{Classes: ident.RenameMap(m)}
}

func TestRewriteStringLiterals(t *testing.T) {
	names := classNames(map[string]string{"longClassName1": "a"})
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"double quoted", `el.classList.add("longClassName1");`, `el.classList.add("a");`},
		{"single quoted", `el.classList.add('longClassName1');`, `el.classList.add('a');`},
		{"multi token", `cls = "longClassName1 btn";`, `cls = "a btn";`},
		{"unknown token kept", `cls = "btn";`, `cls = "btn";`},
		{"prose abstains", `alert("longClassName1 is great!");`, `alert("longClassName1 is great!");`},
		{"escape abstains", `cls = "longClassName1\n";`, `cls = "longClassName1\n";`},
		{"comment untouched", `// "longClassName1"`, `// "longClassName1"`},
		{"block comment untouched", `/* "longClassName1" */x()`, `/* "longClassName1" */x()`},
		{"code identifiers untouched", `var longClassName1 = 1;`, `var longClassName1 = 1;`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Rewrite([]byte(tt.in), Options{Names: names})
			require.Equal(t, tt.want, string(out))
		})
	}
}

func TestRewriteSelectorPrefixes(t *testing.T) {
	names := Names{
		Classes: ident.RenameMap{"card": "a"},
		IDs:     ident.RenameMap{"main-content": "b"},
		Vars:    ident.RenameMap{"theme-color": "c"},
	}
	in := `document.querySelector(".card #main-content"); s.setProperty("--theme-color", v);`
	want := `document.querySelector(".a #b"); s.setProperty("--c", v);`
	require.Equal(t, want, string(Rewrite([]byte(in), Options{Names: names})))
}

func TestRewriteTemplateLiterals(t *testing.T) {
	names := classNames(map[string]string{"longClassName1": "a"})
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"hole free", "el.className = `longClassName1 btn`;", "el.className = `a btn`;"},
		{"around holes", "el.className = `${base} longClassName1`;", "el.className = `${base} a`;"},
		{"string inside hole", "h = `x ${f(\"longClassName1\")} y`;", "h = `x ${f(\"a\")} y`;"},
		{"nested template", "h = `a ${`longClassName1`} b`;", "h = `a ${`a`} b`;"},
		{"escape abstains", "h = `longClassName1\\t`;", "h = `longClassName1\\t`;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Rewrite([]byte(tt.in), Options{Names: names})
			require.Equal(t, tt.want, string(out))
		})
	}
}

func TestRewriteRegexLiterals(t *testing.T) {
	names := classNames(map[string]string{"btn": "a"})
	tests := []string{
		`var re = /"btn"/;`,
		`if (/btn/.test(s)) {}`,
		`return /btn [x]/.exec(v);`,
	}
	for _, in := range tests {
		out := Rewrite([]byte(in), Options{Names: names})
		require.Equal(t, in, string(out), "input %q", in)
	}
}

func TestRewriteDivisionIsNotRegex(t *testing.T) {
	names := classNames(map[string]string{"btn": "a"})
	// Both '/' are division; the string between them must be rewritten.
	in := `x = n / 2; cls = "btn"; y = m / 3;`
	want := `x = n / 2; cls = "a"; y = m / 3;`
	require.Equal(t, want, string(Rewrite([]byte(in), Options{Names: names})))
}

func TestRewriteShaderTemplate(t *testing.T) {
	in := "const frag = `\n" +
		"precision mediump float;\n" +
		"uniform float time;\n" +
		"void main() {\n" +
		"  float pulseIntensity = 0.50 + 0.50 * sin(time);\n" +
		"  gl_FragColor = vec4(pulseIntensity);\n" +
		"}\n" +
		"`;"
	out := string(Rewrite([]byte(in), Options{Shaders: true}))

	require.Less(t, len(out), len(in))
	require.NotContains(t, out, "pulseIntensity")
	require.Contains(t, out, "gl_FragColor")
	require.Contains(t, out, "time")
	require.Contains(t, out, ".5")
	require.True(t, strings.HasPrefix(out, "const frag = `"))
	require.True(t, strings.HasSuffix(out, "`;"))
}

func TestRewriteProseTemplateUntouched(t *testing.T) {
	// Qualifier keywords as English words must not trip the shader
	// heuristic; minification would visibly change the string value.
	in := "const msg = `\n  The precision of this tool\n  ensures a uniform result\n`;"
	out := Rewrite([]byte(in), Options{Shaders: true})
	require.Equal(t, in, string(out))
}

func TestRewriteShadersDisabled(t *testing.T) {
	in := "const frag = `void main() { gl_FragColor = vec4(1.0); }`;"
	out := Rewrite([]byte(in), Options{})
	require.Equal(t, in, string(out))
}

func TestScanLossless(t *testing.T) {
	sources := []string{
		"var a = `x ${b + `y ${c}`} z`; // tail",
		`s = "a\"b" + 'c\'d';`,
		"r = /a\\/b/g; q = x / y;",
		"/* open ended",
		"`unterminated ${hole",
	}
	for _, src := range sources {
		var b strings.Builder
		scan(src, func(ch chunk) { b.WriteString(ch.text) })
		require.Equal(t, src, b.String(), "source %q", src)
	}
}

func TestHarvestRequiresKnownToken(t *testing.T) {
	h := ident.NewHarvest()
	h.NoteDeclared(ident.Class, "btn", "")

	Harvest([]byte(`el.classList.add("btn primary"); alert("just some words");`), h, h)

	// "btn" is declared, so its list counts and both tokens tally.
	require.Equal(t, 2, h.Count(ident.Class, "btn"))
	require.Equal(t, 1, h.Count(ident.Class, "primary"))
	// The prose string has no declared token: nothing tallies, but its
	// words are reserved.
	require.Zero(t, h.Count(ident.Class, "just"))
	require.True(t, h.IsReserved("just"))
	require.True(t, h.IsReserved("words"))
}

func TestHarvestPrefixedTokens(t *testing.T) {
	h := ident.NewHarvest()
	h.NoteDeclared(ident.ID, "main-content", "")
	h.NoteDeclared(ident.CustomProperty, "gap", "")

	Harvest([]byte(`q("#main-content"); s.getPropertyValue("--gap");`), h, h)

	require.Equal(t, 2, h.Count(ident.ID, "main-content"))
	require.Equal(t, 2, h.Count(ident.CustomProperty, "gap"))
}

func TestHarvestSkipsShaderTemplates(t *testing.T) {
	// "uniform highp float" is a valid token list, but the template looks
	// like GLSL, so its words never tally as class references.
	h := ident.NewHarvest()
	h.NoteDeclared(ident.Class, "uniform", "")
	Harvest([]byte("const v = `uniform highp float`;"), h, h)
	require.Equal(t, 1, h.Count(ident.Class, "uniform"))
}
