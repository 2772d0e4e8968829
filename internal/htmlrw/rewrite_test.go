package htmlrw

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sitefold/sitefold/internal/ident"
)

func testOptions() Options {
	return Options{
		Classes: ident.RenameMap{"longClassName1": "a", "card": "b"},
		IDs:     ident.RenameMap{"main-content": "a", "grad1": "g"},
		Vars:    ident.RenameMap{"theme-color": "c"},
	}
}

func TestRewriteClassAttributes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"double quoted", `<div class="longClassName1"></div>`, `<div class="a"></div>`},
		{"single quoted", `<div class='longClassName1'></div>`, `<div class='a'></div>`},
		{"unquoted", `<div class=longClassName1></div>`, `<div class=a></div>`},
		{"multi token", `<div class="longClassName1 card plain"></div>`, `<div class="a b plain"></div>`},
		{"invalid token passes through", `<div class="{{cls}} longClassName1"></div>`, `<div class="{{cls}} a"></div>`},
		{"invalid token alone", `<div class="{{cls}}"></div>`, `<div class="{{cls}}"></div>`},
		{"other attrs untouched", `<div title="longClassName1" class="card"></div>`, `<div title="longClassName1" class="b"></div>`},
		{"text untouched", `<p>longClassName1</p>`, `<p>longClassName1</p>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, string(Rewrite([]byte(tt.in), testOptions())))
		})
	}
}

func TestRewriteIDAttributes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"id", `<div id="main-content"></div>`, `<div id="a"></div>`},
		{"label for", `<label for="main-content"></label>`, `<label for="a"></label>`},
		{"headers list", `<td headers="main-content other"></td>`, `<td headers="a other"></td>`},
		{"aria idref", `<div aria-labelledby="main-content"></div>`, `<div aria-labelledby="a"></div>`},
		{"aria prose untouched", `<div aria-label="main-content area"></div>`, `<div aria-label="main-content area"></div>`},
		{"fragment href", `<a href="#main-content">x</a>`, `<a href="#a">x</a>`},
		{"external href untouched", `<a href="page.html#main-content">x</a>`, `<a href="page.html#main-content">x</a>`},
		{"unknown fragment untouched", `<a href="#other">x</a>`, `<a href="#other">x</a>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, string(Rewrite([]byte(tt.in), testOptions())))
		})
	}
}

func TestRewriteStyleAttribute(t *testing.T) {
	opts := testOptions()
	opts.Calc = true
	in := `<div style="color:var(--theme-color);width:calc(1px + 2px)"></div>`
	want := `<div style="color:var(--c);width:3px"></div>`
	require.Equal(t, want, string(Rewrite([]byte(in), opts)))
}

func TestRewriteStyleElement(t *testing.T) {
	opts := testOptions()
	opts.Colors = true
	in := `<style>.longClassName1{color:oklch(1 0 0)}</style><div class="longClassName1"></div>`
	want := `<style>.a{color:#fff}</style><div class="a"></div>`
	require.Equal(t, want, string(Rewrite([]byte(in), opts)))
}

func TestRewriteScriptElement(t *testing.T) {
	in := `<script>el.classList.add("longClassName1");</script>`
	want := `<script>el.classList.add("a");</script>`
	require.Equal(t, want, string(Rewrite([]byte(in), testOptions())))
}

func TestRewriteNonJSScriptUntouched(t *testing.T) {
	in := `<script type="application/json">{"k": "longClassName1"}</script>`
	require.Equal(t, in, string(Rewrite([]byte(in), testOptions())))
}

func TestRewriteSVGSubtree(t *testing.T) {
	in := `<svg viewBox="0 0 10 10"><use xlink:href="#main-content"/>` +
		`<path class="longClassName1" fill="url(#grad1)" d="M0 0"/></svg>`
	want := `<svg viewBox="0 0 10 10"><use xlink:href="#a"/>` +
		`<path class="a" fill="url(#g)" d="M0 0"/></svg>`
	require.Equal(t, want, string(Rewrite([]byte(in), testOptions())))
}

func TestHarvestDeclarationsFromEmbeddedCSS(t *testing.T) {
	h := ident.NewHarvest()
	src := `<style>.btn{--gap:1px}</style><div style="margin:var(--pad)"></div>`
	HarvestDeclarations([]byte(src), h)

	require.True(t, h.IsDeclared(ident.Class, "btn"))
	require.True(t, h.IsDeclared(ident.CustomProperty, "gap"))
}

func TestHarvestReferencesGating(t *testing.T) {
	decls := ident.NewHarvest()
	decls.NoteDeclared(ident.Class, "btn", "")
	decls.NoteDeclared(ident.ID, "app", "")

	h := ident.NewHarvest()
	src := `<div class="btn primary" id="app"></div>` +
		`<a href="#app">x</a><div class="{{x}} btn"></div>`
	HarvestReferences([]byte(src), decls, h)

	// One plain list plus one list with a mustached neighbor; the invalid
	// token never vetoes the declared name next to it.
	require.Equal(t, 2, h.Count(ident.Class, "btn"))
	require.Equal(t, 1, h.Count(ident.Class, "primary"))
	// id attribute plus fragment link.
	require.Equal(t, 2, h.Count(ident.ID, "app"))
}

func TestHarvestReferencesReservesUnknownLists(t *testing.T) {
	decls := ident.NewHarvest()
	decls.NoteDeclared(ident.Class, "btn", "")

	h := ident.NewHarvest()
	HarvestReferences([]byte(`<div class="{{x}} standalone"></div>`), decls, h)

	// No declared name in the list: the valid token is reserved, not
	// counted, so a generated short name can never collide with it.
	require.Zero(t, h.Count(ident.Class, "standalone"))
	require.True(t, h.IsReserved("standalone"))
}

func TestHarvestReferencesFromScripts(t *testing.T) {
	decls := ident.NewHarvest()
	decls.NoteDeclared(ident.Class, "btn", "")

	h := ident.NewHarvest()
	HarvestReferences([]byte(`<script>el.classList.add("btn");</script>`), decls, h)
	require.Equal(t, 1, h.Count(ident.Class, "btn"))
}

func TestForeignWalkLossless(t *testing.T) {
	sources := []string{
		`<svg><g fill="none"><!-- note --><path d="M0 0"/></g></svg>`,
		`<svg><text>plain</text></svg>`,
		`<math><mi>x</mi></math>`,
	}
	for _, src := range sources {
		out := foreignWalk([]byte(src), func(name, val string) string { return val })
		require.Equal(t, src, string(out), "source %q", src)
	}
}
