package cssrw

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sitefold/sitefold/internal/ident"
)

func TestRewriteClassSelectors(t *testing.T) {
	names := Names{Classes: ident.RenameMap{"longClassName1": "a"}}
	in := []byte(".longClassName1{color:red}.other{color:blue}")
	out := Rewrite(in, names)
	require.Equal(t, ".a{color:red}.other{color:blue}", string(out))
}

func TestRewriteCompoundAndNestedSelectors(t *testing.T) {
	names := Names{Classes: ident.RenameMap{"card": "a", "card-header": "b"}}
	in := []byte(".card.card-header:hover>.card{x:y}")
	out := Rewrite(in, names)
	require.Equal(t, ".a.b:hover>.a{x:y}", string(out))
}

func TestRewriteIDSelectors(t *testing.T) {
	names := Names{IDs: ident.RenameMap{"main-content": "a"}}
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"id selector", "#main-content{x:y}", "#a{x:y}"},
		{"hex color untouched", ".x{color:#abc}", ".x{color:#abc}"},
		{"eight digit color untouched", ".x{color:#aabbccdd}", ".x{color:#aabbccdd}"},
		{"non-hex id renamed", "#main-content,#deadbeer{x:y}", "#a,#deadbeer{x:y}"},
		{"url fragment", ".x{fill:url(#main-content)}", ".x{fill:url(#a)}"},
		{"unknown fragment untouched", ".x{fill:url(#other)}", ".x{fill:url(#other)}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, string(Rewrite([]byte(tt.in), names)))
		})
	}
}

func TestRewriteCustomProperties(t *testing.T) {
	names := Names{Vars: ident.RenameMap{"theme-color": "a"}}
	in := []byte(":root{--theme-color:#fff}.x{color:var(--theme-color)}")
	out := Rewrite(in, names)
	require.Equal(t, ":root{--a:#fff}.x{color:var(--a)}", string(out))
}

func TestRewriteDigitCustomPropertyName(t *testing.T) {
	// A digit is a legal first character after "--", so a generated "0"
	// serializes bare instead of as a hex escape.
	names := Names{Vars: ident.RenameMap{"theme-color": "0"}}
	in := []byte(":root{--theme-color:#fff}.x{color:var(--theme-color)}")
	out := Rewrite(in, names)
	require.Equal(t, ":root{--0:#fff}.x{color:var(--0)}", string(out))
}

func TestRewriteEscapedIdentifiers(t *testing.T) {
	// Both spellings of "foo:bar" decode to one canonical name and share
	// one short name.
	names := Names{Classes: ident.RenameMap{"foo:bar": "a"}}
	in := []byte(`.foo\:bar{x:y}.foo\3a bar{z:w}`)
	out := Rewrite(in, names)
	require.Equal(t, ".a{x:y}.a{z:w}", string(out))
}

func TestRewriteLeavesStringsAndComments(t *testing.T) {
	names := Names{Classes: ident.RenameMap{"btn": "a"}}
	in := []byte(`/* .btn stays */ .btn{content:".btn"}`)
	out := Rewrite(in, names)
	require.Equal(t, `/* .btn stays */ .a{content:".btn"}`, string(out))
}

func TestHarvestDeclarations(t *testing.T) {
	h := ident.NewHarvest()
	Harvest([]byte(":root{--gap:4px}.btn{margin:var(--gap)}#app{x:y}.btn:hover{z:w}"), h)

	require.Equal(t, 2, h.Count(ident.CustomProperty, "gap"))
	require.Equal(t, 2, h.Count(ident.Class, "btn"))
	require.Equal(t, 1, h.Count(ident.ID, "app"))
	require.True(t, h.IsReserved("btn"))
	require.True(t, h.IsReserved("hover"))
}

func TestHarvestSkipsHexColors(t *testing.T) {
	h := ident.NewHarvest()
	Harvest([]byte(".x{color:#abc;background:#aabbcc}#abcdefgh{x:y}"), h)
	require.Zero(t, h.Count(ident.ID, "abc"))
	require.Zero(t, h.Count(ident.ID, "aabbcc"))
	require.Equal(t, 1, h.Count(ident.ID, "abcdefgh"))
}
