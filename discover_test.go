package sitefold

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiscoverFilesFiltersAndSorts(t *testing.T) {
	root := writeTree(t, map[string]string{
		"css/site.css":   ".a{}",
		"index.html":     "<p></p>",
		"js/app.js":      "var x;",
		"notes.txt":      "ignored",
		"build/skip.css": ".b{}",
		".gitignore":     "build/\n",
	})

	files, stats, err := discoverFiles(root, DefaultConfig(root).Includes)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		names = append(names, filepath.ToSlash(rel))
	}
	require.Equal(t, []string{"css/site.css", "index.html", "js/app.js"}, names)

	require.Equal(t, 4, stats.FilesDiscovered)
	require.Equal(t, 3, stats.FilesScanned)
	require.Equal(t, 1, stats.FilesSkipped)
}

func TestDiscoverFilesDeduplicates(t *testing.T) {
	root := writeTree(t, map[string]string{"style.css": ".a{}"})

	files, stats, err := discoverFiles(root, []string{"**/*.css", "*.css"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, 1, stats.FilesScanned)
}

func TestKindOf(t *testing.T) {
	require.Equal(t, kindCSS, kindOf("a/b.css"))
	require.Equal(t, kindHTML, kindOf("index.HTML"))
	require.Equal(t, kindHTML, kindOf("x.htm"))
	require.Equal(t, kindJS, kindOf("app.mjs"))
	require.Equal(t, kindOther, kindOf("data.json"))
}
