// Package sitefold shrinks finished static web builds in place.
//
// sitefold post-processes an output tree of HTML, CSS and JS files: it
// harvests renameable identifiers (CSS custom properties, class and id
// selectors, GLSL locals in shader template literals) across the whole
// tree, allocates collision-free shorter names ranked by usage, rewrites
// every syntactically safe occurrence, and statically folds calc() and
// oklch() expressions to shorter literals.
//
// # Optimizing
//
// Run one pass over a build directory:
//
//	config := sitefold.DefaultConfig("dist")
//	result, err := sitefold.Optimize(config)
//
// Files are rewritten only when the result is strictly smaller; anything
// the engine cannot prove safe is left byte-for-byte untouched.
//
// # CLI Tool
//
// sitefold also provides a CLI tool. Install with:
//
//	go install github.com/sitefold/sitefold/cmd/sitefold@latest
package sitefold
