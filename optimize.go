package sitefold

import (
	"fmt"
	"os"
	"sort"

	"github.com/sitefold/sitefold/internal/cssrw"
	"github.com/sitefold/sitefold/internal/htmlrw"
	"github.com/sitefold/sitefold/internal/ident"
	"github.com/sitefold/sitefold/internal/jsrw"
)

// Config holds optimization configuration for one pass.
type Config struct {
	Root     string   // Build output directory to optimize in place
	Includes []string // Glob patterns relative to Root

	// Rename categories. All default to enabled via DefaultConfig.
	RenameClasses bool
	RenameIDs     bool
	RenameVars    bool
	MangleShaders bool

	// Static CSS folds.
	FoldCalc   bool
	FoldColors bool

	DryRun      bool // Compute savings without writing any file
	Parallelism int  // Max concurrent file workers; 0 = GOMAXPROCS
	Verbose     bool
}

// DefaultConfig returns a Config with every transform enabled.
func DefaultConfig(root string) Config {
	return Config{
		Root:          root,
		Includes:      []string{"**/*.css", "**/*.html", "**/*.htm", "**/*.js", "**/*.mjs"},
		RenameClasses: true,
		RenameIDs:     true,
		RenameVars:    true,
		MangleShaders: true,
		FoldCalc:      true,
		FoldColors:    true,
	}
}

// FileSaving records one rewritten file.
type FileSaving struct {
	Path   string
	Before int
	After  int
}

// Result contains the outcome of one optimization pass.
type Result struct {
	BytesSaved   int
	PerFileSaved map[string]int
	Files        []FileSaving // Rewritten files, sorted by path
	Stats        ScanStats
	Renames      map[string]int // Allocated short names per category
	Warnings     []string       // Per-file I/O problems; never fatal to the pass
}

// Optimize runs one pass over the tree at config.Root. Files are rewritten
// in place only when the transformed bytes are strictly smaller; everything
// else is left untouched, including timestamps. Only I/O trouble surfaces
// as warnings; content the transforms cannot prove safe simply passes
// through unchanged.
func Optimize(config Config) (*Result, error) {
	if config.Root == "" {
		config.Root = "."
	}
	if len(config.Includes) == 0 {
		config.Includes = DefaultConfig(config.Root).Includes
	}

	paths, stats, err := discoverFiles(config.Root, config.Includes)
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}
	files, warnings := loadCorpus(paths, config.Parallelism)

	// Declarations first: the reference phase needs the complete declared
	// set to tell identifier token lists apart from prose.
	decls := harvestFiles(files, config.Parallelism, func(f *corpusFile, h *ident.Harvest) {
		switch f.kind {
		case kindCSS:
			cssrw.Harvest(f.data, h)
		case kindHTML:
			htmlrw.HarvestDeclarations(f.data, h)
		}
	})
	refs := harvestFiles(files, config.Parallelism, func(f *corpusFile, h *ident.Harvest) {
		switch f.kind {
		case kindHTML:
			htmlrw.HarvestReferences(f.data, decls, h)
		case kindJS:
			jsrw.Harvest(f.data, decls, h)
		}
	})

	// Allocation barrier: rename maps are computed once from the complete
	// corpus-wide harvest and frozen before any rewriting starts, so the
	// same canonical name gets one short name everywhere.
	harvest := decls
	harvest.Merge(refs)

	var classes, ids, vars ident.RenameMap
	if config.RenameClasses {
		classes = harvest.Allocate(ident.Class)
	}
	if config.RenameIDs {
		ids = harvest.Allocate(ident.ID)
	}
	if config.RenameVars {
		vars = harvest.Allocate(ident.CustomProperty)
	}

	rewritten := make([][]byte, len(files))
	fanOut(len(files), config.Parallelism, func(i int) {
		rewritten[i] = rewriteFile(files[i], classes, ids, vars, config)
	})

	result := &Result{
		PerFileSaved: make(map[string]int),
		Stats:        stats,
		Renames: map[string]int{
			ident.Class.String():          len(classes),
			ident.ID.String():             len(ids),
			ident.CustomProperty.String(): len(vars),
		},
		Warnings: warnings,
	}

	writeErrs := make([]error, len(files))
	fanOut(len(files), config.Parallelism, func(i int) {
		if rewritten[i] == nil || config.DryRun {
			return
		}
		writeErrs[i] = os.WriteFile(files[i].path, rewritten[i], files[i].mode)
	})

	for i, f := range files {
		if rewritten[i] == nil {
			continue
		}
		if writeErrs[i] != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", f.path, writeErrs[i]))
			continue
		}
		saved := len(f.data) - len(rewritten[i])
		result.BytesSaved += saved
		result.PerFileSaved[f.path] = saved
		result.Files = append(result.Files, FileSaving{
			Path:   f.path,
			Before: len(f.data),
			After:  len(rewritten[i]),
		})
	}
	sort.Slice(result.Files, func(i, j int) bool { return result.Files[i].Path < result.Files[j].Path })
	return result, nil
}

// harvestFiles fans out per-file harvesting and merges the results. Merge
// is commutative, so the combined harvest does not depend on completion
// order.
func harvestFiles(files []*corpusFile, parallelism int, visit func(*corpusFile, *ident.Harvest)) *ident.Harvest {
	parts := make([]*ident.Harvest, len(files))
	fanOut(len(files), parallelism, func(i int) {
		h := ident.NewHarvest()
		visit(files[i], h)
		parts[i] = h
	})
	total := ident.NewHarvest()
	for _, p := range parts {
		total.Merge(p)
	}
	return total
}

// gate keeps the smaller of the two candidates. Every transform step
// composes through it, so no step can ever grow a file.
func gate(best, candidate []byte) []byte {
	if len(candidate) < len(best) {
		return candidate
	}
	return best
}

// rewriteFile applies every enabled transform for the file's kind and
// returns the final bytes, or nil when the file should stay untouched.
func rewriteFile(f *corpusFile, classes, ids, vars ident.RenameMap, config Config) []byte {
	best := f.data
	switch f.kind {
	case kindCSS:
		names := cssrw.Names{Vars: vars, Classes: classes, IDs: ids}
		best = gate(best, cssrw.Rewrite(best, names))
		if config.FoldCalc {
			best = gate(best, cssrw.FoldCalc(best))
		}
		if config.FoldColors {
			best = gate(best, cssrw.FoldColors(best))
		}

	case kindHTML:
		best = gate(best, htmlrw.Rewrite(best, htmlrw.Options{
			Vars:    vars,
			Classes: classes,
			IDs:     ids,
			Calc:    config.FoldCalc,
			Colors:  config.FoldColors,
			Shaders: config.MangleShaders,
		}))

	case kindJS:
		best = gate(best, jsrw.Rewrite(best, jsrw.Options{
			Names:   jsrw.Names{Vars: vars, Classes: classes, IDs: ids},
			Shaders: config.MangleShaders,
		}))
	}

	if len(best) < len(f.data) {
		return best
	}
	return nil
}
