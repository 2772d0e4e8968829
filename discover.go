package sitefold

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// ScanStats tracks file discovery statistics for one pass.
type ScanStats struct {
	FilesDiscovered int // Total files found by glob patterns
	FilesScanned    int // Files actually processed (after filtering)
	FilesSkipped    int // Files skipped by the ignore layer
}

type fileKind int

const (
	kindOther fileKind = iota
	kindCSS
	kindHTML
	kindJS
)

func kindOf(path string) fileKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".css":
		return kindCSS
	case ".html", ".htm":
		return kindHTML
	case ".js", ".mjs":
		return kindJS
	}
	return kindOther
}

// loadGitIgnore loads root/.gitignore if present. The ignore set is an
// explicit value handed through discovery, never package state, so
// concurrent passes over different roots cannot interfere.
func loadGitIgnore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		// No .gitignore is fine.
		return nil
	}
	return gi
}

// shouldSkipFile determines if a discovered file should be excluded.
//
// Two-layer filtering:
// 1. Kind check (fast): only css/html/js files participate
// 2. Gitignore check: skip ignored files, matched relative to the root
func shouldSkipFile(root, path string, gi *ignore.GitIgnore) bool {
	if kindOf(path) == kindOther {
		return true
	}
	if gi != nil {
		if rel, err := filepath.Rel(root, path); err == nil && gi.MatchesPath(rel) {
			return true
		}
	}
	return false
}

// discoverFiles expands the include patterns under root into a sorted,
// deduplicated file list, tracking statistics for reporting.
func discoverFiles(root string, includes []string) ([]string, ScanStats, error) {
	var files []string
	seen := make(map[string]bool)
	stats := ScanStats{}
	gi := loadGitIgnore(root)

	for _, pattern := range includes {
		matches, err := doublestar.FilepathGlob(filepath.Join(root, pattern))
		if err != nil {
			return nil, stats, err
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true

			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			stats.FilesDiscovered++

			if shouldSkipFile(root, match, gi) {
				stats.FilesSkipped++
				continue
			}
			files = append(files, match)
			stats.FilesScanned++
		}
	}

	// Deterministic processing order regardless of glob expansion order.
	sort.Strings(files)
	return files, stats, nil
}

// GetRelativePath returns a path relative to the current working directory
// for display, falling back to the absolute path.
func GetRelativePath(absPath string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return absPath
	}
	rel, err := filepath.Rel(cwd, absPath)
	if err != nil {
		return absPath
	}
	return rel
}
