package sitefold

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Terminal styles for consistent output formatting.
// Lipgloss automatically degrades colors based on terminal capabilities.
var (
	// StyleCyan is used for section headers and file paths.
	StyleCyan = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	// StyleYellow is used for warnings.
	StyleYellow = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	// StyleGreen is used for savings and success messages.
	StyleGreen = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	// StyleGray is used for per-category detail lines.
	StyleGray = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderStyle applies a lipgloss style to text when colors are enabled.
// When useColors is false, the text is returned unmodified.
func RenderStyle(style lipgloss.Style, text string, useColors bool) string {
	if !useColors {
		return text
	}
	return style.Render(text)
}

// OutputFormat selects how an optimization result is written.
type OutputFormat int

const (
	// OutputSummary prints totals only.
	OutputSummary OutputFormat = iota
	// OutputFull prints totals plus a per-file breakdown.
	OutputFull
	// OutputJSON prints the machine-readable export schema.
	OutputJSON
)

// DetermineOutputFormat selects the output format from flags.
func DetermineOutputFormat(formatFlag string, quiet bool) OutputFormat {
	if quiet {
		return OutputSummary // suppressed by the caller anyway
	}
	switch formatFlag {
	case "summary":
		return OutputSummary
	case "full", "files":
		return OutputFull
	case "json":
		return OutputJSON
	}
	return OutputSummary
}

// ShouldUseColors determines if colors should be enabled.
func ShouldUseColors(force bool) bool {
	// Explicit flag wins
	if force {
		return true
	}

	// Check for FORCE_COLOR environment variable (GitHub Actions, etc.)
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	// GitHub Actions supports colors
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}

	// Auto-detect TTY
	if fileInfo, _ := os.Stdout.Stat(); fileInfo != nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
		return true
	}

	return false
}

// Reporter formats optimization results for terminals.
type Reporter struct {
	w         io.Writer
	useColors bool
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer, useColors bool) *Reporter {
	return &Reporter{w: w, useColors: useColors}
}

// PrintSummary writes the one-screen result overview.
func (r *Reporter) PrintSummary(result *Result) {
	if result.BytesSaved == 0 {
		fmt.Fprintf(r.w, "%s nothing to shrink (%d files scanned)\n",
			RenderStyle(StyleGreen, "✓", r.useColors), result.Stats.FilesScanned)
		return
	}

	fmt.Fprintf(r.w, "%s saved %s across %d of %d files\n",
		RenderStyle(StyleGreen, "✓", r.useColors),
		RenderStyle(StyleGreen, formatBytes(result.BytesSaved), r.useColors),
		len(result.Files), result.Stats.FilesScanned)

	for _, cat := range []string{"class", "id", "customProperty"} {
		if n := result.Renames[cat]; n > 0 {
			fmt.Fprintf(r.w, "%s\n",
				RenderStyle(StyleGray, fmt.Sprintf("  %-15s %d renamed", cat, n), r.useColors))
		}
	}
}

// PrintFiles writes the per-file savings breakdown.
func (r *Reporter) PrintFiles(result *Result) {
	for _, f := range result.Files {
		saved := f.Before - f.After
		fmt.Fprintf(r.w, "%s %d → %d (%s)\n",
			RenderStyle(StyleCyan, GetRelativePath(f.Path)+":", r.useColors),
			f.Before, f.After,
			RenderStyle(StyleGreen, "-"+formatBytes(saved), r.useColors))
	}
}

// PrintWarnings writes per-file problems, if any.
func (r *Reporter) PrintWarnings(result *Result) {
	if len(result.Warnings) == 0 {
		return
	}
	fmt.Fprintf(r.w, "%s\n", RenderStyle(StyleYellow, "⚠ Warnings:", r.useColors))
	for _, w := range result.Warnings {
		fmt.Fprintf(r.w, "  - %s\n", w)
	}
}

// WriteOutput writes the result in the selected format.
func WriteOutput(w io.Writer, result *Result, format OutputFormat, useColors bool) {
	switch format {
	case OutputSummary:
		reporter := NewReporter(w, useColors)
		reporter.PrintSummary(result)
		reporter.PrintWarnings(result)

	case OutputFull:
		reporter := NewReporter(w, useColors)
		reporter.PrintFiles(result)
		reporter.PrintSummary(result)
		reporter.PrintWarnings(result)

	case OutputJSON:
		if err := WriteJSON(w, result); err != nil {
			// Log error but don't crash
			os.Stderr.WriteString("Error writing JSON: " + err.Error() + "\n")
		}
	}
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
