package sitefold

import (
	"encoding/json"
	"io"
	"time"
)

// JSONOutput represents the structured JSON export schema
type JSONOutput struct {
	Version   string      `json:"version"`
	Timestamp string      `json:"timestamp"`
	Summary   JSONSummary `json:"summary"`
	Renames   JSONRenames `json:"renames"`
	Files     []JSONFile  `json:"files"`
	Warnings  []string    `json:"warnings,omitempty"`
}

// JSONSummary contains high-level pass totals
type JSONSummary struct {
	FilesDiscovered int `json:"files_discovered"`
	FilesScanned    int `json:"files_scanned"`
	FilesSkipped    int `json:"files_skipped"`
	FilesRewritten  int `json:"files_rewritten"`
	BytesSaved      int `json:"bytes_saved"`
}

// JSONRenames contains allocated short-name counts per category
type JSONRenames struct {
	Classes          int `json:"classes"`
	IDs              int `json:"ids"`
	CustomProperties int `json:"custom_properties"`
}

// JSONFile represents one rewritten file
type JSONFile struct {
	Path   string `json:"path"`
	Before int    `json:"before"`
	After  int    `json:"after"`
	Saved  int    `json:"saved"`
}

// WriteJSON writes the optimization result as JSON
func WriteJSON(w io.Writer, result *Result) error {
	output := buildJSONOutput(result)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// buildJSONOutput converts a Result to the export schema
func buildJSONOutput(result *Result) JSONOutput {
	files := make([]JSONFile, len(result.Files))
	for i, f := range result.Files {
		files[i] = JSONFile{
			Path:   f.Path,
			Before: f.Before,
			After:  f.After,
			Saved:  f.Before - f.After,
		}
	}

	return JSONOutput{
		Version:   "1.0",
		Timestamp: time.Now().Format(time.RFC3339),
		Summary: JSONSummary{
			FilesDiscovered: result.Stats.FilesDiscovered,
			FilesScanned:    result.Stats.FilesScanned,
			FilesSkipped:    result.Stats.FilesSkipped,
			FilesRewritten:  len(result.Files),
			BytesSaved:      result.BytesSaved,
		},
		Renames: JSONRenames{
			Classes:          result.Renames["class"],
			IDs:              result.Renames["id"],
			CustomProperties: result.Renames["customProperty"],
		},
		Files:    files,
		Warnings: result.Warnings,
	}
}
