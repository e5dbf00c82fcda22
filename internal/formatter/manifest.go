package formatter

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// ListExportResult is the outcome of exporting one list.
type ListExportResult struct {
	ListID   string
	ListName string
	Success  bool
	Files    []string
	Error    error
}

// ExportSummary aggregates a multi-list export.
type ExportSummary struct {
	TotalLists        int
	SuccessfulExports int
	FailedExports     int
	Results           []ListExportResult
	OutputDirectory   string
	ManifestPath      string
}

type manifest struct {
	Format            Format          `json:"format"`
	ExportedAt        time.Time       `json:"exported_at"`
	TotalLists        int             `json:"total_lists"`
	SuccessfulExports int             `json:"successful_exports"`
	FailedExports     int             `json:"failed_exports"`
	Lists             []manifestEntry `json:"lists"`
}

type manifestEntry struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Status string   `json:"status"`
	Files  []string `json:"files,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// WriteExportManifest writes a JSON summary of an export to path.
func WriteExportManifest(summary *ExportSummary, format Format, path string) error {
	m := manifest{
		Format:            format,
		ExportedAt:        time.Now().UTC(),
		TotalLists:        summary.TotalLists,
		SuccessfulExports: summary.SuccessfulExports,
		FailedExports:     summary.FailedExports,
		Lists:             make([]manifestEntry, 0, len(summary.Results)),
	}

	for _, r := range summary.Results {
		e := manifestEntry{ID: r.ListID, Name: r.ListName, Status: "success", Files: r.Files}
		if !r.Success {
			e.Status = "failed"
			if r.Error != nil {
				e.Error = r.Error.Error()
			}
		}
		m.Lists = append(m.Lists, e)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
