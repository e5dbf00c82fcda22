// package formatter provides functions to export favorite lists to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/cinefav/internal/models"
	"github.com/desertthunder/cinefav/internal/shared"
)

// Format names an export file format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// ParseFormat validates a user-supplied format name. Empty input means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (json, csv, markdown, txt)", shared.ErrInvalidFlag, s)
	}
}

// ExportToCSV converts a FavoriteList to CSV format with columns: ID, Title, Year, Rating, Release Date, Poster, Overview
func ExportToCSV(list *models.FavoriteList) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Year", "Rating", "Release Date", "Poster", "Overview"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, m := range list.Movies {
		record := []string{
			strconv.Itoa(m.ID),
			m.Title,
			shared.ReleaseYear(m.ReleaseDate),
			shared.FormatRating(m.VoteAverage),
			deref(m.ReleaseDate),
			deref(m.PosterPath),
			deref(m.Overview),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToMarkdown converts a FavoriteList to Markdown format with optional cover image
func ExportToMarkdown(list *models.FavoriteList, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", list.Name)

	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}

	fmt.Fprintf(&buf, "**Movies**: %d\n", len(list.Movies))
	if !list.CreatedAt.IsZero() {
		fmt.Fprintf(&buf, "**Created**: %s\n", list.CreatedAt.Format("2006-01-02"))
	}
	if list.ShareURL != "" {
		fmt.Fprintf(&buf, "**Share**: %s\n", list.ShareURL)
	}
	buf.WriteString("\n## Movies\n\n")

	for i, m := range list.Movies {
		fmt.Fprintf(&buf, "%d. %s (%s) ★ %s\n", i+1, m.Title, shared.ReleaseYear(m.ReleaseDate), shared.FormatRating(m.VoteAverage))
		if m.Overview != nil && *m.Overview != "" {
			fmt.Fprintf(&buf, "   > %s\n", shared.Truncate(*m.Overview, 200))
		}
	}
	return buf.Bytes(), nil
}

// ExportToText converts a FavoriteList to plain text format
func ExportToText(list *models.FavoriteList) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "List: %s\n", list.Name)
	fmt.Fprintf(&buf, "Movies: %d\n\n", len(list.Movies))

	for i, m := range list.Movies {
		fmt.Fprintf(&buf, "%d. %s (%s)\n", i+1, m.Title, shared.ReleaseYear(m.ReleaseDate))
	}
	return buf.Bytes(), nil
}

// ExportToJSON converts a FavoriteList to indented JSON, movies included.
func ExportToJSON(list *models.FavoriteList) ([]byte, error) {
	return json.MarshalIndent(list, "", "  ")
}

// ToMetadataJSON generates a JSON representation of list metadata (without movies)
func ToMetadataJSON(list *models.FavoriteList) ([]byte, error) {
	meta := struct {
		ID         string    `json:"id"`
		Name       string    `json:"name"`
		MovieCount int       `json:"movie_count"`
		CreatedAt  time.Time `json:"created_at"`
		UpdatedAt  time.Time `json:"updated_at"`
		ShareURL   string    `json:"share_url,omitempty"`
	}{list.ID, list.Name, len(list.Movies), list.CreatedAt, list.UpdatedAt, list.ShareURL}
	return json.MarshalIndent(meta, "", "  ")
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL provided", shared.ErrInvalidArgument)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrInvalidArgument, err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to download image: %w", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &shared.APIError{StatusCode: resp.StatusCode, Message: "failed to download image"}
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return imageData, nil
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	MoviesFile   string
	MetadataFile string
}

// WriteCSVExport exports a list to CSV format with accompanying metadata JSON file.
//
// Defaults to list ID as the base filename & creates {base}_movies.csv and {base}_metadata.json
func WriteCSVExport(list *models.FavoriteList, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = list.ID
	}

	csvData, err := ExportToCSV(list)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	moviesFile := baseFilepath + "_movies.csv"
	if err := os.WriteFile(moviesFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(list)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{MoviesFile: moviesFile, MetadataFile: metadataFile}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
	// CoverError is set when a cover URL was given but could not be saved.
	CoverError error
}

// WriteMarkdownExport exports a list to Markdown format in a dedicated directory.
//
// Directory name defaults to the list ID. imageURL is optional; a failed
// download is reported in CoverError and the README is still written.
// Creates {dir}/README.md and optionally {dir}/cover.jpg
func WriteMarkdownExport(ctx context.Context, list *models.FavoriteList, outputDir, imageURL string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = list.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir, Files: []string{}}

	var coverImageFilename string
	if imageURL != "" {
		if imageData, err := DownloadImage(ctx, imageURL); err != nil {
			result.CoverError = err
		} else {
			coverImagePath := filepath.Join(outputDir, "cover.jpg")
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				result.CoverError = fmt.Errorf("failed to save cover image: %w", err)
			} else {
				coverImageFilename = "cover.jpg"
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(list, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)
	return result, nil
}

// WriteTextExport exports a list to plain text format.
//
// Defaults to {list.ID}_movies.txt as the filename.
func WriteTextExport(list *models.FavoriteList, path string) (string, error) {
	if path == "" {
		path = list.ID + "_movies.txt"
	}

	textData, err := ExportToText(list)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}
	return path, nil
}

// WriteJSONExport writes the full list as JSON. Defaults to {list.ID}.json.
func WriteJSONExport(list *models.FavoriteList, path string) (string, error) {
	if path == "" {
		path = list.ID + ".json"
	}

	data, err := ExportToJSON(list)
	if err != nil {
		return "", fmt.Errorf("JSON marshal failed: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("JSON write failed: %w", err)
	}
	return path, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
