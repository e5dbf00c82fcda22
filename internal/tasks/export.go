package tasks

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/cinefav/internal/formatter"
	"github.com/desertthunder/cinefav/internal/models"
	"github.com/desertthunder/cinefav/internal/services"
	"github.com/desertthunder/cinefav/internal/shared"
)

// ExportOptions contains configuration for multi-list exports.
type ExportOptions struct {
	Format     formatter.Format // json, csv, markdown, txt
	OutputDir  string           // Base output directory (default: cinefav_export_{epoch})
	NumWorkers int              // Concurrent writers (default: 4, max 10)
	RateLimit  float64          // Backend requests per second (default: 5)
	// PosterURL resolves a poster path for the Markdown cover. Optional.
	PosterURL func(path *string) string
	Logger    *log.Logger
}

// ExportLists fetches each list by id and writes it to disk using a worker pool.
//
// Fetches are rate limited and sequential; file writes run concurrently.
// Individual failures are recorded in the summary and do not stop the export.
// A manifest.json describing the results is written to the output directory.
func ExportLists(
	ctx context.Context,
	store services.ListStore,
	ids []string,
	opts ExportOptions,
	prog chan<- Update,
) (*formatter.ExportSummary, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: list store not configured", shared.ErrNotInitialized)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no lists to export", shared.ErrMissingArgument)
	}

	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("cinefav_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	logger := shared.WithLogger(opts.Logger, "component", "export")

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	summary := &formatter.ExportSummary{
		TotalLists:      len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]formatter.ListExportResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	total := len(ids)

	jobs := make(chan *models.FavoriteList, total)
	results := make(chan formatter.ListExportResult, total)

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go exportWorker(ctx, &wg, jobs, results, opts, logger)
	}

	go func() {
		defer close(jobs)
		for i, id := range ids {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			list, err := store.Get(ctx, id)
			if err != nil {
				results <- formatter.ListExportResult{
					ListID:   id,
					ListName: fmt.Sprintf("Unknown (%s)", id),
					Error:    fmt.Errorf("failed to fetch list: %w", err),
				}
				continue
			}

			sendUpdate(prog, exportingUpdate(i+1, total, list.Name))
			jobs <- list
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		summary.Results = append(summary.Results, res)

		if res.Success {
			summary.SuccessfulExports++
			sendUpdate(prog, exportCompletedUpdate(completed, total, res.ListName, len(res.Files)))
		} else {
			summary.FailedExports++
			logger.Warn("export failed", "list_id", res.ListID, "error", res.Error)
			sendUpdate(prog, exportFailedUpdate(completed, total, res.ListName, res.Error))
		}
	}

	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("export interrupted: %w", err)
	}

	manifestPath := filepath.Join(opts.OutputDir, "manifest.json")
	if err := formatter.WriteExportManifest(summary, opts.Format, manifestPath); err != nil {
		return summary, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	summary.ManifestPath = manifestPath

	logger.Info("export finished", "ok", summary.SuccessfulExports, "failed", summary.FailedExports, "dir", opts.OutputDir)
	return summary, nil
}

func exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan *models.FavoriteList,
	results chan<- formatter.ListExportResult,
	opts ExportOptions,
	logger *log.Logger,
) {
	defer wg.Done()

	for list := range jobs {
		if ctx.Err() != nil {
			return
		}
		results <- exportList(ctx, list, opts, logger)
	}
}

// exportList writes one list in the configured format.
func exportList(ctx context.Context, list *models.FavoriteList, opts ExportOptions, logger *log.Logger) formatter.ListExportResult {
	result := formatter.ListExportResult{ListID: list.ID, ListName: list.Name, Files: []string{}}
	base := filepath.Join(opts.OutputDir, list.ID)

	switch opts.Format {
	case formatter.FormatCSV:
		res, err := formatter.WriteCSVExport(list, base)
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{res.MoviesFile, res.MetadataFile}

	case formatter.FormatMarkdown:
		res, err := formatter.WriteMarkdownExport(ctx, list, base, coverURL(list, opts.PosterURL))
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		if res.CoverError != nil {
			logger.Warn("cover image skipped", "list_id", list.ID, "error", res.CoverError)
		}
		result.Files = res.Files

	case formatter.FormatText:
		path, err := formatter.WriteTextExport(list, base+"_movies.txt")
		if err != nil {
			result.Error = fmt.Errorf("text export failed: %w", err)
			return result
		}
		result.Files = []string{path}

	default:
		path, err := formatter.WriteJSONExport(list, base+".json")
		if err != nil {
			result.Error = err
			return result
		}
		result.Files = []string{path}
	}

	result.Success = true
	return result
}

// coverURL uses the first movie with a poster.
func coverURL(list *models.FavoriteList, resolve func(*string) string) string {
	if resolve == nil {
		return ""
	}
	for _, m := range list.Movies {
		if m.PosterPath != nil && *m.PosterPath != "" {
			return resolve(m.PosterPath)
		}
	}
	return ""
}
