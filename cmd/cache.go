package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/cinefav/internal/shared"
)

// CacheStatus reports how many catalog movies are cached locally.
func (r *Runner) CacheStatus(ctx context.Context, cmd *cli.Command) error {
	cache := r.catalogCache()
	if cache == nil {
		return fmt.Errorf("%w: local cache is not available", shared.ErrServiceUnavailable)
	}

	n, err := cache.Count()
	if err != nil {
		return err
	}
	r.writePlain("Database: %s\n", r.config.Database.Path)
	return r.writePlain("Cached movies: %d\n", n)
}

// CachePrune removes cached movies older than --days.
func (r *Runner) CachePrune(ctx context.Context, cmd *cli.Command) error {
	days := cmd.Int("days")
	if days < 0 {
		return fmt.Errorf("%w: --days must not be negative", shared.ErrInvalidFlag)
	}

	cache := r.catalogCache()
	if cache == nil {
		return fmt.Errorf("%w: local cache is not available", shared.ErrServiceUnavailable)
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	removed, err := cache.Prune(cutoff)
	if err != nil {
		return err
	}

	r.logger.Info("pruned catalog cache", "removed", removed, "cutoff", cutoff.Format(time.DateOnly))
	return r.writePlain("✓ Removed %s\n", shared.Pluralize(int(removed), "cached movie", "cached movies"))
}

// cacheCommand manages the local catalog cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage locally cached catalog movies",
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Show cache size",
				Action: r.CacheStatus,
			},
			{
				Name:  "prune",
				Usage: "Remove old cache entries",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "days",
						Usage: "Keep movies fetched within this many days",
						Value: 30,
					},
				},
				Action: r.CachePrune,
			},
		},
	}
}
