package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/cinefav/internal/models"
	"github.com/desertthunder/cinefav/internal/shared"
	"github.com/desertthunder/cinefav/internal/tasks"
)

// FavoritesShow prints the current favorites from the local mirror.
func (r *Runner) FavoritesShow(ctx context.Context, cmd *cli.Command) error {
	c, err := r.restored()
	if err != nil {
		return err
	}
	snap := c.Snapshot()

	if cmd.Bool("json") {
		return r.writeJSON(snap.ActiveMovies, true)
	}

	title := "Favorites (unsaved)"
	if snap.ActiveListID != "" {
		title = "Favorites · list " + snap.ActiveListID
	}
	r.writePlainHeader(title)

	if len(snap.ActiveMovies) == 0 {
		return r.writePlain("No favorites yet. Use 'cinefav search' to find movies.\n")
	}
	r.writeMovies(snap.ActiveMovies, nil)
	return r.writePlainln("%s", shared.Pluralize(len(snap.ActiveMovies), "movie", "movies"))
}

// FavoritesToggle adds or removes a movie by its catalog id.
func (r *Runner) FavoritesToggle(ctx context.Context, cmd *cli.Command) error {
	arg, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	id, err := parseMovieID(arg)
	if err != nil {
		return err
	}

	c, err := r.restored()
	if err != nil {
		return err
	}

	movie, err := r.resolveMovie(ctx, c.Snapshot(), id)
	if err != nil {
		return err
	}

	added, err := c.ToggleFavorite(*movie)
	if err != nil {
		return err
	}

	if added {
		return r.writePlain("★ Added '%s' to favorites\n", movie.Title)
	}
	return r.writePlain("✓ Removed '%s' from favorites\n", movie.Title)
}

// resolveMovie finds the movie for id in the current favorites, the local
// catalog cache, then the catalog itself.
func (r *Runner) resolveMovie(ctx context.Context, snap tasks.State, id int) (*models.Movie, error) {
	if i := models.IndexOfMovie(snap.ActiveMovies, id); i >= 0 {
		m := snap.ActiveMovies[i]
		return &m, nil
	}

	if cache := r.catalogCache(); cache != nil {
		m, err := cache.GetMovie(id)
		if err == nil {
			r.logger.Debug("movie resolved from cache", "id", id)
			return m, nil
		}
		if !errors.Is(err, shared.ErrMovieNotFound) {
			r.logger.Warn("catalog cache lookup failed", "id", id, "error", err)
		}
	}

	catalog, err := r.catalogClient()
	if err != nil {
		return nil, fmt.Errorf("%w: movie %d is not cached; search for it first (%v)", shared.ErrMovieNotFound, id, err)
	}

	details, err := catalog.MovieDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movie %d: %w", id, err)
	}

	movie := details.Movie
	r.cacheMovies([]models.Movie{movie})
	return &movie, nil
}

// FavoritesSave saves the current favorites as a new list on the backend.
func (r *Runner) FavoritesSave(ctx context.Context, cmd *cli.Command) error {
	c, err := r.restored()
	if err != nil {
		return err
	}

	list, err := c.SaveActiveList(ctx, cmd.String("name"))
	if err != nil {
		return err
	}

	r.writePlain("✓ Saved '%s' (%s)\n", list.Name, shared.Pluralize(len(list.Movies), "movie", "movies"))
	r.writePlain("ID: %s\n", list.ID)
	if list.Message != "" {
		r.writePlain("%s\n", list.Message)
	}

	link, err := r.shareLink(list)
	if err != nil {
		r.logger.Warn("could not build share link", "id", list.ID, "error", err)
		return nil
	}
	return r.writePlain("Share: %s\n", link)
}

// FavoritesClear removes every favorite and deselects the active list.
func (r *Runner) FavoritesClear(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: pass --yes to remove all favorites", shared.ErrMissingArgument)
	}

	c, err := r.restored()
	if err != nil {
		return err
	}

	removed := len(c.Snapshot().ActiveMovies)
	if err := c.ClearAllFavorites(); err != nil {
		return err
	}
	return r.writePlain("✓ Removed %s\n", shared.Pluralize(removed, "favorite", "favorites"))
}

// favoritesCommand manages the local favorites.
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage favorite movies",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show current favorites",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.FavoritesShow,
			},
			{
				Name:      "toggle",
				Usage:     "Add or remove a movie by its TMDB id",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.FavoritesToggle,
			},
			{
				Name:  "save",
				Usage: "Save favorites as a new list",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "List name (max 50 characters)",
					},
				},
				Action: r.FavoritesSave,
			},
			{
				Name:  "clear",
				Usage: "Remove all favorites",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Confirm removal",
					},
				},
				Action: r.FavoritesClear,
			},
		},
	}
}
