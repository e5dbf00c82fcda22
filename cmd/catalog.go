package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/cinefav/internal/models"
	"github.com/desertthunder/cinefav/internal/services"
	"github.com/desertthunder/cinefav/internal/shared"
)

// Search queries the catalog, or the local movie cache with --cached.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query, err := requireArg(cmd, "query")
	if err != nil {
		return err
	}

	if cmd.Bool("cached") {
		cache := r.catalogCache()
		if cache == nil {
			return fmt.Errorf("%w: local cache is not available", shared.ErrServiceUnavailable)
		}
		movies, err := cache.SearchTitles(query, cmd.Int("limit"))
		if err != nil {
			return err
		}
		return r.writeMoviePage(fmt.Sprintf("Cached results for '%s'", query), movies, len(movies), nil, cmd.Bool("json"))
	}

	catalog, err := r.catalogClient()
	if err != nil {
		return err
	}

	r.logger.Debug("searching catalog", "query", query, "page", cmd.Int("page"))
	page, err := catalog.SearchMovies(ctx, query, cmd.Int("page"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	r.cacheMovies(page.Results)

	return r.writeMoviePage(fmt.Sprintf("Results for '%s'", query), page.Results, page.TotalResults, page, cmd.Bool("json"))
}

// Popular lists the catalog's popular movies.
func (r *Runner) Popular(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.catalogClient()
	if err != nil {
		return err
	}

	page, err := catalog.PopularMovies(ctx, cmd.Int("page"))
	if err != nil {
		return fmt.Errorf("failed to fetch popular movies: %w", err)
	}
	r.cacheMovies(page.Results)

	return r.writeMoviePage("Popular movies", page.Results, page.TotalResults, page, cmd.Bool("json"))
}

// Movie prints the full details of a movie.
func (r *Runner) Movie(ctx context.Context, cmd *cli.Command) error {
	arg, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	id, err := parseMovieID(arg)
	if err != nil {
		return err
	}

	catalog, err := r.catalogClient()
	if err != nil {
		return err
	}

	details, err := catalog.MovieDetails(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch movie %d: %w", id, err)
	}
	r.cacheMovies(append([]models.Movie{details.Movie}, details.Similar.Results...))

	if cmd.Bool("json") {
		return r.writeJSON(details, true)
	}

	r.writePlainHeader(fmt.Sprintf("%s (%s)", details.Title, shared.ReleaseYear(details.ReleaseDate)))
	if details.Tagline != "" {
		r.writePlain("%s\n\n", details.Tagline)
	}
	r.writePlain("Rating: ⭐ %s (%d votes)\n", shared.FormatRating(details.VoteAverage), details.VoteCount)
	if details.Runtime > 0 {
		r.writePlain("Runtime: %d min\n", details.Runtime)
	}
	if genres := details.GenreNames(); len(genres) > 0 {
		r.writePlain("Genres: %s\n", strings.Join(genres, ", "))
	}
	if directors := details.Directors(); len(directors) > 0 {
		names := make([]string, len(directors))
		for i, d := range directors {
			names[i] = d.Name
		}
		r.writePlain("Directed by: %s\n", strings.Join(names, ", "))
	}
	if cast := details.TopCast(5); len(cast) > 0 {
		r.writePlain("Cast:\n")
		for _, c := range cast {
			r.writePlain("  - %s as %s\n", c.Name, c.Character)
		}
	}
	if details.Overview != nil && *details.Overview != "" {
		r.writePlainln("%s", *details.Overview)
	}
	r.writePlain("Poster: %s\n", r.posterURL(details.PosterPath))

	if c, err := r.restored(); err == nil && c.IsFavorite(id) {
		r.writePlain("★ In your favorites\n")
	}

	if !cmd.Bool("trailers") {
		return nil
	}

	trailers, err := catalog.Trailers(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch trailers: %w", err)
	}
	if len(trailers) == 0 {
		return r.writePlainln("No trailers available.")
	}
	r.writePlainln("Trailers:")
	for _, t := range trailers {
		r.writePlain("  - %s: %s\n", t.Name, services.YouTubeURL(t.Key))
	}
	return nil
}

// writeMoviePage prints catalog results, starring current favorites.
func (r *Runner) writeMoviePage(title string, movies []models.Movie, total int, page *models.SearchPage, asJSON bool) error {
	if asJSON {
		if page != nil {
			return r.writeJSON(page, true)
		}
		return r.writeJSON(movies, true)
	}

	var isFavorite func(int) bool
	if c, err := r.restored(); err == nil {
		isFavorite = c.IsFavorite
	} else {
		r.logger.Debug("favorites unavailable", "error", err)
	}

	r.writePlainHeader(title)
	if len(movies) == 0 {
		return r.writePlain("No movies found.\n")
	}
	r.writeMovies(movies, isFavorite)

	r.writePlainln("%s", shared.Pluralize(total, "result", "results"))
	if page.HasNext() {
		r.writePlain("Page %d of %d. Use --page %d for more.\n", page.Page, page.TotalPages, page.Page+1)
	}
	return r.writePlain("Use 'cinefav favorites toggle <id>' to add a movie.\n")
}

func pageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "page",
			Aliases: []string{"p"},
			Usage:   "Result page",
			Value:   1,
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
	}
}

// searchCommand searches the TMDB catalog.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search movies by title",
		Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
		Flags: append(pageFlags(),
			&cli.BoolFlag{
				Name:  "cached",
				Usage: "Search previously fetched movies without contacting TMDB",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum cached results",
				Value: 20,
			},
		),
		Action: r.Search,
	}
}

// popularCommand lists popular movies.
func popularCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "popular",
		Usage:  "List popular movies",
		Flags:  pageFlags(),
		Action: r.Popular,
	}
}

// movieCommand shows movie details.
func movieCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "movie",
		Usage:     "Show movie details",
		Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "trailers",
				Usage: "List YouTube trailers",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Movie,
	}
}
