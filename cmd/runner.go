package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/cinefav/internal/models"
	"github.com/desertthunder/cinefav/internal/repositories"
	"github.com/desertthunder/cinefav/internal/services"
	"github.com/desertthunder/cinefav/internal/shared"
	"github.com/desertthunder/cinefav/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Services are created on first use from the loaded configuration, so commands
// that never touch the backend or the database never open them.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	httpClient *http.Client

	api     *services.FavoritesService
	store   services.ListStore
	catalog services.Catalog
	mirror  tasks.Mirror
	cache   *repositories.CatalogCacheRepository
	db      *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Store, Catalog and Mirror override the services built from Config.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Store      services.ListStore
	Catalog    services.Catalog
	Mirror     tasks.Mirror
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		httpClient: opts.HTTPClient,
		store:      opts.Store,
		catalog:    opts.Catalog,
		mirror:     opts.Mirror,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, favoritesCommand, listsCommand, searchCommand, popularCommand, movieCommand,
		cacheCommand, apiCommand, shareCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the configuration file named by --config, applies environment
// overrides and sets the log level.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if level := cmd.String("log-level"); level != "" {
		l, err := shared.ParseLevel(level)
		if err != nil {
			return ctx, err
		}
		shared.SetLogLevel(r.logger, l)
	}

	if path := cmd.String("config"); path != "" {
		config, err := shared.LoadConfig(path)
		switch {
		case err == nil:
			r.config = config
			r.configPath = path
			r.logger.Debug("loaded config", "path", path)
		case errors.Is(err, shared.ErrMissingConfig):
			r.logger.Debug("config file not found, using defaults", "path", path)
		default:
			return ctx, err
		}
	}

	r.config.ApplyEnv(os.LookupEnv)
	return ctx, r.config.Validate()
}

// Close releases the database connection, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// favoritesAPI returns the concrete backend client, used for raw requests.
func (r *Runner) favoritesAPI() *services.FavoritesService {
	if r.api == nil {
		client := r.httpClient
		if timeout := r.config.Backend.Timeout(); timeout > 0 && client == http.DefaultClient {
			client = &http.Client{Timeout: timeout}
		}
		r.api = services.NewFavoritesService(r.config.Backend.BaseURL, client)
	}
	return r.api
}

func (r *Runner) listStore() services.ListStore {
	if r.store == nil {
		r.store = r.favoritesAPI()
	}
	return r.store
}

func (r *Runner) catalogClient() (services.Catalog, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}
	if strings.TrimSpace(r.config.Catalog.APIKey) == "" {
		return nil, fmt.Errorf("%w: set %s or catalog.api_key", shared.ErrMissingAPIKey, shared.EnvTMDBKey)
	}

	svc, err := services.NewCatalogService(services.CatalogOptions{
		APIKey:       r.config.Catalog.APIKey,
		BaseURL:      r.config.Catalog.BaseURL,
		ImageBaseURL: r.config.Catalog.ImageBaseURL,
		Language:     r.config.Catalog.Language,
		RateLimit:    r.config.Catalog.RateLimit,
		CacheSize:    r.config.Catalog.CacheSize,
		Client:       r.httpClient,
	})
	if err != nil {
		return nil, err
	}
	r.catalog = svc
	return svc, nil
}

func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.OpenMirrorDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", r.config.Database.Path, err)
	}
	r.db = db
	return db, nil
}

func (r *Runner) localMirror() (tasks.Mirror, error) {
	if r.mirror != nil {
		return r.mirror, nil
	}

	db, err := r.database()
	if err != nil {
		return nil, err
	}
	r.mirror = repositories.NewMirrorRepository(db, shared.WithLogger(r.logger, "component", "mirror"))
	return r.mirror, nil
}

// catalogCache returns the movie cache, or nil when the database is unavailable.
func (r *Runner) catalogCache() *repositories.CatalogCacheRepository {
	if r.cache != nil {
		return r.cache
	}

	db, err := r.database()
	if err != nil {
		r.logger.Warn("catalog cache disabled", "error", err)
		return nil
	}
	r.cache = repositories.NewCatalogCacheRepository(db)
	return r.cache
}

// cacheMovies stores catalog results so favorites can later be toggled by id.
func (r *Runner) cacheMovies(movies []models.Movie) {
	cache := r.catalogCache()
	if cache == nil || len(movies) == 0 {
		return
	}
	if err := cache.CacheMovies(movies); err != nil {
		r.logger.Warn("failed to cache movies", "count", len(movies), "error", err)
	}
}

// newController builds a controller over the list store and local mirror.
func (r *Runner) newController(updates chan<- tasks.Update) (*tasks.FavoritesController, error) {
	mirror, err := r.localMirror()
	if err != nil {
		return nil, err
	}
	logger := shared.WithLogger(r.logger, "component", "controller")
	return tasks.NewFavoritesController(r.listStore(), mirror, logger, updates), nil
}

// restored returns a controller holding the mirrored favorites, without contacting the backend.
func (r *Runner) restored() (*tasks.FavoritesController, error) {
	c, err := r.newController(nil)
	if err != nil {
		return nil, err
	}
	c.Restore()
	return c, nil
}

// initialized returns a controller with the list index loaded from the backend.
func (r *Runner) initialized(ctx context.Context) (*tasks.FavoritesController, error) {
	c, err := r.newController(nil)
	if err != nil {
		return nil, err
	}
	if err := c.Initialize(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *Runner) posterURL(path *string) string {
	return services.ImageURL(r.config.Catalog.ImageBaseURL, path, "w500")
}

func (r *Runner) shareLink(list *models.FavoriteList) (string, error) {
	return shared.ShareLink(r.config.Share.BaseURL, list.ShareURL, list.ID)
}

func parseMovieID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: movie id must be a positive number, got %q", shared.ErrInvalidArgument, s)
	}
	return id, nil
}

func requireArg(cmd *cli.Command, name string) (string, error) {
	v := strings.TrimSpace(cmd.StringArg(name))
	if v == "" {
		return "", fmt.Errorf("%w: <%s>", shared.ErrMissingArgument, name)
	}
	return v, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// writeMovies prints a numbered movie listing. Favorites are starred when isFavorite is non-nil.
func (r *Runner) writeMovies(movies []models.Movie, isFavorite func(int) bool) {
	for i, m := range movies {
		marker := " "
		if isFavorite != nil && isFavorite(m.ID) {
			marker = "★"
		}

		r.writePlain("%s %3d. %s (%s)  ⭐ %s  [%d]\n",
			marker, i+1, m.Title, shared.ReleaseYear(m.ReleaseDate), shared.FormatRating(m.VoteAverage), m.ID)
	}
}
