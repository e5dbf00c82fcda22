package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/cinefav/internal/models"
	"github.com/desertthunder/cinefav/internal/services"
	"github.com/desertthunder/cinefav/internal/shared"
	tu "github.com/desertthunder/cinefav/internal/testing"
)

func newTestRunner(t *testing.T, store *tu.MockListStore, mirror *tu.MemoryMirror, catalog services.Catalog) (*Runner, *bytes.Buffer) {
	t.Helper()

	config := shared.DefaultConfig()
	config.Database.Path = ":memory:"

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:  config,
		Logger:  shared.NewLogger(io.Discard),
		Output:  output,
		Store:   store,
		Mirror:  mirror,
		Catalog: catalog,
	})
	t.Cleanup(func() { runner.Close() })
	return runner, output
}

// run executes a command line against the runner's command tree.
func run(r *Runner, args ...string) error {
	app := &cli.Command{
		Name:      "cinefav",
		Writer:    io.Discard,
		ErrWriter: io.Discard,
		Commands:  r.register(),
	}
	return app.Run(context.Background(), append([]string{"cinefav"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			store := tu.NewMockListStore()
			mirror := tu.NewMemoryMirror(nil, "")
			catalog := &tu.MockCatalog{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Store:      store,
				Mirror:     mirror,
				Catalog:    catalog,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.listStore() != store {
				t.Error("expected store to be used")
			}
			if m, err := runner.localMirror(); err != nil || m != mirror {
				t.Errorf("expected mirror to be used, got %v (%v)", m, err)
			}
			if c, err := runner.catalogClient(); err != nil || c != catalog {
				t.Errorf("expected catalog to be used, got %v (%v)", c, err)
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{HTTPClient: nil})
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})

		t.Run("builds backend client with configured timeout", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Backend.BaseURL = "http://example.test/api/"
			runner := NewRunner(RunnerOpts{Config: config})

			api := runner.favoritesAPI()
			if api.BaseURL() != "http://example.test/api" {
				t.Errorf("unexpected base url %q", api.BaseURL())
			}
			if runner.favoritesAPI() != api {
				t.Error("expected backend client to be reused")
			}
		})

		t.Run("catalog requires an api key", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Catalog.APIKey = ""
			runner := NewRunner(RunnerOpts{Config: config})

			_, err := runner.catalogClient()
			if !errors.Is(err, shared.ErrMissingAPIKey) {
				t.Errorf("expected ErrMissingAPIKey, got %v", err)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: tu.NewFailAfterWriter(1, &bytes.Buffer{})})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}

		for _, want := range []string{"setup", "favorites", "lists", "search", "popular", "movie", "cache", "api", "share", "tui"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})
}

func TestFavoritesCommands(t *testing.T) {
	t.Run("show prints mirrored favorites", func(t *testing.T) {
		mirror := tu.NewMemoryMirror([]models.Movie{tu.Movie(1, "Alien"), tu.Movie(2, "Heat")}, "")
		runner, output := newTestRunner(t, tu.NewMockListStore(), mirror, nil)

		if err := run(runner, "favorites", "show"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := output.String()
		if !strings.Contains(out, "Alien") || !strings.Contains(out, "Heat") || !strings.Contains(out, "2 movies") {
			t.Errorf("unexpected output: %s", out)
		}
	})

	t.Run("show makes no backend calls", func(t *testing.T) {
		store := tu.NewMockListStore()
		runner, _ := newTestRunner(t, store, tu.NewMemoryMirror(nil, ""), nil)

		if err := run(runner, "favorites", "show", "--json"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls := store.Calls(); len(calls) != 0 {
			t.Errorf("expected no backend calls, got %v", calls)
		}
	})

	t.Run("toggle resolves the movie from the catalog and caches it", func(t *testing.T) {
		mirror := tu.NewMemoryMirror(nil, "")
		catalog := &tu.MockCatalog{Movies: []models.Movie{tu.Movie(603, "The Matrix")}}
		runner, output := newTestRunner(t, tu.NewMockListStore(), mirror, catalog)

		if err := run(runner, "favorites", "toggle", "603"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), "Added 'The Matrix'") {
			t.Errorf("unexpected output: %s", output.String())
		}
		movies, _ := mirror.Load()
		if len(movies) != 1 || movies[0].ID != 603 {
			t.Fatalf("expected movie to be mirrored, got %+v", movies)
		}

		cached, err := runner.catalogCache().GetMovie(603)
		if err != nil || cached.Title != "The Matrix" {
			t.Errorf("expected movie in cache, got %+v (%v)", cached, err)
		}
	})

	t.Run("toggle removes an existing favorite without a catalog", func(t *testing.T) {
		mirror := tu.NewMemoryMirror([]models.Movie{tu.Movie(5, "Ran")}, "")
		runner, output := newTestRunner(t, tu.NewMockListStore(), mirror, nil)
		runner.config.Catalog.APIKey = ""

		if err := run(runner, "favorites", "toggle", "5"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), "Removed 'Ran'") {
			t.Errorf("unexpected output: %s", output.String())
		}
		if movies, _ := mirror.Load(); len(movies) != 0 {
			t.Errorf("expected no favorites, got %+v", movies)
		}
	})

	t.Run("toggle rejects unknown and invalid ids", func(t *testing.T) {
		runner, _ := newTestRunner(t, tu.NewMockListStore(), tu.NewMemoryMirror(nil, ""), &tu.MockCatalog{})

		if err := run(runner, "favorites", "toggle", "abc"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if err := run(runner, "favorites", "toggle", "42"); !errors.Is(err, shared.ErrMovieNotFound) {
			t.Errorf("expected ErrMovieNotFound, got %v", err)
		}
		if err := run(runner, "favorites", "toggle"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("save creates a list and prints the share link", func(t *testing.T) {
		store := tu.NewMockListStore()
		mirror := tu.NewMemoryMirror([]models.Movie{tu.Movie(1, "Alien")}, "")
		runner, output := newTestRunner(t, store, mirror, nil)
		runner.config.Share.BaseURL = "https://cinefav.example"

		if err := run(runner, "favorites", "save", "--name", "Sci-fi"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lists := store.Snapshot()
		if len(lists) != 1 || lists[0].Name != "Sci-fi" {
			t.Fatalf("expected saved list, got %+v", lists)
		}
		if _, lastID := mirror.Load(); lastID != lists[0].ID {
			t.Errorf("expected mirrored selection %q, got %q", lists[0].ID, lastID)
		}
		if !strings.Contains(output.String(), "https://cinefav.example/shared/list-1") {
			t.Errorf("expected share link, got %s", output.String())
		}
	})

	t.Run("save with no favorites fails without a request", func(t *testing.T) {
		store := tu.NewMockListStore()
		runner, _ := newTestRunner(t, store, tu.NewMemoryMirror(nil, ""), nil)

		err := run(runner, "favorites", "save")
		if !errors.Is(err, shared.ErrEmptyList) {
			t.Errorf("expected ErrEmptyList, got %v", err)
		}
		if store.CallCount("Save") != 0 {
			t.Error("expected no save request")
		}
	})

	t.Run("clear requires confirmation", func(t *testing.T) {
		mirror := tu.NewMemoryMirror([]models.Movie{tu.Movie(1, "Alien")}, "L1")
		runner, _ := newTestRunner(t, tu.NewMockListStore(), mirror, nil)

		if err := run(runner, "favorites", "clear"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if movies, _ := mirror.Load(); len(movies) != 1 {
			t.Fatal("favorites should be untouched without --yes")
		}

		if err := run(runner, "favorites", "clear", "--yes"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		movies, lastID := mirror.Load()
		if len(movies) != 0 || lastID != "" {
			t.Errorf("expected cleared mirror, got %+v %q", movies, lastID)
		}
	})
}

func TestListsCommands(t *testing.T) {
	seed := func() *tu.MockListStore {
		return tu.NewMockListStore(
			tu.List("L1", "Clássicos", tu.Movie(1, "Casablanca")),
			tu.List("L2", "Terror", tu.Movie(2, "Alien"), tu.Movie(3, "The Thing")),
		)
	}

	t.Run("ls marks the active list", func(t *testing.T) {
		runner, output := newTestRunner(t, seed(), tu.NewMemoryMirror(nil, "L2"), nil)

		if err := run(runner, "lists", "ls"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, line := range strings.Split(output.String(), "\n") {
			if strings.Contains(line, "L2") && !strings.HasPrefix(line, "*") {
				t.Errorf("expected active marker on %q", line)
			}
			if strings.Contains(line, "L1") && strings.HasPrefix(line, "*") {
				t.Errorf("unexpected active marker on %q", line)
			}
		}
	})

	t.Run("ls reports an unreachable backend", func(t *testing.T) {
		store := seed()
		store.ListAllErr = shared.ErrNetwork
		runner, _ := newTestRunner(t, store, tu.NewMemoryMirror(nil, ""), nil)

		if err := run(runner, "lists", "ls"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("select mirrors the chosen list", func(t *testing.T) {
		mirror := tu.NewMemoryMirror(nil, "L1")
		runner, output := newTestRunner(t, seed(), mirror, nil)

		if err := run(runner, "lists", "select", "L2"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		movies, lastID := mirror.Load()
		if lastID != "L2" || len(movies) != 2 {
			t.Errorf("expected L2 mirrored, got %q with %d movies", lastID, len(movies))
		}
		if !strings.Contains(output.String(), "Selected 'Terror'") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("delete requires confirmation and reselects", func(t *testing.T) {
		store := seed()
		mirror := tu.NewMemoryMirror(nil, "L1")
		runner, output := newTestRunner(t, store, mirror, nil)

		if err := run(runner, "lists", "delete", "L1"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if store.CallCount("Delete") != 0 {
			t.Fatal("expected no delete request without --yes")
		}

		if err := run(runner, "lists", "delete", "--yes", "L1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, lastID := mirror.Load(); lastID != "L2" {
			t.Errorf("expected L2 to become active, got %q", lastID)
		}
		if !strings.Contains(output.String(), "Active list is now 'Terror'") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("show and shared print the list", func(t *testing.T) {
		store := seed()
		runner, output := newTestRunner(t, store, tu.NewMemoryMirror(nil, ""), nil)

		if err := run(runner, "lists", "show", "L2"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := run(runner, "lists", "shared", "L1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := output.String()
		if !strings.Contains(out, "The Thing") || !strings.Contains(out, "Casablanca") {
			t.Errorf("unexpected output: %s", out)
		}
		if store.CallCount("GetShared") != 1 {
			t.Errorf("expected one shared fetch, got %v", store.Calls())
		}
	})

	t.Run("show of a missing list is a user error", func(t *testing.T) {
		runner, _ := newTestRunner(t, seed(), tu.NewMemoryMirror(nil, ""), nil)

		err := run(runner, "lists", "show", "nope")
		if !errors.Is(err, shared.ErrListNotFound) || err.Error() != "That list no longer exists." {
			t.Errorf("unexpected error %v", err)
		}
	})

	t.Run("share prints an absolute link", func(t *testing.T) {
		runner, output := newTestRunner(t, seed(), tu.NewMemoryMirror(nil, ""), nil)
		runner.config.Share.BaseURL = "https://cinefav.example/"

		if err := run(runner, "lists", "share", "L1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := strings.TrimSpace(output.String()); got != "https://cinefav.example/shared/L1" {
			t.Errorf("unexpected link %q", got)
		}
	})

	t.Run("export writes files and a manifest", func(t *testing.T) {
		dir := t.TempDir()
		runner, output := newTestRunner(t, seed(), tu.NewMemoryMirror(nil, ""), nil)

		err := run(runner, "lists", "export", "--all", "--format", "csv", "--output", dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "manifest.json"))
		if !strings.Contains(output.String(), "Succeeded: 2/2") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("export validates its flags", func(t *testing.T) {
		runner, _ := newTestRunner(t, seed(), tu.NewMemoryMirror(nil, ""), nil)

		if err := run(runner, "lists", "export"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if err := run(runner, "lists", "export", "--id", "L1", "--format", "pdf"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestCatalogCommands(t *testing.T) {
	catalog := func() *tu.MockCatalog {
		return &tu.MockCatalog{Movies: []models.Movie{tu.Movie(10, "Heat"), tu.Movie(11, "Ronin")}}
	}

	t.Run("search prints results and stars favorites", func(t *testing.T) {
		c := catalog()
		mirror := tu.NewMemoryMirror([]models.Movie{tu.Movie(11, "Ronin")}, "")
		runner, output := newTestRunner(t, tu.NewMockListStore(), mirror, c)

		if err := run(runner, "search", "heist"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(c.Queries) != 1 || c.Queries[0] != "heist" {
			t.Errorf("unexpected queries %v", c.Queries)
		}
		for _, line := range strings.Split(output.String(), "\n") {
			if strings.Contains(line, "Ronin") && !strings.HasPrefix(line, "★") {
				t.Errorf("expected favorite marker on %q", line)
			}
		}
	})

	t.Run("cached search reads previous results", func(t *testing.T) {
		c := catalog()
		runner, output := newTestRunner(t, tu.NewMockListStore(), tu.NewMemoryMirror(nil, ""), c)

		if err := run(runner, "popular"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output.Reset()

		if err := run(runner, "search", "--cached", "ron"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), "Ronin") || strings.Contains(output.String(), "Heat") {
			t.Errorf("unexpected output: %s", output.String())
		}
		if len(c.Queries) != 1 {
			t.Errorf("expected only the popular request, got %v", c.Queries)
		}
	})

	t.Run("movie lists trailers", func(t *testing.T) {
		c := catalog()
		c.Videos = map[int][]models.Video{
			10: {{Key: "abc123", Name: "Official Trailer", Site: "YouTube", Type: "Trailer"}},
		}
		runner, output := newTestRunner(t, tu.NewMockListStore(), tu.NewMemoryMirror(nil, ""), c)

		if err := run(runner, "movie", "--trailers", "10"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), services.YouTubeURL("abc123")) {
			t.Errorf("expected trailer link, got %s", output.String())
		}
	})

	t.Run("cache status and prune", func(t *testing.T) {
		runner, output := newTestRunner(t, tu.NewMockListStore(), tu.NewMemoryMirror(nil, ""), catalog())

		if err := run(runner, "popular"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := run(runner, "cache", "status"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), "Cached movies: 2") {
			t.Errorf("unexpected output: %s", output.String())
		}

		if err := run(runner, "cache", "prune", "--days", "0"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n, _ := runner.catalogCache().Count(); n != 0 {
			t.Errorf("expected empty cache, got %d", n)
		}
	})
}

func TestSetupAndAPICommands(t *testing.T) {
	t.Run("setup config writes the template once", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		runner, _ := newTestRunner(t, tu.NewMockListStore(), tu.NewMemoryMirror(nil, ""), nil)

		if err := run(runner, "setup", "config", "--path", path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := shared.LoadConfig(path); err != nil {
			t.Errorf("written config should load: %v", err)
		}
		if err := run(runner, "setup", "config", "--path", path); err == nil {
			t.Error("expected error when the file exists")
		}
	})

	t.Run("setup database reports migration status", func(t *testing.T) {
		runner, output := newTestRunner(t, tu.NewMockListStore(), tu.NewMemoryMirror(nil, ""), nil)
		runner.config.Database.Path = filepath.Join(t.TempDir(), "data", "cinefav.db")

		if err := run(runner, "setup", "database"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := run(runner, "setup", "database", "--status"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(output.String(), "pending") || !strings.Contains(output.String(), "applied") {
			t.Errorf("expected every migration applied, got %s", output.String())
		}
	})

	t.Run("api get prints the JSON body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || r.URL.Path != "/lists/" {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id":"L1","name":"Terror","movies":[]}]`))
		}))
		defer srv.Close()

		runner, output := newTestRunner(t, tu.NewMockListStore(), tu.NewMemoryMirror(nil, ""), nil)
		runner.config.Backend.BaseURL = srv.URL

		if err := run(runner, "api", "get", "/lists/"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), `"name": "Terror"`) {
			t.Errorf("unexpected output: %s", output.String())
		}

		if err := run(runner, "api", "get", "/missing/"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("api post rejects invalid JSON", func(t *testing.T) {
		runner, _ := newTestRunner(t, tu.NewMockListStore(), tu.NewMemoryMirror(nil, ""), nil)

		if err := run(runner, "api", "post", "--data", "{not json", "/save/"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}
