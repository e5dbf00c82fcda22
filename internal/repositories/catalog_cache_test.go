package repositories

import (
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/cinefav/internal/models"
	"github.com/desertthunder/cinefav/internal/shared"
)

func TestCatalogCacheRepository(t *testing.T) {
	t.Run("CacheMovies And GetMovie", func(t *testing.T) {
		repo := NewCatalogCacheRepository(setupTestDB(t))

		if err := repo.CacheMovies(sampleMovies()); err != nil {
			t.Fatalf("failed to cache: %v", err)
		}

		m, err := repo.GetMovie(680)
		if err != nil {
			t.Fatalf("failed to get movie: %v", err)
		}
		if m.Title != "Pulp Fiction" || m.ReleaseDate == nil {
			t.Errorf("unexpected movie %+v", m)
		}

		if _, err := repo.GetMovie(1); !errors.Is(err, shared.ErrMovieNotFound) {
			t.Errorf("expected ErrMovieNotFound, got %v", err)
		}
	})

	t.Run("Upsert And Skip Invalid", func(t *testing.T) {
		repo := NewCatalogCacheRepository(setupTestDB(t))

		_ = repo.CacheMovies(sampleMovies())
		err := repo.CacheMovies([]models.Movie{{ID: 550, Title: "Fight Club (1999)"}, {ID: 0, Title: "bad"}})
		if err != nil {
			t.Fatalf("failed to cache: %v", err)
		}

		n, err := repo.Count()
		if err != nil || n != 2 {
			t.Errorf("expected 2 cached movies, got %d (%v)", n, err)
		}

		m, _ := repo.GetMovie(550)
		if m == nil || m.Title != "Fight Club (1999)" {
			t.Errorf("expected updated title, got %+v", m)
		}
	})

	t.Run("SearchTitles", func(t *testing.T) {
		repo := NewCatalogCacheRepository(setupTestDB(t))
		_ = repo.CacheMovies(append(sampleMovies(), models.Movie{ID: 7, Title: "100% Wolf"}))

		got, err := repo.SearchTitles("fiction", 10)
		if err != nil {
			t.Fatalf("failed to search: %v", err)
		}
		if len(got) != 1 || got[0].ID != 680 {
			t.Errorf("unexpected results %+v", got)
		}

		got, _ = repo.SearchTitles("100%", 10)
		if len(got) != 1 || got[0].ID != 7 {
			t.Errorf("expected literal percent match, got %+v", got)
		}

		got, _ = repo.SearchTitles("", 1)
		if len(got) != 1 {
			t.Errorf("expected limit to apply, got %d", len(got))
		}
	})

	t.Run("Prune", func(t *testing.T) {
		repo := NewCatalogCacheRepository(setupTestDB(t))
		_ = repo.CacheMovies(sampleMovies())

		n, err := repo.Prune(time.Now().Add(-time.Hour))
		if err != nil || n != 0 {
			t.Errorf("expected nothing pruned, got %d (%v)", n, err)
		}

		n, err = repo.Prune(time.Now().Add(time.Hour))
		if err != nil || n != 2 {
			t.Errorf("expected 2 pruned, got %d (%v)", n, err)
		}
	})
}
