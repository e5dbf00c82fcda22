package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/cinefav/internal/models"
	"github.com/desertthunder/cinefav/internal/shared"
)

// CatalogCacheRepository stores movies seen through the catalog so they can be
// favorited by id without another catalog request.
type CatalogCacheRepository struct {
	db *sql.DB
}

// NewCatalogCacheRepository creates a new CatalogCacheRepository with the given database connection
func NewCatalogCacheRepository(db *sql.DB) *CatalogCacheRepository {
	return &CatalogCacheRepository{db: db}
}

// CacheMovies upserts movies. Invalid movies are skipped.
func (r *CatalogCacheRepository) CacheMovies(movies []models.Movie) error {
	if len(movies) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO catalog_movies (id, title, payload, fetched_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, payload = excluded.payload, fetched_at = excluded.fetched_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, m := range movies {
		if m.Validate() != nil {
			continue
		}
		payload, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("failed to encode movie %d: %w", m.ID, err)
		}
		if _, err := stmt.Exec(m.ID, m.Title, string(payload), now); err != nil {
			return fmt.Errorf("failed to cache movie %d: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cache transaction: %w", err)
	}
	return nil
}

// GetMovie returns the cached movie with id, or [shared.ErrMovieNotFound].
func (r *CatalogCacheRepository) GetMovie(id int) (*models.Movie, error) {
	return r.scanOne(r.db.QueryRow("SELECT payload FROM catalog_movies WHERE id = ?", id))
}

// SearchTitles returns cached movies whose title contains query, most recently fetched first.
func (r *CatalogCacheRepository) SearchTitles(query string, limit int) ([]models.Movie, error) {
	if limit <= 0 {
		limit = 20
	}

	pattern := "%" + escapeLike(strings.TrimSpace(query)) + "%"
	rows, err := r.db.Query(`
		SELECT payload FROM catalog_movies
		WHERE title LIKE ? ESCAPE '\'
		ORDER BY fetched_at DESC, id ASC
		LIMIT ?
	`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog cache: %w", err)
	}
	defer rows.Close()

	movies := []models.Movie{}
	for rows.Next() {
		m, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return movies, nil
}

// Prune removes entries fetched before cutoff and reports how many were removed.
func (r *CatalogCacheRepository) Prune(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec("DELETE FROM catalog_movies WHERE fetched_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune catalog cache: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n, nil
}

// Count returns the number of cached movies.
func (r *CatalogCacheRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM catalog_movies").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count catalog cache: %w", err)
	}
	return n, nil
}

func (r *CatalogCacheRepository) scanOne(row *sql.Row) (*models.Movie, error) {
	var payload string
	err := row.Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrMovieNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan movie: %w", err)
	}
	return decodeMovie(payload)
}

func (r *CatalogCacheRepository) scanRow(rows *sql.Rows) (*models.Movie, error) {
	var payload string
	if err := rows.Scan(&payload); err != nil {
		return nil, fmt.Errorf("failed to scan movie: %w", err)
	}
	return decodeMovie(payload)
}

func decodeMovie(payload string) (*models.Movie, error) {
	var m models.Movie
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return nil, fmt.Errorf("failed to decode cached movie: %w", err)
	}
	return &m, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
