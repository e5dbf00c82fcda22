package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cinefav/internal/models"
	"github.com/desertthunder/cinefav/internal/shared"
)

// Mirror keys. Values are JSON.
const (
	KeyMovieFavorites     = "movieFavorites"
	KeyLastFavoriteListID = "lastFavoriteListId"
)

// MirrorRepository persists the active favorites and the id of the last
// selected list to SQLite.
//
// Writes are synchronous: a nil error means the value is durable.
type MirrorRepository struct {
	db     *sql.DB
	logger *log.Logger
}

// NewMirrorRepository creates a new MirrorRepository with the given database connection.
//
// A nil logger discards corruption diagnostics.
func NewMirrorRepository(db *sql.DB, logger *log.Logger) *MirrorRepository {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &MirrorRepository{db: db, logger: shared.WithLogger(logger, "component", "mirror")}
}

// Load returns the mirrored movies and last list id.
//
// It never fails: missing or unparsable values come back as empty defaults.
func (r *MirrorRepository) Load() ([]models.Movie, string) {
	movies := []models.Movie{}

	if raw, err := getEntry(r.db, KeyMovieFavorites); err == nil {
		var decoded []models.Movie
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			r.logger.Debug("discarding corrupt favorites", "error", err)
		} else if decoded != nil {
			movies = decoded
		}
	} else if !errors.Is(err, errNoEntry) {
		r.logger.Debug("favorites unavailable", "error", err)
	}

	var lastID string
	if raw, err := getEntry(r.db, KeyLastFavoriteListID); err == nil {
		if err := json.Unmarshal([]byte(raw), &lastID); err != nil {
			r.logger.Debug("discarding corrupt list id", "error", err)
			lastID = ""
		}
	} else if !errors.Is(err, errNoEntry) {
		r.logger.Debug("list id unavailable", "error", err)
	}

	return movies, lastID
}

// SaveMovies overwrites the mirrored favorites. nil is stored as an empty array.
func (r *MirrorRepository) SaveMovies(movies []models.Movie) error {
	if movies == nil {
		movies = []models.Movie{}
	}
	data, err := json.Marshal(movies)
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}
	return putEntries(r.db, map[string]string{KeyMovieFavorites: string(data)})
}

// SetLastListID records id as the last selected list.
func (r *MirrorRepository) SetLastListID(id string) error {
	if id == "" {
		return r.ClearLastListID()
	}
	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("failed to encode list id: %w", err)
	}
	return putEntries(r.db, map[string]string{KeyLastFavoriteListID: string(data)})
}

// SaveSelection writes movies and id together so they can't drift apart.
func (r *MirrorRepository) SaveSelection(id string, movies []models.Movie) error {
	if id == "" {
		if err := r.SaveMovies(movies); err != nil {
			return err
		}
		return r.ClearLastListID()
	}
	if movies == nil {
		movies = []models.Movie{}
	}

	moviesJSON, err := json.Marshal(movies)
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}
	idJSON, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("failed to encode list id: %w", err)
	}

	return putEntries(r.db, map[string]string{
		KeyMovieFavorites:     string(moviesJSON),
		KeyLastFavoriteListID: string(idJSON),
	})
}

// ClearLastListID removes the last list pointer.
func (r *MirrorRepository) ClearLastListID() error {
	return deleteEntries(r.db, KeyLastFavoriteListID)
}

// Clear removes both mirrored values.
func (r *MirrorRepository) Clear() error {
	return deleteEntries(r.db, KeyMovieFavorites, KeyLastFavoriteListID)
}
