// package services defines interfaces and HTTP clients for the favorites backend and the movie catalog
package services

import (
	"context"

	"github.com/desertthunder/cinefav/internal/models"
)

// ListStore is typed access to the favorites backend.
//
// Implementations never touch local state; every call may fail with a
// network error or an [shared.APIError].
type ListStore interface {
	// ListAll returns every saved list in server order.
	ListAll(ctx context.Context) ([]models.FavoriteList, error)

	// Get fetches one list. A missing list is [shared.ErrListNotFound].
	Get(ctx context.Context, id string) (*models.FavoriteList, error)

	// Save persists movies under name, creating a new list on the backend.
	Save(ctx context.Context, name string, movies []models.Movie) (*models.FavoriteList, error)

	// Create persists a fully formed list.
	Create(ctx context.Context, list *models.FavoriteList) (*models.FavoriteList, error)

	// Delete removes a list. A missing list is [shared.ErrListNotFound].
	Delete(ctx context.Context, id string) error

	// GetShared fetches a list through its public share endpoint.
	GetShared(ctx context.Context, id string) (*models.FavoriteList, error)
}

// Catalog looks up movies in a third-party movie database.
type Catalog interface {
	SearchMovies(ctx context.Context, query string, page int) (*models.SearchPage, error)
	PopularMovies(ctx context.Context, page int) (*models.SearchPage, error)
	MovieDetails(ctx context.Context, id int) (*models.MovieDetails, error)
	Trailers(ctx context.Context, id int) ([]models.Video, error)
}
