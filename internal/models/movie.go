package models

import (
	"fmt"

	"github.com/desertthunder/cinefav/internal/shared"
)

// Movie is a catalog entry as stored inside a favorite list.
//
// Optional fields are pointers so a missing value round-trips as JSON null.
type Movie struct {
	ID          int      `json:"id" validate:"gt=0"`
	Title       string   `json:"title" validate:"required"`
	PosterPath  *string  `json:"poster_path"`
	Overview    *string  `json:"overview"`
	VoteAverage *float64 `json:"vote_average" validate:"omitnil,gte=0,lte=10"`
	ReleaseDate *string  `json:"release_date"`
}

// Validate checks the movie has a positive id, a title and a sane rating.
func (m Movie) Validate() error {
	if err := validateStruct(m); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidMovie, err)
	}
	return nil
}

// ContainsMovie reports whether a movie with id is in movies.
func ContainsMovie(movies []Movie, id int) bool {
	return IndexOfMovie(movies, id) >= 0
}

// IndexOfMovie returns the position of the movie with id, or -1.
func IndexOfMovie(movies []Movie, id int) int {
	for i, m := range movies {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// MovieIDs returns the ids of movies in order.
func MovieIDs(movies []Movie) []int {
	ids := make([]int, len(movies))
	for i, m := range movies {
		ids[i] = m.ID
	}
	return ids
}

// CloneMovies deep copies movies, including pointer fields. nil stays nil.
func CloneMovies(movies []Movie) []Movie {
	if movies == nil {
		return nil
	}
	out := make([]Movie, len(movies))
	for i, m := range movies {
		out[i] = m.Clone()
	}
	return out
}

// Clone returns a copy of m that shares no pointers with it.
func (m Movie) Clone() Movie {
	c := m
	c.PosterPath = cloneString(m.PosterPath)
	c.Overview = cloneString(m.Overview)
	c.ReleaseDate = cloneString(m.ReleaseDate)
	if m.VoteAverage != nil {
		v := *m.VoteAverage
		c.VoteAverage = &v
	}
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// StringPtr and FloatPtr are conveniences for building optional fields.
func StringPtr(s string) *string { return &s }

func FloatPtr(f float64) *float64 { return &f }
