package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/desertthunder/cinefav/internal/shared"
)

const (
	// DefaultListName is used when a list is saved without a name.
	DefaultListName = "Minha Lista de Favoritos"
	// MaxListNameLength is counted in runes.
	MaxListNameLength = 50
)

// FavoriteList is a named collection of movies persisted by the backend.
//
// ShareURL and Message are only present on save responses.
type FavoriteList struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required,max=50"`
	Movies    []Movie   `json:"movies" validate:"dive"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ShareURL  string    `json:"share_url,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// Saved reports whether the backend has assigned the list an id.
func (l *FavoriteList) Saved() bool {
	return l != nil && l.ID != ""
}

// Validate checks the name and every movie, and that movie ids are unique.
func (l *FavoriteList) Validate() error {
	if err := validateStruct(l); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	seen := make(map[int]struct{}, len(l.Movies))
	for _, m := range l.Movies {
		if _, ok := seen[m.ID]; ok {
			return fmt.Errorf("%w: duplicate movie id %d", shared.ErrInvalidInput, m.ID)
		}
		seen[m.ID] = struct{}{}
	}
	return nil
}

// Clone deep copies the list.
func (l *FavoriteList) Clone() *FavoriteList {
	if l == nil {
		return nil
	}
	c := *l
	c.Movies = CloneMovies(l.Movies)
	return &c
}

// NormalizeListName trims name, substitutes the default for blank input and
// rejects names longer than [MaxListNameLength] runes.
func NormalizeListName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultListName, nil
	}
	if n := utf8.RuneCountInString(name); n > MaxListNameLength {
		return "", fmt.Errorf("%w: list name is %d characters, max %d", shared.ErrInvalidInput, n, MaxListNameLength)
	}
	return name, nil
}

// FindList returns the list with id, or nil.
func FindList(lists []FavoriteList, id string) *FavoriteList {
	for i := range lists {
		if lists[i].ID == id {
			return &lists[i]
		}
	}
	return nil
}

// CloneLists deep copies lists. nil stays nil.
func CloneLists(lists []FavoriteList) []FavoriteList {
	if lists == nil {
		return nil
	}
	out := make([]FavoriteList, len(lists))
	for i := range lists {
		out[i] = *lists[i].Clone()
	}
	return out
}
