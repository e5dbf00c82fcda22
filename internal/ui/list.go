package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/cinefav/internal/models"
	"github.com/desertthunder/cinefav/internal/shared"
)

var (
	_ list.Item = listItem{}
	_ list.Item = movieItem{}
)

// listItem wraps [models.FavoriteList] to implement [list.Item].
type listItem struct {
	list   models.FavoriteList
	active bool
}

func (i listItem) FilterValue() string { return i.list.Name }
func (i listItem) Title() string {
	if i.active {
		return "● " + i.list.Name
	}
	return i.list.Name
}
func (i listItem) Description() string {
	desc := shared.Pluralize(len(i.list.Movies), "movie", "movies")
	if !i.list.CreatedAt.IsZero() {
		desc = fmt.Sprintf("%s • %s", desc, i.list.CreatedAt.Format("2006-01-02"))
	}
	return desc
}

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie    models.Movie
	favorite bool
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string {
	if i.favorite {
		return "♥ " + i.movie.Title
	}
	return i.movie.Title
}
func (i movieItem) Description() string {
	parts := []string{shared.ReleaseYear(i.movie.ReleaseDate), "★ " + shared.FormatRating(i.movie.VoteAverage)}
	if i.movie.Overview != nil && *i.movie.Overview != "" {
		parts = append(parts, shared.Truncate(*i.movie.Overview, 60))
	}
	return strings.Join(parts, " • ")
}

func listItems(lists []models.FavoriteList, activeID string) []list.Item {
	items := make([]list.Item, len(lists))
	for i, l := range lists {
		items[i] = listItem{list: l, active: l.ID == activeID}
	}
	return items
}

func movieItems(movies []models.Movie, isFavorite func(int) bool) []list.Item {
	items := make([]list.Item, len(movies))
	for i, m := range movies {
		items[i] = movieItem{movie: m, favorite: isFavorite(m.ID)}
	}
	return items
}

func newList(title string) list.Model {
	l := list.New(nil, itemDelegate(), 0, 0)
	l.Title = title
	l.Styles.Title = styles.title.MarginBottom(0)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	return l
}
