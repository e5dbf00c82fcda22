package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/cinefav/internal/shared"
)

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	var helpKeys []key.Binding

	switch m.view {
	case ListsView:
		body = m.renderLists()
		helpKeys = []key.Binding{m.keys.enter, m.keys.del, m.keys.refresh, m.keys.search, m.keys.tab, m.keys.quit}
	case FavoritesView:
		body = m.renderFavorites()
		helpKeys = []key.Binding{m.keys.toggle, m.keys.save, m.keys.clear, m.keys.search, m.keys.tab, m.keys.quit}
	case SearchView:
		body = m.renderSearch()
		if m.input.Focused() {
			helpKeys = []key.Binding{key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")), m.keys.back}
		} else {
			helpKeys = []key.Binding{m.keys.toggle, m.keys.search, m.keys.back, m.keys.quit}
		}
	case SaveView:
		body = m.renderSave()
		helpKeys = []key.Binding{key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")), m.keys.back}
	case ConfirmView:
		body = m.renderConfirm()
		helpKeys = []key.Binding{m.keys.yes, m.keys.no}
	}

	return styles.frame.Render(lipgloss.JoinVertical(lipgloss.Left,
		body,
		m.renderStatus(),
		m.help.ShortHelpView(helpKeys),
	))
}

func (m *Model) renderLists() string {
	snap := m.controller.Snapshot()
	if !snap.Ready {
		return styles.title.Render("Loading lists...")
	}
	if snap.ListsError != "" && !snap.ListsLoaded {
		return fmt.Sprintf("%s\n\n%s\n%s",
			styles.title.Render("Saved Lists"),
			styles.warn.Render(snap.ListsError),
			styles.help.Render("Press r to retry."))
	}
	if len(snap.AllLists) == 0 {
		return fmt.Sprintf("%s\n\n%s",
			styles.title.Render("Saved Lists"),
			styles.help.Render("No saved lists yet. Favorite some movies and press w to save them."))
	}
	return m.lists.View()
}

func (m *Model) renderFavorites() string {
	snap := m.controller.Snapshot()
	if !snap.Ready {
		return styles.title.Render("Loading favorites...")
	}
	if len(snap.ActiveMovies) == 0 {
		hint := "No favorites yet."
		if m.catalog != nil {
			hint += " Press s to search for movies."
		}
		return fmt.Sprintf("%s\n\n%s", styles.title.Render(m.favorites.Title), styles.help.Render(hint))
	}
	return m.favorites.View()
}

func (m *Model) renderSearch() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Search TMDB"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.busy:
		b.WriteString(styles.help.Render("Searching..."))
	case len(m.found) > 0:
		b.WriteString(m.results.View())
	}
	return b.String()
}

func (m *Model) renderSave() string {
	snap := m.controller.Snapshot()
	title := styles.title.Render("Save favorites as a list")
	info := shared.Pluralize(len(snap.ActiveMovies), "movie", "movies") + " will be saved."
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, m.input.View())
}

func (m *Model) renderConfirm() string {
	switch m.confirm {
	case confirmDelete:
		title := styles.warn.Render(fmt.Sprintf("Delete list '%s'?", m.target.Name))
		info := fmt.Sprintf("\n%s will be removed from the server.",
			shared.Pluralize(len(m.target.Movies), "movie", "movies"))
		return title + "\n" + info
	case confirmClear:
		title := styles.warn.Render("Remove all favorites?")
		return title + "\n\nSaved lists on the server are not affected."
	default:
		return ""
	}
}

func (m *Model) renderStatus() string {
	switch {
	case m.busy && m.view != SearchView:
		return styles.help.Render("Working...")
	case m.status == "":
		return ""
	case m.statusErr:
		return styles.err.Render(m.status)
	default:
		return styles.ok.Render(m.status)
	}
}
