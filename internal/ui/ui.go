package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/cinefav/internal/models"
	"github.com/desertthunder/cinefav/internal/services"
	"github.com/desertthunder/cinefav/internal/shared"
	"github.com/desertthunder/cinefav/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ListsView ViewState = iota
	FavoritesView
	SearchView
	SaveView
	ConfirmView
)

type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmDelete
	confirmClear
)

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	returnView ViewState
	controller *tasks.FavoritesController
	catalog    services.Catalog
	updates    <-chan tasks.Update
	width      int
	height     int
	lists      list.Model
	favorites  list.Model
	results    list.Model
	found      []models.Movie
	input      textinput.Model
	confirm    confirmAction
	target     models.FavoriteList
	busy       bool
	status     string
	statusErr  bool
	help       help.Model
	keys       keyMap
}

// NewModel creates a new TUI model.
//
// updates should be the channel the controller was constructed with. catalog
// may be nil, which disables search.
func NewModel(ctx context.Context, controller *tasks.FavoritesController, catalog services.Catalog, updates <-chan tasks.Update) *Model {
	input := textinput.New()
	input.CharLimit = models.MaxListNameLength

	return &Model{
		ctx:        ctx,
		view:       FavoritesView,
		returnView: FavoritesView,
		controller: controller,
		catalog:    catalog,
		updates:    updates,
		lists:      newList("Saved Lists"),
		favorites:  newList("Favorites"),
		results:    newList("Search Results"),
		input:      input,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init loads the mirror and the list index, and starts listening for controller updates.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.run("initialize", m.controller.Initialize),
		m.waitForUpdate(),
	)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.lists, &m.favorites, &m.results} {
			l.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.view {
		case ListsView:
			return m.handleListsKeys(msg)
		case FavoritesView:
			return m.handleFavoritesKeys(msg)
		case SearchView:
			return m.handleSearchKeys(msg)
		case SaveView:
			return m.handleSaveKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgOperationDone:
		res := msg.data.(operationResult)
		m.busy = false
		if res.err != nil {
			m.setStatus(res.err.Error(), true)
		} else if res.op == "select" {
			m.view = FavoritesView
		}
		m.sync()
		return m, nil

	case MsgControllerUpdate:
		u := msg.data.(tasks.Update)
		m.setStatus(u.Message, u.Event == tasks.OperationFailed)
		m.sync()
		return m, m.waitForUpdate()

	case MsgSearchResults:
		res := msg.data.(searchResult)
		m.busy = false
		if res.err != nil {
			m.setStatus(tasks.UserMessage(res.err), true)
			return m, nil
		}
		m.found = res.page.Results
		m.results.Title = "Results for " + res.query
		m.setStatus(shared.Pluralize(res.page.TotalResults, "result", "results"), false)
		m.syncResults()
		return m, nil
	}
	return m, nil
}

func (m *Model) handleListsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.lists.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.tab), key.Matches(msg, m.keys.back):
		m.view = FavoritesView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.lists.SelectedItem().(listItem); ok && !m.busy {
			id := item.list.ID
			return m, m.run("select", func(ctx context.Context) error {
				_, err := m.controller.SelectList(ctx, id)
				return err
			})
		}
		return m, nil
	case key.Matches(msg, m.keys.del):
		if item, ok := m.lists.SelectedItem().(listItem); ok {
			m.ask(confirmDelete, item.list)
		}
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		return m, m.run("refresh", func(ctx context.Context) error {
			return m.controller.Refresh(ctx, "")
		})
	case key.Matches(msg, m.keys.search):
		return m, m.openSearch()
	}
	return m.updateLists(msg)
}

func (m *Model) handleFavoritesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.favorites.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.tab):
		m.view = ListsView
		return m, nil
	case key.Matches(msg, m.keys.toggle):
		if item, ok := m.favorites.SelectedItem().(movieItem); ok {
			m.toggle(item.movie)
		}
		return m, nil
	case key.Matches(msg, m.keys.save):
		m.openSave()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.clear):
		m.ask(confirmClear, models.FavoriteList{})
		return m, nil
	case key.Matches(msg, m.keys.search):
		return m, m.openSearch()
	}
	return m.updateLists(msg)
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.input.Focused() {
		switch msg.Type {
		case tea.KeyEnter:
			query := strings.TrimSpace(m.input.Value())
			if query == "" || m.busy {
				return m, nil
			}
			m.input.Blur()
			m.busy = true
			return m, m.search(query)
		case tea.KeyEsc:
			m.input.Blur()
			if len(m.found) == 0 {
				m.view = m.returnView
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if m.results.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = m.returnView
		return m, nil
	case key.Matches(msg, m.keys.tab):
		m.view = FavoritesView
		return m, nil
	case key.Matches(msg, m.keys.search):
		m.input.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.toggle):
		if item, ok := m.results.SelectedItem().(movieItem); ok {
			m.toggle(item.movie)
		}
		return m, nil
	}
	return m.updateLists(msg)
}

func (m *Model) handleSaveKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		name := m.input.Value()
		m.input.Blur()
		m.view = FavoritesView
		return m, m.run("save", func(ctx context.Context) error {
			_, err := m.controller.SaveActiveList(ctx, name)
			return err
		})
	case tea.KeyEsc:
		m.input.Blur()
		m.view = FavoritesView
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		action, target := m.confirm, m.target
		m.confirm = confirmNone
		m.view = m.returnView

		switch action {
		case confirmDelete:
			return m, m.run("delete", func(ctx context.Context) error {
				return m.controller.DeleteList(ctx, target.ID)
			})
		case confirmClear:
			if err := m.controller.ClearAllFavorites(); err != nil {
				m.setStatus(err.Error(), true)
			}
			m.sync()
		}
		return m, nil
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.quit):
		m.confirm = confirmNone
		m.view = m.returnView
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ListsView:
		m.lists, cmd = m.lists.Update(msg)
	case FavoritesView:
		m.favorites, cmd = m.favorites.Update(msg)
	case SearchView:
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

func (m *Model) toggle(movie models.Movie) {
	if _, err := m.controller.ToggleFavorite(movie); err != nil {
		m.setStatus(err.Error(), true)
	}
	m.sync()
}

func (m *Model) ask(action confirmAction, target models.FavoriteList) {
	m.confirm = action
	m.target = target
	m.returnView = m.view
	m.view = ConfirmView
}

func (m *Model) openSave() {
	m.input.Reset()
	m.input.Placeholder = models.DefaultListName
	if active := m.controller.Snapshot().ActiveList(); active != nil {
		m.input.SetValue(active.Name)
	}
	m.input.Focus()
	m.view = SaveView
}

func (m *Model) openSearch() tea.Cmd {
	if m.catalog == nil {
		m.setStatus("Search is unavailable: set TMDB_API_KEY or catalog.api_key.", true)
		return nil
	}
	m.returnView = m.view
	m.view = SearchView
	m.input.Reset()
	m.input.Placeholder = "Search movies"
	m.input.Focus()
	return textinput.Blink
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// sync rebuilds the list items from a controller snapshot.
func (m *Model) sync() {
	snap := m.controller.Snapshot()

	m.lists.SetItems(listItems(snap.AllLists, snap.ActiveListID))
	m.favorites.SetItems(movieItems(snap.ActiveMovies, func(int) bool { return true }))

	m.favorites.Title = "Favorites"
	if active := snap.ActiveList(); active != nil {
		m.favorites.Title = "Favorites · " + active.Name
	} else if snap.Draft() {
		m.favorites.Title = "Favorites · unsaved"
	}
	m.syncResults()
}

func (m *Model) syncResults() {
	m.results.SetItems(movieItems(m.found, m.controller.IsFavorite))
}

func (m *Model) run(op string, fn func(context.Context) error) tea.Cmd {
	m.busy = true
	return func() tea.Msg {
		return operationDoneMsg(op, fn(m.ctx))
	}
}

func (m *Model) search(query string) tea.Cmd {
	return func() tea.Msg {
		page, err := m.catalog.SearchMovies(m.ctx, query, 1)
		return searchResultsMsg(query, page, err)
	}
}

func (m *Model) waitForUpdate() tea.Cmd {
	if m.updates == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-m.updates
		if !ok {
			return Msg{kind: MsgUpdatesClosed}
		}
		return controllerUpdateMsg(u)
	}
}
