package tasks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/cinefav/internal/models"
	"github.com/desertthunder/cinefav/internal/services"
	"github.com/desertthunder/cinefav/internal/shared"
)

// Mirror is durable local storage for the active favorites and the last
// selected list id. Load never fails; missing or corrupt data reads as empty.
type Mirror interface {
	Load() ([]models.Movie, string)
	SaveMovies(movies []models.Movie) error
	SetLastListID(id string) error
	SaveSelection(id string, movies []models.Movie) error
	ClearLastListID() error
	Clear() error
}

// State is the controller's view of the user's favorites.
type State struct {
	Ready        bool
	ActiveListID string // empty when the active movies are an unsaved draft
	ActiveMovies []models.Movie
	AllLists     []models.FavoriteList // server order
	ListsLoaded  bool                  // AllLists reflects a successful fetch
	ListsError   string                // message from the last failed fetch
}

// ActiveList returns the index entry for the active list, or nil.
func (s State) ActiveList() *models.FavoriteList {
	if s.ActiveListID == "" {
		return nil
	}
	return models.FindList(s.AllLists, s.ActiveListID)
}

// Draft reports whether the active movies have never been saved.
func (s State) Draft() bool {
	return s.ActiveListID == "" && len(s.ActiveMovies) > 0
}

func (s State) clone() State {
	c := s
	c.ActiveMovies = models.CloneMovies(s.ActiveMovies)
	c.AllLists = models.CloneLists(s.AllLists)
	return c
}

// FavoritesController reconciles in-memory favorites with the local mirror and
// the remote list store. It is the only component the presentation layer calls.
//
// Remote operations are serialized. Local operations (toggle, clear, snapshot)
// only take the state lock and never wait on the network.
type FavoritesController struct {
	store   services.ListStore
	mirror  Mirror
	logger  *log.Logger
	updates chan<- Update

	opMu  sync.Mutex
	mu    sync.RWMutex
	state State
}

// NewFavoritesController creates a controller. logger and updates may be nil.
func NewFavoritesController(store services.ListStore, mirror Mirror, logger *log.Logger, updates chan<- Update) *FavoritesController {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &FavoritesController{
		store:   store,
		mirror:  mirror,
		logger:  shared.WithLogger(logger, "component", "controller"),
		updates: updates,
	}
}

// Snapshot returns a deep copy of the current state.
func (c *FavoritesController) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

// IsFavorite reports whether the movie with id is among the active favorites.
func (c *FavoritesController) IsFavorite(id int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return models.ContainsMovie(c.state.ActiveMovies, id)
}

// Restore loads the mirrored state without contacting the backend.
//
// The list index is left unloaded; call [FavoritesController.Refresh] to fetch it.
func (c *FavoritesController) Restore() {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	movies, lastID := c.mirror.Load()

	c.mu.Lock()
	c.state = State{Ready: true, ActiveListID: lastID, ActiveMovies: movies, AllLists: []models.FavoriteList{}}
	snapshot := c.state.clone()
	c.mu.Unlock()

	c.logger.Debug("restored mirror", "movies", len(movies), "list_id", lastID)
	sendUpdate(c.updates, initializedUpdate(snapshot))
}

// Initialize loads the mirror, fetches the list index and picks the active list.
//
// A failed index fetch is not an error: the mirrored state is kept and
// ListsError is set.
func (c *FavoritesController) Initialize(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	movies, lastID := c.mirror.Load()
	lists, err := c.store.ListAll(ctx)

	c.mu.Lock()
	c.state = State{Ready: true, ActiveListID: lastID, ActiveMovies: movies, AllLists: []models.FavoriteList{}}
	if err != nil {
		c.state.ListsError = UserMessage(err)
		c.logger.Warn("failed to load lists", "error", err)
	} else {
		c.state.AllLists = lists
		c.state.ListsLoaded = true
		c.applySelectionLocked(lastID)
	}
	snapshot := c.state.clone()
	c.mu.Unlock()

	c.logger.Info("initialized", "lists", len(snapshot.AllLists), "list_id", snapshot.ActiveListID, "movies", len(snapshot.ActiveMovies))
	sendUpdate(c.updates, initializedUpdate(snapshot))
	return nil
}

// applySelectionLocked chooses the active list after the index changed.
//
// preferred wins when it is in the index, otherwise the first list in server
// order is used. With no lists the pointer is cleared and the movies are kept.
// Callers hold c.mu.
func (c *FavoritesController) applySelectionLocked(preferred string) {
	if preferred != "" {
		if l := models.FindList(c.state.AllLists, preferred); l != nil {
			c.selectLocked(l)
			return
		}
	}

	if len(c.state.AllLists) > 0 {
		c.selectLocked(&c.state.AllLists[0])
		return
	}

	c.state.ActiveListID = ""
	if err := c.mirror.ClearLastListID(); err != nil {
		c.logger.Warn("failed to clear mirrored list id", "error", err)
	}
}

// selectLocked makes l active and mirrors it. Callers hold c.mu.
func (c *FavoritesController) selectLocked(l *models.FavoriteList) {
	movies := models.CloneMovies(l.Movies)
	if movies == nil {
		movies = []models.Movie{}
	}

	c.state.ActiveListID = l.ID
	c.state.ActiveMovies = movies
	if err := c.mirror.SaveSelection(l.ID, movies); err != nil {
		c.logger.Warn("failed to mirror selection", "list_id", l.ID, "error", err)
	}
}

// replaceIndexEntryLocked stores a fresh copy of l in AllLists, if present.
func (c *FavoritesController) replaceIndexEntryLocked(l *models.FavoriteList) {
	for i := range c.state.AllLists {
		if c.state.AllLists[i].ID == l.ID {
			c.state.AllLists[i] = *l.Clone()
			return
		}
	}
}

func (c *FavoritesController) ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Ready
}

func (c *FavoritesController) fail(op string, err error) error {
	ue := NewUserError(op, err)
	c.logger.Warn("operation failed", "op", op, "error", err)
	sendUpdate(c.updates, failedUpdate(ue))
	return ue
}

// ToggleFavorite removes movie from the active favorites if present, otherwise appends it.
//
// The change is written to the mirror before returning; no request is made.
func (c *FavoritesController) ToggleFavorite(movie models.Movie) (bool, error) {
	if err := movie.Validate(); err != nil {
		return false, c.fail("toggle", err)
	}

	c.mu.Lock()
	if !c.state.Ready {
		c.mu.Unlock()
		return false, c.fail("toggle", shared.ErrNotInitialized)
	}

	next := models.CloneMovies(c.state.ActiveMovies)
	if next == nil {
		next = []models.Movie{}
	}
	idx := models.IndexOfMovie(next, movie.ID)
	added := idx < 0
	if added {
		next = append(next, movie.Clone())
	} else {
		next = append(next[:idx], next[idx+1:]...)
	}

	if err := c.mirror.SaveMovies(next); err != nil {
		c.mu.Unlock()
		return false, c.fail("toggle", fmt.Errorf("%w: %w", shared.ErrLocalStorage, err))
	}
	c.state.ActiveMovies = next
	c.mu.Unlock()

	c.logger.Debug("toggled favorite", "movie_id", movie.ID, "added", added)
	sendUpdate(c.updates, toggledUpdate(movie, added))
	return added, nil
}

// ClearAllFavorites empties the active favorites and forgets the active list.
//
// Local only: saved lists on the backend are untouched.
func (c *FavoritesController) ClearAllFavorites() error {
	c.mu.Lock()
	if !c.state.Ready {
		c.mu.Unlock()
		return c.fail("clear", shared.ErrNotInitialized)
	}

	if err := c.mirror.SaveSelection("", []models.Movie{}); err != nil {
		c.mu.Unlock()
		return c.fail("clear", fmt.Errorf("%w: %w", shared.ErrLocalStorage, err))
	}
	c.state.ActiveMovies = []models.Movie{}
	c.state.ActiveListID = ""
	c.mu.Unlock()

	c.logger.Info("cleared favorites")
	sendUpdate(c.updates, clearedUpdate())
	return nil
}

// SaveActiveList persists the active movies as a new list named name.
//
// The movies are captured when the call starts; toggles made while the request
// is in flight stay in the active set. On success the new list becomes active
// and the index is refetched.
func (c *FavoritesController) SaveActiveList(ctx context.Context, name string) (*models.FavoriteList, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if !c.ready() {
		return nil, c.fail("save", shared.ErrNotInitialized)
	}

	c.mu.RLock()
	snapshot := models.CloneMovies(c.state.ActiveMovies)
	c.mu.RUnlock()

	if len(snapshot) == 0 {
		return nil, c.fail("save", shared.ErrEmptyList)
	}
	normalized, err := models.NormalizeListName(name)
	if err != nil {
		return nil, c.fail("save", err)
	}

	saved, err := c.store.Save(ctx, normalized, snapshot)
	if err != nil {
		return nil, c.fail("save", err)
	}

	c.mu.Lock()
	c.state.ActiveListID = saved.ID
	if err := c.mirror.SaveSelection(saved.ID, c.state.ActiveMovies); err != nil {
		c.logger.Warn("failed to mirror saved list", "list_id", saved.ID, "error", err)
	}
	c.mu.Unlock()

	c.logger.Info("saved list", "list_id", saved.ID, "movies", len(snapshot))

	if err := c.refreshIndex(ctx); err != nil {
		c.logger.Warn("failed to refresh lists after save", "error", err)
		c.mu.Lock()
		if models.FindList(c.state.AllLists, saved.ID) == nil {
			c.state.AllLists = append([]models.FavoriteList{*saved.Clone()}, c.state.AllLists...)
		}
		c.mu.Unlock()
	}

	sendUpdate(c.updates, savedUpdate(saved))
	return saved.Clone(), nil
}

// refreshIndex refetches AllLists without changing the selection.
func (c *FavoritesController) refreshIndex(ctx context.Context) error {
	lists, err := c.store.ListAll(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state.ListsError = UserMessage(err)
		return err
	}
	c.state.AllLists = lists
	c.state.ListsLoaded = true
	c.state.ListsError = ""
	return nil
}

// SelectList fetches list id and makes it active.
//
// On failure the previous selection is kept. A missing list triggers a
// best-effort index refresh so it disappears from AllLists.
func (c *FavoritesController) SelectList(ctx context.Context, id string) (*models.FavoriteList, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if !c.ready() {
		return nil, c.fail("select", shared.ErrNotInitialized)
	}

	list, err := c.store.Get(ctx, id)
	if err != nil {
		if services.IsNotFound(err) {
			if rerr := c.refreshIndex(ctx); rerr != nil {
				c.logger.Debug("index refresh after missing list failed", "error", rerr)
			}
		}
		return nil, c.fail("select", err)
	}

	c.mu.Lock()
	c.selectLocked(list)
	c.replaceIndexEntryLocked(list)
	c.mu.Unlock()

	c.logger.Info("selected list", "list_id", list.ID, "movies", len(list.Movies))
	sendUpdate(c.updates, selectedUpdate(list))
	return list.Clone(), nil
}

// DeleteList removes list id from the backend.
//
// A list that is already gone counts as deleted. If the active list is
// deleted, the first remaining list becomes active, or the state and mirror
// are cleared when none remain. Other failures leave the selection unchanged;
// an advisory lookup then checks whether the delete took effect anyway, and
// the index is refetched when it did not. The delete is never retried.
func (c *FavoritesController) DeleteList(ctx context.Context, id string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if !c.ready() {
		return c.fail("delete", shared.ErrNotInitialized)
	}

	err := c.store.Delete(ctx, id)
	switch {
	case err == nil:
	case services.IsNotFound(err):
		c.logger.Debug("list already deleted", "list_id", id)
	default:
		if _, gerr := c.store.Get(ctx, id); gerr == nil || !services.IsNotFound(gerr) {
			if rerr := c.refreshIndex(ctx); rerr != nil {
				c.logger.Warn("failed to refresh lists after delete failure", "error", rerr)
			}
			return c.fail("delete", err)
		}
		c.logger.Warn("delete reported failure but list is gone", "list_id", id, "error", err)
	}

	c.removeDeleted(ctx, id)
	sendUpdate(c.updates, deletedUpdate(id))
	return nil
}

// removeDeleted drops id from the index and repairs the selection.
func (c *FavoritesController) removeDeleted(ctx context.Context, id string) {
	c.mu.Lock()
	kept := c.state.AllLists[:0:0]
	for _, l := range c.state.AllLists {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	c.state.AllLists = kept

	if c.state.ActiveListID != id {
		c.mu.Unlock()
		return
	}

	if len(c.state.AllLists) == 0 {
		c.state.ActiveListID = ""
		c.state.ActiveMovies = []models.Movie{}
		if err := c.mirror.Clear(); err != nil {
			c.logger.Warn("failed to clear mirror", "error", err)
		}
		c.mu.Unlock()
		c.logger.Info("deleted last list")
		return
	}

	next := c.state.AllLists[0].Clone()
	c.selectLocked(next)
	c.mu.Unlock()

	fresh, err := c.store.Get(ctx, next.ID)
	if err != nil {
		c.logger.Warn("using index copy of next list", "list_id", next.ID, "error", err)
		return
	}

	c.mu.Lock()
	if c.state.ActiveListID == next.ID {
		c.selectLocked(fresh)
		c.replaceIndexEntryLocked(fresh)
	}
	c.mu.Unlock()
}

// Refresh refetches the list index and reapplies the selection policy,
// preferring preferredID or, when empty, the active list.
func (c *FavoritesController) Refresh(ctx context.Context, preferredID string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if !c.ready() {
		return c.fail("refresh", shared.ErrNotInitialized)
	}

	lists, err := c.store.ListAll(ctx)
	if err != nil {
		c.mu.Lock()
		c.state.ListsError = UserMessage(err)
		c.mu.Unlock()
		return c.fail("refresh", err)
	}

	c.mu.Lock()
	if preferredID == "" {
		preferredID = c.state.ActiveListID
	}
	c.state.AllLists = lists
	c.state.ListsLoaded = true
	c.state.ListsError = ""
	c.applySelectionLocked(preferredID)
	c.mu.Unlock()

	sendUpdate(c.updates, refreshedUpdate(len(lists)))
	return nil
}

// SharedList fetches a list through its public share endpoint. State is not changed.
func (c *FavoritesController) SharedList(ctx context.Context, id string) (*models.FavoriteList, error) {
	if !c.ready() {
		return nil, c.fail("shared", shared.ErrNotInitialized)
	}

	list, err := c.store.GetShared(ctx, id)
	if err != nil {
		return nil, c.fail("shared", err)
	}
	return list, nil
}
