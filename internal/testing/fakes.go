package testing

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/desertthunder/cinefav/internal/models"
	"github.com/desertthunder/cinefav/internal/shared"
)

// Movie builds a valid movie for tests.
func Movie(id int, title string) models.Movie {
	return models.Movie{ID: id, Title: title, VoteAverage: models.FloatPtr(7)}
}

// List builds a saved list for tests.
func List(id, name string, movies ...models.Movie) models.FavoriteList {
	if movies == nil {
		movies = []models.Movie{}
	}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return models.FavoriteList{ID: id, Name: name, Movies: movies, CreatedAt: now, UpdatedAt: now}
}

// NotFound mimics the error a store returns for a missing list.
func NotFound(id string) error {
	return fmt.Errorf("%w: %w", shared.ErrListNotFound, &shared.APIError{StatusCode: http.StatusNotFound, Message: "Lista não encontrada " + id})
}

// MockListStore is an in-memory test double for services.ListStore.
//
// Lists are kept newest first, like the backend. Setting an *Err field makes
// the matching method fail with it.
type MockListStore struct {
	mu     sync.Mutex
	Lists  []models.FavoriteList
	calls  []string
	nextID int

	ListAllErr error
	GetErr     error
	SaveErr    error
	CreateErr  error
	DeleteErr  error
	SharedErr  error

	// DeleteApplies removes the list even when DeleteErr is returned,
	// as when a response is lost after the server acted.
	DeleteApplies bool

	// SaveHook runs inside Save before the list is stored.
	SaveHook func(name string, movies []models.Movie)
}

// NewMockListStore creates a store seeded with lists in server order.
func NewMockListStore(lists ...models.FavoriteList) *MockListStore {
	return &MockListStore{Lists: models.CloneLists(lists)}
}

func (m *MockListStore) record(call string) {
	m.calls = append(m.calls, call)
}

// Calls returns the recorded method names in order.
func (m *MockListStore) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// CallCount returns how many times method was called.
func (m *MockListStore) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == method {
			n++
		}
	}
	return n
}

// Snapshot returns a copy of the stored lists.
func (m *MockListStore) Snapshot() []models.FavoriteList {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.CloneLists(m.Lists)
}

func (m *MockListStore) ListAll(ctx context.Context) ([]models.FavoriteList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListAll")
	if m.ListAllErr != nil {
		return nil, m.ListAllErr
	}
	out := models.CloneLists(m.Lists)
	if out == nil {
		out = []models.FavoriteList{}
	}
	return out, nil
}

func (m *MockListStore) Get(ctx context.Context, id string) (*models.FavoriteList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Get")
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	l := models.FindList(m.Lists, id)
	if l == nil {
		return nil, NotFound(id)
	}
	return l.Clone(), nil
}

func (m *MockListStore) Save(ctx context.Context, name string, movies []models.Movie) (*models.FavoriteList, error) {
	if m.SaveHook != nil {
		m.SaveHook(name, movies)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Save")
	if m.SaveErr != nil {
		return nil, m.SaveErr
	}

	normalized, err := models.NormalizeListName(name)
	if err != nil {
		return nil, err
	}

	m.nextID++
	l := List(fmt.Sprintf("list-%d", m.nextID), normalized, models.CloneMovies(movies)...)
	m.Lists = append([]models.FavoriteList{l}, m.Lists...)

	resp := l.Clone()
	resp.ShareURL = shared.SharePath(l.ID)
	resp.Message = "Lista salva com sucesso!"
	return resp, nil
}

func (m *MockListStore) Create(ctx context.Context, list *models.FavoriteList) (*models.FavoriteList, error) {
	m.mu.Lock()
	if err := m.CreateErr; err != nil {
		m.record("Create")
		m.mu.Unlock()
		return nil, err
	}
	m.mu.Unlock()
	return m.Save(ctx, list.Name, list.Movies)
}

func (m *MockListStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Delete")

	idx := -1
	for i := range m.Lists {
		if m.Lists[i].ID == id {
			idx = i
			break
		}
	}

	if m.DeleteErr != nil {
		if m.DeleteApplies && idx >= 0 {
			m.Lists = append(m.Lists[:idx], m.Lists[idx+1:]...)
		}
		return m.DeleteErr
	}
	if idx < 0 {
		return NotFound(id)
	}
	m.Lists = append(m.Lists[:idx], m.Lists[idx+1:]...)
	return nil
}

func (m *MockListStore) GetShared(ctx context.Context, id string) (*models.FavoriteList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetShared")
	if m.SharedErr != nil {
		return nil, m.SharedErr
	}
	l := models.FindList(m.Lists, id)
	if l == nil {
		return nil, NotFound(id)
	}
	return l.Clone(), nil
}

// MemoryMirror is an in-memory stand-in for the SQLite mirror.
type MemoryMirror struct {
	mu       sync.Mutex
	movies   []models.Movie
	lastID   string
	writes   int
	WriteErr error
}

// NewMemoryMirror creates a mirror preloaded with movies and lastID.
func NewMemoryMirror(movies []models.Movie, lastID string) *MemoryMirror {
	return &MemoryMirror{movies: models.CloneMovies(movies), lastID: lastID}
}

func (m *MemoryMirror) Load() ([]models.Movie, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	movies := models.CloneMovies(m.movies)
	if movies == nil {
		movies = []models.Movie{}
	}
	return movies, m.lastID
}

func (m *MemoryMirror) SaveMovies(movies []models.Movie) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.writes++
	m.movies = models.CloneMovies(movies)
	if m.movies == nil {
		m.movies = []models.Movie{}
	}
	return nil
}

func (m *MemoryMirror) SetLastListID(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.writes++
	m.lastID = id
	return nil
}

func (m *MemoryMirror) SaveSelection(id string, movies []models.Movie) error {
	if err := m.SaveMovies(movies); err != nil {
		return err
	}
	return m.SetLastListID(id)
}

func (m *MemoryMirror) ClearLastListID() error {
	return m.SetLastListID("")
}

func (m *MemoryMirror) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.writes++
	m.movies = []models.Movie{}
	m.lastID = ""
	return nil
}

// Writes returns how many successful writes the mirror received.
func (m *MemoryMirror) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// MockCatalog is a test double for services.Catalog backed by a fixed set of movies.
type MockCatalog struct {
	Movies  []models.Movie
	Videos  map[int][]models.Video
	Err     error
	Queries []string
}

func (c *MockCatalog) SearchMovies(ctx context.Context, query string, page int) (*models.SearchPage, error) {
	c.Queries = append(c.Queries, query)
	if c.Err != nil {
		return nil, c.Err
	}
	return &models.SearchPage{Page: 1, TotalPages: 1, TotalResults: len(c.Movies), Results: models.CloneMovies(c.Movies)}, nil
}

func (c *MockCatalog) PopularMovies(ctx context.Context, page int) (*models.SearchPage, error) {
	return c.SearchMovies(ctx, "", page)
}

func (c *MockCatalog) MovieDetails(ctx context.Context, id int) (*models.MovieDetails, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	for _, m := range c.Movies {
		if m.ID == id {
			d := &models.MovieDetails{Movie: m.Clone()}
			d.Videos.Results = c.Videos[id]
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", shared.ErrMovieNotFound, id)
}

func (c *MockCatalog) Trailers(ctx context.Context, id int) ([]models.Video, error) {
	d, err := c.MovieDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	out := []models.Video{}
	for _, v := range d.Videos.Results {
		if v.IsYouTubeTrailer() {
			out = append(out, v)
		}
	}
	return out, nil
}
