package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/cinefav/internal/models"
	"github.com/desertthunder/cinefav/internal/shared"
)

const (
	defaultFavoritesBaseURL = shared.DefaultBackendURL
	userAgent               = "cinefav/1.0"
)

var _ ListStore = (*FavoritesService)(nil)

// FavoritesService implements [ListStore] against the favorites REST API.
type FavoritesService struct {
	baseURL    string
	httpClient *http.Client
}

// NewFavoritesService creates a new favorites backend client.
//
// An empty baseURL uses the local development server; a nil client uses [http.DefaultClient].
func NewFavoritesService(baseURL string, client *http.Client) *FavoritesService {
	if baseURL == "" {
		baseURL = defaultFavoritesBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &FavoritesService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// BaseURL returns the API root requests are sent to.
func (f *FavoritesService) BaseURL() string { return f.baseURL }

type saveRequest struct {
	Name   string         `json:"name"`
	Movies []models.Movie `json:"movies"`
}

// ListAll calls GET /lists/.
//
// The backend answers with either a bare array or an envelope of the form
// {"status": ..., "results": [...]}; both are accepted.
func (f *FavoritesService) ListAll(ctx context.Context) ([]models.FavoriteList, error) {
	var raw json.RawMessage
	if err := f.doRequest(ctx, http.MethodGet, "/lists/", nil, &raw); err != nil {
		return nil, err
	}
	return decodeListIndex(raw)
}

func decodeListIndex(raw json.RawMessage) ([]models.FavoriteList, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty list index", shared.ErrMalformedResponse)
	}

	switch trimmed[0] {
	case '[':
		var lists []models.FavoriteList
		if err := json.Unmarshal(trimmed, &lists); err != nil {
			return nil, fmt.Errorf("%w: failed to decode list index: %v", shared.ErrMalformedResponse, err)
		}
		if lists == nil {
			lists = []models.FavoriteList{}
		}
		return lists, nil
	case '{':
		var envelope struct {
			Status  string                 `json:"status"`
			Results *[]models.FavoriteList `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("%w: failed to decode list index: %v", shared.ErrMalformedResponse, err)
		}
		if envelope.Results == nil {
			return nil, fmt.Errorf("%w: list index has no results", shared.ErrMalformedResponse)
		}
		if *envelope.Results == nil {
			return []models.FavoriteList{}, nil
		}
		return *envelope.Results, nil
	default:
		return nil, fmt.Errorf("%w: unexpected list index shape", shared.ErrMalformedResponse)
	}
}

// Get calls GET /{id}/.
func (f *FavoritesService) Get(ctx context.Context, id string) (*models.FavoriteList, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}

	var list models.FavoriteList
	if err := f.doRequest(ctx, http.MethodGet, listPath(id), nil, &list); err != nil {
		return nil, notFound(err)
	}
	return checkList(&list)
}

// Save calls POST /save/ with {name, movies}.
//
// A blank name is replaced with [models.DefaultListName]. Names over
// [models.MaxListNameLength] runes and invalid movies are rejected before any request.
func (f *FavoritesService) Save(ctx context.Context, name string, movies []models.Movie) (*models.FavoriteList, error) {
	body, err := buildSaveRequest(name, movies)
	if err != nil {
		return nil, err
	}

	var list models.FavoriteList
	if err := f.doRequest(ctx, http.MethodPost, "/save/", body, &list); err != nil {
		return nil, err
	}
	return checkList(&list)
}

// Create calls POST /create/ with {name, movies}.
func (f *FavoritesService) Create(ctx context.Context, list *models.FavoriteList) (*models.FavoriteList, error) {
	if list == nil {
		return nil, fmt.Errorf("%w: list is required", shared.ErrInvalidInput)
	}
	body, err := buildSaveRequest(list.Name, list.Movies)
	if err != nil {
		return nil, err
	}

	var created models.FavoriteList
	if err := f.doRequest(ctx, http.MethodPost, "/create/", body, &created); err != nil {
		return nil, err
	}
	return checkList(&created)
}

// Delete calls DELETE /{id}/. Any 2xx body, including none, is success.
func (f *FavoritesService) Delete(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	if err := f.doRequest(ctx, http.MethodDelete, listPath(id), nil, nil); err != nil {
		return notFound(err)
	}
	return nil
}

// GetShared calls GET /shared/{id}/.
func (f *FavoritesService) GetShared(ctx context.Context, id string) (*models.FavoriteList, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}

	var list models.FavoriteList
	if err := f.doRequest(ctx, http.MethodGet, "/shared/"+url.PathEscape(id)+"/", nil, &list); err != nil {
		return nil, notFound(err)
	}
	return checkList(&list)
}

func buildSaveRequest(name string, movies []models.Movie) (*saveRequest, error) {
	normalized, err := models.NormalizeListName(name)
	if err != nil {
		return nil, err
	}

	if movies == nil {
		movies = []models.Movie{}
	}
	for _, m := range movies {
		if err := m.Validate(); err != nil {
			return nil, err
		}
	}
	return &saveRequest{Name: normalized, Movies: movies}, nil
}

func listPath(id string) string {
	return "/" + url.PathEscape(id) + "/"
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: list id is required", shared.ErrInvalidInput)
	}
	return nil
}

// checkList rejects responses that decoded but carry no list id.
func checkList(list *models.FavoriteList) (*models.FavoriteList, error) {
	if list.ID == "" {
		return nil, fmt.Errorf("%w: list has no id", shared.ErrMalformedResponse)
	}
	if list.Movies == nil {
		list.Movies = []models.Movie{}
	}
	return list, nil
}

// notFound tags 404 responses with [shared.ErrListNotFound].
func notFound(err error) error {
	if shared.StatusCode(err) == http.StatusNotFound {
		return fmt.Errorf("%w: %w", shared.ErrListNotFound, err)
	}
	return err
}

func (f *FavoritesService) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, f.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", shared.GenerateID())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (f *FavoritesService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := f.newRequest(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %w", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %w", shared.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return responseError(resp.StatusCode, data)
	}

	if result == nil {
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: empty response body", shared.ErrMalformedResponse)
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrMalformedResponse, err)
	}
	return nil
}

// responseError builds an [shared.APIError] from a non-2xx response,
// reading the message from an error, detail or message field.
func responseError(status int, body []byte) error {
	var payload struct {
		Error   string `json:"error"`
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}

	apiErr := &shared.APIError{StatusCode: status}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, msg := range []string{payload.Error, payload.Detail, payload.Message} {
			if msg != "" {
				apiErr.Message = msg
				break
			}
		}
	}

	if status == http.StatusServiceUnavailable {
		return fmt.Errorf("%w: %w", shared.ErrServiceUnavailable, apiErr)
	}
	return apiErr
}

// IsNotFound reports whether err means the requested list does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, shared.ErrListNotFound)
}
