// TMDB v3 [Catalog] implementation
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/desertthunder/cinefav/internal/models"
	"github.com/desertthunder/cinefav/internal/shared"
)

const (
	defaultTMDBBaseURL  = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p"
	defaultPosterSize   = "w500"
	defaultCacheSize    = 128
	defaultRateLimit    = 4

	// PlaceholderPoster is shown for movies without artwork.
	PlaceholderPoster = "https://via.placeholder.com/500x750?text=No+Image"

	detailsAppend = "credits,videos,similar,reviews"
)

var _ Catalog = (*CatalogService)(nil)

// CatalogOptions configures a [CatalogService]. Zero values use defaults.
type CatalogOptions struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Language     string
	RateLimit    float64 // requests per second
	CacheSize    int     // movie details kept in memory
	Client       *http.Client
}

// CatalogService implements [Catalog] for The Movie Database.
//
// Requests are paced by a token bucket. Movie details are memoized in a
// bounded LRU and concurrent lookups of the same id share one request.
type CatalogService struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	language     string
	httpClient   *http.Client
	limiter      *rate.Limiter
	details      *lru.Cache[int, *models.MovieDetails]
	inflight     singleflight.Group
}

// NewCatalogService creates a new TMDB client.
func NewCatalogService(opts CatalogOptions) (*CatalogService, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultTMDBBaseURL
	}
	if opts.ImageBaseURL == "" {
		opts.ImageBaseURL = defaultImageBaseURL
	}
	if opts.Language == "" {
		opts.Language = shared.DefaultLanguage
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}

	cache, err := lru.New[int, *models.MovieDetails](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create details cache: %w", err)
	}

	return &CatalogService{
		apiKey:       strings.TrimSpace(opts.APIKey),
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(opts.ImageBaseURL, "/"),
		language:     opts.Language,
		httpClient:   opts.Client,
		limiter:      rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		details:      cache,
	}, nil
}

// SearchMovies calls /search/movie, excluding adult titles.
func (c *CatalogService) SearchMovies(ctx context.Context, query string, page int) (*models.SearchPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", shared.ErrInvalidInput)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	params.Set("page", strconv.Itoa(normalizePage(page)))

	var result models.SearchPage
	if err := c.doRequest(ctx, "/search/movie", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PopularMovies calls /movie/popular.
func (c *CatalogService) PopularMovies(ctx context.Context, page int) (*models.SearchPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(normalizePage(page)))

	var result models.SearchPage
	if err := c.doRequest(ctx, "/movie/popular", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MovieDetails calls /movie/{id} with credits, videos, similar titles and reviews appended.
//
// The returned value is shared with the cache and must not be modified.
func (c *CatalogService) MovieDetails(ctx context.Context, id int) (*models.MovieDetails, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: movie id must be positive", shared.ErrInvalidInput)
	}
	if d, ok := c.details.Get(id); ok {
		return d, nil
	}

	v, err, _ := c.inflight.Do(strconv.Itoa(id), func() (any, error) {
		params := url.Values{}
		params.Set("append_to_response", detailsAppend)

		var d models.MovieDetails
		if err := c.doRequest(ctx, "/movie/"+strconv.Itoa(id), params, &d); err != nil {
			if shared.StatusCode(err) == http.StatusNotFound {
				return nil, fmt.Errorf("%w: %d", shared.ErrMovieNotFound, id)
			}
			return nil, err
		}

		c.details.Add(id, &d)
		return &d, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.MovieDetails), nil
}

// Trailers returns the YouTube trailers for a movie.
func (c *CatalogService) Trailers(ctx context.Context, id int) ([]models.Video, error) {
	d, err := c.MovieDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	trailers := []models.Video{}
	for _, v := range d.Videos.Results {
		if v.IsYouTubeTrailer() {
			trailers = append(trailers, v)
		}
	}
	return trailers, nil
}

// ImageURL builds an image link for a poster or profile path.
//
// Empty paths yield [PlaceholderPoster]; an empty size uses w500.
func (c *CatalogService) ImageURL(path *string, size string) string {
	return ImageURL(c.imageBaseURL, path, size)
}

// ImageURL joins base, size and path into an image link.
func ImageURL(base string, path *string, size string) string {
	if path == nil || *path == "" {
		return PlaceholderPoster
	}
	if size == "" {
		size = defaultPosterSize
	}
	if base == "" {
		base = defaultImageBaseURL
	}
	return strings.TrimRight(base, "/") + "/" + size + *path
}

// YouTubeURL builds a watch link for a video key.
func YouTubeURL(key string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(key)
}

// CachedDetails reports how many movie details are memoized.
func (c *CatalogService) CachedDetails() int {
	return c.details.Len()
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func (c *CatalogService) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	if c.apiKey == "" {
		return shared.ErrMissingAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %w", shared.ErrNetwork, redactKey(err, c.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			StatusMessage string `json:"status_message"`
		}
		apiErr := &shared.APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			apiErr.Message = errResp.StatusMessage
		}
		return fmt.Errorf("catalog: %w", apiErr)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrMalformedResponse, err)
	}
	return nil
}

// redactKey keeps the API key out of transport errors, which embed the request URL.
func redactKey(err error, key string) error {
	var urlErr *url.Error
	if key != "" && errors.As(err, &urlErr) {
		return &url.Error{Op: urlErr.Op, URL: strings.ReplaceAll(urlErr.URL, key, "REDACTED"), Err: urlErr.Err}
	}
	return err
}
