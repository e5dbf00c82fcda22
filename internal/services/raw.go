package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/cinefav/internal/shared"
)

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Raw sends an arbitrary request to the favorites backend and returns the
// response without interpreting the status code.
//
// path is relative to the API root. body, if non-empty, is sent as JSON.
func (f *FavoritesService) Raw(ctx context.Context, method, path string, body []byte) (*APIResponse, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var reader io.Reader
	if len(body) > 0 {
		if !json.Valid(body) {
			return nil, fmt.Errorf("%w: request body is not valid JSON", shared.ErrInvalidInput)
		}
		reader = bytes.NewReader(body)
	}

	req, err := f.newRequest(ctx, method, path, reader)
	if err != nil {
		return nil, err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}

	var jsonData any
	if err := json.Unmarshal(data, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// Pretty returns the body indented when it is JSON, otherwise as-is.
func (r *APIResponse) Pretty() string {
	if !r.IsJSON {
		return string(r.Body)
	}
	out, err := json.MarshalIndent(r.JSONData, "", "  ")
	if err != nil {
		return string(r.Body)
	}
	return string(out)
}
