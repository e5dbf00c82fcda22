// Package testing holds test doubles and assertions shared by the cinefav
// package tests.
package testing

import (
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
)

// ErrWriteFailed is returned by the failing writers.
var ErrWriteFailed = errors.New("write failed")

// FWriter rejects every write.
type FWriter struct{}

func (f *FWriter) Write(p []byte) (int, error) {
	return 0, ErrWriteFailed
}

// FailAfterWriter forwards the first n writes to target and fails the rest.
type FailAfterWriter struct {
	remaining int
	target    io.Writer
}

func NewFailAfterWriter(n int, target io.Writer) *FailAfterWriter {
	return &FailAfterWriter{remaining: n, target: target}
}

func (w *FailAfterWriter) Write(p []byte) (int, error) {
	if w.remaining <= 0 {
		return 0, ErrWriteFailed
	}
	w.remaining--
	return w.target.Write(p)
}

// MockRoundTripper answers every request with a fixed response or error and
// records the requests it saw.
type MockRoundTripper struct {
	mu       sync.Mutex
	response *http.Response
	err      error
	requests []*http.Request
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.response != nil {
		m.response.Request = req
	}
	return m.response, m.err
}

// Requests returns the requests seen so far.
func (m *MockRoundTripper) Requests() []*http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*http.Request(nil), m.requests...)
}

// BrokenBody is a response body whose reads always fail.
type BrokenBody struct{}

func (BrokenBody) Read(p []byte) (int, error) { return 0, errors.New("read failed") }

func (BrokenBody) Close() error { return nil }

// InDir switches the working directory for the rest of the test.
func InDir(t *testing.T, dir string) {
	t.Helper()
	t.Chdir(dir)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	switch {
	case err != nil:
		t.Errorf("expected file %s: %v", path, err)
	case info.IsDir():
		t.Errorf("expected file, %s is a directory", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	switch {
	case err != nil:
		t.Errorf("expected directory %s: %v", path, err)
	case !info.IsDir():
		t.Errorf("expected directory, %s is a file", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(content)
}

// AssertContains fails the test when any of the substrings is missing from s.
func AssertContains(t *testing.T, s string, subs ...string) {
	t.Helper()
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			t.Errorf("expected %q in:\n%s", sub, s)
		}
	}
}
