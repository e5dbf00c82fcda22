package shared

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestFormatting(t *testing.T) {
	t.Run("FormatRating", func(t *testing.T) {
		v := 7.25
		if got := FormatRating(&v); got != "7.2" && got != "7.3" {
			t.Errorf("unexpected rating %q", got)
		}
		if got := FormatRating(nil); got != "N/A" {
			t.Errorf("expected N/A, got %q", got)
		}
	})

	t.Run("ReleaseYear", func(t *testing.T) {
		d := "1999-03-31"
		if got := ReleaseYear(&d); got != "1999" {
			t.Errorf("expected 1999, got %q", got)
		}
		empty := ""
		if got := ReleaseYear(&empty); got != "N/A" {
			t.Errorf("expected N/A, got %q", got)
		}
		if got := ReleaseYear(nil); got != "N/A" {
			t.Errorf("expected N/A, got %q", got)
		}
	})

	t.Run("Pluralize", func(t *testing.T) {
		tc := []struct {
			n    int
			want string
		}{
			{0, "0 movies"},
			{1, "1 movie"},
			{2, "2 movies"},
		}
		for _, tt := range tc {
			if got := Pluralize(tt.n, "movie", "movies"); got != tt.want {
				t.Errorf("Pluralize(%d) = %q, want %q", tt.n, got, tt.want)
			}
		}
	})

	t.Run("Truncate", func(t *testing.T) {
		tc := []struct {
			name string
			in   string
			n    int
			want string
		}{
			{name: "short", in: "Alien", n: 10, want: "Alien"},
			{name: "cut", in: "The Shawshank Redemption", n: 8, want: "The Sha…"},
			{name: "multibyte", in: "Cidade de Deus", n: 5, want: "Cida…"},
			{name: "zero", in: "Heat", n: 0, want: "Heat"},
		}
		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				if got := Truncate(tt.in, tt.n); got != tt.want {
					t.Errorf("Truncate() = %q, want %q", got, tt.want)
				}
			})
		}
	})
}

func TestShareLink(t *testing.T) {
	tc := []struct {
		name     string
		base     string
		shareURL string
		id       string
		want     string
		wantErr  error
	}{
		{
			name:     "relative share url",
			base:     "http://localhost:3000",
			shareURL: "/shared/abc",
			want:     "http://localhost:3000/shared/abc",
		},
		{
			name: "derived from id",
			base: "https://fav.example.com/",
			id:   "123e4567",
			want: "https://fav.example.com/shared/123e4567",
		},
		{
			name:     "absolute share url kept",
			base:     "http://localhost:3000",
			shareURL: "https://other.example.com/shared/x",
			want:     "https://other.example.com/shared/x",
		},
		{
			name:    "missing id",
			base:    "http://localhost:3000",
			wantErr: ErrInvalidArgument,
		},
		{
			name:    "relative base",
			base:    "localhost",
			id:      "abc",
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ShareLink(tt.base, tt.shareURL, tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ShareLink() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIError(t *testing.T) {
	err := fmt.Errorf("save failed: %w", &APIError{StatusCode: 500, Message: "boom"})

	if !errors.Is(err, ErrAPIRequest) {
		t.Error("APIError should unwrap to ErrAPIRequest")
	}
	if StatusCode(err) != 500 {
		t.Errorf("expected status 500, got %d", StatusCode(err))
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected message in error, got %q", err.Error())
	}
	if StatusCode(errors.New("plain")) != 0 {
		t.Error("expected 0 status for non-API error")
	}

	bare := &APIError{StatusCode: 502}
	if !strings.Contains(bare.Error(), "status 502") {
		t.Errorf("expected status in bare error, got %q", bare.Error())
	}
}

func TestLogger(t *testing.T) {
	t.Run("WithLogger", func(t *testing.T) {
		var buf bytes.Buffer
		l := WithLogger(NewLogger(&buf), "component", "test")
		l.Info("hello")

		if !strings.Contains(buf.String(), "component=test") {
			t.Errorf("expected child logger fields, got %q", buf.String())
		}
	})

	t.Run("ParseLevel", func(t *testing.T) {
		lvl, err := ParseLevel("DEBUG")
		if err != nil || lvl != log.DebugLevel {
			t.Errorf("expected debug level, got %v (%v)", lvl, err)
		}

		lvl, err = ParseLevel("")
		if err != nil || lvl != log.InfoLevel {
			t.Errorf("expected info level for empty input, got %v (%v)", lvl, err)
		}

		if _, err := ParseLevel("loud"); !errors.Is(err, ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("GenerateID", func(t *testing.T) {
		a, b := GenerateID(), GenerateID()
		if a == b || len(a) != 36 {
			t.Errorf("expected distinct uuids, got %q and %q", a, b)
		}
	})
}

func TestOpenBrowser(t *testing.T) {
	var started []string
	origStart, origRuntime := startCommand, getRuntime
	t.Cleanup(func() { startCommand, getRuntime = origStart, origRuntime })

	startCommand = func(cmd *exec.Cmd) error {
		started = append(started, strings.Join(cmd.Args, " "))
		return nil
	}

	t.Run("linux", func(t *testing.T) {
		getRuntime = func() string { return "linux" }
		if err := OpenBrowser("http://localhost:3000/shared/abc"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(started) != 1 || started[0] != "xdg-open http://localhost:3000/shared/abc" {
			t.Errorf("unexpected command %v", started)
		}
	})

	t.Run("rejects non-web urls", func(t *testing.T) {
		getRuntime = func() string { return "linux" }
		if err := OpenBrowser("file:///etc/passwd"); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("unsupported platform", func(t *testing.T) {
		getRuntime = func() string { return "plan9" }
		if err := OpenBrowser("https://example.com"); err == nil {
			t.Error("expected error for unsupported platform")
		}
	})
}
