package tasks

import (
	"fmt"

	"github.com/desertthunder/cinefav/internal/models"
	"github.com/desertthunder/cinefav/internal/shared"
)

// Update represents a state transition reported by [FavoritesController] or a
// progress event from a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type Update struct {
	Event   Event  // What happened
	Step    int    // Current step for progress events
	Total   int    // Total steps for progress events
	Message string // Human-readable message for display
	Data    any    // Optional event-specific payload
}

// Event enumeration
type Event int

const (
	Initialized Event = iota
	FavoriteToggled
	ListSaved
	ListSelected
	ListDeleted
	FavoritesCleared
	ListsRefreshed
	OperationFailed
	ExportProgress
)

func (e Event) String() string {
	switch e {
	case Initialized:
		return "initialized"
	case FavoriteToggled:
		return "favorite_toggled"
	case ListSaved:
		return "list_saved"
	case ListSelected:
		return "list_selected"
	case ListDeleted:
		return "list_deleted"
	case FavoritesCleared:
		return "favorites_cleared"
	case ListsRefreshed:
		return "lists_refreshed"
	case OperationFailed:
		return "operation_failed"
	case ExportProgress:
		return "export_progress"
	default:
		return ""
	}
}

// sendUpdate sends an update through the channel without blocking.
func sendUpdate(ch chan<- Update, u Update) {
	if ch == nil {
		return
	}
	select {
	case ch <- u:
	default:
	}
}

func initializedUpdate(s State) Update {
	msg := fmt.Sprintf("Loaded %s", shared.Pluralize(len(s.AllLists), "list", "lists"))
	if s.ListsError != "" {
		msg = s.ListsError
	}
	return Update{Event: Initialized, Message: msg}
}

func toggledUpdate(m models.Movie, added bool) Update {
	msg := fmt.Sprintf("Removed %q from favorites", m.Title)
	if added {
		msg = fmt.Sprintf("Added %q to favorites", m.Title)
	}
	return Update{Event: FavoriteToggled, Message: msg, Data: m}
}

func savedUpdate(l *models.FavoriteList) Update {
	msg := l.Message
	if msg == "" {
		msg = fmt.Sprintf("Saved %q", l.Name)
	}
	return Update{Event: ListSaved, Message: msg, Data: l}
}

func selectedUpdate(l *models.FavoriteList) Update {
	return Update{
		Event:   ListSelected,
		Message: fmt.Sprintf("Selected %q (%s)", l.Name, shared.Pluralize(len(l.Movies), "movie", "movies")),
		Data:    l,
	}
}

func deletedUpdate(id string) Update {
	return Update{Event: ListDeleted, Message: "List deleted", Data: id}
}

func clearedUpdate() Update {
	return Update{Event: FavoritesCleared, Message: "All favorites removed"}
}

func refreshedUpdate(n int) Update {
	return Update{Event: ListsRefreshed, Message: fmt.Sprintf("Loaded %s", shared.Pluralize(n, "list", "lists"))}
}

func failedUpdate(err *UserError) Update {
	return Update{Event: OperationFailed, Message: err.Message, Data: err}
}

func exportingUpdate(step, total int, name string) Update {
	return Update{
		Event:   ExportProgress,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) Update {
	return Update{
		Event:   ExportProgress,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) Update {
	return Update{
		Event:   ExportProgress,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
