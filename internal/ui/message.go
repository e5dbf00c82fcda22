package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/cinefav/internal/models"
	"github.com/desertthunder/cinefav/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgOperationDone MsgKind = iota
	MsgControllerUpdate
	MsgSearchResults
	MsgUpdatesClosed
)

type operationResult struct {
	op  string
	err error
}

type searchResult struct {
	query string
	page  *models.SearchPage
	err   error
}

// operationDoneMsg is the constructor for [MsgOperationDone]
func operationDoneMsg(op string, err error) Msg {
	return Msg{kind: MsgOperationDone, data: operationResult{op: op, err: err}}
}

// controllerUpdateMsg is the constructor for [MsgControllerUpdate]
func controllerUpdateMsg(u tasks.Update) Msg {
	return Msg{kind: MsgControllerUpdate, data: u}
}

// searchResultsMsg is the constructor for [MsgSearchResults]
func searchResultsMsg(query string, page *models.SearchPage, err error) Msg {
	return Msg{kind: MsgSearchResults, data: searchResult{query: query, page: page, err: err}}
}
