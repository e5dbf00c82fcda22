// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for managing favorite movies:
//  1. [FavoritesView] : Browse the active favorites, remove them, save them as a list
//  2. [ListsView] : Browse saved lists, select one to make it active, delete lists
//  3. [SearchView] : Search the TMDB catalog and toggle favorites from the results
//  4. [SaveView] : Name the list before saving
//  5. [ConfirmView] : Confirm destructive actions (delete list, clear favorites)
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Every state change goes through [tasks.FavoritesController]; its updates arrive on a channel and are rendered as status messages.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
