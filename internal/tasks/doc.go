// Package tasks orchestrates favorite-list operations between the local mirror and the list backend.
//
// # Controller
//
// [FavoritesController] is the single entry point for the CLI and TUI. It owns
// the active favorites, the id of the active saved list and the index of all
// saved lists:
//
//  1. [FavoritesController.Initialize] : load the mirror, fetch the index, pick the active list
//  2. [FavoritesController.ToggleFavorite] : local add/remove, written through to the mirror
//  3. [FavoritesController.SaveActiveList] : persist the active movies, then refetch the index
//  4. [FavoritesController.SelectList] : fetch a list and make it active
//  5. [FavoritesController.DeleteList] : delete a list and repair the selection
//  6. [FavoritesController.ClearAllFavorites] : local reset, saved lists are untouched
//
// Every failure is returned as a [*UserError] whose message is safe to show.
//
// # Progress Reporting
//
// State transitions and export progress are reported as [Update] values on an
// optional channel. Sends use select with default and never block.
//
// # Export
//
// [ExportLists] writes saved lists to disk with a rate-limited fetch loop, a
// worker pool and a manifest.json summary.
package tasks
