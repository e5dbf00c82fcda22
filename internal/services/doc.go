// Package services implements the HTTP clients cinefav talks to.
//
// # Favorites Backend
//
// [FavoritesService] implements [ListStore] against the favorites REST API:
//
//	GET    /lists/         list all (bare array or {status, results})
//	GET    /{id}/          get one
//	POST   /save/          save {name, movies}
//	POST   /create/        create {name, movies}
//	DELETE /{id}/          delete
//	GET    /shared/{id}/   read-only shared view
//
// Every request carries Accept, User-Agent and a fresh X-Request-ID header.
// [FavoritesService.Raw] sends arbitrary requests for debugging.
//
// # Movie Catalog
//
// [CatalogService] implements [Catalog] for TMDB v3. Requests are paced with a
// token bucket, and movie details are memoized in an LRU with concurrent
// lookups collapsed into one request.
//
// # Error Handling
//
// Errors wrap sentinels from the shared package:
//   - [shared.ErrNetwork] : no response was received
//   - [shared.ErrAPIRequest] : non-2xx response, via [shared.APIError]
//   - [shared.ErrListNotFound] : 404 from a list endpoint
//   - [shared.ErrMalformedResponse] : 2xx with a body that could not be decoded
//   - [shared.ErrInvalidInput] : rejected before any request was sent
package services
