// Package models defines the domain entities shared by the cinefav client.
//
// The package contains two categories of types:
//
// 1. Favorites: the entities synchronized with the favorites backend
//   - [Movie] : A movie snapshot copied from the catalog when favorited
//   - [FavoriteList] : A named, backend-persisted list of movies
//
// 2. Catalog DTOs: read-only shapes returned by the movie catalog
//   - [SearchPage] : One page of search or popular results
//   - [MovieDetails] : Full movie record with credits, videos, reviews and similar titles
//
// Entities implement [Validator]; validation rules are declared as struct tags.
package models
