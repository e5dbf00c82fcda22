// Package repositories implements SQLite persistence for the cinefav client.
//
// Key Implementations:
//   - [MirrorRepository] : Durable local mirror of the active favorites and list selection
//   - [CatalogCacheRepository] : Movies previously fetched from the catalog, for offline lookups
//
// The mirror stores JSON values under fixed keys in the mirror_entries table so its
// contents survive a process restart without a network round trip. Reads fail soft:
// a missing table, missing row or corrupt value yields an empty default.
package repositories
