// package repositories provides persistence layer implementations for the local mirror and catalog cache.
package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var errNoEntry = errors.New("entry not found")

// getEntry reads the raw value stored under key in mirror_entries.
func getEntry(db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRow("SELECT value FROM mirror_entries WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errNoEntry
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

// putEntries upserts every key/value pair in a single transaction.
func putEntries(db *sql.DB, entries map[string]string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for key, value := range entries {
		_, err := tx.Exec(`
			INSERT INTO mirror_entries (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`, key, value, now)
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit mirror transaction: %w", err)
	}
	return nil
}

// deleteEntries removes keys from mirror_entries. Missing keys are not an error.
func deleteEntries(db *sql.DB, keys ...string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, key := range keys {
		if _, err := tx.Exec("DELETE FROM mirror_entries WHERE key = ?", key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit mirror transaction: %w", err)
	}
	return nil
}
