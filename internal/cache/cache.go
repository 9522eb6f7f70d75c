// Package cache memoizes a deducer run's nine text artifacts in a
// small sqlite table, keyed by a content hash of the Importer fact
// base's class hierarchy and module names plus the codegen version
// (see Fingerprint), so a re-run with the same key can skip straight
// to its prior output.
//
// Re-homed from the teacher's internal/ext/cache.go (a file-based
// binary cache keyed on a sha256 of funxy.yaml + target platform) onto
// a sqlite table, since the deducer's cache key space (fact-base
// fingerprints, not build targets) and payload (structured artifact
// text, not a binary) fit a small relational row better than loose
// files in a directory.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/lichen-lang/lichen/internal/importer"
)

// codegenVersion is bumped when the deducer's output record formats
// change, invalidating every prior cache row regardless of fingerprint.
const codegenVersion = "v1"

// Cache wraps a sqlite-backed store of deducer runs.
type Cache struct {
	db *sql.DB
}

// Open creates (if necessary) and opens the sqlite database at path,
// ensuring the runs table exists.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: opening %s: %w", path, err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	fingerprint TEXT PRIMARY KEY,
	run_id      TEXT NOT NULL,
	artifacts   BLOB NOT NULL,
	created_at  INTEGER NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: creating schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Fingerprint computes a deterministic content hash of imp's class
// hierarchy and module set: class names, their base names, and module
// names, plus codegenVersion. Usage, accessor, alias, attribute and
// object facts are not hashed, so two Importers that differ only in
// those facts fingerprint identically and share one cache row.
func Fingerprint(imp importer.Importer) string {
	h := sha256.New()
	classes := append([]string(nil), imp.ClassNames()...)
	sort.Strings(classes)
	for _, class := range classes {
		h.Write([]byte(class))
		h.Write([]byte{0})
		bases := imp.Classes(class)
		baseNames := make([]string, 0, len(bases))
		for _, b := range bases {
			baseNames = append(baseNames, b.Origin())
		}
		sort.Strings(baseNames)
		for _, b := range baseNames {
			h.Write([]byte(b))
			h.Write([]byte{0})
		}
		h.Write([]byte{0xff})
	}

	var modules []string
	for name := range imp.Modules() {
		modules = append(modules, name)
	}
	sort.Strings(modules)
	for _, m := range modules {
		h.Write([]byte(m))
		h.Write([]byte{0})
	}

	h.Write([]byte(codegenVersion))
	return hex.EncodeToString(h.Sum(nil))[:32]
}

// Lookup returns the cached artifact payload for fingerprint, if
// present.
func (c *Cache) Lookup(fingerprint string) ([]byte, bool, error) {
	var artifacts []byte
	err := c.db.QueryRow(`SELECT artifacts FROM runs WHERE fingerprint = ?`, fingerprint).Scan(&artifacts)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: lookup %s: %w", fingerprint, err)
	}
	return artifacts, true, nil
}

// Store records artifacts under fingerprint, stamped with a fresh run
// ID, replacing any prior row for the same fingerprint.
func (c *Cache) Store(fingerprint string, artifacts []byte) (runID uuid.UUID, err error) {
	runID = uuid.New()
	_, err = c.db.Exec(
		`INSERT INTO runs (fingerprint, run_id, artifacts, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(fingerprint) DO UPDATE SET run_id = excluded.run_id, artifacts = excluded.artifacts, created_at = excluded.created_at`,
		fingerprint, runID.String(), artifacts, time.Now().Unix(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("cache: storing %s: %w", fingerprint, err)
	}
	return runID, nil
}
