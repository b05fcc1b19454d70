package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/cleverdevil/pseudonym/internal/model"
)

// dbFileName is the SQLite database file name inside the data directory.
const dbFileName = "pseudonym.db"

// IdentityDB provides SQLite-based storage for resolved identity records.
// It manages connection pooling and provides the get/upsert/search contract
// the resolver depends on.
//
// Lifecycle: open once at process start (Open), inject into the resolver,
// close at shutdown (Close). There is no global database state.
type IdentityDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures IdentityDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an IdentityDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*IdentityDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single connection avoids
	// SQLITE_BUSY under concurrent upserts.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	idb := &IdentityDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := idb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return idb, nil
}

// Close closes the database connection.
func (idb *IdentityDB) Close() error {
	return idb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (idb *IdentityDB) createTables() error {
	schema := `
	-- Identity records keyed by canonical URL
	CREATE TABLE IF NOT EXISTS identities (
		url TEXT PRIMARY KEY,
		name TEXT,
		nicknames TEXT,
		timestamp REAL NOT NULL,
		pseudonyms TEXT NOT NULL
	);

	-- Legacy records keyed by bare domain (no nicknames in this format)
	CREATE TABLE IF NOT EXISTS domains (
		domain TEXT PRIMARY KEY,
		name TEXT,
		timestamp REAL NOT NULL,
		pseudonyms TEXT NOT NULL
	);

	-- FTS5 shadow tables for full-text search; kept in sync by the
	-- upsert methods. Ranking is delegated to bm25.
	CREATE VIRTUAL TABLE IF NOT EXISTS identities_fts
		USING fts5(url, name, nicknames, usernames);
	CREATE VIRTUAL TABLE IF NOT EXISTS domains_fts
		USING fts5(domain, name, usernames);
	`

	_, err := idb.db.ExecContext(context.Background(), schema)
	return err
}

// Get retrieves an identity record by canonical URL.
// Returns (nil, nil) when no record exists.
func (idb *IdentityDB) Get(ctx context.Context, url string) (*model.Record, error) {
	query := `
	SELECT url, name, nicknames, timestamp, pseudonyms
	FROM identities
	WHERE url = ?
	`

	var (
		rec            model.Record
		name           sql.NullString
		nicknamesJSON  sql.NullString
		pseudonymsJSON string
	)

	err := idb.db.QueryRowContext(ctx, query, url).Scan(
		&rec.URL, &name, &nicknamesJSON, &rec.Timestamp, &pseudonymsJSON,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get identity record: %w", err)
	}

	if name.Valid {
		rec.Name = &name.String
	}
	if nicknamesJSON.Valid && nicknamesJSON.String != "" {
		if err := json.Unmarshal([]byte(nicknamesJSON.String), &rec.Nicknames); err != nil {
			return nil, fmt.Errorf("failed to parse nicknames: %w", err)
		}
	}
	if err := json.Unmarshal([]byte(pseudonymsJSON), &rec.Pseudonyms); err != nil {
		return nil, fmt.Errorf("failed to parse pseudonyms: %w", err)
	}

	return &rec, nil
}

// Upsert replaces or inserts an identity record keyed by canonical URL.
// The write has full overwrite semantics, not merge: the stored record
// afterwards is exactly the given one.
func (idb *IdentityDB) Upsert(ctx context.Context, rec *model.Record) error {
	pseudonymsJSON, err := json.Marshal(rec.Pseudonyms)
	if err != nil {
		return fmt.Errorf("failed to serialize pseudonyms: %w", err)
	}

	var nicknamesJSON any
	if len(rec.Nicknames) > 0 {
		data, err := json.Marshal(rec.Nicknames)
		if err != nil {
			return fmt.Errorf("failed to serialize nicknames: %w", err)
		}
		nicknamesJSON = string(data)
	}

	tx, err := idb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin upsert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	query := `
	INSERT INTO identities (url, name, nicknames, timestamp, pseudonyms)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		name = excluded.name,
		nicknames = excluded.nicknames,
		timestamp = excluded.timestamp,
		pseudonyms = excluded.pseudonyms
	`
	if _, err := tx.ExecContext(ctx, query,
		rec.URL, nullableString(rec.Name), nicknamesJSON, rec.Timestamp, string(pseudonymsJSON),
	); err != nil {
		return fmt.Errorf("failed to upsert identity record: %w", err)
	}

	// Keep the FTS shadow row in sync with the canonical row.
	if _, err := tx.ExecContext(ctx, `DELETE FROM identities_fts WHERE url = ?`, rec.URL); err != nil {
		return fmt.Errorf("failed to clear search row: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO identities_fts (url, name, nicknames, usernames) VALUES (?, ?, ?, ?)`,
		rec.URL, stringOrEmpty(rec.Name), strings.Join(rec.Nicknames, " "), usernames(rec.Pseudonyms),
	); err != nil {
		return fmt.Errorf("failed to index identity record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit upsert: %w", err)
	}
	return nil
}

// Search performs a full-text match over identity records: url, name,
// nicknames, and pseudonym usernames. Result order is FTS5's bm25 rank;
// this layer imposes no ordering of its own. An empty term matches nothing.
func (idb *IdentityDB) Search(ctx context.Context, term string) ([]*model.Record, error) {
	if strings.TrimSpace(term) == "" {
		return nil, nil
	}

	query := `
	SELECT url FROM identities_fts
	WHERE identities_fts MATCH ?
	ORDER BY rank
	`

	rows, err := idb.db.QueryContext(ctx, query, ftsQuery(term))
	if err != nil {
		return nil, fmt.Errorf("failed to search identities: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		urls = append(urls, url)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	results := make([]*model.Record, 0, len(urls))
	for _, url := range urls {
		rec, err := idb.Get(ctx, url)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			results = append(results, rec)
		}
	}
	return results, nil
}

// GetDomain retrieves a legacy domain-keyed record.
// Returns (nil, nil) when no record exists.
func (idb *IdentityDB) GetDomain(ctx context.Context, domain string) (*model.DomainRecord, error) {
	query := `
	SELECT domain, name, timestamp, pseudonyms
	FROM domains
	WHERE domain = ?
	`

	var (
		rec            model.DomainRecord
		name           sql.NullString
		pseudonymsJSON string
	)

	err := idb.db.QueryRowContext(ctx, query, domain).Scan(
		&rec.Domain, &name, &rec.Timestamp, &pseudonymsJSON,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get domain record: %w", err)
	}

	if name.Valid {
		rec.Name = &name.String
	}
	if err := json.Unmarshal([]byte(pseudonymsJSON), &rec.Pseudonyms); err != nil {
		return nil, fmt.Errorf("failed to parse pseudonyms: %w", err)
	}

	return &rec, nil
}

// UpsertDomain replaces or inserts a legacy domain-keyed record.
func (idb *IdentityDB) UpsertDomain(ctx context.Context, rec *model.DomainRecord) error {
	pseudonymsJSON, err := json.Marshal(rec.Pseudonyms)
	if err != nil {
		return fmt.Errorf("failed to serialize pseudonyms: %w", err)
	}

	tx, err := idb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin upsert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	query := `
	INSERT INTO domains (domain, name, timestamp, pseudonyms)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(domain) DO UPDATE SET
		name = excluded.name,
		timestamp = excluded.timestamp,
		pseudonyms = excluded.pseudonyms
	`
	if _, err := tx.ExecContext(ctx, query,
		rec.Domain, nullableString(rec.Name), rec.Timestamp, string(pseudonymsJSON),
	); err != nil {
		return fmt.Errorf("failed to upsert domain record: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM domains_fts WHERE domain = ?`, rec.Domain); err != nil {
		return fmt.Errorf("failed to clear search row: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO domains_fts (domain, name, usernames) VALUES (?, ?, ?)`,
		rec.Domain, stringOrEmpty(rec.Name), usernames(rec.Pseudonyms),
	); err != nil {
		return fmt.Errorf("failed to index domain record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit upsert: %w", err)
	}
	return nil
}

// SearchDomains performs a full-text match over legacy domain records.
func (idb *IdentityDB) SearchDomains(ctx context.Context, term string) ([]*model.DomainRecord, error) {
	if strings.TrimSpace(term) == "" {
		return nil, nil
	}

	query := `
	SELECT domain FROM domains_fts
	WHERE domains_fts MATCH ?
	ORDER BY rank
	`

	rows, err := idb.db.QueryContext(ctx, query, ftsQuery(term))
	if err != nil {
		return nil, fmt.Errorf("failed to search domains: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var domains []string
	for rows.Next() {
		var domain string
		if err := rows.Scan(&domain); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		domains = append(domains, domain)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	results := make([]*model.DomainRecord, 0, len(domains))
	for _, domain := range domains {
		rec, err := idb.GetDomain(ctx, domain)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			results = append(results, rec)
		}
	}
	return results, nil
}

// ftsQuery wraps a user-supplied term as a quoted FTS5 string so that
// query syntax characters in the term cannot break the MATCH expression.
func ftsQuery(term string) string {
	return `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
}

// usernames flattens pseudonym usernames into one space-joined string for
// the search index.
func usernames(pseudonyms []model.PseudonymRecord) string {
	parts := make([]string, 0, len(pseudonyms))
	for _, p := range pseudonyms {
		parts = append(parts, p.Username)
	}
	return strings.Join(parts, " ")
}

// nullableString converts an optional string to a driver-friendly value.
func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// stringOrEmpty dereferences an optional string.
func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
