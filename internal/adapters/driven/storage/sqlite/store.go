package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/gsuite-mcp/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/gsuite-mcp/internal/core/domain"
	"github.com/custodia-labs/gsuite-mcp/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides the account and
// credential store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.gsuite-mcp/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".gsuite-mcp", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "accounts.db")

	// WAL mode for better concurrency within a single process.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// AccountStore returns an AccountStore interface backed by this store.
func (s *Store) AccountStore() driven.AccountStore {
	return &accountStore{store: s}
}

// CredentialsStore returns a CredentialsStore interface backed by this store.
func (s *Store) CredentialsStore() driven.CredentialsStore {
	return &credentialsStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		version, err := strconv.Atoi(strings.SplitN(name, "_", 2)[0])
		if err != nil {
			return fmt.Errorf("parsing migration version from %s: %w", name, err)
		}
		if version <= currentVersion {
			continue
		}

		script, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(script)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// =============================================================================
// AccountStore Implementation
// =============================================================================

type accountStore struct {
	store *Store
}

var _ driven.AccountStore = (*accountStore)(nil)

// List returns all accounts in insertion order.
func (s *accountStore) List(ctx context.Context) ([]domain.Account, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT email, account_type, extra_info
		FROM accounts ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(&account.Email, &account.AccountType, &account.ExtraInfo); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating accounts: %w", err)
	}
	return accounts, nil
}

// Get retrieves an account by normalised email.
func (s *accountStore) Get(ctx context.Context, email string) (*domain.Account, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT email, account_type, extra_info
		FROM accounts WHERE email = ?
	`, email)

	var account domain.Account
	if err := row.Scan(&account.Email, &account.AccountType, &account.ExtraInfo); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning account: %w", err)
	}
	return &account, nil
}

// Upsert inserts or replaces an account; an existing account keeps its
// position.
func (s *accountStore) Upsert(ctx context.Context, account domain.Account) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO accounts (email, account_type, extra_info, position)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM accounts))
		ON CONFLICT(email) DO UPDATE SET
			account_type = excluded.account_type,
			extra_info = excluded.extra_info
	`, account.Email, account.AccountType, account.ExtraInfo)
	if err != nil {
		return fmt.Errorf("saving account: %w", err)
	}
	return nil
}

// Remove deletes an account by email.
func (s *accountStore) Remove(ctx context.Context, email string) (bool, error) {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM accounts WHERE email = ?", email)
	if err != nil {
		return false, fmt.Errorf("removing account: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("removing account: %w", err)
	}
	return affected > 0, nil
}

// =============================================================================
// CredentialsStore Implementation
// =============================================================================

type credentialsStore struct {
	store *Store
}

var _ driven.CredentialsStore = (*credentialsStore)(nil)

// Load retrieves the credential record for an email.
func (s *credentialsStore) Load(ctx context.Context, email string) (*domain.Credentials, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT access_token, refresh_token, token_type, expiry, scopes
		FROM credentials WHERE email = ?
	`, email)

	var creds domain.Credentials
	var expiry sql.NullTime
	var scopesJSON string
	if err := row.Scan(&creds.AccessToken, &creds.RefreshToken, &creds.TokenType,
		&expiry, &scopesJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning credentials: %w", err)
	}
	if expiry.Valid {
		creds.Expiry = expiry.Time
	}
	if err := json.Unmarshal([]byte(scopesJSON), &creds.Scopes); err != nil {
		return nil, fmt.Errorf("parsing scopes: %w", err)
	}
	return &creds, nil
}

// Save overwrites the whole credential record for an email.
func (s *credentialsStore) Save(ctx context.Context, email string, creds domain.Credentials) error {
	scopesJSON, err := json.Marshal(creds.Scopes)
	if err != nil {
		return fmt.Errorf("encoding scopes: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO credentials (email, access_token, refresh_token, token_type, expiry, scopes, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_type = excluded.token_type,
			expiry = excluded.expiry,
			scopes = excluded.scopes,
			updated_at = excluded.updated_at
	`, email, creds.AccessToken, creds.RefreshToken, creds.TokenType,
		nullableTime(creds.Expiry), string(scopesJSON), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	return nil
}

// Delete removes the credential record for an email.
func (s *credentialsStore) Delete(ctx context.Context, email string) (bool, error) {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM credentials WHERE email = ?", email)
	if err != nil {
		return false, fmt.Errorf("deleting credentials: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting credentials: %w", err)
	}
	return affected > 0, nil
}

// nullableTime maps the zero time to SQL NULL.
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
