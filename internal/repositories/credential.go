package repositories

import (
	"database/sql"
	"fmt"

	"github.com/ken-ho/squatx/internal/models"
)

// Credential table keys.
const (
	keyToken     = "token"
	keyUserID    = "user_id"
	keyUserName  = "user_name"
	keyUserEmail = "user_email"
)

// CredentialRepository implements auth.CredentialStore on sqlite.
type CredentialRepository struct {
	db *sql.DB
}

// NewCredentialRepository creates a new [CredentialRepository] with the given database connection
func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Save upserts the full credential set in one transaction.
func (r *CredentialRepository) Save(identity models.Identity) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO credentials (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`

	pairs := map[string]string{
		keyToken:     identity.Token,
		keyUserID:    identity.UserID,
		keyUserName:  identity.UserName,
		keyUserEmail: identity.Email,
	}

	for key, value := range pairs {
		if _, err := tx.Exec(query, key, value); err != nil {
			return fmt.Errorf("failed to store credential %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit credentials: %w", err)
	}

	return nil
}

// Load reads the stored credential. Returns (nil, nil) when no usable
// credential exists.
func (r *CredentialRepository) Load() (*models.Identity, error) {
	rows, err := r.db.Query("SELECT key, value FROM credentials")
	if err != nil {
		return nil, fmt.Errorf("failed to query credentials: %w", err)
	}
	defer rows.Close()

	values := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan credential: %w", err)
		}
		values[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	identity := models.Identity{
		Token:    values[keyToken],
		UserID:   values[keyUserID],
		UserName: values[keyUserName],
		Email:    values[keyUserEmail],
	}

	if !identity.Valid() {
		return nil, nil
	}

	return &identity, nil
}

// Clear removes all stored credential keys.
func (r *CredentialRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM credentials"); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}
