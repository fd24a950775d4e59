package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ken-ho/squatx/internal/models"
	"github.com/ken-ho/squatx/internal/shared"
)

// SessionCacheRepository persists the most recent history snapshot for a user.
//
// The snapshot mirrors the service's ordering: row position is the index in
// the fetched list, newest first. Each refresh replaces the whole snapshot.
type SessionCacheRepository struct {
	db *sql.DB
}

// NewSessionCacheRepository creates a new [SessionCacheRepository] with the given database connection
func NewSessionCacheRepository(db *sql.DB) *SessionCacheRepository {
	return &SessionCacheRepository{db: db}
}

// Replace swaps the cached snapshot for userID in one transaction.
func (r *SessionCacheRepository) Replace(userID string, sessions []models.SessionSummary) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM session_cache WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to clear session cache: %w", err)
	}

	query := `
		INSERT INTO session_cache (cache_id, session_id, user_id, created_at, total_reps, avg_depth, min_knee_angle, tempo, ai_feedback, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for i, session := range sessions {
		_, err := tx.Exec(query,
			shared.GenerateID(),
			session.ID,
			userID,
			session.CreatedAt.Time,
			session.TotalReps,
			nullFloat(session.AvgDepth),
			nullFloat(session.MinKneeAngle),
			nullFloat(session.Tempo),
			session.AIFeedback,
			i,
		)
		if err != nil {
			return fmt.Errorf("failed to cache session %d: %w", session.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session cache: %w", err)
	}

	return nil
}

// List returns up to limit cached sessions for userID in snapshot order.
func (r *SessionCacheRepository) List(userID string, limit int) ([]models.SessionSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT session_id, created_at, total_reps, avg_depth, min_knee_angle, tempo, ai_feedback
		FROM session_cache
		WHERE user_id = ?
		ORDER BY position ASC
		LIMIT ?
	`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query session cache: %w", err)
	}
	defer rows.Close()

	var sessions []models.SessionSummary
	for rows.Next() {
		var (
			session   models.SessionSummary
			createdAt time.Time
			avgDepth  sql.NullFloat64
			minAngle  sql.NullFloat64
			tempo     sql.NullFloat64
			feedback  sql.NullString
		)

		if err := rows.Scan(&session.ID, &createdAt, &session.TotalReps, &avgDepth, &minAngle, &tempo, &feedback); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		session.CreatedAt = models.Timestamp{Time: createdAt}
		session.AvgDepth = floatPtr(avgDepth)
		session.MinKneeAngle = floatPtr(minAngle)
		session.Tempo = floatPtr(tempo)
		if feedback.Valid {
			session.AIFeedback = feedback.String
		}

		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return sessions, nil
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
