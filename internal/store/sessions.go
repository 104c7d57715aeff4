package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"theramuse/internal/services"
)

// Session is a persisted recommendation session. ContextFeatures holds the
// JSON-encoded context vector used at scoring time so feedback can replay
// the exact same context.
type Session struct {
	SessionID       string
	PatientID       string
	Condition       string
	Method          string
	TotalSongs      int
	ExplorationRate float64
	ContextFeatures string
	CreatedAt       time.Time
}

// RecommendationRow is one recommended song within a session category.
type RecommendationRow struct {
	Category    string
	Query       string
	SongTitle   string
	VideoID     string
	Channel     string
	Description string
	Rank        int
}

const descriptionLimit = 500

// SaveSession persists a session together with its recommendation rows in a
// single transaction.
func (s *Store) SaveSession(ctx context.Context, session Session, rows []RecommendationRow) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO therapy_sessions (
            session_id, patient_id, condition, therapy_method,
            total_songs, exploration_rate, context_features, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		session.SessionID,
		session.PatientID,
		session.Condition,
		session.Method,
		session.TotalSongs,
		session.ExplorationRate,
		session.ContextFeatures,
		now,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	for _, row := range rows {
		description := row.Description
		if len(description) > descriptionLimit {
			description = description[:descriptionLimit]
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO therapy_recommendations (
                session_id, patient_id, category, query, song_title,
                video_id, channel, description, rank, created_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			session.SessionID,
			session.PatientID,
			row.Category,
			row.Query,
			row.SongTitle,
			nullableString(row.VideoID),
			row.Channel,
			description,
			row.Rank,
			now,
		)
		if err != nil {
			return fmt.Errorf("insert recommendation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

// GetSession looks up a stored session by id. Returns a not-found marker
// when the session does not exist.
func (s *Store) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT session_id, patient_id, condition, therapy_method,
                total_songs, exploration_rate, context_features, created_at
         FROM therapy_sessions WHERE session_id = ?`,
		sessionID,
	)

	var session Session
	var method, contextFeatures sql.NullString
	var explorationRate sql.NullFloat64
	var createdAt string
	err := row.Scan(
		&session.SessionID,
		&session.PatientID,
		&session.Condition,
		&method,
		&session.TotalSongs,
		&explorationRate,
		&contextFeatures,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "store", "get session",
			fmt.Sprintf("session %s not found", sessionID), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	session.Method = method.String
	session.ContextFeatures = contextFeatures.String
	session.ExplorationRate = explorationRate.Float64
	if ts, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
		session.CreatedAt = ts
	}
	return &session, nil
}

// UpsertPatient stores or refreshes the raw patient record.
func (s *Store) UpsertPatient(ctx context.Context, patientID, name string, age, birthYear int, condition, infoJSON string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO patients (patient_id, name, age, birth_year, condition, patient_info, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(patient_id) DO UPDATE SET
            name = excluded.name,
            age = excluded.age,
            birth_year = excluded.birth_year,
            condition = excluded.condition,
            patient_info = excluded.patient_info,
            updated_at = excluded.updated_at`,
		patientID, name, age, birthYear, condition, infoJSON, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert patient: %w", err)
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
