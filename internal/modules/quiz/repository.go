package quiz

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// Repository persists quiz assessments
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new assessment repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "quiz").Logger(),
	}
}

// Insert stores one scored assessment.
func (r *Repository) Insert(a Assessment) error {
	_, err := r.db.Exec(
		`INSERT INTO assessments (id, score, band, created_at) VALUES (?, ?, ?, ?)`,
		a.ID, a.Score, a.Band, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert assessment: %w", err)
	}
	return nil
}

// ListRecent returns the newest assessments, most recent first.
func (r *Repository) ListRecent(limit int) ([]Assessment, error) {
	rows, err := r.db.Query(
		`SELECT id, score, band, created_at FROM assessments ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	var out []Assessment
	for rows.Next() {
		var a Assessment
		if err := rows.Scan(&a.ID, &a.Score, &a.Band, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assessments: %w", err)
	}
	return out, nil
}
