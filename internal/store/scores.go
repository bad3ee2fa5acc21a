package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Score represents one finished game.
type Score struct {
	ID        string
	Value     int
	Level     int
	CreatedAt time.Time
}

// ScoreRepository provides access to recorded scores.
type ScoreRepository struct {
	db *sql.DB
}

// Scores returns the score repository for this store.
func (s *Store) Scores() *ScoreRepository {
	return &ScoreRepository{db: s.db}
}

// Add records a finished game and returns the stored row.
func (r *ScoreRepository) Add(value, level int) (*Score, error) {
	score := &Score{
		ID:        uuid.NewString(),
		Value:     value,
		Level:     level,
		CreatedAt: time.Now(),
	}

	_, err := r.db.Exec(
		`INSERT INTO scores (id, value, level, created_at) VALUES (?, ?, ?, ?)`,
		score.ID, score.Value, score.Level, score.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return score, nil
}

// Top returns up to n scores ordered best first.
func (r *ScoreRepository) Top(n int) ([]Score, error) {
	rows, err := r.db.Query(
		`SELECT id, value, level, created_at FROM scores
		 ORDER BY value DESC, created_at ASC LIMIT ?`, n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []Score
	for rows.Next() {
		var s Score
		if err := rows.Scan(&s.ID, &s.Value, &s.Level, &s.CreatedAt); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

// Best returns the highest recorded score, or 0 when none exists.
func (r *ScoreRepository) Best() (int, error) {
	var best int
	err := r.db.QueryRow(`SELECT value FROM scores ORDER BY value DESC LIMIT 1`).Scan(&best)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return best, nil
}
