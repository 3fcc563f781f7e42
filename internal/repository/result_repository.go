package repository

import (
	"context"
	"fmt"
	"time"

	"mathquiz/internal/domain"
	"mathquiz/internal/repository/models"
	"mathquiz/internal/util"

	"github.com/jmoiron/sqlx"
)

// ResultDatabaseAdapter implements domain.ResultRepository using sqlx.DB
type ResultDatabaseAdapter struct {
	db *sqlx.DB
}

// NewResultDatabaseAdapter creates a new instance of ResultDatabaseAdapter
func NewResultDatabaseAdapter(db *sqlx.DB) domain.ResultRepository {
	return &ResultDatabaseAdapter{db: db}
}

const resultColumns = `
		id "id",
		user_id "user_id",
		batch_id "batch_id",
		question_num "question_num",
		user_answer "user_answer",
		correct_answer "correct_answer",
		is_correct "is_correct",
		created_at "created_at"`

// ReplaceResults deletes any earlier submission of the user for the batch
// and inserts the new entries, atomically. A re-submission fully replaces
// the previous one.
func (a *ResultDatabaseAdapter) ReplaceResults(ctx context.Context, userID, batchID string, results []domain.QuizResult) error {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM quiz_results WHERE user_id = :1 AND batch_id = :2`,
		userID, batchID); err != nil {
		return fmt.Errorf("failed to delete previous results: %w", err)
	}

	insert := `INSERT INTO quiz_results (
		id, user_id, batch_id, question_num,
		user_answer, correct_answer, is_correct, created_at
	) VALUES (:1, :2, :3, :4, :5, :6, :7, :8)`

	for _, r := range results {
		correct := 0
		if r.Correct {
			correct = 1
		}
		if _, err := tx.ExecContext(ctx, insert,
			util.NewULID(), userID, batchID, r.Number,
			r.UserAnswer, r.CorrectAnswer, correct, time.Now(),
		); err != nil {
			return fmt.Errorf("failed to insert result for question %d: %w", r.Number, err)
		}
	}

	return tx.Commit()
}

// UpdateResult rewrites a single existing entry in place.
func (a *ResultDatabaseAdapter) UpdateResult(ctx context.Context, result *domain.QuizResult) error {
	correct := 0
	if result.Correct {
		correct = 1
	}
	query := `UPDATE quiz_results
	SET user_answer = :1, is_correct = :2
	WHERE user_id = :3 AND batch_id = :4 AND question_num = :5`

	if _, err := a.db.ExecContext(ctx, query,
		result.UserAnswer, correct,
		result.UserID, result.BatchID, result.Number,
	); err != nil {
		return fmt.Errorf("failed to update result: %w", err)
	}
	return nil
}

// GetResultsByUserID returns the user's submissions sorted by batch and
// question number.
func (a *ResultDatabaseAdapter) GetResultsByUserID(ctx context.Context, userID string) ([]domain.QuizResult, error) {
	var rows []models.QuizResult
	query := `SELECT` + resultColumns + `
	FROM quiz_results
	WHERE user_id = :1
	ORDER BY batch_id, question_num`

	if err := a.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get results for user %s: %w", userID, err)
	}
	return toDomainResults(rows), nil
}

// GetResultsByBatchPrefix returns every submission against batches whose
// id starts with the prefix, the room-wide view used by reports.
func (a *ResultDatabaseAdapter) GetResultsByBatchPrefix(ctx context.Context, prefix string) ([]domain.QuizResult, error) {
	var rows []models.QuizResult
	query := `SELECT` + resultColumns + `
	FROM quiz_results
	WHERE batch_id LIKE :1
	ORDER BY batch_id, question_num`

	if err := a.db.SelectContext(ctx, &rows, query, prefix+"%"); err != nil {
		return nil, fmt.Errorf("failed to get results for batch prefix %s: %w", prefix, err)
	}
	return toDomainResults(rows), nil
}

func toDomainResults(rows []models.QuizResult) []domain.QuizResult {
	results := make([]domain.QuizResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, domain.QuizResult{
			ID:            row.ID,
			UserID:        row.UserID,
			BatchID:       row.BatchID,
			Number:        row.QuestionNum,
			UserAnswer:    row.UserAnswer,
			CorrectAnswer: row.CorrectAnswer,
			Correct:       row.IsCorrect == 1,
			CreatedAt:     row.CreatedAt,
		})
	}
	return results
}
