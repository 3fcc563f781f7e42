package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"mathquiz/internal/domain"
	"mathquiz/internal/repository/models"
	"mathquiz/internal/util"

	"github.com/jmoiron/sqlx"
)

// QuestionDatabaseAdapter implements domain.QuestionRepository using sqlx.DB
type QuestionDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuestionDatabaseAdapter creates a new instance of QuestionDatabaseAdapter
func NewQuestionDatabaseAdapter(db *sqlx.DB) domain.QuestionRepository {
	return &QuestionDatabaseAdapter{db: db}
}

// SaveQuestions persists every item of the batch under its batch id.
func (a *QuestionDatabaseAdapter) SaveQuestions(ctx context.Context, batch *domain.Batch) error {
	query := `INSERT INTO questions (
		id, batch_id, user_id, question_num, question_type,
		question_text, options, answer, explanation,
		unit1, unit2, unit3, created_at
	) VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9, :10, :11, :12, :13)`

	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range batch.Items {
		item := &batch.Items[i]

		options, err := optionsToJSON(item)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, query,
			util.NewULID(),
			batch.BatchID,
			batch.UserID,
			item.Number,
			item.Type,
			item.Text,
			options,
			answerToString(item.Answer),
			item.Explanation,
			batch.Unit1,
			batch.Unit2,
			batch.Unit3,
			time.Now(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert question %d of batch %s: %w", item.Number, batch.BatchID, err)
		}
	}

	return tx.Commit()
}

// GetQuestionsByBatchID returns the batch's questions ordered by number.
func (a *QuestionDatabaseAdapter) GetQuestionsByBatchID(ctx context.Context, batchID string) ([]domain.Question, error) {
	var rows []models.Question
	query := `SELECT
		id "id",
		batch_id "batch_id",
		user_id "user_id",
		question_num "question_num",
		question_type "question_type",
		question_text "question_text",
		options "options",
		answer "answer",
		explanation "explanation",
		unit1 "unit1",
		unit2 "unit2",
		unit3 "unit3",
		created_at "created_at"
	FROM questions
	WHERE batch_id = :1
	ORDER BY question_num`

	if err := a.db.SelectContext(ctx, &rows, query, batchID); err != nil {
		return nil, fmt.Errorf("failed to get questions for batch %s: %w", batchID, err)
	}
	return toDomainQuestions(rows), nil
}

// GetQuestionsByUserID returns every question the user ever generated.
func (a *QuestionDatabaseAdapter) GetQuestionsByUserID(ctx context.Context, userID string) ([]domain.Question, error) {
	var rows []models.Question
	query := `SELECT
		id "id",
		batch_id "batch_id",
		user_id "user_id",
		question_num "question_num",
		question_type "question_type",
		question_text "question_text",
		options "options",
		answer "answer",
		explanation "explanation",
		unit1 "unit1",
		unit2 "unit2",
		unit3 "unit3",
		created_at "created_at"
	FROM questions
	WHERE user_id = :1
	ORDER BY batch_id, question_num`

	if err := a.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get questions for user %s: %w", userID, err)
	}
	return toDomainQuestions(rows), nil
}

// CountBatchesByUserID counts the distinct batch ids a user owns; the
// next batch index is this count plus one.
func (a *QuestionDatabaseAdapter) CountBatchesByUserID(ctx context.Context, userID string) (int64, error) {
	var count int64
	query := `SELECT COUNT(DISTINCT batch_id) FROM questions WHERE user_id = :1`

	if err := a.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count batches for user %s: %w", userID, err)
	}
	return count, nil
}

func optionsToJSON(item *domain.Item) (sql.NullString, error) {
	if len(item.Options) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(item.Options)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to marshal options: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// answerToString flattens the polymorphic answer for the answer column:
// strings as-is, booleans and numbers in their JSON form.
func answerToString(answer any) string {
	if s, ok := answer.(string); ok {
		return s
	}
	data, err := json.Marshal(answer)
	if err != nil {
		return ""
	}
	return string(data)
}

func toDomainQuestions(rows []models.Question) []domain.Question {
	questions := make([]domain.Question, 0, len(rows))
	for _, row := range rows {
		questions = append(questions, domain.Question{
			ID:          row.ID,
			BatchID:     row.BatchID,
			UserID:      row.UserID,
			Number:      row.QuestionNum,
			Type:        row.QuestionType,
			Text:        row.QuestionText,
			Options:     row.Options.String,
			Answer:      row.Answer,
			Explanation: row.Explanation,
			Unit1:       row.Unit1.String,
			Unit2:       row.Unit2.String,
			Unit3:       row.Unit3.String,
			CreatedAt:   row.CreatedAt,
		})
	}
	return questions
}
