package domain

import (
	"context"
	"errors"
	"time"
)

// CompletionService is the outbound port to the LLM. It is stateless and
// safe for concurrent use; both the quiz generation flow and the
// validator's repair escalation share one instance.
type CompletionService interface {
	// Complete sends a single free-text prompt and returns the raw
	// completion text.
	Complete(ctx context.Context, prompt string) (string, error)
}

// QuestionRepository persists validated items tagged with a batch id.
type QuestionRepository interface {
	SaveQuestions(ctx context.Context, batch *Batch) error
	GetQuestionsByBatchID(ctx context.Context, batchID string) ([]Question, error)
	GetQuestionsByUserID(ctx context.Context, userID string) ([]Question, error)
	CountBatchesByUserID(ctx context.Context, userID string) (int64, error)
}

// ResultRepository stores per-question submission results.
type ResultRepository interface {
	ReplaceResults(ctx context.Context, userID, batchID string, results []QuizResult) error
	UpdateResult(ctx context.Context, result *QuizResult) error
	GetResultsByUserID(ctx context.Context, userID string) ([]QuizResult, error)
	GetResultsByBatchPrefix(ctx context.Context, prefix string) ([]QuizResult, error)
}

// UserRepository provides account lookup for report building.
type UserRepository interface {
	SaveUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	GetUsersByIDPrefix(ctx context.Context, prefix string) ([]User, error)
}

// SchoolRepository serves the school-code lookup table.
type SchoolRepository interface {
	SearchByName(ctx context.Context, name string) ([]School, error)
}

// ErrCacheMiss is returned by Cache.Get when the key does not exist.
var ErrCacheMiss = errors.New("cache: key not found")

// Cache abstracts the report cache so services stay testable without Redis.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Question is one persisted item row. Options are stored as the JSON the
// validator emitted, untouched.
type Question struct {
	ID          string
	BatchID     string
	UserID      string
	Number      int
	Type        string
	Text        string
	Options     string
	Answer      string
	Explanation string
	Unit1       string
	Unit2       string
	Unit3       string
	CreatedAt   time.Time
}

// QuizResult is one student's submission for one question of a batch.
type QuizResult struct {
	ID            string
	UserID        string
	BatchID       string
	Number        int
	UserAnswer    string
	CorrectAnswer string
	Correct       bool
	CreatedAt     time.Time
}

// User is an account record. Teachers own generated batches; students
// submit results against them.
type User struct {
	ID         string
	Name       string
	UserType   string
	SchoolName string
	SchoolCode string
	Grade      string
	ClassName  string
	StudentID  string
	CreatedAt  time.Time
}

// School is one row of the school-code lookup table.
type School struct {
	Code   string
	Name   string
	Region string
}
