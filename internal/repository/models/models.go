package models

import (
	"database/sql"
	"time"
)

// Question is the persisted form of one validated item. Options keep the
// JSON the validator emitted.
type Question struct {
	ID           string         `db:"id"`
	BatchID      string         `db:"batch_id"`
	UserID       string         `db:"user_id"`
	QuestionNum  int            `db:"question_num"`
	QuestionType string         `db:"question_type"`
	QuestionText string         `db:"question_text"`
	Options      sql.NullString `db:"options"`
	Answer       string         `db:"answer"`
	Explanation  string         `db:"explanation"`
	Unit1        sql.NullString `db:"unit1"`
	Unit2        sql.NullString `db:"unit2"`
	Unit3        sql.NullString `db:"unit3"`
	CreatedAt    time.Time      `db:"created_at"`
}

// QuizResult is one submission row. Oracle has no boolean column type;
// is_correct is NUMBER(1).
type QuizResult struct {
	ID            string    `db:"id"`
	UserID        string    `db:"user_id"`
	BatchID       string    `db:"batch_id"`
	QuestionNum   int       `db:"question_num"`
	UserAnswer    string    `db:"user_answer"`
	CorrectAnswer string    `db:"correct_answer"`
	IsCorrect     int       `db:"is_correct"`
	CreatedAt     time.Time `db:"created_at"`
}

// User is an account row.
type User struct {
	ID         string         `db:"id"`
	Name       string         `db:"name"`
	UserType   string         `db:"user_type"`
	SchoolName sql.NullString `db:"school_name"`
	SchoolCode sql.NullString `db:"school_code"`
	Grade      sql.NullString `db:"grade"`
	ClassName  sql.NullString `db:"class_name"`
	StudentID  sql.NullString `db:"student_id"`
	CreatedAt  time.Time      `db:"created_at"`
}

// School is one row of the school-code lookup table.
type School struct {
	Code   string         `db:"code"`
	Name   string         `db:"name"`
	Region sql.NullString `db:"region"`
}
