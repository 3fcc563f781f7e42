package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mathquiz/internal/domain"
	"mathquiz/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// UserDatabaseAdapter implements domain.UserRepository using sqlx.DB
type UserDatabaseAdapter struct {
	db *sqlx.DB
}

// NewUserDatabaseAdapter creates a new instance of UserDatabaseAdapter
func NewUserDatabaseAdapter(db *sqlx.DB) domain.UserRepository {
	return &UserDatabaseAdapter{db: db}
}

const userColumns = `
		id "id",
		name "name",
		user_type "user_type",
		school_name "school_name",
		school_code "school_code",
		grade "grade",
		class_name "class_name",
		student_id "student_id",
		created_at "created_at"`

// SaveUser inserts a new account row.
func (a *UserDatabaseAdapter) SaveUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (
		id, name, user_type, school_name, school_code,
		grade, class_name, student_id, created_at
	) VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9)`

	_, err := a.db.ExecContext(ctx, query,
		user.ID, user.Name, user.UserType,
		nullable(user.SchoolName), nullable(user.SchoolCode),
		nullable(user.Grade), nullable(user.ClassName), nullable(user.StudentID),
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save user %s: %w", user.ID, err)
	}
	return nil
}

// GetUserByID returns the account, or nil when it does not exist.
func (a *UserDatabaseAdapter) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	var row models.User
	query := `SELECT` + userColumns + ` FROM users WHERE id = :1`

	err := a.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	user := toDomainUser(row)
	return &user, nil
}

// ExistsByID reports whether the account id is already taken.
func (a *UserDatabaseAdapter) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE id = :1`

	if err := a.db.GetContext(ctx, &count, query, id); err != nil {
		return false, fmt.Errorf("failed to check user existence for %s: %w", id, err)
	}
	return count > 0, nil
}

// GetUsersByIDPrefix lists accounts whose id starts with the prefix.
// Student ids are prefixed with their teacher's room code.
func (a *UserDatabaseAdapter) GetUsersByIDPrefix(ctx context.Context, prefix string) ([]domain.User, error) {
	var rows []models.User
	query := `SELECT` + userColumns + ` FROM users WHERE id LIKE :1 ORDER BY id`

	if err := a.db.SelectContext(ctx, &rows, query, prefix+"%"); err != nil {
		return nil, fmt.Errorf("failed to list users with prefix %s: %w", prefix, err)
	}

	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, toDomainUser(row))
	}
	return users, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func toDomainUser(row models.User) domain.User {
	return domain.User{
		ID:         row.ID,
		Name:       row.Name,
		UserType:   row.UserType,
		SchoolName: row.SchoolName.String,
		SchoolCode: row.SchoolCode.String,
		Grade:      row.Grade.String,
		ClassName:  row.ClassName.String,
		StudentID:  row.StudentID.String,
		CreatedAt:  row.CreatedAt,
	}
}
