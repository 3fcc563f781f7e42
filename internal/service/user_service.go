package service

import (
	"context"

	"mathquiz/internal/domain"
	"mathquiz/internal/dto"
)

// UserService defines the interface for account and school operations
type UserService interface {
	Register(ctx context.Context, req *dto.RegisterUserRequest) (*dto.UserResponse, error)
	GetUser(ctx context.Context, id string) (*dto.UserResponse, error)
	CheckIDExists(ctx context.Context, id string) (bool, error)
	SearchSchools(ctx context.Context, name string) ([]dto.SchoolResponse, error)
}

// userService implements UserService
type userService struct {
	users   domain.UserRepository
	schools domain.SchoolRepository
}

// NewUserService creates a new instance of userService
func NewUserService(users domain.UserRepository, schools domain.SchoolRepository) UserService {
	return &userService{users: users, schools: schools}
}

// Register creates an account after checking the id is free.
func (s *userService) Register(ctx context.Context, req *dto.RegisterUserRequest) (*dto.UserResponse, error) {
	if req.ID == "" || req.Name == "" {
		return nil, domain.NewInvalidInputError("id and name are required")
	}
	if req.UserType != "teacher" && req.UserType != "student" {
		return nil, domain.NewInvalidInputError("user_type must be teacher or student")
	}

	exists, err := s.users.ExistsByID(ctx, req.ID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to check user id", err)
	}
	if exists {
		return nil, domain.NewConflictError("user id is already taken")
	}

	user := &domain.User{
		ID:         req.ID,
		Name:       req.Name,
		UserType:   req.UserType,
		SchoolName: req.SchoolName,
		SchoolCode: req.SchoolCode,
		Grade:      req.Grade,
		ClassName:  req.ClassName,
		StudentID:  req.StudentID,
	}
	if err := s.users.SaveUser(ctx, user); err != nil {
		return nil, domain.NewInternalError("Failed to save user", err)
	}
	return toUserResponse(user), nil
}

// GetUser returns the account for an id.
func (s *userService) GetUser(ctx context.Context, id string) (*dto.UserResponse, error) {
	if id == "" {
		return nil, domain.NewInvalidInputError("id is required")
	}
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load user", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("user not found: " + id)
	}
	return toUserResponse(user), nil
}

// CheckIDExists reports whether an id is already taken.
func (s *userService) CheckIDExists(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, domain.NewInvalidInputError("id is required")
	}
	exists, err := s.users.ExistsByID(ctx, id)
	if err != nil {
		return false, domain.NewInternalError("Failed to check user id", err)
	}
	return exists, nil
}

// SearchSchools looks up the school-code table by partial name.
func (s *userService) SearchSchools(ctx context.Context, name string) ([]dto.SchoolResponse, error) {
	if name == "" {
		return nil, domain.NewInvalidInputError("name is required")
	}
	schools, err := s.schools.SearchByName(ctx, name)
	if err != nil {
		return nil, domain.NewInternalError("Failed to search schools", err)
	}
	resp := make([]dto.SchoolResponse, 0, len(schools))
	for _, school := range schools {
		resp = append(resp, dto.SchoolResponse{
			Code:   school.Code,
			Name:   school.Name,
			Region: school.Region,
		})
	}
	return resp, nil
}

func toUserResponse(user *domain.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		UserType:   user.UserType,
		SchoolName: user.SchoolName,
		Grade:      user.Grade,
		ClassName:  user.ClassName,
		StudentID:  user.StudentID,
	}
}
