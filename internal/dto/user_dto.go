package dto

// RegisterUserRequest is the request body for creating an account.
type RegisterUserRequest struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	UserType   string `json:"user_type"` // "teacher" or "student"
	SchoolName string `json:"school_name,omitempty"`
	SchoolCode string `json:"school_code,omitempty"`
	Grade      string `json:"grade,omitempty"`
	ClassName  string `json:"class_name,omitempty"`
	StudentID  string `json:"student_id,omitempty"`
}

// UserResponse represents an account in the API response
type UserResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	UserType   string `json:"user_type"`
	SchoolName string `json:"school_name,omitempty"`
	Grade      string `json:"grade,omitempty"`
	ClassName  string `json:"class_name,omitempty"`
	StudentID  string `json:"student_id,omitempty"`
}

// ExistsResponse reports id availability during signup.
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// SchoolResponse represents a school search hit in the API response
type SchoolResponse struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Region string `json:"region,omitempty"`
}
