package dto

// GenerateQuizRequest is the request body for generating a question batch.
type GenerateQuizRequest struct {
	UserID        string `json:"user_id"`
	UserType      string `json:"user_type"` // "teacher" or "student"
	Unit1         string `json:"unit1"`     // 대단원
	Unit2         string `json:"unit2"`     // 중단원
	Unit3         string `json:"unit3"`     // 소단원
	QuestionCount int    `json:"question_count"`
}

// OptionResponse represents a multiple-choice option in the API response
type OptionResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// QuestionResponse represents a single generated question in the API response
type QuestionResponse struct {
	Number      int              `json:"question_num"`
	Type        string           `json:"type"`
	Text        string           `json:"text"`
	Options     []OptionResponse `json:"options,omitempty"`
	Answer      any              `json:"answer"`
	Explanation string           `json:"explanation"`
}

// GenerateQuizResponse represents a generated batch in the API response
type GenerateQuizResponse struct {
	BatchID   string             `json:"batch_id"`
	Unit1     string             `json:"unit1,omitempty"`
	Unit2     string             `json:"unit2,omitempty"`
	Unit3     string             `json:"unit3,omitempty"`
	Questions []QuestionResponse `json:"questions"`
}

// AnswerSubmission is a single answered question inside a submission.
type AnswerSubmission struct {
	Number     int    `json:"question_num"`
	UserAnswer string `json:"user_answer"`
}

// SubmitResultsRequest is the request body for submitting a full attempt.
// Re-submitting replaces the previous attempt for the same batch.
type SubmitResultsRequest struct {
	UserID  string             `json:"user_id"`
	BatchID string             `json:"batch_id"`
	Answers []AnswerSubmission `json:"answers"`
}

// UpdateResultRequest is the request body for correcting a single answer.
type UpdateResultRequest struct {
	UserID     string `json:"user_id"`
	BatchID    string `json:"batch_id"`
	Number     int    `json:"question_num"`
	UserAnswer string `json:"user_answer"`
}

// ResultResponse represents one graded answer in the API response
type ResultResponse struct {
	BatchID       string `json:"batch_id"`
	Number        int    `json:"question_num"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Correct       bool   `json:"correct"`
}

// SubmitResultsResponse summarizes a graded submission.
type SubmitResultsResponse struct {
	BatchID      string           `json:"batch_id"`
	Total        int              `json:"total"`
	CorrectCount int              `json:"correct_count"`
	Results      []ResultResponse `json:"results"`
}

// BatchScoreResponse is one batch's score inside a student listing.
type BatchScoreResponse struct {
	BatchID      string `json:"batch_id"`
	Total        int    `json:"total"`
	CorrectCount int    `json:"correct_count"`
}

// StudentResultsResponse lists every graded answer of one student,
// grouped into per-batch scores.
type StudentResultsResponse struct {
	UserID       string               `json:"user_id"`
	Total        int                  `json:"total"`
	CorrectCount int                  `json:"correct_count"`
	Batches      []BatchScoreResponse `json:"batches"`
	Results      []ResultResponse     `json:"results"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
