package dto

// QuestionStatResponse aggregates one question across a class.
// Shares are percentages rounded to one decimal place.
type QuestionStatResponse struct {
	BatchID      string             `json:"batch_id"`
	Number       int                `json:"question_num"`
	CorrectRate  float64            `json:"correct_rate"`
	AnswerShares map[string]float64 `json:"answer_shares"`
}

// ClassReportResponse represents the per-room report in the API response
type ClassReportResponse struct {
	RoomCode          string                 `json:"room_code"`
	TotalStudents     int                    `json:"total_students"`
	SubmittedStudents int                    `json:"submitted_students"`
	NotSubmitted      []string               `json:"not_submitted"`
	Questions         []QuestionStatResponse `json:"questions"`
}
