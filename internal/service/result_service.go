package service

import (
	"context"

	"mathquiz/internal/domain"
	"mathquiz/internal/dto"
	"mathquiz/internal/validator"
)

// ResultService defines the interface for grading and storing submissions
type ResultService interface {
	SubmitResults(ctx context.Context, req *dto.SubmitResultsRequest) (*dto.SubmitResultsResponse, error)
	UpdateResult(ctx context.Context, req *dto.UpdateResultRequest) (*dto.ResultResponse, error)
	GetStudentResults(ctx context.Context, userID string) (*dto.StudentResultsResponse, error)
}

// resultService implements ResultService
type resultService struct {
	results   domain.ResultRepository
	questions domain.QuestionRepository
}

// NewResultService creates a new instance of resultService
func NewResultService(results domain.ResultRepository, questions domain.QuestionRepository) ResultService {
	return &resultService{results: results, questions: questions}
}

// SubmitResults grades a full attempt against the stored batch and
// replaces any previous attempt by the same user.
func (s *resultService) SubmitResults(ctx context.Context, req *dto.SubmitResultsRequest) (*dto.SubmitResultsResponse, error) {
	if req.UserID == "" || req.BatchID == "" {
		return nil, domain.NewInvalidInputError("user_id and batch_id are required")
	}
	if len(req.Answers) == 0 {
		return nil, domain.NewInvalidInputError("answers must not be empty")
	}

	byNumber, err := s.loadBatch(ctx, req.BatchID)
	if err != nil {
		return nil, err
	}

	resp := &dto.SubmitResultsResponse{BatchID: req.BatchID, Total: len(req.Answers)}
	graded := make([]domain.QuizResult, 0, len(req.Answers))
	for _, answer := range req.Answers {
		question, ok := byNumber[answer.Number]
		if !ok {
			return nil, domain.NewInvalidInputError("unknown question number in submission")
		}
		correct := gradeAnswer(question.Type, question.Answer, answer.UserAnswer)
		if correct {
			resp.CorrectCount++
		}
		graded = append(graded, domain.QuizResult{
			UserID:        req.UserID,
			BatchID:       req.BatchID,
			Number:        answer.Number,
			UserAnswer:    answer.UserAnswer,
			CorrectAnswer: question.Answer,
			Correct:       correct,
		})
		resp.Results = append(resp.Results, dto.ResultResponse{
			BatchID:       req.BatchID,
			Number:        answer.Number,
			UserAnswer:    answer.UserAnswer,
			CorrectAnswer: question.Answer,
			Correct:       correct,
		})
	}

	if err := s.results.ReplaceResults(ctx, req.UserID, req.BatchID, graded); err != nil {
		return nil, domain.NewInternalError("Failed to store submission results", err)
	}
	return resp, nil
}

// UpdateResult regrades and overwrites a single answer of a stored attempt.
func (s *resultService) UpdateResult(ctx context.Context, req *dto.UpdateResultRequest) (*dto.ResultResponse, error) {
	if req.UserID == "" || req.BatchID == "" {
		return nil, domain.NewInvalidInputError("user_id and batch_id are required")
	}

	byNumber, err := s.loadBatch(ctx, req.BatchID)
	if err != nil {
		return nil, err
	}
	question, ok := byNumber[req.Number]
	if !ok {
		return nil, domain.NewInvalidInputError("unknown question number in submission")
	}

	correct := gradeAnswer(question.Type, question.Answer, req.UserAnswer)
	err = s.results.UpdateResult(ctx, &domain.QuizResult{
		UserID:     req.UserID,
		BatchID:    req.BatchID,
		Number:     req.Number,
		UserAnswer: req.UserAnswer,
		Correct:    correct,
	})
	if err != nil {
		return nil, domain.NewInternalError("Failed to update submission result", err)
	}

	return &dto.ResultResponse{
		BatchID:       req.BatchID,
		Number:        req.Number,
		UserAnswer:    req.UserAnswer,
		CorrectAnswer: question.Answer,
		Correct:       correct,
	}, nil
}

// GetStudentResults lists every graded answer of one student.
func (s *resultService) GetStudentResults(ctx context.Context, userID string) (*dto.StudentResultsResponse, error) {
	if userID == "" {
		return nil, domain.NewInvalidInputError("user_id is required")
	}

	results, err := s.results.GetResultsByUserID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load submission results", err)
	}

	resp := &dto.StudentResultsResponse{UserID: userID, Total: len(results)}
	batchIndex := make(map[string]int)
	for _, r := range results {
		if r.Correct {
			resp.CorrectCount++
		}
		idx, ok := batchIndex[r.BatchID]
		if !ok {
			idx = len(resp.Batches)
			batchIndex[r.BatchID] = idx
			resp.Batches = append(resp.Batches, dto.BatchScoreResponse{BatchID: r.BatchID})
		}
		resp.Batches[idx].Total++
		if r.Correct {
			resp.Batches[idx].CorrectCount++
		}
		resp.Results = append(resp.Results, dto.ResultResponse{
			BatchID:       r.BatchID,
			Number:        r.Number,
			UserAnswer:    r.UserAnswer,
			CorrectAnswer: r.CorrectAnswer,
			Correct:       r.Correct,
		})
	}
	return resp, nil
}

func (s *resultService) loadBatch(ctx context.Context, batchID string) (map[int]domain.Question, error) {
	questions, err := s.questions.GetQuestionsByBatchID(ctx, batchID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load question batch", err)
	}
	if len(questions) == 0 {
		return nil, domain.NewBatchNotFoundError(batchID)
	}
	byNumber := make(map[int]domain.Question, len(questions))
	for _, q := range questions {
		byNumber[q.Number] = q
	}
	return byNumber, nil
}

var affirmativeAnswers = map[string]bool{"true": true, "참": true, "o": true}
var negativeAnswers = map[string]bool{"false": true, "거짓": true, "x": true}

// gradeAnswer compares a submitted answer against the stored one after
// canonicalization. Truefalse answers additionally accept the Korean and
// O/X spellings on either side.
func gradeAnswer(questionType, correctAnswer, userAnswer string) bool {
	user := validator.Normalize(userAnswer)
	correct := validator.Normalize(correctAnswer)
	if questionType == domain.ItemTypeTrueFalse {
		userBool, userOK := boolAnswer(user)
		correctBool, correctOK := boolAnswer(correct)
		if userOK && correctOK {
			return userBool == correctBool
		}
	}
	return user != "" && user == correct
}

func boolAnswer(normalized string) (bool, bool) {
	if affirmativeAnswers[normalized] {
		return true, true
	}
	if negativeAnswers[normalized] {
		return false, true
	}
	return false, false
}
