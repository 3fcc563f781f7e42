package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"mathquiz/internal/domain"
	"mathquiz/internal/dto"
	"mathquiz/internal/logger"
	"mathquiz/internal/validator"

	"go.uber.org/zap"
)

// generationPrompt is the fixed instruction block prepended to every
// generation request. The unit names and question count are appended by
// buildGenerationPrompt.
const generationPrompt = `아래의 대단원, 중단원, 소단원에 해당하는 초등학교 수학 문제를 생성해줘.
조건:
1. 문제 개수는 정확히 N개 생성해줘. (아래 [문제 개수]를 참고해)
2. 문제는 객관식(4지선다), OX, 주관식 중 하나로 생성해줘.
- 객관식인 경우, options의 id별 text가 모두 달라야만 해.
- OX인 경우, answer이 false일 땐 explanation에 정답 풀이를 작성하고, text에는 오답을 적어줘.
3. 문제 유형은 다음 중 하나로 지정해줘: 'multiple', 'truefalse', 'subjective'
4. **answer는 반드시 정답으로 설정한 보기 또는 값과 정확히 일치해야 해.**
- 예: 계산 결과가 false인데 answer가 true면 안 돼.
- 숫자 계산 또는 판단 결과를 기준으로 정확한 논리값(true/false), 보기 ID(a/b/...), 또는 정확한 주관식 텍스트를 넣어야 해.

문제는 아래 JSON 형식 중 하나로 생성해줘. 그리고 최종 결과는 반드시 배열([])로 출력해줘.

객관식 예시:
{
  "type": "multiple",
  "text": "질문 내용",
  "options": [
    { "id": "a", "text": "보기 1" },
    { "id": "b", "text": "보기 2" },
    { "id": "c", "text": "보기 3" },
    { "id": "d", "text": "보기 4" }
  ],
  "answer": "b",
  "explanation": "해설"
}

OX 예시:
{
  "type": "truefalse",
  "answer": true,
  "text": "질문 내용",
  "explanation": "해설"
}

주관식 예시:
{
  "type": "subjective",
  "text": "질문 내용",
  "answer": "정답",
  "explanation": "해설"
}

위 형식에 따라 문제들을 JSON 배열로 묶어서 출력해줘.
**중요**: 속성명은 반드시 큰따옴표로 감싸고, 최종 결과는 유효한 JSON 배열이어야 해.`

// QuizService defines the interface for quiz generation and retrieval
type QuizService interface {
	GenerateQuiz(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.GenerateQuizResponse, error)
	GetQuizByBatchID(ctx context.Context, batchID string) (*dto.GenerateQuizResponse, error)
}

// quizService implements QuizService
type quizService struct {
	completion domain.CompletionService
	validator  *validator.BatchValidator
	repo       domain.QuestionRepository
}

// NewQuizService creates a new instance of quizService
func NewQuizService(
	completion domain.CompletionService,
	batchValidator *validator.BatchValidator,
	repo domain.QuestionRepository,
) QuizService {
	return &quizService{
		completion: completion,
		validator:  batchValidator,
		repo:       repo,
	}
}

// GenerateQuiz asks the model for a batch, runs it through the
// validation-and-repair pipeline, and persists the result under a new
// batch id of the form {t|s}-<userID>-<n>.
func (s *quizService) GenerateQuiz(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.GenerateQuizResponse, error) {
	if req.UserID == "" {
		return nil, domain.NewInvalidInputError("user_id is required")
	}
	if req.QuestionCount <= 0 {
		return nil, domain.NewInvalidInputError("question_count must be positive")
	}

	raw, err := s.completion.Complete(ctx, buildGenerationPrompt(req))
	if err != nil {
		return nil, err
	}

	items, err := s.validator.ValidateBatch(ctx, raw, req.QuestionCount)
	if err != nil {
		return nil, err
	}

	batchCount, err := s.repo.CountBatchesByUserID(ctx, req.UserID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to count existing batches", err)
	}

	batch := &domain.Batch{
		BatchID: fmt.Sprintf("%s-%s-%d", batchPrefix(req.UserType), req.UserID, batchCount+1),
		UserID:  req.UserID,
		Unit1:   req.Unit1,
		Unit2:   req.Unit2,
		Unit3:   req.Unit3,
		Items:   items,
	}
	if err := s.repo.SaveQuestions(ctx, batch); err != nil {
		return nil, domain.NewInternalError("Failed to save question batch", err)
	}

	logger.Get().Info("generated question batch",
		zap.String("batchID", batch.BatchID),
		zap.Int("questions", len(items)))

	return toQuizResponse(batch), nil
}

// GetQuizByBatchID returns a previously generated batch.
func (s *quizService) GetQuizByBatchID(ctx context.Context, batchID string) (*dto.GenerateQuizResponse, error) {
	questions, err := s.repo.GetQuestionsByBatchID(ctx, batchID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load question batch", err)
	}
	if len(questions) == 0 {
		return nil, domain.NewBatchNotFoundError(batchID)
	}

	resp := &dto.GenerateQuizResponse{
		BatchID: batchID,
		Unit1:   questions[0].Unit1,
		Unit2:   questions[0].Unit2,
		Unit3:   questions[0].Unit3,
	}
	for _, q := range questions {
		resp.Questions = append(resp.Questions, dto.QuestionResponse{
			Number:      q.Number,
			Type:        q.Type,
			Text:        q.Text,
			Options:     optionsFromJSON(q.Options),
			Answer:      answerFromString(q.Type, q.Answer),
			Explanation: q.Explanation,
		})
	}
	return resp, nil
}

func buildGenerationPrompt(req *dto.GenerateQuizRequest) string {
	return generationPrompt + fmt.Sprintf(
		"[대단원] %s, [중단원] %s, [소단원] %s[문제 개수] %d개",
		req.Unit1, req.Unit2, req.Unit3, req.QuestionCount,
	)
}

// Teachers and students keep separate batch namespaces; anything that is
// not explicitly a student counts as a teacher.
func batchPrefix(userType string) string {
	if userType == "student" {
		return "s"
	}
	return "t"
}

func toQuizResponse(batch *domain.Batch) *dto.GenerateQuizResponse {
	resp := &dto.GenerateQuizResponse{
		BatchID: batch.BatchID,
		Unit1:   batch.Unit1,
		Unit2:   batch.Unit2,
		Unit3:   batch.Unit3,
	}
	for _, item := range batch.Items {
		q := dto.QuestionResponse{
			Number:      item.Number,
			Type:        item.Type,
			Text:        item.Text,
			Answer:      item.Answer,
			Explanation: item.Explanation,
		}
		for _, opt := range item.Options {
			q.Options = append(q.Options, dto.OptionResponse{ID: opt.ID, Text: opt.Text})
		}
		resp.Questions = append(resp.Questions, q)
	}
	return resp
}

func optionsFromJSON(raw string) []dto.OptionResponse {
	if raw == "" {
		return nil
	}
	var options []dto.OptionResponse
	if err := json.Unmarshal([]byte(raw), &options); err != nil {
		logger.Get().Warn("stored options are not valid JSON", zap.Error(err))
		return nil
	}
	return options
}

// answerFromString restores the JSON shape of a stored answer: truefalse
// answers go back to booleans, everything else stays a string.
func answerFromString(questionType, answer string) any {
	if questionType == domain.ItemTypeTrueFalse {
		return strings.EqualFold(answer, "true")
	}
	return answer
}
