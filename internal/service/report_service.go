package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"mathquiz/internal/cache"
	"mathquiz/internal/domain"
	"mathquiz/internal/dto"
	"mathquiz/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ReportService defines the interface for class-level reporting
type ReportService interface {
	GetClassReport(ctx context.Context, roomCode string) (*dto.ClassReportResponse, error)
	InvalidateClassReport(ctx context.Context, roomCode string) error
}

// reportService implements ReportService. Report building scans every
// submission of a room, so results are cached and concurrent builds for
// the same room are collapsed through singleflight.
type reportService struct {
	results domain.ResultRepository
	users   domain.UserRepository
	cache   domain.Cache
	ttl     time.Duration
	group   singleflight.Group
}

// NewReportService creates a new instance of reportService
func NewReportService(
	results domain.ResultRepository,
	users domain.UserRepository,
	reportCache domain.Cache,
	ttl time.Duration,
) ReportService {
	return &reportService{
		results: results,
		users:   users,
		cache:   reportCache,
		ttl:     ttl,
	}
}

// GetClassReport aggregates every submission against the room's teacher
// batches: per-question answer shares, correct rates, and the students
// who have not submitted anything yet.
func (s *reportService) GetClassReport(ctx context.Context, roomCode string) (*dto.ClassReportResponse, error) {
	if roomCode == "" {
		return nil, domain.NewInvalidInputError("room code is required")
	}

	key := cache.GenerateCacheKey("report", "class", roomCode)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var resp dto.ClassReportResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			return &resp, nil
		}
		logger.Get().Warn("discarding undecodable cached report", zap.String("roomCode", roomCode))
	} else if err != domain.ErrCacheMiss {
		logger.Get().Warn("report cache read failed", zap.Error(err), zap.String("roomCode", roomCode))
	}

	result, err, _ := s.group.Do(roomCode, func() (interface{}, error) {
		resp, err := s.buildClassReport(ctx, roomCode)
		if err != nil {
			return nil, err
		}
		if payload, err := json.Marshal(resp); err == nil {
			if err := s.cache.Set(ctx, key, string(payload), s.ttl); err != nil {
				logger.Get().Warn("report cache write failed", zap.Error(err), zap.String("roomCode", roomCode))
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*dto.ClassReportResponse), nil
}

// InvalidateClassReport drops the cached report, forcing a rebuild on the
// next read. Called after new submissions arrive.
func (s *reportService) InvalidateClassReport(ctx context.Context, roomCode string) error {
	key := cache.GenerateCacheKey("report", "class", roomCode)
	return s.cache.Delete(ctx, key)
}

type questionTally struct {
	batchID string
	number  int
	total   int
	correct int
	answers map[string]int
}

func (s *reportService) buildClassReport(ctx context.Context, roomCode string) (*dto.ClassReportResponse, error) {
	students, err := s.users.GetUsersByIDPrefix(ctx, roomCode+"-")
	if err != nil {
		return nil, domain.NewInternalError("Failed to load room members", err)
	}

	results, err := s.results.GetResultsByBatchPrefix(ctx, "t-"+roomCode+"-")
	if err != nil {
		return nil, domain.NewInternalError("Failed to load room submissions", err)
	}

	submitted := make(map[string]bool)
	tallies := make(map[string]*questionTally)
	for _, r := range results {
		submitted[r.UserID] = true
		key := fmt.Sprintf("%s#%d", r.BatchID, r.Number)
		tally, ok := tallies[key]
		if !ok {
			tally = &questionTally{
				batchID: r.BatchID,
				number:  r.Number,
				answers: make(map[string]int),
			}
			tallies[key] = tally
		}
		tally.total++
		tally.answers[r.UserAnswer]++
		if r.Correct {
			tally.correct++
		}
	}

	resp := &dto.ClassReportResponse{
		RoomCode:     roomCode,
		NotSubmitted: []string{},
	}
	for _, student := range students {
		if student.UserType != "student" {
			continue
		}
		resp.TotalStudents++
		if submitted[student.ID] {
			resp.SubmittedStudents++
		} else {
			resp.NotSubmitted = append(resp.NotSubmitted, student.Name)
		}
	}

	for _, tally := range tallies {
		stat := dto.QuestionStatResponse{
			BatchID:      tally.batchID,
			Number:       tally.number,
			CorrectRate:  percentage(tally.correct, tally.total),
			AnswerShares: make(map[string]float64, len(tally.answers)),
		}
		for answer, count := range tally.answers {
			stat.AnswerShares[answer] = percentage(count, tally.total)
		}
		resp.Questions = append(resp.Questions, stat)
	}
	sort.Slice(resp.Questions, func(i, j int) bool {
		if resp.Questions[i].BatchID != resp.Questions[j].BatchID {
			return resp.Questions[i].BatchID < resp.Questions[j].BatchID
		}
		return resp.Questions[i].Number < resp.Questions[j].Number
	})
	return resp, nil
}

// percentage returns count/total as a percent rounded to one decimal.
func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}
