package validator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"mathquiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batchJSON(count int) string {
	items := make([]string, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, fmt.Sprintf(
			`{"type": "multiple", "text": "%d + 1 = ?", "answer": "a",
			  "explanation": "정답은 a입니다.",
			  "options": [{"id": "a", "text": "%d"}, {"id": "b", "text": "%d"}]}`,
			i, i+1, i+2))
	}
	return "[" + strings.Join(items, ",") + "]"
}

func TestValidateBatchTruncatesAndRenumbers(t *testing.T) {
	v := newTestValidator(&stubCompletion{})

	items, err := v.ValidateBatch(context.Background(), batchJSON(7), 5)
	require.NoError(t, err)
	require.Len(t, items, 5, "items 6-7 are tail-dropped")

	for i, item := range items {
		assert.Equal(t, i+1, item.Number)
		// Original order preserved: the question text carries its index.
		assert.Equal(t, fmt.Sprintf("%d + 1 = ?", i), item.Text)
	}
}

func TestValidateBatchKeepsShortBatch(t *testing.T) {
	v := newTestValidator(&stubCompletion{})

	items, err := v.ValidateBatch(context.Background(), batchJSON(3), 5)
	require.NoError(t, err)
	assert.Len(t, items, 3, "undersized batches are never resampled")
}

func TestValidateBatchStructuralErrorAbortsCall(t *testing.T) {
	v := newTestValidator(&stubCompletion{})

	_, err := v.ValidateBatch(context.Background(), "모델이 JSON을 반환하지 않았습니다.", 3)
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrStructuralParse, domainErr.Code)
}

func TestValidateBatchUnknownTypePassesThrough(t *testing.T) {
	v := newTestValidator(&stubCompletion{})
	raw := `[{"type": "matching", "text": "짝을 지으세요", "answer": "a-1", "explanation": "그대로 둡니다."}]`

	items, err := v.ValidateBatch(context.Background(), raw, 1)
	require.NoError(t, err)
	assert.Equal(t, "a-1", items[0].Answer)
	assert.Equal(t, "그대로 둡니다.", items[0].Explanation)
}

func TestValidateBatchSubjectiveTrustedAsIs(t *testing.T) {
	v := newTestValidator(&stubCompletion{})
	raw := `[{"type": "subjective", "text": "12 x 3 = ?", "answer": "36", "explanation": "12 x 3 = 36입니다."}]`

	items, err := v.ValidateBatch(context.Background(), raw, 1)
	require.NoError(t, err)
	assert.Equal(t, "36", items[0].Answer)
	assert.Equal(t, "12 x 3 = 36입니다.", items[0].Explanation)
}

func TestValidateAndCleanRoundTrip(t *testing.T) {
	v := newTestValidator(&stubCompletion{})
	raw := `[
		{"type": "multiple", "text": "3 + 4 = ?", "answer": "a",
		 "explanation": "3 + 4 = 7이므로, 정답은 b입니다.",
		 "options": [{"id": "a", "text": "5"}, {"id": "b", "text": "7"},
		             {"id": "c", "text": "8"}, {"id": "d", "text": "9"}]},
		{"type": "truefalse", "text": "7은 소수이다.", "answer": "true",
		 "explanation": "7은 소수가 맞습니다. 따라서 정답은 참입니다."}
	]`

	out, err := v.ValidateAndClean(context.Background(), raw, 2)
	require.NoError(t, err)

	var items []domain.Item
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 2)

	assert.Equal(t, 1, items[0].Number)
	assert.Equal(t, "b", items[0].Answer)
	assertSingleCorrectOption(t, &items[0])

	assert.Equal(t, 2, items[1].Number)
	assert.Equal(t, true, items[1].Answer, "truefalse answer survives serialization as a JSON boolean")
	assert.Empty(t, items[1].Options)
}

func TestValidateBatchRepairsEveryItemIndependently(t *testing.T) {
	// A failed escalation on one item must not shrink the batch or affect
	// its neighbors.
	stub := &stubCompletion{err: assert.AnError}
	v := newTestValidator(stub)
	raw := `[
		{"type": "multiple", "text": "q1", "answer": "a",
		 "explanation": "정답은 10입니다.",
		 "options": [{"id": "a", "text": "1"}, {"id": "b", "text": "2"}]},
		{"type": "multiple", "text": "q2", "answer": "a",
		 "explanation": "정답은 2입니다.",
		 "options": [{"id": "a", "text": "1"}, {"id": "b", "text": "2"}]}
	]`

	items, err := v.ValidateBatch(context.Background(), raw, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "a", items[0].Answer, "unrepairable item keeps its prior answer")
	assert.Equal(t, "b", items[1].Answer)
}
