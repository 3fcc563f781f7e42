package validator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mathquiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubCompletion is a canned completion service for repair tests.
type stubCompletion struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (s *stubCompletion) Complete(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func newTestValidator(stub *stubCompletion) *BatchValidator {
	return NewBatchValidator(stub, zap.NewNop())
}

func arithmeticItem() *domain.Item {
	return &domain.Item{
		Type:        domain.ItemTypeMultiple,
		Text:        "3 + 4 = ?",
		Answer:      "a",
		Explanation: "3 + 4 = 7이므로, 정답은 b입니다.",
		Options: []domain.Option{
			{ID: "a", Text: "5"},
			{ID: "b", Text: "7"},
			{ID: "c", Text: "8"},
			{ID: "d", Text: "9"},
		},
	}
}

func assertSingleCorrectOption(t *testing.T, item *domain.Item) {
	t.Helper()
	answerID, ok := item.AnswerID()
	require.True(t, ok, "multiple item answer must be a string id")

	matched := 0
	for _, opt := range item.Options {
		if opt.ID == answerID {
			matched++
			assert.NotContains(t, opt.Text, incorrectSuffix, "correct option must not carry the marker")
			continue
		}
		assert.Equal(t, 1, strings.Count(opt.Text, incorrectSuffix),
			"option %s must carry the incorrect marker exactly once", opt.ID)
	}
	assert.Equal(t, 1, matched, "answer must match exactly one option id")
}

func TestRepairMultipleFollowsClaimedToken(t *testing.T) {
	stub := &stubCompletion{}
	v := newTestValidator(stub)

	item := v.repairMultiple(context.Background(), arithmeticItem())

	assert.Equal(t, "b", item.Answer)
	assertSingleCorrectOption(t, item)
	assert.True(t, strings.HasSuffix(item.Explanation, "정답은 b입니다."))
	assert.Equal(t, 0, stub.calls, "a resolvable claim must not hit the model")
}

func TestRepairMultipleMatchesClaimedValueAgainstOptions(t *testing.T) {
	v := newTestValidator(&stubCompletion{})
	item := arithmeticItem()
	item.Explanation = "계산하면 8이 나옵니다. 따라서 정답은 8입니다."

	item = v.repairMultiple(context.Background(), item)

	assert.Equal(t, "c", item.Answer)
	assertSingleCorrectOption(t, item)
	assert.True(t, strings.HasSuffix(item.Explanation, "정답은 c입니다."))
}

func TestRepairMultipleStripsContradictions(t *testing.T) {
	v := newTestValidator(&stubCompletion{})
	item := arithmeticItem()
	item.Explanation = "7이 아니라 8이 아니라, 정답은 8입니다."

	item = v.repairMultiple(context.Background(), item)

	assert.Equal(t, "c", item.Answer, "only the unnegated clause decides the answer")
}

func TestRepairMultipleTrustsDeclaredAnswerWithoutMarker(t *testing.T) {
	v := newTestValidator(&stubCompletion{})
	item := arithmeticItem()
	item.Explanation = "세 수를 더하면 결과가 나옵니다."
	item.Answer = "d"

	item = v.repairMultiple(context.Background(), item)

	assert.Equal(t, "d", item.Answer)
	assertSingleCorrectOption(t, item)
	assert.True(t, strings.HasSuffix(item.Explanation, "따라서 정답은 d입니다."))
}

func TestRepairMultipleDefaultsToFirstOptionOnUnknownDeclaredAnswer(t *testing.T) {
	v := newTestValidator(&stubCompletion{})
	item := arithmeticItem()
	item.Explanation = "해설이 비어 있는 경우."
	item.Answer = "z"

	item = v.repairMultiple(context.Background(), item)

	assert.Equal(t, "a", item.Answer)
	assertSingleCorrectOption(t, item)
}

func TestRepairMultipleEscalatesToModel(t *testing.T) {
	stub := &stubCompletion{response: `{"text": "7"}`}
	v := newTestValidator(stub)
	item := arithmeticItem()
	item.Explanation = "암산하면 됩니다. 정답은 10입니다."
	// Pre-marked options must reach the model without the judgment leaking.
	item.Options[1].Text = "7(오답)"

	item = v.repairMultiple(context.Background(), item)

	require.Equal(t, 1, stub.calls)
	assert.NotContains(t, stub.prompts[0], incorrectSuffix)
	assert.Equal(t, "b", item.Answer)
	assertSingleCorrectOption(t, item)
}

func TestRepairMultipleAcceptsBareIDFromModel(t *testing.T) {
	stub := &stubCompletion{response: "c"}
	v := newTestValidator(stub)
	item := arithmeticItem()
	item.Explanation = "정답은 10입니다."

	item = v.repairMultiple(context.Background(), item)

	assert.Equal(t, "c", item.Answer)
	assertSingleCorrectOption(t, item)
}

func TestRepairMultipleLeavesItemUntouchedOnModelFailure(t *testing.T) {
	stub := &stubCompletion{err: errors.New("connection refused")}
	v := newTestValidator(stub)
	item := arithmeticItem()
	item.Explanation = "정답은 10입니다."
	item.Options[2].Text = "8(오답)"
	before := *item.Clone()

	repaired := v.repairMultiple(context.Background(), item)

	require.Equal(t, 1, stub.calls)
	assert.Equal(t, &before, repaired, "failed escalation must not mutate the item")
}

func TestRepairMultipleLeavesItemUntouchedOnUnusableResponse(t *testing.T) {
	stub := &stubCompletion{response: "   "}
	v := newTestValidator(stub)
	item := arithmeticItem()
	item.Explanation = "정답은 10입니다."
	before := *item.Clone()

	repaired := v.repairMultiple(context.Background(), item)

	assert.Equal(t, &before, repaired)
}

func TestRepairMultipleLossyOverwriteAdoptsDeclaredOption(t *testing.T) {
	stub := &stubCompletion{response: `{"text": "42"}`}
	v := newTestValidator(stub)
	item := arithmeticItem()
	item.Explanation = "정답은 10입니다."

	item = v.repairMultiple(context.Background(), item)

	// Declared answer was "a": its text is overwritten with the solved
	// answer and its id adopted. Lossy, but the batch stays consistent.
	assert.Equal(t, "a", item.Answer)
	assert.Equal(t, "42", item.OptionByID("a").Text)
	assertSingleCorrectOption(t, item)
}

func TestRepairMultipleIdempotent(t *testing.T) {
	v := newTestValidator(&stubCompletion{})

	once := v.repairMultiple(context.Background(), arithmeticItem())
	twice := v.repairMultiple(context.Background(), once.Clone())

	assert.Equal(t, once, twice)
}

func TestRepairMultipleWithoutOptionsIsNoop(t *testing.T) {
	v := newTestValidator(&stubCompletion{})
	item := &domain.Item{Type: domain.ItemTypeMultiple, Text: "q", Answer: "a", Explanation: "정답은 a입니다."}
	before := *item.Clone()

	assert.Equal(t, &before, v.repairMultiple(context.Background(), item))
}

func TestRepairTrueFalseExplicitMarker(t *testing.T) {
	v := newTestValidator(&stubCompletion{})

	item := &domain.Item{
		Type:        domain.ItemTypeTrueFalse,
		Text:        "7은 소수이다.",
		Answer:      "false",
		Explanation: "7은 1과 자기 자신만을 약수로 가집니다. 따라서 정답은 참입니다.",
	}
	item = v.repairTrueFalse(context.Background(), item)

	assert.Equal(t, true, item.Answer, "answer must be boolean-typed, never a string")
	assert.True(t, strings.HasSuffix(item.Explanation, "정답은 참입니다."))

	item = &domain.Item{
		Type:        domain.ItemTypeTrueFalse,
		Text:        "9는 소수이다.",
		Answer:      true,
		Explanation: "9 = 3 x 3이므로 소수가 아닙니다. 따라서 정답은 거짓입니다.",
	}
	item = v.repairTrueFalse(context.Background(), item)

	assert.Equal(t, false, item.Answer)
	assert.True(t, strings.HasSuffix(item.Explanation, "정답은 거짓입니다."))
}

func TestRepairTrueFalseContainsTrueFallback(t *testing.T) {
	v := newTestValidator(&stubCompletion{})

	item := &domain.Item{
		Type:        domain.ItemTypeTrueFalse,
		Text:        "5 + 5 = 10",
		Answer:      "maybe",
		Explanation: "계산 결과는 true가 맞습니다.",
	}
	item = v.repairTrueFalse(context.Background(), item)
	assert.Equal(t, true, item.Answer)

	item = &domain.Item{
		Type:        domain.ItemTypeTrueFalse,
		Text:        "5 + 5 = 11",
		Answer:      "true",
		Explanation: "계산해 보면 그렇지 않습니다.",
	}
	item = v.repairTrueFalse(context.Background(), item)
	assert.Equal(t, false, item.Answer)
}

func TestRepairTrueFalseCollapsesDuplicateSentences(t *testing.T) {
	v := newTestValidator(&stubCompletion{})
	item := &domain.Item{
		Type:        domain.ItemTypeTrueFalse,
		Text:        "7은 소수이다.",
		Answer:      true,
		Explanation: "7은 소수가 맞습니다. 7은 소수가 맞습니다. 따라서 정답은 참입니다.",
	}

	item = v.repairTrueFalse(context.Background(), item)

	assert.Equal(t, 1, strings.Count(item.Explanation, "7은 소수가 맞습니다"))
	assert.Equal(t, true, item.Answer)
}

func TestRepairTrueFalseIdempotent(t *testing.T) {
	v := newTestValidator(&stubCompletion{})
	item := &domain.Item{
		Type:        domain.ItemTypeTrueFalse,
		Text:        "7은 소수이다.",
		Answer:      "false",
		Explanation: "7은 소수가 맞습니다. 따라서 정답은 참입니다.",
	}

	once := v.repairTrueFalse(context.Background(), item)
	twice := v.repairTrueFalse(context.Background(), once.Clone())

	assert.Equal(t, once, twice)
}

func TestRepairTrueFalseEmptyExplanationCoercesDeclaredAnswer(t *testing.T) {
	v := newTestValidator(&stubCompletion{})

	item := &domain.Item{
		Type:        domain.ItemTypeTrueFalse,
		Text:        "7은 소수이다.",
		Answer:      "true",
		Explanation: "",
	}
	item = v.repairTrueFalse(context.Background(), item)

	assert.Equal(t, true, item.Answer, "answer must come out boolean-typed")
	assert.Equal(t, "따라서 정답은 참입니다.", item.Explanation)

	// A contradiction-only explanation reduces to nothing after stripping;
	// the declared answer still has to be coerced.
	item = &domain.Item{
		Type:        domain.ItemTypeTrueFalse,
		Text:        "7은 짝수이다.",
		Answer:      "false",
		Explanation: "7은 짝수가 아니라",
	}
	item = v.repairTrueFalse(context.Background(), item)

	assert.Equal(t, false, item.Answer)
	assert.Equal(t, "따라서 정답은 거짓입니다.", item.Explanation)
}

func TestRepairTrueFalseUnusableAnswerDefaultsToFalse(t *testing.T) {
	v := newTestValidator(&stubCompletion{})
	item := &domain.Item{
		Type:        domain.ItemTypeTrueFalse,
		Text:        "7은 소수이다.",
		Answer:      "maybe",
		Explanation: "",
	}

	item = v.repairTrueFalse(context.Background(), item)

	assert.Equal(t, false, item.Answer)
}
