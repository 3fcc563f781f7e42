package validator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"mathquiz/internal/domain"

	"go.uber.org/zap"
)

// resolvePrompt asks the model to re-solve the question and answer with
// the exact text of one option, never an id, so a stale id claim cannot
// leak back in.
const resolvePrompt = `다음 수학 문제의 정답을 계산하고, 보기 중 정답과 정확히 일치하는 보기의 텍스트(text)만 아래 JSON 형식으로 반환해.
형식: { "text": "정답 텍스트" }

문제: %s

보기:
%s
※ 보기 번호(id)는 주어지지 않으니 절대 사용하지 마. 보기 중 하나의 텍스트만 JSON으로 반환해.`

// resolveWithModel escalates an ambiguous item to the completion service
// and returns the option id it resolves to. The item's options are
// mutated: prior incorrect markers are stripped before prompting, and as
// a last resort the returned text overwrites one option's text.
func (v *BatchValidator) resolveWithModel(ctx context.Context, item *domain.Item) (string, error) {
	var sb strings.Builder
	for i := range item.Options {
		// Strip earlier judgments so the prompt does not leak them.
		item.Options[i].Text = optionBareText(&item.Options[i])
		fmt.Fprintf(&sb, "- %s\n", item.Options[i].Text)
	}

	response, err := v.completion.Complete(ctx, fmt.Sprintf(resolvePrompt, item.Text, sb.String()))
	if err != nil {
		return "", domain.NewLLMServiceError(err)
	}

	candidate := extractSolvedText(response)
	if candidate == "" {
		return "", errors.New("secondary solve returned no usable answer")
	}

	// Prefer an explicit identifier over text matching.
	if opt := item.OptionByID(strings.ToLower(candidate)); opt != nil {
		return opt.ID, nil
	}
	if id := findOptionByText(item, candidate); id != "" {
		return id, nil
	}

	// Last-resort lossy repair: adopt one option and overwrite its text
	// with the solved answer. Deterministic target: the declared answer's
	// option when it exists, the first option otherwise.
	target := &item.Options[0]
	if id, ok := item.AnswerID(); ok {
		if opt := item.OptionByID(id); opt != nil {
			target = opt
		}
	}
	v.logger.Warn("repair fallback: solved text matches no option, overwriting option text",
		zap.Int("question_num", item.Number),
		zap.String("option_id", target.ID),
		zap.String("solved_text", candidate))
	target.Text = candidate
	return target.ID, nil
}

// extractSolvedText pulls the answer text out of the secondary
// completion. The model is asked for {"text": "..."} but frequently
// replies with fenced JSON or a bare sentence; decode defensively.
func extractSolvedText(response string) string {
	cleaned := stripCodeFences(response)

	if start := strings.Index(cleaned, "{"); start != -1 {
		if end := strings.LastIndex(cleaned, "}"); end > start {
			var parsed struct {
				Text string `json:"text"`
			}
			if err := json.Unmarshal([]byte(cleaned[start:end+1]), &parsed); err == nil {
				return strings.TrimSpace(parsed.Text)
			}
		}
	}

	return strings.TrimSpace(cleaned)
}
