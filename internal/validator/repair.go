package validator

import (
	"context"
	"strings"

	"mathquiz/internal/domain"

	"go.uber.org/zap"
)

// Boolean conclusion tokens. The prompt asks for "참/거짓" but the model
// mixes in English literals often enough to accept both.
var (
	trueTokens  = map[string]struct{}{"true": {}, "참": {}, "o": {}}
	falseTokens = map[string]struct{}{"false": {}, "거짓": {}, "x": {}}
)

// repairMultiple reconciles a multiple-choice item's declared answer with
// its explanation and option list. It never fails: when no sub-step can
// determine a confident answer, the item is returned untouched.
func (v *BatchValidator) repairMultiple(ctx context.Context, item *domain.Item) *domain.Item {
	if len(item.Options) == 0 {
		return item
	}

	stripped := StripContradictions(item.Explanation)
	token := ExtractClaimedToken(stripped)
	meaning := ExtractClaimedMeaning(stripped)

	finalID := ""
	switch {
	case token == "":
		// No conclusion marker: the declared answer is provisionally trusted.
		if id, ok := item.AnswerID(); ok && item.OptionByID(id) != nil {
			finalID = id
		} else {
			finalID = item.Options[0].ID
			v.logger.Warn("repair fallback: no conclusion marker and unknown declared answer, defaulting to first option",
				zap.String("type", item.Type),
				zap.Int("question_num", item.Number))
		}

	case item.OptionByID(token) != nil:
		// The claimed token names an option id. It wins unless the claimed
		// meaning names a different option's text outright.
		finalID = token
		if id := findOptionByText(item, meaning); id != "" && id != token {
			finalID = id
		}

	default:
		// The claimed token is free text ("8", "15cm", ...): match it, then
		// the wider meaning phrase, against the option texts.
		if id := findOptionByText(item, token); id != "" {
			finalID = id
		} else if id := findOptionByText(item, meaning); id != "" {
			finalID = id
		}
	}

	if finalID == "" {
		repaired := item.Clone()
		id, err := v.resolveWithModel(ctx, repaired)
		if err != nil {
			// Best effort only: a failed escalation leaves the item exactly
			// as it arrived.
			v.logger.Warn("secondary solve failed, leaving item unchanged",
				zap.Int("question_num", item.Number),
				zap.Error(err))
			return item
		}
		finalID = id
		item = repaired
	}

	item.Answer = finalID
	enforceSingleCorrectOption(item, finalID)
	item.Explanation = rewriteConclusion(item.Explanation, finalID)
	return item
}

// repairTrueFalse fixes the boolean answer from the explanation's
// conclusion and normalizes the closing sentence. The answer must come out
// strictly boolean-typed.
func (v *BatchValidator) repairTrueFalse(ctx context.Context, item *domain.Item) *domain.Item {
	expl := StripContradictions(item.Explanation)

	answer, found := boolFromToken(ExtractClaimedToken(expl))
	if !found {
		// Approximation, not verification: the conclusion phrase merely
		// containing the "true" literal decides the answer.
		if meaning := ExtractClaimedMeaning(expl); meaning != "" {
			answer = strings.Contains(Normalize(meaning), "true")
		} else if declared, ok := declaredBool(item.Answer); ok {
			// Nothing usable in the explanation; coerce the declared
			// answer so the field always comes out boolean-typed.
			answer = declared
		} else {
			answer = false
			v.logger.Warn("repair fallback: no boolean signal in explanation or answer, defaulting to false",
				zap.Int("question_num", item.Number))
		}
	}

	item.Answer = answer
	expl = CollapseDuplicateSentences(expl)
	item.Explanation = rewriteBoolConclusion(expl, answer)
	return item
}

// declaredBool reads the declared answer as a boolean, accepting real
// booleans and the token spellings ("true", "참", "o", ...).
func declaredBool(answer any) (value, found bool) {
	if b, ok := answer.(bool); ok {
		return b, true
	}
	if s, ok := answer.(string); ok {
		return boolFromToken(s)
	}
	return false, false
}

func boolFromToken(token string) (value, found bool) {
	norm := Normalize(token)
	if norm == "" {
		return false, false
	}
	if _, ok := trueTokens[norm]; ok {
		return true, true
	}
	if _, ok := falseTokens[norm]; ok {
		return false, true
	}
	return false, false
}

// optionBareText returns the option text with the incorrect marker
// removed, the form used for every comparison.
func optionBareText(opt *domain.Option) string {
	return strings.TrimSpace(strings.ReplaceAll(opt.Text, incorrectSuffix, ""))
}

// findOptionByText returns the id of the option whose normalized text
// equals the normalized phrase, or "" when none does.
func findOptionByText(item *domain.Item, phrase string) string {
	norm := Normalize(phrase)
	if norm == "" {
		return ""
	}
	for i := range item.Options {
		if Normalize(optionBareText(&item.Options[i])) == norm {
			return item.Options[i].ID
		}
	}
	return ""
}

// enforceSingleCorrectOption appends the incorrect marker to every option
// except the answer. Idempotent: the marker is never doubled, and an
// option promoted to answer loses a previously applied marker.
func enforceSingleCorrectOption(item *domain.Item, correctID string) {
	for i := range item.Options {
		opt := &item.Options[i]
		if opt.ID == correctID {
			opt.Text = optionBareText(opt)
			continue
		}
		if !strings.Contains(opt.Text, incorrectSuffix) {
			opt.Text += incorrectSuffix
		}
	}
}

// rewriteConclusion rewrites the explanation's concluding sentence to
// assert the final answer, keeping explanation and answer synchronized
// after repair.
func rewriteConclusion(explanation, correctID string) string {
	if idx := strings.Index(explanation, answerMarker); idx != -1 {
		return explanation[:idx] + answerMarker + correctID + sentenceTerminator + "."
	}
	base := strings.TrimSpace(explanation)
	if base == "" {
		return conclusionPrefix + correctID + sentenceTerminator + "."
	}
	return base + " " + conclusionPrefix + correctID + sentenceTerminator + "."
}

func rewriteBoolConclusion(explanation string, answer bool) string {
	word := "거짓"
	if answer {
		word = "참"
	}
	return rewriteConclusion(explanation, word)
}
