package validator

import "strings"

// Sentence markers the generation prompt trains the model to emit. The
// explanation of a well-formed item concludes with "... 정답은 X입니다."
const (
	answerMarker        = "정답은 "
	sentenceTerminator  = "입니다"
	contradictionMarker = "아니라"
	incorrectSuffix     = "(오답)"
	conclusionPrefix    = "따라서 정답은 "
)

// ExtractClaimedToken returns the answer token the explanation claims:
// the substring between the conclusion marker and the next sentence
// terminator, trimmed and lower-cased. Empty string when the marker is
// absent; callers must treat that as "cannot determine".
func ExtractClaimedToken(explanation string) string {
	idx := strings.Index(explanation, answerMarker)
	if idx == -1 {
		return ""
	}
	sub := strings.TrimSpace(explanation[idx+len(answerMarker):])
	if end := strings.Index(sub, sentenceTerminator); end != -1 {
		sub = strings.TrimSpace(sub[:end])
	}
	return strings.ToLower(sub)
}

// ExtractClaimedMeaning returns the fragment preceding the first sentence
// terminator, the semantic anchor matched against option text when the
// claimed token alone does not name a known option.
func ExtractClaimedMeaning(explanation string) string {
	if idx := strings.Index(explanation, sentenceTerminator); idx != -1 {
		return strings.TrimSpace(explanation[:idx])
	}
	return strings.TrimSpace(explanation)
}

// StripContradictions removes negated clauses ("X가 아니라 ...") so the
// distractor value in front of the marker cannot be mistaken for the
// conclusion. Chained negations are handled by cutting after the last
// occurrence.
func StripContradictions(explanation string) string {
	if idx := strings.LastIndex(explanation, contradictionMarker); idx != -1 {
		return strings.TrimSpace(explanation[idx+len(contradictionMarker):])
	}
	return strings.TrimSpace(explanation)
}

// CollapseDuplicateSentences keeps the first occurrence of each sentence,
// preserving order. The model occasionally repeats its conclusion verbatim.
func CollapseDuplicateSentences(explanation string) string {
	trailing := strings.HasSuffix(strings.TrimSpace(explanation), ".")
	parts := strings.Split(explanation, ".")
	seen := make(map[string]struct{}, len(parts))
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		kept = append(kept, s)
	}
	out := strings.Join(kept, ". ")
	if trailing && out != "" {
		out += "."
	}
	return out
}
