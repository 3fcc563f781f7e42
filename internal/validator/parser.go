package validator

import (
	"encoding/json"
	"errors"
	"strings"

	"mathquiz/internal/domain"
)

// ParseItems decodes a raw LLM completion into an ordered item sequence.
// A single well-formed object (not wrapped in an array) is accepted and
// normalized into a one-element batch. Only structural decoding happens
// here; semantic repair is the repairer's job.
func ParseItems(raw string) ([]domain.Item, error) {
	cleaned := stripCodeFences(raw)
	if cleaned == "" {
		return nil, domain.NewStructuralParseError(errors.New("empty response"))
	}

	var items []domain.Item
	arrErr := json.Unmarshal([]byte(cleaned), &items)
	if arrErr == nil {
		return items, nil
	}

	var single domain.Item
	if err := json.Unmarshal([]byte(cleaned), &single); err == nil {
		return []domain.Item{single}, nil
	}

	return nil, domain.NewStructuralParseError(arrErr)
}

// stripCodeFences removes a surrounding ```json ... ``` block. Chat models
// wrap JSON output in fences regardless of instructions.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
