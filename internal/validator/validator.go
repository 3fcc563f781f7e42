// Package validator implements the validation-and-repair pipeline that
// turns a raw LLM completion into an internally consistent question batch:
// exactly one correct option per multiple-choice item, strictly boolean
// truefalse answers, and explanations whose concluding sentence names the
// same answer as the answer field.
package validator

import (
	"context"
	"encoding/json"

	"mathquiz/internal/domain"

	"go.uber.org/zap"
)

// repairStrategy reconciles one structurally valid item with the
// data-model invariants. Strategies are best-effort and never fail; on an
// unrecoverable sub-step they return the item unchanged.
type repairStrategy func(ctx context.Context, item *domain.Item) *domain.Item

// BatchValidator is the orchestrator external callers invoke. It is
// stateless across calls; the completion service is injected at
// construction and shared safely between concurrent validations.
type BatchValidator struct {
	completion domain.CompletionService
	logger     *zap.Logger
	strategies map[string]repairStrategy
}

// NewBatchValidator wires the repair strategy table. Item types without
// an entry (subjective, unknown) pass through unrepaired.
func NewBatchValidator(completion domain.CompletionService, logger *zap.Logger) *BatchValidator {
	v := &BatchValidator{
		completion: completion,
		logger:     logger,
	}
	v.strategies = map[string]repairStrategy{
		domain.ItemTypeMultiple:  v.repairMultiple,
		domain.ItemTypeTrueFalse: v.repairTrueFalse,
	}
	return v
}

// ValidateBatch parses the raw completion, truncates the sequence to the
// requested count (tail-drop, never resampled), renumbers the retained
// items 1..k, and dispatches each to its repair strategy. Only a
// structural parse failure aborts the call.
func (v *BatchValidator) ValidateBatch(ctx context.Context, raw string, expectedCount int) ([]domain.Item, error) {
	items, err := ParseItems(raw)
	if err != nil {
		return nil, err
	}

	if expectedCount > 0 && len(items) > expectedCount {
		v.logger.Info("truncating oversized batch",
			zap.Int("parsed", len(items)),
			zap.Int("expected", expectedCount))
		items = items[:expectedCount]
	}

	for i := range items {
		items[i].Number = i + 1
		if strategy, ok := v.strategies[items[i].Type]; ok {
			items[i] = *strategy(ctx, &items[i])
		}
	}
	return items, nil
}

// ValidateAndClean is the text-in/text-out form of ValidateBatch: the
// repaired batch re-serialized into the same structured-array shape the
// model was asked for.
func (v *BatchValidator) ValidateAndClean(ctx context.Context, raw string, expectedCount int) (string, error) {
	items, err := v.ValidateBatch(ctx, raw, expectedCount)
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(items)
	if err != nil {
		return "", domain.NewInternalError("failed to serialize repaired batch", err)
	}
	return string(out), nil
}
