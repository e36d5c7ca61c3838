// Package lifecycle implements the remember/associate/feedback/decay/
// consolidate operations of spec §4.5, operating on a *aggregates.State
// plus the active *config.Policy.
package lifecycle

import (
	"backend2/domain/core/aggregates"
	"backend2/domain/core/entities"
	"backend2/domain/core/validators"
	"backend2/domain/core/valueobjects"
	"backend2/pkg/errors"
)

// RememberRequest carries the inputs to remember() (spec §4.5).
type RememberRequest struct {
	Text       string
	Type       entities.ItemType
	Tags       []string
	Importance float64
	TTL        string
	Scope      string
}

// RememberOutcome reports the result of a remember() call, including the
// write-time validator's signals (spec §7).
type RememberOutcome struct {
	ID                 valueobjects.ItemID
	AdjustedImportance float64
	Signals            []string
	Confidence         float64
}

// Remember assigns a fresh id, sets timestamps to now, seeds energy from
// importance, and rejects candidates the write-time pattern rules (§7)
// mark invalid: confidence below the validator's acceptance floor, or a
// high importance claim with no specifics. Otherwise the adjusted
// importance is what gets stored.
func Remember(state *aggregates.State, req RememberRequest, now int64) (*RememberOutcome, error) {
	mv := validators.NewMemoryValidator()
	if err := mv.ValidateType(req.Type); err != nil {
		return nil, err
	}
	if err := mv.ValidateText(req.Text); err != nil {
		return nil, err
	}
	if err := mv.ValidateImportance(req.Importance); err != nil {
		return nil, err
	}

	tags, err := valueobjects.NewTagSet(req.Tags)
	if err != nil {
		return nil, err
	}
	scope, err := valueobjects.NewScope(req.Scope)
	if err != nil {
		return nil, err
	}

	wtv := validators.NewWriteTimeValidator(state.Policy().HighImportanceThreshold)
	result := wtv.Evaluate(req.Text, req.Importance)
	if !result.Valid {
		return nil, errors.NewMemoryRejectionError(result.Signals, result.Confidence, result.AdjustedImportance)
	}

	item, err := entities.NewMemoryItem(req.Type, req.Text, tags, result.AdjustedImportance, req.TTL, scope, now)
	if err != nil {
		return nil, err
	}
	if err := state.AddItem(item); err != nil {
		return nil, err
	}
	state.RecordHistory("remember", item.ID().String(), now)

	return &RememberOutcome{
		ID:                 item.ID(),
		AdjustedImportance: result.AdjustedImportance,
		Signals:            result.Signals,
		Confidence:         result.Confidence,
	}, nil
}

// Associate implements the associate() operation: reinforce an existing
// edge or insert a new one. Both endpoints must already exist.
func Associate(state *aggregates.State, from, to valueobjects.ItemID, relation string, weight float64, now int64) (*aggregates.MemoryEdge, error) {
	ev := validators.NewEdgeValidator()
	if err := ev.ValidateRelation(relation); err != nil {
		return nil, err
	}
	if err := ev.ValidateWeight(weight); err != nil {
		return nil, err
	}
	edge, err := state.Associate(from, to, relation, weight, now)
	if err != nil {
		return nil, errors.ErrUnknownItem.WithCause(err)
	}
	state.RecordHistory("associate", from.String()+"->"+to.String(), now)
	return edge, nil
}

// Feedback implements the feedback() operation (spec §4.5).
func Feedback(state *aggregates.State, id valueobjects.ItemID, outcome entities.FeedbackOutcome, now int64) (*entities.MemoryItem, error) {
	item, ok := state.Item(id)
	if !ok {
		return nil, errors.ErrUnknownItem.WithDetail("id", id.String())
	}
	if err := item.ApplyFeedback(outcome, now); err != nil {
		return nil, errors.ErrUnknownFeedbackOutcome.WithCause(err)
	}
	state.RecordHistory("feedback", id.String()+":"+string(outcome), now)
	return item, nil
}

// Decay implements the decay() operation across every item in state.
func Decay(state *aggregates.State, halfLifeDays float64, now int64) (int, error) {
	mv := validators.NewMemoryValidator()
	if err := mv.ValidateHalfLife(halfLifeDays); err != nil {
		return 0, err
	}
	count := state.Decay(halfLifeDays, now)
	state.RecordHistory("decay", "", now)
	return count, nil
}

// Consolidate implements the consolidate() operation: remove items below
// the pruning floor and rarely accessed, cascading to incident edges.
func Consolidate(state *aggregates.State, now int64) int {
	removed := state.Consolidate(now)
	state.RecordHistory("consolidate", "", now)
	return removed
}
