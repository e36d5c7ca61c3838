package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"backend2/application/queries"
	"backend2/application/queries/bus"
	"backend2/domain/core/aggregates"
	"backend2/domain/graphengine"
	"backend2/domain/recall"
)

// RecallHandler handles queries.RecallQuery.
type RecallHandler struct {
	core   Core
	logger *zap.Logger
}

func NewRecallHandler(core Core, logger *zap.Logger) *RecallHandler {
	return &RecallHandler{core: core, logger: logger}
}

func (h *RecallHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.RecallQuery)
	if !ok {
		return nil, fmt.Errorf("recall handler: unexpected query type %T", q)
	}

	var hits []recall.Result
	persistErr := h.core.RecallLocked(func(state *aggregates.State, engine *graphengine.Engine) {
		hits = recall.Run(state, engine, state.Policy(), recall.Query{
			Text:  query.Text,
			Limit: query.Limit,
			Scope: query.Scope,
		}, h.core.Now())
	})
	if persistErr != nil {
		return nil, persistErr
	}

	result := queries.RecallResult{Hits: make([]queries.RecallHit, 0, len(hits))}
	for _, r := range hits {
		result.Hits = append(result.Hits, queries.RecallHit{
			ID:         r.Item.ID().String(),
			Type:       string(r.Item.Type()),
			Text:       r.Item.Text(),
			Tags:       r.Item.Tags().Slice(),
			Importance: r.Item.Importance(),
			Activation: r.Activation,
			Score:      r.Score,
		})
	}
	return result, nil
}
