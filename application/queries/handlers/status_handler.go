package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"backend2/application/queries"
	"backend2/application/queries/bus"
	"backend2/domain/core/aggregates"
	"backend2/domain/graphengine"
)

// StatusHandler handles queries.StatusQuery.
type StatusHandler struct {
	core   Core
	logger *zap.Logger
}

func NewStatusHandler(core Core, logger *zap.Logger) *StatusHandler {
	return &StatusHandler{core: core, logger: logger}
}

func (h *StatusHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	if _, ok := q.(queries.StatusQuery); !ok {
		return nil, fmt.Errorf("status handler: unexpected query type %T", q)
	}

	var result queries.StatusResult
	h.core.ReadLocked(func(state *aggregates.State, _ *graphengine.Engine) {
		result.ItemCount = state.ItemCount()
		result.EdgeCount = state.EdgeCount()
		result.Version = state.Version()
		result.StateID = state.ID()
		result.BornAt = state.BornAt()
	})

	_, generatedAt, stale := h.core.ManifestSnapshot()
	result.LastManifestAt = generatedAt
	result.ManifestStale = stale
	result.ManifestRegenerating = h.core.ManifestRegenerating()

	return result, nil
}
