package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"backend2/application/commands"
	"backend2/application/commands/bus"
	"backend2/domain/core/aggregates"
	"backend2/domain/lifecycle"
)

// ConsolidateHandler handles commands.ConsolidateCommand.
type ConsolidateHandler struct {
	core   Core
	logger *zap.Logger
}

func NewConsolidateHandler(core Core, logger *zap.Logger) *ConsolidateHandler {
	return &ConsolidateHandler{core: core, logger: logger}
}

func (h *ConsolidateHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(*commands.ConsolidateCommand)
	if !ok {
		return fmt.Errorf("consolidate handler: unexpected command type %T", cmd)
	}

	return h.core.WriteLocked(func(state *aggregates.State) error {
		pruned := lifecycle.Consolidate(state, h.core.Now())
		c.Result = commands.ConsolidateResult{Pruned: pruned}
		return nil
	})
}
