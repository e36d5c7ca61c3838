package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"backend2/application/commands"
	"backend2/application/commands/bus"
	"backend2/domain/core/aggregates"
	"backend2/domain/core/entities"
	"backend2/domain/lifecycle"
)

// RememberHandler handles commands.RememberCommand.
type RememberHandler struct {
	core   Core
	logger *zap.Logger
}

// NewRememberHandler constructs a RememberHandler.
func NewRememberHandler(core Core, logger *zap.Logger) *RememberHandler {
	return &RememberHandler{core: core, logger: logger}
}

// Handle executes the remember() operation under the orchestrator's
// write lock.
func (h *RememberHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(*commands.RememberCommand)
	if !ok {
		return fmt.Errorf("remember handler: unexpected command type %T", cmd)
	}

	key := fingerprint("remember", c)
	if cached, ok := h.core.CheckIdempotent(key); ok {
		c.Result = cached.(commands.RememberResult)
		return nil
	}

	return h.core.WriteLocked(func(state *aggregates.State) error {
		req := lifecycle.RememberRequest{
			Text:       c.Text,
			Type:       entities.ItemType(c.Type),
			Tags:       c.Tags,
			Importance: c.Importance,
			TTL:        c.TTL,
			Scope:      c.Scope,
		}
		outcome, err := lifecycle.Remember(state, req, h.core.Now())
		if err != nil {
			h.logger.Debug("remember rejected", zap.Error(err))
			return err
		}
		c.Result = commands.RememberResult{
			ID:                 outcome.ID.String(),
			AdjustedImportance: outcome.AdjustedImportance,
			Signals:            outcome.Signals,
			Confidence:         outcome.Confidence,
		}
		h.core.RecordIdempotent(key, c.Result)
		return nil
	})
}
