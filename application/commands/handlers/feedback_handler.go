package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"backend2/application/commands"
	"backend2/application/commands/bus"
	"backend2/domain/core/aggregates"
	"backend2/domain/core/entities"
	"backend2/domain/core/valueobjects"
	"backend2/domain/lifecycle"
)

// FeedbackHandler handles commands.FeedbackCommand.
type FeedbackHandler struct {
	core   Core
	logger *zap.Logger
}

func NewFeedbackHandler(core Core, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{core: core, logger: logger}
}

func (h *FeedbackHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(*commands.FeedbackCommand)
	if !ok {
		return fmt.Errorf("feedback handler: unexpected command type %T", cmd)
	}

	id, err := valueobjects.NewItemIDFromString(c.ID)
	if err != nil {
		return err
	}

	return h.core.WriteLocked(func(state *aggregates.State) error {
		item, err := lifecycle.Feedback(state, id, entities.FeedbackOutcome(c.Outcome), h.core.Now())
		if err != nil {
			h.logger.Debug("feedback failed", zap.Error(err))
			return err
		}
		c.Result = commands.FeedbackResult{
			ID:           item.ID().String(),
			Energy:       item.Energy(),
			Importance:   item.Importance(),
			SuccessCount: item.Success(),
			FailCount:    item.Fail(),
		}
		return nil
	})
}
