package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"backend2/application/commands"
	"backend2/application/commands/bus"
	"backend2/domain/core/aggregates"
	"backend2/domain/core/valueobjects"
	"backend2/domain/lifecycle"
)

// AssociateHandler handles commands.AssociateCommand.
type AssociateHandler struct {
	core   Core
	logger *zap.Logger
}

func NewAssociateHandler(core Core, logger *zap.Logger) *AssociateHandler {
	return &AssociateHandler{core: core, logger: logger}
}

func (h *AssociateHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(*commands.AssociateCommand)
	if !ok {
		return fmt.Errorf("associate handler: unexpected command type %T", cmd)
	}

	key := fingerprint("associate", c)
	if cached, ok := h.core.CheckIdempotent(key); ok {
		c.Result = cached.(commands.AssociateResult)
		return nil
	}

	from, err := valueobjects.NewItemIDFromString(c.From)
	if err != nil {
		return err
	}
	to, err := valueobjects.NewItemIDFromString(c.To)
	if err != nil {
		return err
	}

	return h.core.WriteLocked(func(state *aggregates.State) error {
		edge, err := lifecycle.Associate(state, from, to, c.Relation, c.Weight, h.core.Now())
		if err != nil {
			h.logger.Debug("associate failed", zap.Error(err))
			return err
		}
		c.Result = commands.AssociateResult{
			From:             edge.From.String(),
			To:               edge.To.String(),
			Relation:         edge.Relation,
			Weight:           edge.Weight,
			LastReinforcedAt: edge.LastReinforcedAt,
		}
		h.core.RecordIdempotent(key, c.Result)
		return nil
	})
}
