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

// DecayHandler handles commands.DecayCommand.
type DecayHandler struct {
	core   Core
	logger *zap.Logger
}

func NewDecayHandler(core Core, logger *zap.Logger) *DecayHandler {
	return &DecayHandler{core: core, logger: logger}
}

func (h *DecayHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(*commands.DecayCommand)
	if !ok {
		return fmt.Errorf("decay handler: unexpected command type %T", cmd)
	}

	return h.core.WriteLocked(func(state *aggregates.State) error {
		halfLife := c.HalfLifeDays
		if halfLife <= 0 {
			halfLife = state.Policy().EnergyHalfLifeDays
		}
		updated, err := lifecycle.Decay(state, halfLife, h.core.Now())
		if err != nil {
			h.logger.Debug("decay failed", zap.Error(err))
			return err
		}
		c.Result = commands.DecayResult{Updated: updated}
		return nil
	})
}
