package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"backend2/application/commands"
	"backend2/application/commands/bus"
)

// RefreshHandler handles commands.RefreshCommand.
type RefreshHandler struct {
	core   Core
	logger *zap.Logger
}

func NewRefreshHandler(core Core, logger *zap.Logger) *RefreshHandler {
	return &RefreshHandler{core: core, logger: logger}
}

func (h *RefreshHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(*commands.RefreshCommand)
	if !ok {
		return fmt.Errorf("refresh handler: unexpected command type %T", cmd)
	}
	c.Result = commands.RefreshResult{Triggered: h.core.TriggerManifestRegeneration()}
	return nil
}
