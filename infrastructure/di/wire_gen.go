// Code generated by Wire's injector shape in wire.go; hand-maintained
// here since this environment never runs `wire`/`go generate`. Keep this
// in lockstep with SuperSet: every provider wire.go lists is called here
// in the same dependency order.

package di

import (
	"context"
	"fmt"

	"backend2/infrastructure/config"
)

// InitializeContainer builds the Container wire.go's injector describes.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("di: provide logger: %w", err)
	}

	store, err := ProvideStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("di: provide store: %w", err)
	}

	state, err := ProvideInitialState(ctx, store, cfg)
	if err != nil {
		return nil, fmt.Errorf("di: provide initial state: %w", err)
	}

	summary := ProvideSummariser(cfg, logger)
	orchestrator := ProvideOrchestrator(state, store, summary, logger)
	rateLimiter := ProvideRateLimiter(cfg)

	commandBus, err := ProvideCommandBus(orchestrator, logger)
	if err != nil {
		return nil, fmt.Errorf("di: provide command bus: %w", err)
	}

	queryBus, err := ProvideQueryBus(orchestrator, logger)
	if err != nil {
		return nil, fmt.Errorf("di: provide query bus: %w", err)
	}

	return &Container{
		Config:       cfg,
		Logger:       logger,
		Store:        store,
		Orchestrator: orchestrator,
		CommandBus:   commandBus,
		QueryBus:     queryBus,
		RateLimiter:  rateLimiter,
	}, nil
}

// Close releases the container's held resources: the orchestrator's
// background manifest worker, the store's driver/file handles, and
// flushes the logger.
func (c *Container) Close(ctx context.Context) error {
	c.Orchestrator.Close()
	err := c.Store.Close(ctx)
	_ = c.Logger.Sync()
	return err
}
