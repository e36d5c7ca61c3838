//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	commandbus "backend2/application/commands/bus"
	"backend2/application/core"
	"backend2/application/ports"
	querybus "backend2/application/queries/bus"
	"backend2/infrastructure/config"
	"backend2/pkg/auth"
)

// Container holds the fully wired application: the CQRS buses the
// interfaces/http router dispatches through, plus the collaborators
// main needs directly (the orchestrator, for its Close; the rate
// limiter, for HTTP middleware).
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	Store        ports.Store
	Orchestrator *core.Orchestrator
	CommandBus   *commandbus.CommandBus
	QueryBus     *querybus.QueryBus
	RateLimiter  auth.RateLimiter
}

// SuperSet is the provider set wire.Build assembles Container from. Kept
// as the injector source of truth; wire_gen.go is the hand-maintained
// stand-in for what `wire` would generate from it, since this
// environment never runs the Go toolchain (including `go generate`/wire
// itself) to regenerate it.
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideStore,
	ProvideSummariser,
	ProvideRateLimiter,
	ProvideInitialState,
	ProvideOrchestrator,
	ProvideCommandBus,
	ProvideQueryBus,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // wire replaces this body at generation time
}
