package di

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"backend2/application/commands"
	commandbus "backend2/application/commands/bus"
	commandhandlers "backend2/application/commands/handlers"
	"backend2/application/core"
	"backend2/application/ports"
	"backend2/application/queries"
	querybus "backend2/application/queries/bus"
	queryhandlers "backend2/application/queries/handlers"
	"backend2/domain/core/aggregates"
	"backend2/infrastructure/config"
	"backend2/infrastructure/persistence/filestore"
	"backend2/infrastructure/persistence/graphstore"
	"backend2/infrastructure/summariser"
	"backend2/pkg/auth"
	"backend2/pkg/utils"
)

// ProvideLogger creates a new logger instance, development-mode verbose
// or production-mode JSON depending on cfg.Environment (teacher's
// original ProvideLogger, unchanged in shape).
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideStore selects the file-backed or graph-database-backed
// application/ports.Store per cfg.StoreBackend (spec §6).
func ProvideStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendGraph:
		return graphstore.New(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword, cfg.Neo4jDatabase, logger)
	default:
		return filestore.New(cfg.StateDir, logger)
	}
}

// ProvideSummariser wires the external theme summariser in only when an
// API key is configured (spec §4.6 step 4); manifest generation degrades
// to the keyword-derived summary when this returns nil.
func ProvideSummariser(cfg *config.Config, logger *zap.Logger) ports.ExternalSummariser {
	if !cfg.SummariserEnabled() {
		return nil
	}
	return summariser.New(cfg.SummariserAPIKey, cfg.SummariserModel, logger)
}

// ProvideRateLimiter creates the in-process token-bucket limiter that
// interfaces/http middleware throttles requests with. Unlike the
// teacher's DynamoDB-backed DistributedRateLimiter, this process is the
// sole writer to its own state, so an in-process limiter is sufficient
// (see DESIGN.md for why the distributed variant was dropped).
func ProvideRateLimiter(cfg *config.Config) auth.RateLimiter {
	return auth.NewTokenBucketLimiter(100, time.Minute)
}

// ProvideInitialState loads the persisted state (or a fresh one) so
// ProvideOrchestrator has something to wrap.
func ProvideInitialState(ctx context.Context, store ports.Store, cfg *config.Config) (*aggregates.State, error) {
	policy := cfg.BuildPolicy()
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("di: invalid policy: %w", err)
	}
	return store.Load(ctx, policy)
}

// ProvideOrchestrator builds the application/core.Orchestrator that
// serializes writes, routes reads through its RWMutex-guarded snapshot,
// and drives background manifest regeneration (spec §5).
func ProvideOrchestrator(
	state *aggregates.State,
	store ports.Store,
	summary ports.ExternalSummariser,
	logger *zap.Logger,
) *core.Orchestrator {
	return core.New(state, store, summary, utils.NowMillis, logger)
}

// CommandHandlerAdapter adapts a typed command handler into
// commandbus.CommandHandler, mirroring the teacher's original adapter.
type CommandHandlerAdapter struct {
	handler func(context.Context, commandbus.Command) error
}

func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd commandbus.Command) error {
	return a.handler(ctx, cmd)
}

// ProvideCommandBus registers every command handler spec §4.7 names.
func ProvideCommandBus(orchestrator *core.Orchestrator, logger *zap.Logger) (*commandbus.CommandBus, error) {
	bus := commandbus.NewCommandBus()

	rememberHandler := commandhandlers.NewRememberHandler(orchestrator, logger)
	if err := bus.Register(&commands.RememberCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd commandbus.Command) error {
			c, ok := cmd.(*commands.RememberCommand)
			if !ok {
				return fmt.Errorf("di: unexpected command type %T", cmd)
			}
			return rememberHandler.Handle(ctx, c)
		},
	}); err != nil {
		return nil, err
	}

	associateHandler := commandhandlers.NewAssociateHandler(orchestrator, logger)
	if err := bus.Register(&commands.AssociateCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd commandbus.Command) error {
			c, ok := cmd.(*commands.AssociateCommand)
			if !ok {
				return fmt.Errorf("di: unexpected command type %T", cmd)
			}
			return associateHandler.Handle(ctx, c)
		},
	}); err != nil {
		return nil, err
	}

	feedbackHandler := commandhandlers.NewFeedbackHandler(orchestrator, logger)
	if err := bus.Register(&commands.FeedbackCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd commandbus.Command) error {
			c, ok := cmd.(*commands.FeedbackCommand)
			if !ok {
				return fmt.Errorf("di: unexpected command type %T", cmd)
			}
			return feedbackHandler.Handle(ctx, c)
		},
	}); err != nil {
		return nil, err
	}

	decayHandler := commandhandlers.NewDecayHandler(orchestrator, logger)
	if err := bus.Register(&commands.DecayCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd commandbus.Command) error {
			c, ok := cmd.(*commands.DecayCommand)
			if !ok {
				return fmt.Errorf("di: unexpected command type %T", cmd)
			}
			return decayHandler.Handle(ctx, c)
		},
	}); err != nil {
		return nil, err
	}

	consolidateHandler := commandhandlers.NewConsolidateHandler(orchestrator, logger)
	if err := bus.Register(&commands.ConsolidateCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd commandbus.Command) error {
			c, ok := cmd.(*commands.ConsolidateCommand)
			if !ok {
				return fmt.Errorf("di: unexpected command type %T", cmd)
			}
			return consolidateHandler.Handle(ctx, c)
		},
	}); err != nil {
		return nil, err
	}

	refreshHandler := commandhandlers.NewRefreshHandler(orchestrator, logger)
	if err := bus.Register(&commands.RefreshCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd commandbus.Command) error {
			c, ok := cmd.(*commands.RefreshCommand)
			if !ok {
				return fmt.Errorf("di: unexpected command type %T", cmd)
			}
			return refreshHandler.Handle(ctx, c)
		},
	}); err != nil {
		return nil, err
	}

	return bus, nil
}

// QueryHandlerAdapter adapts a typed query handler into
// querybus.QueryHandler, mirroring the teacher's original adapter.
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// ProvideQueryBus registers every query handler spec §4.7 names.
func ProvideQueryBus(orchestrator *core.Orchestrator, logger *zap.Logger) (*querybus.QueryBus, error) {
	bus := querybus.NewQueryBus()

	recallHandler := queryhandlers.NewRecallHandler(orchestrator, logger)
	if err := bus.Register(queries.RecallQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, q querybus.Query) (interface{}, error) {
			return recallHandler.Handle(ctx, q)
		},
	}); err != nil {
		return nil, err
	}

	statusHandler := queryhandlers.NewStatusHandler(orchestrator, logger)
	if err := bus.Register(queries.StatusQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, q querybus.Query) (interface{}, error) {
			return statusHandler.Handle(ctx, q)
		},
	}); err != nil {
		return nil, err
	}

	describeHandler := queryhandlers.NewDescribeHandler(orchestrator, logger)
	if err := bus.Register(queries.DescribeQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, q querybus.Query) (interface{}, error) {
			return describeHandler.Handle(ctx, q)
		},
	}); err != nil {
		return nil, err
	}

	return bus, nil
}
