package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	commandbus "backend2/application/commands/bus"
	commandhandlers "backend2/application/commands/handlers"
	"backend2/application/core"
	querybus "backend2/application/queries/bus"
	queryhandlers "backend2/application/queries/handlers"
	"backend2/application/commands"
	"backend2/application/queries"
	domainconfig "backend2/domain/config"
	"backend2/domain/core/aggregates"
	"backend2/infrastructure/config"
	"backend2/pkg/auth"
)

type fakeStore struct{}

func (fakeStore) Load(ctx context.Context, policy *domainconfig.Policy) (*aggregates.State, error) {
	return aggregates.NewState(policy, 1000), nil
}
func (fakeStore) Save(ctx context.Context, state *aggregates.State) error { return nil }
func (fakeStore) Close(ctx context.Context) error                        { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	state := aggregates.NewState(domainconfig.DefaultPolicy(), 1000)
	orchestrator := core.New(state, fakeStore{}, nil, func() int64 { return 1000 }, logger)
	t.Cleanup(orchestrator.Close)

	cb := commandbus.NewCommandBus()
	require.NoError(t, cb.Register(&commands.RememberCommand{}, commandhandlers.NewRememberHandler(orchestrator, logger)))
	require.NoError(t, cb.Register(&commands.AssociateCommand{}, commandhandlers.NewAssociateHandler(orchestrator, logger)))
	require.NoError(t, cb.Register(&commands.FeedbackCommand{}, commandhandlers.NewFeedbackHandler(orchestrator, logger)))
	require.NoError(t, cb.Register(&commands.DecayCommand{}, commandhandlers.NewDecayHandler(orchestrator, logger)))
	require.NoError(t, cb.Register(&commands.ConsolidateCommand{}, commandhandlers.NewConsolidateHandler(orchestrator, logger)))
	require.NoError(t, cb.Register(&commands.RefreshCommand{}, commandhandlers.NewRefreshHandler(orchestrator, logger)))

	qb := querybus.NewQueryBus()
	require.NoError(t, qb.Register(queries.RecallQuery{}, queryhandlers.NewRecallHandler(orchestrator, logger)))
	require.NoError(t, qb.Register(queries.StatusQuery{}, queryhandlers.NewStatusHandler(orchestrator, logger)))
	require.NoError(t, qb.Register(queries.DescribeQuery{}, queryhandlers.NewDescribeHandler(orchestrator, logger)))

	cfg := &config.Config{EnableCORS: true}
	rateLimiter := auth.NewTokenBucketLimiter(100, time.Minute)
	return NewRouter(cb, qb, rateLimiter, cfg, logger).Setup()
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ReadinessCheck(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RememberAndRecallRoundTrip(t *testing.T) {
	router := newTestRouter(t)

	body, err := json.Marshal(map[string]interface{}{
		"text": "deploy the canary rollout", "type": "fact", "importance": 0.5,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/memory/remember", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	recallReq := httptest.NewRequest(http.MethodGet, "/v1/memory/recall?text=canary", nil)
	recallRec := httptest.NewRecorder()
	router.ServeHTTP(recallRec, recallReq)
	require.Equal(t, http.StatusOK, recallRec.Code)
}

func TestRouter_UnknownRouteIs404(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/memory/nonexistent", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
