// Package handlers holds the HTTP handlers for the memory core's nine
// spec §4.7 operations, one method per operation on a single
// MemoryHandler, following the teacher's node_handler.go shape
// (commandBus/queryBus/logger fields, decode-validate-dispatch-respond
// per method, shared respondJSON/respondError helpers) but targeting the
// memory commands/queries instead of node CRUD.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"backend2/application/commands"
	"backend2/application/commands/bus"
	"backend2/application/queries"
	querybus "backend2/application/queries/bus"
	domainerrors "backend2/pkg/errors"
)

// MemoryHandler handles every /v1/memory/* route.
type MemoryHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewMemoryHandler creates a new memory handler.
func NewMemoryHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, logger *zap.Logger) *MemoryHandler {
	return &MemoryHandler{commandBus: commandBus, queryBus: queryBus, logger: logger}
}

// Remember handles POST /v1/memory/remember.
func (h *MemoryHandler) Remember(w http.ResponseWriter, r *http.Request) {
	var cmd commands.RememberCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		h.respondCommandError(w, r, "remember", err)
		return
	}
	h.respondJSON(w, http.StatusCreated, cmd.Result)
}

// Associate handles POST /v1/memory/associate.
func (h *MemoryHandler) Associate(w http.ResponseWriter, r *http.Request) {
	var cmd commands.AssociateCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		h.respondCommandError(w, r, "associate", err)
		return
	}
	h.respondJSON(w, http.StatusOK, cmd.Result)
}

// Feedback handles POST /v1/memory/feedback.
func (h *MemoryHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	var cmd commands.FeedbackCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		h.respondCommandError(w, r, "feedback", err)
		return
	}
	h.respondJSON(w, http.StatusOK, cmd.Result)
}

// Decay handles POST /v1/memory/decay.
func (h *MemoryHandler) Decay(w http.ResponseWriter, r *http.Request) {
	var cmd commands.DecayCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		h.respondCommandError(w, r, "decay", err)
		return
	}
	h.respondJSON(w, http.StatusOK, cmd.Result)
}

// Consolidate handles POST /v1/memory/consolidate.
func (h *MemoryHandler) Consolidate(w http.ResponseWriter, r *http.Request) {
	var cmd commands.ConsolidateCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		h.respondCommandError(w, r, "consolidate", err)
		return
	}
	h.respondJSON(w, http.StatusOK, cmd.Result)
}

// Refresh handles POST /v1/memory/refresh.
func (h *MemoryHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var cmd commands.RefreshCommand
	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		h.respondCommandError(w, r, "refresh", err)
		return
	}
	h.respondJSON(w, http.StatusOK, cmd.Result)
}

// Recall handles GET /v1/memory/recall?text=...&limit=...&scope=...
func (h *MemoryHandler) Recall(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	query := queries.RecallQuery{
		Text:  r.URL.Query().Get("text"),
		Limit: limit,
		Scope: r.URL.Query().Get("scope"),
	}
	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.respondQueryError(w, r, "recall", err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// Status handles GET /v1/memory/status.
func (h *MemoryHandler) Status(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.StatusQuery{})
	if err != nil {
		h.respondQueryError(w, r, "status", err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// Describe handles GET /v1/memory/describe.
func (h *MemoryHandler) Describe(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.DescribeQuery{})
	if err != nil {
		h.respondQueryError(w, r, "describe", err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

func (h *MemoryHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (h *MemoryHandler) respondCommandError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.Error("command failed", zap.String("operation", op), zap.Error(err))
	h.respondDomainError(w, r, err)
}

func (h *MemoryHandler) respondQueryError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.Error("query failed", zap.String("operation", op), zap.Error(err))
	h.respondDomainError(w, r, err)
}

// respondDomainError unwraps a pkg/errors.DomainError (spec §7's
// validation-rejection and not-found cases) to its carried HTTP status;
// anything else degrades to 500, since an unclassified failure in a
// single-writer in-process system means something genuinely broke.
func (h *MemoryHandler) respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *domainerrors.DomainError
	if errors.As(err, &domainErr) {
		requestID := chimiddleware.GetReqID(r.Context())
		h.respondJSON(w, domainErr.StatusCode, domainerrors.NewDomainErrorResponse(domainErr, requestID))
		return
	}
	h.respondError(w, http.StatusInternalServerError, err.Error())
}

func (h *MemoryHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *MemoryHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]interface{}{
		"error":   true,
		"message": message,
		"code":    status,
	})
}
