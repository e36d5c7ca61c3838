package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"backend2/application/queries"
	"backend2/application/queries/bus"
)

// DescribeHandler handles queries.DescribeQuery.
type DescribeHandler struct {
	core   Core
	logger *zap.Logger
}

func NewDescribeHandler(core Core, logger *zap.Logger) *DescribeHandler {
	return &DescribeHandler{core: core, logger: logger}
}

func (h *DescribeHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	if _, ok := q.(queries.DescribeQuery); !ok {
		return nil, fmt.Errorf("describe handler: unexpected query type %T", q)
	}

	text, generatedAt, stale := h.core.ManifestSnapshot()
	return queries.DescribeResult{
		Manifest:    text,
		GeneratedAt: generatedAt,
		Stale:       stale,
	}, nil
}
