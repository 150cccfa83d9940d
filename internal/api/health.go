// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/biblioteca/internal/platform/constants"
	"github.com/taibuivan/biblioteca/internal/platform/respond"
)

// readinessTimeout bounds every dependency probe.
const readinessTimeout = 2 * time.Second

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// CheckDatabase pings the catalog store.
	CheckDatabase func(context.Context) error

	// CheckCache pings Redis. It is nil when the cache is disabled.
	CheckCache func(context.Context) error
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health (Liveness probe).
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{
		constants.FieldStatus:  "ok",
		constants.FieldVersion: constants.AppVersion,
	})
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// readiness handles GET /ready (Readiness probe). Probes run concurrently.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), readinessTimeout)
	defer cancel()

	type probe struct {
		name  string
		check func(context.Context) error
	}
	var probes []probe
	if handler.dependencies.CheckDatabase != nil {
		probes = append(probes, probe{"database", handler.dependencies.CheckDatabase})
	}
	if handler.dependencies.CheckCache != nil {
		probes = append(probes, probe{"cache", handler.dependencies.CheckCache})
	}

	results := make([]checkResult, len(probes))
	var group errgroup.Group
	for i, probe := range probes {
		group.Go(func() error {
			results[i] = checkResult{Name: probe.name, IsOK: true}
			if err := probe.check(ctx); err != nil {
				results[i].IsOK = false
				results[i].Error = err.Error()
				handler.logger.ErrorContext(ctx, "readiness_check_failed",
					slog.String("dependency", probe.name), slog.Any("error", err))
			}
			return nil
		})
	}
	_ = group.Wait()

	status, httpStatus := "ready", http.StatusOK
	for _, result := range results {
		if !result.IsOK {
			status, httpStatus = "degraded", http.StatusServiceUnavailable
		}
	}

	respond.JSON(writer, httpStatus, respond.SuccessEnvelope{Data: map[string]any{
		constants.FieldStatus: status,
		constants.FieldChecks: results,
	}})
}
