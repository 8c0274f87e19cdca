// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/agora/internal/platform/ctxutil"
	"github.com/taibuivan/agora/internal/platform/respond"
)

// probeTimeout bounds every readiness probe.
const probeTimeout = 2 * time.Second

// Probe checks one backing service for /ready.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

type probeResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
//
// /ready runs every probe with the request context and answers 503 with the
// per-probe results as soon as one fails.
func NewHealthHandlers(probes ...Probe) (liveness, readiness http.HandlerFunc) {
	liveness = func(writer http.ResponseWriter, request *http.Request) {
		respond.OK(writer, map[string]string{"status": "ok"})
	}

	readiness = func(writer http.ResponseWriter, request *http.Request) {
		context, cancel := context.WithTimeout(request.Context(), probeTimeout)
		defer cancel()

		results := make([]probeResult, 0, len(probes))
		isReady := true

		for _, probe := range probes {
			result := probeResult{Name: probe.Name, IsOK: true}

			if err := probe.Check(context); err != nil {
				result.IsOK = false
				result.Error = err.Error()
				isReady = false

				ctxutil.GetLogger(context).ErrorContext(context, "readiness_check_failed",
					slog.String("dependency", probe.Name),
					slog.String("error", err.Error()),
				)
			}
			results = append(results, result)
		}

		status, code := "ready", http.StatusOK
		if !isReady {
			status, code = "degraded", http.StatusServiceUnavailable
		}

		respond.JSON(writer, code, respond.SuccessEnvelope{Data: map[string]any{
			"status": status,
			"checks": results,
		}})
	}

	return liveness, readiness
}
