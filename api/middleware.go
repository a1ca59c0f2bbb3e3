// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/xmidt-org/candlelight"
	"github.com/xmidt-org/httpaux/recovery"
	"github.com/xmidt-org/sallust"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
)

// RequestLogger puts a logger stamped with the request id into the request
// context. A caller supplied X-Request-ID is kept.
func RequestLogger(logger *zap.Logger) alice.Constructor {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeaderKey)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeaderKey, id)

			l := logger.With(
				zap.String("requestID", id),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)
			next.ServeHTTP(w, r.WithContext(sallust.With(r.Context(), l)))
		})
	}
}

// Chain is the outer middleware of the primary server.
func Chain(logger *zap.Logger) alice.Chain {
	return alice.New(
		recovery.Middleware(recovery.WithStatusCode(http.StatusInternalServerError)),
		RequestLogger(logger),
	)
}

// Tracing returns the router middleware that trace requests.
func Tracing(tracing candlelight.Tracing) []mux.MiddlewareFunc {
	options := []otelmux.Option{
		otelmux.WithTracerProvider(tracing.TracerProvider()),
		otelmux.WithPropagators(tracing.Propagator()),
	}
	return []mux.MiddlewareFunc{
		otelmux.Middleware("server_primary", options...),
		candlelight.EchoFirstTraceNodeInfo(tracing.Propagator(), false),
	}
}
