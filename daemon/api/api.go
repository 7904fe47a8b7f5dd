// Copyright (C) 2019-2025 Algorand, Inc.
// This file is part of go-algorand
//
// go-algorand is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-algorand is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-algorand.  If not, see <https://www.gnu.org/licenses/>.

// Package api serves dry runs of application programs over HTTP.
//
// Routes:
//
//	POST /v1/apps/{app}/dryrun   evaluate a program against the app's globals
//	GET  /v1/apps/{app}/state    read the app's persisted globals
//	GET  /v1/ops                 list the opcodes the evaluator knows
//	GET  /metrics                prometheus exposition
//	GET  /health                 liveness
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/algorand/go-microavm/ledger"
	"github.com/algorand/go-microavm/logging"
	"github.com/algorand/go-microavm/util/metrics"
)

const apiV1Tag = "/v1"

// ReqContext is passed to each of the handlers below via wrapCtx, allowing
// handlers to interact with the ledger
type ReqContext struct {
	Ledger *ledger.Ledger
	Log    logging.Logger
}

type handlerFunc func(ReqContext, http.ResponseWriter, *http.Request)

func wrapCtx(ctx ReqContext, handler handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handler(ctx, w, r)
	}
}

// Handler returns the root mux router for the dry-run API.
func Handler(l *ledger.Ledger, reg *metrics.Registry, log logging.Logger) *mux.Router {
	ctx := ReqContext{Ledger: l, Log: log}

	rootRouter := mux.NewRouter()
	rootRouter.Use(loggerMiddleware(log))

	rootRouter.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	if reg != nil {
		rootRouter.Handle("/metrics", reg.Handler()).Methods(http.MethodGet)
	}

	v1Router := rootRouter.PathPrefix(apiV1Tag).Subrouter()
	v1Router.HandleFunc("/apps/{app:[0-9]+}/dryrun", wrapCtx(ctx, Dryrun)).Methods(http.MethodPost)
	v1Router.HandleFunc("/apps/{app:[0-9]+}/state", wrapCtx(ctx, AppState)).Methods(http.MethodGet)
	v1Router.HandleFunc("/ops", wrapCtx(ctx, Ops)).Methods(http.MethodGet)
	return rootRouter
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	n, err := sr.ResponseWriter.Write(b)
	sr.size += n
	return n, err
}

func loggerMiddleware(log logging.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Infof("%s \"%s %s %s\" %d %d %s",
				r.RemoteAddr,
				r.Method,
				r.RequestURI,
				r.Proto,
				rec.status,
				rec.size,
				time.Since(start),
			)
		})
	}
}
