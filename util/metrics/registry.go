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

package metrics

import (
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/algorand/go-deadlock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry represents a single set of metrics registry
type Registry struct {
	prom      *prometheus.Registry
	names     map[string]prometheus.Collector
	metricsMu deadlock.Mutex
}

var defaultRegistry = MakeRegistry()

// DefaultRegistry returns the process wide registry
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// MakeRegistry creates a new, empty metrics registry
func MakeRegistry() *Registry {
	return &Registry{
		prom:  prometheus.NewRegistry(),
		names: make(map[string]prometheus.Collector),
	}
}

var sanitizeCharactersRegexp = regexp.MustCompile("(^[^a-zA-Z_]|[^a-zA-Z0-9_-])")

// sanitizePrometheusName ensures a metric name doesn't contain any
// non-alphanumeric characters (apart from _) and doesn't start with a number.
func sanitizePrometheusName(name string) string {
	return strings.ReplaceAll(sanitizeCharactersRegexp.ReplaceAllString(name, "_"), "-", "_")
}

// register adds c under name. A name registered twice returns the collector
// that was registered first, so independent users share one series.
func (r *Registry) register(name string, c prometheus.Collector) (prometheus.Collector, error) {
	r.metricsMu.Lock()
	defer r.metricsMu.Unlock()
	if existing, ok := r.names[name]; ok {
		return existing, nil
	}
	if err := r.prom.Register(c); err != nil {
		return nil, err
	}
	r.names[name] = c
	return c, nil
}

// Deregister removes the collector registered under name, if any.
func (r *Registry) Deregister(name string) {
	r.metricsMu.Lock()
	defer r.metricsMu.Unlock()
	if c, ok := r.names[name]; ok {
		r.prom.Unregister(c)
		delete(r.names, name)
	}
}

// Names returns the sorted names held by the registry.
func (r *Registry) Names() []string {
	r.metricsMu.Lock()
	defer r.metricsMu.Unlock()
	out := make([]string, 0, len(r.names))
	for name := range r.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.prom, promhttp.HandlerOpts{})
}
