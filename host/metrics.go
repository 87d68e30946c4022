// Copyright 2025 WebApp Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package host

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	phaseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webapp_host_startup_phase_seconds",
			Help:    "Duration of each startup phase",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"phase"},
	)

	startupFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webapp_host_startup_failures_total",
			Help: "Startup aborts by phase",
		},
		[]string{"phase"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webapp_host_http_requests_total",
			Help: "HTTP requests by method and status class",
		},
		[]string{"method", "class"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webapp_host_http_request_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func init() {
	prometheus.MustRegister(phaseDuration, startupFailures, httpRequests, httpDuration)
}
