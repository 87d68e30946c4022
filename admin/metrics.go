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

package admin

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webapp_admin_requests_total",
			Help: "Administrative API requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	gateRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webapp_admin_gate_rejections_total",
			Help: "Requests rejected by the administrative gate",
		},
		[]string{"reason"},
	)

	restartRequests = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webapp_admin_restart_requests_total",
			Help: "Host restart requests accepted",
		},
	)
)

func init() {
	prometheus.MustRegister(apiRequests, gateRejections, restartRequests)
}
