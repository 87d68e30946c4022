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
	"context"
	"fmt"
	"sort"
	"time"

	"webapp/platform/shared/logger"
)

// Orchestrator drives startup: every unit's service hook runs first in
// priority order, the registry freezes, then every unit's app hook runs
// in priority order. Any hook error aborts startup; there is no partial
// recovery, the process is expected to exit.
type Orchestrator struct {
	units []interface{}
	log   *logger.Logger
	ran   bool
}

// NewOrchestrator creates an orchestrator over the given units. Units
// may implement ServiceAction, AppAction, or both; anything else is
// rejected at Run time.
func NewOrchestrator(log *logger.Logger, units ...interface{}) *Orchestrator {
	return &Orchestrator{units: units, log: log}
}

// Run executes both startup phases. It can only run once.
func (o *Orchestrator) Run(ctx context.Context, reg *ServiceRegistry, app *AppBuilder) error {
	if o.ran {
		return fmt.Errorf("orchestrator has already run")
	}
	o.ran = true

	var svc []ServiceAction
	var apps []AppAction
	for i, u := range o.units {
		known := false
		if s, ok := u.(ServiceAction); ok {
			svc = append(svc, s)
			known = true
		}
		if a, ok := u.(AppAction); ok {
			apps = append(apps, a)
			known = true
		}
		if !known {
			return fmt.Errorf("unit %d (%T) implements neither startup interface", i, u)
		}
	}

	sort.SliceStable(svc, func(i, j int) bool { return svc[i].Priority() < svc[j].Priority() })
	sort.SliceStable(apps, func(i, j int) bool { return apps[i].Priority() < apps[j].Priority() })

	start := time.Now()
	for _, s := range svc {
		if err := s.ConfigureServices(ctx, reg); err != nil {
			startupFailures.WithLabelValues("services").Inc()
			return fmt.Errorf("service phase unit %T failed: %w", s, err)
		}
	}
	phaseDuration.WithLabelValues("services").Observe(time.Since(start).Seconds())
	o.log.Info("service phase complete", map[string]interface{}{
		"units": len(svc),
	})

	reg.freeze()

	start = time.Now()
	for _, a := range apps {
		if err := a.ConfigureApp(app); err != nil {
			startupFailures.WithLabelValues("app").Inc()
			return fmt.Errorf("app phase unit %T failed: %w", a, err)
		}
	}
	phaseDuration.WithLabelValues("app").Observe(time.Since(start).Seconds())
	o.log.Info("app phase complete", map[string]interface{}{
		"units": len(apps),
	})

	return nil
}
