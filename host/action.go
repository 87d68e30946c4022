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
	"math"
)

// Startup priorities. Units run in ascending order within each phase;
// ties keep registration order. License checking and database
// provisioning run before everything else because later units depend on
// their outcome. The fallback handler runs last so any unit can claim
// the terminal slot first.
const (
	PriorityLicense       = math.MinInt
	PriorityDatabase      = math.MinInt + 1
	PriorityHeaders       = -30
	PriorityServiceWorker = -20
	PriorityStaticFiles   = -10
	PriorityDefault       = 0
	PriorityAPIHost       = 10
	PriorityFallback      = math.MaxInt
)

// ServiceAction participates in the service phase of startup. It wires
// shared services into the registry before any request handling is
// configured.
type ServiceAction interface {
	Priority() int
	ConfigureServices(ctx context.Context, reg *ServiceRegistry) error
}

// AppAction participates in the app phase of startup. It contributes
// middleware or the terminal handler to the request pipeline. The
// registry is frozen by the time app actions run; they read services,
// never add them.
type AppAction interface {
	Priority() int
	ConfigureApp(b *AppBuilder) error
}
