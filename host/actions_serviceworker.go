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
	"net/http"
)

// serviceWorkerPath is the script browsers poll for updates. Caching it
// delays rollout of new frontend versions, so responses for it carry
// no-cache headers before the static file middleware serves the body.
const serviceWorkerPath = "/sw.js"

// ServiceWorkerAction marks the service worker script uncacheable.
type ServiceWorkerAction struct{}

// NewServiceWorkerAction creates the service worker startup unit.
func NewServiceWorkerAction() *ServiceWorkerAction {
	return &ServiceWorkerAction{}
}

// Priority runs before the static file middleware.
func (a *ServiceWorkerAction) Priority() int { return PriorityServiceWorker }

// ConfigureApp installs the no-cache header middleware.
func (a *ServiceWorkerAction) ConfigureApp(b *AppBuilder) error {
	b.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == serviceWorkerPath {
				w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
				w.Header().Set("Pragma", "no-cache")
				w.Header().Set("Expires", "0")
			}
			next.ServeHTTP(w, r)
		})
	})
	return nil
}
