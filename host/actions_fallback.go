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
	"fmt"
	"net/http"
)

// FallbackAction claims the terminal slot last, so a host with no
// frontend and no matching route still answers with an identification
// banner instead of a bare 404.
type FallbackAction struct {
	serviceName string
}

// NewFallbackAction creates the fallback startup unit.
func NewFallbackAction(serviceName string) *FallbackAction {
	return &FallbackAction{serviceName: serviceName}
}

// Priority runs last.
func (a *FallbackAction) Priority() int { return PriorityFallback }

// ConfigureApp claims the terminal slot if it is still free.
func (a *FallbackAction) ConfigureApp(b *AppBuilder) error {
	if b.HasTerminal() {
		return nil
	}
	b.SetTerminal(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "%s (v%s at %s)\n", a.serviceName, Version, r.Host)
	}))
	return nil
}
