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

	"github.com/gorilla/mux"
)

// Middleware wraps a handler with additional behavior.
type Middleware func(next http.Handler) http.Handler

// AppBuilder collects the request pipeline during the app phase.
// Middleware composes in registration order, which the orchestrator
// ties to ascending priority. The terminal handler handles whatever
// falls through every middleware; the first unit to claim it wins.
type AppBuilder struct {
	middleware []Middleware
	terminal   http.Handler
	router     *mux.Router
}

// NewAppBuilder creates an empty pipeline builder.
func NewAppBuilder() *AppBuilder {
	return &AppBuilder{}
}

// Use appends a middleware to the pipeline.
func (b *AppBuilder) Use(m Middleware) {
	b.middleware = append(b.middleware, m)
}

// SetTerminal claims the terminal slot. Later claims are ignored so
// higher-priority units keep precedence.
func (b *AppBuilder) SetTerminal(h http.Handler) {
	if b.terminal == nil {
		b.terminal = h
	}
}

// HasTerminal reports whether the terminal slot is claimed.
func (b *AppBuilder) HasTerminal() bool { return b.terminal != nil }

// SetRouter publishes the API router so later units can add routes.
func (b *AppBuilder) SetRouter(r *mux.Router) {
	if b.router == nil {
		b.router = r
	}
}

// Router returns the published API router, or nil when no API host ran.
func (b *AppBuilder) Router() *mux.Router { return b.router }

// Build composes the pipeline. Requests flow through middleware in
// registration order and end at the terminal handler. Without a
// terminal the pipeline ends in 404.
func (b *AppBuilder) Build() http.Handler {
	h := b.terminal
	if h == nil {
		h = http.NotFoundHandler()
	}
	for i := len(b.middleware) - 1; i >= 0; i-- {
		h = b.middleware[i](h)
	}
	return h
}
