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
	"strings"
)

// RewriteAction maps subdomain-style routing onto path prefixes:
// api.example.com/users becomes /api/users before the API host sees
// it. Requests already carrying the prefix pass through untouched.
type RewriteAction struct{}

// NewRewriteAction creates the rewrite startup unit.
func NewRewriteAction() *RewriteAction {
	return &RewriteAction{}
}

// Priority runs at the default slot, between static files and the API
// host.
func (a *RewriteAction) Priority() int { return PriorityDefault }

// ConfigureApp installs the host rewrite middleware.
func (a *RewriteAction) ConfigureApp(b *AppBuilder) error {
	b.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if prefix, ok := hostPrefix(r.Host); ok && !strings.HasPrefix(r.URL.Path, prefix) {
				r.URL.Path = prefix + r.URL.Path
			}
			next.ServeHTTP(w, r)
		})
	})
	return nil
}

// hostPrefix returns the path prefix implied by the request's
// subdomain.
func hostPrefix(hostport string) (string, bool) {
	host := hostport
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	switch {
	case strings.HasPrefix(host, "api."):
		return "/api", true
	case strings.HasPrefix(host, "app."):
		return "/app", true
	}
	return "", false
}
