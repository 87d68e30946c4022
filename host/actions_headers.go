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
	"bufio"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"webapp/platform/shared/logger"
)

// HeadersAction contributes the outermost middleware: request IDs, CORS
// handling, forwarded-host resolution and request metrics.
type HeadersAction struct {
	cfg *Config
	log *logger.Logger
}

// NewHeadersAction creates the headers startup unit.
func NewHeadersAction(cfg *Config, log *logger.Logger) *HeadersAction {
	return &HeadersAction{cfg: cfg, log: log}
}

// Priority runs before every other app unit so its headers apply to the
// whole pipeline.
func (a *HeadersAction) Priority() int { return PriorityHeaders }

// ConfigureApp installs the header middleware.
func (a *HeadersAction) ConfigureApp(b *AppBuilder) error {
	origins := a.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	b.Use(func(next http.Handler) http.Handler {
		return c.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-Id")
			if requestID == "" {
				requestID = uuid.New().String()
			}
			w.Header().Set("X-Request-Id", requestID)

			// Honor the original host when a proxy sits in front.
			if forwarded := r.Header.Get("X-Forwarded-Host"); forwarded != "" {
				r.Host = forwarded
			}

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			httpRequests.WithLabelValues(r.Method, statusClass(rec.status)).Inc()
			httpDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
		}))
	})
	return nil
}

// statusRecorder captures the response status for metrics. It stays
// transparent to handlers that stream or take over the connection by
// forwarding the optional ResponseWriter interfaces.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := r.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func statusClass(status int) string {
	return strconv.Itoa(status/100) + "xx"
}
