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
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"webapp/platform/admin"
	"webapp/platform/shared/logger"
)

// APIHostAction mounts the HTTP API: health and metrics endpoints plus
// the administrative configuration API. The router is installed as
// middleware; requests that match no route fall through to the rest of
// the pipeline, so static files and the fallback banner keep working.
type APIHostAction struct {
	cfg     *Config
	restart func()
	log     *logger.Logger

	reg *ServiceRegistry
}

// NewAPIHostAction creates the API host startup unit. The restart
// callback is handed to the admin API.
func NewAPIHostAction(cfg *Config, restart func(), log *logger.Logger) *APIHostAction {
	return &APIHostAction{cfg: cfg, restart: restart, log: log}
}

// Priority places the API host after the built-in middleware.
func (a *APIHostAction) Priority() int { return PriorityAPIHost }

// ConfigureServices captures the registry for the app phase.
func (a *APIHostAction) ConfigureServices(ctx context.Context, reg *ServiceRegistry) error {
	a.reg = reg
	return nil
}

// ConfigureApp builds the router and installs it. The unit no-ops
// entirely unless both a default connection factory and a settings
// store were registered during the service phase; a database-less host
// gets its configuration from the environment or the config file, not
// from this API.
func (a *APIHostAction) ConfigureApp(b *AppBuilder) error {
	if a.reg == nil || a.reg.DBFactory() == nil || a.reg.Settings() == nil {
		a.log.Info("database services not registered, API host disabled", nil)
		return nil
	}

	router := mux.NewRouter()
	router.HandleFunc("/health", a.health).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	users := a.reg.Users()
	if users == nil {
		// No accounts table yet means bootstrap state.
		users = admin.StaticUserStore(0)
	}
	guard := admin.NewGuard(users, []byte(a.cfg.JWTSecret), a.log)

	var limiter admin.RateLimiter
	if a.cfg.RedisURL != "" {
		rl, err := admin.NewRedisRateLimiter(a.cfg.RedisURL,
			admin.DefaultRateLimit, admin.DefaultRateWindow, a.log)
		if err != nil {
			a.log.Warn("redis rate limiter unavailable, using in-memory limiter",
				map[string]interface{}{"error": err.Error()})
		} else {
			limiter = rl
		}
	}
	if limiter == nil {
		limiter = admin.NewMemoryRateLimiter(admin.DefaultRateLimit, admin.DefaultRateWindow)
	}

	api := admin.NewAPI(a.reg.Provisioner(), a.reg.Settings(), guard, limiter, a.restart, a.log)
	api.Register(router)

	b.SetRouter(router)
	b.Use(func(next http.Handler) http.Handler {
		router.NotFoundHandler = next
		return router
	})
	return nil
}

func (a *APIHostAction) health(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":    "healthy",
		"service":   a.cfg.ServiceName,
		"version":   Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  a.reg.DBFactory() != nil,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(status)
}
