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
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"webapp/platform/db"
	"webapp/platform/settings"
	"webapp/platform/shared/logger"
)

// API serves the administrative configuration endpoints. Every route is
// gated by the zero-users-or-admin policy and rate limited per caller.
type API struct {
	prov     *db.Provisioner
	settings settings.Store
	guard    *Guard
	limiter  RateLimiter
	restart  func()
	once     sync.Once
	log      *logger.Logger
}

// NewAPI wires the administrative API. The restart callback is invoked
// at most once, when a restart is requested after a configuration
// change.
func NewAPI(prov *db.Provisioner, store settings.Store, guard *Guard, limiter RateLimiter, restart func(), log *logger.Logger) *API {
	return &API{
		prov:     prov,
		settings: store,
		guard:    guard,
		limiter:  limiter,
		restart:  restart,
		log:      log,
	}
}

// Register mounts the administrative routes on the router.
func (a *API) Register(r *mux.Router) {
	r.HandleFunc("/config/db", a.gated("db_get", a.getDBConfig)).Methods("GET")
	r.HandleFunc("/config/db", a.gated("db_set", a.setDBConfig)).Methods("POST")
	r.HandleFunc("/config/db/{name}", a.gated("db_set", a.setDBConfig)).Methods("POST")
	r.HandleFunc("/config/db", a.gated("db_clear", a.clearDBConfig)).Methods("DELETE")
	r.HandleFunc("/config/db/{name}", a.gated("db_clear", a.clearDBConfig)).Methods("DELETE")
	r.HandleFunc("/config/settings", a.gated("settings_keys", a.listSettings)).Methods("GET")
	r.HandleFunc("/config/settings", a.gated("settings_set", a.setSettings)).Methods("POST")
	r.HandleFunc("/config/settings/{key}", a.gated("settings_get", a.getSetting)).Methods("GET")
	r.HandleFunc("/config/settings/{key}", a.gated("settings_set", a.setSettings)).Methods("POST")
	r.HandleFunc("/config/restart", a.gated("restart", a.requestRestart)).Methods("POST")
}

// gated applies rate limiting and the authorization guard before the
// handler runs, and counts the outcome.
func (a *API) gated(operation string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok, err := a.limiter.Allow(r.Context(), callerKey(r))
		if err != nil {
			a.log.Error("rate limiter failed", err, nil)
			writeError(w, "internal error", http.StatusInternalServerError)
			apiRequests.WithLabelValues(operation, "error").Inc()
			return
		}
		if !ok {
			writeError(w, "rate limit exceeded", http.StatusTooManyRequests)
			apiRequests.WithLabelValues(operation, "rate_limited").Inc()
			return
		}

		if !a.guard.Allow(w, r) {
			apiRequests.WithLabelValues(operation, "denied").Inc()
			return
		}

		h(w, r)
		apiRequests.WithLabelValues(operation, "handled").Inc()
	}
}

// dbConfigRequest is the body of POST /config/db.
type dbConfigRequest struct {
	Dialect          string `json:"dialect"`
	ConnectionString string `json:"connectionString"`
	Name             string `json:"name,omitempty"`
}

// dbConfigResponse describes the active configuration without exposing
// connection strings, which may embed credentials. Named connections
// map to their dialect.
type dbConfigResponse struct {
	Dialect          string            `json:"dialect,omitempty"`
	NamedConnections map[string]string `json:"namedConnections,omitempty"`
}

func (a *API) getDBConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := a.prov.Current()
	if err != nil {
		a.log.Error("loading database config failed", err, nil)
		writeError(w, "unable to read configuration", http.StatusInternalServerError)
		return
	}

	resp := dbConfigResponse{}
	if cfg != nil {
		resp.Dialect = cfg.Dialect
		if len(cfg.NamedConnections) > 0 {
			resp.NamedConnections = make(map[string]string, len(cfg.NamedConnections))
			for name, def := range cfg.NamedConnections {
				resp.NamedConnections[name] = def.Dialect
			}
		}
	}
	writeResult(w, resp, http.StatusOK)
}

func (a *API) setDBConfig(w http.ResponseWriter, r *http.Request) {
	var req dbConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if name := mux.Vars(r)["name"]; name != "" {
		req.Name = name
	}

	err := a.prov.SetConnection(r.Context(), req.Dialect, req.ConnectionString, req.Name)
	switch {
	case errors.Is(err, db.ErrInvalidDialect):
		writeError(w, "unrecognized dialect or empty connection string", http.StatusBadRequest)
		return
	case errors.Is(err, db.ErrConnectionFailed):
		writeError(w, "could not connect with the supplied settings", http.StatusBadRequest)
		return
	case err != nil:
		a.log.Error("persisting database config failed", err, nil)
		writeError(w, "unable to save configuration", http.StatusInternalServerError)
		return
	}

	writeResult(w, map[string]interface{}{"saved": true, "restartRequired": true}, http.StatusOK)
}

func (a *API) clearDBConfig(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := a.prov.RemoveConnection(name); err != nil {
		a.log.Error("clearing database config failed", err, nil)
		writeError(w, "unable to clear configuration", http.StatusInternalServerError)
		return
	}
	writeResult(w, map[string]interface{}{"cleared": true, "restartRequired": true}, http.StatusOK)
}

func (a *API) listSettings(w http.ResponseWriter, r *http.Request) {
	if a.settings == nil {
		writeError(w, "settings store is not available", http.StatusServiceUnavailable)
		return
	}
	keys, err := a.settings.Keys(r.Context())
	if err != nil {
		a.log.Error("listing settings failed", err, nil)
		writeError(w, "unable to list settings", http.StatusInternalServerError)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	writeResult(w, keys, http.StatusOK)
}

func (a *API) getSetting(w http.ResponseWriter, r *http.Request) {
	if a.settings == nil {
		writeError(w, "settings store is not available", http.StatusServiceUnavailable)
		return
	}
	key := mux.Vars(r)["key"]
	value, ok, err := a.settings.Get(r.Context(), key)
	if err != nil {
		a.log.Error("reading setting failed", err, map[string]interface{}{"key": key})
		writeError(w, "unable to read setting", http.StatusInternalServerError)
		return
	}
	if !ok {
		writeError(w, "setting not found", http.StatusNotFound)
		return
	}
	writeResult(w, map[string]string{"key": key, "value": value}, http.StatusOK)
}

// settingsRequest accepts either a single pair or a batch of pairs.
type settingsRequest struct {
	Key   string            `json:"key,omitempty"`
	Value string            `json:"value,omitempty"`
	Pairs map[string]string `json:"pairs,omitempty"`
}

func (a *API) setSettings(w http.ResponseWriter, r *http.Request) {
	if a.settings == nil {
		writeError(w, "settings store is not available", http.StatusServiceUnavailable)
		return
	}

	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if key := mux.Vars(r)["key"]; key != "" {
		req.Key = key
	}

	pairs := req.Pairs
	if req.Key != "" {
		if pairs == nil {
			pairs = make(map[string]string, 1)
		}
		pairs[req.Key] = req.Value
	}
	for key := range pairs {
		if strings.TrimSpace(key) == "" {
			delete(pairs, key)
		}
	}
	if len(pairs) == 0 {
		writeError(w, "no settings supplied", http.StatusBadRequest)
		return
	}

	for key, value := range pairs {
		if err := a.settings.Set(r.Context(), key, value); err != nil {
			a.log.Error("writing setting failed", err, map[string]interface{}{"key": key})
			writeError(w, "unable to save settings", http.StatusInternalServerError)
			return
		}
	}

	writeResult(w, map[string]interface{}{"saved": len(pairs)}, http.StatusOK)
}

func (a *API) requestRestart(w http.ResponseWriter, r *http.Request) {
	restartRequests.Inc()
	a.log.Info("host restart requested", nil)
	writeResult(w, map[string]interface{}{"restarting": true}, http.StatusAccepted)

	if a.restart != nil {
		a.once.Do(a.restart)
	}
}

// writeResult writes the success envelope.
func writeResult(w http.ResponseWriter, result interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"result": result})
}

// writeError writes the error envelope.
func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
