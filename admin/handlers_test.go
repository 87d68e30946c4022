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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webapp/platform/db"
)

// fakeSettings is an in-memory settings.Store.
type fakeSettings struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{values: make(map[string]string)}
}

func (f *fakeSettings) Keys(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.values))
	for k := range f.values {
		keys = append(keys, k)
	}
	return keys, nil
}

func (f *fakeSettings) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeSettings) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return nil
}

type apiFixture struct {
	router   *mux.Router
	restarts int
}

func newFixture(t *testing.T) *apiFixture {
	t.Helper()
	fx := &apiFixture{router: mux.NewRouter()}

	prov := db.NewProvisioner(t.TempDir(), testLogger())
	guard := NewGuard(StaticUserStore(0), testSecret, testLogger())
	limiter := NewMemoryRateLimiter(1000, time.Minute)

	api := NewAPI(prov, newFakeSettings(), guard, limiter, func() { fx.restarts++ }, testLogger())
	api.Register(fx.router)
	return fx
}

func (fx *apiFixture) do(method, path, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, r)
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestSetDBConfigPersistsAndFlagsRestart(t *testing.T) {
	fx := newFixture(t)

	w := fx.do("POST", "/config/db",
		`{"dialect":"sqlite","connectionString":"~data/app.db"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	envelope := decodeResult(t, w)
	result := envelope["result"].(map[string]interface{})
	assert.Equal(t, true, result["saved"])
	assert.Equal(t, true, result["restartRequired"])

	w = fx.do("GET", "/config/db", "")
	require.Equal(t, http.StatusOK, w.Code)
	envelope = decodeResult(t, w)
	result = envelope["result"].(map[string]interface{})
	assert.Equal(t, "sqlite", result["dialect"])
}

func TestSetDBConfigInvalidDialect(t *testing.T) {
	fx := newFixture(t)

	w := fx.do("POST", "/config/db",
		`{"dialect":"oracle","connectionString":"whatever"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	envelope := decodeResult(t, w)
	assert.Contains(t, envelope["error"], "dialect")
}

func TestSetDBConfigUnreachable(t *testing.T) {
	fx := newFixture(t)

	w := fx.do("POST", "/config/db",
		`{"dialect":"sqlite","connectionString":"/nonexistent-dir/sub/app.db"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	envelope := decodeResult(t, w)
	assert.Contains(t, envelope["error"], "connect")
}

func TestSetDBConfigBadBody(t *testing.T) {
	fx := newFixture(t)

	w := fx.do("POST", "/config/db", "{broken")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNamedConnectionLifecycle(t *testing.T) {
	fx := newFixture(t)

	w := fx.do("POST", "/config/db",
		`{"dialect":"sqlite","connectionString":"~data/reports.db","name":"reports"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = fx.do("GET", "/config/db", "")
	envelope := decodeResult(t, w)
	result := envelope["result"].(map[string]interface{})
	named := result["namedConnections"].(map[string]interface{})
	require.Len(t, named, 1)
	assert.Equal(t, "sqlite", named["reports"])

	w = fx.do("DELETE", "/config/db/reports", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = fx.do("GET", "/config/db", "")
	envelope = decodeResult(t, w)
	result = envelope["result"].(map[string]interface{})
	assert.Nil(t, result["namedConnections"])
}

func TestClearDefaultConnection(t *testing.T) {
	fx := newFixture(t)

	w := fx.do("POST", "/config/db",
		`{"dialect":"sqlite","connectionString":"~data/app.db"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = fx.do("DELETE", "/config/db", "")
	require.Equal(t, http.StatusOK, w.Code)
	result := decodeResult(t, w)["result"].(map[string]interface{})
	assert.Equal(t, true, result["restartRequired"])

	w = fx.do("GET", "/config/db", "")
	result = decodeResult(t, w)["result"].(map[string]interface{})
	assert.Nil(t, result["dialect"])
}

func TestClearAbsentConfigSucceeds(t *testing.T) {
	fx := newFixture(t)

	w := fx.do("DELETE", "/config/db", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSettingsRoundTrip(t *testing.T) {
	fx := newFixture(t)

	w := fx.do("POST", "/config/settings", `{"key":"ServiceName","value":"webapp"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = fx.do("GET", "/config/settings/ServiceName", "")
	require.Equal(t, http.StatusOK, w.Code)
	result := decodeResult(t, w)["result"].(map[string]interface{})
	assert.Equal(t, "webapp", result["value"])

	w = fx.do("GET", "/config/settings", "")
	require.Equal(t, http.StatusOK, w.Code)
	keys := decodeResult(t, w)["result"].([]interface{})
	assert.Len(t, keys, 1)
}

func TestSetNamedConnectionByPath(t *testing.T) {
	fx := newFixture(t)

	w := fx.do("POST", "/config/db/reports",
		`{"dialect":"sqlite","connectionString":"~data/reports.db"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = fx.do("GET", "/config/db", "")
	result := decodeResult(t, w)["result"].(map[string]interface{})
	named := result["namedConnections"].(map[string]interface{})
	require.Len(t, named, 1)
	assert.Equal(t, "sqlite", named["reports"])
}

func TestSetSettingByPath(t *testing.T) {
	fx := newFixture(t)

	w := fx.do("POST", "/config/settings/Theme", `{"value":"dark"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = fx.do("GET", "/config/settings/Theme", "")
	require.Equal(t, http.StatusOK, w.Code)
	result := decodeResult(t, w)["result"].(map[string]interface{})
	assert.Equal(t, "dark", result["value"])
}

func TestSettingsBatch(t *testing.T) {
	fx := newFixture(t)

	w := fx.do("POST", "/config/settings",
		`{"pairs":{"a":"1","b":"2","c":"3"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	result := decodeResult(t, w)["result"].(map[string]interface{})
	assert.Equal(t, float64(3), result["saved"])
}

func TestSettingsEmptyBody(t *testing.T) {
	fx := newFixture(t)

	w := fx.do("POST", "/config/settings", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingsBlankKeysSkipped(t *testing.T) {
	fx := newFixture(t)

	w := fx.do("POST", "/config/settings",
		`{"pairs":{"":"a","  ":"b","kept":"1"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decodeResult(t, w)["result"].(map[string]interface{})
	assert.Equal(t, float64(1), result["saved"])

	w = fx.do("GET", "/config/settings", "")
	keys := decodeResult(t, w)["result"].([]interface{})
	require.Len(t, keys, 1)
	assert.Equal(t, "kept", keys[0])
}

func TestSettingsAllKeysBlank(t *testing.T) {
	fx := newFixture(t)

	w := fx.do("POST", "/config/settings", `{"pairs":{"":"a"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSettingMissing(t *testing.T) {
	fx := newFixture(t)

	w := fx.do("GET", "/config/settings/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRestartInvokedOnce(t *testing.T) {
	fx := newFixture(t)

	w := fx.do("POST", "/config/restart", "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	w = fx.do("POST", "/config/restart", "")
	assert.Equal(t, http.StatusAccepted, w.Code)

	assert.Equal(t, 1, fx.restarts)
}

func TestRateLimitedRequestGets429(t *testing.T) {
	fx := &apiFixture{router: mux.NewRouter()}
	prov := db.NewProvisioner(t.TempDir(), testLogger())
	guard := NewGuard(StaticUserStore(0), testSecret, testLogger())
	api := NewAPI(prov, newFakeSettings(), guard, NewMemoryRateLimiter(1, time.Minute),
		nil, testLogger())
	api.Register(fx.router)

	w := fx.do("GET", "/config/db", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = fx.do("GET", "/config/db", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestGateAppliedToRoutes(t *testing.T) {
	fx := &apiFixture{router: mux.NewRouter()}
	prov := db.NewProvisioner(t.TempDir(), testLogger())
	guard := NewGuard(StaticUserStore(5), testSecret, testLogger())
	api := NewAPI(prov, newFakeSettings(), guard, NewMemoryRateLimiter(1000, time.Minute),
		nil, testLogger())
	api.Register(fx.router)

	w := fx.do("GET", "/config/db", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r := httptest.NewRequest("GET", "/config/db", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, AdminRole))
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
}
