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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pingPlugin claims the terminal slot for a fixed response.
type pingPlugin struct{}

func (pingPlugin) Priority() int { return PriorityDefault }

func (pingPlugin) ConfigureApp(b *AppBuilder) error {
	b.SetTerminal(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pong"))
	}))
	return nil
}

func TestRegisterPluginRejectsDuplicates(t *testing.T) {
	RegisterPlugin("dup-test", pingPlugin{})
	assert.Panics(t, func() {
		RegisterPlugin("dup-test", pingPlugin{})
	})
}

func TestRegisterPluginRejectsUnknownTypes(t *testing.T) {
	assert.Panics(t, func() {
		RegisterPlugin("bogus-test", struct{}{})
	})
}

func TestRegisteredPluginRunsInPipeline(t *testing.T) {
	RegisterPlugin("ping-test", pingPlugin{})

	cfg := testConfig(t)
	h := startHost(t, cfg)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/anything", nil))
	assert.Equal(t, "pong", w.Body.String(),
		"plugin terminal outranks the fallback banner")
}

// valuePlugin shares state through the registry during the service
// phase and reads it back in the app phase.
type valuePlugin struct {
	got interface{}
}

func (p *valuePlugin) Priority() int { return PriorityDefault }

func (p *valuePlugin) ConfigureServices(ctx context.Context, reg *ServiceRegistry) error {
	if err := reg.SetValue("greeting", "hello"); err != nil {
		return err
	}
	p.got, _ = reg.Value("greeting")
	return nil
}

func TestPluginSharesRegistryValues(t *testing.T) {
	p := &valuePlugin{}
	o := NewOrchestrator(testLog(), p)
	require.NoError(t, o.Run(context.Background(), NewServiceRegistry(), NewAppBuilder()))
	assert.Equal(t, "hello", p.got)
}
