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
	"os"
	"path/filepath"
	"strings"

	"webapp/platform/shared/logger"
)

// StaticFilesAction serves files from the web root. Requests that match
// an existing file are served; everything else falls through to later
// middleware, so API routes and the fallback handler keep working
// without path carve-outs.
type StaticFilesAction struct {
	webRoot string
	log     *logger.Logger
}

// NewStaticFilesAction creates the static file startup unit.
func NewStaticFilesAction(webRoot string, log *logger.Logger) *StaticFilesAction {
	return &StaticFilesAction{webRoot: webRoot, log: log}
}

// Priority runs after the header middleware, before the API host.
func (a *StaticFilesAction) Priority() int { return PriorityStaticFiles }

// ConfigureApp installs the serve-if-exists middleware. A missing web
// root disables static serving without failing startup.
func (a *StaticFilesAction) ConfigureApp(b *AppBuilder) error {
	root, err := filepath.Abs(a.webRoot)
	if err != nil {
		return err
	}
	if info, statErr := os.Stat(root); statErr != nil || !info.IsDir() {
		a.log.Info("web root not found, static file serving disabled", map[string]interface{}{
			"web_root": a.webRoot,
		})
		return nil
	}

	b.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			target, ok := resolveStatic(root, r.URL.Path)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			http.ServeFile(w, r, target)
		})
	})
	return nil
}

// resolveStatic maps a request path to a file under root, refusing
// anything that escapes it. Directories resolve to their index.html.
func resolveStatic(root, urlPath string) (string, bool) {
	clean := filepath.Clean("/" + urlPath)
	target := filepath.Join(root, filepath.FromSlash(clean))
	if !strings.HasPrefix(target, root+string(os.PathSeparator)) && target != root {
		return "", false
	}

	info, err := os.Stat(target)
	if err != nil {
		return "", false
	}
	if info.IsDir() {
		index := filepath.Join(target, "index.html")
		if _, err := os.Stat(index); err != nil {
			return "", false
		}
		return index, true
	}
	return target, true
}
