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
	"webapp/platform/shared/logger"
)

// DefaultActions returns the built-in startup units in registration
// order, followed by every compile-time plugin. The restart callback is
// invoked when an operator requests a host restart through the admin
// API.
func DefaultActions(cfg *Config, restart func(), log *logger.Logger) []interface{} {
	units := []interface{}{
		NewLicenseAction(cfg, log),
		NewDatabaseAction(cfg, log),
		NewHeadersAction(cfg, log),
		NewServiceWorkerAction(),
		NewStaticFilesAction(cfg.WebRoot, log),
		NewRewriteAction(),
		NewAPIHostAction(cfg, restart, log),
		NewFallbackAction(cfg.ServiceName),
	}
	return append(units, RegisteredPlugins()...)
}
