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

	"webapp/platform/shared/logger"
)

// LicenseAction records the license state before anything else runs, so
// every later unit can check the registry for it. An absent key means
// the community edition; it never blocks startup.
type LicenseAction struct {
	cfg *Config
	log *logger.Logger
}

// NewLicenseAction creates the license startup unit.
func NewLicenseAction(cfg *Config, log *logger.Logger) *LicenseAction {
	return &LicenseAction{cfg: cfg, log: log}
}

// Priority runs first.
func (a *LicenseAction) Priority() int { return PriorityLicense }

// ConfigureServices publishes the license key into the registry.
func (a *LicenseAction) ConfigureServices(ctx context.Context, reg *ServiceRegistry) error {
	if a.cfg.LicenseKey == "" {
		a.log.Info("no license key configured, running community edition", nil)
		return nil
	}

	if err := reg.SetValue("license.key", a.cfg.LicenseKey); err != nil {
		return err
	}
	a.log.Info("license key registered", nil)
	return nil
}
