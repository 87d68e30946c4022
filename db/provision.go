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

package db

import (
	"context"
	"strings"

	"webapp/platform/shared/logger"
)

// Provision is the outcome of startup provisioning: the process-wide
// default factory (nil when no default connection could be resolved) and
// the named-connection registry.
type Provision struct {
	Default *Factory
	Named   *Registry
}

// Provisioner orchestrates the persisted config and the resolver to
// produce the process-wide connection factories, and exposes the
// mutation operations used by the administrative API. Mutations are
// file-level only: the live factories of a running process are fixed
// until restart.
type Provisioner struct {
	dataDir  string
	store    *ConfigStore
	resolver *Resolver
	log      *logger.Logger
}

// NewProvisioner creates a provisioner rooted at the given data directory.
func NewProvisioner(dataDir string, log *logger.Logger) *Provisioner {
	return &Provisioner{
		dataDir:  dataDir,
		store:    NewConfigStore(dataDir, log),
		resolver: NewResolver(dataDir, log),
		log:      log,
	}
}

// DataDir returns the data directory the provisioner is rooted at.
func (p *Provisioner) DataDir() string { return p.dataDir }

// Resolver returns the provisioner's resolver, mainly so callers can
// adjust the probe timeout.
func (p *Provisioner) Resolver() *Resolver { return p.resolver }

// ProvisionAtStartup loads the persisted config, falls back to the
// environment-supplied dialect and connection string when the file has
// no default, and resolves everything into factories.
//
// A corrupt config file is fatal. A default connection that fails to
// resolve is not: provisioning succeeds with a nil default factory so
// the rest of the system can start and be configured over the admin API.
// Named entries resolve independently; a broken one is skipped with a
// warning. The environment fallback is never persisted.
func (p *Provisioner) ProvisionAtStartup(ctx context.Context, envDialect, envConnectionString string) (*Provision, error) {
	cfg, err := p.store.Load()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &Config{}
	}

	// Persisted file wins over environment when both are present.
	dialect, connStr := cfg.Dialect, cfg.ConnectionString
	if strings.TrimSpace(dialect) == "" || strings.TrimSpace(connStr) == "" {
		dialect, connStr = envDialect, envConnectionString
	}

	prov := &Provision{Named: NewRegistry()}

	if strings.TrimSpace(dialect) != "" && strings.TrimSpace(connStr) != "" {
		f, err := p.resolver.Resolve(ctx, dialect, connStr)
		if err != nil {
			p.log.Warn("default connection unavailable", map[string]interface{}{
				"dialect": dialect,
				"error":   err.Error(),
			})
		} else {
			prov.Default = f
			p.log.Info("default connection resolved", map[string]interface{}{
				"dialect": f.Kind().String(),
			})
		}
	}

	for name, def := range cfg.NamedConnections {
		f, err := p.resolver.Resolve(ctx, def.Dialect, def.ConnectionString)
		if err != nil {
			// One broken named connection must not block startup.
			p.log.Warn("skipping named connection", map[string]interface{}{
				"name":  name,
				"error": err.Error(),
			})
			continue
		}
		prov.Named.Register(name, f)
	}

	return prov, nil
}

// SetConnection validates the definition and, only on success, persists
// it as the default (blank name) or named connection. A definition that
// fails validation is never written: after a failed call the persisted
// state is unchanged. Takes effect on next restart.
func (p *Provisioner) SetConnection(ctx context.Context, dialect, connectionString, name string) error {
	if _, err := p.resolver.Resolve(ctx, dialect, connectionString); err != nil {
		return err
	}
	return p.store.Put(Definition{Dialect: dialect, ConnectionString: connectionString}, name)
}

// RemoveConnection clears the default (blank name) or named connection
// from the persisted config. Takes effect on next restart.
func (p *Provisioner) RemoveConnection(name string) error {
	return p.store.Clear(name)
}

// Current returns the persisted config, or nil when absent.
func (p *Provisioner) Current() (*Config, error) {
	return p.store.Load()
}
