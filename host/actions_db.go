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
	"fmt"
	"os"

	"webapp/platform/admin"
	"webapp/platform/db"
	"webapp/platform/settings"
	"webapp/platform/shared/logger"
)

// DatabaseAction provisions database connectivity at startup: it runs
// the resolution pipeline over the persisted configuration (with the
// environment as fallback), then wires the resulting factory, the open
// pool, the settings store and the user store into the registry. When
// nothing resolves the host still comes up, just without the services
// that need a database.
type DatabaseAction struct {
	cfg *Config
	log *logger.Logger
}

// NewDatabaseAction creates the database startup unit.
func NewDatabaseAction(cfg *Config, log *logger.Logger) *DatabaseAction {
	return &DatabaseAction{cfg: cfg, log: log}
}

// Priority runs right after the license check.
func (a *DatabaseAction) Priority() int { return PriorityDatabase }

// ConfigureServices provisions connections and dependent stores.
func (a *DatabaseAction) ConfigureServices(ctx context.Context, reg *ServiceRegistry) error {
	if err := os.MkdirAll(a.cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	prov := db.NewProvisioner(a.cfg.DataDir, a.log)
	result, err := prov.ProvisionAtStartup(ctx, a.cfg.Dialect, a.cfg.ConnectionString)
	if err != nil {
		// A corrupt persisted config is an operator problem that
		// must not be silently ignored.
		return err
	}

	if err := reg.SetProvisioner(prov); err != nil {
		return err
	}
	if err := reg.SetNamedConnections(result.Named); err != nil {
		return err
	}

	if result.Default == nil {
		a.log.Info("no database configured, database services disabled", nil)
		return nil
	}

	if err := reg.SetDBFactory(result.Default); err != nil {
		return err
	}

	conn, err := result.Default.Open()
	if err != nil {
		return fmt.Errorf("opening default connection pool: %w", err)
	}
	if err := reg.SetDB(conn); err != nil {
		return err
	}

	store := settings.NewSQLStore(conn, result.Default.Kind())
	if err := store.InitSchema(ctx); err != nil {
		return fmt.Errorf("initializing settings schema: %w", err)
	}
	if err := reg.SetSettings(store); err != nil {
		return err
	}
	if err := reg.SetUsers(admin.NewSQLUserStore(conn, result.Default.Kind())); err != nil {
		return err
	}

	a.log.Info("database provisioned", map[string]interface{}{
		"dialect": result.Default.Kind().String(),
		"named":   result.Named.Count(),
	})
	return nil
}
