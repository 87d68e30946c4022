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
	"database/sql"
	"fmt"

	"webapp/platform/admin"
	"webapp/platform/db"
	"webapp/platform/settings"
)

// ServiceRegistry carries the services wired during the service phase.
// Service actions populate it; once the phase completes the registry is
// frozen and app actions only read from it.
type ServiceRegistry struct {
	frozen bool

	dbFactory   *db.Factory
	named       *db.Registry
	sqlDB       *sql.DB
	settings    settings.Store
	users       admin.UserStore
	provisioner *db.Provisioner
	values      map[string]interface{}
}

// NewServiceRegistry creates an empty, unfrozen registry.
func NewServiceRegistry() *ServiceRegistry {
	return &ServiceRegistry{
		named:  db.NewRegistry(),
		values: make(map[string]interface{}),
	}
}

func (r *ServiceRegistry) guard(what string) error {
	if r.frozen {
		return fmt.Errorf("registry is frozen, cannot set %s after the service phase", what)
	}
	return nil
}

// SetDBFactory stores the default connection factory.
func (r *ServiceRegistry) SetDBFactory(f *db.Factory) error {
	if err := r.guard("db factory"); err != nil {
		return err
	}
	r.dbFactory = f
	return nil
}

// DBFactory returns the default connection factory, or nil when no
// database is configured.
func (r *ServiceRegistry) DBFactory() *db.Factory { return r.dbFactory }

// SetNamedConnections stores the registry of named connection
// factories.
func (r *ServiceRegistry) SetNamedConnections(reg *db.Registry) error {
	if err := r.guard("named connections"); err != nil {
		return err
	}
	r.named = reg
	return nil
}

// NamedConnections returns the named connection factories. Never nil.
func (r *ServiceRegistry) NamedConnections() *db.Registry { return r.named }

// SetDB stores the open default connection pool.
func (r *ServiceRegistry) SetDB(conn *sql.DB) error {
	if err := r.guard("db"); err != nil {
		return err
	}
	r.sqlDB = conn
	return nil
}

// DB returns the open default connection pool, or nil.
func (r *ServiceRegistry) DB() *sql.DB { return r.sqlDB }

// SetSettings stores the settings store.
func (r *ServiceRegistry) SetSettings(s settings.Store) error {
	if err := r.guard("settings"); err != nil {
		return err
	}
	r.settings = s
	return nil
}

// Settings returns the settings store, or nil when no database is
// configured.
func (r *ServiceRegistry) Settings() settings.Store { return r.settings }

// SetUsers stores the user store.
func (r *ServiceRegistry) SetUsers(u admin.UserStore) error {
	if err := r.guard("users"); err != nil {
		return err
	}
	r.users = u
	return nil
}

// Users returns the user store, or nil.
func (r *ServiceRegistry) Users() admin.UserStore { return r.users }

// SetProvisioner stores the database provisioner.
func (r *ServiceRegistry) SetProvisioner(p *db.Provisioner) error {
	if err := r.guard("provisioner"); err != nil {
		return err
	}
	r.provisioner = p
	return nil
}

// Provisioner returns the database provisioner, or nil.
func (r *ServiceRegistry) Provisioner() *db.Provisioner { return r.provisioner }

// SetValue stores an arbitrary named service for plugins that need to
// share state beyond the typed slots.
func (r *ServiceRegistry) SetValue(key string, value interface{}) error {
	if err := r.guard(key); err != nil {
		return err
	}
	r.values[key] = value
	return nil
}

// Value returns a named service stored with SetValue.
func (r *ServiceRegistry) Value(key string) (interface{}, bool) {
	v, ok := r.values[key]
	return v, ok
}

// freeze marks the end of the service phase.
func (r *ServiceRegistry) freeze() { r.frozen = true }
