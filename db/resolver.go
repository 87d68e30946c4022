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
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"  // MySQL driver
	_ "github.com/lib/pq"               // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"     // SQLite driver
	_ "github.com/microsoft/go-mssqldb" // SQL Server driver

	"webapp/platform/shared/logger"
)

// DataDirToken is the placeholder in connection strings that expands to
// the process data directory. It keeps connection strings portable across
// machines and data-directory locations.
const DataDirToken = "~data/"

// sentinelTable is a table name guaranteed not to exist; the validation
// probe checks for it to force a real round trip to the database.
const sentinelTable = "this_table_does_not_exist"

// DefaultProbeTimeout bounds the validation probe so a misconfigured
// connection string cannot hang startup indefinitely.
const DefaultProbeTimeout = 10 * time.Second

// Factory is a validated handle capable of opening live connections for
// one dialect + connection string pair. Factories are only produced by
// Resolver.Resolve after a successful validation probe.
type Factory struct {
	kind Kind
	dsn  string
}

// Kind returns the dialect the factory opens connections for.
func (f *Factory) Kind() Kind { return f.kind }

// DSN returns the resolved connection string, with the data-directory
// token already expanded.
func (f *Factory) DSN() string { return f.dsn }

// Open opens a new connection pool against the factory's target.
func (f *Factory) Open() (*sql.DB, error) {
	return sql.Open(f.kind.Driver(), f.dsn)
}

// Resolver turns a declared dialect + connection string into a validated
// Factory, or fails with ErrInvalidDialect or ErrConnectionFailed.
type Resolver struct {
	dataDir string
	timeout time.Duration
	log     *logger.Logger
}

// NewResolver creates a resolver rooted at the given data directory.
func NewResolver(dataDir string, log *logger.Logger) *Resolver {
	return &Resolver{
		dataDir: dataDir,
		timeout: DefaultProbeTimeout,
		log:     log,
	}
}

// SetProbeTimeout overrides the validation probe timeout.
func (r *Resolver) SetProbeTimeout(d time.Duration) {
	if d > 0 {
		r.timeout = d
	}
}

// ExpandDataDir replaces every occurrence of the ~data/ token with the
// data directory path, normalizing trailing separators.
func ExpandDataDir(connectionString, dataDir string) string {
	if dataDir == "" {
		return connectionString
	}
	dir := strings.TrimRight(dataDir, "/\\")
	return strings.ReplaceAll(connectionString, DataDirToken, dir+"/")
}

// Resolve validates the dialect + connection string pair and returns a
// usable Factory. Expected failures come back as ErrInvalidDialect or
// ErrConnectionFailed; the probe's underlying cause is logged.
func (r *Resolver) Resolve(ctx context.Context, dialect, connectionString string) (*Factory, error) {
	if strings.TrimSpace(dialect) == "" {
		return nil, fmt.Errorf("%w: dialect is empty", ErrInvalidDialect)
	}
	if strings.TrimSpace(connectionString) == "" {
		return nil, fmt.Errorf("%w: connection string is empty", ErrInvalidDialect)
	}

	kind, ok := ParseKind(dialect)
	if !ok {
		return nil, fmt.Errorf("%w: unrecognized dialect %q", ErrInvalidDialect, dialect)
	}

	f := &Factory{
		kind: kind,
		dsn:  ExpandDataDir(connectionString, r.dataDir),
	}

	if err := r.probe(ctx, f); err != nil {
		r.log.Warn("connection validation failed", map[string]interface{}{
			"dialect": kind.String(),
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	return f, nil
}

// probe opens one connection through the tentative factory and runs a
// cheap existence check for the sentinel table. The connection is closed
// before returning regardless of outcome.
func (r *Resolver) probe(ctx context.Context, f *Factory) error {
	conn, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	probeCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := conn.PingContext(probeCtx); err != nil {
		return err
	}

	var count int
	if err := conn.QueryRowContext(probeCtx, f.kind.tableExistsQuery(sentinelTable)).Scan(&count); err != nil {
		return err
	}
	return nil
}
