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

// Package settings provides the SQL-backed key/value settings store that
// backs the administrative settings API. The store lives in the default
// database, so it is only available when a default connection factory
// was provisioned.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"webapp/platform/db"
)

// Store is the read/write surface over persisted application settings.
type Store interface {
	Keys(ctx context.Context) ([]string, error)
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// SQLStore persists settings in an app_settings table in the default
// database.
type SQLStore struct {
	db   *sql.DB
	kind db.Kind
}

// NewSQLStore creates a store over an open connection pool.
func NewSQLStore(conn *sql.DB, kind db.Kind) *SQLStore {
	return &SQLStore{db: conn, kind: kind}
}

// InitSchema creates the settings table if it does not exist yet.
func (s *SQLStore) InitSchema(ctx context.Context) error {
	var stmt string
	if s.kind.IsSQLServer() {
		stmt = `IF OBJECT_ID('app_settings', 'U') IS NULL ` +
			`CREATE TABLE app_settings (id NVARCHAR(255) NOT NULL PRIMARY KEY, value NVARCHAR(MAX))`
	} else {
		stmt = `CREATE TABLE IF NOT EXISTS app_settings (id VARCHAR(255) NOT NULL PRIMARY KEY, value TEXT)`
	}
	_, err := s.db.ExecContext(ctx, stmt)
	return err
}

// Keys returns all setting keys in sorted order.
func (s *SQLStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM app_settings")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// Get returns the value stored under key, and whether it exists.
func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	query := "SELECT value FROM app_settings WHERE id = " + s.kind.Placeholder(1)
	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores value under key, replacing any existing value. The
// delete-then-insert transaction keeps the statement portable across all
// supported dialects instead of relying on engine-specific upserts.
func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	del := "DELETE FROM app_settings WHERE id = " + s.kind.Placeholder(1)
	if _, err := tx.ExecContext(ctx, del, key); err != nil {
		_ = tx.Rollback()
		return err
	}

	ins := "INSERT INTO app_settings (id, value) VALUES (" +
		s.kind.Placeholder(1) + ", " + s.kind.Placeholder(2) + ")"
	if _, err := tx.ExecContext(ctx, ins, key, value); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
