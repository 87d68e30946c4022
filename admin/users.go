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
	"database/sql"
	"strings"

	"webapp/platform/db"
)

// UserStore reports how many user accounts exist. The administrative
// gate only needs the count: zero users means the system is still in
// bootstrap state and the gate is open.
type UserStore interface {
	Count(ctx context.Context) (int64, error)
}

// SQLUserStore counts users in the app_users table of the default
// database.
type SQLUserStore struct {
	db   *sql.DB
	kind db.Kind
}

// NewSQLUserStore creates a user store over an open connection pool.
func NewSQLUserStore(conn *sql.DB, kind db.Kind) *SQLUserStore {
	return &SQLUserStore{db: conn, kind: kind}
}

// Count returns the number of user accounts. The user table is created
// lazily by the auth plugin, so a missing table counts as zero users
// rather than an error.
func (s *SQLUserStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM app_users").Scan(&count)
	if err != nil {
		if isMissingTable(err) {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}

// isMissingTable recognizes the "table does not exist" errors of the
// supported engines. Driver error types differ, so this matches on the
// message text each engine actually produces.
func isMissingTable(err error) bool {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no such table"): // sqlite
		return true
	case strings.Contains(msg, "does not exist"): // postgres
		return true
	case strings.Contains(msg, "doesn't exist"): // mysql
		return true
	case strings.Contains(msg, "invalid object name"): // sqlserver
		return true
	}
	return false
}

// StaticUserStore returns a fixed count. Used by tests and by hosts
// without a user table.
type StaticUserStore int64

// Count returns the fixed count.
func (s StaticUserStore) Count(ctx context.Context) (int64, error) {
	return int64(s), nil
}
