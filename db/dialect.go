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
	"strconv"
	"strings"
)

// Kind identifies a supported database engine family.
type Kind int

const (
	KindUnknown Kind = iota
	KindSQLite
	KindPostgres
	KindMySQL
	KindSQLServer
	KindSQLServer2012
	KindSQLServer2014
	KindSQLServer2016
	KindSQLServer2017
)

// String returns the canonical dialect name.
func (k Kind) String() string {
	switch k {
	case KindSQLite:
		return "sqlite"
	case KindPostgres:
		return "postgres"
	case KindMySQL:
		return "mysql"
	case KindSQLServer:
		return "sqlserver"
	case KindSQLServer2012:
		return "sqlserver2012"
	case KindSQLServer2014:
		return "sqlserver2014"
	case KindSQLServer2016:
		return "sqlserver2016"
	case KindSQLServer2017:
		return "sqlserver2017"
	default:
		return "unknown"
	}
}

// driverNames maps each dialect to its registered database/sql driver.
// Package-level so tests can point a dialect at the sqlmock driver.
var driverNames = map[Kind]string{
	KindSQLite:        "sqlite3",
	KindPostgres:      "postgres",
	KindMySQL:         "mysql",
	KindSQLServer:     "sqlserver",
	KindSQLServer2012: "sqlserver",
	KindSQLServer2014: "sqlserver",
	KindSQLServer2016: "sqlserver",
	KindSQLServer2017: "sqlserver",
}

// Driver returns the database/sql driver name for the dialect.
func (k Kind) Driver() string {
	return driverNames[k]
}

// IsSQLServer reports whether the dialect is any SQL Server variant.
func (k Kind) IsSQLServer() bool {
	switch k {
	case KindSQLServer, KindSQLServer2012, KindSQLServer2014, KindSQLServer2016, KindSQLServer2017:
		return true
	}
	return false
}

// Placeholder returns the bind-parameter syntax for the n-th parameter
// (1-based) in the dialect's SQL flavor.
func (k Kind) Placeholder(n int) string {
	switch {
	case k == KindPostgres:
		return "$" + strconv.Itoa(n)
	case k.IsSQLServer():
		return "@p" + strconv.Itoa(n)
	default:
		return "?"
	}
}

// tableExistsQuery returns a cheap metadata query checking for the given
// table name. Used by the resolver's validation probe; the table is not
// expected to exist, only the round trip matters.
func (k Kind) tableExistsQuery(table string) string {
	switch k {
	case KindSQLite:
		return "SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = '" + table + "'"
	default:
		return "SELECT count(*) FROM information_schema.tables WHERE table_name = '" + table + "'"
	}
}

// ParseKind matches a free-form dialect string against the known dialect
// keywords. Matching is case-insensitive substring matching with precedence
// sqlite, postgres/pgsql, mysql, sqlserver. SQL Server is further
// disambiguated by a year token embedded in the string; 2008 maps to the
// 2012 variant and an unrecognized year falls back to the generic variant.
func ParseKind(dialect string) (Kind, bool) {
	d := strings.ToLower(strings.TrimSpace(dialect))
	if d == "" {
		return KindUnknown, false
	}

	switch {
	case strings.Contains(d, "sqlite"):
		return KindSQLite, true
	case strings.Contains(d, "pgsql"), strings.Contains(d, "postgres"):
		return KindPostgres, true
	case strings.Contains(d, "mysql"):
		return KindMySQL, true
	case strings.Contains(d, "sqlserver"):
		switch {
		case strings.Contains(d, "2017"):
			return KindSQLServer2017, true
		case strings.Contains(d, "2016"):
			return KindSQLServer2016, true
		case strings.Contains(d, "2014"):
			return KindSQLServer2014, true
		case strings.Contains(d, "2012"), strings.Contains(d, "2008"):
			return KindSQLServer2012, true
		default:
			return KindSQLServer, true
		}
	}

	return KindUnknown, false
}
