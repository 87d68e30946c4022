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

import "testing"

func TestParseKind(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
		want    Kind
		ok      bool
	}{
		{"plain sqlite", "sqlite", KindSQLite, true},
		{"mixed case sqlite", "SQLite", KindSQLite, true},
		{"sqlite substring", "System.Data.SQLite", KindSQLite, true},
		{"postgres", "postgres", KindPostgres, true},
		{"postgresql", "PostgreSQL", KindPostgres, true},
		{"pgsql alias", "pgsql", KindPostgres, true},
		{"mysql", "MySQL", KindMySQL, true},
		{"generic sqlserver", "sqlserver", KindSQLServer, true},
		{"sqlserver 2017", "SqlServer2017", KindSQLServer2017, true},
		{"sqlserver 2016", "sqlserver-2016", KindSQLServer2016, true},
		{"sqlserver 2014", "sqlserver2014", KindSQLServer2014, true},
		{"sqlserver 2012", "sqlserver2012", KindSQLServer2012, true},
		{"sqlserver 2008 maps to 2012", "sqlserver2008", KindSQLServer2012, true},
		{"sqlserver unknown year", "sqlserver2023", KindSQLServer, true},
		{"sqlite wins over embedded server token", "sqlite-sqlserver", KindSQLite, true},
		{"empty", "", KindUnknown, false},
		{"blank", "   ", KindUnknown, false},
		{"unrecognized", "oracle", KindUnknown, false},
		{"mssql alone is not enough", "mssql", KindUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseKind(tt.dialect)
			if ok != tt.ok {
				t.Fatalf("ParseKind(%q) ok = %v, want %v", tt.dialect, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.dialect, got, tt.want)
			}
		})
	}
}

func TestKindDriver(t *testing.T) {
	tests := []struct {
		kind   Kind
		driver string
	}{
		{KindSQLite, "sqlite3"},
		{KindPostgres, "postgres"},
		{KindMySQL, "mysql"},
		{KindSQLServer, "sqlserver"},
		{KindSQLServer2012, "sqlserver"},
		{KindSQLServer2017, "sqlserver"},
	}
	for _, tt := range tests {
		if got := tt.kind.Driver(); got != tt.driver {
			t.Errorf("%v.Driver() = %s, want %s", tt.kind, got, tt.driver)
		}
	}
}

func TestKindPlaceholder(t *testing.T) {
	if got := KindPostgres.Placeholder(2); got != "$2" {
		t.Errorf("postgres placeholder = %s, want $2", got)
	}
	if got := KindSQLServer2016.Placeholder(1); got != "@p1" {
		t.Errorf("sqlserver placeholder = %s, want @p1", got)
	}
	if got := KindSQLite.Placeholder(1); got != "?" {
		t.Errorf("sqlite placeholder = %s, want ?", got)
	}
	if got := KindMySQL.Placeholder(3); got != "?" {
		t.Errorf("mysql placeholder = %s, want ?", got)
	}
}
