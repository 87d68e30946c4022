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

/*
Package db resolves declared database connections into validated
connection factories and manages their durable configuration.

# Overview

The host supports four engine families: SQLite, PostgreSQL, MySQL and
SQL Server (with year-versioned variants). A connection is declared as a
free-form dialect string plus a connection string; the resolver matches
the dialect against known keywords, expands the ~data/ placeholder to the
process data directory, and validates the pair by opening one probe
connection before producing a Factory.

Configuration persists as a single db.config.json file per data
directory:

	{
	  "Dialect": "sqlite",
	  "ConnectionString": "~data/app.db",
	  "NamedConnections": {
	    "reports": {"Dialect": "sqlite", "ConnectionString": "~data/reports.db"}
	  }
	}

An absent file means "no explicit configuration"; the provisioner then
falls back to DB_DIALECT / DB_CONNECTIONSTRING from the environment. The
environment fallback is never written back to disk.

# Lifecycle

The config file is read once at process start. Administrative mutations
(SetConnection, RemoveConnection) rewrite the file immediately but never
touch the live default factory or named-connection registry of the
running process: connection identity is fixed for the lifetime of a
process instance and changes apply on the next restart.

# Validation

SetConnection resolves before it persists. A definition that fails the
probe is never written, so the file only ever contains definitions that
worked at the time they were saved.
*/
package db
