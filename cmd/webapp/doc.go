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
Command webapp runs the pluggable web host.

The host assembles its request pipeline from prioritized startup
units: license registration, database provisioning, headers and CORS,
service worker cache control, static files, host rewriting, the
administrative API, and a fallback banner. Plugins compiled into the
binary register additional units at init time.

Configuration comes from the environment, optionally seeded by a YAML
file named in WEBAPP_CONFIG:

	WEBAPP_NAME          service name shown in health and banner output (default "webapp")
	PORT                 listen port (default 8080)
	DATA_DIR             writable data directory (default ./App_Data)
	WEB_ROOT             static file root (default "wwwroot")
	DB_DIALECT           database dialect fallback when no persisted config exists
	DB_CONNECTIONSTRING  connection string fallback; "~data/" expands to DATA_DIR
	REDIS_URL            optional Redis URL for shared admin rate limiting
	JWT_SECRET           signing secret for admin bearer tokens
	LICENSE_KEY          optional license key
	ALLOWED_ORIGINS      comma-separated CORS origins (default "*")

The persisted database configuration in DATA_DIR/db.config.json takes
precedence over the DB_* fallbacks and is managed through the admin
API. Database changes require a restart; POST /config/restart exits
the process cleanly so a supervisor can bring it back up.
*/
package main
