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
Package host assembles the web host from independent startup units.

Startup runs in two phases. In the service phase every unit's
ConfigureServices hook runs in ascending priority order and wires
shared services into the ServiceRegistry. The registry then freezes.
In the app phase every unit's ConfigureApp hook runs, again in
priority order, contributing middleware and at most one terminal
handler to the AppBuilder. A unit may implement either hook or both.

The built-in units cover license registration, database provisioning,
header and CORS handling, service worker cache headers, static file
serving, host-based path rewriting, the administrative API, and a
fallback banner. Additional units register at init time through
RegisterPlugin and are folded into the same pipeline.

Units that depend on a database check the registry and disable
themselves entirely when no default connection factory or settings
store was registered; the host still comes up and serves static files
and the fallback banner. A database-less host is configured through
DB_DIALECT/DB_CONNECTIONSTRING or the persisted db.config.json and
restarted.
*/
package host
