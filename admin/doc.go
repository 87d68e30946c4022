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
Package admin implements the administrative configuration API.

The API lets an operator inspect and change the host's database
configuration and persisted settings over HTTP:

	GET    /config/db              current dialect plus each named connection's dialect
	POST   /config/db[/{name}]     validate and persist a connection
	DELETE /config/db[/{name}]     clear the default or a named connection
	GET    /config/settings        list setting keys
	GET    /config/settings/{key}  read one setting
	POST   /config/settings[/{key}] write one or more settings
	POST   /config/restart         ask the host to restart

# Authorization

Every route passes through the zero-users-or-admin gate. While the
system has no user accounts it is considered to be in bootstrap state
and requests are allowed without credentials, so a fresh install can be
configured. Once any user exists, callers must present a bearer token
signed with the host secret and carrying the admin role. Missing or
invalid credentials get 401 with a bearer challenge; a valid token
without the admin role gets 403.

# Restart semantics

Changing the database configuration never rewires live connections.
The response carries restartRequired and the new configuration takes
effect on the next host start. POST /config/restart triggers a graceful
shutdown; a process supervisor is expected to start the host again.
*/
package admin
