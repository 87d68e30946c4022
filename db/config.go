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

import "strings"

// Definition pairs a free-form dialect name with a connection string.
// The connection string may contain the ~data/ token.
type Definition struct {
	Dialect          string `json:"Dialect,omitempty"`
	ConnectionString string `json:"ConnectionString,omitempty"`
}

// blank reports whether the definition carries no usable content.
func (d Definition) blank() bool {
	return strings.TrimSpace(d.Dialect) == "" || strings.TrimSpace(d.ConnectionString) == ""
}

// Config is the durable record of the default connection and zero or more
// named connections. It serializes as the single db.config.json file in
// the data directory.
type Config struct {
	Definition
	NamedConnections map[string]Definition `json:"NamedConnections,omitempty"`
}

// Empty reports whether the config carries no default and no named
// connections. An empty config is equivalent to an absent file.
func (c *Config) Empty() bool {
	return strings.TrimSpace(c.Dialect) == "" &&
		strings.TrimSpace(c.ConnectionString) == "" &&
		len(c.NamedConnections) == 0
}
