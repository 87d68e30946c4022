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
Package logger provides structured JSON logging for the web host and its
actions.

# Overview

Log entries are written to stdout as single-line JSON so they are directly
consumable by container log collectors and aggregation systems.

Each entry includes:
  - Timestamp (RFC3339Nano format)
  - Log level (DEBUG, INFO, WARN, ERROR)
  - Component name (host, db, admin, ...)
  - Hostname (for correlating multiple instances)
  - Request ID (for request correlation, when available)
  - Custom fields

# Usage

Create a logger for your component:

	log := logger.New("host")

Log messages with optional fields:

	log.Info("database provisioned", map[string]interface{}{
	    "dialect": "sqlite",
	})

Log errors with the cause attached:

	log.Error("failed to persist config", err, nil)

# Output Format

Log entries are output as single-line JSON:

	{"timestamp":"2025-01-15T10:30:00.123456789Z","level":"INFO",
	 "component":"host","hostname":"web-1",
	 "message":"database provisioned","fields":{"dialect":"sqlite"}}

# Thread Safety

Logger instances are safe for concurrent use from multiple goroutines.
*/
package logger
