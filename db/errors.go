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

import "errors"

// Expected failure modes of connection resolution and config persistence.
// Callers classify with errors.Is; anything else is an unexpected I/O error.
var (
	// ErrInvalidDialect indicates a missing or unrecognized dialect or a
	// blank connection string.
	ErrInvalidDialect = errors.New("invalid dialect or connection string")

	// ErrConnectionFailed indicates the dialect was recognized but the
	// validation probe could not reach the database.
	ErrConnectionFailed = errors.New("unable to connect to database")

	// ErrConfigCorrupt indicates the persisted config file exists but
	// cannot be parsed.
	ErrConfigCorrupt = errors.New("db config file is corrupt")
)
