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
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"webapp/platform/shared/logger"
)

// ConfigFileName is the fixed name of the persisted connection config
// inside the data directory.
const ConfigFileName = "db.config.json"

// ConfigStore persists the ConnectionConfig for one data directory.
// Every read-modify-write runs under an in-process mutex so concurrent
// administrative mutations cannot interleave into a corrupt file.
type ConfigStore struct {
	mu      sync.Mutex
	dataDir string
	path    string
	log     *logger.Logger
}

// NewConfigStore creates a store bound to <dataDir>/db.config.json.
func NewConfigStore(dataDir string, log *logger.Logger) *ConfigStore {
	return &ConfigStore{
		dataDir: dataDir,
		path:    filepath.Join(dataDir, ConfigFileName),
		log:     log,
	}
}

// Path returns the backing file path.
func (s *ConfigStore) Path() string { return s.path }

// Load reads the persisted config. A missing file returns (nil, nil);
// an unparseable file returns ErrConfigCorrupt.
func (s *ConfigStore) Load() (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *ConfigStore) load() (*Config, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.parse(data)
}

// parse decodes the file. The top level must parse; named connections
// decode individually so one corrupt entry is skipped with a warning
// instead of blocking startup.
func (s *ConfigStore) parse(data []byte) (*Config, error) {
	var raw struct {
		Dialect          string                     `json:"Dialect"`
		ConnectionString string                     `json:"ConnectionString"`
		NamedConnections map[string]json.RawMessage `json:"NamedConnections"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigCorrupt, err)
	}

	cfg := &Config{
		Definition: Definition{
			Dialect:          raw.Dialect,
			ConnectionString: raw.ConnectionString,
		},
	}
	for name, msg := range raw.NamedConnections {
		var def Definition
		if err := json.Unmarshal(msg, &def); err != nil {
			s.log.Warn("skipping corrupt named connection entry", map[string]interface{}{
				"name":  name,
				"error": err.Error(),
			})
			continue
		}
		if cfg.NamedConnections == nil {
			cfg.NamedConnections = make(map[string]Definition)
		}
		cfg.NamedConnections[name] = def
	}
	return cfg, nil
}

// Save serializes and overwrites the config file, creating the data
// directory if missing. Save has no validation responsibility.
func (s *ConfigStore) Save(cfg *Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(cfg)
}

func (s *ConfigStore) save(cfg *Config) error {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// Put stores the definition as the default connection (blank name) or as
// a named connection, preserving everything else in the file.
func (s *ConfigStore) Put(def Definition, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.load()
	if err != nil {
		return err
	}
	if cfg == nil {
		cfg = &Config{}
	}

	if strings.TrimSpace(name) == "" {
		cfg.Definition = def
	} else {
		if cfg.NamedConnections == nil {
			cfg.NamedConnections = make(map[string]Definition)
		}
		cfg.NamedConnections[name] = def
	}
	return s.save(cfg)
}

// Clear removes the default connection (blank name) or the given named
// entry. Clearing something already absent is a no-op and never creates
// a file. If the result is empty, the backing file is deleted; deletion
// failures are swallowed.
func (s *ConfigStore) Clear(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.load()
	if err != nil {
		return err
	}
	if cfg == nil {
		return nil
	}

	if strings.TrimSpace(name) == "" {
		cfg.Dialect = ""
		cfg.ConnectionString = ""
	} else {
		if _, ok := cfg.NamedConnections[name]; !ok {
			return nil
		}
		delete(cfg.NamedConnections, name)
	}

	if cfg.Empty() {
		// Best-effort cleanup; an empty config and an absent file are
		// equivalent states.
		_ = os.Remove(s.path)
		return nil
	}
	return s.save(cfg)
}
