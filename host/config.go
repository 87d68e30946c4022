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

package host

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Config holds everything the host reads from its environment. A YAML
// file named by WEBAPP_CONFIG can set the same fields; environment
// variables win over the file.
type Config struct {
	ServiceName      string   `yaml:"service_name"`
	Port             string   `yaml:"port"`
	DataDir          string   `yaml:"data_dir"`
	WebRoot          string   `yaml:"web_root"`
	Dialect          string   `yaml:"db_dialect"`
	ConnectionString string   `yaml:"db_connection_string"`
	RedisURL         string   `yaml:"redis_url"`
	JWTSecret        string   `yaml:"jwt_secret"`
	LicenseKey       string   `yaml:"license_key"`
	AllowedOrigins   []string `yaml:"allowed_origins"`
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars substitutes ${VAR} references in file content with the
// process environment, so config files can reference secrets without
// embedding them.
func expandEnvVars(content []byte) []byte {
	return envVarPattern.ReplaceAllFunc(content, func(match []byte) []byte {
		name := envVarPattern.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(name)))
	})
}

// LoadConfig builds the host configuration from the optional
// WEBAPP_CONFIG file plus environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServiceName: "webapp",
		Port:        "8080",
		WebRoot:     "wwwroot",
	}

	if path := os.Getenv("WEBAPP_CONFIG"); path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(expandEnvVars(content), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.ServiceName = getEnv("WEBAPP_NAME", cfg.ServiceName)
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DataDir = getEnv("DATA_DIR", cfg.DataDir)
	cfg.WebRoot = getEnv("WEB_ROOT", cfg.WebRoot)
	cfg.Dialect = getEnv("DB_DIALECT", cfg.Dialect)
	cfg.ConnectionString = getEnv("DB_CONNECTIONSTRING", cfg.ConnectionString)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.LicenseKey = getEnv("LICENSE_KEY", cfg.LicenseKey)

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	}

	if cfg.DataDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		cfg.DataDir = filepath.Join(wd, "App_Data")
	}

	return cfg, nil
}

// getEnv returns the environment variable value or a fallback.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
