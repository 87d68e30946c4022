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
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvisionEnvFallback(t *testing.T) {
	dataDir := t.TempDir()
	p := NewProvisioner(dataDir, testLogger())

	prov, err := p.ProvisionAtStartup(context.Background(), "sqlite", "~data/app.db")
	require.NoError(t, err)
	require.NotNil(t, prov.Default)
	assert.Equal(t, KindSQLite, prov.Default.Kind())
	assert.Equal(t,
		filepath.ToSlash(filepath.Join(dataDir, "app.db")),
		filepath.ToSlash(prov.Default.DSN()))
	assert.Equal(t, 0, prov.Named.Count())

	// The environment fallback must never be auto-persisted.
	_, statErr := os.Stat(filepath.Join(dataDir, ConfigFileName))
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestProvisionPersistedWinsOverEnv(t *testing.T) {
	dataDir := t.TempDir()
	store := NewConfigStore(dataDir, testLogger())
	require.NoError(t, store.Save(&Config{
		Definition: Definition{Dialect: "sqlite", ConnectionString: "~data/persisted.db"},
	}))

	p := NewProvisioner(dataDir, testLogger())
	prov, err := p.ProvisionAtStartup(context.Background(), "sqlite", "~data/env.db")
	require.NoError(t, err)
	require.NotNil(t, prov.Default)
	assert.Contains(t, prov.Default.DSN(), "persisted.db")
}

func TestProvisionNoConfiguration(t *testing.T) {
	p := NewProvisioner(t.TempDir(), testLogger())

	prov, err := p.ProvisionAtStartup(context.Background(), "", "")
	require.NoError(t, err)
	assert.Nil(t, prov.Default)
	assert.Equal(t, 0, prov.Named.Count())
}

func TestProvisionUnresolvableDefaultIsNotFatal(t *testing.T) {
	p := NewProvisioner(t.TempDir(), testLogger())

	prov, err := p.ProvisionAtStartup(context.Background(), "oracle", "some-dsn")
	require.NoError(t, err)
	assert.Nil(t, prov.Default)
}

func TestProvisionCorruptConfigIsFatal(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, ConfigFileName), []byte("{broken"), 0o644))

	p := NewProvisioner(dataDir, testLogger())
	_, err := p.ProvisionAtStartup(context.Background(), "", "")
	assert.True(t, errors.Is(err, ErrConfigCorrupt), "error = %v, want ErrConfigCorrupt", err)
}

func TestProvisionNamedOnly(t *testing.T) {
	dataDir := t.TempDir()
	store := NewConfigStore(dataDir, testLogger())
	require.NoError(t, store.Save(&Config{
		NamedConnections: map[string]Definition{
			"reports": {Dialect: "sqlite", ConnectionString: "~data/reports.db"},
		},
	}))

	p := NewProvisioner(dataDir, testLogger())
	prov, err := p.ProvisionAtStartup(context.Background(), "", "")
	require.NoError(t, err)

	assert.Nil(t, prov.Default)
	assert.Equal(t, []string{"reports"}, prov.Named.Names())
	f, ok := prov.Named.Get("reports")
	require.True(t, ok)
	assert.Equal(t, KindSQLite, f.Kind())
}

func TestProvisionBrokenNamedConnectionIsSkipped(t *testing.T) {
	dataDir := t.TempDir()
	store := NewConfigStore(dataDir, testLogger())
	require.NoError(t, store.Save(&Config{
		Definition: Definition{Dialect: "sqlite", ConnectionString: "~data/app.db"},
		NamedConnections: map[string]Definition{
			"good":   {Dialect: "sqlite", ConnectionString: "~data/good.db"},
			"broken": {Dialect: "oracle", ConnectionString: "bad"},
		},
	}))

	p := NewProvisioner(dataDir, testLogger())
	prov, err := p.ProvisionAtStartup(context.Background(), "", "")
	require.NoError(t, err)

	require.NotNil(t, prov.Default)
	assert.Equal(t, []string{"good"}, prov.Named.Names())
}

func TestSetConnectionValidatesBeforePersist(t *testing.T) {
	dataDir := t.TempDir()
	p := NewProvisioner(dataDir, testLogger())

	err := p.SetConnection(context.Background(), "oracle", "bad-dsn", "")
	assert.True(t, errors.Is(err, ErrInvalidDialect))

	// Nothing was persisted.
	cfg, loadErr := p.Current()
	require.NoError(t, loadErr)
	assert.Nil(t, cfg)
}

func TestSetConnectionFailedProbeLeavesPriorState(t *testing.T) {
	dataDir := t.TempDir()
	p := NewProvisioner(dataDir, testLogger())
	require.NoError(t, p.SetConnection(context.Background(), "sqlite", "~data/app.db", ""))

	err := p.SetConnection(context.Background(), "sqlite", "/nonexistent-dir/sub/app.db", "")
	assert.True(t, errors.Is(err, ErrConnectionFailed), "error = %v, want ErrConnectionFailed", err)

	cfg, loadErr := p.Current()
	require.NoError(t, loadErr)
	require.NotNil(t, cfg)
	assert.Equal(t, "~data/app.db", cfg.ConnectionString)
}

func TestSetConnectionNamed(t *testing.T) {
	p := NewProvisioner(t.TempDir(), testLogger())

	require.NoError(t, p.SetConnection(context.Background(), "sqlite", "~data/reports.db", "reports"))

	cfg, err := p.Current()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Empty(t, cfg.Dialect)
	assert.Equal(t, "~data/reports.db", cfg.NamedConnections["reports"].ConnectionString)
}

func TestRemoveConnection(t *testing.T) {
	dataDir := t.TempDir()
	p := NewProvisioner(dataDir, testLogger())
	require.NoError(t, p.SetConnection(context.Background(), "sqlite", "~data/app.db", ""))

	require.NoError(t, p.RemoveConnection(""))

	cfg, err := p.Current()
	require.NoError(t, err)
	assert.Nil(t, cfg, "clearing the last connection must delete the file")
}

func TestRegistryOverwriteAndLookup(t *testing.T) {
	r := NewRegistry()
	a := &Factory{kind: KindSQLite, dsn: "a.db"}
	b := &Factory{kind: KindSQLite, dsn: "b.db"}

	r.Register("reports", a)
	r.Register("reports", b)

	got, ok := r.Get("reports")
	require.True(t, ok)
	assert.Equal(t, "b.db", got.DSN())
	assert.Equal(t, 1, r.Count())

	_, ok = r.Get("missing")
	assert.False(t, ok)
}
