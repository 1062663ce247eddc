// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loreweave Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loreweave/loreweave/internal/config"
	lwerr "github.com/loreweave/loreweave/pkg/errors"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8321", cfg.Server.Listen)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "loreweave", cfg.Graph.Name)
	assert.Equal(t, "127.0.0.1", cfg.Graph.Host)
	assert.Equal(t, 6379, cfg.Graph.Port)
	assert.Equal(t, "gpt-4.1", cfg.Models.Extraction)
	assert.Equal(t, "llama3.1:8b", cfg.Models.Answer)
	assert.Equal(t, "http://localhost:11434", cfg.Models.AnswerBaseURL)
	assert.True(t, cfg.Engine.AutoRefreshOntology)
	assert.False(t, cfg.Engine.ForceStub)
	assert.Equal(t, filepath.Join("data", "ontology", "ontology.json"), cfg.Graph.OntologyPath)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loreweave.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  listen: "0.0.0.0:9000"
data_dir: /var/lib/loreweave
graph:
  name: library
  port: 6380
engine:
  force_stub: true
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Listen)
	assert.Equal(t, "/var/lib/loreweave", cfg.DataDir)
	assert.Equal(t, "library", cfg.Graph.Name)
	assert.Equal(t, 6380, cfg.Graph.Port)
	assert.True(t, cfg.Engine.ForceStub)
	assert.Equal(t, filepath.Join("/var/lib/loreweave", "ontology", "ontology.json"), cfg.Graph.OntologyPath)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOREWEAVE_GRAPH_HOST", "falkor.internal")
	t.Setenv("LOREWEAVE_MODELS_ANSWER", "mistral:7b")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "falkor.internal", cfg.Graph.Host)
	assert.Equal(t, "mistral:7b", cfg.Models.Answer)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, lwerr.HasCode(err, lwerr.CodeConfigLoadReadFailure))
}

func TestLoad_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loreweave.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  listen: "not-an-address"
graph:
  port: 99999
`), 0o644))

	_, err := config.Load(path)
	require.Error(t, err)
	assert.True(t, lwerr.HasCode(err, lwerr.CodeConfigValidateInvalidValue))
	assert.Contains(t, err.Error(), "server.listen")
	assert.Contains(t, err.Error(), "graph.port")
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &config.Config{}
	errs := cfg.Validate()
	assert.GreaterOrEqual(t, len(errs), 4)
}
