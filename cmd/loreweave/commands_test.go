// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loreweave Contributors

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	root := NewRootCmd()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}

	assert.Contains(t, names, "start")
	assert.Contains(t, names, "ingest")
	assert.Contains(t, names, "ontology")
	assert.Contains(t, names, "version")
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "loreweave dev")
}

func TestIngestCmd_StubMode(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "txt"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "txt", "a.txt"), []byte("alpha content"), 0o644))

	cfgPath := filepath.Join(t.TempDir(), "loreweave.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("data_dir: "+dataDir+"\n"), 0o644))

	out, err := execute(t, "ingest", "--stub", "-c", cfgPath)
	require.NoError(t, err)

	var summary struct {
		DocumentsIngested int      `json:"documents_ingested"`
		DocumentNames     []string `json:"document_names"`
		UsingStub         bool     `json:"using_stub"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 1, summary.DocumentsIngested)
	assert.Equal(t, []string{"a.txt"}, summary.DocumentNames)
	assert.True(t, summary.UsingStub)
}

func TestIngestCmd_NoDocuments(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "loreweave.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("data_dir: "+t.TempDir()+"\n"), 0o644))

	_, err := execute(t, "ingest", "--stub", "-c", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no documents found")
}

func TestIngestCmd_BadConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "loreweave.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("data_dir: [broken\n"), 0o644))

	_, err := execute(t, "ingest", "--stub", "-c", cfgPath)
	require.Error(t, err)
}
