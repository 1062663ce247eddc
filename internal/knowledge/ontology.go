// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loreweave Contributors

package knowledge

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	lwerr "github.com/loreweave/loreweave/pkg/errors"
)

// Ontology is the persisted schema describing entity and relation
// types extracted from source documents. The payload is opaque: it is
// carried as raw JSON so build, serialize, deserialize, and
// rebuild-graph round-trip without loss.
type Ontology struct {
	Raw json.RawMessage
}

// Save writes the ontology as an indented JSON document at path,
// creating parent directories as needed.
func (o *Ontology) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return lwerr.Wrap(err, lwerr.CodeGraphOntologyBuildFailure, "creating ontology directory")
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, o.Raw, "", "  "); err != nil {
		return lwerr.Wrap(err, lwerr.CodeGraphOntologyBuildFailure, "encoding ontology")
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return lwerr.Wrap(err, lwerr.CodeGraphOntologyBuildFailure, "writing ontology", lwerr.Field("path", path))
	}
	return nil
}

// LoadOntology reads a previously persisted ontology. A missing or
// empty file is "no ontology yet" and returns (nil, nil). A file that
// cannot be parsed returns an error the caller is expected to treat as
// a warning, not a failure.
func LoadOntology(path string) (*Ontology, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, lwerr.Wrap(err, lwerr.CodeGraphOntologyLoadCorrupt, "reading ontology", lwerr.Field("path", path))
	}

	if strings.TrimSpace(string(raw)) == "" {
		return nil, nil
	}

	if !json.Valid(raw) {
		return nil, lwerr.New(lwerr.CodeGraphOntologyLoadCorrupt, "ontology is not valid JSON", lwerr.Field("path", path))
	}

	return &Ontology{Raw: json.RawMessage(raw)}, nil
}
