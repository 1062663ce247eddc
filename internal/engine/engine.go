// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loreweave Contributors

// Package engine defines the chat engine contract shared by the
// deterministic stub backend and the knowledge-graph backend, plus the
// service facade that selects between them.
package engine

import (
	"context"
)

// Document is a named unit of text with provenance metadata. Name is
// the unique key within one engine's document store.
type Document struct {
	Name     string            `json:"name"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Clone returns an independent copy of the document.
func (d Document) Clone() Document {
	out := Document{Name: d.Name, Content: d.Content}
	if d.Metadata != nil {
		out.Metadata = make(map[string]string, len(d.Metadata))
		for k, v := range d.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// IngestSummary reports the outcome of one Ingest call.
// DocumentsIngested counts insertions in this call, not net uniqueness.
type IngestSummary struct {
	DocumentsIngested int      `json:"documents_ingested"`
	TotalDocuments    int      `json:"total_documents"`
	DocumentNames     []string `json:"document_names"`
	UsingStub         bool     `json:"using_stub"`
	GraphName         string   `json:"graph_name,omitempty"`
	OntologyPath      string   `json:"ontology_path,omitempty"`
	OntologyRefreshed bool     `json:"ontology_refreshed"`
}

// Fragment is one unit of streamed answer text. A terminal producer
// failure is delivered as a final fragment with Err set, after every
// successfully produced text fragment.
type Fragment struct {
	Text string
	Err  error
}

// Engine is the chat engine contract. StreamChat returns a finite FIFO
// stream of fragments; the channel is closed when the answer is
// complete. Implementations append the prompt to their session log
// before the first fragment is emitted and the assistant answer once
// it is known.
type Engine interface {
	Ingest(ctx context.Context, docs []Document) (IngestSummary, error)
	Documents(ctx context.Context) ([]Document, error)
	StreamChat(ctx context.Context, prompt string) (<-chan Fragment, error)
	Reset(ctx context.Context) error
}

// Turn is one entry in an engine's append-only session log.
type Turn struct {
	Role    string
	Content string
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
