// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loreweave Contributors

// Package knowledge is the narrow surface of the external
// knowledge-graph/LLM capability the graph chat engine delegates to:
// raw-text sources, an ontology that round-trips through a JSON file,
// a connected graph client, and a blocking streaming chat session.
// Everything here is a fallible black box to its callers.
package knowledge

import (
	"context"
	"net"
	"strconv"
)

// Config carries the connection and model parameters for one graph
// backend instance.
type Config struct {
	GraphName string
	Host      string
	Port      int
	Username  string
	Password  string

	// ExtractionModel drives ontology building and source extraction.
	ExtractionModel string
	// QueryModel generates graph queries. Empty means use the
	// extraction model's identifier.
	QueryModel string
	// AnswerModel generates the final streamed answers.
	AnswerModel   string
	AnswerBaseURL string
}

// Addr returns the graph store's host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Source is an opaque handle to raw text registered for extraction.
// Instruction labels the text's provenance for the models.
type Source struct {
	Text        string
	Instruction string
}

// Client is a connected knowledge-graph backend. Implementations own a
// live store connection and the model bindings.
type Client interface {
	// BuildOntology derives a fresh ontology from the sources using the
	// extraction model.
	BuildOntology(ctx context.Context, sources []Source) (*Ontology, error)
	// SetOntology replaces the ontology used for graph construction.
	SetOntology(ont *Ontology)
	// ProcessSources extracts the sources into the graph.
	ProcessSources(ctx context.Context, sources []Source) error
	// ChatSession returns a session bound to the graph's current state.
	ChatSession() ChatSession
	// Delete removes the backend's persisted graph.
	Delete(ctx context.Context) error
	Close() error
}

// ChatSession supports streaming question answering. SendMessageStream
// blocks until the answer is exhausted, invoking emit once per
// fragment in production order. A non-nil emit error ends the stream
// early and is returned.
type ChatSession interface {
	SendMessageStream(ctx context.Context, prompt string, emit func(fragment string) error) error
}

// Factory constructs a connected Client with the given ontology (nil
// means none yet). A nil Factory signals that the capability is
// unavailable in this environment.
type Factory func(ctx context.Context, cfg Config, ont *Ontology) (Client, error)
