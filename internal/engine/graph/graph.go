// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loreweave Contributors

// Package graph implements the chat engine contract on top of the
// knowledge-graph capability. Unlike the stub engine, each successful
// ingest call replaces the in-memory corpus wholesale with that call's
// documents, mirroring the backend's graph state.
package graph

import (
	"context"
	"log/slog"
	"sync"

	"github.com/loreweave/loreweave/internal/engine"
	"github.com/loreweave/loreweave/internal/knowledge"
	lwerr "github.com/loreweave/loreweave/pkg/errors"
)

// Config controls the graph engine's backend and ingest policy.
type Config struct {
	OntologyPath string
	// AutoRefreshOntology rebuilds the ontology from each ingest batch.
	// When false, a previously built or persisted ontology is reused
	// and only a missing ontology forces a build.
	AutoRefreshOntology bool
	// ResetBeforeIngest clears all backend state before each ingest.
	ResetBeforeIngest bool

	Knowledge knowledge.Config
}

// Engine delegates the chat engine contract to a knowledge.Client.
type Engine struct {
	cfg     Config
	factory knowledge.Factory
	log     *slog.Logger

	mu       sync.Mutex
	client   knowledge.Client
	session  knowledge.ChatSession
	ontology *knowledge.Ontology
	docs     []engine.Document
	history  []engine.Turn
}

// New initializes the backend: model bindings and store connection via
// the factory, with any persisted ontology loaded from disk first. A
// missing, empty, or corrupt ontology file is "no ontology yet": a
// warning, never a failure. Construction failures surface as
// configuration errors for the facade to classify.
func New(ctx context.Context, cfg Config, factory knowledge.Factory, log *slog.Logger) (*Engine, error) {
	if log == nil {
		log = slog.Default()
	}
	e := &Engine{
		cfg:     cfg,
		factory: factory,
		log:     log.With("component", "graph-engine"),
	}
	if err := e.initBackend(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) initBackend(ctx context.Context) error {
	if e.factory == nil {
		return lwerr.New(lwerr.CodeGraphBackendUnavailable, "knowledge backend is not available")
	}

	ont, err := knowledge.LoadOntology(e.cfg.OntologyPath)
	if err != nil {
		e.log.Warn("failed to load ontology, starting without one",
			"path", e.cfg.OntologyPath, "error", err)
		ont = nil
	}

	client, err := e.factory(ctx, e.cfg.Knowledge, ont)
	if err != nil {
		return err
	}

	if e.client != nil {
		_ = e.client.Close()
	}
	e.client = client
	e.ontology = ont
	e.session = nil
	e.docs = nil
	e.history = nil
	return nil
}

// Ingest processes the batch into the graph. An empty batch is a no-op
// with a well-formed zero summary. On success the in-memory corpus is
// exactly this call's documents and a fresh chat session is bound to
// the updated graph.
func (e *Engine) Ingest(ctx context.Context, docs []engine.Document) (engine.IngestSummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client == nil {
		return engine.IngestSummary{}, lwerr.New(lwerr.CodeGraphBackendUnavailable, "knowledge graph backend is not available")
	}

	if len(docs) == 0 {
		return engine.IngestSummary{
			TotalDocuments: len(e.docs),
			DocumentNames:  []string{},
			GraphName:      e.cfg.Knowledge.GraphName,
			OntologyPath:   e.cfg.OntologyPath,
		}, nil
	}

	if e.cfg.ResetBeforeIngest {
		if err := e.resetLocked(ctx); err != nil {
			return engine.IngestSummary{}, err
		}
	}

	sources := make([]knowledge.Source, 0, len(docs))
	for _, doc := range docs {
		sources = append(sources, knowledge.Source{
			Text:        doc.Content,
			Instruction: "Source: " + doc.Name,
		})
	}

	refreshed := false
	if e.cfg.AutoRefreshOntology || e.ontology == nil {
		ont, err := e.client.BuildOntology(ctx, sources)
		if err != nil {
			return engine.IngestSummary{}, err
		}
		if err := ont.Save(e.cfg.OntologyPath); err != nil {
			return engine.IngestSummary{}, err
		}
		e.ontology = ont
		e.client.SetOntology(ont)
		refreshed = true
	}

	if err := e.client.ProcessSources(ctx, sources); err != nil {
		return engine.IngestSummary{}, err
	}

	e.docs = make([]engine.Document, 0, len(docs))
	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		e.docs = append(e.docs, doc.Clone())
		names = append(names, doc.Name)
	}
	e.session = e.client.ChatSession()

	return engine.IngestSummary{
		DocumentsIngested: len(docs),
		TotalDocuments:    len(e.docs),
		DocumentNames:     names,
		GraphName:         e.cfg.Knowledge.GraphName,
		OntologyPath:      e.cfg.OntologyPath,
		OntologyRefreshed: refreshed,
	}, nil
}

// Documents returns a snapshot of the corpus defined by the last
// successful ingest.
func (e *Engine) Documents(_ context.Context) ([]engine.Document, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]engine.Document, 0, len(e.docs))
	for _, doc := range e.docs {
		out = append(out, doc.Clone())
	}
	return out, nil
}

// StreamChat bridges the session's blocking fragment producer into a
// channel. It requires an active session from a prior successful
// non-empty ingest; without one this is a configuration error.
func (e *Engine) StreamChat(ctx context.Context, prompt string) (<-chan engine.Fragment, error) {
	e.mu.Lock()
	session := e.session
	if session != nil {
		e.history = append(e.history, engine.Turn{Role: engine.RoleUser, Content: prompt})
	}
	e.mu.Unlock()

	if session == nil {
		return nil, lwerr.New(lwerr.CodeEngineSessionMissing, "no active chat session, ingest documents first")
	}

	return e.bridgeStream(ctx, session, prompt), nil
}

// Reset deletes the backend's persisted graph (best effort: a delete
// failure is logged and swallowed) and fully reinitializes the
// backend, clearing the corpus and discarding the chat session.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resetLocked(ctx)
}

func (e *Engine) resetLocked(ctx context.Context) error {
	if e.client != nil {
		if err := e.client.Delete(ctx); err != nil {
			e.log.Warn("failed to delete knowledge graph", "error", err)
		}
	}
	return e.initBackend(ctx)
}
