// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loreweave Contributors

// Package service wires the two chat engine backends behind one
// contract. The mode is resolved once per construction or reset: the
// graph backend when it is available and initializes cleanly, the
// deterministic stub otherwise. Degrading to the stub is policy, not
// an error; it is logged and absorbed. Once the graph mode is active,
// its configuration errors propagate to callers unmodified.
package service

import (
	"context"
	"log/slog"

	"github.com/loreweave/loreweave/internal/engine"
	"github.com/loreweave/loreweave/internal/engine/graph"
	"github.com/loreweave/loreweave/internal/engine/stub"
	"github.com/loreweave/loreweave/internal/knowledge"
	lwerr "github.com/loreweave/loreweave/pkg/errors"
)

// Config controls backend selection.
type Config struct {
	// ForceStub skips the graph backend entirely.
	ForceStub bool
	Graph     graph.Config
}

// Service is the chat service facade. It implements engine.Engine.
type Service struct {
	cfg       Config
	active    engine.Engine
	usingStub bool
	log       *slog.Logger
}

var _ engine.Engine = (*Service)(nil)

// New resolves the mode and constructs the active engine. A nil
// factory means the knowledge capability is unavailable in this
// environment; like a configuration error during graph initialization,
// it selects the stub with a warning rather than failing.
func New(ctx context.Context, cfg Config, factory knowledge.Factory, log *slog.Logger) (*Service, error) {
	if log == nil {
		log = slog.Default()
	}
	s := &Service{cfg: cfg, log: log.With("component", "chat-service")}

	s.usingStub = cfg.ForceStub
	if !s.usingStub && factory == nil {
		s.log.Warn("knowledge backend not available, using stub engine")
		s.usingStub = true
	}

	if !s.usingStub {
		graphEngine, err := graph.New(ctx, cfg.Graph, factory, log)
		switch {
		case err == nil:
			s.active = graphEngine
		case lwerr.IsConfiguration(err):
			s.log.Warn("graph engine initialization failed, falling back to stub engine", "error", err)
			s.usingStub = true
		default:
			return nil, err
		}
	}

	if s.usingStub {
		s.active = stub.New()
	}
	return s, nil
}

// UsingStub reports which backend answered construction.
func (s *Service) UsingStub() bool {
	return s.usingStub
}

// Ingest forwards to the active engine and augments the summary with
// mode-identifying fields so callers can tell which engine answered.
func (s *Service) Ingest(ctx context.Context, docs []engine.Document) (engine.IngestSummary, error) {
	summary, err := s.active.Ingest(ctx, docs)
	if err != nil {
		return summary, err
	}

	summary.UsingStub = s.usingStub
	if s.usingStub {
		names := make([]string, 0, len(docs))
		for _, doc := range docs {
			names = append(names, doc.Name)
		}
		summary.DocumentNames = names
	}
	return summary, nil
}

func (s *Service) Documents(ctx context.Context) ([]engine.Document, error) {
	return s.active.Documents(ctx)
}

func (s *Service) StreamChat(ctx context.Context, prompt string) (<-chan engine.Fragment, error) {
	return s.active.StreamChat(ctx, prompt)
}

func (s *Service) Reset(ctx context.Context) error {
	return s.active.Reset(ctx)
}
