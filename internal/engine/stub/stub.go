// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loreweave Contributors

// Package stub implements the chat engine contract entirely in memory.
// It is the no-failure reference backend: always available, no external
// dependencies, deterministic answers rendered from a lexical ranking
// of the ingested documents.
package stub

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/loreweave/loreweave/internal/engine"
)

const emptyStoreAnswer = "No knowledge available yet. Please ingest documents and try again."

// Engine is the deterministic in-memory chat engine.
type Engine struct {
	mu      sync.Mutex
	docs    []engine.Document // insertion order
	byName  map[string]int    // name -> index into docs
	history []engine.Turn
}

// New creates an empty stub engine.
func New() *Engine {
	return &Engine{byName: make(map[string]int)}
}

// Ingest inserts or overwrites each document by name. Overwriting keeps
// the document's original position so ranking ties still favor the
// first-ingested entry. The summary counts insertions in this call and
// the distinct documents now stored. Never fails; an empty batch is a
// no-op that still yields a summary.
func (e *Engine) Ingest(_ context.Context, docs []engine.Document) (engine.IngestSummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	added := 0
	for _, doc := range docs {
		if idx, ok := e.byName[doc.Name]; ok {
			e.docs[idx] = doc.Clone()
		} else {
			e.byName[doc.Name] = len(e.docs)
			e.docs = append(e.docs, doc.Clone())
		}
		added++
	}

	return engine.IngestSummary{
		DocumentsIngested: added,
		TotalDocuments:    len(e.docs),
	}, nil
}

// Documents returns an independent snapshot of the store in insertion
// order.
func (e *Engine) Documents(_ context.Context) ([]engine.Document, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot(), nil
}

// StreamChat renders a deterministic answer for the prompt and emits it
// as whitespace-delimited fragments, each a word followed by one space.
// The prompt and the full rendered answer are appended to the session
// log before the first fragment is emitted, so every call is an
// independent sequence with the side effect applied exactly once.
func (e *Engine) StreamChat(ctx context.Context, prompt string) (<-chan engine.Fragment, error) {
	e.mu.Lock()
	e.history = append(e.history, engine.Turn{Role: engine.RoleUser, Content: prompt})
	docs := e.snapshot()
	answer := renderAnswer(prompt, docs)
	e.history = append(e.history, engine.Turn{Role: engine.RoleAssistant, Content: answer})
	e.mu.Unlock()

	out := make(chan engine.Fragment)
	go func() {
		defer close(out)
		for _, word := range strings.Fields(answer) {
			select {
			case out <- engine.Fragment{Text: word + " "}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Reset clears the document store and the session log together.
func (e *Engine) Reset(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.docs = nil
	e.byName = make(map[string]int)
	e.history = nil
	return nil
}

// History returns a copy of the session log.
func (e *Engine) History() []engine.Turn {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]engine.Turn, len(e.history))
	copy(out, e.history)
	return out
}

func (e *Engine) snapshot() []engine.Document {
	out := make([]engine.Document, 0, len(e.docs))
	for _, doc := range e.docs {
		out = append(out, doc.Clone())
	}
	return out
}

// renderAnswer produces the deterministic answer text for a prompt
// against a document snapshot.
func renderAnswer(prompt string, docs []engine.Document) string {
	if len(docs) == 0 {
		return emptyStoreAnswer
	}

	ranked := Rank(prompt, docs)
	if len(ranked) == 0 {
		names := make([]string, 0, len(docs))
		for _, doc := range docs {
			names = append(names, doc.Name)
		}
		return fmt.Sprintf("No direct match found for '%s'. Available documents: %s.",
			prompt, strings.Join(names, ", "))
	}

	summaries := make([]string, 0, len(ranked))
	for _, r := range ranked {
		summaries = append(summaries, fmt.Sprintf("%s (score %d): %s",
			r.Document.Name, r.Score, excerpt(r.Document.Content)))
	}
	return fmt.Sprintf("Prompt: %s\nTop sources: %s", prompt, strings.Join(summaries, " | "))
}

// excerpt joins the first up-to-two non-empty lines of the stripped
// content with " / ".
func excerpt(content string) string {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) > 2 {
		lines = lines[:2]
	}
	var parts []string
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " / ")
}
