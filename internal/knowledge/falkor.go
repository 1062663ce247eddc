// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loreweave Contributors

package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/tmc/langchaingo/llms"

	lwerr "github.com/loreweave/loreweave/pkg/errors"
)

const answerPrompt = "You answer questions using the provided knowledge " +
	"graph context. If the context is insufficient, say so plainly."

const queryPrompt = "Write a single read-only Cypher query over a graph of " +
	"(:Source {name, text}) nodes that retrieves text relevant to the " +
	"question below. Output only the query.\n\nQuestion: %s"

// falkorClient talks to a FalkorDB graph store over its Redis protocol
// and drives extraction and answering through the bound models.
type falkorClient struct {
	cfg    Config
	rdb    *redis.Client
	models *modelSet
	ont    *Ontology
	log    *slog.Logger
}

// Connect builds the model bindings and opens a connection to the
// graph store. Model binding failures carry graph.model.config_invalid;
// an unreachable store carries graph.store.connect_failure with the
// target address, so callers can tell the two apart.
func Connect(ctx context.Context, cfg Config, ont *Ontology) (Client, error) {
	models, err := newModelSet(cfg)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, lwerr.Wrap(err, lwerr.CodeGraphStoreConnectFailure, "connecting to graph store",
			lwerr.FieldAddr(cfg.Addr()), lwerr.FieldGraph(cfg.GraphName))
	}

	return &falkorClient{
		cfg:    cfg,
		rdb:    rdb,
		models: models,
		ont:    ont,
		log:    slog.Default().With("component", "knowledge"),
	}, nil
}

var _ Factory = Connect

func (c *falkorClient) BuildOntology(ctx context.Context, sources []Source) (*Ontology, error) {
	return buildOntology(ctx, c.models.extraction, sources)
}

func (c *falkorClient) SetOntology(ont *Ontology) {
	c.ont = ont
}

// ProcessSources extracts each source into the graph as a labeled node
// keyed by its instruction, so re-processing the same source is
// idempotent.
func (c *falkorClient) ProcessSources(ctx context.Context, sources []Source) error {
	for _, src := range sources {
		query := fmt.Sprintf("MERGE (s:Source {name: %s}) SET s.text = %s",
			quoteCypher(src.Instruction), quoteCypher(src.Text))
		if err := c.rdb.Do(ctx, "GRAPH.QUERY", c.cfg.GraphName, query).Err(); err != nil {
			return lwerr.Wrap(err, lwerr.CodeGraphSourcesProcessFailure, "processing source into graph",
				lwerr.FieldGraph(c.cfg.GraphName))
		}
	}
	return nil
}

func (c *falkorClient) ChatSession() ChatSession {
	return &falkorSession{client: c}
}

func (c *falkorClient) Delete(ctx context.Context) error {
	if err := c.rdb.Do(ctx, "GRAPH.DELETE", c.cfg.GraphName).Err(); err != nil {
		return lwerr.Wrap(err, lwerr.CodeGraphStoreDeleteFailure, "deleting graph",
			lwerr.FieldGraph(c.cfg.GraphName))
	}
	return nil
}

func (c *falkorClient) Close() error {
	return c.rdb.Close()
}

// falkorSession answers prompts from the graph: the query model writes
// a retrieval query, the store executes it, and the answer model
// streams the final response over the retrieved context.
type falkorSession struct {
	client *falkorClient
}

// SendMessageStream blocks until the answer model finishes, invoking
// emit once per fragment. An emit error ends generation early.
func (s *falkorSession) SendMessageStream(ctx context.Context, prompt string, emit func(string) error) error {
	graphContext := s.retrieveContext(ctx, prompt)

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, answerPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, "Context:\n"+graphContext),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	_, err := s.client.models.answer.GenerateContent(ctx, content,
		llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
			return emit(string(chunk))
		}))
	return err
}

// retrieveContext is best effort: a failed query generation or graph
// read degrades to an empty context rather than failing the chat.
func (s *falkorSession) retrieveContext(ctx context.Context, prompt string) string {
	query, err := llms.GenerateFromSinglePrompt(ctx, s.client.models.query,
		fmt.Sprintf(queryPrompt, prompt))
	if err != nil {
		s.client.log.Warn("query generation failed", "error", err)
		return ""
	}

	query = strings.TrimSpace(strings.Trim(strings.TrimSpace(query), "`"))
	result, err := s.client.rdb.Do(ctx, "GRAPH.RO_QUERY", s.client.cfg.GraphName, query).Result()
	if err != nil {
		s.client.log.Warn("graph retrieval failed", "error", err, "query", query)
		return ""
	}
	return fmt.Sprintf("%v", result)
}

// quoteCypher renders s as a single-quoted Cypher string literal.
func quoteCypher(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + replacer.Replace(s) + "'"
}
