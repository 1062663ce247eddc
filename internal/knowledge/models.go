// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loreweave Contributors

package knowledge

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	lwerr "github.com/loreweave/loreweave/pkg/errors"
)

const ontologyPrompt = "You derive graph schemas from documents. " +
	"Given the source texts, output a single JSON object with two arrays, " +
	"\"entities\" and \"relations\", describing the entity types (with " +
	"attribute names) and relation types (with source and target entity " +
	"types) present in the texts. Output only the JSON object."

// modelSet binds the three generative models the backend needs. Each
// binding can fail independently with a model configuration error,
// which callers must keep distinguishable from store connectivity
// failures.
type modelSet struct {
	extraction llms.Model
	query      llms.Model
	answer     llms.Model
}

func newModelSet(cfg Config) (*modelSet, error) {
	extraction, err := newExtractionModel(cfg)
	if err != nil {
		return nil, err
	}

	queryName := cfg.QueryModel
	if queryName == "" {
		queryName = cfg.ExtractionModel
	}
	query, err := openai.New(openai.WithModel(queryName))
	if err != nil {
		return nil, lwerr.Wrap(err, lwerr.CodeGraphModelInvalid, "initializing query model",
			lwerr.FieldModel(queryName))
	}

	answer, err := ollama.New(
		ollama.WithModel(cfg.AnswerModel),
		ollama.WithServerURL(cfg.AnswerBaseURL),
	)
	if err != nil {
		return nil, lwerr.Wrap(err, lwerr.CodeGraphModelInvalid, "initializing answer model",
			lwerr.FieldModel(cfg.AnswerModel))
	}

	return &modelSet{extraction: extraction, query: query, answer: answer}, nil
}

func newExtractionModel(cfg Config) (llms.Model, error) {
	if cfg.ExtractionModel == "" {
		return nil, lwerr.New(lwerr.CodeGraphModelInvalid, "extraction model is not configured")
	}
	model, err := openai.New(openai.WithModel(cfg.ExtractionModel))
	if err != nil {
		return nil, lwerr.Wrap(err, lwerr.CodeGraphModelInvalid, "initializing extraction model",
			lwerr.FieldModel(cfg.ExtractionModel))
	}
	return model, nil
}

// BuildOntology derives an ontology from the sources using only the
// extraction model. It backs both the connected client's BuildOntology
// and the standalone ontology CLI, which has no graph store to connect
// to.
func BuildOntology(ctx context.Context, cfg Config, sources []Source) (*Ontology, error) {
	model, err := newExtractionModel(cfg)
	if err != nil {
		return nil, err
	}
	return buildOntology(ctx, model, sources)
}

func buildOntology(ctx context.Context, model llms.Model, sources []Source) (*Ontology, error) {
	var corpus strings.Builder
	for _, src := range sources {
		corpus.WriteString(src.Instruction)
		corpus.WriteString("\n")
		corpus.WriteString(src.Text)
		corpus.WriteString("\n\n")
	}

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, ontologyPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, corpus.String()),
	}

	resp, err := model.GenerateContent(ctx, content, llms.WithJSONMode())
	if err != nil {
		return nil, lwerr.Wrap(err, lwerr.CodeGraphOntologyBuildFailure, "extracting ontology")
	}
	if len(resp.Choices) == 0 {
		return nil, lwerr.New(lwerr.CodeGraphOntologyBuildFailure, "extraction model returned no choices")
	}

	raw := extractJSON(resp.Choices[0].Content)
	if raw == nil {
		return nil, lwerr.New(lwerr.CodeGraphOntologyBuildFailure, "extraction model output is not valid JSON")
	}
	return &Ontology{Raw: raw}, nil
}

// extractJSON returns the first valid JSON object in text, tolerating
// surrounding prose and code fences.
func extractJSON(text string) json.RawMessage {
	trimmed := strings.TrimSpace(text)
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		candidate := trimmed[start : end+1]
		if json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate)
		}
	}
	return nil
}
