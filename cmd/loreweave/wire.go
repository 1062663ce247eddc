// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loreweave Contributors

package main

import (
	"context"
	"log/slog"

	"github.com/loreweave/loreweave/internal/config"
	"github.com/loreweave/loreweave/internal/engine/graph"
	"github.com/loreweave/loreweave/internal/engine/service"
	"github.com/loreweave/loreweave/internal/ingest"
	"github.com/loreweave/loreweave/internal/knowledge"
)

func knowledgeConfig(cfg *config.Config) knowledge.Config {
	return knowledge.Config{
		GraphName:       cfg.Graph.Name,
		Host:            cfg.Graph.Host,
		Port:            cfg.Graph.Port,
		Username:        cfg.Graph.Username,
		Password:        cfg.Graph.Password,
		ExtractionModel: cfg.Models.Extraction,
		QueryModel:      cfg.Models.Query,
		AnswerModel:     cfg.Models.Answer,
		AnswerBaseURL:   cfg.Models.AnswerBaseURL,
	}
}

func serviceConfig(cfg *config.Config) service.Config {
	return service.Config{
		ForceStub: cfg.Engine.ForceStub,
		Graph: graph.Config{
			OntologyPath:        cfg.Graph.OntologyPath,
			AutoRefreshOntology: cfg.Engine.AutoRefreshOntology,
			ResetBeforeIngest:   cfg.Engine.ResetBeforeIngest,
			Knowledge:           knowledgeConfig(cfg),
		},
	}
}

func ingestCollector(cfg *config.Config, log *slog.Logger) (*ingest.Collector, error) {
	return ingest.New(cfg.DataDir, log)
}

// buildService constructs the chat service with the FalkorDB backend
// factory and the document collector for the configured data dir.
func buildService(ctx context.Context, cfg *config.Config, log *slog.Logger) (*service.Service, *ingest.Collector, error) {
	collector, err := ingestCollector(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	svc, err := service.New(ctx, serviceConfig(cfg), knowledge.Connect, log)
	if err != nil {
		return nil, nil, err
	}

	return svc, collector, nil
}
