// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loreweave Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loreweave/loreweave/internal/config"
	"github.com/loreweave/loreweave/internal/knowledge"
	lwerr "github.com/loreweave/loreweave/pkg/errors"
)

func newOntologyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ontology",
		Short: "Manage the knowledge graph ontology",
	}

	cmd.AddCommand(newOntologyBuildCmd())

	return cmd
}

func newOntologyBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the ontology from the collected documents",
		Long:  "Collect documents from the data directories, derive an ontology with the extraction model, and write it to the configured ontology path.",
		RunE:  runOntologyBuild,
	}

	cmd.Flags().String("output", "", "override the ontology output path")

	return cmd
}

func runOntologyBuild(cmd *cobra.Command, _ []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	outPath := cfg.Graph.OntologyPath
	if flagPath, _ := cmd.Flags().GetString("output"); flagPath != "" {
		outPath = flagPath
	}

	log := newLogger(cmd)
	ctx := cmd.Context()

	collector, err := ingestCollector(cfg, log)
	if err != nil {
		return err
	}

	docs, err := collector.CollectDocuments(ctx)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return lwerr.Errorf(lwerr.CodeIngestNoDocumentsFound,
			"no documents found under %s", cfg.DataDir)
	}

	sources := make([]knowledge.Source, 0, len(docs))
	for _, doc := range docs {
		sources = append(sources, knowledge.Source{
			Text:        doc.Content,
			Instruction: "Source: " + doc.Name,
		})
	}

	log.Info("building ontology", "documents", len(sources), "model", cfg.Models.Extraction)

	ont, err := knowledge.BuildOntology(ctx, knowledgeConfig(cfg), sources)
	if err != nil {
		return err
	}

	if err := ont.Save(outPath); err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "ontology written to %s\n", outPath)
	return err
}
