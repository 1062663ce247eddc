// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loreweave Contributors

package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/loreweave/loreweave/internal/config"
	lwerr "github.com/loreweave/loreweave/pkg/errors"
)

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Collect documents from the data directories and ingest them",
		Long:  "One-shot ingest: collect PDF, text, and URL manifest documents from the data directories, push them into the knowledge backend, and print the summary as JSON.",
		RunE:  runIngest,
	}

	cmd.Flags().Bool("stub", false, "force the deterministic stub engine")

	return cmd
}

func runIngest(cmd *cobra.Command, _ []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if stub, _ := cmd.Flags().GetBool("stub"); stub {
		cfg.Engine.ForceStub = true
	}

	log := newLogger(cmd)
	ctx := cmd.Context()

	svc, collector, err := buildService(ctx, cfg, log)
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

	summary, err := svc.Ingest(ctx, docs)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
