// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loreweave Contributors

package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/loreweave/loreweave/internal/config"
	"github.com/loreweave/loreweave/internal/server"
	lwerr "github.com/loreweave/loreweave/pkg/errors"
)

func newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the loreweave server",
		Long:  "Load configuration, connect the knowledge backend, and start the HTTP server.",
		RunE:  runStart,
	}

	cmd.Flags().String("listen", "", "override listen address (host:port)")
	cmd.Flags().Bool("stub", false, "force the deterministic stub engine")

	return cmd
}

func runStart(cmd *cobra.Command, _ []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		cfg.Server.Listen = listen
	}
	if stub, _ := cmd.Flags().GetBool("stub"); stub {
		cfg.Engine.ForceStub = true
	}

	log := newLogger(cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, collector, err := buildService(ctx, cfg, log)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		ListenAddr:  cfg.Server.Listen,
		CORSOrigins: cfg.Server.CORSOrigins,
	}, svc, collector, log)
	if err != nil {
		return lwerr.Wrap(err, lwerr.CodeServerStartFailure, "building server")
	}

	log.Info("loreweave starting",
		"listen", cfg.Server.Listen,
		"data_dir", cfg.DataDir,
		"graph", cfg.Graph.Name,
		"using_stub", svc.UsingStub())

	if err := srv.Start(ctx); err != nil {
		return lwerr.Wrap(err, lwerr.CodeServerStartFailure, "running server")
	}

	log.Info("loreweave stopped")
	return nil
}
