// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loreweave Contributors

package config

import (
	"errors"
	"net"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	lwerr "github.com/loreweave/loreweave/pkg/errors"
)

// Config is the top-level loreweave configuration. It is resolved once
// per service construction and immutable afterwards; changing backend
// behavior requires re-construction.
type Config struct {
	Server  ServerConfig `mapstructure:"server"`
	DataDir string       `mapstructure:"data_dir"`
	Graph   GraphConfig  `mapstructure:"graph"`
	Models  ModelsConfig `mapstructure:"models"`
	Engine  EngineConfig `mapstructure:"engine"`
}

// ServerConfig controls how loreweave listens for connections.
type ServerConfig struct {
	Listen      string   `mapstructure:"listen"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// GraphConfig identifies the knowledge graph and its store.
type GraphConfig struct {
	Name         string `mapstructure:"name"`
	OntologyPath string `mapstructure:"ontology_path"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
}

// ModelsConfig names the generative models.
type ModelsConfig struct {
	Extraction    string `mapstructure:"extraction"`
	Query         string `mapstructure:"query"`
	Answer        string `mapstructure:"answer"`
	AnswerBaseURL string `mapstructure:"answer_base_url"`
}

// EngineConfig holds the chat engine policy flags.
type EngineConfig struct {
	AutoRefreshOntology bool `mapstructure:"auto_refresh_ontology"`
	ResetBeforeIngest   bool `mapstructure:"reset_before_ingest"`
	ForceStub           bool `mapstructure:"force_stub"`
}

// Load reads configuration from the given path (optional) with
// environment variable overrides (prefix LOREWEAVE_).
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.listen", "127.0.0.1:8321")
	v.SetDefault("data_dir", "data")
	v.SetDefault("graph.name", "loreweave")
	v.SetDefault("graph.host", "127.0.0.1")
	v.SetDefault("graph.port", 6379)
	v.SetDefault("models.extraction", "gpt-4.1")
	v.SetDefault("models.answer", "llama3.1:8b")
	v.SetDefault("models.answer_base_url", "http://localhost:11434")
	v.SetDefault("engine.auto_refresh_ontology", true)
	v.SetDefault("engine.reset_before_ingest", false)
	v.SetDefault("engine.force_stub", false)

	v.SetEnvPrefix("LOREWEAVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, lwerr.Wrapf(err, lwerr.CodeConfigLoadReadFailure, "reading config %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, lwerr.Wrap(err, lwerr.CodeConfigParseInvalidFormat, "unmarshalling config")
	}

	if cfg.Graph.OntologyPath == "" {
		cfg.Graph.OntologyPath = filepath.Join(cfg.DataDir, "ontology", "ontology.json")
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, lwerr.Wrap(errors.Join(errs...), lwerr.CodeConfigValidateInvalidValue, "validating config")
	}

	return &cfg, nil
}

// Validate checks the configuration for logical errors, collecting all
// issues rather than stopping at the first one.
func (c *Config) Validate() []error {
	var errs []error

	if c.Server.Listen == "" {
		errs = append(errs, lwerr.New(lwerr.CodeConfigValidateInvalidValue, "config: server.listen must not be empty"))
	} else if _, _, err := net.SplitHostPort(c.Server.Listen); err != nil {
		errs = append(errs, lwerr.Errorf(lwerr.CodeConfigValidateInvalidValue,
			"config: server.listen must be a valid host:port address, got %q: %w", c.Server.Listen, err))
	}

	if c.DataDir == "" {
		errs = append(errs, lwerr.New(lwerr.CodeConfigValidateInvalidValue, "config: data_dir must not be empty"))
	}

	if c.Graph.Name == "" {
		errs = append(errs, lwerr.New(lwerr.CodeConfigValidateInvalidValue, "config: graph.name must not be empty"))
	}

	if c.Graph.Port < 1 || c.Graph.Port > 65535 {
		errs = append(errs, lwerr.Errorf(lwerr.CodeConfigValidateInvalidValue,
			"config: graph.port must be between 1 and 65535, got %d", c.Graph.Port))
	}

	if c.Models.Extraction == "" {
		errs = append(errs, lwerr.New(lwerr.CodeConfigValidateInvalidValue, "config: models.extraction must not be empty"))
	}

	if c.Models.Answer == "" {
		errs = append(errs, lwerr.New(lwerr.CodeConfigValidateInvalidValue, "config: models.answer must not be empty"))
	}

	return errs
}
