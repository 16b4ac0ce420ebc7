// Copyright (C) 2025 LifeGraph Authors (maintainers@lifegraph.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads the CLI configuration from
// ~/.lifegraph/lifegraph.yaml, creating a default file on first run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// LifeGraphConfig is the CLI configuration.
type LifeGraphConfig struct {
	// Server is the base URL of the evolution service.
	Server ServerConfig `yaml:"server"`

	// Logging controls CLI log output.
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	URL       string `yaml:"url"`        // e.g. http://localhost:12300
	TimeoutMS int    `yaml:"timeout_ms"` // per-request timeout; final-state walks can run long
}

type LoggingConfig struct {
	Level  string `yaml:"level"`   // debug, info, warn, error
	LogDir string `yaml:"log_dir"` // empty disables file logging
}

var (
	// Global is a singleton instance
	Global LifeGraphConfig
	once   sync.Once
)

// Load ensures the config is loaded into the Global variable.
func Load() error {
	var err error
	once.Do(func() {
		err = loadInternal()
	})
	return err
}

func loadInternal() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("could not find the user's home directory: %w", err)
	}
	configPath := filepath.Join(home, ".lifegraph", "lifegraph.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Printf("First run detected, creating the config at %s\n", configPath)
		if err := createDefault(configPath); err != nil {
			return err
		}
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read the config file: %w", err)
	}
	if err = yaml.Unmarshal(data, &Global); err != nil {
		return fmt.Errorf("failed to parse the config file: %w", err)
	}
	applyDefaults(&Global)
	return nil
}

// Default returns the configuration written on first run.
func Default() LifeGraphConfig {
	return LifeGraphConfig{
		Server: ServerConfig{
			URL:       "http://localhost:12300",
			TimeoutMS: 60_000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func applyDefaults(cfg *LifeGraphConfig) {
	def := Default()
	if cfg.Server.URL == "" {
		cfg.Server.URL = def.Server.URL
	}
	if cfg.Server.TimeoutMS <= 0 {
		cfg.Server.TimeoutMS = def.Server.TimeoutMS
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
}

func createDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0640); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}
