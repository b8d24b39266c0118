// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	configName   = "arcp.toml"
	configEnvVar = "ARCP_CONFIG"
)

// Config holds defaults for flags the user did not give.
type Config struct {
	Force       bool `toml:"force,omitempty"`
	Dereference bool `toml:"dereference,omitempty"`
	Jobs        int  `toml:"jobs,omitempty"`
}

func defaultConfig() *Config {
	return &Config{Jobs: 1}
}

// loadConfig reads the file named by ARCP_CONFIG, or the nearest
// arcp.toml at or above dir. It returns the defaults, and an empty path,
// when there is neither.
func loadConfig(dir string, getenv func(string) string) (*Config, string, error) {
	path := getenv(configEnvVar)
	if path == "" {
		var err error
		path, err = findConfigPath(dir)
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), "", nil
		}
		if err != nil {
			return nil, "", err
		}
	}
	cfg := defaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.Jobs < 1 || cfg.Jobs > maxJobs {
		return nil, "", fmt.Errorf("%s: jobs must be between 1 and %d, got %d", path, maxJobs, cfg.Jobs)
	}
	return cfg, path, nil
}

func findConfigPath(startDir string) (string, error) {
	dir := filepath.Clean(startDir)
	for {
		path := filepath.Join(dir, configName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}
