// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/proxypatch/pkg/apipath"
	"gitlab.com/tozd/go/errors"
)

// DefaultFile is the config file looked up when --config is not given
const DefaultFile = ".proxypatch.yaml"

// DefaultConcurrency bounds how many targets are patched at once in async mode
const DefaultConcurrency = 4

// ErrNoParser is returned for a config file with an unknown extension
var ErrNoParser = errors.New("no parser for config file")

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config represents the complete configuration
type Config struct {
	Root         string   `json:"root,omitempty" yaml:"root,omitempty" toml:"root" hcl:"root,optional"`
	Targets      []string `json:"targets,omitempty" yaml:"targets,omitempty" toml:"targets" hcl:"targets,optional"`
	BasePath     string   `json:"base_path,omitempty" yaml:"base_path,omitempty" toml:"base_path" hcl:"base_path,optional"`
	EnvVar       string   `json:"env_var,omitempty" yaml:"env_var,omitempty" toml:"env_var" hcl:"env_var,optional"`
	Helper       string   `json:"helper,omitempty" yaml:"helper,omitempty" toml:"helper" hcl:"helper,optional"`
	LegacyPrefix string   `json:"legacy_prefix,omitempty" yaml:"legacy_prefix,omitempty" toml:"legacy_prefix" hcl:"legacy_prefix,optional"`
	Route        string   `json:"route,omitempty" yaml:"route,omitempty" toml:"route" hcl:"route,optional"`
	Version      string   `json:"version,omitempty" yaml:"version,omitempty" toml:"version" hcl:"version,optional"`
	Backup       bool     `json:"backup,omitempty" yaml:"backup,omitempty" toml:"backup" hcl:"backup,optional"`
	Async        bool     `json:"async,omitempty" yaml:"async,omitempty" toml:"async" hcl:"async,optional"`
	Concurrency  int      `json:"concurrency,omitempty" yaml:"concurrency,omitempty" toml:"concurrency" hcl:"concurrency,optional"`

	location string
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("%s: %w", path, ErrNoParser)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🎯 LoadOrDefault loads path, falling back to Default when the file does not
// exist and required is false
func LoadOrDefault(ctx context.Context, path string, required bool) (*Config, error) {
	if !required {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no config file, using defaults")
			return Default(), nil
		}
	}
	return Load(ctx, path)
}

// Location returns the file the config was loaded from, empty for defaults
func (cfg *Config) Location() string {
	return cfg.location
}

// 🔍 Validate checks if the configuration is valid and applies defaults
func (cfg *Config) Validate() error {
	// Set defaults
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if len(cfg.Targets) == 0 {
		cfg.Targets = []string{apipath.DefaultTarget}
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}

	// Clean up paths
	cfg.Root = filepath.Clean(cfg.Root)

	for i, target := range cfg.Targets {
		target = strings.TrimSpace(target)
		if target == "" {
			return errors.Errorf("targets[%d] is empty", i)
		}
		if !doublestar.ValidatePattern(filepath.ToSlash(target)) {
			return errors.Errorf("targets[%d]: invalid pattern %q", i, target)
		}
		cfg.Targets[i] = target
	}

	if err := cfg.PlanOptions().Validate(); err != nil {
		return err
	}

	return nil
}

// PlanOptions returns the patch options, with defaults for unset fields
func (cfg *Config) PlanOptions() apipath.Options {
	return apipath.Options{
		BasePath:     cfg.BasePath,
		EnvVar:       cfg.EnvVar,
		Helper:       cfg.Helper,
		LegacyPrefix: cfg.LegacyPrefix,
		Route:        cfg.Route,
		Version:      cfg.Version,
	}.WithDefaults()
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	opts := cfg.PlanOptions()
	return fmt.Sprintf("%s [%s] %s -> %s", cfg.Root, strings.Join(cfg.Targets, ", "), opts.LegacyPrefix, opts.BasePath)
}
