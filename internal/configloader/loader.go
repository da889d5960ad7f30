// Package configloader resolves the configuration of a run. It finds the
// system, user and project files, layers them over the defaults together
// with MDFMT_* environment variables and command-line overrides, and
// validates the result.
package configloader

import (
	"context"
	"fmt"
	"os"

	"github.com/yaklabco/mdfmt/pkg/config"
)

// configFilePermissions is the mode of configuration files written by mdfmt.
const configFilePermissions = 0o644

// LoadOptions controls configuration loading.
type LoadOptions struct {
	// WorkingDir starts the project config search. Defaults to the
	// process working directory.
	WorkingDir string

	// ExplicitPath is a file given with --config. It is layered above the
	// project file.
	ExplicitPath string

	IgnoreSystemConfig  bool
	IgnoreUserConfig    bool
	IgnoreProjectConfig bool
	IgnoreEnv           bool

	// LookupEnv replaces os.LookupEnv for environment overrides.
	LookupEnv func(string) (string, bool)

	// Overrides apply command-line flags last.
	Overrides func(cfg *config.Config)
}

// LoadResult is the resolved configuration and where it came from.
type LoadResult struct {
	Config *config.Config

	// Paths are the discovered configuration files.
	Paths *ConfigPaths

	// LoadedFrom lists the files applied, lowest precedence first.
	LoadedFrom []string

	// Warnings are non-fatal findings.
	Warnings []string
}

// Load resolves the configuration. Precedence, highest first:
//  1. command-line overrides
//  2. MDFMT_* environment variables
//  3. the --config file
//  4. the project file (.mdfmt.yml, .mdfmt.yaml, .mdfmt.toml, mdfmt.toml)
//  5. the user file ($XDG_CONFIG_HOME/mdfmt/config.yaml)
//  6. the system file (/etc/mdfmt/config.yaml)
//  7. defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		workDir = wd
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath
	result := &LoadResult{Paths: paths}

	cfg := config.NewConfig()
	layers := []struct {
		path    string
		skip    bool
		purpose string
	}{
		{paths.System, opts.IgnoreSystemConfig, "system"},
		{paths.User, opts.IgnoreUserConfig, "user"},
		{paths.Project, opts.IgnoreProjectConfig, "project"},
		{paths.Explicit, false, "explicit"},
	}
	for _, layer := range layers {
		if layer.skip || layer.path == "" {
			continue
		}
		if err := LoadFile(cfg, layer.path); err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.purpose, err)
		}
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
	}

	if !opts.IgnoreEnv {
		lookup := opts.LookupEnv
		if lookup == nil {
			lookup = os.LookupEnv
		}
		if err := ApplyEnv(cfg, lookup); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.Overrides != nil {
		opts.Overrides(cfg)
	}

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}
	// Unknown extension names are already reported by Validate.
	cfg.Resolve()

	result.Config = cfg
	return result, nil
}

// LoadFile layers the file at path over cfg.
func LoadFile(cfg *config.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	return overlay(cfg, path, data)
}

// WriteConfig writes cfg to path as YAML, or TOML for a .toml path.
func WriteConfig(cfg *config.Config, path string) error {
	var (
		content []byte
		err     error
	)
	if IsTOML(path) {
		content, err = cfg.ToTOML()
	} else {
		content, err = cfg.ToYAML()
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
