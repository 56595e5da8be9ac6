// Package config loads the pack defaults a user can set outside the
// command line, through the environment or the .asarrc file
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/Nivl/asar-go/internal/env"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
	"gopkg.in/ini.v1"
)

// Names of the env vars
const (
	// EnvConfig contains the path of the config file to use instead
	// of the default one
	EnvConfig = "ASAR_CONFIG"
	// EnvUnpack contains extra unpack patterns, comma separated
	EnvUnpack = "ASAR_UNPACK"
)

// DefaultConfigName is the name of the config file looked up in the
// user's home directory
const DefaultConfigName = ".asarrc"

// PackDefaults returns the unpack patterns configured outside the
// command line: the [pack] section of the config file first, then
// the content of $ASAR_UNPACK.
// A missing config file is not an error, not everybody has one
func PackDefaults(e *env.Env, fs afero.Fs) ([]string, error) {
	var patterns []string

	path := e.Get(EnvConfig)
	if path == "" && e.Get("HOME") != "" {
		path = filepath.Join(e.Get("HOME"), DefaultConfigName)
	}
	if path != "" {
		fromFile, err := loadFile(fs, path)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, fromFile...)
	}

	return append(patterns, splitPatterns(e.Get(EnvUnpack))...), nil
}

// loadFile returns the unpack patterns of the given config file
func loadFile(fs afero.Fs, path string) ([]string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, xerrors.Errorf("could not read %s: %w", path, err)
	}

	cfg, err := ini.LoadSources(ini.LoadOptions{
		SkipUnrecognizableLines: true,
	}, data)
	if err != nil {
		return nil, xerrors.Errorf("could not parse %s: %w", path, err)
	}
	return splitPatterns(cfg.Section("pack").Key("unpack").String()), nil
}

// splitPatterns splits a comma-separated pattern list, dropping the
// empty elements
func splitPatterns(list string) []string {
	var out []string
	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
