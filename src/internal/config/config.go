// Package config holds the immutable per-invocation configuration and
// its resolution order: command-line flags win over the optional YAML
// defaults file, which wins over built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"cite/src/internal/stringsx"
)

// DefaultLocaleDir is where locale files are looked up when neither a
// flag nor the defaults file names a directory.
const DefaultLocaleDir = "./locales"

// processorFile is the citeproc script name resolved relative to the
// executable (or the working directory as a fallback).
const processorFile = "citeproc.js"

// Config is the resolved configuration for one render. It is built once
// and never mutated afterwards.
type Config struct {
	StylePath     string
	RecordPath    string // empty: record is read from stdin
	Locale        string // empty: processor default, unforced
	LocaleDir     string
	ProcessorPath string
	Bibliography  bool
	Verbose       bool
	RTFFromHTML   bool
}

// Options carries raw flag and positional values prior to resolution.
type Options struct {
	Positionals  []string
	Locale       string
	LocaleDir    string
	Processor    string
	DefaultsPath string
	Bibliography bool
	Verbose      bool
	RTFFromHTML  bool
}

// defaults is the shape of the optional YAML defaults file.
type defaults struct {
	Locale    string `yaml:"locale"`
	LocaleDir string `yaml:"locale_dir"`
	Processor string `yaml:"processor"`
}

// Resolve merges flags, the defaults file, and built-in defaults into a
// Config. Positional count validation belongs to the command layer; this
// only assigns what it is given.
func Resolve(o Options) (Config, error) {
	d, err := loadDefaults(o.DefaultsPath)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Locale:        stringsx.FirstNonEmpty(o.Locale, d.Locale),
		LocaleDir:     stringsx.FirstNonEmpty(o.LocaleDir, d.LocaleDir, DefaultLocaleDir),
		ProcessorPath: stringsx.FirstNonEmpty(o.Processor, d.Processor, defaultProcessorPath()),
		Bibliography:  o.Bibliography,
		Verbose:       o.Verbose,
		RTFFromHTML:   o.RTFFromHTML,
	}
	if len(o.Positionals) > 0 {
		cfg.StylePath = o.Positionals[0]
	}
	if len(o.Positionals) > 1 {
		cfg.RecordPath = o.Positionals[1]
	}
	return cfg, nil
}

func loadDefaults(path string) (defaults, error) {
	var d defaults
	if path == "" {
		return d, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return d, fmt.Errorf("read defaults file: %w", err)
	}
	if err := yaml.Unmarshal(b, &d); err != nil {
		return d, fmt.Errorf("parse defaults file %s: %w", path, err)
	}
	return d, nil
}

// defaultProcessorPath prefers a citeproc script installed next to the
// executable, falling back to the working directory.
func defaultProcessorPath() string {
	if exe, err := os.Executable(); err == nil {
		p := filepath.Join(filepath.Dir(exe), processorFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return processorFile
}
