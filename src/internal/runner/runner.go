// Package runner sequences one invocation: load the style and record,
// build the adapter, render, and write the JSON result.
package runner

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"cite/src/internal/config"
	"cite/src/internal/engine"
	"cite/src/internal/engine/citeproc"
	"cite/src/internal/record"
	"cite/src/internal/render"
	"cite/src/internal/resource"
)

// Runner runs one render to completion. A nil Factory loads the
// citeproc script named by the configuration; tests inject fakes.
type Runner struct {
	Factory engine.Factory
	Stdin   io.Reader
	Stdout  io.Writer
}

// Run executes the invocation described by cfg. The only bytes written
// to Stdout are the {"html": ..., "rtf": ...} result; diagnostics go to
// the log, which writes to stderr.
func (r Runner) Run(cfg config.Config) error {
	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}
	log.Debug("rendering",
		"bibliography", cfg.Bibliography,
		"style", cfg.StylePath,
		"record", recordSource(cfg))

	style, err := resource.ReadTextFile(cfg.StylePath)
	if err != nil {
		return fmt.Errorf("read style: %w", err)
	}
	data, err := r.readRecord(cfg)
	if err != nil {
		return err
	}
	rec, err := record.Parse(data)
	if err != nil {
		return err
	}

	factory := r.Factory
	if factory == nil {
		factory, err = loadProcessor(cfg.ProcessorPath)
		if err != nil {
			return err
		}
	}
	adapter, err := render.New(cfg, rec, style, factory)
	if err != nil {
		return err
	}
	result, err := adapter.Render()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(r.Stdout)
	enc.SetEscapeHTML(false)
	return enc.Encode(result)
}

// readRecord loads the record file, or stdin when no path was given.
func (r Runner) readRecord(cfg config.Config) ([]byte, error) {
	if cfg.RecordPath != "" {
		b, err := os.ReadFile(cfg.RecordPath)
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		return b, nil
	}
	stdin := r.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read record from stdin: %w", err)
	}
	return b, nil
}

func recordSource(cfg config.Config) string {
	if cfg.RecordPath != "" {
		return cfg.RecordPath
	}
	return "<stdin>"
}

func loadProcessor(path string) (engine.Factory, error) {
	src, err := resource.ReadTextFile(path)
	if err != nil {
		return nil, fmt.Errorf("read processor script: %w", err)
	}
	proc, err := citeproc.Load(src)
	if err != nil {
		return nil, err
	}
	return proc.Factory(), nil
}
