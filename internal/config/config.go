// Package config loads declarative pipeline definitions and assembles them
// into executable pipelines.
//
// Definitions are YAML by default. Files with a .json or .jsonc extension
// are treated as JSONC (JSON with comments), stripped with
// github.com/tidwall/jsonc before decoding; since YAML is a superset of
// JSON, a single decoder handles both forms.
//
// A definition names the pipeline and lists its stages in order. Each
// stage entry has a "type" selecting a builder from the registry in
// build.go plus type-specific options:
//
//	pipeline:
//	  id: generate
//	  stages:
//	    - type: source.files
//	      glob: "input/*.xml"
//	    - type: mark.sequence
//	    - type: serialize
//	      output_dir: out
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/y-kohei/mdpipe/internal/model"
)

// File is the top-level structure of a pipeline definition file.
type File struct {
	// Pipeline is the single pipeline defined by the file.
	Pipeline Definition `yaml:"pipeline"`
}

// Definition describes one pipeline: its ID and ordered stage list.
type Definition struct {
	// ID names the pipeline in logs, metrics and metadata.
	ID string `yaml:"id"`

	// Stages are executed in the order given.
	Stages []StageDef `yaml:"stages"`
}

// StageDef describes a single stage entry. Type selects the stage; the
// remaining fields are options, each meaningful only to some types.
// Unknown fields in the file are rejected to surface typos early.
type StageDef struct {
	// Type selects the stage builder, e.g. "source.files".
	Type string `yaml:"type"`

	// ID overrides the generated stage identifier.
	ID string `yaml:"id,omitempty"`

	// Prefix is the marker label prefix (mark.sequence).
	Prefix string `yaml:"prefix,omitempty"`

	// Glob selects input files (source.files).
	Glob string `yaml:"glob,omitempty"`

	// URLs are fetched in order (source.http).
	URLs []string `yaml:"urls,omitempty"`

	// Timeout bounds each fetch, in time.ParseDuration syntax
	// (source.http).
	Timeout string `yaml:"timeout,omitempty"`

	// ContinueOnError downgrades per-input failures to ErrorStatus
	// metadata (source.files, source.http).
	ContinueOnError bool `yaml:"continue_on_error,omitempty"`

	// Overwrite assigns IDs even to already-identified items
	// (populate.id).
	Overwrite bool `yaml:"overwrite,omitempty"`

	// OutputDir is the serialization target directory (serialize).
	OutputDir string `yaml:"output_dir,omitempty"`

	// Extension is appended to serialized file names (serialize).
	Extension string `yaml:"extension,omitempty"`
}

// Load reads and validates a pipeline definition file. The file format is
// chosen by extension: .json/.jsonc are JSONC, everything else is YAML.
//
// Returns a CLIError with ExitBadConfig if the file is missing or does
// not validate.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(model.ExitBadConfig,
				fmt.Sprintf("pipeline config not found: %s", path), err)
		}
		return nil, fmt.Errorf("reading pipeline config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// Strip comments and trailing commas; the result is plain JSON,
		// which the YAML decoder accepts.
		data = jsonc.ToJSON(data)
	}

	var file File
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, model.WrapCLIError(model.ExitBadConfig,
			fmt.Sprintf("parsing pipeline config %s", path), err)
	}

	def := file.Pipeline
	if err := def.validate(); err != nil {
		return nil, model.WrapCLIError(model.ExitBadConfig,
			fmt.Sprintf("invalid pipeline config %s", path), err)
	}
	return &def, nil
}

// validate checks the structural rules a definition must satisfy before
// stage builders run.
func (d *Definition) validate() error {
	if d.ID == "" {
		return fmt.Errorf("pipeline id must not be empty")
	}
	if len(d.Stages) == 0 {
		return fmt.Errorf("pipeline %q defines no stages", d.ID)
	}
	for i, sd := range d.Stages {
		if sd.Type == "" {
			return fmt.Errorf("stage %d: type must not be empty", i)
		}
		if _, ok := builders[sd.Type]; !ok {
			return fmt.Errorf("stage %d: unknown stage type %q (known: %s)",
				i, sd.Type, strings.Join(KnownTypes(), ", "))
		}
		if sd.Timeout != "" {
			if _, err := time.ParseDuration(sd.Timeout); err != nil {
				return fmt.Errorf("stage %d (%s): bad timeout: %w", i, sd.Type, err)
			}
		}
	}
	return nil
}

// StageID returns the identifier a stage entry resolves to: the explicit
// ID if set, otherwise "<type>-<index>".
func (sd *StageDef) StageID(index int) string {
	if sd.ID != "" {
		return sd.ID
	}
	return fmt.Sprintf("%s-%d", strings.ReplaceAll(sd.Type, ".", "-"), index)
}
