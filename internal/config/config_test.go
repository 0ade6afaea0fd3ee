package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/y-kohei/mdpipe/internal/item"
	"github.com/y-kohei/mdpipe/internal/model"
)

// writeConfig writes contents to a file named name under a temp dir and
// returns its path.
func writeConfig(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

const validYAML = `
pipeline:
  id: generate
  stages:
    - type: mark.sequence
      prefix: foo
    - type: populate.id
    - type: order.by-id
`

// TestLoad_YAML verifies a well-formed YAML definition round-trips.
func TestLoad_YAML(t *testing.T) {
	def, err := Load(writeConfig(t, "pipeline.yml", validYAML))
	require.NoError(t, err)

	assert.Equal(t, "generate", def.ID)
	require.Len(t, def.Stages, 3)
	assert.Equal(t, "mark.sequence", def.Stages[0].Type)
	assert.Equal(t, "foo", def.Stages[0].Prefix)
}

// TestLoad_JSONC verifies JSONC definitions parse with comments and
// trailing commas stripped.
func TestLoad_JSONC(t *testing.T) {
	jsonc := `{
  // nightly aggregation run
  "pipeline": {
    "id": "nightly",
    "stages": [
      {"type": "mark.sequence"},
      {"type": "filter.errors"}, // keep last
    ]
  }
}`
	def, err := Load(writeConfig(t, "pipeline.jsonc", jsonc))
	require.NoError(t, err)

	assert.Equal(t, "nightly", def.ID)
	require.Len(t, def.Stages, 2)
	assert.Equal(t, "filter.errors", def.Stages[1].Type)
}

// TestLoad_MissingFile verifies the CLIError carries ExitBadConfig.
func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitBadConfig, cliErr.Code)
}

// TestLoad_Validation rejects structurally broken definitions with errors
// naming the offending stage.
func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		wantIn   string
	}{
		{
			name:     "missing pipeline id",
			contents: "pipeline:\n  stages:\n    - type: mark.sequence\n",
			wantIn:   "pipeline id",
		},
		{
			name:     "no stages",
			contents: "pipeline:\n  id: p\n  stages: []\n",
			wantIn:   "no stages",
		},
		{
			name:     "unknown stage type",
			contents: "pipeline:\n  id: p\n  stages:\n    - type: transmogrify\n",
			wantIn:   `unknown stage type "transmogrify"`,
		},
		{
			name:     "bad timeout",
			contents: "pipeline:\n  id: p\n  stages:\n    - type: source.http\n      urls: [\"http://example.com\"]\n      timeout: fast\n",
			wantIn:   "bad timeout",
		},
		{
			name:     "unknown field",
			contents: "pipeline:\n  id: p\n  stages:\n    - type: mark.sequence\n      prefixx: typo\n",
			wantIn:   "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "pipeline.yml", tc.contents))
			require.Error(t, err)
			if tc.wantIn != "" {
				assert.Contains(t, err.Error(), tc.wantIn)
			}
			var cliErr *model.CLIError
			require.True(t, errors.As(err, &cliErr))
			assert.Equal(t, model.ExitBadConfig, cliErr.Code)
		})
	}
}

// TestStageID covers explicit and generated stage identifiers.
func TestStageID(t *testing.T) {
	explicit := StageDef{Type: "mark.sequence", ID: "custom"}
	assert.Equal(t, "custom", explicit.StageID(3))

	generated := StageDef{Type: "mark.sequence"}
	assert.Equal(t, "mark-sequence-3", generated.StageID(3))
}

// TestBuild_ExecutesEndToEnd assembles a definition covering source,
// annotation and serialization, runs it, and checks the artifacts.
func TestBuild_ExecutesEndToEnd(t *testing.T) {
	inputDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "a.txt"), []byte("alpha"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "b.txt"), []byte("beta"), 0o644))
	outputDir := filepath.Join(t.TempDir(), "out")

	def := &Definition{
		ID: "e2e",
		Stages: []StageDef{
			{Type: "source.files", Glob: filepath.Join(inputDir, "*.txt")},
			{Type: "mark.sequence"},
			{Type: "serialize", OutputDir: outputDir},
		},
	}
	require.NoError(t, def.validate())

	p, err := def.Build()
	require.NoError(t, err)

	out, err := p.Execute(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, out, 2)

	// Sequence markers follow file iteration order.
	first := item.Of[item.Marker](out[0].Metadata())
	require.Len(t, first, 1)
	assert.Equal(t, "foo 0", first[0].Label())
	second := item.Of[item.Marker](out[1].Metadata())
	require.Len(t, second, 1)
	assert.Equal(t, "foo 1", second[0].Label())

	data, err := os.ReadFile(filepath.Join(outputDir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(data))
}

// TestBuild_OptionErrors verifies builder-level option checks name the
// stage.
func TestBuild_OptionErrors(t *testing.T) {
	def := &Definition{
		ID: "p",
		Stages: []StageDef{
			{Type: "source.files"}, // glob missing
		},
	}
	_, err := def.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage 0 (source.files)")
	assert.Contains(t, err.Error(), "glob")
}

// TestKnownTypes pins the registry contents so new stage types get
// deliberate registration.
func TestKnownTypes(t *testing.T) {
	assert.Equal(t, []string{
		"filter.errors",
		"log.status",
		"mark.sequence",
		"order.by-id",
		"populate.id",
		"serialize",
		"source.files",
		"source.http",
		"terminate.errors",
	}, KnownTypes())
}
