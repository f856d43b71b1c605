package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, `
name: test_scenario
description: "Test scenario for validation"
input:
  a: 1
functions: [echo]
steps:
  - op: run
    function: echo
    value: x
    expect:
      string: x
assertions:
  - has: [a]
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, []string{"echo"}, scenario.Functions)
	require.Len(t, scenario.Steps, 1)
	assert.Equal(t, OpRun, scenario.Steps[0].Op)
	require.NotNil(t, scenario.Steps[0].Expect)
	assert.Equal(t, "x", *scenario.Steps[0].Expect.String)
	assert.Equal(t, []string{"a"}, scenario.Assertions[0].Has)
}

func TestLoadScenario_ResolvesInputFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.json"), []byte(`{"a":1}`), 0644))
	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: file
description: d
input_file: data.json
assertions:
  - has: [a]
`), 0644))

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data.json"), scenario.InputFile)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: d
step:
  - op: release
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: "description: d\nsteps: [{op: release}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			content: "name: n\nsteps: [{op: release}]\n",
			wantErr: "description is required",
		},
		{
			name:    "nothing to do",
			content: "name: n\ndescription: d\n",
			wantErr: "at least one step or assertion",
		},
		{
			name:    "unknown op",
			content: "name: n\ndescription: d\nsteps: [{op: explode}]\n",
			wantErr: `unknown op "explode"`,
		},
		{
			name:    "missing op",
			content: "name: n\ndescription: d\nsteps: [{name: x}]\n",
			wantErr: "op is required",
		},
		{
			name:    "add without name",
			content: "name: n\ndescription: d\nsteps: [{op: add, value: 1}]\n",
			wantErr: "name is required for add",
		},
		{
			name:    "run without function",
			content: "name: n\ndescription: d\nsteps: [{op: run}]\n",
			wantErr: "function is required for run",
		},
		{
			name:    "run_with without var",
			content: "name: n\ndescription: d\nsteps: [{op: run_with, function: echo}]\n",
			wantErr: "function and var are required",
		},
		{
			name:    "add_array with scalar",
			content: "name: n\ndescription: d\nsteps: [{op: add_array, value: 1}]\n",
			wantErr: "value must be a list",
		},
		{
			name:    "error on sync step",
			content: "name: n\ndescription: d\nsteps: [{op: run, function: echo, expect: {error: x}}]\n",
			wantErr: "error is only valid on async steps",
		},
		{
			name:    "error on assertion",
			content: "name: n\ndescription: d\nassertions: [{error: x}]\n",
			wantErr: "error is only valid on async steps",
		},
		{
			name:    "unknown kind",
			content: "name: n\ndescription: d\nassertions: [{kind: blob}]\n",
			wantErr: `unknown kind "blob"`,
		},
		{
			name:    "negative count",
			content: "name: n\ndescription: d\nassertions: [{count: -1}]\n",
			wantErr: "count must be non-negative",
		},
		{
			name:    "unknown function",
			content: "name: n\ndescription: d\nfunctions: [nope]\nsteps: [{op: release}]\n",
			wantErr: `unknown function "nope"`,
		},
		{
			name:    "both inputs",
			content: "name: n\ndescription: d\ninput: 1\ninput_file: x.json\nsteps: [{op: release}]\n",
			wantErr: "mutually exclusive",
		},
		{
			name:    "missing input file",
			content: "name: n\ndescription: d\ninput_file: nope.json\nsteps: [{op: release}]\n",
			wantErr: "input file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
