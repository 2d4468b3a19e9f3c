package functiondef_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/illmade-knight/go-function/pkg/functiondef"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestYAMLFile writes a temporary definition file and returns its path.
func createTestYAMLFile(t *testing.T, content string) string {
	t.Helper()
	filePath := filepath.Join(t.TempDir(), "function.yaml")
	err := os.WriteFile(filePath, []byte(content), 0600)
	require.NoError(t, err, "Failed to write temporary YAML file")
	return filePath
}

func TestLoadAndValidate(t *testing.T) {
	validYAML := `
function_name: json-ingest
description: adds an ingest marker to each message
language: python
handler: main.handler
inputs:
  - name: field_to_ingest
    description: the field to set on each message
    default: testing
memory: 128
storage: 512
tags:
  - name: ingest
`

	testCases := []struct {
		name          string
		yamlContent   string
		expectError   bool
		errorContains string
		checkDef      func(t *testing.T, def *functiondef.Definition)
	}{
		{
			name:        "Valid python definition",
			yamlContent: validYAML,
			checkDef: func(t *testing.T, def *functiondef.Definition) {
				assert.Equal(t, "json-ingest", def.FunctionName)
				assert.Equal(t, "main.handler", def.Handler)
				require.Len(t, def.Inputs, 1)
				assert.Equal(t, "field_to_ingest", def.Inputs[0].Name)
				assert.Equal(t, int64(128), def.Memory)
				require.Len(t, def.Tags, 1)
				assert.Equal(t, "ingest", def.Tags[0].Name)
			},
		},
		{
			name: "Valid go definition without handler",
			yamlContent: `
function_name: go-ingest
language: go
`,
			checkDef: func(t *testing.T, def *functiondef.Definition) {
				assert.Equal(t, "go-ingest", def.FunctionName)
				assert.Empty(t, def.Handler)
			},
		},
		{
			name: "Missing function name",
			yamlContent: `
language: go
`,
			expectError:   true,
			errorContains: "function_name is required",
		},
		{
			name: "Missing language",
			yamlContent: `
function_name: nameless
`,
			expectError:   true,
			errorContains: "language is required",
		},
		{
			name: "Unsupported language",
			yamlContent: `
function_name: odd-one
language: cobol
`,
			expectError:   true,
			errorContains: "unsupported language",
		},
		{
			name: "Python definition without handler",
			yamlContent: `
function_name: no-entry
language: python
`,
			expectError:   true,
			errorContains: "handler is required",
		},
		{
			name: "Malformed handler format",
			yamlContent: `
function_name: bad-entry
language: python
handler: just-a-name
`,
			expectError:   true,
			errorContains: "must be in the format",
		},
		{
			name: "Duplicate inputs",
			yamlContent: `
function_name: doubled
language: go
inputs:
  - name: field
  - name: field
`,
			expectError:   true,
			errorContains: "duplicate input 'field'",
		},
		{
			name:          "Invalid YAML",
			yamlContent:   "function_name: x\n  badly_indented: true",
			expectError:   true,
			errorContains: "failed to unmarshal YAML",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := createTestYAMLFile(t, tc.yamlContent)
			def, err := functiondef.Load(path)
			if err == nil {
				err = def.Validate()
			}

			if tc.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errorContains)
				return
			}
			require.NoError(t, err)
			if tc.checkDef != nil {
				tc.checkDef(t, def)
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := functiondef.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read function definition file")
}

func TestDefinition_MergeInputs(t *testing.T) {
	def := &functiondef.Definition{
		FunctionName: "json-ingest",
		Language:     "go",
		Inputs: []functiondef.Input{
			{Name: "field_to_ingest", Default: "testing"},
			{Name: "station"},
		},
	}
	require.NoError(t, def.Validate())

	assert.Equal(t, map[string]string{
		"field_to_ingest": "testing",
		"station":         "",
	}, def.DefaultInputs())

	merged := def.MergeInputs(map[string]string{
		"station":    "ingest-a",
		"undeclared": "ignored",
	})
	assert.Equal(t, map[string]string{
		"field_to_ingest": "testing",
		"station":         "ingest-a",
	}, merged)
}
