// Package functiondef reads and validates the YAML definition file that the
// platform uses to bind a named function to its handler, declare its inputs,
// and size its runtime.
package functiondef

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Languages the platform can build a function for. Compiled languages do not
// carry a handler field; interpreted ones must.
var supportedLanguages = map[string]bool{
	"go":     true,
	"python": true,
	"nodejs": true,
}

// Input declares one named input the function expects, with an optional
// default the platform applies when the station does not supply a value.
type Input struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Default     string `yaml:"default,omitempty"`
}

// Tag is a label used to group functions in the platform catalogue.
type Tag struct {
	Name string `yaml:"name"`
}

// Definition is the parsed function definition file.
type Definition struct {
	FunctionName string `yaml:"function_name"`
	Description  string `yaml:"description,omitempty"`
	Tags         []Tag  `yaml:"tags,omitempty"`
	Language     string `yaml:"language"`
	// Handler names the entry point as "<file>.<function>" for interpreted
	// languages. Compiled languages bind at build time and leave it empty.
	Handler      string  `yaml:"handler,omitempty"`
	Dependencies string  `yaml:"dependencies,omitempty"`
	Inputs       []Input `yaml:"inputs,omitempty"`
	Memory       int64   `yaml:"memory,omitempty"`
	Storage      int64   `yaml:"storage,omitempty"`
}

// Load reads and parses a definition file from disk.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read function definition file '%s': %w", path, err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse function definition file '%s': %w", path, err)
	}
	return def, nil
}

// Parse unmarshals a definition from YAML bytes.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}
	return &def, nil
}

// Validate checks the definition for the fields the platform requires before
// it will deploy a function.
func (d *Definition) Validate() error {
	if d.FunctionName == "" {
		return fmt.Errorf("function_name is required")
	}
	if d.Language == "" {
		return fmt.Errorf("language is required")
	}
	if !supportedLanguages[d.Language] {
		return fmt.Errorf("unsupported language '%s'", d.Language)
	}

	if d.Language != "go" {
		if d.Handler == "" {
			return fmt.Errorf("handler is required for language '%s'", d.Language)
		}
		parts := strings.Split(d.Handler, ".")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return fmt.Errorf("handler '%s' must be in the format '<file>.<function>'", d.Handler)
		}
	}

	seen := make(map[string]bool, len(d.Inputs))
	for _, input := range d.Inputs {
		if input.Name == "" {
			return fmt.Errorf("every input must have a name")
		}
		if seen[input.Name] {
			return fmt.Errorf("duplicate input '%s'", input.Name)
		}
		seen[input.Name] = true
	}

	return nil
}

// DefaultInputs returns the input map the function receives when the station
// attaches no overrides. Inputs without a default are present with an empty
// value so handlers can distinguish "not configured" from "unknown input".
func (d *Definition) DefaultInputs() map[string]string {
	inputs := make(map[string]string, len(d.Inputs))
	for _, input := range d.Inputs {
		inputs[input.Name] = input.Default
	}
	return inputs
}

// MergeInputs overlays station-supplied values onto the declared defaults,
// producing the inputs map delivered with every event. Overrides for inputs
// the definition never declared are ignored.
func (d *Definition) MergeInputs(overrides map[string]string) map[string]string {
	inputs := d.DefaultInputs()
	for name, value := range overrides {
		if _, declared := inputs[name]; declared {
			inputs[name] = value
		}
	}
	return inputs
}
