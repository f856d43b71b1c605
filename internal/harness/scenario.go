package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/suiobject/internal/builtins"
	"github.com/roach88/suiobject/internal/object"
)

// Scenario is a scripted sequence of container operations.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Input is the inline constructor argument for the container.
	Input any `yaml:"input,omitempty"`

	// InputFile loads the container from a JSON, YAML or CUE file instead.
	// Relative paths are resolved against the scenario file's directory.
	InputFile string `yaml:"input_file,omitempty"`

	// Functions lists builtins to register before the first step.
	Functions []string `yaml:"functions,omitempty"`

	// Steps run in order against the container.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final container.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is a single operation on the container.
type Step struct {
	// Op selects the operation (see the Op* constants).
	Op string `yaml:"op"`

	// Name is the key for add and remove.
	Name string `yaml:"name,omitempty"`

	// Function is the function name for run, run_with and async.
	Function string `yaml:"function,omitempty"`

	// Var is the internal value name for run_with and async.
	Var string `yaml:"var,omitempty"`

	// Path is the dotted path for get.
	Path string `yaml:"path,omitempty"`

	// Value is the operation's argument.
	Value any `yaml:"value,omitempty"`

	// As stores the step's result container under this name.
	As string `yaml:"as,omitempty"`

	// Expect validates the step's result container.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect describes an expected container. Only the fields that are set are
// checked.
type Expect struct {
	// Kind is the expected Kind string (empty, value, array, object, map).
	Kind string `yaml:"kind,omitempty"`

	// String is the expected text in the scalar slot.
	String *string `yaml:"string,omitempty"`

	// Keys is the exact non-reserved key set, in canonical order.
	Keys []string `yaml:"keys,omitempty"`

	// Has lists keys that must be present.
	Has []string `yaml:"has,omitempty"`

	// Count is the expected element count (array length, map size, one
	// for a scalar, zero for empty).
	Count *int `yaml:"count,omitempty"`

	// JSON is the expected canonical JSON of the container.
	JSON string `yaml:"json,omitempty"`

	// Error is a substring the async rejection must contain.
	// Only valid on async steps.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the final container, or the container at Path.
type Assertion struct {
	Path   string `yaml:"path,omitempty"`
	Expect `yaml:",inline"`
}

// Step operation constants.
const (
	OpAdd      = "add"
	OpAddValue = "add_value"
	OpAddChild = "add_child"
	OpAddArray = "add_array"
	OpConsume  = "consume"
	OpRemove   = "remove"
	OpRun      = "run"
	OpRunWith  = "run_with"
	OpAsync    = "async"
	OpRelease  = "release"
	OpGet      = "get"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.InputFile != "" && !filepath.IsAbs(scenario.InputFile) {
		scenario.InputFile = filepath.Join(filepath.Dir(path), scenario.InputFile)
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return scenario, nil
}

// ParseScenario decodes a scenario from YAML without validating file
// references.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Input != nil && s.InputFile != "" {
		return fmt.Errorf("input and input_file are mutually exclusive")
	}

	if s.InputFile != "" {
		if _, err := os.Stat(s.InputFile); os.IsNotExist(err) {
			return fmt.Errorf("input file not found: %s", s.InputFile)
		}
	}

	for _, name := range s.Functions {
		if _, ok := builtins.Lookup(name); !ok {
			return fmt.Errorf("unknown function %q (available: %v)", name, builtins.Names())
		}
	}

	if len(s.Steps) == 0 && len(s.Assertions) == 0 {
		return fmt.Errorf("at least one step or assertion is required")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, a := range s.Assertions {
		if err := validateExpect(&a.Expect); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
		if a.Error != "" {
			return fmt.Errorf("assertions[%d]: error is only valid on async steps", i)
		}
	}

	return nil
}

// validateStep validates a single step based on its op.
func validateStep(index int, s *Step) error {
	switch s.Op {
	case OpAdd, OpRemove:
		if s.Name == "" {
			return fmt.Errorf("steps[%d]: name is required for %s", index, s.Op)
		}
	case OpAddArray:
		if _, ok := s.Value.([]any); !ok {
			return fmt.Errorf("steps[%d]: value must be a list for add_array", index)
		}
	case OpRun, OpAsync:
		if s.Function == "" {
			return fmt.Errorf("steps[%d]: function is required for %s", index, s.Op)
		}
	case OpRunWith:
		if s.Function == "" || s.Var == "" {
			return fmt.Errorf("steps[%d]: function and var are required for run_with", index)
		}
	case OpAddValue, OpAddChild, OpConsume, OpRelease, OpGet:
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, s.Op)
	}

	if s.Expect != nil {
		if err := validateExpect(s.Expect); err != nil {
			return fmt.Errorf("steps[%d].expect: %w", index, err)
		}
		if s.Expect.Error != "" && s.Op != OpAsync {
			return fmt.Errorf("steps[%d].expect: error is only valid on async steps", index)
		}
	}

	return nil
}

func validateExpect(e *Expect) error {
	if e.Kind != "" && !validKind(e.Kind) {
		return fmt.Errorf("unknown kind %q", e.Kind)
	}
	if e.Count != nil && *e.Count < 0 {
		return fmt.Errorf("count must be non-negative")
	}
	return nil
}

func validKind(kind string) bool {
	for _, k := range []object.Kind{object.KindEmpty, object.KindValue, object.KindArray, object.KindObject, object.KindMap} {
		if k.String() == kind {
			return true
		}
	}
	return false
}
