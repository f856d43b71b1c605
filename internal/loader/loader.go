package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/suiobject/internal/canonical"
	"github.com/roach88/suiobject/internal/object"
)

// Error codes for load failures.
const (
	ErrCodeGeneric     = "E001"
	ErrCodeReadFailed  = "E002"
	ErrCodeParseFailed = "E004"
	ErrCodeNotFound    = "E005"
	ErrCodeBuildFailed = "E006"
)

// Format is the encoding of a payload file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
	FormatRaw  Format = "raw"
)

// LoadError describes a payload that could not be loaded.
type LoadError struct {
	Code    string
	Path    string
	Message string
	Pos     token.Pos // CUE position if available
	Err     error
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a LoadError for a missing file.
func IsNotFound(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Code == ErrCodeNotFound
}

// DetectFormat picks a format from the file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".cue":
		return FormatCUE
	default:
		return FormatRaw
	}
}

// Load reads path and builds a container from it. configure callbacks are
// passed through to object.New.
func Load(path string, configure ...func(*object.Object)) (*object.Object, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "file not found", Err: err}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Path: path, Message: fmt.Sprintf("reading file: %v", err), Err: err}
	}

	return loadBytes(path, data, DetectFormat(path), configure)
}

// LoadBytes builds a container from data in the given format.
func LoadBytes(data []byte, format Format, configure ...func(*object.Object)) (*object.Object, error) {
	return loadBytes("", data, format, configure)
}

func loadBytes(path string, data []byte, format Format, configure []func(*object.Object)) (*object.Object, error) {
	var (
		normalized []byte
		err        error
	)
	switch format {
	case FormatJSON:
		normalized, err = fromJSON(path, data)
	case FormatYAML:
		normalized, err = fromYAML(path, data)
	case FormatCUE:
		normalized, err = fromCUE(path, data)
	case FormatRaw:
		normalized = data
	default:
		err = &LoadError{Code: ErrCodeGeneric, Path: path, Message: fmt.Sprintf("unknown format %q", format)}
	}
	if err != nil {
		return nil, err
	}
	if normalized == nil {
		return object.New(nil, configure...), nil
	}
	return object.New(normalized, configure...), nil
}

// fromJSON validates data. A bare null yields nil.
func fromJSON(path string, data []byte) ([]byte, error) {
	if !json.Valid(data) {
		var v any
		err := json.Unmarshal(data, &v)
		return nil, &LoadError{Code: ErrCodeParseFailed, Path: path, Message: fmt.Sprintf("invalid JSON: %v", err), Err: err}
	}
	if strings.TrimSpace(string(data)) == "null" {
		return nil, nil
	}
	return data, nil
}

// fromYAML decodes a single YAML document and re-encodes it as canonical
// JSON. An empty document yields nil.
func fromYAML(path string, data []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Path: path, Message: fmt.Sprintf("invalid YAML: %v", err), Err: err}
	}
	if v == nil {
		return nil, nil
	}
	out, err := canonical.Marshal(Plain(v))
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Path: path, Message: fmt.Sprintf("encoding YAML as JSON: %v", err), Err: err}
	}
	return out, nil
}

// Plain converts a value decoded by yaml.v3 into JSON-compatible Go values.
// Non-string map keys are formatted with %v.
func Plain(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, elem := range val {
			val[k] = Plain(elem)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[fmt.Sprintf("%v", k)] = Plain(elem)
		}
		return out
	case []any:
		for i, elem := range val {
			val[i] = Plain(elem)
		}
		return val
	default:
		return v
	}
}

// fromCUE compiles data as a single CUE file and exports the concrete value
// as JSON.
func fromCUE(path string, data []byte) ([]byte, error) {
	filename := path
	if filename == "" {
		filename = "input.cue"
	}

	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, cueLoadError(path, ErrCodeParseFailed, "compiling CUE", err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(path, ErrCodeBuildFailed, "CUE value is not concrete", err)
	}
	out, err := v.MarshalJSON()
	if err != nil {
		return nil, cueLoadError(path, ErrCodeBuildFailed, "exporting CUE as JSON", err)
	}
	return out, nil
}

func cueLoadError(path, code, msg string, err error) *LoadError {
	le := &LoadError{Code: code, Path: path, Message: fmt.Sprintf("%s: %v", msg, err), Err: err}
	if errs := cueerrors.Errors(err); len(errs) > 0 {
		le.Pos = errs[0].Position()
	}
	return le
}
