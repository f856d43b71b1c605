package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/suiobject/internal/loader"
	"github.com/roach88/suiobject/internal/object"
)

// GetOptions holds flags for the get command.
type GetOptions struct {
	*RootOptions
	JSONPath bool // treat the path as a JSONPath expression
}

// GetResult holds the value found at a path.
type GetResult struct {
	Path    string `json:"path"`
	Kind    string `json:"kind,omitempty"`
	Value   any    `json:"value,omitempty"`
	Matches []any  `json:"matches,omitempty"`
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "get <file> <path>",
		Short: "Read a value from a container",
		Long: `Read the value at a dotted path, or every match of a JSONPath expression.

A path that does not exist prints null; it is not an error.

Examples:
  suiobject get person.json address.city
  suiobject get person.json users.0.name
  suiobject get person.json '$.users[*].name' --jsonpath`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.JSONPath, "jsonpath", false, "evaluate <path> as a JSONPath expression")

	return cmd
}

func runGet(opts *GetOptions, path, expr string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	obj, err := loader.Load(path, object.WithLogger(opts.logger()))
	if err != nil {
		return formatter.FailLoad(err)
	}

	result := GetResult{Path: expr}
	if opts.JSONPath {
		matches := obj.Query(expr)
		result.Matches = make([]any, len(matches))
		for i, m := range matches {
			result.Matches[i] = m.Export()
		}
		formatter.VerboseLog("%d match(es) for %s", len(matches), expr)
	} else {
		found := obj.Path(expr)
		result.Kind = found.Kind().String()
		result.Value = found.Export()
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	if opts.JSONPath {
		return formatter.Canonical(result.Matches)
	}
	return formatter.Canonical(result.Value)
}
