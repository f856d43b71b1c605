package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/suiobject/internal/loader"
	"github.com/roach88/suiobject/internal/object"
)

// InspectResult describes a loaded container.
type InspectResult struct {
	File   string   `json:"file"`
	Format string   `json:"format"`
	Kind   string   `json:"kind"`
	Keys   []string `json:"keys"`
	Value  any      `json:"value"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Load a file and describe the container",
		Long: `Load a JSON, YAML or CUE file into a container and print its shape.

Any other extension is loaded as raw bytes into the scalar slot.

Examples:
  suiobject inspect person.json
  suiobject inspect config.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runInspect(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	obj, err := loader.Load(path, object.WithLogger(opts.logger()))
	if err != nil {
		return formatter.FailLoad(err)
	}
	formatter.VerboseLog("Loaded %s (%s)", path, loader.DetectFormat(path))

	result := InspectResult{
		File:   path,
		Format: string(loader.DetectFormat(path)),
		Kind:   obj.Kind().String(),
		Keys:   obj.Keys(),
		Value:  obj.Export(),
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "File:   %s\n", result.File)
	fmt.Fprintf(w, "Format: %s\n", result.Format)
	fmt.Fprintf(w, "Kind:   %s\n", result.Kind)
	fmt.Fprintf(w, "Keys:   %s\n", strings.Join(result.Keys, ", "))
	if desc := obj.String(); desc != "" {
		fmt.Fprintln(w, desc)
	}
	return nil
}
