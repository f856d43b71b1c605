package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/suiobject/internal/builtins"
	"github.com/roach88/suiobject/internal/loader"
	"github.com/roach88/suiobject/internal/object"
	"github.com/roach88/suiobject/internal/store"
)

// SnapshotOptions holds flags shared by the snapshot subcommands.
type SnapshotOptions struct {
	*RootOptions
	Database  string
	Functions []string // builtins to register before saving
}

// SnapshotResult is the JSON payload for save and load.
type SnapshotResult struct {
	Name      string   `json:"name"`
	ID        string   `json:"id"`
	Kind      string   `json:"kind"`
	Functions []string `json:"functions"`
	Seq       int64    `json:"seq"`
	Value     any      `json:"value,omitempty"`
}

// NewSnapshotCommand creates the snapshot command and its subcommands.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save and restore containers in a SQLite database",
		Long: `Persist containers as canonical JSON with a content hash.

Functions cannot be stored. Their names are kept, and builtins with those
names are registered again when a snapshot is loaded.

Examples:
  suiobject snapshot save person person.json --db state.db --functions upper,keys
  suiobject snapshot load person --db state.db
  suiobject snapshot list --db state.db
  suiobject snapshot delete person --db state.db`,
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	save := &cobra.Command{
		Use:           "save <name> <file>",
		Short:         "Load a file and store it under name",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotSave(opts, args[0], args[1], cmd)
		},
	}
	save.Flags().StringSliceVar(&opts.Functions, "functions", nil, "builtins to register before saving")

	cmd.AddCommand(save)
	cmd.AddCommand(&cobra.Command{
		Use:           "load <name>",
		Short:         "Print a stored container",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotLoad(opts, args[0], cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List stored containers in seq order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotList(opts, cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "delete <name>",
		Short:         "Remove a stored container",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotDelete(opts, args[0], cmd)
		},
	})

	return cmd
}

// withStore opens the database, runs fn and closes it again.
func withStore(opts *SnapshotOptions, formatter *OutputFormatter, fn func(*store.Store) error) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.FailStore("failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			opts.logger().Error("error closing database", "error", closeErr)
		}
	}()
	return fn(st)
}

func runSnapshotSave(opts *SnapshotOptions, name, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	obj, err := loader.Load(path, object.WithLogger(opts.logger()))
	if err != nil {
		return formatter.FailLoad(err)
	}
	if err := builtins.Register(obj, opts.Functions...); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArgs, "invalid --functions", err)
	}

	return withStore(opts, formatter, func(st *store.Store) error {
		snap, err := st.SaveSnapshot(cmd.Context(), name, obj)
		if err != nil {
			return formatter.FailStore("failed to save snapshot", err)
		}
		opts.logger().Debug("snapshot saved", "name", snap.Name, "id", snap.ID, "seq", snap.Seq)

		if opts.Format == "json" {
			return formatter.Success(snapshotResult(snap, nil))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s, seq %d)\n", snap.Name, snap.Kind, snap.Seq)
		return nil
	})
}

func runSnapshotLoad(opts *SnapshotOptions, name string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	return withStore(opts, formatter, func(st *store.Store) error {
		snap, err := st.Snapshot(cmd.Context(), name)
		if err != nil {
			return formatter.FailStore(fmt.Sprintf("failed to load snapshot %q", name), err)
		}
		obj, err := st.LoadSnapshot(cmd.Context(), name, object.WithLogger(opts.logger()))
		if err != nil {
			return formatter.FailStore(fmt.Sprintf("failed to load snapshot %q", name), err)
		}

		// Names outside the builtin set cannot be restored.
		for _, fn := range snap.Functions {
			if err := builtins.Register(obj, fn); err != nil {
				opts.logger().Warn("function not restored", "snapshot", name, "function", fn)
			}
		}

		if opts.Format == "json" {
			result := snapshotResult(snap, obj.Export())
			result.Functions = obj.Functions()
			return formatter.Success(result)
		}
		return formatter.Canonical(obj.Export())
	})
}

func runSnapshotList(opts *SnapshotOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	return withStore(opts, formatter, func(st *store.Store) error {
		snaps, err := st.ListSnapshots(cmd.Context())
		if err != nil {
			return formatter.FailStore("failed to list snapshots", err)
		}

		if opts.Format == "json" {
			results := make([]SnapshotResult, len(snaps))
			for i, snap := range snaps {
				results[i] = snapshotResult(snap, nil)
			}
			return formatter.Success(results)
		}

		if len(snaps) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No snapshots.")
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SEQ\tNAME\tKIND\tID")
		for _, snap := range snaps {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", snap.Seq, snap.Name, snap.Kind, snap.ID)
		}
		return tw.Flush()
	})
}

func runSnapshotDelete(opts *SnapshotOptions, name string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	return withStore(opts, formatter, func(st *store.Store) error {
		if err := st.DeleteSnapshot(cmd.Context(), name); err != nil {
			return formatter.FailStore(fmt.Sprintf("failed to delete snapshot %q", name), err)
		}
		if opts.Format == "json" {
			return formatter.Success(map[string]string{"deleted": name})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", name)
		return nil
	})
}

func snapshotResult(snap store.Snapshot, value any) SnapshotResult {
	return SnapshotResult{
		Name:      snap.Name,
		ID:        snap.ID,
		Kind:      snap.Kind,
		Functions: snap.Functions,
		Seq:       snap.Seq,
		Value:     value,
	}
}
