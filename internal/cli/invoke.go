package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/suiobject/internal/builtins"
	"github.com/roach88/suiobject/internal/loader"
	"github.com/roach88/suiobject/internal/object"
	"github.com/roach88/suiobject/internal/store"
)

// InvokeOptions holds flags for the invoke command.
type InvokeOptions struct {
	*RootOptions
	Arg      string // argument as JSON
	Var      string // internal value name used as the argument
	Async    bool   // run through Async and surface failures
	Database string // optional invocation log
}

// InvokeResult holds the outcome of one invocation.
type InvokeResult struct {
	Function string `json:"function"`
	Arg      any    `json:"arg"`
	Result   any    `json:"result"`
	Error    string `json:"error,omitempty"`
	Async    bool   `json:"async,omitempty"`
	Seq      int64  `json:"seq,omitempty"`
}

// NewInvokeCommand creates the invoke command.
func NewInvokeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InvokeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "invoke <file> <function>",
		Short: "Invoke a builtin function on a container",
		Long: `Load a file into a container, register the builtin functions and invoke one.

Synchronous calls never fail: a failing function yields an empty result.
With --async the failure is reported and the command exits with code 1.

Builtins: ` + fmt.Sprint(builtins.Names()) + `

Examples:
  suiobject invoke person.json upper --arg '"ada"'
  suiobject invoke person.json keys --var address
  suiobject invoke person.json fail --async --db log.db`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvoke(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Arg, "arg", "", "argument as JSON")
	cmd.Flags().StringVar(&opts.Var, "var", "", "use the named value of the container as the argument")
	cmd.Flags().BoolVar(&opts.Async, "async", false, "invoke asynchronously and report failures")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the invocation in this SQLite database")
	cmd.MarkFlagsMutuallyExclusive("arg", "var")

	return cmd
}

func runInvoke(opts *InvokeOptions, path, function string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger()

	if _, ok := builtins.Lookup(function); !ok {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArgs,
			fmt.Sprintf("unknown function %q (available: %v)", function, builtins.Names()), nil)
	}

	obj, err := loader.Load(path, object.WithLogger(logger))
	if err != nil {
		return formatter.FailLoad(err)
	}
	builtins.RegisterAll(obj)

	var arg any
	switch {
	case opts.Var != "":
		arg = obj.Variable(opts.Var)
	case opts.Arg != "":
		argObj, err := loader.LoadBytes([]byte(opts.Arg), loader.FormatJSON)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeInvalidArgs, "invalid --arg JSON", err)
		}
		arg = argObj.Export()
	}

	logger.Debug("invoking function", "function", function, "async", opts.Async)

	var (
		out     *object.Object
		callErr error
	)
	if opts.Async {
		var f *object.Future
		if opts.Var != "" {
			f = obj.AsyncWith(function, opts.Var)
		} else {
			f = obj.Async(function, arg)
		}
		out, callErr = f.Await(cmd.Context())
	} else if opts.Var != "" {
		out = obj.RunWith(function, opts.Var)
	} else {
		out = obj.Run(function, arg)
	}

	result := InvokeResult{Function: function, Async: opts.Async}
	result.Arg = arg
	if argObj, ok := arg.(*object.Object); ok {
		result.Arg = argObj.Export()
	}
	if out != nil {
		result.Result = out.Export()
	}
	if callErr != nil {
		result.Error = callErr.Error()
	}

	if opts.Database != "" {
		seq, err := recordInvocation(cmd, opts.Database, function, arg, out, callErr, opts.Async)
		if err != nil {
			return formatter.FailStore("failed to record invocation", err)
		}
		result.Seq = seq
		formatter.VerboseLog("Recorded invocation at seq %d", seq)
	}

	if callErr != nil {
		return formatter.Fail(ExitFailure, ErrCodeInvocation,
			fmt.Sprintf("%s failed", function), callErr)
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return formatter.Canonical(result.Result)
}

func recordInvocation(cmd *cobra.Command, dbPath, function string, arg any, out *object.Object, callErr error, async bool) (int64, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer st.Close()

	inv, err := store.NewInvocation(function, arg, out, callErr, async)
	if err != nil {
		return 0, err
	}
	inv, err = st.RecordInvocation(cmd.Context(), inv)
	if err != nil {
		return 0, err
	}
	return inv.Seq, nil
}
