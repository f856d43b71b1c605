package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/suiobject/internal/builtins"
	"github.com/roach88/suiobject/internal/loader"
	"github.com/roach88/suiobject/internal/object"
	"github.com/roach88/suiobject/internal/scheduler"
	"github.com/roach88/suiobject/internal/store"
	"github.com/roach88/suiobject/internal/testutil"
)

// Harness executes scenario steps against one container.
type Harness struct {
	store  *store.Store
	clock  *testutil.DeterministicClock
	ids    *testutil.FixedIDGenerator
	loop   *scheduler.Loop
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Build the container from input or input_file
// 2. Register the listed builtins
// 3. Execute steps, checking expect clauses as they go
// 4. Evaluate assertions against the final container
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	h := &Harness{
		store:  st,
		clock:  testutil.NewDeterministicClock(),
		ids:    testutil.NewFixedIDGenerator("id"),
		loop:   scheduler.NewLoop(scheduler.WithLogger(logger)),
		logger: logger,
	}
	defer h.loop.Stop()

	obj, err := h.newContainer(scenario)
	if err != nil {
		return nil, err
	}
	if err := builtins.Register(obj, scenario.Functions...); err != nil {
		return nil, fmt.Errorf("failed to register functions: %w", err)
	}

	ctx := context.Background()
	result := NewResult()

	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, obj, i, step, result); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
	}

	for _, errMsg := range EvaluateAssertions(obj, scenario.Assertions) {
		result.AddError(errMsg)
	}

	result.Final = obj.Export()
	result.Invocations, err = st.Invocations(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to read invocations: %w", err)
	}

	return result, nil
}

func (h *Harness) configure() []func(*object.Object) {
	return []func(*object.Object){
		object.WithLogger(h.logger),
		object.WithIDGenerator(h.ids),
		object.WithExecutor(h.loop),
	}
}

func (h *Harness) newContainer(scenario *Scenario) (*object.Object, error) {
	if scenario.InputFile != "" {
		obj, err := loader.Load(scenario.InputFile, h.configure()...)
		if err != nil {
			return nil, fmt.Errorf("failed to load input: %w", err)
		}
		return obj, nil
	}
	return object.New(loader.Plain(scenario.Input), h.configure()...), nil
}

// executeStep runs one step, appends its trace event and records
// invocations in the store.
//
// Each step takes exactly one tick of the logical clock.
func (h *Harness) executeStep(ctx context.Context, obj *object.Object, index int, step Step, result *Result) error {
	seq := h.clock.Next()
	value := loader.Plain(step.Value)

	event := TraceEvent{Seq: seq, Op: step.Op, Function: step.Function}

	var (
		out     *object.Object
		callErr error
		arg     any
	)

	switch step.Op {
	case OpAdd:
		obj.Add(step.Name, value)
		event.Target = step.Name
		event.Arg = value
	case OpAddValue:
		obj.AddValue(value)
		event.Arg = value
	case OpAddChild:
		child := object.New(value, h.configure()...)
		obj.AddChild(child)
		event.Arg = child.Export()
	case OpAddArray:
		values, _ := value.([]any)
		obj.AddArray(values)
		event.Arg = value
	case OpConsume:
		other := object.New(value, h.configure()...)
		obj.Consume(other)
		event.Arg = other.Export()
	case OpRemove:
		obj.Remove(step.Name)
		event.Target = step.Name
	case OpRun:
		arg = value
		out = obj.Run(step.Function, value)
	case OpRunWith:
		arg = obj.Variable(step.Var)
		event.Target = step.Var
		out = obj.RunWith(step.Function, step.Var)
	case OpAsync:
		var f *object.Future
		if step.Var != "" {
			arg = obj.Variable(step.Var)
			event.Target = step.Var
			f = obj.AsyncWith(step.Function, step.Var)
		} else {
			arg = value
			f = obj.Async(step.Function, value)
		}
		h.loop.RunPending()
		out, callErr = f.Result()
		if errors.Is(callErr, object.ErrPending) {
			return fmt.Errorf("async call to %q did not settle", step.Function)
		}
	case OpRelease:
		obj.Release()
	case OpGet:
		out = obj.Path(step.Path)
		event.Target = step.Path
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}

	if arg != nil {
		event.Arg = exportOf(arg)
	}
	if out != nil {
		event.Result = out.Export()
		if step.As != "" {
			obj.Add(step.As, out)
		}
	}
	if callErr != nil {
		event.Error = callErr.Error()
	}
	result.AddTrace(event)

	if step.Function != "" {
		if err := h.record(ctx, step, arg, out, callErr, seq); err != nil {
			return err
		}
	}

	if step.Expect != nil {
		where := fmt.Sprintf("steps[%d] (%s)", index, step.Op)
		for _, msg := range checkExpect(where, out, callErr, *step.Expect) {
			result.AddError(msg)
		}
	}

	return nil
}

func (h *Harness) record(ctx context.Context, step Step, arg any, out *object.Object, callErr error, seq int64) error {
	inv, err := store.NewInvocation(step.Function, arg, out, callErr, step.Op == OpAsync)
	if err != nil {
		return fmt.Errorf("failed to build invocation record: %w", err)
	}
	inv.Seq = seq
	if _, err := h.store.RecordInvocation(ctx, inv); err != nil {
		return fmt.Errorf("failed to record invocation: %w", err)
	}
	return nil
}

func exportOf(v any) any {
	if obj, ok := v.(*object.Object); ok {
		return obj.Export()
	}
	return v
}
