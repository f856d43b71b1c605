package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/suiobject/internal/canonical"
)

// Snapshot renders the golden form of a result: the scenario name, the
// trace and the final container, as canonical JSON.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	return canonical.Marshal(map[string]any{
		"scenario_name": scenarioName,
		"trace":         traceToCanonical(result.Trace),
		"final":         result.Final,
	})
}

// traceToCanonical converts trace events to maps, omitting empty fields.
func traceToCanonical(trace []TraceEvent) []any {
	out := make([]any, len(trace))
	for i, event := range trace {
		eventMap := map[string]any{
			"seq": event.Seq,
			"op":  event.Op,
		}
		if event.Function != "" {
			eventMap["function"] = event.Function
		}
		if event.Target != "" {
			eventMap["target"] = event.Target
		}
		if event.Arg != nil {
			eventMap["arg"] = event.Arg
		}
		if event.Result != nil {
			eventMap["result"] = event.Result
		}
		if event.Error != "" {
			eventMap["error"] = event.Error
		}
		out[i] = eventMap
	}
	return out
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
