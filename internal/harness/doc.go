// Package harness runs scripted container scenarios.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	input: { user: { name: ada } }   # or input_file: payload.json
//	functions: [upper, fail]          # builtins to register
//	steps:
//	  - op: run_with
//	    function: upper
//	    var: greeting
//	    expect: { kind: value, string: "HI" }
//	  - op: async
//	    function: fail
//	    expect: { error: "requested failure" }
//	assertions:
//	  - path: user
//	    keys: [name]
//
// # Step Operations
//
//   - add: store value under name
//   - add_value: store value in the scalar slot
//   - add_child: store a container built from value as the nested object
//   - add_array: store value (a sequence) under the array key
//   - consume: merge a container built from value
//   - remove: delete name
//   - run: Run function with value
//   - run_with: RunWith function and var
//   - async: Async function with value (or AsyncWith when var is set)
//   - release: Release the container
//   - get: read path
//
// Steps that produce a container may carry an expect clause and may store
// their result with as.
//
// # Deterministic Testing
//
// Every scenario runs with:
//   - a deterministic logical clock (testutil.DeterministicClock) stamping
//     each step
//   - fixed identifiers (testutil.FixedIDGenerator) for empty-key
//     substitution
//   - a single-worker scheduler.Loop that is drained after each async step
//   - an in-memory SQLite store recording every invocation
//
// so the trace and the final container are reproducible and can be compared
// against golden files (see RunWithGolden).
package harness
