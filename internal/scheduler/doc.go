// Package scheduler provides the background execution contexts used by
// asynchronous container invocations.
//
// Two executors are available:
//
//   - Go runs every task on its own goroutine. Tasks may complete in any order.
//   - Loop runs tasks one at a time, in submission order, on the goroutine that
//     calls Run. It is the deterministic choice for tests and for callers that
//     want all functions of a container to run on a single worker.
//
// Loop thread-safety model:
//   - Submit(): safe from any goroutine
//   - Run(): must be called from exactly one goroutine
//   - Stop(): safe from any goroutine, idempotent
package scheduler
