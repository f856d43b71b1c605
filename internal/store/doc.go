// Package store provides SQLite-backed persistence for containers.
//
// Two tables are kept:
//   - snapshots: named containers, stored as canonical JSON with a content
//     hash and the names of the functions registered at save time
//   - invocations: an append-only log of function calls and their outcomes
//
// # Ordering
//
// Every row carries a seq INTEGER from a logical clock shared by both
// tables. Queries order by seq, never by wall time, so a log replayed into
// a fresh database lists identically.
//
// # Integrity
//
// Snapshot IDs are computed with canonical.SnapshotID. LoadSnapshot
// recomputes the ID from the stored JSON and refuses rows that no longer
// match.
//
// Functions are closures and cannot be persisted. Only their names are
// stored; callers re-register them after loading (see builtins.Register).
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
