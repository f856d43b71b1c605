package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/suiobject/internal/canonical"
	"github.com/roach88/suiobject/internal/loader"
	"github.com/roach88/suiobject/internal/object"
)

// Snapshot returns the metadata and data of the named snapshot.
// Returns ErrNotFound if it does not exist.
func (s *Store) Snapshot(ctx context.Context, name string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, id, kind, data, functions, seq
		FROM snapshots
		WHERE name = ?
	`, name)

	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("snapshot %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot %q: %w", name, err)
	}
	return snap, nil
}

// LoadSnapshot rebuilds the named container. The stored content hash is
// verified first. Functions are not restored; see Snapshot.Functions.
func (s *Store) LoadSnapshot(ctx context.Context, name string, configure ...func(*object.Object)) (*object.Object, error) {
	snap, err := s.Snapshot(ctx, name)
	if err != nil {
		return nil, err
	}

	obj, err := loader.LoadBytes([]byte(snap.Data), loader.FormatJSON, configure...)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", name, err)
	}

	id, err := canonical.SnapshotID(obj.Export())
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", name, err)
	}
	if id != snap.ID {
		return nil, fmt.Errorf("load snapshot %q: %w", name, ErrChecksumMismatch)
	}
	return obj, nil
}

// ListSnapshots returns all snapshots ordered by seq.
func (s *Store) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, id, kind, data, functions, seq
		FROM snapshots
		ORDER BY seq ASC, name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []Snapshot{}
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snapshots, nil
}

// Invocations returns the log ordered by seq. An empty function returns
// every entry.
func (s *Store) Invocations(ctx context.Context, function string) ([]Invocation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, function, arg, result, error, async, seq
		FROM invocations
		WHERE ? = '' OR function = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, function, function)
	if err != nil {
		return nil, fmt.Errorf("query invocations: %w", err)
	}
	defer rows.Close()

	invocations := []Invocation{}
	for rows.Next() {
		var inv Invocation
		var result, errText sql.NullString
		if err := rows.Scan(&inv.ID, &inv.Function, &inv.Arg, &result, &errText, &inv.Async, &inv.Seq); err != nil {
			return nil, fmt.Errorf("scan invocation: %w", err)
		}
		inv.Result = result.String
		inv.Error = errText.String
		invocations = append(invocations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invocations: %w", err)
	}
	return invocations, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (Snapshot, error) {
	var snap Snapshot
	var funcsJSON string
	if err := row.Scan(&snap.Name, &snap.ID, &snap.Kind, &snap.Data, &funcsJSON, &snap.Seq); err != nil {
		return Snapshot{}, err
	}
	functions, err := unmarshalFunctions(funcsJSON)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Functions = functions
	return snap, nil
}
