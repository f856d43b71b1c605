package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/suiobject/internal/canonical"
	"github.com/roach88/suiobject/internal/object"
)

// Snapshot describes a stored container.
type Snapshot struct {
	Name      string   `json:"name"`
	ID        string   `json:"id"`
	Kind      string   `json:"kind"`
	Data      string   `json:"data"`
	Functions []string `json:"functions"`
	Seq       int64    `json:"seq"`
}

// Invocation is one entry of the invocation log.
// Result is empty when the call failed; Error is empty when it succeeded.
type Invocation struct {
	ID       string `json:"id"`
	Function string `json:"function"`
	Arg      string `json:"arg"`
	Result   string `json:"result,omitempty"`
	Error    string `json:"error,omitempty"`
	Async    bool   `json:"async,omitempty"`
	Seq      int64  `json:"seq"`
}

// NewInvocation builds a log entry from a call's argument and outcome.
// Seq and ID are assigned by RecordInvocation.
func NewInvocation(function string, arg any, result *object.Object, callErr error, async bool) (Invocation, error) {
	argJSON, err := marshalValue(arg)
	if err != nil {
		return Invocation{}, fmt.Errorf("new invocation: %w", err)
	}
	inv := Invocation{Function: function, Arg: argJSON, Async: async}
	if callErr != nil {
		inv.Error = callErr.Error()
		return inv, nil
	}
	if result != nil {
		inv.Result, err = marshalValue(result)
		if err != nil {
			return Invocation{}, fmt.Errorf("new invocation: %w", err)
		}
	}
	return inv, nil
}

// SaveSnapshot stores obj under name, replacing any previous snapshot with
// that name. The snapshot gets the next seq.
func (s *Store) SaveSnapshot(ctx context.Context, name string, obj *object.Object) (Snapshot, error) {
	if name == "" {
		return Snapshot{}, fmt.Errorf("save snapshot: name is required")
	}

	data, id, err := marshalObject(obj)
	if err != nil {
		return Snapshot{}, fmt.Errorf("save snapshot %q: %w", name, err)
	}
	functions := obj.Functions()
	funcsJSON, err := marshalFunctions(functions)
	if err != nil {
		return Snapshot{}, fmt.Errorf("save snapshot %q: %w", name, err)
	}

	seq, err := s.LastSeq(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("save snapshot %q: %w", name, err)
	}
	seq++

	snap := Snapshot{
		Name:      name,
		ID:        id,
		Kind:      obj.Kind().String(),
		Data:      data,
		Functions: functions,
		Seq:       seq,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (name, id, kind, data, functions, seq)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			id = excluded.id,
			kind = excluded.kind,
			data = excluded.data,
			functions = excluded.functions,
			seq = excluded.seq
	`, snap.Name, snap.ID, snap.Kind, snap.Data, funcsJSON, snap.Seq)
	if err != nil {
		return Snapshot{}, fmt.Errorf("save snapshot %q: %w", name, err)
	}

	return snap, nil
}

// DeleteSnapshot removes the named snapshot. Returns ErrNotFound if it does
// not exist.
func (s *Store) DeleteSnapshot(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete snapshot %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("delete snapshot %q: %w", name, ErrNotFound)
	}
	return nil
}

// RecordInvocation appends inv to the log. A zero Seq is replaced by the
// next seq, and the ID is computed from function, argument and seq.
// Recording the same entry twice is a no-op.
func (s *Store) RecordInvocation(ctx context.Context, inv Invocation) (Invocation, error) {
	if inv.Function == "" {
		return Invocation{}, fmt.Errorf("record invocation: function is required")
	}
	if inv.Seq == 0 {
		seq, err := s.LastSeq(ctx)
		if err != nil {
			return Invocation{}, fmt.Errorf("record invocation: %w", err)
		}
		inv.Seq = seq + 1
	}

	id, err := canonical.InvocationID(inv.Function, inv.Arg, inv.Seq)
	if err != nil {
		return Invocation{}, fmt.Errorf("record invocation: %w", err)
	}
	inv.ID = id

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO invocations (id, function, arg, result, error, async, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, inv.ID, inv.Function, inv.Arg, nullString(inv.Result), nullString(inv.Error), inv.Async, inv.Seq)
	if err != nil {
		return Invocation{}, fmt.Errorf("record invocation: %w", err)
	}

	return inv, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
