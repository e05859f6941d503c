package store

import (
	"context"
	"errors"
	"testing"

	perr "glowdesk/internal/platform/errors"
)

// fakes implementing the tiny Row/Rows/CommandTag seams

type fakeTag struct {
	s string
	n int64
}

func (t fakeTag) String() string      { return t.s }
func (t fakeTag) RowsAffected() int64 { return t.n }

type fakeRow struct{ scan func(dest ...any) error }

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

type fakeRows struct {
	data [][]any
	idx  int
	err  error
	cols []string
}

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx <= len(r.data)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.idx-1]
	if len(row) != len(dest) {
		return errors.New("dest len mismatch")
	}
	for i := range dest {
		switch d := dest[i].(type) {
		case *int:
			d2, ok := row[i].(int)
			if !ok {
				return errors.New("type mismatch")
			}
			*d = d2
		case *string:
			d2, ok := row[i].(string)
			if !ok {
				return errors.New("type mismatch")
			}
			*d = d2
		default:
			return errors.New("unsupported dest")
		}
	}
	return nil
}

func (r *fakeRows) Err() error        { return r.err }
func (r *fakeRows) Close()            {}
func (r *fakeRows) Columns() []string { return r.cols }

type fakeQuerier struct {
	tag  fakeTag
	rows *fakeRows
	row  fakeRow
	err  error

	lastSQL  string
	lastArgs []any
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (CommandTag, error) {
	f.lastSQL, f.lastArgs = sql, args
	return f.tag, f.err
}

func (f *fakeQuerier) Query(_ context.Context, sql string, args ...any) (Rows, error) {
	f.lastSQL, f.lastArgs = sql, args
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) Row {
	f.lastSQL, f.lastArgs = sql, args
	return f.row
}

func TestExecOne(t *testing.T) {
	q := &fakeQuerier{tag: fakeTag{s: "UPDATE 1", n: 1}}
	if err := ExecOne(context.Background(), q, "UPDATE x"); err != nil {
		t.Fatalf("ExecOne = %v", err)
	}

	q = &fakeQuerier{tag: fakeTag{s: "UPDATE 2", n: 2}}
	if err := ExecOne(context.Background(), q, "UPDATE x"); err == nil {
		t.Fatal("ExecOne should fail when more than one row affected")
	}
}

func TestScalar(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{scan: func(dest ...any) error {
		*(dest[0].(*int)) = 7
		return nil
	}}}
	got, err := Scalar[int](context.Background(), q, "SELECT 7")
	if err != nil || got != 7 {
		t.Fatalf("Scalar = (%d, %v)", got, err)
	}
}

func TestOne(t *testing.T) {
	scan := func(r Row) (int, error) {
		var v int
		err := r.Scan(&v)
		return v, err
	}

	q := &fakeQuerier{rows: &fakeRows{data: [][]any{{42}}}}
	got, err := One(context.Background(), q, scan, "SELECT v")
	if err != nil || got != 42 {
		t.Fatalf("One = (%d, %v)", got, err)
	}

	// empty result maps to the project not-found sentinel
	q = &fakeQuerier{rows: &fakeRows{}}
	if _, err := One(context.Background(), q, scan, "SELECT v"); !errors.Is(err, perr.ErrNotFound) {
		t.Fatalf("One empty = %v, want ErrNotFound", err)
	}

	// more than one row is a programmer error
	q = &fakeQuerier{rows: &fakeRows{data: [][]any{{1}, {2}}}}
	if _, err := One(context.Background(), q, scan, "SELECT v"); err == nil {
		t.Fatal("One should fail on multiple rows")
	}
}

func TestMany(t *testing.T) {
	scan := func(r Row) (int, error) {
		var v int
		err := r.Scan(&v)
		return v, err
	}
	q := &fakeQuerier{rows: &fakeRows{data: [][]any{{1}, {2}, {3}}}}
	got, err := Many(context.Background(), q, scan, "SELECT v")
	if err != nil {
		t.Fatalf("Many = %v", err)
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("Many = %v", got)
	}

	// empty is fine and returns nil slice
	q = &fakeQuerier{rows: &fakeRows{}}
	got, err = Many(context.Background(), q, scan, "SELECT v")
	if err != nil || got != nil {
		t.Fatalf("Many empty = (%v, %v)", got, err)
	}
}
