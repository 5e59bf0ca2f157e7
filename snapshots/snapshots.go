// Package snapshots takes transaction-consistent dumps of source tables so
// that downstream consumers can bootstrap before replication starts.
//
// A dump runs inside a single isolated read transaction (a Session). Its
// visibility boundary is recorded in a SnapshotDescriptor which is handed to
// the Destination before any table data.
package snapshots

import (
	"context"
	"fmt"
	"io"
)

// SnapshotId uniquely identifies a dump
type SnapshotId string

// Xid is a source transaction id
type Xid uint64

// SnapshotDescriptor describes a finished (or in-progress) dump. If no write
// transaction was active on the source while the session was opened, Xmin
// equals Xmax.
type SnapshotDescriptor struct {
	Id     SnapshotId `json:"id"`
	Xmin   Xid        `json:"xmin"`
	Xmax   Xid        `json:"xmax"`
	Tables []string   `json:"tables"`
}

func (d *SnapshotDescriptor) String() string {
	return fmt.Sprintf("<Snapshot %s xmin=%d xmax=%d tables=%v>", d.Id, d.Xmin, d.Xmax, d.Tables)
}

// Consistent reports whether the dump was taken with no concurrent writer
func (d *SnapshotDescriptor) Consistent() bool {
	return d.Xmin == d.Xmax
}

// DumpState is the terminal outcome of a dump
type DumpState int

const (
	DumpCompleted DumpState = iota
	DumpAborted
)

func (s DumpState) String() string {
	switch s {
	case DumpCompleted:
		return "completed"
	case DumpAborted:
		return "aborted"
	}

	return fmt.Sprintf("dump_state(%d)", int(s))
}

// Destination receives the output of a dump. Within one dump it is called in
// this order: SetMetadata once, then GetTableFile/TableComplete for every
// table in turn, then Close exactly once. Close is also called when the dump
// fails, with DumpAborted.
//
//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 . Destination
type Destination interface {
	SetMetadata(tables []string, descriptor *SnapshotDescriptor) error
	GetTableFile(table string) (io.Writer, error)
	TableComplete(tableFile io.Writer) error
	Close(state DumpState) error
}

// Session is an open isolated read transaction against the source.
//
//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 . Session
type Session interface {
	// Boundary returns the transaction visibility boundary of the session
	Boundary(ctx context.Context) (xmin, xmax Xid, err error)

	// Columns returns the column names of a table, in table order
	Columns(ctx context.Context, table string) ([]string, error)

	// StreamRows calls fn for every row of the table as seen by the session.
	// Values are in the order of columns; nil means NULL.
	StreamRows(ctx context.Context, table string, columns []string, fn func(row []*string) error) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// SessionOpener opens a new Session
//
//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 . SessionOpener
type SessionOpener interface {
	Begin(ctx context.Context) (Session, error)
}

// Snapshotter takes a snapshot of the given tables and stores it in the
// destination.
type Snapshotter interface {
	Name() string
	Dump(ctx context.Context, dest Destination, tables []string) (*SnapshotDescriptor, error)
}
