package snapshots

import (
	"bufio"
	"context"
	"time"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"

	"github.com/streamdal/cdc/prometheus"
	"github.com/streamdal/cdc/snapshots/encoding"
)

var (
	ErrNoTables      = errors.New("at least one table is required")
	ErrMissingOpener = errors.New("session opener cannot be nil")
)

// Dumper implements the dump algorithm shared by all snapshot sources: open
// an isolated session, record its boundary, then stream every table as CSV
// into the destination.
type Dumper struct {
	opener SessionOpener
	newId  func() SnapshotId
	log    *logrus.Entry
}

func NewDumper(opener SessionOpener) (*Dumper, error) {
	if opener == nil {
		return nil, ErrMissingOpener
	}

	return &Dumper{
		opener: opener,
		newId:  NewSnapshotId,
		log:    logrus.WithField("pkg", "snapshots"),
	}, nil
}

// NewSnapshotId returns a new time based snapshot id
func NewSnapshotId() SnapshotId {
	return SnapshotId(uuid.NewV1().String())
}

// Dump writes a consistent copy of tables to dest. The destination is always
// closed before Dump returns: with DumpCompleted on success and DumpAborted
// otherwise.
func (d *Dumper) Dump(ctx context.Context, dest Destination, tables []string) (*SnapshotDescriptor, error) {
	guard := NewProtocol(dest)

	started := time.Now()

	descriptor, err := d.dump(ctx, guard, tables)

	state := DumpCompleted
	if err != nil {
		state = DumpAborted
	}

	if closeErr := guard.Close(state); closeErr != nil {
		if err == nil {
			err = errors.Wrap(closeErr, "unable to close destination")
		} else {
			d.log.Errorf("unable to close destination after failed dump: %s", closeErr)
		}
	}

	if err != nil {
		prometheus.Incr(prometheus.SnapshotFailures, 1)
		return nil, err
	}

	d.log.Infof("Snapshot %s of %d table(s) completed in %s", descriptor.Id, len(tables), time.Since(started))

	return descriptor, nil
}

func (d *Dumper) dump(ctx context.Context, dest Destination, tables []string) (*SnapshotDescriptor, error) {
	if len(tables) == 0 {
		return nil, ErrNoTables
	}

	session, err := d.opener.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open snapshot session")
	}

	committed := false

	defer func() {
		if committed {
			return
		}

		if err := session.Rollback(ctx); err != nil {
			d.log.Warningf("unable to roll back snapshot session: %s", err)
		}
	}()

	xmin, xmax, err := session.Boundary(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read snapshot boundary")
	}

	descriptor := &SnapshotDescriptor{
		Id:     d.newId(),
		Xmin:   xmin,
		Xmax:   xmax,
		Tables: append([]string{}, tables...),
	}

	d.log.Debugf("Starting %s", descriptor)

	if err := dest.SetMetadata(descriptor.Tables, descriptor); err != nil {
		return nil, errors.Wrap(err, "unable to set destination metadata")
	}

	for _, table := range tables {
		if err := d.dumpTable(ctx, session, dest, table); err != nil {
			return nil, errors.Wrapf(err, "unable to dump table '%s'", table)
		}
	}

	if err := session.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "unable to end snapshot session")
	}

	committed = true

	return descriptor, nil
}

func (d *Dumper) dumpTable(ctx context.Context, session Session, dest Destination, table string) error {
	columns, err := session.Columns(ctx, table)
	if err != nil {
		return errors.Wrap(err, "unable to read columns")
	}

	if len(columns) == 0 {
		return errors.Errorf("table '%s' has no columns", table)
	}

	tableFile, err := dest.GetTableFile(table)
	if err != nil {
		return errors.Wrap(err, "unable to get table file")
	}

	w := bufio.NewWriter(tableFile)

	if err := encoding.WriteHeader(w, columns); err != nil {
		return errors.Wrap(err, "unable to write header")
	}

	var rows int64

	err = session.StreamRows(ctx, table, columns, func(row []*string) error {
		if len(row) != len(columns) {
			return errors.Errorf("expected %d values, got %d", len(columns), len(row))
		}

		rows++

		return encoding.WriteRow(w, row)
	})
	if err != nil {
		return errors.Wrap(err, "unable to stream rows")
	}

	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "unable to flush table file")
	}

	if err := dest.TableComplete(tableFile); err != nil {
		return errors.Wrap(err, "unable to complete table")
	}

	d.log.Debugf("Dumped %d row(s) from '%s'", rows, table)

	prometheus.Incr(prometheus.SnapshotRows, float64(rows))
	prometheus.Incr(prometheus.SnapshotTables, 1)

	return nil
}
