package destinations

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/streamdal/cdc/snapshots"
)

const (
	EndTableMarker        = "END TABLE"
	SnapshotOverMarker    = "SNAPSHOT OVER"
	SnapshotAbortedMarker = "SNAPSHOT ABORTED"
)

// Stream writes a whole dump to a single writer:
//
//	META ["users","orders"] <snapshot id> <xmin> <xmax>
//	START users
//	<csv>
//	END TABLE
//	...
//	SNAPSHOT OVER
type Stream struct {
	w io.Writer
}

func NewStream(w io.Writer) *Stream {
	return &Stream{w: w}
}

func (s *Stream) SetMetadata(tables []string, descriptor *snapshots.SnapshotDescriptor) error {
	encoded, err := json.Marshal(tables)
	if err != nil {
		return errors.Wrap(err, "unable to encode table list")
	}

	_, err = fmt.Fprintf(s.w, "META %s %s %d %d\n", encoded, descriptor.Id, descriptor.Xmin, descriptor.Xmax)

	return errors.Wrap(err, "unable to write metadata")
}

func (s *Stream) GetTableFile(table string) (io.Writer, error) {
	if _, err := fmt.Fprintf(s.w, "START %s\n", table); err != nil {
		return nil, errors.Wrap(err, "unable to write table start")
	}

	return s.w, nil
}

func (s *Stream) TableComplete(_ io.Writer) error {
	_, err := fmt.Fprintln(s.w, EndTableMarker)
	return errors.Wrap(err, "unable to write table end")
}

func (s *Stream) Close(state snapshots.DumpState) error {
	marker := SnapshotOverMarker
	if state != snapshots.DumpCompleted {
		marker = SnapshotAbortedMarker
	}

	_, err := fmt.Fprintln(s.w, marker)

	return errors.Wrap(err, "unable to write close marker")
}
