package snapshots

import (
	"io"
	"reflect"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	ErrProtocol = errors.New("destination protocol violation")
)

// Protocol wraps a Destination and enforces its call order. Out of order
// calls fail with ErrProtocol and never reach the wrapped destination.
type Protocol struct {
	dest Destination

	metadataSet bool
	openTable   string
	open        io.Writer
	closed      bool

	log *logrus.Entry
}

func NewProtocol(dest Destination) *Protocol {
	return &Protocol{
		dest: dest,
		log:  logrus.WithField("pkg", "snapshots/protocol"),
	}
}

func (p *Protocol) SetMetadata(tables []string, descriptor *SnapshotDescriptor) error {
	if p.closed {
		return errors.Wrap(ErrProtocol, "set_metadata after close")
	}

	if p.metadataSet {
		return errors.Wrap(ErrProtocol, "set_metadata called twice")
	}

	if descriptor == nil {
		return errors.Wrap(ErrProtocol, "set_metadata requires a descriptor")
	}

	if err := p.dest.SetMetadata(tables, descriptor); err != nil {
		return err
	}

	p.metadataSet = true

	return nil
}

func (p *Protocol) GetTableFile(table string) (io.Writer, error) {
	switch {
	case p.closed:
		return nil, errors.Wrapf(ErrProtocol, "get_table_file(%s) after close", table)
	case !p.metadataSet:
		return nil, errors.Wrapf(ErrProtocol, "get_table_file(%s) before set_metadata", table)
	case p.open != nil:
		return nil, errors.Wrapf(ErrProtocol, "get_table_file(%s) while %s is still open", table, p.openTable)
	}

	w, err := p.dest.GetTableFile(table)
	if err != nil {
		return nil, err
	}

	if w == nil {
		return nil, errors.Wrapf(ErrProtocol, "destination returned no table file for %s", table)
	}

	p.open = w
	p.openTable = table

	return w, nil
}

func (p *Protocol) TableComplete(tableFile io.Writer) error {
	if p.closed {
		return errors.Wrap(ErrProtocol, "table_complete after close")
	}

	if p.open == nil {
		return errors.Wrap(ErrProtocol, "table_complete without an open table")
	}

	if !sameWriter(p.open, tableFile) {
		return errors.Wrapf(ErrProtocol, "table_complete for a stream other than %s", p.openTable)
	}

	if err := p.dest.TableComplete(tableFile); err != nil {
		return err
	}

	p.log.Debugf("Table '%s' complete", p.openTable)

	p.open = nil
	p.openTable = ""

	return nil
}

// Close closes the wrapped destination. Completing a dump that still has an
// open table aborts the destination instead and returns ErrProtocol.
func (p *Protocol) Close(state DumpState) error {
	if p.closed {
		return errors.Wrap(ErrProtocol, "close called twice")
	}

	p.closed = true

	if state == DumpCompleted && (p.open != nil || !p.metadataSet) {
		if err := p.dest.Close(DumpAborted); err != nil {
			p.log.Errorf("unable to abort destination: %s", err)
		}

		return errors.Wrap(ErrProtocol, "dump completed with incomplete output")
	}

	return p.dest.Close(state)
}

func sameWriter(a, b io.Writer) bool {
	if b == nil {
		return false
	}

	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}

	if !reflect.TypeOf(a).Comparable() {
		return true
	}

	return a == b
}
