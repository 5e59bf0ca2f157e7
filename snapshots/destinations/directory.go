package destinations

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/streamdal/cdc/snapshots"
)

const (
	MetadataFile = "metadata.json"
	TableFileExt = ".csv"
)

// Metadata is the metadata document stored next to the table files
type Metadata struct {
	*snapshots.SnapshotDescriptor
	CreatedAt time.Time `json:"created_at"`
}

// Directory writes every dump to <root>/<snapshot id>/: one CSV file per
// table plus metadata.json. An aborted dump leaves nothing behind.
type Directory struct {
	root string
	dir  string
	open *os.File
	log  *logrus.Entry
}

func NewDirectory(root string) (*Directory, error) {
	if root == "" {
		return nil, ErrMissingOutputDir
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, errors.Wrap(err, "unable to create output dir")
	}

	return &Directory{
		root: root,
		log:  logrus.WithField("pkg", "destinations/directory"),
	}, nil
}

// Path returns the snapshot directory. Empty until metadata is set.
func (d *Directory) Path() string {
	return d.dir
}

func (d *Directory) SetMetadata(_ []string, descriptor *snapshots.SnapshotDescriptor) error {
	dir := filepath.Join(d.root, string(descriptor.Id))

	if err := os.Mkdir(dir, 0755); err != nil {
		return errors.Wrap(err, "unable to create snapshot dir")
	}

	d.dir = dir

	data, err := json.MarshalIndent(&Metadata{
		SnapshotDescriptor: descriptor,
		CreatedAt:          time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "unable to encode metadata")
	}

	if err := ioutil.WriteFile(filepath.Join(dir, MetadataFile), data, 0644); err != nil {
		return errors.Wrap(err, "unable to write metadata")
	}

	return nil
}

func (d *Directory) GetTableFile(table string) (io.Writer, error) {
	f, err := os.Create(filepath.Join(d.dir, TableFileName(table)))
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create file for table '%s'", table)
	}

	d.open = f

	return f, nil
}

func (d *Directory) TableComplete(_ io.Writer) error {
	f := d.open
	d.open = nil

	if f == nil {
		return nil
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return errors.Wrap(err, "unable to sync table file")
	}

	return errors.Wrap(f.Close(), "unable to close table file")
}

func (d *Directory) Close(state snapshots.DumpState) error {
	if d.open != nil {
		d.open.Close()
		d.open = nil
	}

	if state == snapshots.DumpCompleted || d.dir == "" {
		return nil
	}

	d.log.Debugf("Removing aborted snapshot dir '%s'", d.dir)

	if err := os.RemoveAll(d.dir); err != nil {
		return errors.Wrap(err, "unable to remove aborted snapshot")
	}

	return nil
}

// TableFileName returns the file name used for a table's CSV
func TableFileName(table string) string {
	return strings.NewReplacer("/", "_", string(os.PathSeparator), "_").Replace(table) + TableFileExt
}
