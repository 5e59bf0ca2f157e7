// Package destinations contains the snapshot Destination implementations
package destinations

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/streamdal/cdc/snapshots"
)

const (
	StreamType    = "stream"
	DirectoryType = "directory"
	S3Type        = "s3"
)

var (
	ErrUnknownDestination = errors.New("unknown snapshot destination")
	ErrMissingOutputDir   = errors.New("output dir cannot be empty")
	ErrMissingBucket      = errors.New("s3 bucket cannot be empty")
)

type Config struct {
	Type string `json:"type"`

	// directory
	OutputDir string `json:"output_dir,omitempty"`

	// s3
	S3Bucket string `json:"s3_bucket,omitempty"`
	S3Prefix string `json:"s3_prefix,omitempty"`
	S3Region string `json:"s3_region,omitempty"`

	// stream; defaults to stdout
	Writer io.Writer `json:"-"`
}

// New creates a fresh destination for a single dump
func New(ctx context.Context, cfg *Config) (snapshots.Destination, error) {
	if cfg == nil {
		return nil, errors.New("destination config cannot be nil")
	}

	switch cfg.Type {
	case StreamType, "":
		w := cfg.Writer
		if w == nil {
			w = os.Stdout
		}

		return NewStream(w), nil
	case DirectoryType:
		return NewDirectory(cfg.OutputDir)
	case S3Type:
		return NewS3(ctx, cfg)
	}

	return nil, errors.Wrapf(ErrUnknownDestination, "'%s'", cfg.Type)
}
