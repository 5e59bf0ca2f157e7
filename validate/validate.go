// Package validate contains validation functions for the runtime config
package validate

import (
	"github.com/pkg/errors"

	"github.com/streamdal/cdc/backends"
	"github.com/streamdal/cdc/config"
	"github.com/streamdal/cdc/producers"
	"github.com/streamdal/cdc/snapshots"
	"github.com/streamdal/cdc/snapshots/destinations"
)

var (
	ErrMissingConfig            = errors.New("config cannot be nil")
	ErrMissingReplicateConfig   = errors.New("replicate config cannot be nil")
	ErrMissingSnapshotConfig    = errors.New("snapshot config cannot be nil")
	ErrMissingTables            = errors.New("at least one '--table' is required")
	ErrMissingDSN               = errors.New("'--dsn' cannot be empty")
	ErrMissingDestinationConfig = errors.New("destination config cannot be nil")
	ErrInvalidRetries           = errors.New("'--retries' cannot be negative")
	ErrInvalidFlushBatchSize    = errors.New("'--flush-batch-size' cannot be negative")
)

func ReplicateConfig(cfg *config.Config) error {
	if cfg == nil {
		return ErrMissingConfig
	}

	rc := cfg.Replicate
	if rc == nil {
		return ErrMissingReplicateConfig
	}

	if !contains(backends.Names(), rc.Backend) {
		return errors.Errorf("unknown backend '%s' (supported: %v)", rc.Backend, backends.Names())
	}

	if !contains(producers.Names(), rc.Producer) {
		return errors.Errorf("unknown producer '%s' (supported: %v)", rc.Producer, producers.Names())
	}

	if rc.Consumer != nil && rc.Consumer.FlushBatchSize < 0 {
		return ErrInvalidFlushBatchSize
	}

	return nil
}

func SnapshotConfig(cfg *config.Config) error {
	if cfg == nil {
		return ErrMissingConfig
	}

	sc := cfg.Snapshot
	if sc == nil {
		return ErrMissingSnapshotConfig
	}

	if !contains(snapshots.Sources(), sc.Source) {
		return errors.Errorf("unknown snapshot source '%s' (supported: %v)", sc.Source, snapshots.Sources())
	}

	if len(sc.Tables) == 0 {
		return ErrMissingTables
	}

	if sc.Connection == nil || sc.Connection.DSN == "" {
		return ErrMissingDSN
	}

	if sc.Retries < 0 {
		return ErrInvalidRetries
	}

	return DestinationConfig(sc.Destination)
}

func DestinationConfig(cfg *destinations.Config) error {
	if cfg == nil {
		return ErrMissingDestinationConfig
	}

	switch cfg.Type {
	case destinations.StreamType, "":
	case destinations.DirectoryType:
		if cfg.OutputDir == "" {
			return destinations.ErrMissingOutputDir
		}
	case destinations.S3Type:
		if cfg.S3Bucket == "" {
			return destinations.ErrMissingBucket
		}
	default:
		return errors.Wrapf(destinations.ErrUnknownDestination, "'%s'", cfg.Type)
	}

	return nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}

	return false
}
