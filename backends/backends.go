// Package backends instantiates replication log backends by name
package backends

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/streamdal/cdc/backends/kafka"
	"github.com/streamdal/cdc/backends/postgres"
	"github.com/streamdal/cdc/backends/rstreams"
	"github.com/streamdal/cdc/sources"
)

var ErrMissingConfig = errors.New("backend config cannot be nil")

// Config carries the settings of every backend; only the one matching the
// selected backend name is used.
type Config struct {
	Postgres     *postgres.Config `json:"postgres_logical,omitempty"`
	Kafka        *kafka.Config    `json:"kafka,omitempty"`
	RedisStreams *rstreams.Config `json:"redis_streams,omitempty"`
}

// Names returns the sorted names of all supported backends
func Names() []string {
	names := []string{
		postgres.BackendName,
		kafka.BackendName,
		rstreams.BackendName,
	}

	sort.Strings(names)

	return names
}

// New is a convenience function to instantiate the appropriate backend based
// on its registry name.
func New(ctx context.Context, name string, cfg *Config) (sources.Backend, error) {
	if cfg == nil {
		return nil, ErrMissingConfig
	}

	var be sources.Backend
	var err error

	switch name {
	case postgres.BackendName:
		if cfg.Postgres == nil {
			return nil, errors.Errorf("missing config for backend '%s'", name)
		}

		be, err = postgres.New(cfg.Postgres)
	case kafka.BackendName:
		if cfg.Kafka == nil {
			return nil, errors.Errorf("missing config for backend '%s'", name)
		}

		be, err = kafka.New(cfg.Kafka)
	case rstreams.BackendName:
		if cfg.RedisStreams == nil {
			return nil, errors.Errorf("missing config for backend '%s'", name)
		}

		be, err = rstreams.New(ctx, cfg.RedisStreams)
	default:
		return nil, errors.Errorf("unknown backend '%s'", name)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "unable to instantiate '%s' backend", name)
	}

	return be, nil
}
