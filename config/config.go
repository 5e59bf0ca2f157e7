// Package config holds the runtime configuration of cdc. Values come from
// three places, in order of precedence: CLI flags (and their env vars), an
// optional JSON config file and Defaults().
package config

import (
	"encoding/json"
	"io/ioutil"

	"github.com/imdario/mergo"
	"github.com/pkg/errors"

	"github.com/streamdal/cdc/backends"
	"github.com/streamdal/cdc/backends/postgres"
	"github.com/streamdal/cdc/consumer"
	"github.com/streamdal/cdc/producers"
	"github.com/streamdal/cdc/snapshots"
	"github.com/streamdal/cdc/snapshots/destinations"
	pgsnapshot "github.com/streamdal/cdc/snapshots/postgres"
	"github.com/streamdal/cdc/sources"
)

const (
	DefaultStatsReportSeconds = 10
	DefaultSnapshotRetries    = 3
)

type Config struct {
	MetricsListenAddress string `json:"metrics_listen_address,omitempty"`
	StatsReportSeconds   int    `json:"stats_report_seconds,omitempty"`

	Replicate *ReplicateConfig `json:"replicate,omitempty"`
	Snapshot  *SnapshotConfig  `json:"snapshot,omitempty"`
}

type ReplicateConfig struct {
	Backend  string `json:"backend"`
	Producer string `json:"producer"`

	Source   *sources.Configuration `json:"source,omitempty"`
	Consumer *ConsumerConfig        `json:"consumer,omitempty"`

	Backends  *backends.Config  `json:"backends,omitempty"`
	Producers *producers.Config `json:"producers,omitempty"`
}

// ConsumerConfig holds the replication driver settings
type ConsumerConfig struct {
	PollTimeoutMs   int `json:"poll_timeout_ms,omitempty"`
	FlushIntervalMs int `json:"flush_interval_ms,omitempty"`
	FlushBatchSize  int `json:"flush_batch_size,omitempty"`
}

type SnapshotConfig struct {
	Source      string                  `json:"source"`
	Tables      []string                `json:"tables"`
	Retries     int                     `json:"retries,omitempty"`
	Connection  *snapshots.SourceConfig `json:"connection,omitempty"`
	Destination *destinations.Config    `json:"destination,omitempty"`
}

// Defaults returns the lowest precedence configuration
func Defaults() *Config {
	return &Config{
		StatsReportSeconds: DefaultStatsReportSeconds,
		Replicate: &ReplicateConfig{
			Backend:  postgres.BackendName,
			Producer: producers.StdoutName,
			Source:   sources.DefaultConfiguration(),
			Consumer: &ConsumerConfig{
				PollTimeoutMs:   int(consumer.DefaultPollTimeout.Milliseconds()),
				FlushIntervalMs: int(consumer.DefaultFlushInterval.Milliseconds()),
				FlushBatchSize:  consumer.DefaultFlushBatchSize,
			},
			Backends:  &backends.Config{},
			Producers: &producers.Config{},
		},
		Snapshot: &SnapshotConfig{
			Source:  pgsnapshot.Name,
			Tables:  make([]string, 0),
			Retries: DefaultSnapshotRetries,
			Connection: &snapshots.SourceConfig{
				TimeZone:       pgsnapshot.DefaultTimeZone,
				ConnectTimeout: pgsnapshot.DefaultConnectTimeout,
			},
			Destination: &destinations.Config{
				Type: destinations.StreamType,
			},
		},
	}
}

// Load reads a JSON config file
func Load(fileName string) (*Config, error) {
	data, err := ioutil.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read config file '%s'", fileName)
	}

	cfg := &Config{}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "could not unmarshal config file '%s'", fileName)
	}

	return cfg, nil
}

// Merge fills every unset value of dst from srcs, in order. Booleans can only
// be switched on by a lower precedence source, never off.
func Merge(dst *Config, srcs ...*Config) error {
	for _, src := range srcs {
		if src == nil {
			continue
		}

		if err := mergo.Merge(dst, src); err != nil {
			return errors.Wrap(err, "unable to merge config")
		}
	}

	return nil
}
