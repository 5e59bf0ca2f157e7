package config

import (
	"github.com/pkg/errors"

	"github.com/streamdal/cdc/backends"
	"github.com/streamdal/cdc/backends/kafka"
	"github.com/streamdal/cdc/backends/postgres"
	"github.com/streamdal/cdc/backends/rstreams"
	"github.com/streamdal/cdc/options"
	"github.com/streamdal/cdc/producers"
	"github.com/streamdal/cdc/snapshots"
	"github.com/streamdal/cdc/snapshots/destinations"
	"github.com/streamdal/cdc/sources"
)

// Build assembles the runtime config from CLI options, the config file they
// point to and Defaults()
func Build(opts *options.CLIOptions) (*Config, error) {
	if opts == nil {
		return nil, errors.New("options cannot be nil")
	}

	cfg := FromOptions(opts)

	var fileCfg *Config

	if opts.ConfigFile != "" {
		var err error

		fileCfg, err = Load(opts.ConfigFile)
		if err != nil {
			return nil, err
		}
	}

	if err := Merge(cfg, fileCfg, Defaults()); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FromOptions converts CLI options into a Config. Flags that were not given
// stay at their zero value.
func FromOptions(opts *options.CLIOptions) *Config {
	cfg := &Config{
		MetricsListenAddress: opts.MetricsListenAddress,
		StatsReportSeconds:   opts.StatsReportSeconds,
	}

	if opts.Replicate != nil {
		cfg.Replicate = replicateFromOptions(opts.Replicate)
	}

	if opts.Snapshot != nil {
		cfg.Snapshot = snapshotFromOptions(opts.Snapshot)
	}

	return cfg
}

func replicateFromOptions(o *options.ReplicateOptions) *ReplicateConfig {
	rc := &ReplicateConfig{
		Backend:  o.Backend,
		Producer: o.Producer,
		Source: &sources.Configuration{
			CommitPositionsAfterSeconds: o.CommitAfterSeconds,
		},
		Consumer: &ConsumerConfig{
			PollTimeoutMs:   o.PollTimeoutMs,
			FlushIntervalMs: o.FlushIntervalMs,
			FlushBatchSize:  o.FlushBatchSize,
		},
		Backends: &backends.Config{
			Postgres: &postgres.Config{
				DSN:              o.PostgresDSN,
				Slot:             o.PostgresSlot,
				Publication:      o.PostgresPublication,
				CreateSlot:       o.PostgresCreateSlot,
				StartLSN:         o.PostgresStartLsn,
				KeepaliveSeconds: float64(o.PostgresKeepaliveSeconds),
				UseTLS:           o.PostgresUseTls,
				SkipVerifyTLS:    o.PostgresSkipVerifyTls,
			},
			Kafka: &kafka.Config{
				ConnConfig: kafka.ConnConfig{
					Address:       o.KafkaAddress,
					UseTLS:        o.KafkaUseTls,
					TLSSkipVerify: o.KafkaSkipVerifyTls,
					SaslType:      o.KafkaSaslType,
					SaslUsername:  o.KafkaSaslUsername,
					SaslPassword:  o.KafkaSaslPassword,
				},
				Topics:        o.KafkaTopics,
				ConsumerGroup: o.KafkaConsumerGroup,
			},
			RedisStreams: &rstreams.Config{
				ConnConfig: rstreams.ConnConfig{
					Address:  o.RedisAddress,
					Username: o.RedisUsername,
					Password: o.RedisPassword,
					Database: o.RedisDatabase,
				},
				Streams:       o.RedisStreams,
				ConsumerGroup: o.RedisConsumerGroup,
				ConsumerName:  o.RedisConsumerName,
				CreateStreams: o.RedisCreateStreams,
				StartID:       o.RedisStartId,
			},
		},
		Producers: &producers.Config{
			Stdout: &producers.StdoutConfig{
				Decode: o.StdoutDecode,
				Pretty: o.StdoutPretty,
			},
			Kafka: &producers.KafkaConfig{
				ConnConfig: kafka.ConnConfig{
					Address: o.ProducerKafkaAddress,
				},
				Topic:     o.ProducerKafkaTopic,
				BatchSize: o.ProducerKafkaBatchSize,
			},
			NatsJetstream: &producers.NatsJetstreamConfig{
				DSN:             o.ProducerNatsDsn,
				Subject:         o.ProducerNatsSubject,
				UserCredentials: o.ProducerNatsCredentials,
			},
			RedisStreams: &producers.RedisStreamsConfig{
				ConnConfig: rstreams.ConnConfig{
					Address:  o.ProducerRedisAddress,
					Password: o.ProducerRedisPassword,
				},
				Stream: o.ProducerRedisStream,
				MaxLen: o.ProducerRedisMaxLen,
			},
		},
	}

	if o.CommitAfterFlushedMessages >= 0 {
		count := o.CommitAfterFlushedMessages
		rc.Source.CommitPositionsAfterFlushedMessages = &count
	}

	return rc
}

func snapshotFromOptions(o *options.SnapshotOptions) *SnapshotConfig {
	return &SnapshotConfig{
		Source:  o.Source,
		Tables:  o.Table,
		Retries: o.Retries,
		Connection: &snapshots.SourceConfig{
			DSN:      o.Dsn,
			TimeZone: o.TimeZone,
			UseTLS:   o.UseTls,
		},
		Destination: &destinations.Config{
			Type:      o.Destination,
			OutputDir: o.OutputDir,
			S3Bucket:  o.S3Bucket,
			S3Prefix:  o.S3Prefix,
			S3Region:  o.S3Region,
		},
	}
}
