// Package options defines the command line interface of cdc. Every flag can
// also be set through a CDC_* environment variable.
//
// Options only perform "light" validation; settings that can also come from
// a config file have no CLI defaults so that file values are not shadowed.
package options

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
)

var (
	VERSION = "UNSET"
)

const (
	ReplicateCmd = "replicate"
	SnapshotCmd  = "snapshot"
	VersionCmd   = "version"
)

type CLIOptions struct {
	Debug bool `kong:"help='Enable debug output',env='CDC_DEBUG'"`
	Quiet bool `kong:"help='Only print errors',env='CDC_QUIET'"`

	ConfigFile string `kong:"help='JSON config file; CLI flags take precedence over its values',env='CDC_CONFIG_FILE'"`

	MetricsListenAddress string `kong:"help='Serve /health-check, /version and /metrics on this address',env='CDC_METRICS_LISTEN_ADDRESS'"`
	StatsReportSeconds   int    `kong:"help='Log STATS lines every N seconds (0 disables)',env='CDC_STATS_REPORT_SECONDS'"`

	Replicate *ReplicateOptions `kong:"cmd,help='Stream changes from a replication log to a producer'"`
	Snapshot  *SnapshotOptions  `kong:"cmd,help='Dump a consistent snapshot of one or more tables'"`
	Version   *struct{}         `kong:"cmd,help='Print version and exit'"`
}

type ReplicateOptions struct {
	Backend  string `kong:"help='Replication backend (postgres_logical, kafka, redis_streams)',env='CDC_BACKEND'"`
	Producer string `kong:"help='Producer (stdout, kafka, nats_jetstream, redis_streams)',env='CDC_PRODUCER'"`

	CommitAfterSeconds         float64 `kong:"help='Commit positions at least every N seconds',env='CDC_COMMIT_AFTER_SECONDS'"`
	CommitAfterFlushedMessages int     `kong:"help='Commit positions after more than N flushed messages (-1 disables)',env='CDC_COMMIT_AFTER_FLUSHED_MESSAGES',default='-1'"`

	PollTimeoutMs   int `kong:"help='Upper bound for a single wait on the backend',env='CDC_POLL_TIMEOUT_MS'"`
	FlushIntervalMs int `kong:"help='Flush pending messages once the oldest is this old',env='CDC_FLUSH_INTERVAL_MS'"`
	FlushBatchSize  int `kong:"help='Flush once this many messages are pending',env='CDC_FLUSH_BATCH_SIZE'"`

	// postgres_logical backend
	PostgresDSN              string `kong:"help='Postgres connection string',env='CDC_POSTGRES_DSN'"`
	PostgresSlot             string `kong:"help='Replication slot name',env='CDC_POSTGRES_SLOT'"`
	PostgresPublication      string `kong:"help='Publication name',env='CDC_POSTGRES_PUBLICATION'"`
	PostgresCreateSlot       bool   `kong:"help='Create the replication slot if it does not exist',env='CDC_POSTGRES_CREATE_SLOT'"`
	PostgresStartLsn         string `kong:"help='LSN to start streaming from (ie. 0/16B3748)',env='CDC_POSTGRES_START_LSN'"`
	PostgresKeepaliveSeconds int    `kong:"help='Seconds between standby status updates',env='CDC_POSTGRES_KEEPALIVE_SECONDS'"`
	PostgresUseTls           bool   `kong:"help='Connect using TLS',env='CDC_POSTGRES_USE_TLS'"`
	PostgresSkipVerifyTls    bool   `kong:"help='Skip server certificate verification',env='CDC_POSTGRES_SKIP_VERIFY_TLS'"`

	// kafka backend
	KafkaAddress       []string `kong:"help='Kafka broker address(es)',env='CDC_KAFKA_ADDRESS'"`
	KafkaTopics        []string `kong:"help='Topic(s) to consume',env='CDC_KAFKA_TOPICS'"`
	KafkaConsumerGroup string   `kong:"help='Consumer group',env='CDC_KAFKA_CONSUMER_GROUP'"`
	KafkaUseTls        bool     `kong:"help='Connect using TLS',env='CDC_KAFKA_USE_TLS'"`
	KafkaSkipVerifyTls bool     `kong:"help='Skip server certificate verification',env='CDC_KAFKA_SKIP_VERIFY_TLS'"`
	KafkaSaslType      string   `kong:"help='SASL mechanism (plain or scram)',env='CDC_KAFKA_SASL_TYPE'"`
	KafkaSaslUsername  string   `kong:"help='SASL username',env='CDC_KAFKA_SASL_USERNAME'"`
	KafkaSaslPassword  string   `kong:"help='SASL password (prompted for if username is set)',env='CDC_KAFKA_SASL_PASSWORD'"`

	// redis_streams backend
	RedisAddress       string   `kong:"help='Redis address',env='CDC_REDIS_ADDRESS'"`
	RedisUsername      string   `kong:"help='Redis username (v6+)',env='CDC_REDIS_USERNAME'"`
	RedisPassword      string   `kong:"help='Redis password',env='CDC_REDIS_PASSWORD'"`
	RedisDatabase      int      `kong:"help='Redis database',env='CDC_REDIS_DATABASE'"`
	RedisStreams       []string `kong:"help='Stream(s) to consume',env='CDC_REDIS_STREAMS'"`
	RedisConsumerGroup string   `kong:"help='Consumer group',env='CDC_REDIS_CONSUMER_GROUP'"`
	RedisConsumerName  string   `kong:"help='Consumer name',env='CDC_REDIS_CONSUMER_NAME'"`
	RedisCreateStreams bool     `kong:"help='Create streams that do not exist',env='CDC_REDIS_CREATE_STREAMS'"`
	RedisStartId       string   `kong:"help='Id a new consumer group starts at (0 = oldest, $ = latest)',env='CDC_REDIS_START_ID'"`

	// producers
	StdoutDecode bool `kong:"help='Decode pgoutput messages before printing',env='CDC_STDOUT_DECODE'"`
	StdoutPretty bool `kong:"help='Pretty print decoded messages',env='CDC_STDOUT_PRETTY'"`

	ProducerKafkaAddress   []string `kong:"help='Kafka broker address(es) to produce to',env='CDC_PRODUCER_KAFKA_ADDRESS'"`
	ProducerKafkaTopic     string   `kong:"help='Kafka topic to produce to',env='CDC_PRODUCER_KAFKA_TOPIC'"`
	ProducerKafkaBatchSize int      `kong:"help='Kafka writer batch size',env='CDC_PRODUCER_KAFKA_BATCH_SIZE'"`

	ProducerNatsDsn         string `kong:"help='NATS server DSN',env='CDC_PRODUCER_NATS_DSN'"`
	ProducerNatsSubject     string `kong:"help='JetStream subject to publish to',env='CDC_PRODUCER_NATS_SUBJECT'"`
	ProducerNatsCredentials string `kong:"help='NATS .creds file or JWT',env='CDC_PRODUCER_NATS_CREDENTIALS'"`

	ProducerRedisAddress  string `kong:"help='Redis address to produce to',env='CDC_PRODUCER_REDIS_ADDRESS'"`
	ProducerRedisPassword string `kong:"help='Redis password',env='CDC_PRODUCER_REDIS_PASSWORD'"`
	ProducerRedisStream   string `kong:"help='Stream to add entries to',env='CDC_PRODUCER_REDIS_STREAM'"`
	ProducerRedisMaxLen   int64  `kong:"help='Approximate maximum stream length (0 = unbounded)',env='CDC_PRODUCER_REDIS_MAX_LEN'"`
}

type SnapshotOptions struct {
	Source   string   `kong:"help='Snapshot source (postgres_logical)',env='CDC_SNAPSHOT_SOURCE'"`
	Dsn      string   `kong:"help='Source connection string',env='CDC_SNAPSHOT_DSN'"`
	Table    []string `kong:"help='Table to dump, may be schema qualified (repeatable)',env='CDC_SNAPSHOT_TABLES'"`
	TimeZone string   `kong:"help='Session time zone used to render timestamps',env='CDC_SNAPSHOT_TIME_ZONE'"`
	UseTls   bool     `kong:"help='Connect using TLS',env='CDC_SNAPSHOT_USE_TLS'"`

	Destination string `kong:"help='Destination (stream, directory, s3)',env='CDC_SNAPSHOT_DESTINATION'"`
	OutputDir   string `kong:"help='Directory to write the snapshot to',env='CDC_SNAPSHOT_OUTPUT_DIR'"`
	S3Bucket    string `kong:"name='s3-bucket',help='S3 bucket to upload the snapshot to',env='CDC_SNAPSHOT_S3_BUCKET'"`
	S3Prefix    string `kong:"name='s3-prefix',help='S3 key prefix',env='CDC_SNAPSHOT_S3_PREFIX'"`
	S3Region    string `kong:"name='s3-region',help='S3 region',env='CDC_SNAPSHOT_S3_REGION'"`

	Retries int `kong:"help='Number of times a failed dump is retried',env='CDC_SNAPSHOT_RETRIES'"`
}

// New parses args into CLIOptions. The returned command is the selected
// subcommand.
func New(args []string) (string, *CLIOptions, error) {
	return parse(args, os.Stdout)
}

func parse(args []string, stdout io.Writer) (string, *CLIOptions, error) {
	if maybeDisplayVersion(args, stdout) {
		return VersionCmd, newCLIOptions(), nil
	}

	cliOpts := newCLIOptions()

	k, err := kong.New(
		cliOpts,
		kong.Name("cdc"),
		kong.Description("Change data capture: replicate changes and dump consistent snapshots"),
		kong.ShortUsageOnError(),
		kong.Writers(stdout, os.Stderr),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
	)
	if err != nil {
		return "", nil, errors.Wrap(err, "unable to create new kong instance")
	}

	kongCtx, err := k.Parse(args)
	if err != nil {
		return "", nil, errors.Wrap(err, "unable to parse CLI options")
	}

	cmd := kongCtx.Command()

	unsetUnusedOptions(cmd, cliOpts)

	return cmd, cliOpts, nil
}

func unsetUnusedOptions(cmd string, opts *CLIOptions) {
	switch cmd {
	case ReplicateCmd:
		opts.Snapshot = nil
	case SnapshotCmd:
		opts.Replicate = nil
	default:
		opts.Replicate = nil
		opts.Snapshot = nil
	}
}

func maybeDisplayVersion(args []string, stdout io.Writer) bool {
	for _, f := range args {
		if f == "--version" {
			fmt.Fprintln(stdout, VERSION)
			return true
		}
	}

	return false
}

// We have to do this in order to ensure that kong has valid destinations to
// write opts to.
func newCLIOptions() *CLIOptions {
	return &CLIOptions{
		Replicate: &ReplicateOptions{
			KafkaAddress:         make([]string, 0),
			KafkaTopics:          make([]string, 0),
			RedisStreams:         make([]string, 0),
			ProducerKafkaAddress: make([]string, 0),
		},
		Snapshot: &SnapshotOptions{
			Table: make([]string, 0),
		},
		Version: &struct{}{},
	}
}
