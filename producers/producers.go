// Package producers contains the downstream sinks the replication driver
// writes fetched messages to. Writes may be buffered; a message only counts
// as durable once Flush returned without error.
package producers

import (
	"context"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/streamdal/cdc/types"
)

const (
	// IdHeader carries the source-assigned message id
	IdHeader = "cdc-id"

	// PositionHeader carries the replication log position of the message
	PositionHeader = "cdc-position"
)

var ErrMissingConfig = errors.New("producer config cannot be nil")

// Producer is implemented by every downstream sink
//
//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 . Producer
type Producer interface {
	// Name returns the registry name of the producer
	Name() string

	// Write hands a message to the producer. It does not have to be durable
	// before Flush returns.
	Write(ctx context.Context, msg *types.Message) error

	// Flush blocks until every written message is durable downstream
	Flush(ctx context.Context) error

	// Close releases the producer's connection
	Close() error
}

// Config carries the settings of every producer; only the one matching the
// selected producer name is used.
type Config struct {
	Stdout        *StdoutConfig        `json:"stdout,omitempty"`
	Kafka         *KafkaConfig         `json:"kafka,omitempty"`
	NatsJetstream *NatsJetstreamConfig `json:"nats_jetstream,omitempty"`
	RedisStreams  *RedisStreamsConfig  `json:"redis_streams,omitempty"`
}

// Names returns the sorted names of all supported producers
func Names() []string {
	names := []string{StdoutName, KafkaName, NatsJetstreamName, RedisStreamsName}
	sort.Strings(names)

	return names
}

// New instantiates the producer registered under name. A missing stdout
// config falls back to printing raw payloads to stdout.
func New(name string, cfg *Config) (Producer, error) {
	if cfg == nil {
		return nil, ErrMissingConfig
	}

	var p Producer
	var err error

	switch name {
	case StdoutName:
		p, err = NewStdout(cfg.Stdout)
	case KafkaName:
		if cfg.Kafka == nil {
			return nil, errors.Errorf("missing config for producer '%s'", name)
		}

		p, err = NewKafka(cfg.Kafka)
	case NatsJetstreamName:
		if cfg.NatsJetstream == nil {
			return nil, errors.Errorf("missing config for producer '%s'", name)
		}

		p, err = NewNatsJetstream(cfg.NatsJetstream)
	case RedisStreamsName:
		if cfg.RedisStreams == nil {
			return nil, errors.Errorf("missing config for producer '%s'", name)
		}

		p, err = NewRedisStreams(cfg.RedisStreams)
	default:
		return nil, errors.Errorf("unknown producer '%s'", name)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "unable to instantiate '%s' producer", name)
	}

	return p, nil
}

func idString(msg *types.Message) string {
	return strconv.FormatInt(int64(msg.Id), 10)
}

func positionString(msg *types.Message) string {
	if msg.Position == nil {
		return ""
	}

	return msg.Position.String()
}
