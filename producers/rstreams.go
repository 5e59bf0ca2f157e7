package producers

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/streamdal/cdc/backends/rstreams"
	"github.com/streamdal/cdc/types"
)

const RedisStreamsName = "redis_streams"

var ErrMissingStream = errors.New("stream cannot be empty")

type RedisStreamsConfig struct {
	rstreams.ConnConfig

	Stream string `json:"stream"`

	// Approximate cap on the stream length; 0 leaves it unbounded
	MaxLen int64 `json:"max_len,omitempty"`
}

// IRedisPipeliner is the part of the redis client used by the producer
type IRedisPipeliner interface {
	Pipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
	Close() error
}

// RedisStreams buffers written messages and XADDs them in a single pipeline
// on Flush
type RedisStreams struct {
	cfg     *RedisStreamsConfig
	client  IRedisPipeliner
	pending []*redis.XAddArgs
	log     *logrus.Entry
}

func NewRedisStreams(cfg *RedisStreamsConfig) (*RedisStreams, error) {
	if cfg.Address == "" {
		return nil, rstreams.ErrMissingAddress
	}

	if cfg.Stream == "" {
		return nil, ErrMissingStream
	}

	client, err := rstreams.NewClient(&cfg.ConnConfig)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create redis client")
	}

	return newRedisStreamsWithClient(cfg, client), nil
}

func newRedisStreamsWithClient(cfg *RedisStreamsConfig, client IRedisPipeliner) *RedisStreams {
	return &RedisStreams{
		cfg:    cfg,
		client: client,
		log:    logrus.WithField("pkg", "producers/redis_streams"),
	}
}

func (r *RedisStreams) Name() string {
	return RedisStreamsName
}

func (r *RedisStreams) Write(_ context.Context, msg *types.Message) error {
	r.pending = append(r.pending, &redis.XAddArgs{
		Stream: r.cfg.Stream,
		MaxLen: r.cfg.MaxLen,
		Approx: r.cfg.MaxLen > 0,
		ID:     "*",
		Values: map[string]interface{}{
			rstreams.PayloadField: msg.Payload,
			IdHeader:              idString(msg),
			PositionHeader:        positionString(msg),
		},
	})

	return nil
}

// Flush sends every pending entry in one pipeline. If any XADD fails the
// whole batch stays pending; entries that made it are added again.
func (r *RedisStreams) Flush(ctx context.Context) error {
	if len(r.pending) == 0 {
		return nil
	}

	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, args := range r.pending {
			pipe.XAdd(ctx, args)
		}

		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "unable to add entries to stream '%s'", r.cfg.Stream)
	}

	r.log.Debugf("Flushed %d message(s) to stream '%s'", len(r.pending), r.cfg.Stream)

	r.pending = nil

	return nil
}

func (r *RedisStreams) Close() error {
	return r.client.Close()
}
