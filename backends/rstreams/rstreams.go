// Package rstreams is the redis_streams replication backend. Messages are
// read through a consumer group and acknowledged once they are flushed.
package rstreams

import (
	"context"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/streamdal/cdc/util"
)

const (
	BackendName = "redis_streams"

	DefaultCount = 100

	// ConsumerGroupExists is returned by XGROUP CREATE for an existing group
	ConsumerGroupExists = "BUSYGROUP"
)

var (
	ErrMissingAddress       = errors.New("address cannot be empty")
	ErrMissingStreams       = errors.New("at least one stream is required")
	ErrMissingConsumerGroup = errors.New("consumer group cannot be empty")
	ErrMissingConsumerName  = errors.New("consumer name cannot be empty")
)

// ConnConfig holds connection settings shared by the backend and the
// redis-streams producer
type ConnConfig struct {
	Address       string `json:"address"`
	Username      string `json:"username,omitempty"`
	Password      string `json:"password,omitempty"`
	Database      int    `json:"database,omitempty"`
	UseTLS        bool   `json:"use_tls,omitempty"`
	TLSSkipVerify bool   `json:"tls_skip_verify,omitempty"`
}

type Config struct {
	ConnConfig

	Streams       []string `json:"streams"`
	ConsumerGroup string   `json:"consumer_group"`
	ConsumerName  string   `json:"consumer_name"`
	CreateStreams bool     `json:"create_streams,omitempty"`
	StartID       string   `json:"start_id,omitempty"`
	Count         int64    `json:"count,omitempty"`

	// Hash that receives the committed write/flush positions. Defaults to
	// cdc:progress:<consumer group>.
	ProgressKey string `json:"progress_key,omitempty"`
}

// IRedis is the part of the redis client used by the backend
type IRedis interface {
	XGroupCreate(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Close() error
}

type RedisStreams struct {
	cfg    *Config
	client IRedis

	buffer  []*entry
	fetched []*entry

	log *logrus.Entry
}

func New(ctx context.Context, cfg *Config) (*RedisStreams, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to validate config")
	}

	client, err := NewClient(&cfg.ConnConfig)
	if err != nil {
		return nil, err
	}

	r := newWithClient(cfg, client)

	if err := r.createConsumerGroups(ctx); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "unable to create consumer group(s)")
	}

	return r, nil
}

func newWithClient(cfg *Config, client IRedis) *RedisStreams {
	return &RedisStreams{
		cfg:    cfg,
		client: client,
		log:    logrus.WithField("backend", BackendName),
	}
}

// NewClient creates a redis client
func NewClient(connCfg *ConnConfig) (*redis.Client, error) {
	if connCfg.Username != "" && connCfg.Password == "" {
		return nil, errors.New("missing password (either use only password or fill out both)")
	}

	opts := &redis.Options{
		Addr:     connCfg.Address,
		Username: connCfg.Username,
		Password: connCfg.Password,
		DB:       connCfg.Database,
	}

	if connCfg.UseTLS {
		tlsConfig, err := util.GenerateTLSConfig("", "", "", connCfg.TLSSkipVerify)
		if err != nil {
			return nil, errors.Wrap(err, "unable to generate TLS config")
		}

		opts.TLSConfig = tlsConfig
	}

	return redis.NewClient(opts), nil
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}

	if cfg.Address == "" {
		return ErrMissingAddress
	}

	if len(cfg.Streams) == 0 {
		return ErrMissingStreams
	}

	if cfg.ConsumerGroup == "" {
		return ErrMissingConsumerGroup
	}

	if cfg.ConsumerName == "" {
		return ErrMissingConsumerName
	}

	return nil
}

func (r *RedisStreams) createConsumerGroups(ctx context.Context) error {
	start := r.cfg.StartID
	if start == "" {
		start = "$"
	}

	for _, stream := range r.cfg.Streams {
		var err error

		if r.cfg.CreateStreams {
			err = r.client.XGroupCreateMkStream(ctx, stream, r.cfg.ConsumerGroup, start).Err()
		} else {
			err = r.client.XGroupCreate(ctx, stream, r.cfg.ConsumerGroup, start).Err()
		}

		// No problem if consumer group already exists
		if err != nil && !strings.HasPrefix(err.Error(), ConsumerGroupExists) {
			return errors.Wrapf(err, "unable to create consumer group for stream '%s'", stream)
		}
	}

	return nil
}

func (r *RedisStreams) progressKey() string {
	if r.cfg.ProgressKey != "" {
		return r.cfg.ProgressKey
	}

	return "cdc:progress:" + r.cfg.ConsumerGroup
}

func (r *RedisStreams) Name() string {
	return BackendName
}

func (r *RedisStreams) Close() error {
	return r.client.Close()
}
