// Package consumer contains the replication driver. It moves messages from a
// Source to a Producer and acknowledges write and flush positions back to the
// Source as the producer makes progress.
package consumer

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/relistan/go-director"
	"github.com/sirupsen/logrus"

	"github.com/streamdal/cdc/producers"
	"github.com/streamdal/cdc/types"
)

const (
	DefaultPollTimeout     = time.Second
	DefaultFlushInterval   = time.Second
	DefaultFlushBatchSize  = 1000
	DefaultShutdownTimeout = 10 * time.Second
)

var (
	ErrMissingSource   = errors.New("source cannot be nil")
	ErrMissingProducer = errors.New("producer cannot be nil")

	errShutdown = errors.New("shutdown requested")
)

// ISource is the part of *sources.Source used by the driver
type ISource interface {
	Fetch() (*types.Message, error)
	Poll(ctx context.Context, timeout time.Duration) error
	SetWritePosition(id types.Id, position types.Position) error
	SetFlushPosition(id types.Id, position types.Position) error
	CommitPositions(ctx context.Context) error
	NextScheduledTask(now time.Time) *types.ScheduledTask
}

type Config struct {
	Source   ISource
	Producer producers.Producer

	// Upper bound for a single wait on the source
	PollTimeout time.Duration

	// Pending messages are flushed once the oldest one is this old or
	// FlushBatchSize messages are pending, whichever happens first
	FlushInterval  time.Duration
	FlushBatchSize int

	// Bound for the final flush and commit after the run context is done
	ShutdownTimeout time.Duration

	// Defaults to a FOREVER free looper
	Looper director.Looper
}

type Consumer struct {
	cfg *Config

	pending      []*types.Message
	pendingSince time.Time

	now func() time.Time
	log *logrus.Entry
}

func New(cfg *Config) (*Consumer, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to validate config")
	}

	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = DefaultPollTimeout
	}

	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultFlushInterval
	}

	if cfg.FlushBatchSize <= 0 {
		cfg.FlushBatchSize = DefaultFlushBatchSize
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Looper == nil {
		cfg.Looper = director.NewFreeLooper(director.FOREVER, make(chan error, 1))
	}

	return &Consumer{
		cfg: cfg,
		now: time.Now,
		log: logrus.WithField("pkg", "consumer"),
	}, nil
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}

	if cfg.Source == nil {
		return ErrMissingSource
	}

	if cfg.Producer == nil {
		return ErrMissingProducer
	}

	return nil
}

// Run drives the replication loop until ctx is done or an error occurs. On
// a clean stop the pending messages are flushed and the positions committed
// one last time. Contract violations are returned as is.
func (c *Consumer) Run(ctx context.Context) error {
	c.log.Infof("Replicating to producer '%s'", c.cfg.Producer.Name())

	c.cfg.Looper.Loop(func() error {
		select {
		case <-ctx.Done():
			return errShutdown
		default:
		}

		return c.step(ctx)
	})

	if err := c.cfg.Looper.Wait(); err != nil && err != errShutdown {
		return err
	}

	c.log.Debug("Replication loop exited, flushing and committing positions")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.cfg.ShutdownTimeout)
	defer cancel()

	if err := c.flush(shutdownCtx); err != nil {
		return errors.Wrap(err, "unable to flush on shutdown")
	}

	if err := c.cfg.Source.CommitPositions(shutdownCtx); err != nil {
		return errors.Wrap(err, "unable to commit positions on shutdown")
	}

	return nil
}

// step runs a due task or waits for, writes and possibly flushes a single
// message
func (c *Consumer) step(ctx context.Context) error {
	now := c.now()

	task := c.cfg.Source.NextScheduledTask(now)

	if task != nil && task.IsDue(now) {
		c.log.Debugf("Running %s", task)

		if err := task.Action(ctx); err != nil {
			if ctx.Err() != nil {
				return errShutdown
			}

			return errors.Wrapf(err, "unable to run task '%s'", task.Name)
		}

		return nil
	}

	if err := c.cfg.Source.Poll(ctx, c.pollTimeout(now, task)); err != nil {
		if ctx.Err() != nil {
			return errShutdown
		}

		return err
	}

	msg, err := c.cfg.Source.Fetch()
	if err != nil {
		return err
	}

	if msg != nil {
		if err := c.write(ctx, msg); err != nil {
			return err
		}
	}

	if c.flushDue(c.now()) {
		if err := c.flush(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (c *Consumer) pollTimeout(now time.Time, task *types.ScheduledTask) time.Duration {
	timeout := c.cfg.PollTimeout

	if task != nil {
		if until := task.Due.Sub(now); until < timeout {
			timeout = until
		}
	}

	if len(c.pending) > 0 {
		if until := c.pendingSince.Add(c.cfg.FlushInterval).Sub(now); until < timeout {
			timeout = until
		}
	}

	if timeout < 0 {
		timeout = 0
	}

	return timeout
}

func (c *Consumer) write(ctx context.Context, msg *types.Message) error {
	if err := c.cfg.Producer.Write(ctx, msg); err != nil {
		return errors.Wrapf(err, "unable to write message %d", msg.Id)
	}

	if err := c.cfg.Source.SetWritePosition(msg.Id, msg.Position); err != nil {
		return err
	}

	if len(c.pending) == 0 {
		c.pendingSince = c.now()
	}

	c.pending = append(c.pending, msg)

	return nil
}

func (c *Consumer) flushDue(now time.Time) bool {
	if len(c.pending) == 0 {
		return false
	}

	if len(c.pending) >= c.cfg.FlushBatchSize {
		return true
	}

	return !now.Before(c.pendingSince.Add(c.cfg.FlushInterval))
}

// flush makes every pending message durable and acknowledges them in id
// order
func (c *Consumer) flush(ctx context.Context) error {
	if len(c.pending) == 0 {
		return nil
	}

	if err := c.cfg.Producer.Flush(ctx); err != nil {
		return errors.Wrap(err, "unable to flush producer")
	}

	for _, msg := range c.pending {
		if err := c.cfg.Source.SetFlushPosition(msg.Id, msg.Position); err != nil {
			return err
		}
	}

	c.log.Debugf("Flushed %d message(s)", len(c.pending))

	c.pending = nil

	return nil
}
