// Package sources contains the Source, which wraps a replication log Backend
// and is responsible for assigning message ids, tracking the write and flush
// positions acknowledged by the downstream stages and deciding when those
// positions have to be committed back to the backend.
//
// A Source is meant to be owned by a single driver loop; it does no locking.
package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/imdario/mergo"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/streamdal/cdc/prometheus"
	"github.com/streamdal/cdc/types"
)

const (
	CommitTaskName = "commit_positions"

	DefaultCommitPositionsAfterSeconds = 60.0
)

var (
	ErrMissingBackend       = errors.New("backend cannot be nil")
	ErrInvalidCommitSeconds = errors.New("commit_positions_after_seconds must be > 0")
	ErrInvalidCommitCount   = errors.New("commit_positions_after_flushed_messages must be >= 0")
)

// Configuration controls how often positions are committed
type Configuration struct {
	// The maximum number of seconds to wait between committing positions.
	CommitPositionsAfterSeconds float64 `json:"commit_positions_after_seconds,omitempty"`

	// The maximum number of flushed messages between committing positions.
	// Nil disables count based commits.
	CommitPositionsAfterFlushedMessages *int `json:"commit_positions_after_flushed_messages,omitempty"`
}

func DefaultConfiguration() *Configuration {
	return &Configuration{
		CommitPositionsAfterSeconds: DefaultCommitPositionsAfterSeconds,
	}
}

func (c *Configuration) commitInterval() time.Duration {
	return time.Duration(c.CommitPositionsAfterSeconds * float64(time.Second))
}

type state struct {
	lastId types.Id

	writeId       types.Id
	writePosition types.Position

	flushId       types.Id
	flushPosition types.Position

	lastCommitFlushId types.Id
	lastCommitTime    time.Time
}

type Source struct {
	backend Backend
	cfg     *Configuration
	state   *state
	now     func() time.Time
	log     *logrus.Entry
}

// New creates a Source around the given backend. Unset configuration values
// are filled in from DefaultConfiguration().
func New(backend Backend, cfg *Configuration) (*Source, error) {
	if backend == nil {
		return nil, ErrMissingBackend
	}

	merged := &Configuration{}

	if cfg != nil {
		*merged = *cfg
	}

	if err := mergo.Merge(merged, DefaultConfiguration()); err != nil {
		return nil, errors.Wrap(err, "unable to merge default configuration")
	}

	if err := validateConfiguration(merged); err != nil {
		return nil, errors.Wrap(err, "invalid source configuration")
	}

	s := &Source{
		backend: backend,
		cfg:     merged,
		now:     time.Now,
		log:     logrus.WithField("pkg", "sources").WithField("backend", backend.Name()),
	}

	s.state = &state{
		lastCommitTime: s.now(),
	}

	return s, nil
}

func validateConfiguration(cfg *Configuration) error {
	if cfg.CommitPositionsAfterSeconds <= 0 {
		return ErrInvalidCommitSeconds
	}

	if cfg.CommitPositionsAfterFlushedMessages != nil && *cfg.CommitPositionsAfterFlushedMessages < 0 {
		return ErrInvalidCommitCount
	}

	return nil
}

func (s *Source) String() string {
	return fmt.Sprintf("<Source: %s>", s.backend.Name())
}

// Fetch attempts to fetch the next message from the backend. If no message
// is ready, nil is returned instead. Fetch never blocks.
func (s *Source) Fetch() (*types.Message, error) {
	raw, err := s.backend.Fetch()
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch from backend")
	}

	if raw == nil {
		return nil, nil
	}

	s.state.lastId++

	prometheus.Incr(prometheus.MessagesFetched, 1)

	return &types.Message{
		Id:       s.state.lastId,
		Position: raw.Position,
		Payload:  raw.Payload,
	}, nil
}

// Poll waits until a message is ready to be fetched from the backend or the
// timeout is reached.
func (s *Source) Poll(ctx context.Context, timeout time.Duration) error {
	if err := s.backend.Poll(ctx, timeout); err != nil {
		return errors.Wrap(err, "unable to poll backend")
	}

	return nil
}

// SetWritePosition records the last message that was written downstream but
// is not guaranteed to be durable yet. Ids must be acknowledged in order,
// one at a time.
func (s *Source) SetWritePosition(id types.Id, position types.Position) error {
	s.log.Debugf("Updating write position of %s to %s...", s, position)

	if expected := s.state.writeId + 1; id != expected {
		return &types.ContractViolationError{Op: "set_write_position", Expected: expected, Got: id}
	}

	s.state.writeId = id
	s.state.writePosition = position

	return nil
}

// SetFlushPosition records the last message that was durably written
// downstream. Ids must be acknowledged in order, one at a time. Callers are
// expected to flush only what they have already written.
func (s *Source) SetFlushPosition(id types.Id, position types.Position) error {
	s.log.Debugf("Updating flush position of %s to %s...", s, position)

	if expected := s.state.flushId + 1; id != expected {
		return &types.ContractViolationError{Op: "set_flush_position", Expected: expected, Got: id}
	}

	if id > s.state.writeId {
		s.log.Warningf("Flush id %d is ahead of write id %d", id, s.state.writeId)
	}

	s.state.flushId = id
	s.state.flushPosition = position

	prometheus.Incr(prometheus.MessagesFlushed, 1)

	return nil
}

// WritePosition returns the last acknowledged write id and position. The id
// is 0 if nothing was written yet.
func (s *Source) WritePosition() (types.Id, types.Position) {
	return s.state.writeId, s.state.writePosition
}

// FlushPosition returns the last acknowledged flush id and position. The id
// is 0 if nothing was flushed yet.
func (s *Source) FlushPosition() (types.Id, types.Position) {
	return s.state.flushId, s.state.flushPosition
}

// CommitPositions sends the current write and flush positions to the
// backend. Committing without progress re-sends the same positions.
func (s *Source) CommitPositions(ctx context.Context) error {
	s.log.Debug("Committing positions...")

	if err := s.backend.CommitPositions(ctx, s.state.writePosition, s.state.flushPosition); err != nil {
		prometheus.IncrPromCounter(prometheus.PositionCommitErrors, 1)
		return errors.Wrap(err, "unable to commit positions")
	}

	s.log.Debugf("Updated committed positions: write=%v, flush=%v",
		s.state.writePosition, s.state.flushPosition)

	s.state.lastCommitFlushId = s.state.flushId
	s.state.lastCommitTime = s.now()

	prometheus.IncrPromCounter(prometheus.PositionCommits, 1)
	prometheus.SetPromGauge(prometheus.LastCommitTimestamp, float64(s.state.lastCommitTime.Unix()))

	return nil
}

// NextScheduledTask returns the next task that has to be performed: either
// committing positions or whatever the backend has scheduled, whichever is
// due first.
func (s *Source) NextScheduledTask(now time.Time) *types.ScheduledTask {
	if s.flushedSinceCommitExceeded() {
		return s.commitTask(now)
	}

	return types.EarliestTask(
		s.commitTask(s.state.lastCommitTime.Add(s.cfg.commitInterval())),
		s.backend.NextScheduledTask(now),
	)
}

func (s *Source) flushedSinceCommitExceeded() bool {
	limit := s.cfg.CommitPositionsAfterFlushedMessages

	if limit == nil || s.state.flushId == 0 {
		return false
	}

	return int64(s.state.flushId-s.state.lastCommitFlushId) > int64(*limit)
}

func (s *Source) commitTask(due time.Time) *types.ScheduledTask {
	return &types.ScheduledTask{
		Due:    due,
		Kind:   types.TaskCommitPositions,
		Name:   CommitTaskName,
		Action: s.CommitPositions,
	}
}

// Close closes the underlying backend
func (s *Source) Close() error {
	return s.backend.Close()
}
