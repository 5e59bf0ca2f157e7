package rstreams

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/streamdal/cdc/types"
)

// PayloadField is the stream entry field carrying the payload. Entries
// without it are delivered as a JSON object of all fields.
const PayloadField = "data"

// StreamID is the position of an entry within a stream
type StreamID struct {
	Stream string
	ID     string
}

func (s StreamID) String() string {
	return s.Stream + ":" + s.ID
}

type entry struct {
	position StreamID
	payload  []byte
}

// Poll waits up to timeout for new entries on any of the streams
func (r *RedisStreams) Poll(ctx context.Context, timeout time.Duration) error {
	if len(r.buffer) > 0 {
		return nil
	}

	block := timeout
	if block <= 0 {
		// go-redis treats 0 as "block forever"; negative omits BLOCK
		block = -1
	}

	count := r.cfg.Count
	if count <= 0 {
		count = DefaultCount
	}

	streams, err := r.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    r.cfg.ConsumerGroup,
		Consumer: r.cfg.ConsumerName,
		Streams:  generateStreams(r.cfg.Streams),
		Count:    count,
		Block:    block,
	}).Result()
	if err != nil {
		if err == redis.Nil || ctx.Err() != nil {
			return nil
		}

		return errors.Wrap(err, "unable to read from streams")
	}

	for _, stream := range streams {
		for _, message := range stream.Messages {
			payload, err := payloadOf(message)
			if err != nil {
				return errors.Wrapf(err, "unable to decode entry '%s' of stream '%s'", message.ID, stream.Stream)
			}

			r.buffer = append(r.buffer, &entry{
				position: StreamID{Stream: stream.Stream, ID: message.ID},
				payload:  payload,
			})
		}
	}

	return nil
}

func payloadOf(message redis.XMessage) ([]byte, error) {
	if v, ok := message.Values[PayloadField]; ok {
		if s, ok := v.(string); ok {
			return []byte(s), nil
		}
	}

	return json.Marshal(message.Values)
}

// generateStreams returns XREADGROUP stream arguments reading new entries
// of every stream
func generateStreams(streams []string) []string {
	out := make([]string, 0, len(streams)*2)
	out = append(out, streams...)

	for range streams {
		out = append(out, ">")
	}

	return out
}

func (r *RedisStreams) Fetch() (*types.RawMessage, error) {
	if len(r.buffer) == 0 {
		return nil, nil
	}

	e := r.buffer[0]
	r.buffer[0] = nil
	r.buffer = r.buffer[1:]

	r.fetched = append(r.fetched, e)

	return &types.RawMessage{
		Position: e.position,
		Payload:  e.payload,
	}, nil
}

// CommitPositions acknowledges every fetched entry up to and including the
// flush position and records both positions in the progress hash.
func (r *RedisStreams) CommitPositions(ctx context.Context, write, flush types.Position) error {
	idx := -1

	if flush != nil {
		id, ok := flush.(StreamID)
		if !ok {
			return errors.Errorf("unexpected position type %T", flush)
		}

		for i, e := range r.fetched {
			if e.position == id {
				idx = i
				break
			}
		}
	}

	ids := make(map[string][]string)
	order := make([]string, 0)

	for _, e := range r.fetched[:idx+1] {
		if _, ok := ids[e.position.Stream]; !ok {
			order = append(order, e.position.Stream)
		}

		ids[e.position.Stream] = append(ids[e.position.Stream], e.position.ID)
	}

	for _, stream := range order {
		if err := r.client.XAck(ctx, stream, r.cfg.ConsumerGroup, ids[stream]...).Err(); err != nil {
			return errors.Wrapf(err, "unable to ack entries of stream '%s'", stream)
		}
	}

	r.fetched = r.fetched[idx+1:]

	values := make([]interface{}, 0, 4)

	if write != nil {
		values = append(values, "write", write.String())
	}

	if flush != nil {
		values = append(values, "flush", flush.String())
	}

	if len(values) == 0 {
		return nil
	}

	if err := r.client.HSet(ctx, r.progressKey(), values...).Err(); err != nil {
		return errors.Wrap(err, "unable to record progress")
	}

	return nil
}

// NextScheduledTask returns nil; pending entries stay claimed by the consumer
func (r *RedisStreams) NextScheduledTask(_ time.Time) *types.ScheduledTask {
	return nil
}
