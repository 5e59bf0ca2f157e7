package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	skafka "github.com/segmentio/kafka-go"

	"github.com/streamdal/cdc/types"
)

// Offset is the position of a message within a topic partition
type Offset struct {
	Topic     string
	Partition int
	Offset    int64
}

func (o Offset) String() string {
	return fmt.Sprintf("%s/%d@%d", o.Topic, o.Partition, o.Offset)
}

func offsetOf(m skafka.Message) Offset {
	return Offset{Topic: m.Topic, Partition: m.Partition, Offset: m.Offset}
}

// Poll waits up to timeout for the next message
func (k *Kafka) Poll(ctx context.Context, timeout time.Duration) error {
	if len(k.buffer) > 0 {
		return nil
	}

	fctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	msg, err := k.reader.FetchMessage(fctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return nil
		}

		return errors.Wrap(err, "unable to fetch message")
	}

	k.buffer = append(k.buffer, msg)

	return nil
}

func (k *Kafka) Fetch() (*types.RawMessage, error) {
	if len(k.buffer) == 0 {
		return nil, nil
	}

	msg := k.buffer[0]
	k.buffer = k.buffer[1:]

	k.fetched = append(k.fetched, msg)

	return &types.RawMessage{
		Position: offsetOf(msg),
		Payload:  msg.Value,
	}, nil
}

// CommitPositions commits, for every partition, the last message fetched up
// to and including the flush position. Kafka has no notion of a write
// position, so it is ignored.
func (k *Kafka) CommitPositions(ctx context.Context, _, flush types.Position) error {
	if flush == nil {
		return nil
	}

	offset, ok := flush.(Offset)
	if !ok {
		return errors.Errorf("unexpected position type %T", flush)
	}

	idx := -1

	for i, m := range k.fetched {
		if offsetOf(m) == offset {
			idx = i
			break
		}
	}

	if idx < 0 {
		// Already committed
		return nil
	}

	latest := make(map[string]skafka.Message)
	order := make([]string, 0)

	for _, m := range k.fetched[:idx+1] {
		key := fmt.Sprintf("%s/%d", m.Topic, m.Partition)

		if _, seen := latest[key]; !seen {
			order = append(order, key)
		}

		latest[key] = m
	}

	commits := make([]skafka.Message, 0, len(order))

	for _, key := range order {
		commits = append(commits, latest[key])
	}

	if err := k.reader.CommitMessages(ctx, commits...); err != nil {
		return errors.Wrap(err, "unable to commit offsets")
	}

	k.log.Debugf("Committed %d partition offset(s) up to %s", len(commits), offset)

	k.fetched = k.fetched[idx+1:]

	return nil
}

// NextScheduledTask returns nil; the consumer group keeps its own heartbeat.
func (k *Kafka) NextScheduledTask(_ time.Time) *types.ScheduledTask {
	return nil
}
