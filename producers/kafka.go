package producers

import (
	"context"

	"github.com/pkg/errors"
	skafka "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/streamdal/cdc/backends/kafka"
	"github.com/streamdal/cdc/types"
)

const KafkaName = "kafka"

var ErrMissingTopic = errors.New("topic cannot be empty")

type KafkaConfig struct {
	kafka.ConnConfig

	Topic     string `json:"topic"`
	BatchSize int    `json:"batch_size,omitempty"`
}

// IKafkaWriter is the part of the kafka writer used by the producer
type IKafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// Kafka buffers written messages and hands them to the writer on Flush
type Kafka struct {
	cfg     *KafkaConfig
	writer  IKafkaWriter
	pending []skafka.Message
	log     *logrus.Entry
}

func NewKafka(cfg *KafkaConfig) (*Kafka, error) {
	if len(cfg.Address) == 0 {
		return nil, kafka.ErrMissingAddress
	}

	if cfg.Topic == "" {
		return nil, ErrMissingTopic
	}

	dialer, err := kafka.NewDialer(&cfg.ConnConfig)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create new dialer")
	}

	return newKafkaWithWriter(cfg, kafka.NewWriter(dialer, &cfg.ConnConfig, cfg.Topic, cfg.BatchSize)), nil
}

func newKafkaWithWriter(cfg *KafkaConfig, writer IKafkaWriter) *Kafka {
	return &Kafka{
		cfg:    cfg,
		writer: writer,
		log:    logrus.WithField("pkg", "producers/kafka"),
	}
}

func (k *Kafka) Name() string {
	return KafkaName
}

func (k *Kafka) Write(_ context.Context, msg *types.Message) error {
	k.pending = append(k.pending, skafka.Message{
		Key:   []byte(positionString(msg)),
		Value: msg.Payload,
		Headers: []skafka.Header{
			{Key: IdHeader, Value: []byte(idString(msg))},
		},
	})

	return nil
}

// Flush writes every pending message. On error the messages stay pending
// and are retried by the next Flush.
func (k *Kafka) Flush(ctx context.Context) error {
	if len(k.pending) == 0 {
		return nil
	}

	if err := k.writer.WriteMessages(ctx, k.pending...); err != nil {
		return errors.Wrapf(err, "unable to publish message(s) to topic '%s'", k.cfg.Topic)
	}

	k.log.Debugf("Flushed %d message(s) to topic '%s'", len(k.pending), k.cfg.Topic)

	k.pending = nil

	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
