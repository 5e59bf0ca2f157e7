// Package kafka is the kafka replication backend. It consumes a set of
// topics through a consumer group and commits offsets once the messages
// before them have been flushed downstream.
package kafka

import (
	"context"
	"fmt"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	skafka "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/streamdal/cdc/util"
)

const (
	BackendName = "kafka"

	DefaultTimeoutSeconds = 10
	DefaultMaxWaitSeconds = 1
	DefaultMinBytes       = 1
	DefaultMaxBytes       = 1024 * 1024
)

var (
	ErrMissingAddress       = errors.New("at least one broker address is required")
	ErrMissingTopic         = errors.New("you must specify at least one topic")
	ErrMissingConsumerGroup = errors.New("consumer group cannot be empty")
)

// ConnConfig holds broker connection settings shared by the backend and the
// kafka producer
type ConnConfig struct {
	Address        []string `json:"address"`
	TimeoutSeconds int      `json:"timeout_seconds,omitempty"`
	UseTLS         bool     `json:"use_tls,omitempty"`
	TLSSkipVerify  bool     `json:"tls_skip_verify,omitempty"`
	TLSCaCert      string   `json:"tls_ca_cert,omitempty"`
	TLSClientCert  string   `json:"tls_client_cert,omitempty"`
	TLSClientKey   string   `json:"tls_client_key,omitempty"`
	SaslType       string   `json:"sasl_type,omitempty"`
	SaslUsername   string   `json:"sasl_username,omitempty"`
	SaslPassword   string   `json:"sasl_password,omitempty"`
}

type Config struct {
	ConnConfig

	Topics         []string `json:"topics"`
	ConsumerGroup  string   `json:"consumer_group"`
	MaxWaitSeconds int      `json:"max_wait_seconds,omitempty"`
	MinBytes       int      `json:"min_bytes,omitempty"`
	MaxBytes       int      `json:"max_bytes,omitempty"`
	QueueCapacity  int      `json:"queue_capacity,omitempty"`
}

// IReader is the part of *kafka.Reader used by the backend
type IReader interface {
	FetchMessage(ctx context.Context) (skafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

type Kafka struct {
	cfg    *Config
	reader IReader

	buffer  []skafka.Message
	fetched []skafka.Message

	log *logrus.Entry
}

func New(cfg *Config) (*Kafka, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to validate config")
	}

	dialer, err := NewDialer(&cfg.ConnConfig)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create new dialer")
	}

	return newWithReader(cfg, NewReader(dialer, cfg)), nil
}

func newWithReader(cfg *Config, reader IReader) *Kafka {
	return &Kafka{
		cfg:    cfg,
		reader: reader,
		log:    logrus.WithField("backend", BackendName),
	}
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}

	if len(cfg.Address) == 0 {
		return ErrMissingAddress
	}

	if len(cfg.Topics) == 0 {
		return ErrMissingTopic
	}

	if cfg.ConsumerGroup == "" {
		return ErrMissingConsumerGroup
	}

	return nil
}

// NewReader creates a consumer group reader. Offsets are only committed
// explicitly.
func NewReader(dialer *skafka.Dialer, cfg *Config) *skafka.Reader {
	rc := skafka.ReaderConfig{
		Brokers:        cfg.Address,
		GroupID:        cfg.ConsumerGroup,
		GroupTopics:    cfg.Topics,
		Dialer:         dialer,
		MaxWait:        seconds(cfg.MaxWaitSeconds, DefaultMaxWaitSeconds),
		MinBytes:       orDefault(cfg.MinBytes, DefaultMinBytes),
		MaxBytes:       orDefault(cfg.MaxBytes, DefaultMaxBytes),
		QueueCapacity:  cfg.QueueCapacity,
		CommitInterval: 0,
	}

	return skafka.NewReader(rc)
}

// NewWriter creates a writer for a single topic that waits for all in-sync
// replicas.
// NOTE: Continuing to use the deprecated NewWriter() func to avoid dealing with
// TLS issues (since *Writer does not have a Dialer and Transport has TLS
// defined separate from the dialer).
func NewWriter(dialer *skafka.Dialer, connCfg *ConnConfig, topic string, batchSize int) *skafka.Writer {
	return skafka.NewWriter(skafka.WriterConfig{
		Brokers:      connCfg.Address,
		Topic:        topic,
		Dialer:       dialer,
		BatchSize:    orDefault(batchSize, 1),
		RequiredAcks: int(skafka.RequireAll),
	})
}

func NewDialer(connCfg *ConnConfig) (*skafka.Dialer, error) {
	dialer := &skafka.Dialer{
		Timeout: seconds(connCfg.TimeoutSeconds, DefaultTimeoutSeconds),
	}

	if connCfg.UseTLS || connCfg.TLSSkipVerify {
		tlsConfig, err := util.GenerateTLSConfig(connCfg.TLSCaCert, connCfg.TLSClientCert,
			connCfg.TLSClientKey, connCfg.TLSSkipVerify)
		if err != nil {
			return nil, errors.Wrap(err, "unable to generate TLS config")
		}

		dialer.TLS = tlsConfig
	}

	auth, err := getAuthenticationMechanism(connCfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to get auth mechanism")
	}

	dialer.SASLMechanism = auth

	return dialer, nil
}

// getAuthenticationMechanism returns the correct authentication config for use with kafka.Dialer if a username/password
// is provided. If not, it will return nil
func getAuthenticationMechanism(connCfg *ConnConfig) (sasl.Mechanism, error) {
	if connCfg.SaslUsername == "" {
		return nil, nil
	}

	// Username given, but no password. Prompt user for it
	if connCfg.SaslPassword == "" {
		password, err := readPassword()
		if err != nil {
			return nil, errors.Wrap(err, "unable to read password from STDIN")
		}
		connCfg.SaslPassword = password
	}

	switch strings.ToLower(connCfg.SaslType) {
	case "scram":
		return scram.Mechanism(scram.SHA512, connCfg.SaslUsername, connCfg.SaslPassword)
	default:
		return plain.Mechanism{
			Username: connCfg.SaslUsername,
			Password: connCfg.SaslPassword,
		}, nil
	}
}

// readPassword prompts the user for a password from stdin
func readPassword() (string, error) {
	for {
		fmt.Print("Enter Password: ")

		// int typecast is needed for windows
		password, err := terminal.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return "", errors.New("you must enter a password")
		}

		fmt.Println("")

		sp := strings.TrimSpace(string(password))
		if sp != "" {
			return sp, nil
		}
	}
}

func (k *Kafka) Name() string {
	return BackendName
}

func (k *Kafka) Close() error {
	return k.reader.Close()
}

func seconds(v, def int) time.Duration {
	return time.Duration(orDefault(v, def)) * time.Second
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}

	return v
}
