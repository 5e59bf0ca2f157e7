package producers

import (
	"context"
	"net/url"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/streamdal/cdc/types"
	"github.com/streamdal/cdc/util"
)

const (
	NatsJetstreamName = "nats_jetstream"

	DefaultMaxPending = 256
)

var (
	ErrMissingDSN     = errors.New("dsn cannot be empty")
	ErrMissingSubject = errors.New("subject cannot be empty")
)

type NatsJetstreamConfig struct {
	DSN     string `json:"dsn"`
	Subject string `json:"subject"`

	// Path to a .creds file or the JWT itself
	UserCredentials string `json:"user_credentials,omitempty"`

	UseTLS        bool   `json:"use_tls,omitempty"`
	TLSSkipVerify bool   `json:"tls_skip_verify,omitempty"`
	TLSCaCert     string `json:"tls_ca_cert,omitempty"`
	TLSClientCert string `json:"tls_client_cert,omitempty"`
	TLSClientKey  string `json:"tls_client_key,omitempty"`

	MaxPending int `json:"max_pending,omitempty"`
}

// IJetStream is the part of the jetstream context used by the producer
type IJetStream interface {
	PublishMsgAsync(m *nats.Msg, opts ...nats.PubOpt) (nats.PubAckFuture, error)
	PublishAsyncComplete() <-chan struct{}
}

// NatsJetstream publishes asynchronously on Write; Flush waits for every
// outstanding ack.
type NatsJetstream struct {
	cfg     *NatsJetstreamConfig
	client  *nats.Conn
	js      IJetStream
	pending []nats.PubAckFuture
	log     *logrus.Entry
}

func NewNatsJetstream(cfg *NatsJetstreamConfig) (*NatsJetstream, error) {
	if cfg.DSN == "" {
		return nil, ErrMissingDSN
	}

	if cfg.Subject == "" {
		return nil, ErrMissingSubject
	}

	uri, err := url.Parse(cfg.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse address")
	}

	options := make([]nats.Option, 0)

	// Credentials can be specified by a .creds file if users do not wish to pass in with the DSN
	if cfg.UserCredentials != "" {
		if util.FileExists(cfg.UserCredentials) {
			options = append(options, nats.UserCredentials(cfg.UserCredentials))
		} else {
			options = append(options, func(o *nats.Options) error {
				o.UserJWT = func() (string, error) {
					return cfg.UserCredentials, nil
				}
				o.SignatureCB = nil
				return nil
			})
		}
	}

	if uri.Scheme == "tls" || cfg.UseTLS {
		tlsConfig, err := util.GenerateTLSConfig(cfg.TLSCaCert, cfg.TLSClientCert, cfg.TLSClientKey, cfg.TLSSkipVerify)
		if err != nil {
			return nil, errors.Wrap(err, "unable to generate TLS config")
		}

		options = append(options, nats.Secure(tlsConfig))
	}

	client, err := nats.Connect(cfg.DSN, options...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create new nats client")
	}

	maxPending := cfg.MaxPending
	if maxPending <= 0 {
		maxPending = DefaultMaxPending
	}

	js, err := client.JetStream(nats.PublishAsyncMaxPending(maxPending))
	if err != nil {
		client.Close()
		return nil, errors.Wrap(err, "failed to get jetstream context")
	}

	n := newNatsJetstreamWithContext(cfg, js)
	n.client = client

	return n, nil
}

func newNatsJetstreamWithContext(cfg *NatsJetstreamConfig, js IJetStream) *NatsJetstream {
	return &NatsJetstream{
		cfg: cfg,
		js:  js,
		log: logrus.WithField("pkg", "producers/nats_jetstream"),
	}
}

func (n *NatsJetstream) Name() string {
	return NatsJetstreamName
}

// Write publishes the message without waiting for the ack. The position is
// used as the message id so the server drops redeliveries after a restart.
func (n *NatsJetstream) Write(_ context.Context, msg *types.Message) error {
	m := nats.NewMsg(n.cfg.Subject)
	m.Data = msg.Payload
	m.Header.Set(IdHeader, idString(msg))
	m.Header.Set(PositionHeader, positionString(msg))

	opts := make([]nats.PubOpt, 0)

	if pos := positionString(msg); pos != "" {
		opts = append(opts, nats.MsgId(pos))
	}

	future, err := n.js.PublishMsgAsync(m, opts...)
	if err != nil {
		return errors.Wrapf(err, "unable to publish message to subject '%s'", n.cfg.Subject)
	}

	n.pending = append(n.pending, future)

	return nil
}

// Flush waits until every pending publish is acked. Any nack fails the whole
// flush; the failed messages are not retried.
func (n *NatsJetstream) Flush(ctx context.Context) error {
	if len(n.pending) == 0 {
		return nil
	}

	select {
	case <-n.js.PublishAsyncComplete():
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "context cancelled while waiting for acks")
	}

	pending := n.pending
	n.pending = nil

	var failed int
	var firstErr error

	for _, f := range pending {
		select {
		case err := <-f.Err():
			failed++

			if firstErr == nil {
				firstErr = err
			}
		case <-f.Ok():
		case <-time.After(time.Second):
			failed++

			if firstErr == nil {
				firstErr = errors.New("no ack received")
			}
		}
	}

	if failed > 0 {
		return errors.Wrapf(firstErr, "%d of %d message(s) to subject '%s' were not acked",
			failed, len(pending), n.cfg.Subject)
	}

	n.log.Debugf("Flushed %d message(s) to subject '%s'", len(pending), n.cfg.Subject)

	return nil
}

func (n *NatsJetstream) Close() error {
	if n.client != nil {
		n.client.Close()
	}

	return nil
}
