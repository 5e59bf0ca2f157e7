package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hokaccha/go-prettyjson"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/streamdal/cdc/backends/postgres"
	"github.com/streamdal/cdc/types"
)

const StdoutName = "stdout"

type StdoutConfig struct {
	// Decode pgoutput payloads into change records before printing
	Decode bool `json:"decode,omitempty"`

	// Pretty prints decoded records as colorized, indented JSON
	Pretty bool `json:"pretty,omitempty"`

	Writer io.Writer `json:"-"`
}

// Stdout prints every message as soon as it is written; Flush is a no-op
type Stdout struct {
	cfg     *StdoutConfig
	out     io.Writer
	decoder *postgres.Decoder
	log     *logrus.Entry
}

func NewStdout(cfg *StdoutConfig) (*Stdout, error) {
	if cfg == nil {
		cfg = &StdoutConfig{}
	}

	s := &Stdout{
		cfg: cfg,
		out: cfg.Writer,
		log: logrus.WithField("pkg", "producers/stdout"),
	}

	if s.out == nil {
		s.out = os.Stdout
	}

	if cfg.Decode {
		s.decoder = postgres.NewDecoder()
	}

	return s, nil
}

func (s *Stdout) Name() string {
	return StdoutName
}

func (s *Stdout) Write(_ context.Context, msg *types.Message) error {
	if s.decoder == nil {
		_, err := fmt.Fprintf(s.out, "%d %s %s\n", msg.Id, positionString(msg), msg.Payload)
		return errors.Wrap(err, "unable to write message")
	}

	record, err := s.decoder.Decode(msg.Payload)
	if err != nil {
		return errors.Wrapf(err, "unable to decode message %d", msg.Id)
	}

	// Begin, commit, relation etc. only update decoder state
	if record == nil {
		return nil
	}

	var data []byte

	if s.cfg.Pretty {
		data, err = prettyjson.Marshal(record)
	} else {
		data, err = json.Marshal(record)
	}

	if err != nil {
		return errors.Wrap(err, "unable to marshal change record")
	}

	_, err = fmt.Fprintf(s.out, "%s\n", data)

	return errors.Wrap(err, "unable to write change record")
}

func (s *Stdout) Flush(_ context.Context) error {
	return nil
}

func (s *Stdout) Close() error {
	return nil
}
