// Package postgres is the postgres_logical replication backend. It streams
// pgoutput messages from a logical replication slot and reports progress to
// the server through standby status updates.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/streamdal/cdc/types"
	"github.com/streamdal/cdc/util"
)

const (
	BackendName = "postgres_logical"

	OutputPlugin = "pgoutput"

	DefaultKeepaliveSeconds = 10.0

	KeepaliveTaskName = "send_keepalive"

	pgDuplicateObjectErrorCode = "42710"
)

var (
	ErrMissingDSN         = errors.New("dsn cannot be empty")
	ErrMissingSlot        = errors.New("replication slot cannot be empty")
	ErrMissingPublication = errors.New("publication cannot be empty")
)

type Config struct {
	DSN              string  `json:"dsn"`
	Slot             string  `json:"slot"`
	Publication      string  `json:"publication"`
	CreateSlot       bool    `json:"create_slot,omitempty"`
	StartLSN         string  `json:"start_lsn,omitempty"`
	KeepaliveSeconds float64 `json:"keepalive_seconds,omitempty"`
	UseTLS           bool    `json:"use_tls,omitempty"`
	SkipVerifyTLS    bool    `json:"skip_verify_tls,omitempty"`
}

// LSN is a write-ahead log position
type LSN uint64

func (l LSN) String() string {
	return pgx.FormatLSN(uint64(l))
}

// ParseLSN parses the textual "XXX/XXX" form
func ParseLSN(s string) (LSN, error) {
	lsn, err := pgx.ParseLSN(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid lsn '%s'", s)
	}

	return LSN(lsn), nil
}

// replicationConn is the part of *pgx.ReplicationConn used after
// replication has started
type replicationConn interface {
	WaitForReplicationMessage(ctx context.Context) (*pgx.ReplicationMessage, error)
	SendStandbyStatus(k *pgx.StandbyStatus) error
	Close() error
}

type Postgres struct {
	cfg  *Config
	conn replicationConn

	buffer []*types.RawMessage

	committedWrite  LSN
	committedFlush  LSN
	lastStatus      time.Time
	statusRequested bool

	now func() time.Time
	log *logrus.Entry
}

// New connects to the server, creates the slot if asked to and starts
// streaming from it.
func New(cfg *Config) (*Postgres, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to validate config")
	}

	connConfig, err := pgx.ParseConnectionString(cfg.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse dsn")
	}

	if cfg.UseTLS {
		tlsConfig, err := util.GenerateTLSConfig("", "", "", cfg.SkipVerifyTLS)
		if err != nil {
			return nil, errors.Wrap(err, "unable to build tls config")
		}

		tlsConfig.ServerName = connConfig.Host
		connConfig.TLSConfig = tlsConfig
	}

	var startLSN LSN

	if cfg.StartLSN != "" {
		startLSN, err = ParseLSN(cfg.StartLSN)
		if err != nil {
			return nil, err
		}
	}

	conn, err := pgx.ReplicationConnect(connConfig)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create replication connection")
	}

	if cfg.CreateSlot {
		if err := createSlot(conn, cfg.Slot); err != nil {
			conn.Close()
			return nil, err
		}
	}

	if err := conn.StartReplication(cfg.Slot, uint64(startLSN), -1, pluginArgs(cfg.Publication)); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "unable to start replication")
	}

	p := newWithConn(cfg, conn)
	p.committedWrite = startLSN
	p.committedFlush = startLSN

	p.log.Infof("Started replication from slot '%s' at %s", cfg.Slot, startLSN)

	return p, nil
}

func newWithConn(cfg *Config, conn replicationConn) *Postgres {
	p := &Postgres{
		cfg:  cfg,
		conn: conn,
		now:  time.Now,
		log:  logrus.WithField("backend", BackendName),
	}

	p.lastStatus = p.now()

	return p
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}

	if cfg.DSN == "" {
		return ErrMissingDSN
	}

	if cfg.Slot == "" {
		return ErrMissingSlot
	}

	if cfg.Publication == "" {
		return ErrMissingPublication
	}

	if cfg.KeepaliveSeconds < 0 {
		return errors.New("keepalive seconds cannot be negative")
	}

	return nil
}

// createSlot creates the replication slot unless it already exists
func createSlot(conn *pgx.ReplicationConn, slot string) error {
	if err := conn.CreateReplicationSlot(slot, OutputPlugin); err != nil {
		pgErr, ok := err.(pgx.PgError)
		if !ok || pgErr.Code != pgDuplicateObjectErrorCode {
			return errors.Wrapf(err, "unable to create replication slot '%s'", slot)
		}
	}

	return nil
}

func pluginArgs(publication string) string {
	return fmt.Sprintf(`"proto_version" '1', "publication_names" '%s'`, publication)
}

func (p *Postgres) Name() string {
	return BackendName
}

func (p *Postgres) Close() error {
	if p.conn == nil {
		return nil
	}

	return p.conn.Close()
}

func (p *Postgres) keepaliveInterval() time.Duration {
	seconds := p.cfg.KeepaliveSeconds
	if seconds == 0 {
		seconds = DefaultKeepaliveSeconds
	}

	return time.Duration(seconds * float64(time.Second))
}
