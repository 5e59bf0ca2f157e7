// Package postgres is the postgres_logical snapshot source. Every dump runs
// in its own REPEATABLE READ, READ ONLY transaction on a dedicated
// connection; all tables are read as of the same visibility boundary.
package postgres

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/Masterminds/semver"
	"github.com/jackc/pgx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/streamdal/cdc/snapshots"
	"github.com/streamdal/cdc/util"
)

const (
	Name = "postgres_logical"

	DefaultTimeZone       = "UTC"
	DefaultConnectTimeout = 10 * time.Second

	// pg_current_snapshot() replaced txid_current_snapshot() in 13
	currentSnapshotMinVersion = ">= 13"

	boundaryQuery       = "SELECT pg_snapshot_xmin(s)::text::bigint, pg_snapshot_xmax(s)::text::bigint FROM pg_current_snapshot() s"
	legacyBoundaryQuery = "SELECT txid_snapshot_xmin(s), txid_snapshot_xmax(s) FROM txid_current_snapshot() s"

	columnsQuery = `SELECT a.attname FROM pg_catalog.pg_attribute a
WHERE a.attrelid = $1::text::regclass AND a.attnum > 0 AND NOT a.attisdropped
ORDER BY a.attnum`
)

var (
	ErrMissingDSN = errors.New("dsn cannot be empty")
)

func init() {
	snapshots.Register(Name, func(cfg *snapshots.SourceConfig) (snapshots.Snapshotter, error) {
		return New(cfg)
	})
}

type Postgres struct {
	connConfig pgx.ConnConfig
	dumper     *snapshots.Dumper
	log        *logrus.Entry
}

func New(cfg *snapshots.SourceConfig) (*Postgres, error) {
	connConfig, err := connConfigFromSource(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to build connection config")
	}

	p := &Postgres{
		connConfig: connConfig,
		log:        logrus.WithField("pkg", "snapshots/postgres"),
	}

	p.dumper, err = snapshots.NewDumper(p)
	if err != nil {
		return nil, err
	}

	return p, nil
}

func connConfigFromSource(cfg *snapshots.SourceConfig) (pgx.ConnConfig, error) {
	if cfg == nil || cfg.DSN == "" {
		return pgx.ConnConfig{}, ErrMissingDSN
	}

	connConfig, err := pgx.ParseConnectionString(cfg.DSN)
	if err != nil {
		return pgx.ConnConfig{}, errors.Wrap(err, "unable to parse dsn")
	}

	timeZone := cfg.TimeZone
	if timeZone == "" {
		timeZone = DefaultTimeZone
	}

	if connConfig.RuntimeParams == nil {
		connConfig.RuntimeParams = make(map[string]string)
	}

	connConfig.RuntimeParams["timezone"] = timeZone
	connConfig.RuntimeParams["application_name"] = "cdc-snapshot"

	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}

	dialer := &net.Dialer{Timeout: connectTimeout, KeepAlive: 5 * time.Minute}
	connConfig.Dial = dialer.Dial

	if cfg.UseTLS {
		tlsConfig, err := util.GenerateTLSConfig("", "", "", cfg.SkipVerifyTLS)
		if err != nil {
			return pgx.ConnConfig{}, errors.Wrap(err, "unable to build tls config")
		}

		tlsConfig.ServerName = connConfig.Host
		connConfig.TLSConfig = tlsConfig
	}

	return connConfig, nil
}

func (p *Postgres) Name() string {
	return Name
}

// Dump writes a consistent copy of tables to dest. Table names may be schema
// qualified ("public.users").
func (p *Postgres) Dump(ctx context.Context, dest snapshots.Destination, tables []string) (*snapshots.SnapshotDescriptor, error) {
	return p.dumper.Dump(ctx, dest, tables)
}

// Begin opens a dedicated connection and starts the snapshot transaction on it
func (p *Postgres) Begin(ctx context.Context) (snapshots.Session, error) {
	conn, err := pgx.Connect(p.connConfig)
	if err != nil {
		return nil, errors.Wrap(err, "unable to connect")
	}

	tx, err := conn.BeginEx(ctx, &pgx.TxOptions{
		IsoLevel:       pgx.RepeatableRead,
		AccessMode:     pgx.ReadOnly,
		DeferrableMode: pgx.NotDeferrable,
	})
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "unable to begin transaction")
	}

	query := boundaryQueryFor(conn.RuntimeParams["server_version"])

	p.log.Debugf("Opened snapshot session (server version '%s')", conn.RuntimeParams["server_version"])

	return &session{
		conn:          conn,
		tx:            tx,
		boundaryQuery: query,
		log:           p.log,
	}, nil
}

// boundaryQueryFor picks the snapshot function available on the server.
// Unparseable versions fall back to the legacy function, which still exists
// in newer releases.
func boundaryQueryFor(serverVersion string) string {
	fields := strings.Fields(serverVersion)
	if len(fields) == 0 {
		return legacyBoundaryQuery
	}

	v, err := semver.NewVersion(fields[0])
	if err != nil {
		return legacyBoundaryQuery
	}

	constraint, err := semver.NewConstraint(currentSnapshotMinVersion)
	if err != nil {
		return legacyBoundaryQuery
	}

	if constraint.Check(v) {
		return boundaryQuery
	}

	return legacyBoundaryQuery
}
