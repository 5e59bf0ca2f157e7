package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx"
	"github.com/jackc/pgx/pgtype"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/streamdal/cdc/snapshots"
	"github.com/streamdal/cdc/util"
)

type session struct {
	conn          *pgx.Conn
	tx            *pgx.Tx
	boundaryQuery string
	log           *logrus.Entry
}

func (s *session) Boundary(ctx context.Context) (snapshots.Xid, snapshots.Xid, error) {
	var xmin, xmax int64

	if err := s.tx.QueryRowEx(ctx, s.boundaryQuery, nil).Scan(&xmin, &xmax); err != nil {
		return 0, 0, errors.Wrap(err, "unable to query current snapshot")
	}

	return snapshots.Xid(xmin), snapshots.Xid(xmax), nil
}

func (s *session) Columns(ctx context.Context, table string) ([]string, error) {
	ident, err := quoteTable(table)
	if err != nil {
		return nil, err
	}

	rows, err := s.tx.QueryEx(ctx, columnsQuery, nil, ident)
	if err != nil {
		return nil, errors.Wrap(err, "unable to query columns")
	}
	defer rows.Close()

	columns := make([]string, 0)

	for rows.Next() {
		var name string

		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "unable to scan column name")
		}

		columns = append(columns, name)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "unable to read columns")
	}

	return columns, nil
}

// StreamRows reads every column as its text representation, so values match
// what the server would print for them.
func (s *session) StreamRows(ctx context.Context, table string, columns []string, fn func(row []*string) error) error {
	query, err := selectQuery(table, columns)
	if err != nil {
		return err
	}

	rows, err := s.tx.QueryEx(ctx, query, nil)
	if err != nil {
		return errors.Wrap(err, "unable to query rows")
	}
	defer rows.Close()

	texts := make([]pgtype.Text, len(columns))
	dest := make([]interface{}, len(columns))

	for i := range texts {
		dest[i] = &texts[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return errors.Wrap(err, "unable to scan row")
		}

		row := make([]*string, len(columns))

		for i := range texts {
			if texts[i].Status != pgtype.Present {
				continue
			}

			value := texts[i].String
			row[i] = &value
		}

		if err := fn(row); err != nil {
			return err
		}
	}

	return errors.Wrap(rows.Err(), "unable to read rows")
}

func (s *session) Commit(ctx context.Context) error {
	defer s.close()

	if err := s.tx.CommitEx(ctx); err != nil {
		return errors.Wrap(err, "unable to commit transaction")
	}

	return nil
}

func (s *session) Rollback(ctx context.Context) error {
	defer s.close()

	if err := s.tx.RollbackEx(ctx); err != nil {
		return errors.Wrap(err, "unable to roll back transaction")
	}

	return nil
}

func (s *session) close() {
	if err := s.conn.Close(); err != nil {
		s.log.Warningf("unable to close connection: %s", err)
	}
}

func quoteTable(table string) (string, error) {
	parts := util.SplitIdentifier(table)

	if len(parts) == 0 || len(parts) > 2 {
		return "", errors.Errorf("invalid table name '%s'", table)
	}

	return pgx.Identifier(parts).Sanitize(), nil
}

func selectQuery(table string, columns []string) (string, error) {
	if len(columns) == 0 {
		return "", errors.Errorf("no columns to select from '%s'", table)
	}

	ident, err := quoteTable(table)
	if err != nil {
		return "", err
	}

	selects := make([]string, len(columns))

	for i, column := range columns {
		selects[i] = pgx.Identifier{column}.Sanitize() + "::text"
	}

	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(selects, ", "), ident), nil
}
