package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx"
	"github.com/pkg/errors"

	"github.com/streamdal/cdc/types"
)

// Poll waits up to timeout for the next replication message. Heartbeats are
// consumed here; one asking for a reply makes a keepalive due immediately.
func (p *Postgres) Poll(ctx context.Context, timeout time.Duration) error {
	if len(p.buffer) > 0 {
		return nil
	}

	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	msg, err := p.conn.WaitForReplicationMessage(wctx)
	if err != nil {
		if err == context.DeadlineExceeded || ctx.Err() != nil {
			return nil
		}

		return errors.Wrap(err, "unable to receive replication message")
	}

	p.handleMessage(msg)

	return nil
}

func (p *Postgres) handleMessage(msg *pgx.ReplicationMessage) {
	if msg == nil {
		return
	}

	if msg.WalMessage != nil {
		p.buffer = append(p.buffer, &types.RawMessage{
			Position: LSN(msg.WalMessage.WalStart),
			Payload:  msg.WalMessage.WalData,
		})

		return
	}

	if msg.ServerHeartbeat != nil && msg.ServerHeartbeat.ReplyRequested == 1 {
		p.log.Debug("Server requested a status update")
		p.statusRequested = true
	}
}

// Fetch returns the next buffered WAL message, or nil
func (p *Postgres) Fetch() (*types.RawMessage, error) {
	if len(p.buffer) == 0 {
		return nil, nil
	}

	msg := p.buffer[0]
	p.buffer[0] = nil
	p.buffer = p.buffer[1:]

	return msg, nil
}

// CommitPositions reports write and flush positions to the server. A nil
// position keeps the last reported one.
func (p *Postgres) CommitPositions(_ context.Context, write, flush types.Position) error {
	w, err := p.toLSN(write, p.committedWrite)
	if err != nil {
		return err
	}

	f, err := p.toLSN(flush, p.committedFlush)
	if err != nil {
		return err
	}

	if err := p.sendStatus(w, f); err != nil {
		return err
	}

	p.committedWrite = w
	p.committedFlush = f

	return nil
}

func (p *Postgres) toLSN(position types.Position, fallback LSN) (LSN, error) {
	if position == nil {
		return fallback, nil
	}

	lsn, ok := position.(LSN)
	if !ok {
		return 0, errors.Errorf("unexpected position type %T", position)
	}

	return lsn, nil
}

func (p *Postgres) sendStatus(write, flush LSN) error {
	// flush, apply, write
	status, err := pgx.NewStandbyStatus(uint64(flush), uint64(flush), uint64(write))
	if err != nil {
		return errors.Wrap(err, "unable to create standby status")
	}

	if err := p.conn.SendStandbyStatus(status); err != nil {
		return errors.Wrap(err, "unable to send standby status")
	}

	p.log.Debugf("Sent standby status: write=%s flush=%s", write, flush)

	p.lastStatus = p.now()
	p.statusRequested = false

	return nil
}

// NextScheduledTask returns the keepalive task: due immediately if the
// server asked for a reply, otherwise one keepalive interval after the last
// status update.
func (p *Postgres) NextScheduledTask(now time.Time) *types.ScheduledTask {
	due := p.lastStatus.Add(p.keepaliveInterval())

	if p.statusRequested {
		due = now
	}

	return &types.ScheduledTask{
		Due:  due,
		Kind: types.TaskKeepalive,
		Name: KeepaliveTaskName,
		Action: func(_ context.Context) error {
			return p.sendStatus(p.committedWrite, p.committedFlush)
		},
	}
}
