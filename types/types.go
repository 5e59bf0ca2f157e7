package types

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

var (
	BackendNotConnectedErr = errors.New("backend not connected")
	NotImplementedErr      = errors.New("not implemented")

	// ErrContractViolation is the cause of every error that signals a bug in
	// the calling code rather than a transient condition.
	ErrContractViolation = errors.New("contract violation")
)

// Id is assigned by a Source to every fetched message. Ids start at 1 and
// increase by exactly one per fetched message.
type Id int64

// Position is an opaque, backend-defined location in a replication log.
// Sources never compare positions, they only hand them back to the backend
// that produced them.
type Position interface {
	fmt.Stringer
}

// RawMessage is what a backend hands to a Source on fetch
type RawMessage struct {
	Position Position
	Payload  []byte
}

// Message is a fetched replication message with its Source-assigned Id
type Message struct {
	Id       Id
	Position Position
	Payload  []byte
}

func (m *Message) String() string {
	return fmt.Sprintf("<Message %d at %s (%d bytes)>", m.Id, m.Position, len(m.Payload))
}

// TaskKind identifies what a ScheduledTask does
type TaskKind int

const (
	TaskCommitPositions TaskKind = iota
	TaskKeepalive
)

func (k TaskKind) String() string {
	switch k {
	case TaskCommitPositions:
		return "commit_positions"
	case TaskKeepalive:
		return "keepalive"
	}

	return fmt.Sprintf("task_kind(%d)", int(k))
}

// ScheduledTask is the earliest point at which a maintenance action has to
// run. Drivers sleep (or poll) until Due and then invoke Action.
type ScheduledTask struct {
	Due    time.Time
	Kind   TaskKind
	Name   string
	Action func(ctx context.Context) error
}

func (t *ScheduledTask) String() string {
	return fmt.Sprintf("<ScheduledTask %s due %s>", t.Name, t.Due.Format(time.RFC3339Nano))
}

// IsDue reports whether the task should run at the given time
func (t *ScheduledTask) IsDue(now time.Time) bool {
	return !now.Before(t.Due)
}

// EarliestTask returns the task with the earliest due time. Nil tasks are
// skipped; on a tie the task passed first wins. Returns nil when every task
// is nil.
func EarliestTask(tasks ...*ScheduledTask) *ScheduledTask {
	var earliest *ScheduledTask

	for _, t := range tasks {
		if t == nil {
			continue
		}

		if earliest == nil || t.Due.Before(earliest.Due) {
			earliest = t
		}
	}

	return earliest
}

// ContractViolationError describes a misuse of an API by its caller
type ContractViolationError struct {
	Op       string
	Expected Id
	Got      Id
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("%s: %s: expected id %d, got %d", ErrContractViolation, e.Op, e.Expected, e.Got)
}

func (e *ContractViolationError) Unwrap() error {
	return ErrContractViolation
}

// IsContractViolation reports whether err (or anything it wraps) is a
// contract violation
func IsContractViolation(err error) bool {
	return errors.Is(err, ErrContractViolation)
}
