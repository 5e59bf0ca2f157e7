package sources_test

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"github.com/streamdal/cdc/sources"
	"github.com/streamdal/cdc/sources/sourcesfakes"
	"github.com/streamdal/cdc/types"
)

type lsn uint64

func (l lsn) String() string {
	return fmt.Sprintf("0/%X", uint64(l))
}

func intPtr(i int) *int {
	return &i
}

var _ = Describe("Source", func() {
	var (
		backend *sourcesfakes.FakeBackend
		source  *sources.Source
		now     time.Time
		ctx     context.Context
	)

	start := time.Date(2019, 6, 16, 6, 21, 39, 0, time.UTC)

	newSource := func(cfg *sources.Configuration) *sources.Source {
		s, err := sources.New(backend, cfg)
		Expect(err).ToNot(HaveOccurred())

		s.SetClock(func() time.Time { return now })

		return s
	}

	// ack writes and flushes messages 1..n
	ack := func(s *sources.Source, n int) {
		for i := 1; i <= n; i++ {
			Expect(s.SetWritePosition(types.Id(i), lsn(i*10))).To(Succeed())
			Expect(s.SetFlushPosition(types.Id(i), lsn(i*10))).To(Succeed())
		}
	}

	BeforeEach(func() {
		backend = &sourcesfakes.FakeBackend{}
		backend.NameReturns("fake")
		now = start
		ctx = context.Background()
		source = newSource(nil)
	})

	Context("New", func() {
		It("requires a backend", func() {
			_, err := sources.New(nil, nil)
			Expect(err).To(Equal(sources.ErrMissingBackend))
		})

		It("rejects a negative interval", func() {
			_, err := sources.New(backend, &sources.Configuration{CommitPositionsAfterSeconds: -1})
			Expect(errors.Cause(err)).To(Equal(sources.ErrInvalidCommitSeconds))
		})

		It("rejects a negative message count", func() {
			_, err := sources.New(backend, &sources.Configuration{
				CommitPositionsAfterSeconds:         1,
				CommitPositionsAfterFlushedMessages: intPtr(-1),
			})
			Expect(errors.Cause(err)).To(Equal(sources.ErrInvalidCommitCount))
		})

		It("defaults to a 60 second commit interval", func() {
			task := source.NextScheduledTask(now)
			Expect(task.Due).To(Equal(start.Add(60 * time.Second)))
		})
	})

	Context("Fetch", func() {
		It("returns nil when the backend has nothing ready", func() {
			msg, err := source.Fetch()
			Expect(err).ToNot(HaveOccurred())
			Expect(msg).To(BeNil())
		})

		It("assigns ids 1, 2, 3 in fetch order", func() {
			backend.FetchReturns(&types.RawMessage{Position: lsn(1), Payload: []byte("same")}, nil)

			for i := 1; i <= 3; i++ {
				msg, err := source.Fetch()
				Expect(err).ToNot(HaveOccurred())
				Expect(msg.Id).To(Equal(types.Id(i)))
				Expect(msg.Position).To(Equal(lsn(1)))
				Expect(msg.Payload).To(Equal([]byte("same")))
			}
		})

		It("does not consume an id when nothing was fetched", func() {
			backend.FetchReturnsOnCall(0, &types.RawMessage{Position: lsn(1)}, nil)
			backend.FetchReturnsOnCall(1, nil, nil)
			backend.FetchReturnsOnCall(2, &types.RawMessage{Position: lsn(2)}, nil)

			first, _ := source.Fetch()
			none, _ := source.Fetch()
			second, _ := source.Fetch()

			Expect(first.Id).To(Equal(types.Id(1)))
			Expect(none).To(BeNil())
			Expect(second.Id).To(Equal(types.Id(2)))
		})

		It("surfaces backend errors", func() {
			backend.FetchReturns(nil, errors.New("connection reset"))

			msg, err := source.Fetch()
			Expect(msg).To(BeNil())
			Expect(err).To(MatchError(ContainSubstring("connection reset")))
		})
	})

	Context("Poll", func() {
		It("passes the timeout to the backend", func() {
			Expect(source.Poll(ctx, 250*time.Millisecond)).To(Succeed())
			Expect(backend.PollCallCount()).To(Equal(1))

			_, timeout := backend.PollArgsForCall(0)
			Expect(timeout).To(Equal(250 * time.Millisecond))
			Expect(backend.FetchCallCount()).To(Equal(0))
		})

		It("surfaces backend errors", func() {
			backend.PollReturns(errors.New("poll failed"))
			Expect(source.Poll(ctx, time.Second)).To(MatchError(ContainSubstring("poll failed")))
		})
	})

	Context("SetWritePosition", func() {
		It("accepts sequential ids starting at 1", func() {
			for i := 1; i <= 5; i++ {
				Expect(source.SetWritePosition(types.Id(i), lsn(i))).To(Succeed())
			}

			id, pos := source.WritePosition()
			Expect(id).To(Equal(types.Id(5)))
			Expect(pos).To(Equal(lsn(5)))
		})

		It("rejects a first id other than 1", func() {
			err := source.SetWritePosition(2, lsn(2))
			Expect(types.IsContractViolation(err)).To(BeTrue())
		})

		It("rejects gaps, duplicates and regressions", func() {
			Expect(source.SetWritePosition(1, lsn(1))).To(Succeed())
			Expect(source.SetWritePosition(2, lsn(2))).To(Succeed())

			for _, id := range []types.Id{0, 1, 2, 4, 100} {
				err := source.SetWritePosition(id, lsn(id))
				Expect(types.IsContractViolation(err)).To(BeTrue(), "id %d", id)
			}

			id, pos := source.WritePosition()
			Expect(id).To(Equal(types.Id(2)))
			Expect(pos).To(Equal(lsn(2)))
		})
	})

	Context("SetFlushPosition", func() {
		It("accepts sequential ids starting at 1", func() {
			ack(source, 3)

			id, pos := source.FlushPosition()
			Expect(id).To(Equal(types.Id(3)))
			Expect(pos).To(Equal(lsn(30)))
		})

		It("rejects non-sequential ids", func() {
			err := source.SetFlushPosition(2, lsn(2))
			Expect(types.IsContractViolation(err)).To(BeTrue())

			ack(source, 1)

			err = source.SetFlushPosition(1, lsn(1))
			Expect(types.IsContractViolation(err)).To(BeTrue())

			err = source.SetFlushPosition(3, lsn(3))
			Expect(types.IsContractViolation(err)).To(BeTrue())
		})

		It("tracks flush independently of write", func() {
			Expect(source.SetWritePosition(1, lsn(1))).To(Succeed())
			Expect(source.SetWritePosition(2, lsn(2))).To(Succeed())
			Expect(source.SetFlushPosition(1, lsn(1))).To(Succeed())

			writeId, _ := source.WritePosition()
			flushId, _ := source.FlushPosition()
			Expect(writeId).To(Equal(types.Id(2)))
			Expect(flushId).To(Equal(types.Id(1)))
		})
	})

	Context("CommitPositions", func() {
		It("sends nil positions before anything was acknowledged", func() {
			Expect(source.CommitPositions(ctx)).To(Succeed())

			_, write, flush := backend.CommitPositionsArgsForCall(0)
			Expect(write).To(BeNil())
			Expect(flush).To(BeNil())
		})

		It("sends the current write and flush positions", func() {
			ack(source, 2)
			Expect(source.SetWritePosition(3, lsn(30))).To(Succeed())

			Expect(source.CommitPositions(ctx)).To(Succeed())

			_, write, flush := backend.CommitPositionsArgsForCall(0)
			Expect(write).To(Equal(lsn(30)))
			Expect(flush).To(Equal(lsn(20)))
		})

		It("re-sends the same positions without progress", func() {
			ack(source, 1)

			Expect(source.CommitPositions(ctx)).To(Succeed())
			Expect(source.CommitPositions(ctx)).To(Succeed())

			Expect(backend.CommitPositionsCallCount()).To(Equal(2))

			_, w1, f1 := backend.CommitPositionsArgsForCall(0)
			_, w2, f2 := backend.CommitPositionsArgsForCall(1)
			Expect(w1).To(Equal(w2))
			Expect(f1).To(Equal(f2))
		})

		It("surfaces backend errors and keeps the previous baseline", func() {
			backend.CommitPositionsReturns(errors.New("slot gone"))
			now = start.Add(time.Hour)

			Expect(source.CommitPositions(ctx)).To(MatchError(ContainSubstring("slot gone")))

			// The commit task is still scheduled relative to the last successful commit
			task := source.NextScheduledTask(now)
			Expect(task.Due).To(Equal(start.Add(60 * time.Second)))
		})
	})

	Context("NextScheduledTask", func() {
		It("schedules the commit task an interval after the last commit", func() {
			source = newSource(&sources.Configuration{CommitPositionsAfterSeconds: 5})

			now = start.Add(2 * time.Second)
			Expect(source.CommitPositions(ctx)).To(Succeed())

			task := source.NextScheduledTask(start.Add(24 * time.Hour))
			Expect(task.Kind).To(Equal(types.TaskCommitPositions))
			Expect(task.Name).To(Equal(sources.CommitTaskName))
			Expect(task.Due).To(Equal(start.Add(7 * time.Second)))
		})

		It("supports fractional seconds", func() {
			source = newSource(&sources.Configuration{CommitPositionsAfterSeconds: 0.5})

			task := source.NextScheduledTask(now)
			Expect(task.Due).To(Equal(start.Add(500 * time.Millisecond)))
		})

		It("commits immediately once more than N messages were flushed", func() {
			source = newSource(&sources.Configuration{
				CommitPositionsAfterSeconds:         60,
				CommitPositionsAfterFlushedMessages: intPtr(2),
			})

			ack(source, 2)
			later := start.Add(time.Second)

			// exactly N flushed does not trigger
			Expect(source.NextScheduledTask(later).Due).To(Equal(start.Add(60 * time.Second)))

			ack2 := func(id int) {
				Expect(source.SetWritePosition(types.Id(id), lsn(id))).To(Succeed())
				Expect(source.SetFlushPosition(types.Id(id), lsn(id))).To(Succeed())
			}
			ack2(3)

			task := source.NextScheduledTask(later)
			Expect(task.Kind).To(Equal(types.TaskCommitPositions))
			Expect(task.Due).To(Equal(later))
		})

		It("counts flushed messages from the last commit", func() {
			source = newSource(&sources.Configuration{
				CommitPositionsAfterSeconds:         60,
				CommitPositionsAfterFlushedMessages: intPtr(1),
			})

			ack(source, 2)
			Expect(source.CommitPositions(ctx)).To(Succeed())

			Expect(source.NextScheduledTask(now).Due).To(Equal(start.Add(60 * time.Second)))
		})

		It("ignores the count threshold when unset", func() {
			ack(source, 1000)
			Expect(source.NextScheduledTask(now).Due).To(Equal(start.Add(60 * time.Second)))
		})

		It("ignores the count threshold while nothing was flushed", func() {
			source = newSource(&sources.Configuration{
				CommitPositionsAfterSeconds:         60,
				CommitPositionsAfterFlushedMessages: intPtr(0),
			})

			Expect(source.NextScheduledTask(now).Due).To(Equal(start.Add(60 * time.Second)))
		})

		It("returns the backend task if it is due earlier", func() {
			keepalive := &types.ScheduledTask{Due: start.Add(10 * time.Second), Kind: types.TaskKeepalive, Name: "keepalive"}
			backend.NextScheduledTaskReturns(keepalive)

			Expect(source.NextScheduledTask(now)).To(Equal(keepalive))
			Expect(backend.NextScheduledTaskArgsForCall(0)).To(Equal(now))
		})

		It("returns the commit task if the backend task is due later", func() {
			backend.NextScheduledTaskReturns(&types.ScheduledTask{Due: start.Add(time.Hour), Kind: types.TaskKeepalive})

			Expect(source.NextScheduledTask(now).Kind).To(Equal(types.TaskCommitPositions))
		})

		It("returns the commit task on a tie", func() {
			backend.NextScheduledTaskReturns(&types.ScheduledTask{Due: start.Add(60 * time.Second), Kind: types.TaskKeepalive})

			Expect(source.NextScheduledTask(now).Kind).To(Equal(types.TaskCommitPositions))
		})

		It("returns a commit task whose action commits positions", func() {
			ack(source, 1)

			task := source.NextScheduledTask(now)
			Expect(task.Action(ctx)).To(Succeed())
			Expect(backend.CommitPositionsCallCount()).To(Equal(1))
		})
	})

	Context("Close", func() {
		It("closes the backend", func() {
			Expect(source.Close()).To(Succeed())
			Expect(backend.CloseCallCount()).To(Equal(1))
		})
	})
})
