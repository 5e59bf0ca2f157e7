package consumer_test

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"github.com/relistan/go-director"

	"github.com/streamdal/cdc/consumer"
	"github.com/streamdal/cdc/producers/producersfakes"
	"github.com/streamdal/cdc/sources"
	"github.com/streamdal/cdc/sources/sourcesfakes"
	"github.com/streamdal/cdc/types"
)

type lsn uint64

func (l lsn) String() string {
	return fmt.Sprintf("0/%X", uint64(l))
}

var _ = Describe("Consumer", func() {
	var (
		backend  *sourcesfakes.FakeBackend
		producer *producersfakes.FakeProducer
		source   *sources.Source
		ctx      context.Context
	)

	// queue makes the backend hand out the given positions, one per fetch
	queue := func(positions ...lsn) {
		backend.FetchCalls(func() (*types.RawMessage, error) {
			if len(positions) == 0 {
				return nil, nil
			}

			p := positions[0]
			positions = positions[1:]

			return &types.RawMessage{Position: p, Payload: []byte(p.String())}, nil
		})
	}

	newConsumer := func(iterations int, batchSize int) *consumer.Consumer {
		c, err := consumer.New(&consumer.Config{
			Source:         source,
			Producer:       producer,
			PollTimeout:    time.Second,
			FlushInterval:  time.Hour,
			FlushBatchSize: batchSize,
			Looper:         director.NewFreeLooper(iterations, make(chan error, 1)),
		})
		Expect(err).ToNot(HaveOccurred())

		return c
	}

	newSource := func(cfg *sources.Configuration) {
		var err error

		source, err = sources.New(backend, cfg)
		Expect(err).ToNot(HaveOccurred())
	}

	BeforeEach(func() {
		ctx = context.Background()

		backend = &sourcesfakes.FakeBackend{}
		backend.NameReturns("fake")

		producer = &producersfakes.FakeProducer{}
		producer.NameReturns("fake")

		newSource(nil)
	})

	Context("New", func() {
		It("validates the config", func() {
			_, err := consumer.New(nil)
			Expect(err).To(HaveOccurred())

			_, err = consumer.New(&consumer.Config{Producer: producer})
			Expect(errors.Cause(err)).To(Equal(consumer.ErrMissingSource))

			_, err = consumer.New(&consumer.Config{Source: source})
			Expect(errors.Cause(err)).To(Equal(consumer.ErrMissingProducer))
		})
	})

	Context("Run", func() {
		It("writes, flushes in batches and commits on exit", func() {
			queue(10, 20, 30)

			Expect(newConsumer(3, 2).Run(ctx)).To(Succeed())

			Expect(producer.WriteCallCount()).To(Equal(3))

			_, msg := producer.WriteArgsForCall(0)
			Expect(msg.Id).To(Equal(types.Id(1)))
			Expect(msg.Position).To(Equal(lsn(10)))

			// one batch of two plus the final flush
			Expect(producer.FlushCallCount()).To(Equal(2))

			writeId, writePos := source.WritePosition()
			Expect(writeId).To(Equal(types.Id(3)))
			Expect(writePos).To(Equal(lsn(30)))

			flushId, _ := source.FlushPosition()
			Expect(flushId).To(Equal(types.Id(3)))

			Expect(backend.CommitPositionsCallCount()).To(Equal(1))

			_, write, flush := backend.CommitPositionsArgsForCall(0)
			Expect(write).To(Equal(lsn(30)))
			Expect(flush).To(Equal(lsn(30)))
		})

		It("only flushes what was written", func() {
			queue(10, 20, 30)

			Expect(newConsumer(2, 10).Run(ctx)).To(Succeed())

			Expect(producer.FlushCallCount()).To(Equal(1))

			_, write, flush := backend.CommitPositionsArgsForCall(0)
			Expect(write).To(Equal(lsn(20)))
			Expect(flush).To(Equal(lsn(20)))
		})

		It("does not flush without messages", func() {
			Expect(newConsumer(3, 1).Run(ctx)).To(Succeed())

			Expect(backend.PollCallCount()).To(Equal(3))
			Expect(producer.FlushCallCount()).To(BeZero())
			Expect(backend.CommitPositionsCallCount()).To(Equal(1))
		})

		It("stops and commits when the context is done", func() {
			cancelCtx, cancel := context.WithCancel(ctx)
			cancel()

			Expect(newConsumer(director.FOREVER, 1).Run(cancelCtx)).To(Succeed())

			Expect(backend.PollCallCount()).To(BeZero())
			Expect(backend.CommitPositionsCallCount()).To(Equal(1))

			_, write, flush := backend.CommitPositionsArgsForCall(0)
			Expect(write).To(BeNil())
			Expect(flush).To(BeNil())
		})

		It("runs due tasks instead of polling", func() {
			var runs int

			backend.NextScheduledTaskReturns(&types.ScheduledTask{
				Kind: types.TaskKeepalive,
				Name: "send_keepalive",
				Action: func(_ context.Context) error {
					runs++
					return nil
				},
			})

			Expect(newConsumer(2, 1).Run(ctx)).To(Succeed())

			Expect(runs).To(Equal(2))
			Expect(backend.PollCallCount()).To(BeZero())
		})

		It("polls no longer than until the next task is due", func() {
			backend.NextScheduledTaskReturns(&types.ScheduledTask{
				Due:    time.Now().Add(100 * time.Millisecond),
				Kind:   types.TaskKeepalive,
				Name:   "send_keepalive",
				Action: func(_ context.Context) error { return nil },
			})

			Expect(newConsumer(1, 1).Run(ctx)).To(Succeed())

			_, timeout := backend.PollArgsForCall(0)
			Expect(timeout).To(BeNumerically("<=", 100*time.Millisecond))
		})

		It("commits once enough messages were flushed", func() {
			zero := 0
			newSource(&sources.Configuration{CommitPositionsAfterFlushedMessages: &zero})
			queue(10)

			Expect(newConsumer(2, 1).Run(ctx)).To(Succeed())

			// the commit task plus the final commit
			Expect(backend.CommitPositionsCallCount()).To(Equal(2))

			_, write, flush := backend.CommitPositionsArgsForCall(0)
			Expect(write).To(Equal(lsn(10)))
			Expect(flush).To(Equal(lsn(10)))

			Expect(backend.PollCallCount()).To(Equal(1))
		})

		It("returns task errors", func() {
			backend.NextScheduledTaskReturns(&types.ScheduledTask{
				Kind:   types.TaskKeepalive,
				Name:   "send_keepalive",
				Action: func(_ context.Context) error { return errors.New("connection reset") },
			})

			err := newConsumer(director.FOREVER, 1).Run(ctx)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unable to run task 'send_keepalive'"))
			Expect(backend.CommitPositionsCallCount()).To(BeZero())
		})

		It("returns poll errors", func() {
			backend.PollReturns(errors.New("replication slot is active"))

			err := newConsumer(director.FOREVER, 1).Run(ctx)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("replication slot is active"))
		})

		It("returns producer write errors", func() {
			queue(10)
			producer.WriteReturns(errors.New("broker unavailable"))

			err := newConsumer(director.FOREVER, 1).Run(ctx)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unable to write message 1"))

			writeId, _ := source.WritePosition()
			Expect(writeId).To(BeZero())
		})

		It("does not acknowledge flushes that failed", func() {
			queue(10)
			producer.FlushReturns(errors.New("broker unavailable"))

			err := newConsumer(director.FOREVER, 1).Run(ctx)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unable to flush producer"))

			writeId, _ := source.WritePosition()
			Expect(writeId).To(Equal(types.Id(1)))

			flushId, _ := source.FlushPosition()
			Expect(flushId).To(BeZero())
			Expect(backend.CommitPositionsCallCount()).To(BeZero())
		})

		It("returns commit errors on exit", func() {
			backend.CommitPositionsReturns(errors.New("connection reset"))

			err := newConsumer(1, 1).Run(ctx)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unable to commit positions on shutdown"))
		})
	})
})
