package types

import (
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
)

var _ = Describe("Types", func() {
	now := time.Date(2019, 6, 16, 6, 21, 39, 0, time.UTC)

	Context("EarliestTask", func() {
		It("returns nil when there are no tasks", func() {
			Expect(EarliestTask()).To(BeNil())
			Expect(EarliestTask(nil, nil)).To(BeNil())
		})

		It("returns the task with the earliest due time", func() {
			commit := &ScheduledTask{Due: now.Add(time.Minute), Kind: TaskCommitPositions}
			keepalive := &ScheduledTask{Due: now.Add(time.Second), Kind: TaskKeepalive}

			Expect(EarliestTask(commit, keepalive)).To(Equal(keepalive))
			Expect(EarliestTask(keepalive, commit)).To(Equal(keepalive))
		})

		It("prefers the first task on a tie", func() {
			commit := &ScheduledTask{Due: now, Kind: TaskCommitPositions}
			keepalive := &ScheduledTask{Due: now, Kind: TaskKeepalive}

			Expect(EarliestTask(commit, keepalive)).To(Equal(commit))
		})

		It("skips nil tasks", func() {
			commit := &ScheduledTask{Due: now, Kind: TaskCommitPositions}
			Expect(EarliestTask(commit, nil)).To(Equal(commit))
			Expect(EarliestTask(nil, commit)).To(Equal(commit))
		})
	})

	Context("ScheduledTask", func() {
		It("is due at and after its due time", func() {
			t := &ScheduledTask{Due: now}
			Expect(t.IsDue(now.Add(-time.Nanosecond))).To(BeFalse())
			Expect(t.IsDue(now)).To(BeTrue())
			Expect(t.IsDue(now.Add(time.Hour))).To(BeTrue())
		})
	})

	Context("ContractViolationError", func() {
		It("is detectable through wrapping", func() {
			err := errors.Wrap(&ContractViolationError{Op: "set_write_position", Expected: 2, Got: 3}, "unable to ack")
			Expect(IsContractViolation(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("expected id 2, got 3"))
		})

		It("does not match unrelated errors", func() {
			Expect(IsContractViolation(errors.New("boom"))).To(BeFalse())
		})
	})

	Context("TaskKind", func() {
		It("has readable names", func() {
			Expect(TaskCommitPositions.String()).To(Equal("commit_positions"))
			Expect(TaskKeepalive.String()).To(Equal("keepalive"))
		})
	})
})
