package snapshots_test

import (
	"context"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"github.com/streamdal/cdc/snapshots"
)

type nopSnapshotter struct {
	cfg *snapshots.SourceConfig
}

func (n *nopSnapshotter) Name() string {
	return "nop"
}

func (n *nopSnapshotter) Dump(_ context.Context, _ snapshots.Destination, _ []string) (*snapshots.SnapshotDescriptor, error) {
	return nil, nil
}

func init() {
	snapshots.Register("registry_test_nop", func(cfg *snapshots.SourceConfig) (snapshots.Snapshotter, error) {
		return &nopSnapshotter{cfg: cfg}, nil
	})

	snapshots.Register("registry_test_broken", func(_ *snapshots.SourceConfig) (snapshots.Snapshotter, error) {
		return nil, errors.New("bad dsn")
	})
}

var _ = Describe("Registry", func() {
	It("creates registered sources by name", func() {
		cfg := &snapshots.SourceConfig{DSN: "postgres://localhost/db"}

		s, err := snapshots.New("registry_test_nop", cfg)
		Expect(err).ToNot(HaveOccurred())
		Expect(s.(*nopSnapshotter).cfg).To(Equal(cfg))
	})

	It("rejects unknown names", func() {
		_, err := snapshots.New("oracle", &snapshots.SourceConfig{})
		Expect(errors.Is(err, snapshots.ErrUnknownSource)).To(BeTrue())
	})

	It("wraps factory errors", func() {
		_, err := snapshots.New("registry_test_broken", &snapshots.SourceConfig{})
		Expect(err).To(MatchError(ContainSubstring("bad dsn")))
	})

	It("lists registered sources", func() {
		Expect(snapshots.Sources()).To(ContainElement("registry_test_nop"))
	})

	It("panics on duplicate registration", func() {
		Expect(func() {
			snapshots.Register("registry_test_nop", func(_ *snapshots.SourceConfig) (snapshots.Snapshotter, error) {
				return nil, nil
			})
		}).To(Panic())
	})
})
