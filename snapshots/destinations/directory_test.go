package destinations

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/streamdal/cdc/snapshots"
)

var _ = Describe("Directory", func() {
	var (
		root       string
		dest       *Directory
		descriptor *snapshots.SnapshotDescriptor
	)

	BeforeEach(func() {
		var err error

		root, err = ioutil.TempDir("", "cdc-directory")
		Expect(err).ToNot(HaveOccurred())

		dest, err = NewDirectory(root)
		Expect(err).ToNot(HaveOccurred())

		descriptor = &snapshots.SnapshotDescriptor{Id: "snap-1", Xmin: 9, Xmax: 9, Tables: []string{"public.users"}}
	})

	AfterEach(func() {
		os.RemoveAll(root)
	})

	It("writes metadata and table files", func() {
		Expect(dest.SetMetadata(descriptor.Tables, descriptor)).To(Succeed())
		Expect(dest.Path()).To(Equal(filepath.Join(root, "snap-1")))

		w, err := dest.GetTableFile("public.users")
		Expect(err).ToNot(HaveOccurred())

		_, err = w.Write([]byte("id\n1\n"))
		Expect(err).ToNot(HaveOccurred())

		Expect(dest.TableComplete(w)).To(Succeed())
		Expect(dest.Close(snapshots.DumpCompleted)).To(Succeed())

		data, err := ioutil.ReadFile(filepath.Join(root, "snap-1", "public.users.csv"))
		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).To(Equal("id\n1\n"))

		raw, err := ioutil.ReadFile(filepath.Join(root, "snap-1", MetadataFile))
		Expect(err).ToNot(HaveOccurred())

		metadata := &Metadata{}
		Expect(json.Unmarshal(raw, metadata)).To(Succeed())
		Expect(metadata.Id).To(Equal(snapshots.SnapshotId("snap-1")))
		Expect(metadata.Xmin).To(Equal(snapshots.Xid(9)))
		Expect(metadata.Tables).To(Equal([]string{"public.users"}))
		Expect(metadata.CreatedAt.IsZero()).To(BeFalse())
	})

	It("removes everything on abort", func() {
		Expect(dest.SetMetadata(descriptor.Tables, descriptor)).To(Succeed())

		_, err := dest.GetTableFile("public.users")
		Expect(err).ToNot(HaveOccurred())

		Expect(dest.Close(snapshots.DumpAborted)).To(Succeed())

		_, err = os.Stat(filepath.Join(root, "snap-1"))
		Expect(os.IsNotExist(err)).To(BeTrue())
	})

	It("aborts cleanly before metadata", func() {
		Expect(dest.Close(snapshots.DumpAborted)).To(Succeed())
	})

	It("refuses to reuse a snapshot id", func() {
		Expect(os.Mkdir(filepath.Join(root, "snap-1"), 0755)).To(Succeed())
		Expect(dest.SetMetadata(descriptor.Tables, descriptor)).ToNot(Succeed())
	})

	It("sanitizes table file names", func() {
		Expect(TableFileName("a/b")).To(Equal("a_b.csv"))
		Expect(TableFileName("users")).To(Equal("users.csv"))
	})
})
