package destinations

import (
	"context"
	"io/ioutil"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"github.com/streamdal/cdc/snapshots"
)

type fakeS3 struct {
	sync.Mutex

	objects   map[string]string
	deleted   []string
	uploadErr error

	// Fails uploads of this key only
	failKey string
}

func (f *fakeS3) UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, _ ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	f.Lock()
	defer f.Unlock()

	if f.uploadErr != nil {
		return nil, f.uploadErr
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if f.failKey != "" && aws.StringValue(input.Key) == f.failKey {
		return nil, errors.New("slow down")
	}

	data, err := ioutil.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}

	f.objects[aws.StringValue(input.Key)] = string(data)

	return &s3manager.UploadOutput{}, nil
}

func (f *fakeS3) DeleteObjectsWithContext(ctx aws.Context, input *s3.DeleteObjectsInput, _ ...request.Option) (*s3.DeleteObjectsOutput, error) {
	f.Lock()
	defer f.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, o := range input.Delete.Objects {
		key := aws.StringValue(o.Key)
		f.deleted = append(f.deleted, key)
		delete(f.objects, key)
	}

	return &s3.DeleteObjectsOutput{}, nil
}

var _ = Describe("S3", func() {
	var (
		client     *fakeS3
		dest       *S3
		descriptor *snapshots.SnapshotDescriptor
	)

	BeforeEach(func() {
		client = &fakeS3{objects: make(map[string]string)}
		dest = NewS3WithClient(context.Background(), client, "bucket", "snapshots")
		descriptor = &snapshots.SnapshotDescriptor{Id: "snap-1", Xmin: 3, Xmax: 3, Tables: []string{"users", "orders"}}
	})

	writeTable := func(table, content string) {
		w, err := dest.GetTableFile(table)
		Expect(err).ToNot(HaveOccurred())

		_, err = w.Write([]byte(content))
		Expect(err).ToNot(HaveOccurred())

		Expect(dest.TableComplete(w)).To(Succeed())
	}

	It("uploads tables then metadata", func() {
		Expect(dest.SetMetadata(descriptor.Tables, descriptor)).To(Succeed())

		writeTable("users", "id\n1\n")
		Expect(client.objects).To(HaveKeyWithValue("snapshots/snap-1/users.csv", "id\n1\n"))
		Expect(client.objects).ToNot(HaveKey("snapshots/snap-1/metadata.json"))

		writeTable("orders", "id\n")

		Expect(dest.Close(snapshots.DumpCompleted)).To(Succeed())

		Expect(client.objects).To(HaveKey("snapshots/snap-1/orders.csv"))
		Expect(client.objects["snapshots/snap-1/metadata.json"]).To(ContainSubstring(`"id": "snap-1"`))
	})

	It("deletes uploaded objects on abort", func() {
		Expect(dest.SetMetadata(descriptor.Tables, descriptor)).To(Succeed())

		writeTable("users", "id\n1\n")

		_, err := dest.GetTableFile("orders")
		Expect(err).ToNot(HaveOccurred())

		Expect(dest.Close(snapshots.DumpAborted)).To(Succeed())

		Expect(client.deleted).To(Equal([]string{"snapshots/snap-1/users.csv"}))
		Expect(client.objects).To(BeEmpty())
	})

	It("deletes uploaded objects when the dump context was cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		dest = NewS3WithClient(ctx, client, "bucket", "snapshots")

		Expect(dest.SetMetadata(descriptor.Tables, descriptor)).To(Succeed())

		writeTable("users", "id\n1\n")

		cancel()

		Expect(dest.Close(snapshots.DumpAborted)).To(Succeed())

		Expect(client.deleted).To(Equal([]string{"snapshots/snap-1/users.csv"}))
		Expect(client.objects).To(BeEmpty())
	})

	It("deletes uploaded tables when the metadata upload fails", func() {
		client.failKey = "snapshots/snap-1/metadata.json"

		Expect(dest.SetMetadata(descriptor.Tables, descriptor)).To(Succeed())

		writeTable("users", "id\n1\n")
		writeTable("orders", "id\n")

		err := dest.Close(snapshots.DumpCompleted)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unable to upload metadata"))

		Expect(client.deleted).To(ConsistOf("snapshots/snap-1/users.csv", "snapshots/snap-1/orders.csv"))
		Expect(client.objects).To(BeEmpty())
	})

	It("surfaces upload errors", func() {
		client.uploadErr = errors.New("access denied")

		Expect(dest.SetMetadata(descriptor.Tables, descriptor)).To(Succeed())

		w, err := dest.GetTableFile("users")
		Expect(err).ToNot(HaveOccurred())

		err = dest.TableComplete(w)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("access denied"))
	})
})
