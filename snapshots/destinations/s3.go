package destinations

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/streamdal/cdc/snapshots"
)

// CleanupTimeout bounds deleting the objects of a failed snapshot. Cleanup
// runs detached from the dump context.
var CleanupTimeout = 30 * time.Second

// IS3API is the subset of the S3 API used by the S3 destination
type IS3API interface {
	UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
	DeleteObjectsWithContext(ctx aws.Context, input *s3.DeleteObjectsInput, opts ...request.Option) (*s3.DeleteObjectsOutput, error)
}

type s3Client struct {
	*s3manager.Uploader
	*s3.S3
}

// S3 spools every table to a temp file and uploads it to
// <prefix>/<snapshot id>/<table>.csv once the table is complete. Metadata is
// uploaded last, so its presence marks a finished snapshot. Aborting deletes
// whatever was uploaded.
type S3 struct {
	ctx    context.Context
	client IS3API
	bucket string
	prefix string

	descriptor *snapshots.SnapshotDescriptor
	openTable  string
	open       *os.File
	uploaded   []string

	log *logrus.Entry
}

func NewS3(ctx context.Context, cfg *Config) (*S3, error) {
	if cfg.S3Bucket == "" {
		return nil, ErrMissingBucket
	}

	awsCfg := aws.Config{}

	if cfg.S3Region != "" {
		awsCfg.Region = aws.String(cfg.S3Region)
	}

	sess := session.Must(session.NewSessionWithOptions(session.Options{
		Config:            awsCfg,
		SharedConfigState: session.SharedConfigEnable,
	}))

	svc := s3.New(sess)

	client := &s3Client{
		Uploader: s3manager.NewUploaderWithClient(svc),
		S3:       svc,
	}

	return NewS3WithClient(ctx, client, cfg.S3Bucket, cfg.S3Prefix), nil
}

func NewS3WithClient(ctx context.Context, client IS3API, bucket, prefix string) *S3 {
	if ctx == nil {
		ctx = context.Background()
	}

	return &S3{
		ctx:    ctx,
		client: client,
		bucket: bucket,
		prefix: prefix,
		log:    logrus.WithField("pkg", "destinations/s3"),
	}
}

func (s *S3) key(name string) string {
	return path.Join(s.prefix, string(s.descriptor.Id), name)
}

func (s *S3) SetMetadata(_ []string, descriptor *snapshots.SnapshotDescriptor) error {
	s.descriptor = descriptor
	return nil
}

func (s *S3) GetTableFile(table string) (io.Writer, error) {
	f, err := ioutil.TempFile("", "cdc-snapshot-*"+TableFileExt)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create temp file for table '%s'", table)
	}

	s.open = f
	s.openTable = table

	return f, nil
}

func (s *S3) TableComplete(_ io.Writer) error {
	f := s.open
	table := s.openTable

	s.open = nil
	s.openTable = ""

	if f == nil {
		return nil
	}

	defer discard(f)

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "unable to rewind table file")
	}

	key := s.key(TableFileName(table))

	if err := s.upload(key, f, "text/csv"); err != nil {
		return errors.Wrapf(err, "unable to upload table '%s'", table)
	}

	return nil
}

func (s *S3) Close(state snapshots.DumpState) error {
	if s.open != nil {
		discard(s.open)
		s.open = nil
	}

	if state == snapshots.DumpCompleted {
		err := s.uploadMetadata()
		if err == nil {
			return nil
		}

		if cleanupErr := s.deleteUploaded(); cleanupErr != nil {
			s.log.Errorf("unable to clean up incomplete snapshot: %s", cleanupErr)
		}

		return err
	}

	return s.deleteUploaded()
}

func (s *S3) uploadMetadata() error {
	if s.descriptor == nil {
		return nil
	}

	data, err := json.MarshalIndent(&Metadata{
		SnapshotDescriptor: s.descriptor,
		CreatedAt:          time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "unable to encode metadata")
	}

	if err := s.upload(s.key(MetadataFile), bytes.NewReader(data), "application/json"); err != nil {
		return errors.Wrap(err, "unable to upload metadata")
	}

	return nil
}

func (s *S3) upload(key string, body io.Reader, contentType string) error {
	s.log.Debugf("Uploading s3://%s/%s", s.bucket, key)

	_, err := s.client.UploadWithContext(s.ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return err
	}

	s.uploaded = append(s.uploaded, key)

	return nil
}

func (s *S3) deleteUploaded() error {
	if len(s.uploaded) == 0 {
		return nil
	}

	objects := make([]*s3.ObjectIdentifier, 0, len(s.uploaded))

	for _, key := range s.uploaded {
		objects = append(objects, &s3.ObjectIdentifier{Key: aws.String(key)})
	}

	ctx, cancel := context.WithTimeout(context.Background(), CleanupTimeout)
	defer cancel()

	_, err := s.client.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &s3.Delete{
			Objects: objects,
			Quiet:   aws.Bool(true),
		},
	})
	if err != nil {
		return errors.Wrap(err, "unable to delete uploaded objects")
	}

	s.uploaded = nil

	return nil
}

func discard(f *os.File) {
	f.Close()
	os.Remove(f.Name())
}
