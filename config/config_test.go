package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/streamdal/cdc/options"
	"github.com/streamdal/cdc/sources"
)

const fileConfig = `{
	"metrics_listen_address": ":9191",
	"replicate": {
		"backend": "kafka",
		"producer": "nats_jetstream",
		"source": {"commit_positions_after_seconds": 15, "commit_positions_after_flushed_messages": 500},
		"consumer": {"flush_batch_size": 10},
		"backends": {
			"kafka": {"address": ["kafka-1:9092"], "topics": ["changes"], "consumer_group": "cdc"}
		},
		"producers": {
			"nats_jetstream": {"dsn": "nats://nats:4222", "subject": "cdc.changes"}
		}
	},
	"snapshot": {
		"tables": ["users", "orders"],
		"destination": {"type": "directory", "output_dir": "/var/lib/cdc"}
	}
}`

var _ = Describe("Config", func() {
	var dir string

	writeFile := func(contents string) string {
		name := filepath.Join(dir, "cdc.json")
		Expect(ioutil.WriteFile(name, []byte(contents), 0600)).To(Succeed())

		return name
	}

	BeforeEach(func() {
		var err error

		dir, err = ioutil.TempDir("", "cdc-config")
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(dir)
	})

	Context("Defaults", func() {
		It("has usable defaults", func() {
			cfg := Defaults()

			Expect(cfg.StatsReportSeconds).To(Equal(DefaultStatsReportSeconds))
			Expect(cfg.Replicate.Backend).To(Equal("postgres_logical"))
			Expect(cfg.Replicate.Producer).To(Equal("stdout"))
			Expect(cfg.Replicate.Source.CommitPositionsAfterSeconds).To(Equal(sources.DefaultCommitPositionsAfterSeconds))
			Expect(cfg.Replicate.Source.CommitPositionsAfterFlushedMessages).To(BeNil())
			Expect(cfg.Snapshot.Retries).To(Equal(DefaultSnapshotRetries))
			Expect(cfg.Snapshot.Connection.TimeZone).To(Equal("UTC"))
			Expect(cfg.Snapshot.Connection.ConnectTimeout).To(Equal(10 * time.Second))
			Expect(cfg.Snapshot.Destination.Type).To(Equal("stream"))
		})
	})

	Context("Load", func() {
		It("reads a config file", func() {
			cfg, err := Load(writeFile(fileConfig))
			Expect(err).ToNot(HaveOccurred())

			Expect(cfg.MetricsListenAddress).To(Equal(":9191"))
			Expect(cfg.Replicate.Backend).To(Equal("kafka"))
			Expect(*cfg.Replicate.Source.CommitPositionsAfterFlushedMessages).To(Equal(500))
			Expect(cfg.Replicate.Backends.Kafka.Address).To(Equal([]string{"kafka-1:9092"}))
			Expect(cfg.Replicate.Producers.NatsJetstream.Subject).To(Equal("cdc.changes"))
			Expect(cfg.Snapshot.Tables).To(Equal([]string{"users", "orders"}))
		})

		It("errors on a missing file", func() {
			_, err := Load(filepath.Join(dir, "missing.json"))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("could not read config file"))
		})

		It("errors on invalid json", func() {
			_, err := Load(writeFile("{"))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("could not unmarshal config file"))
		})
	})

	Context("Build", func() {
		It("falls back to defaults without flags or file", func() {
			_, opts, err := options.New([]string{"replicate"})
			Expect(err).ToNot(HaveOccurred())

			cfg, err := Build(opts)
			Expect(err).ToNot(HaveOccurred())

			Expect(cfg.Replicate.Backend).To(Equal("postgres_logical"))
			Expect(cfg.Replicate.Producer).To(Equal("stdout"))
			Expect(cfg.Replicate.Consumer.FlushBatchSize).To(Equal(1000))
			Expect(cfg.Replicate.Source.CommitPositionsAfterFlushedMessages).To(BeNil())
			Expect(cfg.Snapshot).ToNot(BeNil())
		})

		It("prefers flags over the file over defaults", func() {
			_, opts, err := options.New([]string{
				"--config-file", writeFile(fileConfig),
				"replicate",
				"--producer", "stdout",
				"--commit-after-seconds", "5",
				"--kafka-consumer-group", "cdc-override",
			})
			Expect(err).ToNot(HaveOccurred())

			cfg, err := Build(opts)
			Expect(err).ToNot(HaveOccurred())

			// flags
			Expect(cfg.Replicate.Producer).To(Equal("stdout"))
			Expect(cfg.Replicate.Source.CommitPositionsAfterSeconds).To(Equal(5.0))
			Expect(cfg.Replicate.Backends.Kafka.ConsumerGroup).To(Equal("cdc-override"))

			// file
			Expect(cfg.MetricsListenAddress).To(Equal(":9191"))
			Expect(cfg.Replicate.Backend).To(Equal("kafka"))
			Expect(cfg.Replicate.Backends.Kafka.Address).To(Equal([]string{"kafka-1:9092"}))
			Expect(cfg.Replicate.Backends.Kafka.Topics).To(Equal([]string{"changes"}))
			Expect(*cfg.Replicate.Source.CommitPositionsAfterFlushedMessages).To(Equal(500))
			Expect(cfg.Replicate.Consumer.FlushBatchSize).To(Equal(10))
			Expect(cfg.Replicate.Producers.NatsJetstream.DSN).To(Equal("nats://nats:4222"))

			// defaults
			Expect(cfg.StatsReportSeconds).To(Equal(DefaultStatsReportSeconds))
			Expect(cfg.Replicate.Consumer.PollTimeoutMs).To(Equal(1000))
		})

		It("converts snapshot flags", func() {
			_, opts, err := options.New([]string{
				"snapshot",
				"--dsn", "postgres://localhost/test",
				"--table", "users",
				"--destination", "s3",
				"--s3-bucket", "snapshots",
			})
			Expect(err).ToNot(HaveOccurred())

			cfg, err := Build(opts)
			Expect(err).ToNot(HaveOccurred())

			Expect(cfg.Replicate).ToNot(BeNil())
			Expect(cfg.Snapshot.Source).To(Equal("postgres_logical"))
			Expect(cfg.Snapshot.Tables).To(Equal([]string{"users"}))
			Expect(cfg.Snapshot.Connection.DSN).To(Equal("postgres://localhost/test"))
			Expect(cfg.Snapshot.Connection.TimeZone).To(Equal("UTC"))
			Expect(cfg.Snapshot.Destination.Type).To(Equal("s3"))
			Expect(cfg.Snapshot.Destination.S3Bucket).To(Equal("snapshots"))
			Expect(cfg.Snapshot.Retries).To(Equal(DefaultSnapshotRetries))
		})

		It("keeps count based commits when requested", func() {
			_, opts, err := options.New([]string{"replicate", "--commit-after-flushed-messages", "0"})
			Expect(err).ToNot(HaveOccurred())

			cfg, err := Build(opts)
			Expect(err).ToNot(HaveOccurred())
			Expect(*cfg.Replicate.Source.CommitPositionsAfterFlushedMessages).To(Equal(0))
		})

		It("surfaces config file errors", func() {
			_, opts, err := options.New([]string{"--config-file", filepath.Join(dir, "missing.json"), "version"})
			Expect(err).ToNot(HaveOccurred())

			_, err = Build(opts)
			Expect(err).To(HaveOccurred())
		})
	})
})
