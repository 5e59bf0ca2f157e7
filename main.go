package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/streamdal/cdc/api"
	"github.com/streamdal/cdc/backends"
	"github.com/streamdal/cdc/config"
	"github.com/streamdal/cdc/consumer"
	"github.com/streamdal/cdc/options"
	"github.com/streamdal/cdc/printer"
	"github.com/streamdal/cdc/producers"
	"github.com/streamdal/cdc/prometheus"
	"github.com/streamdal/cdc/snapshots"
	"github.com/streamdal/cdc/snapshots/destinations"
	_ "github.com/streamdal/cdc/snapshots/postgres"
	"github.com/streamdal/cdc/sources"
	"github.com/streamdal/cdc/util"
	"github.com/streamdal/cdc/validate"
)

func main() {
	cmd, opts, err := options.New(os.Args[1:])
	if err != nil {
		logrus.Fatalf("Unable to handle CLI input: %s", err)
	}

	if cmd == options.VersionCmd {
		fmt.Println(options.VERSION)
		os.Exit(0)
	}

	setupLogging(opts)

	cfg, err := config.Build(opts)
	if err != nil {
		logrus.Fatalf("Unable to build config: %s", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.MetricsListenAddress != "" {
		srv, err := api.Start(cfg.MetricsListenAddress, options.VERSION)
		if err != nil {
			logrus.Fatalf("Unable to start API server: %s", err)
		}

		defer srv.Close()
	}

	prometheus.Start(time.Duration(cfg.StatsReportSeconds) * time.Second)
	defer prometheus.Stop()

	switch cmd {
	case options.ReplicateCmd:
		err = runReplicate(ctx, cfg)
	case options.SnapshotCmd:
		err = runSnapshot(ctx, cfg)
	default:
		logrus.Fatalf("Unrecognized command: %s", cmd)
	}

	if err != nil {
		logrus.Fatalf("Unable to complete command: %s", err)
	}
}

func setupLogging(opts *options.CLIOptions) {
	if opts.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if opts.Quiet {
		logrus.SetLevel(logrus.ErrorLevel)
	}

	// JSON formatter for log output if not running in a TTY
	if !terminal.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

func runReplicate(ctx context.Context, cfg *config.Config) error {
	if err := validate.ReplicateConfig(cfg); err != nil {
		return errors.Wrap(err, "unable to validate replicate config")
	}

	rc := cfg.Replicate

	printer.PrintReplicateSettings(rc)

	backend, err := backends.New(ctx, rc.Backend, rc.Backends)
	if err != nil {
		return err
	}

	source, err := sources.New(backend, rc.Source)
	if err != nil {
		backend.Close()
		return errors.Wrap(err, "unable to create source")
	}

	defer func() {
		if err := source.Close(); err != nil {
			logrus.Errorf("unable to close source: %s", err)
		}
	}()

	producer, err := producers.New(rc.Producer, rc.Producers)
	if err != nil {
		return err
	}

	defer func() {
		if err := producer.Close(); err != nil {
			logrus.Errorf("unable to close producer: %s", err)
		}
	}()

	c, err := consumer.New(consumerConfig(rc.Consumer, source, producer))
	if err != nil {
		return errors.Wrap(err, "unable to create consumer")
	}

	return c.Run(ctx)
}

func consumerConfig(cc *config.ConsumerConfig, source consumer.ISource, producer producers.Producer) *consumer.Config {
	cfg := &consumer.Config{
		Source:   source,
		Producer: producer,
	}

	if cc != nil {
		cfg.PollTimeout = time.Duration(cc.PollTimeoutMs) * time.Millisecond
		cfg.FlushInterval = time.Duration(cc.FlushIntervalMs) * time.Millisecond
		cfg.FlushBatchSize = cc.FlushBatchSize
	}

	return cfg
}

func runSnapshot(ctx context.Context, cfg *config.Config) error {
	if err := validate.SnapshotConfig(cfg); err != nil {
		return errors.Wrap(err, "unable to validate snapshot config")
	}

	sc := cfg.Snapshot

	snapshotter, err := snapshots.New(sc.Source, sc.Connection)
	if err != nil {
		return errors.Wrap(err, "unable to create snapshotter")
	}

	descriptor, err := dumpWithRetries(ctx, snapshotter, sc.Destination, sc.Tables, sc.Retries, util.DefaultRetryPolicy)
	if err != nil {
		return err
	}

	// Stream snapshots own stdout
	p := printer.New()
	if sc.Destination.Type == destinations.StreamType || sc.Destination.Type == "" {
		p.Out = os.Stderr
	}

	p.PrintDescriptor(descriptor)

	return nil
}

// dumpWithRetries runs the dump up to retries+1 times, every attempt against
// a fresh destination
func dumpWithRetries(ctx context.Context, snapshotter snapshots.Snapshotter, destCfg *destinations.Config,
	tables []string, retries int, policy util.BackoffPolicy) (*snapshots.SnapshotDescriptor, error) {

	var lastErr error

	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			wait := policy.Duration(attempt - 1)

			logrus.Warningf("Retrying snapshot in %s (attempt %d of %d)", wait, attempt+1, retries+1)

			select {
			case <-ctx.Done():
				return nil, errors.Wrap(lastErr, "snapshot cancelled")
			case <-time.After(wait):
			}
		}

		dest, err := destinations.New(ctx, destCfg)
		if err != nil {
			return nil, errors.Wrap(err, "unable to create snapshot destination")
		}

		descriptor, err := snapshotter.Dump(ctx, dest, tables)
		if err == nil {
			return descriptor, nil
		}

		lastErr = err

		logrus.Errorf("Snapshot attempt %d failed: %s", attempt+1, err)
	}

	return nil, errors.Wrapf(lastErr, "snapshot failed after %d attempt(s)", retries+1)
}
