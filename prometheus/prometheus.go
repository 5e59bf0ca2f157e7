// Singleton so that it's easier to use in other packages
package prometheus

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/relistan/go-director"
	"github.com/sirupsen/logrus"
)

const (
	MessagesFetched      = "cdc_messages_fetched_total"
	MessagesFlushed      = "cdc_messages_flushed_total"
	PositionCommits      = "cdc_position_commits_total"
	PositionCommitErrors = "cdc_position_commit_errors_total"
	SnapshotRows         = "cdc_snapshot_rows_total"
	SnapshotTables       = "cdc_snapshot_tables_total"
	SnapshotFailures     = "cdc_snapshot_failures_total"
	LastCommitTimestamp  = "cdc_last_commit_timestamp_seconds"
)

var (
	ReportInterval = 10 * time.Second

	mutex    = &sync.RWMutex{}
	counters = make(map[string]float64, 0)

	prometheusMutex    = &sync.RWMutex{}
	prometheusCounters = make(map[string]prometheus.Counter)
	prometheusGauges   = make(map[string]prometheus.Gauge)
	initOnce           = &sync.Once{}

	looper director.Looper
)

// Start initiates periodic STATS reporting to the log
func Start(interval time.Duration) {
	if interval <= 0 {
		interval = ReportInterval
	}

	looper = director.NewTimedLooper(director.FOREVER, interval, make(chan error, 1))

	logrus.Debugf("Launching stats reporter ('%s' interval)", interval)

	go func() {
		looper.Loop(func() error {
			mutex.Lock()
			defer mutex.Unlock()

			for counterName, counterValue := range counters {
				perSecond := counterValue / interval.Seconds()

				logrus.Infof("STATS [%s]: %.2f / %s (%.2f/s)", counterName, counterValue,
					interval, perSecond)

				// Reset it
				counters[counterName] = 0
			}

			return nil
		})
	}()
}

// Stop halts the stats reporter, if running
func Stop() {
	if looper != nil {
		looper.Quit()
	}
}

// InitPrometheusMetrics sets up prometheus counters/gauges. Safe to call more
// than once.
func InitPrometheusMetrics() {
	initOnce.Do(func() {
		prometheusMutex.Lock()
		defer prometheusMutex.Unlock()

		prometheusCounters[MessagesFetched] = promauto.NewCounter(prometheus.CounterOpts{
			Name: MessagesFetched,
			Help: "Total number of replication messages fetched from the backend",
		})

		prometheusCounters[MessagesFlushed] = promauto.NewCounter(prometheus.CounterOpts{
			Name: MessagesFlushed,
			Help: "Total number of replication messages durably flushed downstream",
		})

		prometheusCounters[PositionCommits] = promauto.NewCounter(prometheus.CounterOpts{
			Name: PositionCommits,
			Help: "Total number of position commits sent to the backend",
		})

		prometheusCounters[PositionCommitErrors] = promauto.NewCounter(prometheus.CounterOpts{
			Name: PositionCommitErrors,
			Help: "Total number of failed position commits",
		})

		prometheusCounters[SnapshotRows] = promauto.NewCounter(prometheus.CounterOpts{
			Name: SnapshotRows,
			Help: "Total number of rows written by snapshot dumps",
		})

		prometheusCounters[SnapshotTables] = promauto.NewCounter(prometheus.CounterOpts{
			Name: SnapshotTables,
			Help: "Total number of tables completed by snapshot dumps",
		})

		prometheusCounters[SnapshotFailures] = promauto.NewCounter(prometheus.CounterOpts{
			Name: SnapshotFailures,
			Help: "Total number of aborted snapshot dumps",
		})

		prometheusGauges[LastCommitTimestamp] = promauto.NewGauge(prometheus.GaugeOpts{
			Name: LastCommitTimestamp,
			Help: "Unix timestamp of the last successful position commit",
		})
	})
}

// IncrPromCounter increments a prometheus counter by the given amount
func IncrPromCounter(key string, amount float64) {
	InitPrometheusMetrics()

	key = strings.Replace(key, "-", "_", -1)

	prometheusMutex.Lock()
	defer prometheusMutex.Unlock()

	c, ok := prometheusCounters[key]
	if !ok {
		c = promauto.NewCounter(prometheus.CounterOpts{
			Name: key,
			Help: "Auto-created counter",
		})

		prometheusCounters[key] = c
	}

	c.Add(amount)
}

// SetPromGauge sets a prometheus gauge value
func SetPromGauge(key string, amount float64) {
	InitPrometheusMetrics()

	prometheusMutex.RLock()
	defer prometheusMutex.RUnlock()

	c, ok := prometheusGauges[key]
	if ok {
		c.Set(amount)
	}
}

// Incr increments a STATS counter and the prometheus counter of the same name
func Incr(name string, value float64) {
	mutex.Lock()
	counters[name] += value
	mutex.Unlock()

	IncrPromCounter(name, value)
}
