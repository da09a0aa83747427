package utils

import (
	"strconv"
	"time"

	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator counting processed transactions by phase and
// result code, and observing their processing time.
type Metrics struct {
	processed *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

var _ swapvault.Decorator = Metrics{}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (Metrics, error) {
	m := Metrics{
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swapvault",
			Subsystem: "tx",
			Name:      "processed_total",
			Help:      "Total transactions processed, by phase and ABCI result code.",
		}, []string{"phase", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "swapvault",
			Subsystem: "tx",
			Name:      "duration_seconds",
			Help:      "Time spent processing a transaction, by phase.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"phase"}),
	}
	for _, c := range []prometheus.Collector{m.processed, m.duration} {
		if err := reg.Register(c); err != nil {
			return Metrics{}, errors.Wrapf(errors.ErrHuman, "register metrics: %s", err)
		}
	}
	return m, nil
}

func (m Metrics) observe(phase string, start time.Time, err error) {
	code, _ := errors.ABCIInfo(err, false)
	m.processed.WithLabelValues(phase, codeLabel(code)).Inc()
	m.duration.WithLabelValues(phase).Observe(time.Since(start).Seconds())
}

// Check records the outcome of a check.
func (m Metrics) Check(ctx swapvault.Context, store swapvault.KVStore, tx swapvault.Tx, next swapvault.Checker) (*swapvault.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	m.observe("check", start, err)
	return res, err
}

// Deliver records the outcome of a delivery.
func (m Metrics) Deliver(ctx swapvault.Context, store swapvault.KVStore, tx swapvault.Tx, next swapvault.Deliverer) (*swapvault.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	m.observe("deliver", start, err)
	return res, err
}

func codeLabel(code uint32) string {
	return strconv.FormatUint(uint64(code), 10)
}
