package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector exposes advisory and ledger metrics on a private registry.
type Collector struct {
	registry         *prometheus.Registry
	advisoryRequests *prometheus.CounterVec
	advisoryDuration *prometheus.HistogramVec
	ledgerOperations *prometheus.CounterVec
	accountBalance   *prometheus.GaugeVec
	classify         func(error) string
}

// NewCollector registers all metrics. classify maps a ledger error to a short
// result label; nil errors are always labelled "ok".
func NewCollector(classify func(error) string) *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	if classify == nil {
		classify = func(error) string { return "error" }
	}

	return &Collector{
		registry: registry,
		advisoryRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "advisory_requests_total",
			Help: "Advisory answers by source and fallback reason",
		}, []string{"source", "reason"}),
		advisoryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "advisory_request_duration_seconds",
			Help:    "Time taken to produce an advisory answer",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		ledgerOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Ledger operations by type and result",
		}, []string{"operation", "result"}),
		accountBalance: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ledger_account_balance_euros",
			Help: "Current account balance",
		}, []string{"account_id"}),
		classify: classify,
	}
}

// RecordAdvisory counts one advisory answer.
func (c *Collector) RecordAdvisory(source, reason string, duration time.Duration) {
	c.advisoryRequests.WithLabelValues(source, reason).Inc()
	c.advisoryDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordLedgerOperation counts one ledger operation.
func (c *Collector) RecordLedgerOperation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = c.classify(err)
	}
	c.ledgerOperations.WithLabelValues(operation, result).Inc()
}

// SetAccountBalance publishes the balance of one account.
func (c *Collector) SetAccountBalance(accountID int64, balance int64) {
	c.accountBalance.WithLabelValues(strconv.FormatInt(accountID, 10)).Set(float64(balance))
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ClassifyWith builds a classify function from sentinel errors and their labels.
func ClassifyWith(labels map[error]string) func(error) string {
	return func(err error) string {
		for sentinel, label := range labels {
			if errors.Is(err, sentinel) {
				return label
			}
		}
		return "error"
	}
}
