package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// HistorySizer reports how many entries the session history holds
type HistorySizer interface {
	Len() int
}

// HistoryCollector exports the session history size at scrape time
type HistoryCollector struct {
	history HistorySizer

	entries *prometheus.Desc
}

// NewHistoryCollector creates a collector over the given history
func NewHistoryCollector(history HistorySizer) *HistoryCollector {
	return &HistoryCollector{
		history: history,
		entries: prometheus.NewDesc(
			"bodyfat_history_entries",
			"Number of predictions held in the session history",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *HistoryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
}

// Collect implements prometheus.Collector
func (c *HistoryCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(
		c.entries,
		prometheus.GaugeValue,
		float64(c.history.Len()),
	)
}

// RegisterHistoryCollector registers the history collector
func RegisterHistoryCollector(collector *HistoryCollector) {
	prometheus.MustRegister(collector)
}
