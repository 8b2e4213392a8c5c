package pipeline

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the size metrics of one pass in a private registry
type Metrics struct {
	registry *prometheus.Registry

	bytesBefore    *prometheus.GaugeVec
	bytesAfter     *prometheus.GaugeVec
	rulesBefore    *prometheus.GaugeVec
	rulesAfter     *prometheus.GaugeVec
	candidates     prometheus.Gauge
	scripts        prometheus.Gauge
	skippedScripts prometheus.Gauge
	failures       prometheus.Gauge
	cacheHits      prometheus.Gauge
	duration       prometheus.Gauge
}

// NewMetrics creates and registers the pass metrics
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		bytesBefore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "css_shrink",
			Name:      "stylesheet_bytes_before",
			Help:      "Size of a stylesheet before filtering.",
		}, []string{"stylesheet"}),
		bytesAfter: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "css_shrink",
			Name:      "stylesheet_bytes_after",
			Help:      "Size of a stylesheet after filtering.",
		}, []string{"stylesheet"}),
		rulesBefore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "css_shrink",
			Name:      "stylesheet_rules_before",
			Help:      "Style rules in a stylesheet before filtering.",
		}, []string{"stylesheet"}),
		rulesAfter: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "css_shrink",
			Name:      "stylesheet_rules_after",
			Help:      "Style rules in a stylesheet after filtering.",
		}, []string{"stylesheet"}),
		candidates: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "css_shrink",
			Name:      "candidate_classes",
			Help:      "Candidate class names extracted from scripts.",
		}),
		scripts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "css_shrink",
			Name:      "scripts",
			Help:      "Script assets scanned for candidates.",
		}),
		skippedScripts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "css_shrink",
			Name:      "scripts_skipped",
			Help:      "Script assets that could not be tokenized.",
		}),
		failures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "css_shrink",
			Name:      "asset_failures",
			Help:      "Assets that failed to read, parse or write.",
		}),
		cacheHits: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "css_shrink",
			Name:      "cache_hits",
			Help:      "Stylesheets served from the result cache.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "css_shrink",
			Name:      "duration_seconds",
			Help:      "Wall time of the pass.",
		}),
	}

	m.registry.MustRegister(
		m.bytesBefore, m.bytesAfter, m.rulesBefore, m.rulesAfter,
		m.candidates, m.scripts, m.skippedScripts, m.failures, m.cacheHits, m.duration,
	)
	return m
}

// Observe records a finished pass
func (m *Metrics) Observe(s *Summary) {
	for _, r := range s.Results {
		m.bytesBefore.WithLabelValues(r.Name).Set(float64(r.BytesBefore))
		m.bytesAfter.WithLabelValues(r.Name).Set(float64(r.BytesAfter))
		m.rulesBefore.WithLabelValues(r.Name).Set(float64(r.RulesBefore))
		m.rulesAfter.WithLabelValues(r.Name).Set(float64(r.RulesAfter))
	}
	m.candidates.Set(float64(len(s.Candidates)))
	m.scripts.Set(float64(s.Scripts))
	m.skippedScripts.Set(float64(len(s.SkippedScripts)))
	m.failures.Set(float64(s.Errors.Len()))
	m.cacheHits.Set(float64(s.CacheHits))
	m.duration.Set(s.Duration.Seconds())
}

// Gatherer exposes the registry
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes the metrics in the node exporter textfile format
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
