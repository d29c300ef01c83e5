// Package metrics exposes prometheus counters for source resolution and playback mounts.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ResolutionsTotal counts resolved sources by variant.
	ResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinewatch_resolutions_total",
		Help: "Total number of source resolutions by variant",
	}, []string{"tag"})

	// MirrorAttemptsTotal counts embed load attempts by mirror domain.
	MirrorAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinewatch_mirror_attempts_total",
		Help: "Total number of embed load attempts by mirror domain",
	}, []string{"domain"})

	// MirrorResultsTotal counts attempt outcomes by mirror domain.
	MirrorResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinewatch_mirror_results_total",
		Help: "Total number of embed attempt outcomes by mirror domain and result",
	}, []string{"domain", "result"})

	// EmbedExhaustedTotal counts mounts where every mirror failed.
	EmbedExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinewatch_embed_exhausted_total",
		Help: "Total number of embed mounts that failed on every mirror",
	})

	// NativeFailuresTotal counts native player failures by reason.
	NativeFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinewatch_native_failures_total",
		Help: "Total number of native player failures by reason",
	}, []string{"reason"})

	// MountsActive tracks mounted adapters.
	MountsActive = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cinewatch_mounts_active",
		Help: "Number of currently mounted playback adapters",
	}, []string{"kind"})
)

// Mirror attempt results.
const (
	ResultLoaded = "loaded"
	ResultFailed = "failed"
)

// Native failure reasons.
const (
	ReasonInitTimeout = "init_timeout"
	ReasonPlayer      = "player"
)

// RecordResolution counts a resolution to tag.
func RecordResolution(tag string) {
	ResolutionsTotal.WithLabelValues(tag).Inc()
}

// RecordMirrorAttempt counts a load attempt on domain.
func RecordMirrorAttempt(domain string) {
	MirrorAttemptsTotal.WithLabelValues(domain).Inc()
}

// RecordMirrorResult counts the outcome of an attempt on domain.
func RecordMirrorResult(domain, result string) {
	MirrorResultsTotal.WithLabelValues(domain, result).Inc()
}

// RecordNativeFailure counts a native player failure.
func RecordNativeFailure(reason string) {
	NativeFailuresTotal.WithLabelValues(reason).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
