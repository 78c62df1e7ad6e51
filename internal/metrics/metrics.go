package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "evacview_http_requests_total",
		Help: "Total HTTP requests by route and status code",
	}, []string{"route", "status"})
	FramesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "evacview_frames_total",
		Help: "Total frames assembled",
	})
	FrameDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "evacview_frame_duration_ms",
		Help:    "Frame assembly duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	OccupantsGeneratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "evacview_occupants_generated_total",
		Help: "Total occupant positions generated",
	})
	SamplingFallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "evacview_sampling_fallbacks_total",
		Help: "Occupant samples placed at the room centroid after exhausting their attempts",
	}, []string{"room"})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(FramesTotal)
	prometheus.MustRegister(FrameDurationMs)
	prometheus.MustRegister(OccupantsGeneratedTotal)
	prometheus.MustRegister(SamplingFallbacksTotal)
}

// RecordFallback counts one centroid fallback for room. It fits
// occupants.Options.OnFallback.
func RecordFallback(room string) {
	SamplingFallbacksTotal.WithLabelValues(room).Inc()
}

// Handler exposes the registered metrics for scraping.
func Handler() http.Handler { return promhttp.Handler() }
