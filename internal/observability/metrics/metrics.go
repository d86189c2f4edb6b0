package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CarsLinkedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "garage_cars_linked_total",
			Help: "Total number of car claim attempts.",
		},
		[]string{"result"},
	)

	CarsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "garage_cars_created_total",
			Help: "Total number of car creation attempts.",
		},
		[]string{"result"},
	)

	CarsUnlinkedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "garage_cars_unlinked_total",
			Help: "Total number of unlink attempts.",
		},
		[]string{"result"},
	)

	PrimaryChangesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "garage_primary_changes_total",
			Help: "Total number of set-primary operations, including re-elections.",
		},
		[]string{"result"},
	)

	ImageOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "garage_image_operations_total",
			Help: "Total number of image attach/detach operations.",
		},
		[]string{"kind", "result"},
	)
)

func MustRegister() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		CarsLinkedTotal,
		CarsCreatedTotal,
		CarsUnlinkedTotal,
		PrimaryChangesTotal,
		ImageOperationsTotal,
	)
}
