package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kirillkom/nlp-text-server/internal/core/domain"
)

const namespace = "nlp"

// ServerMetrics is the Prometheus view of the text-processing pipeline. It
// owns its registry so tests and the scrape handler see only these series.
type ServerMetrics struct {
	registry *prometheus.Registry

	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	queueLag            prometheus.Histogram
	connectedClients    prometheus.Gauge
	corpusDocuments     prometheus.Gauge
	classifierDocuments *prometheus.GaugeVec
	frameErrors         prometheus.Counter
	droppedResponses    prometheus.Counter
}

func NewServerMetrics(service string) *ServerMetrics {
	registry := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"service": service}

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "worker",
			Name:        "requests_total",
			Help:        "Processed text requests by kind and status.",
			ConstLabels: constLabels,
		},
		[]string{"kind", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "worker",
			Name:        "request_duration_seconds",
			Help:        "Worker time per request, reply write included.",
			Buckets:     []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			ConstLabels: constLabels,
		},
		[]string{"kind"},
	)
	queueLag := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "worker",
			Name:        "queue_lag_seconds",
			Help:        "Delay between enqueue and processing start.",
			Buckets:     []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10, 30},
			ConstLabels: constLabels,
		},
	)
	connectedClients := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   "tcp",
		Name:        "connected_clients",
		Help:        "Clients visible in the registry.",
		ConstLabels: constLabels,
	})
	corpusDocuments := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   "engine",
		Name:        "corpus_documents",
		Help:        "Documents in the IDF corpus.",
		ConstLabels: constLabels,
	})
	classifierDocuments := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "engine",
			Name:        "classifier_documents",
			Help:        "Documents trained into each classifier domain.",
			ConstLabels: constLabels,
		},
		[]string{"topic"},
	)
	frameErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   "tcp",
		Name:        "frame_errors_total",
		Help:        "Connections dropped on a malformed request frame.",
		ConstLabels: constLabels,
	})
	droppedResponses := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   "worker",
		Name:        "dropped_responses_total",
		Help:        "Responses that could not be written to their connection.",
		ConstLabels: constLabels,
	})

	registry.MustRegister(
		requestsTotal,
		requestDuration,
		queueLag,
		connectedClients,
		corpusDocuments,
		classifierDocuments,
		frameErrors,
		droppedResponses,
	)

	return &ServerMetrics{
		registry:            registry,
		requestsTotal:       requestsTotal,
		requestDuration:     requestDuration,
		queueLag:            queueLag,
		connectedClients:    connectedClients,
		corpusDocuments:     corpusDocuments,
		classifierDocuments: classifierDocuments,
		frameErrors:         frameErrors,
		droppedResponses:    droppedResponses,
	}
}

func (m *ServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RegisterQueue exports the queue occupancy and capacity, read at scrape time.
func (m *ServerMetrics) RegisterQueue(service string, queue interface {
	Len() int
	Cap() int
}) {
	constLabels := prometheus.Labels{"service": service}
	m.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "queue",
			Name:        "depth",
			Help:        "Requests waiting in the queue.",
			ConstLabels: constLabels,
		}, func() float64 { return float64(queue.Len()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "queue",
			Name:        "capacity",
			Help:        "Queue capacity.",
			ConstLabels: constLabels,
		}, func() float64 { return float64(queue.Cap()) }),
	)
}

func (m *ServerMetrics) ObserveRequest(kind domain.RequestKind, status domain.Status, duration, queueLag float64) {
	m.requestsTotal.WithLabelValues(kind.String(), status.String()).Inc()
	m.requestDuration.WithLabelValues(kind.String()).Observe(duration)
	if queueLag >= 0 {
		m.queueLag.Observe(queueLag)
	}
}

func (m *ServerMetrics) ObserveDroppedResponse() { m.droppedResponses.Inc() }

func (m *ServerMetrics) ObserveFrameError() { m.frameErrors.Inc() }

func (m *ServerMetrics) SetConnectedClients(n int) { m.connectedClients.Set(float64(n)) }

func (m *ServerMetrics) SetCorpusDocuments(n int) { m.corpusDocuments.Set(float64(n)) }

func (m *ServerMetrics) SetClassifierDocuments(counts map[domain.Topic]int) {
	for topic, n := range counts {
		m.classifierDocuments.WithLabelValues(topic.String()).Set(float64(n))
	}
}
