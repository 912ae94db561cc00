package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kirillkom/nlp-text-server/internal/core/domain"
)

type queueStub struct{ size, capacity int }

func (q queueStub) Len() int { return q.size }
func (q queueStub) Cap() int { return q.capacity }

func TestObserveRequestCountsByKindAndStatus(t *testing.T) {
	m := NewServerMetrics("nlp-test")
	m.ObserveRequest(domain.KindCountWords, domain.StatusOK, 0.01, 0.2)
	m.ObserveRequest(domain.KindCountWords, domain.StatusOK, 0.02, 0.1)
	m.ObserveRequest(domain.RequestKind(9), domain.StatusError, 0.01, 0)

	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("count_words", "ok")); got != 2 {
		t.Fatalf("expected 2 ok count_words, got %f", got)
	}
	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("unknown", "error")); got != 1 {
		t.Fatalf("expected 1 unknown error, got %f", got)
	}
	if got := testutil.CollectAndCount(m.queueLag); got != 1 {
		t.Fatalf("expected one queue lag series, got %d", got)
	}
}

func TestGaugesAndCounters(t *testing.T) {
	m := NewServerMetrics("nlp-test")
	m.SetConnectedClients(3)
	m.SetCorpusDocuments(12)
	m.SetClassifierDocuments(map[domain.Topic]int{domain.TopicSport: 2, domain.TopicTechnology: 5})
	m.ObserveFrameError()
	m.ObserveDroppedResponse()
	m.ObserveDroppedResponse()

	if got := testutil.ToFloat64(m.connectedClients); got != 3 {
		t.Fatalf("expected 3 clients, got %f", got)
	}
	if got := testutil.ToFloat64(m.corpusDocuments); got != 12 {
		t.Fatalf("expected 12 documents, got %f", got)
	}
	if got := testutil.ToFloat64(m.classifierDocuments.WithLabelValues("Tehnologie")); got != 5 {
		t.Fatalf("expected 5 technology documents, got %f", got)
	}
	if got := testutil.ToFloat64(m.frameErrors); got != 1 {
		t.Fatalf("expected 1 frame error, got %f", got)
	}
	if got := testutil.ToFloat64(m.droppedResponses); got != 2 {
		t.Fatalf("expected 2 dropped responses, got %f", got)
	}
}

func TestHandlerExposesQueueGauges(t *testing.T) {
	m := NewServerMetrics("nlp-test")
	m.RegisterQueue("nlp-test", queueStub{size: 3, capacity: 100})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	text := string(body)

	for _, want := range []string{
		`nlp_queue_depth{service="nlp-test"} 3`,
		`nlp_queue_capacity{service="nlp-test"} 100`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in scrape output:\n%s", want, text)
		}
	}
}
