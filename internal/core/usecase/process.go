package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/nlp-text-server/internal/core/domain"
	"github.com/kirillkom/nlp-text-server/internal/core/ports"
)

const (
	defaultSummarySentences = 3
	defaultSinkTimeout      = 2 * time.Second
)

// Sinks are the optional consumers of finished requests. Nil fields are skipped.
type Sinks struct {
	Journal  ports.RequestJournal
	Events   ports.EventPublisher
	Observer ports.ProcessingObserver
}

// ProcessRequestUseCase is the worker body. It holds the only writable
// references to the classifier and the corpus, so it must be driven by a
// single goroutine.
type ProcessRequestUseCase struct {
	counter          ports.WordCounter
	classifier       ports.TopicClassifier
	matcher          ports.TopicMatcher
	summarizer       ports.Summarizer
	corpus           ports.DocumentCorpus
	summarySentences int
	sinks            Sinks
	sinkTimeout      time.Duration
	now              func() time.Time
}

func NewProcessRequestUseCase(
	counter ports.WordCounter,
	classifier ports.TopicClassifier,
	matcher ports.TopicMatcher,
	summarizer ports.Summarizer,
	corpus ports.DocumentCorpus,
	summarySentences int,
	sinks Sinks,
) *ProcessRequestUseCase {
	if summarySentences == 0 {
		summarySentences = defaultSummarySentences
	}
	return &ProcessRequestUseCase{
		counter:          counter,
		classifier:       classifier,
		matcher:          matcher,
		summarizer:       summarizer,
		corpus:           corpus,
		summarySentences: summarySentences,
		sinks:            sinks,
		sinkTimeout:      defaultSinkTimeout,
		now:              time.Now,
	}
}

// Process runs the engine for one request. The text joins the corpus first,
// whatever the request kind.
func (uc *ProcessRequestUseCase) Process(req domain.ProcessingRequest) domain.Response {
	start := uc.now()
	uc.corpus.Append(req.Text)

	resp := domain.Response{Status: domain.StatusOK}
	switch req.Kind {
	case domain.KindCountWords:
	case domain.KindDetermineTopic:
		resp.Topic = uc.determineTopic(req.Text).String()
	case domain.KindGenerateSummary:
		resp.Summary = uc.summarize(req)
	default:
		err := domain.WrapError(domain.ErrUnknownKind, "usecase.process", fmt.Errorf("kind %d", int32(req.Kind)))
		slog.Warn("request_rejected", "request_id", req.ID, "client_id", req.ClientID, "error", err.Error())
		return domain.ErrorResponse(domain.MessageUnknownKind)
	}

	resp.WordCount = uc.counter.CountWords(req.Text)
	resp.ProcessingSeconds = float64(uc.now().Unix() - start.Unix())
	return resp
}

// determineTopic asks the classifier first and falls back to keywords. Any
// known result is trained back into the classifier.
func (uc *ProcessRequestUseCase) determineTopic(text string) domain.Topic {
	topic := uc.classifier.Classify(text)
	if topic == domain.TopicUnknown {
		topic = uc.matcher.Match(text)
	}
	if topic.Valid() {
		uc.classifier.Train(text, topic)
	}
	return topic
}

func (uc *ProcessRequestUseCase) summarize(req domain.ProcessingRequest) string {
	summary, err := uc.summarizer.Summarize(req.Text, uc.summarySentences)
	if err != nil {
		slog.Warn("summary_failed", "request_id", req.ID, "error", err.Error())
		return domain.SummaryPlaceholder(err)
	}
	return summary
}

// Handle processes req and writes the response back to its connection. A
// failed write drops the response; the returned error is for logging only.
func (uc *ProcessRequestUseCase) Handle(ctx context.Context, req domain.ProcessingRequest) error {
	const op = "usecase.handle"

	start := uc.now()
	resp := uc.Process(req)

	var writeErr error
	if req.Reply == nil {
		writeErr = errors.New("request has no reply writer")
	} else {
		writeErr = req.Reply.WriteResponse(resp)
	}
	completed := uc.now()

	rec := domain.ProcessedRecord{
		ID:                req.ID,
		ClientID:          req.ClientID,
		RemoteAddr:        req.RemoteAddr,
		Kind:              req.Kind.String(),
		Status:            resp.Status.String(),
		WordCount:         resp.WordCount,
		Topic:             resp.Topic,
		SummaryLength:     len(resp.Summary),
		ProcessingSeconds: resp.ProcessingSeconds,
		ReplyDelivered:    writeErr == nil,
		EnqueuedAt:        req.EnqueuedAt,
		CompletedAt:       completed,
	}
	uc.observe(req, resp, start, completed, writeErr != nil)
	uc.publish(ctx, rec)

	if writeErr != nil {
		slog.Warn("response_dropped",
			"request_id", req.ID,
			"client_id", req.ClientID,
			"kind", req.Kind.String(),
			"error", writeErr.Error(),
		)
		return domain.WrapError(domain.ErrTemporary, op, writeErr)
	}

	slog.Debug("request_processed",
		"request_id", req.ID,
		"client_id", req.ClientID,
		"kind", req.Kind.String(),
		"status", resp.Status.String(),
		"word_count", resp.WordCount,
	)
	return nil
}

func (uc *ProcessRequestUseCase) observe(req domain.ProcessingRequest, resp domain.Response, start, completed time.Time, dropped bool) {
	obs := uc.sinks.Observer
	if obs == nil {
		return
	}
	lag := 0.0
	if !req.EnqueuedAt.IsZero() {
		lag = start.Sub(req.EnqueuedAt).Seconds()
	}
	obs.ObserveRequest(req.Kind, resp.Status, completed.Sub(start).Seconds(), lag)
	if dropped {
		obs.ObserveDroppedResponse()
	}
	obs.SetCorpusDocuments(uc.corpus.Len())
	if stats, ok := uc.classifier.(ports.ClassifierStats); ok {
		obs.SetClassifierDocuments(stats.DocumentCounts())
	}
}

// publish hands rec to the journal and the event publisher. Sink failures are
// logged and never reach the client.
func (uc *ProcessRequestUseCase) publish(ctx context.Context, rec domain.ProcessedRecord) {
	if uc.sinks.Journal != nil {
		sinkCtx, cancel := context.WithTimeout(ctx, uc.sinkTimeout)
		if err := uc.sinks.Journal.Record(sinkCtx, rec); err != nil {
			slog.Warn("journal_record_failed", "request_id", rec.ID, "error", err.Error())
		}
		cancel()
	}
	if uc.sinks.Events != nil {
		sinkCtx, cancel := context.WithTimeout(ctx, uc.sinkTimeout)
		if err := uc.sinks.Events.PublishProcessed(sinkCtx, rec); err != nil {
			slog.Warn("event_publish_failed", "request_id", rec.ID, "error", err.Error())
		}
		cancel()
	}
}
