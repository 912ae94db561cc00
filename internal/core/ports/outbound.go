package ports

import (
	"context"

	"github.com/kirillkom/nlp-text-server/internal/core/domain"
)

// WordCounter counts alphabetic runs.
type WordCounter interface {
	CountWords(text string) int
}

// TopicClassifier is the self-training statistical model.
type TopicClassifier interface {
	Classify(text string) domain.Topic
	Train(text string, topic domain.Topic)
}

// TopicMatcher is the keyword fallback used when the classifier abstains.
type TopicMatcher interface {
	Match(text string) domain.Topic
}

// Summarizer builds an extractive summary of at most maxSentences sentences.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}

// DocumentCorpus is the append-only IDF population.
type DocumentCorpus interface {
	Append(text string)
	Len() int
}

// RequestQueue is the bounded FIFO between connection handlers and the worker.
type RequestQueue interface {
	Enqueue(ctx context.Context, req domain.ProcessingRequest) error
	Consume(ctx context.Context, handler func(context.Context, domain.ProcessingRequest) error) error
	Len() int
	Cap() int
}

// QueueStats is the read side of the queue used for reporting.
type QueueStats interface {
	Len() int
	Cap() int
}

// ClientRegistry tracks live text-processing connections.
type ClientRegistry interface {
	Register(rec domain.ClientRecord) bool
	IncrementRequests(id int32)
	Remove(id int32)
	Snapshot() []domain.ClientRecord
	Len() int
}

// RequestJournal persists finished requests.
type RequestJournal interface {
	Record(ctx context.Context, rec domain.ProcessedRecord) error
}

// EventPublisher announces finished requests to other services.
type EventPublisher interface {
	PublishProcessed(ctx context.Context, rec domain.ProcessedRecord) error
}

// ProcessingObserver receives per-request measurements.
type ProcessingObserver interface {
	ObserveRequest(kind domain.RequestKind, status domain.Status, duration, queueLag float64)
	ObserveDroppedResponse()
	SetCorpusDocuments(n int)
	SetClassifierDocuments(counts map[domain.Topic]int)
}

// ClassifierStats is implemented by classifiers that can report their size.
type ClassifierStats interface {
	DocumentCounts() map[domain.Topic]int
}
