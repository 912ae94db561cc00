package domain

import "time"

type RequestKind int32

const (
	KindCountWords      RequestKind = 1
	KindDetermineTopic  RequestKind = 2
	KindGenerateSummary RequestKind = 3
)

func (k RequestKind) String() string {
	switch k {
	case KindCountWords:
		return "count_words"
	case KindDetermineTopic:
		return "determine_topic"
	case KindGenerateSummary:
		return "generate_summary"
	default:
		return "unknown"
	}
}

type Status int32

const (
	StatusOK    Status = 0
	StatusError Status = 1
)

func (s Status) String() string {
	if s == StatusOK {
		return "ok"
	}
	return "error"
}

// ResponseWriter delivers a response to the connection a request came from.
type ResponseWriter interface {
	WriteResponse(resp Response) error
}

// ProcessingRequest is a queued unit of work. It is created by a connection
// handler, moved through the queue by value and consumed once by the worker.
type ProcessingRequest struct {
	ID         string
	ClientID   int32
	RemoteAddr string
	Kind       RequestKind
	Text       string
	EnqueuedAt time.Time
	Reply      ResponseWriter
}

type Response struct {
	Status            Status
	WordCount         int
	ProcessingSeconds float64
	Topic             string
	Summary           string
	ErrorMessage      string
}

func ErrorResponse(message string) Response {
	return Response{Status: StatusError, ErrorMessage: message}
}

// ProcessedRecord describes a finished request for the journal and event sinks.
type ProcessedRecord struct {
	ID                string    `json:"id"`
	ClientID          int32     `json:"client_id"`
	RemoteAddr        string    `json:"remote_addr"`
	Kind              string    `json:"kind"`
	Status            string    `json:"status"`
	WordCount         int       `json:"word_count"`
	Topic             string    `json:"topic,omitempty"`
	SummaryLength     int       `json:"summary_length"`
	ProcessingSeconds float64   `json:"processing_seconds"`
	ReplyDelivered    bool      `json:"reply_delivered"`
	EnqueuedAt        time.Time `json:"enqueued_at"`
	CompletedAt       time.Time `json:"completed_at"`
}
