package memory

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kirillkom/nlp-text-server/internal/core/domain"
)

const DefaultCapacity = 100

// Queue is a bounded FIFO of processing requests. Enqueue blocks while the
// queue is full and Dequeue while it is empty; blocked callers are served in
// arrival order.
type Queue struct {
	items chan domain.ProcessingRequest
}

func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{items: make(chan domain.ProcessingRequest, capacity)}
}

// Enqueue blocks until req is queued or ctx is done. A queued request is
// never withdrawn.
func (q *Queue) Enqueue(ctx context.Context, req domain.ProcessingRequest) error {
	select {
	case q.items <- req:
		return nil
	default:
	}
	select {
	case q.items <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) Dequeue(ctx context.Context) (domain.ProcessingRequest, error) {
	select {
	case req := <-q.items:
		return req, nil
	case <-ctx.Done():
		return domain.ProcessingRequest{}, ctx.Err()
	}
}

// Consume runs handler on every request in order until ctx is cancelled.
// Handler errors are logged and do not stop the loop.
func (q *Queue) Consume(ctx context.Context, handler func(context.Context, domain.ProcessingRequest) error) error {
	for {
		req, err := q.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		if err := handler(ctx, req); err != nil {
			slog.Warn("worker_handler_error",
				"request_id", req.ID,
				"kind", req.Kind.String(),
				"error", err.Error(),
			)
		}
	}
}

// Len is the current occupancy.
func (q *Queue) Len() int { return len(q.items) }

func (q *Queue) Cap() int { return cap(q.items) }
