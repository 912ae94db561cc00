package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kirillkom/nlp-text-server/internal/core/domain"
)

func TestQueuePreservesFIFOOrder(t *testing.T) {
	q := New(5)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := q.Enqueue(ctx, domain.ProcessingRequest{ID: fmt.Sprintf("r%d", i)}); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}
	if q.Len() != 5 || q.Cap() != 5 {
		t.Fatalf("unexpected occupancy %d/%d", q.Len(), q.Cap())
	}
	for i := 0; i < 5; i++ {
		req, err := q.Dequeue(ctx)
		if err != nil {
			t.Fatalf("dequeue %d: %v", i, err)
		}
		if want := fmt.Sprintf("r%d", i); req.ID != want {
			t.Fatalf("expected %s, got %s", want, req.ID)
		}
	}
}

func TestQueueEnqueueBlocksWhenFull(t *testing.T) {
	q := New(2)
	ctx := context.Background()
	_ = q.Enqueue(ctx, domain.ProcessingRequest{ID: "a"})
	_ = q.Enqueue(ctx, domain.ProcessingRequest{ID: "b"})

	done := make(chan error, 1)
	go func() { done <- q.Enqueue(ctx, domain.ProcessingRequest{ID: "c"}) }()

	select {
	case <-done:
		t.Fatalf("enqueue on a full queue must block")
	case <-time.After(50 * time.Millisecond):
	}

	if req, _ := q.Dequeue(ctx); req.ID != "a" {
		t.Fatalf("expected a, got %s", req.ID)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("blocked enqueue: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("blocked enqueue was not released by dequeue")
	}
	if q.Len() != 2 {
		t.Fatalf("expected occupancy 2, got %d", q.Len())
	}
}

func TestQueueEnqueueHonoursContext(t *testing.T) {
	q := New(1)
	_ = q.Enqueue(context.Background(), domain.ProcessingRequest{ID: "a"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := q.Enqueue(ctx, domain.ProcessingRequest{ID: "b"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if q.Len() != 1 {
		t.Fatalf("cancelled enqueue must not change occupancy")
	}
}

func TestQueueDequeueBlocksWhenEmpty(t *testing.T) {
	q := New(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := q.Dequeue(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestConsumeProcessesInOrderAndSurvivesHandlerErrors(t *testing.T) {
	q := New(10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu  sync.Mutex
		got []string
	)
	handler := func(_ context.Context, req domain.ProcessingRequest) error {
		mu.Lock()
		got = append(got, req.ID)
		n := len(got)
		mu.Unlock()
		if n == 4 {
			cancel()
		}
		if req.ID == "r1" {
			return errors.New("write failed")
		}
		return nil
	}

	for i := 0; i < 4; i++ {
		_ = q.Enqueue(context.Background(), domain.ProcessingRequest{ID: fmt.Sprintf("r%d", i)})
	}
	if err := q.Consume(ctx, handler); err != nil {
		t.Fatalf("consume: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 4 {
		t.Fatalf("expected 4 handled requests, got %v", got)
	}
	for i, id := range got {
		if want := fmt.Sprintf("r%d", i); id != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, id)
		}
	}
}

func TestNewDefaultsCapacity(t *testing.T) {
	if got := New(0).Cap(); got != DefaultCapacity {
		t.Fatalf("expected default capacity %d, got %d", DefaultCapacity, got)
	}
}
