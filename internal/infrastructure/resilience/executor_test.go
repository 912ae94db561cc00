package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/kirillkom/nlp-text-server/internal/core/domain"
)

func fastPolicy(breaker bool) Policy {
	return Policy{
		MaxAttempts:         3,
		InitialBackoff:      time.Millisecond,
		MaxBackoff:          2 * time.Millisecond,
		Multiplier:          2,
		BreakerEnabled:      breaker,
		BreakerMinRequests:  2,
		BreakerFailureRatio: 0.5,
		BreakerOpenTimeout:  50 * time.Millisecond,
		BreakerHalfOpenMax:  1,
	}
}

func TestExecuteRetriesTemporaryFailure(t *testing.T) {
	exec := NewExecutor(fastPolicy(false))

	attempts := 0
	err := exec.Execute(context.Background(), "journal.record", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return domain.WrapError(domain.ErrTemporary, "journal.record", errors.New("connection reset"))
		}
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestExecuteDoesNotRetryPermanentFailure(t *testing.T) {
	exec := NewExecutor(fastPolicy(false))

	attempts := 0
	errPermanent := errors.New("syntax error")
	err := exec.Execute(context.Background(), "journal.record", func(context.Context) error {
		attempts++
		return errPermanent
	}, ClassifyTemporary)
	if !errors.Is(err, errPermanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestExecuteStopsOnCancelledContext(t *testing.T) {
	exec := NewExecutor(fastPolicy(false))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := exec.Execute(ctx, "events.publish", func(context.Context) error {
		called = true
		return nil
	}, nil)
	if !errors.Is(err, context.Canceled) || called {
		t.Fatalf("expected cancellation before first attempt, got %v called=%v", err, called)
	}
}

func TestExecuteOpensCircuitAfterFailures(t *testing.T) {
	policy := fastPolicy(true)
	policy.MaxAttempts = 1
	exec := NewExecutor(policy)

	errDown := errors.New("broker down")
	for i := 0; i < 2; i++ {
		err := exec.Execute(context.Background(), "events.publish", func(context.Context) error {
			return errDown
		}, nil)
		if !errors.Is(err, errDown) {
			t.Fatalf("iteration %d: expected broker error, got %v", i, err)
		}
	}
	if exec.State("events.publish") != gobreaker.StateOpen {
		t.Fatalf("expected open breaker, got %s", exec.State("events.publish"))
	}

	err := exec.Execute(context.Background(), "events.publish", func(context.Context) error {
		t.Fatalf("open circuit must not call the operation")
		return nil
	}, nil)
	if !IsCircuitOpen(err) {
		t.Fatalf("expected open state error, got %v", err)
	}
	if exec.State("journal.record") != gobreaker.StateClosed {
		t.Fatalf("breakers must be per operation")
	}
}

func TestPolicyBackoffIsCapped(t *testing.T) {
	p := Policy{InitialBackoff: 10 * time.Millisecond, MaxBackoff: 25 * time.Millisecond, Multiplier: 2}.withDefaults()
	want := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 25 * time.Millisecond, 25 * time.Millisecond}
	for i, w := range want {
		if got := p.backoff(i + 1); got != w {
			t.Fatalf("attempt %d: expected %s, got %s", i+1, w, got)
		}
	}
}
