package engine

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithTimeout_OperationWins(t *testing.T) {
	got, err := WithTimeout(context.Background(), time.Second, "too slow",
		func(ctx context.Context) (int, error) { return 7, nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 {
		t.Errorf("result = %d, want 7", got)
	}
}

func TestWithTimeout_OperationErrorPassesThrough(t *testing.T) {
	opErr := errors.New("backend exploded")
	_, err := WithTimeout(context.Background(), time.Second, "too slow",
		func(ctx context.Context) (int, error) { return 0, opErr })
	if !errors.Is(err, opErr) {
		t.Fatalf("error = %v, want %v", err, opErr)
	}
}

func TestWithTimeout_DeadlineProducesTimeoutError(t *testing.T) {
	_, err := WithTimeout(context.Background(), 10*time.Millisecond, "Sandbox creation timed out",
		func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		})

	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *TimeoutError", err)
	}
	if te.Message != "Sandbox creation timed out" {
		t.Errorf("message = %q, want the step label", te.Message)
	}
}

func TestWithTimeout_HungOperationDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	start := time.Now()
	_, err := WithTimeout(context.Background(), 10*time.Millisecond, "stuck",
		func(ctx context.Context) (int, error) {
			<-release // ignores cancellation entirely
			return 0, nil
		})
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("wrapper blocked for %s waiting on a hung operation", elapsed)
	}

	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *TimeoutError", err)
	}
}

func TestWithTimeout_CancellationReachesOperation(t *testing.T) {
	cancelled := make(chan struct{})
	WithTimeout(context.Background(), 10*time.Millisecond, "x",
		func(ctx context.Context) (int, error) {
			<-ctx.Done()
			close(cancelled)
			return 0, ctx.Err()
		})

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("operation never observed cancellation")
	}
}

func TestWithTimeout_CompletedStepUnaffectedByLaterTimeout(t *testing.T) {
	ctx := context.Background()

	got, err := WithTimeout(ctx, time.Second, "step one timed out",
		func(ctx context.Context) (string, error) { return "done", nil })
	if err != nil || got != "done" {
		t.Fatalf("step one = %q, %v; want done, nil", got, err)
	}

	// A timeout on step two leaves step one's result alone.
	_, err = WithTimeout(ctx, 5*time.Millisecond, "step two timed out",
		func(ctx context.Context) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})
	var te *TimeoutError
	if !errors.As(err, &te) || te.Message != "step two timed out" {
		t.Fatalf("step two error = %v, want step-two TimeoutError", err)
	}
	if got != "done" {
		t.Errorf("step one result mutated to %q", got)
	}
}
