package tts

import (
	"context"
	"errors"
	"testing"
	"time"
)

// recordingSleep captures requested delays without waiting.
type recordingSleep struct {
	delays []time.Duration
	err    error
}

func (r *recordingSleep) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return r.err
}

func TestRetryFirstAttemptSucceeds(t *testing.T) {
	rec := &recordingSleep{}
	p := retryPolicy{maxAttempts: 3, baseDelay: 100 * time.Millisecond, sleep: rec.sleep}

	attempts, err := p.run(context.Background(), func(int) error { return nil })
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
	if len(rec.delays) != 0 {
		t.Errorf("expected no sleeps on first-attempt success, got %v", rec.delays)
	}
}

func TestRetryBackoffSequence(t *testing.T) {
	rec := &recordingSleep{}
	p := retryPolicy{maxAttempts: 4, baseDelay: 100 * time.Millisecond, sleep: rec.sleep}

	calls := 0
	attempts, err := p.run(context.Background(), func(attempt int) error {
		calls++
		if attempt != calls {
			t.Errorf("attempt number %d does not match call count %d", attempt, calls)
		}
		if attempt < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}

	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}
	if len(rec.delays) != len(want) {
		t.Fatalf("got delays %v, want %v", rec.delays, want)
	}
	for i := range want {
		if rec.delays[i] != want[i] {
			t.Errorf("delay %d: got %v, want %v", i, rec.delays[i], want[i])
		}
	}
}

func TestRetryExhaustion(t *testing.T) {
	rec := &recordingSleep{}
	p := retryPolicy{maxAttempts: 3, baseDelay: 50 * time.Millisecond, sleep: rec.sleep}

	cause := errors.New("still down")
	calls := 0
	attempts, err := p.run(context.Background(), func(int) error {
		calls++
		return cause
	})
	if err == nil {
		t.Fatal("expected error after exhaustion")
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected wrapped cause, got %v", err)
	}
	if attempts != 3 || calls != 3 {
		t.Errorf("expected exactly 3 attempts, got attempts=%d calls=%d", attempts, calls)
	}
	// No sleep after the final failure.
	if len(rec.delays) != 2 {
		t.Errorf("expected 2 sleeps, got %v", rec.delays)
	}
}

func TestRetryCanceledDuringBackoff(t *testing.T) {
	rec := &recordingSleep{err: context.Canceled}
	p := retryPolicy{maxAttempts: 3, baseDelay: 50 * time.Millisecond, sleep: rec.sleep}

	calls := 0
	_, err := p.run(context.Background(), func(int) error {
		calls++
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected no further attempts after cancellation, got %d calls", calls)
	}
}

func TestBackoffDoubling(t *testing.T) {
	p := retryPolicy{baseDelay: 100 * time.Millisecond}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := p.backoff(tt.attempt); got != tt.want {
			t.Errorf("backoff(%d): got %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestSleepContextHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := sleepContext(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if err := sleepContext(context.Background(), 0); err != nil {
		t.Errorf("zero-duration sleep: %v", err)
	}
}
