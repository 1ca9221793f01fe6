package retry

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/kbukum/stagekit/errors"
)

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.InitialBackoff = time.Millisecond
	cfg.MaxBackoff = 5 * time.Millisecond
	return cfg
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fastConfig(), func() (int, error) {
		calls++
		return 42, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 || calls != 1 {
		t.Errorf("expected 42 after 1 call, got %d after %d", got, calls)
	}
}

func TestDo_RetriesRetryableError(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fastConfig(), func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.IOFailure("write", "/tmp/x", stderrors.New("transient"))
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != "ok" || calls != 3 {
		t.Errorf("expected ok after 3 calls, got %q after %d", got, calls)
	}
}

func TestDo_DoesNotRetryNonRetryable(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig(), func() (int, error) {
		calls++
		return 0, errors.InvalidArgument("pattern", "empty")
	})
	if !errors.HasCode(err, errors.ErrCodeInvalidArgument) {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single attempt, got %d", calls)
	}
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig(), func() (int, error) {
		calls++
		return 0, errors.IOFailure("read", "/tmp/x", stderrors.New("still broken"))
	})
	if !errors.HasCode(err, errors.ErrCodeIOFailure) {
		t.Fatalf("expected last IO_FAILURE, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	_, err := Do(ctx, fastConfig(), func() (int, error) {
		calls++
		return 0, nil
	})
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no attempts after cancellation, got %d", calls)
	}
}

func TestFunc(t *testing.T) {
	calls := 0
	err := Func(context.Background(), fastConfig(), func() error {
		calls++
		if calls == 1 {
			return errors.IOFailure("rename", "/tmp/x", stderrors.New("busy"))
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestDo_OnRetryObserved(t *testing.T) {
	cfg := fastConfig()
	var attempts []int
	cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		attempts = append(attempts, attempt)
	}
	calls := 0
	_, _ = Do(context.Background(), cfg, func() (int, error) {
		calls++
		return 0, errors.IOFailure("write", "/tmp/x", stderrors.New("transient"))
	})
	if len(attempts) != 2 {
		t.Errorf("expected OnRetry before each retry, got %v", attempts)
	}
}
