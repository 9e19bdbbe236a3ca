package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	azerrors "github.com/NVIDIA/azops/pkg/errors"
)

type sleepRecorder struct {
	delays []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return nil
}

func testPolicy(attempts int, rec *sleepRecorder) Policy {
	return Policy{
		Name:        "test",
		MaxAttempts: attempts,
		Base:        time.Second,
		Sleep:       rec.sleep,
	}
}

func TestDo_SucceedsOnThirdAttempt(t *testing.T) {
	rec := &sleepRecorder{}
	calls := 0

	got, err := Do(context.Background(), testPolicy(3, rec), func(_ context.Context, attempt int) (string, error) {
		calls++
		if attempt < 2 {
			return "", fmt.Errorf("transient failure %d", attempt)
		}
		return "payload", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "payload", got)
	assert.Equal(t, 3, calls)
	require.Len(t, rec.delays, 2)
	assert.GreaterOrEqual(t, rec.delays[1], rec.delays[0])
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rec.delays)
}

func TestDo_FirstSuccessShortCircuits(t *testing.T) {
	rec := &sleepRecorder{}
	calls := 0

	_, err := Do(context.Background(), testPolicy(5, rec), func(context.Context, int) (int, error) {
		calls++
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, rec.delays)
}

func TestDo_ExhaustsAfterMaxAttempts(t *testing.T) {
	rec := &sleepRecorder{}
	calls := 0
	lastErr := errors.New("endpoint unavailable")

	_, err := Do(context.Background(), testPolicy(3, rec), func(context.Context, int) (int, error) {
		calls++
		return 0, lastErr
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls, "must never make a 4th attempt")
	assert.Len(t, rec.delays, 2, "no sleep after the final attempt")

	var exhausted *ExhaustedRetriesError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.ErrorIs(t, err, lastErr)
	assert.True(t, azerrors.IsCode(err, azerrors.ErrCodeExhaustedRetries))
}

func TestDo_MaxAttemptsBelowOne(t *testing.T) {
	rec := &sleepRecorder{}
	calls := 0

	_, err := Do(context.Background(), testPolicy(0, rec), func(context.Context, int) (int, error) {
		calls++
		return 0, errors.New("nope")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, rec.delays)
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	rec := &sleepRecorder{}
	calls := 0
	cause := errors.New("invalid api key")

	_, err := Do(context.Background(), testPolicy(3, rec), func(context.Context, int) (int, error) {
		calls++
		return 0, Permanent(cause)
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, rec.delays)

	var exhausted *ExhaustedRetriesError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, cause, exhausted.LastError)
}

func TestDo_ContextCanceledDuringSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	p := Policy{
		Name:        "test",
		MaxAttempts: 3,
		Base:        time.Hour,
		Sleep: func(ctx context.Context, d time.Duration) error {
			cancel()
			return ContextSleep(ctx, d)
		},
	}

	_, err := Do(ctx, p, func(context.Context, int) (int, error) {
		calls++
		return 0, errors.New("boom")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo_ScheduleIsCappedAndExact(t *testing.T) {
	rec := &sleepRecorder{}
	p := testPolicy(5, rec)
	p.MaxDelay = 3 * time.Second

	_, err := Do(context.Background(), p, func(context.Context, int) (int, error) {
		return 0, errors.New("still down")
	})

	require.Error(t, err)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second, 3 * time.Second}, rec.delays)
}

func TestPolicy_Delay(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		attempt int
		want    time.Duration
	}{
		{"first", Policy{Base: time.Second}, 0, time.Second},
		{"second", Policy{Base: time.Second}, 1, 2 * time.Second},
		{"third", Policy{Base: time.Second}, 2, 4 * time.Second},
		{"capped", Policy{Base: time.Second, MaxDelay: 3 * time.Second}, 2, 3 * time.Second},
		{"negative attempt", Policy{Base: time.Second}, -1, time.Second},
		{"millisecond unit", Policy{Base: 10 * time.Millisecond}, 3, 80 * time.Millisecond},
		{"stays capped", Policy{Base: time.Second, MaxDelay: time.Minute}, 100, time.Minute},
		{"zero base", Policy{}, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Delay(tt.attempt))
		})
	}
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy("chat")
	assert.Equal(t, "chat", p.Name)
	assert.Equal(t, 3, p.MaxAttempts)
	assert.Equal(t, time.Second, p.Base)
}
