package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRetry returns a RetryProvider that records its waits instead of
// sleeping.
func newTestRetry(inner Provider, attempts int) (*RetryProvider, *[]time.Duration) {
	var waits []time.Duration
	r := WithRetry(inner, RetryConfig{
		MaxAttempts: attempts,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     300 * time.Millisecond,
		Multiplier:  2,
	}, nil).(*RetryProvider)
	r.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return r, &waits
}

func down() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("connection reset")}}
}

func TestRetryOutcomes(t *testing.T) {
	tests := []struct {
		name      string
		script    []MockResponse
		wantCalls int
		wantErr   any
	}{
		{
			name:      "first attempt succeeds",
			script:    []MockResponse{MockText(`[{"1": {}}]`)},
			wantCalls: 1,
		},
		{
			name:      "transient then success",
			script:    []MockResponse{down(), MockText(`[{"1": {}}]`)},
			wantCalls: 2,
		},
		{
			name:      "gives up after max attempts",
			script:    []MockResponse{down(), down(), down(), MockText(`unreached`)},
			wantCalls: 3,
			wantErr:   new(*ErrProviderUnavailable),
		},
		{
			name:      "truncated completion is final",
			script:    []MockResponse{{Err: &ErrMaxTokensExceeded{Content: []byte(`[{"1": {"Quest`)}}},
			wantCalls: 1,
			wantErr:   new(*ErrMaxTokensExceeded),
		},
		{
			name:      "rejected request is final",
			script:    []MockResponse{{Err: &ErrRejected{Status: 401, Err: errors.New("bad key")}}},
			wantCalls: 1,
			wantErr:   new(*ErrRejected),
		},
		{
			name: "invalid response retried once",
			script: []MockResponse{
				{Err: &ErrInvalidResponse{Err: errors.New("empty completion")}},
				{Err: &ErrInvalidResponse{Err: errors.New("empty completion")}},
				MockText(`unreached`),
			},
			wantCalls: 2,
			wantErr:   new(*ErrInvalidResponse),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.script...)
			p, _ := newTestRetry(mock, 3)

			resp, err := p.Generate(context.Background(), Request{})
			assert.Equal(t, tt.wantCalls, mock.CallCount())
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.NotEmpty(t, resp.Text())
				return
			}
			assert.ErrorAs(t, err, tt.wantErr)
		})
	}
}

func TestRetryBackoff(t *testing.T) {
	mock := NewMockProvider(down(), down(), down(), MockText(`ok`))
	p, waits := newTestRetry(mock, 4)

	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	require.Len(t, *waits, 3)

	// 100ms, 200ms, then capped at 300ms, each within ±20%.
	for i, base := range []time.Duration{100, 200, 300} {
		base *= time.Millisecond
		assert.InDelta(t, float64(base), float64((*waits)[i]), float64(base)*0.2, "wait %d", i)
	}
}

func TestRetryHonorsRetryAfter(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 2 * time.Second, Err: errors.New("429")}},
		MockText(`ok`),
	)
	p, waits := newTestRetry(mock, 3)

	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{2 * time.Second}, *waits)
}

func TestRetryStopsOnCanceledContext(t *testing.T) {
	mock := NewMockProvider(down(), down(), MockText(`ok`))
	p, _ := newTestRetry(mock, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetryable(t *testing.T) {
	assert.False(t, Retryable(nil))
	assert.False(t, Retryable(context.DeadlineExceeded))
	assert.False(t, Retryable(&ErrRejected{Status: 404}))
	assert.True(t, Retryable(&ErrRateLimit{}))
	assert.True(t, Retryable(errors.New("dial tcp: i/o timeout")))
}

func TestRetryModelIDDelegates(t *testing.T) {
	p, _ := newTestRetry(NewMockProvider(), 1)
	assert.Equal(t, "mock", p.ModelID())
}
