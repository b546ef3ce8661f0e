package perf

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/fixtures"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/httpclient"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/jupiter"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/mockapi"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func quotePage(url string) *jupiter.QuotePage {
	client := httpclient.New(httpclient.Config{BaseURL: url, Timeout: 2 * time.Second, Logger: quietLogger()})
	return jupiter.NewPages(client).Quote
}

func TestPercentile(t *testing.T) {
	lat := make([]time.Duration, 100)
	for i := range lat {
		lat[i] = time.Duration(i+1) * time.Millisecond
	}
	assert.Equal(t, 50*time.Millisecond, percentile(lat, 0.50))
	assert.Equal(t, 95*time.Millisecond, percentile(lat, 0.95))
	assert.Equal(t, 100*time.Millisecond, percentile(lat, 1))
	assert.Equal(t, time.Millisecond, percentile(lat, 0))
	assert.Zero(t, percentile(nil, 0.95))
}

func TestSummarise(t *testing.T) {
	r := summarise([]sample{
		{latency: 30 * time.Millisecond},
		{latency: 10 * time.Millisecond, failed: true},
		{latency: 20 * time.Millisecond},
		{latency: 40 * time.Millisecond},
	}, 2*time.Second)

	want := &Report{
		Requests:    4,
		Failures:    1,
		FailureRate: 0.25,
		P50:         20 * time.Millisecond,
		P95:         40 * time.Millisecond,
		Max:         40 * time.Millisecond,
		Elapsed:     2 * time.Second,
	}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("summarise() mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 2.0, r.RPS(), 1e-9)

	empty := summarise(nil, time.Second)
	assert.Zero(t, empty.Requests)
	assert.Zero(t, empty.FailureRate)
}

func TestReport_Check(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name    string
		report  Report
		wantErr string
	}{
		{"within limits", Report{Requests: 100, Failures: 4, FailureRate: 0.04, P95: time.Second}, ""},
		{"slow", Report{Requests: 100, P95: 2 * time.Second}, "p95"},
		{"failing", Report{Requests: 100, Failures: 5, FailureRate: 0.05, P95: time.Second}, "failure rate"},
		{"nothing ran", Report{}, "no requests"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.report.Check(th)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	both := Report{Requests: 10, Failures: 10, FailureRate: 1, P95: 3 * time.Second}
	err := both.Check(th)
	assert.ErrorContains(t, err, "p95")
	assert.ErrorContains(t, err, "failure rate")
}

func TestRun_AgainstMock(t *testing.T) {
	srv := mockapi.NewServer(mockapi.ServerConfig{}, quietLogger())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	r, err := Run(context.Background(), quotePage(ts.URL), Config{
		VUs:      4,
		Duration: 300 * time.Millisecond,
		Request:  fixtures.SolToUsdcBasic(),
	}, quietLogger())
	require.NoError(t, err)

	assert.Positive(t, r.Requests)
	assert.Zero(t, r.Failures)
	assert.LessOrEqual(t, r.P50, r.P95)
	assert.LessOrEqual(t, r.P95, r.Max)
	assert.NoError(t, r.Check(DefaultThresholds()))
}

func TestRun_CountsFailures(t *testing.T) {
	defer goleak.VerifyNone(t,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreCurrent(),
	)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"down"}`))
	}))
	defer ts.Close()

	r, err := Run(context.Background(), quotePage(ts.URL), Config{
		VUs:      2,
		Duration: 200 * time.Millisecond,
		Request:  fixtures.SolToUsdcBasic(),
		Pause:    10 * time.Millisecond,
	}, quietLogger())
	require.NoError(t, err)

	assert.Positive(t, r.Requests)
	assert.Equal(t, r.Requests, r.Failures)
	assert.ErrorContains(t, r.Check(DefaultThresholds()), "failure rate")
}

func TestRun_InvalidConfig(t *testing.T) {
	_, err := Run(context.Background(), quotePage("http://127.0.0.1:1"), Config{VUs: 0, Duration: time.Second}, nil)
	assert.Error(t, err)
	_, err = Run(context.Background(), quotePage("http://127.0.0.1:1"), Config{VUs: 1}, nil)
	assert.Error(t, err)
}

func TestRun_CancelledParent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, quotePage("http://127.0.0.1:1"), Config{VUs: 1, Duration: time.Second}, quietLogger())
	assert.ErrorIs(t, err, context.Canceled)
}
