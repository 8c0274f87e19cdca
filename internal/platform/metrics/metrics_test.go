// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/agora/internal/platform/metrics"
)

/*
TestMetrics_ObserveAuth splits outcomes by error presence.
*/
func TestMetrics_ObserveAuth(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.ObserveAuth("login", nil)
	m.ObserveAuth("login", errors.New("bad credentials"))
	m.ObserveAuth("login", errors.New("bad credentials"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthOutcomes.WithLabelValues("login", metrics.OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AuthOutcomes.WithLabelValues("login", metrics.OutcomeFailure)))
}

/*
TestMetrics_Handler exposes recorded series in text format.
*/
func TestMetrics_Handler(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	m.ObserveHTTP("GET", "/api/v1/topics", 200, 15*time.Millisecond)
	m.SubscriberOpened()
	m.SubscriberOpened()
	m.SubscriberClosed()

	recorder := httptest.NewRecorder()
	m.Handler().ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(recorder.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `agora_http_requests_total{method="GET",route="/api/v1/topics",status="200"} 1`)
	assert.Contains(t, string(body), "agora_live_subscribers 1")
}
