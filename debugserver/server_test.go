package debugserver

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calderos/hollowdeep/metrics"
)

func TestStatusEndpointReportsCounters(t *testing.T) {
	reg := metrics.NewRegistry()
	reg.Ints.Get("scheduler.turns_processed").Store(77)
	srv := New("127.0.0.1:0", reg, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/statusz", nil))
	require.Equal(t, 200, rec.Code)

	var snap map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Equal(t, float64(77), snap["scheduler.turns_processed"])
}

func TestMetricsEndpointExposesPrometheusFormat(t *testing.T) {
	reg := metrics.NewRegistry()
	reg.Ints.Get("scheduler.halts").Store(3)
	srv := New("127.0.0.1:0", reg, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), "hollowdeep_scheduler_halts 3"),
		"exposition output:\n%s", body)
}

func TestHealthz(t *testing.T) {
	srv := New("127.0.0.1:0", metrics.NewRegistry(), nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	require.Equal(t, 200, rec.Code)
}
