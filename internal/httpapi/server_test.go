package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/risklab/xolsim/internal/analysis"
	"github.com/risklab/xolsim/internal/persistence"
)

func newTestServer() *Server {
	return NewServer(nil, nil, 1000, 1000)
}

func postAnalysis(t *testing.T, srv *Server, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/analysis", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func analysisBody(trials int) []byte {
	return []byte(fmt.Sprintf(`{
		"trials": %d,
		"lambda": 2.0,
		"severity": {"mean": 10000, "std_dev": 5000},
		"retention": 20000,
		"limit": 50000,
		"premium": 1500,
		"seed": 42
	}`, trials))
}

func TestHandleAnalysis_Success(t *testing.T) {
	rec := postAnalysis(t, newTestServer(), analysisBody(2000))
	require.Equal(t, http.StatusOK, rec.Code)

	var report analysis.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.NotEmpty(t, report.RunID)
	require.NotNil(t, report.Baseline)
	require.NotNil(t, report.Stressed)
	assert.GreaterOrEqual(t, report.Baseline.TVaR99, report.Baseline.VaR99)
}

func TestHandleAnalysis_InvalidConfig(t *testing.T) {
	body := []byte(`{"trials": 0, "lambda": 2.0, "severity": {"mean": 10000, "std_dev": 5000}, "retention": 1, "limit": 1, "premium": 1}`)
	rec := postAnalysis(t, newTestServer(), body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "trials")
}

func TestHandleAnalysis_MalformedJSON(t *testing.T) {
	rec := postAnalysis(t, newTestServer(), []byte(`{not json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	newTestServer().Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestMetricsEndpointExposed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	newTestServer().Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit(t *testing.T) {
	srv := NewServer(nil, nil, 0.001, 1)

	first := postAnalysis(t, srv, analysisBody(10))
	assert.Equal(t, http.StatusOK, first.Code)

	second := postAnalysis(t, srv, analysisBody(10))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRunsEndpointsWithoutStore(t *testing.T) {
	router := newTestServer().Router()

	for _, path := range []string{"/v1/runs", "/v1/runs/some-id"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotImplemented, rec.Code, path)
	}
}

type stubRepo struct {
	saved []persistence.AnalysisRun
}

func (s *stubRepo) Save(_ context.Context, run persistence.AnalysisRun) error {
	s.saved = append(s.saved, run)
	return nil
}

func (s *stubRepo) Get(_ context.Context, runID string) (*persistence.AnalysisRun, error) {
	for i := range s.saved {
		if s.saved[i].RunID == runID {
			return &s.saved[i], nil
		}
	}
	return nil, fmt.Errorf("run %s not found", runID)
}

func (s *stubRepo) ListRecent(_ context.Context, limit int) ([]persistence.AnalysisRun, error) {
	if limit > len(s.saved) {
		limit = len(s.saved)
	}
	return s.saved[:limit], nil
}

func TestHandleAnalysis_StoresRun(t *testing.T) {
	repo := &stubRepo{}
	srv := NewServer(nil, repo, 1000, 1000)

	rec := postAnalysis(t, srv, analysisBody(500))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, 500, repo.saved[0].Trials)
	assert.Equal(t, int64(42), repo.saved[0].Seed)

	req := httptest.NewRequest(http.MethodGet, "/v1/runs/"+repo.saved[0].RunID, nil)
	getRec := httptest.NewRecorder()
	srv.Router().ServeHTTP(getRec, req)
	assert.Equal(t, http.StatusOK, getRec.Code)
}
