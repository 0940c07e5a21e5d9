package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsearch "github.com/praxisip/molscope/internal/application/search"
	"github.com/praxisip/molscope/internal/config"
	domainpatent "github.com/praxisip/molscope/internal/domain/patent"
	"github.com/praxisip/molscope/internal/extraction"
	"github.com/praxisip/molscope/internal/infrastructure/monitoring/logging"
	"github.com/praxisip/molscope/internal/infrastructure/monitoring/prometheus"
	"github.com/praxisip/molscope/internal/infrastructure/portal"
	"github.com/praxisip/molscope/internal/interfaces/http/handlers"
	"github.com/praxisip/molscope/internal/interfaces/http/middleware"
	apperrors "github.com/praxisip/molscope/pkg/errors"
	patenttypes "github.com/praxisip/molscope/pkg/types/patent"
)

type fetcherStub struct{}

func (fetcherStub) Fetch(_ context.Context, _ portal.UpstreamQuery) (*portal.RawDocument, error) {
	return &portal.RawDocument{Body: "<html></html>", StatusCode: 200, Attempts: 1}, nil
}

type extractorStub struct {
	results map[extraction.DocumentKind]*extraction.Result
}

func (e extractorStub) Extract(_ context.Context, doc extraction.Document) (*extraction.Result, error) {
	if res, ok := e.results[doc.Kind]; ok {
		return res, nil
	}
	return nil, apperrors.ExtractionFailed("no strategy produced a usable candidate")
}

func newTestRouter(results map[extraction.DocumentKind]*extraction.Result, limiter *middleware.RateLimiter) http.Handler {
	logger := logging.NewNopLogger()
	metrics := prometheus.NewMetrics()
	service := appsearch.NewService(
		fetcherStub{},
		extractorStub{results: results},
		domainpatent.NewNormalizer("https://patentscope.wipo.int"),
		nil,
		logger,
		metrics,
	)
	return NewRouter(RouterConfig{
		SearchHandler: handlers.NewSearchHandler(service),
		PatentHandler: handlers.NewPatentHandler(service),
		HealthHandler: handlers.NewHealthHandler(service, "test"),
		RateLimiter:   limiter,
		Logger:        logger,
		Metrics:       metrics,
	})
}

func searchResults() map[extraction.DocumentKind]*extraction.Result {
	return map[extraction.DocumentKind]*extraction.Result{
		extraction.KindSearchResults: {
			FieldSets: []domainpatent.RawFieldSet{
				{PublicationNumber: "WO2023111111A1", Title: "Aspirin formulation", DocID: "WO2023111111"},
			},
			TotalResults: 42,
		},
	}
}

func TestSearchEndpoint(t *testing.T) {
	router := newTestRouter(searchResults(), nil)

	body := `{"query": "aspirin", "search_type": "exact", "page": 1, "page_size": 10}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp patenttypes.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "aspirin", resp.Query)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 42, resp.Pagination.TotalResults)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestSearchEndpointRejectsBadJSON(t *testing.T) {
	router := newTestRouter(searchResults(), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/search", strings.NewReader("{not json")))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp patenttypes.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, string(apperrors.ErrCodeInvalidQuery), resp.Error)
}

func TestSearchEndpointRejectsEmptyQuery(t *testing.T) {
	router := newTestRouter(searchResults(), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query": "  "}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPatentDetailNotFound(t *testing.T) {
	router := newTestRouter(nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/patent/WO9999999999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestStatsEndpoint(t *testing.T) {
	router := newTestRouter(searchResults(), nil)

	body := `{"query": "aspirin"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var stats appsearch.StatsSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.SearchRequests)
	assert.Equal(t, appsearch.Source, stats.Source)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitExceeded(t *testing.T) {
	limiter := middleware.NewRateLimiter(config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 60,
		Burst:             2,
	})
	router := newTestRouter(nil, limiter)

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "203.0.113.7:12345"
		router.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/search", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
