package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lintang-b-s/roaddist/pkg/datastructure"
	"github.com/lintang-b-s/roaddist/pkg/engine/sssp"
	"github.com/lintang-b-s/roaddist/pkg/graphbuilder"
	"github.com/lintang-b-s/roaddist/pkg/server/rest/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	records := []datastructure.EdgeRecord{
		datastructure.NewEdgeRecord(1, 3, 100, 1),
		datastructure.NewEdgeRecord(1, 2, 10, 2),
		datastructure.NewEdgeRecord(2, 3, 20, 3),
		datastructure.NewEdgeRecord(4, 4, 0, 4),
	}
	g, err := graphbuilder.NewBuilder(graphbuilder.WithBaseOffset(1)).BuildFromRecords(records)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	svc := service.NewSsspService(sssp.NewEngine(g), service.WithObserver(m))

	return NewRouter(svc, reg, m, zerolog.Nop())
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(newTestRouter(t))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestGraphInfo(t *testing.T) {
	srv := newTestServer(t)
	resp, body := get(t, srv, "/api/graph")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got GraphResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, GraphResponse{Vertices: 4, Edges: 4, BaseOffset: 1}, got)
}

func TestNearestFarthest(t *testing.T) {
	srv := newTestServer(t)

	resp, body := get(t, srv, "/api/sssp/1/nearest?k=2&exclude_source=true")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var nearest RankedResponse
	require.NoError(t, json.Unmarshal(body, &nearest))
	assert.Equal(t, int64(1), nearest.Source)
	assert.Equal(t, []VertexDistance{{Vertex: 2, Distance: 10}, {Vertex: 3, Distance: 30}}, nearest.Vertices)

	resp, body = get(t, srv, "/api/sssp/1/farthest?k=1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var farthest RankedResponse
	require.NoError(t, json.Unmarshal(body, &farthest))
	assert.Equal(t, []VertexDistance{{Vertex: 3, Distance: 30}}, farthest.Vertices)

	// default k, source included
	resp, body = get(t, srv, "/api/sssp/1/nearest")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &nearest))
	assert.Equal(t, defaultK, nearest.K)
	assert.Len(t, nearest.Vertices, 3)
	assert.Equal(t, VertexDistance{Vertex: 1, Distance: 0}, nearest.Vertices[0])
}

func TestReachableAndExport(t *testing.T) {
	srv := newTestServer(t)

	resp, body := get(t, srv, "/api/sssp/1/reachable")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reach ReachableResponse
	require.NoError(t, json.Unmarshal(body, &reach))
	assert.Equal(t, ReachableResponse{Source: 1, Reachable: 3}, reach)

	resp, body = get(t, srv, "/api/sssp/1/export")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Equal(t, "vertex,distance\n1,0\n2,10\n3,30\n", string(body))
}

func TestBadRequests(t *testing.T) {
	srv := newTestServer(t)

	cases := []string{
		"/api/sssp/9/nearest",
		"/api/sssp/0/reachable",
		"/api/sssp/abc/export",
		"/api/sssp/1/nearest?k=x",
		"/api/sssp/1/nearest?exclude_source=maybe",
	}
	for _, path := range cases {
		t.Run(path, func(t *testing.T) {
			resp, body := get(t, srv, path)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var errResp ErrResponse
			require.NoError(t, json.Unmarshal(body, &errResp))
			assert.Equal(t, "Invalid request.", errResp.StatusText)
			assert.NotEmpty(t, errResp.ErrorText)
		})
	}
}

func TestValidationError(t *testing.T) {
	srv := newTestServer(t)

	resp, body := get(t, srv, "/api/sssp/1/farthest?k=-1")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errResp ErrResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	require.Len(t, errResp.ErrValidation, 1)
	assert.Contains(t, errResp.ErrValidation[0], "K")
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	get(t, srv, "/api/sssp/1/reachable")
	get(t, srv, "/api/sssp/1/reachable")

	resp, body := get(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	text := string(body)
	assert.Contains(t, text, `roaddist_http_requests_total{code="200",method="GET",route="/api/sssp/{source}/reachable"} 2`)
	assert.Contains(t, text, "roaddist_sssp_cache_misses_total 1")
	assert.Contains(t, text, "roaddist_sssp_cache_hits_total 1")
	assert.Contains(t, text, "roaddist_sssp_run_duration_seconds_count 1")
}

func TestRequestContextEnded(t *testing.T) {
	router := newTestRouter(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/sssp/1/reachable", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	ctx, cancel = context.WithTimeout(context.Background(), 0)
	defer cancel()
	req = httptest.NewRequest(http.MethodGet, "/api/sssp/1/reachable", nil).WithContext(ctx)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)

	var got ErrResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Request timed out.", got.StatusText)
}
