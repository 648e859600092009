package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/hupe1980/dnaclass"
	"github.com/hupe1980/dnaclass/dataset"
	"github.com/hupe1980/dnaclass/metric"
	"github.com/hupe1980/dnaclass/resource"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()

	clf, err := dnaclass.Train(context.Background(), []dataset.Record{
		{Sequence: "ATGCGA", Label: "promoter"},
		{Sequence: "GGCCTT", Label: "coding"},
		{Sequence: "TTTTTT", Label: "non-coding"},
	})
	require.NoError(t, err)

	s, err := New(clf, opts...)
	require.NoError(t, err)
	return s
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodePrediction(t *testing.T, rec *httptest.ResponseRecorder) dnaclass.Prediction {
	t.Helper()
	var p dnaclass.Prediction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func TestNew_NilClassifier(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestIndex(t *testing.T) {
	s := newTestServer(t)

	t.Run("Empty", func(t *testing.T) {
		rec := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "DNA Sequence Classifier")
		assert.NotContains(t, rec.Body.String(), "Predicted class")
	})

	t.Run("WithSequence", func(t *testing.T) {
		rec := serve(s, httptest.NewRequest(http.MethodGet, "/?sequence=ATGCGA", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Predicted class")
		assert.Contains(t, body, `<span class="label">promoter</span>`)
		assert.Contains(t, body, "non-coding")
		assert.Contains(t, body, "width: 88.89%")
	})

	t.Run("EscapesInput", func(t *testing.T) {
		q := url.Values{"sequence": {`<script>alert(1)</script>`}}
		rec := serve(s, httptest.NewRequest(http.MethodGet, "/?"+q.Encode(), nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "<script>alert(1)</script>")
	})

	t.Run("UnknownPath", func(t *testing.T) {
		rec := serve(s, httptest.NewRequest(http.MethodGet, "/nope", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPredict(t *testing.T) {
	s := newTestServer(t)

	t.Run("Query", func(t *testing.T) {
		rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/predict?sequence=ATGCGA", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

		p := decodePrediction(t, rec)
		assert.Equal(t, "promoter", p.Label)
		require.Len(t, p.Probabilities, 3)
		var sum float64
		for _, cp := range p.Probabilities {
			sum += cp.Probability
		}
		assert.InDelta(t, 1.0, sum, 1e-6)
	})

	t.Run("JSONBody", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(`{"sequence":"GGCCTT"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := serve(s, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "coding", decodePrediction(t, rec).Label)
	})

	t.Run("FormBody", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader("sequence=TTTTTT"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := serve(s, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "non-coding", decodePrediction(t, rec).Label)
	})

	t.Run("UnseenKmers", func(t *testing.T) {
		rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/predict?sequence=ACACAC", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodePrediction(t, rec).Probabilities, 3)
	})

	t.Run("Empty", func(t *testing.T) {
		rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/predict", nil))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "sequence must not be empty")
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(`{"sequence":`))
		req.Header.Set("Content-Type", "application/json")
		rec := serve(s, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("MethodNotAllowed", func(t *testing.T) {
		rec := serve(s, httptest.NewRequest(http.MethodDelete, "/api/predict", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestPredict_BodyTooLarge(t *testing.T) {
	s := newTestServer(t, WithMaxBodyBytes(16))

	req := httptest.NewRequest(http.MethodPost, "/api/predict",
		strings.NewReader(`{"sequence":"`+strings.Repeat("A", 64)+`"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(s, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "too large")
}

func TestModel(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/model", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var info ModelInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, []string{"coding", "non-coding", "promoter"}, info.Classes)
	assert.Equal(t, 9, info.VocabularySize)
	assert.Equal(t, 3, info.K)
	assert.Equal(t, 1, info.ClassCounts["promoter"])
	assert.Equal(t, 3, info.Stats.Records)
}

func TestHealthz(t *testing.T) {
	rec := serve(newTestServer(t), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestAdmission(t *testing.T) {
	rc := resource.NewController(resource.Config{MaxConcurrentQueries: 1})
	s := newTestServer(t, WithAdmission(rc))

	// Hold the only slot.
	release, err := rc.TryAcquire()
	require.NoError(t, err)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/predict?sequence=ATGCGA", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// Health checks bypass admission.
	rec = serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	release()
	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/predict?sequence=ATGCGA", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(0), rc.InFlight())
}

func TestMetricsEndpoint(t *testing.T) {
	m := metric.NewPrometheusCollector(prometheus.NewRegistry())
	s := newTestServer(t, WithMetrics(m))

	serve(s, httptest.NewRequest(http.MethodGet, "/api/predict?sequence=ATGCGA", nil))

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `dnaclass_http_requests_total{code="200",method="GET",route="/api/predict"} 1`)
}

func TestMetricsEndpoint_Disabled(t *testing.T) {
	rec := serve(newTestServer(t), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := dnaclass.NewLogger(slog.NewTextHandler(&buf, nil))
	s := newTestServer(t, WithLogger(logger))

	serve(s, httptest.NewRequest(http.MethodGet, "/api/predict", nil))

	out := buf.String()
	assert.Contains(t, out, "msg=request")
	assert.Contains(t, out, "method=GET")
	assert.Contains(t, out, "path=/api/predict")
	assert.Contains(t, out, "status=400")
}

func TestServe_GracefulShutdown(t *testing.T) {
	s := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "ok\n", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestListenAndServe_BadAddress(t *testing.T) {
	err := newTestServer(t).ListenAndServe(context.Background(), "127.0.0.1:-1")
	assert.Error(t, err)
}
