package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/nobra/internal/config"
	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
	"github.com/alexisbeaulieu97/nobra/internal/plugin"
	"github.com/alexisbeaulieu97/nobra/internal/ports"
	"github.com/alexisbeaulieu97/nobra/internal/registry"
)

type cppParams struct {
	MAP float64 `json:"mean_arterial_pressure" validate:"gte=30,lte=200"`
	ICP float64 `json:"intracranial_pressure" validate:"gte=0,lte=80"`
}

func cppStub(p cppParams) (score.Result, error) {
	if p.ICP >= p.MAP {
		return nil, plugin.NewValueError("intracranial_pressure", "intracranial_pressure must be lower than mean_arterial_pressure")
	}
	if p.MAP == 199 {
		panic("stub blew up")
	}
	value := p.MAP - p.ICP
	return score.NewResult(value, "mmHg", "adequate", "Normal", "CPP 60-80 mmHg"), nil
}

func testCatalog(t *testing.T) *plugin.Catalog {
	t.Helper()
	catalog := plugin.NewCatalog()
	require.NoError(t, catalog.Register("cerebral_perfusion_pressure", plugin.Factory(score.Metadata{
		ID:          "cerebral_perfusion_pressure",
		Title:       "Cerebral Perfusion Pressure",
		Description: "Perfusion pressure from MAP and ICP",
		Category:    "neurology",
		ResultUnit:  "mmHg",
	}, cppStub)))
	require.NoError(t, catalog.Register("rox_index", plugin.Factory(score.Metadata{
		ID:          "rox_index",
		Title:       "ROX Index",
		Description: "HFNC failure prediction",
		Category:    "pulmonology",
		ResultUnit:  "index",
	}, func(struct{}) (score.Result, error) {
		return score.NewResult(5.2, "index", "low risk", "Low Risk", "ROX >= 4.88"), nil
	})))
	require.NoError(t, catalog.Register("broken_score", func() (ports.Calculator, error) {
		return nil, errors.New("cannot build")
	}))
	return catalog
}

func newTestServer(t *testing.T, cfg config.ServerConfig) (*Server, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	svc := registry.NewService(testCatalog(t), nil)
	return New(Options{
		Service:   svc,
		Config:    cfg,
		AccessLog: zerolog.New(&logs),
	}), &logs
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, config.Default().Server)
	rec := do(t, s, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	decode(t, rec, &resp)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, 3, resp.ScoresLoaded)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestListScores(t *testing.T) {
	s, _ := newTestServer(t, config.Default().Server)

	t.Run("all resolvable scores", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/api/scores", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp ScoreListResponse
		decode(t, rec, &resp)
		assert.Equal(t, 2, resp.Total)
		assert.Equal(t, score.ID("cerebral_perfusion_pressure"), resp.Scores[0].ID)
	})

	t.Run("filtered", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/api/scores?category=Pulmonology&search=hfnc", "")
		var resp ScoreListResponse
		decode(t, rec, &resp)
		require.Equal(t, 1, resp.Total)
		assert.Equal(t, score.ID("rox_index"), resp.Scores[0].ID)
	})
}

func TestScoreMetadata(t *testing.T) {
	s, _ := newTestServer(t, config.Default().Server)

	rec := do(t, s, http.MethodGet, "/api/scores/rox_index", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var meta score.Metadata
	decode(t, rec, &meta)
	assert.Equal(t, "ROX Index", meta.Title)

	for _, id := range []string{"missing_score", "broken_score", "Bad-Id"} {
		rec = do(t, s, http.MethodGet, "/api/scores/"+id, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, id)
		var body ErrorResponse
		decode(t, rec, &body)
		assert.Equal(t, "ScoreNotFound", body.Error)
	}
}

func TestValidateScore(t *testing.T) {
	s, _ := newTestServer(t, config.Default().Server)

	tests := []struct {
		id        string
		exists    bool
		available bool
		status    string
	}{
		{id: "rox_index", exists: true, available: true, status: "ready"},
		{id: "broken_score", exists: true, available: false, status: "no_calculator"},
		{id: "missing_score", exists: false, available: false, status: "no_calculator"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/api/scores/"+tt.id+"/validate", "")
			require.Equal(t, http.StatusOK, rec.Code)
			var resp ValidateResponse
			decode(t, rec, &resp)
			assert.Equal(t, tt.id, resp.ScoreID)
			assert.Equal(t, tt.exists, resp.ScoreExists)
			assert.Equal(t, tt.available, resp.CalculatorAvailable)
			assert.Equal(t, tt.status, resp.Status)
		})
	}
}

func TestCategories(t *testing.T) {
	s, _ := newTestServer(t, config.Default().Server)
	rec := do(t, s, http.MethodGet, "/api/categories", "")

	var resp CategoriesResponse
	decode(t, rec, &resp)
	assert.Equal(t, []string{"neurology", "pulmonology"}, resp.Categories)
	assert.Equal(t, 2, resp.Total)
}

func TestReload(t *testing.T) {
	s, _ := newTestServer(t, config.Default().Server)
	rec := do(t, s, http.MethodPost, "/api/reload", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ReloadResponse
	decode(t, rec, &resp)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 2, resp.ScoresLoaded)
	assert.Equal(t, []score.ID{"cerebral_perfusion_pressure", "rox_index"}, resp.Scores)
}

func TestGenericCalculate(t *testing.T) {
	s, _ := newTestServer(t, config.Default().Server)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{name: "success", path: "/api/cerebral_perfusion_pressure/calculate", body: `{"mean_arterial_pressure": 90, "intracranial_pressure": 15}`, status: http.StatusOK},
		{name: "value rejected", path: "/api/cerebral_perfusion_pressure/calculate", body: `{"mean_arterial_pressure": 40, "intracranial_pressure": 50}`, status: http.StatusUnprocessableEntity, code: "InvalidParameters"},
		{name: "out of range", path: "/api/cerebral_perfusion_pressure/calculate", body: `{"mean_arterial_pressure": 500, "intracranial_pressure": 10}`, status: http.StatusUnprocessableEntity, code: "InvalidParameters"},
		{name: "missing key", path: "/api/cerebral_perfusion_pressure/calculate", body: `{"mean_arterial_pressure": 90}`, status: http.StatusUnprocessableEntity, code: "InvalidParameters"},
		{name: "plugin panic", path: "/api/cerebral_perfusion_pressure/calculate", body: `{"mean_arterial_pressure": 199, "intracranial_pressure": 10}`, status: http.StatusInternalServerError, code: "CalculationError"},
		{name: "unknown id", path: "/api/does_not_exist/calculate", body: `{}`, status: http.StatusNotFound, code: "ScoreNotFound"},
		{name: "broken plugin", path: "/api/broken_score/calculate", body: `{}`, status: http.StatusInternalServerError, code: "InternalServerError"},
		{name: "not an object", path: "/api/rox_index/calculate", body: `[1, 2]`, status: http.StatusBadRequest, code: "BadRequest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.path, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.code == "" {
				return
			}
			var body ErrorResponse
			decode(t, rec, &body)
			assert.Equal(t, tt.code, body.Error)
			assert.NotEmpty(t, body.Message)
			assert.NotContains(t, body.Message, "goroutine")
		})
	}

	t.Run("result body", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/api/cerebral_perfusion_pressure/calculate", `{"mean_arterial_pressure": 90, "intracranial_pressure": 15}`)
		var result map[string]interface{}
		decode(t, rec, &result)
		assert.Equal(t, float64(75), result["result"])
		assert.Equal(t, "mmHg", result["unit"])
		assert.Equal(t, "Normal", result["stage"])
	})

	t.Run("binding details", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/api/cerebral_perfusion_pressure/calculate", `{"mean_arterial_pressure": 90, "weight": 3}`)
		var body ErrorResponse
		decode(t, rec, &body)
		assert.Equal(t, []interface{}{"intracranial_pressure"}, body.Details["missing"])
		assert.Equal(t, []interface{}{"weight"}, body.Details["unexpected"])
	})
}

func TestPerScoreRoutes(t *testing.T) {
	s, _ := newTestServer(t, config.Default().Server)

	rec := do(t, s, http.MethodPost, "/rox_index", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodPost, "/cerebral_perfusion_pressure", `{"mean_arterial_pressure": 40, "intracranial_pressure": 50}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, s, http.MethodPost, "/broken_score", "{}")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorResponse
	decode(t, rec, &body)
	assert.Equal(t, "InternalServerError", body.Error)

	rec = do(t, s, http.MethodPost, "/never_registered", "{}")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestIDPropagation(t *testing.T) {
	s, logs := newTestServer(t, config.Default().Server)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "my-custom-id")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "my-custom-id", rec.Header().Get(RequestIDHeader))
	assert.Contains(t, logs.String(), `"request_id":"my-custom-id"`)
	assert.Contains(t, logs.String(), `"status":200`)
}

func TestBodyLimit(t *testing.T) {
	cfg := config.Default().Server
	cfg.BodyLimit = "16B"
	s, _ := newTestServer(t, cfg)

	rec := do(t, s, http.MethodPost, "/api/rox_index/calculate", `{"padding": "`+strings.Repeat("x", 64)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestUnsupportedMediaType(t *testing.T) {
	s, _ := newTestServer(t, config.Default().Server)

	req := httptest.NewRequest(http.MethodPost, "/api/rox_index/calculate", strings.NewReader("a=b"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	cfg := config.Default().Server
	cfg.Addr = "127.0.0.1:0"
	cfg.ShutdownTimeout = time.Second
	s, _ := newTestServer(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
