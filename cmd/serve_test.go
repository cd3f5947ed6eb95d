package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearsignal/intel-cli/internal/cost"
	"github.com/clearsignal/intel-cli/internal/intel"
	"github.com/clearsignal/intel-cli/internal/model"
	"github.com/clearsignal/intel-cli/internal/monitoring"
	"github.com/clearsignal/intel-cli/pkg/perplexity"
)

// unconfiguredEnv builds a pipeline with no provider credential: every
// request resolves without a network call, which keeps handler tests
// hermetic.
func unconfiguredEnv() *pipelineEnv {
	api := perplexity.NewClient("")
	client := intel.NewClient(api, "", time.Second)
	collector := monitoring.NewCollector()
	return &pipelineEnv{
		Pipeline:  intel.NewPipeline(client, collector, cost.NewCalculator(cost.DefaultRates())),
		Collector: collector,
	}
}

func TestBuildRouter_Health(t *testing.T) {
	env := unconfiguredEnv()
	router := buildRouter(env.Pipeline, env.Collector)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestBuildRouter_IntelligenceUnconfigured(t *testing.T) {
	env := unconfiguredEnv()
	router := buildRouter(env.Pipeline, env.Collector)

	payload, _ := json.Marshal(model.IntelligenceRequest{
		Query:          "pricing moves",
		SubjectName:    "Acme Corp",
		DomainContext:  "fintech",
		SearchCategory: model.CategoryCompetitive,
		RecencyWindow:  model.RecencyQuarter,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/intelligence", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var envlp model.IntelligenceEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envlp))
	assert.Equal(t, "unconfigured", envlp.Provenance.DegradationReason)
	assert.Equal(t, 0, envlp.QualityMetrics.DataQuality)
	assert.NotEmpty(t, envlp.Insights)
}

func TestBuildRouter_MalformedBodyGetsEnvelopeNot4xx(t *testing.T) {
	env := unconfiguredEnv()
	router := buildRouter(env.Pipeline, env.Collector)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/intelligence", bytes.NewReader([]byte(`{not json`)))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var envlp model.IntelligenceEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envlp))
	assert.Equal(t, "generic-fallback", envlp.Provenance.DegradationReason)
	assert.Equal(t, 0, envlp.QualityMetrics.DataQuality)
	assert.Empty(t, envlp.Insights)
}

func TestBuildRouter_InvalidRequestGetsEnvelopeNot4xx(t *testing.T) {
	env := unconfiguredEnv()
	router := buildRouter(env.Pipeline, env.Collector)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/intelligence", bytes.NewReader([]byte(`{"query":""}`)))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var envlp model.IntelligenceEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envlp))
	assert.Equal(t, "generic-fallback", envlp.Provenance.DegradationReason)
}

func TestBuildRouter_CORSPreflight(t *testing.T) {
	env := unconfiguredEnv()
	router := buildRouter(env.Pipeline, env.Collector)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/intelligence", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestBuildRouter_Metrics(t *testing.T) {
	env := unconfiguredEnv()
	router := buildRouter(env.Pipeline, env.Collector)

	payload, _ := json.Marshal(model.IntelligenceRequest{
		Query:       "pricing moves",
		SubjectName: "Acme Corp",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/intelligence", bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	mreq := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mrr := httptest.NewRecorder()
	router.ServeHTTP(mrr, mreq)

	assert.Equal(t, http.StatusOK, mrr.Code)

	var snap monitoring.MetricsSnapshot
	require.NoError(t, json.Unmarshal(mrr.Body.Bytes(), &snap))
	assert.Equal(t, 1, snap.Total)
	assert.Equal(t, 1, snap.ByOutcome["unconfigured"])
}
