package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/hpgraph"
	"github.com/aretw0/hpgraph/pkg/adapters/memory"
	"github.com/aretw0/hpgraph/pkg/domain"
	"github.com/aretw0/hpgraph/pkg/observability"
	"github.com/aretw0/hpgraph/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	handler http.Handler
	store   *memory.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	promReg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(promReg)

	b := hpgraph.New(hpgraph.WithStore(store), hpgraph.WithHooks(metrics.Hooks()))
	recipes := memory.NewLoader(map[string]string{
		"tiny": "seed: !seed 5\nd: 8\nl: !new:nn.linear {input_size: !ref <d>, n_neurons: 2}\n",
	})
	return &fixture{
		handler: NewHandler(b, WithStore(store), WithRecipes(recipes), WithGatherer(promReg)),
		store:   store,
	}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, "GET", "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestListTargets(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, "GET", "/v1/targets", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var infos []registry.Info
	require.NoError(t, json.NewDecoder(w.Body).Decode(&infos))
	byTarget := map[string]registry.Info{}
	for _, i := range infos {
		byTarget[i.Target] = i
	}
	require.Contains(t, byTarget, "optim.adam")
	assert.Equal(t, "lazy", byTarget["optim.adam"].Mode)
	assert.Equal(t, "float", byTarget["optim.adam"].Params["lr"].Name())
}

func TestValidate(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, "POST", "/v1/validate", BuildRequest{Document: "b: !ref <a>\na: 1\n"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"valid":true,"order":["a","b"]}`, w.Body.String())

	w = f.do(t, "POST", "/v1/validate", BuildRequest{Document: "a: !ref <b>\nb: !ref <a>\n"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "cyclic_reference", resp.Kind)
	assert.Equal(t, []string{"a", "b", "a"}, resp.Cycle)

	w = f.do(t, "POST", "/v1/validate", BuildRequest{Document: "a: [1,\n"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "parse", resp.Kind)
	assert.Positive(t, resp.Line)
}

func TestValidate_BadRequests(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest("POST", "/v1/validate", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, "POST", "/v1/validate", BuildRequest{Document: "a: 1\n", Recipe: "tiny"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, "POST", "/v1/validate", BuildRequest{Recipe: "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResolve(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, "POST", "/v1/resolve", BuildRequest{
		Document:  "data: !PLACEHOLDER\nout: !ref <data>/save\nn: !new:math.add [1, 2]\n",
		Overrides: []string{"data: /tmp"},
		Save:      true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ResolveResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, []string{"data", "out", "n"}, resp.Order)
	assert.Equal(t, "/tmp/save", resp.Nodes["out"].Value)
	assert.Equal(t, float64(3), resp.Nodes["n"].Value)
	require.NotEmpty(t, resp.ManifestId)

	m, err := f.store.Load(t.Context(), resp.ManifestId)
	require.NoError(t, err)
	assert.Equal(t, []string{"data: /tmp"}, m.Overrides)

	w = f.do(t, "POST", "/v1/resolve", BuildRequest{Document: "data: !PLACEHOLDER\n"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var e ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&e))
	assert.Equal(t, "missing_placeholder", e.Kind)
	assert.Equal(t, "data", e.Node)
}

func TestResolve_Recipe(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, "POST", "/v1/resolve", BuildRequest{Recipe: "tiny", Overrides: []string{"d: 4"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ResolveResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, int64(5), resp.Seed)
	assert.Equal(t, "*builtins.Linear", resp.Nodes["l"].Type)
	assert.Empty(t, resp.ManifestId)
}

func TestRecipes(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, "GET", "/v1/recipes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["tiny"]`, w.Body.String())

	w = f.do(t, "GET", "/v1/recipes/tiny", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "!seed 5")

	w = f.do(t, "GET", "/v1/recipes/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestManifests(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	require.NoError(t, f.store.Save(ctx, &domain.Manifest{ID: "m1", Seed: 3}))

	w := f.do(t, "GET", "/v1/manifests", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["m1"]`, w.Body.String())

	w = f.do(t, "GET", "/v1/manifests/m1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var m domain.Manifest
	require.NoError(t, json.NewDecoder(w.Body).Decode(&m))
	assert.Equal(t, int64(3), m.Seed)

	w = f.do(t, "DELETE", "/v1/manifests/m1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, "GET", "/v1/manifests/m1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestManifests_NoStore(t *testing.T) {
	h := NewHandler(hpgraph.New())
	req := httptest.NewRequest("GET", "/v1/manifests", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotImplemented, w.Code)

	req = httptest.NewRequest("GET", "/metrics", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.do(t, "POST", "/v1/resolve", BuildRequest{Document: "a: 1\n"})

	w := f.do(t, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `hpgraph_builds_total{result="ok"} 1`)
}

func TestCORS(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, "OPTIONS", "/v1/resolve", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestOpenAPI(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, "GET", "/openapi.yaml", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/v1/resolve")

	w = f.do(t, "GET", "/swagger", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/openapi.yaml")

	swagger, err := GetSwagger()
	require.NoError(t, err)
	require.NoError(t, swagger.Validate(t.Context()))
	assert.Equal(t, 9, swagger.Paths.Len())
	for _, path := range []string{"/healthz", "/info", "/v1/validate", "/v1/resolve", "/v1/manifests/{id}"} {
		assert.NotNil(t, swagger.Paths.Value(path), path)
	}
}

func TestInfo(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, "GET", "/info", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var info InfoResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&info))
	assert.Equal(t, "hpgraph-http", info.App)
	assert.Equal(t, strings.TrimSpace(hpgraph.Version), info.Version)
	assert.Equal(t, "0.1.0", info.ApiVersion)
}

func TestUnimplementedRoutes(t *testing.T) {
	h := Handler(Unimplemented{})
	req := httptest.NewRequest("GET", "/v1/manifests/abc", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}
