package rest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/clusterlens/api/config"
	"github.com/clusterlens/api/domain"
	"github.com/clusterlens/api/rest"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubConsole records call arguments and returns canned results. The embedded
// interface panics on anything a test does not stub, which keeps accidental
// route/service mismatches loud.
type stubConsole struct {
	domain.Console

	pods          []*domain.Pod
	listPodsErr   error
	lastNamespace string

	pod       *domain.Pod
	getPodErr error
	lastName  string

	createdNamespace *domain.Namespace
	createErr        error

	restartErr error
}

func (s *stubConsole) ListPods(ctx context.Context, namespace string) ([]*domain.Pod, error) {
	s.lastNamespace = namespace
	return s.pods, s.listPodsErr
}

func (s *stubConsole) GetPod(ctx context.Context, namespace, name string) (*domain.Pod, error) {
	s.lastNamespace = namespace
	s.lastName = name
	return s.pod, s.getPodErr
}

func (s *stubConsole) CreateNamespace(ctx context.Context, name string, labels map[string]string) (*domain.Namespace, error) {
	return s.createdNamespace, s.createErr
}

func (s *stubConsole) RestartDeployment(ctx context.Context, namespace, name string) error {
	s.lastNamespace = namespace
	s.lastName = name
	return s.restartErr
}

func newTestServer(t *testing.T, svc domain.Console) *echo.Echo {
	t.Helper()
	h, err := rest.NewHandler(rest.Params{Svc: svc, Config: &config.ConsoleConfig{}})
	require.NoError(t, err)
	engine := echo.New()
	h.SetupRoutes(engine)
	return engine
}

func doJSON(t *testing.T, engine *echo.Echo, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	decoded := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestListPodsEndpoint(t *testing.T) {
	svc := &stubConsole{pods: []*domain.Pod{{Name: "web-1", Namespace: "default"}}}
	engine := newTestServer(t, svc)

	rec, body := doJSON(t, engine, http.MethodGet, "/api/v1/pods?namespace=default", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "default", svc.lastNamespace)
	data, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 1)
}

func TestGetPodPathParamsReachService(t *testing.T) {
	svc := &stubConsole{pod: &domain.Pod{Name: "web-1", Namespace: "kube-system"}}
	engine := newTestServer(t, svc)

	rec, _ := doJSON(t, engine, http.MethodGet, "/api/v1/pods/kube-system/web-1", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "kube-system", svc.lastNamespace)
	assert.Equal(t, "web-1", svc.lastName)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", errors.Wrap(domain.ErrNotFound, "get pod"), http.StatusNotFound},
		{"cluster unreachable", errors.Wrap(domain.ErrClusterUnreachable, "get pod"), http.StatusBadGateway},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubConsole{getPodErr: tt.err}
			engine := newTestServer(t, svc)

			rec, body := doJSON(t, engine, http.MethodGet, "/api/v1/pods/default/web-1", "")

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestCreateNamespaceValidation(t *testing.T) {
	svc := &stubConsole{createdNamespace: &domain.Namespace{Name: "team-a"}}
	engine := newTestServer(t, svc)

	rec, body := doJSON(t, engine, http.MethodPost, "/api/v1/namespaces", `{"labels":{"team":"a"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "name is mandatory")
	assert.Equal(t, false, body["success"])

	rec, _ = doJSON(t, engine, http.MethodPost, "/api/v1/namespaces", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = doJSON(t, engine, http.MethodPost, "/api/v1/namespaces", `{"name":"team-a"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, body["success"])
}

func TestRestartDeploymentEndpoint(t *testing.T) {
	svc := &stubConsole{}
	engine := newTestServer(t, svc)

	rec, body := doJSON(t, engine, http.MethodPost, "/api/v1/deployments/default/web/restart", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "default", svc.lastNamespace)
	assert.Equal(t, "web", svc.lastName)
}

func TestHealthCheckEndpoint(t *testing.T) {
	engine := newTestServer(t, &stubConsole{})

	rec, body := doJSON(t, engine, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
}
