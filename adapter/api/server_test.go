package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/outbox"
	taskapp "github.com/felixgeelhaar/nexus/internal/tasks/application"
	"github.com/felixgeelhaar/nexus/internal/tasks/application/commands"
	"github.com/felixgeelhaar/nexus/internal/tasks/application/queries"
	"github.com/felixgeelhaar/nexus/internal/tasks/infrastructure/persistence"
	"github.com/felixgeelhaar/nexus/pkg/observability"
)

type testServer struct {
	handler http.Handler
	health  *observability.HealthRegistry
}

func setupServer(t *testing.T) testServer {
	t.Helper()
	ctx := context.Background()

	conn, err := sqlite.NewConnection(ctx, database.Config{SQLitePath: sqlite.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	_, err = migrations.Run(ctx, conn)
	require.NoError(t, err)

	service := taskapp.NewTaskService(
		persistence.NewSQLiteTaskRepository(conn),
		outbox.NewSQLRepository(conn),
		database.NewUnitOfWork(conn),
		nil,
	)
	return setupServerWith(t, service)
}

func setupServerWith(t *testing.T, service TaskService) testServer {
	t.Helper()
	health := observability.NewHealthRegistry(time.Second)
	server := NewServer(DefaultServerConfig(), ServerDeps{
		Handler:  NewTaskHandler(service, nil),
		Health:   health,
		Registry: prometheus.NewRegistry(),
	})
	return testServer{handler: server.Handler(), health: health}
}

func (s testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestTaskAPI_CreateUpdateGet(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, http.MethodPost, "/api/tasks", map[string]string{
		"name": "Deploy", "status": "PENDING", "targetType": "server",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[queries.TaskDTO](t, rec)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "/api/tasks/1", rec.Header().Get("Location"))

	rec = s.do(t, http.MethodPut, "/api/tasks/1", map[string]any{
		"id": 77, "name": "Deploy v2", "status": "DONE", "targetType": "server",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/tasks/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]any](t, rec)
	assert.Equal(t, float64(1), got["id"], "body id is ignored")
	assert.Equal(t, "Deploy v2", got["name"])
	assert.Equal(t, "DONE", got["status"])
	assert.Equal(t, "server", got["targetType"])
	assert.Contains(t, got, "createdAt")
	assert.Contains(t, got, "updatedAt")
}

func TestTaskAPI_Errors(t *testing.T) {
	s := setupServer(t)

	tests := []struct {
		name    string
		method  string
		path    string
		body    any
		status  int
		message string
	}{
		{"get missing", http.MethodGet, "/api/tasks/9", nil, http.StatusNotFound, "task not found with id 9"},
		{"update missing", http.MethodPut, "/api/tasks/9", map[string]string{"name": "x"}, http.StatusNotFound, "task not found with id 9"},
		{"bad id", http.MethodGet, "/api/tasks/abc", nil, http.StatusBadRequest, `invalid task id "abc"`},
		{"bad delete id", http.MethodDelete, "/api/tasks/1.5", nil, http.StatusBadRequest, "invalid task id"},
		{"bad body", http.MethodPost, "/api/tasks", "{", http.StatusBadRequest, "invalid request body"},
		{"bad update body", http.MethodPut, "/api/tasks/1", `{"name": 3}`, http.StatusBadRequest, "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.body)

			assert.Equal(t, tt.status, rec.Code)
			body := decode[map[string]string](t, rec)
			assert.Equal(t, http.StatusText(tt.status), body["error"])
			assert.Contains(t, body["message"], tt.message)
		})
	}
}

func TestTaskAPI_Delete(t *testing.T) {
	s := setupServer(t)
	s.do(t, http.MethodPost, "/api/tasks", map[string]string{"name": "Deploy"})

	rec := s.do(t, http.MethodDelete, "/api/tasks/1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = s.do(t, http.MethodDelete, "/api/tasks/1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code, "deleting a missing task succeeds")

	rec = s.do(t, http.MethodGet, "/api/tasks/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskAPI_Lists(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String(), "empty lists are arrays")

	for _, in := range []map[string]string{
		{"name": "Fabric", "status": "PENDING"},
		{"name": "ABC", "status": "DONE"},
		{"name": "cab", "status": "RUNNING"},
		{"name": "xyz", "status": "PENDING"},
	} {
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/tasks", in).Code)
	}

	names := func(rec *httptest.ResponseRecorder) []string {
		var out []string
		for _, dto := range decode[[]queries.TaskDTO](t, rec) {
			out = append(out, dto.Name)
		}
		return out
	}

	assert.Len(t, names(s.do(t, http.MethodGet, "/api/tasks", nil)), 4)
	assert.Equal(t, []string{"Fabric", "xyz"}, names(s.do(t, http.MethodGet, "/api/tasks/status/PENDING", nil)))
	assert.Equal(t, []string{"ABC", "cab"}, names(s.do(t, http.MethodGet, "/api/tasks?status=DONE,%20RUNNING", nil)))
	assert.Equal(t, []string{"Fabric", "ABC", "cab"}, names(s.do(t, http.MethodGet, "/api/tasks/search?name=AB", nil)))
	assert.Len(t, names(s.do(t, http.MethodGet, "/api/tasks/search", nil)), 4)

	rec = s.do(t, http.MethodGet, "/api/tasks/status/pending", nil)
	assert.JSONEq(t, "[]", rec.Body.String())
}

type failingService struct {
	TaskService
}

func (failingService) GetAllTasks(context.Context) ([]queries.TaskDTO, error) {
	return nil, errors.New("database is locked")
}

func (failingService) CreateTask(context.Context, commands.TaskDetails) (*queries.TaskDTO, error) {
	return nil, errors.New("database is locked")
}

func TestTaskAPI_InternalErrorsHideDetails(t *testing.T) {
	s := setupServerWith(t, failingService{})

	for _, rec := range []*httptest.ResponseRecorder{
		s.do(t, http.MethodGet, "/api/tasks", nil),
		s.do(t, http.MethodPost, "/api/tasks", map[string]string{"name": "x"}),
	} {
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "locked")
	}
}

func TestServer_RequestIDs(t *testing.T) {
	s := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set(observability.CorrelationIDHeader, "corr-abc")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, "corr-abc", rec.Header().Get(observability.CorrelationIDHeader))
	assert.NotEmpty(t, rec.Header().Get(observability.RequestIDHeader))
}

func TestServer_HealthAndMetrics(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	s.health.Register("database", observability.PingChecker("database", observability.HealthStatusUnhealthy,
		func(context.Context) error { return errors.New("gone") }))
	rec = s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s.do(t, http.MethodGet, "/api/tasks/3", nil)
	rec = s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `nexus_http_requests_total{code="404",method="GET",route="GET /api/tasks/{id}"} 1`)
}

func TestSplitStatuses(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, splitStatuses("A, B,,"))
	assert.Empty(t, splitStatuses(""))
}
