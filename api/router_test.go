package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/you-get-desk/api/handlers"
	"github.com/yourusername/you-get-desk/internal/domain"
)

type stubService struct {
	installed bool
}

func (s stubService) CheckToolInstalled(context.Context) bool { return s.installed }

func (s stubService) InstallTool(context.Context) error { return nil }

func (s stubService) FetchVideoInfo(context.Context, string, string) (*domain.MediaInfo, error) {
	return domain.NewMediaInfo("T", nil), nil
}

func (s stubService) StartDownload(domain.DownloadRequest, domain.EventEmitter) error { return nil }

func (s stubService) DefaultDownloadDirectory() (string, error) { return "/tmp", nil }

func (s stubService) IsDownloading() bool { return false }

func (s stubService) History(int) ([]*domain.DownloadRecord, error) {
	return []*domain.DownloadRecord{}, nil
}

func (s stubService) HistoryStats() (*domain.DownloadStats, error) {
	return &domain.DownloadStats{}, nil
}

func serve(router http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestSetupRouter_Routes(t *testing.T) {
	router := SetupRouter(RouterDeps{
		Service: stubService{installed: true},
		Hub:     handlers.NewEventHub(nil),
		LogsDir: t.TempDir(),
	})

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusOK},
		{http.MethodGet, "/api/v1/tool/check", http.StatusOK},
		{http.MethodGet, "/api/v1/download-dir", http.StatusOK},
		{http.MethodGet, "/api/v1/status", http.StatusOK},
		{http.MethodGet, "/api/v1/history", http.StatusOK},
		{http.MethodGet, "/api/v1/logs/categories", http.StatusOK},
		{http.MethodGet, "/api/v1/logs/download", http.StatusOK},
		{http.MethodGet, "/api/v1/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.status, serve(router, tt.method, tt.path).Code)
		})
	}
}

func TestSetupRouter_NotReadyWithoutTool(t *testing.T) {
	router := SetupRouter(RouterDeps{
		Service: stubService{installed: false},
		Hub:     handlers.NewEventHub(nil),
		LogsDir: t.TempDir(),
	})

	w := serve(router, http.MethodGet, "/ready")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "not installed")

	w = serve(router, http.MethodGet, "/health")
	assert.JSONEq(t, `{"status":"ok","version":"1.0.0","downloading":false,"listeners":0}`, w.Body.String())
}
