package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourusername/you-get-desk/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeService struct {
	installed   bool
	installErr  error
	info        *domain.MediaInfo
	infoErr     error
	downloadErr error
	downloading bool
	dir         string
	dirErr      error
	records     []*domain.DownloadRecord

	gotInfoURL     string
	gotInfoCookies string
	gotRequest     domain.DownloadRequest
	gotEmitter     domain.EventEmitter
	gotLimit       int
}

func (s *fakeService) CheckToolInstalled(context.Context) bool { return s.installed }

func (s *fakeService) InstallTool(context.Context) error { return s.installErr }

func (s *fakeService) FetchVideoInfo(_ context.Context, url, cookiesPath string) (*domain.MediaInfo, error) {
	s.gotInfoURL, s.gotInfoCookies = url, cookiesPath
	return s.info, s.infoErr
}

func (s *fakeService) StartDownload(req domain.DownloadRequest, emitter domain.EventEmitter) error {
	s.gotRequest, s.gotEmitter = req, emitter
	return s.downloadErr
}

func (s *fakeService) DefaultDownloadDirectory() (string, error) { return s.dir, s.dirErr }

func (s *fakeService) IsDownloading() bool { return s.downloading }

func (s *fakeService) History(limit int) ([]*domain.DownloadRecord, error) {
	s.gotLimit = limit
	return s.records, nil
}

func (s *fakeService) HistoryStats() (*domain.DownloadStats, error) {
	return &domain.DownloadStats{Total: int64(len(s.records))}, nil
}

func newTestEngine(service *fakeService) (*gin.Engine, *EventHub) {
	hub := NewEventHub(zap.NewNop())
	h := NewDownloadHandler(service, hub, zap.NewNop())

	r := gin.New()
	r.GET("/tool/check", h.CheckTool)
	r.POST("/tool/install", h.InstallTool)
	r.POST("/info", h.GetInfo)
	r.POST("/downloads", h.StartDownload)
	r.GET("/download-dir", h.GetDownloadDir)
	r.GET("/status", h.GetStatus)
	r.GET("/history", h.GetHistory)
	return r, hub
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestStartDownload_Completed(t *testing.T) {
	service := &fakeService{}
	r, hub := newTestEngine(service)

	w := doRequest(r, http.MethodPost, "/downloads",
		`{"url":"https://www.youtube.com/watch?v=x","format":"mp4","output_path":"/tmp/out","no_caption":true}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"completed"}`, w.Body.String())
	assert.Equal(t, "https://www.youtube.com/watch?v=x", service.gotRequest.URL)
	assert.Equal(t, "mp4", service.gotRequest.Format)
	assert.Equal(t, "/tmp/out", service.gotRequest.OutputPath)
	assert.True(t, service.gotRequest.SuppressCaptions)
	assert.Same(t, hub, service.gotEmitter)
}

func TestStartDownload_ErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   domain.ErrorKind
	}{
		{"busy", domain.NewError(domain.KindAlreadyInProgress, "Another download is in progress", nil), http.StatusConflict, domain.KindAlreadyInProgress},
		{"invalid", domain.NewError(domain.KindInvalidRequest, "format is required", nil), http.StatusBadRequest, domain.KindInvalidRequest},
		{"not installed", domain.NewError(domain.KindExecutableNotFound, "you-get was not found", nil), http.StatusFailedDependency, domain.KindExecutableNotFound},
		{"exit", domain.NewError(domain.KindNonZeroExit, "Download failed", nil), http.StatusInternalServerError, domain.KindNonZeroExit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestEngine(&fakeService{downloadErr: tt.err})

			w := doRequest(r, http.MethodPost, "/downloads", `{"url":"https://example.com/v","format":"mp4"}`)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.kind, resp.Kind)
			assert.Equal(t, domain.UserMessage(tt.err), resp.Error)
		})
	}
}

func TestStartDownload_BadBody(t *testing.T) {
	service := &fakeService{}
	r, _ := newTestEngine(service)

	w := doRequest(r, http.MethodPost, "/downloads", `{"url":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.KindInvalidRequest, decodeError(t, w).Kind)
	assert.Empty(t, service.gotRequest.URL)
}

func TestGetInfo(t *testing.T) {
	service := &fakeService{info: domain.NewMediaInfo("Clip", []domain.FormatDescriptor{domain.NewFormatDescriptor("mp4", 1024, "hd720")})}
	r, _ := newTestEngine(service)

	w := doRequest(r, http.MethodPost, "/info", `{"url":"https://example.com/v","cookies_path":"/tmp/c.txt"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://example.com/v", service.gotInfoURL)
	assert.Equal(t, "/tmp/c.txt", service.gotInfoCookies)
	assert.Contains(t, w.Body.String(), `"title":"Clip"`)
	assert.Contains(t, w.Body.String(), `"hd720"`)
}

func TestGetInfo_Malformed(t *testing.T) {
	r, _ := newTestEngine(&fakeService{infoErr: domain.NewError(domain.KindMalformedOutput, "Failed to fetch video info", nil)})

	w := doRequest(r, http.MethodPost, "/info", `{"url":"https://example.com/v"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, domain.KindMalformedOutput, decodeError(t, w).Kind)
}

func TestToolEndpoints(t *testing.T) {
	r, _ := newTestEngine(&fakeService{installed: true})
	w := doRequest(r, http.MethodGet, "/tool/check", "")
	assert.JSONEq(t, `{"installed":true}`, w.Body.String())

	r, _ = newTestEngine(&fakeService{installErr: domain.NewError(domain.KindMissingRuntime, "Python is not installed", nil)})
	w = doRequest(r, http.MethodPost, "/tool/install", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, domain.KindMissingRuntime, resp.Kind)
	assert.Equal(t, "Python is not installed", resp.Error)
}

func TestDirectoryAndStatus(t *testing.T) {
	r, _ := newTestEngine(&fakeService{dir: "/home/me/Downloads", downloading: true})

	w := doRequest(r, http.MethodGet, "/download-dir", "")
	assert.JSONEq(t, `{"path":"/home/me/Downloads"}`, w.Body.String())

	w = doRequest(r, http.MethodGet, "/status", "")
	assert.JSONEq(t, `{"downloading":true}`, w.Body.String())

	r, _ = newTestEngine(&fakeService{dirErr: domain.NewError(domain.KindDirectoryUnresolvable, "no directory", nil)})
	w = doRequest(r, http.MethodGet, "/download-dir", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetHistory_Limit(t *testing.T) {
	record := domain.NewDownloadRecord(domain.DownloadRequest{URL: "https://example.com/v", Format: "mp4"})
	service := &fakeService{records: []*domain.DownloadRecord{record}}
	r, _ := newTestEngine(service)

	w := doRequest(r, http.MethodGet, "/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 50, service.gotLimit)
	assert.True(t, strings.Contains(w.Body.String(), `"count":1`))

	doRequest(r, http.MethodGet, "/history?limit=5000", "")
	assert.Equal(t, 1000, service.gotLimit)

	doRequest(r, http.MethodGet, "/history?limit=abc", "")
	assert.Equal(t, 50, service.gotLimit)
}
