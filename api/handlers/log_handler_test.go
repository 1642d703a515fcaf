package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/you-get-desk/pkg/logger"
)

func newLogEngine(t *testing.T) *gin.Engine {
	t.Helper()
	dir := t.TempDir()

	ml, err := logger.NewMultiLogger(logger.MultiLoggerConfig{Level: "info", LogsDir: dir})
	require.NoError(t, err)
	ml.LogDownloadCommand("you-get --debug https://example.com/v")
	ml.LogDownloadLine("stdout", "Downloading clip.mp4 ...")
	require.NoError(t, ml.Close())

	h := NewLogHandler(dir)
	r := gin.New()
	r.GET("/logs/categories", h.GetCategories)
	r.GET("/logs/:category", h.GetLogs)
	r.GET("/logs/:category/search", h.SearchLogs)
	r.GET("/logs/:category/export", h.ExportLogs)
	return r
}

func TestLogHandler_GetLogs(t *testing.T) {
	r := newLogEngine(t)

	w := doRequest(r, http.MethodGet, "/logs/download", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":2`)
	assert.Contains(t, w.Body.String(), "clip.mp4")

	w = doRequest(r, http.MethodGet, "/logs/queue", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodGet, "/logs/download?date=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogHandler_Search(t *testing.T) {
	r := newLogEngine(t)

	w := doRequest(r, http.MethodGet, "/logs/download/search?q=clip", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = doRequest(r, http.MethodGet, "/logs/download/search", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogHandler_CategoriesAndExport(t *testing.T) {
	r := newLogEngine(t)

	w := doRequest(r, http.MethodGet, "/logs/categories", "")
	assert.JSONEq(t, `{"categories":["download","error"]}`, w.Body.String())

	w = doRequest(r, http.MethodGet, "/logs/download/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "download-")
	assert.Contains(t, w.Body.String(), "clip.mp4")
}
