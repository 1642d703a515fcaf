//go:build integration

package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/you-get-desk/api/handlers"
	"github.com/yourusername/you-get-desk/internal/app"
	"github.com/yourusername/you-get-desk/internal/domain"
	"github.com/yourusername/you-get-desk/internal/infrastructure"
	"github.com/yourusername/you-get-desk/pkg/logger"
)

const fakeTool = `
case "$1" in
  --version) echo "you-get: version 0.4.1730"; exit 0 ;;
  --info)
    printf 'site:                Bilibili\n'
    printf 'title:               Clip\n'
    printf '    - format:        dash-flv720\n'
    printf '      quality:       720P\n'
    printf '      size:          24.2 MiB (25392847 bytes)\n'
    exit 0 ;;
esac
printf 'Site: Bilibili\n'
printf 'Downloading Clip.mp4 ...\r 50%%\r'
printf 'Downloading Clip.mp4 ... 100%%\n'
echo "[DEBUG] done" >&2
`

func setupBridge(t *testing.T) (*httptest.Server, *infrastructure.SQLiteHistoryRepository) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tool scripts need a POSIX shell")
	}

	dir := t.TempDir()
	binary := filepath.Join(dir, "you-get")
	require.NoError(t, os.WriteFile(binary, []byte("#!/bin/sh\n"+fakeTool), 0755))

	messages := domain.MessagesFor("en")
	multiLog, err := logger.NewMultiLogger(logger.MultiLoggerConfig{Level: "info", LogsDir: filepath.Join(dir, "logs")})
	require.NoError(t, err)
	t.Cleanup(func() { multiLog.Close() })

	repo, err := infrastructure.NewSQLiteHistoryRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	parser, err := infrastructure.NewReportParser(domain.ReportFormatText, messages)
	require.NoError(t, err)

	resolver := infrastructure.NewCandidateResolver([]string{binary}, messages.ToolNotInstalled)
	service := app.NewDownloadService(app.ServiceDeps{
		Downloader:  infrastructure.NewToolRunner(resolver, parser, messages, multiLog, nil),
		Installer:   infrastructure.NewInstaller(resolver, &domain.DefaultConfig().Installer, messages, nil),
		Directories: infrastructure.NewDownloadDirResolver(messages),
		History:     repo,
		EventLogger: multiLog,
		Messages:    messages,
	})

	router := SetupRouter(RouterDeps{
		Service:     service,
		Hub:         handlers.NewEventHub(nil),
		EventLogger: multiLog,
		LogsDir:     multiLog.GetLogsDir(),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, repo
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestBridge_InfoAndDownload(t *testing.T) {
	server, repo := setupBridge(t)

	resp, err := http.Get(server.URL + "/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, server.URL+"/api/v1/info", `{"url":"https://www.bilibili.com/video/BV1xx"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var info domain.MediaInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, "Clip", info.Title)
	require.Len(t, info.Formats, 1)
	assert.Equal(t, uint64(25392847), info.Formats[0].SizeBytes)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/api/v1/events", nil)
	require.NoError(t, err)
	defer conn.Close()

	// the hub registers the listener after the handshake
	time.Sleep(100 * time.Millisecond)

	resp = postJSON(t, server.URL+"/api/v1/downloads", `{"url":"https://www.bilibili.com/video/BV1xx","format":"dash-flv720"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// only lines carrying the progress marker are pushed
	var messages []string
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for len(messages) < 2 {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg struct {
			Payload domain.ProgressEvent `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(data, &msg))
		messages = append(messages, msg.Payload.Message)
	}
	assert.Equal(t, []string{"Downloading Clip.mp4 ...", "Downloading Clip.mp4 ... 100%"}, messages)

	records, err := repo.FindByStatus(domain.StatusCompleted)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestBridge_InvalidRequest(t *testing.T) {
	server, _ := setupBridge(t)

	resp := postJSON(t, server.URL+"/api/v1/downloads", `{"url":"not a url","format":"mp4"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
