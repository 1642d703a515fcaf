package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/yourusername/you-get-desk/api/handlers"
	"github.com/yourusername/you-get-desk/internal/domain"
)

// apiClient talks to the bridge server
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		// downloads answer only when finished
		http: &http.Client{Timeout: 0},
	}
}

// apiError is a failed call decoded from the server's error body
type apiError struct {
	Status  int
	Message string
	Kind    domain.ErrorKind
}

func (e *apiError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Kind)
	}
	return e.Message
}

func (c *apiClient) get(path string, out any) error {
	return c.do(http.MethodGet, path, nil, out)
}

func (c *apiClient) post(path string, body, out any) error {
	return c.do(http.MethodPost, path, body, out)
}

func (c *apiClient) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var body handlers.ErrorResponse
		if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
			body = handlers.ErrorResponse{Error: strings.TrimSpace(string(data))}
		}
		return &apiError{Status: resp.StatusCode, Message: body.Error, Kind: body.Kind}
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// dialWebSocket opens a WebSocket on the server at path
func (c *apiClient) dialWebSocket(path string) (*websocket.Conn, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	return conn, err
}
