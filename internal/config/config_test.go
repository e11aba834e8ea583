package config

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/botforge/forward-driver/internal/request"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "forwardd.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	yaml := `
driver:
  request_timeout: 10s
connections:
  - adapter: cq
    kind: http
    url: http://localhost:5700/poll?access_token=abc
    method: POST
    headers:
      X-Self-ID: "123456"
    poll_interval: 1s
  - adapter: cq
    kind: websocket
    url: ws://localhost:6700/ws
log:
  level: debug
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Driver.RequestTimeout != 10*time.Second {
		t.Errorf("Driver.RequestTimeout = %v, want 10s", cfg.Driver.RequestTimeout)
	}
	if len(cfg.Connections) != 2 {
		t.Fatalf("len(Connections) = %d, want 2", len(cfg.Connections))
	}
	if cfg.Connections[0].Adapter != "cq" {
		t.Errorf("Connections[0].Adapter = %q, want cq", cfg.Connections[0].Adapter)
	}
	if cfg.Connections[0].PollInterval != time.Second {
		t.Errorf("Connections[0].PollInterval = %v, want 1s", cfg.Connections[0].PollInterval)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_ACCESS_TOKEN", "secret123")

	yaml := `
connections:
  - adapter: cq
    kind: http
    url: http://localhost:5700/poll
    headers:
      Authorization: "Bearer ${TEST_ACCESS_TOKEN}"
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	got := cfg.Connections[0].Headers["Authorization"]
	if got != "Bearer secret123" {
		t.Errorf("Authorization header = %q, want Bearer secret123", got)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
connections:
  - adapter: cq
    kind: http
    url: http://localhost:5700/poll
journal:
  enabled: true
  database:
    host: localhost
    name: forwardd
    user: forwardd
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Driver.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("RequestTimeout = %v, want %v", cfg.Driver.RequestTimeout, DefaultRequestTimeout)
	}
	if cfg.Connections[0].Method != http.MethodGet {
		t.Errorf("Method = %q, want GET", cfg.Connections[0].Method)
	}
	if cfg.Connections[0].PollInterval != DefaultPollInterval {
		t.Errorf("PollInterval = %v, want %v", cfg.Connections[0].PollInterval, DefaultPollInterval)
	}
	if cfg.Journal.Database.Port != DefaultDBPort {
		t.Errorf("Journal.Database.Port = %d, want %d", cfg.Journal.Database.Port, DefaultDBPort)
	}
	if cfg.Journal.BatchSize != DefaultBatchSize {
		t.Errorf("Journal.BatchSize = %d, want %d", cfg.Journal.BatchSize, DefaultBatchSize)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{
			name: "valid",
			yaml: `
connections:
  - adapter: cq
    kind: http
    url: http://localhost:5700/poll
`,
			wantErr: false,
		},
		{
			name:    "no connections",
			yaml:    `log: {level: info}`,
			wantErr: true,
		},
		{
			name: "missing adapter",
			yaml: `
connections:
  - kind: http
    url: http://localhost:5700/poll
`,
			wantErr: true,
		},
		{
			name: "bad kind",
			yaml: `
connections:
  - adapter: cq
    kind: tcp
    url: http://localhost:5700/poll
`,
			wantErr: true,
		},
		{
			name: "websocket with http url",
			yaml: `
connections:
  - adapter: cq
    kind: websocket
    url: http://localhost:6700/ws
`,
			wantErr: true,
		},
		{
			name: "journal without database host",
			yaml: `
connections:
  - adapter: cq
    kind: http
    url: http://localhost:5700/poll
journal:
  enabled: true
  database:
    name: forwardd
    user: forwardd
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, tt.yaml)
			_, err := LoadAndValidate(path)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadAndValidate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestConnectionConfig_Request(t *testing.T) {
	httpConn := ConnectionConfig{
		Adapter: "cq",
		Kind:    "http",
		URL:     "http://localhost:5700/poll?access_token=abc",
		Method:  http.MethodPost,
		Body:    `{"cursor":0}`,
		Headers: map[string]string{"X-Self-ID": "123456"},
	}

	req, err := httpConn.Request()
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	hr, ok := req.(*request.HTTPRequest)
	if !ok {
		t.Fatalf("Request() = %T, want *request.HTTPRequest", req)
	}
	if hr.Host != "localhost:5700" || hr.Path != "/poll" || hr.RawQuery != "access_token=abc" {
		t.Errorf("descriptor = %+v", hr)
	}
	if hr.Header.Get("X-Self-ID") != "123456" {
		t.Errorf("X-Self-ID header = %q", hr.Header.Get("X-Self-ID"))
	}

	wsConn := ConnectionConfig{
		Adapter: "cq",
		Kind:    "websocket",
		URL:     "wss://gateway.example.com/ws?v=11",
	}
	req, err = wsConn.Request()
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	wr, ok := req.(*request.WebSocketRequest)
	if !ok {
		t.Fatalf("Request() = %T, want *request.WebSocketRequest", req)
	}
	if wr.Scheme != "wss" || wr.Host != "gateway.example.com" {
		t.Errorf("descriptor = %+v", wr)
	}

	bad := ConnectionConfig{Adapter: "cq", Kind: "tcp", URL: "tcp://x"}
	if _, err := bad.Request(); err == nil {
		t.Error("Request() with bad kind succeeded, want error")
	}
}
