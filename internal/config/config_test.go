package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	req := require.New(t)

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))

	req.NoError(err)
	req.Equal(8080, cfg.Port)
	req.Equal(54*time.Second, cfg.PingPeriod)
	req.Equal([]string{"openai", "local", "mock"}, cfg.Transcription.Backends)
	req.Equal(3*time.Second, cfg.Transcription.FlushInterval)
	req.Equal(1024, cfg.Transcription.MinBytes)
	req.Equal(-0.5, cfg.Sentiment.AlertThreshold)
	req.Equal(5*time.Minute, cfg.Engagement.NudgeAfter)
}

func TestLoadFile_FileAndEnv(t *testing.T) {
	req := require.New(t)
	// Given
	path := writeConfig(t, `
mode: debug
port: 9000
ice_servers:
  - urls: ["stun:stun.example.org:3478"]
transcription:
  backends: [local, mock]
  local_url: http://localhost:8000/v1
`)
	t.Setenv("HUDDLE_PORT", "9100")
	t.Setenv("OPENAI_API_KEY", "sk-env")

	// When
	cfg, err := LoadFile(path)

	// Then
	req.NoError(err)
	req.Equal("debug", cfg.Mode)
	req.Equal(9100, cfg.Port)
	req.Equal([]string{"local", "mock"}, cfg.Transcription.Backends)
	req.Equal("http://localhost:8000/v1", cfg.Transcription.LocalURL)
	req.Equal("sk-env", cfg.Transcription.OpenAIAPIKey)
	req.Equal("sk-env", cfg.Summary.OpenAIAPIKey)
	req.Len(cfg.ICEServers, 1)
}

func TestLoadFile_RejectsBadICEURI(t *testing.T) {
	req := require.New(t)
	path := writeConfig(t, `
ice_servers:
  - urls: ["http://not-a-stun-server"]
`)

	_, err := LoadFile(path)

	req.Error(err)
	req.Contains(err.Error(), "ice server")
}
