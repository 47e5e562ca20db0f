package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/Huddle/internal/adapters/signal"
	"github.com/dkeye/Huddle/internal/adapters/stt"
	"github.com/dkeye/Huddle/internal/adapters/summary"
	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *orch.Orchestrator) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	fb, err := summary.NewFallback()
	require.NoError(t, err)
	o := orch.New(ctx, app.SimplePolicy{}, stt.Mock{}, fb, orch.Config{})
	t.Cleanup(o.Close)
	cfg := &config.Config{Mode: "test", StaticPath: t.TempDir(), Secret: "test-secret"}
	s := &Server{
		Orch:       o,
		Signal:     signal.NewSignalWSController(o, signal.Options{}),
		Candidates: []stt.Availability{{Name: stt.BackendMock, Available: true}},
	}
	return SetupRouter(ctx, cfg, s), o
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func TestHealth(t *testing.T) {
	req := require.New(t)
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/health", "")

	req.Equal(http.StatusOK, w.Code)
	body := decodeBody(t, w)
	req.Equal("healthy", body["status"])
	req.EqualValues(0, body["active_rooms"])
	req.Equal("mock", body["features"].(map[string]any)["transcription"])
	req.Contains(body, "process")
}

func TestTranscriptionStatus(t *testing.T) {
	req := require.New(t)
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/transcription/status", "")

	req.Equal(http.StatusOK, w.Code)
	body := decodeBody(t, w)
	req.Equal("mock", body["backend"])
	req.Len(body["candidates"], 1)
}

func TestRoomViews_NotFound(t *testing.T) {
	r, _ := newTestRouter(t)
	for _, path := range []string{
		"/api/rooms/nope/transcript",
		"/api/rooms/nope/sentiment",
		"/api/rooms/nope/engagement",
	} {
		t.Run(path, func(t *testing.T) {
			w := do(r, http.MethodGet, path, "")
			require.Equal(t, http.StatusNotFound, w.Code)
		})
	}
	require.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/api/rooms/nope/nudge", "").Code)
	require.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/api/rooms/nope/summary", "").Code)
}

func TestRoomViews(t *testing.T) {
	req := require.New(t)
	// Given
	r, o := newTestRouter(t)
	_, err := o.Join("alice", "r1", "Alice")
	req.NoError(err)
	o.TranscriptText("alice", "r1", "We will ship the release on Friday. This is great.", time.Time{})

	// When
	tr := do(r, http.MethodGet, "/api/rooms/r1/transcript", "")
	se := do(r, http.MethodGet, "/api/rooms/r1/sentiment", "")
	en := do(r, http.MethodGet, "/api/rooms/r1/engagement", "")
	sm := do(r, http.MethodPost, "/api/rooms/r1/summary", `{"include_sentiment":false}`)
	ls := do(r, http.MethodGet, "/api/rooms", "")

	// Then
	req.Equal(http.StatusOK, tr.Code)
	req.EqualValues(1, decodeBody(t, tr)["total_entries"])

	req.Equal(http.StatusOK, se.Code)
	req.Equal("positive", decodeBody(t, se)["overall_trend"])

	req.Equal(http.StatusOK, en.Code)
	board := decodeBody(t, en)["leaderboard"].([]any)
	req.Len(board, 1)

	req.Equal(http.StatusOK, sm.Code)
	body := decodeBody(t, sm)
	req.Equal("fallback", body["backend"])
	req.Contains(body["summary"], "Action 1: We will ship the release on Friday")
	req.EqualValues(10, body["stats"].(map[string]any)["word_count"])

	req.Equal(http.StatusOK, ls.Code)
	req.Len(decodeBody(t, ls)["rooms"], 1)
}

func TestAdapt(t *testing.T) {
	req := require.New(t)
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/adapt", `{"rtt":0,"packetLoss":0.12,"bandwidth":1000}`)
	req.Equal(http.StatusOK, w.Code)
	req.Equal("audio-only", decodeBody(t, w)["mode"])

	w = do(r, http.MethodPost, "/api/adapt", `{}`)
	req.Equal(http.StatusOK, w.Code)
	req.Equal("normal", decodeBody(t, w)["mode"])

	w = do(r, http.MethodPost, "/api/adapt", `{"packetLoss":2}`)
	req.Equal(http.StatusBadRequest, w.Code)
}

func TestProfile(t *testing.T) {
	req := require.New(t)
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/profile", `{"name":"  Ada  "}`)
	req.Equal(http.StatusOK, w.Code)
	req.Equal("Ada", decodeBody(t, w)["name"])
	req.NotEmpty(w.Header().Get("Set-Cookie"))

	w = do(r, http.MethodPost, "/api/profile", `{"name":""}`)
	req.Equal(http.StatusBadRequest, w.Code)
}
