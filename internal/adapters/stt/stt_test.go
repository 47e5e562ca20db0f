package stt

import (
	"bytes"
	"context"
	"encoding/binary"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/require"
)

func wavHeader(payload int) []byte {
	var b bytes.Buffer
	b.WriteString("RIFF")
	_ = binary.Write(&b, binary.LittleEndian, uint32(36+payload))
	b.WriteString("WAVEfmt ")
	_ = binary.Write(&b, binary.LittleEndian, uint32(16))
	_ = binary.Write(&b, binary.LittleEndian, uint16(1))
	_ = binary.Write(&b, binary.LittleEndian, uint16(1))
	_ = binary.Write(&b, binary.LittleEndian, uint32(16000))
	_ = binary.Write(&b, binary.LittleEndian, uint32(32000))
	_ = binary.Write(&b, binary.LittleEndian, uint16(2))
	_ = binary.Write(&b, binary.LittleEndian, uint16(16))
	b.WriteString("data")
	_ = binary.Write(&b, binary.LittleEndian, uint32(payload))
	b.Write(make([]byte, payload))
	return b.Bytes()
}

func TestMock_BySize(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()

	text, err := Mock{}.Transcribe(ctx, make([]byte, 6000))
	req.NoError(err)
	req.Equal("This is a longer speech segment detected by the mock transcription service.", text)

	text, _ = Mock{}.Transcribe(ctx, make([]byte, 2001))
	req.Equal("Speech detected by mock transcription.", text)

	text, _ = Mock{}.Transcribe(ctx, make([]byte, 2000))
	req.Equal("Brief audio detected.", text)
}

func fakeSpeechServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"whisper-1","object":"model","created":0,"owned_by":"local"}]}`))
	})
	mux.HandleFunc("/v1/audio/transcriptions", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_, hdr, err := r.FormFile("file")
		if err != nil || r.FormValue("model") != "whisper-1" {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"uploaded ` + hdr.Filename + `"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLocal_TranscribeSniffsContainer(t *testing.T) {
	req := require.New(t)
	srv := fakeSpeechServer(t)
	local := NewLocal(srv.URL+"/v1/", "", "", option.WithMaxRetries(0))

	req.NoError(local.Ping(context.Background()))

	text, err := local.Transcribe(context.Background(), wavHeader(4096))
	req.NoError(err)
	req.Equal("uploaded audio.wav", text)
	req.Equal("local", local.Name())
}

func TestOpenAI_RejectsUnknownContainer(t *testing.T) {
	req := require.New(t)
	hosted := NewHosted("sk-test", "", option.WithMaxRetries(0))

	_, err := hosted.Transcribe(context.Background(), []byte{0x00, 0x01, 0x02, 0x03})

	req.ErrorIs(err, ErrUnrecognizedAudio)
}

func TestSelect_Priority(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	srv := fakeSpeechServer(t)

	// No key, no local server: mock
	sel := Select(ctx, Config{})
	req.Equal(BackendMock, sel.Backend.Name())
	req.Len(sel.Candidates, 3)
	req.False(sel.Candidates[0].Available)

	// Hosted key wins over a reachable local server
	sel = Select(ctx, Config{OpenAIAPIKey: "sk-test", LocalURL: srv.URL + "/v1/"})
	req.Equal(BackendOpenAI, sel.Backend.Name())
	req.True(sel.Candidates[1].Available)

	// Local when reachable and no key
	sel = Select(ctx, Config{LocalURL: srv.URL + "/v1/"})
	req.Equal(BackendLocal, sel.Backend.Name())

	// Unreachable local falls through
	sel = Select(ctx, Config{Backends: []string{BackendLocal}, LocalURL: "http://127.0.0.1:1/v1/"})
	req.Equal(BackendMock, sel.Backend.Name())
	req.False(sel.Candidates[0].Available)
}
