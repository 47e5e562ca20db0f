// Package stt holds the speech-to-text backends and picks one at startup.
package stt

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const DefaultModel = "whisper-1"

// ErrUnrecognizedAudio means the window does not start with a known container.
var ErrUnrecognizedAudio = errors.New("unrecognized audio container")

// OpenAI talks to the hosted API or to any server speaking its audio API.
type OpenAI struct {
	client *openai.Client
	model  string
	name   string
}

func NewHosted(apiKey, model string, opts ...option.RequestOption) *OpenAI {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return newOpenAI("openai", model, opts)
}

// NewLocal points the client at a self-hosted OpenAI-compatible speech server.
func NewLocal(baseURL, apiKey, model string, opts ...option.RequestOption) *OpenAI {
	if apiKey == "" {
		apiKey = "local"
	}
	opts = append([]option.RequestOption{option.WithBaseURL(baseURL), option.WithAPIKey(apiKey)}, opts...)
	return newOpenAI("local", model, opts)
}

func newOpenAI(name, model string, opts []option.RequestOption) *OpenAI {
	if model == "" {
		model = DefaultModel
	}
	client := openai.NewClient(opts...)
	return &OpenAI{client: &client, model: model, name: name}
}

func (o *OpenAI) Name() string { return o.name }

func (o *OpenAI) Transcribe(ctx context.Context, audio []byte) (string, error) {
	mt := mimetype.Detect(audio)
	if mt.Is("application/octet-stream") {
		return "", ErrUnrecognizedAudio
	}
	res, err := o.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(audio), "audio"+mt.Extension(), mt.String()),
		Model: openai.AudioModel(o.model),
	})
	if err != nil {
		return "", fmt.Errorf("%s transcription: %w", o.name, err)
	}
	return res.Text, nil
}

// Ping checks that the server answers before it is picked.
func (o *OpenAI) Ping(ctx context.Context) error {
	if _, err := o.client.Models.List(ctx, option.WithMaxRetries(0)); err != nil {
		return fmt.Errorf("%s unreachable: %w", o.name, err)
	}
	return nil
}
