package stt

import (
	"context"
	"time"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/rs/zerolog/log"
)

const (
	BackendOpenAI = "openai"
	BackendLocal  = "local"
	BackendMock   = "mock"

	probeTimeout = 3 * time.Second
)

type Config struct {
	Backends     []string `mapstructure:"backends"`
	OpenAIAPIKey string   `mapstructure:"openai_api_key"`
	OpenAIModel  string   `mapstructure:"openai_model"`
	LocalURL     string   `mapstructure:"local_url"`
	LocalAPIKey  string   `mapstructure:"local_api_key"`
	LocalModel   string   `mapstructure:"local_model"`
}

func DefaultBackends() []string {
	return []string{BackendOpenAI, BackendLocal, BackendMock}
}

// Availability is what the status endpoint reports per candidate.
type Availability struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type Selection struct {
	Backend    core.Transcriber
	Candidates []Availability
}

// Select walks the priority list once and keeps the first usable backend.
// The mock is always usable and is appended when the list lacks it.
func Select(ctx context.Context, cfg Config) Selection {
	order := cfg.Backends
	if len(order) == 0 {
		order = DefaultBackends()
	}
	var sel Selection
	for _, name := range order {
		b, reason := candidate(ctx, name, cfg)
		sel.Candidates = append(sel.Candidates, Availability{Name: name, Available: b != nil, Reason: reason})
		if b != nil && sel.Backend == nil {
			sel.Backend = b
		}
	}
	if sel.Backend == nil {
		sel.Backend = Mock{}
	}
	log.Info().Str("module", "adapters.stt").Str("backend", sel.Backend.Name()).Msg("transcription backend selected")
	return sel
}

func candidate(ctx context.Context, name string, cfg Config) (core.Transcriber, string) {
	switch name {
	case BackendOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, "no api key"
		}
		return NewHosted(cfg.OpenAIAPIKey, cfg.OpenAIModel), ""
	case BackendLocal:
		if cfg.LocalURL == "" {
			return nil, "no local_url"
		}
		local := NewLocal(cfg.LocalURL, cfg.LocalAPIKey, cfg.LocalModel)
		pctx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()
		if err := local.Ping(pctx); err != nil {
			log.Warn().Err(err).Str("module", "adapters.stt").Str("url", cfg.LocalURL).Msg("local speech server unavailable")
			return nil, err.Error()
		}
		return local, ""
	case BackendMock:
		return Mock{}, ""
	default:
		return nil, "unknown backend"
	}
}
