package llm

import (
	"fmt"
	"net/http"

	"pixelforge/internal/config"
)

// NewGenerator builds the generator for cfg.InferenceProvider.
func NewGenerator(cfg *config.Config, httpClient *http.Client) (Generator, error) {
	switch cfg.InferenceProvider {
	case config.ProviderHuggingFace, "":
		return NewHuggingFace(cfg.InferenceURL, httpClient), nil
	case config.ProviderOpenAI:
		return NewOpenAI(cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.OpenRouterReferrer, cfg.OpenRouterTitle), nil
	case config.ProviderYandex:
		return NewYandex(cfg.YandexFolderID)
	default:
		return nil, fmt.Errorf("unknown inference provider: %s", cfg.InferenceProvider)
	}
}
