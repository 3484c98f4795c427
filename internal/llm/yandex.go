package llm

import (
	"context"
	"fmt"

	"github.com/Morwran/yagpt"
)

// YandexClient calls YandexGPT; the stored credential is the OAuth token that is
// exchanged for an IAM token on each call.
type YandexClient struct {
	ya yagpt.YaGPTFace
}

func NewYandex(folderID string) (*YandexClient, error) {
	// Create YaGPT client for a folder
	ya, err := yagpt.NewYagpt(folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to init yagpt: %w", err)
	}
	return &YandexClient{ya: ya}, nil
}

func (c *YandexClient) Generate(ctx context.Context, credential, prompt string) Outcome {
	iam, err := yagpt.NewYaIam(credential)
	if err != nil {
		return TransportError(0, fmt.Errorf("failed to init yandex iam: %w", err))
	}
	token, err := iam.Create()
	if err != nil {
		return TransportError(0, fmt.Errorf("failed to create iam token: %w", err))
	}

	messages := []yagpt.Message{{Role: "user", Content: prompt}}
	resp, err := c.ya.CompletionWithCtx(ctx, token.IamToken, messages)
	if err != nil {
		return TransportError(0, fmt.Errorf("yagpt completion failed: %w", err))
	}
	if resp == nil || len(resp.Alternatives) == 0 {
		return OK("")
	}
	return OK(resp.Alternatives[0].Message.Content)
}
