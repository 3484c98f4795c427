package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient talks to any OpenAI-compatible chat completion API, using the
// stored credential as the API key.
type OpenAIClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

type headerTransport struct {
	rt      http.RoundTripper
	headers http.Header
}

func (t headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone request to avoid mutating the original
	cl := req.Clone(req.Context())
	for k, vs := range t.headers {
		for _, v := range vs {
			cl.Header.Add(k, v)
		}
	}
	return t.rt.RoundTrip(cl)
}

func NewOpenAI(baseURL, model, referrer, title string) *OpenAIClient {
	c := &OpenAIClient{baseURL: baseURL, model: model}
	// Inject optional headers (useful for OpenRouter)
	if referrer != "" || title != "" {
		h := http.Header{}
		if referrer != "" {
			h.Set("HTTP-Referer", referrer)
		}
		if title != "" {
			h.Set("X-Title", title)
		}
		c.httpClient = &http.Client{Transport: headerTransport{rt: http.DefaultTransport, headers: h}}
	}
	return c
}

func (c *OpenAIClient) Generate(ctx context.Context, credential, prompt string) Outcome {
	config := openai.DefaultConfig(credential)
	if c.baseURL != "" {
		config.BaseURL = c.baseURL
	}
	if c.httpClient != nil {
		config.HTTPClient = c.httpClient
	}
	client := openai.NewClientWithConfig(config)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: prompt}},
		MaxTokens:   DefaultParameters.MaxNewTokens,
		Temperature: float32(DefaultParameters.Temperature),
	})
	if err != nil {
		status := statusOf(err)
		if status == http.StatusUnauthorized {
			return AuthError(status, fmt.Errorf("failed to create chat completion: %w", err))
		}
		return TransportError(status, fmt.Errorf("failed to create chat completion: %w", err))
	}
	if len(resp.Choices) == 0 {
		return OK("")
	}
	return OK(resp.Choices[0].Message.Content)
}

func statusOf(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
