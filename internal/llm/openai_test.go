package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixelforge/internal/config"
)

func TestOpenAI_Success(t *testing.T) {
	var gotAuth, gotReferrer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReferrer = r.Header.Get("HTTP-Referer")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","model":"m","choices":[{"index":0,"message":{"role":"assistant","content":"We build e-commerce site projects."},"finish_reason":"stop"}],"usage":{"prompt_tokens":1,"completion_tokens":2,"total_tokens":3}}`))
	}))
	defer srv.Close()

	c := NewOpenAI(srv.URL+"/v1", "m", "https://pixelforge.dev", "PixelForge")
	out := c.Generate(context.Background(), "sk-test", "hi")
	require.True(t, out.OK(), "outcome: %v %v", out.Kind, out.Err)
	assert.Equal(t, "We build e-commerce site projects.", out.Text)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "https://pixelforge.dev", gotReferrer)
}

func TestOpenAI_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key","type":"invalid_request_error","code":"invalid_api_key"}}`))
	}))
	defer srv.Close()

	out := NewOpenAI(srv.URL+"/v1", "m", "", "").Generate(context.Background(), "bad", "hi")
	assert.Equal(t, OutcomeAuthError, out.Kind)
	assert.Equal(t, http.StatusUnauthorized, out.Status)
}

func TestOpenAI_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer srv.Close()

	out := NewOpenAI(srv.URL+"/v1", "m", "", "").Generate(context.Background(), "k", "hi")
	assert.Equal(t, OutcomeTransportError, out.Kind)
	assert.Equal(t, http.StatusInternalServerError, out.Status)
}

func TestNewGenerator(t *testing.T) {
	g, err := NewGenerator(&config.Config{InferenceProvider: config.ProviderHuggingFace, InferenceURL: "http://x"}, nil)
	require.NoError(t, err)
	require.IsType(t, &HuggingFace{}, g)
	hf := g.(*HuggingFace)
	assert.Same(t, http.DefaultClient, hf.httpClient)
	assert.Zero(t, hf.httpClient.Timeout, "requests are bounded by the transport defaults only")

	g, err = NewGenerator(&config.Config{InferenceProvider: config.ProviderOpenAI, OpenAIModel: "m"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, g)

	_, err = NewGenerator(&config.Config{InferenceProvider: "bard"}, nil)
	assert.Error(t, err)
}
