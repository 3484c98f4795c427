package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
)

const maxResponseBytes = 1 << 20

// Parameters are the generation knobs sent with every request.
type Parameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

var DefaultParameters = Parameters{MaxNewTokens: 500, Temperature: 0.7, ReturnFullText: false}

type generationRequest struct {
	Inputs     string     `json:"inputs"`
	Parameters Parameters `json:"parameters"`
}

type generation struct {
	GeneratedText *string `json:"generated_text"`
}

// HuggingFace calls a text-generation inference endpoint.
type HuggingFace struct {
	endpoint   string
	httpClient *http.Client
	params     Parameters
}

// NewHuggingFace uses http.DefaultClient when httpClient is nil. No timeout is added.
func NewHuggingFace(endpoint string, httpClient *http.Client) *HuggingFace {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HuggingFace{endpoint: endpoint, httpClient: httpClient, params: DefaultParameters}
}

func (c *HuggingFace) Generate(ctx context.Context, credential, prompt string) Outcome {
	body, err := sonic.Marshal(generationRequest{Inputs: prompt, Parameters: c.params})
	if err != nil {
		return TransportError(0, fmt.Errorf("encode request: %w", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return TransportError(0, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return TransportError(0, fmt.Errorf("post %s: %w", c.endpoint, err))
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return TransportError(resp.StatusCode, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return AuthError(resp.StatusCode, fmt.Errorf("inference endpoint rejected credential: %s", resp.Status))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return TransportError(resp.StatusCode, fmt.Errorf("inference endpoint returned %s", resp.Status))
	}
	return parseGeneration(data)
}

// parseGeneration accepts `[{"generated_text": "..."}]`. Any other valid JSON is an
// OK outcome with empty text; an undecodable body is Malformed.
func parseGeneration(data []byte) Outcome {
	if !sonic.ConfigStd.Valid(data) {
		return Malformed(fmt.Errorf("response is not valid JSON"))
	}
	var gens []generation
	if err := sonic.Unmarshal(data, &gens); err != nil {
		return OK("")
	}
	if len(gens) == 0 || gens[0].GeneratedText == nil {
		return OK("")
	}
	return OK(*gens[0].GeneratedText)
}
