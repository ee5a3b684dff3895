package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/mygomeme/internal/domain"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
)

// TextGenerator produces a single completion for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// LLMConfig holds the per-process model settings. The API key is not part of it.
type LLMConfig struct {
	Provider        string
	Model           string
	BaseURL         string
	Temperature     float32
	MaxOutputTokens int
	Timeout         time.Duration
}

// LLMFactory builds a fresh TextGenerator for each request's credential.
type LLMFactory struct {
	cfg LLMConfig
}

// NewLLMFactory creates a factory with defaults filled in.
// Parameters:
//   - cfg: model configuration; nil uses gemini-2.0-flash at temperature 0.5 with 20 output tokens.
// Returns:
//   - *LLMFactory: initialized factory.
func NewLLMFactory(cfg *LLMConfig) *LLMFactory {
	c := LLMConfig{Temperature: 0.5}
	if cfg != nil {
		c = *cfg
	}
	if c.Provider == "" {
		c.Provider = ProviderGemini
	}
	if c.Model == "" {
		c.Model = "gemini-2.0-flash"
	}
	if c.MaxOutputTokens <= 0 {
		c.MaxOutputTokens = 20
	}
	if c.BaseURL == "" {
		if c.Provider == ProviderOpenAI {
			c.BaseURL = defaultOpenAIBaseURL
		} else {
			c.BaseURL = defaultGeminiBaseURL
		}
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	return &LLMFactory{cfg: c}
}

// Provider returns the configured provider name.
func (f *LLMFactory) Provider() string {
	return f.cfg.Provider
}

// Model returns the configured model identifier.
func (f *LLMFactory) Model() string {
	return f.cfg.Model
}

// NewClient builds a generator bound to apiKey.
// Parameters:
//   - apiKey: caller-supplied credential.
// Returns:
//   - TextGenerator: client scoped to this credential.
//   - error: domain.ErrMissingCredential for an empty key.
func (f *LLMFactory) NewClient(apiKey string) (TextGenerator, error) {
	if apiKey == "" {
		return nil, domain.ErrMissingCredential
	}

	client := resty.New()
	client.SetHeader("Content-Type", "application/json")
	if f.cfg.Timeout > 0 {
		client.SetTimeout(f.cfg.Timeout)
	}

	switch f.cfg.Provider {
	case ProviderOpenAI:
		client.SetHeader("Authorization", "Bearer "+apiKey)
		return &openAIClient{client: client, cfg: f.cfg}, nil
	default:
		client.SetHeader("x-goog-api-key", apiKey)
		return &geminiClient{client: client, cfg: f.cfg}, nil
	}
}

// Gemini generateContent request/response structures
type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type geminiClient struct {
	client *resty.Client
	cfg    LLMConfig
}

func (c *geminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	req := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     c.cfg.Temperature,
			MaxOutputTokens: c.cfg.MaxOutputTokens,
		},
	}

	var resp geminiResponse
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.cfg.BaseURL, c.cfg.Model)
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamLLM, err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		if resp.Error != nil && resp.Error.Message != "" {
			return "", fmt.Errorf("%w: HTTP %d: %s", domain.ErrUpstreamLLM, httpResp.StatusCode(), resp.Error.Message)
		}
		return "", fmt.Errorf("%w: HTTP %d: %s", domain.ErrUpstreamLLM, httpResp.StatusCode(), string(httpResp.Body()))
	}

	if resp.Error != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrUpstreamLLM, resp.Error.Message)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates in response", domain.ErrUpstreamLLM)
	}

	candidate := resp.Candidates[0]
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		sb.WriteString(part.Text)
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("%w: empty response (finish reason %s)", domain.ErrUpstreamLLM, candidate.FinishReason)
	}
	return sb.String(), nil
}

// OpenAI-compatible Chat Completion API request/response structures
type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float32         `json:"temperature"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

type openAIClient struct {
	client *resty.Client
	cfg    LLMConfig
}

func (c *openAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	req := openAIRequest{
		Model: c.cfg.Model,
		Messages: []openAIMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.cfg.MaxOutputTokens,
		Temperature: c.cfg.Temperature,
	}

	var resp openAIResponse
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(c.cfg.BaseURL + "/chat/completions")
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamLLM, err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		if resp.Error != nil && resp.Error.Message != "" {
			return "", fmt.Errorf("%w: HTTP %d: %s", domain.ErrUpstreamLLM, httpResp.StatusCode(), resp.Error.Message)
		}
		return "", fmt.Errorf("%w: HTTP %d: %s", domain.ErrUpstreamLLM, httpResp.StatusCode(), string(httpResp.Body()))
	}

	if resp.Error != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrUpstreamLLM, resp.Error.Message)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", domain.ErrUpstreamLLM)
	}

	choice := resp.Choices[0]
	if strings.TrimSpace(choice.Message.Content) == "" {
		return "", fmt.Errorf("%w: empty response (finish reason %s)", domain.ErrUpstreamLLM, choice.FinishReason)
	}
	return choice.Message.Content, nil
}
