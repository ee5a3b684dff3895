package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/timmy/mygomeme/internal/catalog"
	"github.com/timmy/mygomeme/internal/domain"
	"github.com/timmy/mygomeme/internal/metrics"
)

func testCatalog() *catalog.Catalog {
	return catalog.FromEntries([]domain.MemeEntry{
		{Caption: "肚子餓了", ImageURL: "u1"},
		{Caption: "為什麼要演奏春日影", ImageURL: "u2"},
	})
}

func makeHistory(n int) []domain.ConversationTurn {
	history := make([]domain.ConversationTurn, n)
	for i := range history {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAI
		}
		history[i] = domain.ConversationTurn{Role: role, Content: fmt.Sprintf("turn-%d", i)}
	}
	return history
}

func TestBuildPrompt_TruncatesHistory(t *testing.T) {
	prompt := BuildPrompt([]string{"a"}, "hi", makeHistory(8), DefaultHistoryTurns)

	for i := 0; i < 3; i++ {
		if strings.Contains(prompt, fmt.Sprintf("turn-%d", i)) {
			t.Errorf("prompt should not contain turn-%d", i)
		}
	}
	for i := 3; i < 8; i++ {
		if !strings.Contains(prompt, fmt.Sprintf("turn-%d", i)) {
			t.Errorf("prompt should contain turn-%d", i)
		}
	}
}

func TestBuildPrompt_Contents(t *testing.T) {
	history := []domain.ConversationTurn{
		{Role: domain.RoleUser, Content: "早安"},
		{Role: domain.RoleAssistant, Content: "午安"},
		{Role: "system", Content: "晚安"},
	}

	prompt := BuildPrompt(testCatalog().Captions(), "I am hungry", history, DefaultHistoryTurns)

	for _, want := range []string{
		"User: 早安\nBot: 午安\nUnknown: 晚安",
		`"I am hungry"`,
		"肚子餓了\n為什麼要演奏春日影",
		"Do not translate",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("expected prompt to contain %q\n%s", want, prompt)
		}
	}
}

func TestRecentTurns(t *testing.T) {
	tests := []struct {
		name string
		in   int
		n    int
		want int
	}{
		{"more than limit", 8, 5, 5},
		{"exactly limit", 5, 5, 5},
		{"less than limit", 2, 5, 2},
		{"empty", 0, 5, 0},
		{"zero limit", 3, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecentTurns(makeHistory(tt.in), tt.n)
			if len(got) != tt.want {
				t.Fatalf("expected %d turns, got %d", tt.want, len(got))
			}
			if tt.want > 0 && got[len(got)-1].Content != fmt.Sprintf("turn-%d", tt.in-1) {
				t.Errorf("expected last turn to be kept, got %q", got[len(got)-1].Content)
			}
		})
	}
}

func TestSelectMeme_MissingCredentialMakesNoCall(t *testing.T) {
	var calls int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer upstream.Close()

	m := NewChatMatcher(NewLLMFactory(&LLMConfig{BaseURL: upstream.URL}), nil, nil)
	_, err := m.SelectMeme(context.Background(), testCatalog(), "hi", nil, "")
	if !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("expected no upstream call")
	}
}

func TestSelectMeme_Gemini(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-2.0-flash:generateContent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "key-123" {
			t.Error("expected caller credential in x-goog-api-key")
		}

		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
			return
		}
		if req.GenerationConfig.Temperature != 0.5 || req.GenerationConfig.MaxOutputTokens != 20 {
			t.Errorf("unexpected generation config: %+v", req.GenerationConfig)
		}
		if len(req.Contents) != 1 || !strings.Contains(req.Contents[0].Parts[0].Text, "肚子餓了") {
			t.Error("expected prompt with captions")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  肚子餓了\n"}]}}]}`))
	}))
	defer upstream.Close()

	factory := NewLLMFactory(&LLMConfig{
		Provider:        ProviderGemini,
		Model:           "gemini-2.0-flash",
		BaseURL:         upstream.URL,
		Temperature:     0.5,
		MaxOutputTokens: 20,
	})
	m := NewChatMatcher(factory, metrics.New(), nil)

	text, err := m.SelectMeme(context.Background(), testCatalog(), "I am hungry", makeHistory(2), "key-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "肚子餓了" {
		t.Errorf("expected trimmed caption, got %q", text)
	}
}

func TestSelectMeme_OpenAI(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Error("expected bearer credential")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"為什麼要演奏春日影"}}]}`))
	}))
	defer upstream.Close()

	factory := NewLLMFactory(&LLMConfig{Provider: ProviderOpenAI, Model: "gpt-4o-mini", BaseURL: upstream.URL + "/"})
	m := NewChatMatcher(factory, nil, nil)

	text, err := m.SelectMeme(context.Background(), testCatalog(), "why", nil, "sk-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "為什麼要演奏春日影" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestSelectMeme_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantMsg     string
	}{
		{
			name:        "api error body",
			status:      http.StatusBadRequest,
			contentType: "application/json",
			body:        `{"error":{"code":400,"message":"API key not valid"}}`,
			wantMsg:     "API key not valid",
		},
		{
			name:        "server error",
			status:      http.StatusInternalServerError,
			contentType: "text/plain",
			body:        `oops`,
			wantMsg:     "HTTP 500: oops",
		},
		{
			name:        "no candidates",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `{"candidates":[]}`,
			wantMsg:     "no candidates",
		},
		{
			name:        "no text",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `{"candidates":[{"content":{"role":"model"},"finishReason":"SAFETY"}]}`,
			wantMsg:     "finish reason SAFETY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer upstream.Close()

			m := NewChatMatcher(NewLLMFactory(&LLMConfig{BaseURL: upstream.URL}), nil, nil)
			_, err := m.SelectMeme(context.Background(), testCatalog(), "hi", nil, "key")
			if !errors.Is(err, domain.ErrUpstreamLLM) {
				t.Fatalf("expected ErrUpstreamLLM, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected error to mention %q, got %v", tt.wantMsg, err)
			}
		})
	}
}

func TestSelectMeme_OpenAIEmptyContent(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":""},"finish_reason":"content_filter"}]}`))
	}))
	defer upstream.Close()

	factory := NewLLMFactory(&LLMConfig{Provider: ProviderOpenAI, Model: "gpt-4o-mini", BaseURL: upstream.URL})
	m := NewChatMatcher(factory, nil, nil)
	text, err := m.SelectMeme(context.Background(), testCatalog(), "hi", nil, "key")
	if !errors.Is(err, domain.ErrUpstreamLLM) {
		t.Fatalf("expected ErrUpstreamLLM, got text=%q err=%v", text, err)
	}
	if !strings.Contains(err.Error(), "content_filter") {
		t.Errorf("expected finish reason in error, got %v", err)
	}
}

func TestSelectMeme_TransportFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := upstream.URL
	upstream.Close()

	m := NewChatMatcher(NewLLMFactory(&LLMConfig{BaseURL: url}), nil, nil)
	if _, err := m.SelectMeme(context.Background(), testCatalog(), "hi", nil, "key"); !errors.Is(err, domain.ErrUpstreamLLM) {
		t.Errorf("expected ErrUpstreamLLM, got %v", err)
	}
}

func TestNewLLMFactory_Defaults(t *testing.T) {
	f := NewLLMFactory(nil)
	if f.Provider() != ProviderGemini || f.Model() != "gemini-2.0-flash" {
		t.Errorf("unexpected defaults: %s %s", f.Provider(), f.Model())
	}
	if f.cfg.BaseURL != defaultGeminiBaseURL || f.cfg.MaxOutputTokens != 20 || f.cfg.Temperature != 0.5 {
		t.Errorf("unexpected defaults: %+v", f.cfg)
	}

	f = NewLLMFactory(&LLMConfig{Provider: ProviderOpenAI})
	if f.cfg.BaseURL != defaultOpenAIBaseURL {
		t.Errorf("expected openai base url, got %s", f.cfg.BaseURL)
	}
}
