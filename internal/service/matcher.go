package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/timmy/mygomeme/internal/catalog"
	"github.com/timmy/mygomeme/internal/domain"
	"github.com/timmy/mygomeme/internal/logger"
	"github.com/timmy/mygomeme/internal/metrics"
	"github.com/timmy/mygomeme/internal/prompts"
)

// DefaultHistoryTurns is how many trailing history turns reach the prompt.
const DefaultHistoryTurns = 5

// ChatMatcher selects a meme caption for a chat message using a language model.
type ChatMatcher struct {
	factory      *LLMFactory
	historyTurns int
	metrics      *metrics.Metrics
}

// ChatMatcherConfig holds configuration for the matcher.
type ChatMatcherConfig struct {
	HistoryTurns int
}

// NewChatMatcher creates a new matcher.
// Parameters:
//   - factory: builds a per-request model client from the caller's credential.
//   - m: metrics sink; may be nil.
//   - cfg: matcher configuration; nil or zero HistoryTurns uses DefaultHistoryTurns.
// Returns:
//   - *ChatMatcher: initialized matcher.
func NewChatMatcher(factory *LLMFactory, m *metrics.Metrics, cfg *ChatMatcherConfig) *ChatMatcher {
	turns := DefaultHistoryTurns
	if cfg != nil && cfg.HistoryTurns > 0 {
		turns = cfg.HistoryTurns
	}
	return &ChatMatcher{
		factory:      factory,
		historyTurns: turns,
		metrics:      m,
	}
}

// SelectMeme asks the model to pick one caption of cat for message.
// Parameters:
//   - ctx: request context; cancels the model call.
//   - cat: catalog snapshot providing the candidate captions.
//   - message: the user's message.
//   - history: prior turns; only the most recent ones are used.
//   - credential: caller's API key.
// Returns:
//   - string: trimmed model answer, not guaranteed to be a caption.
//   - error: domain.ErrMissingCredential before any call, or wrapped domain.ErrUpstreamLLM.
func (m *ChatMatcher) SelectMeme(ctx context.Context, cat *catalog.Catalog, message string, history []domain.ConversationTurn, credential string) (string, error) {
	client, err := m.factory.NewClient(credential)
	if err != nil {
		return "", err
	}

	prompt := BuildPrompt(cat.Captions(), message, history, m.historyTurns)

	log := logger.FromContext(ctx).WithFields(logger.Fields{
		logger.FieldProvider: m.factory.Provider(),
		"model":              m.factory.Model(),
		"candidates":         cat.Len(),
	})
	log.Debugf("Formatted history context:\n%s", FormatHistory(history, m.historyTurns))

	start := time.Now()
	text, err := client.Generate(ctx, prompt)
	m.metrics.RecordLLMRequest(m.factory.Provider(), time.Since(start), err)
	if err != nil {
		log.WithError(err).Error("Language model call failed")
		return "", err
	}

	text = strings.TrimSpace(text)
	log.WithField(logger.FieldDurationMs, time.Since(start).Milliseconds()).
		Infof("Raw answer from model: %q", text)
	return text, nil
}

// RecentTurns returns at most n trailing turns of history.
func RecentTurns(history []domain.ConversationTurn, n int) []domain.ConversationTurn {
	if n <= 0 {
		return nil
	}
	if len(history) > n {
		return history[len(history)-n:]
	}
	return history
}

// roleLabel maps a turn's role to its prompt label.
func roleLabel(r domain.Role) string {
	switch {
	case r.IsUser():
		return prompts.UserLabel
	case r.IsAssistant():
		return prompts.AssistantLabel
	default:
		return prompts.UnknownLabel
	}
}

// FormatHistory renders the last n turns as "<label>: <content>" lines.
func FormatHistory(history []domain.ConversationTurn, n int) string {
	turns := RecentTurns(history, n)
	lines := make([]string, len(turns))
	for i, turn := range turns {
		lines[i] = fmt.Sprintf("%s: %s", roleLabel(turn.Role), turn.Content)
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt renders the meme selection prompt.
// Parameters:
//   - captions: candidate captions, one per line in the prompt.
//   - message: the user's message, embedded verbatim.
//   - history: prior turns.
//   - historyTurns: number of trailing turns to include.
// Returns:
//   - string: prompt text.
func BuildPrompt(captions []string, message string, history []domain.ConversationTurn, historyTurns int) string {
	return fmt.Sprintf(prompts.MemeSelectionTemplate,
		FormatHistory(history, historyTurns),
		message,
		strings.Join(captions, "\n"),
	)
}
