package coach

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/smolblud/forge/internal/domain"
	"github.com/smolblud/forge/internal/domain/models"
	"github.com/smolblud/forge/internal/domain/repositories"
	"github.com/smolblud/forge/internal/domain/services"
)

// writingRequestLexicon holds phrases that mark an explicit ghostwriting
// request. Matching any of them short-circuits the pipeline before the model
// is ever invoked, independent of the classifier's plan.
var writingRequestLexicon = []string{
	"write me",
	"write a story",
	"write a poem",
	"write a chapter",
	"write this for me",
	"write it for me",
	"compose a",
	"draft a",
}

// ghostwriteRefusal is the fixed multi-option refusal emitted on an explicit
// writing request.
const ghostwriteRefusal = "I don't ghostwrite - the writing stays yours. Here's what I can do instead:\n" +
	"- brainstorm ideas and directions with you\n" +
	"- critique a draft you paste here\n" +
	"- answer questions about writing technique\n" +
	"- offer structural advice on plot, pacing, or dialogue\n\n" +
	"Share a draft or a question and we'll get to work."

// Options bound the external calls made during one request cycle.
type Options struct {
	RetrievalTimeout time.Duration
	GenerateTimeout  time.Duration
	GenerateRetries  int
	RetryBackoff     time.Duration
}

// Service orchestrates one request/response cycle: classification, advice
// retrieval, prompt assembly, generation, guardrail checking, and the atomic
// persistence of the resulting turn pair. It holds no per-request state.
type Service struct {
	classifier Classifier
	librarian  *Librarian
	prompts    PromptBuilder
	guardrail  Guardrail
	generator  services.Generator
	store      repositories.ConversationStore
	opts       Options
	logger     *slog.Logger
}

// NewService creates the coach orchestrator.
func NewService(
	librarian *Librarian,
	prompts PromptBuilder,
	guardrail Guardrail,
	generator services.Generator,
	store repositories.ConversationStore,
	opts Options,
	logger *slog.Logger,
) *Service {
	if opts.RetrievalTimeout <= 0 {
		opts.RetrievalTimeout = 10 * time.Second
	}
	if opts.GenerateTimeout <= 0 {
		opts.GenerateTimeout = 120 * time.Second
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 500 * time.Millisecond
	}

	return &Service{
		librarian: librarian,
		prompts:   prompts,
		guardrail: guardrail,
		generator: generator,
		store:     store,
		opts:      opts,
		logger:    logger,
	}
}

// Submit runs the full pipeline for one inbound message. Exactly one user
// turn and one assistant turn are persisted per successful call, in that
// order, even when the assistant turn is a substituted refusal. On any
// failure after classification, nothing is persisted.
func (s *Service) Submit(ctx context.Context, text string, conversationID *int64) (*services.SubmitResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no text provided: %w", domain.ErrValidation)
	}

	conv, err := s.store.GetOrCreateConversation(ctx, conversationID, deriveTitle(text))
	if err != nil {
		return nil, err
	}

	history, err := s.store.ListTurns(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	plan := s.classifier.Classify(text)
	result := &services.SubmitResult{
		ConversationID: conv.ID,
		Plan:           plan,
		Tips:           []string{},
	}

	// Pre-generation refusal: explicit writing requests never reach the model.
	if matchesWritingRequest(text) {
		s.logger.Info("refusing explicit writing request", "conversation_id", conv.ID)
		result.Response = ghostwriteRefusal
		if _, _, err := s.store.AppendExchange(ctx, conv.ID, text, result.Response); err != nil {
			return nil, fmt.Errorf("persist exchange: %w", err)
		}
		return result, nil
	}

	var tips []models.AdviceSnippet
	if plan.Classification == models.ClassificationSubmission {
		rctx, cancel := context.WithTimeout(ctx, s.opts.RetrievalTimeout)
		tips, err = s.librarian.RetrieveTips(rctx, plan.Dimensions)
		cancel()
		if err != nil {
			// Retrieval failure degrades the turn to no tips; it never aborts it.
			s.logger.Warn("advice retrieval failed, continuing without tips",
				"conversation_id", conv.ID,
				"error", err,
			)
			tips = nil
		}
	}
	for _, tip := range tips {
		result.Tips = append(result.Tips, tip.Content)
	}

	messages := s.prompts.Build(history, text, tips)

	resp, err := s.generate(ctx, messages)
	if err != nil {
		return nil, err
	}

	result.Response = resp.Text
	if verdict := s.guardrail.Check(text, resp.Text); !verdict.Passed {
		s.logger.Info("guardrail violation, substituting refusal",
			"conversation_id", conv.ID,
			"violation", verdict.Violation,
		)
		result.Response = s.guardrail.Refusal(verdict.Violation)
	}

	if _, _, err := s.store.AppendExchange(ctx, conv.ID, text, result.Response); err != nil {
		return nil, fmt.Errorf("persist exchange: %w", err)
	}

	return result, nil
}

// generate invokes the model with a per-attempt timeout and bounded retry.
// Timeouts and caller cancellation are permanent for the request; other
// errors are treated as transient and retried with linear backoff.
func (s *Service) generate(ctx context.Context, messages []models.Message) (models.ModelResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= s.opts.GenerateRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return models.ModelResponse{}, ctx.Err()
			case <-time.After(s.opts.RetryBackoff * time.Duration(attempt)):
			}
			s.logger.Debug("retrying generation", "attempt", attempt)
		}

		gctx, cancel := context.WithTimeout(ctx, s.opts.GenerateTimeout)
		resp, err := s.generator.Generate(gctx, messages)
		cancel()

		if err == nil {
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil || errors.Is(err, domain.ErrTimeout) {
			break
		}
	}

	return models.ModelResponse{}, fmt.Errorf("generate: %w", lastErr)
}

func matchesWritingRequest(text string) bool {
	lowered := strings.ToLower(text)
	for _, phrase := range writingRequestLexicon {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

// deriveTitle produces a conversation title from the first message.
func deriveTitle(text string) string {
	title := strings.TrimSpace(text)
	runes := []rune(title)
	if len(runes) > 48 {
		title = string(runes[:48]) + "..."
	}
	if title == "" {
		title = "New Conversation"
	}
	return title
}
