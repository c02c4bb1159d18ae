package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"strings"
	"text/template"
	"time"

	"github.com/phrazzld/smartflash/internal/config"
	"github.com/phrazzld/smartflash/internal/generation"
	"google.golang.org/genai"
)

// contentGenerator is the subset of the genai client used by Extractor.
// *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Extractor implements generation.Extractor using the Gemini API.
type Extractor struct {
	logger         *slog.Logger
	promptTemplate *template.Template
	models         contentGenerator
	model          string
	maxRetries     int
	baseDelay      time.Duration
}

// NewExtractor creates an Extractor from the LLM configuration.
//
// Returns an error wrapping generation.ErrInvalidConfig when the API key or
// model name is missing, or when a configured prompt template cannot be read.
func NewExtractor(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Extractor, error) {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return newExtractor(logger, cfg, client.Models)
}

func newExtractor(logger *slog.Logger, cfg config.LLMConfig, models contentGenerator) (*Extractor, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if strings.TrimSpace(cfg.ModelName) == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	tmpl, err := loadPromptTemplate(cfg.PromptTemplatePath)
	if err != nil {
		return nil, err
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		logger.Warn("invalid max retries value, retries disabled", "max_retries", maxRetries)
		maxRetries = 0
	}

	delaySeconds := cfg.RetryDelaySeconds
	if delaySeconds < 1 {
		delaySeconds = 2
	}

	return &Extractor{
		logger:         logger.With("component", "gemini_extractor"),
		promptTemplate: tmpl,
		models:         models,
		model:          cfg.ModelName,
		maxRetries:     maxRetries,
		baseDelay:      time.Duration(delaySeconds) * time.Second,
	}, nil
}

// Extract implements generation.Extractor.
func (e *Extractor) Extract(ctx context.Context, text string) ([]generation.ProtoCard, error) {
	if strings.TrimSpace(text) == "" {
		return nil, generation.ErrEmptyText
	}

	prompt, err := renderPrompt(e.promptTemplate, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrExtractionFailed, err)
	}

	e.logger.DebugContext(ctx, "prompt generated",
		"text_length", len(text),
		"prompt_length", len(prompt))

	reply, err := e.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return e.parseReply(ctx, reply)
}

// callWithRetry calls the API and returns the reply text. Transient failures
// are retried up to maxRetries times with exponential backoff and jitter;
// permanent failures return immediately.
func (e *Extractor) callWithRetry(ctx context.Context, prompt string) (string, error) {
	genConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
	}

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		e.logger.InfoContext(ctx, "making Gemini API call",
			"model", e.model,
			"attempt", attemptNum,
			"max_attempts", e.maxRetries+1)

		resp, err := e.models.GenerateContent(ctx, e.model, genai.Text(prompt), genConfig)
		var reply string
		if err != nil {
			err = classifyAPIError(err)
		} else {
			reply, err = replyText(resp)
		}

		if err == nil {
			e.logger.InfoContext(ctx, "Gemini API call successful", "attempt", attemptNum)
			return reply, nil
		}

		e.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", err)

		if !errors.Is(err, generation.ErrTransientFailure) {
			return "", err
		}

		if attempt >= e.maxRetries {
			if e.maxRetries > 0 {
				e.logger.WarnContext(ctx, "maximum retry attempts reached", "max_retries", e.maxRetries)
			}
			return "", err
		}

		// delay = baseDelay * (2^attempt) * (0.5 + rand(0, 0.5))
		backoff := float64(e.baseDelay) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rand.Float64()*0.5))

		e.logger.InfoContext(ctx, "retrying after delay",
			"attempt", attemptNum,
			"delay_ms", delay.Milliseconds())

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// classifyAPIError maps a client error onto the generation error taxonomy.
func classifyAPIError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500:
			return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			return fmt.Errorf("%w: %v", generation.ErrInvalidConfig, err)
		default:
			return fmt.Errorf("%w: %v", generation.ErrExtractionFailed, err)
		}
	}

	// Network-level failures carry no status code.
	return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
}

// replyText validates the response envelope and returns the concatenated text parts.
func replyText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}

// parseReply decodes the JSON array returned by the model. Entries missing a
// term or definition are skipped; an empty array is returned as-is.
func (e *Extractor) parseReply(ctx context.Context, reply string) ([]generation.ProtoCard, error) {
	reply = stripCodeFence(reply)
	if reply == "" {
		return []generation.ProtoCard{}, nil
	}

	var items []CardSchema
	if err := json.Unmarshal([]byte(reply), &items); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", generation.ErrInvalidResponse, err)
	}

	cards := make([]generation.ProtoCard, 0, len(items))
	for i, item := range items {
		if strings.TrimSpace(item.Term) == "" || strings.TrimSpace(item.Definition) == "" {
			e.logger.WarnContext(ctx, "skipping incomplete card in response", "index", i)
			continue
		}
		cards = append(cards, generation.ProtoCard{
			Term:       item.Term,
			Definition: item.Definition,
			Context:    item.Context,
		})
	}

	e.logger.InfoContext(ctx, "parsed Gemini response",
		"returned", len(items),
		"usable", len(cards))
	return cards, nil
}

// stripCodeFence removes a surrounding ```json fence some models add despite
// the JSON response type.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
