package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/praxisip/molscope/internal/config"
	"github.com/praxisip/molscope/internal/domain/patent"
	"github.com/praxisip/molscope/internal/infrastructure/monitoring/logging"
	apperrors "github.com/praxisip/molscope/pkg/errors"
)

// maxPromptHTML bounds how much page HTML goes into the prompt.
const maxPromptHTML = 100_000

const aiSystemPrompt = `You extract patent bibliographic data from raw HTML of a patent search portal.
Respond with ONLY a JSON array, no prose and no code fences. Each element describes one patent:
{"publication_number": string, "title": string, "abstract": string, "applicants": [string], "inventors": [string], "publication_date": string, "application_date": string, "ipc_codes": [string], "cpc_codes": [string], "doc_id": string}
Omit fields you cannot find. Return [] when the page contains no patent data.`

// AnthropicMessager is the slice of the Anthropic client the strategy
// uses, kept narrow so tests can substitute a recorder.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AIStrategy asks a language model to extract field sets when the
// selector strategy comes up empty. It carries its own timeout and a
// single retry so a slow model call cannot stall the pipeline.
type AIStrategy struct {
	messages  AnthropicMessager
	model     string
	maxTokens int
	timeout   time.Duration
	logger    logging.Logger
}

// NewAIStrategy wires the strategy from configuration. It returns nil
// when no API key is configured; the chain skips nil strategies.
func NewAIStrategy(cfg config.AIConfig, logger logging.Logger) *AIStrategy {
	if !cfg.Enabled() {
		return nil
	}
	c := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
	return &AIStrategy{
		messages:  &c.Messages,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		logger:    logger,
	}
}

// NewAIStrategyWithMessager builds the strategy over an explicit client,
// used by tests.
func NewAIStrategyWithMessager(m AnthropicMessager, cfg config.AIConfig, logger logging.Logger) *AIStrategy {
	return &AIStrategy{
		messages:  m,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		logger:    logger,
	}
}

func (s *AIStrategy) Name() string { return "ai_assisted" }

func (s *AIStrategy) Extract(ctx context.Context, doc Document) (*Result, error) {
	prompt := s.buildPrompt(doc)

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		text, err := s.complete(ctx, prompt)
		if err != nil {
			lastErr = err
			s.logger.Warn("model extraction call failed",
				logging.Int("attempt", attempt+1),
				logging.Err(err))
			continue
		}
		sets, err := parseModelOutput(text)
		if err != nil {
			lastErr = err
			s.logger.Warn("model returned unparseable output",
				logging.Int("attempt", attempt+1),
				logging.Err(err))
			continue
		}
		return &Result{FieldSets: sets}, nil
	}
	return nil, apperrors.Wrap(lastErr, apperrors.ErrCodeExtractionFailed, "model extraction failed")
}

func (s *AIStrategy) complete(ctx context.Context, prompt string) (string, error) {
	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.messages.New(callCtx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: int64(s.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: aiSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(0),
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

func (s *AIStrategy) buildPrompt(doc Document) string {
	html := doc.HTML
	if len(html) > maxPromptHTML {
		html = html[:maxPromptHTML]
	}
	page := "a search results page"
	if doc.Kind == KindDetail {
		page = "a single patent detail page"
	}
	return fmt.Sprintf("The following HTML is %s from a patent portal. Extract every patent it describes.\n\n%s", page, html)
}

// rawModelRecord mirrors the JSON shape requested in the system prompt.
type rawModelRecord struct {
	PublicationNumber string   `json:"publication_number"`
	Title             string   `json:"title"`
	Abstract          string   `json:"abstract"`
	Applicants        []string `json:"applicants"`
	Inventors         []string `json:"inventors"`
	PublicationDate   string   `json:"publication_date"`
	ApplicationDate   string   `json:"application_date"`
	IPCCodes          []string `json:"ipc_codes"`
	CPCCodes          []string `json:"cpc_codes"`
	DocID             string   `json:"doc_id"`
}

func parseModelOutput(text string) ([]patent.RawFieldSet, error) {
	// Models occasionally wrap output in fences despite instructions.
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var raw []rawModelRecord
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("decode model output: %w", err)
	}

	sets := make([]patent.RawFieldSet, 0, len(raw))
	for _, r := range raw {
		set := patent.RawFieldSet{
			PublicationNumber: r.PublicationNumber,
			Title:             r.Title,
			Abstract:          r.Abstract,
			Applicants:        r.Applicants,
			Inventors:         r.Inventors,
			PublicationDate:   r.PublicationDate,
			ApplicationDate:   r.ApplicationDate,
			IPCCodes:          r.IPCCodes,
			CPCCodes:          r.CPCCodes,
			DocID:             r.DocID,
		}
		if !set.Empty() {
			sets = append(sets, set)
		}
	}
	return sets, nil
}
