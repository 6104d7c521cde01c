package research

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/charmbracelet/log"

	"github.com/contactsmith/contactsmith/internal/config"
	"github.com/contactsmith/contactsmith/internal/models"
)

const maxAttempts = 3

// Service runs natural-language contact research against the Anthropic
// API. The model's reply is treated as an opaque report and parsed
// best-effort into structured rows.
type Service struct {
	client      anthropic.Client
	model       string
	maxTokens   int
	temperature float64
	timeout     time.Duration
	logger      *log.Logger
}

// New creates a research service from configuration. An API key is
// required.
func New(cfg config.ResearchConfig) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("research: API key is required (set ANTHROPIC_API_KEY)")
	}

	model := cfg.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 3000
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	return &Service{
		client:      anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:       model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		timeout:     timeout,
		logger:      log.NewWithOptions(os.Stderr, log.Options{Prefix: "research"}),
	}, nil
}

// SetLogger replaces the default logger.
func (s *Service) SetLogger(logger *log.Logger) { s.logger = logger }

// Research asks the model for a contact report on one company and parses
// the reply. Transient API failures retry with a short pause.
func (s *Service) Research(ctx context.Context, company models.Company) (*models.ResearchReport, error) {
	prompt := BuildPrompt(company)

	var raw string
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		raw, lastErr = s.generate(ctx, prompt)
		if lastErr == nil {
			break
		}
		s.logger.Warn("research attempt failed", "company", company.Name, "attempt", attempt, "error", lastErr)
		if attempt < maxAttempts {
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("research for %s failed after %d attempts: %w", company.Name, maxAttempts, lastErr)
	}

	report := &models.ResearchReport{
		Company:   company.Name,
		Raw:       raw,
		Contacts:  ParseContactTable(raw),
		Sources:   ParseCitations(raw),
		Model:     s.model,
		CreatedAt: time.Now(),
	}

	s.logger.Info("research complete",
		"company", company.Name,
		"contacts", len(report.Contacts),
		"sources", len(report.Sources))

	return report, nil
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: int64(s.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if s.temperature > 0 {
		params.Temperature = anthropic.Float(s.temperature)
	}

	resp, err := s.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic API call: %w", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return b.String(), nil
}
