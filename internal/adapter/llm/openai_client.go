package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"mathquiz/internal/config"
	"mathquiz/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// OpenAIClient implements domain.CompletionService on top of the
// LangchainGo OpenAI client. One instance is shared by the generation
// flow and the validator's repair escalation; it holds no per-call state.
type OpenAIClient struct {
	llm     *openai.LLM
	timeout time.Duration
	logger  *zap.Logger
}

// NewOpenAIClient creates the completion client from config.
func NewOpenAIClient(cfg config.LLMConfig, logger *zap.Logger) (*OpenAIClient, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OpenAI API key cannot be empty")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("OpenAI model name cannot be empty")
	}

	httpClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     10 * time.Second,
		},
	}

	client, err := openai.New(
		openai.WithToken(cfg.OpenAIAPIKey),
		openai.WithModel(cfg.Model),
		openai.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo OpenAI client: %w", err)
	}

	logger.Info("Initialized OpenAI completion client", zap.String("model", cfg.Model))
	return &OpenAIClient{
		llm:     client,
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

// Complete implements domain.CompletionService.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	response, err := c.llm.Call(ctx, prompt, llms.WithTemperature(0.7))
	if err != nil {
		if err == context.DeadlineExceeded {
			c.logger.Error("LLM request timed out", zap.Error(err))
			return "", domain.NewLLMServiceError(err)
		}
		c.logger.Error("Failed to get response from LLM", zap.Error(err))
		return "", domain.NewLLMServiceError(err)
	}
	return response, nil
}

var _ domain.CompletionService = (*OpenAIClient)(nil)
