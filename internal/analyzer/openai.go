package analyzer

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"receiptscan/internal/config"
)

// OpenAI analyzes a receipt with a single vision chat completion:
// the image goes in as a data URI and the structured fields come back in one
// fenced json block.
type OpenAI struct {
	client openai.Client
	model  string
	logger *slog.Logger
}

var _ Analyzer = (*OpenAI)(nil)

// NewOpenAI creates the single-call OpenAI backend.
func NewOpenAI(cfg config.OpenAIConfig, logger *slog.Logger) *OpenAI {
	if logger == nil {
		logger = slog.Default()
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
		logger: logger,
	}
}

// Analyze sends the receipt image to the chat completions API and decodes the
// extraction from the reply.
func (o *OpenAI) Analyze(ctx context.Context, contentType string, data []byte) (*Extraction, error) {
	start := time.Now()

	dataURI := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(analysisPrompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURI}),
			}),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai reply contained no choices")
	}

	out, err := decodeExtraction(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("receipt analyzed",
		"backend", "openai",
		"model", o.model,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}
