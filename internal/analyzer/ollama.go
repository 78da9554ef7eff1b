package analyzer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"receiptscan/internal/config"
)

// Ollama analyzes a receipt in two stages against a local Ollama server:
// a vision model transcribes the document, then a text model turns the
// transcription into structured fields.
type Ollama struct {
	baseURL     string
	visionModel string
	textModel   string
	client      *http.Client
	logger      *slog.Logger
}

var _ Analyzer = (*Ollama)(nil)

// NewOllama creates the two-stage Ollama backend.
func NewOllama(cfg config.OllamaConfig, logger *slog.Logger) *Ollama {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ollama{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		visionModel: cfg.VisionModel,
		textModel:   cfg.TextModel,
		client:      &http.Client{Timeout: cfg.Timeout},
		logger:      logger,
	}
}

type ollamaMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

// Analyze runs recognize-then-analyze and decodes the extraction from the
// second stage's reply.
func (o *Ollama) Analyze(ctx context.Context, contentType string, data []byte) (*Extraction, error) {
	start := time.Now()

	text, err := o.recognize(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("recognize stage: %w", err)
	}

	content, err := o.analyzeText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("analyze stage: %w", err)
	}

	out, err := decodeExtraction(content)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("receipt analyzed",
		"backend", "ollama",
		"vision_model", o.visionModel,
		"text_model", o.textModel,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// recognize asks the vision model to transcribe the receipt image.
func (o *Ollama) recognize(ctx context.Context, data []byte) (string, error) {
	req := ollamaChatRequest{
		Model:  o.visionModel,
		Stream: false,
		Messages: []ollamaMessage{
			{Role: "system", Content: visionPrompt},
			{Role: "user", Content: "Proceed.", Images: []string{base64.StdEncoding.EncodeToString(data)}},
		},
	}
	return o.chat(ctx, req)
}

// analyzeText asks the text model to structure the transcription.
func (o *Ollama) analyzeText(ctx context.Context, transcription string) (string, error) {
	req := ollamaChatRequest{
		Model:  o.textModel,
		Stream: false,
		Messages: []ollamaMessage{
			{Role: "system", Content: analysisPrompt},
			{Role: "user", Content: transcription},
		},
	}
	return o.chat(ctx, req)
}

// chat posts one non-streaming chat request, retrying transient transport
// failures a couple of times before giving up.
func (o *Ollama) chat(ctx context.Context, reqBody ollamaChatRequest) (string, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	var content string
	err = retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewReader(payload))
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := o.client.Do(req)
			if err != nil {
				return fmt.Errorf("call ollama: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				err := fmt.Errorf("ollama status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
				if resp.StatusCode >= 400 && resp.StatusCode < 500 {
					return retry.Unrecoverable(err)
				}
				return err
			}

			var chatResp ollamaChatResponse
			if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
				return fmt.Errorf("decode ollama response: %w", err)
			}
			content = strings.TrimSpace(chatResp.Message.Content)
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(2*time.Second),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", err
	}
	return content, nil
}
