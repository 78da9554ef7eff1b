package analyzer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"receiptscan/internal/config"
)

func newOllamaTestServer(t *testing.T, handler func(req ollamaChatRequest) (string, int)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/chat", r.URL.Path)

		var req ollamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.False(t, req.Stream)

		content, status := handler(req)
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaMessage{Role: "assistant", Content: content},
			Done:    true,
		})
	}))
}

func TestOllamaAnalyze(t *testing.T) {
	srv := newOllamaTestServer(t, func(req ollamaChatRequest) (string, int) {
		switch req.Model {
		case "llava":
			// Vision stage carries the image, text stage must not.
			if assert.Len(t, req.Messages, 2) {
				assert.NotEmpty(t, req.Messages[1].Images)
			}
			return "REWE Markt, total 23.45 EUR, 2024-05-02", http.StatusOK
		case "llama3":
			assert.Empty(t, req.Messages[1].Images)
			assert.Contains(t, req.Messages[1].Content, "REWE Markt")
			return "```json\n{\"company_name\": \"REWE Markt\", \"receipt_total\": 23.45, \"receipt_date\": \"2024-05-02\"}\n```", http.StatusOK
		default:
			return "", http.StatusBadRequest
		}
	})
	defer srv.Close()

	o := NewOllama(config.OllamaConfig{
		BaseURL:     srv.URL,
		VisionModel: "llava",
		TextModel:   "llama3",
		Timeout:     5 * time.Second,
	}, nil)

	ext, err := o.Analyze(context.Background(), "image/jpeg", []byte("fake image"))
	require.NoError(t, err)

	require.NotNil(t, ext.CompanyName)
	assert.Equal(t, "REWE Markt", *ext.CompanyName)
	require.NotNil(t, ext.ReceiptTotal)
	assert.InDelta(t, 23.45, *ext.ReceiptTotal, 0.001)
	require.NotNil(t, ext.ReceiptDate)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), *ext.ReceiptDate)
}

func TestOllamaAnalyzeClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := newOllamaTestServer(t, func(req ollamaChatRequest) (string, int) {
		calls.Add(1)
		return "", http.StatusNotFound
	})
	defer srv.Close()

	o := NewOllama(config.OllamaConfig{
		BaseURL:     srv.URL,
		VisionModel: "llava",
		TextModel:   "llama3",
		Timeout:     5 * time.Second,
	}, nil)

	_, err := o.Analyze(context.Background(), "image/jpeg", []byte("fake image"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recognize stage")
	assert.Equal(t, int32(1), calls.Load())
}

func TestOllamaAnalyzeUndecodableReply(t *testing.T) {
	srv := newOllamaTestServer(t, func(req ollamaChatRequest) (string, int) {
		return "I could not read this receipt, sorry.", http.StatusOK
	})
	defer srv.Close()

	o := NewOllama(config.OllamaConfig{
		BaseURL:     srv.URL,
		VisionModel: "llava",
		TextModel:   "llama3",
		Timeout:     5 * time.Second,
	}, nil)

	_, err := o.Analyze(context.Background(), "image/jpeg", []byte("fake image"))
	require.Error(t, err)
}
