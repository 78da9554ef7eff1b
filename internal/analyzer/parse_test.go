package analyzer

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"receiptscan/internal/config"
)

func TestExtractJSONBlock(t *testing.T) {
	t.Run("single block", func(t *testing.T) {
		content := "Here is the result:\n```json\n{\"a\": 1}\n```\nDone."
		payload, err := extractJSONBlock(content)
		require.NoError(t, err)
		assert.Equal(t, `{"a": 1}`, payload)
	})

	t.Run("no block", func(t *testing.T) {
		_, err := extractJSONBlock(`{"a": 1}`)
		require.Error(t, err)
	})

	t.Run("unfenced reply", func(t *testing.T) {
		_, err := extractJSONBlock("The total is 12.50 and the date is 2024-01-01.")
		require.Error(t, err)
	})

	t.Run("two blocks", func(t *testing.T) {
		content := "```json\n{\"a\": 1}\n```\nor maybe\n```json\n{\"a\": 2}\n```"
		_, err := extractJSONBlock(content)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "found 2")
	})

	t.Run("multiline payload", func(t *testing.T) {
		content := "```json\n{\n  \"a\": 1,\n  \"b\": 2\n}\n```"
		payload, err := extractJSONBlock(content)
		require.NoError(t, err)
		assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": 2\n}", payload)
	})
}

func TestDecodeExtraction(t *testing.T) {
	t.Run("full reply", func(t *testing.T) {
		content := "```json\n" + `{
  "receipt_number": "R-2024-001",
  "receipt_total": 42.90,
  "receipt_date": "2024-03-15",
  "receipt_description": "office supplies",
  "company_name": "Papier GmbH",
  "company_address": "Hauptstr. 1, Berlin",
  "company_phone": "+49 30 1234567",
  "tax_category": "business",
  "tax_sub_category": "supplies"
}` + "\n```"

		ext, err := decodeExtraction(content)
		require.NoError(t, err)

		require.NotNil(t, ext.ReceiptNumber)
		assert.Equal(t, "R-2024-001", *ext.ReceiptNumber)
		require.NotNil(t, ext.ReceiptTotal)
		assert.InDelta(t, 42.90, *ext.ReceiptTotal, 0.001)
		require.NotNil(t, ext.ReceiptDate)
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *ext.ReceiptDate)
		require.NotNil(t, ext.CompanyName)
		assert.Equal(t, "Papier GmbH", *ext.CompanyName)
	})

	t.Run("nulls stay nil", func(t *testing.T) {
		content := "```json\n{\"receipt_total\": 5.00, \"company_name\": null}\n```"

		ext, err := decodeExtraction(content)
		require.NoError(t, err)

		assert.Nil(t, ext.CompanyName)
		assert.Nil(t, ext.ReceiptDate)
		assert.Nil(t, ext.ReceiptNumber)
		require.NotNil(t, ext.ReceiptTotal)
	})

	t.Run("blank strings stay nil", func(t *testing.T) {
		content := "```json\n{\"company_name\": \"  \", \"receipt_number\": \"\"}\n```"

		ext, err := decodeExtraction(content)
		require.NoError(t, err)

		assert.Nil(t, ext.CompanyName)
		assert.Nil(t, ext.ReceiptNumber)
	})

	t.Run("invalid json", func(t *testing.T) {
		content := "```json\n{not json}\n```"
		_, err := decodeExtraction(content)
		require.Error(t, err)
	})

	t.Run("unreadable date", func(t *testing.T) {
		content := "```json\n{\"receipt_date\": \"mid march\"}\n```"
		_, err := decodeExtraction(content)
		require.Error(t, err)
	})
}

func TestParseDate(t *testing.T) {
	cases := map[string]time.Time{
		"2024-03-15":           time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		"2024/03/15":           time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		"03/15/2024":           time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		"15-03-2024":           time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		"15.03.2024":           time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		"2024-03-15T10:30:00Z": time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
	}

	for input, want := range cases {
		got, err := parseDate(input)
		require.NoError(t, err, "parse %q", input)
		assert.True(t, want.Equal(got), "parse %q: got %v", input, got)
	}

	_, err := parseDate("the ides of march")
	require.Error(t, err)
}

func TestNewSelectsBackend(t *testing.T) {
	logger := slog.Default()

	a, err := New(config.AnalyzerConfig{Backend: config.AnalyzerBackendOpenAI}, logger)
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, a)

	a, err = New(config.AnalyzerConfig{Backend: config.AnalyzerBackendOllama}, logger)
	require.NoError(t, err)
	assert.IsType(t, &Ollama{}, a)

	_, err = New(config.AnalyzerConfig{Backend: "gemini"}, logger)
	require.Error(t, err)
}
