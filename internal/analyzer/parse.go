package analyzer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var jsonBlockRe = regexp.MustCompile("(?s)```json\\s*\\n(.*?)\\n```")

// extractJSONBlock pulls the machine-readable payload out of a model reply.
// The reply must contain exactly one fenced ```json block; anything else is a
// parse failure so a chatty or truncated reply never produces half-read fields.
func extractJSONBlock(content string) (string, error) {
	matches := jsonBlockRe.FindAllStringSubmatch(content, -1)
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no json block in model reply")
	case 1:
		return strings.TrimSpace(matches[0][1]), nil
	default:
		return "", fmt.Errorf("expected one json block in model reply, found %d", len(matches))
	}
}

// extractionWire is the JSON shape the prompts instruct the model to emit.
// The date travels as a string because models produce a variety of formats.
type extractionWire struct {
	ReceiptNumber      *string  `json:"receipt_number"`
	ReceiptTotal       *float64 `json:"receipt_total"`
	ReceiptDate        *string  `json:"receipt_date"`
	ReceiptDescription *string  `json:"receipt_description"`
	CompanyName        *string  `json:"company_name"`
	CompanyAddress     *string  `json:"company_address"`
	CompanyPhone       *string  `json:"company_phone"`
	TaxCategory        *string  `json:"tax_category"`
	TaxSubCategory     *string  `json:"tax_sub_category"`
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
	"02.01.2006",
}

// decodeExtraction parses a model reply into an Extraction.
func decodeExtraction(content string) (*Extraction, error) {
	payload, err := extractJSONBlock(content)
	if err != nil {
		return nil, err
	}

	var w extractionWire
	if err := json.Unmarshal([]byte(payload), &w); err != nil {
		return nil, fmt.Errorf("decode extraction: %w", err)
	}

	out := &Extraction{
		ReceiptNumber:      trimmed(w.ReceiptNumber),
		ReceiptTotal:       w.ReceiptTotal,
		ReceiptDescription: trimmed(w.ReceiptDescription),
		CompanyName:        trimmed(w.CompanyName),
		CompanyAddress:     trimmed(w.CompanyAddress),
		CompanyPhone:       trimmed(w.CompanyPhone),
		TaxCategory:        trimmed(w.TaxCategory),
		TaxSubCategory:     trimmed(w.TaxSubCategory),
	}

	if d := trimmed(w.ReceiptDate); d != nil {
		t, err := parseDate(*d)
		if err != nil {
			return nil, err
		}
		out.ReceiptDate = &t
	}

	return out, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized receipt date %q", s)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
