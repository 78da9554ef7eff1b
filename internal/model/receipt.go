package model

import "time"

// Receipt represents one uploaded receipt document together with the fields
// extracted from it and its position in the processing pipeline.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
type Receipt struct {
	ID string `json:"id"`

	// Set once at upload and never changed afterwards.
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	StoragePath string `json:"storage_path"`
	Size        int64  `json:"size"`

	// Extracted fields; nil until an analysis run succeeds.
	ReceiptNumber      *string    `json:"receipt_number"`
	ReceiptTotal       *float64   `json:"receipt_total"`
	ReceiptDate        *time.Time `json:"receipt_date"`
	ReceiptDescription *string    `json:"receipt_description"`
	CompanyName        *string    `json:"company_name"`
	CompanyAddress     *string    `json:"company_address"`
	CompanyPhone       *string    `json:"company_phone"`
	TaxCategory        *string    `json:"tax_category"`
	TaxSubCategory     *string    `json:"tax_sub_category"`

	State     State      `json:"state"`
	Error     *string    `json:"error"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
