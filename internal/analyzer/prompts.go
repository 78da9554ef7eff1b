package analyzer

// analysisPrompt instructs a vision-capable model to read a receipt image and
// emit the extraction payload. Shared by both backends for the final stage.
const analysisPrompt = `You are an expert at reading receipts and invoices for bookkeeping.
Extract the following information from the receipt:

- receipt_number: the invoice or receipt number printed on the document
- receipt_total: the final total amount due, as a plain number (e.g. 42.50)
- receipt_date: the transaction date in ISO 8601 format (YYYY-MM-DD)
- receipt_description: a one-sentence summary of what was purchased
- company_name: the issuing merchant or business name
- company_address: the merchant address as printed
- company_phone: the merchant phone number as printed
- tax_category: the most fitting expense category (e.g. "Travel", "Meals", "Office Supplies", "Utilities")
- tax_sub_category: a more specific sub-category if one applies

Return the result as JSON inside exactly one fenced code block:

` + "```json" + `
{
  "receipt_number": "...",
  "receipt_total": 0.00,
  "receipt_date": "YYYY-MM-DD",
  "receipt_description": "...",
  "company_name": "...",
  "company_address": "...",
  "company_phone": "...",
  "tax_category": "...",
  "tax_sub_category": "..."
}
` + "```" + `

Use null for any field you cannot read from the document.
Do not emit any other fenced code block.`

// visionPrompt drives the first stage of the two-stage pipeline: a vision
// model transcribes the document so a text model can analyze it afterwards.
const visionPrompt = `You are a precise OCR engine. Transcribe every piece of text visible in the
attached receipt or invoice image, preserving the reading order. Include item
lines, amounts, dates, the merchant name, address and phone number. Output the
plain transcription only, with no commentary.`
