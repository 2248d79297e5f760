// Package extract defines the document-to-invoice extraction pipeline:
// request assembly, the invoice record shape, and response decoding.
package extract

import (
	"context"
	"errors"
	"fmt"

	"invoicebot/internal/imaging"
)

// Mode selects how the oracle's response is constrained and decoded.
type Mode string

const (
	// ModeFreeform asks for a JSON object and minifies whatever comes back,
	// passing non-JSON output through unchanged.
	ModeFreeform Mode = "freeform"
	// ModeStructured constrains the response to the invoice schema and
	// rejects anything that does not validate against it.
	ModeStructured Mode = "structured"
)

// ParseMode maps a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFreeform, ModeStructured:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown extraction mode %q (want %q or %q)", s, ModeFreeform, ModeStructured)
}

// ErrNoImages is returned when a request is built without any image content.
var ErrNoImages = errors.New("extraction request has no images")

// Request is one extraction invocation: every field is consumed once and
// nothing outlives the reply.
type Request struct {
	Images          []imaging.Image
	HintText        string
	DefaultCurrency string
	Mode            Mode
}

// NewRequest assembles a Request, rejecting an empty image list up front.
func NewRequest(images []imaging.Image, hintText, defaultCurrency string, mode Mode) (Request, error) {
	if len(images) == 0 {
		return Request{}, ErrNoImages
	}
	return Request{
		Images:          images,
		HintText:        hintText,
		DefaultCurrency: defaultCurrency,
		Mode:            mode,
	}, nil
}

// Result is the outcome of one extraction. Output always holds the reply
// text; Record is populated in structured mode only.
type Result struct {
	Output Decoded
	Record *InvoiceRecord
}

// Extractor is the interface the bot depends on for field extraction.
type Extractor interface {
	Extract(ctx context.Context, req Request) (Result, error)
}

// SchemaViolationError reports oracle output that failed schema validation.
// It is surfaced to the user as-is, never repaired or retried.
type SchemaViolationError struct {
	Cause error
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("oracle output violates invoice schema: %v", e.Cause)
}

func (e *SchemaViolationError) Unwrap() error { return e.Cause }

// Party identifies one side of the transaction. All fields are null when
// not visible in the document.
type Party struct {
	Name    *string `json:"name"`
	TaxID   *string `json:"tax_id"`
	Address *string `json:"address"`
}

// TaxLine is one named tax with its amount and rate.
type TaxLine struct {
	Name   *string  `json:"name"`
	Amount *float64 `json:"amount"`
	Rate   *float64 `json:"rate"`
}

// LineItem is one billed row.
type LineItem struct {
	Description *string  `json:"description"`
	Quantity    *float64 `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price"`
	Amount      *float64 `json:"amount"`
}

// InvoiceRecord is the structured-mode extraction result. Dates are
// ISO-8601 (YYYY-MM-DD) and currency is ISO-4217 when present; unknown
// fields are null, never fabricated.
type InvoiceRecord struct {
	IsInvoice      bool       `json:"is_invoice"`
	DocumentType   string     `json:"document_type"`
	Language       *string    `json:"language"`
	InvoiceNumber  *string    `json:"invoice_number"`
	IssueDate      *string    `json:"issue_date"`
	DueDate        *string    `json:"due_date"`
	PONumber       *string    `json:"po_number"`
	Currency       *string    `json:"currency"`
	Seller         Party      `json:"seller"`
	Buyer          Party      `json:"buyer"`
	SubtotalAmount *float64   `json:"subtotal_amount"`
	TotalTaxAmount *float64   `json:"total_tax_amount"`
	TotalAmount    *float64   `json:"total_amount"`
	Taxes          []TaxLine  `json:"taxes"`
	LineItems      []LineItem `json:"line_items"`
	PaymentTerms   *string    `json:"payment_terms"`
	Notes          *string    `json:"notes"`
}
