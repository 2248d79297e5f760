package extract

import (
	"encoding/json"
	"testing"
)

// validRecord returns a fully-populated response the schema should accept.
func validRecord() map[string]any {
	party := func(name any) map[string]any {
		return map[string]any{"name": name, "tax_id": nil, "address": nil}
	}
	return map[string]any{
		"is_invoice":       true,
		"document_type":    "invoice",
		"language":         "en",
		"invoice_number":   "INV-0042",
		"issue_date":       "2024-08-31",
		"due_date":         nil,
		"po_number":        nil,
		"currency":         "USD",
		"seller":           party("ACME Corp"),
		"buyer":            party("Globex"),
		"subtotal_amount":  90.0,
		"total_tax_amount": 10.0,
		"total_amount":     100.0,
		"taxes": []any{
			map[string]any{"name": "VAT", "amount": 10.0, "rate": 0.1},
		},
		"line_items": []any{
			map[string]any{"description": "widget", "quantity": 2.0, "unit_price": 45.0, "amount": 90.0},
		},
		"payment_terms": "NET 30",
		"notes":         nil,
	}
}

func marshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestInvoiceSchemaAcceptsValidRecord(t *testing.T) {
	if err := ValidateAgainstSchema(InvoiceSchema(), marshal(t, validRecord())); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}
}

func TestInvoiceSchemaAcceptsNonInvoice(t *testing.T) {
	rec := validRecord()
	rec["is_invoice"] = false
	rec["document_type"] = "landscape photograph"
	for _, k := range []string{
		"language", "invoice_number", "issue_date", "currency",
		"subtotal_amount", "total_tax_amount", "total_amount", "payment_terms",
	} {
		rec[k] = nil
	}
	rec["taxes"] = []any{}
	rec["line_items"] = []any{}
	if err := ValidateAgainstSchema(InvoiceSchema(), marshal(t, rec)); err != nil {
		t.Fatalf("non-invoice record rejected: %v", err)
	}
}

func TestInvoiceSchemaRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(rec map[string]any)
	}{
		{"non-iso date", func(rec map[string]any) { rec["issue_date"] = "31/08/2024" }},
		{"lowercase currency", func(rec map[string]any) { rec["currency"] = "usd" }},
		{"string amount", func(rec map[string]any) { rec["total_amount"] = "100.00" }},
		{"missing required field", func(rec map[string]any) { delete(rec, "total_amount") }},
		{"extra property", func(rec map[string]any) { rec["fabricated"] = "value" }},
		{"is_invoice as string", func(rec map[string]any) { rec["is_invoice"] = "yes" }},
		{"line item missing amount", func(rec map[string]any) {
			rec["line_items"] = []any{map[string]any{"description": "widget", "quantity": 1.0, "unit_price": 1.0}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(rec)
			if err := ValidateAgainstSchema(InvoiceSchema(), marshal(t, rec)); err == nil {
				t.Error("mutated record validated, want rejection")
			}
		})
	}
}

func TestInvoiceRecordUnmarshal(t *testing.T) {
	var rec InvoiceRecord
	if err := json.Unmarshal(marshal(t, validRecord()), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !rec.IsInvoice {
		t.Error("IsInvoice = false, want true")
	}
	if rec.Currency == nil || *rec.Currency != "USD" {
		t.Errorf("Currency = %v, want USD", rec.Currency)
	}
	if rec.TotalAmount == nil || *rec.TotalAmount != 100.0 {
		t.Errorf("TotalAmount = %v, want 100.00", rec.TotalAmount)
	}
	if rec.DueDate != nil {
		t.Errorf("DueDate = %v, want nil", *rec.DueDate)
	}
	if len(rec.LineItems) != 1 || rec.LineItems[0].Description == nil || *rec.LineItems[0].Description != "widget" {
		t.Errorf("LineItems = %+v", rec.LineItems)
	}
}
