package extract

// InvoiceSchema returns the invoice record JSON-Schema (draft 2020-12
// subset) as a generic map. It is passed to the oracle as a structured
// output constraint and also used locally to validate the response.
// Every property is required with null standing in for unknowns, as the
// strict structured-output contract demands.
func InvoiceSchema() map[string]any {
	party := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":    nullableString(),
			"tax_id":  nullableString(),
			"address": nullableString(),
		},
		"required": []string{"name", "tax_id", "address"},
	}

	props := map[string]any{
		"is_invoice":     map[string]any{"type": "boolean"},
		"document_type":  map[string]any{"type": "string"},
		"language":       nullableString(),
		"invoice_number": nullableString(),
		"issue_date":     nullableDate(),
		"due_date":       nullableDate(),
		"po_number":      nullableString(),
		"currency": map[string]any{
			"type":    []string{"string", "null"},
			"pattern": `^[A-Z]{3}$`,
		},
		"seller":           party,
		"buyer":            party,
		"subtotal_amount":  nullableNumber(),
		"total_tax_amount": nullableNumber(),
		"total_amount":     nullableNumber(),
		"taxes": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"name":   nullableString(),
					"amount": nullableNumber(),
					"rate":   nullableNumber(),
				},
				"required": []string{"name", "amount", "rate"},
			},
		},
		"line_items": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"description": nullableString(),
					"quantity":    nullableNumber(),
					"unit_price":  nullableNumber(),
					"amount":      nullableNumber(),
				},
				"required": []string{"description", "quantity", "unit_price", "amount"},
			},
		},
		"payment_terms": nullableString(),
		"notes":         nullableString(),
	}

	required := []string{
		"is_invoice", "document_type", "language", "invoice_number",
		"issue_date", "due_date", "po_number", "currency", "seller", "buyer",
		"subtotal_amount", "total_tax_amount", "total_amount", "taxes",
		"line_items", "payment_terms", "notes",
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

func nullableString() map[string]any {
	return map[string]any{"type": []string{"string", "null"}}
}

func nullableNumber() map[string]any {
	return map[string]any{"type": []string{"number", "null"}}
}

func nullableDate() map[string]any {
	return map[string]any{
		"type":    []string{"string", "null"},
		"pattern": `^\d{4}-\d{2}-\d{2}$`,
	}
}
