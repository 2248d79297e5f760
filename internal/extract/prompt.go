package extract

import "strings"

const basePrompt = "You are an expert invoice information extractor. " +
	"Given one or more invoice images and optional user text hints, extract as many fields as possible and respond strictly as a compact JSON object. " +
	"All property names must be in English. Use ISO 8601 dates (YYYY-MM-DD). " +
	"Currency must be a 3-letter ISO 4217 code. " +
	"Include line items when present. If a field is unknown, use null. " +
	"Never invent values that are not visible in the document. Do not add explanations. " +
	"Ensure numeric fields are numbers, not strings."

const structuredAddendum = " If the document is not an invoice, set is_invoice to false, " +
	"describe what it is in document_type, and leave every unknown field null."

// SystemPrompt returns the fixed oracle instructions for the given mode.
func SystemPrompt(mode Mode) string {
	if mode == ModeStructured {
		return basePrompt + structuredAddendum
	}
	return basePrompt
}

// UserText merges the hint text with the default-currency annotation into a
// single text block. Empty when neither is set.
func (r Request) UserText() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(r.HintText))
	if cur := strings.TrimSpace(r.DefaultCurrency); cur != "" {
		b.WriteString("\nDefault currency (if missing): ")
		b.WriteString(cur)
	}
	return strings.TrimSpace(b.String())
}
