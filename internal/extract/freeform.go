package extract

import "encoding/json"

// Decoded is the freeform decode result: either minified JSON or the
// original text when it did not parse. Exactly one side is set.
type Decoded struct {
	JSON json.RawMessage
	Raw  string
}

// IsJSON reports whether the oracle output parsed as JSON.
func (d Decoded) IsJSON() bool { return d.JSON != nil }

// Text returns the transport form: compact JSON when available, the raw
// passthrough otherwise.
func (d Decoded) Text() string {
	if d.JSON != nil {
		return string(d.JSON)
	}
	return d.Raw
}

// EnsureJSON minifies text when it is valid JSON (stable key order, no
// extraneous whitespace) and passes it through unchanged otherwise. It is
// best-effort and never fails: malformed input comes back byte-identical.
func EnsureJSON(text string) Decoded {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return Decoded{Raw: text}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return Decoded{Raw: text}
	}
	return Decoded{JSON: b}
}
