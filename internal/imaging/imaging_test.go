package imaging

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		raw      []byte
		mimeType string
		wantMIME string
	}{
		{
			name:     "jpeg with explicit type",
			raw:      []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10},
			mimeType: "image/jpeg",
			wantMIME: "image/jpeg",
		},
		{
			name:     "png sniffed from magic bytes",
			raw:      []byte("\x89PNG\r\n\x1a\n0000000000"),
			mimeType: "",
			wantMIME: "image/png",
		},
		{
			name:     "unknown bytes default to jpeg",
			raw:      []byte{0x01, 0x02, 0x03, 0x04},
			mimeType: "",
			wantMIME: "image/jpeg",
		},
		{
			name:     "generic type is re-sniffed",
			raw:      []byte("\x89PNG\r\n\x1a\n0000000000"),
			mimeType: "application/octet-stream",
			wantMIME: "image/png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := Encode(tt.raw, tt.mimeType)
			if img.MIMEType != tt.wantMIME {
				t.Errorf("MIMEType = %q, want %q", img.MIMEType, tt.wantMIME)
			}
			if !strings.HasPrefix(img.DataURL, "data:"+tt.wantMIME+";base64,") {
				t.Errorf("DataURL prefix = %q", img.DataURL[:min(40, len(img.DataURL))])
			}

			mt, raw, err := Decode(img.DataURL)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if mt != tt.wantMIME {
				t.Errorf("decoded MIME = %q, want %q", mt, tt.wantMIME)
			}
			if !bytes.Equal(raw, tt.raw) {
				t.Errorf("decoded payload differs from original")
			}
		})
	}
}

func TestEncodeDeterministic(t *testing.T) {
	raw := []byte("same bytes in, same URL out")
	a := Encode(raw, "image/png")
	b := Encode(raw, "image/png")
	if a != b {
		t.Errorf("Encode is not deterministic: %q vs %q", a.DataURL, b.DataURL)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no scheme", "image/jpeg;base64,AAAA"},
		{"no separator", "data:image/jpeg;base64"},
		{"not base64 encoding", "data:image/jpeg,rawdata"},
		{"bad payload", "data:image/jpeg;base64,!!!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Decode(tt.input); err == nil {
				t.Errorf("Decode(%q) succeeded, want error", tt.input)
			}
		})
	}
}
