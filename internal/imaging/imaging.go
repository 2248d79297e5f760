package imaging

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// Image is an attachment encoded as a data URL, ready to be sent to the
// vision model as an image_url content part.
type Image struct {
	MIMEType string
	DataURL  string
}

const fallbackMIME = "image/jpeg"

// Encode wraps raw bytes into a data URL. An empty or generic MIME type is
// sniffed from the content; photos with no usable type default to JPEG.
func Encode(raw []byte, mimeType string) Image {
	mt := strings.TrimSpace(mimeType)
	if mt == "" || mt == "application/octet-stream" {
		mt = http.DetectContentType(raw)
	}
	if mt == "application/octet-stream" {
		mt = fallbackMIME
	}
	data := base64.StdEncoding.EncodeToString(raw)
	return Image{
		MIMEType: mt,
		DataURL:  "data:" + mt + ";base64," + data,
	}
}

// Decode parses a data URL back into its MIME type and payload bytes.
func Decode(dataURL string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("data URL has no payload separator")
	}
	mt, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("unsupported data URL encoding %q", meta)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode payload: %w", err)
	}
	return mt, raw, nil
}
