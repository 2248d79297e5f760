package bot

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFormatReply(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"short text unchanged", "hola", "hola"},
		{"exactly at limit unchanged", strings.Repeat("x", 10), strings.Repeat("x", 10)},
		{"one over limit truncated", strings.Repeat("x", 11), strings.Repeat("x", 7) + truncationMarker},
		{"empty unchanged", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatReply(tt.input, 10, 7)
			if got != tt.want {
				t.Errorf("FormatReply = %q, want %q", got, tt.want)
			}
			if len(got) > 10 {
				t.Errorf("result length %d exceeds limit", len(got))
			}
		})
	}
}

func TestFormatReplyDefaults(t *testing.T) {
	long := strings.Repeat("a", replyLimit+1)
	got := FormatReply(long, 0, 0)
	if len(got) > replyLimit {
		t.Errorf("result length %d exceeds default limit", len(got))
	}
	if !strings.HasSuffix(got, truncationMarker) {
		t.Error("truncated result missing marker")
	}

	atLimit := strings.Repeat("a", replyLimit)
	if FormatReply(atLimit, 0, 0) != atLimit {
		t.Error("at-limit text was modified")
	}
}

func TestFormatReplyRuneBoundary(t *testing.T) {
	// Multi-byte runes straddling the cut point must not be split.
	long := strings.Repeat("ñ", 40) // 2 bytes each
	got := FormatReply(long, 20, 15)
	if !utf8.ValidString(got) {
		t.Errorf("truncation produced invalid UTF-8: %q", got)
	}
	if len(got) > 20 {
		t.Errorf("result length %d exceeds limit", len(got))
	}
}

func TestFormatReplyCutNeverExceedsLimit(t *testing.T) {
	// A cut point too close to the limit is pulled back so the marker fits.
	long := strings.Repeat("x", 30)
	got := FormatReply(long, 20, 20)
	if len(got) > 20 {
		t.Errorf("result length %d exceeds limit", len(got))
	}
}

func TestFormatReplyTinyLimits(t *testing.T) {
	// Limits smaller than the marker must still bound the result without
	// panicking.
	tests := []struct {
		limit int
		cutAt int
		want  string
	}{
		{1, 0, "."},
		{2, 0, ".."},
		{3, 0, truncationMarker},
		{2, -5, ".."},
		{4, 9, "x" + truncationMarker},
	}
	for _, tt := range tests {
		got := FormatReply("xxxxxx", tt.limit, tt.cutAt)
		if got != tt.want {
			t.Errorf("FormatReply(limit=%d, cutAt=%d) = %q, want %q", tt.limit, tt.cutAt, got, tt.want)
		}
		if len(got) > tt.limit {
			t.Errorf("result length %d exceeds limit %d", len(got), tt.limit)
		}
	}
}
