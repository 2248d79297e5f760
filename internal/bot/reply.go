package bot

import "unicode/utf8"

// Telegram caps messages around 4096 characters; stay conservative and cut
// well below the cap so the marker always fits.
const (
	replyLimit       = 3800
	replyCut         = 3700
	truncationMarker = "..."
)

// FormatReply bounds s to the channel message-size limit. Text at or under
// limit is returned unchanged; anything longer is cut at cutAt (backing off
// to a rune boundary) with a truncation marker appended. The result never
// exceeds limit, even when limit is smaller than the marker. Never fails.
func FormatReply(s string, limit, cutAt int) string {
	if limit <= 0 {
		limit = replyLimit
	}
	if len(s) <= limit {
		return s
	}
	maxCut := limit - len(truncationMarker)
	if maxCut < 0 {
		maxCut = 0
	}
	if cutAt <= 0 || cutAt > maxCut {
		cutAt = maxCut
	}
	for cutAt > 0 && !utf8.RuneStart(s[cutAt]) {
		cutAt--
	}
	out := s[:cutAt] + truncationMarker
	if len(out) > limit {
		// The marker alone overflows a tiny limit; the marker is ASCII so a
		// byte cut is safe.
		out = out[:limit]
	}
	return out
}
