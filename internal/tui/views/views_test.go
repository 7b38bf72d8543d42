package views

import (
	"strings"
	"testing"
	"time"
)

func TestSanitizeStripsEmojiModifiers(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "hello", "hello"},
		{"skin tone modifier", "👍\U0001F3FB", "👍"},
		{"variation selector", "✨️", "✨"},
		{"zero width joiner", "a‍b", "ab"},
		{"phrase pool emoji survive", "Nice photo! 📸✨", "Nice photo! 📸✨"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeForTerminal(tt.in); got != tt.want {
				t.Errorf("sanitizeForTerminal(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatCallElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{59 * time.Second, "00:59"},
		{84 * time.Second, "01:24"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, tt := range tests {
		if got := FormatCallElapsed(tt.d); got != tt.want {
			t.Errorf("FormatCallElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestRenderQRProducesHalfBlocks(t *testing.T) {
	out := renderQR("cosmic_ab12cd34f")
	if out == "" {
		t.Fatal("empty QR output")
	}
	if !strings.ContainsAny(out, "█▀▄") {
		t.Error("QR output contains no half-block runes")
	}
	// Every line is the same width, so the QR scans as a square.
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	for i := 1; i < len(lines); i++ {
		if len([]rune(lines[i])) != len([]rune(lines[0])) {
			t.Errorf("line %d width = %d, want %d", i, len([]rune(lines[i])), len([]rune(lines[0])))
		}
	}
}
