package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	out, err := ToHTML("# Başlık\n\nBir **kalın** kelime.")
	if err != nil {
		t.Fatalf("ToHTML returned error: %v", err)
	}
	if !strings.Contains(out, "<h1") || !strings.Contains(out, "<strong>kalın</strong>") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestToHTMLPassesRawHTML(t *testing.T) {
	out, err := ToHTML(`<div class="legacy">eski içerik</div>`)
	if err != nil {
		t.Fatalf("ToHTML returned error: %v", err)
	}
	if !strings.Contains(out, `<div class="legacy">`) {
		t.Errorf("raw HTML was escaped: %s", out)
	}
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		maxLen int
		want   string
	}{
		{"short body unchanged", "kısa metin", 150, "kısa metin"},
		{"tags stripped", "<p>bir paragraf</p>", 150, "bir paragraf"},
		{"long body truncated", strings.Repeat("a", 200), 150, strings.Repeat("a", 150) + "..."},
		{"empty", "", 150, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Excerpt(tt.body, tt.maxLen); got != tt.want {
				t.Errorf("Excerpt = %q, want %q", got, tt.want)
			}
		})
	}
}
