package util

import (
	"strings"
	"testing"
)

func TestContainsHTML(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"<p>Hello</p>", true},
		{"Line one<br/>line two", true},
		{"<H2>Title</H2>", true},
		{"plain text", false},
		{"a < b and c > d", false},
		{"# Markdown heading", false},
	}

	for _, tt := range tests {
		if got := ContainsHTML(tt.input); got != tt.want {
			t.Errorf("ContainsHTML(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestHTMLToMarkdown(t *testing.T) {
	got, err := HTMLToMarkdown("<p>Hello <strong>world</strong></p>")
	if err != nil {
		t.Fatalf("HTMLToMarkdown: %v", err)
	}
	if !strings.Contains(got, "**world**") {
		t.Errorf("HTMLToMarkdown: got %q, want bold markdown", got)
	}

	plain := "# Already markdown\n\nSome *text*."
	got, err = HTMLToMarkdown(plain)
	if err != nil {
		t.Fatalf("HTMLToMarkdown: %v", err)
	}
	if got != plain {
		t.Errorf("HTMLToMarkdown: got %q, want input unchanged", got)
	}
}
