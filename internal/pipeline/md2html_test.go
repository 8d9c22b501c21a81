package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGoldmarkConverter_ToHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		content      string
		title        string
		wantContains []string
	}{
		{
			name:    "heading with id",
			content: "# Chapter One\n\nCall me Ishmael.",
			title:   "Moby Dick",
			wantContains: []string{
				"<!DOCTYPE html>",
				"<title>Moby Dick</title>",
				`<h1 id="chapter-one">Chapter One</h1>`,
				"<p>Call me Ishmael.</p>",
			},
		},
		{
			name:         "title escaped",
			content:      "text",
			title:        "<b>&</b>",
			wantContains: []string{"<title>&lt;b&gt;&amp;&lt;/b&gt;</title>"},
		},
		{
			name:         "typographer quotes",
			content:      `"quoted"`,
			wantContains: []string{"&ldquo;quoted&rdquo;"},
		},
		{
			name:         "gfm table",
			content:      "| a | b |\n|---|---|\n| 1 | 2 |",
			wantContains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:         "footnote",
			content:      "Text[^1].\n\n[^1]: Note.",
			wantContains: []string{`class="footnotes"`},
		},
		{
			name:         "raw html not passed through",
			content:      "<script>alert(1)</script>",
			wantContains: []string{"<!-- raw HTML omitted -->"},
		},
	}

	conv := NewGoldmarkConverter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := conv.ToHTML(context.Background(), tt.content, tt.title)
			if err != nil {
				t.Fatalf("ToHTML() unexpected error: %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("ToHTML() missing %q in:\n%s", want, got)
				}
			}
		})
	}
}

func TestGoldmarkConverter_ToHTML_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGoldmarkConverter().ToHTML(ctx, "# a", "")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ToHTML() error = %v, want context.Canceled", err)
	}
}
