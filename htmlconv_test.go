package booklet

// Notes:
// - Convert is tested with a recording renderer; the HTML handed to Chrome is
//   read back from the temp file while it still exists
// - Real Chrome rendering lives in htmlconv_integration_test.go

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"
)

// recordingRenderer implements pdfRenderer for testing.
type recordingRenderer struct {
	result []byte
	err    error
	html   string
	opts   *pdfOptions
	closed int
}

func (r *recordingRenderer) RenderFromFile(_ context.Context, filePath string, opts *pdfOptions) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	r.html = string(data)
	r.opts = opts
	return r.result, r.err
}

func (r *recordingRenderer) Close() error {
	r.closed++
	return nil
}

func newTestConverter(t *testing.T, r *recordingRenderer, opts ...HTMLOption) *HTMLConverter {
	t.Helper()
	c, err := NewHTMLConverter(append([]HTMLOption{withRenderer(r)}, opts...)...)
	if err != nil {
		t.Fatalf("NewHTMLConverter() unexpected error: %v", err)
	}
	return c
}

// ---------------------------------------------------------------------------
// TestHTMLConverter_Convert
// ---------------------------------------------------------------------------

func TestHTMLConverter_Convert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        HTMLInput
		opts         []HTMLOption
		wantContains []string
		wantExcludes []string
	}{
		{
			name:  "html gets book style",
			input: HTMLInput{Content: "<html><head></head><body><p>Hi</p></body></html>"},
			wantContains: []string{
				"<p>Hi</p>",
				".title-page",
				"page-break-before: always",
			},
		},
		{
			name:  "markdown converted with title",
			input: HTMLInput{Content: "# Chapter\n\nText", Markdown: true, Title: "My Book"},
			wantContains: []string{
				"<title>My Book</title>",
				`<h1 id="chapter">Chapter</h1>`,
			},
		},
		{
			name: "gutenberg cleanup",
			input: HTMLInput{
				Content: "<html><body><p>license</p>" +
					"<p>*** START OF THE PROJECT GUTENBERG EBOOK X ***</p>" +
					"<h1>Title</h1><p>Story</p>" +
					"<p>*** END OF THE PROJECT GUTENBERG EBOOK X ***</p></body></html>",
				Gutenberg: true,
			},
			wantContains: []string{`<div class="title-page"><h1>Title</h1></div>`, "<p>Story</p>"},
			wantExcludes: []string{"license"},
		},
		{
			name:         "relative images resolved",
			input:        HTMLInput{Content: `<p><img src="img/a.png"></p>`, SourceDir: "/books/x"},
			wantContains: []string{`src="file:///books/x/img/a.png"`},
		},
		{
			name:         "user css appended after style",
			input:        HTMLInput{Content: "<p>x</p>", CSS: "p{color:red}"},
			wantContains: []string{"p{color:red}", ".title-page"},
		},
		{
			name:         "style replaced",
			input:        HTMLInput{Content: "<p>x</p>"},
			opts:         []HTMLOption{WithStyle("body{margin:0}")},
			wantContains: []string{"body{margin:0}"},
			wantExcludes: []string{".title-page"},
		},
		{
			name:         "empty style and no css injects nothing",
			input:        HTMLInput{Content: "<p>x</p>"},
			opts:         []HTMLOption{WithStyle("")},
			wantExcludes: []string{"<style>"},
		},
		{
			name:  "page numbers hidden",
			input: HTMLInput{Content: "<p>x</p>", HidePageNumbers: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &recordingRenderer{result: []byte("%PDF-1.4")}
			c := newTestConverter(t, r, tt.opts...)

			got, err := c.Convert(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("Convert() unexpected error: %v", err)
			}
			if string(got) != "%PDF-1.4" {
				t.Errorf("Convert() = %q, want renderer output", got)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(r.html, want) {
					t.Errorf("rendered HTML missing %q:\n%s", want, r.html)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(r.html, exclude) {
					t.Errorf("rendered HTML should not contain %q:\n%s", exclude, r.html)
				}
			}
			if want := !tt.input.HidePageNumbers; r.opts == nil || r.opts.pageNumbers != want {
				t.Errorf("pageNumbers = %+v, want %v", r.opts, want)
			}
		})
	}
}

func TestHTMLConverter_Convert_Errors(t *testing.T) {
	t.Parallel()

	renderErr := errors.New("browser crashed")

	tests := []struct {
		name    string
		input   HTMLInput
		err     error
		wantErr error
	}{
		{
			name:    "empty content",
			input:   HTMLInput{Content: "  \n"},
			wantErr: ErrEmptyInput,
		},
		{
			name:    "renderer error propagates",
			input:   HTMLInput{Content: "<p>x</p>"},
			err:     renderErr,
			wantErr: renderErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestConverter(t, &recordingRenderer{err: tt.err})
			_, err := c.Convert(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Convert() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestHTMLConverter_Convert_CanceledMarkdown(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestConverter(t, &recordingRenderer{})
	_, err := c.Convert(ctx, HTMLInput{Content: "# a", Markdown: true})
	if !errors.Is(err, ErrHTMLConversion) {
		t.Errorf("Convert() error = %v, want ErrHTMLConversion", err)
	}
}

func TestHTMLConverter_Close(t *testing.T) {
	t.Parallel()

	r := &recordingRenderer{}
	c := newTestConverter(t, r)
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if r.closed != 1 {
		t.Errorf("renderer closed %d times, want 1", r.closed)
	}
}

func TestNewHTMLConverter_Defaults(t *testing.T) {
	t.Parallel()

	c, err := NewHTMLConverter(WithTimeout(-time.Second))
	if err != nil {
		t.Fatalf("NewHTMLConverter() unexpected error: %v", err)
	}
	defer c.Close()

	if c.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", c.timeout, DefaultTimeout)
	}
	if _, ok := c.renderer.(*rodRenderer); !ok {
		t.Errorf("renderer = %T, want *rodRenderer", c.renderer)
	}
}

// ---------------------------------------------------------------------------
// TestBuildPDFOptions
// ---------------------------------------------------------------------------

func TestBuildPDFOptions(t *testing.T) {
	t.Parallel()

	check := func(t *testing.T, name string, got *float64, want float64) {
		t.Helper()
		if got == nil || !approx(*got, want) {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}

	opts := buildPDFOptions(&pdfOptions{pageNumbers: true})
	check(t, "PaperWidth", opts.PaperWidth, 5.8268)
	check(t, "PaperHeight", opts.PaperHeight, 8.2677)
	check(t, "MarginBottom", opts.MarginBottom, 0.7874)
	if !opts.DisplayHeaderFooter || !strings.Contains(opts.FooterTemplate, `class="pageNumber"`) {
		t.Errorf("footer not configured: %+v", opts)
	}

	if plain := buildPDFOptions(nil); plain.DisplayHeaderFooter {
		t.Error("nil options should not display a footer")
	}
}

func TestHTMLConverter_Broken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"success", nil, false},
		{"page load timeout", fmt.Errorf("%w: timeout", ErrPageLoad), false},
		{"print failure", fmt.Errorf("%w: stream", ErrPDFGeneration), false},
		{"browser gone", fmt.Errorf("%w: websocket closed", ErrPageCreate), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestConverter(t, &recordingRenderer{err: tt.err})
			if c.Broken() {
				t.Fatal("new converter is broken")
			}
			_, _ = c.Convert(context.Background(), HTMLInput{Content: "<p>x</p>"})
			if got := c.Broken(); got != tt.want {
				t.Errorf("Broken() = %v, want %v", got, tt.want)
			}
		})
	}
}
