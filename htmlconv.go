package booklet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-booklet/internal/assets"
	"github.com/alnah/go-booklet/internal/fileutil"
	"github.com/alnah/go-booklet/internal/pipeline"
	"github.com/alnah/go-booklet/internal/process"
)

// DefaultTimeout bounds page loading in headless Chrome.
const DefaultTimeout = 30 * time.Second

// A5 paper in inches with 2cm margins, the format the imposer folds two-up
// onto A4 landscape.
const (
	a5WidthInches  = 148 / 25.4
	a5HeightInches = 210 / 25.4
	a5MarginInches = 20 / 25.4
)

// footerTemplate is Chrome's header/footer template for a centered page number.
const footerTemplate = `<div style="font-size: 9pt; width: 100%; text-align: center;"><span class="pageNumber"></span></div>`

// HTMLInput describes one document to print as an A5 PDF.
type HTMLInput struct {
	Content   string // HTML, or Markdown when Markdown is set
	Markdown  bool
	Gutenberg bool   // keep only the book text of a Project Gutenberg export
	SourceDir string // directory relative images and stylesheets are resolved against
	CSS       string // appended after the converter's style
	Title     string // document title for Markdown input

	HidePageNumbers bool
}

// pdfOptions holds options for PDF generation.
type pdfOptions struct {
	pageNumbers bool
}

// pdfRenderer abstracts PDF rendering from an HTML file to enable testing without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error)
	Close() error
}

// Compile-time interface check.
var _ pdfRenderer = (*rodRenderer)(nil)

// HTMLConverter prints HTML and Markdown books to A5 PDFs with headless
// Chrome. The browser is started on first use and reused until Close.
// An HTMLConverter is not safe for concurrent use.
type HTMLConverter struct {
	renderer pdfRenderer
	markdown *pipeline.GoldmarkConverter
	style    string
	timeout  time.Duration
	broken   bool
}

// HTMLOption configures an HTMLConverter.
type HTMLOption func(*HTMLConverter)

// WithTimeout sets the page load timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) HTMLOption {
	return func(c *HTMLConverter) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithStyle replaces the embedded book stylesheet with css.
// An empty css disables styling.
func WithStyle(css string) HTMLOption {
	return func(c *HTMLConverter) {
		c.style = css
	}
}

// withRenderer injects a renderer (for testing).
func withRenderer(r pdfRenderer) HTMLOption {
	return func(c *HTMLConverter) {
		c.renderer = r
	}
}

// NewHTMLConverter creates an HTMLConverter using the embedded book style.
func NewHTMLConverter(opts ...HTMLOption) (*HTMLConverter, error) {
	style, err := assets.LoadStyle(assets.DefaultStyle)
	if err != nil {
		return nil, err
	}

	c := &HTMLConverter{
		markdown: pipeline.NewGoldmarkConverter(),
		style:    style,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.renderer == nil {
		c.renderer = newRodRenderer(c.timeout)
	}
	return c, nil
}

// Convert runs the HTML pipeline on in and returns the PDF bytes.
func (c *HTMLConverter) Convert(ctx context.Context, in HTMLInput) ([]byte, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, ErrEmptyInput
	}

	doc, err := c.prepare(ctx, in)
	if err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(doc, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	pdf, err := c.renderer.RenderFromFile(ctx, tmpPath, &pdfOptions{pageNumbers: !in.HidePageNumbers})
	if errors.Is(err, ErrPageCreate) {
		// The browser no longer opens tabs; it will not recover.
		c.broken = true
	}
	return pdf, err
}

// Broken reports whether the browser stopped answering during a Convert.
func (c *HTMLConverter) Broken() bool { return c.broken }

// prepare applies the pipeline stages and returns the HTML handed to Chrome.
func (c *HTMLConverter) prepare(ctx context.Context, in HTMLInput) (string, error) {
	doc := in.Content
	var err error

	if in.Markdown {
		doc, err = c.markdown.ToHTML(ctx, doc, in.Title)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
		}
	}

	if in.Gutenberg {
		doc, err = pipeline.CleanGutenberg(doc)
		if err != nil {
			return "", fmt.Errorf("%w: gutenberg cleanup: %v", ErrHTMLConversion, err)
		}
	}

	doc, err = pipeline.RewriteRelativePaths(doc, in.SourceDir)
	if err != nil {
		return "", fmt.Errorf("%w: rewriting paths: %v", ErrHTMLConversion, err)
	}

	css := c.style
	if in.CSS != "" {
		css += "\n" + in.CSS
	}
	return pipeline.InjectCSS(doc, css), nil
}

// Close releases browser resources.
func (c *HTMLConverter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}

// rodRenderer implements pdfRenderer using go-rod.
// Rod downloads Chromium on first run if none is found.
type rodRenderer struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Pre-installed browser (Docker, CI images)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// Sandboxing fails in most containers
	noSandbox := os.Getenv("ROD_NO_SANDBOX")
	if os.Getenv("CI") == "true" || noSandbox == "1" || noSandbox == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l

	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		r.killLauncher()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close closes the browser and kills Chrome with its helper processes.
func (r *rodRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	r.killLauncher()
	return err
}

func (r *rodRenderer) killLauncher() {
	if r.launcher == nil {
		return
	}
	if pid := r.launcher.PID(); pid > 0 {
		process.KillProcessGroup(pid)
	}
	r.launcher.Kill()
	r.launcher = nil
}

// RenderFromFile opens a local HTML file in headless Chrome and renders it to PDF.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Context(ctx).Timeout(timeout).WaitLoad(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	reader, err := page.PDF(buildPDFOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdfBuf, nil
}

// buildPDFOptions returns A5 print settings, with a centered page number
// footer unless disabled.
func buildPDFOptions(opts *pdfOptions) *proto.PagePrintToPDF {
	pdfOpts := &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(a5WidthInches),
		PaperHeight:     floatPtr(a5HeightInches),
		MarginTop:       floatPtr(a5MarginInches),
		MarginBottom:    floatPtr(a5MarginInches),
		MarginLeft:      floatPtr(a5MarginInches),
		MarginRight:     floatPtr(a5MarginInches),
		PrintBackground: true,
	}

	if opts != nil && opts.pageNumbers {
		pdfOpts.DisplayHeaderFooter = true
		pdfOpts.HeaderTemplate = "<span></span>"
		pdfOpts.FooterTemplate = footerTemplate
	}
	return pdfOpts
}

func floatPtr(v float64) *float64 {
	return &v
}
