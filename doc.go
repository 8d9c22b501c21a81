// Package booklet imposes a linear PDF into booklet signatures for duplex
// printing and saddle stitching.
//
// # Quick Start
//
// Create an imposer and run it on a file:
//
//	im := booklet.NewImposer()
//
//	cfg := booklet.DefaultPlacementConfig()
//	cfg.Mode = booklet.ModeGB
//	cfg.Creep = booklet.MM(0.1)
//
//	report, err := im.Impose(ctx, "novel.pdf", booklet.DefaultOutputPath("novel.pdf"), cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(report.Sheets, "sheets")
//
// The output holds one A4 landscape recto page and one verso page per
// physical sheet, each carrying two A5 halves. Printed duplex, folded once
// and stitched, every signature reads in order.
//
// # Pipeline
//
// An imposition run goes through these stages:
//
//  1. BuildSequence lists the source pages, dropping the covers and adding
//     binding blanks (ModeBook) or prepending two blanks (ModeGB)
//  2. SplitSignatures cuts the sequence into booklets of the signature length,
//     padding the last one to a multiple of 4
//  3. PlanSheets maps booklet positions onto sheet faces
//  4. SheetRects and FitRect compute where each page is drawn, with gutter,
//     bleed overlap and creep compensation
//  5. Imposer.Compose draws every page through the Backend
//
// Each stage is a pure function and can be used on its own.
//
// # Failures
//
// Configuration errors and unreadable or password-protected sources abort
// the run before any output is written. A single page that cannot be drawn
// is recorded as a *PlacementError in Report.Skipped and its slot stays
// blank, unless PlacementConfig.Strict is set.
//
// # Backends
//
// The default Backend reads sources with pdfcpu and writes the output with
// fpdf and gofpdi. Provide another one with WithBackend.
//
// # HTML Books
//
// HTMLConverter prints HTML or Markdown books to A5 PDFs with headless
// Chrome, ready for imposition. For several files use ConverterPool:
//
//	pool := booklet.NewConverterPool(booklet.ResolvePoolSize(0))
//	defer pool.Close()
//
//	conv, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
//
//	pdf, err := conv.Convert(ctx, booklet.HTMLInput{Content: html, Gutenberg: true})
package booklet
