// Package pipeline prepares HTML for print rendering.
//
// Stages, in the order the HTML converter applies them:
//   - Markdown to HTML via Goldmark (manuscripts written in Markdown)
//   - Project Gutenberg cleanup (keep the text between the START/END markers)
//   - Relative path rewriting to file:// URLs (the document is rendered from a temp file)
//   - CSS injection (book style plus user CSS)
//
// PDF rendering is handled by the root booklet package using headless Chrome.
package pipeline
