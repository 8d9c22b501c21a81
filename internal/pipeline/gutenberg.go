package pipeline

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Markers framing the book text in Project Gutenberg HTML exports.
const (
	gutenbergStart = "*** START OF THE PROJECT GUTENBERG EBOOK"
	gutenbergEnd   = "*** END OF THE PROJECT GUTENBERG EBOOK"
)

// TitlePageClass is set on the element wrapping the first heading.
// The booklet stylesheet centers it on its own page.
const TitlePageClass = "title-page"

// CleanGutenberg extracts the book text from a Project Gutenberg HTML export.
//
// Content strictly between the START and END markers is kept, everything
// else (license header and footer, navigation) is dropped. Scripts and
// styles are removed and the first h1 is wrapped in a div.title-page.
// When either marker is missing the whole document is kept and only the
// script/style removal and title wrapping are applied.
func CleanGutenberg(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	start := findText(doc, gutenbergStart)
	end := findText(doc, gutenbergEnd)

	if start != nil && end != nil {
		if body, ok := extractBetween(start, end); ok {
			doc = newDocument(titleOf(doc), body)
		}
	}

	removeElements(doc, atom.Script, atom.Style)
	if h1 := findElement(doc, atom.H1); h1 != nil {
		wrapTitle(h1)
	}

	return renderHTML(doc, false)
}

// findText returns the first text node containing s.
func findText(n *html.Node, s string) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) bool {
		if found != nil {
			return false
		}
		if c.Type == html.TextNode && strings.Contains(c.Data, s) {
			found = c
		}
		return true
	})
	return found
}

// extractBetween detaches the nodes lying between the branches holding a
// and b below their lowest common ancestor. ok is false if b does not
// follow a.
func extractBetween(a, b *html.Node) (nodes []*html.Node, ok bool) {
	ancestors := make(map[*html.Node]*html.Node) // ancestor -> child on the path to a
	for child, p := a, a.Parent; p != nil; child, p = p, p.Parent {
		ancestors[p] = child
	}

	var common, branchB *html.Node
	for child, p := b, b.Parent; p != nil; child, p = p, p.Parent {
		if _, ok := ancestors[p]; ok {
			common, branchB = p, child
			break
		}
	}
	if common == nil {
		return nil, false
	}
	branchA := ancestors[common]
	if branchA == branchB {
		return nil, false // both markers in the same text node
	}

	for c := branchA.NextSibling; c != branchB; c = c.NextSibling {
		if c == nil {
			return nil, false // b precedes a
		}
		nodes = append(nodes, c)
	}
	for _, n := range nodes {
		common.RemoveChild(n)
	}
	return nodes, true
}

func titleOf(doc *html.Node) string {
	if t := findElement(doc, atom.Title); t != nil {
		return strings.TrimSpace(textContent(t))
	}
	return ""
}

// newDocument builds a minimal UTF-8 document holding body.
func newDocument(title string, body []*html.Node) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	head := element(atom.Head)
	meta := element(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head.AppendChild(meta)
	if title != "" {
		t := element(atom.Title)
		t.AppendChild(&html.Node{Type: html.TextNode, Data: title})
		head.AppendChild(t)
	}

	bodyEl := element(atom.Body)
	for _, n := range body {
		bodyEl.AppendChild(n)
	}

	root.AppendChild(head)
	root.AppendChild(bodyEl)
	doc.AppendChild(root)
	return doc
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func wrapTitle(h1 *html.Node) {
	wrapper := element(atom.Div)
	wrapper.Attr = []html.Attribute{{Key: "class", Val: TitlePageClass}}
	h1.Parent.InsertBefore(wrapper, h1)
	h1.Parent.RemoveChild(h1)
	wrapper.AppendChild(h1)
}
