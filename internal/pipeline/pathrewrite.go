package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RewriteRelativePaths turns relative resource references into absolute
// file:// URLs under sourceDir, because the document is rendered from a
// temporary file elsewhere. An empty sourceDir returns the HTML unchanged.
//
// Rewritten: img[src] and link[rel=stylesheet][href] (Gutenberg exports ship
// their own images and CSS). Links between chapters (a[href]) are left alone:
// they have no meaning once printed. Paths escaping sourceDir are kept as-is.
func RewriteRelativePaths(htmlContent, sourceDir string) (string, error) {
	if sourceDir == "" {
		return htmlContent, nil
	}

	absDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		switch {
		case n.DataAtom == atom.Img:
			rewriteAttr(n, "src", absDir)
		case n.DataAtom == atom.Link && strings.EqualFold(getAttr(n, "rel"), "stylesheet"):
			rewriteAttr(n, "href", absDir)
		}
		return true
	})

	return renderHTML(doc, isFragment)
}

func rewriteAttr(n *html.Node, key, dir string) {
	for i, attr := range n.Attr {
		if attr.Key != key || !isRelativePath(attr.Val) {
			continue
		}
		abs := filepath.Join(dir, attr.Val)
		if !isPathUnderDir(abs, dir) {
			continue
		}
		n.Attr[i].Val = (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	}
}

// isRelativePath reports whether path is a relative filesystem reference.
func isRelativePath(path string) bool {
	if path == "" || strings.HasPrefix(path, "#") || strings.HasPrefix(path, "//") {
		return false
	}
	if u, err := url.Parse(path); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return false // http:, https:, file:, data: (single letters are Windows drives)
	}
	return !filepath.IsAbs(path)
}

// isPathUnderDir reports whether absPath is dir or below it.
func isPathUnderDir(absPath, dir string) bool {
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(filepath.Clean(absPath)+string(filepath.Separator), cleanDir)
}
