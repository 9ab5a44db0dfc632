package fetch

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// skipElements are HTML elements whose content is never readable text.
var skipElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Iframe:   true,
	atom.Svg:      true,
	atom.Nav:      true,
	atom.Footer:   true,
	atom.Header:   true,
}

// extractHTML parses HTML and returns the title and readable text.
func extractHTML(raw string) (title, text string) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		// The html parser recovers from almost anything, so this is
		// rare; return nothing rather than raw markup.
		return "", ""
	}

	var w walker
	w.walk(doc)
	return strings.TrimSpace(w.title.String()), cleanWhitespace(w.text.String())
}

// walker accumulates the document title and visible text in one DOM
// traversal. Inside <head>, only the <title> contributes output.
type walker struct {
	title   strings.Builder
	text    strings.Builder
	inHead  bool
	inTitle bool
}

func (w *walker) walk(n *html.Node) {
	switch n.Type {
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Head:
			w.inHead = true
			defer func() { w.inHead = false }()
		case atom.Title:
			w.inTitle = true
			defer func() { w.inTitle = false }()
		default:
			if skipElements[n.DataAtom] {
				return
			}
			if isBlockElement(n.DataAtom) && w.text.Len() > 0 {
				w.text.WriteString("\n\n")
			}
		}
	case html.TextNode:
		if w.inTitle {
			w.title.WriteString(n.Data)
			return
		}
		if w.inHead {
			return
		}
		if t := strings.TrimSpace(n.Data); t != "" {
			w.text.WriteString(t)
			w.text.WriteString(" ")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}

	if n.Type == html.ElementNode && (n.DataAtom == atom.Br || n.DataAtom == atom.Li) {
		w.text.WriteString("\n")
	}
}

// isBlockElement reports whether the element renders as a block.
func isBlockElement(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Main,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Blockquote, atom.Pre, atom.Ul, atom.Ol, atom.Table,
		atom.Tr, atom.Dl, atom.Dd, atom.Dt, atom.Figcaption, atom.Figure,
		atom.Details, atom.Summary, atom.Hr:
		return true
	}
	return false
}

// cleanWhitespace collapses runs of spaces within lines and squeezes
// consecutive blank lines.
func cleanWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	var cleaned []string
	prevEmpty := false

	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if prevEmpty {
				continue
			}
			prevEmpty = true
		} else {
			prevEmpty = false
		}
		cleaned = append(cleaned, line)
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}
