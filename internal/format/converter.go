// Package format provides email body conversion utilities.
package format

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

	whitespaceRun = regexp.MustCompile(`\s+`)
	spaceRun      = regexp.MustCompile(` {2,}`)
)

// Converter handles email body conversions.
type Converter struct{}

// MD2HTML renders GitHub flavoured Markdown to HTML.
func (c Converter) MD2HTML(raw []byte) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert(raw, &buf); err != nil {
		return "", fmt.Errorf("markdown.Convert failed: %w", err)
	}

	return buf.String(), nil
}

// HTML2Text extracts the readable text of an HTML document, suitable as the
// plain-text alternative of an email. Block elements become line breaks,
// list items are prefixed with "- " and links keep their target in brackets.
// Single-column layout tables are flattened into plain blocks.
func (c Converter) HTML2Text(raw []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("html.Parse failed: %w", err)
	}

	w := &textWriter{}
	w.node(doc)

	return w.result(), nil
}

type textWriter struct {
	sb  strings.Builder
	pre int
	// layout holds, per open table, whether it is a layout table.
	layout []bool
}

func (w *textWriter) node(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
	default:
		w.children(n)
		return
	}

	switch n.DataAtom {
	case atom.Head, atom.Script, atom.Style, atom.Template, atom.Noscript:
	case atom.Br:
		w.sb.WriteByte('\n')
	case atom.Hr:
		w.newlines(2)
		w.sb.WriteString("---")
		w.newlines(2)
	case atom.A:
		w.link(n)
	case atom.Pre:
		w.newlines(2)
		w.pre++
		w.children(n)
		w.pre--
		w.newlines(2)
	case atom.Table:
		w.table(n)
	case atom.P, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Ul, atom.Ol, atom.Blockquote:
		w.newlines(2)
		w.children(n)
		w.newlines(2)
	case atom.Li:
		w.newlines(1)
		w.sb.WriteString("- ")
		w.children(n)
		w.newlines(1)
	case atom.Div, atom.Tr, atom.Section, atom.Article, atom.Header, atom.Footer:
		w.newlines(1)
		w.children(n)
		w.newlines(1)
	case atom.Td, atom.Th:
		if !w.inLayout() {
			w.sb.WriteByte(' ')
		}
		w.children(n)
	default:
		w.children(n)
	}
}

func (w *textWriter) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.node(c)
	}
}

func (w *textWriter) table(n *html.Node) {
	layout := isLayoutTable(n)
	w.layout = append(w.layout, layout)
	defer func() { w.layout = w.layout[:len(w.layout)-1] }()

	if layout {
		w.newlines(1)
		w.children(n)
		w.newlines(1)
		return
	}

	w.newlines(2)
	w.children(n)
	w.newlines(2)
}

func (w *textWriter) inLayout() bool {
	return len(w.layout) > 0 && w.layout[len(w.layout)-1]
}

func (w *textWriter) text(s string) {
	if w.pre > 0 {
		w.sb.WriteString(s)
		return
	}

	s = whitespaceRun.ReplaceAllString(s, " ")
	if s == " " && w.atLineStart() {
		return
	}

	w.sb.WriteString(s)
}

func (w *textWriter) link(n *html.Node) {
	start := w.sb.Len()
	w.children(n)

	href := ""
	for _, a := range n.Attr {
		if a.Key == "href" {
			href = strings.TrimSpace(a.Val)
		}
	}

	label := strings.TrimSpace(w.sb.String()[start:])
	if href == "" || strings.HasPrefix(href, "#") || href == label {
		return
	}

	fmt.Fprintf(&w.sb, " (%s)", href)
}

func (w *textWriter) atLineStart() bool {
	s := strings.TrimRight(w.sb.String(), " ")
	return s == "" || strings.HasSuffix(s, "\n")
}

// newlines makes the output end with at least n line breaks.
func (w *textWriter) newlines(n int) {
	s := strings.TrimRight(w.sb.String(), " ")
	if s == "" {
		return
	}

	have := len(s) - len(strings.TrimRight(s, "\n"))
	for range n - have {
		w.sb.WriteByte('\n')
	}
}

func (w *textWriter) result() string {
	lines := strings.Split(w.sb.String(), "\n")
	out := make([]string, 0, len(lines))
	blank := false

	for _, line := range lines {
		line = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}
