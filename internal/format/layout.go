package format

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// maxLayoutRows is the row count above which a single-column table is read as a list of data.
const maxLayoutRows = 5

// isLayoutTable reports whether table only positions content, as email
// templates do with single-column wrappers, rather than holding tabular data.
// Rows of nested tables are not counted.
func isLayoutTable(table *html.Node) bool {
	var (
		headers bool
		cols    int
		rows    int
	)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}

			switch c.DataAtom {
			case atom.Table:
			case atom.Thead, atom.Th:
				headers = true
			case atom.Tr:
				cols = max(cols, countCells(c))
				if hasText(c) {
					rows++
				}
				walk(c)
			default:
				walk(c)
			}
		}
	}
	walk(table)

	return !headers && cols <= 1 && rows <= maxLayoutRows
}

func countCells(tr *html.Node) int {
	cells := 0
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
			cells++
		}
	}
	return cells
}

func hasText(n *html.Node) bool {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data) != ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if hasText(c) {
			return true
		}
	}
	return false
}
