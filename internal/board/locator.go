package board

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// rowSelectors is the prioritized list of structural selectors candidate
// rows are collected from. Boards ship AG Grid, ARIA grids and plain tables
// depending on page revision, so the union of all of them is taken and
// deduplicated.
var rowSelectors = []string{
	".ag-row",
	`[role="row"]`,
	"table tbody tr",
	".load-row",
	"[data-row-id]",
	`[data-testid*="load"]`,
	`[data-testid*="row"]`,
}

const (
	// minCells guards against separator and spacer rows.
	minCells = 2
	// minTextLen guards against placeholder/loading rows.
	minTextLen = 10
)

// Locator finds candidate load rows in a page snapshot.
type Locator struct{}

// NewLocator creates a new row locator
func NewLocator() *Locator {
	return &Locator{}
}

// Candidates returns the rows in doc that look like unprocessed load rows.
// A row matched by several selectors is returned once; ordering follows the
// selector priority list but carries no meaning for callers.
func (l *Locator) Candidates(doc *goquery.Document) []*goquery.Selection {
	seen := make(map[*html.Node]bool)
	var rows []*goquery.Selection

	for _, selector := range rowSelectors {
		doc.Find(selector).Each(func(_ int, row *goquery.Selection) {
			node := row.Get(0)
			if seen[node] {
				return
			}
			seen[node] = true

			if !l.usable(row) {
				return
			}
			rows = append(rows, row)
		})
	}
	return rows
}

// usable filters out processed, header and non-data rows.
func (l *Locator) usable(row *goquery.Selection) bool {
	if _, processed := row.Attr(markerAttr); processed {
		return false
	}
	if isHeaderRow(row) {
		return false
	}
	if cellCount(row) < minCells {
		return false
	}
	if len(strings.TrimSpace(row.Text())) < minTextLen {
		return false
	}
	return true
}

func isHeaderRow(row *goquery.Selection) bool {
	if class, ok := row.Attr("class"); ok && strings.Contains(strings.ToLower(class), "header") {
		return true
	}
	return row.Find(`th, .ag-header-cell, [role="columnheader"]`).Length() > 0
}

func cellCount(row *goquery.Selection) int {
	n := row.Find(`td, .ag-cell, [role="gridcell"], [role="cell"]`).Length()
	if n == 0 {
		n = row.Children().Length()
	}
	return n
}
