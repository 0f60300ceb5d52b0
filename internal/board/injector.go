package board

import (
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// markerAttr flags a row as processed. It lives on the row element itself,
// so it disappears with the row when the host page destroys it.
const markerAttr = "data-fcp-injected"

const (
	containerClass = "fcp-btn-container"
	loadIDAttr     = "data-fcp-load-id"
	sentClass      = "fcp-sent"
)

// Injector places inquiry controls into located rows, exactly once per row.
type Injector struct{}

// NewInjector creates a new injection tracker
func NewInjector() *Injector {
	return &Injector{}
}

// Inject inserts a controls container at the front of the row's target cell
// and sets the processed marker. Re-invocation on a processed row, or on a
// row whose target cell already holds a container, is a no-op. Returns true
// when controls were actually inserted.
func (ij *Injector) Inject(row *goquery.Selection, loadID string) bool {
	if _, processed := row.Attr(markerAttr); processed {
		return false
	}

	cell := targetCell(row)
	if cell == nil {
		return false
	}
	if cell.Find("." + containerClass).Length() > 0 {
		row.SetAttr(markerAttr, "true")
		return false
	}

	cell.PrependHtml(controlsHTML(loadID))
	ensureVisible(cell)
	row.SetAttr(markerAttr, "true")
	return true
}

// Reset clears all processed markers and removes every injected container
// from doc, permitting full re-injection. Diagnostic use only.
func (ij *Injector) Reset(doc *goquery.Document) int {
	removed := doc.Find("." + containerClass).Length()
	doc.Find("." + containerClass).Remove()
	doc.Find("[" + markerAttr + "]").RemoveAttr(markerAttr)
	return removed
}

// MarkSent flips the row's send control to its terminal sent state. There is
// no way back short of a full Reset.
func (ij *Injector) MarkSent(doc *goquery.Document, loadID string) bool {
	btn := doc.Find(fmt.Sprintf(`.%s[%s=%q] .fcp-btn-send`, containerClass, loadIDAttr, loadID))
	if btn.Length() == 0 {
		return false
	}
	btn.AddClass(sentClass)
	btn.SetAttr("disabled", "disabled")
	btn.SetAttr("title", "Sent")
	return true
}

// targetCell picks where controls go: a cell whose column identifier hints
// at actions/buttons, else the last data cell.
func targetCell(row *goquery.Selection) *goquery.Selection {
	hinted := row.Find(
		`td[col-id*="action"], td[col-id*="button"], td[class*="action"], ` +
			`.ag-cell[col-id*="action"], .ag-cell[col-id*="Action"], ` +
			`.ag-cell[col-id*="button"], .ag-cell[col-id*="Button"], ` +
			`.ag-cell[col-id*="menu"], td[class*="menu"]`,
	).First()
	if hinted.Length() > 0 {
		return hinted
	}

	cellSel := row.Find(`td, .ag-cell, [role="gridcell"], [role="cell"]`)
	if cellSel.Length() == 0 {
		cellSel = row.Children()
	}
	if cellSel.Length() == 0 {
		return nil
	}
	return cellSel.Last()
}

// ensureVisible keeps injected controls from being clipped by the cell.
func ensureVisible(cell *goquery.Selection) {
	style, _ := cell.Attr("style")
	if strings.Contains(style, "overflow") {
		return
	}
	if style != "" && !strings.HasSuffix(style, ";") {
		style += ";"
	}
	cell.SetAttr("style", style+"overflow: visible")
}

func controlsHTML(loadID string) string {
	id := html.EscapeString(loadID)
	return fmt.Sprintf(
		`<div class=%q %s=%q>`+
			`<button type="button" class="fcp-btn fcp-btn-send" title="Quick Send"></button>`+
			`<button type="button" class="fcp-btn fcp-btn-compose" title="Compose"></button>`+
			`</div>`,
		containerClass, loadIDAttr, id,
	)
}
