package extract

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/freightwiz/loadscout/pkg/models"
)

// Extractor parses one load-board row into a LoadRecord. Board markup is
// unversioned and changes between page revisions, so it applies an ordered
// list of strategies to a partial record: earlier strategies win per field,
// later strategies only fill fields that are still empty.
type Extractor struct {
	strategies []strategy
	logger     *slog.Logger
}

type strategy struct {
	Name  string
	Apply func(row *goquery.Selection, rec *models.LoadRecord)
}

// NewExtractor creates a new field extractor
func NewExtractor(logger *slog.Logger) *Extractor {
	e := &Extractor{
		logger: logger.With("component", "extractor"),
	}
	e.strategies = []strategy{
		{Name: "structured_cells", Apply: e.applyStructuredCells},
		{Name: "anchors", Apply: e.applyAnchors},
		{Name: "row_fallback", Apply: e.applyRowFallback},
		{Name: "identifier", Apply: e.applyIdentifier},
	}
	return e
}

// Strategies returns the names of the extraction strategies in priority order.
func (e *Extractor) Strategies() []string {
	names := make([]string, len(e.strategies))
	for i, s := range e.strategies {
		names[i] = s.Name
	}
	return names
}

// Extract produces a LoadRecord from a row selection. Partial records are
// valid output; a nil return means the row blew up mid-parse and should be
// skipped without aborting the scan pass.
func (e *Extractor) Extract(row *goquery.Selection) (rec *models.LoadRecord) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("row extraction panicked", "panic", r)
			rec = nil
		}
	}()

	rec = &models.LoadRecord{}
	for _, s := range e.strategies {
		s.Apply(row, rec)
	}
	return rec
}

// applyStructuredCells scans the row's cells and matches each cell's column
// hint (col-id attribute, class names, ordinal position) against per-field
// keyword sets, then pattern-matches inside the matched cell.
func (e *Extractor) applyStructuredCells(row *goquery.Selection, rec *models.LoadRecord) {
	cells(row).Each(func(i int, cell *goquery.Selection) {
		hint := columnHint(cell, i)
		raw := strings.TrimSpace(cell.Text())
		text := cleanText(raw)
		if text == "" {
			return
		}

		if rec.OriginCity == "" && hintMatches(hint, originKeywords) {
			rec.OriginCity, rec.OriginState = parseCityState(text)
		}
		if rec.DestinationCity == "" && hintMatches(hint, destKeywords) {
			rec.DestinationCity, rec.DestinationState = parseCityState(text)
		}
		if rec.Miles == 0 && hintMatches(hint, milesKeywords) {
			rec.Miles = parseMiles(text)
		}
		// A currency symbol marks a rate cell even without a column hint,
		// but only the first dollar amount in the row counts.
		if rec.Rate == 0 && (hintMatches(hint, rateKeywords) || strings.Contains(text, "$")) {
			rec.Rate = parseRate(text)
		}
		if rec.EquipmentType == "" {
			if hintMatches(hint, equipKeywords) {
				rec.EquipmentType = parseEquipment(text)
			} else if eq := parseEquipment(hint); eq != "" {
				// Some boards encode the trailer type in the cell's class
				// instead of its text.
				rec.EquipmentType = eq
			}
		}
		if hintMatches(hint, brokerKeywords) {
			// Broker cells often stack name, MC and phone on separate
			// lines; the name is the first one.
			if rec.BrokerName == "" && len(text) > 2 {
				rec.BrokerName = cleanText(firstLine(raw))
			}
			if rec.BrokerMC == "" {
				rec.BrokerMC = parseMC(text)
			}
		}
		if rec.PickupDate == "" && hintMatches(hint, pickupDateKeywords) {
			rec.PickupDate = cleanText(firstLine(raw))
		}
	})
}

// applyAnchors pulls contact details out of mailto:/tel: anchors and
// data-email attributes anywhere under the row.
func (e *Extractor) applyAnchors(row *goquery.Selection, rec *models.LoadRecord) {
	if rec.BrokerEmail == "" {
		if href, ok := row.Find(`a[href^="mailto:"]`).First().Attr("href"); ok {
			addr := strings.TrimPrefix(href, "mailto:")
			// mailto targets may carry ?subject=... parameters
			if i := strings.IndexByte(addr, '?'); i >= 0 {
				addr = addr[:i]
			}
			rec.BrokerEmail = addr
		}
	}
	if rec.BrokerEmail == "" {
		attr := row.Find("[data-email], [data-contact-email]").First()
		if v, ok := attr.Attr("data-email"); ok && v != "" {
			rec.BrokerEmail = v
		} else if v, ok := attr.Attr("data-contact-email"); ok && v != "" {
			rec.BrokerEmail = v
		}
	}
	if rec.BrokerPhone == "" {
		if href, ok := row.Find(`a[href^="tel:"]`).First().Attr("href"); ok {
			rec.BrokerPhone = strings.TrimPrefix(href, "tel:")
		}
	}
}

// applyRowFallback scans the row's full visible text for fields the
// structured pass left empty. The first city/state occurrence is taken as
// the origin and the second as the destination.
func (e *Extractor) applyRowFallback(row *goquery.Selection, rec *models.LoadRecord) {
	text := cleanText(row.Text())
	if text == "" {
		return
	}

	if rec.OriginCity == "" || rec.DestinationCity == "" {
		matches := rowCityStateRe.FindAllStringSubmatch(text, 2)
		if rec.OriginCity == "" && len(matches) >= 1 {
			rec.OriginCity = strings.TrimSpace(matches[0][1])
			rec.OriginState = matches[0][2]
		}
		if rec.DestinationCity == "" && len(matches) >= 2 {
			rec.DestinationCity = strings.TrimSpace(matches[1][1])
			rec.DestinationState = matches[1][2]
		}
	}
	if rec.Rate == 0 {
		if m := rowRateRe.FindStringSubmatch(strings.ReplaceAll(text, ",", "")); m != nil {
			rec.Rate = parseFloat(m[1])
		}
	}
	if rec.Miles == 0 {
		if m := rowMilesRe.FindStringSubmatch(text); m != nil {
			rec.Miles = parseInt(m[1])
		}
	}
	if rec.BrokerMC == "" {
		rec.BrokerMC = parseMC(text)
	}
	if rec.BrokerPhone == "" {
		if m := loosePhoneRe.FindString(text); m != "" {
			rec.BrokerPhone = m
		}
	}
}

// applyIdentifier assigns the load id: a page-provided row id when present,
// else a synthetic one. Synthetic ids are not stable across reloads; they
// only feed the injection marker and the emailed-set within one session.
func (e *Extractor) applyIdentifier(row *goquery.Selection, rec *models.LoadRecord) {
	if rec.LoadID != "" {
		return
	}
	for _, attr := range []string{"row-id", "row-index", "data-row-id", "id"} {
		if v, ok := row.Attr(attr); ok && v != "" {
			rec.LoadID = v
			return
		}
	}
	rec.LoadID = syntheticID()
}
