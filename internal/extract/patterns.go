package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/freightwiz/loadscout/pkg/models"
)

// Column hint keyword sets, matched case-insensitively against a cell's
// col-id attribute and class list.
var (
	originKeywords     = []string{"origin", "pickup", "from", "start"}
	destKeywords       = []string{"dest", "delivery", "to", "end", "drop"}
	milesKeywords      = []string{"mile", "distance", "length"}
	rateKeywords       = []string{"rate", "price", "amount"}
	equipKeywords      = []string{"equip", "type", "trailer"}
	brokerKeywords     = []string{"company", "broker", "poster", "contact", "name"}
	pickupDateKeywords = []string{"date", "avail", "ship"}
)

var (
	// "City Name, ST" inside a single cell; a bare "ST" cell is state-only.
	cellCityStateRe = regexp.MustCompile(`([A-Za-z][A-Za-z .]*?),\s*([A-Z]{2})\b`)
	stateOnlyRe     = regexp.MustCompile(`^[A-Z]{2}$`)
	// Capitalized city words in free-running row text; stricter than the
	// cell pattern so column labels don't swallow neighbouring words.
	rowCityStateRe = regexp.MustCompile(`([A-Z][a-z]+(?: [A-Z][a-z]+)?),\s*([A-Z]{2})\b`)
	digitsRe       = regexp.MustCompile(`(\d+)`)
	cellRateRe     = regexp.MustCompile(`\$?\s*(\d+(?:\.\d{2})?)`)
	rowRateRe      = regexp.MustCompile(`\$\s*(\d+(?:\.\d{2})?)`)
	rowMilesRe     = regexp.MustCompile(`(?i)\b(\d{1,4})\s*mi(?:les)?\b`)
	mcRe           = regexp.MustCompile(`(?i)MC[#:\s-]*(\d+)`)
	loosePhoneRe   = regexp.MustCompile(`\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// cells returns the row's data cells, falling back to direct children for
// markup that uses neither table cells nor grid roles.
func cells(row *goquery.Selection) *goquery.Selection {
	found := row.Find(`td, .ag-cell, [role="gridcell"], [role="cell"]`)
	if found.Length() > 0 {
		return found
	}
	return row.Children()
}

// columnHint builds the lowercase identifier string a cell is matched by:
// its col-id style attributes, its class list, and its ordinal position.
func columnHint(cell *goquery.Selection, ordinal int) string {
	var parts []string
	for _, attr := range []string{"col-id", "data-col-id", "data-field", "aria-colid"} {
		if v, ok := cell.Attr(attr); ok && v != "" {
			parts = append(parts, v)
		}
	}
	if class, ok := cell.Attr("class"); ok && class != "" {
		parts = append(parts, class)
	}
	parts = append(parts, fmt.Sprintf("col%d", ordinal))
	return strings.ToLower(strings.Join(parts, " "))
}

func hintMatches(hint string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(hint, kw) {
			return true
		}
	}
	return false
}

// parseCityState splits "City, ST" cell text. A cell that is exactly a
// two-letter state code yields a state with no city.
func parseCityState(text string) (city, state string) {
	if stateOnlyRe.MatchString(text) {
		return "", text
	}
	m := cellCityStateRe.FindStringSubmatch(text)
	if m == nil {
		return "", ""
	}
	return strings.TrimSpace(m[1]), m[2]
}

func parseMiles(text string) int {
	m := digitsRe.FindStringSubmatch(strings.ReplaceAll(text, ",", ""))
	if m == nil {
		return 0
	}
	return parseInt(m[1])
}

func parseRate(text string) float64 {
	m := cellRateRe.FindStringSubmatch(strings.ReplaceAll(text, ",", ""))
	if m == nil {
		return 0
	}
	return parseFloat(m[1])
}

func parseEquipment(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "van"):
		return models.EquipmentVan
	case strings.Contains(lower, "reefer"), strings.Contains(lower, "refrig"):
		return models.EquipmentReefer
	case strings.Contains(lower, "flatbed"), strings.Contains(lower, "flat"):
		return models.EquipmentFlatbed
	case strings.Contains(lower, "step"):
		return models.EquipmentStepDeck
	}
	return ""
}

// parseMC normalizes any "MC# 123456" style token to "MC123456".
func parseMC(text string) string {
	m := mcRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return "MC" + m[1]
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return strings.TrimSpace(line)
}

func cleanText(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func syntheticID() string {
	return fmt.Sprintf("ts_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
