package extract

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rowFromHTML(t *testing.T, markup string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	row := doc.Find("[data-test-row]").First()
	require.Equal(t, 1, row.Length(), "test markup must contain one [data-test-row]")
	return row
}

func TestExtract_StructuredGridRow(t *testing.T) {
	row := rowFromHTML(t, `
		<div class="ag-row" row-id="load-42" data-test-row>
			<div class="ag-cell" col-id="origin">Dallas, TX</div>
			<div class="ag-cell" col-id="destination">Atlanta, GA</div>
			<div class="ag-cell" col-id="miles">780</div>
			<div class="ag-cell" col-id="rate">$2,500</div>
			<div class="ag-cell" col-id="equipment">Reefer</div>
			<div class="ag-cell" col-id="company">Acme Logistics
MC# 123456</div>
			<div class="ag-cell" col-id="ship-date">09/15</div>
			<div class="ag-cell"><a href="mailto:ops@acme.example?subject=hi">email</a>
				<a href="tel:555-123-4567">call</a></div>
		</div>`)

	rec := NewExtractor(testLogger()).Extract(row)
	require.NotNil(t, rec)

	assert.Equal(t, "load-42", rec.LoadID)
	assert.Equal(t, "Dallas", rec.OriginCity)
	assert.Equal(t, "TX", rec.OriginState)
	assert.Equal(t, "Atlanta", rec.DestinationCity)
	assert.Equal(t, "GA", rec.DestinationState)
	assert.Equal(t, 780, rec.Miles)
	assert.Equal(t, 2500.0, rec.Rate)
	assert.Equal(t, "Reefer", rec.EquipmentType)
	assert.Equal(t, "Acme Logistics", rec.BrokerName)
	assert.Equal(t, "MC123456", rec.BrokerMC)
	assert.Equal(t, "09/15", rec.PickupDate)
	assert.Equal(t, "ops@acme.example", rec.BrokerEmail)
	assert.Equal(t, "555-123-4567", rec.BrokerPhone)
}

func TestExtract_PlainTableRowFallback(t *testing.T) {
	row := rowFromHTML(t, `
		<table><tbody>
		<tr data-test-row>
			<td>Dallas, TX</td>
			<td>Atlanta, GA</td>
			<td>$1800</td>
			<td>500 mi</td>
			<td>MC 998877 (555) 123-4567</td>
		</tr>
		</tbody></table>`)

	rec := NewExtractor(testLogger()).Extract(row)
	require.NotNil(t, rec)

	assert.Equal(t, "Dallas", rec.OriginCity)
	assert.Equal(t, "TX", rec.OriginState)
	assert.Equal(t, "Atlanta", rec.DestinationCity)
	assert.Equal(t, "GA", rec.DestinationState)
	assert.Equal(t, 1800.0, rec.Rate)
	assert.Equal(t, 500, rec.Miles)
	assert.Equal(t, "MC998877", rec.BrokerMC)
	assert.Equal(t, "(555) 123-4567", rec.BrokerPhone)
	// No row id on the markup, so the identity is synthesized.
	assert.True(t, strings.HasPrefix(rec.LoadID, "ts_"), "got %q", rec.LoadID)
}

func TestExtract_UnhintedRow(t *testing.T) {
	// No col-ids at all; the trailer type rides in a cell class.
	row := rowFromHTML(t, `
		<div class="ag-row" data-test-row>
			<div class="ag-cell">Chicago, IL</div>
			<div class="ag-cell">Dallas, TX</div>
			<div class="ag-cell">920 mi</div>
			<div class="ag-cell">$2,300</div>
			<div class="ag-cell cell-van"></div>
		</div>`)

	rec := NewExtractor(testLogger()).Extract(row)
	require.NotNil(t, rec)

	assert.Equal(t, "Chicago", rec.OriginCity)
	assert.Equal(t, "IL", rec.OriginState)
	assert.Equal(t, "Dallas", rec.DestinationCity)
	assert.Equal(t, "TX", rec.DestinationState)
	assert.Equal(t, 920, rec.Miles)
	assert.Equal(t, 2300.0, rec.Rate)
	assert.Equal(t, "Van", rec.EquipmentType)
}

func TestExtract_FirstRateWins(t *testing.T) {
	row := rowFromHTML(t, `
		<div class="ag-row" data-test-row>
			<div class="ag-cell">Dallas, TX to Atlanta, GA loaded</div>
			<div class="ag-cell">$2500</div>
			<div class="ag-cell">$3.21 per mile est</div>
		</div>`)

	rec := NewExtractor(testLogger()).Extract(row)
	require.NotNil(t, rec)
	assert.Equal(t, 2500.0, rec.Rate)
}

func TestExtract_StateOnlyCell(t *testing.T) {
	row := rowFromHTML(t, `
		<div class="ag-row" data-test-row>
			<div class="ag-cell" col-id="origin">TX</div>
			<div class="ag-cell" col-id="destination">GA</div>
			<div class="ag-cell">some load details here</div>
		</div>`)

	rec := NewExtractor(testLogger()).Extract(row)
	require.NotNil(t, rec)
	assert.Empty(t, rec.OriginCity)
	assert.Equal(t, "TX", rec.OriginState)
	assert.Empty(t, rec.DestinationCity)
	assert.Equal(t, "GA", rec.DestinationState)
}

func TestExtract_DataEmailAttribute(t *testing.T) {
	row := rowFromHTML(t, `
		<div class="ag-row" data-test-row>
			<div class="ag-cell">Dallas, TX</div>
			<div class="ag-cell"><span data-email="broker@example.com">contact</span></div>
		</div>`)

	rec := NewExtractor(testLogger()).Extract(row)
	require.NotNil(t, rec)
	assert.Equal(t, "broker@example.com", rec.BrokerEmail)
}

func TestExtract_MailtoBeatsDataAttribute(t *testing.T) {
	row := rowFromHTML(t, `
		<div class="ag-row" data-test-row>
			<div class="ag-cell"><a href="mailto:first@example.com">a</a></div>
			<div class="ag-cell"><span data-email="second@example.com">b</span></div>
		</div>`)

	rec := NewExtractor(testLogger()).Extract(row)
	require.NotNil(t, rec)
	assert.Equal(t, "first@example.com", rec.BrokerEmail)
}

func TestExtract_PartialRecordIsValid(t *testing.T) {
	row := rowFromHTML(t, `
		<div class="ag-row" data-test-row>
			<div class="ag-cell">nothing parseable in here</div>
			<div class="ag-cell">still nothing</div>
		</div>`)

	rec := NewExtractor(testLogger()).Extract(row)
	require.NotNil(t, rec)
	assert.Empty(t, rec.OriginCity)
	assert.Zero(t, rec.Rate)
	assert.NotEmpty(t, rec.LoadID)
}

func TestExtract_PanicReturnsNil(t *testing.T) {
	rec := NewExtractor(testLogger()).Extract(nil)
	assert.Nil(t, rec)
}

func TestStrategies_Order(t *testing.T) {
	got := NewExtractor(testLogger()).Strategies()
	assert.Equal(t, []string{"structured_cells", "anchors", "row_fallback", "identifier"}, got)
}

func TestParseCityState(t *testing.T) {
	tests := []struct {
		name  string
		input string
		city  string
		state string
	}{
		{"simple", "Dallas, TX", "Dallas", "TX"},
		{"two word city", "Fort Worth, TX", "Fort Worth", "TX"},
		{"state only", "TX", "", "TX"},
		{"no match", "some text", "", ""},
		{"trailing zip", "Dallas, TX 75201", "Dallas", "TX"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			city, state := parseCityState(tt.input)
			assert.Equal(t, tt.city, city)
			assert.Equal(t, tt.state, state)
		})
	}
}

func TestParseMC(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"MC# 123456", "MC123456"},
		{"MC:123456", "MC123456"},
		{"mc 123456", "MC123456"},
		{"MC-123456", "MC123456"},
		{"no number here", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseMC(tt.input), "input %q", tt.input)
	}
}

func TestParseRate_ThousandsSeparator(t *testing.T) {
	assert.Equal(t, 2500.0, parseRate("$2,500"))
	assert.Equal(t, 1850.50, parseRate("1,850.50"))
	assert.Zero(t, parseRate("call for rate"))
}

func TestParseEquipment(t *testing.T) {
	assert.Equal(t, "Van", parseEquipment("Dry Van 53'"))
	assert.Equal(t, "Reefer", parseEquipment("refrigerated"))
	assert.Equal(t, "Flatbed", parseEquipment("FLAT"))
	assert.Equal(t, "Step Deck", parseEquipment("step deck"))
	assert.Empty(t, parseEquipment("power only"))
}
