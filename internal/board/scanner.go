package board

import (
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/freightwiz/loadscout/internal/extract"
	"github.com/freightwiz/loadscout/pkg/models"
)

// Scanner runs one full enrichment pass over a page snapshot: locate rows,
// extract records, inject controls. A pass runs to completion synchronously;
// a failure in one row never aborts the rest of the pass.
type Scanner struct {
	locator   *Locator
	extractor *extract.Extractor
	injector  *Injector
	logger    *slog.Logger
}

// ScanResult summarizes one pass.
type ScanResult struct {
	Found    int // candidate rows in the snapshot
	Injected int // rows that received controls this pass
	Skipped  int // rows dropped by extraction failure or missing target cell
	Records  []*models.LoadRecord
}

// NewScanner creates a new scanner
func NewScanner(extractor *extract.Extractor, logger *slog.Logger) *Scanner {
	return &Scanner{
		locator:   NewLocator(),
		extractor: extractor,
		injector:  NewInjector(),
		logger:    logger.With("component", "scanner"),
	}
}

// Scan processes every candidate row in doc once.
func (s *Scanner) Scan(doc *goquery.Document) ScanResult {
	var result ScanResult

	rows := s.locator.Candidates(doc)
	result.Found = len(rows)

	for _, row := range rows {
		s.scanRow(row, &result)
	}

	if result.Injected > 0 {
		s.logger.Info("scan pass injected controls", "found", result.Found, "injected", result.Injected, "skipped", result.Skipped)
	}
	return result
}

// scanRow handles a single row, isolating any panic to that row.
func (s *Scanner) scanRow(row *goquery.Selection, result *ScanResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("row handling panicked", "panic", r)
			result.Skipped++
		}
	}()

	rec := s.extractor.Extract(row)
	if rec == nil {
		result.Skipped++
		return
	}

	if s.injector.Inject(row, rec.LoadID) {
		result.Injected++
		result.Records = append(result.Records, rec)
	} else {
		result.Skipped++
	}
}

// Reset clears all injection state in doc. See Injector.Reset.
func (s *Scanner) Reset(doc *goquery.Document) int {
	return s.injector.Reset(doc)
}

// MarkSent flips a row's send control to its terminal state.
func (s *Scanner) MarkSent(doc *goquery.Document, loadID string) bool {
	return s.injector.MarkSent(doc, loadID)
}
