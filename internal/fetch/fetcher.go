package fetch

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// ErrNoDocument is returned when no page snapshot is available yet
var ErrNoDocument = errors.New("no page snapshot available")

// Source produces the current page snapshot for a scan pass.
type Source interface {
	Snapshot(ctx context.Context) (*goquery.Document, error)
}

// rowishSelector matches the content whose change should trigger a rescan.
// Mutations outside it (tooltips, hover effects) are deliberately invisible.
const rowishSelector = `.ag-row, [role="row"], table tbody tr, .load-row`

// Fetcher polls a load-board page over HTTP and reports when its row-like
// content changes.
type Fetcher struct {
	client   *resty.Client
	url      string
	onChange func()
	logger   *slog.Logger

	mu     sync.Mutex
	lastFP uint64
}

// NewFetcher creates a new page fetcher. onChange fires whenever a fetched
// snapshot's row content differs from the previous one; nil disables change
// notifications.
func NewFetcher(url string, timeout time.Duration, onChange func(), logger *slog.Logger) *Fetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", "loadscout/1.0")

	return &Fetcher{
		client:   client,
		url:      url,
		onChange: onChange,
		logger:   logger.With("component", "fetcher"),
	}
}

// Snapshot fetches and parses the page. Each snapshot is a fresh document;
// injection markers do not survive across fetches, the emailed-set is the
// durable dedup.
func (f *Fetcher) Snapshot(ctx context.Context) (*goquery.Document, error) {
	resp, err := f.client.R().SetContext(ctx).Get(f.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch board page: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("board page returned status %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse board page: %w", err)
	}

	f.checkChanged(doc)
	return doc, nil
}

func (f *Fetcher) checkChanged(doc *goquery.Document) {
	fp := rowFingerprint(doc)

	f.mu.Lock()
	changed := fp != f.lastFP && f.lastFP != 0
	f.lastFP = fp
	f.mu.Unlock()

	if changed {
		f.logger.Debug("row content changed")
		if f.onChange != nil {
			f.onChange()
		}
	}
}

// rowFingerprint hashes the page's row-like text content.
func rowFingerprint(doc *goquery.Document) uint64 {
	h := fnv.New64a()
	doc.Find(rowishSelector).Each(func(_ int, row *goquery.Selection) {
		h.Write([]byte(strings.TrimSpace(row.Text())))
		h.Write([]byte{0})
	})
	return h.Sum64()
}
