package fetch

import (
	"context"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// SnapshotSource is a Source fed by the caller: embedders hand in a live
// document and signal changes themselves. Because the same document is
// returned on every pass, injection markers persist across passes and the
// idempotency guarantees apply in full.
type SnapshotSource struct {
	mu       sync.Mutex
	doc      *goquery.Document
	onChange func()
}

// NewSnapshotSource creates a snapshot source. onChange may be nil.
func NewSnapshotSource(onChange func()) *SnapshotSource {
	return &SnapshotSource{onChange: onChange}
}

// Set replaces the current document and fires the change notification.
func (s *SnapshotSource) Set(doc *goquery.Document) {
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange()
	}
}

// Snapshot implements Source.
func (s *SnapshotSource) Snapshot(ctx context.Context) (*goquery.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, ErrNoDocument
	}
	return s.doc, nil
}
