package fetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func boardPage(rows ...string) string {
	var sb strings.Builder
	sb.WriteString("<html><body><table><tbody>")
	for _, row := range rows {
		sb.WriteString("<tr><td>")
		sb.WriteString(row)
		sb.WriteString("</td><td>data</td></tr>")
	}
	sb.WriteString("</tbody></table></body></html>")
	return sb.String()
}

func TestFetcher_Snapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, boardPage("Dallas, TX"))
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL, 5*time.Second, nil, testLogger())
	doc, err := f.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("tbody tr").Length())
}

func TestFetcher_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL, 5*time.Second, nil, testLogger())
	_, err := f.Snapshot(context.Background())
	assert.Error(t, err)
}

func TestFetcher_ChangeNotification(t *testing.T) {
	var page atomic.Value
	page.Store(boardPage("Dallas, TX"))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, page.Load().(string))
	}))
	defer srv.Close()

	var changes atomic.Int32
	f := NewFetcher(srv.URL, 5*time.Second, func() { changes.Add(1) }, testLogger())
	ctx := context.Background()

	// First fetch establishes the baseline and never counts as a change.
	_, err := f.Snapshot(ctx)
	require.NoError(t, err)
	assert.Zero(t, changes.Load())

	// Identical content is not a change.
	_, err = f.Snapshot(ctx)
	require.NoError(t, err)
	assert.Zero(t, changes.Load())

	page.Store(boardPage("Dallas, TX", "Miami, FL"))
	_, err = f.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), changes.Load())
}

func TestSnapshotSource(t *testing.T) {
	var changes atomic.Int32
	src := NewSnapshotSource(func() { changes.Add(1) })

	_, err := src.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrNoDocument)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(boardPage("Dallas, TX")))
	require.NoError(t, err)
	src.Set(doc)
	assert.Equal(t, int32(1), changes.Load())

	got, err := src.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Same(t, doc, got)
}
