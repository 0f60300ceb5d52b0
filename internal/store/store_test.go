package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightwiz/loadscout/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestTemplate_SaveAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tpl := &models.Template{Name: "Quick", Subject: "Hi", Body: "Body {origin}"}
	require.NoError(t, s.SaveTemplate(ctx, tpl))
	require.NotEmpty(t, tpl.ID)

	got, err := s.GetTemplate(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Quick", got.Name)
	assert.Equal(t, "Body {origin}", got.Body)

	_, err = s.GetTemplate(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTemplate_SingleDefault(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := &models.Template{Name: "a", Body: "a", IsDefault: true}
	b := &models.Template{Name: "b", Body: "b", IsDefault: true}
	require.NoError(t, s.SaveTemplate(ctx, a))
	require.NoError(t, s.SaveTemplate(ctx, b))

	tpls, err := s.GetTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, tpls, 2)

	defaults := 0
	for _, tpl := range tpls {
		if tpl.IsDefault {
			defaults++
			assert.Equal(t, b.ID, tpl.ID)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestTemplate_SetDefault(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := &models.Template{Name: "a", Body: "a", IsDefault: true}
	b := &models.Template{Name: "b", Body: "b"}
	require.NoError(t, s.SaveTemplate(ctx, a))
	require.NoError(t, s.SaveTemplate(ctx, b))

	require.NoError(t, s.SetDefaultTemplate(ctx, b.ID))

	def, err := s.DefaultTemplate(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.ID, def.ID)

	assert.ErrorIs(t, s.SetDefaultTemplate(ctx, "missing"), ErrNotFound)
}

func TestDefaultTemplate_FallsBackToFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.DefaultTemplate(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	// No template is flagged default; the oldest one serves.
	a := &models.Template{Name: "a", Body: "a"}
	b := &models.Template{Name: "b", Body: "b"}
	require.NoError(t, s.SaveTemplate(ctx, a))
	require.NoError(t, s.SaveTemplate(ctx, b))

	def, err := s.DefaultTemplate(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.ID, def.ID)
}

func TestAccount_FirstIsForcedMain(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acct := &models.EmailAccount{Email: "a@example.com"}
	require.NoError(t, s.SaveAccount(ctx, acct))
	assert.True(t, acct.IsMain)

	second := &models.EmailAccount{Email: "b@example.com"}
	require.NoError(t, s.SaveAccount(ctx, second))
	assert.False(t, second.IsMain)
}

func TestAccount_MainMoves(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := &models.EmailAccount{Email: "a@example.com"}
	b := &models.EmailAccount{Email: "b@example.com", IsMain: true}
	require.NoError(t, s.SaveAccount(ctx, a))
	require.NoError(t, s.SaveAccount(ctx, b))

	got, err := s.GetAccount(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, got.IsMain)

	got, err = s.GetAccount(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, got.IsMain)
}

func TestAccount_DeleteLastRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acct := &models.EmailAccount{Email: "only@example.com"}
	require.NoError(t, s.SaveAccount(ctx, acct))

	assert.ErrorIs(t, s.DeleteAccount(ctx, acct.ID), ErrLastAccount)

	accts, err := s.GetAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accts, 1)
}

func TestAccount_DeleteReassignsRoles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := &models.EmailAccount{Email: "a@example.com"}
	b := &models.EmailAccount{Email: "b@example.com"}
	require.NoError(t, s.SaveAccount(ctx, a))
	require.NoError(t, s.SaveAccount(ctx, b))
	require.NoError(t, s.SetActiveAccount(ctx, a.ID))

	// a is both main (first saved) and active; both roles must move to b.
	require.NoError(t, s.DeleteAccount(ctx, a.ID))

	survivor, err := s.GetAccount(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, survivor.IsMain)

	active, err := s.ActiveAccount(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.ID, active.ID)
}

func TestAccount_DeleteMissing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := &models.EmailAccount{Email: "a@example.com"}
	b := &models.EmailAccount{Email: "b@example.com"}
	require.NoError(t, s.SaveAccount(ctx, a))
	require.NoError(t, s.SaveAccount(ctx, b))

	assert.ErrorIs(t, s.DeleteAccount(ctx, "missing"), ErrNotFound)
}

func TestActiveAccount_StalePointerFallsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := &models.EmailAccount{Email: "a@example.com"}
	require.NoError(t, s.SaveAccount(ctx, a))

	_, err := s.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)`, activeAccountKey, "gone")
	require.NoError(t, err)

	active, err := s.ActiveAccount(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.ID, active.ID)
}

func TestActiveAccount_NoAccounts(t *testing.T) {
	s := newTestStore(t)
	_, err := s.ActiveAccount(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetActiveAccount_MustExist(t *testing.T) {
	s := newTestStore(t)
	assert.ErrorIs(t, s.SetActiveAccount(context.Background(), "missing"), ErrNotFound)
}

func TestStats_Counters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stats, err := s.GetStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Sent)

	require.NoError(t, s.RecordSend(ctx))
	require.NoError(t, s.RecordSend(ctx))
	require.NoError(t, s.SetMatched(ctx, 14))
	require.NoError(t, s.RecordSkipped(ctx, 3))

	stats, err = s.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Sent)
	assert.Equal(t, 2, stats.Today)
	assert.Equal(t, 14, stats.Matched)
	assert.Equal(t, 3, stats.Skipped)

	require.NoError(t, s.ResetToday(ctx))
	stats, err = s.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Sent)
	assert.Zero(t, stats.Today)
}

func TestEmailedSet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	emailed, err := s.WasEmailed(ctx, "load-1")
	require.NoError(t, err)
	assert.False(t, emailed)

	require.NoError(t, s.MarkEmailed(ctx, "load-1"))
	require.NoError(t, s.MarkEmailed(ctx, "load-1")) // idempotent
	require.NoError(t, s.MarkEmailed(ctx, "load-2"))

	emailed, err = s.WasEmailed(ctx, "load-1")
	require.NoError(t, err)
	assert.True(t, emailed)

	count, err := s.EmailedCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
