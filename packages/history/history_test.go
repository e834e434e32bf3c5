package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/pet/packages/http"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), "sqlite://"+filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_RecordAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	id1, err := store.Record(ctx, Entry{
		StartedAt: base,
		Method:    "GET",
		URL:       "https://example.com/a",
		Status:    200,
		Remote:    true,
		Message:   "OK",
		BodyKind:  "json",
		Duration:  1500 * time.Microsecond,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id1)

	_, err = store.Record(ctx, Entry{
		StartedAt: base.Add(time.Minute),
		Method:    "POST",
		URL:       "https://example.com/b",
		Status:    599,
		Message:   "Connection error: refused",
		BodyKind:  "empty",
	})
	require.NoError(t, err)

	entries, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "POST", entries[0].Method)
	assert.False(t, entries[0].Remote)
	assert.Equal(t, 599, entries[0].Status)

	assert.Equal(t, id1, entries[1].ID)
	assert.True(t, entries[1].Remote)
	assert.Equal(t, 1500*time.Microsecond, entries[1].Duration)
	assert.True(t, base.Equal(entries[1].StartedAt))

	limited, err := store.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestEntryFor(t *testing.T) {
	now := time.Now()

	e := EntryFor("GET", "https://x", now, &http.Response{Status: 200, Remote: true, Message: "OK", Body: http.TextBody("hi")}, nil)
	assert.Equal(t, 200, e.Status)
	assert.Equal(t, "text", e.BodyKind)

	e = EntryFor("GET", "https://x", now, nil, &http.Error{Status: 498, Message: "Malformed Response", Response: http.TextBody("{")})
	assert.Equal(t, 498, e.Status)
	assert.False(t, e.Remote)
	assert.Equal(t, "text", e.BodyKind)

	e = EntryFor("GET", "https://x", now, nil, &http.Error{Status: 404, Remote: true, Message: "Not Found"})
	assert.Equal(t, "empty", e.BodyKind)
	assert.True(t, e.Remote)
}

func TestParseConnectionString(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"sqlite://a/b.db", "a/b.db", false},
		{"sqlite:./c.db", "./c.db", false},
		{"history.db", "history.db", false},
		{"postgres://u@h/db", "", true},
		{"  ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseConnectionString(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
