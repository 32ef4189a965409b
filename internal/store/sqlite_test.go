// ABOUTME: Tests for the SQLite call ledger
// ABOUTME: Covers creation, append defaults, filtering, ordering and limits

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "calls.db")

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file should exist")
}

func TestNewSQLiteStore_ReopenKeepsCalls(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "calls.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.AppendCall(ctx, &CallRecord{Transport: TransportStdio, Method: "initialize", RPCID: "1"}))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer s.Close()

	calls, err := s.ListCalls(ctx, CallFilter{})
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "initialize", calls[0].Method)
}

func TestAppendCall_FillsDefaults(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	r := &CallRecord{
		Transport: TransportHTTP,
		Method:    "tools/call",
		Tool:      "read_file",
		RPCID:     `"abc"`,
		Success:   boolPtr(false),
		Message:   "Failed to read file: File not found: x",
		Duration:  1500 * time.Microsecond,
	}
	require.NoError(t, s.AppendCall(ctx, r))
	assert.NotEmpty(t, r.ID)
	assert.False(t, r.Timestamp.IsZero())

	calls, err := s.ListCalls(ctx, CallFilter{})
	require.NoError(t, err)
	require.Len(t, calls, 1)

	got := calls[0]
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, TransportHTTP, got.Transport)
	assert.Equal(t, "read_file", got.Tool)
	assert.Equal(t, `"abc"`, got.RPCID)
	assert.Nil(t, got.ErrorCode)
	require.NotNil(t, got.Success)
	assert.False(t, *got.Success)
	assert.Equal(t, r.Message, got.Message)
	assert.Equal(t, 1500*time.Microsecond, got.Duration)
	assert.True(t, r.Timestamp.Equal(got.Timestamp))
}

func TestAppendCall_RejectsInvalidRecord(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	err := s.AppendCall(ctx, &CallRecord{Transport: "carrier-pigeon", RPCID: "1"})
	assert.ErrorIs(t, err, ErrInvalidRecord)

	err = s.AppendCall(ctx, &CallRecord{Transport: TransportStdio})
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestListCalls_NewestFirstAndFilters(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	records := []CallRecord{
		{Transport: TransportStdio, Method: "initialize", RPCID: "1"},
		{Transport: TransportStdio, Method: "tools/call", Tool: "read_file", RPCID: "2", Success: boolPtr(true)},
		{Transport: TransportHTTP, Method: "tools/call", Tool: "read_file", RPCID: "3", Success: boolPtr(false)},
		{Transport: TransportHTTP, Method: "bogus", RPCID: "4", ErrorCode: intPtr(-32601)},
		{Transport: TransportStdio, Method: "tools/call", Tool: "write_file", RPCID: "5", Success: boolPtr(true)},
	}
	for i := range records {
		records[i].Timestamp = base.Add(time.Duration(i) * time.Millisecond)
		require.NoError(t, s.AppendCall(ctx, &records[i]))
	}

	all, err := s.ListCalls(ctx, CallFilter{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "5", all[0].RPCID)
	assert.Equal(t, "1", all[4].RPCID)

	byTool, err := s.ListCalls(ctx, CallFilter{Tool: "read_file"})
	require.NoError(t, err)
	assert.Len(t, byTool, 2)

	byTransport, err := s.ListCalls(ctx, CallFilter{Transport: TransportHTTP})
	require.NoError(t, err)
	assert.Len(t, byTransport, 2)

	failed, err := s.ListCalls(ctx, CallFilter{FailedOnly: true})
	require.NoError(t, err)
	require.Len(t, failed, 2)
	assert.Equal(t, "4", failed[0].RPCID)
	assert.Equal(t, "3", failed[1].RPCID)
	for _, r := range failed {
		assert.True(t, r.Failed())
	}

	since := base.Add(3 * time.Millisecond)
	recent, err := s.ListCalls(ctx, CallFilter{Since: &since})
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	limited, err := s.ListCalls(ctx, CallFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestListCalls_EmptyIsNotNil(t *testing.T) {
	s := setupTestStore(t)

	calls, err := s.ListCalls(context.Background(), CallFilter{})
	require.NoError(t, err)
	assert.NotNil(t, calls)
	assert.Empty(t, calls)
}

func TestNormalizeCallLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 100},
		{-5, 100},
		{50, 50},
		{1000, 1000},
		{5000, 1000},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeCallLimit(tt.in))
		})
	}
}

func TestMockStore_MatchesSQLiteFiltering(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, m.AppendCall(ctx, &CallRecord{Transport: TransportStdio, Method: "initialize", RPCID: "1", Timestamp: base}))
	require.NoError(t, m.AppendCall(ctx, &CallRecord{Transport: TransportHTTP, Method: "x", RPCID: "2", ErrorCode: intPtr(-32601), Timestamp: base.Add(time.Second)}))

	calls, err := m.ListCalls(ctx, CallFilter{})
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, "2", calls[0].RPCID)

	failed, err := m.ListCalls(ctx, CallFilter{FailedOnly: true})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "2", failed[0].RPCID)

	assert.Len(t, m.Calls(), 2)
	assert.NoError(t, m.Close())
}
