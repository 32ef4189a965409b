// ABOUTME: Call ledger store methods: append one handled request, list recent calls
// ABOUTME: Timestamps are fixed-width UTC strings so they sort lexically

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// tsLayout keeps nanosecond digits fixed so ORDER BY ts matches time order.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

// AppendCall appends a record to the ledger.
// Generates ID and Timestamp if not set.
func (s *SQLiteStore) AppendCall(ctx context.Context, r *CallRecord) error {
	if err := validateRecord(r); err != nil {
		return err
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}

	var success *int
	if r.Success != nil {
		v := 0
		if *r.Success {
			v = 1
		}
		success = &v
	}

	query := `
		INSERT INTO calls (call_id, transport, method, tool, rpc_id, error_code, success, message, duration_us, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		r.ID,
		r.Transport,
		r.Method,
		nullString(r.Tool),
		r.RPCID,
		r.ErrorCode,
		success,
		r.Message,
		r.Duration.Microseconds(),
		r.Timestamp.UTC().Format(tsLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting call: %w", err)
	}

	s.logger.Debug("appended call",
		"id", r.ID,
		"transport", r.Transport,
		"method", r.Method,
		"tool", r.Tool,
	)
	return nil
}

const listCallsQuery = `
	SELECT call_id, transport, method, tool, rpc_id, error_code, success, message, duration_us, ts
	FROM calls
	WHERE (? IS NULL OR ts >= ?)
	  AND (? IS NULL OR tool = ?)
	  AND (? IS NULL OR transport = ?)
	  AND (? = 0 OR error_code IS NOT NULL OR success = 0)
	ORDER BY ts DESC
	LIMIT ?
`

// ListCalls returns calls matching the filter, newest first.
func (s *SQLiteStore) ListCalls(ctx context.Context, f CallFilter) ([]CallRecord, error) {
	limit := normalizeCallLimit(f.Limit)

	var since *string
	if f.Since != nil {
		v := f.Since.UTC().Format(tsLayout)
		since = &v
	}
	tool := nullString(f.Tool)
	transport := nullString(f.Transport)
	failedOnly := 0
	if f.FailedOnly {
		failedOnly = 1
	}

	rows, err := s.db.QueryContext(ctx, listCallsQuery,
		since, since,
		tool, tool,
		transport, transport,
		failedOnly,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying calls: %w", err)
	}
	defer rows.Close()

	calls := []CallRecord{}
	for rows.Next() {
		r, err := scanCall(rows)
		if err != nil {
			return nil, err
		}
		calls = append(calls, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating calls: %w", err)
	}
	return calls, nil
}

// scanCall scans a row into a CallRecord.
func scanCall(scanner interface{ Scan(dest ...any) error }) (CallRecord, error) {
	var r CallRecord
	var tool, message *string
	var success *int
	var durationUS int64
	var tsStr string

	if err := scanner.Scan(
		&r.ID,
		&r.Transport,
		&r.Method,
		&tool,
		&r.RPCID,
		&r.ErrorCode,
		&success,
		&message,
		&durationUS,
		&tsStr,
	); err != nil {
		return r, fmt.Errorf("scanning call: %w", err)
	}

	if tool != nil {
		r.Tool = *tool
	}
	if message != nil {
		r.Message = *message
	}
	if success != nil {
		ok := *success != 0
		r.Success = &ok
	}
	r.Duration = time.Duration(durationUS) * time.Microsecond

	var err error
	r.Timestamp, err = time.Parse(tsLayout, tsStr)
	if err != nil {
		return r, fmt.Errorf("parsing timestamp: %w", err)
	}
	return r, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
