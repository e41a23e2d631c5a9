package store

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rfconstrucoes/obra/internal/types"
)

// ListBudgetRequests returns all budget requests, newest first.
// Access control (admin only) is enforced by the API layer.
func (s *SQLiteStore) ListBudgetRequests(ctx context.Context) ([]types.BudgetRequest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, phone, project_type, description, status, created_at
		FROM budget_requests
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query budget requests: %w", err)
	}
	defer rows.Close()

	var requests []types.BudgetRequest
	for rows.Next() {
		var b types.BudgetRequest
		var status, createdAt string
		if err := rows.Scan(&b.ID, &b.Name, &b.Email, &b.Phone, &b.ProjectType, &b.Description, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan budget request: %w", err)
		}
		b.Status = types.RequestStatus(status)
		b.CreatedAt = parseTime(createdAt)
		requests = append(requests, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budget requests: %w", err)
	}

	return requests, nil
}

// InsertBudgetRequest stores a new budget request in the pending state.
func (s *SQLiteStore) InsertBudgetRequest(ctx context.Context, b types.BudgetRequest) (*types.BudgetRequest, error) {
	b.ID = ulid.Make().String()
	b.Status = types.RequestPending
	b.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budget_requests (id, name, email, phone, project_type, description, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.Name, b.Email, b.Phone, b.ProjectType, b.Description, string(b.Status), b.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert budget request: %w", err)
	}

	return &b, nil
}

// UpdateBudgetRequestStatus transitions a request between pending and contacted.
func (s *SQLiteStore) UpdateBudgetRequestStatus(ctx context.Context, id string, status types.RequestStatus) error {
	result, err := s.db.ExecContext(ctx, "UPDATE budget_requests SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return fmt.Errorf("update budget request status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteBudgetRequest removes a single request. Absent rows are a no-op.
func (s *SQLiteStore) DeleteBudgetRequest(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM budget_requests WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete budget request: %w", err)
	}
	return nil
}

// DeleteAllBudgetRequests empties the inbox.
func (s *SQLiteStore) DeleteAllBudgetRequests(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM budget_requests")
	if err != nil {
		return fmt.Errorf("delete all budget requests: %w", err)
	}
	return nil
}

// PurgeContactedBefore deletes contacted requests created before cutoff
// and reports how many rows were removed. Used by the retention worker.
func (s *SQLiteStore) PurgeContactedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM budget_requests WHERE status = ? AND created_at < ?",
		string(types.RequestContacted), cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("purge contacted requests: %w", err)
	}

	return result.RowsAffected()
}
