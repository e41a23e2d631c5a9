package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rfconstrucoes/obra/internal/types"
)

// ListReviews returns reviews newest first. With approvedOnly set it
// returns only what the public pages may display.
func (s *SQLiteStore) ListReviews(ctx context.Context, approvedOnly bool) ([]types.Review, error) {
	query := `
		SELECT id, client_name, rating, comment, avatar_url, approved, submitted_at
		FROM reviews`
	if approvedOnly {
		query += ` WHERE approved = 1`
	}
	query += ` ORDER BY submitted_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []types.Review
	for rows.Next() {
		var r types.Review
		var avatarURL sql.NullString
		var submittedAt string
		if err := rows.Scan(&r.ID, &r.ClientName, &r.Rating, &r.Comment, &avatarURL, &r.Approved, &submittedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		r.AvatarURL = avatarURL.String
		r.SubmittedAt = parseTime(submittedAt)
		reviews = append(reviews, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return reviews, nil
}

// InsertReview stores a new review. The approved flag is persisted as
// given; forcing submissions to unapproved is the data layer's job.
func (s *SQLiteStore) InsertReview(ctx context.Context, r types.Review) (*types.Review, error) {
	r.ID = ulid.Make().String()
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (id, client_name, rating, comment, avatar_url, approved, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.ClientName, r.Rating, r.Comment, nullString(r.AvatarURL), r.Approved, r.SubmittedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}

	return &r, nil
}

// SetReviewApproval writes the approval flag through to the database.
func (s *SQLiteStore) SetReviewApproval(ctx context.Context, id string, approved bool) error {
	result, err := s.db.ExecContext(ctx, "UPDATE reviews SET approved = ? WHERE id = ?", approved, id)
	if err != nil {
		return fmt.Errorf("update review approval: %w", err)
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

// DeleteReview removes a review. Rejection is deletion; there is no
// separate rejected state.
func (s *SQLiteStore) DeleteReview(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM reviews WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}
