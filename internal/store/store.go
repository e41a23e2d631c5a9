package store

import (
	"context"
	"time"

	"github.com/rfconstrucoes/obra/internal/types"
)

// Store defines the interface contract for all persistence operations.
// The database is the system of record; the in-memory caches in
// internal/app are rebuilt from it on startup and login.
type Store interface {
	ListProjects(ctx context.Context) ([]types.Project, error)
	InsertProject(ctx context.Context, p types.Project) (*types.Project, error)
	UpdateProject(ctx context.Context, p types.Project) (*types.Project, error)
	DeleteProject(ctx context.Context, id string) error

	ListReviews(ctx context.Context, approvedOnly bool) ([]types.Review, error)
	InsertReview(ctx context.Context, r types.Review) (*types.Review, error)
	SetReviewApproval(ctx context.Context, id string, approved bool) error
	DeleteReview(ctx context.Context, id string) error

	ListBudgetRequests(ctx context.Context) ([]types.BudgetRequest, error)
	InsertBudgetRequest(ctx context.Context, b types.BudgetRequest) (*types.BudgetRequest, error)
	UpdateBudgetRequestStatus(ctx context.Context, id string, status types.RequestStatus) error
	DeleteBudgetRequest(ctx context.Context, id string) error
	DeleteAllBudgetRequests(ctx context.Context) error
	PurgeContactedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	GetSettings(ctx context.Context) (*types.AppSettings, error)
	SaveSettings(ctx context.Context, s types.AppSettings) (*types.AppSettings, error)

	GetAdminByEmail(ctx context.Context, email string) (*types.Admin, error)
	CreateAdmin(ctx context.Context, email, passwordHash string) (*types.Admin, error)

	GetStats(ctx context.Context) (*types.Stats, error)
	Close() error
}
