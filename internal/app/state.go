// Package app holds the application data layer: a single constructed
// state object caching every collection the site renders, backed by the
// store as the system of record. Caches follow a write-through contract:
// a mutation lands in the cache only after the store confirms it, with
// the one documented exception of review-approval toggling, which is
// optimistic with rollback.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rfconstrucoes/obra/internal/auth"
	"github.com/rfconstrucoes/obra/internal/mailer"
	"github.com/rfconstrucoes/obra/internal/storage"
	"github.com/rfconstrucoes/obra/internal/store"
	"github.com/rfconstrucoes/obra/internal/types"
)

// State is the process-wide application state. Construct it once at
// startup and hand it to whatever needs it; it is safe for concurrent use.
type State struct {
	store         store.Store
	uploader      storage.Uploader
	mailer        mailer.Sender
	notifyTimeout time.Duration

	mu            sync.RWMutex
	projects      []types.Project
	reviews       []types.Review
	requests      []types.BudgetRequest
	settings      *types.AppSettings
	authenticated bool
}

// NewState creates the data layer over its collaborators.
func NewState(s store.Store, u storage.Uploader, m mailer.Sender, notifyTimeout time.Duration) *State {
	if notifyTimeout <= 0 {
		notifyTimeout = 15 * time.Second
	}
	return &State{
		store:         s,
		uploader:      u,
		mailer:        m,
		notifyTimeout: notifyTimeout,
	}
}

// Refresh rebuilds every cache from the store. Read failures degrade to
// an empty collection so pages can still render; they never propagate.
// Budget requests are only loaded while an admin session exists.
func (s *State) Refresh(ctx context.Context) {
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		slog.Error("refresh projects failed", "error", err)
		projects = nil
	}

	reviews, err := s.store.ListReviews(ctx, false)
	if err != nil {
		slog.Error("refresh reviews failed", "error", err)
		reviews = nil
	}

	settings, err := s.store.GetSettings(ctx)
	if err != nil && err != store.ErrSettingsMissing {
		slog.Error("refresh settings failed", "error", err)
	}

	s.mu.Lock()
	s.projects = projects
	s.reviews = reviews
	if settings != nil {
		s.settings = settings
	}
	authenticated := s.authenticated
	s.mu.Unlock()

	if authenticated {
		s.refreshRequests(ctx)
	}
}

// refreshRequests reloads the budget-request cache.
func (s *State) refreshRequests(ctx context.Context) {
	requests, err := s.store.ListBudgetRequests(ctx)
	if err != nil {
		slog.Error("refresh budget requests failed", "error", err)
		requests = nil
	}

	s.mu.Lock()
	s.requests = requests
	s.mu.Unlock()
}

// Projects returns a copy of the cached project list, newest first.
func (s *State) Projects() []types.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Project(nil), s.projects...)
}

// Reviews returns cached reviews, optionally restricted to approved
// ones. Public pages must always pass approvedOnly.
func (s *State) Reviews(approvedOnly bool) []types.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !approvedOnly {
		return append([]types.Review(nil), s.reviews...)
	}

	out := make([]types.Review, 0, len(s.reviews))
	for _, r := range s.reviews {
		if r.Approved {
			out = append(out, r)
		}
	}
	return out
}

// BudgetRequests returns the cached request inbox, newest first.
func (s *State) BudgetRequests() []types.BudgetRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.BudgetRequest(nil), s.requests...)
}

// Settings returns the cached settings singleton, or nil before the
// first admin save.
func (s *State) Settings() *types.AppSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return nil
	}
	out := *s.settings
	return &out
}

// IsAuthenticated reports whether an admin session is active.
func (s *State) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Stats delegates to the store for health reporting.
func (s *State) Stats(ctx context.Context) (*types.Stats, error) {
	return s.store.GetStats(ctx)
}

// UploadFile stores one file under a collision-resistant generated name
// and returns its public URL.
func (s *State) UploadFile(ctx context.Context, f *storage.File) (string, error) {
	name := storage.ObjectName(f.Name)
	url, err := s.uploader.Upload(ctx, name, f.Reader, f.Size, f.ContentType)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", f.Name, err)
	}
	return url, nil
}

// AddProject uploads any provided files first, substitutes the returned
// URLs into the record, inserts it, and prepends it to the cache. On any
// failure the cache is left unchanged.
func (s *State) AddProject(ctx context.Context, p types.Project, cover *storage.File, gallery []*storage.File) (*types.Project, error) {
	if cover != nil {
		url, err := s.UploadFile(ctx, cover)
		if err != nil {
			return nil, err
		}
		p.ImageURL = url
	}

	// Gallery uploads run sequentially; order in the record follows
	// submission order.
	for _, f := range gallery {
		url, err := s.UploadFile(ctx, f)
		if err != nil {
			return nil, err
		}
		p.Gallery = append(p.Gallery, types.GalleryItem{URL: url, Caption: captionFor(f.Name)})
	}

	stored, err := s.store.InsertProject(ctx, p)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.projects = append([]types.Project{*stored}, s.projects...)
	s.mu.Unlock()

	return stored, nil
}

// UpdateProject follows the same upload-then-write pattern and replaces
// the matching cached record by id. New gallery files are appended
// after whatever items the record retained.
func (s *State) UpdateProject(ctx context.Context, p types.Project, cover *storage.File, gallery []*storage.File) (*types.Project, error) {
	if cover != nil {
		url, err := s.UploadFile(ctx, cover)
		if err != nil {
			return nil, err
		}
		p.ImageURL = url
	}

	for _, f := range gallery {
		url, err := s.UploadFile(ctx, f)
		if err != nil {
			return nil, err
		}
		p.Gallery = append(p.Gallery, types.GalleryItem{URL: url, Caption: captionFor(f.Name)})
	}

	stored, err := s.store.UpdateProject(ctx, p)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i := range s.projects {
		if s.projects[i].ID == stored.ID {
			s.projects[i] = *stored
			break
		}
	}
	s.mu.Unlock()

	return stored, nil
}

// DeleteProject removes the remote row, then the cached one. If the
// remote delete fails the cache is untouched and the failure surfaces.
func (s *State) DeleteProject(ctx context.Context, id string) error {
	if err := s.store.DeleteProject(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	s.projects = removeProject(s.projects, id)
	s.mu.Unlock()

	return nil
}

// AddReview persists a public submission. The approved flag is forced
// false regardless of what the caller supplied.
func (s *State) AddReview(ctx context.Context, r types.Review) (*types.Review, error) {
	r.Approved = false

	stored, err := s.store.InsertReview(ctx, r)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.reviews = append([]types.Review{*stored}, s.reviews...)
	s.mu.Unlock()

	return stored, nil
}

// ToggleReviewApproval optimistically flips the cached flag, writes
// through, and rolls the cache back if the write fails.
func (s *State) ToggleReviewApproval(ctx context.Context, id string, currentApproved bool) error {
	s.setCachedApproval(id, !currentApproved)

	if err := s.store.SetReviewApproval(ctx, id, !currentApproved); err != nil {
		s.setCachedApproval(id, currentApproved)
		return err
	}

	return nil
}

func (s *State) setCachedApproval(id string, approved bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reviews {
		if s.reviews[i].ID == id {
			s.reviews[i].Approved = approved
			return
		}
	}
}

// DeleteReview removes a review; rejection and deletion are the same act.
func (s *State) DeleteReview(ctx context.Context, id string) error {
	if err := s.store.DeleteReview(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	out := s.reviews[:0]
	for _, r := range s.reviews {
		if r.ID != id {
			out = append(out, r)
		}
	}
	s.reviews = out
	s.mu.Unlock()

	return nil
}

// CreateBudgetRequest persists a validated contact-form submission and
// fires the admin notification in the background. Attachment URLs are
// appended to the stored description.
func (s *State) CreateBudgetRequest(ctx context.Context, form types.ContactForm, attachmentURLs []string) (*types.BudgetRequest, error) {
	description := form.Description
	if len(attachmentURLs) > 0 {
		description += "\n\nAnexos:\n" + strings.Join(attachmentURLs, "\n")
	}

	stored, err := s.store.InsertBudgetRequest(ctx, types.BudgetRequest{
		Name:        form.Name,
		Email:       form.Email,
		Phone:       form.Phone,
		ProjectType: form.ProjectType,
		Description: description,
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.requests = append([]types.BudgetRequest{*stored}, s.requests...)
	s.mu.Unlock()

	subject := "Novo pedido de orçamento - " + stored.Name
	message := fmt.Sprintf("Nome: %s\nTelefone: %s\nEmail: %s\nTipo de obra: %s\n\n%s",
		stored.Name, stored.Phone, stored.Email, stored.ProjectType, description)
	s.NotifyAsync(subject, message, stored.Email)

	return stored, nil
}

// DeleteBudgetRequest removes one request, cache only after the store.
func (s *State) DeleteBudgetRequest(ctx context.Context, id string) error {
	if err := s.store.DeleteBudgetRequest(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	out := s.requests[:0]
	for _, b := range s.requests {
		if b.ID != id {
			out = append(out, b)
		}
	}
	s.requests = out
	s.mu.Unlock()

	return nil
}

// DeleteAllBudgetRequests empties the inbox.
func (s *State) DeleteAllBudgetRequests(ctx context.Context) error {
	if err := s.store.DeleteAllBudgetRequests(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.requests = nil
	s.mu.Unlock()

	return nil
}

// UpdateBudgetRequestStatus transitions a request and reflects the
// change in the cache after the store confirms it.
func (s *State) UpdateBudgetRequestStatus(ctx context.Context, id string, status types.RequestStatus) error {
	if err := s.store.UpdateBudgetRequestStatus(ctx, id, status); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.requests {
		if s.requests[i].ID == id {
			s.requests[i].Status = status
			break
		}
	}
	s.mu.Unlock()

	return nil
}

// UpdateSettings inserts the settings singleton if absent, else updates
// it, and merges the result into the cache.
func (s *State) UpdateSettings(ctx context.Context, settings types.AppSettings) (*types.AppSettings, error) {
	stored, err := s.store.SaveSettings(ctx, settings)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.settings = stored
	s.mu.Unlock()

	return stored, nil
}

// NotifyAsync sends a notification without blocking or failing the
// operation it accompanies. Errors are logged and dropped.
func (s *State) NotifyAsync(subject, message, replyTo string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()
		if err := s.sendNotification(ctx, subject, message, replyTo); err != nil {
			slog.Warn("notification failed", "subject", subject, "error", err)
		}
	}()
}

// SendTest sends a synchronous notification to the given address so the
// admin can verify the relay configuration. Unlike NotifyAsync, the
// failure is surfaced.
func (s *State) SendTest(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()
	return s.sendNotification(ctx, "Teste de notificação", "A configuração do relay de email está funcional.", email)
}

func (s *State) sendNotification(ctx context.Context, subject, message, replyTo string) error {
	settings := s.Settings()
	if settings == nil || settings.RelayAccessKey == "" {
		return fmt.Errorf("relay access key not configured")
	}

	return s.mailer.Send(ctx, mailer.Notification{
		AccessKey: settings.RelayAccessKey,
		Subject:   subject,
		Message:   message,
		ReplyTo:   replyTo,
	})
}

// Login verifies the admin credential. On success it marks the session
// authenticated and loads the collections that are only served to
// admins (budget requests).
func (s *State) Login(ctx context.Context, email, password string) types.LoginResult {
	admin, err := s.store.GetAdminByEmail(ctx, email)
	if err != nil {
		if err != store.ErrNotFound {
			slog.Error("admin lookup failed", "error", err)
		}
		return types.LoginResult{Success: false, Error: "invalid credentials"}
	}

	if err := auth.CheckPassword(password, admin.PasswordHash); err != nil {
		return types.LoginResult{Success: false, Error: "invalid credentials"}
	}

	s.mu.Lock()
	s.authenticated = true
	s.mu.Unlock()

	s.Refresh(ctx)

	return types.LoginResult{Success: true}
}

// ResumeSession marks the state authenticated for a session cookie
// that outlived the process, such as after a restart with the same
// session secret, and loads the admin-only collections on first use.
// It is a no-op once authenticated.
func (s *State) ResumeSession(ctx context.Context) {
	s.mu.Lock()
	if s.authenticated {
		s.mu.Unlock()
		return
	}
	s.authenticated = true
	s.mu.Unlock()

	s.refreshRequests(ctx)
}

// Logout drops the authenticated flag and clears the sensitive caches.
func (s *State) Logout() {
	s.mu.Lock()
	s.authenticated = false
	s.requests = nil
	s.mu.Unlock()
}

// captionFor derives a default gallery caption from an uploaded filename.
func captionFor(name string) string {
	base := name
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return strings.TrimSpace(strings.ReplaceAll(base, "_", " "))
}

// removeProject filters a project out of a slice by id.
func removeProject(projects []types.Project, id string) []types.Project {
	out := projects[:0]
	for _, p := range projects {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
