package types

import "time"

// ProjectCategory classifies a portfolio project. Values are the
// Portuguese labels the public site renders and filters by.
type ProjectCategory string

const (
	CategoryResidential ProjectCategory = "Residencial"
	CategoryCommercial  ProjectCategory = "Comercial"
	CategoryKitchen     ProjectCategory = "Cozinha"
	CategoryBathroom    ProjectCategory = "Banheiro"
	CategoryExterior    ProjectCategory = "Exterior"
)

// ProjectCategories lists every accepted category, in display order.
var ProjectCategories = []ProjectCategory{
	CategoryResidential,
	CategoryCommercial,
	CategoryKitchen,
	CategoryBathroom,
	CategoryExterior,
}

// ProjectStatus distinguishes finished portfolio work from tracked
// in-progress jobs.
type ProjectStatus string

const (
	StatusCompleted  ProjectStatus = "Concluído"
	StatusInProgress ProjectStatus = "Em Andamento"
)

// GalleryItem is one photo of a project gallery. Order is significant.
type GalleryItem struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// Project is a portfolio entry, completed or in progress.
type Project struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Category       ProjectCategory `json:"category"`
	Status         ProjectStatus   `json:"status"`
	ImageURL       string          `json:"image_url"`
	Progress       int             `json:"progress"`
	StartDate      string          `json:"start_date,omitempty"`
	CompletionDate string          `json:"completion_date,omitempty"`
	Gallery        []GalleryItem   `json:"gallery"`
	VideoURL       string          `json:"video_url,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Review is a customer testimonial. Public pages only ever see
// approved reviews; submissions start unapproved.
type Review struct {
	ID          string    `json:"id"`
	ClientName  string    `json:"client_name"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Approved    bool      `json:"approved"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// RequestStatus is the moderation state of a budget request.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pendente"
	RequestContacted RequestStatus = "contactado"
)

// BudgetRequest is a contact-form submission asking for a quote.
type BudgetRequest struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone"`
	ProjectType string        `json:"project_type"`
	Description string        `json:"description"`
	Status      RequestStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// ContactForm is the raw public intake payload, validated before it
// becomes a BudgetRequest.
type ContactForm struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	ProjectType string `json:"project_type"`
	Description string `json:"description"`
}

// AppSettings is the singleton back-office configuration row.
// The notification address and the relay access key are distinct
// fields on purpose: one is where mail goes, the other authenticates
// against the relay.
type AppSettings struct {
	ID                int       `json:"id"`
	NotificationEmail string    `json:"notification_email"`
	RelayAccessKey    string    `json:"relay_access_key"`
	LogoURL           string    `json:"logo_url,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Admin is the single back-office account.
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginResult reports the outcome of a credential check.
type LoginResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Stats are the aggregate counts reported by the health endpoint.
type Stats struct {
	ProjectCount    int64 `json:"project_count"`
	ReviewCount     int64 `json:"review_count"`
	PendingRequests int64 `json:"pending_requests"`
}

// HealthResponse is returned by GET /api/v1/health.
type HealthResponse struct {
	Status          string `json:"status"`
	Version         string `json:"version"`
	ProjectCount    int64  `json:"project_count"`
	ReviewCount     int64  `json:"review_count"`
	PendingRequests int64  `json:"pending_requests"`
}

// ValidCategory reports whether v is one of the accepted project categories.
func ValidCategory(v string) bool {
	for _, c := range ProjectCategories {
		if string(c) == v {
			return true
		}
	}
	return false
}

// ValidStatus reports whether v is an accepted project status.
func ValidStatus(v string) bool {
	return v == string(StatusCompleted) || v == string(StatusInProgress)
}

// ValidRequestStatus reports whether v is an accepted budget-request status.
func ValidRequestStatus(v string) bool {
	return v == string(RequestPending) || v == string(RequestContacted)
}
