package validation

import (
	"testing"

	"github.com/rfconstrucoes/obra/internal/types"
)

func validForm() types.ContactForm {
	return types.ContactForm{
		Name:        "João Silva",
		Phone:       "912 345 678",
		Email:       "joao@example.com",
		ProjectType: "Residencial",
		Description: "Remodelação completa da cozinha e casa de banho.",
	}
}

func TestValidateContactForm_Valid(t *testing.T) {
	errs := ValidateContactForm(validForm())
	if len(errs) != 0 {
		t.Errorf("errors = %v, want none", errs)
	}
}

func TestValidateContactForm_RejectsShortNameAndDescription(t *testing.T) {
	form := types.ContactForm{
		Name:        "Jo",
		Phone:       "912345678",
		Email:       "a@b.com",
		ProjectType: "Residencial",
		Description: "too short",
	}

	errs := ValidateContactForm(form)
	if len(errs) != 2 {
		t.Fatalf("error count = %d, want 2 (%v)", len(errs), errs)
	}

	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	if !fields["name"] {
		t.Error("expected a name error")
	}
	if !fields["description"] {
		t.Error("expected a description error")
	}
}

func TestValidateContactForm_PhoneRules(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		valid bool
	}{
		{"plain national", "912345678", true},
		{"international prefix", "+351 912 345 678", true},
		{"dotted separators", "912.345.678", true},
		{"too few digits", "91234567", false},
		{"letters", "91234567a", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			form.Phone = tt.phone
			errs := ValidateContactForm(form)
			if tt.valid && len(errs) != 0 {
				t.Errorf("phone %q rejected: %v", tt.phone, errs)
			}
			if !tt.valid && len(errs) == 0 {
				t.Errorf("phone %q accepted, want rejection", tt.phone)
			}
		})
	}
}

func TestValidateContactForm_EmailAndType(t *testing.T) {
	form := validForm()
	form.Email = "not-an-email"
	form.ProjectType = "Garagem"

	errs := ValidateContactForm(form)
	if len(errs) != 2 {
		t.Fatalf("error count = %d, want 2 (%v)", len(errs), errs)
	}
	if errs[0].Field != "email" && errs[1].Field != "email" {
		t.Error("expected an email error")
	}
}

func TestValidateProject_CompletionInvariant(t *testing.T) {
	p := types.Project{
		Title:    "Moradia Cascais",
		Category: types.CategoryResidential,
		Status:   types.StatusCompleted,
		Progress: 60,
	}

	errs := ValidateProject(p)
	if len(errs) != 1 {
		t.Fatalf("error count = %d, want 1 (%v)", len(errs), errs)
	}
	if errs[0].Field != "progress" {
		t.Errorf("field = %q, want progress", errs[0].Field)
	}

	p.Progress = 100
	if errs := ValidateProject(p); len(errs) != 0 {
		t.Errorf("completed at 100%% rejected: %v", errs)
	}

	p.Status = types.StatusInProgress
	errs = ValidateProject(p)
	if len(errs) != 1 || errs[0].Field != "status" {
		t.Errorf("in-progress at 100%% should flag status, got %v", errs)
	}
}

func TestValidateProject_ProgressRange(t *testing.T) {
	p := types.Project{
		Title:    "Obra",
		Category: types.CategoryExterior,
		Status:   types.StatusInProgress,
		Progress: 140,
	}

	errs := ValidateProject(p)
	if len(errs) == 0 {
		t.Fatal("progress above 100 accepted")
	}
}

func TestValidateReview_Rules(t *testing.T) {
	r := types.Review{ClientName: "Ana Pereira", Rating: 5, Comment: "Serviço impecável."}
	if errs := ValidateReview(r); len(errs) != 0 {
		t.Errorf("valid review rejected: %v", errs)
	}

	r.Rating = 6
	r.Comment = ""
	errs := ValidateReview(r)
	if len(errs) != 2 {
		t.Errorf("error count = %d, want 2 (%v)", len(errs), errs)
	}
}

func TestCollector_Accumulates(t *testing.T) {
	var c Collector
	if c.HasErrors() {
		t.Error("new collector should have no errors")
	}

	c.Add(nil)
	c.Add(&ValidationError{Field: "a", Message: "bad"})
	c.Add(&ValidationError{Field: "b", Message: "worse"})

	if got := len(c.Errors()); got != 2 {
		t.Errorf("error count = %d, want 2", got)
	}
}
