package validate_test

import (
	"strings"
	"testing"

	"github.com/shashiranjanraj/agromart/pkg/validate"
)

type variantInput struct {
	Weight string  `json:"weight" validate:"required,max=50"`
	Price  float64 `json:"price"  validate:"required,min=0.01"`
}

type productInput struct {
	Name     string         `json:"name"     validate:"required,max=500"`
	Image    string         `json:"image"    validate:"required,safe_url"`
	Email    string         `json:"email"    validate:"nullable,email"`
	Phone    string         `json:"phone"    validate:"nullable,phone"`
	Rating   float64        `json:"rating"   validate:"nullable,between=1;5"`
	Kind     string         `json:"kind"     validate:"nullable,in=seed|tool"`
	Variants []variantInput `json:"variants" validate:"min=1,max=3"`
}

func validInput() productInput {
	return productInput{
		Name:     "Urea",
		Image:    "https://cdn.example.com/urea.jpg",
		Email:    "farm@example.com",
		Phone:    "919316424006",
		Rating:   4.5,
		Kind:     "seed",
		Variants: []variantInput{{Weight: "50 kg", Price: 250}},
	}
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(validInput())
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(productInput{})
	for _, field := range []string{"name", "image", "variants"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s error, got %v", field, errs)
		}
	}
	if _, ok := errs["email"]; ok {
		t.Error("nullable email should be skipped when empty")
	}
}

func TestNestedSliceErrors(t *testing.T) {
	in := validInput()
	in.Variants = []variantInput{{Weight: "1 kg", Price: 10}, {Weight: "", Price: 0}}

	errs := validate.Struct(in)
	if _, ok := errs["variants.1.weight"]; !ok {
		t.Errorf("expected variants.1.weight error, got %v", errs)
	}
	if _, ok := errs["variants.0.weight"]; ok {
		t.Errorf("variant 0 is valid, got %v", errs)
	}
}

func TestImageRejectsScriptURLs(t *testing.T) {
	for _, bad := range []string{"javascript:alert(1)", "data:image/png;base64,AAAA", "//evil.example.com/x.png"} {
		in := validInput()
		in.Image = bad
		if _, ok := validate.Struct(in)["image"]; !ok {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
	for _, good := range []string{"images/urea.jpg", "/static/urea.jpg", "http://example.com/a.png"} {
		in := validInput()
		in.Image = good
		if msg, ok := validate.Struct(in)["image"]; ok {
			t.Errorf("expected %q to pass, got %s", good, msg)
		}
	}
}

func TestPhoneAndRange(t *testing.T) {
	in := validInput()
	in.Phone = "12345"
	in.Rating = 7
	in.Kind = "fertilizer"
	errs := validate.Struct(in)
	for _, field := range []string{"phone", "rating", "kind"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s error, got %v", field, errs)
		}
	}
}

func TestMaxItems(t *testing.T) {
	in := validInput()
	in.Variants = make([]variantInput, 4)
	for i := range in.Variants {
		in.Variants[i] = variantInput{Weight: "1 kg", Price: 1}
	}
	if msg := validate.Struct(in)["variants"]; !strings.Contains(msg, "3 items") {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestValue(t *testing.T) {
	if msg := validate.Value("bannerImage", "javascript:alert(1)", "nullable,url"); msg == "" {
		t.Error("expected javascript URL to fail")
	}
	if msg := validate.Value("bannerImage", "", "nullable,url"); msg != "" {
		t.Errorf("empty nullable value should pass, got %q", msg)
	}
	if msg := validate.Value("bannerImage", "https://example.com/b.jpg", "nullable,url"); msg != "" {
		t.Errorf("unexpected error %q", msg)
	}
}
