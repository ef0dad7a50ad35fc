package requests

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shashiranjanraj/agromart/app/models"
	"github.com/shashiranjanraj/agromart/pkg/validate"
)

// ImportRequest is the body of POST /api/import and POST /api/seed.
type ImportRequest struct {
	Data json.RawMessage `json:"data"`
}

// Import is a sanitized wholesale replacement. Nil Products or Categories
// leave that tab untouched; Settings holds only the keys the payload set.
type Import struct {
	Products   []models.Product
	Categories []models.Category
	Settings   map[string]string
}

type importSettings struct {
	WhatsAppNumber  Text             `json:"whatsappNumber"`
	ContactEmail    Text             `json:"contactEmail"`
	ContactAddress  Text             `json:"contactAddress"`
	BannerImage     Text             `json:"bannerImage"`
	HeroBannerImage Text             `json:"heroBannerImage"`
	AboutImage      Text             `json:"aboutImage"`
	SocialLinks     *map[string]Text `json:"socialLinks"`
}

// Empty reports whether the request carried no data object at all.
func (r ImportRequest) Empty() bool {
	d := bytes.TrimSpace(r.Data)
	return len(d) == 0 || bytes.Equal(d, []byte("null"))
}

// Validate parses the data object. Settings may sit at the top level or,
// as in an export file, under "settings".
func (r ImportRequest) Validate(maxProducts int) (Import, error) {
	if r.Empty() {
		return Import{}, fieldError("data", "The data field is required.")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(r.Data, &fields); err != nil {
		return Import{}, fieldError("data", "The data must be an object.")
	}

	errs := validate.Errors{}
	var out Import

	if raw, ok := fields["products"]; ok && !isNull(raw) {
		var products []ProductInput
		if !isArray(raw) || json.Unmarshal(raw, &products) != nil {
			errs["products"] = "The products must be an array."
		} else if len(products) > maxProducts {
			errs["products"] = fmt.Sprintf("Maximum %d products allowed.", maxProducts)
		} else {
			out.Products = make([]models.Product, 0, len(products))
			for _, p := range products {
				out.Products = append(out.Products, p.Sanitize())
			}
		}
	}

	if raw, ok := fields["categories"]; ok && !isNull(raw) {
		var categories []CategoryInput
		if !isArray(raw) || json.Unmarshal(raw, &categories) != nil {
			errs["categories"] = "The categories must be an array."
		} else {
			out.Categories = make([]models.Category, 0, len(categories))
			for _, c := range categories {
				if cat := c.Sanitize(); cat.ID != "" {
					out.Categories = append(out.Categories, cat)
				}
			}
		}
	}

	settingsRaw := r.Data
	if raw, ok := fields["settings"]; ok && !isNull(raw) {
		settingsRaw = raw
	}
	var s importSettings
	if err := json.Unmarshal(settingsRaw, &s); err != nil {
		errs["settings"] = "The settings must be an object."
	} else {
		out.Settings = s.values(errs)
	}

	if err := invalid(errs); err != nil {
		return Import{}, err
	}
	return out, nil
}

// values keeps the non-empty settings, validating URLs like the settings
// and contacts endpoints do.
func (s importSettings) values(errs validate.Errors) map[string]string {
	out := map[string]string{}
	set := func(key, value, rules string) {
		if value == "" {
			return
		}
		if msg := validate.Value(key, value, rules); msg != "" {
			errs[key] = msg
			return
		}
		out[key] = value
	}
	set(models.KeyWhatsAppNumber, digitsOnly(s.WhatsAppNumber.String()), "phone")
	set(models.KeyContactEmail, s.ContactEmail.String(), "email")
	set(models.KeyContactAddress, s.ContactAddress.String(), "max=500")
	set(models.KeyBannerImage, s.BannerImage.String(), "url")
	set(models.KeyHeroBannerImage, s.HeroBannerImage.String(), "url")
	set(models.KeyAboutImage, s.AboutImage.String(), "url")

	if s.SocialLinks != nil {
		for name, key := range socialKeys {
			value := (*s.SocialLinks)[name].String()
			if msg := validate.Value("socialLinks."+name, value, "nullable,url"); msg != "" {
				errs["socialLinks."+name] = msg
				continue
			}
			out[key] = value
		}
	}
	return out
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}
