package requests

import (
	"encoding/json"
	"strings"

	"github.com/shashiranjanraj/agromart/app/models"
	"github.com/shashiranjanraj/agromart/pkg/validate"
)

// ImageSettingKeys are the only keys POST /api/settings may change.
var ImageSettingKeys = []string{models.KeyBannerImage, models.KeyHeroBannerImage, models.KeyAboutImage}

// SettingsRequest is the body of POST /api/settings.
type SettingsRequest struct {
	Settings map[string]json.RawMessage `json:"settings"`
}

// Validate returns the flat key/value pairs to merge into the Settings tab.
// Unknown keys and non-http(s) URLs are rejected; an empty value clears
// the image.
func (r SettingsRequest) Validate() (map[string]string, error) {
	if len(r.Settings) == 0 {
		return nil, fieldError("settings", "No valid settings provided.")
	}
	errs := validate.Errors{}
	out := map[string]string{}
	for key, raw := range r.Settings {
		if !contains(ImageSettingKeys, key) {
			errs[key] = "The " + key + " setting is not allowed."
			continue
		}
		value, ok := stringValue(raw)
		if !ok {
			errs[key] = "The " + key + " must be a string."
			continue
		}
		if msg := validate.Value(key, value, "nullable,url,max=2000"); msg != "" {
			errs[key] = msg
			continue
		}
		out[key] = value
	}
	if err := invalid(errs); err != nil {
		return nil, err
	}
	return out, nil
}

// ContactsRequest is the body of POST /api/contacts.
type ContactsRequest struct {
	Contacts map[string]json.RawMessage `json:"contacts"`
}

var contactRules = map[string]string{
	models.KeyWhatsAppNumber: "required,phone",
	models.KeyContactEmail:   "required,email,max=255",
	models.KeyContactAddress: "required,max=500",
}

var socialKeys = map[string]string{
	"facebook":  models.KeyFacebookLink,
	"instagram": models.KeyInstagramLink,
	"twitter":   models.KeyTwitterLink,
	"linkedin":  models.KeyLinkedInLink,
}

// Validate returns the flat key/value pairs to merge into the Settings tab.
// Phone numbers are reduced to their digits before the 10-15 digit check.
func (r ContactsRequest) Validate() (map[string]string, error) {
	if len(r.Contacts) == 0 {
		return nil, fieldError("contacts", "No valid contact data provided.")
	}
	errs := validate.Errors{}
	out := map[string]string{}

	for key, raw := range r.Contacts {
		if key == "socialLinks" {
			validateSocialLinks(raw, out, errs)
			continue
		}
		rules, known := contactRules[key]
		if !known {
			errs[key] = "The " + key + " field is not allowed."
			continue
		}
		value, ok := stringValue(raw)
		if !ok {
			errs[key] = "The " + key + " must be a string."
			continue
		}
		if key == models.KeyWhatsAppNumber {
			value = digitsOnly(value)
		}
		if msg := validate.Value(key, value, rules); msg != "" {
			errs[key] = msg
			continue
		}
		out[key] = value
	}
	if err := invalid(errs); err != nil {
		return nil, err
	}
	return out, nil
}

func validateSocialLinks(raw json.RawMessage, out map[string]string, errs validate.Errors) {
	var links map[string]json.RawMessage
	if err := json.Unmarshal(raw, &links); err != nil {
		errs["socialLinks"] = "The socialLinks must be an object."
		return
	}
	for name, v := range links {
		field := "socialLinks." + name
		key, known := socialKeys[name]
		if !known {
			errs[field] = "The " + field + " field is not allowed."
			continue
		}
		value, ok := stringValue(v)
		if !ok {
			errs[field] = "The " + field + " must be a string."
			continue
		}
		if msg := validate.Value(field, value, "nullable,url,max=500"); msg != "" {
			errs[field] = msg
			continue
		}
		out[key] = value
	}
}

// stringValue decodes a JSON string (null reads as ""). Numbers are
// accepted for phone fields typed without quotes.
func stringValue(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
