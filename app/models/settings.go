package models

// Flat keys of the Settings tab.
const (
	KeyWhatsAppNumber  = "whatsappNumber"
	KeyContactEmail    = "contactEmail"
	KeyContactAddress  = "contactAddress"
	KeyBannerImage     = "bannerImage"
	KeyHeroBannerImage = "heroBannerImage"
	KeyAboutImage      = "aboutImage"
	KeyFacebookLink    = "facebookLink"
	KeyInstagramLink   = "instagramLink"
	KeyTwitterLink     = "twitterLink"
	KeyLinkedInLink    = "linkedinLink"
)

// SettingKeys lists every known key in the order rows are written.
var SettingKeys = []string{
	KeyWhatsAppNumber, KeyContactEmail, KeyContactAddress,
	KeyBannerImage, KeyHeroBannerImage, KeyAboutImage,
	KeyFacebookLink, KeyInstagramLink, KeyTwitterLink, KeyLinkedInLink,
}

const (
	DefaultWhatsAppNumber = "919316424006"
	DefaultContactEmail   = "info@agromart.com"
	DefaultContactAddress = "123 Farm Road, Agricultural District"
)

// SocialLinks are http/https profile URLs, or empty.
type SocialLinks struct {
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
	Twitter   string `json:"twitter"`
	LinkedIn  string `json:"linkedin"`
}

// Settings is the store-wide configuration shown on the storefront.
type Settings struct {
	WhatsAppNumber  string      `json:"whatsappNumber"`
	ContactEmail    string      `json:"contactEmail"`
	ContactAddress  string      `json:"contactAddress"`
	SocialLinks     SocialLinks `json:"socialLinks"`
	BannerImage     string      `json:"bannerImage"`
	HeroBannerImage string      `json:"heroBannerImage"`
	AboutImage      string      `json:"aboutImage"`
}

func DefaultSettings() Settings {
	return Settings{
		WhatsAppNumber: DefaultWhatsAppNumber,
		ContactEmail:   DefaultContactEmail,
		ContactAddress: DefaultContactAddress,
	}
}

// SettingsFromValues assembles Settings from flat key/value rows.
// Missing contact keys fall back to the defaults.
func SettingsFromValues(values map[string]string) Settings {
	s := Settings{}
	s.Apply(values)
	if s.WhatsAppNumber == "" {
		s.WhatsAppNumber = DefaultWhatsAppNumber
	}
	if s.ContactEmail == "" {
		s.ContactEmail = DefaultContactEmail
	}
	if s.ContactAddress == "" {
		s.ContactAddress = DefaultContactAddress
	}
	return s
}

// Values flattens the settings into the Settings tab key space.
func (s Settings) Values() map[string]string {
	return map[string]string{
		KeyWhatsAppNumber:  s.WhatsAppNumber,
		KeyContactEmail:    s.ContactEmail,
		KeyContactAddress:  s.ContactAddress,
		KeyBannerImage:     s.BannerImage,
		KeyHeroBannerImage: s.HeroBannerImage,
		KeyAboutImage:      s.AboutImage,
		KeyFacebookLink:    s.SocialLinks.Facebook,
		KeyInstagramLink:   s.SocialLinks.Instagram,
		KeyTwitterLink:     s.SocialLinks.Twitter,
		KeyLinkedInLink:    s.SocialLinks.LinkedIn,
	}
}

// Apply overwrites the fields named in values. Unknown keys are ignored.
func (s *Settings) Apply(values map[string]string) {
	for key, value := range values {
		switch key {
		case KeyWhatsAppNumber:
			s.WhatsAppNumber = value
		case KeyContactEmail:
			s.ContactEmail = value
		case KeyContactAddress:
			s.ContactAddress = value
		case KeyBannerImage:
			s.BannerImage = value
		case KeyHeroBannerImage:
			s.HeroBannerImage = value
		case KeyAboutImage:
			s.AboutImage = value
		case KeyFacebookLink:
			s.SocialLinks.Facebook = value
		case KeyInstagramLink:
			s.SocialLinks.Instagram = value
		case KeyTwitterLink:
			s.SocialLinks.Twitter = value
		case KeyLinkedInLink:
			s.SocialLinks.LinkedIn = value
		}
	}
}
