package requests

import (
	"strings"

	"github.com/shashiranjanraj/agromart/pkg/table"
	"github.com/shashiranjanraj/agromart/pkg/validate"
)

// LoginRequest is the body of POST /api/admin/login.
type LoginRequest struct {
	Password string `json:"password" validate:"required,max=200"`
}

// minPrivateKeyLen filters placeholder keys out of a saved config.
const minPrivateKeyLen = 100

// SheetsConfigRequest is the body of POST /api/sheets-config and its /test
// variant.
type SheetsConfigRequest struct {
	SheetID             string `json:"sheetId"             validate:"required,max=255"`
	ServiceAccountEmail string `json:"serviceAccountEmail" validate:"nullable,email,max=255"`
	PrivateKey          string `json:"privateKey"          validate:"nullable,max=5000"`
}

// Credentials returns the update to merge into the stored credentials.
// A saved config only takes a private key that looks like a real PEM
// block; a test accepts any non-empty key.
func (r SheetsConfigRequest) Credentials(forTest bool) (table.Credentials, error) {
	r.SheetID = strings.TrimSpace(r.SheetID)
	r.ServiceAccountEmail = strings.TrimSpace(r.ServiceAccountEmail)
	r.PrivateKey = strings.TrimSpace(r.PrivateKey)

	if err := invalid(validate.Struct(r)); err != nil {
		return table.Credentials{}, err
	}
	creds := table.Credentials{
		SheetID:             r.SheetID,
		ServiceAccountEmail: r.ServiceAccountEmail,
	}
	if forTest || len(r.PrivateKey) > minPrivateKeyLen {
		creds.PrivateKey = r.PrivateKey
	}
	return creds, nil
}
