// Package bind decodes an HTTP request body into a struct, capped at
// MAX_BODY_BYTES.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shashiranjanraj/agromart/config"
)

// ErrMalformed wraps every decoding failure so handlers can answer 400.
var ErrMalformed = errors.New("malformed request body")

// Decode reads one JSON value into dest; an empty body leaves dest untouched.
func Decode(r *http.Request, dest interface{}) error {
	if r.Body == nil {
		return nil
	}
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: body too large (max %d bytes)", ErrMalformed, maxErr.Limit)
		}
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
