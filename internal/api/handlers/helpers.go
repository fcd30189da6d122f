package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/sleepharmony/landing/internal/pkg/errors"
	"github.com/sleepharmony/landing/internal/pkg/validator"
)

// maxBodyBytes bounds request bodies on the public endpoints
const maxBodyBytes = 64 << 10

// decodeAndValidate reads a JSON body into dst and validates it. The returned
// AppError is ready to be written as a 400.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validator, dst interface{}) *errors.AppError {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if err == io.EOF {
			return errors.BadRequest("Request body is required")
		}
		return errors.BadRequest("Invalid request body")
	}

	if errs := v.Validate(dst); len(errs) > 0 {
		return errors.ValidationError(validator.Summary(errs), errs)
	}
	return nil
}
