package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/C3604/ChronoAtlas/internal/config"
	"github.com/C3604/ChronoAtlas/internal/domain"

	"gopkg.in/yaml.v3"
)

// ParseJSON decodes JSON from the request body into the given destination.
// The body is capped at config.MaxRequestBodyBytes. An empty body decodes
// as {} and leaves dest untouched.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	data, err := readBody(w, r)
	if err != nil || len(data) == 0 {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return jsonError(err)
	}
	return nil
}

// ParseBody decodes a JSON or YAML body, chosen by Content-Type.
func ParseBody(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml":
	default:
		return ParseJSON(w, r, dest)
	}

	data, err := readBody(w, r)
	if err != nil || len(data) == 0 {
		return err
	}
	if err := yaml.Unmarshal(data, dest); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return ve
		}
		return domain.NewValidationError("", "invalid YAML: %v", err)
	}
	return nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBodyBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &domain.PayloadTooLargeError{Limit: tooLarge.Limit}
		}
		return nil, domain.NewValidationError("", "read request body: %v", err)
	}
	return bytes.TrimSpace(data), nil
}

// jsonError keeps validation errors raised by custom unmarshalers and
// wraps everything else as a malformed body.
func jsonError(err error) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return domain.NewValidationError(typeErr.Field, "%s must be %s", typeErr.Field, typeErr.Type.String())
	}
	return domain.NewValidationError("", "invalid JSON: %v", err)
}
