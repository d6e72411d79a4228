package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"embedding-mock/internal/embedapi"
)

// DefaultMaxBodyBytes applies when ReadJSONObject is given no positive limit.
const DefaultMaxBodyBytes int64 = 1 << 20

// Validator is shared by handlers. Field names are reported by their json tag.
var Validator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// RequestError is a client error with the status and details to report.
type RequestError struct {
	Status int
	Detail []embedapi.FieldError
}

func (e *RequestError) Error() string {
	msgs := make([]string, len(e.Detail))
	for i, d := range e.Detail {
		msgs[i] = fmt.Sprintf("%s: %s", strings.Join(d.Loc, "."), d.Msg)
	}
	return fmt.Sprintf("request validation failed (%d): %s", e.Status, strings.Join(msgs, "; "))
}

// Unprocessable wraps details in a 422 RequestError.
func Unprocessable(detail ...embedapi.FieldError) *RequestError {
	return &RequestError{Status: http.StatusUnprocessableEntity, Detail: detail}
}

// FieldErrors converts validator errors to field errors. Other errors yield nil.
func FieldErrors(err error) []embedapi.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]embedapi.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			out = append(out, embedapi.BodyField(fe.Field(), embedapi.MsgMissing, embedapi.ErrTypeMissing))
		default:
			out = append(out, embedapi.BodyField(fe.Field(), fmt.Sprintf("Value failed the '%s' check", fe.Tag()), fe.Tag()))
		}
	}
	return out
}

// ReadJSONObject reads at most limit bytes of the body and decodes it as a JSON
// object. Failures are returned as *RequestError.
func ReadJSONObject(w http.ResponseWriter, r *http.Request, limit int64) (map[string]json.RawMessage, error) {
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &RequestError{
				Status: http.StatusRequestEntityTooLarge,
				Detail: []embedapi.FieldError{embedapi.BodyError(fmt.Sprintf("Body exceeds %d bytes", tooLarge.Limit), embedapi.ErrTypeTooLarge)},
			}
		}
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, Unprocessable(embedapi.BodyError(embedapi.MsgMissing, embedapi.ErrTypeMissing))
	}
	if !json.Valid(body) {
		return nil, Unprocessable(embedapi.BodyError(embedapi.MsgJSONInvalid, embedapi.ErrTypeJSONInvalid))
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil || obj == nil {
		return nil, Unprocessable(embedapi.BodyError(embedapi.MsgModelType, embedapi.ErrTypeModelType))
	}
	return obj, nil
}

// StringField decodes obj[name] into dst. A missing or null value leaves dst nil.
// A value of any other JSON type yields a string_type FieldError.
func StringField(obj map[string]json.RawMessage, name string, dst **string) *embedapi.FieldError {
	raw, ok := obj[name]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		fe := embedapi.BodyField(name, embedapi.MsgStringType, embedapi.ErrTypeStringType)
		return &fe
	}
	*dst = &s
	return nil
}

// ValidationError writes a client error response for err.
// *RequestError and validator errors are reported with their details;
// anything else becomes a 500.
func ValidationError(log *slog.Logger, w http.ResponseWriter, err error) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		WriteValidationErrors(log, w, reqErr.Status, reqErr.Detail)
		return
	}
	if detail := FieldErrors(err); detail != nil {
		WriteValidationErrors(log, w, http.StatusUnprocessableEntity, detail)
		return
	}
	Fail(log, w, "request validation failed", err, http.StatusInternalServerError)
}

// WriteValidationErrors writes detail as a ValidationResponse.
func WriteValidationErrors(log *slog.Logger, w http.ResponseWriter, status int, detail []embedapi.FieldError) {
	if status == 0 {
		status = http.StatusUnprocessableEntity
	}
	log.Warn("request rejected", "status", status, "detail", detail)
	WriteJSON(w, status, embedapi.ValidationResponse{Detail: detail})
}
