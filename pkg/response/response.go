// Package response renders the JSON envelope shared by every endpoint.
//
//	{"status":"SUCCESS","message":"...","data":...}
//	{"status":"FAIL","message":"Validation failed.","errors":{"field":["..."]}}
//	{"status":"FAIL","message":"...","error_message":"..."}
//
// Services build a Result; handlers hand it to Write.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/catalog/pkg/validate"
)

// Envelope status values.
const (
	StatusSuccess = "SUCCESS"
	StatusFail    = "FAIL"
)

// DataKey is the default payload key of a success envelope.
const DataKey = "data"

// Result is the outcome of a service operation together with the HTTP code
// it maps to. The zero Result is not valid; use the constructors.
type Result struct {
	Code    int
	Status  string
	Message string

	// Key names the payload field; empty means the envelope carries no payload.
	Key     string
	Payload any

	Errors       validate.Errors
	ErrorMessage string
}

// Success returns a 200 result with no payload.
func Success(message string) Result {
	return Result{Code: http.StatusOK, Status: StatusSuccess, Message: message}
}

// With attaches payload under key.
func (r Result) With(key string, payload any) Result {
	r.Key = key
	r.Payload = payload
	return r
}

// Data attaches payload under the default "data" key.
func (r Result) Data(payload any) Result { return r.With(DataKey, payload) }

// Fail returns a domain failure with the given status code.
func Fail(code int, message string) Result {
	return Result{Code: code, Status: StatusFail, Message: message}
}

// Invalid returns a 422 validation failure.
func Invalid(message string, errs validate.Errors) Result {
	return Result{Code: http.StatusUnprocessableEntity, Status: StatusFail, Message: message, Errors: errs}
}

// ServerError returns a 500 carrying err's text as error_message.
func ServerError(message string, err error) Result {
	r := Result{Code: http.StatusInternalServerError, Status: StatusFail, Message: message}
	if err != nil {
		r.ErrorMessage = err.Error()
	}
	return r
}

// OK reports whether r is a success envelope.
func (r Result) OK() bool { return r.Status == StatusSuccess }

// MarshalJSON renders the envelope; the payload key is dynamic.
func (r Result) MarshalJSON() ([]byte, error) {
	body := map[string]any{
		"status":  r.Status,
		"message": r.Message,
	}
	if r.Key != "" {
		body[r.Key] = r.Payload
	}
	if r.Errors != nil {
		body["errors"] = r.Errors
	}
	if r.ErrorMessage != "" {
		body["error_message"] = r.ErrorMessage
	}
	return json.Marshal(body)
}

// Write sends r with its status code.
func Write(w http.ResponseWriter, r Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.Code)
	json.NewEncoder(w).Encode(r) //nolint:errcheck
}

// Error sends a bare FAIL envelope. Used by middleware that runs before any service.
func Error(w http.ResponseWriter, status int, message string) {
	Write(w, Fail(status, message))
}
