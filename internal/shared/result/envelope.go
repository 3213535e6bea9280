// Package result defines the uniform response envelope returned by every workflow operation.
package result

import (
	"net/http"

	"github.com/Apurer/rescue-adoption-api/internal/shared/failure"
)

// Envelope is the body of every workflow response.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// OK wraps a successful outcome.
func OK(message string, data any) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

// Fail converts err into a failed envelope. Validation failures carry their field map;
// every other code is keyed by the code itself. Storage failures never leak their cause.
func Fail(err error) Envelope {
	f := failure.From(err)
	if f == nil {
		return Envelope{Success: false, Message: failure.GenericStorageMessage}
	}
	env := Envelope{Success: false, Message: f.Message}
	if env.Message == "" {
		env.Message = string(f.Code)
	}
	switch {
	case f.Code == failure.CodeStorage:
		env.Message = failure.GenericStorageMessage
		env.Errors = map[string]string{string(failure.CodeStorage): failure.GenericStorageMessage}
	case len(f.Fields) > 0:
		env.Errors = make(map[string]string, len(f.Fields))
		for k, v := range f.Fields {
			env.Errors[k] = v
		}
	default:
		env.Errors = map[string]string{string(f.Code): env.Message}
	}
	return env
}

// HTTPStatus picks the transport status for err. Business failures are still
// successful exchanges; only storage failures map to a server error.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if failure.CodeOf(err) == failure.CodeStorage {
		return http.StatusInternalServerError
	}
	return http.StatusOK
}
