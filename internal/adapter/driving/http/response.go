package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ericfisherdev/workbook/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeFieldError writes a 400 naming the rejected field, with the field's
// message unchanged.
func writeFieldError(w http.ResponseWriter, err error) {
	var fe *model.FieldError
	if errors.As(err, &fe) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fe.Message, Field: fe.Field.String()})
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body. Field is set when a
// single record field was rejected.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// InternshipResponse is the JSON representation of an internship. Keys match
// the data file and the create body, so a listed record can be posted back.
type InternshipResponse struct {
	Company  string   `json:"company"`
	Role     string   `json:"role"`
	Phone    string   `json:"phone"`
	Email    string   `json:"email"`
	Stage    string   `json:"stage"`
	DateTime string   `json:"dateTime"`
	Tags     []string `json:"tagged"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// toInternshipResponse converts a domain Internship to its JSON response representation.
func toInternshipResponse(in model.Internship) InternshipResponse {
	tags := in.Tags()
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.String())
	}

	return InternshipResponse{
		Company:  in.Company().String(),
		Role:     in.Role().String(),
		Phone:    in.Phone().String(),
		Email:    in.Email().String(),
		Stage:    in.Stage().String(),
		DateTime: in.DateTime().String(),
		Tags:     names,
	}
}
