package common

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform JSON shape returned by every endpoint.
type Envelope struct {
	Message string      `json:"message"`
	Errors  []string    `json:"errors"`
	Data    interface{} `json:"data"`
	Status  int         `json:"status"`
}

// PaginatedData wraps a page of results for list endpoints.
type PaginatedData struct {
	Count   int         `json:"count"`
	Page    int         `json:"page"`
	Limit   int         `json:"limit"`
	Results interface{} `json:"results"`
}

// DefaultMessage picks a message from the status code class when the caller
// supplies none.
func DefaultMessage(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "Success"
	case code >= 400 && code < 500:
		return "A client error occurred."
	case code >= 500 && code < 600:
		return "A server error occurred."
	}
	return "Response"
}

func RespondWithData(w http.ResponseWriter, code int, message string, data interface{}) {
	if message == "" {
		message = DefaultMessage(code)
	}
	writeEnvelope(w, code, Envelope{
		Message: message,
		Errors:  []string{},
		Data:    data,
		Status:  code,
	})
}

func RespondWithError(w http.ResponseWriter, code int, errs ...string) {
	writeEnvelope(w, code, Envelope{
		Message: DefaultMessage(code),
		Errors:  errs,
		Data:    nil,
		Status:  code,
	})
}

func writeEnvelope(w http.ResponseWriter, code int, payload Envelope) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"A server error occurred.","errors":["failed to marshal JSON response"],"data":null,"status":500}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
