package common

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRespondWithDataEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithData(rec, http.StatusCreated, "Successfully created a Ride record.", map[string]string{"id": "ride-1"})

	if rec.Code != http.StatusCreated {
		t.Errorf("code = %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var envelope Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if envelope.Message != "Successfully created a Ride record." {
		t.Errorf("message = %q", envelope.Message)
	}
	if envelope.Errors == nil || len(envelope.Errors) != 0 {
		t.Errorf("errors = %v, want empty list", envelope.Errors)
	}
	if envelope.Status != http.StatusCreated {
		t.Errorf("status = %d, want 201", envelope.Status)
	}
}

func TestRespondWithDataDefaultMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithData(rec, http.StatusOK, "", nil)

	var envelope Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if envelope.Message != "Success" {
		t.Errorf("message = %q, want Success", envelope.Message)
	}
}

func TestRespondWithErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithError(rec, http.StatusBadRequest, "rider must not be an admin user")

	var envelope Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if envelope.Message != "A client error occurred." {
		t.Errorf("message = %q", envelope.Message)
	}
	if len(envelope.Errors) != 1 || envelope.Errors[0] != "rider must not be an admin user" {
		t.Errorf("errors = %v", envelope.Errors)
	}
	if envelope.Data != nil {
		t.Errorf("data = %v, want nil", envelope.Data)
	}
}

func TestDefaultMessage(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{200, "Success"},
		{201, "Success"},
		{400, "A client error occurred."},
		{404, "A client error occurred."},
		{500, "A server error occurred."},
		{302, "Response"},
	}
	for _, tt := range tests {
		if got := DefaultMessage(tt.code); got != tt.want {
			t.Errorf("DefaultMessage(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestHTTPStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrNotFound, http.StatusNotFound},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrValidation, http.StatusBadRequest},
		{ErrInvalidTransition, http.StatusBadRequest},
		{ErrBadRequest, http.StatusBadRequest},
		{ErrConflict, http.StatusConflict},
		{Errorf("wrapped: %w", ErrInvalidTransition), http.StatusBadRequest},
		{Errorf("deep: %w", Errorf("wrap: %w", ErrNotFound)), http.StatusNotFound},
		{Errorf("plain failure"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatusFromError(tt.err); got != tt.want {
			t.Errorf("HTTPStatusFromError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"0", 1},
		{"-3", 1},
		{"junk", 1},
		{"2", 2},
	}
	for _, tt := range tests {
		if got := ParsePage(tt.raw); got != tt.want {
			t.Errorf("ParsePage(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", DefaultPageSize},
		{"0", DefaultPageSize},
		{"junk", DefaultPageSize},
		{"50", 50},
		{"1000", MaxPageSize},
	}
	for _, tt := range tests {
		if got := ParseLimit(tt.raw); got != tt.want {
			t.Errorf("ParseLimit(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}
