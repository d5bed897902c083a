package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fitcoach/coaching-platform/internal/core/domain"
)

func handleError(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	return rec, body
}

func TestErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid auth context", domain.ErrInvalidAuthContext, http.StatusUnauthorized},
		{"not protected", domain.ErrNotProtectedCollection, http.StatusBadRequest},
		{"unauthorized", domain.ErrUnauthorized, http.StatusForbidden},
		{"record not found", domain.ErrRecordNotFound, http.StatusNotFound},
		{"ownership immutable", domain.ErrOwnershipImmutable, http.StatusConflict},
		{"assignment not found", domain.ErrAssignmentNotFound, http.StatusNotFound},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"account exists", domain.ErrAccountExists, http.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := handleError(t, tc.err)
			if rec.Code != tc.code {
				t.Fatalf("code = %d, want %d", rec.Code, tc.code)
			}
		})
	}
}

func TestErrorHandler_IntegrityErrorNamesMissingFields(t *testing.T) {
	err := &domain.DataIntegrityError{
		Collection:    domain.CollectionWeeklyCheckins,
		MissingFields: []string{"trainerId", "weekNumber"},
	}

	rec, body := handleError(t, err)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("code = %d, want 422", rec.Code)
	}

	fields, ok := body["missing_fields"].([]any)
	if !ok || len(fields) != 2 {
		t.Fatalf("missing_fields = %v", body["missing_fields"])
	}
	if fields[0] != "trainerId" || fields[1] != "weekNumber" {
		t.Errorf("missing_fields = %v", fields)
	}
}

// Denial of a record the caller does not own must be byte-identical to
// a genuine miss: same status, same body.
func TestErrorHandler_NotFoundIsGeneric(t *testing.T) {
	rec, body := handleError(t, domain.ErrRecordNotFound)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", rec.Code)
	}
	if body["error"] != "not found" {
		t.Errorf("error = %v, want generic message", body["error"])
	}
	if _, ok := body["missing_fields"]; ok {
		t.Errorf("missing_fields should be omitted")
	}
}

func TestErrorHandler_UnexpectedErrorIsOpaque(t *testing.T) {
	rec, body := handleError(t, errors.New("pq: connection reset by peer"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d, want 500", rec.Code)
	}
	if body["error"] != "internal server error" {
		t.Errorf("internal detail leaked: %v", body["error"])
	}
}

func TestErrorHandler_EchoHTTPErrorPassthrough(t *testing.T) {
	rec, body := handleError(t, echo.NewHTTPError(http.StatusTeapot, "short and stout"))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("code = %d, want 418", rec.Code)
	}
	if body["error"] != "short and stout" {
		t.Errorf("error = %v", body["error"])
	}
}
