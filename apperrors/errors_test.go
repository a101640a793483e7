package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"not found wrapped", fmt.Errorf("get goal: %w", ErrNotFound), http.StatusNotFound},
		{"validation", Invalid("amount", "must be greater than 0"), http.StatusBadRequest},
		{"conflict", &ConflictError{Field: "category", Message: "already exists"}, http.StatusBadRequest},
		{"internal", Internal("list budgets", errors.New("connection reset")), http.StatusInternalServerError},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HTTPStatus(tc.err); got != tc.want {
				t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestInternalKeepsClassifiedErrors(t *testing.T) {
	if err := Internal("get", ErrNotFound); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Internal(ErrNotFound) = %v, want ErrNotFound", err)
	}
	cause := errors.New("socket closed")
	err := Internal("ping", cause)
	var ie *InternalError
	if !errors.As(err, &ie) || ie.Op != "ping" || !errors.Is(err, cause) {
		t.Fatalf("Internal did not wrap cause: %#v", err)
	}
	if Internal("noop", nil) != nil {
		t.Fatal("Internal(nil) should be nil")
	}
}

func TestDetails(t *testing.T) {
	d := Details(&ConflictError{Field: "category", Message: "budget already exists"})
	if len(d) != 1 || d[0].Field != "category" {
		t.Fatalf("conflict details = %+v", d)
	}
	if Details(errors.New("x")) != nil {
		t.Fatal("plain error should have no details")
	}
}
