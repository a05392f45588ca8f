package validators

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/farmtotable/farmtotable-backend/pkg/errors"
)

type samplePayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.com","password":"longenough"}`))

	var payload samplePayload
	if err := DecodeJSONBody(req, &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Email != "a@b.com" {
		t.Fatalf("expected email decoded, got %q", payload.Email)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.com","password":"longenough","extra":true}`))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}

	var typed *pkgerrors.Error
	if !errors.As(err, &typed) || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyMalformed(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":`))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	if err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestDecodeJSONBodyFieldMessagesUseJSONNames(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"not-an-email","password":"short"}`))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)

	var typed *pkgerrors.Error
	if !errors.As(err, &typed) {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected detail map, got %T", typed.Details())
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected email message: %q", details["email"])
	}
	if details["password"] != "must be at least 8" {
		t.Fatalf("unexpected password message: %q", details["password"])
	}
}

func TestValidateStruct(t *testing.T) {
	err := ValidateStruct(&samplePayload{Email: "a@b.com", Password: "longenough"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = ValidateStruct(&samplePayload{})
	var typed *pkgerrors.Error
	if !errors.As(err, &typed) || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
