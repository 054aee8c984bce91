package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/retailnet/backend/pkg/errors"
)

type samplePayload struct {
	Email    string `json:"email" validate:"required,email"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.c","quantity":1,"extra":true}`))
	var dest samplePayload
	err := DecodeJSONBody(r, &dest)
	if err == nil {
		t.Fatalf("expected unknown field rejection")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyNamesFieldsByJSONTag(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"not-an-email","quantity":0}`))
	var dest samplePayload
	err := DecodeJSONBody(r, &dest)
	if err == nil {
		t.Fatalf("expected validation failure")
	}
	details, ok := pkgerrors.As(err).Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field detail map, got %T", pkgerrors.As(err).Details())
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected email message %q", details["email"])
	}
	if details["quantity"] != "must be greater than 0" {
		t.Fatalf("unexpected quantity message %q", details["quantity"])
	}
}

func TestReadRawBodyLimits(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader("shop: TestShop"))
	body, err := ReadRawBody(r, 64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "shop: TestShop" {
		t.Fatalf("unexpected body %q", body)
	}

	r = httptest.NewRequest("POST", "/", strings.NewReader(strings.Repeat("x", 100)))
	if _, err := ReadRawBody(r, 64); err == nil {
		t.Fatalf("expected size rejection")
	}

	r = httptest.NewRequest("POST", "/", strings.NewReader(""))
	if _, err := ReadRawBody(r, 64); err == nil {
		t.Fatalf("expected empty body rejection")
	}
}
