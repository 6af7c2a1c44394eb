package http

import (
	"errors"
	"strings"
	"testing"
)

func TestHex32Validation(t *testing.T) {
	type P struct {
		LoanOfferID string `validate:"hex32"`
	}
	cv := NewValidator()

	// valid: 32-char lowercase hex
	ok := P{LoanOfferID: strings.Repeat("a", 32)}
	if err := cv.Validate(ok); err != nil {
		t.Fatalf("expected valid hex32, got err: %v", err)
	}

	// invalid samples
	for _, s := range []string{
		"",                                  // empty
		strings.Repeat("A", 32),             // uppercase
		"deadbeef",                          // too short
		strings.Repeat("g", 32),             // non-hex char
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c8",   // 31 chars
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88x", // 33 with extra
	} {
		bad := P{LoanOfferID: s}
		err := cv.Validate(bad)
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		fe := ToFieldErrors(err)
		if !containsFieldMsg(fe, "LoanOfferID", "32-char lowercase hex") {
			t.Fatalf("expected hex32 message for %q, got: %+v", s, fe)
		}
	}
}

func TestPhoneValidation(t *testing.T) {
	type P struct {
		Phone string `validate:"phone"`
	}
	cv := NewValidator()

	for _, s := range []string{"+2348012345678", "08012345678", "2348012345678"} {
		if err := cv.Validate(P{Phone: s}); err != nil {
			t.Fatalf("expected valid phone %q, got %v", s, err)
		}
	}
	for _, s := range []string{"", "080123", "+234-801-234-5678", "notaphone", "+23480123456789012"} {
		err := cv.Validate(P{Phone: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		fe := ToFieldErrors(err)
		if !containsFieldMsg(fe, "Phone", "valid phone number") {
			t.Fatalf("expected phone message for %q, got: %+v", s, fe)
		}
	}
}

func TestBankCodeValidation(t *testing.T) {
	type P struct {
		BankCode string `validate:"bankcode"`
	}
	cv := NewValidator()

	for _, s := range []string{"058", "044", "100004"} {
		if err := cv.Validate(P{BankCode: s}); err != nil {
			t.Fatalf("expected valid bank code %q, got %v", s, err)
		}
	}
	for _, s := range []string{"", "05", "ABC", "1234567"} {
		if err := cv.Validate(P{BankCode: s}); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestRequiredAndBoundsMapping(t *testing.T) {
	type P struct {
		Name string `validate:"required"`
		Min  int    `validate:"gte=10"`
		Max  int    `validate:"lte=5"`
	}
	cv := NewValidator()

	// Intentionally violate all
	err := cv.Validate(P{
		Name: "", // required
		Min:  9,  // gte=10
		Max:  6,  // lte=5
	})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)

	if !containsFieldMsg(fe, "Name", "is required") {
		t.Fatalf("missing 'is required' for Name: %+v", fe)
	}
	if !containsFieldMsg(fe, "Min", "greater than or equal to 10") {
		t.Fatalf("missing gte message for Min: %+v", fe)
	}
	if !containsFieldMsg(fe, "Max", "less than or equal to 5") {
		t.Fatalf("missing lte message for Max: %+v", fe)
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	err := errors.New("boom")
	fe := ToFieldErrors(err)
	if len(fe) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fe))
	}
	if fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe[0])
	}
}
