package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationErrorUnwraps(t *testing.T) {
	err := fmt.Errorf("create product: %w", Invalid("price", ErrNotPositive))

	if !IsValidation(err) {
		t.Fatal("expected a ValidationError in the chain")
	}
	if !errors.Is(err, ErrNotPositive) {
		t.Fatal("errors.Is should reach the cause")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "price" {
		t.Fatalf("field = %+v", ve)
	}
	if got := ve.Error(); got != "price must be greater than zero" {
		t.Errorf("Error() = %q", got)
	}
}

func TestPersistenceDoesNotDoubleWrap(t *testing.T) {
	cause := errors.New("connection reset")
	first := Persistence("set", "products", cause)
	second := Persistence("push", "receipts", first)

	if second != first {
		t.Fatal("an existing PersistenceError should be returned as is")
	}
	if !errors.Is(second, cause) {
		t.Fatal("cause lost")
	}
	if Persistence("set", "products", nil) != nil {
		t.Fatal("nil error should stay nil")
	}
	if IsPersistence(ErrNotFound) {
		t.Fatal("ErrNotFound is not a persistence failure")
	}
}
