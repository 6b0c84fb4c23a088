package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	t.Parallel()

	if meta := MetadataFor(CodeValidation); meta.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected 400 for validation, got %d", meta.HTTPStatus)
	}
	if meta := MetadataFor(CodeNotFound); meta.HTTPStatus != http.StatusNotFound {
		t.Fatalf("expected 404 for not found, got %d", meta.HTTPStatus)
	}
	if meta := MetadataFor(Code("BOGUS")); meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback for unknown code, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("boom")
	err := Wrap(CodeDependency, cause, "loading product")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be discoverable via errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code: %s", err.Code())
	}
	if err.Error() != fmt.Sprintf("%s: loading product", CodeDependency) {
		t.Fatalf("unexpected error string: %s", err.Error())
	}
}

func TestAsFindsTypedErrorInChain(t *testing.T) {
	t.Parallel()

	inner := New(CodeValidation, "quantity must be positive")
	outer := fmt.Errorf("applying cart operation: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error in chain")
	}
	if typed.Code() != CodeValidation {
		t.Fatalf("unexpected code: %s", typed.Code())
	}
}

func TestDumpCollectsChain(t *testing.T) {
	t.Parallel()

	err := Wrap(CodeInternal, stdErrors.New("root"), "outer")
	dump := Dump(err)

	if dump.Code != CodeInternal {
		t.Fatalf("unexpected code: %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected 2 chain entries, got %d", len(dump.Chain))
	}
}

func TestWithDetails(t *testing.T) {
	t.Parallel()

	err := New(CodeValidation, "bad tier table").WithDetails(map[string]any{"field": "min_quantity"})
	details, ok := err.Details().(map[string]any)
	if !ok {
		t.Fatal("expected map details")
	}
	if details["field"] != "min_quantity" {
		t.Fatalf("unexpected details: %+v", details)
	}
}
