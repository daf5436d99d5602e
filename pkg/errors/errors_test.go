package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, cause, "list medicines")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestAsThroughFmtWrapping(t *testing.T) {
	inner := New(CodeValidation, "quantity out of range")
	outer := fmt.Errorf("submit order: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error through fmt wrapping")
	}
	if typed.Code() != CodeValidation {
		t.Fatalf("unexpected code %s", typed.Code())
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal metadata, got status %d", meta.HTTPStatus)
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeDependency, stdErrors.New("timeout"), "fetch trends")
	dump := Dump(err)

	if dump.Code != CodeDependency {
		t.Fatalf("unexpected code %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected two entries in chain, got %d", len(dump.Chain))
	}
}

func TestNilErrorAccessors(t *testing.T) {
	var err *Error
	if err.Code() != CodeInternal {
		t.Fatal("nil error should report internal code")
	}
	if err.Error() != "" {
		t.Fatal("nil error should stringify to empty")
	}
}
