package common

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
)

func TestIsMatchesWrappedCode(t *testing.T) {
	err := fmt.Errorf("load user: %w", NewError(CodeInternal, "failed to load user", sql.ErrConnDone))
	if !Is(err, CodeInternal) {
		t.Fatalf("expected internal code, got %v", err)
	}
	if Is(err, CodeNotFound) {
		t.Fatalf("unexpected not_found match")
	}
	if !errors.Is(err, sql.ErrConnDone) {
		t.Fatalf("expected cause to be preserved")
	}
}

func TestErrorMessage(t *testing.T) {
	if got := NewError(CodeForbidden, "role mismatch", nil).Error(); got != "role mismatch" {
		t.Fatalf("unexpected message %q", got)
	}
	if Is(errors.New("plain"), CodeInternal) {
		t.Fatalf("plain errors carry no code")
	}
}
