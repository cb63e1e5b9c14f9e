package errors

import (
	"fmt"
	"testing"
)

func TestIsTypeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("saving: %w", Storage("write failed", fmt.Errorf("disk full")))

	if !IsType(err, TypeStorage) {
		t.Error("expected storage kind through fmt wrapping")
	}
	if IsType(err, TypeValidation) {
		t.Error("unexpected validation kind")
	}
	if IsType(fmt.Errorf("plain"), TypeStorage) {
		t.Error("plain errors have no kind")
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"plain", Validation("session name is required"), "[VALIDATION_ERROR] session name is required"},
		{"cause", Storage("read failed", fmt.Errorf("eof")), "[STORAGE_ERROR] read failed: eof"},
		{
			"context",
			NotFound("volume", "gp9").WithContext("location", "plan.hcl:3").WithContext("entry", 2),
			"[NOT_FOUND] volume not found: gp9 (entry=2, location=plan.hcl:3)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
