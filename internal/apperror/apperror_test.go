package apperror

import (
	"errors"
	"fmt"
	"testing"
)

// Each constructor must be recognisable through errors.Is, including after
// being wrapped by a repository or service with fmt.Errorf("...: %w").
func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{"NotFound wraps ErrNotFound", NotFound("meal", "abc"), ErrNotFound, true},
		{"ValidationFailed wraps ErrValidation", ValidationFailed("cost", "cost must not be negative"), ErrValidation, true},
		{"Conflict wraps ErrConflict", Conflict("user", "bob"), ErrConflict, true},
		{"Forbidden wraps ErrForbidden", Forbidden("not yours"), ErrForbidden, true},
		{"Unauthorized wraps ErrUnauthorized", Unauthorized("login first"), ErrUnauthorized, true},
		{"Upstream wraps ErrUpstream", Upstream("model down", errors.New("dial tcp")), ErrUpstream, true},
		{"wrapped NotFound still matches", fmt.Errorf("service/meal: %w", NotFound("meal", "x")), ErrNotFound, true},
		{"NotFound does not match ErrValidation", NotFound("meal", "abc"), ErrValidation, false},
		{"ValidationFailed does not match ErrNotFound", ValidationFailed("date", "bad date"), ErrNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{"NotFound names resource and id", NotFound("meal", "abc123"), `meal "abc123" not found`},
		{"ValidationFailed keeps custom message", ValidationFailed("username", "nickname is required"), "nickname is required"},
		{"Conflict names resource and id", Conflict("user", "bob"), `user "bob" already exists`},
		{"Upstream hides the cause", Upstream("生成失败，请稍后重试", errors.New("secret detail")), "生成失败，请稍后重试"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestUpstreamKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Upstream("model unavailable", cause)

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false, want true")
	}
}

func TestValidationFailedField(t *testing.T) {
	err := ValidationFailed("mealType", "unknown meal slot")

	if err.Field != "mealType" {
		t.Errorf("Field = %q, want %q", err.Field, "mealType")
	}
}
