package logging

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErr(t *testing.T) {
	t.Run("nil error returns empty group", func(t *testing.T) {
		attr := Err(nil)
		assert.Equal(t, slog.KindGroup, attr.Value.Kind())
		assert.Empty(t, attr.Key)
	})

	t.Run("non-nil error returns error attribute", func(t *testing.T) {
		attr := Err(assert.AnError)
		assert.Equal(t, KeyError, attr.Key)
		assert.Equal(t, assert.AnError.Error(), attr.Value.String())
	})
}

func TestAnonymizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		empty bool
	}{
		{name: "empty email", email: "", empty: true},
		{name: "regular email", email: "user@example.com"},
		{name: "another email", email: "other@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnonymizeEmail(tt.email)
			if tt.empty {
				assert.Empty(t, got)
				return
			}
			assert.Contains(t, got, "user:")
			assert.NotContains(t, got, tt.email)
		})
	}

	// Same input must hash to the same value for log correlation.
	assert.Equal(t, AnonymizeEmail("a@b.c"), AnonymizeEmail("a@b.c"))
	assert.NotEqual(t, AnonymizeEmail("a@b.c"), AnonymizeEmail("x@y.z"))
}

func TestSanitizeToken(t *testing.T) {
	assert.Equal(t, "<empty>", SanitizeToken(""))
	assert.Equal(t, "[token:6 chars]", SanitizeToken("secret"))
	assert.NotContains(t, SanitizeToken("supersecrettoken"), "supersecret")
}

func TestAttrHelpers(t *testing.T) {
	assert.Equal(t, KeyStatus, Status(StatusSuccess).Key)
	assert.Equal(t, KeyService, Service("agent").Key)
	assert.Equal(t, KeyAttempt, Attempt(2).Key)
	assert.Equal(t, int64(2), Attempt(2).Value.Int64())
}

func TestWithOperation(t *testing.T) {
	assert.NotNil(t, WithOperation(slog.Default(), "gmail.send"))
}

func TestWithTool(t *testing.T) {
	assert.NotNil(t, WithTool(slog.Default(), "get_weather"))
}
