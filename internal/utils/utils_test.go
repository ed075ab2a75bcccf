package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"Simple", "Philadelphia Roll", "philadelphia-roll"},
		{"Punctuation", "Chef's Special!!", "chef-s-special"},
		{"ExtraSpaces", "  Spicy   Tuna  ", "spicy-tuna"},
		{"AlreadySlug", "dragon-roll", "dragon-roll"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.input))
		})
	}
}

func TestUserContext(t *testing.T) {
	ctx := context.Background()

	_, ok := GetUserIDFromContext(ctx)
	assert.False(t, ok)

	ctx = SetUserContext(ctx, "u-1", "user@example.com", "USER")

	id, ok := GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u-1", id)
	assert.Equal(t, "user@example.com", GetUserEmailFromContext(ctx))
	assert.Equal(t, "USER", GetUserRoleFromContext(ctx))
}

func TestPtrHelpers(t *testing.T) {
	assert.Equal(t, "x", PtrString(StrPtr("x")))
	assert.Equal(t, "", PtrString(nil))
	assert.Equal(t, 0, PtrInt(nil))
	assert.Equal(t, 0.0, PtrFloat(nil))
}
