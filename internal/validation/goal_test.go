package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDescription(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"ok", "ship v2", nil},
		{"padded", "  ship v2  ", nil},
		{"unicode at limit", strings.Repeat("é", MaxDescriptionLength), nil},
		{"empty", "", ErrDescriptionRequired},
		{"blank", " \t ", ErrDescriptionRequired},
		{"too long", strings.Repeat("a", MaxDescriptionLength+1), ErrDescriptionTooLong},
		{"newline", "ship\nv2", ErrDescriptionControl},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDescription(tt.in)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsDescriptionError(err))
		})
	}

	assert.False(t, IsDescriptionError(assert.AnError))
}
