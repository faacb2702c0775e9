package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"Plain", "yes", nil},
		{"Unicode", "café ☕", nil},
		{"At Limit", strings.Repeat("a", DefaultMaxInputSize), nil},
		{"Over Limit", strings.Repeat("a", DefaultMaxInputSize+1), ErrInputTooLarge},
		{"Invalid UTF-8", "\xbd\xb2\x3d\xbc", ErrInvalidUTF8},
		{"Bell Inside Option", "y\aes", ErrControlCharacter},
		{"ANSI Escape", "\x1b[31mred", ErrControlCharacter},
		{"NUL", "no\x00", ErrControlCharacter},
		{"Newline", "yes\n", ErrControlCharacter},
		{"Tab", "a\tb", ErrControlCharacter},
		{"C1 Control", "x\u0085", ErrControlCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInput(tt.input)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsInputRejected(err))
		})
	}
}

func TestValidateInput_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "10")
	assert.Equal(t, 10, MaxInputSize())
	assert.ErrorIs(t, ValidateInput("12345678901"), ErrInputTooLarge)
	assert.NoError(t, ValidateInput("12345"))

	t.Setenv(EnvMaxInputSize, "-3")
	assert.Equal(t, DefaultMaxInputSize, MaxInputSize())
}

func TestIsInputRejected_OtherErrors(t *testing.T) {
	assert.False(t, IsInputRejected(nil))
	assert.False(t, IsInputRejected(assert.AnError))
}
