package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxInputSize bounds a single line of input, in bytes.
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize overrides DefaultMaxInputSize when set to a positive integer.
	EnvMaxInputSize = "SPRIG_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge    = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8      = errors.New("input contains invalid UTF-8 sequences")
	ErrControlCharacter = errors.New("input contains control characters")
)

// ValidateInput checks a line of user input before it reaches the engine.
// Input is accepted or rejected as is, never rewritten: an altered option
// could name a different, declared one.
func ValidateInput(input string) error {
	if limit := MaxInputSize(); len(input) > limit {
		return fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return ErrInvalidUTF8
	}
	if i := strings.IndexFunc(input, unicode.IsControl); i >= 0 {
		r, _ := utf8.DecodeRuneInString(input[i:])
		return fmt.Errorf("%w: %U at byte %d", ErrControlCharacter, r, i)
	}
	return nil
}

// IsInputRejected reports whether err came from ValidateInput.
func IsInputRejected(err error) bool {
	return errors.Is(err, ErrInputTooLarge) || errors.Is(err, ErrInvalidUTF8) || errors.Is(err, ErrControlCharacter)
}

// MaxInputSize returns the active input limit.
func MaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
