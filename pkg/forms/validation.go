package forms

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validator validates a submitted value.
type Validator interface {
	// Validate checks if the value is valid.
	Validate(value string) error

	// Message returns the error message shown to the visitor.
	Message() string
}

// RequiredValidator validates that a field is not blank.
type RequiredValidator struct{}

func (v RequiredValidator) Validate(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("required")
	}
	return nil
}

func (v RequiredValidator) Message() string {
	return "This field is required"
}

// EmailValidator validates email format.
type EmailValidator struct{}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func (v EmailValidator) Validate(value string) error {
	if !emailRegex.MatchString(strings.TrimSpace(value)) {
		return errors.New("invalid email")
	}
	return nil
}

func (v EmailValidator) Message() string {
	return "Please enter a valid email address"
}

// PhoneValidator accepts digits with common separators, e.g. "+1 (555) 123-4567".
type PhoneValidator struct{}

var phoneRegex = regexp.MustCompile(`^\+?[0-9 ().-]{7,20}$`)

func (v PhoneValidator) Validate(value string) error {
	if !phoneRegex.MatchString(strings.TrimSpace(value)) {
		return errors.New("invalid phone")
	}
	return nil
}

func (v PhoneValidator) Message() string {
	return "Please enter a valid phone number"
}

// MaxLengthValidator validates maximum string length.
type MaxLengthValidator struct {
	Max int
}

func (v MaxLengthValidator) Validate(value string) error {
	if utf8.RuneCountInString(value) > v.Max {
		return fmt.Errorf("too long (max %d)", v.Max)
	}
	return nil
}

func (v MaxLengthValidator) Message() string {
	return fmt.Sprintf("Must be at most %d characters", v.Max)
}

// PatternValidator validates against a regex pattern.
type PatternValidator struct {
	Pattern *regexp.Regexp
	Msg     string
}

func (v PatternValidator) Validate(value string) error {
	if !v.Pattern.MatchString(value) {
		return errors.New("pattern mismatch")
	}
	return nil
}

func (v PatternValidator) Message() string {
	if v.Msg != "" {
		return v.Msg
	}
	return "Invalid format"
}

// Pattern returns a pattern validator. It panics if pattern does not compile.
func Pattern(pattern string, msg ...string) Validator {
	v := PatternValidator{Pattern: regexp.MustCompile(pattern)}
	if len(msg) > 0 {
		v.Msg = msg[0]
	}
	return v
}
