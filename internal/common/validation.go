package common

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ValidationError is one rejected field of a registry payload.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationRule checks one value and returns nil when it is acceptable.
type ValidationRule func(field string, value any) *ValidationError

// Validator collects every failing rule.
type Validator struct {
	errors []ValidationError
}

func NewValidator() *Validator {
	return &Validator{}
}

// Field runs rules against value in order.
func (v *Validator) Field(field string, value any, rules ...ValidationRule) *Validator {
	for _, rule := range rules {
		if err := rule(field, value); err != nil {
			v.errors = append(v.errors, *err)
		}
	}
	return v
}

func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

func (v *Validator) Errors() []ValidationError {
	return v.errors
}

// Message joins the failures as "campo: motivo; campo: motivo".
func (v *Validator) Message() string {
	parts := make([]string, 0, len(v.errors))
	for _, e := range v.errors {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

// ValidateAndReturnError turns collected failures into a VALIDATION_ERROR AppError.
func ValidateAndReturnError(v *Validator) error {
	if !v.HasErrors() {
		return nil
	}
	return NewAppError("VALIDATION_ERROR", v.Message(), ErrValidation)
}

// text reads string and *string values; ok is false for anything else or a nil pointer.
func text(value any) (string, bool) {
	switch t := value.(type) {
	case string:
		return t, true
	case *string:
		if t != nil {
			return *t, true
		}
	}
	return "", false
}

// Required rejects nil, empty and whitespace-only values.
func Required(field string, value any) *ValidationError {
	if s, ok := text(value); !ok || strings.TrimSpace(s) == "" {
		return &ValidationError{Field: field, Value: value, Message: "é obrigatório"}
	}
	return nil
}

// MaxLen limits a value to max runes.
func MaxLen(max int) ValidationRule {
	return func(field string, value any) *ValidationError {
		s, ok := text(value)
		if ok && utf8.RuneCountInString(s) > max {
			return &ValidationError{Field: field, Value: value, Message: fmt.Sprintf("deve ter no máximo %d caracteres", max)}
		}
		return nil
	}
}

// OneOf accepts only the listed values, ignoring case. Empty values pass.
func OneOf(allowed ...string) ValidationRule {
	return func(field string, value any) *ValidationError {
		s, _ := text(value)
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		for _, a := range allowed {
			if strings.EqualFold(s, a) {
				return nil
			}
		}
		return &ValidationError{Field: field, Value: value, Message: "deve ser um de " + strings.Join(allowed, ", ")}
	}
}

var cnpjShape = regexp.MustCompile(`^(?:\d{14}|\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2})$`)

// CNPJ accepts a Brazilian company tax ID, formatted or bare, with valid check digits.
// Empty values pass.
func CNPJ(field string, value any) *ValidationError {
	s, _ := text(value)
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if !cnpjShape.MatchString(s) || !cnpjCheckDigits(onlyDigits(s)) {
		return &ValidationError{Field: field, Value: value, Message: "CNPJ inválido"}
	}
	return nil
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// cnpjCheckDigits verifies the two mod-11 check digits; repeated digits are rejected.
func cnpjCheckDigits(d string) bool {
	if len(d) != 14 || strings.Count(d, d[:1]) == 14 {
		return false
	}
	digit := func(n int) byte {
		weights := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}[13-n:]
		sum := 0
		for i, w := range weights {
			sum += int(d[i]-'0') * w
		}
		r := sum % 11
		if r < 2 {
			return '0'
		}
		return byte('0' + 11 - r)
	}
	return d[12] == digit(12) && d[13] == digit(13)
}
