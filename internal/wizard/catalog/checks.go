// internal/wizard/catalog/checks.go
package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"rental-wizard/internal/models"
)

const dateLayout = "2006-01-02"

const (
	msgRequired      = "this field is required"
	msgInvalidDate   = "enter a valid date (YYYY-MM-DD)"
	msgFutureDate    = "must be a date after today"
	msgPastDate      = "must be a date in the past"
	msgInvalidEmail  = "enter a valid email address"
	msgInvalidNumber = "enter a valid number"
	msgDocRequired   = "this document is required"
	msgMustAccept    = "you must accept to continue"
)

func parseDate(v string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(v))
	return t, err == nil
}

// requiredText validates a mandatory free-text field with a length cap.
func requiredText(v string, maxLen int) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return msgRequired
	}
	if maxLen > 0 && len(v) > maxLen {
		return fmt.Sprintf("must be at most %d characters", maxLen)
	}
	return ""
}

// optionalEmail is format-only: an empty value passes.
func optionalEmail(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if err := validation.Validate(v, is.Email); err != nil {
		return msgInvalidEmail
	}
	return ""
}

func requiredEmail(v string) string {
	if msg := requiredText(v, 255); msg != "" {
		return msg
	}
	if err := validation.Validate(strings.TrimSpace(v), is.Email); err != nil {
		return msgInvalidEmail
	}
	return ""
}

// requiredAmount validates a mandatory decimal amount carried as a string.
func requiredAmount(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return msgRequired
	}
	if err := validation.Validate(v, is.Float); err != nil {
		return msgInvalidNumber
	}
	if f, err := strconv.ParseFloat(v, 64); err != nil || f < 0 {
		return msgInvalidNumber
	}
	return ""
}

// requiredFutureDate: strictly after today, evaluated against env.Now on
// every call so a stored date goes stale as time passes.
func requiredFutureDate(v string, env Env) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return msgRequired
	}
	d, ok := parseDate(v)
	if !ok {
		return msgInvalidDate
	}
	if !d.After(env.Today()) {
		return msgFutureDate
	}
	return ""
}

// requiredPastDate: today or earlier.
func requiredPastDate(v string, env Env) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return msgRequired
	}
	d, ok := parseDate(v)
	if !ok {
		return msgInvalidDate
	}
	if d.After(env.Today()) {
		return msgPastDate
	}
	return ""
}

// optionalPastDate is format-only when empty.
func optionalPastDate(v string, env Env) string {
	if strings.TrimSpace(v) == "" {
		return ""
	}
	return requiredPastDate(v, env)
}

func requiredDoc(s *models.Snapshot, env Env, key models.DocumentKey) string {
	if env.HasDocument(s, key) {
		return ""
	}
	return msgDocRequired
}

func requiredTrue(v bool) string {
	if !v {
		return msgMustAccept
	}
	return ""
}

// intInRange validates a mandatory integer bound on both sides.
func intInRange(v, min, max int) string {
	if err := validation.Validate(v, validation.Required, validation.Min(min), validation.Max(max)); err != nil {
		return fmt.Sprintf("must be between %d and %d", min, max)
	}
	return ""
}
