package validator

import (
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// UUID validation
func IsValidUUID(uuid string) bool {
	return uuidRegex.MatchString(strings.ToLower(uuid))
}

// IsValidISODate checks a zero-padded "YYYY-MM-DD" date string. Payroll
// period containment compares these strings lexicographically, which is
// only correct while every stored date keeps this fixed-width format.
func IsValidISODate(dateStr string) bool {
	if len(dateStr) != 10 {
		return false
	}
	_, err := time.Parse("2006-01-02", dateStr)
	return err == nil
}

// ParseISODate parses a "YYYY-MM-DD" date string.
func ParseISODate(dateStr string) (time.Time, error) {
	return time.Parse("2006-01-02", dateStr)
}

// IsInSlice reports whether value is present in slice.
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}
