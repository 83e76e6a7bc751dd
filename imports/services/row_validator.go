package services

import (
	"fmt"
	"strings"
)

// FileHeader is the required column set for guest import files.
var FileHeader = []string{
	"first_name",
	"last_name",
	"email",
	"phone_number",
	"address",
	"city",
	"state",
	"zip",
	"country",
	"tags",
}

// ValidateRow checks one row mapping against the required-field schema.
// Returns (true, "") for a valid row, otherwise (false, reason). Validation is
// pure: no database access, no mutation of the row.
func ValidateRow(row map[string]string, lineNo int) (bool, string) {
	for _, key := range FileHeader {
		value, ok := row[key]
		if !ok {
			return false, fmt.Sprintf("Missing %s in line: %d", key, lineNo)
		}

		if key == "email" {
			if !strings.Contains(value, "@") || !strings.Contains(value, ".") {
				return false, fmt.Sprintf("Invalid email: %s", value)
			}
		}

		if key == "tags" {
			if _, err := ParseTags(value); err != nil {
				return false, fmt.Sprintf("Tags must be a list: %s", value)
			}
		}
	}

	return true, ""
}

// ParseTags converts the bracketed textual form "[vip, family]" into a list of
// tag names. "[]" yields an empty list. Anything not wrapped in brackets is an
// error.
func ParseTags(raw string) ([]string, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return nil, fmt.Errorf("tags value %q is not a list", raw)
	}

	inner := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	if inner == "" {
		return []string{}, nil
	}

	parts := strings.Split(inner, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		tags = append(tags, name)
	}
	return tags, nil
}

// ConcatenateAddress joins the non-empty address components with ", " into the
// guest's location string.
func ConcatenateAddress(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}
	return strings.Join(nonEmpty, ", ")
}
