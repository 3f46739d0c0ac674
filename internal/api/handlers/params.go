package handlers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/careseeker/careseeker-backend/pkg/errors"
)

// Query parameter coercion helpers. An absent parameter yields a nil
// pointer (no predicate); a present but malformed one is a validation
// failure, never silently dropped.

func parseFloatParam(values url.Values, name string) (*float64, error) {
	raw := values.Get(name)
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%s must be a number", name))
	}
	return &parsed, nil
}

func parseIntParam(values url.Values, name string) (*int, error) {
	raw := values.Get(name)
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%s must be an integer", name))
	}
	return &parsed, nil
}

func parseBoolParam(values url.Values, name string) (*bool, error) {
	raw := values.Get(name)
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%s must be a boolean", name))
	}
	return &parsed, nil
}

// parseListParam accepts both repeated parameters (?x=a&x=b) and
// comma-separated values (?x=a,b), combined.
func parseListParam(values url.Values, name string) []string {
	var items []string
	for _, raw := range values[name] {
		for _, item := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				items = append(items, trimmed)
			}
		}
	}
	return items
}
