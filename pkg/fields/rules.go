package fields

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var errInvalid = errors.New("invalid value")

// String accepts any non-blank string.
func String() ParseFunc {
	return func(raw string) (any, error) {
		if strings.TrimSpace(raw) == "" {
			return nil, errInvalid
		}
		return raw, nil
	}
}

// BoundedString accepts a non-blank string within [min, max] runes.
func BoundedString(min, max int) ParseFunc {
	return func(raw string) (any, error) {
		if strings.TrimSpace(raw) == "" {
			return nil, errInvalid
		}
		if n := len([]rune(raw)); n < min || n > max {
			return nil, errInvalid
		}
		return raw, nil
	}
}

// Bool accepts "true" or "false", case-insensitive. Anything else fails.
func Bool() ParseFunc {
	return func(raw string) (any, error) {
		switch strings.ToLower(raw) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, errInvalid
	}
}

// URL accepts a URL shape where both the protocol and the top-level domain
// are optional ("a.com", "localhost:3000" and "https://a.com/x" all pass).
func URL() ParseFunc {
	return func(raw string) (any, error) {
		if strings.TrimSpace(raw) == "" || strings.ContainsAny(raw, " \t") {
			return nil, errInvalid
		}
		candidate := raw
		if !strings.Contains(candidate, "://") {
			candidate = "http://" + candidate
		}
		parsed, err := url.Parse(candidate)
		if err != nil || parsed.Hostname() == "" {
			return nil, errInvalid
		}
		return raw, nil
	}
}

// ID accepts the storage layer's canonical id format and yields a uuid.UUID.
func ID() ParseFunc {
	return func(raw string) (any, error) {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, errInvalid
		}
		return id, nil
	}
}

// JSONOf decodes a serialized JSON object into T and validates its shape.
// Parse or shape failures surface as a field error, never as a panic across
// the rule boundary.
func JSONOf[T any](validate *validator.Validate) ParseFunc {
	return func(raw string) (any, error) {
		var value T
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		if err := validate.Struct(value); err != nil {
			return nil, fmt.Errorf("shape: %w", err)
		}
		return value, nil
	}
}

// JSONSliceOf decodes a serialized JSON array into []T, requires it to be
// non-empty and validates every element's shape.
func JSONSliceOf[T any](validate *validator.Validate) ParseFunc {
	return func(raw string) (any, error) {
		var values []T
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		if len(values) == 0 {
			return nil, errInvalid
		}
		for _, value := range values {
			if err := validate.Struct(value); err != nil {
				return nil, fmt.Errorf("shape: %w", err)
			}
		}
		return values, nil
	}
}

// IDList decodes a serialized JSON array of id-format strings. The array
// must be non-empty and every element must individually parse.
func IDList() ParseFunc {
	return func(raw string) (any, error) {
		var values []string
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		if len(values) == 0 {
			return nil, errInvalid
		}
		ids := make([]uuid.UUID, 0, len(values))
		for _, value := range values {
			id, err := uuid.Parse(value)
			if err != nil {
				return nil, errInvalid
			}
			ids = append(ids, id)
		}
		return ids, nil
	}
}
