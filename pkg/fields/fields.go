// Package fields implements the declarative form-field validation shared by
// every mutating route: a rule list is applied to the raw multipart values
// in declaration order and validation stops at the first failing field.
package fields

// ValidationError names the first field that failed and the message
// configured for its rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ParseFunc turns a raw string form value into its cleaned representation.
type ParseFunc func(raw string) (any, error)

// Rule validates a single form field. Required rules fail when the field is
// absent or empty; optional rules are skipped instead.
type Rule struct {
	Field    string
	Optional bool
	Message  string
	Parse    ParseFunc
}

// Values holds cleaned form values keyed by field name.
type Values map[string]any

func (v Values) Has(field string) bool {
	_, ok := v[field]
	return ok
}

func (v Values) String(field string) string {
	s, _ := v[field].(string)
	return s
}

func (v Values) Bool(field string) bool {
	b, _ := v[field].(bool)
	return b
}

// Validate applies rules in declaration order, stopping at the first invalid
// field. It returns either the cleaned values or the failure, never both.
func Validate(form map[string][]string, rules []Rule) (Values, *ValidationError) {
	cleaned := Values{}

	for _, rule := range rules {
		raw := ""
		if values, ok := form[rule.Field]; ok && len(values) > 0 {
			raw = values[0]
		}

		if raw == "" {
			if rule.Optional {
				continue
			}
			return nil, &ValidationError{Field: rule.Field, Message: rule.Message}
		}

		value, err := rule.Parse(raw)
		if err != nil {
			return nil, &ValidationError{Field: rule.Field, Message: rule.Message}
		}

		cleaned[rule.Field] = value
	}

	return cleaned, nil
}

// Allowlisted reports whether every field present in form belongs to allow.
// Absence of allowlisted fields is fine; this rejects unknown fields only.
func Allowlisted(form map[string][]string, allow []string) bool {
	for field := range form {
		known := false
		for _, name := range allow {
			if field == name {
				known = true
				break
			}
		}
		if !known {
			return false
		}
	}
	return true
}
