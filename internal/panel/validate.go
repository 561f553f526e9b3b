package panel

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"
)

// ValidationError lists the rejected fields with a message for each.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return "validation failed: " + strings.Join(msgs, " ")
}

type rule int

const (
	required rule = iota
	optional
	optionalEmail
)

type field struct {
	key  string
	rule rule
}

// validate checks input against fields and returns the accepted values in
// field order. Optional fields absent from input are left out.
func validate(input map[string]string, fields []field) (map[string]string, []string, error) {
	out := make(map[string]string, len(fields))
	var order []string
	errs := map[string]string{}

	for _, f := range fields {
		raw, present := input[f.key]
		value := strings.TrimSpace(raw)

		switch f.rule {
		case required:
			if value == "" {
				errs[f.key] = fmt.Sprintf("The %s field is required.", f.key)
				continue
			}
		case optionalEmail:
			if value != "" && !isEmail(value) {
				errs[f.key] = fmt.Sprintf("The %s field must be a valid email address.", f.key)
				continue
			}
		}

		if !present {
			continue
		}
		out[f.key] = value
		order = append(order, f.key)
	}

	if len(errs) > 0 {
		return nil, nil, &ValidationError{Fields: errs}
	}
	return out, order, nil
}

func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func requiredFields(keys []string) []field {
	fields := make([]field, len(keys))
	for i, k := range keys {
		fields[i] = field{key: k, rule: required}
	}
	return fields
}
