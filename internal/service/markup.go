package service

import (
	"careerflow-api/internal/domain"
	"careerflow-api/internal/security"
)

// markupField pairs a request field name with its submitted value.
type markupField struct {
	name  string
	value string
}

// checkMarkup rejects free text that uses markup outside the policy. Values
// are never rewritten.
func checkMarkup(p security.Policy, fields ...markupField) error {
	var bad []string
	for _, f := range fields {
		if !p.Allowed(f.value) {
			bad = append(bad, f.name+" contains markup that is not allowed")
		}
	}
	if len(bad) > 0 {
		return domain.Validation("validation failed", bad...)
	}
	return nil
}
