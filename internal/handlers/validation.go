package handlers

import (
	"strings"
)

// FieldError is one field-level validation failure. Validation runs before
// any store mutation and the full list is returned in one response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"msg"`
}

func validateRegistration(username, email, password string) []FieldError {
	var errs []FieldError
	if len(username) < 3 || len(username) > 30 {
		errs = append(errs, FieldError{"username", "Username must be 3-30 characters"})
	}
	if !strings.Contains(email, "@") || strings.TrimSpace(email) == "" {
		errs = append(errs, FieldError{"email", "A valid email is required"})
	}
	if len(password) < 6 {
		errs = append(errs, FieldError{"password", "Password must be at least 6 characters"})
	}
	return errs
}

// validateQuestion checks the creation constraints. When partial is true,
// empty fields are skipped (updates may touch a subset).
func validateQuestion(title, description string, tags []string, partial bool) []FieldError {
	var errs []FieldError
	if !partial || title != "" {
		if len(title) < 10 || len(title) > 200 {
			errs = append(errs, FieldError{"title", "Title must be 10-200 characters"})
		}
	}
	if !partial || description != "" {
		if len(description) < 20 {
			errs = append(errs, FieldError{"description", "Description must be at least 20 characters"})
		}
	}
	if !partial || tags != nil {
		if n := len(normalizeTags(tags)); n < 1 || n > 5 {
			errs = append(errs, FieldError{"tags", "Must have 1-5 tags"})
		}
	}
	return errs
}

func validateAnswerContent(content string) []FieldError {
	if len(content) < 10 {
		return []FieldError{{"content", "Answer must be at least 10 characters"}}
	}
	return nil
}

// normalizeTags lowercases, trims and deduplicates while keeping order.
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
