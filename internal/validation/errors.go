package validation

// FieldError is a single failed rule, keyed by the form field name.
type FieldError struct {
	Field   string
	Message string
}

// Errors collects every failed rule of a submission in field order.
type Errors []FieldError

// Any reports whether at least one rule failed.
func (e Errors) Any() bool {
	return len(e) > 0
}

// Has reports whether the named field failed a rule.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Messages returns the user-facing messages in order.
func (e Errors) Messages() []string {
	messages := make([]string, 0, len(e))
	for _, fe := range e {
		messages = append(messages, fe.Message)
	}
	return messages
}

func (e *Errors) add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}
