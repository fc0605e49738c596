package model

// ValidationError reports user input violating a domain rule. It is always
// recoverable and names the field it applies to.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}
