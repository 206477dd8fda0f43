package xerrors

// Unwrap flattens an error created by errors.Join into its parts.
// Any other error is returned as a single element slice, nil as an empty one.
func Unwrap(err error) []error {
	if err == nil {
		return nil
	}
	u, ok := err.(interface {
		Unwrap() []error
	})
	if !ok {
		return []error{err}
	}
	return u.Unwrap()
}

// Messages returns the messages of all errors joined into err.
func Messages(err error) []string {
	errs := Unwrap(err)
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, e.Error())
	}
	return messages
}
