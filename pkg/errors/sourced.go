package errors

// SourceError labels an error with the name of the remote service that produced it.
type SourceError struct {
	Source string
	Err    error
}

// Sourced labels err with its source. A nil err yields nil.
//
// Errors already labelled are returned as is, so that the innermost label wins.
func Sourced(source string, err error) error {
	if err == nil {
		return nil
	}
	var already *SourceError
	if As(err, &already) {
		return err
	}
	return &SourceError{Source: source, Err: err}
}

func (e *SourceError) Error() string {
	if e.Source == "" {
		return e.Err.Error()
	}
	return e.Source + ": " + e.Err.Error()
}

// Unwrap the labelled error
func (e *SourceError) Unwrap() error {
	return e.Err
}

// SourceOf returns the label of the first SourceError found in err's chain
func SourceOf(err error) (string, bool) {
	var se *SourceError
	if !As(err, &se) {
		return "", false
	}
	return se.Source, true
}
